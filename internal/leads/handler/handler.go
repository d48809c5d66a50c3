package handler

import (
	"context"
	"net/http"

	"cleardoor_backend/internal/leads/repository"
	"cleardoor_backend/internal/leads/service"
	"cleardoor_backend/internal/leads/transport"
	"cleardoor_backend/platform/httpkit"
	"cleardoor_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidLeadID  = "invalid lead id"
)

type Handler struct {
	svc           *service.Service
	val           *validator.Validator
	maxPhotoBytes int64
}

func New(svc *service.Service, val *validator.Validator, maxPhotoBytes int64) *Handler {
	return &Handler{svc: svc, val: val, maxPhotoBytes: maxPhotoBytes}
}

func actorFrom(c *gin.Context) (service.Actor, bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return service.Actor{}, false
	}
	role := "engineer"
	if id.IsAdmin() {
		role = "admin"
	}
	return service.Actor{ID: id.UserID(), Role: role}, true
}

func leadIDFrom(c *gin.Context) (uuid.UUID, bool) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return uuid.Nil, false
	}
	return leadID, true
}

// Submit handles first-time lead submission.
func (h *Handler) Submit(c *gin.Context) {
	h.submit(c, nil)
}

// Resubmit handles edit-and-fix resubmission of an existing lead.
func (h *Handler) Resubmit(c *gin.Context) {
	leadID, ok := leadIDFrom(c)
	if !ok {
		return
	}
	h.submit(c, &leadID)
}

func (h *Handler) submit(c *gin.Context, existingLeadID *uuid.UUID) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req transport.SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), req.ToFormState(), actor, existingLeadID)
	if httpkit.HandleError(c, err) {
		return
	}

	status := http.StatusOK
	if existingLeadID == nil {
		status = http.StatusCreated
	}
	httpkit.JSON(c, status, transport.SubmitLeadResponse{
		LeadID:     result.LeadID.String(),
		LeadNumber: result.LeadNumber,
		Status:     string(result.Status),
	})
}

func (h *Handler) List(c *gin.Context) {
	summaries, err := h.svc.ListActive(c.Request.Context(), c.Query("status"))
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.LeadSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, transport.NewLeadSummaryResponse(summary))
	}
	httpkit.OK(c, gin.H{"leads": out})
}

func (h *Handler) Detail(c *gin.Context) {
	leadID, ok := leadIDFrom(c)
	if !ok {
		return
	}

	detail, err := h.svc.Detail(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewLeadDetailResponse(detail))
}

// UploadPhoto accepts a multipart door photo and returns its storage
// reference plus any embedded geotag.
func (h *Handler) UploadPhoto(c *gin.Context) {
	leadID, ok := leadIDFrom(c)
	if !ok {
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "photo file is required", nil)
		return
	}
	if h.maxPhotoBytes > 0 && file.Size > h.maxPhotoBytes {
		httpkit.Error(c, http.StatusBadRequest, "photo exceeds the maximum allowed size", nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "failed to read photo", nil)
		return
	}
	defer src.Close()

	upload, err := h.svc.UploadDoorPhoto(c.Request.Context(), leadID, file.Filename, file.Header.Get("Content-Type"), src)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.PhotoUploadResponse{
		PhotoReference: upload.Reference,
		Latitude:       upload.Latitude,
		Longitude:      upload.Longitude,
	})
}

func (h *Handler) Approve(c *gin.Context) {
	leadID, ok := leadIDFrom(c)
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	lead, err := h.svc.Approve(c.Request.Context(), leadID, actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewLeadResponse(lead))
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.svc.Reject)
}

func (h *Handler) Close(c *gin.Context) {
	h.decide(c, h.svc.ClosePermanently)
}

type decisionFunc func(ctx context.Context, leadID uuid.UUID, admin service.Actor, reason string) (repository.Lead, error)

func (h *Handler) decide(c *gin.Context, decision decisionFunc) {
	leadID, ok := leadIDFrom(c)
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req transport.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	lead, err := decision(c.Request.Context(), leadID, actor, req.Reason)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewLeadResponse(lead))
}
