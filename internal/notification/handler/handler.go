// Package handler exposes the notification inbox endpoints.
package handler

import (
	"net/http"
	"strconv"

	"cleardoor_backend/internal/notification/service"
	"cleardoor_backend/internal/notification/transport"
	"cleardoor_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Dispatcher
}

func New(svc *service.Dispatcher) *Handler {
	return &Handler{svc: svc}
}

// List returns the caller's notifications, newest first.
func (h *Handler) List(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	notifications, err := h.svc.List(c.Request.Context(), id.UserID(), limit)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, transport.NewNotificationResponse(n))
	}
	httpkit.OK(c, gin.H{"notifications": out})
}

// UnreadCount returns how many unread notifications the caller has.
func (h *Handler) UnreadCount(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	count, err := h.svc.UnreadCount(c.Request.Context(), id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.UnreadCountResponse{Count: count})
}

// MarkRead marks one of the caller's notifications as read.
func (h *Handler) MarkRead(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid notification id", nil)
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), notificationID, id.UserID()); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"status": "read"})
}

// MarkAllRead marks every unread notification of the caller as read.
func (h *Handler) MarkAllRead(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	if err := h.svc.MarkAllRead(c.Request.Context(), id.UserID()); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"status": "read"})
}
