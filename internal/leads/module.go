// Package leads provides the lead lifecycle bounded context module:
// capture form submission, admin decisions, queries, and door photos.
package leads

import (
	"cleardoor_backend/internal/events"
	apphttp "cleardoor_backend/internal/http"
	"cleardoor_backend/internal/leads/handler"
	"cleardoor_backend/internal/leads/repository"
	"cleardoor_backend/internal/leads/service"
	"cleardoor_backend/platform/config"
	"cleardoor_backend/platform/logger"
	"cleardoor_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ModuleConfig combines the config interfaces the leads module needs.
type ModuleConfig interface {
	config.SubmissionConfig
	config.StorageConfig
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, bus events.Bus, cfg ModuleConfig, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, cfg, log)
	h := handler.New(svc, val, cfg.GetMinIOMaxFileSize())

	return &Module{
		handler:    h,
		service:    svc,
		repository: repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the lead repository for adapters (notification
// recipient lookups, follow-up scanning).
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// SetStorage wires the object store used for door photo uploads.
func (m *Module) SetStorage(storage service.Storage, bucket string) {
	m.service.SetStorage(storage, bucket)
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leads := ctx.Protected.Group("/leads")
	leads.POST("", m.handler.Submit)
	leads.GET("", m.handler.List)
	leads.GET("/:id", m.handler.Detail)
	leads.PUT("/:id", m.handler.Resubmit)
	leads.POST("/:id/photos", m.handler.UploadPhoto)

	adminLeads := ctx.Admin.Group("/leads")
	adminLeads.POST("/:id/approve", m.handler.Approve)
	adminLeads.POST("/:id/reject", m.handler.Reject)
	adminLeads.POST("/:id/close", m.handler.Close)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
