// Package notification turns lead lifecycle events into per-user
// notifications and exposes the notification inbox API.
package notification

import (
	"cleardoor_backend/internal/email"
	"cleardoor_backend/internal/events"
	apphttp "cleardoor_backend/internal/http"
	"cleardoor_backend/internal/notification/handler"
	"cleardoor_backend/internal/notification/repository"
	"cleardoor_backend/internal/notification/service"
	"cleardoor_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the notification bounded context module.
type Module struct {
	dispatcher *service.Dispatcher
	handler    *handler.Handler
}

// NewModule wires the notification dispatcher against the auth
// directory and lead directory. sender may be nil when email delivery
// is disabled.
func NewModule(pool *pgxpool.Pool, auth AuthDirectory, leads service.LeadDirectory, sender email.Sender, log *logger.Logger) *Module {
	repo := repository.New(pool)
	dispatcher := service.NewDispatcher(repo, userDirectory{auth: auth}, leads, sender, log)
	h := handler.New(dispatcher)

	return &Module{
		dispatcher: dispatcher,
		handler:    h,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notifications"
}

// RegisterHandlers subscribes the dispatcher to lead lifecycle events.
// Both the API server and the scheduler worker call this.
func (m *Module) RegisterHandlers(bus events.Bus) {
	m.dispatcher.RegisterHandlers(bus)
}

// RegisterRoutes mounts the notification inbox routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	notifications := ctx.Protected.Group("/notifications")
	notifications.GET("", m.handler.List)
	notifications.GET("/unread-count", m.handler.UnreadCount)
	notifications.POST("/:id/read", m.handler.MarkRead)
	notifications.POST("/read-all", m.handler.MarkAllRead)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
