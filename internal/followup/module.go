package followup

import (
	"net/http"

	apphttp "cleardoor_backend/internal/http"
	"cleardoor_backend/platform/httpkit"
	"cleardoor_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module exposes the on-demand follow-up scan endpoint. The scheduled
// scan runs in the worker binary; this route lets field users trigger
// the same scan immediately. Reminder dedup makes overlap harmless.
type Module struct {
	scanner *Scanner
	log     *logger.Logger
}

func NewModule(scanner *Scanner, log *logger.Logger) *Module {
	return &Module{scanner: scanner, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "followup"
}

// Scanner returns the scanner for scheduler wiring.
func (m *Module) Scanner() *Scanner {
	return m.scanner
}

// RegisterRoutes mounts the scan trigger route.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/leads/scan-followups", m.scan)
}

func (m *Module) scan(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	count, err := m.scanner.Scan(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	m.log.Info("manual follow-up scan", "triggered_by", id.UserID(), "due", count)
	httpkit.JSON(c, http.StatusOK, gin.H{"due": count})
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
