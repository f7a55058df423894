package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"smartintern/internal/api/middleware"
	"smartintern/internal/automation"
)

// AutomationHandler 触发提醒规则扫描并返回派生通知。
type AutomationHandler struct {
	engine *automation.Engine
}

// NewAutomationHandler 构造 AutomationHandler。
func NewAutomationHandler(engine *automation.Engine) *AutomationHandler {
	return &AutomationHandler{engine: engine}
}

// Run recomputes the caller's notifications from scratch. Nothing is stored,
// so the call is idempotent.
func (h *AutomationHandler) Run(c *gin.Context) {
	email, ok := middleware.UserEmailFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	if h.engine == nil {
		DatabaseUnavailable(c)
		return
	}

	notifications, err := h.engine.Run(c.Request.Context(), email, time.Now())
	if err != nil {
		middleware.LoggerFromContext(c).Error("automation run failed", slog.Any("error", err))
		Internal(c, "failed to run automation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
