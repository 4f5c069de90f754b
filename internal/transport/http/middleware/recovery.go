package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "authmini/internal/transport/http/response"
)

// RecoveryJSON 配合 ginzap.CustomRecoveryWithZap 使用，panic 已由 ginzap 记录
func RecoveryJSON(c *gin.Context, _ any) {
	resp.Abort(c, http.StatusInternalServerError, resp.MsgInternal)
}
