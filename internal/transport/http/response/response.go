package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"authmini/internal/domain"
)

// Err 所有失败响应的统一形状
type Err struct {
	Error string `json:"error"`
}

// Classify 返回状态码和可以对外暴露的文案
func Classify(err error) (int, string) {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, MsgTimeout
	}
	status := StatusOf(domain.KindOf(err))
	if status >= 500 {
		return status, MsgInternal
	}
	return status, err.Error()
}

// Abort 直接按状态码和文案中断
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Err{Error: msg})
}

// Fail 按错误类别中断；5xx 记录原始错误
func Fail(c *gin.Context, l *zap.Logger, err error) {
	status, msg := Classify(err)
	if status >= 500 && l != nil {
		l.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	Abort(c, status, msg)
}
