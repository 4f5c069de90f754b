package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "authmini/internal/transport/http/response"
)

// DefaultMaxBodyBytes 1MB，认证接口的请求体都很小
const DefaultMaxBodyBytes int64 = 1 << 20

// MaxBodyBytes 超过 n 的请求体返回 413；读取超限由绑定层识别 *http.MaxBytesError
func MaxBodyBytes(n int64) gin.HandlerFunc {
	if n <= 0 {
		n = DefaultMaxBodyBytes
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			resp.Abort(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
