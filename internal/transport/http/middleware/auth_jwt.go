package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"authmini/internal/core/auth"
	"authmini/internal/domain"
	resp "authmini/internal/transport/http/response"
)

// KeyClaims gin 上下文里存放 *auth.Claims 的 key
const KeyClaims = "claims"

const bearerPrefix = "Bearer "

// AuthJWT 校验 Authorization 头并按角色放行
//
// required 取 auth.TierAuthenticated 表示任意角色，取 domain.RoleAdmin 表示仅管理员。
// 缺失或无法校验的令牌 401，角色不符 403。
func AuthJWT(j *auth.JWTer, required domain.Role, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var claims *auth.Claims
		// 前缀大小写敏感
		if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, bearerPrefix) {
			parsed, err := j.Parse(strings.TrimPrefix(ah, bearerPrefix))
			if err != nil {
				resp.Fail(c, l, err)
				return
			}
			claims = parsed
		}
		if err := auth.Authorize(claims, required); err != nil {
			resp.Fail(c, l, err)
			return
		}
		if claims != nil {
			c.Set(KeyClaims, claims)
		}
		c.Next()
	}
}

// ClaimsFrom 取出 AuthJWT 写入的 claims，未经过鉴权时为 nil
func ClaimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
