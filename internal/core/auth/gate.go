package auth

import "authmini/internal/domain"

// 闸门等级，与 domain.Role 同类型，可直接传入 Authorize
const (
	TierPublic        domain.Role = ""  // 不要求令牌
	TierAuthenticated domain.Role = "*" // 任意已登录角色
)

// Authorize 角色闸门
//
// 未登录返回 Unauthenticated（401），角色不符返回 Forbidden（403）。
// 这里只看令牌里的角色，签发后的角色变更要等令牌过期才生效。
func Authorize(c *Claims, required domain.Role) error {
	if required == TierPublic {
		return nil
	}
	if c == nil {
		return domain.ErrMissingToken
	}
	if required == TierAuthenticated || c.Role == required {
		return nil
	}
	return domain.Forbidden(string(required) + " access required")
}
