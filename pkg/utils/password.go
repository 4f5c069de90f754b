package utils

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost 工作因子固定为 10
const DefaultBcryptCost = 10

type PasswordHasher struct{ Cost int }

// NewPasswordHasher cost 越界时回落到默认值
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{Cost: cost}
}

// Hash 超过 72 字节的密码返回 bcrypt.ErrPasswordTooLong
func (h *PasswordHasher) Hash(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify 摘要格式错误也按不匹配处理
func (h *PasswordHasher) Verify(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
