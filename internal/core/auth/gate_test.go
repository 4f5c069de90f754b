package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"authmini/internal/domain"
)

func TestAuthorize(t *testing.T) {
	user := &Claims{ID: 2, Email: "u@x.com", Role: domain.RoleUser}
	admin := &Claims{ID: 1, Email: "a@x.com", Role: domain.RoleAdmin}

	tests := []struct {
		name     string
		claims   *Claims
		required domain.Role
		want     domain.Kind
		admitted bool
	}{
		{"public without token", nil, TierPublic, 0, true},
		{"authenticated without token", nil, TierAuthenticated, domain.KindUnauthenticated, false},
		{"admin route without token", nil, domain.RoleAdmin, domain.KindUnauthenticated, false},
		{"user on authenticated route", user, TierAuthenticated, 0, true},
		{"user on admin route", user, domain.RoleAdmin, domain.KindForbidden, false},
		{"admin on admin route", admin, domain.RoleAdmin, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.claims, tt.required)
			if tt.admitted {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, domain.KindOf(err))
		})
	}
}
