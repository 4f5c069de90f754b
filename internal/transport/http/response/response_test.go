package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"authmini/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{domain.Validation("email and password are required"), 400, "email and password are required"},
		{domain.ErrDuplicateEmail, 400, "registration conflict"},
		{domain.ErrInvalidCredentials, 401, "invalid credentials or account disabled"},
		{domain.ErrMissingToken, 401, "no token provided"},
		{domain.ErrInvalidToken, 401, "invalid token"},
		{domain.Forbidden("admin access required"), 403, "admin access required"},
		{domain.ErrUserNotFound, 404, "user not found"},
		{fmt.Errorf("wrapped: %w", domain.ErrUserNotFound), 404, "wrapped: user not found"},
		{domain.Internal("create user failed", errors.New("pq: connection refused")), 500, MsgInternal},
		{errors.New("raw driver error"), 500, MsgInternal},
	}
	for _, tc := range cases {
		status, msg := Classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.msg, msg)
	}
}

func TestFail_LogsInternalCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.ErrorLevel)
	l := zap.New(core)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/me", nil)

	Fail(c, l, domain.Internal("load user failed", errors.New("disk on fire")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body Err
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, MsgInternal, body.Error)
	assert.NotContains(t, w.Body.String(), "disk on fire")

	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].ContextMap()["error"], "disk on fire")
}

func TestFail_ClientErrorNotLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/login", nil)

	Fail(c, zap.New(core), domain.ErrInvalidCredentials)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid credentials or account disabled"}`, w.Body.String())
	assert.Zero(t, logs.Len())
}

func TestClassify_Deadline(t *testing.T) {
	err := domain.Internal("load user failed", fmt.Errorf("query: %w", context.DeadlineExceeded))
	status, msg := Classify(err)
	assert.Equal(t, http.StatusGatewayTimeout, status)
	assert.Equal(t, MsgTimeout, msg)
}
