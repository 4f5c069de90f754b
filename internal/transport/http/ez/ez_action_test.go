package ez

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"authmini/internal/domain"
)

type echoIn struct {
	Name string `json:"name" form:"name"`
	N    int    `json:"n" form:"n"`
}

func newEngine(t *testing.T) (*gin.Engine, EZ) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	return r, New(r.Group("/x"), zap.NewNop())
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAction_JSON(t *testing.T) {
	r, e := newEngine(t)
	RegisterAction(e, Action[echoIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *echoIn) (gin.H, error) {
			return gin.H{"name": in.Name, "n": in.N}, nil
		},
	})

	w := do(r, http.MethodPost, "/x/echo", `{"name":"a","n":2}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"name":"a","n":2}`, w.Body.String())

	w = do(r, http.MethodPost, "/x/echo", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, w.Body.String())
}

func TestRegisterAction_QueryAndErrors(t *testing.T) {
	r, e := newEngine(t)
	RegisterAction(e, Action[echoIn, gin.H]{
		Method: http.MethodGet,
		Path:   "/q",
		Binder: BindQuery,
		Handler: func(c *gin.Context, in *echoIn) (gin.H, error) {
			switch in.Name {
			case "missing":
				return nil, domain.ErrUserNotFound
			case "boom":
				return nil, errors.New("db exploded")
			}
			return gin.H{"n": in.N}, nil
		},
	})

	w := do(r, http.MethodGet, "/x/q?n=3", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"n":3}`, w.Body.String())

	w = do(r, http.MethodGet, "/x/q?n=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid query parameters"}`, w.Body.String())

	w = do(r, http.MethodGet, "/x/q?name=missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"user not found"}`, w.Body.String())

	w = do(r, http.MethodGet, "/x/q?name=boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "exploded")
}

func TestRegisterAction_MethodsAndParamID(t *testing.T) {
	r, e := newEngine(t)
	h := func(c *gin.Context, _ *struct{}) (gin.H, error) {
		id, err := ParamID(c, "id")
		if err != nil {
			return nil, err
		}
		return gin.H{"id": id, "method": c.Request.Method}, nil
	}
	for _, m := range []string{http.MethodPatch, http.MethodDelete, http.MethodPut} {
		RegisterAction(e, Action[struct{}, gin.H]{Method: m, Path: "/users/:id", Binder: BindNone, Handler: h})
	}

	w := do(r, http.MethodPatch, "/x/users/7", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"method":"PATCH"}`, w.Body.String())

	w = do(r, http.MethodDelete, "/x/users/7", "")
	assert.JSONEq(t, `{"id":7,"method":"DELETE"}`, w.Body.String())

	for _, bad := range []string{"abc", "0", "-3", "1.5"} {
		w = do(r, http.MethodPut, "/x/users/"+bad, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
		assert.JSONEq(t, `{"error":"invalid user ID"}`, w.Body.String())
	}
}

type strictIn struct {
	Avatar string `json:"avatarUrl" binding:"omitempty,url"`
	Theme  string `json:"theme" binding:"max=5"`
}

func TestRegisterAction_ValidationMessage(t *testing.T) {
	r, e := newEngine(t)
	RegisterAction(e, Action[strictIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/strict",
		Binder: BindJSON,
		Handler: func(*gin.Context, *strictIn) (gin.H, error) {
			return gin.H{"ok": true}, nil
		},
	})

	w := do(r, http.MethodPost, "/x/strict", `{"avatarUrl":"not a url"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"avatarUrl is invalid"}`, w.Body.String())

	w = do(r, http.MethodPost, "/x/strict", `{"theme":"solarized"}`)
	assert.JSONEq(t, `{"error":"theme is invalid"}`, w.Body.String())

	w = do(r, http.MethodPost, "/x/strict", `{"avatarUrl":"https://x.io/a.png","theme":"dark"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}
