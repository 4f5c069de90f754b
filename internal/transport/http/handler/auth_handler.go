package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"authmini/internal/domain"
	"authmini/internal/service"
	httpez "authmini/internal/transport/http/ez"
	mdw "authmini/internal/transport/http/middleware"
)

// AuthHandler 注册 / 登录 / 个人信息
type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

func NewAuthHandler(a *service.AuthService, u *service.UserService) *AuthHandler {
	return &AuthHandler{auth: a, users: u}
}

type credentialsIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageOut struct {
	Message string `json:"message"`
}

type registerOut struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type userOut struct {
	User *domain.User `json:"user"`
}

type profileIn struct {
	DisplayName string `json:"displayName" binding:"max=120"`
	Bio         string `json:"bio" binding:"max=1024"`
	AvatarURL   string `json:"avatarUrl" binding:"omitempty,url,max=512"`
}

type settingsIn struct {
	Theme         string `json:"theme" binding:"max=32"`
	Notifications bool   `json:"notifications"`
}

type passwordIn struct {
	NewPassword string `json:"newPassword"`
}

// MountPublic 无需令牌的接口
func (h *AuthHandler) MountPublic(ez httpez.EZ) {
	httpez.RegisterAction(ez, httpez.Action[credentialsIn, registerOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *credentialsIn) (registerOut, error) {
			id, err := h.auth.Register(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return registerOut{}, err
			}
			return registerOut{ID: id, Message: "User registered successfully"}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[credentialsIn, *service.LoginResult]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *credentialsIn) (*service.LoginResult, error) {
			return h.auth.Login(c.Request.Context(), in.Email, in.Password)
		},
	})

	// 无状态令牌，服务端没有可注销的会话
	httpez.RegisterAction(ez, httpez.Action[struct{}, messageOut]{
		Method: http.MethodPost,
		Path:   "/logout",
		Binder: httpez.BindNone,
		Handler: func(*gin.Context, *struct{}) (messageOut, error) {
			return messageOut{Message: "Logged out successfully"}, nil
		},
	})
}

// MountAuthed 需要任意角色令牌的接口
func (h *AuthHandler) MountAuthed(ez httpez.EZ) {
	httpez.RegisterAction(ez, httpez.Action[struct{}, userOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (userOut, error) {
			id, err := callerID(c)
			if err != nil {
				return userOut{}, err
			}
			u, err := h.auth.Me(c.Request.Context(), id)
			if err != nil {
				return userOut{}, err
			}
			return userOut{User: u}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[profileIn, messageOut]{
		Method: http.MethodPost,
		Path:   "/profile",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *profileIn) (messageOut, error) {
			id, err := callerID(c)
			if err != nil {
				return messageOut{}, err
			}
			if err := h.users.UpdateProfile(c.Request.Context(), id, domain.Profile(*in)); err != nil {
				return messageOut{}, err
			}
			return messageOut{Message: "Profile updated successfully"}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[settingsIn, messageOut]{
		Method: http.MethodPost,
		Path:   "/settings",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *settingsIn) (messageOut, error) {
			id, err := callerID(c)
			if err != nil {
				return messageOut{}, err
			}
			if err := h.users.UpdateSettings(c.Request.Context(), id, domain.Settings(*in)); err != nil {
				return messageOut{}, err
			}
			return messageOut{Message: "Settings updated successfully"}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[passwordIn, messageOut]{
		Method: http.MethodPost,
		Path:   "/password",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *passwordIn) (messageOut, error) {
			id, err := callerID(c)
			if err != nil {
				return messageOut{}, err
			}
			if err := h.users.ChangePassword(c.Request.Context(), id, in.NewPassword); err != nil {
				return messageOut{}, err
			}
			return messageOut{Message: "Password changed successfully"}, nil
		},
	})
}

// callerID 分组已挂 AuthJWT，这里拿不到说明路由挂错了
func callerID(c *gin.Context) (int64, error) {
	claims := mdw.ClaimsFrom(c)
	if claims == nil {
		return 0, domain.ErrMissingToken
	}
	return claims.ID, nil
}
