package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"authmini/internal/domain"
	"authmini/internal/service"
	httpez "authmini/internal/transport/http/ez"
)

// AdminHandler 用户管理与活动日志，分组统一要求 admin 角色
type AdminHandler struct {
	users    *service.UserService
	activity *service.ActivityService
}

func NewAdminHandler(u *service.UserService, a *service.ActivityService) *AdminHandler {
	return &AdminHandler{users: u, activity: a}
}

type listUsersQ struct {
	Search string `form:"search"`
	Active string `form:"active"` // "true" / "false" / 空
}

type listUsersOut struct {
	Users []domain.User `json:"users"`
}

type setActiveIn struct {
	IsActive *bool `json:"isActive"`
}

type setActiveOut struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type listLogsQ struct {
	UserID    int64  `form:"userId"`
	StartDate string `form:"startDate"` // 2006-01-02 或 RFC3339
}

type listLogsOut struct {
	Logs []domain.ActivityLog `json:"logs"`
}

func (h *AdminHandler) Mount(ez httpez.EZ) {
	// --- 用户列表 ---
	httpez.RegisterAction(ez, httpez.Action[listUsersQ, listUsersOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listUsersQ) (listUsersOut, error) {
			f := domain.UserFilter{Search: in.Search}
			if in.Active != "" {
				b, err := strconv.ParseBool(in.Active)
				if err != nil {
					return listUsersOut{}, domain.Validation("active must be true or false")
				}
				f.Active = &b
			}
			us, err := h.users.ListUsers(c.Request.Context(), f)
			if err != nil {
				return listUsersOut{}, err
			}
			if us == nil {
				us = []domain.User{}
			}
			return listUsersOut{Users: us}, nil
		},
	})

	// --- 用户详情 ---
	httpez.RegisterAction(ez, httpez.Action[struct{}, userOut]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (userOut, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return userOut{}, err
			}
			u, err := h.users.GetUser(c.Request.Context(), id)
			if err != nil {
				return userOut{}, err
			}
			return userOut{User: u}, nil
		},
	})

	// --- 启用 / 禁用 ---
	httpez.RegisterAction(ez, httpez.Action[setActiveIn, setActiveOut]{
		Method: http.MethodPatch,
		Path:   "/users/:id/active",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *setActiveIn) (setActiveOut, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return setActiveOut{}, err
			}
			if in.IsActive == nil {
				return setActiveOut{}, domain.Validation("isActive must be a boolean")
			}
			u, err := h.users.SetActive(c.Request.Context(), id, *in.IsActive)
			if err != nil {
				return setActiveOut{}, err
			}
			msg := "User disabled"
			if u.IsActive {
				msg = "User enabled"
			}
			return setActiveOut{Message: msg, User: u}, nil
		},
	})

	// --- 删除 ---
	httpez.RegisterAction(ez, httpez.Action[struct{}, messageOut]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (messageOut, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return messageOut{}, err
			}
			if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
				return messageOut{}, err
			}
			return messageOut{Message: "User deleted successfully"}, nil
		},
	})

	// --- 活动日志 ---
	httpez.RegisterAction(ez, httpez.Action[listLogsQ, listLogsOut]{
		Method: http.MethodGet,
		Path:   "/logs",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listLogsQ) (listLogsOut, error) {
			f := domain.ActivityFilter{UserID: in.UserID}
			if in.StartDate != "" {
				since, err := parseDate(in.StartDate)
				if err != nil {
					return listLogsOut{}, domain.Validation("invalid startDate")
				}
				f.Since = since
			}
			logs, err := h.activity.List(c.Request.Context(), f)
			if err != nil {
				return listLogsOut{}, err
			}
			if logs == nil {
				logs = []domain.ActivityLog{}
			}
			return listLogsOut{Logs: logs}, nil
		},
	})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
