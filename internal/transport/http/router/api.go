package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"authmini/internal/core/auth"
	"authmini/internal/core/config"
	"authmini/internal/core/server"
	"authmini/internal/domain"
	"authmini/internal/service"
	"authmini/internal/transport/http/handler"
	httpez "authmini/internal/transport/http/ez"
	mdw "authmini/internal/transport/http/middleware"
)

// Deps 路由依赖，全部在启动时构造
type Deps struct {
	JWT      *auth.JWTer
	Auth     *service.AuthService
	Users    *service.UserService
	Activity *service.ActivityService
	HTTP     config.HTTP
	Prod     bool // 生产环境下发 HSTS
}

func NewAPIEngine(l *zap.Logger, d Deps) *gin.Engine {
	r := server.NewRouter(l, server.Options{
		AllowOrigins: d.HTTP.AllowOrigins,
		Recovery:     mdw.RecoveryJSON,
	})

	maxConcurrent := d.HTTP.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 300
	}

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.SecureHeaders(d.Prod),
		mdw.AccessLog(l),
		mdw.Metrics(),
		mdw.ConcurrencyLimit(maxConcurrent),
		mdw.MaxBodyBytes(d.HTTP.MaxBodyBytes),
		mdw.Timeout(time.Duration(d.HTTP.RequestTimeoutSec)*time.Second),
	)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	authH := handler.NewAuthHandler(d.Auth, d.Users)
	authH.MountPublic(httpez.New(api, l))

	// 鉴权分组：任意角色
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT, auth.TierAuthenticated, l))
	authH.MountAuthed(httpez.New(authed, l))

	// 管理分组：仅 admin
	admin := api.Group("")
	admin.Use(mdw.AuthJWT(d.JWT, domain.RoleAdmin, l))
	mountAdmin(admin, l, d)

	return r
}
