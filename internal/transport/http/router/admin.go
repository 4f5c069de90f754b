package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"authmini/internal/transport/http/handler"
	httpez "authmini/internal/transport/http/ez"
)

// mountAdmin 管理端接口集中在这里注册，分组已校验 admin 角色
func mountAdmin(admin *gin.RouterGroup, l *zap.Logger, d Deps) {
	handler.NewAdminHandler(d.Users, d.Activity).Mount(httpez.New(admin, l))
}
