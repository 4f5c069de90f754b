package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	AllowOrigins []string        // 为空时 cors.Default()
	Recovery     gin.RecoveryFunc // panic 后写响应；为空时只回 500
}

// NewRouter 基础引擎：panic 记录 + CORS；业务中间件由调用方追加
func NewRouter(l *zap.Logger, o Options) *gin.Engine {
	r := gin.New()
	rec := o.Recovery
	if rec == nil {
		rec = func(c *gin.Context, _ any) { c.AbortWithStatus(http.StatusInternalServerError) }
	}
	r.Use(ginzap.CustomRecoveryWithZap(l, true, rec))
	// 未配置来源时放开全部来源；两种情况都要允许 Authorization 头
	cfg := cors.DefaultConfig()
	if len(o.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = o.AllowOrigins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	r.Use(cors.New(cfg))
	return r
}

// StartHTTP 阻塞直到 ctx 结束或监听失败；ctx 结束后在 grace 内优雅关闭
func StartHTTP(ctx context.Context, srv *http.Server, l *zap.Logger, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		l.Info("http starting", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	l.Info("http stopped gracefully")
	return nil
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration, errLog *log.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       rt,
		ReadHeaderTimeout: rt,
		WriteTimeout:      wt,
		IdleTimeout:       it,
		MaxHeaderBytes:    1 << 20, // 1MB
		ErrorLog:          errLog,
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
