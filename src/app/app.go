package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zeromicro/go-zero/core/threading"
	"go.uber.org/zap"

	"github.com/nechmads/nfts-marketplace/src/config"
	"github.com/nechmads/nfts-marketplace/src/pkg/xzap"
	"github.com/nechmads/nfts-marketplace/src/service/svc"
)

const shutdownTimeout = 10 * time.Second

// Platform 平台结构体，作为整个应用程序的容器
type Platform struct {
	config    *config.Config
	router    *gin.Engine
	serverCtx *svc.ServerCtx
}

// NewPlatform 创建一个新的 Platform 实例
func NewPlatform(config *config.Config, router *gin.Engine, serverCtx *svc.ServerCtx) (*Platform, error) {
	return &Platform{
		config:    config,
		router:    router,
		serverCtx: serverCtx,
	}, nil
}

// Start 启动平台服务
// 这是一个阻塞调用，启动 HTTP 服务器并等待退出信号后优雅关闭
func (p *Platform) Start() {
	if p.config.Monitor.PprofEnable {
		threading.GoSafe(func() {
			addr := fmt.Sprintf(":%d", p.config.Monitor.PprofPort)
			xzap.WithContext(context.Background()).Info("pprof run", zap.String("addr", addr))
			if err := http.ListenAndServe(addr, nil); err != nil && err != http.ErrServerClosed {
				xzap.WithContext(context.Background()).Error("pprof server exited", zap.Error(err))
			}
		})
	}

	srv := &http.Server{
		Addr:    p.config.Api.Port,
		Handler: p.router,
	}

	threading.GoSafe(func() {
		xzap.WithContext(context.Background()).Info(p.config.ProjectCfg.Name+" run", zap.String("port", p.config.Api.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		xzap.WithContext(context.Background()).Error("server shutdown", zap.Error(err))
	}
	xzap.WithContext(context.Background()).Info(p.config.ProjectCfg.Name + " stopped")
}
