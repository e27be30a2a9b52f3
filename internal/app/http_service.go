package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/shopfinity/internal/config"
)

const readHeaderTimeout = 10 * time.Second

// HTTPService 承载 gin 路由的 HTTP 服务
type HTTPService struct {
	srv *http.Server
}

// NewHTTPService 按服务配置创建，超时为 0 时不设限
func NewHTTPService(cfg config.ServerConfig, handler http.Handler) *HTTPService {
	return &HTTPService{srv: &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       seconds(cfg.ReadTimeoutSeconds),
		WriteTimeout:      seconds(cfg.WriteTimeoutSeconds),
		IdleTimeout:       seconds(cfg.IdleTimeoutSeconds),
	}}
}

func (s *HTTPService) Name() string { return "http" }

// Start 阻塞监听，Shutdown 触发的关闭视为正常退出
func (s *HTTPService) Start(context.Context) error {
	if s == nil || s.srv == nil {
		return errors.New("http server not initialized")
	}
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop 等待进行中的请求完成，直到 ctx 超时
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
