package worker

import (
	"context"
	"errors"

	"github.com/shopfinity/internal/config"
	"github.com/shopfinity/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 将 asynq 消费端包装为可由 Runner 管理的服务
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewService 队列未启用时返回错误
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	switch {
	case cfg == nil || !cfg.Enabled:
		return nil, errors.New("queue disabled")
	case consumer == nil:
		return nil, errors.New("consumer is nil")
	}
	redisOpt, serverCfg := queue.BuildServerConfig(cfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{server: asynq.NewServer(redisOpt, serverCfg), mux: mux}, nil
}

func (s *Service) Name() string { return "worker" }

// Start 启动后阻塞到 ctx 结束，停止由 Stop 完成
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("worker not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Stop 等待进行中的任务结束
func (s *Service) Stop(context.Context) error {
	if s != nil && s.server != nil {
		s.server.Shutdown()
	}
	return nil
}
