package app

import (
	"context"
	"errors"

	"github.com/shopfinity/internal/cache"
	"github.com/shopfinity/internal/provider"
)

// resourceService 在停止阶段释放容器持有的连接
type resourceService struct {
	container *provider.Container
}

func newResourceService(c *provider.Container) *resourceService {
	return &resourceService{container: c}
}

func (s *resourceService) Name() string {
	return "resources"
}

// Start 阻塞到上下文结束
func (s *resourceService) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (s *resourceService) Stop(_ context.Context) error {
	if s == nil || s.container == nil {
		return nil
	}
	var errs []error
	if s.container.QueueClient != nil {
		if err := s.container.QueueClient.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.container.Storage != nil {
		if err := s.container.Storage.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := cache.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
