package worker

import (
	"context"
	"errors"

	"github.com/shopfinity/internal/logger"
	"github.com/shopfinity/internal/provider"
	"github.com/shopfinity/internal/queue"
	"github.com/shopfinity/internal/service"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Consumer 处理队列任务，依赖容器中的业务服务
type Consumer struct {
	*provider.Container
	log *zap.SugaredLogger
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c, log: logger.SW("component", "worker")}
}

// Register 挂载全部任务处理函数
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		return
	}
	for taskType, handler := range c.handlers() {
		mux.HandleFunc(taskType, handler)
	}
}

func (c *Consumer) handlers() map[string]func(context.Context, *asynq.Task) error {
	return map[string]func(context.Context, *asynq.Task) error{
		queue.TaskOrderSimulatePayment: c.handleSimulatePayment,
	}
}

// handleSimulatePayment 订单不存在或状态已变化时直接确认任务
func (c *Consumer) handleSimulatePayment(_ context.Context, task *asynq.Task) error {
	if c.Container == nil || c.OrderService == nil {
		return errors.New("order service unavailable")
	}
	payload, err := queue.ParseSimulatePaymentPayload(task)
	if err != nil {
		c.sugar().Warnw("worker_simulate_payment_bad_payload", "error", err)
		return errors.Join(err, asynq.SkipRetry)
	}
	if payload.OrderID == 0 {
		return nil
	}

	order, err := c.OrderService.MarkPaid(payload.OrderID)
	switch {
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrOrderStatusInvalid):
		c.sugar().Infow("worker_simulate_payment_skipped", "order_id", payload.OrderID, "reason", err.Error())
		return nil
	case err != nil:
		c.sugar().Warnw("worker_simulate_payment_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	c.sugar().Infow("worker_simulate_payment_done", "order_no", order.OrderNo, "status", order.Status)
	return nil
}

func (c *Consumer) sugar() *zap.SugaredLogger {
	if c.log == nil {
		return logger.S()
	}
	return c.log
}
