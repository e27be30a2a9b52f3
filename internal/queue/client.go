package queue

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/shopfinity/internal/config"
	"github.com/shopfinity/internal/constants"

	"github.com/hibiken/asynq"
)

// DefaultQueue 默认队列名称
const DefaultQueue = constants.QueueDefault

const (
	defaultConcurrency   = 10
	simulatePaymentRetry = 5
)

// Client 投递异步任务，未启用时所有投递为空操作
type Client struct {
	inner *asynq.Client
}

// NewClient 按配置创建客户端，cfg 为空或未启用时返回禁用的客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{inner: asynq.NewClient(redisConnOpt(cfg))}, nil
}

// Enabled 是否可以投递任务
func (c *Client) Enabled() bool {
	return c != nil && c.inner != nil
}

// Close 关闭底层连接
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.inner.Close()
}

// EnqueueSimulatePayment 延迟 delay 后由 worker 完成订单支付
// 任务 ID 取订单 ID，同一订单重复投递视为成功
func (c *Client) EnqueueSimulatePayment(payload SimulatePaymentPayload, delay time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewSimulatePaymentTask(payload)
	if err != nil {
		return err
	}
	_, err = c.inner.Enqueue(task,
		asynq.Queue(constants.QueueCritical),
		asynq.ProcessIn(max(delay, 0)),
		asynq.TaskID(simulatePaymentTaskID(payload.OrderID)),
		asynq.MaxRetry(simulatePaymentRetry),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func simulatePaymentTaskID(orderID uint) string {
	return TaskOrderSimulatePayment + ":" + strconv.FormatUint(uint64(orderID), 10)
}

// BuildServerConfig worker 侧的连接与消费配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues:      map[string]int{DefaultQueue: 1, constants.QueueCritical: 2},
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return redisConnOpt(cfg), serverCfg
}

func redisConnOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host, port := "127.0.0.1", 6379
	opt := asynq.RedisClientOpt{}
	if cfg != nil {
		if h := strings.TrimSpace(cfg.Host); h != "" {
			host = h
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		opt.Password = cfg.Password
		opt.DB = cfg.DB
	}
	opt.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	return opt
}
