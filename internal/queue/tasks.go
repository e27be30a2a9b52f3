package queue

import (
	"encoding/json"
	"fmt"

	"github.com/shopfinity/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderSimulatePayment 模拟支付任务
	TaskOrderSimulatePayment = constants.TaskOrderSimulatePayment
)

// SimulatePaymentPayload 模拟支付任务载荷
type SimulatePaymentPayload struct {
	OrderID uint   `json:"order_id"`
	OrderNo string `json:"order_no"`
}

// NewSimulatePaymentTask 创建模拟支付任务
func NewSimulatePaymentTask(payload SimulatePaymentPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderSimulatePayment, body), nil
}

// ParseSimulatePaymentPayload 解析模拟支付任务载荷
func ParseSimulatePaymentPayload(task *asynq.Task) (SimulatePaymentPayload, error) {
	var payload SimulatePaymentPayload
	if task == nil {
		return payload, fmt.Errorf("nil task")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
