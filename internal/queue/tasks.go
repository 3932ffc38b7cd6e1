package queue

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/storefront-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPaymentExpire 支付超时检查任务
	TaskOrderPaymentExpire = constants.TaskOrderPaymentExpire
)

// OrderPaymentExpirePayload 支付超时任务载荷
type OrderPaymentExpirePayload struct {
	OrderID string `json:"order_id"`
}

// NewOrderPaymentExpireTask 创建支付超时任务
func NewOrderPaymentExpireTask(payload OrderPaymentExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPaymentExpire, body), nil
}

// ParseOrderPaymentExpirePayload 解析支付超时任务载荷
func ParseOrderPaymentExpirePayload(task *asynq.Task) (OrderPaymentExpirePayload, error) {
	var payload OrderPaymentExpirePayload
	if task == nil {
		return payload, fmt.Errorf("task is nil")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	payload.OrderID = strings.TrimSpace(payload.OrderID)
	return payload, nil
}

// PaymentExpireTaskID 同一订单的任务 ID
func PaymentExpireTaskID(orderID string) string {
	return "payment_expire:" + strings.TrimSpace(orderID)
}
