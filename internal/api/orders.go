package api

import (
	"context"
	"net/http"

	"github.com/storefront-next/internal/models"
)

// IdempotencyKeyHeader 下单幂等键请求头
const IdempotencyKeyHeader = "Idempotency-Key"

// orderEnvelope 兼容 {order:{...}} 与扁平订单两种响应
type orderEnvelope struct {
	models.Order
	Nested     *models.Order `json:"order"`
	PaymentURL string        `json:"paymentUrl"`
}

func (e orderEnvelope) resolve() models.Order {
	order := e.Order
	if e.Nested != nil && !e.Nested.OrderID.IsZero() {
		order = *e.Nested
	}
	if order.PaymentURL == "" {
		order.PaymentURL = e.PaymentURL
	}
	return order
}

// CreateOrder 提交订单草稿
func (c *Client) CreateOrder(ctx context.Context, draft models.OrderDraft) (*models.CheckoutResponse, error) {
	var env orderEnvelope
	req := request{
		method:  http.MethodPost,
		path:    "/orders/checkout",
		body:    draft,
		headers: map[string]string{IdempotencyKeyHeader: draft.OrderID},
	}
	if err := c.do(ctx, req, &env); err != nil {
		return nil, err
	}
	order := env.resolve()
	if order.OrderID.IsZero() {
		return nil, ErrResponseInvalid
	}
	return &models.CheckoutResponse{Order: order, PaymentURL: order.PaymentURL}, nil
}

// GetOrder 获取订单
func (c *Client) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var env orderEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders/" + pathID(orderID)}, &env); err != nil {
		return nil, err
	}
	order := env.resolve()
	return &order, nil
}

// DeleteOrder 删除订单
func (c *Client) DeleteOrder(ctx context.Context, orderID string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/orders/" + pathID(orderID)}, nil)
}

// UpdatePaymentStatus 回写支付状态
func (c *Client) UpdatePaymentStatus(ctx context.Context, callback models.PaymentCallback) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/orders/midtrans-callback", body: callback}, nil)
}

// ListOrders 获取全部交易（管理员）
func (c *Client) ListOrders(ctx context.Context) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders/orders"}, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}
