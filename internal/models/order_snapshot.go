package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderSnapshot 本地缓存的订单副本
type OrderSnapshot struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderID        string         `gorm:"uniqueIndex;not null" json:"order_id"`                      // 后端订单号
	IdempotencyKey string         `gorm:"type:varchar(64);index" json:"idempotency_key"`             // 下单幂等键
	UserID         uint           `gorm:"index" json:"user_id"`                                      // 用户ID
	CartID         uint           `json:"cart_id"`                                                   // 购物车ID
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 订单金额
	PaymentURL     string         `gorm:"type:text" json:"payment_url"`                              // 支付链接
	Status         string         `gorm:"type:varchar(20);index;not null" json:"status"`             // 订单状态
	OrderCreatedAt time.Time      `gorm:"index" json:"order_created_at"`                             // 后端下单时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (OrderSnapshot) TableName() string {
	return "order_snapshots"
}

// NewOrderSnapshot 由订单构建快照
func NewOrderSnapshot(order Order, idempotencyKey string) *OrderSnapshot {
	return &OrderSnapshot{
		OrderID:        order.OrderID.String(),
		IdempotencyKey: idempotencyKey,
		UserID:         order.UserID,
		CartID:         order.CartID,
		TotalAmount:    order.TotalAmount,
		PaymentURL:     order.PaymentURL,
		Status:         order.Status,
		OrderCreatedAt: order.CreatedAt,
	}
}

// ToOrder 还原为订单
func (s *OrderSnapshot) ToOrder() Order {
	return Order{
		OrderID:     FlexID(s.OrderID),
		UserID:      s.UserID,
		CartID:      s.CartID,
		TotalAmount: s.TotalAmount,
		PaymentURL:  s.PaymentURL,
		CreatedAt:   s.OrderCreatedAt,
		Status:      s.Status,
	}
}
