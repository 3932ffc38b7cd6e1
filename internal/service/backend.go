package service

import (
	"context"
	"time"

	"github.com/storefront-next/internal/models"
)

// AuthAPI 认证接口
type AuthAPI interface {
	Login(ctx context.Context, input models.LoginInput) (*models.LoginResponse, error)
	Register(ctx context.Context, input models.RegisterInput) (string, error)
}

// ProfileAPI 用户资料接口
type ProfileAPI interface {
	GetProfile(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, input models.ProfileUpdate) (*models.UserProfile, error)
	ListUsers(ctx context.Context) ([]models.UserProfile, error)
}

// CartAPI 购物车接口
type CartAPI interface {
	GetCart(ctx context.Context, userID uint) (*models.Cart, error)
	AddToCart(ctx context.Context, input models.CartMutation) (*models.CartItem, error)
	UpdateCartItem(ctx context.Context, input models.CartMutation) (*models.CartItem, error)
	RemoveCartItem(ctx context.Context, productID uint) error
}

// OrderAPI 订单接口
type OrderAPI interface {
	CreateOrder(ctx context.Context, draft models.OrderDraft) (*models.CheckoutResponse, error)
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
	UpdatePaymentStatus(ctx context.Context, callback models.PaymentCallback) error
	ListOrders(ctx context.Context) ([]models.Transaction, error)
}

// CatalogAPI 商品目录接口
type CatalogAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, product models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uint, product models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID uint) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, categoryID uint, category models.Category) (*models.Category, error)
	DeleteCategory(ctx context.Context, categoryID uint) error
}

// ChatAPI 聊天接口
type ChatAPI interface {
	GetOrCreateRoom(ctx context.Context, userID, adminID uint) (*models.ChatRoom, error)
	ListMessages(ctx context.Context, roomID uint) ([]models.ChatMessage, error)
}

// PaymentExpiryScheduler 支付超时任务调度
type PaymentExpiryScheduler interface {
	EnqueueOrderPaymentExpire(orderID string, at time.Time) error
}
