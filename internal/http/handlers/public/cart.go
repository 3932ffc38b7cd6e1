package public

import (
	"errors"

	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/service"
	"github.com/storefront-next/internal/store"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加入购物车请求
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CartQuantityRequest 修改数量请求
type CartQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// CartStepRequest 步进请求
type CartStepRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// CartResponse 购物车视图
type CartResponse struct {
	CartID        uint              `json:"cart_id"`
	Items         []models.CartItem `json:"items"`
	Subtotal      models.Money      `json:"subtotal"`
	TotalQuantity int               `json:"total_quantity"`
	Status        string            `json:"status"`
	Error         string            `json:"error,omitempty"`
}

func cartResponse(cart store.CartState) CartResponse {
	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return CartResponse{
		CartID:        cart.CartID,
		Items:         items,
		Subtotal:      cart.Subtotal(),
		TotalQuantity: cart.TotalQuantity(),
		Status:        cart.Status,
		Error:         cart.Error,
	}
}

// GetCart 拉取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.FetchCart(c.Request.Context(), uid); err != nil {
		if errors.Is(err, service.ErrStaleResult) {
			// 被更新的拉取取代，返回当前状态
			response.Success(c, cartResponse(h.Store.Cart()))
			return
		}
		respondCartError(c, err, "获取购物车失败")
		return
	}
	response.Success(c, cartResponse(h.Store.Cart()))
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	if _, err := h.CartService.AddItem(c.Request.Context(), req.ProductID, req.Quantity); err != nil {
		respondCartError(c, err, "加入购物车失败")
		return
	}
	response.Success(c, cartResponse(h.Store.Cart()))
}

// UpdateCartItem 修改数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	productID, ok := handlershared.ParseUintParam(c, "productId")
	if !ok {
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	if err := h.CartService.UpdateQuantity(c.Request.Context(), productID, req.Quantity); err != nil {
		respondCartError(c, err, "修改数量失败")
		return
	}
	response.Success(c, cartResponse(h.Store.Cart()))
}

// StepCartItem 数量加减，结果小于 1 时不做任何修改
func (h *Handler) StepCartItem(c *gin.Context) {
	productID, ok := handlershared.ParseUintParam(c, "productId")
	if !ok {
		return
	}
	var req CartStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	changed, err := h.CartService.StepQuantity(c.Request.Context(), productID, req.Delta)
	if err != nil {
		respondCartError(c, err, "修改数量失败")
		return
	}
	response.Success(c, gin.H{
		"changed": changed,
		"cart":    cartResponse(h.Store.Cart()),
	})
}

// RemoveCartItem 移除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	productID, ok := handlershared.ParseUintParam(c, "productId")
	if !ok {
		return
	}
	if err := h.CartService.RemoveItem(c.Request.Context(), productID); err != nil {
		respondCartError(c, err, "移除商品失败")
		return
	}
	response.Success(c, cartResponse(h.Store.Cart()))
}
