package admin

import (
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"

	"github.com/gin-gonic/gin"
)

// GetTransactions 交易列表
func (h *Handler) GetTransactions(c *gin.Context) {
	transactions, err := h.OrderService.ListTransactions(c.Request.Context())
	if err != nil {
		respondAdminError(c, err, "获取交易失败")
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	response.Success(c, transactions)
}

// GetUsers 用户列表
func (h *Handler) GetUsers(c *gin.Context) {
	users, err := h.ProfileService.ListUsers(c.Request.Context())
	if err != nil {
		respondAdminError(c, err, "获取用户失败")
		return
	}
	if users == nil {
		users = []models.UserProfile{}
	}
	response.Success(c, users)
}
