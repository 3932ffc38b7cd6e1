package public

import (
	"strconv"

	"github.com/storefront-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

func forceRefresh(c *gin.Context) bool {
	refresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))
	return refresh
}

// GetProducts 商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	products, err := h.CatalogService.ListProducts(c.Request.Context(), forceRefresh(c))
	if err != nil {
		respondCatalogError(c, err, "获取商品失败")
		return
	}
	response.Success(c, products)
}

// GetCategories 分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CatalogService.ListCategories(c.Request.Context(), forceRefresh(c))
	if err != nil {
		respondCatalogError(c, err, "获取分类失败")
		return
	}
	response.Success(c, categories)
}
