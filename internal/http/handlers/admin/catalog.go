package admin

import (
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req models.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	product, err := h.CatalogService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondAdminError(c, err, "创建商品失败")
		return
	}
	requestLog(c).Infow("admin_product_created", "operator_user_id", currentUserID(c), "product_id", product.ProductID)
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req models.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	product, err := h.CatalogService.UpdateProduct(c.Request.Context(), productID, req)
	if err != nil {
		respondAdminError(c, err, "更新商品失败")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteProduct(c.Request.Context(), productID); err != nil {
		respondAdminError(c, err, "删除商品失败")
		return
	}
	requestLog(c).Infow("admin_product_deleted", "operator_user_id", currentUserID(c), "product_id", productID)
	response.Success(c, nil)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req models.Category
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	category, err := h.CatalogService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondAdminError(c, err, "创建分类失败")
		return
	}
	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req models.Category
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	category, err := h.CatalogService.UpdateCategory(c.Request.Context(), categoryID, req)
	if err != nil {
		respondAdminError(c, err, "更新分类失败")
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		respondAdminError(c, err, "删除分类失败")
		return
	}
	response.Success(c, nil)
}
