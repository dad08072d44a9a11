package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"agatecity-backend/internal/domains/product/model"
	"agatecity-backend/internal/domains/product/service"
	"agatecity-backend/internal/shared/response"
	"agatecity-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

// Handler - HTTP Handler (single file)
type Handler struct {
	service service.ServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ListProducts - GET /v1/products
// Query params: search, category, subcategory, price_min, price_max,
// featured, status, sort, page, limit
func (h *Handler) ListProducts(c *gin.Context) {
	req := model.ListProductsRequest{
		Search:      c.Query("search"),
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
		Status:      c.Query("status"),
		Sort:        c.DefaultQuery("sort", "newest"),
		Page:        1,
		Limit:       20,
	}

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			req.Page = p
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			req.Limit = l
		}
	}
	if priceMinStr := c.Query("price_min"); priceMinStr != "" {
		if pm, err := strconv.ParseFloat(priceMinStr, 64); err == nil {
			req.PriceMin = pm
		}
	}
	if priceMaxStr := c.Query("price_max"); priceMaxStr != "" {
		if pm, err := strconv.ParseFloat(priceMaxStr, 64); err == nil {
			req.PriceMax = pm
		}
	}
	if featuredStr := c.Query("featured"); featuredStr != "" {
		if f, err := strconv.ParseBool(featuredStr); err == nil {
			req.Featured = &f
		}
	}

	data, pagination, err := h.service.ListProducts(c.Request.Context(), req)
	if model.HandleProductError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Get products successfully", model.ListProductsAPIResponse{
		Products:   data,
		Pagination: *pagination,
	})
}

// GetProductDetail - GET /v1/products/:id
func (h *Handler) GetProductDetail(c *gin.Context) {
	id := c.Param("id")

	// 1. Validate ID format (UUID)
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "invalid product id")
		return
	}

	// 2. Fetch via service (cache-first bên trong)
	detail, err := h.service.GetProductDetail(c.Request.Context(), id)
	if model.HandleProductError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Get product successfully", detail)
}

// GetProductBySlug - GET /v1/products/slug/:slug
func (h *Handler) GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "missing product slug")
		return
	}

	detail, err := h.service.GetProductBySlug(c.Request.Context(), slug)
	if model.HandleProductError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Get product successfully", detail)
}

// GetCategories - GET /v1/categories
// Trả fixed category tree cho admin form và storefront nav.
func (h *Handler) GetCategories(c *gin.Context) {
	response.Success(c, http.StatusOK, "Get categories successfully", gin.H{
		"categories": model.CategoryTree,
	})
}

// CreateProduct - POST /v1/admin/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	// Admin identity từ session middleware
	adminUser := c.GetString("admin_user")

	detail, err := h.service.CreateProduct(c.Request.Context(), req, adminUser)
	if model.HandleProductError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, "Product created successfully", detail)
}

// UpdateProduct - PUT /v1/admin/products/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "invalid product id")
		return
	}

	var req model.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	detail, err := h.service.UpdateProduct(c.Request.Context(), id, req)
	if model.HandleProductError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Product updated successfully", detail)
}

// DeleteProduct - DELETE /v1/admin/products/:id (soft delete)
func (h *Handler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "invalid product id")
		return
	}

	result, err := h.service.DeleteProduct(c.Request.Context(), id)
	if model.HandleProductError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Product deleted successfully", result)
}

// ExportProducts - GET /v1/admin/products/export
// Stream xlsx attachment, không đi qua JSON envelope.
func (h *Handler) ExportProducts(c *gin.Context) {
	data, filename, err := h.service.ExportProducts(c.Request.Context())
	if model.HandleProductError(c, err) {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
