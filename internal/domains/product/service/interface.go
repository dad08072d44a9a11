package service

import (
	"context"

	"agatecity-backend/internal/domains/product/model"
)

// ServiceInterface - contract của product business layer
type ServiceInterface interface {
	ListProducts(ctx context.Context, req model.ListProductsRequest) ([]model.ListProductsResponse, *model.Pagination, error)
	GetProductDetail(ctx context.Context, id string) (*model.ProductDetailResponse, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.ProductDetailResponse, error)
	CreateProduct(ctx context.Context, req model.CreateProductRequest, adminUser string) (*model.ProductDetailResponse, error)
	UpdateProduct(ctx context.Context, id string, req model.UpdateProductRequest) (*model.ProductDetailResponse, error)
	DeleteProduct(ctx context.Context, id string) (*model.DeleteProductResponse, error)
	ExportProducts(ctx context.Context) ([]byte, string, error)
	ProcessProductMedia(ctx context.Context, productID string) error
	PurgeDeletedProducts(ctx context.Context, olderThanDays int) (int, error)
}
