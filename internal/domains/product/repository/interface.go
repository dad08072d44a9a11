package repository

import (
	"context"
	"time"

	"agatecity-backend/internal/domains/product/model"
)

// RepositoryInterface - contract của product persistence layer
type RepositoryInterface interface {
	List(ctx context.Context, filter *model.ProductFilter) ([]model.Product, int, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	SoftDelete(ctx context.Context, id string) (*time.Time, error)
	CheckSlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	CheckSKUExists(ctx context.Context, sku, excludeID string) (bool, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	PurgeDeleted(ctx context.Context, olderThan time.Duration) ([]string, error)
}
