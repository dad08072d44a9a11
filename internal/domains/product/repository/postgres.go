package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agatecity-backend/internal/domains/product/model"
	"agatecity-backend/internal/shared/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// productColumns - thứ tự cột phải khớp với scanProduct
const productColumns = `
	id, sku, name, slug, category, subcategory,
	price, currency, stock,
	description, weight_grams, dimensions, color, clarity, origin, cut, grade,
	materials, tags, images,
	is_featured, status, added_by_admin, metadata,
	created_at, updated_at, deleted_at`

// postgresRepository - Raw SQL with pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository - Constructor
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// List - get products with filters, sorting, pagination
func (r *postgresRepository) List(ctx context.Context, filter *model.ProductFilter) ([]model.Product, int, error) {
	whereClause, args := r.buildWhereClause(filter)

	// Total count trước, cho pagination meta
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM products p WHERE %s`, whereClause)
	var totalCount int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		log.Error().Err(err).Msg("❌ Product count query failed")
		return nil, 0, fmt.Errorf("count query failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, orderBy(filter.Sort), len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list query failed: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0, filter.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan failed: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return products, totalCount, nil
}

// GetByID - single product lookup, soft-deleted rows loại trừ
func (r *postgresRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products p WHERE id = $1 AND deleted_at IS NULL`, productColumns)
	return r.getOne(ctx, query, id)
}

// GetBySlug - storefront lookup theo slug
func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products p WHERE slug = $1 AND deleted_at IS NULL`, productColumns)
	return r.getOne(ctx, query, slug)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg interface{}) (*model.Product, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// Create inserts a new product row.
func (r *postgresRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (
			id, sku, name, slug, category, subcategory,
			price, currency, stock,
			description, weight_grams, dimensions, color, clarity, origin, cut, grade,
			materials, tags, images,
			is_featured, status, added_by_admin, metadata,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9,
			$10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20,
			$21, $22, $23, $24,
			$25, $26
		)
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Slug, p.Category, p.Subcategory,
		p.Price, p.Currency, p.Stock,
		p.Description, p.WeightGrams, p.Dimensions, p.Color, p.Clarity, p.Origin, p.Cut, p.Grade,
		pq.Array(p.Materials), pq.Array(p.Tags), pq.Array(p.Images),
		p.IsFeatured, p.Status, p.AddedByAdmin, p.Metadata,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "products_slug_key") {
			return model.ErrSlugAlreadyExists
		}
		if isUniqueViolation(err, "products_sku_key") {
			return model.ErrSKUAlreadyExists
		}
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// Update overwrites every mutable column. Partial-update merging happens in
// the service layer, repository nhận entity đã merge.
func (r *postgresRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
		UPDATE products SET
			sku = $2, name = $3, slug = $4, category = $5, subcategory = $6,
			price = $7, currency = $8, stock = $9,
			description = $10, weight_grams = $11, dimensions = $12, color = $13,
			clarity = $14, origin = $15, cut = $16, grade = $17,
			materials = $18, tags = $19, images = $20,
			is_featured = $21, status = $22, metadata = $23,
			updated_at = $24
		WHERE id = $1 AND deleted_at IS NULL
	`
	tag, err := r.pool.Exec(ctx, query,
		p.ID,
		p.SKU, p.Name, p.Slug, p.Category, p.Subcategory,
		p.Price, p.Currency, p.Stock,
		p.Description, p.WeightGrams, p.Dimensions, p.Color,
		p.Clarity, p.Origin, p.Cut, p.Grade,
		pq.Array(p.Materials), pq.Array(p.Tags), pq.Array(p.Images),
		p.IsFeatured, p.Status, p.Metadata,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "products_slug_key") {
			return model.ErrSlugAlreadyExists
		}
		if isUniqueViolation(err, "products_sku_key") {
			return model.ErrSKUAlreadyExists
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

// SoftDelete marks the row deleted and returns the deletion timestamp.
func (r *postgresRepository) SoftDelete(ctx context.Context, id string) (*time.Time, error) {
	query := `
		UPDATE products SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING deleted_at
	`
	var deletedAt time.Time
	err := r.pool.QueryRow(ctx, query, id).Scan(&deletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}
	return &deletedAt, nil
}

// CheckSlugExists - slug uniqueness, ngoại trừ product hiện tại
func (r *postgresRepository) CheckSlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE slug = $1 AND id::text != $2 AND deleted_at IS NULL)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

// CheckSKUExists - SKU uniqueness, ngoại trừ product hiện tại
func (r *postgresRepository) CheckSKUExists(ctx context.Context, sku, excludeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE sku = $1 AND id::text != $2 AND deleted_at IS NULL)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, sku, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check sku: %w", err)
	}
	return exists, nil
}

// ListAll - every live product, dùng cho admin export
func (r *postgresRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products p WHERE deleted_at IS NULL ORDER BY created_at DESC`, productColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("export query failed: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// PurgeDeleted hard-deletes rows soft-deleted trước cutoff. Returns purged
// ids so the caller can clean up object storage.
func (r *postgresRepository) PurgeDeleted(ctx context.Context, olderThan time.Duration) ([]string, error) {
	query := `
		DELETE FROM products
		WHERE deleted_at IS NOT NULL AND deleted_at < NOW() - $1::interval
		RETURNING id::text
	`
	interval := fmt.Sprintf("%d seconds", int(olderThan.Seconds()))
	rows, err := r.pool.Query(ctx, query, interval)
	if err != nil {
		return nil, fmt.Errorf("purge query failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("purge scan failed: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ============================================
// HELPER METHODS - Tách logic
// ============================================

// buildWhereClause - Construct WHERE clause dynamically
func (r *postgresRepository) buildWhereClause(filter *model.ProductFilter) (string, []interface{}) {
	conditions := []string{"p.deleted_at IS NULL"}
	args := []interface{}{}
	argIndex := 1

	// Public view chỉ thấy active products
	if !filter.IncludeAll && filter.Status == "" {
		conditions = append(conditions, "p.status = 'active'")
	}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	// ILIKE search trên name, description, category và tags
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			`(p.name ILIKE $%d OR p.description ILIKE $%d OR p.category ILIKE $%d OR EXISTS (
				SELECT 1 FROM unnest(p.tags) t WHERE t ILIKE $%d
			))`, argIndex, argIndex, argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("p.category = $%d", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}

	if filter.Subcategory != "" {
		conditions = append(conditions, fmt.Sprintf("p.subcategory = $%d", argIndex))
		args = append(args, filter.Subcategory)
		argIndex++
	}

	if filter.PriceMin.IsPositive() {
		conditions = append(conditions, fmt.Sprintf("p.price >= $%d", argIndex))
		args = append(args, filter.PriceMin)
		argIndex++
	}

	if filter.PriceMax.IsPositive() {
		conditions = append(conditions, fmt.Sprintf("p.price <= $%d", argIndex))
		args = append(args, filter.PriceMax)
		argIndex++
	}

	if filter.Featured != nil {
		conditions = append(conditions, fmt.Sprintf("p.is_featured = $%d", argIndex))
		args = append(args, *filter.Featured)
		argIndex++
	}

	return utils.JoinWithAnd(conditions), args
}

// orderBy maps the sort parameter to a safe ORDER BY clause. Unknown values
// fall back to newest.
func orderBy(sort string) string {
	switch sort {
	case model.SortPriceAsc:
		return "p.price ASC, p.created_at DESC"
	case model.SortPriceDesc:
		return "p.price DESC, p.created_at DESC"
	case model.SortStock:
		return "p.stock DESC, p.created_at DESC"
	case model.SortFeatured:
		return "p.is_featured DESC, p.created_at DESC"
	default:
		return "p.created_at DESC"
	}
}

// scanProduct reads one row in productColumns order.
func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Slug, &p.Category, &p.Subcategory,
		&p.Price, &p.Currency, &p.Stock,
		&p.Description, &p.WeightGrams, &p.Dimensions, &p.Color, &p.Clarity, &p.Origin, &p.Cut, &p.Grade,
		pq.Array(&p.Materials), pq.Array(&p.Tags), pq.Array(&p.Images),
		&p.IsFeatured, &p.Status, &p.AddedByAdmin, &p.Metadata,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// isUniqueViolation detects a unique constraint error by constraint name.
func isUniqueViolation(err error, constraint string) bool {
	return err != nil && strings.Contains(err.Error(), constraint)
}
