package model

import (
	"time"

	"agatecity-backend/internal/domains/media"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sort options cho public listing
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortStock     = "stock"
	SortFeatured  = "featured"
)

var validSorts = []interface{}{SortNewest, SortPriceAsc, SortPriceDesc, SortStock, SortFeatured}

// =====================================================
// LIST PRODUCTS REQUEST
// =====================================================
type ListProductsRequest struct {
	Search      string  `json:"search"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	PriceMin    float64 `json:"price_min"`
	PriceMax    float64 `json:"price_max"`
	Featured    *bool   `json:"featured"`
	Status      string  `json:"status"` // admin only
	Sort        string  `json:"sort"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
}

// Validate validates ListProductsRequest
func (req ListProductsRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Sort, validation.In(validSorts...)),
		validation.Field(&req.Page, validation.Min(1)),
		validation.Field(&req.Limit, validation.Min(1), validation.Max(100)),
	)
}

// =====================================================
// CREATE / UPDATE PRODUCT REQUEST
// =====================================================
type CreateProductRequest struct {
	SKU         *string          `json:"sku"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"` // optional, generated from name khi empty
	Category    string           `json:"category"`
	Subcategory *string          `json:"subcategory"`
	Price       decimal.Decimal  `json:"price"`
	Currency    string           `json:"currency"`
	Stock       int              `json:"stock"`
	Description *string          `json:"description"`
	WeightGrams *decimal.Decimal `json:"weight_grams"`
	Dimensions  *string          `json:"dimensions"`
	Color       *string          `json:"color"`
	Clarity     *string          `json:"clarity"`
	Origin      *string          `json:"origin"`
	Cut         *string          `json:"cut"`
	Grade       *string          `json:"grade"`
	Materials   []string         `json:"materials"`
	Tags        []string         `json:"tags"`

	// Images chấp nhận string đơn hoặc array, mixed image/video URLs.
	// Data URIs được offload sang object storage khi save.
	Images media.Value `json:"images"`

	Featured bool                   `json:"featured"`
	Status   string                 `json:"status"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Validate validates CreateProductRequest
func (req CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 300),
		),
		validation.Field(&req.Category,
			validation.Required.Error("category is required"),
			validation.Length(1, 100),
		),
		validation.Field(&req.Currency, validation.Length(3, 3)),
		validation.Field(&req.Stock, validation.Min(0)),
		validation.Field(&req.Status, validation.By(validStatus)),
		validation.Field(&req.Price, validation.By(nonNegativePrice)),
	)
}

// UpdateProductRequest - partial update: nil field nghĩa là giữ nguyên
type UpdateProductRequest struct {
	SKU         *string          `json:"sku"`
	Name        *string          `json:"name"`
	Slug        *string          `json:"slug"`
	Category    *string          `json:"category"`
	Subcategory *string          `json:"subcategory"`
	Price       *decimal.Decimal `json:"price"`
	Currency    *string          `json:"currency"`
	Stock       *int             `json:"stock"`
	Description *string          `json:"description"`
	WeightGrams *decimal.Decimal `json:"weight_grams"`
	Dimensions  *string          `json:"dimensions"`
	Color       *string          `json:"color"`
	Clarity     *string          `json:"clarity"`
	Origin      *string          `json:"origin"`
	Cut         *string          `json:"cut"`
	Grade       *string          `json:"grade"`
	Materials   []string         `json:"materials"`
	Tags        []string         `json:"tags"`

	Images   *media.Value           `json:"images"`
	Featured *bool                  `json:"featured"`
	Status   *string                `json:"status"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Validate validates UpdateProductRequest
func (req UpdateProductRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, 300)),
		validation.Field(&req.Category, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&req.Currency, validation.Length(3, 3)),
		validation.Field(&req.Stock, validation.Min(0)),
		validation.Field(&req.Status, validation.By(validStatusPtr)),
		validation.Field(&req.Price, validation.By(nonNegativePricePtr)),
	)
}

func validStatus(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !ProductStatus(s).IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

func validStatusPtr(value interface{}) error {
	s, ok := value.(*string)
	if !ok || s == nil {
		return nil
	}
	return validStatus(*s)
}

func nonNegativePrice(value interface{}) error {
	p, ok := value.(decimal.Decimal)
	if !ok {
		return nil
	}
	if p.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

func nonNegativePricePtr(value interface{}) error {
	p, ok := value.(*decimal.Decimal)
	if !ok || p == nil {
		return nil
	}
	return nonNegativePrice(*p)
}

// =====================================================
// RESPONSES
// =====================================================

// ListProductsResponse - card trên storefront grid
type ListProductsResponse struct {
	ID        uuid.UUID       `json:"id"`
	SKU       *string         `json:"sku"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Stock     int             `json:"stock"`
	Images    []string        `json:"images"`
	Featured  bool            `json:"featured"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type ListProductsAPIResponse struct {
	Products   []ListProductsResponse `json:"products"`
	Pagination Pagination             `json:"pagination"`
}

// ProductDetailResponse - full detail cho product page và admin form
type ProductDetailResponse struct {
	Product

	// Media entries phân loại sẵn cho client render
	Media []MediaItem `json:"media"`
}

// MediaItem - một phần tử media đã classify
type MediaItem struct {
	URL      string `json:"url"`
	Kind     string `json:"kind"`
	EmbedURL string `json:"embed_url,omitempty"`
}

// BuildMediaItems classifies the raw image list for rendering.
func BuildMediaItems(urls []string) []MediaItem {
	items := make([]MediaItem, 0, len(urls))
	for _, u := range media.Normalize(urls) {
		item := MediaItem{URL: u, Kind: string(media.ClassifyURL(u))}
		if item.Kind == string(media.KindVideo) {
			if embed, ok := media.EmbedURL(u); ok {
				item.EmbedURL = embed
			}
		}
		items = append(items, item)
	}
	return items
}

// DeleteProductResponse - kết quả soft delete
type DeleteProductResponse struct {
	ID        uuid.UUID `json:"id"`
	DeletedAt time.Time `json:"deleted_at"`
}
