package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ProductStatus represents valid product statuses
type ProductStatus string

const (
	StatusActive   ProductStatus = "active"
	StatusDraft    ProductStatus = "draft"
	StatusArchived ProductStatus = "archived"
)

func (s ProductStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusDraft, StatusArchived:
		return true
	}
	return false
}

func (s ProductStatus) String() string {
	return string(s)
}

// Product represents the main gemstone/jewelry entity
type Product struct {
	// Identity
	ID   uuid.UUID `json:"id" db:"id"`
	SKU  *string   `json:"sku" db:"sku"`
	Name string    `json:"name" db:"name"`
	Slug string    `json:"slug" db:"slug"`

	// Taxonomy
	Category    string  `json:"category" db:"category"`
	Subcategory *string `json:"subcategory" db:"subcategory"`

	// Pricing & Stock
	Price    decimal.Decimal `json:"price" db:"price"`
	Currency string          `json:"currency" db:"currency"`
	Stock    int             `json:"stock" db:"stock"`

	// Content & Specs
	Description *string          `json:"description" db:"description"`
	WeightGrams *decimal.Decimal `json:"weight_grams" db:"weight_grams"`
	Dimensions  *string          `json:"dimensions" db:"dimensions"`
	Color       *string          `json:"color" db:"color"`
	Clarity     *string          `json:"clarity" db:"clarity"`
	Origin      *string          `json:"origin" db:"origin"`
	Cut         *string          `json:"cut" db:"cut"`
	Grade       *string          `json:"grade" db:"grade"`

	// Collections
	Materials pq.StringArray `json:"materials" db:"materials"`
	Tags      pq.StringArray `json:"tags" db:"tags"`

	// Media: ordered list, mixed image/video URLs
	Images pq.StringArray `json:"images" db:"images"`

	// Status
	IsFeatured   bool   `json:"featured" db:"is_featured"`
	Status       string `json:"status" db:"status"`
	AddedByAdmin string `json:"added_by_admin" db:"added_by_admin"`

	// Free-form metadata (jsonb)
	Metadata map[string]interface{} `json:"metadata,omitempty" db:"metadata"`

	// Timestamps
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// ProductFilter - điều kiện filter cho list query
type ProductFilter struct {
	Search      string
	Category    string
	Subcategory string
	PriceMin    decimal.Decimal
	PriceMax    decimal.Decimal
	Featured    *bool
	Status      string // empty = active only (public view)
	IncludeAll  bool   // admin view: mọi status, kể cả draft
	Sort        string
	Limit       int
	Offset      int
}
