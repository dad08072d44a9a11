package model

import (
	"fmt"
	"hash/crc32"
	"strconv"
	"strings"
)

// GenerateListCacheKey derives a short cache key from every list parameter,
// so mỗi filter combination có cache entry riêng.
func GenerateListCacheKey(prefix string, req ListProductsRequest) string {
	featured := ""
	if req.Featured != nil {
		featured = strconv.FormatBool(*req.Featured)
	}
	parts := []string{
		prefix,
		req.Search,
		req.Category,
		req.Subcategory,
		fmt.Sprintf("%.2f", req.PriceMin),
		fmt.Sprintf("%.2f", req.PriceMax),
		featured,
		req.Status,
		req.Sort,
		strconv.Itoa(req.Page),
		strconv.Itoa(req.Limit),
	}
	keyStr := strings.Join(parts, ":")
	return fmt.Sprintf("%s:%08x", prefix, crc32.ChecksumIEEE([]byte(keyStr)))
}

// GenerateDetailCacheKey - cache key cho product detail theo id
func GenerateDetailCacheKey(id string) string {
	return "product:detail:" + id
}

// GenerateSlugCacheKey - cache key cho lookup theo slug
func GenerateSlugCacheKey(slug string) string {
	return "product:slug:" + slug
}

// ToListDTO converts a Product entity to its list card shape.
func ToListDTO(p Product) ListProductsResponse {
	return ListProductsResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Slug:      p.Slug,
		Category:  p.Category,
		Price:     p.Price,
		Currency:  p.Currency,
		Stock:     p.Stock,
		Images:    p.Images,
		Featured:  p.IsFeatured,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
}

// ToListDTOs converts a slice of entities.
func ToListDTOs(products []Product) []ListProductsResponse {
	result := make([]ListProductsResponse, 0, len(products))
	for _, p := range products {
		result = append(result, ToListDTO(p))
	}
	return result
}

// ToDetailDTO converts an entity to the full detail response, classifying
// media on the way out.
func ToDetailDTO(p Product) *ProductDetailResponse {
	return &ProductDetailResponse{
		Product: p,
		Media:   BuildMediaItems(p.Images),
	}
}
