package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"agatecity-backend/internal/domains/media"
	"agatecity-backend/internal/domains/product/model"
	"agatecity-backend/internal/domains/product/repository"
	"agatecity-backend/internal/shared"
	"agatecity-backend/internal/shared/utils"
	"agatecity-backend/pkg/cache"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	listCachePrefix = "products:list"
	listCacheTTL    = 5 * time.Minute
	detailCacheTTL  = 10 * time.Minute
)

// MediaStorage - subset của object storage mà product service cần
type MediaStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	RemoveFolder(ctx context.Context, prefix string) error
}

// VariantProcessor renders resized variants of an original image.
type VariantProcessor interface {
	ProcessImage(data []byte) (map[string][]byte, error)
}

// ProductService - Implements ServiceInterface
type ProductService struct {
	repo        repository.RepositoryInterface
	cache       cache.Cache
	storage     MediaStorage
	processor   VariantProcessor
	asynqClient *asynq.Client
}

// NewService - Constructor with DI
func NewService(
	repo repository.RepositoryInterface,
	cache cache.Cache,
	storage MediaStorage,
	processor VariantProcessor,
	asynqClient *asynq.Client,
) ServiceInterface {
	return &ProductService{
		repo:        repo,
		cache:       cache,
		storage:     storage,
		processor:   processor,
		asynqClient: asynqClient,
	}
}

// ListProducts - storefront/admin listing with cache
func (s *ProductService) ListProducts(ctx context.Context, req model.ListProductsRequest) ([]model.ListProductsResponse, *model.Pagination, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	type listCache struct {
		Data       []model.ListProductsResponse `json:"data"`
		Pagination model.Pagination             `json:"pagination"`
	}
	var cached listCache

	cacheKey := model.GenerateListCacheKey(listCachePrefix, req)
	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return cached.Data, &cached.Pagination, nil
	}

	filter := &model.ProductFilter{
		Search:      req.Search,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		PriceMin:    decimal.NewFromFloat(req.PriceMin),
		PriceMax:    decimal.NewFromFloat(req.PriceMax),
		Featured:    req.Featured,
		Status:      req.Status,
		IncludeAll:  req.Status != "",
		Sort:        req.Sort,
		Limit:       req.Limit,
		Offset:      (req.Page - 1) * req.Limit,
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	pagination := model.Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: (total + req.Limit - 1) / req.Limit,
	}
	data := model.ToListDTOs(products)

	if err := s.cache.Set(ctx, cacheKey, listCache{Data: data, Pagination: pagination}, listCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("⚠️ Failed to cache product list")
	}

	return data, &pagination, nil
}

// GetProductDetail - detail theo id, có cache
func (s *ProductService) GetProductDetail(ctx context.Context, id string) (*model.ProductDetailResponse, error) {
	cacheKey := model.GenerateDetailCacheKey(id)
	var cached model.ProductDetailResponse
	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := model.ToDetailDTO(*p)
	if err := s.cache.Set(ctx, cacheKey, detail, detailCacheTTL); err != nil {
		log.Warn().Err(err).Msg("⚠️ Failed to cache product detail")
	}
	return detail, nil
}

// GetProductBySlug - storefront detail theo slug
func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (*model.ProductDetailResponse, error) {
	cacheKey := model.GenerateSlugCacheKey(slug)
	var cached model.ProductDetailResponse
	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	detail := model.ToDetailDTO(*p)
	if err := s.cache.Set(ctx, cacheKey, detail, detailCacheTTL); err != nil {
		log.Warn().Err(err).Msg("⚠️ Failed to cache product detail")
	}
	return detail, nil
}

// CreateProduct - admin tạo product mới
func (s *ProductService) CreateProduct(ctx context.Context, req model.CreateProductRequest, adminUser string) (*model.ProductDetailResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()

	// Slug từ request hoặc generate từ name
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = utils.GenerateSlug(req.Name)
	}
	exists, err := s.repo.CheckSlugExists(ctx, slug, id.String())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrSlugAlreadyExists
	}

	if req.SKU != nil && *req.SKU != "" {
		exists, err := s.repo.CheckSKUExists(ctx, *req.SKU, id.String())
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.ErrSKUAlreadyExists
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	status := req.Status
	if status == "" {
		status = model.StatusActive.String()
	}

	now := time.Now().UTC()
	p := &model.Product{
		ID:           id,
		SKU:          req.SKU,
		Name:         req.Name,
		Slug:         slug,
		Category:     req.Category,
		Subcategory:  req.Subcategory,
		Price:        req.Price,
		Currency:     currency,
		Stock:        req.Stock,
		Description:  req.Description,
		WeightGrams:  req.WeightGrams,
		Dimensions:   req.Dimensions,
		Color:        req.Color,
		Clarity:      req.Clarity,
		Origin:       req.Origin,
		Cut:          req.Cut,
		Grade:        req.Grade,
		Materials:    req.Materials,
		Tags:         req.Tags,
		Images:       media.Normalize(req.Images),
		IsFeatured:   req.Featured,
		Status:       status,
		AddedByAdmin: adminUser,
		Metadata:     req.Metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Inline data URIs không được persist - offload sang object storage
	offloaded, err := s.offloadMedia(ctx, id.String(), p.Images)
	if err != nil {
		return nil, err
	}
	p.Images = offloaded

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.enqueueMediaProcessing(id.String())
	s.invalidateListCache(ctx)

	return model.ToDetailDTO(*p), nil
}

// UpdateProduct - partial update: chỉ field non-nil được apply
func (s *ProductService) UpdateProduct(ctx context.Context, id string, req model.UpdateProductRequest) (*model.ProductDetailResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldSlug := p.Slug

	applyUpdate(p, req)

	// Slug đổi khi client gửi slug mới, hoặc khi name đổi mà slug không gửi
	if req.Slug != nil && strings.TrimSpace(*req.Slug) != "" {
		p.Slug = strings.TrimSpace(*req.Slug)
	} else if req.Name != nil {
		p.Slug = utils.GenerateSlug(*req.Name)
	}
	if p.Slug != oldSlug {
		exists, err := s.repo.CheckSlugExists(ctx, p.Slug, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.ErrSlugAlreadyExists
		}
	}

	if req.SKU != nil && *req.SKU != "" {
		exists, err := s.repo.CheckSKUExists(ctx, *req.SKU, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.ErrSKUAlreadyExists
		}
	}

	offloaded, err := s.offloadMedia(ctx, id, p.Images)
	if err != nil {
		return nil, err
	}
	p.Images = offloaded
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.enqueueMediaProcessing(id)
	s.invalidateProductCache(ctx, id, oldSlug, p.Slug)

	return model.ToDetailDTO(*p), nil
}

// DeleteProduct - soft delete; object storage giữ nguyên cho tới purge job
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (*model.DeleteProductResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	deletedAt, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateProductCache(ctx, id, p.Slug, p.Slug)

	return &model.DeleteProductResponse{ID: p.ID, DeletedAt: *deletedAt}, nil
}

// ProcessProductMedia - background job: render variants cho mọi stored image
func (s *ProductService) ProcessProductMedia(ctx context.Context, productID string) error {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	for _, u := range p.Images {
		if media.ClassifyURL(u) != media.KindImage {
			continue
		}
		key, ok := objectKey(u)
		if !ok {
			// External URL, không có pixels trong storage của mình
			continue
		}

		data, err := s.storage.Download(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("⚠️ Cannot download original for variants")
			continue
		}

		variants, err := s.processor.ProcessImage(data)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("⚠️ Cannot render variants")
			continue
		}

		for name, content := range variants {
			variantKey := variantKeyFor(key, name)
			if _, err := s.storage.Upload(ctx, variantKey, content, "image/jpeg"); err != nil {
				return fmt.Errorf("upload variant %s: %w", variantKey, err)
			}
		}
	}

	return nil
}

// PurgeDeletedProducts - hard delete rows soft-deleted quá cutoff và dọn
// object storage của chúng
func (s *ProductService) PurgeDeletedProducts(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays < 1 {
		olderThanDays = 30
	}

	ids, err := s.repo.PurgeDeleted(ctx, time.Duration(olderThanDays)*24*time.Hour)
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		if err := s.storage.RemoveFolder(ctx, "products/"+id+"/"); err != nil {
			log.Warn().Err(err).Str("product_id", id).Msg("⚠️ Failed to clean product media folder")
		}
	}

	if len(ids) > 0 {
		s.invalidateListCache(ctx)
	}
	return len(ids), nil
}

// ExportProducts - admin export toàn bộ catalog (kể cả draft) ra xlsx
func (s *ProductService) ExportProducts(ctx context.Context) ([]byte, string, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list products for export: %w", err)
	}

	f, err := buildProductsExcelFile(products)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build excel file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to encode excel file: %w", err)
	}

	filename := fmt.Sprintf("products_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func buildProductsExcelFile(products []model.Product) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "Products"
	f.SetSheetName("Sheet1", sheetName)

	// Row 1: Header
	headers := []string{
		"ID",
		"SKU",
		"Name",
		"Slug",
		"Category",
		"Subcategory",
		"Price",
		"Currency",
		"Stock",
		"Weight (g)",
		"Origin",
		"Color",
		"Clarity",
		"Cut",
		"Grade",
		"Materials",
		"Tags",
		"Featured",
		"Status",
		"Added By",
		"Created At",
		"Images",
	}

	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "V1", headerStyle)
	}

	// Data rows, bắt đầu từ row 2
	for i, p := range products {
		rowNum := i + 2

		cell := func(col int) string {
			name, _ := excelize.CoordinatesToCellName(col, rowNum)
			return name
		}
		str := func(v *string) string {
			if v == nil {
				return ""
			}
			return *v
		}

		f.SetCellValue(sheetName, cell(1), p.ID.String())
		f.SetCellValue(sheetName, cell(2), str(p.SKU))
		f.SetCellValue(sheetName, cell(3), p.Name)
		f.SetCellValue(sheetName, cell(4), p.Slug)
		f.SetCellValue(sheetName, cell(5), p.Category)
		f.SetCellValue(sheetName, cell(6), str(p.Subcategory))
		f.SetCellValue(sheetName, cell(7), p.Price.InexactFloat64())
		f.SetCellValue(sheetName, cell(8), p.Currency)
		f.SetCellValue(sheetName, cell(9), p.Stock)
		if p.WeightGrams != nil {
			f.SetCellValue(sheetName, cell(10), p.WeightGrams.InexactFloat64())
		}
		f.SetCellValue(sheetName, cell(11), str(p.Origin))
		f.SetCellValue(sheetName, cell(12), str(p.Color))
		f.SetCellValue(sheetName, cell(13), str(p.Clarity))
		f.SetCellValue(sheetName, cell(14), str(p.Cut))
		f.SetCellValue(sheetName, cell(15), str(p.Grade))
		f.SetCellValue(sheetName, cell(16), strings.Join(p.Materials, ", "))
		f.SetCellValue(sheetName, cell(17), strings.Join(p.Tags, ", "))
		f.SetCellValue(sheetName, cell(18), p.IsFeatured)
		f.SetCellValue(sheetName, cell(19), p.Status)
		f.SetCellValue(sheetName, cell(20), p.AddedByAdmin)
		f.SetCellValue(sheetName, cell(21), p.CreatedAt.Format(time.RFC3339))
		f.SetCellValue(sheetName, cell(22), strings.Join(p.Images, "\n"))
	}

	return f, nil
}

// ============================================
// HELPER METHODS
// ============================================

// offloadMedia uploads inline data URIs to object storage and replaces them
// with stable URLs. External URLs pass through untouched, order preserved.
func (s *ProductService) offloadMedia(ctx context.Context, productID string, urls []string) ([]string, error) {
	out := make([]string, 0, len(urls))
	for i, u := range urls {
		if !media.IsDataURL(u) {
			out = append(out, u)
			continue
		}

		parsed, err := media.ParseDataURL(u)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrMediaOffload, err)
		}

		key := fmt.Sprintf("products/%s/%d_original.%s", productID, i, extensionFor(parsed.MIME))
		stored, err := s.storage.Upload(ctx, key, parsed.Data, parsed.MIME)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrMediaOffload, err)
		}
		out = append(out, stored)
	}
	return out, nil
}

func (s *ProductService) enqueueMediaProcessing(productID string) {
	if s.asynqClient == nil {
		return
	}
	payload, err := json.Marshal(shared.ProcessProductMediaPayload{ProductID: productID})
	if err != nil {
		return
	}
	task := asynq.NewTask(shared.TypeProcessProductMedia, payload)
	if _, err := s.asynqClient.Enqueue(task, asynq.Queue(shared.QueueDefault), asynq.MaxRetry(2)); err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("⚠️ Failed to enqueue media processing")
	}
}

func (s *ProductService) invalidateListCache(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, listCachePrefix+":*"); err != nil {
		log.Warn().Err(err).Msg("⚠️ Failed to invalidate list cache")
	}
}

func (s *ProductService) invalidateProductCache(ctx context.Context, id, oldSlug, newSlug string) {
	keys := []string{model.GenerateDetailCacheKey(id), model.GenerateSlugCacheKey(oldSlug)}
	if newSlug != oldSlug {
		keys = append(keys, model.GenerateSlugCacheKey(newSlug))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Msg("⚠️ Failed to invalidate product cache")
	}
	s.invalidateListCache(ctx)
}

// applyUpdate merges non-nil request fields into the entity.
func applyUpdate(p *model.Product, req model.UpdateProductRequest) {
	if req.SKU != nil {
		p.SKU = req.SKU
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Subcategory != nil {
		p.Subcategory = req.Subcategory
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Currency != nil {
		p.Currency = *req.Currency
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.WeightGrams != nil {
		p.WeightGrams = req.WeightGrams
	}
	if req.Dimensions != nil {
		p.Dimensions = req.Dimensions
	}
	if req.Color != nil {
		p.Color = req.Color
	}
	if req.Clarity != nil {
		p.Clarity = req.Clarity
	}
	if req.Origin != nil {
		p.Origin = req.Origin
	}
	if req.Cut != nil {
		p.Cut = req.Cut
	}
	if req.Grade != nil {
		p.Grade = req.Grade
	}
	if req.Materials != nil {
		p.Materials = req.Materials
	}
	if req.Tags != nil {
		p.Tags = req.Tags
	}
	if req.Images != nil {
		p.Images = media.Normalize(*req.Images)
	}
	if req.Featured != nil {
		p.IsFeatured = *req.Featured
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Metadata != nil {
		p.Metadata = req.Metadata
	}
}

// objectKey extracts the bucket-relative key from a stored object URL.
// Recognizes URLs shaped like http(s)://host/bucket/products/... and returns
// the part starting at "products/".
func objectKey(u string) (string, bool) {
	idx := strings.Index(u, "/products/")
	if idx < 0 {
		return "", false
	}
	return u[idx+1:], true
}

// variantKeyFor derives a variant key next to the original:
// products/id/0_original.jpg -> products/id/0_medium.jpg
func variantKeyFor(originalKey, variant string) string {
	if idx := strings.LastIndex(originalKey, "_original."); idx >= 0 {
		return originalKey[:idx] + "_" + variant + ".jpg"
	}
	return originalKey + "." + variant + ".jpg"
}

// extensionFor maps a MIME type to a file extension.
func extensionFor(mime string) string {
	switch mime {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "video/mp4":
		return "mp4"
	case "video/webm":
		return "webm"
	case "video/quicktime":
		return "mov"
	default:
		if _, sub, found := strings.Cut(mime, "/"); found && sub != "" {
			return sub
		}
		return "bin"
	}
}
