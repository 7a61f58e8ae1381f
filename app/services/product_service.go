// Package services orchestrates repositories and the cache: cache-aside
// reads for listings, write-through invalidation on every mutation.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/app/queries"
	"github.com/shashiranjanraj/inventory/pkg/cache"
	"github.com/shashiranjanraj/inventory/pkg/metrics"
)

// ProductNamespace prefixes every cached listing key, so one RemoveByPrefix
// invalidates all filter/sort/page variants at once.
const ProductNamespace = "products"

// ProductStore is the persistence contract the service needs.
// *repositories.ProductRepository implements it.
type ProductStore interface {
	Query(ctx context.Context, q queries.ProductQuery) (int64, []models.Product, error)
	FindByID(ctx context.Context, id uint) (models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
}

// ProductService coordinates listing queries with the cache.
type ProductService struct {
	store       ProductStore
	cache       cache.Store
	log         *slog.Logger
	ttl         time.Duration
	maxPageSize int
}

func NewProductService(store ProductStore, c cache.Store, log *slog.Logger, ttl time.Duration, maxPageSize int) *ProductService {
	return &ProductService{
		store:       store,
		cache:       c,
		log:         log,
		ttl:         ttl,
		maxPageSize: maxPageSize,
	}
}

// List serves a paginated, filtered, sorted product page. The normalized
// query maps to exactly one cache key; on a miss the repository is queried
// once and the page is cached for the configured TTL. Repository errors
// propagate; cache errors never do.
func (s *ProductService) List(ctx context.Context, params queries.ListParams) (ProductPage, error) {
	q := queries.Normalize(params, s.maxPageSize)
	key := q.CacheKey(ProductNamespace)

	var page ProductPage
	if s.cache.Get(key, &page) {
		s.log.Debug("products served from cache", "key", key)
		return page, nil
	}

	total, items, err := s.store.Query(ctx, q)
	if err != nil {
		return ProductPage{}, err
	}

	page = ProductPage{
		Total:     total,
		Page:      q.Page,
		PageSize:  q.PageSize,
		Items:     toProductDTOs(items),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.cache.Set(key, page, s.ttl); err != nil {
		// Cache faults degrade to an uncached response, never an error.
		s.log.Warn("failed to cache product page", "key", key, "error", err)
	} else {
		s.log.Debug("products queried and cached", "key", key, "total", total)
	}

	return page, nil
}

// GetByID is deliberately uncached: caching is reserved for the expensive
// listing path.
func (s *ProductService) GetByID(ctx context.Context, id uint) (ProductDTO, error) {
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}
	return toProductDTO(product), nil
}

// Create persists a new product and invalidates every cached listing page.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (ProductDTO, error) {
	product := models.Product{
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		Status:        models.ProductStatus(in.Status),
		CategoryID:    in.CategoryID,
	}

	if err := s.store.Create(ctx, &product); err != nil {
		return ProductDTO{}, err
	}

	s.invalidateListings()
	s.log.Info("product created", "product_id", product.ID, "name", product.Name)

	// Reload so the DTO carries the category name.
	return s.GetByID(ctx, product.ID)
}

// Update persists changes to an existing product, then invalidates.
// Returns repositories.ErrNotFound (wrapped through the store) when the id
// does not exist.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (ProductDTO, error) {
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.StockQuantity = in.StockQuantity
	product.Status = models.ProductStatus(in.Status)
	product.CategoryID = in.CategoryID

	if err := s.store.Update(ctx, &product); err != nil {
		return ProductDTO{}, err
	}

	s.invalidateListings()
	s.log.Info("product updated", "product_id", id)

	return s.GetByID(ctx, id)
}

// Delete removes a product and invalidates all cached listings.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateListings()
	s.log.Info("product deleted", "product_id", id)
	return nil
}

// invalidateListings drops every cached page under the products namespace,
// regardless of its filter/sort/page combination. Coarse on purpose:
// precision is traded for correctness under arbitrary filter combinations.
func (s *ProductService) invalidateListings() {
	metrics.CacheInvalidations.WithLabelValues(ProductNamespace).Inc()
	if err := s.cache.RemoveByPrefix(ProductNamespace); err != nil {
		s.log.Warn("failed to invalidate product cache", "error", err)
	}
}
