package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/cache"
	"github.com/shashiranjanraj/inventory/pkg/collection"
	"github.com/shashiranjanraj/inventory/pkg/metrics"
)

// CategoriesCacheKey holds the full category list; unlike product listings
// it is a single unparameterized key.
const CategoriesCacheKey = "categories"

// CategoryStore is the persistence contract the service needs.
// *repositories.CategoryRepository implements it.
type CategoryStore interface {
	All(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uint) (models.Category, error)
	Create(ctx context.Context, category *models.Category) error
}

// CategoryService serves the cached category list and mutations.
type CategoryService struct {
	store CategoryStore
	cache cache.Store
	log   *slog.Logger
	ttl   time.Duration
}

func NewCategoryService(store CategoryStore, c cache.Store, log *slog.Logger, ttl time.Duration) *CategoryService {
	return &CategoryService{store: store, cache: c, log: log, ttl: ttl}
}

// List returns all categories, cache-aside under a single key.
func (s *CategoryService) List(ctx context.Context) ([]CategoryDTO, error) {
	var cached []CategoryDTO
	if s.cache.Get(CategoriesCacheKey, &cached) {
		s.log.Debug("categories served from cache")
		return cached, nil
	}

	categories, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}

	dtos := collection.Map(categories, toCategoryDTO)
	if err := s.cache.Set(CategoriesCacheKey, dtos, s.ttl); err != nil {
		s.log.Warn("failed to cache categories", "error", err)
	}

	return dtos, nil
}

// GetByID is uncached, like single product reads.
func (s *CategoryService) GetByID(ctx context.Context, id uint) (CategoryDTO, error) {
	category, err := s.store.FindByID(ctx, id)
	if err != nil {
		return CategoryDTO{}, err
	}
	return toCategoryDTO(category), nil
}

// Create persists a new category and drops the cached list.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (CategoryDTO, error) {
	category := models.Category{Name: in.Name}
	if err := s.store.Create(ctx, &category); err != nil {
		return CategoryDTO{}, err
	}

	metrics.CacheInvalidations.WithLabelValues(CategoriesCacheKey).Inc()
	if err := s.cache.Remove(CategoriesCacheKey); err != nil {
		s.log.Warn("failed to invalidate category cache", "error", err)
	}

	s.log.Info("category created", "category_id", category.ID, "name", category.Name)
	return toCategoryDTO(category), nil
}
