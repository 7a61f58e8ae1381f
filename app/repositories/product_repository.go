// Package repositories contains the GORM data-access layer.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/app/queries"
	"github.com/shashiranjanraj/inventory/pkg/metrics"
)

// ErrNotFound reports that a referenced row does not exist. It is a typed
// absence, distinct from validation and infrastructure failures.
var ErrNotFound = errors.New("record not found")

// ProductRepository handles database operations for Product.
// It is cache-agnostic; caching happens a layer above.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Query applies the normalized filters, counts the matching rows before
// pagination, then returns the requested page sorted by the whitelisted
// column. A page past the end yields (total, empty slice), not an error.
func (r *ProductRepository) Query(ctx context.Context, q queries.ProductQuery) (int64, []models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	tx := r.db.WithContext(ctx).Model(&models.Product{})

	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, nil, fmt.Errorf("count products: %w", err)
	}

	direction := "asc"
	if !q.Ascending {
		direction = "desc"
	}

	items := make([]models.Product, 0, q.PageSize)
	err := tx.
		Order(q.Sort.Column() + " " + direction).
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Preload("Category").
		Find(&items).Error
	if err != nil {
		return 0, nil, fmt.Errorf("query products: %w", err)
	}

	return total, items, nil
}

// FindByID loads one product with its category preloaded.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var product models.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("find product %d: %w", id, err)
	}
	return product, nil
}

// Create persists a new product record.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// Update persists changes to an existing product.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	defer metrics.ObserveDBQuery("update", time.Now())

	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return fmt.Errorf("update product %d: %w", product.ID, err)
	}
	return nil
}

// Delete removes a product by primary key. Deleting a row that does not
// exist returns ErrNotFound.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
