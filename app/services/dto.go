package services

import (
	"time"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/collection"
)

// ProductDTO is the outward projection of a product.
type ProductDTO struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	Status        string  `json:"status"`
	CategoryID    uint    `json:"category_id"`
	CategoryName  string  `json:"category_name"`
}

// ProductPage is the canonical cached unit for a listing: the structured
// (total, items) pair plus bookkeeping. Caching a bare item list would lose
// the unpaginated total.
type ProductPage struct {
	Total     int64        `json:"total"`
	Page      int          `json:"page"`
	PageSize  int          `json:"page_size"`
	Items     []ProductDTO `json:"items"`
	CreatedAt time.Time    `json:"created_at"`
}

// CategoryDTO is the outward projection of a category.
type CategoryDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ProductInput is the validated body for create/update.
type ProductInput struct {
	Name          string  `json:"name"           validate:"required,max=255"`
	Description   string  `json:"description"    validate:"max=1000"`
	Price         float64 `json:"price"          validate:"gte=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	Status        int     `json:"status"         validate:"gte=0,lte=1"`
	CategoryID    uint    `json:"category_id"    validate:"required"`
}

// CategoryInput is the validated body for category creation.
type CategoryInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

func toProductDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Status:        p.Status.String(),
		CategoryID:    p.CategoryID,
		CategoryName:  p.Category.Name,
	}
}

func toProductDTOs(products []models.Product) []ProductDTO {
	return collection.Map(products, toProductDTO)
}

func toCategoryDTO(c models.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name}
}
