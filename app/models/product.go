package models

import "gorm.io/gorm"

// ProductStatus enumerates the lifecycle state of a product.
type ProductStatus int

const (
	StatusAvailable ProductStatus = iota
	StatusDiscontinued
)

func (s ProductStatus) String() string {
	switch s {
	case StatusDiscontinued:
		return "discontinued"
	default:
		return "available"
	}
}

// Product represents a product in the catalogue.
type Product struct {
	gorm.Model
	Name          string        `gorm:"size:255;not null;index"       json:"name"`
	Description   string        `gorm:"size:1000"                     json:"description"`
	Price         float64       `gorm:"not null;default:0"            json:"price"`
	StockQuantity int           `gorm:"not null;default:0"            json:"stock_quantity"`
	Status        ProductStatus `gorm:"not null;default:0"            json:"status"`
	CategoryID    uint          `gorm:"not null;index"                json:"category_id"`
	Category      Category      `gorm:"constraint:OnDelete:CASCADE"   json:"-"`
}

// Category groups products. Deleting a category cascades to its products.
type Category struct {
	gorm.Model
	Name     string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Products []Product `gorm:"constraint:OnDelete:CASCADE"   json:"-"`
}
