package seeders

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("catalog", SeedCatalog)
	Register("admin_user", SeedAdminUser)
}

var categoryNames = []string{
	"Electronics",
	"Books",
	"Clothing",
	"Sports",
	"Home & Kitchen",
	"Toys & Games",
	"Beauty & Health",
	"Automotive",
	"Office Supplies",
	"Garden & Outdoor",
}

// SeedCatalog inserts the demo categories and 100 random products.
// No-op when the catalog tables already contain rows.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := make([]models.Category, len(categoryNames))
	for i, name := range categoryNames {
		categories[i] = models.Category{Name: name}
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	products := make([]models.Product, 0, 100)
	for i := 1; i <= 100; i++ {
		category := categories[rand.Intn(len(categories))]
		products = append(products, models.Product{
			Name:          fmt.Sprintf("Product %d", i),
			Description:   fmt.Sprintf("Description for Product %d", i),
			Price:         math.Round(rand.Float64()*1000*100) / 100,
			StockQuantity: 1 + rand.Intn(99),
			Status:        models.StatusAvailable,
			CategoryID:    category.ID,
		})
	}

	return db.Create(&products).Error
}

// SeedAdminUser creates the default admin account if no admin exists yet.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("admin")
	if err != nil {
		return err
	}

	admin := models.User{Username: "admin", PasswordHash: hash, Role: models.RoleAdmin}
	return db.Create(&admin).Error
}
