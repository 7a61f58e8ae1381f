// Package routes declares the HTTP surface of the inventory API.
package routes

import (
	"github.com/shashiranjanraj/inventory/app/controllers"
	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/middleware"
	"github.com/shashiranjanraj/inventory/pkg/metrics"
	"github.com/shashiranjanraj/inventory/pkg/router"
)

// Controllers bundles everything RegisterAPI mounts.
type Controllers struct {
	Products   *controllers.ProductController
	Categories *controllers.CategoryController
	Auth       *controllers.AuthController
}

// RegisterAPI mounts all named routes. Reads are public; mutations require
// an authenticated admin.
func RegisterAPI(r *router.Router, c Controllers) {
	r.Get("/metrics", "metrics", metrics.Handler())

	api := r.Group("/api")

	api.Post("/auth/register", "auth.register", c.Auth.Register)
	api.Post("/auth/login", "auth.login", c.Auth.Login)

	api.Get("/products", "products.list", c.Products.List)
	api.Get("/products/{id}", "products.show", c.Products.GetByID)

	api.Get("/categories", "categories.list", c.Categories.List)
	api.Get("/categories/{id}", "categories.show", c.Categories.GetByID)

	admin := api.Group("", middleware.RequireAuth, middleware.RequireRole(models.RoleAdmin))
	admin.Post("/products", "products.create", c.Products.Create)
	admin.Put("/products/{id}", "products.update", c.Products.Update)
	admin.Delete("/products/{id}", "products.delete", c.Products.Delete)
	admin.Post("/categories", "categories.create", c.Categories.Create)
}
