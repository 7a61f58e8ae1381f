// Package controllers translates HTTP requests into service calls and
// service results into JSON envelopes.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/inventory/app/queries"
	"github.com/shashiranjanraj/inventory/app/repositories"
	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/pkg/bind"
	"github.com/shashiranjanraj/inventory/pkg/logger"
	"github.com/shashiranjanraj/inventory/pkg/response"
)

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// List handles GET /api/products. All query parameters are optional;
// malformed values are treated as absent.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	page, err := c.service.List(r.Context(), params)
	if err != nil {
		logger.WithCtx(r.Context()).Error("product listing failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Listing(w, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID handles GET /api/products/{id}.
func (c *ProductController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := c.service.GetByID(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("product fetch failed", "product_id", id, "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, product)
}

// Create handles POST /api/products (admin only).
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if !bindBody(w, r, &in) {
		return
	}

	product, err := c.service.Create(r.Context(), in)
	if err != nil {
		logger.WithCtx(r.Context()).Error("product create failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Created(w, product)
}

// Update handles PUT /api/products/{id} (admin only).
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in services.ProductInput
	if !bindBody(w, r, &in) {
		return
	}

	product, err := c.service.Update(r.Context(), id, in)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("product update failed", "product_id", id, "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, product)
}

// Delete handles DELETE /api/products/{id} (admin only).
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := c.service.Delete(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("product delete failed", "product_id", id, "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.NoContent(w)
}

// parseListParams binds the listing query string. Absent or malformed
// values stay at their zero value so Normalize applies the defaults.
func parseListParams(r *http.Request) queries.ListParams {
	qs := r.URL.Query()

	var params queries.ListParams
	if v, err := strconv.Atoi(qs.Get("page")); err == nil {
		params.Page = v
	}
	if v, err := strconv.Atoi(qs.Get("page_size")); err == nil {
		params.PageSize = v
	}
	if v, err := strconv.ParseFloat(qs.Get("min_price"), 64); err == nil {
		params.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(qs.Get("max_price"), 64); err == nil {
		params.MaxPrice = &v
	}
	if v, err := strconv.ParseUint(qs.Get("category_id"), 10, 32); err == nil {
		id := uint(v)
		params.CategoryID = &id
	}
	params.SortBy = qs.Get("sort_by")
	switch qs.Get("order") {
	case "asc":
		asc := true
		params.Ascending = &asc
	case "desc":
		asc := false
		params.Ascending = &asc
	}

	return params
}

// pathID parses the {id} route parameter, writing a 404 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.NotFound(w)
		return 0, false
	}
	return uint(id), true
}

// bindBody decodes and validates a JSON request body, writing the error
// response on failure.
func bindBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	errs, err := bind.JSON(r, dest)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return false
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return false
	}
	return true
}
