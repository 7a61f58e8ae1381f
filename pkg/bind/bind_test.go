package bind_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shashiranjanraj/inventory/pkg/bind"
)

type createBody struct {
	Name  string  `json:"name"  validate:"required,max=255"`
	Price float64 `json:"price" validate:"gte=0"`
}

func TestJSON_Valid(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Widget","price":9.99}`))

	var body createBody
	errs, err := bind.JSON(req, &body)
	if err != nil {
		t.Fatalf("JSON returned error: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	if body.Name != "Widget" || body.Price != 9.99 {
		t.Errorf("decoded body = %+v", body)
	}
}

func TestJSON_ValidationErrors(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"price":-1}`))

	var body createBody
	errs, err := bind.JSON(req, &body)
	if err != nil {
		t.Fatalf("JSON returned error: %v", err)
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 validation errors, got %v", errs)
	}
	// Errors are keyed by json field name, not Go field name.
	if _, ok := errs["name"]; !ok {
		t.Errorf("expected error under key %q, got %v", "name", errs)
	}
	if _, ok := errs["price"]; !ok {
		t.Errorf("expected error under key %q, got %v", "price", errs)
	}
}

func TestJSON_MalformedBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))

	var body createBody
	_, err := bind.JSON(req, &body)
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}
