package models

import (
	"strings"
	"time"
)

type Product struct {
	ID          string      `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	CategoryID  interface{} `json:"category_id,omitempty" db:"category_id"`
	Category    string      `json:"category" db:"category"`
	BrandID     interface{} `json:"brand_id,omitempty" db:"brand_id"`
	Brand       string      `json:"brand" db:"brand"`
	Price       float64     `json:"price" db:"price"`
	Description string      `json:"description" db:"description"`
	Tags        []Tag       `json:"tags" db:"tags"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty" db:"updated_at"`
}

// ProductSummary is the list view. Price and description are only served
// by the single-product lookup.
type ProductSummary struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Category string `json:"category" db:"category"`
	Brand    string `json:"brand" db:"brand"`
	Tags     []Tag  `json:"tags" db:"tags"`
}

// ProductInput is the body of POST /products and PUT /products/{id}.
// Pointers and nil slices let validation tell "missing" from "zero".
type ProductInput struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Brand       *string  `json:"brand"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
}

// Validate reports ErrMissingFields unless all six fields are present.
// An empty tag list counts as present; a missing one does not.
func (in ProductInput) Validate() error {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" ||
		in.Category == nil || strings.TrimSpace(*in.Category) == "" ||
		in.Brand == nil || strings.TrimSpace(*in.Brand) == "" ||
		in.Price == nil ||
		in.Description == nil ||
		in.Tags == nil {
		return ErrMissingFields
	}
	return nil
}
