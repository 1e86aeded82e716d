package repository

import (
	"context"

	"productcatalog/models"
)

type ProductRepository interface {
	// Create stores p and returns the store-generated identifier.
	Create(ctx context.Context, p *models.Product) (string, error)
	// GetByID returns models.ErrProductNotFound for unknown or malformed ids.
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Find(ctx context.Context, q ProductQuery) ([]models.ProductSummary, error)
	// Update replaces every mutable field of the product at id. It never
	// inserts; no match returns models.ErrProductNotFound.
	Update(ctx context.Context, id string, p *models.Product) error
	Delete(ctx context.Context, id string) error
}
