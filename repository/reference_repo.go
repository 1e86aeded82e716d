package repository

import (
	"context"

	"productcatalog/models"
)

// ReferenceRepository reads the brand, category and tag collections.
// Lookups are exact matches on name.
type ReferenceRepository interface {
	// FindBrandByName returns nil, nil when no brand has the name.
	FindBrandByName(ctx context.Context, name string) (*models.Brand, error)
	// FindCategoryByName returns nil, nil when no category has the name.
	FindCategoryByName(ctx context.Context, name string) (*models.Category, error)
	// FindTagsByNames returns the tags whose name is in names. Names with
	// no tag are absent from the result.
	FindTagsByNames(ctx context.Context, names []string) ([]models.Tag, error)
}
