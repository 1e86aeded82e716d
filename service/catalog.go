// Package service holds the catalog and account logic between the HTTP
// handlers and the repositories.
package service

import (
	"context"
	"strings"
	"time"

	"productcatalog/models"
	"productcatalog/repository"

	"github.com/sirupsen/logrus"
)

type Catalog struct {
	products   repository.ProductRepository
	references repository.ReferenceRepository
	log        *logrus.Logger
	timeout    time.Duration
}

func NewCatalog(products repository.ProductRepository, references repository.ReferenceRepository, log *logrus.Logger, timeout time.Duration) *Catalog {
	return &Catalog{products: products, references: references, log: log, timeout: timeout}
}

// ResolveBrand maps a brand name to its record.
func (c *Catalog) ResolveBrand(ctx context.Context, name string) (*models.Brand, error) {
	b, err := c.references.FindBrandByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, models.ErrInvalidBrand
	}
	return b, nil
}

// ResolveCategory maps a category name to its record.
func (c *Catalog) ResolveCategory(ctx context.Context, name string) (*models.Category, error) {
	cat, err := c.references.FindCategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, models.ErrInvalidCategory
	}
	return cat, nil
}

// ResolveTags returns the tags that exist among names. Names are trimmed the
// same way search parameters are; unknown names are dropped without error.
func (c *Catalog) ResolveTags(ctx context.Context, names []string) ([]models.Tag, error) {
	unique := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if _, ok := seen[n]; ok || n == "" {
			continue
		}
		seen[n] = struct{}{}
		unique = append(unique, n)
	}

	tags, err := c.references.FindTagsByNames(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(tags) < len(unique) {
		c.log.WithFields(logrus.Fields{
			"requested": len(unique),
			"matched":   len(tags),
		}).Debug("dropping unknown tag names")
	}
	return tags, nil
}

// buildProduct validates the input and resolves its references into a
// product ready to be written.
func (c *Catalog) buildProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	brand, err := c.ResolveBrand(ctx, strings.TrimSpace(*in.Brand))
	if err != nil {
		return nil, err
	}
	category, err := c.ResolveCategory(ctx, strings.TrimSpace(*in.Category))
	if err != nil {
		return nil, err
	}
	tags, err := c.ResolveTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	return &models.Product{
		Name:        strings.TrimSpace(*in.Name),
		CategoryID:  category.ID,
		Category:    category.Name,
		BrandID:     brand.ID,
		Brand:       brand.Name,
		Price:       *in.Price,
		Description: *in.Description,
		Tags:        tags,
	}, nil
}

func (c *Catalog) CreateProduct(ctx context.Context, in models.ProductInput) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	p, err := c.buildProduct(ctx, in)
	if err != nil {
		return "", err
	}
	id, err := c.products.Create(ctx, p)
	if err != nil {
		return "", err
	}

	c.log.WithFields(logrus.Fields{"product_id": id, "tags": len(p.Tags)}).Info("product created")
	return id, nil
}

func (c *Catalog) UpdateProduct(ctx context.Context, id string, in models.ProductInput) error {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	p, err := c.buildProduct(ctx, in)
	if err != nil {
		return err
	}
	if err := c.products.Update(ctx, id, p); err != nil {
		return err
	}

	c.log.WithField("product_id", id).Info("product updated")
	return nil
}

func (c *Catalog) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	return c.products.GetByID(ctx, id)
}

func (c *Catalog) SearchProducts(ctx context.Context, q repository.ProductQuery) ([]models.ProductSummary, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	return c.products.Find(ctx, q)
}

func (c *Catalog) DeleteProduct(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.products.Delete(ctx, id); err != nil {
		return err
	}

	c.log.WithField("product_id", id).Info("product deleted")
	return nil
}

// withTimeout bounds a store round-trip. A zero timeout leaves only the
// caller's deadline.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
