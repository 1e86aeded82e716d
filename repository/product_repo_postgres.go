package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"productcatalog/models"

	"github.com/lib/pq"
)

type PostgresProductRepo struct {
	DB *sql.DB
}

func NewPostgresProductRepo(db *sql.DB) *PostgresProductRepo {
	return &PostgresProductRepo{DB: db}
}

func (r *PostgresProductRepo) Create(ctx context.Context, p *models.Product) (string, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	categoryID, brandID, tagsJSON, err := productColumns(p)
	if err != nil {
		return "", err
	}

	var id int64
	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO products
		(name, category_id, category, brand_id, brand, price, description, tags, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`, p.Name, categoryID, p.Category, brandID, p.Brand, p.Price, p.Description, tagsJSON, p.CreatedAt).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert product: %w", err)
	}

	p.ID = strconv.FormatInt(id, 10)
	return p.ID, nil
}

func (r *PostgresProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	pid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, models.ErrProductNotFound
	}

	p := &models.Product{}
	var categoryID, brandID int64
	var tagsJSON []byte
	var updatedAt sql.NullTime
	err = r.DB.QueryRowContext(ctx, `
		SELECT id, name, category_id, category, brand_id, brand, price, description, tags, created_at, updated_at
		FROM products
		WHERE id = $1
	`, pid).Scan(&pid, &p.Name, &categoryID, &p.Category, &brandID, &p.Brand,
		&p.Price, &p.Description, &tagsJSON, &p.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	p.ID = strconv.FormatInt(pid, 10)
	p.CategoryID = strconv.FormatInt(categoryID, 10)
	p.BrandID = strconv.FormatInt(brandID, 10)
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}
	if p.Tags, err = decodeTags(tagsJSON); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresProductRepo) Find(ctx context.Context, q ProductQuery) ([]models.ProductSummary, error) {
	where, args := q.sqlWhere(func(s []string) interface{} { return pq.Array(s) })

	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, category, brand, tags FROM products`+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer rows.Close()

	out := []models.ProductSummary{}
	for rows.Next() {
		var s models.ProductSummary
		var id int64
		var tagsJSON []byte
		if err := rows.Scan(&id, &s.Name, &s.Category, &s.Brand, &tagsJSON); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		s.ID = strconv.FormatInt(id, 10)
		if s.Tags, err = decodeTags(tagsJSON); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

func (r *PostgresProductRepo) Update(ctx context.Context, id string, p *models.Product) error {
	pid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return models.ErrProductNotFound
	}
	categoryID, brandID, tagsJSON, err := productColumns(p)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	res, err := r.DB.ExecContext(ctx, `
		UPDATE products
		SET name=$1, category_id=$2, category=$3, brand_id=$4, brand=$5,
			price=$6, description=$7, tags=$8, updated_at=$9
		WHERE id=$10
	`, p.Name, categoryID, p.Category, brandID, p.Brand, p.Price, p.Description, tagsJSON, now, pid)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n == 0 {
		return models.ErrProductNotFound
	}
	p.ID = id
	p.UpdatedAt = &now
	return nil
}

func (r *PostgresProductRepo) Delete(ctx context.Context, id string) error {
	pid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return models.ErrProductNotFound
	}

	res, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, pid)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n == 0 {
		return models.ErrProductNotFound
	}
	return nil
}

// Tags are returned as a string so lib/pq sends them as text, not bytea.
func productColumns(p *models.Product) (categoryID, brandID int64, tagsJSON string, err error) {
	if categoryID, err = referenceKey("category", p.CategoryID); err != nil {
		return 0, 0, "", err
	}
	if brandID, err = referenceKey("brand", p.BrandID); err != nil {
		return 0, 0, "", err
	}
	tags := p.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return 0, 0, "", err
	}
	return categoryID, brandID, string(raw), nil
}

// referenceKey turns a reference id back into the BIGINT key it came from.
func referenceKey(kind string, id interface{}) (int64, error) {
	switch v := id.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s id %q: %w", kind, v, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("invalid %s id of type %T", kind, id)
	}
}

func decodeTags(raw []byte) ([]models.Tag, error) {
	tags := []models.Tag{}
	if len(raw) == 0 {
		return tags, nil
	}
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return tags, nil
}
