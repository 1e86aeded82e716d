package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"productcatalog/models"

	"github.com/lib/pq"
)

type PostgresReferenceRepo struct {
	DB *sql.DB
}

func NewPostgresReferenceRepo(db *sql.DB) *PostgresReferenceRepo {
	return &PostgresReferenceRepo{DB: db}
}

func (r *PostgresReferenceRepo) FindBrandByName(ctx context.Context, name string) (*models.Brand, error) {
	id, found, err := r.findIDByName(ctx, "brands", name)
	if err != nil || !found {
		return nil, err
	}
	return &models.Brand{ID: id, Name: name}, nil
}

func (r *PostgresReferenceRepo) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	id, found, err := r.findIDByName(ctx, "categories", name)
	if err != nil || !found {
		return nil, err
	}
	return &models.Category{ID: id, Name: name}, nil
}

func (r *PostgresReferenceRepo) FindTagsByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := []models.Tag{}
	if len(names) == 0 {
		return tags, nil
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name FROM tags WHERE name = ANY($1) ORDER BY id
	`, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("find tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var t models.Tag
		if err := rows.Scan(&id, &t.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		t.ID = strconv.FormatInt(id, 10)
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// table is always one of the fixed reference table names, never user input.
func (r *PostgresReferenceRepo) findIDByName(ctx context.Context, table, name string) (string, bool, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `SELECT id FROM `+table+` WHERE name = $1`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("find %s: %w", table, err)
	}
	return strconv.FormatInt(id, 10), true, nil
}
