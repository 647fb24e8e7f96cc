package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inventory-api/internal/domain/entity"
	domainErrors "inventory-api/internal/domain/errors"
)

const (
	findAllCategoriesQuery = `SELECT id, name FROM categories ORDER BY id`
	findCategoryByIDQuery  = `SELECT id, name FROM categories WHERE id = ?`
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.db.QueryContext(ctx, findAllCategoriesQuery)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []*entity.Category{}
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*entity.Category, error) {
	var c entity.Category
	err := r.db.QueryRowContext(ctx, findCategoryByIDQuery, id).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainErrors.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query category: %w", err)
	}

	return &c, nil
}
