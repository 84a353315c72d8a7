package repository

import (
	"context"
	"fmt"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// CategoryRepository reads categories from PostgreSQL.
type CategoryRepository struct {
	db dbtx
}

var _ trivia.CategoryRepository = (*CategoryRepository)(nil)

func NewCategoryRepository(db dbtx) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns every category ordered by type.
func (r *CategoryRepository) List(ctx context.Context) ([]trivia.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, type FROM categories ORDER BY type`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []trivia.Category
	for rows.Next() {
		var c trivia.Category
		if err := rows.Scan(&c.ID, &c.Type); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}
