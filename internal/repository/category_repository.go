package repository

import (
	"context"
	"fmt"

	"github.com/pagatodo/finanzas-bot/internal/database"
	"github.com/pagatodo/finanzas-bot/internal/models"
)

// CategoryRepository reads user-defined categories. The web app owns
// these; the bot never writes them.
type CategoryRepository struct {
	db database.PGXDB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db database.PGXDB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetByOwner retrieves all custom categories for an account.
func (r *CategoryRepository) GetByOwner(ctx context.Context, ownerID string) ([]models.CustomCategory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, owner_id, label, value, type, created_at
		FROM custom_categories
		WHERE owner_id = $1
		ORDER BY label
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom categories: %w", err)
	}
	defer rows.Close()

	var categories []models.CustomCategory
	for rows.Next() {
		var cat models.CustomCategory
		if err := rows.Scan(&cat.ID, &cat.OwnerID, &cat.Label, &cat.Value, &cat.Type, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan custom category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating custom categories: %w", err)
	}
	return categories, nil
}

// Create adds a custom category. Only used by tests and tooling; the
// bot itself is a read-only consumer.
func (r *CategoryRepository) Create(ctx context.Context, cat *models.CustomCategory) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO custom_categories (owner_id, label, value, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, cat.OwnerID, cat.Label, cat.Value, cat.Type).Scan(&cat.ID, &cat.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create custom category: %w", err)
	}
	return nil
}
