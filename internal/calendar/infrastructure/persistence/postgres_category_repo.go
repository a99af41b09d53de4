package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifedash/lifedash/internal/calendar/domain"
)

// PostgresCategoryRepository implements domain.CategoryRepository using PostgreSQL.
type PostgresCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCategoryRepository creates a new Postgres category repository.
func NewPostgresCategoryRepository(pool *pgxpool.Pool) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{pool: pool}
}

// FindByUser returns all stored categories for a user.
func (r *PostgresCategoryRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Category, error) {
	query := `
		SELECT id, name, color_kind, color_value, is_visible
		FROM categories
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		var kind, value string
		if err := rows.Scan(&c.ID, &c.Name, &kind, &value, &c.IsVisible); err != nil {
			return nil, err
		}
		c.Color = domain.Color{Kind: domain.ColorKind(kind), Value: value}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Save upserts a single category record.
func (r *PostgresCategoryRepository) Save(ctx context.Context, userID uuid.UUID, category domain.Category) error {
	query := `
		INSERT INTO categories (id, user_id, name, color_kind, color_value, is_visible, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			color_kind = EXCLUDED.color_kind,
			color_value = EXCLUDED.color_value,
			is_visible = EXCLUDED.is_visible
	`
	_, err := r.pool.Exec(ctx, query,
		category.ID,
		userID,
		category.Name,
		string(category.Color.Kind),
		category.Color.Value,
		category.IsVisible,
	)
	return err
}

// SaveAll upserts a batch of categories.
func (r *PostgresCategoryRepository) SaveAll(ctx context.Context, userID uuid.UUID, categories []domain.Category) error {
	for _, c := range categories {
		if err := r.Save(ctx, userID, c); err != nil {
			return err
		}
	}
	return nil
}
