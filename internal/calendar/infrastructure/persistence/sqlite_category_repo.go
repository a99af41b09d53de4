package persistence

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/calendar/domain"
)

// SQLiteCategoryRepository implements domain.CategoryRepository using SQLite.
type SQLiteCategoryRepository struct {
	dbConn *sql.DB
}

// NewSQLiteCategoryRepository creates a new SQLite category repository.
func NewSQLiteCategoryRepository(dbConn *sql.DB) *SQLiteCategoryRepository {
	return &SQLiteCategoryRepository{dbConn: dbConn}
}

// FindByUser returns all stored categories for a user.
func (r *SQLiteCategoryRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Category, error) {
	query := `
		SELECT id, name, color_kind, color_value, is_visible
		FROM categories
		WHERE user_id = ?
		ORDER BY rowid
	`
	rows, err := r.dbConn.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		var kind, value string
		var visible int64
		if err := rows.Scan(&c.ID, &c.Name, &kind, &value, &visible); err != nil {
			return nil, err
		}
		c.Color = domain.Color{Kind: domain.ColorKind(kind), Value: value}
		c.IsVisible = visible != 0
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Save upserts a single category record.
func (r *SQLiteCategoryRepository) Save(ctx context.Context, userID uuid.UUID, category domain.Category) error {
	query := `
		INSERT INTO categories (id, user_id, name, color_kind, color_value, is_visible)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, id) DO UPDATE SET
			name = excluded.name,
			color_kind = excluded.color_kind,
			color_value = excluded.color_value,
			is_visible = excluded.is_visible
	`
	_, err := r.dbConn.ExecContext(ctx, query,
		category.ID,
		userID.String(),
		category.Name,
		string(category.Color.Kind),
		category.Color.Value,
		boolToInt64(category.IsVisible),
	)
	return err
}

// SaveAll upserts a batch of categories.
func (r *SQLiteCategoryRepository) SaveAll(ctx context.Context, userID uuid.UUID, categories []domain.Category) error {
	for _, c := range categories {
		if err := r.Save(ctx, userID, c); err != nil {
			return err
		}
	}
	return nil
}
