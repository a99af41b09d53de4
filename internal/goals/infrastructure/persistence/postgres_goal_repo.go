package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifedash/lifedash/internal/goals/domain"
)

// PostgresGoalRepository implements domain.Repository using PostgreSQL.
type PostgresGoalRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresGoalRepository creates a new Postgres goal repository.
func NewPostgresGoalRepository(pool *pgxpool.Pool) *PostgresGoalRepository {
	return &PostgresGoalRepository{pool: pool}
}

// Save upserts a goal.
func (r *PostgresGoalRepository) Save(ctx context.Context, goal *domain.Goal) error {
	query := `
		INSERT INTO goals (
			id, user_id, title, description, target_value, current_value,
			unit, due_date, completed, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			target_value = EXCLUDED.target_value,
			current_value = EXCLUDED.current_value,
			unit = EXCLUDED.unit,
			due_date = EXCLUDED.due_date,
			completed = EXCLUDED.completed,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		goal.ID(),
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.TargetValue,
		goal.CurrentValue,
		goal.Unit,
		goal.DueDate,
		goal.Completed,
		goal.CreatedAt(),
		goal.UpdatedAt(),
	)
	return err
}

// FindByID retrieves a goal owned by the user.
func (r *PostgresGoalRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.Goal, error) {
	row := r.pool.QueryRow(ctx, selectGoalsPG+` WHERE user_id = $1 AND id = $2`, userID, id)
	goal, err := scanGoalPG(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// FindByUser returns all goals for a user in creation order.
func (r *PostgresGoalRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error) {
	rows, err := r.pool.Query(ctx, selectGoalsPG+` WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGoalsPG(rows)
}

// FindOpenByUser returns all incomplete goals for a user.
func (r *PostgresGoalRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error) {
	rows, err := r.pool.Query(ctx, selectGoalsPG+` WHERE user_id = $1 AND completed = FALSE ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGoalsPG(rows)
}

// Delete removes a goal.
func (r *PostgresGoalRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM goals WHERE user_id = $1 AND id = $2`, userID, id)
	return err
}

const selectGoalsPG = `
	SELECT id, user_id, title, description, target_value, current_value,
	       unit, due_date, completed, created_at, updated_at
	FROM goals`

func scanGoalPG(row pgx.Row) (*domain.Goal, error) {
	var (
		id, userID           uuid.UUID
		title, description   string
		target, current      float64
		unit                 string
		dueDate              *time.Time
		completed            bool
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(
		&id, &userID, &title, &description, &target, &current,
		&unit, &dueDate, &completed, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	return domain.RehydrateGoal(
		id, userID, title, description, target, current,
		unit, dueDate, completed, createdAt, updatedAt,
	), nil
}

func scanGoalsPG(rows pgx.Rows) ([]*domain.Goal, error) {
	var goals []*domain.Goal
	for rows.Next() {
		goal, err := scanGoalPG(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}
