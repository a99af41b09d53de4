// Package persistence contains the goal repositories.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/goals/domain"
)

// ErrGoalNotFound is returned when a goal id resolves to nothing.
var ErrGoalNotFound = errors.New("goal not found")

// SQLiteGoalRepository implements domain.Repository using SQLite.
type SQLiteGoalRepository struct {
	dbConn *sql.DB
}

// NewSQLiteGoalRepository creates a new SQLite goal repository.
func NewSQLiteGoalRepository(dbConn *sql.DB) *SQLiteGoalRepository {
	return &SQLiteGoalRepository{dbConn: dbConn}
}

// Save upserts a goal.
func (r *SQLiteGoalRepository) Save(ctx context.Context, goal *domain.Goal) error {
	var dueDate sql.NullString
	if goal.DueDate != nil {
		dueDate = sql.NullString{String: goal.DueDate.Format(time.RFC3339), Valid: true}
	}

	query := `
		INSERT INTO goals (
			id, user_id, title, description, target_value, current_value,
			unit, due_date, completed, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			target_value = excluded.target_value,
			current_value = excluded.current_value,
			unit = excluded.unit,
			due_date = excluded.due_date,
			completed = excluded.completed,
			updated_at = excluded.updated_at
	`
	_, err := r.dbConn.ExecContext(ctx, query,
		goal.ID().String(),
		goal.UserID.String(),
		goal.Title,
		goal.Description,
		goal.TargetValue,
		goal.CurrentValue,
		goal.Unit,
		dueDate,
		boolToInt64(goal.Completed),
		goal.CreatedAt().Format(time.RFC3339),
		goal.UpdatedAt().Format(time.RFC3339),
	)
	return err
}

// FindByID retrieves a goal owned by the user.
func (r *SQLiteGoalRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.Goal, error) {
	row := r.dbConn.QueryRowContext(ctx, selectGoals+` WHERE user_id = ? AND id = ?`, userID.String(), id.String())
	goal, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// FindByUser returns all goals for a user in creation order.
func (r *SQLiteGoalRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error) {
	rows, err := r.dbConn.QueryContext(ctx, selectGoals+` WHERE user_id = ? ORDER BY created_at, id`, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGoals(rows)
}

// FindOpenByUser returns all incomplete goals for a user.
func (r *SQLiteGoalRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error) {
	rows, err := r.dbConn.QueryContext(ctx, selectGoals+` WHERE user_id = ? AND completed = 0 ORDER BY created_at, id`, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGoals(rows)
}

// Delete removes a goal.
func (r *SQLiteGoalRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	_, err := r.dbConn.ExecContext(ctx, `DELETE FROM goals WHERE user_id = ? AND id = ?`, userID.String(), id.String())
	return err
}

const selectGoals = `
	SELECT id, user_id, title, description, target_value, current_value,
	       unit, due_date, completed, created_at, updated_at
	FROM goals`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (*domain.Goal, error) {
	var (
		idStr, userIDStr, title, description string
		target, current                      float64
		unit                                 string
		dueStr                               sql.NullString
		completed                            int64
		createdStr, updatedStr               string
	)
	if err := row.Scan(
		&idStr, &userIDStr, &title, &description, &target, &current,
		&unit, &dueStr, &completed, &createdStr, &updatedStr,
	); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}
	var dueDate *time.Time
	if dueStr.Valid && dueStr.String != "" {
		due, err := time.Parse(time.RFC3339, dueStr.String)
		if err != nil {
			return nil, err
		}
		due = due.UTC()
		dueDate = &due
	}
	createdAt, _ := time.Parse(time.RFC3339, createdStr)
	updatedAt, _ := time.Parse(time.RFC3339, updatedStr)

	return domain.RehydrateGoal(
		id, userID, title, description, target, current,
		unit, dueDate, completed != 0, createdAt, updatedAt,
	), nil
}

func scanGoals(rows *sql.Rows) ([]*domain.Goal, error) {
	var goals []*domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
