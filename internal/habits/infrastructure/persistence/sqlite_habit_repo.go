// Package persistence contains the habit repositories.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/habits/domain"
)

// ErrHabitNotFound is returned when a habit id resolves to nothing.
var ErrHabitNotFound = errors.New("habit not found")

// SQLiteHabitRepository implements domain.Repository using SQLite.
type SQLiteHabitRepository struct {
	dbConn *sql.DB
}

// NewSQLiteHabitRepository creates a new SQLite habit repository.
func NewSQLiteHabitRepository(dbConn *sql.DB) *SQLiteHabitRepository {
	return &SQLiteHabitRepository{dbConn: dbConn}
}

// Save upserts a habit and inserts any new completions in one transaction.
func (r *SQLiteHabitRepository) Save(ctx context.Context, habit *domain.Habit) error {
	tx, err := r.dbConn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO habits (
			id, user_id, name, description, frequency,
			streak, best_streak, total_done, archived, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			frequency = excluded.frequency,
			streak = excluded.streak,
			best_streak = excluded.best_streak,
			total_done = excluded.total_done,
			archived = excluded.archived,
			updated_at = excluded.updated_at
	`
	_, err = tx.ExecContext(ctx, query,
		habit.ID().String(),
		habit.UserID().String(),
		habit.Name(),
		habit.Description(),
		string(habit.Frequency()),
		int64(habit.Streak()),
		int64(habit.BestStreak()),
		int64(habit.TotalDone()),
		boolToInt64(habit.IsArchived()),
		habit.CreatedAt().Format(time.RFC3339),
		habit.UpdatedAt().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, day := range habit.Completions() {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO habit_completions (habit_id, completed_on, created_at)
			VALUES (?, ?, ?)
			ON CONFLICT (habit_id, completed_on) DO NOTHING`,
			habit.ID().String(), day.Format(time.DateOnly), now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindByID retrieves a habit owned by the user.
func (r *SQLiteHabitRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.Habit, error) {
	row := r.dbConn.QueryRowContext(ctx, selectHabits+` WHERE user_id = ? AND id = ?`, userID.String(), id.String())
	hr, err := scanHabitRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHabitNotFound
	}
	if err != nil {
		return nil, err
	}
	completions, err := r.loadCompletions(ctx, hr.id)
	if err != nil {
		return nil, err
	}
	return hr.toDomain(completions), nil
}

// FindByUser returns all habits for a user in creation order.
func (r *SQLiteHabitRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Habit, error) {
	return r.query(ctx, selectHabits+` WHERE user_id = ? ORDER BY created_at, id`, userID.String())
}

// FindActiveByUser returns all non-archived habits for a user.
func (r *SQLiteHabitRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Habit, error) {
	return r.query(ctx, selectHabits+` WHERE user_id = ? AND archived = 0 ORDER BY created_at, id`, userID.String())
}

// Delete removes a habit; completions go with it via CASCADE.
func (r *SQLiteHabitRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	_, err := r.dbConn.ExecContext(ctx, `DELETE FROM habits WHERE user_id = ? AND id = ?`, userID.String(), id.String())
	return err
}

// query scans all habit rows before touching completions. The pool holds a
// single SQLite connection, so nested queries under an open cursor would
// starve it.
func (r *SQLiteHabitRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Habit, error) {
	rows, err := r.dbConn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habitRows []habitRow
	for rows.Next() {
		hr, err := scanHabitRow(rows)
		if err != nil {
			return nil, err
		}
		habitRows = append(habitRows, hr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	habits := make([]*domain.Habit, 0, len(habitRows))
	for _, hr := range habitRows {
		completions, err := r.loadCompletions(ctx, hr.id)
		if err != nil {
			return nil, err
		}
		habits = append(habits, hr.toDomain(completions))
	}
	return habits, nil
}

func (r *SQLiteHabitRepository) loadCompletions(ctx context.Context, habitID uuid.UUID) ([]time.Time, error) {
	rows, err := r.dbConn.QueryContext(ctx,
		`SELECT completed_on FROM habit_completions WHERE habit_id = ? ORDER BY completed_on`,
		habitID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []time.Time
	for rows.Next() {
		var dayStr string
		if err := rows.Scan(&dayStr); err != nil {
			return nil, err
		}
		day, err := time.Parse(time.DateOnly, dayStr)
		if err != nil {
			return nil, err
		}
		completions = append(completions, day)
	}
	return completions, rows.Err()
}

const selectHabits = `
	SELECT id, user_id, name, description, frequency,
	       streak, best_streak, total_done, archived, created_at, updated_at
	FROM habits`

type habitRow struct {
	id          uuid.UUID
	userID      uuid.UUID
	name        string
	description string
	frequency   string
	streak      int64
	bestStreak  int64
	totalDone   int64
	archived    int64
	createdAt   time.Time
	updatedAt   time.Time
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabitRow(row rowScanner) (habitRow, error) {
	var (
		hr                     habitRow
		idStr, userIDStr       string
		createdStr, updatedStr string
	)
	if err := row.Scan(
		&idStr, &userIDStr, &hr.name, &hr.description, &hr.frequency,
		&hr.streak, &hr.bestStreak, &hr.totalDone, &hr.archived, &createdStr, &updatedStr,
	); err != nil {
		return habitRow{}, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return habitRow{}, err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return habitRow{}, err
	}
	hr.id = id
	hr.userID = userID
	hr.createdAt, _ = time.Parse(time.RFC3339, createdStr)
	hr.updatedAt, _ = time.Parse(time.RFC3339, updatedStr)
	return hr, nil
}

func (hr habitRow) toDomain(completions []time.Time) *domain.Habit {
	return domain.RehydrateHabit(
		hr.id, hr.userID, hr.name, hr.description, domain.Frequency(hr.frequency),
		int(hr.streak), int(hr.bestStreak), int(hr.totalDone), hr.archived != 0,
		hr.createdAt, hr.updatedAt, completions,
	)
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
