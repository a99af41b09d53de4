package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifedash/lifedash/internal/habits/domain"
)

// PostgresHabitRepository implements domain.Repository using PostgreSQL.
type PostgresHabitRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresHabitRepository creates a new Postgres habit repository.
func NewPostgresHabitRepository(pool *pgxpool.Pool) *PostgresHabitRepository {
	return &PostgresHabitRepository{pool: pool}
}

// Save upserts a habit and inserts any new completions in one transaction.
func (r *PostgresHabitRepository) Save(ctx context.Context, habit *domain.Habit) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO habits (
			id, user_id, name, description, frequency,
			streak, best_streak, total_done, archived, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			frequency = EXCLUDED.frequency,
			streak = EXCLUDED.streak,
			best_streak = EXCLUDED.best_streak,
			total_done = EXCLUDED.total_done,
			archived = EXCLUDED.archived,
			updated_at = EXCLUDED.updated_at
	`
	_, err = tx.Exec(ctx, query,
		habit.ID(),
		habit.UserID(),
		habit.Name(),
		habit.Description(),
		string(habit.Frequency()),
		habit.Streak(),
		habit.BestStreak(),
		habit.TotalDone(),
		habit.IsArchived(),
		habit.CreatedAt(),
		habit.UpdatedAt(),
	)
	if err != nil {
		return err
	}

	for _, day := range habit.Completions() {
		_, err = tx.Exec(ctx, `
			INSERT INTO habit_completions (habit_id, completed_on, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (habit_id, completed_on) DO NOTHING`,
			habit.ID(), day,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// FindByID retrieves a habit owned by the user.
func (r *PostgresHabitRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.Habit, error) {
	row := r.pool.QueryRow(ctx, selectHabitsPG+` WHERE user_id = $1 AND id = $2`, userID, id)
	hr, err := scanHabitRowPG(row)
	if errors.Is(err, pgx.ErrNoRows) {
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
func (r *PostgresHabitRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Habit, error) {
	return r.query(ctx, selectHabitsPG+` WHERE user_id = $1 ORDER BY created_at, id`, userID)
}

// FindActiveByUser returns all non-archived habits for a user.
func (r *PostgresHabitRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Habit, error) {
	return r.query(ctx, selectHabitsPG+` WHERE user_id = $1 AND archived = FALSE ORDER BY created_at, id`, userID)
}

// Delete removes a habit; completions go with it via CASCADE.
func (r *PostgresHabitRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM habits WHERE user_id = $1 AND id = $2`, userID, id)
	return err
}

func (r *PostgresHabitRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Habit, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habitRows []habitRowPG
	for rows.Next() {
		hr, err := scanHabitRowPG(rows)
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

func (r *PostgresHabitRepository) loadCompletions(ctx context.Context, habitID uuid.UUID) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT completed_on FROM habit_completions WHERE habit_id = $1 ORDER BY completed_on`,
		habitID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		completions = append(completions, day)
	}
	return completions, rows.Err()
}

const selectHabitsPG = `
	SELECT id, user_id, name, description, frequency,
	       streak, best_streak, total_done, archived, created_at, updated_at
	FROM habits`

type habitRowPG struct {
	id          uuid.UUID
	userID      uuid.UUID
	name        string
	description string
	frequency   string
	streak      int
	bestStreak  int
	totalDone   int
	archived    bool
	createdAt   time.Time
	updatedAt   time.Time
}

func scanHabitRowPG(row pgx.Row) (habitRowPG, error) {
	var hr habitRowPG
	if err := row.Scan(
		&hr.id, &hr.userID, &hr.name, &hr.description, &hr.frequency,
		&hr.streak, &hr.bestStreak, &hr.totalDone, &hr.archived, &hr.createdAt, &hr.updatedAt,
	); err != nil {
		return habitRowPG{}, err
	}
	return hr, nil
}

func (hr habitRowPG) toDomain(completions []time.Time) *domain.Habit {
	return domain.RehydrateHabit(
		hr.id, hr.userID, hr.name, hr.description, domain.Frequency(hr.frequency),
		hr.streak, hr.bestStreak, hr.totalDone, hr.archived,
		hr.createdAt, hr.updatedAt, completions,
	)
}
