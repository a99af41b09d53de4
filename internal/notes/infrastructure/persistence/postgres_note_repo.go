package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifedash/lifedash/internal/notes/domain"
)

// PostgresNoteRepository implements domain.Repository using PostgreSQL.
type PostgresNoteRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresNoteRepository creates a new Postgres note repository.
func NewPostgresNoteRepository(pool *pgxpool.Pool) *PostgresNoteRepository {
	return &PostgresNoteRepository{pool: pool}
}

// Save upserts a note.
func (r *PostgresNoteRepository) Save(ctx context.Context, note *domain.Note) error {
	query := `
		INSERT INTO notes (id, user_id, title, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		note.ID(), note.UserID, note.Title, note.Body, note.CreatedAt(), note.UpdatedAt(),
	)
	return err
}

// FindByID retrieves a note owned by the user.
func (r *PostgresNoteRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.Note, error) {
	row := r.pool.QueryRow(ctx, selectNotesPG+` WHERE user_id = $1 AND id = $2`, userID, id)
	note, err := scanNotePG(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// FindByUser returns all notes for a user, most recently updated first.
func (r *PostgresNoteRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Note, error) {
	rows, err := r.pool.Query(ctx, selectNotesPG+` WHERE user_id = $1 ORDER BY updated_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		note, err := scanNotePG(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// Delete removes a note.
func (r *PostgresNoteRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE user_id = $1 AND id = $2`, userID, id)
	return err
}

const selectNotesPG = `SELECT id, user_id, title, body, created_at, updated_at FROM notes`

func scanNotePG(row pgx.Row) (*domain.Note, error) {
	var (
		id, userID           uuid.UUID
		title, body          string
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &userID, &title, &body, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateNote(id, userID, title, body, createdAt, updatedAt), nil
}
