// Package persistence contains the note repositories.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/notes/domain"
)

// ErrNoteNotFound is returned when a note id resolves to nothing.
var ErrNoteNotFound = errors.New("note not found")

// SQLiteNoteRepository implements domain.Repository using SQLite.
type SQLiteNoteRepository struct {
	dbConn *sql.DB
}

// NewSQLiteNoteRepository creates a new SQLite note repository.
func NewSQLiteNoteRepository(dbConn *sql.DB) *SQLiteNoteRepository {
	return &SQLiteNoteRepository{dbConn: dbConn}
}

// Save upserts a note.
func (r *SQLiteNoteRepository) Save(ctx context.Context, note *domain.Note) error {
	query := `
		INSERT INTO notes (id, user_id, title, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			updated_at = excluded.updated_at
	`
	_, err := r.dbConn.ExecContext(ctx, query,
		note.ID().String(),
		note.UserID.String(),
		note.Title,
		note.Body,
		note.CreatedAt().Format(time.RFC3339),
		note.UpdatedAt().Format(time.RFC3339),
	)
	return err
}

// FindByID retrieves a note owned by the user.
func (r *SQLiteNoteRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.Note, error) {
	row := r.dbConn.QueryRowContext(ctx, selectNotes+` WHERE user_id = ? AND id = ?`, userID.String(), id.String())
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// FindByUser returns all notes for a user, most recently updated first.
func (r *SQLiteNoteRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Note, error) {
	rows, err := r.dbConn.QueryContext(ctx, selectNotes+` WHERE user_id = ? ORDER BY updated_at DESC, id`, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// Delete removes a note.
func (r *SQLiteNoteRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	_, err := r.dbConn.ExecContext(ctx, `DELETE FROM notes WHERE user_id = ? AND id = ?`, userID.String(), id.String())
	return err
}

const selectNotes = `SELECT id, user_id, title, body, created_at, updated_at FROM notes`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*domain.Note, error) {
	var (
		idStr, userIDStr, title, body string
		createdStr, updatedStr        string
	)
	if err := row.Scan(&idStr, &userIDStr, &title, &body, &createdStr, &updatedStr); err != nil {
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
	createdAt, _ := time.Parse(time.RFC3339, createdStr)
	updatedAt, _ := time.Parse(time.RFC3339, updatedStr)

	return domain.RehydrateNote(id, userID, title, body, createdAt, updatedAt), nil
}
