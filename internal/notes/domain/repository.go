package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines note persistence.
type Repository interface {
	// Save persists a note (create or update).
	Save(ctx context.Context, note *Note) error

	// FindByID finds a note owned by the user.
	FindByID(ctx context.Context, userID, id uuid.UUID) (*Note, error)

	// FindByUser finds all notes for a user, most recently updated first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Note, error)

	// Delete removes a note.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
