package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines habit persistence.
type Repository interface {
	// Save persists a habit and its completions (create or update).
	Save(ctx context.Context, habit *Habit) error

	// FindByID finds a habit owned by the user.
	FindByID(ctx context.Context, userID, id uuid.UUID) (*Habit, error)

	// FindByUser finds all habits for a user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Habit, error)

	// FindActiveByUser finds all non-archived habits for a user.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*Habit, error)

	// Delete removes a habit and its completions.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
