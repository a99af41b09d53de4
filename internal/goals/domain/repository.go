package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines goal persistence.
type Repository interface {
	// Save persists a goal (create or update).
	Save(ctx context.Context, goal *Goal) error

	// FindByID finds a goal owned by the user.
	FindByID(ctx context.Context, userID, id uuid.UUID) (*Goal, error)

	// FindByUser finds all goals for a user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Goal, error)

	// FindOpenByUser finds all incomplete goals for a user.
	FindOpenByUser(ctx context.Context, userID uuid.UUID) ([]*Goal, error)

	// Delete removes a goal.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
