package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines job application persistence.
type Repository interface {
	// Save persists an application (create or update).
	Save(ctx context.Context, app *Application) error

	// FindByID finds an application owned by the user.
	FindByID(ctx context.Context, userID, id uuid.UUID) (*Application, error)

	// FindByUser finds all applications for a user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Application, error)

	// FindByStatus finds a user's applications in a given stage.
	FindByStatus(ctx context.Context, userID uuid.UUID, status Status) ([]*Application, error)

	// Delete removes an application.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
