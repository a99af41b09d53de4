// Package application contains the job application use cases.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/jobs/domain"
	"github.com/lifedash/lifedash/internal/shared/infrastructure/eventbus"
)

// JobService handles job application tracking use cases.
type JobService struct {
	apps      domain.Repository
	publisher eventbus.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewJobService creates a new JobService. The publisher is optional.
func NewJobService(apps domain.Repository, publisher eventbus.Publisher, logger *slog.Logger) *JobService {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobService{apps: apps, publisher: publisher, logger: logger, now: time.Now}
}

// CreateApplicationCommand contains the data needed to track an application.
type CreateApplicationCommand struct {
	UserID  uuid.UUID
	Company string
	Role    string
	Notes   string
}

// CreateApplication creates and persists an application in the wishlist
// stage.
func (s *JobService) CreateApplication(ctx context.Context, cmd CreateApplicationCommand) (*domain.Application, error) {
	app, err := domain.NewApplication(cmd.UserID, cmd.Company, cmd.Role, cmd.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.apps.Save(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to save application: %w", err)
	}
	s.publishEvents(ctx, app)
	return app, nil
}

// AdvanceApplication moves an application to the next pipeline stage.
func (s *JobService) AdvanceApplication(ctx context.Context, userID, appID uuid.UUID, next domain.Status) (*domain.Application, error) {
	app, err := s.apps.FindByID(ctx, userID, appID)
	if err != nil {
		return nil, err
	}
	if err := app.Advance(next, s.now()); err != nil {
		return nil, err
	}
	if err := s.apps.Save(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to save application: %w", err)
	}
	s.publishEvents(ctx, app)
	return app, nil
}

// UpdateNotes replaces the free-form notes on an application.
func (s *JobService) UpdateNotes(ctx context.Context, userID, appID uuid.UUID, notes string) (*domain.Application, error) {
	app, err := s.apps.FindByID(ctx, userID, appID)
	if err != nil {
		return nil, err
	}
	app.SetNotes(notes)
	if err := s.apps.Save(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to save application: %w", err)
	}
	return app, nil
}

// GetApplication returns a single application.
func (s *JobService) GetApplication(ctx context.Context, userID, appID uuid.UUID) (*domain.Application, error) {
	return s.apps.FindByID(ctx, userID, appID)
}

// ListApplications returns a user's applications, optionally filtered by
// stage.
func (s *JobService) ListApplications(ctx context.Context, userID uuid.UUID, status domain.Status) ([]*domain.Application, error) {
	if status == "" {
		return s.apps.FindByUser(ctx, userID)
	}
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}
	return s.apps.FindByStatus(ctx, userID, status)
}

// PipelineSummary counts a user's applications per stage.
func (s *JobService) PipelineSummary(ctx context.Context, userID uuid.UUID) (map[domain.Status]int, error) {
	apps, err := s.apps.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := make(map[domain.Status]int)
	for _, app := range apps {
		summary[app.Status]++
	}
	return summary, nil
}

// DeleteApplication removes an application.
func (s *JobService) DeleteApplication(ctx context.Context, userID, appID uuid.UUID) error {
	if _, err := s.apps.FindByID(ctx, userID, appID); err != nil {
		return err
	}
	if err := s.apps.Delete(ctx, userID, appID); err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return nil
}

func (s *JobService) publishEvents(ctx context.Context, app *domain.Application) {
	if s.publisher == nil {
		app.ClearDomainEvents()
		return
	}
	for _, evt := range app.DomainEvents() {
		if err := eventbus.PublishDomainEvent(ctx, s.publisher, evt); err != nil {
			s.logger.Warn("failed to publish domain event",
				"routing_key", evt.RoutingKey(),
				"application_id", app.ID(),
				"error", err,
			)
		}
	}
	app.ClearDomainEvents()
}
