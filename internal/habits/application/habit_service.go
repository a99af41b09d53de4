// Package application contains the habit use cases.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/habits/domain"
	"github.com/lifedash/lifedash/internal/shared/infrastructure/eventbus"
)

// HabitService handles habit tracking use cases.
type HabitService struct {
	habits    domain.Repository
	publisher eventbus.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewHabitService creates a new HabitService. The publisher is optional.
func NewHabitService(habits domain.Repository, publisher eventbus.Publisher, logger *slog.Logger) *HabitService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HabitService{
		habits:    habits,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateHabitCommand contains the data needed to create a habit.
type CreateHabitCommand struct {
	UserID      uuid.UUID
	Name        string
	Description string
	Frequency   domain.Frequency
}

// CreateHabit creates and persists a habit.
func (s *HabitService) CreateHabit(ctx context.Context, cmd CreateHabitCommand) (*domain.Habit, error) {
	habit, err := domain.NewHabit(cmd.UserID, cmd.Name, cmd.Description, cmd.Frequency)
	if err != nil {
		return nil, err
	}
	if err := s.habits.Save(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to save habit: %w", err)
	}
	s.publishEvents(ctx, habit)
	return habit, nil
}

// UpdateHabitCommand carries partial updates for a habit. Nil fields stay
// untouched.
type UpdateHabitCommand struct {
	UserID      uuid.UUID
	HabitID     uuid.UUID
	Name        *string
	Description *string
	Frequency   *domain.Frequency
}

// UpdateHabit applies a partial update to a habit.
func (s *HabitService) UpdateHabit(ctx context.Context, cmd UpdateHabitCommand) (*domain.Habit, error) {
	habit, err := s.habits.FindByID(ctx, cmd.UserID, cmd.HabitID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		if err := habit.Rename(*cmd.Name); err != nil {
			return nil, err
		}
	}
	if cmd.Description != nil {
		habit.SetDescription(*cmd.Description)
	}
	if cmd.Frequency != nil {
		if err := habit.ChangeFrequency(*cmd.Frequency, s.now()); err != nil {
			return nil, err
		}
	}

	if err := s.habits.Save(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to save habit: %w", err)
	}
	s.publishEvents(ctx, habit)
	return habit, nil
}

// LogCompletion marks the habit done on the given day. A zero day means
// today.
func (s *HabitService) LogCompletion(ctx context.Context, userID, habitID uuid.UUID, day time.Time) (*domain.Habit, error) {
	habit, err := s.habits.FindByID(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	if day.IsZero() {
		day = s.now()
	}
	if err := habit.LogCompletion(day); err != nil {
		return nil, err
	}
	if err := s.habits.Save(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to save habit: %w", err)
	}
	s.publishEvents(ctx, habit)
	return habit, nil
}

// GetHabit returns a single habit.
func (s *HabitService) GetHabit(ctx context.Context, userID, habitID uuid.UUID) (*domain.Habit, error) {
	return s.habits.FindByID(ctx, userID, habitID)
}

// ListHabits returns the user's habits, optionally excluding archived ones.
func (s *HabitService) ListHabits(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*domain.Habit, error) {
	if activeOnly {
		return s.habits.FindActiveByUser(ctx, userID)
	}
	return s.habits.FindByUser(ctx, userID)
}

// DueToday returns the active habits whose schedule expects a completion
// today and which are not yet logged.
func (s *HabitService) DueToday(ctx context.Context, userID uuid.UUID) ([]*domain.Habit, error) {
	habits, err := s.habits.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := s.now()
	due := make([]*domain.Habit, 0, len(habits))
	for _, h := range habits {
		if h.IsDueOn(today) && !h.IsCompletedOn(today) {
			due = append(due, h)
		}
	}
	return due, nil
}

// ArchiveHabit retires a habit without losing its history.
func (s *HabitService) ArchiveHabit(ctx context.Context, userID, habitID uuid.UUID) error {
	habit, err := s.habits.FindByID(ctx, userID, habitID)
	if err != nil {
		return err
	}
	habit.Archive()
	if err := s.habits.Save(ctx, habit); err != nil {
		return fmt.Errorf("failed to save habit: %w", err)
	}
	s.publishEvents(ctx, habit)
	return nil
}

// UnarchiveHabit reactivates an archived habit.
func (s *HabitService) UnarchiveHabit(ctx context.Context, userID, habitID uuid.UUID) error {
	habit, err := s.habits.FindByID(ctx, userID, habitID)
	if err != nil {
		return err
	}
	habit.Unarchive()
	if err := s.habits.Save(ctx, habit); err != nil {
		return fmt.Errorf("failed to save habit: %w", err)
	}
	return nil
}

// DeleteHabit removes a habit and its completion history.
func (s *HabitService) DeleteHabit(ctx context.Context, userID, habitID uuid.UUID) error {
	if _, err := s.habits.FindByID(ctx, userID, habitID); err != nil {
		return err
	}
	if err := s.habits.Delete(ctx, userID, habitID); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return nil
}

func (s *HabitService) publishEvents(ctx context.Context, habit *domain.Habit) {
	if s.publisher == nil {
		habit.ClearDomainEvents()
		return
	}
	for _, evt := range habit.DomainEvents() {
		if err := eventbus.PublishDomainEvent(ctx, s.publisher, evt); err != nil {
			s.logger.Warn("failed to publish domain event",
				"routing_key", evt.RoutingKey(),
				"habit_id", habit.ID(),
				"error", err,
			)
		}
	}
	habit.ClearDomainEvents()
}
