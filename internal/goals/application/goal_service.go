// Package application contains the goal use cases.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/goals/domain"
	"github.com/lifedash/lifedash/internal/shared/infrastructure/eventbus"
)

// GoalService handles goal tracking use cases.
type GoalService struct {
	goals     domain.Repository
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewGoalService creates a new GoalService. The publisher is optional.
func NewGoalService(goals domain.Repository, publisher eventbus.Publisher, logger *slog.Logger) *GoalService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoalService{goals: goals, publisher: publisher, logger: logger}
}

// CreateGoalCommand contains the data needed to create a goal.
type CreateGoalCommand struct {
	UserID      uuid.UUID
	Title       string
	Description string
	Target      float64
	Unit        string
	DueDate     *time.Time
}

// CreateGoal creates and persists a goal.
func (s *GoalService) CreateGoal(ctx context.Context, cmd CreateGoalCommand) (*domain.Goal, error) {
	goal, err := domain.NewGoal(cmd.UserID, cmd.Title, cmd.Description, cmd.Target, cmd.Unit, cmd.DueDate)
	if err != nil {
		return nil, err
	}
	if err := s.goals.Save(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}
	s.publishEvents(ctx, goal)
	return goal, nil
}

// UpdateGoalCommand carries partial updates for a goal. Nil fields stay
// untouched.
type UpdateGoalCommand struct {
	UserID      uuid.UUID
	GoalID      uuid.UUID
	Title       *string
	Description *string
	Target      *float64
	Unit        *string
	DueDate     *time.Time
	ClearDue    bool
}

// UpdateGoal applies a partial update to a goal.
func (s *GoalService) UpdateGoal(ctx context.Context, cmd UpdateGoalCommand) (*domain.Goal, error) {
	goal, err := s.goals.FindByID(ctx, cmd.UserID, cmd.GoalID)
	if err != nil {
		return nil, err
	}

	if cmd.Title != nil {
		if err := goal.Rename(*cmd.Title); err != nil {
			return nil, err
		}
	}
	if cmd.Description != nil {
		goal.Description = *cmd.Description
		goal.Touch()
	}
	if cmd.Target != nil {
		if err := goal.SetTarget(*cmd.Target); err != nil {
			return nil, err
		}
	}
	if cmd.Unit != nil {
		goal.Unit = *cmd.Unit
		goal.Touch()
	}
	if cmd.ClearDue {
		goal.DueDate = nil
		goal.Touch()
	} else if cmd.DueDate != nil {
		goal.DueDate = cmd.DueDate
		goal.Touch()
	}

	if err := s.goals.Save(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}
	s.publishEvents(ctx, goal)
	return goal, nil
}

// AddProgress moves a goal forward by the given amount.
func (s *GoalService) AddProgress(ctx context.Context, userID, goalID uuid.UUID, amount float64) (*domain.Goal, error) {
	goal, err := s.goals.FindByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	completed, err := goal.AddProgress(amount)
	if err != nil {
		return nil, err
	}
	if err := s.goals.Save(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}
	if completed {
		s.logger.Info("goal completed", "goal_id", goal.ID(), "title", goal.Title)
	}
	s.publishEvents(ctx, goal)
	return goal, nil
}

// SetProgress sets a goal's current value outright.
func (s *GoalService) SetProgress(ctx context.Context, userID, goalID uuid.UUID, value float64) (*domain.Goal, error) {
	goal, err := s.goals.FindByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if _, err := goal.SetProgress(value); err != nil {
		return nil, err
	}
	if err := s.goals.Save(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}
	s.publishEvents(ctx, goal)
	return goal, nil
}

// ReopenGoal clears the completed flag.
func (s *GoalService) ReopenGoal(ctx context.Context, userID, goalID uuid.UUID) (*domain.Goal, error) {
	goal, err := s.goals.FindByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	goal.Reopen()
	if err := s.goals.Save(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}
	return goal, nil
}

// GetGoal returns a single goal.
func (s *GoalService) GetGoal(ctx context.Context, userID, goalID uuid.UUID) (*domain.Goal, error) {
	return s.goals.FindByID(ctx, userID, goalID)
}

// ListGoals returns the user's goals, optionally only the open ones.
func (s *GoalService) ListGoals(ctx context.Context, userID uuid.UUID, openOnly bool) ([]*domain.Goal, error) {
	if openOnly {
		return s.goals.FindOpenByUser(ctx, userID)
	}
	return s.goals.FindByUser(ctx, userID)
}

// DeleteGoal removes a goal.
func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error {
	if _, err := s.goals.FindByID(ctx, userID, goalID); err != nil {
		return err
	}
	if err := s.goals.Delete(ctx, userID, goalID); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}

func (s *GoalService) publishEvents(ctx context.Context, goal *domain.Goal) {
	if s.publisher == nil {
		goal.ClearDomainEvents()
		return
	}
	for _, evt := range goal.DomainEvents() {
		if err := eventbus.PublishDomainEvent(ctx, s.publisher, evt); err != nil {
			s.logger.Warn("failed to publish domain event",
				"routing_key", evt.RoutingKey(),
				"goal_id", goal.ID(),
				"error", err,
			)
		}
	}
	goal.ClearDomainEvents()
}
