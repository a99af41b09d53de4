package domain

import (
	"github.com/google/uuid"

	sharedDomain "github.com/lifedash/lifedash/internal/shared/domain"
)

const aggregateType = "Goal"

// GoalCreated is emitted when a goal is created.
type GoalCreated struct {
	sharedDomain.BaseEvent
	GoalID uuid.UUID `json:"goal_id"`
	UserID uuid.UUID `json:"user_id"`
	Title  string    `json:"title"`
	Target float64   `json:"target"`
	Unit   string    `json:"unit"`
}

// NewGoalCreated creates a GoalCreated event.
func NewGoalCreated(g *Goal) *GoalCreated {
	return &GoalCreated{
		BaseEvent: sharedDomain.NewBaseEvent(g.ID().String(), aggregateType, "goals.goal.created"),
		GoalID:    g.ID(),
		UserID:    g.UserID,
		Title:     g.Title,
		Target:    g.TargetValue,
		Unit:      g.Unit,
	}
}

// GoalProgressUpdated is emitted whenever the current value changes.
type GoalProgressUpdated struct {
	sharedDomain.BaseEvent
	GoalID  uuid.UUID `json:"goal_id"`
	UserID  uuid.UUID `json:"user_id"`
	Current float64   `json:"current"`
	Target  float64   `json:"target"`
}

// NewGoalProgressUpdated creates a GoalProgressUpdated event.
func NewGoalProgressUpdated(g *Goal) *GoalProgressUpdated {
	return &GoalProgressUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(g.ID().String(), aggregateType, "goals.goal.progress_updated"),
		GoalID:    g.ID(),
		UserID:    g.UserID,
		Current:   g.CurrentValue,
		Target:    g.TargetValue,
	}
}

// GoalCompleted is emitted when the current value reaches the target.
type GoalCompleted struct {
	sharedDomain.BaseEvent
	GoalID uuid.UUID `json:"goal_id"`
	UserID uuid.UUID `json:"user_id"`
	Title  string    `json:"title"`
}

// NewGoalCompleted creates a GoalCompleted event.
func NewGoalCompleted(g *Goal) *GoalCompleted {
	return &GoalCompleted{
		BaseEvent: sharedDomain.NewBaseEvent(g.ID().String(), aggregateType, "goals.goal.completed"),
		GoalID:    g.ID(),
		UserID:    g.UserID,
		Title:     g.Title,
	}
}
