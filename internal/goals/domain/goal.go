// Package domain contains the goal tracking model.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/lifedash/lifedash/internal/shared/domain"
)

var (
	ErrEmptyGoalTitle   = errors.New("goal title cannot be empty")
	ErrInvalidTarget    = errors.New("goal target must be positive")
	ErrNegativeProgress = errors.New("goal progress cannot be negative")
	ErrGoalCompleted    = errors.New("goal is already completed")
)

// Goal represents a measurable objective with a numeric target, like
// "read 12 books" or "save 5000".
type Goal struct {
	sharedDomain.BaseAggregateRoot
	UserID       uuid.UUID
	Title        string
	Description  string
	TargetValue  float64
	CurrentValue float64
	Unit         string
	DueDate      *time.Time
	Completed    bool
}

// NewGoal creates a new goal.
func NewGoal(userID uuid.UUID, title, description string, target float64, unit string, dueDate *time.Time) (*Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyGoalTitle
	}
	if target <= 0 {
		return nil, ErrInvalidTarget
	}

	goal := &Goal{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		UserID:            userID,
		Title:             title,
		Description:       strings.TrimSpace(description),
		TargetValue:       target,
		Unit:              strings.TrimSpace(unit),
		DueDate:           dueDate,
	}
	goal.AddDomainEvent(NewGoalCreated(goal))
	return goal, nil
}

// RehydrateGoal recreates a goal from persisted state.
func RehydrateGoal(
	id uuid.UUID,
	userID uuid.UUID,
	title string,
	description string,
	target float64,
	current float64,
	unit string,
	dueDate *time.Time,
	completed bool,
	createdAt, updatedAt time.Time,
) *Goal {
	return &Goal{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), 0),
		UserID:       userID,
		Title:        title,
		Description:  description,
		TargetValue:  target,
		CurrentValue: current,
		Unit:         unit,
		DueDate:      dueDate,
		Completed:    completed,
	}
}

// AddProgress moves the current value forward and reports whether the goal
// just crossed its target.
func (g *Goal) AddProgress(amount float64) (bool, error) {
	if g.Completed {
		return false, ErrGoalCompleted
	}
	return g.setProgress(g.CurrentValue + amount)
}

// SetProgress sets the current value outright, for corrections.
func (g *Goal) SetProgress(value float64) (bool, error) {
	if g.Completed {
		return false, ErrGoalCompleted
	}
	return g.setProgress(value)
}

func (g *Goal) setProgress(value float64) (bool, error) {
	if value < 0 {
		return false, ErrNegativeProgress
	}
	g.CurrentValue = value
	g.Touch()
	g.AddDomainEvent(NewGoalProgressUpdated(g))

	if g.CurrentValue >= g.TargetValue {
		g.Completed = true
		g.AddDomainEvent(NewGoalCompleted(g))
		return true, nil
	}
	return false, nil
}

// Reopen clears the completed flag so progress can continue, for example
// after raising the target.
func (g *Goal) Reopen() {
	if !g.Completed {
		return
	}
	g.Completed = false
	g.Touch()
}

// Rename changes the goal's title.
func (g *Goal) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyGoalTitle
	}
	g.Title = title
	g.Touch()
	return nil
}

// SetTarget changes the target value. Lowering the target below the current
// value completes the goal.
func (g *Goal) SetTarget(target float64) error {
	if target <= 0 {
		return ErrInvalidTarget
	}
	g.TargetValue = target
	if g.CurrentValue >= g.TargetValue && !g.Completed {
		g.Completed = true
		g.AddDomainEvent(NewGoalCompleted(g))
	}
	g.Touch()
	return nil
}

// Progress returns the completion percentage, capped at 100.
func (g *Goal) Progress() float64 {
	if g.TargetValue == 0 {
		return 0
	}
	progress := g.CurrentValue / g.TargetValue * 100
	if progress > 100 {
		return 100
	}
	return progress
}

// Remaining returns how much is left to reach the target.
func (g *Goal) Remaining() float64 {
	remaining := g.TargetValue - g.CurrentValue
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsOverdue reports whether the due date passed with the goal unfinished.
func (g *Goal) IsOverdue(now time.Time) bool {
	return g.DueDate != nil && !g.Completed && now.After(*g.DueDate)
}
