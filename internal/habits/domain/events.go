package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/lifedash/lifedash/internal/shared/domain"
)

const aggregateType = "Habit"

// HabitCreated is emitted when a habit is created.
type HabitCreated struct {
	sharedDomain.BaseEvent
	HabitID   uuid.UUID `json:"habit_id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Frequency string    `json:"frequency"`
}

// NewHabitCreated creates a HabitCreated event.
func NewHabitCreated(h *Habit) *HabitCreated {
	return &HabitCreated{
		BaseEvent: sharedDomain.NewBaseEvent(h.ID().String(), aggregateType, "habits.habit.created"),
		HabitID:   h.ID(),
		UserID:    h.UserID(),
		Name:      h.Name(),
		Frequency: string(h.Frequency()),
	}
}

// HabitCompleted is emitted when a completion is logged.
type HabitCompleted struct {
	sharedDomain.BaseEvent
	HabitID     uuid.UUID `json:"habit_id"`
	UserID      uuid.UUID `json:"user_id"`
	CompletedOn time.Time `json:"completed_on"`
	Streak      int       `json:"streak"`
	TotalDone   int       `json:"total_done"`
}

// NewHabitCompleted creates a HabitCompleted event.
func NewHabitCompleted(h *Habit, day time.Time) *HabitCompleted {
	return &HabitCompleted{
		BaseEvent:   sharedDomain.NewBaseEvent(h.ID().String(), aggregateType, "habits.habit.completed"),
		HabitID:     h.ID(),
		UserID:      h.UserID(),
		CompletedOn: day,
		Streak:      h.Streak(),
		TotalDone:   h.TotalDone(),
	}
}

// HabitArchived is emitted when a habit is archived.
type HabitArchived struct {
	sharedDomain.BaseEvent
	HabitID uuid.UUID `json:"habit_id"`
	UserID  uuid.UUID `json:"user_id"`
}

// NewHabitArchived creates a HabitArchived event.
func NewHabitArchived(h *Habit) *HabitArchived {
	return &HabitArchived{
		BaseEvent: sharedDomain.NewBaseEvent(h.ID().String(), aggregateType, "habits.habit.archived"),
		HabitID:   h.ID(),
		UserID:    h.UserID(),
	}
}

// HabitFrequencyChanged is emitted when a habit's schedule changes.
type HabitFrequencyChanged struct {
	sharedDomain.BaseEvent
	HabitID   uuid.UUID `json:"habit_id"`
	UserID    uuid.UUID `json:"user_id"`
	Frequency string    `json:"frequency"`
}

// NewHabitFrequencyChanged creates a HabitFrequencyChanged event.
func NewHabitFrequencyChanged(h *Habit) *HabitFrequencyChanged {
	return &HabitFrequencyChanged{
		BaseEvent: sharedDomain.NewBaseEvent(h.ID().String(), aggregateType, "habits.habit.frequency_changed"),
		HabitID:   h.ID(),
		UserID:    h.UserID(),
		Frequency: string(h.Frequency()),
	}
}

// HabitMilestoneReached is emitted when a streak hits a milestone length.
type HabitMilestoneReached struct {
	sharedDomain.BaseEvent
	HabitID   uuid.UUID `json:"habit_id"`
	UserID    uuid.UUID `json:"user_id"`
	Milestone int       `json:"milestone"`
}

// NewHabitMilestoneReached creates a HabitMilestoneReached event.
func NewHabitMilestoneReached(h *Habit, milestone int) *HabitMilestoneReached {
	return &HabitMilestoneReached{
		BaseEvent: sharedDomain.NewBaseEvent(h.ID().String(), aggregateType, "habits.habit.milestone_reached"),
		HabitID:   h.ID(),
		UserID:    h.UserID(),
		Milestone: milestone,
	}
}
