// Package domain contains the habit tracking model.
package domain

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/lifedash/lifedash/internal/shared/domain"
)

var (
	ErrEmptyHabitName     = errors.New("habit name cannot be empty")
	ErrInvalidFrequency   = errors.New("invalid habit frequency")
	ErrHabitArchived      = errors.New("habit is archived")
	ErrHabitAlreadyLogged = errors.New("habit already logged for this day")
)

// Frequency describes when a habit is due.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyWeekdays Frequency = "weekdays"
	FrequencyWeekends Frequency = "weekends"
)

// IsValid reports whether the frequency is one of the supported values.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyWeekdays, FrequencyWeekends:
		return true
	}
	return false
}

// streakLookback caps the backwards walk when recomputing a streak.
const streakLookback = 366

// Habit is a recurring practice the user wants to keep up. Completions are
// tracked per day; a habit can be logged at most once per day.
type Habit struct {
	sharedDomain.BaseAggregateRoot
	userID      uuid.UUID
	name        string
	description string
	frequency   Frequency
	streak      int
	bestStreak  int
	totalDone   int
	archived    bool
	completions map[string]time.Time
}

// NewHabit creates a new habit.
func NewHabit(userID uuid.UUID, name, description string, frequency Frequency) (*Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyHabitName
	}
	if frequency == "" {
		frequency = FrequencyDaily
	}
	if !frequency.IsValid() {
		return nil, ErrInvalidFrequency
	}

	h := &Habit{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		name:              name,
		description:       strings.TrimSpace(description),
		frequency:         frequency,
		completions:       make(map[string]time.Time),
	}
	h.AddDomainEvent(NewHabitCreated(h))
	return h, nil
}

// RehydrateHabit recreates a habit from persisted state.
func RehydrateHabit(
	id uuid.UUID,
	userID uuid.UUID,
	name string,
	description string,
	frequency Frequency,
	streak int,
	bestStreak int,
	totalDone int,
	archived bool,
	createdAt time.Time,
	updatedAt time.Time,
	completions []time.Time,
) *Habit {
	h := &Habit{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), 0),
		userID:      userID,
		name:        name,
		description: description,
		frequency:   frequency,
		streak:      streak,
		bestStreak:  bestStreak,
		totalDone:   totalDone,
		archived:    archived,
		completions: make(map[string]time.Time, len(completions)),
	}
	for _, day := range completions {
		d := dateOnly(day)
		h.completions[dateKey(d)] = d
	}
	return h
}

func (h *Habit) UserID() uuid.UUID    { return h.userID }
func (h *Habit) Name() string         { return h.name }
func (h *Habit) Description() string  { return h.description }
func (h *Habit) Frequency() Frequency { return h.frequency }
func (h *Habit) Streak() int          { return h.streak }
func (h *Habit) BestStreak() int      { return h.bestStreak }
func (h *Habit) TotalDone() int       { return h.totalDone }
func (h *Habit) IsArchived() bool     { return h.archived }

// Completions returns the completion days in ascending order.
func (h *Habit) Completions() []time.Time {
	out := make([]time.Time, 0, len(h.completions))
	for _, day := range h.completions {
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Rename changes the habit's name.
func (h *Habit) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyHabitName
	}
	h.name = name
	h.Touch()
	return nil
}

// SetDescription changes the habit's description.
func (h *Habit) SetDescription(description string) {
	h.description = strings.TrimSpace(description)
	h.Touch()
}

// ChangeFrequency switches the due schedule. The streak is recomputed under
// the new schedule so a switch never strands an impossible count.
func (h *Habit) ChangeFrequency(frequency Frequency, today time.Time) error {
	if !frequency.IsValid() {
		return ErrInvalidFrequency
	}
	if frequency == h.frequency {
		return nil
	}
	h.frequency = frequency
	h.streak = h.computeStreak(dateOnly(today))
	h.Touch()
	h.AddDomainEvent(NewHabitFrequencyChanged(h))
	return nil
}

// LogCompletion records the habit as done on the given day. A day can be
// logged only once.
func (h *Habit) LogCompletion(day time.Time) error {
	if h.archived {
		return ErrHabitArchived
	}
	d := dateOnly(day)
	key := dateKey(d)
	if _, ok := h.completions[key]; ok {
		return ErrHabitAlreadyLogged
	}

	h.completions[key] = d
	h.totalDone++
	h.streak = h.computeStreak(d)
	if h.streak > h.bestStreak {
		h.bestStreak = h.streak
	}
	h.Touch()
	h.AddDomainEvent(NewHabitCompleted(h, d))

	for _, milestone := range []int{7, 30, 100, 365} {
		if h.streak == milestone {
			h.AddDomainEvent(NewHabitMilestoneReached(h, milestone))
		}
	}
	return nil
}

// IsCompletedOn reports whether the habit was logged on the given day.
func (h *Habit) IsCompletedOn(day time.Time) bool {
	_, ok := h.completions[dateKey(dateOnly(day))]
	return ok
}

// IsDueOn reports whether the habit's schedule expects a completion on the
// given day. Archived habits are never due.
func (h *Habit) IsDueOn(day time.Time) bool {
	if h.archived {
		return false
	}
	switch h.frequency {
	case FrequencyDaily:
		return true
	case FrequencyWeekly:
		return day.Weekday() == h.CreatedAt().Weekday()
	case FrequencyWeekdays:
		wd := day.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case FrequencyWeekends:
		wd := day.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	}
	return false
}

// computeStreak walks backwards from the given day. Completed days extend the
// streak; days the schedule skips are passed over; the first due day without
// a completion ends the walk.
func (h *Habit) computeStreak(from time.Time) int {
	streak := 0
	cursor := from
	for i := 0; i < streakLookback; i++ {
		if h.IsCompletedOn(cursor) {
			streak++
		} else if h.IsDueOn(cursor) {
			break
		}
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// CompletionRate returns the share of due days completed over the trailing
// window ending on the given day. A window with no due days rates zero.
func (h *Habit) CompletionRate(today time.Time, days int) float64 {
	if days <= 0 {
		return 0
	}
	due, done := 0, 0
	cursor := dateOnly(today)
	for i := 0; i < days; i++ {
		if h.IsDueOn(cursor) {
			due++
			if h.IsCompletedOn(cursor) {
				done++
			}
		}
		cursor = cursor.AddDate(0, 0, -1)
	}
	if due == 0 {
		return 0
	}
	return float64(done) / float64(due)
}

// Archive retires the habit. Archived habits keep their history but accept
// no further completions.
func (h *Habit) Archive() {
	if h.archived {
		return
	}
	h.archived = true
	h.Touch()
	h.AddDomainEvent(NewHabitArchived(h))
}

// Unarchive reactivates an archived habit.
func (h *Habit) Unarchive() {
	if !h.archived {
		return
	}
	h.archived = false
	h.Touch()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
