package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGoal(t *testing.T) {
	userID := uuid.New()
	due := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	goal, err := NewGoal(userID, "  Read books  ", "One a month", 12, "books", &due)

	require.NoError(t, err)
	assert.Equal(t, "Read books", goal.Title)
	assert.Equal(t, float64(12), goal.TargetValue)
	assert.Zero(t, goal.CurrentValue)
	assert.False(t, goal.Completed)
	require.Len(t, goal.DomainEvents(), 1)
	assert.Equal(t, "goals.goal.created", goal.DomainEvents()[0].RoutingKey())
}

func TestNewGoalValidation(t *testing.T) {
	userID := uuid.New()

	_, err := NewGoal(userID, "  ", "", 10, "", nil)
	assert.ErrorIs(t, err, ErrEmptyGoalTitle)

	_, err = NewGoal(userID, "Read", "", 0, "", nil)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = NewGoal(userID, "Read", "", -5, "", nil)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestAddProgress(t *testing.T) {
	goal, err := NewGoal(uuid.New(), "Read books", "", 12, "books", nil)
	require.NoError(t, err)
	goal.ClearDomainEvents()

	done, err := goal.AddProgress(5)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, float64(5), goal.CurrentValue)
	assert.InDelta(t, 41.6, goal.Progress(), 0.1)
	assert.Equal(t, float64(7), goal.Remaining())

	done, err = goal.AddProgress(7)
	require.NoError(t, err)
	assert.True(t, done)
	assert.True(t, goal.Completed)

	var keys []string
	for _, evt := range goal.DomainEvents() {
		keys = append(keys, evt.RoutingKey())
	}
	assert.Contains(t, keys, "goals.goal.completed")
}

func TestAddProgressAfterCompletion(t *testing.T) {
	goal, err := NewGoal(uuid.New(), "Read books", "", 1, "books", nil)
	require.NoError(t, err)
	_, err = goal.AddProgress(1)
	require.NoError(t, err)

	_, err = goal.AddProgress(1)
	assert.ErrorIs(t, err, ErrGoalCompleted)
}

func TestSetProgressRejectsNegative(t *testing.T) {
	goal, err := NewGoal(uuid.New(), "Save", "", 5000, "EUR", nil)
	require.NoError(t, err)

	_, err = goal.SetProgress(-100)
	assert.ErrorIs(t, err, ErrNegativeProgress)
	assert.Zero(t, goal.CurrentValue)
}

func TestSetTargetBelowCurrentCompletes(t *testing.T) {
	goal, err := NewGoal(uuid.New(), "Run km", "", 100, "km", nil)
	require.NoError(t, err)
	_, err = goal.AddProgress(60)
	require.NoError(t, err)

	require.NoError(t, goal.SetTarget(50))

	assert.True(t, goal.Completed)
	assert.Equal(t, float64(100), goal.Progress())
}

func TestReopen(t *testing.T) {
	goal, err := NewGoal(uuid.New(), "Read books", "", 1, "books", nil)
	require.NoError(t, err)
	_, err = goal.AddProgress(1)
	require.NoError(t, err)
	require.True(t, goal.Completed)

	goal.Reopen()
	assert.False(t, goal.Completed)

	require.NoError(t, goal.SetTarget(3))
	done, err := goal.AddProgress(1)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestIsOverdue(t *testing.T) {
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	goal, err := NewGoal(uuid.New(), "Read books", "", 12, "books", &due)
	require.NoError(t, err)

	assert.False(t, goal.IsOverdue(due.AddDate(0, 0, -1)))
	assert.True(t, goal.IsOverdue(due.AddDate(0, 0, 1)))

	_, err = goal.SetProgress(12)
	require.NoError(t, err)
	assert.False(t, goal.IsOverdue(due.AddDate(0, 0, 1)), "completed goals are never overdue")
}

func TestRehydrateGoal(t *testing.T) {
	id, userID := uuid.New(), uuid.New()
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	goal := RehydrateGoal(id, userID, "Save", "Emergency fund", 5000, 1200, "EUR", nil, false, created, created)

	assert.Equal(t, id, goal.ID())
	assert.Equal(t, float64(1200), goal.CurrentValue)
	assert.InDelta(t, 24, goal.Progress(), 0.001)
	assert.Empty(t, goal.DomainEvents())
}
