package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHabit(t *testing.T) {
	userID := uuid.New()

	h, err := NewHabit(userID, "  Morning run  ", "30 minutes", FrequencyDaily)

	require.NoError(t, err)
	assert.Equal(t, "Morning run", h.Name())
	assert.Equal(t, "30 minutes", h.Description())
	assert.Equal(t, FrequencyDaily, h.Frequency())
	assert.Zero(t, h.Streak())
	assert.False(t, h.IsArchived())
	require.Len(t, h.DomainEvents(), 1)
	assert.Equal(t, "habits.habit.created", h.DomainEvents()[0].RoutingKey())
}

func TestNewHabitValidation(t *testing.T) {
	userID := uuid.New()

	_, err := NewHabit(userID, "   ", "", FrequencyDaily)
	assert.ErrorIs(t, err, ErrEmptyHabitName)

	_, err = NewHabit(userID, "Read", "", Frequency("fortnightly"))
	assert.ErrorIs(t, err, ErrInvalidFrequency)

	h, err := NewHabit(userID, "Read", "", "")
	require.NoError(t, err)
	assert.Equal(t, FrequencyDaily, h.Frequency(), "empty frequency defaults to daily")
}

func TestLogCompletionOncePerDay(t *testing.T) {
	h, err := NewHabit(uuid.New(), "Read", "", FrequencyDaily)
	require.NoError(t, err)

	day := time.Date(2024, 1, 8, 14, 30, 0, 0, time.UTC)
	require.NoError(t, h.LogCompletion(day))

	// Same calendar day at a different clock time is still a duplicate.
	err = h.LogCompletion(time.Date(2024, 1, 8, 21, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrHabitAlreadyLogged)
	assert.Equal(t, 1, h.TotalDone())
}

func TestStreakConsecutiveDays(t *testing.T) {
	h, err := NewHabit(uuid.New(), "Read", "", FrequencyDaily)
	require.NoError(t, err)

	start := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, h.LogCompletion(start.AddDate(0, 0, i)))
	}

	assert.Equal(t, 3, h.Streak())
	assert.Equal(t, 3, h.BestStreak())
	assert.Equal(t, 3, h.TotalDone())
}

func TestStreakResetsAfterGap(t *testing.T) {
	h, err := NewHabit(uuid.New(), "Read", "", FrequencyDaily)
	require.NoError(t, err)

	start := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	require.NoError(t, h.LogCompletion(start))
	require.NoError(t, h.LogCompletion(start.AddDate(0, 0, 1)))

	// Skip Jan 10, log Jan 11: streak restarts but best streak survives.
	require.NoError(t, h.LogCompletion(start.AddDate(0, 0, 3)))

	assert.Equal(t, 1, h.Streak())
	assert.Equal(t, 2, h.BestStreak())
	assert.Equal(t, 3, h.TotalDone())
}

func TestStreakSkipsNonDueDays(t *testing.T) {
	h, err := NewHabit(uuid.New(), "Standup prep", "", FrequencyWeekdays)
	require.NoError(t, err)

	// Thursday, Friday, then Monday: the weekend gap does not break it.
	require.NoError(t, h.LogCompletion(time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, h.LogCompletion(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, h.LogCompletion(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, 3, h.Streak())
}

func TestWeeklyStreakUsesCreationWeekday(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) // Monday
	h := RehydrateHabit(uuid.New(), uuid.New(), "Review", "", FrequencyWeekly,
		0, 0, 0, false, created, created, nil)

	assert.True(t, h.IsDueOn(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)))
	assert.False(t, h.IsDueOn(time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, h.LogCompletion(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, h.LogCompletion(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, 2, h.Streak())
}

func TestArchivedHabitRejectsCompletions(t *testing.T) {
	h, err := NewHabit(uuid.New(), "Read", "", FrequencyDaily)
	require.NoError(t, err)

	h.Archive()
	assert.True(t, h.IsArchived())
	assert.False(t, h.IsDueOn(time.Now()))

	err = h.LogCompletion(time.Now())
	assert.ErrorIs(t, err, ErrHabitArchived)

	h.Unarchive()
	assert.False(t, h.IsArchived())
	require.NoError(t, h.LogCompletion(time.Now()))
}

func TestChangeFrequencyRecomputesStreak(t *testing.T) {
	h, err := NewHabit(uuid.New(), "Read", "", FrequencyWeekdays)
	require.NoError(t, err)

	// Thursday and Friday logged, nothing on the weekend.
	require.NoError(t, h.LogCompletion(time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, h.LogCompletion(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, h.Streak())

	// Under a daily schedule the weekend counts as missed.
	sunday := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	require.NoError(t, h.ChangeFrequency(FrequencyDaily, sunday))
	assert.Equal(t, 0, h.Streak())
}

func TestMilestoneEvent(t *testing.T) {
	h, err := NewHabit(uuid.New(), "Read", "", FrequencyDaily)
	require.NoError(t, err)
	h.ClearDomainEvents()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		require.NoError(t, h.LogCompletion(start.AddDate(0, 0, i)))
	}

	var milestones []int
	for _, evt := range h.DomainEvents() {
		if m, ok := evt.(*HabitMilestoneReached); ok {
			milestones = append(milestones, m.Milestone)
		}
	}
	assert.Equal(t, []int{7}, milestones)
}

func TestCompletionRate(t *testing.T) {
	h, err := NewHabit(uuid.New(), "Read", "", FrequencyDaily)
	require.NoError(t, err)

	today := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, h.LogCompletion(today))
	require.NoError(t, h.LogCompletion(today.AddDate(0, 0, -1)))

	assert.InDelta(t, 0.5, h.CompletionRate(today, 4), 0.001)
	assert.Zero(t, h.CompletionRate(today, 0))
}

func TestRehydrateHabitRestoresCompletions(t *testing.T) {
	id, userID := uuid.New(), uuid.New()
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	completions := []time.Time{
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	h := RehydrateHabit(id, userID, "Read", "Before bed", FrequencyDaily,
		2, 5, 12, false, created, created, completions)

	assert.Equal(t, id, h.ID())
	assert.Equal(t, 2, h.Streak())
	assert.Equal(t, 5, h.BestStreak())
	assert.Equal(t, 12, h.TotalDone())
	assert.True(t, h.IsCompletedOn(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	days := h.Completions()
	require.Len(t, days, 2)
	assert.True(t, days[0].Before(days[1]), "completions come back sorted")
	assert.Empty(t, h.DomainEvents())
}
