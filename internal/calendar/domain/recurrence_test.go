package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedash/lifedash/internal/calendar/domain"
)

func recurringEvent(t *testing.T, r domain.Recurrence) *domain.Event {
	t.Helper()
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	e, err := domain.NewEvent(uuid.New(), "Standup", start, start.Add(30*time.Minute), "work")
	require.NoError(t, err)
	require.NoError(t, e.SetRecurrence(r))
	return e
}

func TestExpandOccurrencesDaily(t *testing.T) {
	e := recurringEvent(t, domain.Recurrence{Type: domain.RecurrenceDaily, Interval: 1})

	occurrences := domain.ExpandOccurrences(e,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))

	// Jan 2, 3, 4: the base occurrence on Jan 1 is the stored event itself.
	require.Len(t, occurrences, 3)
	for i, o := range occurrences {
		expected := time.Date(2024, 1, 2+i, 9, 0, 0, 0, time.UTC)
		assert.Equal(t, expected, o.StartAt())
		assert.Equal(t, expected.Add(30*time.Minute), o.EndAt())
		assert.Equal(t, "Standup", o.Title())
		assert.Nil(t, o.Recurrence())
		assert.NotEqual(t, e.ID(), o.ID())
	}
}

func TestExpandOccurrencesInterval(t *testing.T) {
	e := recurringEvent(t, domain.Recurrence{Type: domain.RecurrenceWeekly, Interval: 2})

	occurrences := domain.ExpandOccurrences(e,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	require.Len(t, occurrences, 2)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), occurrences[0].StartAt())
	assert.Equal(t, time.Date(2024, 1, 29, 9, 0, 0, 0, time.UTC), occurrences[1].StartAt())
}

func TestExpandOccurrencesRespectsUntil(t *testing.T) {
	until := time.Date(2024, 1, 3, 23, 59, 59, 0, time.UTC)
	e := recurringEvent(t, domain.Recurrence{Type: domain.RecurrenceDaily, Interval: 1, Until: &until})

	occurrences := domain.ExpandOccurrences(e,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))

	require.Len(t, occurrences, 2)
	assert.Equal(t, time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC), occurrences[1].StartAt())
}

func TestExpandOccurrencesRespectsCount(t *testing.T) {
	e := recurringEvent(t, domain.Recurrence{Type: domain.RecurrenceDaily, Interval: 1, Count: 3})

	occurrences := domain.ExpandOccurrences(e,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))

	// Count includes the base occurrence.
	require.Len(t, occurrences, 2)
}

func TestExpandOccurrencesNonRecurring(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	e, err := domain.NewEvent(uuid.New(), "Once", start, start.Add(time.Hour), "work")
	require.NoError(t, err)

	assert.Nil(t, domain.ExpandOccurrences(e,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestRRuleString(t *testing.T) {
	s := domain.Recurrence{Type: domain.RecurrenceWeekly, Interval: 2}.RRuleString()

	assert.True(t, len(s) > len("RRULE:"))
	assert.Contains(t, s, "RRULE:")
	assert.Contains(t, s, "FREQ=WEEKLY")
	assert.Contains(t, s, "INTERVAL=2")
}

func TestExpandOccurrencesOccurrenceID(t *testing.T) {
	e := recurringEvent(t, domain.Recurrence{Type: domain.RecurrenceDaily, Interval: 1})

	occurrences := domain.ExpandOccurrences(e,
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 23, 0, 0, 0, time.UTC))

	require.Len(t, occurrences, 1)
	assert.Equal(t, e.ID()+"@2024-01-02", occurrences[0].ID())
}
