package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedash/lifedash/internal/calendar/domain"
)

func TestNewEvent(t *testing.T) {
	userID := uuid.New()
	start := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	e, err := domain.NewEvent(userID, "Standup", start, end, "work")

	require.NoError(t, err)
	require.NotNil(t, e)
	assert.NotEmpty(t, e.ID())
	assert.Equal(t, userID, e.UserID())
	assert.Equal(t, "Standup", e.Title())
	assert.Equal(t, start, e.StartAt())
	assert.Equal(t, end, e.EndAt())
	assert.Equal(t, "work", e.CategoryID())
	assert.False(t, e.IsAllDay())
	assert.False(t, e.IsRemote())
	assert.Len(t, e.DomainEvents(), 1)
}

func TestNewEventValidation(t *testing.T) {
	userID := uuid.New()
	start := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	tests := []struct {
		name    string
		userID  uuid.UUID
		title   string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"empty user", uuid.Nil, "Standup", start, end, domain.ErrEmptyUserID},
		{"empty title", userID, "", start, end, domain.ErrEmptyTitle},
		{"whitespace title", userID, "   ", start, end, domain.ErrEmptyTitle},
		{"zero start", userID, "Standup", time.Time{}, end, domain.ErrInvalidTimeRange},
		{"zero end", userID, "Standup", start, time.Time{}, domain.ErrInvalidTimeRange},
		{"end before start", userID, "Standup", end, start, domain.ErrInvalidTimeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewEvent(tt.userID, tt.title, tt.start, tt.end, "work")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewAllDayEventTruncatesToDate(t *testing.T) {
	day := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	e, err := domain.NewAllDayEvent(uuid.New(), "Conference", day, day, "work")

	require.NoError(t, err)
	assert.True(t, e.IsAllDay())
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), e.StartAt())
	assert.Equal(t, e.StartAt(), e.EndAt())
}

func TestNewRemoteEventID(t *testing.T) {
	start := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	e, err := domain.NewRemoteEvent(uuid.New(), "abc123", "Remote", start, start.Add(time.Hour), false, "google_primary")

	require.NoError(t, err)
	assert.Equal(t, "google_abc123", e.ID())
	assert.Equal(t, "abc123", e.GoogleEventID())
	assert.True(t, e.IsRemote())
	assert.Empty(t, e.DomainEvents())
}

func TestNewRemoteEventRequiresProviderID(t *testing.T) {
	start := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	_, err := domain.NewRemoteEvent(uuid.New(), "", "Remote", start, start.Add(time.Hour), false, "")
	assert.ErrorIs(t, err, domain.ErrEmptyRemoteID)
}

func TestRemoteEventsAreReadOnly(t *testing.T) {
	start := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	e, err := domain.NewRemoteEvent(uuid.New(), "abc123", "Remote", start, start.Add(time.Hour), false, "")
	require.NoError(t, err)

	assert.ErrorIs(t, e.SetTitle("Edited"), domain.ErrRemoteReadOnly)
	assert.ErrorIs(t, e.Reschedule(start, start.Add(2*time.Hour)), domain.ErrRemoteReadOnly)
	assert.ErrorIs(t, e.AddReminder(15), domain.ErrRemoteReadOnly)
	assert.ErrorIs(t, e.SetCategory("work"), domain.ErrRemoteReadOnly)
	assert.ErrorIs(t, e.SetRecurrence(domain.Recurrence{Type: domain.RecurrenceDaily, Interval: 1}), domain.ErrRemoteReadOnly)
}

func newLocalEvent(t *testing.T) *domain.Event {
	t.Helper()
	start := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	e, err := domain.NewEvent(uuid.New(), "Standup", start, start.Add(time.Hour), "work")
	require.NoError(t, err)
	return e
}

func TestRemindersSetSemantics(t *testing.T) {
	e := newLocalEvent(t)

	require.NoError(t, e.AddReminder(60))
	require.NoError(t, e.AddReminder(15))
	require.NoError(t, e.AddReminder(1440))

	// duplicate add is a no-op
	require.NoError(t, e.AddReminder(60))

	assert.Equal(t, []int{15, 60, 1440}, e.Reminders())
}

func TestAddReminderRejectsValuesOutsideMenu(t *testing.T) {
	e := newLocalEvent(t)

	assert.ErrorIs(t, e.AddReminder(45), domain.ErrInvalidReminder)
	assert.ErrorIs(t, e.AddReminder(0), domain.ErrInvalidReminder)
	assert.ErrorIs(t, e.AddReminder(-15), domain.ErrInvalidReminder)
}

func TestRemoveReminder(t *testing.T) {
	e := newLocalEvent(t)
	require.NoError(t, e.AddReminder(15))
	require.NoError(t, e.AddReminder(30))

	require.NoError(t, e.RemoveReminder(15))
	assert.Equal(t, []int{30}, e.Reminders())

	// removing an absent value is a no-op
	require.NoError(t, e.RemoveReminder(120))
	assert.Equal(t, []int{30}, e.Reminders())
}

func TestSetRecurrenceValidation(t *testing.T) {
	e := newLocalEvent(t)

	assert.ErrorIs(t, e.SetRecurrence(domain.Recurrence{Type: "fortnightly", Interval: 1}), domain.ErrInvalidRecurrenceType)
	assert.ErrorIs(t, e.SetRecurrence(domain.Recurrence{Type: domain.RecurrenceWeekly, Interval: 0}), domain.ErrInvalidRecurrenceInterval)

	require.NoError(t, e.SetRecurrence(domain.Recurrence{Type: domain.RecurrenceWeekly, Interval: 2}))
	require.NotNil(t, e.Recurrence())
	assert.Equal(t, domain.RecurrenceWeekly, e.Recurrence().Type)

	require.NoError(t, e.ClearRecurrence())
	assert.Nil(t, e.Recurrence())
}

func TestRescheduleKeepsAllDayDateOnly(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	e, err := domain.NewAllDayEvent(uuid.New(), "Trip", day, day, "travel")
	require.NoError(t, err)

	require.NoError(t, e.Reschedule(
		time.Date(2024, 3, 20, 13, 45, 0, 0, time.UTC),
		time.Date(2024, 3, 22, 8, 0, 0, 0, time.UTC),
	))

	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), e.StartAt())
	assert.Equal(t, time.Date(2024, 3, 22, 0, 0, 0, 0, time.UTC), e.EndAt())
}

func TestRehydrateEventSortsReminders(t *testing.T) {
	e := domain.RehydrateEvent(
		"id-1", uuid.New(), "Title", "",
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		false, "work", "", nil, []int{120, 15, 30}, nil, "", 3,
		time.Now().UTC(), time.Now().UTC(),
	)

	assert.Equal(t, []int{15, 30, 120}, e.Reminders())
	assert.Equal(t, 3, e.Version())
	assert.Empty(t, e.DomainEvents())
}
