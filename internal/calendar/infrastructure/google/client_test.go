package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/lifedash/lifedash/internal/calendar/domain"
)

type stubTokenSourceProvider struct {
	source oauth2.TokenSource
	err    error
}

func (s stubTokenSourceProvider) TokenSource(ctx context.Context, userID uuid.UUID) (oauth2.TokenSource, error) {
	return s.source, s.err
}

func newTestClient(serverURL string) *Client {
	provider := stubTokenSourceProvider{
		source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}),
	}
	return NewClient(provider, nil, serverURL)
}

func TestListCalendars(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/users/me/calendarList" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": "primary", "summary": "My Calendar", "primary": true, "backgroundColor": "#9fe1e7"},
				{"id": "team@example.com", "summary": "Team"},
			},
		})
	}))
	defer server.Close()

	calendars, err := newTestClient(server.URL).ListCalendars(context.Background(), uuid.New())

	require.NoError(t, err)
	require.Len(t, calendars, 2)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "My Calendar", calendars[0].Name)
	assert.True(t, calendars[0].Primary)
	assert.Equal(t, "#9fe1e7", calendars[0].BackgroundColor)
	assert.Equal(t, "team@example.com", calendars[1].ID)
}

func TestListEvents(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{
					"id":          "evt-1",
					"summary":     "Planning",
					"description": "Q1 planning",
					"location":    "Room 4",
					"start":       map[string]any{"dateTime": "2024-01-08T09:00:00Z"},
					"end":         map[string]any{"dateTime": "2024-01-08T10:00:00Z"},
					"attendees":   []map[string]any{{"email": "a@example.com"}, {"email": "b@example.com"}},
					"reminders": map[string]any{
						"useDefault": false,
						"overrides":  []map[string]any{{"method": "popup", "minutes": 30}},
					},
				},
				{
					"id":      "evt-2",
					"summary": "Offsite",
					"start":   map[string]any{"date": "2024-01-10"},
					"end":     map[string]any{"date": "2024-01-13"},
				},
				{
					"id":     "evt-3",
					"status": "cancelled",
				},
			},
		})
	}))
	defer server.Close()

	userID := uuid.New()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	events, err := newTestClient(server.URL).ListEvents(context.Background(), userID, "primary", from, to)

	require.NoError(t, err)
	assert.Contains(t, gotQuery, "singleEvents=true")
	assert.Contains(t, gotQuery, "orderBy=startTime")
	assert.Contains(t, gotQuery, "timeMin=2024-01-01T00%3A00%3A00Z")

	require.Len(t, events, 2)

	timed := events[0]
	assert.Equal(t, "google_evt-1", timed.ID())
	assert.True(t, timed.IsRemote())
	assert.Equal(t, "Planning", timed.Title())
	assert.Equal(t, "Q1 planning", timed.Description())
	assert.Equal(t, "Room 4", timed.Location())
	assert.Equal(t, "google_primary", timed.CategoryID())
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, timed.Attendees())
	assert.Equal(t, []int{30}, timed.Reminders())
	assert.Equal(t, time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC), timed.StartAt())

	// Multi-day all-day spans collapse to their start day.
	allDay := events[1]
	assert.True(t, allDay.IsAllDay())
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), allDay.StartAt())
	assert.Equal(t, allDay.StartAt(), allDay.EndAt())
}

func TestListEventsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"insufficient scope"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListEvents(context.Background(), uuid.New(), "primary", time.Now(), time.Now().Add(time.Hour))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestCreateEvent(t *testing.T) {
	var gotPayload eventPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/calendars/primary/events", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "created-1"})
	}))
	defer server.Close()

	start := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	event, err := domain.NewEvent(uuid.New(), "Standup", start, start.Add(time.Hour), "work")
	require.NoError(t, err)
	require.NoError(t, event.AddReminder(30))
	require.NoError(t, event.AddReminder(15))

	id, err := newTestClient(server.URL).CreateEvent(context.Background(), uuid.New(), "primary", event)

	require.NoError(t, err)
	assert.Equal(t, "created-1", id)
	assert.Equal(t, "Standup", gotPayload.Summary)
	assert.Equal(t, "2024-01-08T09:00:00Z", gotPayload.Start.DateTime)
	require.NotNil(t, gotPayload.Reminders)
	assert.False(t, gotPayload.Reminders.UseDefault)
	require.Len(t, gotPayload.Reminders.Overrides, 2)
	assert.Equal(t, reminderOverride{Method: "popup", Minutes: 15}, gotPayload.Reminders.Overrides[0])
}

func TestCreateEventAllDayUsesExclusiveEnd(t *testing.T) {
	var gotPayload eventPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "created-2"})
	}))
	defer server.Close()

	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	event, err := domain.NewAllDayEvent(uuid.New(), "Conference", day, day, "work")
	require.NoError(t, err)

	_, err = newTestClient(server.URL).CreateEvent(context.Background(), uuid.New(), "primary", event)

	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", gotPayload.Start.Date)
	assert.Equal(t, "2024-03-16", gotPayload.End.Date)
	assert.Empty(t, gotPayload.Start.DateTime)
}

func TestDeleteEvent(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := newTestClient(server.URL).DeleteEvent(context.Background(), uuid.New(), "primary", "evt-1")

	require.NoError(t, err)
	assert.Equal(t, "/calendars/primary/events/evt-1", gotPath)
}

func TestToRemoteIncludesRecurrence(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	event, err := domain.NewEvent(uuid.New(), "Standup", start, start.Add(time.Hour), "work")
	require.NoError(t, err)
	require.NoError(t, event.SetRecurrence(domain.Recurrence{Type: domain.RecurrenceWeekly, Interval: 1}))

	payload := toRemote(event)

	require.Len(t, payload.Recurrence, 1)
	assert.Contains(t, payload.Recurrence[0], "FREQ=WEEKLY")
}
