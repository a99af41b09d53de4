package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedash/lifedash/internal/calendar/domain"
	"github.com/lifedash/lifedash/internal/identity/application/oauth"
)

func remoteEvent(t *testing.T, userID uuid.UUID, providerID, title string, start time.Time, calendarID string) *domain.Event {
	t.Helper()
	e, err := domain.NewRemoteEvent(userID, providerID, title, start, start.Add(time.Hour), false, domain.RemoteIDPrefix+calendarID)
	require.NoError(t, err)
	return e
}

func newSyncService(sessions SessionService, client RemoteCalendarClient, events *memoryEventRepo, cache CalendarListCache) *SyncService {
	return NewSyncService(sessions, client, events, cache, nil, SyncWindow{}, nil)
}

func TestPullNotConnectedIsSilentNoOp(t *testing.T) {
	client := &fakeRemoteClient{}
	svc := newSyncService(&fakeSessions{ensureFreshErr: oauth.ErrNotConnected}, client, newMemoryEventRepo(), nil)

	result, err := svc.Pull(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.False(t, result.Connected)
	assert.Zero(t, client.listCalls, "provider is never contacted")
}

func TestPullAddsRemoteEvents(t *testing.T) {
	userID := uuid.New()
	start := time.Now().UTC().Add(24 * time.Hour)
	client := &fakeRemoteClient{
		calendars: []RemoteCalendar{
			{ID: "primary", Name: "My Calendar", Primary: true},
			{ID: "team", Name: "Team"},
		},
		events: map[string][]*domain.Event{
			"primary": {
				remoteEvent(t, userID, "e1", "Planning", start, "primary"),
				remoteEvent(t, userID, "e2", "Review", start.Add(2*time.Hour), "primary"),
			},
		},
	}
	events := newMemoryEventRepo()
	svc := newSyncService(&fakeSessions{}, client, events, nil)

	result, err := svc.Pull(context.Background(), userID)

	require.NoError(t, err)
	assert.True(t, result.Connected)
	assert.Equal(t, 1, result.Calendars, "only the primary calendar is selected by default")
	assert.Equal(t, 2, result.Added)
	assert.Zero(t, result.Updated)
	assert.Zero(t, result.Removed)
	assert.Equal(t, []string{"primary"}, client.pulled)

	stored, err := events.FindRemoteByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	assert.Equal(t, "google_e1", stored[0].ID())
}

func TestPullIsIdempotent(t *testing.T) {
	userID := uuid.New()
	start := time.Now().UTC().Add(24 * time.Hour)
	client := &fakeRemoteClient{
		calendars: []RemoteCalendar{{ID: "primary", Primary: true}},
		events: map[string][]*domain.Event{
			"primary": {remoteEvent(t, userID, "e1", "Planning", start, "primary")},
		},
	}
	events := newMemoryEventRepo()
	svc := newSyncService(&fakeSessions{}, client, events, nil)

	_, err := svc.Pull(context.Background(), userID)
	require.NoError(t, err)

	// Same remote snapshot again: nothing changes.
	client.events["primary"] = []*domain.Event{remoteEvent(t, userID, "e1", "Planning", start, "primary")}
	result, err := svc.Pull(context.Background(), userID)

	require.NoError(t, err)
	assert.Zero(t, result.Added)
	assert.Zero(t, result.Updated)
	assert.Zero(t, result.Removed)
	assert.Equal(t, 1, result.Unchanged)
}

func TestPullPersistsReminderAndAttendeeChanges(t *testing.T) {
	userID := uuid.New()
	start := time.Now().UTC().Add(24 * time.Hour)
	first := remoteEvent(t, userID, "e1", "Planning", start, "primary")
	first.SetRemoteDetails("", "", []string{"a@example.com"}, []int{30})
	client := &fakeRemoteClient{
		calendars: []RemoteCalendar{{ID: "primary", Primary: true}},
		events:    map[string][]*domain.Event{"primary": {first}},
	}
	events := newMemoryEventRepo()
	svc := newSyncService(&fakeSessions{}, client, events, nil)

	_, err := svc.Pull(context.Background(), userID)
	require.NoError(t, err)

	// Same event, but the reminder override and attendee list moved
	// provider-side. Remote events are replaced wholesale, so this counts
	// as an update, not unchanged.
	second := remoteEvent(t, userID, "e1", "Planning", start, "primary")
	second.SetRemoteDetails("", "", []string{"b@example.com"}, []int{15})
	client.events["primary"] = []*domain.Event{second}
	result, err := svc.Pull(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Zero(t, result.Unchanged)

	stored, err := events.FindRemoteByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, []int{15}, stored[0].Reminders())
	assert.Equal(t, []string{"b@example.com"}, stored[0].Attendees())
}

func TestPullReconcilesChangesAndRemovals(t *testing.T) {
	userID := uuid.New()
	start := time.Now().UTC().Add(24 * time.Hour)
	client := &fakeRemoteClient{
		calendars: []RemoteCalendar{{ID: "primary", Primary: true}},
		events: map[string][]*domain.Event{
			"primary": {
				remoteEvent(t, userID, "e1", "Planning", start, "primary"),
				remoteEvent(t, userID, "e2", "Review", start.Add(2*time.Hour), "primary"),
			},
		},
	}
	events := newMemoryEventRepo()
	svc := newSyncService(&fakeSessions{}, client, events, nil)

	_, err := svc.Pull(context.Background(), userID)
	require.NoError(t, err)

	// Remotely: e1 renamed, e2 deleted, e3 created.
	client.events["primary"] = []*domain.Event{
		remoteEvent(t, userID, "e1", "Sprint Planning", start, "primary"),
		remoteEvent(t, userID, "e3", "Retro", start.Add(4*time.Hour), "primary"),
	}
	result, err := svc.Pull(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Removed)

	stored, err := events.FindRemoteByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	byID := map[string]*domain.Event{}
	for _, e := range stored {
		byID[e.ID()] = e
	}
	assert.Equal(t, "Sprint Planning", byID["google_e1"].Title())
	assert.Contains(t, byID, "google_e3")
	assert.NotContains(t, byID, "google_e2")
}

func TestPullLeavesLocalEventsUntouched(t *testing.T) {
	userID := uuid.New()
	start := time.Now().UTC().Add(24 * time.Hour)
	events := newMemoryEventRepo()
	local, err := domain.NewEvent(userID, "Local", start, start.Add(time.Hour), "work")
	require.NoError(t, err)
	require.NoError(t, events.Save(context.Background(), local))

	client := &fakeRemoteClient{
		calendars: []RemoteCalendar{{ID: "primary", Primary: true}},
	}
	svc := newSyncService(&fakeSessions{}, client, events, nil)

	result, err := svc.Pull(context.Background(), userID)

	require.NoError(t, err)
	assert.Zero(t, result.Removed)

	all, err := events.FindByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Local", all[0].Title())
}

func TestPullPartialFailureAbortsMerge(t *testing.T) {
	userID := uuid.New()
	start := time.Now().UTC().Add(24 * time.Hour)
	client := &fakeRemoteClient{
		calendars: []RemoteCalendar{{ID: "primary", Primary: true}},
		events: map[string][]*domain.Event{
			"primary": {remoteEvent(t, userID, "e1", "Planning", start, "primary")},
		},
	}
	events := newMemoryEventRepo()
	svc := newSyncService(&fakeSessions{}, client, events, nil)

	_, err := svc.Pull(context.Background(), userID)
	require.NoError(t, err)

	// The connection learns about the second calendar on the next pull;
	// select it, then make its event pull fail. The stored partition must
	// stay exactly as it was.
	client.calendars = []RemoteCalendar{
		{ID: "primary", Primary: true},
		{ID: "team"},
	}
	_, err = svc.Pull(context.Background(), userID)
	require.NoError(t, err)
	require.NoError(t, svc.SelectCalendar(userID, "team", true))
	client.events["primary"] = nil
	client.eventsErr = map[string]error{"team": errors.New("boom")}

	_, err = svc.Pull(context.Background(), userID)
	require.Error(t, err)

	stored, err := events.FindRemoteByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, stored, 1, "failed pull must not touch the store")
	assert.Equal(t, "google_e1", stored[0].ID())
}

func TestPullAuthFailureClearsConnection(t *testing.T) {
	userID := uuid.New()
	sessions := &fakeSessions{}
	client := &fakeRemoteClient{calendars: []RemoteCalendar{{ID: "primary", Primary: true}}}
	svc := newSyncService(sessions, client, newMemoryEventRepo(), nil)

	_, err := svc.Pull(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, svc.Connection(userID))

	sessions.ensureFreshErr = oauth.ErrAuthExpired
	_, err = svc.Pull(context.Background(), userID)

	assert.ErrorIs(t, err, oauth.ErrAuthExpired)
	assert.Nil(t, svc.Connection(userID))
}

func TestPullUsesCalendarListCache(t *testing.T) {
	userID := uuid.New()
	client := &fakeRemoteClient{calendars: []RemoteCalendar{{ID: "primary", Primary: true}}}
	cache := newMemoryCalendarCache()
	svc := newSyncService(&fakeSessions{}, client, newMemoryEventRepo(), cache)

	_, err := svc.Pull(context.Background(), userID)
	require.NoError(t, err)
	_, err = svc.Pull(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 1, client.listCalls, "second pull hits the cache")
	assert.Equal(t, 1, cache.hits)
}

func TestSelectCalendarExpandsPull(t *testing.T) {
	userID := uuid.New()
	client := &fakeRemoteClient{
		calendars: []RemoteCalendar{
			{ID: "primary", Primary: true},
			{ID: "team"},
		},
	}
	svc := newSyncService(&fakeSessions{}, client, newMemoryEventRepo(), nil)

	_, err := svc.Pull(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"primary"}, client.pulled)

	require.NoError(t, svc.SelectCalendar(userID, "team", true))
	client.pulled = nil
	_, err = svc.Pull(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"primary", "team"}, client.pulled)
}

func TestSyntheticCategoriesFromConnection(t *testing.T) {
	userID := uuid.New()
	client := &fakeRemoteClient{
		calendars: []RemoteCalendar{{ID: "primary", Name: "My Calendar", Primary: true, BackgroundColor: "#9fe1e7"}},
	}
	svc := newSyncService(&fakeSessions{}, client, newMemoryEventRepo(), nil)

	assert.Nil(t, svc.SyntheticCategories(userID))

	_, err := svc.Pull(context.Background(), userID)
	require.NoError(t, err)

	categories := svc.SyntheticCategories(userID)
	require.Len(t, categories, 1)
	assert.Equal(t, "google_primary", categories[0].ID)
	assert.Equal(t, "My Calendar", categories[0].Name)
	assert.Equal(t, domain.LiteralColor("#9fe1e7"), categories[0].Color)
}

func TestPullRejectsConcurrentSync(t *testing.T) {
	userID := uuid.New()
	gate := make(chan struct{})
	entered := make(chan struct{})
	client := &fakeRemoteClient{
		calendars: []RemoteCalendar{{ID: "primary", Primary: true}},
		gate:      gate,
		entered:   entered,
	}
	svc := newSyncService(&fakeSessions{}, client, newMemoryEventRepo(), nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Pull(context.Background(), userID)
		done <- err
	}()

	<-entered
	_, err := svc.Pull(context.Background(), userID)
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(gate)
	require.NoError(t, <-done)
}

func TestDisconnectDropsState(t *testing.T) {
	userID := uuid.New()
	sessions := &fakeSessions{}
	client := &fakeRemoteClient{calendars: []RemoteCalendar{{ID: "primary", Primary: true}}}
	cache := newMemoryCalendarCache()
	svc := newSyncService(sessions, client, newMemoryEventRepo(), cache)

	_, err := svc.Pull(context.Background(), userID)
	require.NoError(t, err)

	require.NoError(t, svc.Disconnect(context.Background(), userID))

	assert.Equal(t, 1, sessions.disconnects)
	assert.Nil(t, svc.Connection(userID))
	_, ok := cache.Get(context.Background(), userID)
	assert.False(t, ok)
}
