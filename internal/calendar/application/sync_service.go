package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/lifedash/lifedash/internal/calendar/domain"
	"github.com/lifedash/lifedash/internal/identity/application/oauth"
	"github.com/lifedash/lifedash/internal/shared/infrastructure/eventbus"
)

// ErrSyncInProgress rejects a pull while another one is still running for
// the same user.
var ErrSyncInProgress = errors.New("sync already in progress")

// RemoteCalendar is one entry of the provider's calendar list.
type RemoteCalendar struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Primary         bool   `json:"primary"`
	BackgroundColor string `json:"background_color"`
}

// CalendarInfo is a remote calendar plus its local selection flag.
type CalendarInfo struct {
	RemoteCalendar
	Selected bool `json:"selected"`
}

// Connection is the in-memory sync state for one user.
type Connection struct {
	Calendars    []CalendarInfo `json:"calendars"`
	LastSyncedAt time.Time      `json:"last_synced_at"`
}

// SyncResult summarizes one pull.
type SyncResult struct {
	Connected bool `json:"connected"`
	Calendars int  `json:"calendars"`
	Added     int  `json:"added"`
	Updated   int  `json:"updated"`
	Removed   int  `json:"removed"`
	Unchanged int  `json:"unchanged"`
}

// SessionService is the token lifecycle surface the syncer needs.
type SessionService interface {
	EnsureFresh(ctx context.Context, userID uuid.UUID) (*oauth2.Token, error)
	Disconnect(ctx context.Context, userID uuid.UUID) error
}

// RemoteCalendarClient pulls calendars and events from the provider.
type RemoteCalendarClient interface {
	ListCalendars(ctx context.Context, userID uuid.UUID) ([]RemoteCalendar, error)
	ListEvents(ctx context.Context, userID uuid.UUID, calendarID string, from, to time.Time) ([]*domain.Event, error)
}

// CalendarListCache caches the provider calendar list between pulls.
// Implementations treat errors as misses.
type CalendarListCache interface {
	Get(ctx context.Context, userID uuid.UUID) ([]RemoteCalendar, bool)
	Set(ctx context.Context, userID uuid.UUID, calendars []RemoteCalendar) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// SyncWindow bounds how far into the past and future a pull reaches.
type SyncWindow struct {
	Past   time.Duration
	Future time.Duration
}

// SyncService orchestrates the manual full pull from the remote provider.
type SyncService struct {
	sessions  SessionService
	client    RemoteCalendarClient
	events    domain.EventRepository
	cache     CalendarListCache
	publisher eventbus.Publisher
	window    SyncWindow
	logger    *slog.Logger

	mu          sync.Mutex
	connections map[uuid.UUID]*Connection
	syncing     map[uuid.UUID]bool
}

// NewSyncService creates a new SyncService. Cache and publisher are
// optional.
func NewSyncService(
	sessions SessionService,
	client RemoteCalendarClient,
	events domain.EventRepository,
	cache CalendarListCache,
	publisher eventbus.Publisher,
	window SyncWindow,
	logger *slog.Logger,
) *SyncService {
	if window.Past <= 0 {
		window.Past = 30 * 24 * time.Hour
	}
	if window.Future <= 0 {
		window.Future = 90 * 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncService{
		sessions:    sessions,
		client:      client,
		events:      events,
		cache:       cache,
		publisher:   publisher,
		window:      window,
		logger:      logger,
		connections: make(map[uuid.UUID]*Connection),
		syncing:     make(map[uuid.UUID]bool),
	}
}

// Pull runs one full pull: refresh the session, fetch the calendar list,
// fetch every selected calendar's events, and only then reconcile the
// remote partition of the store. A user who never connected gets a silent
// no-op. Any fetch failure aborts before the store is touched.
func (s *SyncService) Pull(ctx context.Context, userID uuid.UUID) (*SyncResult, error) {
	s.mu.Lock()
	if s.syncing[userID] {
		s.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	s.syncing[userID] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.syncing, userID)
		s.mu.Unlock()
	}()

	if _, err := s.sessions.EnsureFresh(ctx, userID); err != nil {
		if errors.Is(err, oauth.ErrNotConnected) {
			return &SyncResult{Connected: false}, nil
		}
		// An unusable session invalidates the whole connection; the user
		// must reconnect.
		s.clearConnection(ctx, userID)
		return nil, fmt.Errorf("calendar session unusable: %w", err)
	}

	calendars, err := s.calendarList(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	selected := s.updateConnection(userID, calendars)

	now := time.Now().UTC()
	from := now.Add(-s.window.Past)
	to := now.Add(s.window.Future)

	var pulled []*domain.Event
	for _, cal := range selected {
		events, err := s.client.ListEvents(ctx, userID, cal.ID, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to pull calendar %s: %w", cal.ID, err)
		}
		pulled = append(pulled, events...)
	}

	result, err := s.reconcile(ctx, userID, pulled)
	if err != nil {
		return nil, err
	}
	result.Connected = true
	result.Calendars = len(selected)

	s.mu.Lock()
	if conn, ok := s.connections[userID]; ok {
		conn.LastSyncedAt = now
	}
	s.mu.Unlock()

	if s.publisher != nil {
		evt := domain.NewCalendarSynced(userID.String(), result.Calendars, result.Added, result.Updated, result.Removed)
		if err := eventbus.PublishDomainEvent(ctx, s.publisher, evt); err != nil {
			s.logger.Warn("failed to publish sync event", "user_id", userID, "error", err)
		}
	}

	s.logger.Info("calendar sync completed",
		"user_id", userID,
		"calendars", result.Calendars,
		"added", result.Added,
		"updated", result.Updated,
		"removed", result.Removed,
	)
	return result, nil
}

// reconcile diffs the pulled snapshot against the stored remote partition
// by remote id. The last pull wins: stored remote events absent from the
// snapshot are removed.
func (s *SyncService) reconcile(ctx context.Context, userID uuid.UUID, pulled []*domain.Event) (*SyncResult, error) {
	existing, err := s.events.FindRemoteByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	existingByID := make(map[string]*domain.Event, len(existing))
	for _, e := range existing {
		existingByID[e.ID()] = e
	}

	result := &SyncResult{}
	seen := make(map[string]struct{}, len(pulled))
	for _, event := range pulled {
		if _, dup := seen[event.ID()]; dup {
			continue
		}
		seen[event.ID()] = struct{}{}

		prev, ok := existingByID[event.ID()]
		switch {
		case !ok:
			result.Added++
		case remoteChanged(prev, event):
			result.Updated++
		default:
			result.Unchanged++
			continue
		}
		if err := s.events.Save(ctx, event); err != nil {
			return nil, fmt.Errorf("failed to save remote event %s: %w", event.ID(), err)
		}
	}

	for id := range existingByID {
		if _, ok := seen[id]; ok {
			continue
		}
		if err := s.events.Delete(ctx, userID, id); err != nil {
			return nil, fmt.Errorf("failed to remove stale remote event %s: %w", id, err)
		}
		result.Removed++
	}
	return result, nil
}

func remoteChanged(prev, next *domain.Event) bool {
	return prev.Title() != next.Title() ||
		prev.Description() != next.Description() ||
		prev.Location() != next.Location() ||
		prev.CategoryID() != next.CategoryID() ||
		prev.IsAllDay() != next.IsAllDay() ||
		!prev.StartAt().Equal(next.StartAt()) ||
		!prev.EndAt().Equal(next.EndAt()) ||
		!slices.Equal(prev.Reminders(), next.Reminders()) ||
		!slices.Equal(prev.Attendees(), next.Attendees())
}

func (s *SyncService) calendarList(ctx context.Context, userID uuid.UUID) ([]RemoteCalendar, error) {
	if s.cache != nil {
		if calendars, ok := s.cache.Get(ctx, userID); ok {
			return calendars, nil
		}
	}
	calendars, err := s.client.ListCalendars(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, calendars); err != nil {
			s.logger.Warn("failed to cache calendar list", "user_id", userID, "error", err)
		}
	}
	return calendars, nil
}

// updateConnection merges the fresh calendar list into the connection
// state, keeping prior selections. New calendars start selected only when
// primary. Returns the selected calendars.
func (s *SyncService) updateConnection(userID uuid.UUID, calendars []RemoteCalendar) []RemoteCalendar {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior := make(map[string]bool)
	if conn, ok := s.connections[userID]; ok {
		for _, c := range conn.Calendars {
			prior[c.ID] = c.Selected
		}
	}

	conn := &Connection{Calendars: make([]CalendarInfo, 0, len(calendars))}
	var selected []RemoteCalendar
	for _, c := range calendars {
		sel, known := prior[c.ID]
		if !known {
			sel = c.Primary
		}
		conn.Calendars = append(conn.Calendars, CalendarInfo{RemoteCalendar: c, Selected: sel})
		if sel {
			selected = append(selected, c)
		}
	}
	if existing, ok := s.connections[userID]; ok {
		conn.LastSyncedAt = existing.LastSyncedAt
	}
	s.connections[userID] = conn
	return selected
}

// SelectCalendar flips whether a calendar participates in future pulls.
func (s *SyncService) SelectCalendar(userID uuid.UUID, calendarID string, selected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, ok := s.connections[userID]
	if !ok {
		return fmt.Errorf("no connection state, run a sync first")
	}
	for i := range conn.Calendars {
		if conn.Calendars[i].ID == calendarID {
			conn.Calendars[i].Selected = selected
			return nil
		}
	}
	return fmt.Errorf("unknown calendar %s", calendarID)
}

// Connection returns a copy of the user's connection state, or nil when no
// sync has run yet.
func (s *SyncService) Connection(userID uuid.UUID) *Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, ok := s.connections[userID]
	if !ok {
		return nil
	}
	copied := &Connection{
		Calendars:    make([]CalendarInfo, len(conn.Calendars)),
		LastSyncedAt: conn.LastSyncedAt,
	}
	copy(copied.Calendars, conn.Calendars)
	return copied
}

// SyntheticCategories derives a category per connected calendar so remote
// events can be filtered and colored like local ones.
func (s *SyncService) SyntheticCategories(userID uuid.UUID) []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, ok := s.connections[userID]
	if !ok {
		return nil
	}
	categories := make([]domain.Category, 0, len(conn.Calendars))
	for _, c := range conn.Calendars {
		categories = append(categories, domain.SyntheticCalendarCategory(c.ID, c.Name, c.BackgroundColor))
	}
	return categories
}

// Disconnect revokes the stored session and drops all connection state.
func (s *SyncService) Disconnect(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessions.Disconnect(ctx, userID); err != nil {
		return err
	}
	s.clearConnection(ctx, userID)
	return nil
}

func (s *SyncService) clearConnection(ctx context.Context, userID uuid.UUID) {
	s.mu.Lock()
	delete(s.connections, userID)
	s.mu.Unlock()
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.logger.Warn("failed to invalidate calendar cache", "user_id", userID, "error", err)
		}
	}
}
