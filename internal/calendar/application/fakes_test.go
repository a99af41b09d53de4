package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/lifedash/lifedash/internal/calendar/domain"
)

var errFakeNotFound = errors.New("not found")

type memoryEventRepo struct {
	order  []string
	events map[string]*domain.Event
	failOn map[string]error
}

func newMemoryEventRepo() *memoryEventRepo {
	return &memoryEventRepo{
		events: make(map[string]*domain.Event),
		failOn: make(map[string]error),
	}
}

func (r *memoryEventRepo) Save(ctx context.Context, event *domain.Event) error {
	if err := r.failOn["save"]; err != nil {
		return err
	}
	if _, ok := r.events[event.ID()]; !ok {
		r.order = append(r.order, event.ID())
	}
	r.events[event.ID()] = event
	return nil
}

func (r *memoryEventRepo) FindByID(ctx context.Context, userID uuid.UUID, id string) (*domain.Event, error) {
	event, ok := r.events[id]
	if !ok || event.UserID() != userID {
		return nil, errFakeNotFound
	}
	return event, nil
}

func (r *memoryEventRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, id := range r.order {
		if e := r.events[id]; e != nil && e.UserID() == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memoryEventRepo) FindRemoteByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, id := range r.order {
		if e := r.events[id]; e != nil && e.UserID() == userID && e.IsRemote() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memoryEventRepo) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	delete(r.events, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type memoryCategoryRepo struct {
	order        []string
	categories   map[string]domain.Category
	saveCalls    int
	saveAllCalls int
}

func newMemoryCategoryRepo() *memoryCategoryRepo {
	return &memoryCategoryRepo{categories: make(map[string]domain.Category)}
}

func (r *memoryCategoryRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Category, error) {
	var out []domain.Category
	for _, id := range r.order {
		out = append(out, r.categories[id])
	}
	return out, nil
}

func (r *memoryCategoryRepo) Save(ctx context.Context, userID uuid.UUID, category domain.Category) error {
	r.saveCalls++
	if _, ok := r.categories[category.ID]; !ok {
		r.order = append(r.order, category.ID)
	}
	r.categories[category.ID] = category
	return nil
}

func (r *memoryCategoryRepo) SaveAll(ctx context.Context, userID uuid.UUID, categories []domain.Category) error {
	r.saveAllCalls++
	for _, c := range categories {
		if _, ok := r.categories[c.ID]; !ok {
			r.order = append(r.order, c.ID)
		}
		r.categories[c.ID] = c
	}
	return nil
}

type fakeSessions struct {
	err            error
	disconnects    int
	ensureFreshErr error
}

func (f *fakeSessions) EnsureFresh(ctx context.Context, userID uuid.UUID) (*oauth2.Token, error) {
	if f.ensureFreshErr != nil {
		return nil, f.ensureFreshErr
	}
	return &oauth2.Token{AccessToken: "fresh", Expiry: time.Now().Add(time.Hour)}, nil
}

func (f *fakeSessions) Disconnect(ctx context.Context, userID uuid.UUID) error {
	f.disconnects++
	return f.err
}

type fakeRemoteClient struct {
	calendars    []RemoteCalendar
	calendarsErr error
	events       map[string][]*domain.Event
	eventsErr    map[string]error
	listCalls    int
	pulled       []string
	gate         chan struct{} // when set, ListCalendars blocks until closed
	entered      chan struct{} // signaled once ListCalendars is running
}

func (f *fakeRemoteClient) ListCalendars(ctx context.Context, userID uuid.UUID) ([]RemoteCalendar, error) {
	f.listCalls++
	if f.entered != nil {
		close(f.entered)
		f.entered = nil
	}
	if f.gate != nil {
		<-f.gate
	}
	return f.calendars, f.calendarsErr
}

func (f *fakeRemoteClient) ListEvents(ctx context.Context, userID uuid.UUID, calendarID string, from, to time.Time) ([]*domain.Event, error) {
	f.pulled = append(f.pulled, calendarID)
	if err := f.eventsErr[calendarID]; err != nil {
		return nil, err
	}
	return f.events[calendarID], nil
}

type memoryCalendarCache struct {
	lists map[uuid.UUID][]RemoteCalendar
	gets  int
	hits  int
}

func newMemoryCalendarCache() *memoryCalendarCache {
	return &memoryCalendarCache{lists: make(map[uuid.UUID][]RemoteCalendar)}
}

func (c *memoryCalendarCache) Get(ctx context.Context, userID uuid.UUID) ([]RemoteCalendar, bool) {
	c.gets++
	list, ok := c.lists[userID]
	if ok {
		c.hits++
	}
	return list, ok
}

func (c *memoryCalendarCache) Set(ctx context.Context, userID uuid.UUID, calendars []RemoteCalendar) error {
	c.lists[userID] = calendars
	return nil
}

func (c *memoryCalendarCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	delete(c.lists, userID)
	return nil
}
