package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/lifedash/lifedash/internal/shared/domain"
)

// RemoteIDPrefix marks events pulled from the remote calendar provider.
// Prefixing keeps remote ids out of the local id namespace and makes the
// whole remote partition addressable for replacement on resync.
const RemoteIDPrefix = "google_"

// Domain errors for Event validation.
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrEmptyTitle       = errors.New("event title cannot be empty")
	ErrInvalidTimeRange = errors.New("event end must not be before start")
	ErrInvalidReminder  = errors.New("reminder minutes not in allowed set")
	ErrRemoteReadOnly   = errors.New("remote-origin events cannot be edited locally")
	ErrEmptyRemoteID    = errors.New("remote event ID cannot be empty")
)

// AllowedReminders is the fixed menu of reminder offsets, in minutes before start.
var AllowedReminders = []int{15, 30, 60, 120, 1440}

// Event is a calendar event, either created locally or pulled from the
// remote provider. Exactly one of the two origins holds: remote-origin
// events carry a non-empty GoogleEventID and are never edited locally,
// local events never carry one.
type Event struct {
	id            string
	userID        uuid.UUID
	title         string
	description   string
	startAt       time.Time
	endAt         time.Time
	allDay        bool
	categoryID    string
	location      string
	attendees     []string
	reminders     []int
	recurrence    *Recurrence
	googleEventID string
	version       int
	createdAt     time.Time
	updatedAt     time.Time
	domainEvents  []sharedDomain.DomainEvent
}

// NewEvent creates a local timed event. The title is required; an empty
// title blocks creation before anything reaches persistence.
func NewEvent(userID uuid.UUID, title string, startAt, endAt time.Time, categoryID string) (*Event, error) {
	if userID == uuid.Nil {
		return nil, ErrEmptyUserID
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if startAt.IsZero() || endAt.IsZero() || endAt.Before(startAt) {
		return nil, ErrInvalidTimeRange
	}

	now := time.Now().UTC()
	e := &Event{
		id:         uuid.New().String(),
		userID:     userID,
		title:      title,
		startAt:    startAt.UTC(),
		endAt:      endAt.UTC(),
		categoryID: categoryID,
		createdAt:  now,
		updatedAt:  now,
	}
	e.addEvent(NewEventCreated(e))
	return e, nil
}

// NewAllDayEvent creates a local all-day event. Start and end carry only a
// date component and the end day is inclusive.
func NewAllDayEvent(userID uuid.UUID, title string, startDay, endDay time.Time, categoryID string) (*Event, error) {
	start := DateOnly(startDay)
	end := DateOnly(endDay)
	e, err := NewEvent(userID, title, start, end, categoryID)
	if err != nil {
		return nil, err
	}
	e.allDay = true
	return e, nil
}

// NewRemoteEvent creates an event converted from the remote provider. The
// local id is the provider id under the remote namespace prefix. Remote
// titles are taken as-is; the provider may deliver untitled events.
func NewRemoteEvent(userID uuid.UUID, providerEventID, title string, startAt, endAt time.Time, allDay bool, categoryID string) (*Event, error) {
	if userID == uuid.Nil {
		return nil, ErrEmptyUserID
	}
	if providerEventID == "" {
		return nil, ErrEmptyRemoteID
	}
	if startAt.IsZero() || endAt.IsZero() || endAt.Before(startAt) {
		return nil, ErrInvalidTimeRange
	}

	now := time.Now().UTC()
	return &Event{
		id:            RemoteIDPrefix + providerEventID,
		userID:        userID,
		title:         title,
		startAt:       startAt.UTC(),
		endAt:         endAt.UTC(),
		allDay:        allDay,
		categoryID:    categoryID,
		googleEventID: providerEventID,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Getters
func (e *Event) ID() string             { return e.id }
func (e *Event) UserID() uuid.UUID      { return e.userID }
func (e *Event) Title() string          { return e.title }
func (e *Event) Description() string    { return e.description }
func (e *Event) StartAt() time.Time     { return e.startAt }
func (e *Event) EndAt() time.Time       { return e.endAt }
func (e *Event) IsAllDay() bool         { return e.allDay }
func (e *Event) CategoryID() string     { return e.categoryID }
func (e *Event) Location() string       { return e.location }
func (e *Event) GoogleEventID() string  { return e.googleEventID }
func (e *Event) Version() int           { return e.version }
func (e *Event) CreatedAt() time.Time   { return e.createdAt }
func (e *Event) UpdatedAt() time.Time   { return e.updatedAt }
func (e *Event) Recurrence() *Recurrence {
	if e.recurrence == nil {
		return nil
	}
	r := *e.recurrence
	return &r
}

// Attendees returns a copy of the attendee list. Only remote-origin events
// carry attendees.
func (e *Event) Attendees() []string {
	out := make([]string, len(e.attendees))
	copy(out, e.attendees)
	return out
}

// Reminders returns a copy of the reminder offsets, sorted ascending.
func (e *Event) Reminders() []int {
	out := make([]int, len(e.reminders))
	copy(out, e.reminders)
	return out
}

// IsRemote reports whether this event originated from the remote provider.
func (e *Event) IsRemote() bool {
	return e.googleEventID != ""
}

// StartDay returns the date-only start of the event.
func (e *Event) StartDay() time.Time { return DateOnly(e.startAt) }

// EndDay returns the date-only end of the event (inclusive).
func (e *Event) EndDay() time.Time { return DateOnly(e.endAt) }

// SetTitle updates the event title.
func (e *Event) SetTitle(title string) error {
	if e.IsRemote() {
		return ErrRemoteReadOnly
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	if e.title != title {
		e.title = title
		e.touch()
		e.addEvent(NewEventUpdated(e, []string{"title"}))
	}
	return nil
}

// SetDescription updates the free-text description.
func (e *Event) SetDescription(desc string) error {
	if e.IsRemote() {
		return ErrRemoteReadOnly
	}
	e.description = desc
	e.touch()
	return nil
}

// SetLocation updates the location.
func (e *Event) SetLocation(location string) error {
	if e.IsRemote() {
		return ErrRemoteReadOnly
	}
	e.location = location
	e.touch()
	return nil
}

// SetCategory changes the category reference. The category itself is
// looked up live at projection time, so a stale id simply renders with
// default appearance.
func (e *Event) SetCategory(categoryID string) error {
	if e.IsRemote() {
		return ErrRemoteReadOnly
	}
	if e.categoryID != categoryID {
		e.categoryID = categoryID
		e.touch()
		e.addEvent(NewEventUpdated(e, []string{"category"}))
	}
	return nil
}

// Reschedule moves the event to a new time range.
func (e *Event) Reschedule(startAt, endAt time.Time) error {
	if e.IsRemote() {
		return ErrRemoteReadOnly
	}
	if startAt.IsZero() || endAt.IsZero() || endAt.Before(startAt) {
		return ErrInvalidTimeRange
	}
	e.startAt = startAt.UTC()
	e.endAt = endAt.UTC()
	if e.allDay {
		e.startAt = DateOnly(e.startAt)
		e.endAt = DateOnly(e.endAt)
	}
	e.touch()
	e.addEvent(NewEventUpdated(e, []string{"schedule"}))
	return nil
}

// SetAllDay toggles all-day mode. All-day events keep only the date
// component with an inclusive end day.
func (e *Event) SetAllDay(allDay bool) error {
	if e.IsRemote() {
		return ErrRemoteReadOnly
	}
	if e.allDay == allDay {
		return nil
	}
	e.allDay = allDay
	if allDay {
		e.startAt = DateOnly(e.startAt)
		e.endAt = DateOnly(e.endAt)
	}
	e.touch()
	return nil
}

// AddReminder adds a reminder offset. Values outside the allowed menu are
// rejected; adding a duplicate is a no-op. The list stays sorted ascending.
func (e *Event) AddReminder(minutes int) error {
	if e.IsRemote() {
		return ErrRemoteReadOnly
	}
	allowed := false
	for _, m := range AllowedReminders {
		if m == minutes {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrInvalidReminder
	}
	for _, m := range e.reminders {
		if m == minutes {
			return nil
		}
	}
	e.reminders = append(e.reminders, minutes)
	sort.Ints(e.reminders)
	e.touch()
	return nil
}

// RemoveReminder removes a reminder offset if present.
func (e *Event) RemoveReminder(minutes int) error {
	if e.IsRemote() {
		return ErrRemoteReadOnly
	}
	for i, m := range e.reminders {
		if m == minutes {
			e.reminders = append(e.reminders[:i], e.reminders[i+1:]...)
			e.touch()
			return nil
		}
	}
	return nil
}

// SetRecurrence attaches a recurrence pattern.
func (e *Event) SetRecurrence(r Recurrence) error {
	if e.IsRemote() {
		return ErrRemoteReadOnly
	}
	if err := r.Validate(); err != nil {
		return err
	}
	e.recurrence = &r
	e.touch()
	return nil
}

// ClearRecurrence removes the recurrence pattern.
func (e *Event) ClearRecurrence() error {
	if e.IsRemote() {
		return ErrRemoteReadOnly
	}
	e.recurrence = nil
	e.touch()
	return nil
}

// MarkDeleted records the deletion domain event before removal.
func (e *Event) MarkDeleted() {
	e.addEvent(NewEventDeleted(e))
}

// SetRemoteDetails fills provider-supplied optional fields on a remote
// event. Local events ignore it; their fields go through the setters.
func (e *Event) SetRemoteDetails(description, location string, attendees []string, reminders []int) {
	if !e.IsRemote() {
		return
	}
	e.description = description
	e.location = location
	e.attendees = attendees
	sort.Ints(reminders)
	e.reminders = reminders
}

// DomainEvents returns all uncommitted domain events.
func (e *Event) DomainEvents() []sharedDomain.DomainEvent { return e.domainEvents }

// ClearDomainEvents removes all uncommitted domain events.
func (e *Event) ClearDomainEvents() { e.domainEvents = nil }

// IncrementVersion increments the aggregate version.
func (e *Event) IncrementVersion() { e.version++ }

func (e *Event) addEvent(evt sharedDomain.DomainEvent) {
	e.domainEvents = append(e.domainEvents, evt)
}

func (e *Event) touch() {
	e.updatedAt = time.Now().UTC()
}

// cloneOccurrence produces a virtual occurrence of a recurring event at the
// given start instant. Occurrence ids are derived from the base id so they
// never collide with stored ids.
func (e *Event) cloneOccurrence(startAt time.Time) *Event {
	duration := e.endAt.Sub(e.startAt)
	clone := *e
	clone.id = fmt.Sprintf("%s@%s", e.id, startAt.Format("2006-01-02"))
	clone.startAt = startAt
	clone.endAt = startAt.Add(duration)
	clone.recurrence = nil
	clone.domainEvents = nil
	return &clone
}

// DateOnly truncates a timestamp to its calendar day.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// RehydrateEvent recreates an event from persisted data without recording
// domain events.
func RehydrateEvent(
	id string,
	userID uuid.UUID,
	title, description string,
	startAt, endAt time.Time,
	allDay bool,
	categoryID, location string,
	attendees []string,
	reminders []int,
	recurrence *Recurrence,
	googleEventID string,
	version int,
	createdAt, updatedAt time.Time,
) *Event {
	sort.Ints(reminders)
	return &Event{
		id:            id,
		userID:        userID,
		title:         title,
		description:   description,
		startAt:       startAt,
		endAt:         endAt,
		allDay:        allDay,
		categoryID:    categoryID,
		location:      location,
		attendees:     attendees,
		reminders:     reminders,
		recurrence:    recurrence,
		googleEventID: googleEventID,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// EventRepository defines the interface for event persistence.
type EventRepository interface {
	// Save persists an event (create or update).
	Save(ctx context.Context, event *Event) error

	// FindByID finds an event by its id.
	FindByID(ctx context.Context, userID uuid.UUID, id string) (*Event, error)

	// FindByUser returns all events for a user in insertion order.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Event, error)

	// FindRemoteByUser returns all remote-origin events for a user.
	FindRemoteByUser(ctx context.Context, userID uuid.UUID) ([]*Event, error)

	// Delete removes an event.
	Delete(ctx context.Context, userID uuid.UUID, id string) error
}
