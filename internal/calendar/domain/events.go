package domain

import (
	sharedDomain "github.com/lifedash/lifedash/internal/shared/domain"
)

// Routing keys for calendar domain events.
const (
	aggregateTypeEvent = "calendar_event"

	RoutingKeyEventCreated    = "calendar.event.created"
	RoutingKeyEventUpdated    = "calendar.event.updated"
	RoutingKeyEventDeleted    = "calendar.event.deleted"
	RoutingKeyCalendarSynced  = "calendar.synced"
	RoutingKeyCategoryToggled = "calendar.category.toggled"
)

// EventCreated is recorded when a local event is created.
type EventCreated struct {
	sharedDomain.BaseEvent
	Title      string `json:"title"`
	CategoryID string `json:"category_id"`
	AllDay     bool   `json:"all_day"`
}

// NewEventCreated builds an EventCreated domain event.
func NewEventCreated(e *Event) *EventCreated {
	return &EventCreated{
		BaseEvent:  sharedDomain.NewBaseEvent(e.ID(), aggregateTypeEvent, RoutingKeyEventCreated),
		Title:      e.Title(),
		CategoryID: e.CategoryID(),
		AllDay:     e.IsAllDay(),
	}
}

// EventUpdated is recorded when a local event changes.
type EventUpdated struct {
	sharedDomain.BaseEvent
	ChangedFields []string `json:"changed_fields"`
}

// NewEventUpdated builds an EventUpdated domain event.
func NewEventUpdated(e *Event, changed []string) *EventUpdated {
	return &EventUpdated{
		BaseEvent:     sharedDomain.NewBaseEvent(e.ID(), aggregateTypeEvent, RoutingKeyEventUpdated),
		ChangedFields: changed,
	}
}

// EventDeleted is recorded when an event is removed.
type EventDeleted struct {
	sharedDomain.BaseEvent
	Remote bool `json:"remote"`
}

// NewEventDeleted builds an EventDeleted domain event.
func NewEventDeleted(e *Event) *EventDeleted {
	return &EventDeleted{
		BaseEvent: sharedDomain.NewBaseEvent(e.ID(), aggregateTypeEvent, RoutingKeyEventDeleted),
		Remote:    e.IsRemote(),
	}
}

// CalendarSynced is published after a successful remote pull.
type CalendarSynced struct {
	sharedDomain.BaseEvent
	Calendars int `json:"calendars"`
	Added     int `json:"added"`
	Updated   int `json:"updated"`
	Removed   int `json:"removed"`
}

// NewCalendarSynced builds a CalendarSynced domain event. The aggregate is
// the user whose remote partition was replaced.
func NewCalendarSynced(userID string, calendars, added, updated, removed int) *CalendarSynced {
	return &CalendarSynced{
		BaseEvent: sharedDomain.NewBaseEvent(userID, "calendar_sync", RoutingKeyCalendarSynced),
		Calendars: calendars,
		Added:     added,
		Updated:   updated,
		Removed:   removed,
	}
}

// CategoryToggled is recorded when a category's visibility flips.
type CategoryToggled struct {
	sharedDomain.BaseEvent
	Visible bool `json:"visible"`
}

// NewCategoryToggled builds a CategoryToggled domain event.
func NewCategoryToggled(categoryID string, visible bool) *CategoryToggled {
	return &CategoryToggled{
		BaseEvent: sharedDomain.NewBaseEvent(categoryID, "category", RoutingKeyCategoryToggled),
		Visible:   visible,
	}
}
