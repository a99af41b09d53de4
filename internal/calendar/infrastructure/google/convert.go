package google

import (
	"time"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/calendar/domain"
)

type eventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

type eventItem struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Start       eventTime `json:"start"`
	End         eventTime `json:"end"`
	Attendees   []struct {
		Email string `json:"email"`
	} `json:"attendees"`
	Reminders struct {
		UseDefault bool `json:"useDefault"`
		Overrides  []struct {
			Method  string `json:"method"`
			Minutes int    `json:"minutes"`
		} `json:"overrides"`
	} `json:"reminders"`
}

type eventPayload struct {
	Summary     string           `json:"summary"`
	Description string           `json:"description,omitempty"`
	Location    string           `json:"location,omitempty"`
	Recurrence  []string         `json:"recurrence,omitempty"`
	Start       eventTime        `json:"start"`
	End         eventTime        `json:"end"`
	Reminders   *reminderPayload `json:"reminders,omitempty"`
}

type reminderPayload struct {
	UseDefault bool               `json:"useDefault"`
	Overrides  []reminderOverride `json:"overrides,omitempty"`
}

type reminderOverride struct {
	Method  string `json:"method"`
	Minutes int    `json:"minutes"`
}

// toLocal converts one provider event into a remote-origin local event. The
// event is tagged with its source calendar's synthetic category. Cancelled
// instances and items without usable times convert to nil.
func toLocal(userID uuid.UUID, calendarID string, item eventItem) (*domain.Event, error) {
	if item.Status == "cancelled" {
		return nil, nil
	}

	categoryID := domain.RemoteIDPrefix + calendarID

	var event *domain.Event
	var err error
	switch {
	case item.Start.DateTime != "" && item.End.DateTime != "":
		var start, end time.Time
		start, err = time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return nil, err
		}
		end, err = time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			return nil, err
		}
		event, err = domain.NewRemoteEvent(userID, item.ID, item.Summary, start.UTC(), end.UTC(), false, categoryID)
	case item.Start.Date != "":
		// All-day events keep only their start day. The provider's
		// exclusive end date is discarded, so a multi-day span shows as
		// a single day.
		var day time.Time
		day, err = time.Parse(time.DateOnly, item.Start.Date)
		if err != nil {
			return nil, err
		}
		event, err = domain.NewRemoteEvent(userID, item.ID, item.Summary, day, day, true, categoryID)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	attendees := make([]string, 0, len(item.Attendees))
	for _, a := range item.Attendees {
		if a.Email != "" {
			attendees = append(attendees, a.Email)
		}
	}
	reminders := make([]int, 0, len(item.Reminders.Overrides))
	for _, o := range item.Reminders.Overrides {
		if o.Minutes > 0 {
			reminders = append(reminders, o.Minutes)
		}
	}
	event.SetRemoteDetails(item.Description, item.Location, attendees, reminders)
	return event, nil
}

// toRemote converts a local event into the provider's wire shape. All-day
// events use date-only fields with the provider's exclusive end day;
// reminder offsets become popup overrides.
func toRemote(e *domain.Event) eventPayload {
	payload := eventPayload{
		Summary:     e.Title(),
		Description: e.Description(),
		Location:    e.Location(),
	}

	if e.IsAllDay() {
		payload.Start.Date = e.StartDay().Format(time.DateOnly)
		payload.End.Date = e.EndDay().AddDate(0, 0, 1).Format(time.DateOnly)
	} else {
		payload.Start.DateTime = e.StartAt().Format(time.RFC3339)
		payload.End.DateTime = e.EndAt().Format(time.RFC3339)
	}

	if r := e.Recurrence(); r != nil {
		payload.Recurrence = []string{r.RRuleString()}
	}

	if reminders := e.Reminders(); len(reminders) > 0 {
		overrides := make([]reminderOverride, 0, len(reminders))
		for _, minutes := range reminders {
			overrides = append(overrides, reminderOverride{
				Method:  "popup",
				Minutes: minutes,
			})
		}
		payload.Reminders = &reminderPayload{
			UseDefault: false,
			Overrides:  overrides,
		}
	}

	return payload
}
