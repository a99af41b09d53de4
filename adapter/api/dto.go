package api

import (
	"time"

	calendardomain "github.com/lifedash/lifedash/internal/calendar/domain"
	goaldomain "github.com/lifedash/lifedash/internal/goals/domain"
	habitdomain "github.com/lifedash/lifedash/internal/habits/domain"
	jobdomain "github.com/lifedash/lifedash/internal/jobs/domain"
	notedomain "github.com/lifedash/lifedash/internal/notes/domain"
)

// eventResponse is the wire shape of a calendar event.
type eventResponse struct {
	ID          string                     `json:"id"`
	Title       string                     `json:"title"`
	Description string                     `json:"description,omitempty"`
	Location    string                     `json:"location,omitempty"`
	StartAt     time.Time                  `json:"start_at"`
	EndAt       time.Time                  `json:"end_at"`
	AllDay      bool                       `json:"all_day"`
	CategoryID  string                     `json:"category_id"`
	Reminders   []int                      `json:"reminders,omitempty"`
	Attendees   []string                   `json:"attendees,omitempty"`
	Recurrence  *calendardomain.Recurrence `json:"recurrence,omitempty"`
	Remote      bool                       `json:"remote"`
	Version     int                        `json:"version"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

func toEventResponse(e *calendardomain.Event) eventResponse {
	return eventResponse{
		ID:          e.ID(),
		Title:       e.Title(),
		Description: e.Description(),
		Location:    e.Location(),
		StartAt:     e.StartAt(),
		EndAt:       e.EndAt(),
		AllDay:      e.IsAllDay(),
		CategoryID:  e.CategoryID(),
		Reminders:   e.Reminders(),
		Attendees:   e.Attendees(),
		Recurrence:  e.Recurrence(),
		Remote:      e.IsRemote(),
		Version:     e.Version(),
		CreatedAt:   e.CreatedAt(),
		UpdatedAt:   e.UpdatedAt(),
	}
}

func toEventResponses(events []*calendardomain.Event) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out
}

// monthCellResponse is one day cell of the month grid.
type monthCellResponse struct {
	Day      string          `json:"day"`
	InMonth  bool            `json:"in_month"`
	Events   []eventResponse `json:"events"`
	Overflow int             `json:"overflow"`
}

func toMonthCellResponses(cells []calendardomain.MonthCell) []monthCellResponse {
	out := make([]monthCellResponse, 0, len(cells))
	for _, cell := range cells {
		out = append(out, monthCellResponse{
			Day:      cell.Day.Format(time.DateOnly),
			InMonth:  cell.InMonth,
			Events:   toEventResponses(cell.Events),
			Overflow: cell.Overflow,
		})
	}
	return out
}

// hourBucketResponse is one non-empty hour slot of a day column.
type hourBucketResponse struct {
	Hour   int             `json:"hour"`
	Events []eventResponse `json:"events"`
}

// dayColumnResponse is a single day of the week or day view. Only hours with
// events are listed.
type dayColumnResponse struct {
	Day    string               `json:"day"`
	AllDay []eventResponse      `json:"all_day"`
	Hours  []hourBucketResponse `json:"hours"`
}

func toDayColumnResponse(col calendardomain.DayColumn) dayColumnResponse {
	out := dayColumnResponse{
		Day:    col.Day.Format(time.DateOnly),
		AllDay: toEventResponses(col.AllDay),
		Hours:  make([]hourBucketResponse, 0),
	}
	for hour, events := range col.Hours {
		if len(events) == 0 {
			continue
		}
		out.Hours = append(out.Hours, hourBucketResponse{
			Hour:   hour,
			Events: toEventResponses(events),
		})
	}
	return out
}

// agendaGroupResponse is one day's slice of the agenda view.
type agendaGroupResponse struct {
	Day    string          `json:"day"`
	Events []eventResponse `json:"events"`
}

func toAgendaGroupResponses(groups []calendardomain.AgendaGroup) []agendaGroupResponse {
	out := make([]agendaGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, agendaGroupResponse{
			Day:    g.Day.Format(time.DateOnly),
			Events: toEventResponses(g.Events),
		})
	}
	return out
}

// habitResponse is the wire shape of a habit.
type habitResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Frequency      string    `json:"frequency"`
	Streak         int       `json:"streak"`
	BestStreak     int       `json:"best_streak"`
	TotalDone      int       `json:"total_done"`
	Archived       bool      `json:"archived"`
	CompletedToday bool      `json:"completed_today"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toHabitResponse(h *habitdomain.Habit, now time.Time) habitResponse {
	return habitResponse{
		ID:             h.ID().String(),
		Name:           h.Name(),
		Description:    h.Description(),
		Frequency:      string(h.Frequency()),
		Streak:         h.Streak(),
		BestStreak:     h.BestStreak(),
		TotalDone:      h.TotalDone(),
		Archived:       h.IsArchived(),
		CompletedToday: h.IsCompletedOn(now),
		CreatedAt:      h.CreatedAt(),
		UpdatedAt:      h.UpdatedAt(),
	}
}

func toHabitResponses(habits []*habitdomain.Habit, now time.Time) []habitResponse {
	out := make([]habitResponse, 0, len(habits))
	for _, h := range habits {
		out = append(out, toHabitResponse(h, now))
	}
	return out
}

// goalResponse is the wire shape of a goal.
type goalResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	TargetValue  float64    `json:"target_value"`
	CurrentValue float64    `json:"current_value"`
	Unit         string     `json:"unit,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Completed    bool       `json:"completed"`
	Progress     float64    `json:"progress"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func toGoalResponse(g *goaldomain.Goal) goalResponse {
	return goalResponse{
		ID:           g.ID().String(),
		Title:        g.Title,
		Description:  g.Description,
		TargetValue:  g.TargetValue,
		CurrentValue: g.CurrentValue,
		Unit:         g.Unit,
		DueDate:      g.DueDate,
		Completed:    g.Completed,
		Progress:     g.Progress(),
		CreatedAt:    g.CreatedAt(),
		UpdatedAt:    g.UpdatedAt(),
	}
}

func toGoalResponses(goals []*goaldomain.Goal) []goalResponse {
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalResponse(g))
	}
	return out
}

// noteResponse is the wire shape of a note.
type noteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toNoteResponse(n *notedomain.Note) noteResponse {
	return noteResponse{
		ID:        n.ID().String(),
		Title:     n.Title,
		Body:      n.Body,
		CreatedAt: n.CreatedAt(),
		UpdatedAt: n.UpdatedAt(),
	}
}

func toNoteResponses(notes []*notedomain.Note) []noteResponse {
	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	return out
}

// applicationResponse is the wire shape of a job application.
type applicationResponse struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	AppliedOn *string   `json:"applied_on,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toApplicationResponse(a *jobdomain.Application) applicationResponse {
	resp := applicationResponse{
		ID:        a.ID().String(),
		Company:   a.Company,
		Role:      a.Role,
		Status:    string(a.Status),
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt(),
		UpdatedAt: a.UpdatedAt(),
	}
	if a.AppliedOn != nil {
		applied := a.AppliedOn.Format(time.DateOnly)
		resp.AppliedOn = &applied
	}
	return resp
}

func toApplicationResponses(apps []*jobdomain.Application) []applicationResponse {
	out := make([]applicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, toApplicationResponse(a))
	}
	return out
}
