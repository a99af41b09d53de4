package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/calendar/domain"
	"github.com/lifedash/lifedash/internal/shared/infrastructure/eventbus"
)

// ErrCategoryNotFound is returned when a category id resolves to nothing.
var ErrCategoryNotFound = errors.New("category not found")

// SyntheticCategorySource supplies the synthetic categories derived from the
// connected remote calendars. Nil when no provider is wired.
type SyntheticCategorySource interface {
	SyntheticCategories(userID uuid.UUID) []domain.Category
}

// CalendarService handles event and category use cases plus the read-side
// view projections.
type CalendarService struct {
	events     domain.EventRepository
	categories domain.CategoryRepository
	synthetic  SyntheticCategorySource
	publisher  eventbus.Publisher
	logger     *slog.Logger
}

// NewCalendarService creates a new CalendarService. The synthetic source and
// publisher are optional.
func NewCalendarService(
	events domain.EventRepository,
	categories domain.CategoryRepository,
	synthetic SyntheticCategorySource,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *CalendarService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarService{
		events:     events,
		categories: categories,
		synthetic:  synthetic,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreateEventCommand contains the data needed to create a local event.
type CreateEventCommand struct {
	UserID      uuid.UUID
	Title       string
	Description string
	Location    string
	StartAt     time.Time
	EndAt       time.Time
	AllDay      bool
	CategoryID  string
	Reminders   []int
	Recurrence  *domain.Recurrence
}

// CreateEvent creates and persists a local event.
func (s *CalendarService) CreateEvent(ctx context.Context, cmd CreateEventCommand) (*domain.Event, error) {
	var event *domain.Event
	var err error
	if cmd.AllDay {
		event, err = domain.NewAllDayEvent(cmd.UserID, cmd.Title, cmd.StartAt, cmd.EndAt, cmd.CategoryID)
	} else {
		event, err = domain.NewEvent(cmd.UserID, cmd.Title, cmd.StartAt, cmd.EndAt, cmd.CategoryID)
	}
	if err != nil {
		return nil, err
	}

	if cmd.Description != "" {
		if err := event.SetDescription(cmd.Description); err != nil {
			return nil, err
		}
	}
	if cmd.Location != "" {
		if err := event.SetLocation(cmd.Location); err != nil {
			return nil, err
		}
	}
	for _, minutes := range cmd.Reminders {
		if err := event.AddReminder(minutes); err != nil {
			return nil, err
		}
	}
	if cmd.Recurrence != nil {
		if err := event.SetRecurrence(*cmd.Recurrence); err != nil {
			return nil, err
		}
	}

	if err := s.events.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}
	s.publishEvents(ctx, event)
	return event, nil
}

// UpdateEventCommand carries partial updates for a local event. Nil fields
// stay untouched.
type UpdateEventCommand struct {
	UserID      uuid.UUID
	EventID     string
	Title       *string
	Description *string
	Location    *string
	CategoryID  *string
	StartAt     *time.Time
	EndAt       *time.Time
	AllDay      *bool
	Recurrence  *domain.Recurrence
}

// UpdateEvent applies a partial update to a local event.
func (s *CalendarService) UpdateEvent(ctx context.Context, cmd UpdateEventCommand) (*domain.Event, error) {
	event, err := s.events.FindByID(ctx, cmd.UserID, cmd.EventID)
	if err != nil {
		return nil, err
	}

	if cmd.Title != nil {
		if err := event.SetTitle(*cmd.Title); err != nil {
			return nil, err
		}
	}
	if cmd.Description != nil {
		if err := event.SetDescription(*cmd.Description); err != nil {
			return nil, err
		}
	}
	if cmd.Location != nil {
		if err := event.SetLocation(*cmd.Location); err != nil {
			return nil, err
		}
	}
	if cmd.CategoryID != nil {
		if err := event.SetCategory(*cmd.CategoryID); err != nil {
			return nil, err
		}
	}
	if cmd.StartAt != nil || cmd.EndAt != nil {
		start, end := event.StartAt(), event.EndAt()
		if cmd.StartAt != nil {
			start = *cmd.StartAt
		}
		if cmd.EndAt != nil {
			end = *cmd.EndAt
		}
		if err := event.Reschedule(start, end); err != nil {
			return nil, err
		}
	}
	if cmd.AllDay != nil {
		if err := event.SetAllDay(*cmd.AllDay); err != nil {
			return nil, err
		}
	}
	if cmd.Recurrence != nil {
		if err := event.SetRecurrence(*cmd.Recurrence); err != nil {
			return nil, err
		}
	}

	event.IncrementVersion()
	if err := s.events.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}
	s.publishEvents(ctx, event)
	return event, nil
}

// AddReminder adds a reminder offset to a local event.
func (s *CalendarService) AddReminder(ctx context.Context, userID uuid.UUID, eventID string, minutes int) (*domain.Event, error) {
	event, err := s.events.FindByID(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if err := event.AddReminder(minutes); err != nil {
		return nil, err
	}
	if err := s.events.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}
	return event, nil
}

// RemoveReminder removes a reminder offset from a local event.
func (s *CalendarService) RemoveReminder(ctx context.Context, userID uuid.UUID, eventID string, minutes int) (*domain.Event, error) {
	event, err := s.events.FindByID(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if err := event.RemoveReminder(minutes); err != nil {
		return nil, err
	}
	if err := s.events.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}
	return event, nil
}

// GetEvent returns a single event.
func (s *CalendarService) GetEvent(ctx context.Context, userID uuid.UUID, eventID string) (*domain.Event, error) {
	return s.events.FindByID(ctx, userID, eventID)
}

// DeleteEvent removes a local event. Remote-origin events cannot be deleted
// here; the next sync would resurrect them anyway.
func (s *CalendarService) DeleteEvent(ctx context.Context, userID uuid.UUID, eventID string) error {
	event, err := s.events.FindByID(ctx, userID, eventID)
	if err != nil {
		return err
	}
	if event.IsRemote() {
		return domain.ErrRemoteReadOnly
	}
	event.MarkDeleted()
	if err := s.events.Delete(ctx, userID, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	s.publishEvents(ctx, event)
	return nil
}

// Categories returns the user's categories, seeding the defaults on first
// use when the store holds none.
func (s *CalendarService) Categories(ctx context.Context, userID uuid.UUID) ([]domain.Category, error) {
	categories, err := s.categories.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		categories = domain.DefaultCategories()
		if err := s.categories.SaveAll(ctx, userID, categories); err != nil {
			return nil, fmt.Errorf("failed to seed default categories: %w", err)
		}
	}
	return categories, nil
}

// ToggleCategory flips a category's visibility and persists just that
// record. Toggling a synthetic calendar category stores a shadowing record
// so the choice survives restarts.
func (s *CalendarService) ToggleCategory(ctx context.Context, userID uuid.UUID, categoryID string) (domain.Category, error) {
	categories, err := s.Categories(ctx, userID)
	if err != nil {
		return domain.Category{}, err
	}

	var target *domain.Category
	for i := range categories {
		if categories[i].ID == categoryID {
			target = &categories[i]
			break
		}
	}
	if target == nil && s.synthetic != nil {
		for _, c := range s.synthetic.SyntheticCategories(userID) {
			if c.ID == categoryID {
				synthetic := c
				target = &synthetic
				break
			}
		}
	}
	if target == nil {
		return domain.Category{}, ErrCategoryNotFound
	}

	target.IsVisible = !target.IsVisible
	if err := s.categories.Save(ctx, userID, *target); err != nil {
		return domain.Category{}, fmt.Errorf("failed to save category: %w", err)
	}

	if s.publisher != nil {
		evt := domain.NewCategoryToggled(target.ID, target.IsVisible)
		if err := eventbus.PublishDomainEvent(ctx, s.publisher, evt); err != nil {
			s.logger.Warn("failed to publish category toggle", "category_id", target.ID, "error", err)
		}
	}
	return *target, nil
}

// MonthView projects the user's events onto the month grid.
func (s *CalendarService) MonthView(ctx context.Context, userID uuid.UUID, year int, month time.Month, filter domain.Filter) ([]domain.MonthCell, error) {
	events, categories, err := s.projectionInputs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.MonthView(events, categories, filter, year, month), nil
}

// WeekView projects the user's events onto the week containing day.
func (s *CalendarService) WeekView(ctx context.Context, userID uuid.UUID, day time.Time, filter domain.Filter) ([7]domain.DayColumn, error) {
	events, categories, err := s.projectionInputs(ctx, userID)
	if err != nil {
		return [7]domain.DayColumn{}, err
	}
	return domain.WeekView(events, categories, filter, day), nil
}

// DayView projects the user's events onto a single day.
func (s *CalendarService) DayView(ctx context.Context, userID uuid.UUID, day time.Time, filter domain.Filter) (domain.DayColumn, error) {
	events, categories, err := s.projectionInputs(ctx, userID)
	if err != nil {
		return domain.DayColumn{}, err
	}
	return domain.DayView(events, categories, filter, day), nil
}

// AgendaView lists the user's events between from and to, grouped by day.
func (s *CalendarService) AgendaView(ctx context.Context, userID uuid.UUID, from, to time.Time, filter domain.Filter) ([]domain.AgendaGroup, error) {
	events, categories, err := s.projectionInputs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.AgendaView(events, categories, filter, from, to), nil
}

// projectionInputs loads the events and the live category set. Synthetic
// calendar categories come first so stored shadow records win.
func (s *CalendarService) projectionInputs(ctx context.Context, userID uuid.UUID) ([]*domain.Event, domain.CategorySet, error) {
	events, err := s.events.FindByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var all []domain.Category
	if s.synthetic != nil {
		all = append(all, s.synthetic.SyntheticCategories(userID)...)
	}
	stored, err := s.Categories(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	all = append(all, stored...)

	return events, domain.NewCategorySet(all), nil
}

func (s *CalendarService) publishEvents(ctx context.Context, event *domain.Event) {
	if s.publisher == nil {
		event.ClearDomainEvents()
		return
	}
	for _, evt := range event.DomainEvents() {
		if err := eventbus.PublishDomainEvent(ctx, s.publisher, evt); err != nil {
			s.logger.Warn("failed to publish domain event",
				"routing_key", evt.RoutingKey(),
				"event_id", event.ID(),
				"error", err,
			)
		}
	}
	event.ClearDomainEvents()
}
