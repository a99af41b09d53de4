package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/calendar/domain"
)

// ErrEventNotFound is returned when an event id resolves to nothing.
var ErrEventNotFound = errors.New("event not found")

// SQLiteEventRepository implements domain.EventRepository using SQLite.
type SQLiteEventRepository struct {
	dbConn *sql.DB
}

// NewSQLiteEventRepository creates a new SQLite event repository.
func NewSQLiteEventRepository(dbConn *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{dbConn: dbConn}
}

// Save upserts an event.
func (r *SQLiteEventRepository) Save(ctx context.Context, event *domain.Event) error {
	attendees, err := json.Marshal(event.Attendees())
	if err != nil {
		return err
	}
	reminders, err := json.Marshal(event.Reminders())
	if err != nil {
		return err
	}
	var recurrence sql.NullString
	if rec := event.Recurrence(); rec != nil {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		recurrence = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO calendar_events (
			id, user_id, title, description, start_at, end_at, all_day,
			category_id, location, attendees, reminders, recurrence,
			google_event_id, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			all_day = excluded.all_day,
			category_id = excluded.category_id,
			location = excluded.location,
			attendees = excluded.attendees,
			reminders = excluded.reminders,
			recurrence = excluded.recurrence,
			google_event_id = excluded.google_event_id,
			version = excluded.version,
			updated_at = excluded.updated_at
	`
	_, err = r.dbConn.ExecContext(ctx, query,
		event.ID(),
		event.UserID().String(),
		event.Title(),
		event.Description(),
		event.StartAt().Format(time.RFC3339),
		event.EndAt().Format(time.RFC3339),
		boolToInt64(event.IsAllDay()),
		event.CategoryID(),
		event.Location(),
		string(attendees),
		string(reminders),
		recurrence,
		event.GoogleEventID(),
		int64(event.Version()),
		event.CreatedAt().Format(time.RFC3339),
		event.UpdatedAt().Format(time.RFC3339),
	)
	return err
}

// FindByID retrieves an event by its id.
func (r *SQLiteEventRepository) FindByID(ctx context.Context, userID uuid.UUID, id string) (*domain.Event, error) {
	row := r.dbConn.QueryRowContext(ctx, selectEvents+` WHERE user_id = ? AND id = ?`, userID.String(), id)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// FindByUser returns all events for a user in insertion order.
func (r *SQLiteEventRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Event, error) {
	rows, err := r.dbConn.QueryContext(ctx, selectEvents+` WHERE user_id = ? ORDER BY created_at, id`, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// FindRemoteByUser returns all remote-origin events for a user.
func (r *SQLiteEventRepository) FindRemoteByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Event, error) {
	rows, err := r.dbConn.QueryContext(ctx, selectEvents+` WHERE user_id = ? AND google_event_id != '' ORDER BY created_at, id`, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// Delete removes an event.
func (r *SQLiteEventRepository) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	_, err := r.dbConn.ExecContext(ctx, `DELETE FROM calendar_events WHERE user_id = ? AND id = ?`, userID.String(), id)
	return err
}

const selectEvents = `
	SELECT id, user_id, title, description, start_at, end_at, all_day,
	       category_id, location, attendees, reminders, recurrence,
	       google_event_id, version, created_at, updated_at
	FROM calendar_events`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var (
		id, userIDStr, title, description string
		startStr, endStr                  string
		allDay                            int64
		categoryID, location              string
		attendeesJSON, remindersJSON      string
		recurrenceStr                     sql.NullString
		googleEventID                     string
		version                           int64
		createdStr, updatedStr            string
	)
	if err := row.Scan(
		&id, &userIDStr, &title, &description,
		&startStr, &endStr, &allDay,
		&categoryID, &location,
		&attendeesJSON, &remindersJSON, &recurrenceStr,
		&googleEventID, &version, &createdStr, &updatedStr,
	); err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}
	startAt, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return nil, err
	}
	endAt, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return nil, err
	}
	createdAt, _ := time.Parse(time.RFC3339, createdStr)
	updatedAt, _ := time.Parse(time.RFC3339, updatedStr)

	var attendees []string
	if err := json.Unmarshal([]byte(attendeesJSON), &attendees); err != nil {
		return nil, err
	}
	var reminders []int
	if err := json.Unmarshal([]byte(remindersJSON), &reminders); err != nil {
		return nil, err
	}
	var recurrence *domain.Recurrence
	if recurrenceStr.Valid && recurrenceStr.String != "" {
		var rec domain.Recurrence
		if err := json.Unmarshal([]byte(recurrenceStr.String), &rec); err != nil {
			return nil, err
		}
		recurrence = &rec
	}

	return domain.RehydrateEvent(
		id, userID, title, description,
		startAt.UTC(), endAt.UTC(), allDay != 0,
		categoryID, location, attendees, reminders, recurrence,
		googleEventID, int(version), createdAt, updatedAt,
	), nil
}

func scanEvents(rows *sql.Rows) ([]*domain.Event, error) {
	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
