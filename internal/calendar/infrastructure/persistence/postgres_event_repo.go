package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifedash/lifedash/internal/calendar/domain"
)

// PostgresEventRepository implements domain.EventRepository using PostgreSQL.
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new Postgres event repository.
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

// Save upserts an event.
func (r *PostgresEventRepository) Save(ctx context.Context, event *domain.Event) error {
	attendees, err := json.Marshal(event.Attendees())
	if err != nil {
		return err
	}
	reminders, err := json.Marshal(event.Reminders())
	if err != nil {
		return err
	}
	var recurrence []byte
	if rec := event.Recurrence(); rec != nil {
		recurrence, err = json.Marshal(rec)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO calendar_events (
			id, user_id, title, description, start_at, end_at, all_day,
			category_id, location, attendees, reminders, recurrence,
			google_event_id, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			start_at = EXCLUDED.start_at,
			end_at = EXCLUDED.end_at,
			all_day = EXCLUDED.all_day,
			category_id = EXCLUDED.category_id,
			location = EXCLUDED.location,
			attendees = EXCLUDED.attendees,
			reminders = EXCLUDED.reminders,
			recurrence = EXCLUDED.recurrence,
			google_event_id = EXCLUDED.google_event_id,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.pool.Exec(ctx, query,
		event.ID(),
		event.UserID(),
		event.Title(),
		event.Description(),
		event.StartAt(),
		event.EndAt(),
		event.IsAllDay(),
		event.CategoryID(),
		event.Location(),
		attendees,
		reminders,
		recurrence,
		event.GoogleEventID(),
		event.Version(),
		event.CreatedAt(),
		event.UpdatedAt(),
	)
	return err
}

const selectEventsPG = `
	SELECT id, user_id, title, description, start_at, end_at, all_day,
	       category_id, location, attendees, reminders, recurrence,
	       google_event_id, version, created_at, updated_at
	FROM calendar_events`

// FindByID retrieves an event by its id.
func (r *PostgresEventRepository) FindByID(ctx context.Context, userID uuid.UUID, id string) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx, selectEventsPG+` WHERE user_id = $1 AND id = $2`, userID, id)
	event, err := scanEventPG(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// FindByUser returns all events for a user in insertion order.
func (r *PostgresEventRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Event, error) {
	rows, err := r.pool.Query(ctx, selectEventsPG+` WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEventsPG(rows)
}

// FindRemoteByUser returns all remote-origin events for a user.
func (r *PostgresEventRepository) FindRemoteByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Event, error) {
	rows, err := r.pool.Query(ctx, selectEventsPG+` WHERE user_id = $1 AND google_event_id != '' ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEventsPG(rows)
}

// Delete removes an event.
func (r *PostgresEventRepository) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM calendar_events WHERE user_id = $1 AND id = $2`, userID, id)
	return err
}

func scanEventPG(row pgx.Row) (*domain.Event, error) {
	var (
		id, title, description       string
		userID                       uuid.UUID
		startAt, endAt               time.Time
		allDay                       bool
		categoryID, location         string
		attendeesJSON, remindersJSON []byte
		recurrenceJSON               []byte
		googleEventID                string
		version                      int
		createdAt, updatedAt         time.Time
	)
	if err := row.Scan(
		&id, &userID, &title, &description,
		&startAt, &endAt, &allDay,
		&categoryID, &location,
		&attendeesJSON, &remindersJSON, &recurrenceJSON,
		&googleEventID, &version, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	var attendees []string
	if err := json.Unmarshal(attendeesJSON, &attendees); err != nil {
		return nil, err
	}
	var reminders []int
	if err := json.Unmarshal(remindersJSON, &reminders); err != nil {
		return nil, err
	}
	var recurrence *domain.Recurrence
	if len(recurrenceJSON) > 0 {
		var rec domain.Recurrence
		if err := json.Unmarshal(recurrenceJSON, &rec); err != nil {
			return nil, err
		}
		recurrence = &rec
	}

	return domain.RehydrateEvent(
		id, userID, title, description,
		startAt.UTC(), endAt.UTC(), allDay,
		categoryID, location, attendees, reminders, recurrence,
		googleEventID, version, createdAt, updatedAt,
	), nil
}

func scanEventsPG(rows pgx.Rows) ([]*domain.Event, error) {
	var events []*domain.Event
	for rows.Next() {
		event, err := scanEventPG(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
