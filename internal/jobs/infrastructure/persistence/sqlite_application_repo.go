// Package persistence contains the job application repositories.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/jobs/domain"
)

// ErrApplicationNotFound is returned when an application id resolves to
// nothing.
var ErrApplicationNotFound = errors.New("application not found")

// SQLiteApplicationRepository implements domain.Repository using SQLite.
type SQLiteApplicationRepository struct {
	dbConn *sql.DB
}

// NewSQLiteApplicationRepository creates a new SQLite application repository.
func NewSQLiteApplicationRepository(dbConn *sql.DB) *SQLiteApplicationRepository {
	return &SQLiteApplicationRepository{dbConn: dbConn}
}

// Save upserts an application.
func (r *SQLiteApplicationRepository) Save(ctx context.Context, app *domain.Application) error {
	var appliedOn sql.NullString
	if app.AppliedOn != nil {
		appliedOn = sql.NullString{String: app.AppliedOn.Format(time.DateOnly), Valid: true}
	}

	query := `
		INSERT INTO job_applications (
			id, user_id, company, role, status, notes, applied_on, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			company = excluded.company,
			role = excluded.role,
			status = excluded.status,
			notes = excluded.notes,
			applied_on = excluded.applied_on,
			updated_at = excluded.updated_at
	`
	_, err := r.dbConn.ExecContext(ctx, query,
		app.ID().String(),
		app.UserID.String(),
		app.Company,
		app.Role,
		string(app.Status),
		app.Notes,
		appliedOn,
		app.CreatedAt().Format(time.RFC3339),
		app.UpdatedAt().Format(time.RFC3339),
	)
	return err
}

// FindByID retrieves an application owned by the user.
func (r *SQLiteApplicationRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.Application, error) {
	row := r.dbConn.QueryRowContext(ctx, selectApplications+` WHERE user_id = ? AND id = ?`, userID.String(), id.String())
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

// FindByUser returns all applications for a user in creation order.
func (r *SQLiteApplicationRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Application, error) {
	rows, err := r.dbConn.QueryContext(ctx, selectApplications+` WHERE user_id = ? ORDER BY created_at, id`, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

// FindByStatus returns a user's applications in a given stage.
func (r *SQLiteApplicationRepository) FindByStatus(ctx context.Context, userID uuid.UUID, status domain.Status) ([]*domain.Application, error) {
	rows, err := r.dbConn.QueryContext(ctx, selectApplications+` WHERE user_id = ? AND status = ? ORDER BY created_at, id`, userID.String(), string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

// Delete removes an application.
func (r *SQLiteApplicationRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	_, err := r.dbConn.ExecContext(ctx, `DELETE FROM job_applications WHERE user_id = ? AND id = ?`, userID.String(), id.String())
	return err
}

const selectApplications = `
	SELECT id, user_id, company, role, status, notes, applied_on, created_at, updated_at
	FROM job_applications`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*domain.Application, error) {
	var (
		idStr, userIDStr, company, role, status, notes string
		appliedStr                                     sql.NullString
		createdStr, updatedStr                         string
	)
	if err := row.Scan(
		&idStr, &userIDStr, &company, &role, &status, &notes,
		&appliedStr, &createdStr, &updatedStr,
	); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}
	var appliedOn *time.Time
	if appliedStr.Valid && appliedStr.String != "" {
		applied, err := time.Parse(time.DateOnly, appliedStr.String)
		if err != nil {
			return nil, err
		}
		appliedOn = &applied
	}
	createdAt, _ := time.Parse(time.RFC3339, createdStr)
	updatedAt, _ := time.Parse(time.RFC3339, updatedStr)

	return domain.RehydrateApplication(
		id, userID, company, role, domain.Status(status), notes,
		appliedOn, createdAt, updatedAt,
	), nil
}

func scanApplications(rows *sql.Rows) ([]*domain.Application, error) {
	var apps []*domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}
