package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifedash/lifedash/internal/jobs/domain"
)

// PostgresApplicationRepository implements domain.Repository using
// PostgreSQL.
type PostgresApplicationRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresApplicationRepository creates a new Postgres application
// repository.
func NewPostgresApplicationRepository(pool *pgxpool.Pool) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{pool: pool}
}

// Save upserts an application.
func (r *PostgresApplicationRepository) Save(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO job_applications (
			id, user_id, company, role, status, notes, applied_on, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			company = EXCLUDED.company,
			role = EXCLUDED.role,
			status = EXCLUDED.status,
			notes = EXCLUDED.notes,
			applied_on = EXCLUDED.applied_on,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		app.ID(),
		app.UserID,
		app.Company,
		app.Role,
		string(app.Status),
		app.Notes,
		app.AppliedOn,
		app.CreatedAt(),
		app.UpdatedAt(),
	)
	return err
}

// FindByID retrieves an application owned by the user.
func (r *PostgresApplicationRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.Application, error) {
	row := r.pool.QueryRow(ctx, selectApplicationsPG+` WHERE user_id = $1 AND id = $2`, userID, id)
	app, err := scanApplicationPG(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

// FindByUser returns all applications for a user in creation order.
func (r *PostgresApplicationRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Application, error) {
	rows, err := r.pool.Query(ctx, selectApplicationsPG+` WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplicationsPG(rows)
}

// FindByStatus returns a user's applications in a given stage.
func (r *PostgresApplicationRepository) FindByStatus(ctx context.Context, userID uuid.UUID, status domain.Status) ([]*domain.Application, error) {
	rows, err := r.pool.Query(ctx, selectApplicationsPG+` WHERE user_id = $1 AND status = $2 ORDER BY created_at, id`, userID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplicationsPG(rows)
}

// Delete removes an application.
func (r *PostgresApplicationRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM job_applications WHERE user_id = $1 AND id = $2`, userID, id)
	return err
}

const selectApplicationsPG = `
	SELECT id, user_id, company, role, status, notes, applied_on, created_at, updated_at
	FROM job_applications`

func scanApplicationPG(row pgx.Row) (*domain.Application, error) {
	var (
		id, userID                  uuid.UUID
		company, role, status, note string
		appliedOn                   *time.Time
		createdAt, updatedAt        time.Time
	)
	if err := row.Scan(
		&id, &userID, &company, &role, &status, &note,
		&appliedOn, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	return domain.RehydrateApplication(
		id, userID, company, role, domain.Status(status), note,
		appliedOn, createdAt, updatedAt,
	), nil
}

func scanApplicationsPG(rows pgx.Rows) ([]*domain.Application, error) {
	var apps []*domain.Application
	for rows.Next() {
		app, err := scanApplicationPG(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}
