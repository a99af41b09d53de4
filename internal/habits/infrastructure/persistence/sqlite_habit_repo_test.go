package persistence

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedash/lifedash/internal/habits/domain"
	"github.com/lifedash/lifedash/internal/shared/infrastructure/database/sqlite"
	"github.com/lifedash/lifedash/internal/shared/infrastructure/migrations"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), db))
	return db
}

func TestSQLiteHabitRepositorySaveAndFind(t *testing.T) {
	repo := NewSQLiteHabitRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	habit, err := domain.NewHabit(userID, "Morning run", "30 minutes", domain.FrequencyWeekdays)
	require.NoError(t, err)
	require.NoError(t, habit.LogCompletion(time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, habit.LogCompletion(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, repo.Save(ctx, habit))

	found, err := repo.FindByID(ctx, userID, habit.ID())
	require.NoError(t, err)
	assert.Equal(t, habit.ID(), found.ID())
	assert.Equal(t, "Morning run", found.Name())
	assert.Equal(t, "30 minutes", found.Description())
	assert.Equal(t, domain.FrequencyWeekdays, found.Frequency())
	assert.Equal(t, 2, found.Streak())
	assert.Equal(t, 2, found.TotalDone())
	assert.True(t, found.IsCompletedOn(time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)))
	assert.Len(t, found.Completions(), 2)
}

func TestSQLiteHabitRepositoryUpsert(t *testing.T) {
	repo := NewSQLiteHabitRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	habit, err := domain.NewHabit(userID, "Read", "", domain.FrequencyDaily)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, habit))

	require.NoError(t, habit.Rename("Read fiction"))
	require.NoError(t, habit.LogCompletion(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, repo.Save(ctx, habit))

	found, err := repo.FindByID(ctx, userID, habit.ID())
	require.NoError(t, err)
	assert.Equal(t, "Read fiction", found.Name())
	assert.Equal(t, 1, found.TotalDone())
	assert.Len(t, found.Completions(), 1)

	// Saving again with the same completions stays idempotent.
	require.NoError(t, repo.Save(ctx, habit))
	found, err = repo.FindByID(ctx, userID, habit.ID())
	require.NoError(t, err)
	assert.Len(t, found.Completions(), 1)
}

func TestSQLiteHabitRepositoryNotFound(t *testing.T) {
	repo := NewSQLiteHabitRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrHabitNotFound)
}

func TestSQLiteHabitRepositoryActiveFilter(t *testing.T) {
	repo := NewSQLiteHabitRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	active, err := domain.NewHabit(userID, "Read", "", domain.FrequencyDaily)
	require.NoError(t, err)
	archived, err := domain.NewHabit(userID, "Run", "", domain.FrequencyDaily)
	require.NoError(t, err)
	archived.Archive()

	require.NoError(t, repo.Save(ctx, active))
	require.NoError(t, repo.Save(ctx, archived))

	all, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyActive, err := repo.FindActiveByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, active.ID(), onlyActive[0].ID())
}

func TestSQLiteHabitRepositoryDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteHabitRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	habit, err := domain.NewHabit(userID, "Read", "", domain.FrequencyDaily)
	require.NoError(t, err)
	require.NoError(t, habit.LogCompletion(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, repo.Save(ctx, habit))

	require.NoError(t, repo.Delete(ctx, userID, habit.ID()))

	_, err = repo.FindByID(ctx, userID, habit.ID())
	assert.ErrorIs(t, err, ErrHabitNotFound)

	var count int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM habit_completions WHERE habit_id = ?`, habit.ID().String()).Scan(&count))
	assert.Zero(t, count, "completions are removed with the habit")
}

func TestSQLiteHabitRepositoryScopesByUser(t *testing.T) {
	repo := NewSQLiteHabitRepository(newTestDB(t))
	ctx := context.Background()

	habit, err := domain.NewHabit(uuid.New(), "Read", "", domain.FrequencyDaily)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, habit))

	_, err = repo.FindByID(ctx, uuid.New(), habit.ID())
	assert.ErrorIs(t, err, ErrHabitNotFound)
}
