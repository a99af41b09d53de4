package app

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"

	calendardomain "github.com/lifedash/lifedash/internal/calendar/domain"
	calendarstore "github.com/lifedash/lifedash/internal/calendar/infrastructure/persistence"
	goaldomain "github.com/lifedash/lifedash/internal/goals/domain"
	goalstore "github.com/lifedash/lifedash/internal/goals/infrastructure/persistence"
	habitdomain "github.com/lifedash/lifedash/internal/habits/domain"
	habitstore "github.com/lifedash/lifedash/internal/habits/infrastructure/persistence"
	"github.com/lifedash/lifedash/internal/identity/application/oauth"
	identitystore "github.com/lifedash/lifedash/internal/identity/infrastructure/persistence"
	jobdomain "github.com/lifedash/lifedash/internal/jobs/domain"
	jobstore "github.com/lifedash/lifedash/internal/jobs/infrastructure/persistence"
	notedomain "github.com/lifedash/lifedash/internal/notes/domain"
	notestore "github.com/lifedash/lifedash/internal/notes/infrastructure/persistence"
)

// repositories bundles every persistence interface behind one driver choice.
type repositories struct {
	Events     calendardomain.EventRepository
	Categories calendardomain.CategoryRepository
	Habits     habitdomain.Repository
	Goals      goaldomain.Repository
	Notes      notedomain.Repository
	Jobs       jobdomain.Repository
	Tokens     oauth.TokenRepository
}

func sqliteRepositories(db *sql.DB) repositories {
	return repositories{
		Events:     calendarstore.NewSQLiteEventRepository(db),
		Categories: calendarstore.NewSQLiteCategoryRepository(db),
		Habits:     habitstore.NewSQLiteHabitRepository(db),
		Goals:      goalstore.NewSQLiteGoalRepository(db),
		Notes:      notestore.NewSQLiteNoteRepository(db),
		Jobs:       jobstore.NewSQLiteApplicationRepository(db),
		Tokens:     identitystore.NewSQLiteOAuthTokenRepository(db),
	}
}

func postgresRepositories(pool *pgxpool.Pool) repositories {
	return repositories{
		Events:     calendarstore.NewPostgresEventRepository(pool),
		Categories: calendarstore.NewPostgresCategoryRepository(pool),
		Habits:     habitstore.NewPostgresHabitRepository(pool),
		Goals:      goalstore.NewPostgresGoalRepository(pool),
		Notes:      notestore.NewPostgresNoteRepository(pool),
		Jobs:       jobstore.NewPostgresApplicationRepository(pool),
		Tokens:     identitystore.NewPostgresOAuthTokenRepository(pool),
	}
}
