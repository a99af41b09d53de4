// Package api provides the HTTP API for the organizer.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/pkg/observability"
)

// Server is the HTTP API server.
type Server struct {
	mux      *http.ServeMux
	server   *http.Server
	logger   *slog.Logger
	calendar *CalendarHandler
	sync     *SyncHandler
	habits   *HabitHandler
	goals    *GoalHandler
	notes    *NoteHandler
	jobs     *JobHandler
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "127.0.0.1:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Handlers bundles the per-domain handlers mounted on the server. Nil
// handlers are skipped, so a deployment without a sync provider simply has
// no sync routes.
type Handlers struct {
	Calendar *CalendarHandler
	Sync     *SyncHandler
	Habits   *HabitHandler
	Goals    *GoalHandler
	Notes    *NoteHandler
	Jobs     *JobHandler
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, handlers Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		calendar: handlers.Calendar,
		sync:     handlers.Sync,
		habits:   handlers.Habits,
		goals:    handlers.Goals,
		notes:    handlers.Notes,
		jobs:     handlers.Jobs,
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      withRequestID(s.mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	if s.calendar != nil {
		s.mux.HandleFunc("POST /api/v1/events", s.calendar.CreateEvent)
		s.mux.HandleFunc("GET /api/v1/events/{eventID}", s.calendar.GetEvent)
		s.mux.HandleFunc("PATCH /api/v1/events/{eventID}", s.calendar.UpdateEvent)
		s.mux.HandleFunc("DELETE /api/v1/events/{eventID}", s.calendar.DeleteEvent)
		s.mux.HandleFunc("POST /api/v1/events/{eventID}/reminders", s.calendar.AddReminder)
		s.mux.HandleFunc("DELETE /api/v1/events/{eventID}/reminders/{minutes}", s.calendar.RemoveReminder)

		s.mux.HandleFunc("GET /api/v1/views/month", s.calendar.MonthView)
		s.mux.HandleFunc("GET /api/v1/views/week", s.calendar.WeekView)
		s.mux.HandleFunc("GET /api/v1/views/day", s.calendar.DayView)
		s.mux.HandleFunc("GET /api/v1/views/agenda", s.calendar.AgendaView)

		s.mux.HandleFunc("GET /api/v1/categories", s.calendar.ListCategories)
		s.mux.HandleFunc("POST /api/v1/categories/{categoryID}/toggle", s.calendar.ToggleCategory)
	}

	if s.sync != nil {
		s.mux.HandleFunc("POST /api/v1/sync/pull", s.sync.Pull)
		s.mux.HandleFunc("GET /api/v1/sync/status", s.sync.Status)
		s.mux.HandleFunc("PUT /api/v1/sync/calendars/{calendarID}", s.sync.SelectCalendar)

		s.mux.HandleFunc("GET /api/v1/auth/google/connect", s.sync.Connect)
		s.mux.HandleFunc("GET /api/v1/auth/google/callback", s.sync.Callback)
		s.mux.HandleFunc("DELETE /api/v1/auth/google", s.sync.Disconnect)
	}

	if s.habits != nil {
		s.mux.HandleFunc("POST /api/v1/habits", s.habits.Create)
		s.mux.HandleFunc("GET /api/v1/habits", s.habits.List)
		s.mux.HandleFunc("GET /api/v1/habits/due", s.habits.DueToday)
		s.mux.HandleFunc("GET /api/v1/habits/{habitID}", s.habits.Get)
		s.mux.HandleFunc("PATCH /api/v1/habits/{habitID}", s.habits.Update)
		s.mux.HandleFunc("DELETE /api/v1/habits/{habitID}", s.habits.Delete)
		s.mux.HandleFunc("POST /api/v1/habits/{habitID}/log", s.habits.Log)
		s.mux.HandleFunc("POST /api/v1/habits/{habitID}/archive", s.habits.Archive)
		s.mux.HandleFunc("POST /api/v1/habits/{habitID}/unarchive", s.habits.Unarchive)
	}

	if s.goals != nil {
		s.mux.HandleFunc("POST /api/v1/goals", s.goals.Create)
		s.mux.HandleFunc("GET /api/v1/goals", s.goals.List)
		s.mux.HandleFunc("GET /api/v1/goals/{goalID}", s.goals.Get)
		s.mux.HandleFunc("PATCH /api/v1/goals/{goalID}", s.goals.Update)
		s.mux.HandleFunc("DELETE /api/v1/goals/{goalID}", s.goals.Delete)
		s.mux.HandleFunc("POST /api/v1/goals/{goalID}/progress", s.goals.AddProgress)
	}

	if s.notes != nil {
		s.mux.HandleFunc("POST /api/v1/notes", s.notes.Create)
		s.mux.HandleFunc("GET /api/v1/notes", s.notes.List)
		s.mux.HandleFunc("GET /api/v1/notes/{noteID}", s.notes.Get)
		s.mux.HandleFunc("PATCH /api/v1/notes/{noteID}", s.notes.Update)
		s.mux.HandleFunc("DELETE /api/v1/notes/{noteID}", s.notes.Delete)
	}

	if s.jobs != nil {
		s.mux.HandleFunc("POST /api/v1/jobs", s.jobs.Create)
		s.mux.HandleFunc("GET /api/v1/jobs", s.jobs.List)
		s.mux.HandleFunc("GET /api/v1/jobs/summary", s.jobs.Summary)
		s.mux.HandleFunc("GET /api/v1/jobs/{applicationID}", s.jobs.Get)
		s.mux.HandleFunc("DELETE /api/v1/jobs/{applicationID}", s.jobs.Delete)
		s.mux.HandleFunc("POST /api/v1/jobs/{applicationID}/advance", s.jobs.Advance)
		s.mux.HandleFunc("PUT /api/v1/jobs/{applicationID}/notes", s.jobs.UpdateNotes)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Handler exposes the routing mux, mainly for tests.
func (s *Server) Handler() http.Handler { return withRequestID(s.mux) }

// withRequestID tags every request context with a request ID, honoring one
// supplied by a proxy, so handler logs can be correlated.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.WithRequestID(r.Context(), r.Header.Get("X-Request-ID"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}

// requestUserID resolves the account a request acts on. An X-User-ID header
// overrides the configured default, mainly for tests and tooling.
func requestUserID(r *http.Request, fallback uuid.UUID) uuid.UUID {
	if header := r.Header.Get("X-User-ID"); header != "" {
		if id, err := uuid.Parse(header); err == nil {
			return id
		}
	}
	return fallback
}
