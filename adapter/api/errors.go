package api

import (
	"errors"
	"log/slog"
	"net/http"

	calendarapp "github.com/lifedash/lifedash/internal/calendar/application"
	calendardomain "github.com/lifedash/lifedash/internal/calendar/domain"
	calendarstore "github.com/lifedash/lifedash/internal/calendar/infrastructure/persistence"
	goaldomain "github.com/lifedash/lifedash/internal/goals/domain"
	goalstore "github.com/lifedash/lifedash/internal/goals/infrastructure/persistence"
	habitdomain "github.com/lifedash/lifedash/internal/habits/domain"
	habitstore "github.com/lifedash/lifedash/internal/habits/infrastructure/persistence"
	"github.com/lifedash/lifedash/internal/identity/application/oauth"
	jobdomain "github.com/lifedash/lifedash/internal/jobs/domain"
	jobstore "github.com/lifedash/lifedash/internal/jobs/infrastructure/persistence"
	notedomain "github.com/lifedash/lifedash/internal/notes/domain"
	notestore "github.com/lifedash/lifedash/internal/notes/infrastructure/persistence"
)

var notFoundErrors = []error{
	calendarstore.ErrEventNotFound,
	calendarapp.ErrCategoryNotFound,
	habitstore.ErrHabitNotFound,
	goalstore.ErrGoalNotFound,
	notestore.ErrNoteNotFound,
	jobstore.ErrApplicationNotFound,
}

var conflictErrors = []error{
	calendardomain.ErrRemoteReadOnly,
	calendarapp.ErrSyncInProgress,
	habitdomain.ErrHabitAlreadyLogged,
	habitdomain.ErrHabitArchived,
	goaldomain.ErrGoalCompleted,
}

var badRequestErrors = []error{
	calendardomain.ErrEmptyTitle,
	calendardomain.ErrInvalidTimeRange,
	calendardomain.ErrInvalidReminder,
	calendardomain.ErrInvalidRecurrenceType,
	calendardomain.ErrInvalidRecurrenceInterval,
	habitdomain.ErrEmptyHabitName,
	habitdomain.ErrInvalidFrequency,
	goaldomain.ErrEmptyGoalTitle,
	goaldomain.ErrInvalidTarget,
	goaldomain.ErrNegativeProgress,
	notedomain.ErrEmptyNoteTitle,
	jobdomain.ErrInvalidStatus,
}

// statusFor maps domain and storage errors onto HTTP status codes. Anything
// unrecognized is a server error.
func statusFor(err error) int {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	if errors.Is(err, oauth.ErrNotConnected) || errors.Is(err, oauth.ErrAuthExpired) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// respondError translates err into a status and writes it, logging only the
// server-side failures.
func respondError(logger *slog.Logger, w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError && logger != nil {
		logger.Error("request failed", "error", err)
	}
	writeError(w, status, err.Error())
}
