package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/habits/application"
	"github.com/lifedash/lifedash/internal/habits/domain"
)

// HabitHandler serves the habit endpoints.
type HabitHandler struct {
	service *application.HabitService
	userID  uuid.UUID
	logger  *slog.Logger
}

// NewHabitHandler creates a new habit handler.
func NewHabitHandler(service *application.HabitService, userID uuid.UUID, logger *slog.Logger) *HabitHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HabitHandler{service: service, userID: userID, logger: logger}
}

type createHabitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
}

// Create handles POST /api/v1/habits.
func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	habit, err := h.service.CreateHabit(r.Context(), application.CreateHabitCommand{
		UserID:      requestUserID(r, h.userID),
		Name:        req.Name,
		Description: req.Description,
		Frequency:   domain.Frequency(req.Frequency),
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHabitResponse(habit, time.Now()))
}

// List handles GET /api/v1/habits?active=.
func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := parseBoolParam(r, "active", false)
	habits, err := h.service.ListHabits(r.Context(), requestUserID(r, h.userID), activeOnly)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHabitResponses(habits, time.Now()))
}

// DueToday handles GET /api/v1/habits/due.
func (h *HabitHandler) DueToday(w http.ResponseWriter, r *http.Request) {
	habits, err := h.service.DueToday(r.Context(), requestUserID(r, h.userID))
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHabitResponses(habits, time.Now()))
}

// Get handles GET /api/v1/habits/{habitID}.
func (h *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	habitID, err := uuid.Parse(r.PathValue("habitID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid habit id")
		return
	}
	habit, err := h.service.GetHabit(r.Context(), requestUserID(r, h.userID), habitID)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHabitResponse(habit, time.Now()))
}

type updateHabitRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Frequency   *string `json:"frequency"`
}

// Update handles PATCH /api/v1/habits/{habitID}.
func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	habitID, err := uuid.Parse(r.PathValue("habitID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid habit id")
		return
	}
	var req updateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := application.UpdateHabitCommand{
		UserID:      requestUserID(r, h.userID),
		HabitID:     habitID,
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Frequency != nil {
		frequency := domain.Frequency(*req.Frequency)
		cmd.Frequency = &frequency
	}

	habit, err := h.service.UpdateHabit(r.Context(), cmd)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHabitResponse(habit, time.Now()))
}

// Delete handles DELETE /api/v1/habits/{habitID}.
func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	habitID, err := uuid.Parse(r.PathValue("habitID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid habit id")
		return
	}
	if err := h.service.DeleteHabit(r.Context(), requestUserID(r, h.userID), habitID); err != nil {
		respondError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type logCompletionRequest struct {
	Day string `json:"day"`
}

// Log handles POST /api/v1/habits/{habitID}/log. An empty body or day logs
// today.
func (h *HabitHandler) Log(w http.ResponseWriter, r *http.Request) {
	habitID, err := uuid.Parse(r.PathValue("habitID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid habit id")
		return
	}

	var req logCompletionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	var day time.Time
	if req.Day != "" {
		day, err = time.Parse(time.DateOnly, req.Day)
		if err != nil {
			writeError(w, http.StatusBadRequest, "day must be YYYY-MM-DD")
			return
		}
	}

	habit, err := h.service.LogCompletion(r.Context(), requestUserID(r, h.userID), habitID, day)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHabitResponse(habit, time.Now()))
}

// Archive handles POST /api/v1/habits/{habitID}/archive.
func (h *HabitHandler) Archive(w http.ResponseWriter, r *http.Request) {
	habitID, err := uuid.Parse(r.PathValue("habitID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid habit id")
		return
	}
	if err := h.service.ArchiveHabit(r.Context(), requestUserID(r, h.userID), habitID); err != nil {
		respondError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unarchive handles POST /api/v1/habits/{habitID}/unarchive.
func (h *HabitHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	habitID, err := uuid.Parse(r.PathValue("habitID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid habit id")
		return
	}
	if err := h.service.UnarchiveHabit(r.Context(), requestUserID(r, h.userID), habitID); err != nil {
		respondError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseBoolParam reads a boolean query parameter, falling back to the
// default on absence or garbage.
func parseBoolParam(r *http.Request, name string, fallback bool) bool {
	raw := r.URL.Query().Get(name)
	switch raw {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		return fallback
	}
}
