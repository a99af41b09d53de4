package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/goals/application"
)

// GoalHandler serves the goal endpoints.
type GoalHandler struct {
	service *application.GoalService
	userID  uuid.UUID
	logger  *slog.Logger
}

// NewGoalHandler creates a new goal handler.
func NewGoalHandler(service *application.GoalService, userID uuid.UUID, logger *slog.Logger) *GoalHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoalHandler{service: service, userID: userID, logger: logger}
}

type createGoalRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Target      float64    `json:"target"`
	Unit        string     `json:"unit"`
	DueDate     *time.Time `json:"due_date"`
}

// Create handles POST /api/v1/goals.
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	goal, err := h.service.CreateGoal(r.Context(), application.CreateGoalCommand{
		UserID:      requestUserID(r, h.userID),
		Title:       req.Title,
		Description: req.Description,
		Target:      req.Target,
		Unit:        req.Unit,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalResponse(goal))
}

// List handles GET /api/v1/goals?open=.
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	openOnly := parseBoolParam(r, "open", false)
	goals, err := h.service.ListGoals(r.Context(), requestUserID(r, h.userID), openOnly)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponses(goals))
}

// Get handles GET /api/v1/goals/{goalID}.
func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	goalID, err := uuid.Parse(r.PathValue("goalID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	goal, err := h.service.GetGoal(r.Context(), requestUserID(r, h.userID), goalID)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponse(goal))
}

type updateGoalRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Target      *float64   `json:"target"`
	Unit        *string    `json:"unit"`
	DueDate     *time.Time `json:"due_date"`
	ClearDue    bool       `json:"clear_due"`
}

// Update handles PATCH /api/v1/goals/{goalID}.
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	goalID, err := uuid.Parse(r.PathValue("goalID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	var req updateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := h.service.UpdateGoal(r.Context(), application.UpdateGoalCommand{
		UserID:      requestUserID(r, h.userID),
		GoalID:      goalID,
		Title:       req.Title,
		Description: req.Description,
		Target:      req.Target,
		Unit:        req.Unit,
		DueDate:     req.DueDate,
		ClearDue:    req.ClearDue,
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponse(goal))
}

// Delete handles DELETE /api/v1/goals/{goalID}.
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	goalID, err := uuid.Parse(r.PathValue("goalID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	if err := h.service.DeleteGoal(r.Context(), requestUserID(r, h.userID), goalID); err != nil {
		respondError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addProgressRequest struct {
	Amount *float64 `json:"amount"`
	Value  *float64 `json:"value"`
}

// AddProgress handles POST /api/v1/goals/{goalID}/progress. "amount" adds to
// the current value, "value" sets it outright.
func (h *GoalHandler) AddProgress(w http.ResponseWriter, r *http.Request) {
	goalID, err := uuid.Parse(r.PathValue("goalID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	var req addProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if (req.Amount == nil) == (req.Value == nil) {
		writeError(w, http.StatusBadRequest, "exactly one of amount or value is required")
		return
	}

	userID := requestUserID(r, h.userID)
	if req.Amount != nil {
		updated, err := h.service.AddProgress(r.Context(), userID, goalID, *req.Amount)
		if err != nil {
			respondError(h.logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGoalResponse(updated))
		return
	}
	updated, err := h.service.SetProgress(r.Context(), userID, goalID, *req.Value)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponse(updated))
}
