package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/jobs/application"
	"github.com/lifedash/lifedash/internal/jobs/domain"
)

// JobHandler serves the job application endpoints.
type JobHandler struct {
	service *application.JobService
	userID  uuid.UUID
	logger  *slog.Logger
}

// NewJobHandler creates a new job handler.
func NewJobHandler(service *application.JobService, userID uuid.UUID, logger *slog.Logger) *JobHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobHandler{service: service, userID: userID, logger: logger}
}

type createApplicationRequest struct {
	Company string `json:"company"`
	Role    string `json:"role"`
	Notes   string `json:"notes"`
}

// Create handles POST /api/v1/jobs.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	app, err := h.service.CreateApplication(r.Context(), application.CreateApplicationCommand{
		UserID:  requestUserID(r, h.userID),
		Company: req.Company,
		Role:    req.Role,
		Notes:   req.Notes,
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toApplicationResponse(app))
}

// List handles GET /api/v1/jobs?status=. An empty status lists everything.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.Status(r.URL.Query().Get("status"))
	apps, err := h.service.ListApplications(r.Context(), requestUserID(r, h.userID), status)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponses(apps))
}

// Summary handles GET /api/v1/jobs/summary.
func (h *JobHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.PipelineSummary(r.Context(), requestUserID(r, h.userID))
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Get handles GET /api/v1/jobs/{applicationID}.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	appID, err := uuid.Parse(r.PathValue("applicationID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid application id")
		return
	}
	app, err := h.service.GetApplication(r.Context(), requestUserID(r, h.userID), appID)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

type advanceRequest struct {
	Status string `json:"status"`
}

// Advance handles POST /api/v1/jobs/{applicationID}/advance.
func (h *JobHandler) Advance(w http.ResponseWriter, r *http.Request) {
	appID, err := uuid.Parse(r.PathValue("applicationID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid application id")
		return
	}
	var req advanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	app, err := h.service.AdvanceApplication(r.Context(), requestUserID(r, h.userID), appID, domain.Status(req.Status))
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

// UpdateNotes handles PUT /api/v1/jobs/{applicationID}/notes.
func (h *JobHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	appID, err := uuid.Parse(r.PathValue("applicationID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid application id")
		return
	}
	var req updateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	app, err := h.service.UpdateNotes(r.Context(), requestUserID(r, h.userID), appID, req.Notes)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

// Delete handles DELETE /api/v1/jobs/{applicationID}.
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	appID, err := uuid.Parse(r.PathValue("applicationID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid application id")
		return
	}
	if err := h.service.DeleteApplication(r.Context(), requestUserID(r, h.userID), appID); err != nil {
		respondError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
