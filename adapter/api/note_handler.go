package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/notes/application"
)

// NoteHandler serves the note endpoints.
type NoteHandler struct {
	service *application.NoteService
	userID  uuid.UUID
	logger  *slog.Logger
}

// NewNoteHandler creates a new note handler.
func NewNoteHandler(service *application.NoteService, userID uuid.UUID, logger *slog.Logger) *NoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteHandler{service: service, userID: userID, logger: logger}
}

type createNoteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Create handles POST /api/v1/notes.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	note, err := h.service.CreateNote(r.Context(), requestUserID(r, h.userID), req.Title, req.Body)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNoteResponse(note))
}

// List handles GET /api/v1/notes?q=. The query filters by title and body.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.ListNotes(r.Context(), requestUserID(r, h.userID), r.URL.Query().Get("q"))
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponses(notes))
}

// Get handles GET /api/v1/notes/{noteID}.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	noteID, err := uuid.Parse(r.PathValue("noteID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid note id")
		return
	}
	note, err := h.service.GetNote(r.Context(), requestUserID(r, h.userID), noteID)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

type updateNoteRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// Update handles PATCH /api/v1/notes/{noteID}.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	noteID, err := uuid.Parse(r.PathValue("noteID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid note id")
		return
	}
	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := h.service.UpdateNote(r.Context(), application.UpdateNoteCommand{
		UserID: requestUserID(r, h.userID),
		NoteID: noteID,
		Title:  req.Title,
		Body:   req.Body,
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

// Delete handles DELETE /api/v1/notes/{noteID}.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	noteID, err := uuid.Parse(r.PathValue("noteID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid note id")
		return
	}
	if err := h.service.DeleteNote(r.Context(), requestUserID(r, h.userID), noteID); err != nil {
		respondError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
