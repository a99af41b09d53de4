package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/calendar/application"
	"github.com/lifedash/lifedash/internal/identity/application/oauth"
)

// stateTTL bounds how long an issued OAuth state parameter stays valid.
const stateTTL = 10 * time.Minute

// SyncHandler serves the sync and provider auth endpoints.
type SyncHandler struct {
	syncer *application.SyncService
	auth   *oauth.Service
	userID uuid.UUID
	logger *slog.Logger

	mu     sync.Mutex
	states map[string]pendingState
}

type pendingState struct {
	userID   uuid.UUID
	issuedAt time.Time
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(syncer *application.SyncService, auth *oauth.Service, userID uuid.UUID, logger *slog.Logger) *SyncHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncHandler{
		syncer: syncer,
		auth:   auth,
		userID: userID,
		logger: logger,
		states: make(map[string]pendingState),
	}
}

// Pull handles POST /api/v1/sync/pull.
func (h *SyncHandler) Pull(w http.ResponseWriter, r *http.Request) {
	result, err := h.syncer.Pull(r.Context(), requestUserID(r, h.userID))
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Status handles GET /api/v1/sync/status. A user who never synced gets a
// disconnected status rather than an error.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	conn := h.syncer.Connection(requestUserID(r, h.userID))
	if conn == nil {
		writeJSON(w, http.StatusOK, map[string]any{"connected": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"connected":      true,
		"calendars":      conn.Calendars,
		"last_synced_at": conn.LastSyncedAt,
	})
}

type selectCalendarRequest struct {
	Selected bool `json:"selected"`
}

// SelectCalendar handles PUT /api/v1/sync/calendars/{calendarID}.
func (h *SyncHandler) SelectCalendar(w http.ResponseWriter, r *http.Request) {
	var req selectCalendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.syncer.SelectCalendar(requestUserID(r, h.userID), r.PathValue("calendarID"), req.Selected); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Connect handles GET /api/v1/auth/google/connect. It issues a fresh state
// parameter and returns the provider authorization URL for the caller to
// open in a browser.
func (h *SyncHandler) Connect(w http.ResponseWriter, r *http.Request) {
	state, err := h.issueState(requestUserID(r, h.userID))
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"auth_url": h.auth.AuthURL(state),
		"state":    state,
	})
}

// Callback handles GET /api/v1/auth/google/callback. The provider redirects
// here with the grant code and the state issued by Connect.
func (h *SyncHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		writeError(w, http.StatusBadRequest, "code and state are required")
		return
	}

	userID, ok := h.consumeState(state)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown or expired state")
		return
	}

	if _, err := h.auth.ExchangeAndStore(r.Context(), userID, code); err != nil {
		h.logger.Error("oauth code exchange failed", "error", err)
		writeError(w, http.StatusBadGateway, "token exchange failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "connected"})
}

// Disconnect handles DELETE /api/v1/auth/google.
func (h *SyncHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.syncer.Disconnect(r.Context(), requestUserID(r, h.userID)); err != nil {
		respondError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SyncHandler) issueState(userID uuid.UUID) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	state := hex.EncodeToString(buf)

	h.mu.Lock()
	defer h.mu.Unlock()
	for key, pending := range h.states {
		if time.Since(pending.issuedAt) > stateTTL {
			delete(h.states, key)
		}
	}
	h.states[state] = pendingState{userID: userID, issuedAt: time.Now()}
	return state, nil
}

func (h *SyncHandler) consumeState(state string) (uuid.UUID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	pending, ok := h.states[state]
	delete(h.states, state)
	if !ok || time.Since(pending.issuedAt) > stateTTL {
		return uuid.Nil, false
	}
	return pending.userID, true
}
