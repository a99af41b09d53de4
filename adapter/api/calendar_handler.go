package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/calendar/application"
	"github.com/lifedash/lifedash/internal/calendar/domain"
)

// CalendarHandler serves the event, view, and category endpoints.
type CalendarHandler struct {
	service *application.CalendarService
	userID  uuid.UUID
	logger  *slog.Logger
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(service *application.CalendarService, userID uuid.UUID, logger *slog.Logger) *CalendarHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarHandler{service: service, userID: userID, logger: logger}
}

type createEventRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Location    string             `json:"location"`
	StartAt     time.Time          `json:"start_at"`
	EndAt       time.Time          `json:"end_at"`
	AllDay      bool               `json:"all_day"`
	CategoryID  string             `json:"category_id"`
	Reminders   []int              `json:"reminders"`
	Recurrence  *domain.Recurrence `json:"recurrence"`
}

// CreateEvent handles POST /api/v1/events.
func (h *CalendarHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.service.CreateEvent(r.Context(), application.CreateEventCommand{
		UserID:      requestUserID(r, h.userID),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		AllDay:      req.AllDay,
		CategoryID:  req.CategoryID,
		Reminders:   req.Reminders,
		Recurrence:  req.Recurrence,
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

// GetEvent handles GET /api/v1/events/{eventID}.
func (h *CalendarHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.GetEvent(r.Context(), requestUserID(r, h.userID), r.PathValue("eventID"))
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

type updateEventRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Location    *string            `json:"location"`
	CategoryID  *string            `json:"category_id"`
	StartAt     *time.Time         `json:"start_at"`
	EndAt       *time.Time         `json:"end_at"`
	AllDay      *bool              `json:"all_day"`
	Recurrence  *domain.Recurrence `json:"recurrence"`
}

// UpdateEvent handles PATCH /api/v1/events/{eventID}. Absent fields stay
// untouched.
func (h *CalendarHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.service.UpdateEvent(r.Context(), application.UpdateEventCommand{
		UserID:      requestUserID(r, h.userID),
		EventID:     r.PathValue("eventID"),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		CategoryID:  req.CategoryID,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		AllDay:      req.AllDay,
		Recurrence:  req.Recurrence,
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

// DeleteEvent handles DELETE /api/v1/events/{eventID}.
func (h *CalendarHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteEvent(r.Context(), requestUserID(r, h.userID), r.PathValue("eventID")); err != nil {
		respondError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addReminderRequest struct {
	Minutes int `json:"minutes"`
}

// AddReminder handles POST /api/v1/events/{eventID}/reminders.
func (h *CalendarHandler) AddReminder(w http.ResponseWriter, r *http.Request) {
	var req addReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	event, err := h.service.AddReminder(r.Context(), requestUserID(r, h.userID), r.PathValue("eventID"), req.Minutes)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

// RemoveReminder handles DELETE /api/v1/events/{eventID}/reminders/{minutes}.
func (h *CalendarHandler) RemoveReminder(w http.ResponseWriter, r *http.Request) {
	minutes, err := strconv.Atoi(r.PathValue("minutes"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reminder minutes")
		return
	}
	event, err := h.service.RemoveReminder(r.Context(), requestUserID(r, h.userID), r.PathValue("eventID"), minutes)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

// MonthView handles GET /api/v1/views/month?year=&month=&category=.
// Year and month default to the current month.
func (h *CalendarHandler) MonthView(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := parseIntParam(r, "year", now.Year())
	month := time.Month(parseIntParam(r, "month", int(now.Month())))
	if month < time.January || month > time.December {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	cells, err := h.service.MonthView(r.Context(), requestUserID(r, h.userID), year, month, filterFromQuery(r))
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"year":  year,
		"month": int(month),
		"cells": toMonthCellResponses(cells),
	})
}

// WeekView handles GET /api/v1/views/week?date=&category=. The date selects
// the week containing it and defaults to today.
func (h *CalendarHandler) WeekView(w http.ResponseWriter, r *http.Request) {
	day, err := parseDateParam(r, "date", time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	columns, err := h.service.WeekView(r.Context(), requestUserID(r, h.userID), day, filterFromQuery(r))
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	out := make([]dayColumnResponse, 0, len(columns))
	for _, col := range columns {
		out = append(out, toDayColumnResponse(col))
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": out})
}

// DayView handles GET /api/v1/views/day?date=&category=.
func (h *CalendarHandler) DayView(w http.ResponseWriter, r *http.Request) {
	day, err := parseDateParam(r, "date", time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	column, err := h.service.DayView(r.Context(), requestUserID(r, h.userID), day, filterFromQuery(r))
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDayColumnResponse(column))
}

// AgendaView handles GET /api/v1/views/agenda?from=&to=&category=. The range
// defaults to the next 14 days.
func (h *CalendarHandler) AgendaView(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from, err := parseDateParam(r, "from", now)
	if err != nil {
		writeError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
		return
	}
	to, err := parseDateParam(r, "to", from.AddDate(0, 0, 14))
	if err != nil {
		writeError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to must not be before from")
		return
	}

	groups, err := h.service.AgendaView(r.Context(), requestUserID(r, h.userID), from, to, filterFromQuery(r))
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": toAgendaGroupResponses(groups)})
}

// ListCategories handles GET /api/v1/categories.
func (h *CalendarHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context(), requestUserID(r, h.userID))
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// ToggleCategory handles POST /api/v1/categories/{categoryID}/toggle.
func (h *CalendarHandler) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.service.ToggleCategory(r.Context(), requestUserID(r, h.userID), r.PathValue("categoryID"))
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func filterFromQuery(r *http.Request) domain.Filter {
	return domain.Filter{CategoryID: r.URL.Query().Get("category")}
}

// parseIntParam reads an integer query parameter, falling back to the
// default on absence or garbage.
func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// parseDateParam reads a YYYY-MM-DD query parameter. An absent parameter
// yields the fallback; a malformed one is an error.
func parseDateParam(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return time.Parse(time.DateOnly, raw)
}
