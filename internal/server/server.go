// Package server exposes the dashboard view model over HTTP for a thin UI.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"agenda/internal/availability"
	"agenda/internal/dashboard"
)

// Dashboard is the part of the view model the handlers drive.
type Dashboard interface {
	Snapshot() dashboard.Snapshot
	SelectDate(ctx context.Context, d time.Time) error
	SelectMonth(ctx context.Context, m availability.YearMonth) error
}

type selectDateRequest struct {
	Date string `json:"date"`
}

type selectMonthRequest struct {
	Month string `json:"month"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves GET /snapshot, POST /select-date and POST /select-month.
type Handler struct {
	dash   Dashboard
	loc    *time.Location
	logger *zerolog.Logger
	mux    *http.ServeMux
}

// NewHandler builds the dashboard routes. Dates in request bodies are read
// in loc.
func NewHandler(dash Dashboard, loc *time.Location, logger *zerolog.Logger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	h := &Handler{dash: dash, loc: loc, logger: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /snapshot", h.snapshot)
	h.mux.HandleFunc("POST /select-date", h.selectDate)
	h.mux.HandleFunc("POST /select-month", h.selectMonth)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) snapshot(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.dash.Snapshot())
}

func (h *Handler) selectDate(w http.ResponseWriter, r *http.Request) {
	var req selectDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid body"})
		return
	}
	day, err := time.ParseInLocation("2006-01-02", req.Date, h.loc)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "date must be YYYY-MM-DD"})
		return
	}
	if err := h.dash.SelectDate(r.Context(), day); err != nil {
		h.writeSelectionError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.dash.Snapshot())
}

func (h *Handler) selectMonth(w http.ResponseWriter, r *http.Request) {
	var req selectMonthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid body"})
		return
	}
	first, err := time.ParseInLocation("2006-01", req.Month, h.loc)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "month must be YYYY-MM"})
		return
	}
	if err := h.dash.SelectMonth(r.Context(), availability.MonthOf(first)); err != nil {
		h.writeSelectionError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.dash.Snapshot())
}

func (h *Handler) writeSelectionError(w http.ResponseWriter, err error) {
	if errors.Is(err, dashboard.ErrDateUnavailable) || errors.Is(err, dashboard.ErrDateOutOfRange) {
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	h.logger.Error().Err(err).Msg("selection failed")
	h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn().Err(err).Msg("write response")
	}
}
