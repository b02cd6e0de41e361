package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apimw "github.com/barberbook/barberbook/internal/api/middleware"
	"github.com/barberbook/barberbook/internal/domain"
	"github.com/barberbook/barberbook/internal/service"
)

// AppointmentHandler serves bookings and the dashboard figures.
type AppointmentHandler struct {
	svc    *service.AppointmentService
	logger *zap.Logger
}

func NewAppointmentHandler(svc *service.AppointmentService, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, logger: logger}
}

// List handles GET /api/appointments
//
// @Summary  List appointments ordered by date and time
// @Tags     appointments
// @Produce  json
// @Param    from    query     string  false  "First date, yyyy-mm-dd"
// @Param    to      query     string  false  "Last date, yyyy-mm-dd"
// @Param    status  query     string  false  "scheduled, pending, completed, or cancelled"
// @Success  200     {object}  map[string]any
// @Failure  400     {object}  errorBody
// @Router   /api/appointments [get]
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	appts, err := h.svc.List(r.Context(), parseAppointmentFilter(r))
	if err != nil {
		h.warn(r, "list appointments failed", err)
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "appointments": appts})
}

// Get handles GET /api/appointments/{id}
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "appointment": a})
}

// Create handles POST /api/appointments
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.AppointmentInput
	if err := decodeJSON(r, &in); err != nil {
		mapError(w, err)
		return
	}
	a, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.warn(r, "create appointment failed", err)
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"success": true, "appointment": a})
}

// Update handles PUT /api/appointments/{id}
func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in domain.AppointmentInput
	if err := decodeJSON(r, &in); err != nil {
		mapError(w, err)
		return
	}
	a, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.warn(r, "update appointment failed", err)
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "appointment": a})
}

// Delete handles DELETE /api/appointments/{id}
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.warn(r, "delete appointment failed", err)
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Appointment deleted"})
}

// Stats handles GET /api/stats
func (h *AppointmentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		h.logger.Error("stats query failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "stats": st})
}

// Earnings handles GET /api/earnings?days=N. N defaults to 30.
func (h *AppointmentHandler) Earnings(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	earnings, err := h.svc.Earnings(r.Context(), days)
	if err != nil {
		h.logger.Error("earnings query failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "failed to load earnings")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "earnings": earnings})
}

func (h *AppointmentHandler) warn(r *http.Request, msg string, err error) {
	h.logger.Warn(msg,
		zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
		zap.Error(err),
	)
}

func parseAppointmentFilter(r *http.Request) domain.AppointmentFilter {
	q := r.URL.Query()
	var f domain.AppointmentFilter
	if v := q.Get("from"); v != "" {
		f.From = &v
	}
	if v := q.Get("to"); v != "" {
		f.To = &v
	}
	if v := q.Get("date"); v != "" {
		f.From, f.To = &v, &v
	}
	if v := q.Get("status"); v != "" {
		st := domain.AppointmentStatus(v)
		f.Status = &st
	}
	return f
}
