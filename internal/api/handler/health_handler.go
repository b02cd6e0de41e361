package handler

import (
	"net/http"
	"time"

	"github.com/barberbook/barberbook/internal/service"
)

// HealthHandler serves the probe and informational endpoints.
type HealthHandler struct {
	svc     *service.NotificationService
	started time.Time
	now     func() time.Time
}

func NewHealthHandler(svc *service.NotificationService, started time.Time) *HealthHandler {
	return &HealthHandler{svc: svc, started: started, now: time.Now}
}

// Index handles GET /
func (h *HealthHandler) Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "BarberBook SMS API",
		"status":  "running",
		"endpoints": map[string]string{
			"health":             "GET /api/health",
			"keepalive":          "GET /api/keepalive",
			"carriers":           "GET /api/carriers",
			"login":              "POST /api/auth/login",
			"sendAppointmentSMS": "POST /api/send-appointment-sms",
			"sendDailyReminder":  "POST /api/send-daily-reminder",
			"testSMS":            "POST /api/test-sms",
			"notifications":      "GET /api/notifications",
			"metrics":            "GET /metrics",
		},
	})
}

// Health handles GET /health
//
// @Summary  Liveness probe
// @Tags     system
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Status handles GET /api/health
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	entries := h.svc.Carriers()
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"timestamp":         h.now().UTC(),
		"emailConfigured":   h.svc.EmailConfigured(),
		"supportedCarriers": keys,
	})
}

// Keepalive handles GET /api/keepalive. Hosting platforms that idle free
// instances are pinged here by barberctl keepalive.
func (h *HealthHandler) Keepalive(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "alive",
		"timestamp": now.UTC(),
		"uptime":    now.Sub(h.started).Seconds(),
	})
}
