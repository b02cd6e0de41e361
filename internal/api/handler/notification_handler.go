package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	apimw "github.com/barberbook/barberbook/internal/api/middleware"
	"github.com/barberbook/barberbook/internal/domain"
	"github.com/barberbook/barberbook/internal/service"
)

// NotificationHandler exposes the SMS pipeline over HTTP. Sends run on a
// context detached from the request: a client that hangs up mid-way through
// a paced digest does not stop the remaining parts.
type NotificationHandler struct {
	svc    *service.NotificationService
	logger *zap.Logger
}

func NewNotificationHandler(svc *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, logger: logger}
}

// SendAppointmentSMS handles POST /api/send-appointment-sms
//
// @Summary  Text the barber about one appointment
// @Tags     notifications
// @Accept   json
// @Produce  json
// @Param    body  body      domain.ConfirmationRequest  true  "Appointment details"
// @Success  200   {object}  map[string]any
// @Failure  400   {object}  errorBody
// @Failure  500   {object}  errorBody
// @Router   /api/send-appointment-sms [post]
func (h *NotificationHandler) SendAppointmentSMS(w http.ResponseWriter, r *http.Request) {
	var req domain.ConfirmationRequest
	if err := decodeJSON(r, &req); err != nil {
		mapError(w, err)
		return
	}

	out := h.svc.SendAppointmentConfirmation(detached(r), req)
	if !out.Success {
		h.failed(r, domain.KindConfirmation, out)
		respondOutcome(w, out, "Failed to send Email-to-SMS")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Appointment confirmation Email-to-SMS sent successfully!",
		"messageId":  firstID(out),
		"messageIds": out.MessageIDs(),
		"parts":      len(out.Parts),
	})
}

// SendDailyReminder handles POST /api/send-daily-reminder
//
// With an empty body today's appointments are read from the database. A body
// of {"appointmentCount", "appointments"} sends that list instead.
//
// @Summary  Text the barber today's schedule
// @Tags     notifications
// @Produce  json
// @Success  200  {object}  map[string]any
// @Failure  500  {object}  errorBody
// @Router   /api/send-daily-reminder [post]
func (h *NotificationHandler) SendDailyReminder(w http.ResponseWriter, r *http.Request) {
	var req domain.DigestRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	switch {
	case errors.Is(err, io.EOF):
		h.sendTodayDigest(w, r)
		return
	case err != nil:
		mapError(w, &domain.ValidationError{Field: "body", Reason: "is not valid JSON"})
		return
	}
	if req.AppointmentCount == 0 {
		req.AppointmentCount = len(req.Appointments)
	}

	out := h.svc.SendDigest(detached(r), req, domain.TriggerOnDemand)
	h.respondDigest(w, r, req.AppointmentCount, out)
}

func (h *NotificationHandler) sendTodayDigest(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.SendTodayDigest(detached(r), domain.TriggerOnDemand)
	if err != nil {
		h.logger.Error("daily reminder: fetch failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		respondJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "Failed to fetch today's appointments",
			Details: err.Error(),
		})
		return
	}
	if res.Outcome == nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"success":           true,
			"message":           "Daily reminder skipped: " + res.Reason,
			"appointmentsCount": res.AppointmentCount,
		})
		return
	}
	h.respondDigest(w, r, res.AppointmentCount, res.Outcome)
}

func (h *NotificationHandler) respondDigest(w http.ResponseWriter, r *http.Request, count int, out *domain.SendOutcome) {
	if !out.Success {
		h.failed(r, domain.KindDigest, out)
		respondOutcome(w, out, "Failed to send daily reminder")
		return
	}

	msg := "Daily reminder sent successfully! You have no appointments today."
	if count > 0 {
		msg = fmt.Sprintf("Daily reminder sent successfully! Found %d appointment(s) for today.", count)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"message":           msg,
		"messageId":         firstID(out),
		"appointmentsCount": count,
		"parts":             len(out.Parts),
	})
}

type testSMSRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Carrier     string `json:"carrier"`
	Message     string `json:"message"`
}

// TestSMS handles POST /api/test-sms. Every field is optional and falls back
// to the configured barber and a default message.
func (h *NotificationHandler) TestSMS(w http.ResponseWriter, r *http.Request) {
	var req testSMSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		mapError(w, &domain.ValidationError{Field: "body", Reason: "is not valid JSON"})
		return
	}
	phone, carrierKey, text := h.svc.TestDefaults(req.PhoneNumber, req.Carrier, req.Message)

	out := h.svc.SendTest(detached(r), phone, carrierKey, text)
	if !out.Success {
		h.failed(r, domain.KindTest, out)
		respondOutcome(w, out, "Failed to send test SMS")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Test SMS sent successfully!",
		"messageId": firstID(out),
		"details": map[string]string{
			"phoneNumber": phone,
			"carrier":     carrierKey,
			"email":       out.To,
			"message":     text,
		},
	})
}

// ListDeliveries handles GET /api/notifications?limit=N
func (h *NotificationHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	deliveries, err := h.svc.RecentDeliveries(r.Context(), limit)
	if err != nil {
		h.logger.Error("list deliveries failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "notifications": deliveries})
}

type carrierView struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain"`
}

// Carriers handles GET /api/carriers
func (h *NotificationHandler) Carriers(w http.ResponseWriter, r *http.Request) {
	entries := h.svc.Carriers()
	views := make([]carrierView, len(entries))
	for i, e := range entries {
		views[i] = carrierView{Name: e.Name(), Value: e.Key, Domain: e.Domain}
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "carriers": views})
}

func (h *NotificationHandler) failed(r *http.Request, kind domain.NotificationKind, out *domain.SendOutcome) {
	h.logger.Warn("sms send failed",
		zap.String("kind", string(kind)),
		zap.String("to", out.To),
		zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
		zap.String("error", out.Error),
	)
}

func detached(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func firstID(out *domain.SendOutcome) string {
	if ids := out.MessageIDs(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}
