package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/barberbook/barberbook/internal/api"
	"github.com/barberbook/barberbook/internal/auth"
	"github.com/barberbook/barberbook/internal/carrier"
	"github.com/barberbook/barberbook/internal/delivery"
	"github.com/barberbook/barberbook/internal/message"
	"github.com/barberbook/barberbook/internal/provider"
	"github.com/barberbook/barberbook/internal/queue"
	"github.com/barberbook/barberbook/internal/repository"
	"github.com/barberbook/barberbook/internal/service"
)

type fixture struct {
	handler    http.Handler
	prov       *provider.MockProvider
	deliveries *repository.MockDeliveryRepository
	token      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	f := &fixture{
		prov:       provider.NewMockProvider(),
		deliveries: repository.NewMockDeliveryRepository(),
	}

	clients := repository.NewMockClientRepository()
	appts := repository.NewMockAppointmentRepository(clients)
	users := repository.NewMockUserRepository()

	sender := delivery.NewPacedSender(f.prov, nil, delivery.Config{
		From:     "shop@example.com",
		Schedule: delivery.DefaultSchedule(),
		Sleep:    func(context.Context, time.Duration) error { return nil },
	}, logger, delivery.Hooks{})

	authSvc := service.NewAuthService(users, auth.NewTokenService("secret", "barberbook", time.Hour), logger)
	if err := authSvc.EnsureOwner(context.Background(), "owner", "clippers"); err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	res, err := authSvc.Login(context.Background(), "owner", "clippers")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	f.token = res.Token

	svcs := api.Services{
		Auth:         authSvc,
		Clients:      service.NewClientService(clients),
		Appointments: service.NewAppointmentService(appts, queue.New(10, 10), false, time.UTC, logger),
		Notifications: service.NewNotificationService(
			carrier.NewDirectory(nil),
			message.NewChunker(95),
			sender,
			appts,
			f.deliveries,
			service.NotificationConfig{
				BarberPhone:     "832-708-0194",
				BarberCarrier:   "verizon",
				EmailConfigured: true,
			},
			nil,
			logger,
		),
	}
	f.handler = api.NewRouter(svcs, prometheus.NewRegistry(), api.Options{}, logger)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, authed bool) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: decode body %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, out
}

func TestPublicEndpoints(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		path string
		key  string
		want any
	}{
		{"/health", "status", "ok"},
		{"/api/health", "status", "healthy"},
		{"/api/health", "emailConfigured", true},
		{"/api/keepalive", "status", "alive"},
		{"/", "status", "running"},
		{"/api/carriers", "success", true},
	}
	for _, tc := range tests {
		t.Run(tc.path+"/"+tc.key, func(t *testing.T) {
			code, body := f.do(t, http.MethodGet, tc.path, "", false)
			if code != http.StatusOK {
				t.Fatalf("expected 200, got %d", code)
			}
			if body[tc.key] != tc.want {
				t.Fatalf("expected %s=%v, got %v", tc.key, tc.want, body[tc.key])
			}
		})
	}
}

func TestCarriersListing(t *testing.T) {
	f := newFixture(t)

	_, body := f.do(t, http.MethodGet, "/api/carriers", "", false)
	carriers, ok := body["carriers"].([]any)
	if !ok || len(carriers) != 10 {
		t.Fatalf("expected 10 carriers, got %v", body["carriers"])
	}
	first := carriers[0].(map[string]any)
	if first["value"] != "att" || first["name"] != "ATT" || first["domain"] != "@txt.att.net" {
		t.Fatalf("unexpected first carrier %v", first)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture(t)

	code, body := f.do(t, http.MethodGet, "/api/clients", "", false)
	if code != http.StatusUnauthorized || body["error"] != "Access token required" {
		t.Fatalf("expected 401, got %d %v", code, body)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	code, body := f.do(t, http.MethodPost, "/api/auth/login", `{"username":"owner","password":"clippers"}`, false)
	if code != http.StatusOK || body["token"] == "" || body["success"] != true {
		t.Fatalf("expected a token, got %d %v", code, body)
	}

	code, body = f.do(t, http.MethodPost, "/api/auth/login", `{"username":"owner","password":"nope"}`, false)
	if code != http.StatusUnauthorized || body["success"] != false {
		t.Fatalf("expected 401, got %d %v", code, body)
	}

	code, _ = f.do(t, http.MethodPost, "/api/auth/login", `{`, false)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", code)
	}

	code, body = f.do(t, http.MethodGet, "/api/auth/me", "", true)
	user, _ := body["user"].(map[string]any)
	if code != http.StatusOK || user["username"] != "owner" {
		t.Fatalf("unexpected /me response %d %v", code, body)
	}
}

func TestClientAndAppointmentFlow(t *testing.T) {
	f := newFixture(t)

	code, body := f.do(t, http.MethodPost, "/api/clients", `{"name":"Jane","phone":"832-555-0100"}`, true)
	if code != http.StatusCreated {
		t.Fatalf("create client: %d %v", code, body)
	}
	clientID := body["client"].(map[string]any)["id"].(string)

	appt := `{"clientId":"` + clientID + `","title":"Fade","date":"2025-01-17","time":"09:00","duration":45,"price":35}`
	code, body = f.do(t, http.MethodPost, "/api/appointments", appt, true)
	if code != http.StatusCreated {
		t.Fatalf("create appointment: %d %v", code, body)
	}
	created := body["appointment"].(map[string]any)
	if created["clientName"] != "Jane" || created["status"] != "scheduled" {
		t.Fatalf("unexpected appointment %v", created)
	}

	code, body = f.do(t, http.MethodGet, "/api/appointments?date=2025-01-17", "", true)
	if list := body["appointments"].([]any); code != http.StatusOK || len(list) != 1 {
		t.Fatalf("expected one appointment on the day, got %d %v", code, body)
	}

	code, _ = f.do(t, http.MethodGet, "/api/appointments?from=17-01-2025", "", true)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed date filter, got %d", code)
	}

	code, body = f.do(t, http.MethodGet, "/api/stats", "", true)
	stats := body["stats"].(map[string]any)
	if code != http.StatusOK || stats["total"] != float64(1) {
		t.Fatalf("unexpected stats %d %v", code, body)
	}

	code, _ = f.do(t, http.MethodDelete, "/api/appointments/"+created["id"].(string), "", true)
	if code != http.StatusOK {
		t.Fatalf("delete appointment: %d", code)
	}
	code, _ = f.do(t, http.MethodDelete, "/api/appointments/"+created["id"].(string), "", true)
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", code)
	}
}

func TestSendAppointmentSMS(t *testing.T) {
	f := newFixture(t)

	code, body := f.do(t, http.MethodPost, "/api/send-appointment-sms",
		`{"clientName":"Jane","date":"2025-01-17","time":"14:30","duration":30}`, true)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, body)
	}
	if body["messageId"] == "" || body["parts"] != float64(1) {
		t.Fatalf("unexpected body %v", body)
	}

	sent := f.prov.Sent()
	if len(sent) != 1 || sent[0].To != "8327080194@vtext.com" || sent[0].Subject != "New Appointment" {
		t.Fatalf("unexpected sends %+v", sent)
	}
	if !strings.Contains(sent[0].Text, "Time: 2:30 PM") {
		t.Fatalf("expected a 12-hour time in %q", sent[0].Text)
	}
}

func TestSendAppointmentSMS_Validation(t *testing.T) {
	f := newFixture(t)

	code, body := f.do(t, http.MethodPost, "/api/send-appointment-sms", `{"date":"2025-01-17","time":"14:30"}`, true)
	if code != http.StatusBadRequest || body["success"] != false {
		t.Fatalf("expected 400, got %d %v", code, body)
	}
	if len(f.prov.Sent()) != 0 {
		t.Fatal("expected nothing sent for an invalid request")
	}
}

func TestSendAppointmentSMS_TransportFailure(t *testing.T) {
	f := newFixture(t)
	f.prov.FailOn[1] = errors.New("smtp down")

	code, body := f.do(t, http.MethodPost, "/api/send-appointment-sms",
		`{"clientName":"Jane","date":"2025-01-17","time":"14:30","duration":30}`, true)
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body["error"] != "Failed to send Email-to-SMS" || !strings.Contains(body["details"].(string), "smtp down") {
		t.Fatalf("unexpected envelope %v", body)
	}
}

func TestSendDailyReminder(t *testing.T) {
	f := newFixture(t)

	payload := `{"appointmentCount":5,"appointments":[
		{"clientName":"A","time":"09:00"},{"clientName":"B","time":"10:00"},
		{"clientName":"C","time":"11:00"},{"clientName":"D","time":"13:00"},
		{"clientName":"E","time":"15:00"}]}`
	code, body := f.do(t, http.MethodPost, "/api/send-daily-reminder", payload, true)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, body)
	}
	if body["message"] != "Daily reminder sent successfully! Found 5 appointment(s) for today." {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if body["parts"] != float64(3) || len(f.prov.Sent()) != 3 {
		t.Fatalf("expected 3 parts, got %v", body["parts"])
	}
	if runs := f.deliveries.Runs(); len(runs) != 1 || runs[0].Trigger != "on_demand" {
		t.Fatalf("expected an on-demand digest run, got %+v", runs)
	}
}

func TestSendDailyReminder_FromDatabase(t *testing.T) {
	f := newFixture(t)

	code, body := f.do(t, http.MethodPost, "/api/send-daily-reminder", "", true)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, body)
	}
	if body["message"] != "Daily reminder sent successfully! You have no appointments today." {
		t.Fatalf("unexpected message %v", body["message"])
	}
	sent := f.prov.Sent()
	if len(sent) != 1 || sent[0].Text != message.NoAppointments {
		t.Fatalf("unexpected sends %+v", sent)
	}
}

func TestTestSMS(t *testing.T) {
	f := newFixture(t)

	code, body := f.do(t, http.MethodPost, "/api/test-sms", `{"phoneNumber":"555-123-4567","carrier":"TMobile"}`, true)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, body)
	}
	details := body["details"].(map[string]any)
	if details["email"] != "5551234567@tmomail.net" || details["message"] != service.DefaultTestMessage {
		t.Fatalf("unexpected details %v", details)
	}

	code, body = f.do(t, http.MethodPost, "/api/test-sms", `{"carrier":"pigeon"}`, true)
	if code != http.StatusBadRequest || body["error"] != "unsupported carrier: pigeon" {
		t.Fatalf("expected 400 unsupported carrier, got %d %v", code, body)
	}
}

func TestListDeliveries(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/test-sms", "", true)

	code, body := f.do(t, http.MethodGet, "/api/notifications?limit=10", "", true)
	list, _ := body["notifications"].([]any)
	if code != http.StatusOK || len(list) != 1 {
		t.Fatalf("expected one delivery, got %d %v", code, body)
	}
	if list[0].(map[string]any)["kind"] != "test" {
		t.Fatalf("unexpected delivery %v", list[0])
	}
}

func TestCorrelationHeaderEchoed(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Correlation-ID", "trace-1")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Correlation-ID"); got != "trace-1" {
		t.Fatalf("expected the correlation id echoed, got %q", got)
	}
}
