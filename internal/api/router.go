package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/barberbook/barberbook/internal/api/handler"
	apimw "github.com/barberbook/barberbook/internal/api/middleware"
	"github.com/barberbook/barberbook/internal/service"
)

// Services are the application services the HTTP surface calls into.
type Services struct {
	Auth          *service.AuthService
	Clients       *service.ClientService
	Appointments  *service.AppointmentService
	Notifications *service.NotificationService
}

// Options tune the router. Zero values are usable.
type Options struct {
	AllowedOrigins []string
	Started        time.Time
}

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(svc Services, reg prometheus.Gatherer, opts Options, logger *zap.Logger) http.Handler {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.Started.IsZero() {
		opts.Started = time.Now()
	}

	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestSize(1 << 20))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", apimw.CorrelationHeader},
		ExposedHeaders: []string{apimw.CorrelationHeader},
		MaxAge:         300,
	}))
	r.Use(apimw.CorrelationID)
	r.Use(apimw.RequestLogger(logger))

	// --- handler instances ---
	hh := handler.NewHealthHandler(svc.Notifications, opts.Started)
	ah := handler.NewAuthHandler(svc.Auth, logger)
	ch := handler.NewClientHandler(svc.Clients, logger)
	aph := handler.NewAppointmentHandler(svc.Appointments, logger)
	nh := handler.NewNotificationHandler(svc.Notifications, logger)

	// --- public routes ---
	r.Get("/", hh.Index)
	r.Get("/health", hh.Health)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", hh.Status)
		r.Get("/keepalive", hh.Keepalive)
		r.Get("/carriers", nh.Carriers)
		r.Post("/auth/login", ah.Login)

		// --- bearer-token routes ---
		r.Group(func(r chi.Router) {
			r.Use(apimw.RequireAuth(svc.Auth, logger))

			r.Get("/auth/me", ah.Me)

			r.Get("/clients", ch.List)
			r.Post("/clients", ch.Create)
			r.Put("/clients/{id}", ch.Update)
			r.Delete("/clients/{id}", ch.Delete)

			r.Get("/appointments", aph.List)
			r.Post("/appointments", aph.Create)
			r.Get("/appointments/{id}", aph.Get)
			r.Put("/appointments/{id}", aph.Update)
			r.Delete("/appointments/{id}", aph.Delete)

			r.Get("/stats", aph.Stats)
			r.Get("/earnings", aph.Earnings)

			r.Post("/send-appointment-sms", nh.SendAppointmentSMS)
			r.Post("/send-daily-reminder", nh.SendDailyReminder)
			r.Post("/test-sms", nh.TestSMS)
			r.Get("/notifications", nh.ListDeliveries)
		})
	})

	return r
}
