package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/barberbook/barberbook/internal/domain"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	PartsSent     *prometheus.CounterVec
	PartsFailed   *prometheus.CounterVec
	PartLatency   *prometheus.HistogramVec
	PacingSeconds prometheus.Counter
	DigestRuns    *prometheus.CounterVec
	JobsProcessed *prometheus.CounterVec
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PartsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sms_parts_sent_total",
			Help: "Total number of message parts accepted by the mail transport.",
		}, []string{"kind"}),

		PartsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sms_parts_failed_total",
			Help: "Total number of message parts the mail transport rejected.",
		}, []string{"kind"}),

		PartLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sms_part_send_seconds",
			Help:    "Latency of a single transport send, excluding pacing.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),

		PacingSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sms_pacing_seconds_total",
			Help: "Total time spent waiting between message parts.",
		}),

		DigestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "digest_runs_total",
			Help: "Daily digest attempts by trigger and result (sent, failed, skipped).",
		}, []string{"trigger", "result"}),

		JobsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobs_processed_total",
			Help: "Background notification jobs handled by the worker pool, by kind and result.",
		}, []string{"kind", "result"}),
	}

	reg.MustRegister(
		m.PartsSent,
		m.PartsFailed,
		m.PartLatency,
		m.PacingSeconds,
		m.DigestRuns,
		m.JobsProcessed,
	)

	return m
}

// DeliveryHooks returns the callbacks expected by delivery.Hooks.
// Centralises the prometheus observation calls so the sender stays import-free.
func (m *Metrics) DeliveryHooks() (
	onSent func(domain.NotificationKind, time.Duration),
	onFailed func(domain.NotificationKind),
	onPause func(time.Duration),
) {
	onSent = func(kind domain.NotificationKind, latency time.Duration) {
		m.PartsSent.WithLabelValues(string(kind)).Inc()
		m.PartLatency.WithLabelValues(string(kind)).Observe(latency.Seconds())
	}
	onFailed = func(kind domain.NotificationKind) {
		m.PartsFailed.WithLabelValues(string(kind)).Inc()
	}
	onPause = func(d time.Duration) {
		m.PacingSeconds.Add(d.Seconds())
	}
	return
}

// ObserveDigest counts one digest run.
func (m *Metrics) ObserveDigest(trigger domain.Trigger, result string) {
	m.DigestRuns.WithLabelValues(string(trigger), result).Inc()
}

// ObserveJob counts one job finished by a worker.
func (m *Metrics) ObserveJob(kind domain.NotificationKind, result string) {
	m.JobsProcessed.WithLabelValues(string(kind), result).Inc()
}

// WatchQueue registers job_queue_depth gauges that read the live lane
// depths on every scrape.
func WatchQueue(reg prometheus.Registerer, depths func() (high, normal int)) {
	opts := func(priority string) prometheus.GaugeOpts {
		return prometheus.GaugeOpts{
			Name:        "job_queue_depth",
			Help:        "Current number of notification jobs waiting per priority.",
			ConstLabels: prometheus.Labels{"priority": priority},
		}
	}
	reg.MustRegister(
		prometheus.NewGaugeFunc(opts("high"), func() float64 {
			high, _ := depths()
			return float64(high)
		}),
		prometheus.NewGaugeFunc(opts("normal"), func() float64 {
			_, normal := depths()
			return float64(normal)
		}),
	)
}
