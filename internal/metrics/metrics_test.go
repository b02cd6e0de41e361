package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/barberbook/barberbook/internal/domain"
)

func TestDeliveryHooks(t *testing.T) {
	m := New(prometheus.NewRegistry())
	onSent, onFailed, onPause := m.DeliveryHooks()

	onSent(domain.KindDigest, 20*time.Millisecond)
	onSent(domain.KindDigest, 30*time.Millisecond)
	onFailed(domain.KindConfirmation)
	onPause(time.Minute)
	onPause(2 * time.Minute)

	if got := testutil.ToFloat64(m.PartsSent.WithLabelValues("digest")); got != 2 {
		t.Fatalf("expected 2 digest parts sent, got %v", got)
	}
	if got := testutil.ToFloat64(m.PartsFailed.WithLabelValues("confirmation")); got != 1 {
		t.Fatalf("expected 1 failed confirmation part, got %v", got)
	}
	if got := testutil.ToFloat64(m.PacingSeconds); got != 180 {
		t.Fatalf("expected 180s of pacing, got %v", got)
	}
}

func TestObserveDigestAndJob(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveDigest(domain.TriggerScheduled, "skipped")
	m.ObserveJob(domain.KindConfirmation, "sent")

	if got := testutil.ToFloat64(m.DigestRuns.WithLabelValues("scheduled", "skipped")); got != 1 {
		t.Fatalf("expected 1 skipped scheduled run, got %v", got)
	}
	if got := testutil.ToFloat64(m.JobsProcessed.WithLabelValues("confirmation", "sent")); got != 1 {
		t.Fatalf("expected 1 processed confirmation, got %v", got)
	}
}

func TestWatchQueue(t *testing.T) {
	reg := prometheus.NewRegistry()
	high, normal := 3, 1
	WatchQueue(reg, func() (int, int) { return high, normal })

	expected := `
# HELP job_queue_depth Current number of notification jobs waiting per priority.
# TYPE job_queue_depth gauge
job_queue_depth{priority="high"} 3
job_queue_depth{priority="normal"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "job_queue_depth"); err != nil {
		t.Fatal(err)
	}
}
