package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/barberbook/barberbook/internal/ratelimiter"
)

func TestGatewayOf(t *testing.T) {
	tests := map[string]string{
		"8327080194@vtext.com":   "vtext.com",
		"8327080194@TMOMAIL.net": "tmomail.net",
		"no-at-sign":             "no-at-sign",
		"a@b@msg.fi.google.com":  "msg.fi.google.com",
	}
	for in, want := range tests {
		if got := ratelimiter.GatewayOf(in); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}

func TestGatewayLimiters_BurstThenBlocks(t *testing.T) {
	gl := ratelimiter.New(2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := gl.Wait(ctx, "1@vtext.com"); err != nil {
			t.Fatalf("burst token %d: unexpected error %v", i, err)
		}
	}

	// A different gateway has its own bucket.
	if err := gl.Wait(ctx, "1@tmomail.net"); err != nil {
		t.Fatalf("other gateway: unexpected error %v", err)
	}

	// The third vtext send must wait ~30s; a short deadline makes Wait fail.
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := gl.Wait(short, "2@vtext.com"); err == nil {
		t.Fatal("expected exhausted gateway to block past the deadline")
	}
}
