package ratelimiter

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// GatewayLimiters holds one token bucket per carrier gateway domain
// (the part of the address after "@"). Buckets are created on first use.
// Burst equals the per-minute rate, so a quiet gateway can take a short
// burst but the steady state never exceeds the configured rate.
type GatewayLimiters struct {
	mu       sync.Mutex
	perMin   int
	limiters map[string]*rate.Limiter
}

// New creates GatewayLimiters allowing perMinute sends per gateway domain.
func New(perMinute int) *GatewayLimiters {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &GatewayLimiters{
		perMin:   perMinute,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until the gateway for address grants a token.
// Returns a non-nil error only if ctx is cancelled while waiting.
func (gl *GatewayLimiters) Wait(ctx context.Context, address string) error {
	return gl.limiter(GatewayOf(address)).Wait(ctx)
}

func (gl *GatewayLimiters) limiter(gateway string) *rate.Limiter {
	gl.mu.Lock()
	defer gl.mu.Unlock()
	l, ok := gl.limiters[gateway]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Minute/time.Duration(gl.perMin)), gl.perMin)
		gl.limiters[gateway] = l
	}
	return l
}

// GatewayOf returns the lowercase domain of an address, or the whole
// address when it has no "@".
func GatewayOf(address string) string {
	if i := strings.LastIndexByte(address, '@'); i >= 0 {
		return strings.ToLower(address[i+1:])
	}
	return strings.ToLower(address)
}
