package geo

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Policy governs retry behavior for transient geocoding failures. The
// attempt count and backoff are part of the resolver's observable contract.
type Policy struct {
	MaxAttempts int           // total attempts, including the first
	Backoff     time.Duration // pause between failed attempts
	Timeout     time.Duration // hard deadline per attempt
}

// DefaultPolicy matches the production contract: 3 attempts, 1s backoff,
// 10s per-attempt timeout.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		Backoff:     time.Second,
		Timeout:     10 * time.Second,
	}
}

// Resolver resolves location strings with retry and fallback semantics.
// Unresolved is a normal, expected outcome and never an error: downstream
// treats it as "location unknown".
type Resolver struct {
	geocoder Geocoder
	policy   Policy
	sleep    func(time.Duration)
	log      *zap.Logger
}

// NewResolver wires a geocoder with the given policy.
func NewResolver(geocoder Geocoder, policy Policy, log *zap.Logger) *Resolver {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	if policy.Timeout <= 0 {
		policy.Timeout = 10 * time.Second
	}
	return &Resolver{
		geocoder: geocoder,
		policy:   policy,
		sleep:    time.Sleep,
		log:      log,
	}
}

// WithSleep substitutes the backoff sleep function. Tests use this to
// observe backoff durations without real delays.
func (r *Resolver) WithSleep(sleep func(time.Duration)) *Resolver {
	r.sleep = sleep
	return r
}

// Resolve attempts to geocode the location. A definitive "not found" returns
// unresolved immediately; a timeout or service failure is retried with the
// policy's backoff until attempts are exhausted, then reported unresolved.
func (r *Resolver) Resolve(ctx context.Context, location string) (Coordinates, bool) {
	if location == "" {
		return Coordinates{}, false
	}

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, r.policy.Timeout)
		coords, found, err := r.geocoder.Geocode(attemptCtx, location)
		cancel()

		if err == nil {
			return coords, found
		}

		if attempt < r.policy.MaxAttempts {
			r.sleep(r.policy.Backoff)
			continue
		}
		r.log.Warn("geocoding failed after retries",
			zap.String("location", location),
			zap.Int("attempts", attempt),
			zap.Error(err))
	}
	return Coordinates{}, false
}
