package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedGeocoder plays back one response per attempt.
type scriptedGeocoder struct {
	attempts  int
	responses []scriptedResponse
}

type scriptedResponse struct {
	coords Coordinates
	found  bool
	err    error
}

func (s *scriptedGeocoder) Geocode(_ context.Context, _ string) (Coordinates, bool, error) {
	idx := s.attempts
	s.attempts++
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	r := s.responses[idx]
	return r.coords, r.found, r.err
}

func newTestResolver(g Geocoder) (*Resolver, *[]time.Duration) {
	var slept []time.Duration
	r := NewResolver(g, DefaultPolicy(), zap.NewNop()).
		WithSleep(func(d time.Duration) { slept = append(slept, d) })
	return r, &slept
}

func TestResolver_SuccessFirstAttempt(t *testing.T) {
	g := &scriptedGeocoder{responses: []scriptedResponse{
		{coords: Coordinates{Lat: 1, Lon: 2}, found: true},
	}}
	r, slept := newTestResolver(g)

	coords, ok := r.Resolve(context.Background(), "Berlin")
	require.True(t, ok)
	assert.Equal(t, Coordinates{Lat: 1, Lon: 2}, coords)
	assert.Equal(t, 1, g.attempts)
	assert.Empty(t, *slept)
}

func TestResolver_RetriesThreeTimesWithBackoff(t *testing.T) {
	transient := errors.New("service timeout")
	g := &scriptedGeocoder{responses: []scriptedResponse{
		{err: transient},
		{err: transient},
		{err: transient},
	}}
	r, slept := newTestResolver(g)

	_, ok := r.Resolve(context.Background(), "Berlin")
	assert.False(t, ok)
	// Exactly 3 attempts, with a 1-second pause between each pair.
	assert.Equal(t, 3, g.attempts)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, *slept)
}

func TestResolver_RecoversAfterTransientFailure(t *testing.T) {
	g := &scriptedGeocoder{responses: []scriptedResponse{
		{err: errors.New("service timeout")},
		{coords: Coordinates{Lat: 3, Lon: 4}, found: true},
	}}
	r, slept := newTestResolver(g)

	coords, ok := r.Resolve(context.Background(), "Berlin")
	require.True(t, ok)
	assert.Equal(t, Coordinates{Lat: 3, Lon: 4}, coords)
	assert.Equal(t, 2, g.attempts)
	assert.Equal(t, []time.Duration{time.Second}, *slept)
}

func TestResolver_NotFoundDoesNotRetry(t *testing.T) {
	g := &scriptedGeocoder{responses: []scriptedResponse{
		{found: false}, // definitive "not found"
	}}
	r, slept := newTestResolver(g)

	_, ok := r.Resolve(context.Background(), "Nowhereville")
	assert.False(t, ok)
	assert.Equal(t, 1, g.attempts)
	assert.Empty(t, *slept)
}

func TestResolver_EmptyLocationSkipsProvider(t *testing.T) {
	g := &scriptedGeocoder{responses: []scriptedResponse{{found: true}}}
	r, _ := newTestResolver(g)

	_, ok := r.Resolve(context.Background(), "")
	assert.False(t, ok)
	assert.Equal(t, 0, g.attempts)
}

func TestNewResolver_DefaultsInvalidPolicy(t *testing.T) {
	g := &scriptedGeocoder{responses: []scriptedResponse{{found: true}}}
	r := NewResolver(g, Policy{}, zap.NewNop())

	_, ok := r.Resolve(context.Background(), "Berlin")
	assert.True(t, ok)
	assert.Equal(t, 1, g.attempts)
}
