// Package location re-orders a score-ranked match list by proximity to the
// candidate's location, falling back to the weighted ranking whenever
// location data is unusable.
package location

import (
	"context"
	"math"
	"sort"

	"github.com/jonathan/job-matcher/internal/geo"
	"github.com/jonathan/job-matcher/internal/matching"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultTopN is the number of location-ranked matches retained by default.
const DefaultTopN = 10

// DefaultConcurrency bounds how many job locations are geocoded in parallel.
const DefaultConcurrency = 5

// Fallback reasons reported when distance sorting did not happen.
const (
	WarnNoLocation = ""
	WarnUnresolved = "could not geocode candidate location"
)

// Match is a scored match annotated with distance information. DistanceKm is
// math.Inf(1) when the job's location could not be resolved; such entries
// sort last but are never dropped except by truncation. LocationRank is
// assigned 1..k only on the final retained subset.
type Match struct {
	matching.Match
	DistanceKm   float64
	Coordinates  *geo.Coordinates
	LocationRank int
}

// Result is the outcome of a ranking pass. When LocationSorted is false the
// matches keep their weighted-score order and Warning says why (empty when
// no candidate location was given).
type Result struct {
	Matches        []Match
	Total          int
	LocationSorted bool
	Origin         *geo.Coordinates
	Warning        string
}

// LocationResolver is the subset of geo.Resolver the ranker needs.
type LocationResolver interface {
	Resolve(ctx context.Context, location string) (geo.Coordinates, bool)
}

// Ranker re-orders matches by distance to the candidate.
type Ranker struct {
	resolver    LocationResolver
	topN        int
	concurrency int
	log         *zap.Logger
}

// NewRanker builds a ranker; non-positive limits fall back to defaults.
func NewRanker(resolver LocationResolver, topN, concurrency int, log *zap.Logger) *Ranker {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Ranker{resolver: resolver, topN: topN, concurrency: concurrency, log: log}
}

// Rank computes distances from the candidate location to every match and
// returns the nearest topN. The candidate location must resolve before any
// job distance can be computed; job locations are then geocoded concurrently
// since they carry no ordering dependency on each other.
//
// With an empty or unresolvable candidate location the input order is
// preserved, truncated to topN, and flagged as not location-sorted.
func (r *Ranker) Rank(ctx context.Context, matches []matching.Match, candidateLocation string) Result {
	if candidateLocation == "" {
		return r.unsorted(matches, WarnNoLocation)
	}

	origin, ok := r.resolver.Resolve(ctx, candidateLocation)
	if !ok {
		r.log.Warn("candidate location unresolved, keeping score order",
			zap.String("location", candidateLocation))
		return r.unsorted(matches, WarnUnresolved)
	}

	ranked := make([]Match, len(matches))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, m := range matches {
		g.Go(func() error {
			ranked[i] = r.locate(gCtx, m, origin)
			return nil
		})
	}
	// Workers never return errors; unresolved jobs degrade to infinite
	// distance instead.
	_ = g.Wait()

	// Stable ascending sort on full-precision distance: ties keep the
	// weighted-score order the input arrived in.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	total := len(ranked)
	if len(ranked) > r.topN {
		ranked = ranked[:r.topN]
	}
	for i := range ranked {
		ranked[i].LocationRank = i + 1
	}

	return Result{
		Matches:        ranked,
		Total:          total,
		LocationSorted: true,
		Origin:         &origin,
	}
}

// locate resolves one job's location and computes its distance from origin.
func (r *Ranker) locate(ctx context.Context, m matching.Match, origin geo.Coordinates) Match {
	out := Match{Match: m, DistanceKm: math.Inf(1)}

	jobLocation := m.Job.Metadata["location"]
	coords, ok := r.resolver.Resolve(ctx, jobLocation)
	if !ok {
		r.log.Debug("job location unresolved, demoting to infinite distance",
			zap.Int("job_id", m.Job.ID),
			zap.String("location", jobLocation))
		return out
	}

	out.Coordinates = &coords
	out.DistanceKm = geo.Distance(origin, coords)
	return out
}

// unsorted truncates the score-ordered input to topN without distance
// annotations.
func (r *Ranker) unsorted(matches []matching.Match, warning string) Result {
	kept := matches
	if len(kept) > r.topN {
		kept = kept[:r.topN]
	}
	out := make([]Match, len(kept))
	for i, m := range kept {
		out[i] = Match{Match: m, DistanceKm: math.Inf(1)}
	}
	return Result{
		Matches:        out,
		Total:          len(matches),
		LocationSorted: false,
		Warning:        warning,
	}
}
