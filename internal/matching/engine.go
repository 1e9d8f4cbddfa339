// Package matching implements the weighted multi-field similarity scoring
// that ranks every job in the store against a candidate's field vectors.
package matching

import (
	"fmt"
	"sort"

	"github.com/jonathan/job-matcher/internal/embedding"
	"github.com/jonathan/job-matcher/internal/store"
)

// DefaultTopN is the number of matches returned when no limit is configured.
const DefaultTopN = 20

// Breakdown carries the four per-field cosine similarities behind a final
// score.
type Breakdown struct {
	PosScore   float64 `json:"pos_score"`
	SkillScore float64 `json:"skill_score"`
	QualScore  float64 `json:"qual_score"`
	ExpScore   float64 `json:"exp_score"`
}

// Match is one scored job. Job references the store record; neither is
// mutated after creation.
type Match struct {
	Job        store.JobRecord
	FinalScore float64
	Breakdown  Breakdown
}

// ErrDimensionMismatch indicates a candidate field vector does not match the
// store's embedding dimensionality. This is a structural fault, not a
// degraded-mode condition.
type ErrDimensionMismatch struct {
	Field    string
	Expected int
	Got      int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("field %q vector has dimension %d, store expects %d", e.Field, e.Got, e.Expected)
}

// Engine scores candidates against a read-only VectorStore. Purely
// functional: identical inputs produce identical output, and neither the
// store nor its records are ever mutated.
type Engine struct {
	store   *store.VectorStore
	weights Weights
	topN    int
}

// NewEngine builds an engine over the given store. topN <= 0 falls back to
// DefaultTopN.
func NewEngine(s *store.VectorStore, weights Weights, topN int) (*Engine, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Engine{store: s, weights: weights, topN: topN}, nil
}

// Match scores every job against the candidate's field vectors and returns
// the top N by weighted score, descending. The sort is stable: equal scores
// keep corpus insertion order, so output is deterministic across runs.
//
// An empty store yields an empty list, not an error. A nil field vector is
// the zero vector: it contributes 0 to every job for that field.
func (e *Engine) Match(fv embedding.FieldVectors) ([]Match, error) {
	if err := e.checkDimensions(fv); err != nil {
		return nil, err
	}

	records := e.store.Records()
	if len(records) == 0 {
		return []Match{}, nil
	}

	// One batched pass per field over the whole corpus. Both sides are unit
	// normalized, so each dot product is the cosine similarity.
	matches := make([]Match, len(records))
	for i, job := range records {
		b := Breakdown{
			PosScore:   dot(job.Vector, fv.Position),
			SkillScore: dot(job.Vector, fv.Skills),
			QualScore:  dot(job.Vector, fv.Qualification),
			ExpScore:   dot(job.Vector, fv.Experience),
		}
		matches[i] = Match{
			Job:       job,
			Breakdown: b,
			FinalScore: b.PosScore*e.weights.Position +
				b.SkillScore*e.weights.Skills +
				b.QualScore*e.weights.Qualification +
				b.ExpScore*e.weights.Experience,
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].FinalScore > matches[j].FinalScore
	})

	if len(matches) > e.topN {
		matches = matches[:e.topN]
	}
	return matches, nil
}

// checkDimensions verifies every non-zero field vector against the store
// dimensionality.
func (e *Engine) checkDimensions(fv embedding.FieldVectors) error {
	dim := e.store.Dim()
	if dim == 0 {
		// Empty store; nothing to compare against.
		return nil
	}
	for _, f := range []struct {
		name string
		vec  []float64
	}{
		{"position", fv.Position},
		{"skills", fv.Skills},
		{"qualification", fv.Qualification},
		{"experience", fv.Experience},
	} {
		if f.vec != nil && len(f.vec) != dim {
			return &ErrDimensionMismatch{Field: f.name, Expected: dim, Got: len(f.vec)}
		}
	}
	return nil
}

// dot returns the inner product of a and b. A nil b is the zero vector.
func dot(a, b []float64) float64 {
	var sum float64
	for i := range b {
		sum += a[i] * b[i]
	}
	return sum
}
