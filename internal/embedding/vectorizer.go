package embedding

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/job-matcher/internal/types"
	"go.uber.org/zap"
)

// FieldVectors holds one normalized vector per scored candidate field. A nil
// vector is the documented fallback for an empty field or a provider
// failure: it scores 0 against every job.
type FieldVectors struct {
	Position      []float64
	Skills        []float64
	Qualification []float64
	Experience    []float64
}

// Vectorizer builds FieldVectors from a candidate profile using a Provider.
type Vectorizer struct {
	provider Provider
	log      *zap.Logger
}

// NewVectorizer wires a provider and logger.
func NewVectorizer(provider Provider, log *zap.Logger) *Vectorizer {
	return &Vectorizer{provider: provider, log: log}
}

// FieldVectors embeds the four candidate fields. Each field is framed with a
// short prefix before embedding so the model sees its role. An
// empty/whitespace field or a provider fault yields a nil vector (degraded
// but available); faults are logged, never propagated.
func (v *Vectorizer) FieldVectors(ctx context.Context, profile types.CandidateProfile) FieldVectors {
	return FieldVectors{
		Position:      v.embedField(ctx, "position", "Job Role: %s", profile.Position),
		Skills:        v.embedField(ctx, "skills", "Skills: %s", profile.SkillsSummary),
		Qualification: v.embedField(ctx, "qualification", "Qualification: %s", profile.Qualification),
		Experience:    v.embedField(ctx, "experience", "Experience: %s", profile.Experience),
	}
}

// embedField embeds one templated field and normalizes the result.
func (v *Vectorizer) embedField(ctx context.Context, name, template, text string) []float64 {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	vec, err := v.provider.Embed(ctx, fmt.Sprintf(template, text))
	if err != nil {
		v.log.Warn("embedding failed, substituting zero vector",
			zap.String("field", name), zap.Error(err))
		return nil
	}

	normalize(vec)
	return vec
}

// normalize scales vec to unit L2 length in place; zero vectors are left as
// is.
func normalize(vec []float64) {
	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] /= norm
	}
}
