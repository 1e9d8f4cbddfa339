package matching

import (
	"context"
	"testing"

	"github.com/jonathan/job-matcher/internal/embedding"
	"github.com/jonathan/job-matcher/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sliceSource []store.RawRecord

func (s sliceSource) Records(_ context.Context) ([]store.RawRecord, error) {
	return s, nil
}

func loadStore(t *testing.T, raw ...store.RawRecord) *store.VectorStore {
	t.Helper()
	s, err := store.Load(context.Background(), sliceSource(raw), zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestEngine_WeightedRanking(t *testing.T) {
	// Three jobs: axis-aligned, orthogonal, and diagonal (unnormalized on
	// purpose; the store normalizes it).
	s := loadStore(t,
		store.RawRecord{ID: 1, Metadata: map[string]string{"company": "A"}, Embedding: []float64{1, 0}},
		store.RawRecord{ID: 2, Metadata: map[string]string{"company": "B"}, Embedding: []float64{0, 1}},
		store.RawRecord{ID: 3, Metadata: map[string]string{"company": "C"}, Embedding: []float64{0.7, 0.7}},
	)

	engine, err := NewEngine(s, DefaultWeights(), 20)
	require.NoError(t, err)

	// Candidate position vector [1,0]; every other field empty.
	matches, err := engine.Match(embedding.FieldVectors{Position: []float64{1, 0}})
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, 1, matches[0].Job.ID)
	assert.Equal(t, 3, matches[1].Job.ID)
	assert.Equal(t, 2, matches[2].Job.ID)

	assert.InDelta(t, 0.45, matches[0].FinalScore, 1e-9)
	assert.InDelta(t, 0.45*0.7071067811865475, matches[1].FinalScore, 1e-9)
	assert.InDelta(t, 0.0, matches[2].FinalScore, 1e-9)

	// Empty fields contribute exactly zero.
	assert.Zero(t, matches[0].Breakdown.SkillScore)
	assert.Zero(t, matches[0].Breakdown.QualScore)
	assert.Zero(t, matches[0].Breakdown.ExpScore)
}

func TestEngine_FinalScoreIsWeightedSum(t *testing.T) {
	s := loadStore(t,
		store.RawRecord{ID: 1, Embedding: []float64{0.5, 0.5, 0.5, 0.5}},
	)
	engine, err := NewEngine(s, DefaultWeights(), 20)
	require.NoError(t, err)

	fv := embedding.FieldVectors{
		Position:      []float64{1, 0, 0, 0},
		Skills:        []float64{0, 1, 0, 0},
		Qualification: []float64{0, 0, 1, 0},
		Experience:    []float64{0, 0, 0, 1},
	}
	matches, err := engine.Match(fv)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	b := matches[0].Breakdown
	expected := 0.45*b.PosScore + 0.25*b.SkillScore + 0.20*b.QualScore + 0.10*b.ExpScore
	assert.Equal(t, expected, matches[0].FinalScore)
}

func TestEngine_StableTieOrder(t *testing.T) {
	// All jobs identical: scores tie exactly, corpus order must survive.
	s := loadStore(t,
		store.RawRecord{ID: 10, Embedding: []float64{1, 0}},
		store.RawRecord{ID: 20, Embedding: []float64{1, 0}},
		store.RawRecord{ID: 30, Embedding: []float64{1, 0}},
	)
	engine, err := NewEngine(s, DefaultWeights(), 20)
	require.NoError(t, err)

	matches, err := engine.Match(embedding.FieldVectors{Position: []float64{1, 0}})
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, 10, matches[0].Job.ID)
	assert.Equal(t, 20, matches[1].Job.ID)
	assert.Equal(t, 30, matches[2].Job.ID)
}

func TestEngine_TopNTruncation(t *testing.T) {
	raw := make([]store.RawRecord, 0, 30)
	for i := 0; i < 30; i++ {
		raw = append(raw, store.RawRecord{ID: i, Embedding: []float64{1, float64(i)}})
	}
	s := loadStore(t, raw...)

	engine, err := NewEngine(s, DefaultWeights(), 20)
	require.NoError(t, err)

	matches, err := engine.Match(embedding.FieldVectors{Position: []float64{1, 0}})
	require.NoError(t, err)
	assert.Len(t, matches, 20)

	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].FinalScore, matches[i].FinalScore)
	}
}

func TestEngine_EmptyStore(t *testing.T) {
	engine, err := NewEngine(store.Empty(), DefaultWeights(), 20)
	require.NoError(t, err)

	matches, err := engine.Match(embedding.FieldVectors{Position: []float64{1, 0}})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestEngine_AllFieldsEmpty(t *testing.T) {
	s := loadStore(t,
		store.RawRecord{ID: 1, Embedding: []float64{1, 0}},
	)
	engine, err := NewEngine(s, DefaultWeights(), 20)
	require.NoError(t, err)

	matches, err := engine.Match(embedding.FieldVectors{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Zero(t, matches[0].FinalScore)
}

func TestEngine_DimensionMismatch(t *testing.T) {
	s := loadStore(t,
		store.RawRecord{ID: 1, Embedding: []float64{1, 0}},
	)
	engine, err := NewEngine(s, DefaultWeights(), 20)
	require.NoError(t, err)

	_, err = engine.Match(embedding.FieldVectors{Position: []float64{1, 0, 0}})
	require.Error(t, err)

	var mismatch *ErrDimensionMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "position", mismatch.Field)
	assert.Equal(t, 2, mismatch.Expected)
	assert.Equal(t, 3, mismatch.Got)
}

func TestEngine_Idempotence(t *testing.T) {
	s := loadStore(t,
		store.RawRecord{ID: 1, Embedding: []float64{0.3, 0.9}},
		store.RawRecord{ID: 2, Embedding: []float64{0.9, 0.3}},
	)
	engine, err := NewEngine(s, DefaultWeights(), 20)
	require.NoError(t, err)

	fv := embedding.FieldVectors{
		Position: []float64{0.6, 0.8},
		Skills:   []float64{0.8, 0.6},
	}
	first, err := engine.Match(fv)
	require.NoError(t, err)
	second, err := engine.Match(fv)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWeights_Validate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())

	bad := Weights{Position: 0.5, Skills: 0.5, Qualification: 0.5, Experience: 0.5}
	assert.Error(t, bad.Validate())

	negative := Weights{Position: -0.1, Skills: 0.6, Qualification: 0.3, Experience: 0.2}
	assert.Error(t, negative.Validate())
}

func TestNewEngine_RejectsBadWeights(t *testing.T) {
	_, err := NewEngine(store.Empty(), Weights{Position: 1, Skills: 1}, 20)
	assert.Error(t, err)
}
