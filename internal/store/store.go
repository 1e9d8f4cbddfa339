// Package store holds the normalized corpus of job vectors and their
// metadata. The store is built once at startup and is read-only afterwards,
// so it is safe for concurrent readers without locking.
package store

import (
	"context"
	"math"

	"go.uber.org/zap"
)

// NormTolerance is the allowed deviation from unit length for a normalized
// vector.
const NormTolerance = 1e-6

// JobRecord is a single corpus entry: a stable integer ID, display metadata
// (at least "location" and "company"), and an L2-normalized embedding.
// Immutable once loaded.
type JobRecord struct {
	ID       int
	Metadata map[string]string
	Vector   []float64
}

// RawRecord is a corpus entry as produced by a CorpusSource, before
// normalization.
type RawRecord struct {
	ID        int               `json:"id"`
	Metadata  map[string]string `json:"metadata"`
	Embedding []float64         `json:"embedding"`
}

// CorpusSource yields raw corpus records from some backing storage.
type CorpusSource interface {
	Records(ctx context.Context) ([]RawRecord, error)
}

// VectorStore holds the loaded corpus. The zero value is a valid empty store.
type VectorStore struct {
	records []JobRecord
	dim     int
}

// Load reads all records from the source, normalizes their vectors, and
// returns the populated store. A source failure is returned as-is (typically
// an *ErrDataUnavailable); callers that want to keep serving should fall back
// to an empty store.
//
// Dimensionality must be uniform: the first record fixes the store dimension
// and any later record with a different length is skipped with a warning.
func Load(ctx context.Context, source CorpusSource, log *zap.Logger) (*VectorStore, error) {
	raw, err := source.Records(ctx)
	if err != nil {
		return nil, err
	}

	s := &VectorStore{records: make([]JobRecord, 0, len(raw))}
	for _, r := range raw {
		if len(r.Embedding) == 0 {
			log.Warn("skipping corpus record with empty embedding", zap.Int("id", r.ID))
			continue
		}
		if s.dim == 0 {
			s.dim = len(r.Embedding)
		}
		if len(r.Embedding) != s.dim {
			log.Warn("skipping corpus record with mismatched dimensionality",
				zap.Int("id", r.ID),
				zap.Int("expected", s.dim),
				zap.Int("got", len(r.Embedding)))
			continue
		}

		vec := make([]float64, len(r.Embedding))
		copy(vec, r.Embedding)
		Normalize(vec)

		s.records = append(s.records, JobRecord{
			ID:       r.ID,
			Metadata: r.Metadata,
			Vector:   vec,
		})
	}

	log.Info("corpus loaded", zap.Int("jobs", len(s.records)), zap.Int("dim", s.dim))
	return s, nil
}

// Empty returns a valid store with no records. Used when the corpus source is
// unavailable so the engine can still start and serve zero matches.
func Empty() *VectorStore {
	return &VectorStore{}
}

// Size returns the number of loaded records.
func (s *VectorStore) Size() int {
	return len(s.records)
}

// Dim returns the embedding dimensionality, or 0 for an empty store.
func (s *VectorStore) Dim() int {
	return s.dim
}

// Records returns the loaded records in corpus insertion order. Callers must
// not mutate the returned slice or its vectors.
func (s *VectorStore) Records() []JobRecord {
	return s.records
}

// Normalize scales vec to unit L2 length in place. A zero vector is left
// unchanged to avoid division by zero.
func Normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] /= norm
	}
}
