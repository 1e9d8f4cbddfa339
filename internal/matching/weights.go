package matching

import (
	"fmt"
	"math"
)

// weightSumTolerance is the allowed floating-point drift when checking that
// the weights are convex.
const weightSumTolerance = 1e-9

// Weights holds the per-field contribution to the final match score. Weights
// must sum to 1.0 and are fixed per deployment.
type Weights struct {
	Position      float64
	Skills        float64
	Qualification float64
	Experience    float64
}

// DefaultWeights returns the production weighting: position dominates,
// followed by skills, qualification, and experience.
func DefaultWeights() Weights {
	return Weights{
		Position:      0.45,
		Skills:        0.25,
		Qualification: 0.20,
		Experience:    0.10,
	}
}

// Validate checks that every weight is non-negative and the sum is 1.0.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"position":      w.Position,
		"skills":        w.Skills,
		"qualification": w.Qualification,
		"experience":    w.Experience,
	} {
		if v < 0 {
			return fmt.Errorf("weight %q must be non-negative, got %v", name, v)
		}
	}
	sum := w.Position + w.Skills + w.Qualification + w.Experience
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}
	return nil
}
