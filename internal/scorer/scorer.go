package scorer

import (
	"fmt"

	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/metadata"
)

// Result is the outcome of scoring one encoded feature vector.
type Result struct {
	Probability float64 // positive-class probability in [0, 1]
	Fraudulent  bool    // Probability >= threshold, on the unrounded value
}

// Scorer produces a fraud probability and verdict from an encoded vector.
// Deterministic given a fixed classifier and vector.
type Scorer struct {
	store     *metadata.Store
	threshold float64
}

// New creates a scorer with the fixed load-time threshold.
func New(store *metadata.Store) *Scorer {
	return &Scorer{store: store, threshold: metadata.Threshold}
}

// Score invokes the classifier on a feature vector aligned with the contract.
// A shape mismatch cannot occur when the encoder honored the contract, but is
// surfaced as an error rather than a panic.
func (s *Scorer) Score(features []float64) (Result, error) {
	probability, err := s.store.Model().PredictProba(s.store.Contract().Columns, features)
	if err != nil {
		return Result{}, fmt.Errorf("scoring failed: %w", err)
	}

	return Result{
		Probability: probability,
		Fraudulent:  probability >= s.threshold,
	}, nil
}
