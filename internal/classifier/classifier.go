package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Model is a pre-trained logistic regression classifier. The artifact is a
// JSON file with one weight per feature column plus an intercept; inference
// is a dot product followed by a sigmoid. The model is read-only after load.
type Model struct {
	Weights   map[string]float64 `json:"weights"`
	Intercept float64            `json:"intercept"`
	Version   string             `json:"version"`
}

// Load reads a serialized model artifact from disk.
func Load(path string) (*Model, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer file.Close()

	model := &Model{}
	if err := json.NewDecoder(file).Decode(model); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}

	if len(model.Weights) == 0 {
		return nil, fmt.Errorf("model artifact %s has no weights", path)
	}

	return model, nil
}

// HasWeight reports whether the model carries a weight for a feature column.
func (m *Model) HasWeight(column string) bool {
	_, ok := m.Weights[column]
	return ok
}

// PredictProba returns the probability of the positive (fraud) class for a
// feature vector positionally aligned with columns. A vector whose shape does
// not match the column list is rejected.
func (m *Model) PredictProba(columns []string, features []float64) (float64, error) {
	if len(features) != len(columns) {
		return 0, fmt.Errorf("feature vector has %d values, model expects %d", len(features), len(columns))
	}

	z := m.Intercept
	for i, col := range columns {
		weight, ok := m.Weights[col]
		if !ok {
			return 0, fmt.Errorf("model has no weight for column %q", col)
		}
		z += weight * features[i]
	}

	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
