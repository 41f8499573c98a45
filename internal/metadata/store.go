package metadata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/classifier"

	"go.uber.org/zap"
)

// Store owns the classifier and the feature contract for the process
// lifetime. Loaded once at startup, read-only afterwards, safe for any
// number of concurrent readers.
type Store struct {
	model    *classifier.Model
	contract *Contract
}

// descriptor mirrors the metadata JSON file written by the training pipeline.
type descriptor struct {
	FinalModelColumns []string  `json:"final_model_columns"`
	AmountBinEdges    []float64 `json:"amount_bin_edges"`
	AmountBinLabels   []string  `json:"amount_bin_labels"`
}

// Load reads the classifier artifact and the feature-contract descriptor.
// A failed load is terminal until restart; the caller serves degraded.
func Load(modelPath, metadataPath string, logger *zap.Logger) (*Store, error) {
	model, err := classifier.Load(modelPath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	var desc descriptor
	if err := json.NewDecoder(file).Decode(&desc); err != nil {
		return nil, fmt.Errorf("failed to decode metadata file: %w", err)
	}

	contract, err := NewContract(desc.FinalModelColumns, desc.AmountBinEdges, desc.AmountBinLabels)
	if err != nil {
		return nil, err
	}

	store, err := NewStore(model, contract)
	if err != nil {
		return nil, err
	}

	logger.Info("Model and metadata loaded",
		zap.String("model_version", model.Version),
		zap.Int("columns", len(contract.Columns)),
		zap.Float64("threshold", Threshold))

	return store, nil
}

// NewStore pairs a loaded model with a contract, verifying the model covers
// every contract column so a shape mismatch fails at startup, not per request.
func NewStore(model *classifier.Model, contract *Contract) (*Store, error) {
	for _, col := range contract.Columns {
		if !model.HasWeight(col) {
			return nil, fmt.Errorf("model has no weight for contract column %q", col)
		}
	}
	return &Store{model: model, contract: contract}, nil
}

// Model returns the loaded classifier.
func (s *Store) Model() *classifier.Model {
	return s.model
}

// Contract returns the feature contract.
func (s *Store) Contract() *Contract {
	return s.contract
}
