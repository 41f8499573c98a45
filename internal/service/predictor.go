package service

import (
	"context"
	"errors"
	"math"

	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/encoder"
	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/metadata"
	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/models"
	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/repository"
	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/scorer"

	"go.uber.org/zap"
)

// ErrModelUnavailable is returned while the service runs degraded after a
// failed artifact load. Terminal until restart.
var ErrModelUnavailable = errors.New("model is not loaded")

// ErrLogUnavailable is returned for log reads while the transaction store is
// not open.
var ErrLogUnavailable = errors.New("transaction log is not available")

// Predictor orchestrates encode -> score -> append for one transaction.
type Predictor struct {
	store   *metadata.Store
	repo    repository.TransactionRepository
	encoder *encoder.Encoder
	scorer  *scorer.Scorer
	logger  *zap.Logger
}

// NewPredictor creates the prediction service. A nil store means the model
// failed to load and every prediction fails fast with ErrModelUnavailable.
func NewPredictor(store *metadata.Store, repo repository.TransactionRepository, logger *zap.Logger) *Predictor {
	p := &Predictor{
		store:  store,
		repo:   repo,
		logger: logger,
	}
	if store != nil {
		p.encoder = encoder.New(store.Contract())
		p.scorer = scorer.New(store)
	}
	return p
}

// Ready reports whether the model artifacts loaded at startup.
func (p *Predictor) Ready() bool {
	return p.store != nil
}

// Predict encodes and scores one transaction, then appends the outcome to the
// transaction log. The append is best effort: a failed write is logged and
// swallowed, and the verdict is still returned to the caller.
func (p *Predictor) Predict(ctx context.Context, t *models.Transaction) (*models.Prediction, error) {
	if p.store == nil {
		return nil, ErrModelUnavailable
	}

	features, err := p.encoder.Encode(t)
	if err != nil {
		return nil, err
	}

	result, err := p.scorer.Score(features)
	if err != nil {
		return nil, err
	}

	verdict := "Legitimate"
	if result.Fraudulent {
		verdict = "Fraudulent"
	}

	record := &models.ScoredTransaction{
		Amount:           t.Amount,
		Age:              t.Age,
		Bank:             t.Bank,
		MerchantGroup:    t.MerchantGroup,
		IsFraudulent:     result.Fraudulent,
		FraudProbability: result.Probability,
	}

	persisted := false
	if p.repo == nil {
		p.logger.Warn("Transaction log is not open, scored transaction not persisted")
	} else if err := p.repo.Append(record); err != nil {
		p.logger.Error("Failed to persist scored transaction", zap.Error(err))
	} else {
		persisted = true
	}

	p.logger.Info("Transaction scored",
		zap.String("prediction", verdict),
		zap.Float64("probability", result.Probability),
		zap.String("bank", t.Bank),
		zap.Bool("persisted", persisted))

	return &models.Prediction{
		Prediction:       verdict,
		ProbabilityScore: round4(result.Probability),
		Persisted:        persisted,
	}, nil
}

// Recent returns the newest scored transactions from the log.
func (p *Predictor) Recent(limit int) ([]*models.ScoredTransaction, error) {
	if p.repo == nil {
		return nil, ErrLogUnavailable
	}
	return p.repo.Recent(limit)
}

// Stats returns aggregate counts over the transaction log.
func (p *Predictor) Stats() (*models.LogStats, error) {
	if p.repo == nil {
		return nil, ErrLogUnavailable
	}
	return p.repo.Stats()
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
