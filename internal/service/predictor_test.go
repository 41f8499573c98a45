package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/classifier"
	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/encoder"
	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/metadata"
	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/models"
	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockRepo is an in-memory TransactionRepository.
type mockRepo struct {
	mu       sync.Mutex
	appended []*models.ScoredTransaction
	failErr  error
}

func (m *mockRepo) Append(tx *models.ScoredTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	tx.ID = int64(len(m.appended) + 1)
	m.appended = append(m.appended, tx)
	return nil
}

func (m *mockRepo) Recent(limit int) ([]*models.ScoredTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.appended) {
		limit = len(m.appended)
	}
	out := make([]*models.ScoredTransaction, 0, limit)
	for i := len(m.appended) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.appended[i])
	}
	return out, nil
}

func (m *mockRepo) Stats() (*models.LogStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &models.LogStats{Total: len(m.appended), ByBank: make(map[string]int)}
	for _, tx := range m.appended {
		if tx.IsFraudulent {
			stats.Fraudulent++
		}
		stats.ByBank[tx.Bank]++
	}
	stats.Legitimate = stats.Total - stats.Fraudulent
	return stats, nil
}

func (m *mockRepo) Close() error { return nil }

func (m *mockRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.appended)
}

var testColumns = []string{
	"Amount", "Age", "transaction_frequency", "is_international",
	"Type of Card_Visa", "Entry Mode_Tap", "Type of Transaction_POS",
	"Merchant Group_Restaurant", "Gender_M", "Bank_Lloyds",
	"Day of Week_Wednesday",
	"amount_bins_low", "amount_bins_medium", "amount_bins_high",
	"shipping_mismatch_0", "shipping_mismatch_1",
}

// testStore scores z = -1 + 2*is_international + 3*shipping_mismatch_1, so a
// domestic transaction scores sigmoid(-1) = 0.2689 and an international one
// with a shipping mismatch scores sigmoid(4) = 0.9820.
func testStore(t *testing.T) *metadata.Store {
	t.Helper()
	contract, err := metadata.NewContract(testColumns, []float64{0, 50, 200, 800}, []string{"low", "medium", "high"})
	require.NoError(t, err)

	weights := make(map[string]float64, len(testColumns))
	for _, col := range testColumns {
		weights[col] = 0
	}
	weights["is_international"] = 2.0
	weights["shipping_mismatch_1"] = 3.0

	store, err := metadata.NewStore(&classifier.Model{Weights: weights, Intercept: -1.0}, contract)
	require.NoError(t, err)
	return store
}

func ukTransaction() *models.Transaction {
	return &models.Transaction{
		Amount:               120.50,
		Age:                  35,
		CardType:             "Visa",
		EntryMode:            "Tap",
		TransactionType:      "POS",
		MerchantGroup:        "Restaurant",
		Gender:               "M",
		Bank:                 "Lloyds",
		DayOfWeek:            "Wednesday",
		CountryOfTransaction: "United Kingdom",
		CountryOfResidence:   "United Kingdom",
		ShippingAddress:      "United Kingdom",
	}
}

func TestPredictLegitimate(t *testing.T) {
	repo := &mockRepo{}
	p := NewPredictor(testStore(t), repo, zap.NewNop())

	prediction, err := p.Predict(context.Background(), ukTransaction())
	require.NoError(t, err)

	assert.Equal(t, "Legitimate", prediction.Prediction)
	assert.InDelta(t, 0.2689, prediction.ProbabilityScore, 1e-9)
	assert.True(t, prediction.Persisted)

	require.Equal(t, 1, repo.count())
	record := repo.appended[0]
	assert.Equal(t, 120.50, record.Amount)
	assert.Equal(t, 35.0, record.Age)
	assert.Equal(t, "Lloyds", record.Bank)
	assert.Equal(t, "Restaurant", record.MerchantGroup)
	assert.False(t, record.IsFraudulent)
	// The log keeps the unrounded probability.
	assert.InDelta(t, 0.2689414213699951, record.FraudProbability, 1e-12)
}

func TestPredictFraudulent(t *testing.T) {
	repo := &mockRepo{}
	p := NewPredictor(testStore(t), repo, zap.NewNop())

	tx := ukTransaction()
	tx.CountryOfTransaction = "United States"
	tx.ShippingAddress = "Spain"

	prediction, err := p.Predict(context.Background(), tx)
	require.NoError(t, err)

	assert.Equal(t, "Fraudulent", prediction.Prediction)
	assert.InDelta(t, 0.982, prediction.ProbabilityScore, 1e-9)
	require.Equal(t, 1, repo.count())
	assert.True(t, repo.appended[0].IsFraudulent)
}

func TestPredictSwallowsAppendFailure(t *testing.T) {
	repo := &mockRepo{failErr: errors.New("disk full")}
	p := NewPredictor(testStore(t), repo, zap.NewNop())

	prediction, err := p.Predict(context.Background(), ukTransaction())
	require.NoError(t, err)

	// The verdict still reaches the caller; only Persisted reflects the loss.
	assert.Equal(t, "Legitimate", prediction.Prediction)
	assert.False(t, prediction.Persisted)
	assert.Equal(t, 0, repo.count())
}

func TestPredictModelUnavailable(t *testing.T) {
	repo := &mockRepo{}
	p := NewPredictor(nil, repo, zap.NewNop())

	_, err := p.Predict(context.Background(), ukTransaction())
	require.ErrorIs(t, err, ErrModelUnavailable)
	assert.Equal(t, 0, repo.count())
}

func TestPredictEncodingErrorDoesNotAppend(t *testing.T) {
	repo := &mockRepo{}
	p := NewPredictor(testStore(t), repo, zap.NewNop())

	tx := ukTransaction()
	tx.Amount = 99999 // outside every bin

	_, err := p.Predict(context.Background(), tx)
	require.ErrorIs(t, err, encoder.ErrAmountOutOfRange)
	assert.Equal(t, 0, repo.count())
}

func TestPredictServesAfterFailedLogOpen(t *testing.T) {
	// A directory is not a valid SQLite file, so the open fails the same way
	// an unwritable data dir does at startup.
	repo, err := repository.NewTransactionRepository(t.TempDir(), zap.NewNop())
	require.Error(t, err)
	require.Nil(t, repo)

	p := NewPredictor(testStore(t), repo, zap.NewNop())

	prediction, err := p.Predict(context.Background(), ukTransaction())
	require.NoError(t, err)
	assert.Equal(t, "Legitimate", prediction.Prediction)
	assert.InDelta(t, 0.2689, prediction.ProbabilityScore, 1e-9)
	assert.False(t, prediction.Persisted)
}

func TestLogReadsWithoutRepository(t *testing.T) {
	p := NewPredictor(testStore(t), nil, zap.NewNop())

	_, err := p.Recent(10)
	require.ErrorIs(t, err, ErrLogUnavailable)

	_, err = p.Stats()
	require.ErrorIs(t, err, ErrLogUnavailable)

	// Predictions still work, they just are not persisted.
	prediction, err := p.Predict(context.Background(), ukTransaction())
	require.NoError(t, err)
	assert.False(t, prediction.Persisted)
}
