package repository

import (
	"fmt"
	"time"

	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// TransactionRepository is the append-only transaction log. Records are only
// ever inserted by this service, never updated or deleted.
type TransactionRepository interface {
	Append(tx *models.ScoredTransaction) error
	Recent(limit int) ([]*models.ScoredTransaction, error)
	Stats() (*models.LogStats, error)
	Close() error
}

type transactionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewTransactionRepository opens the SQLite store and creates the schema if
// absent.
func NewTransactionRepository(dbPath string, logger *zap.Logger) (TransactionRepository, error) {
	db, err := sqlx.Connect("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &transactionRepository{
		db:     db,
		logger: logger,
	}

	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Transaction repository initialized", zap.String("db_path", dbPath))

	return repo, nil
}

// migrate creates the transactions table
func (r *transactionRepository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		transaction_time TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		amount FLOAT,
		age FLOAT,
		bank VARCHAR(100),
		merchant_group VARCHAR(100),
		is_fraudulent BOOLEAN,
		fraud_probability FLOAT
	);

	CREATE INDEX IF NOT EXISTS idx_transaction_time ON transactions(transaction_time);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Append inserts one scored transaction with a server-assigned timestamp and
// back-fills the auto-increment id.
func (r *transactionRepository) Append(tx *models.ScoredTransaction) error {
	tx.TransactionTime = time.Now().UTC()

	query := `
		INSERT INTO transactions (
			transaction_time, amount, age, bank, merchant_group, is_fraudulent, fraud_probability
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		tx.TransactionTime,
		tx.Amount,
		tx.Age,
		tx.Bank,
		tx.MerchantGroup,
		tx.IsFraudulent,
		tx.FraudProbability,
	)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	tx.ID = id
	return nil
}

// Recent returns the newest scored transactions, most recent first.
func (r *transactionRepository) Recent(limit int) ([]*models.ScoredTransaction, error) {
	query := `
		SELECT id, transaction_time, amount, age, bank, merchant_group, is_fraudulent, fraud_probability
		FROM transactions
		ORDER BY id DESC
		LIMIT ?
	`

	var transactions []*models.ScoredTransaction
	if err := r.db.Select(&transactions, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	return transactions, nil
}

// Stats returns aggregate counts over the transaction log.
func (r *transactionRepository) Stats() (*models.LogStats, error) {
	stats := &models.LogStats{ByBank: make(map[string]int)}

	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN is_fraudulent THEN 1 ELSE 0 END), 0)
		FROM transactions
	`).Scan(&stats.Total, &stats.Fraudulent)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}
	stats.Legitimate = stats.Total - stats.Fraudulent

	rows, err := r.db.Query(`
		SELECT bank, COUNT(*) FROM transactions GROUP BY bank ORDER BY bank
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions by bank: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bank string
		var count int
		if err := rows.Scan(&bank, &count); err != nil {
			r.logger.Error("Failed to scan bank count", zap.Error(err))
			continue
		}
		stats.ByBank[bank] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bank counts: %w", err)
	}

	return stats, nil
}

// Close closes the database connection
func (r *transactionRepository) Close() error {
	return r.db.Close()
}
