package models

import (
	"encoding/json"
	"time"
)

// RequiredKeys lists the fields every prediction request must carry.
// Key names match the training dataset's column headers exactly.
var RequiredKeys = []string{
	"Amount", "Age", "Type of Card", "Entry Mode", "Type of Transaction",
	"Merchant Group", "Bank", "Day of Week", "Gender",
	"Country of Transaction", "Country of Residence", "Shipping Address",
}

// Transaction is one raw transaction record as submitted by the caller.
// It lives for the duration of a single request.
type Transaction struct {
	Amount               float64 `json:"Amount"`
	Age                  float64 `json:"Age"`
	CardType             string  `json:"Type of Card"`
	EntryMode            string  `json:"Entry Mode"`
	TransactionType      string  `json:"Type of Transaction"`
	MerchantGroup        string  `json:"Merchant Group"`
	Bank                 string  `json:"Bank"`
	DayOfWeek            string  `json:"Day of Week"`
	Gender               string  `json:"Gender"`
	CountryOfTransaction string  `json:"Country of Transaction"`
	CountryOfResidence   string  `json:"Country of Residence"`
	ShippingAddress      string  `json:"Shipping Address"`
}

// MissingKeys returns the required keys absent from a decoded request body,
// in RequiredKeys order.
func MissingKeys(raw map[string]json.RawMessage) []string {
	var missing []string
	for _, key := range RequiredKeys {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// Prediction is the client-facing verdict for one scored transaction.
// Persisted records whether the transaction log append succeeded; it is
// surfaced in logs only, never in the API response.
type Prediction struct {
	Prediction       string  `json:"prediction"` // "Fraudulent" or "Legitimate"
	ProbabilityScore float64 `json:"probability_score"`
	Persisted        bool    `json:"-"`
}

// ScoredTransaction is one row of the append-only transactions table.
type ScoredTransaction struct {
	ID               int64     `json:"id" db:"id"`
	TransactionTime  time.Time `json:"transaction_time" db:"transaction_time"`
	Amount           float64   `json:"amount" db:"amount"`
	Age              float64   `json:"age" db:"age"`
	Bank             string    `json:"bank" db:"bank"`
	MerchantGroup    string    `json:"merchant_group" db:"merchant_group"`
	IsFraudulent     bool      `json:"is_fraudulent" db:"is_fraudulent"`
	FraudProbability float64   `json:"fraud_probability" db:"fraud_probability"`
}

// LogStats summarizes the transaction log.
type LogStats struct {
	Total      int            `json:"total"`
	Fraudulent int            `json:"fraudulent"`
	Legitimate int            `json:"legitimate"`
	ByBank     map[string]int `json:"by_bank"`
}
