package encoder

import (
	"errors"
	"fmt"

	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/metadata"
	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/models"
)

// ErrAmountOutOfRange marks an amount that falls outside every contract bin.
var ErrAmountOutOfRange = errors.New("amount is outside the defined bin range")

// Encoder deterministically maps one raw transaction record to the feature
// vector the classifier was trained on. Stateless; the contract is the only
// input besides the record itself.
type Encoder struct {
	contract *metadata.Contract
}

// New creates an encoder bound to a feature contract.
func New(contract *metadata.Contract) *Encoder {
	return &Encoder{contract: contract}
}

// Encode builds the feature vector for one transaction, positionally aligned
// with the contract's columns. Every column starts at 0; numeric columns are
// written directly, categorical values set their one-hot column when the
// (field, value) pair was seen at training time, and unseen values leave
// their field's columns at 0.
func (e *Encoder) Encode(t *models.Transaction) ([]float64, error) {
	isInternational := 0.0
	if t.CountryOfTransaction != t.CountryOfResidence {
		isInternational = 1.0
	}

	shippingMismatch := "0"
	if t.ShippingAddress != t.CountryOfResidence {
		shippingMismatch = "1"
	}

	binLabel, err := e.binLabel(t.Amount)
	if err != nil {
		return nil, err
	}

	vec := make([]float64, len(e.contract.Columns))

	setNumeric := func(column string, value float64) {
		if i, ok := e.contract.ColumnIndex(column); ok {
			vec[i] = value
		}
	}
	setOneHot := func(field, value string) {
		if i, ok := e.contract.OneHotIndex(field, value); ok {
			vec[i] = 1.0
		}
	}

	setNumeric("Amount", t.Amount)
	setNumeric("Age", t.Age)
	// Constant for a single new transaction; no history lookup.
	setNumeric("transaction_frequency", 1.0)

	if e.contract.InternationalNumeric() {
		setNumeric("is_international", isInternational)
	} else {
		setOneHot("is_international", fmt.Sprintf("%.0f", isInternational))
	}

	setOneHot("Type of Card", t.CardType)
	setOneHot("Entry Mode", t.EntryMode)
	setOneHot("Type of Transaction", t.TransactionType)
	setOneHot("Merchant Group", t.MerchantGroup)
	setOneHot("Gender", t.Gender)
	setOneHot("Bank", t.Bank)
	setOneHot("Day of Week", t.DayOfWeek)
	setOneHot("amount_bins", binLabel)
	setOneHot("shipping_mismatch", shippingMismatch)

	return vec, nil
}

// binLabel buckets an amount into the contract's bins. The lowest bin is
// closed on both ends, later bins are half-open (lo, hi].
func (e *Encoder) binLabel(amount float64) (string, error) {
	edges := e.contract.AmountBins
	for i := 0; i+1 < len(edges); i++ {
		if i == 0 {
			if amount >= edges[0] && amount <= edges[1] {
				return e.contract.AmountBinLabels[0], nil
			}
			continue
		}
		if amount > edges[i] && amount <= edges[i+1] {
			return e.contract.AmountBinLabels[i], nil
		}
	}
	return "", fmt.Errorf("%w: %.2f", ErrAmountOutOfRange, amount)
}
