package metadata

import (
	"fmt"
	"strings"
)

// Threshold is the fixed probability cutoff separating legitimate from
// fraudulent transactions. Fixed at load time, never configurable per request.
const Threshold = 0.65

// CategoricalFields are the raw fields encoded as one-hot columns named
// "<field>_<value>". is_international appears here only when the contract's
// column list encodes it categorically; see Contract.InternationalNumeric.
var CategoricalFields = []string{
	"Type of Card", "Entry Mode", "Type of Transaction", "Merchant Group",
	"Gender", "Bank", "Day of Week", "amount_bins", "shipping_mismatch",
	"is_international",
}

// Contract is the feature contract the classifier was trained against: the
// exact column list and order, the amount binning rules, and the lookup
// indexes derived from them. Immutable after construction.
type Contract struct {
	Columns         []string
	AmountBins      []float64
	AmountBinLabels []string

	colIndex    map[string]int
	oneHot      map[string]map[string]int
	intlNumeric bool
}

// NewContract validates the contract descriptor and builds the column and
// (field, value) -> index lookups once, so encoding never does string joins
// against the column list per request.
func NewContract(columns []string, binEdges []float64, binLabels []string) (*Contract, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("contract has no columns")
	}
	if len(binEdges) < 2 {
		return nil, fmt.Errorf("contract needs at least two amount bin edges, got %d", len(binEdges))
	}
	if len(binLabels) != len(binEdges)-1 {
		return nil, fmt.Errorf("contract has %d bin labels for %d bin edges, want %d",
			len(binLabels), len(binEdges), len(binEdges)-1)
	}
	for i := 1; i < len(binEdges); i++ {
		if binEdges[i] <= binEdges[i-1] {
			return nil, fmt.Errorf("amount bin edges must be strictly ascending, got %v", binEdges)
		}
	}

	colIndex := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, ok := colIndex[col]; ok {
			return nil, fmt.Errorf("contract column %q is duplicated", col)
		}
		colIndex[col] = i
	}

	oneHot := make(map[string]map[string]int)
	for _, field := range CategoricalFields {
		prefix := field + "_"
		for i, col := range columns {
			if !strings.HasPrefix(col, prefix) {
				continue
			}
			if oneHot[field] == nil {
				oneHot[field] = make(map[string]int)
			}
			oneHot[field][col[len(prefix):]] = i
		}
	}

	// The column list is authoritative for how is_international is encoded:
	// a bare column means raw numeric, one-hot columns mean categorical.
	_, intlNumeric := colIndex["is_international"]

	return &Contract{
		Columns:         columns,
		AmountBins:      binEdges,
		AmountBinLabels: binLabels,
		colIndex:        colIndex,
		oneHot:          oneHot,
		intlNumeric:     intlNumeric,
	}, nil
}

// ColumnIndex returns the position of a column in the contract.
func (c *Contract) ColumnIndex(name string) (int, bool) {
	i, ok := c.colIndex[name]
	return i, ok
}

// OneHotIndex returns the position of the one-hot column for (field, value).
// A miss means the value was never seen at training time.
func (c *Contract) OneHotIndex(field, value string) (int, bool) {
	values, ok := c.oneHot[field]
	if !ok {
		return 0, false
	}
	i, ok := values[value]
	return i, ok
}

// InternationalNumeric reports whether is_international is a raw numeric
// column rather than a one-hot categorical.
func (c *Contract) InternationalNumeric() bool {
	return c.intlNumeric
}
