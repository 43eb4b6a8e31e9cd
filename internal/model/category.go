// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/common"
)

// Kind indicates whether a category or transaction is income or expense.
type Kind string

const (
	// KindIncome represents money coming in.
	KindIncome Kind = "income"
	// KindExpense represents money going out.
	KindExpense Kind = "expense"
)

// Kinds lists every valid kind in display order.
var Kinds = []Kind{KindIncome, KindExpense}

// ParseKind normalizes s and checks that it names a valid kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: type must be %q or %q, got %q", common.ErrInvalidInput, KindIncome, KindExpense, s)
	}
	return k, nil
}

// Valid reports whether k is income or expense.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

func (k Kind) String() string {
	return string(k)
}

// Category is a user-owned label for income or expense transactions.
type Category struct {
	ID     string
	UserID string
	Type   Kind
	Name   string
}

// NormalizeName folds a name or username for equality comparisons.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// UncategorizedLabel is shown for transactions without a resolvable category.
const UncategorizedLabel = "(uncategorized)"
