package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the on-disk and user-facing date format (DD-MM-YYYY).
const DateLayout = "02-01-2006"

// MaxDescriptionLength bounds the free-text description of a transaction.
const MaxDescriptionLength = 100

// Transaction represents a single income or expense entry.
type Transaction struct {
	ID          string
	UserID      string
	Date        string // DD-MM-YYYY as stored
	Type        Kind
	Amount      decimal.Decimal
	CategoryID  string // empty when uncategorized
	Description string
}

// ParseDate parses a DD-MM-YYYY date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParsedDate returns the transaction date, or the zero time when the stored
// text cannot be parsed. The zero time sorts before every real date.
func (t Transaction) ParsedDate() time.Time {
	d, err := ParseDate(t.Date)
	if err != nil {
		return time.Time{}
	}
	return d
}

// HasCategory reports whether the transaction is tagged with a category.
func (t Transaction) HasCategory() bool {
	return t.CategoryID != ""
}
