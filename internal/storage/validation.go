// Package storage provides the entity repositories over the row store.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
)

// Validation limits.
const (
	MinUsernameLength     = 5
	MaxUsernameLength     = 50
	MinPasswordLength     = 5
	MaxPasswordBytes      = 72 // bcrypt ignores anything longer
	MaxCategoryNameLength = 50
)

// ErrNilContext is returned when a nil context is passed to a repository.
var ErrNilContext = errors.New("context cannot be nil")

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// hasControl reports whether s contains control characters, tabs and line
// breaks included.
func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

func validateUsername(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", common.Invalidf("username cannot be empty")
	}
	if n := utf8.RuneCountInString(name); n < MinUsernameLength || n > MaxUsernameLength {
		return "", common.Invalidf("username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength)
	}
	if hasControl(name) {
		return "", common.Invalidf("username contains control characters")
	}
	return name, nil
}

func validatePassword(pw string) error {
	if pw == "" {
		return common.Invalidf("password cannot be empty")
	}
	if utf8.RuneCountInString(pw) < MinPasswordLength {
		return common.Invalidf("password must be at least %d characters", MinPasswordLength)
	}
	if len(pw) > MaxPasswordBytes {
		return common.Invalidf("password must be at most %d bytes", MaxPasswordBytes)
	}
	return nil
}

func validateKind(kind model.Kind) error {
	if !kind.Valid() {
		return common.Invalidf("type must be %q or %q, got %q", model.KindIncome, model.KindExpense, kind)
	}
	return nil
}

func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", common.Invalidf("category name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return "", common.Invalidf("category name must be at most %d characters", MaxCategoryNameLength)
	}
	if hasControl(name) {
		return "", common.Invalidf("category name contains control characters")
	}
	return name, nil
}

// normalizeAmountText accepts "12.34" or "12,34" and checks that only digits
// and one separator remain. Signs are rejected.
func normalizeAmountText(s string) (string, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return "", false
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return "", false
	}
	digits := 0
	for _, p := range parts {
		for _, r := range p {
			if r < '0' || r > '9' {
				return "", false
			}
			digits++
		}
	}
	if digits == 0 {
		return "", false
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	return strings.TrimSuffix(s, "."), true
}

// parseAmount validates a user-supplied amount and rounds it half-up to two
// decimal places. The rounded amount must be positive.
func parseAmount(s string) (decimal.Decimal, error) {
	text, ok := normalizeAmountText(s)
	if !ok {
		return decimal.Zero, common.Invalidf("amount %q is not a positive decimal number", s)
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, common.Invalidf("amount %q is not a positive decimal number", s)
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return decimal.Zero, common.Invalidf("amount must be greater than zero")
	}
	return amount, nil
}

// parseStoredAmount reads an amount field leniently. Anything unreadable is
// reported through ok=false and read as zero.
func parseStoredAmount(s string) (amount decimal.Decimal, ok bool) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, false
	}
	text, valid := normalizeAmountText(s)
	if !valid {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// normalizeDate returns the canonical DD-MM-YYYY form of s, or today's date
// when s is blank.
func normalizeDate(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.FormatDate(now), nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return "", common.Invalidf("date %q must use the DD-MM-YYYY format", s)
	}
	return model.FormatDate(d), nil
}

// normalizeDescription replaces tabs and line breaks with spaces and trims.
func normalizeDescription(s string) (string, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\r', '\n':
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > model.MaxDescriptionLength {
		return "", common.Invalidf("description must be at most %d characters", model.MaxDescriptionLength)
	}
	return s, nil
}

// normalizeCategoryID trims an optional category id. Empty means none.
func normalizeCategoryID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if hasControl(s) {
		return "", common.Invalidf("category id contains control characters")
	}
	return s, nil
}
