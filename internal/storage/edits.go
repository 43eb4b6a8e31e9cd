package storage

import (
	"context"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
)

// Editable field names.
const (
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldCategory    = "category_id"
	FieldDescription = "description"
)

// FieldEdit is a change to exactly one editable transaction field. The set
// of implementations is closed: DateEdit, AmountEdit, CategoryEdit and
// DescriptionEdit.
type FieldEdit interface {
	// Field names the column the edit changes.
	Field() string
	apply(ctx context.Context, t *Transactions, userID string, kind model.Kind, fields []string) error
}

// DateEdit sets the date. An empty Date means today.
type DateEdit struct {
	Date string
}

// Field implements FieldEdit.
func (DateEdit) Field() string { return FieldDate }

func (e DateEdit) apply(_ context.Context, t *Transactions, _ string, _ model.Kind, fields []string) error {
	date, err := normalizeDate(e.Date, t.now())
	if err != nil {
		return err
	}
	fields[txnDate] = date
	return nil
}

// AmountEdit sets the amount, using the same rules as Create.
type AmountEdit struct {
	Amount string
}

// Field implements FieldEdit.
func (AmountEdit) Field() string { return FieldAmount }

func (e AmountEdit) apply(_ context.Context, _ *Transactions, _ string, _ model.Kind, fields []string) error {
	amount, err := parseAmount(e.Amount)
	if err != nil {
		return err
	}
	fields[txnAmount] = formatAmount(amount)
	return nil
}

// CategoryEdit sets or clears (empty CategoryID) the category. The category
// must belong to the same user and type as the transaction.
type CategoryEdit struct {
	CategoryID string
}

// Field implements FieldEdit.
func (CategoryEdit) Field() string { return FieldCategory }

func (e CategoryEdit) apply(ctx context.Context, t *Transactions, userID string, kind model.Kind, fields []string) error {
	id, err := normalizeCategoryID(e.CategoryID)
	if err != nil {
		return err
	}
	if err := t.ensureCategory(ctx, userID, id, kind); err != nil {
		return err
	}
	fields[txnCategory] = id
	return nil
}

// DescriptionEdit sets the description.
type DescriptionEdit struct {
	Description string
}

// Field implements FieldEdit.
func (DescriptionEdit) Field() string { return FieldDescription }

func (e DescriptionEdit) apply(_ context.Context, _ *Transactions, _ string, _ model.Kind, fields []string) error {
	description, err := normalizeDescription(e.Description)
	if err != nil {
		return err
	}
	fields[txnDescription] = description
	return nil
}

// ParseFieldEdit builds the edit for a field named on the command line.
// "category" is accepted as an alias of "category_id".
func ParseFieldEdit(field, value string) (FieldEdit, error) {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case FieldDate:
		return DateEdit{Date: value}, nil
	case FieldAmount:
		return AmountEdit{Amount: value}, nil
	case FieldCategory, "category":
		return CategoryEdit{CategoryID: value}, nil
	case FieldDescription:
		return DescriptionEdit{Description: value}, nil
	default:
		return nil, common.Invalidf("field must be one of %s, %s, %s or %s, got %q",
			FieldDate, FieldAmount, FieldCategory, FieldDescription, field)
	}
}
