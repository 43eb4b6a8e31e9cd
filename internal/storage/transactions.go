package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/rowstore"
)

// Field positions in the transactions table.
const (
	txnID = iota
	txnUser
	txnDate
	txnType
	txnAmount
	txnCategory
	txnDescription

	txnMinFields = txnCategory + 1
	txnFields    = txnDescription + 1
)

// Transactions stores rows of
// (id, user_id, date, type, amount, category_id, description).
type Transactions struct {
	rows       *rowstore.Store
	categories *Categories
	newID      func() string
	now        func() time.Time
}

// NewTransaction holds the raw input for Create. Amount and Date are text as
// entered by the user; an empty Date means today.
type NewTransaction struct {
	UserID      string
	Type        model.Kind
	Amount      string
	Date        string
	CategoryID  string
	Description string
}

// RowWarning describes a row that was read leniently.
type RowWarning struct {
	TransactionID string
	Reason        string
	Line          int // 1-based line in the table file
}

func (w RowWarning) String() string {
	return fmt.Sprintf("line %d (%s): %s", w.Line, w.TransactionID, w.Reason)
}

// EditEntry is one position in the indexed-edit view.
type EditEntry struct {
	CategoryName string
	Transaction  model.Transaction
	Index        int // 1-based
}

// decodeTransaction converts a row. ok is false for rows with too few
// fields. A malformed amount reads as zero and is reported in warning.
func decodeTransaction(row []string) (txn model.Transaction, warning string, ok bool) {
	if len(row) < txnMinFields {
		return model.Transaction{}, "", false
	}
	txn = model.Transaction{
		ID:         strings.TrimSpace(row[txnID]),
		UserID:     strings.TrimSpace(row[txnUser]),
		Date:       strings.TrimSpace(row[txnDate]),
		Type:       model.Kind(strings.TrimSpace(row[txnType])),
		CategoryID: strings.TrimSpace(row[txnCategory]),
	}
	if len(row) > txnDescription {
		txn.Description = strings.TrimSpace(row[txnDescription])
	}

	amount, valid := parseStoredAmount(row[txnAmount])
	txn.Amount = amount
	if !valid {
		warning = fmt.Sprintf("malformed amount %q read as 0.00", row[txnAmount])
	} else if _, err := model.ParseDate(txn.Date); err != nil {
		warning = fmt.Sprintf("unparsable date %q sorts first", txn.Date)
	}
	return txn, warning, true
}

func encodeTransaction(t model.Transaction) []string {
	return []string{
		t.ID,
		t.UserID,
		t.Date,
		string(t.Type),
		formatAmount(t.Amount),
		t.CategoryID,
		t.Description,
	}
}

// ensureCategory checks that categoryID names a category of userID with the
// given type. An empty id always passes.
func (t *Transactions) ensureCategory(ctx context.Context, userID, categoryID string, kind model.Kind) error {
	if categoryID == "" {
		return nil
	}
	cat, err := t.categories.Get(ctx, userID, categoryID)
	if err != nil {
		if common.IsUserFacing(err) {
			return common.Invalidf("category %q does not belong to this user", categoryID)
		}
		return err
	}
	if cat.Type != kind {
		return common.Invalidf("category %q is a %s category, not %s", cat.Name, cat.Type, kind)
	}
	return nil
}

// Create validates in and appends a transaction.
func (t *Transactions) Create(ctx context.Context, in NewTransaction) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateKind(in.Type); err != nil {
		return nil, err
	}
	amount, err := parseAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	date, err := normalizeDate(in.Date, t.now())
	if err != nil {
		return nil, err
	}
	categoryID, err := normalizeCategoryID(in.CategoryID)
	if err != nil {
		return nil, err
	}
	description, err := normalizeDescription(in.Description)
	if err != nil {
		return nil, err
	}

	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, common.Invalidf("user id cannot be empty")
	}
	if err := t.ensureCategory(ctx, userID, categoryID, in.Type); err != nil {
		return nil, err
	}

	txn := &model.Transaction{
		ID:          t.newID(),
		UserID:      userID,
		Date:        date,
		Type:        in.Type,
		Amount:      amount,
		CategoryID:  categoryID,
		Description: description,
	}
	if err := t.rows.AppendRow(TransactionsTable, encodeTransaction(*txn)); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	slog.Info("created transaction",
		"id", txn.ID,
		"type", txn.Type,
		"amount", formatAmount(txn.Amount),
		"date", txn.Date)
	return txn, nil
}

// List returns userID's transactions, optionally restricted to one type
// (empty kind means all), sorted ascending by date. Rows with unparsable
// dates come first.
func (t *Transactions) List(ctx context.Context, userID string, kind model.Kind) ([]model.Transaction, error) {
	txns, warnings, err := t.ListWithWarnings(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		slog.Warn("tolerated corrupt transaction row",
			"line", w.Line,
			"id", w.TransactionID,
			"reason", w.Reason)
	}
	return txns, nil
}

// ListWithWarnings is List plus a diagnostic for every row of userID that
// was read leniently.
func (t *Transactions) ListWithWarnings(ctx context.Context, userID string, kind model.Kind) ([]model.Transaction, []RowWarning, error) {
	if err := validateContext(ctx); err != nil {
		return nil, nil, err
	}
	if kind != "" {
		if err := validateKind(kind); err != nil {
			return nil, nil, err
		}
	}

	rows, err := t.rows.Snapshot(TransactionsTable)
	if err != nil {
		return nil, nil, err
	}

	userID = strings.TrimSpace(userID)
	var (
		txns     []model.Transaction
		warnings []RowWarning
	)
	for i, row := range rows {
		if !row.IsData() {
			continue
		}
		txn, warning, ok := decodeTransaction(row.Fields)
		if !ok {
			if len(row.Fields) > txnUser && strings.TrimSpace(row.Fields[txnUser]) == userID {
				warnings = append(warnings, RowWarning{
					Line:          i + 1,
					TransactionID: strings.TrimSpace(row.Fields[txnID]),
					Reason:        fmt.Sprintf("row has %d fields, need at least %d", len(row.Fields), txnMinFields),
				})
			}
			continue
		}
		if txn.UserID != userID || (kind != "" && txn.Type != kind) {
			continue
		}
		if warning != "" {
			warnings = append(warnings, RowWarning{Line: i + 1, TransactionID: txn.ID, Reason: warning})
		}
		txns = append(txns, txn)
	}

	sortByDate(txns)

	slog.Debug("retrieved transactions", "user_id", userID, "type", kind, "count", len(txns))
	return txns, warnings, nil
}

// sortByDate orders transactions by parsed date, keeping table order for
// equal dates.
func sortByDate(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].ParsedDate().Before(txns[j].ParsedDate())
	})
}

// DeleteByID removes the transaction with the given id owned by userID.
// Every other line, comments included, is kept as is.
func (t *Transactions) DeleteByID(ctx context.Context, id, userID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	userID = strings.TrimSpace(userID)

	err := t.rows.Update(TransactionsTable, func(rows []rowstore.Row) ([]rowstore.Row, error) {
		out := make([]rowstore.Row, 0, len(rows))
		deleted := false
		for _, row := range rows {
			if row.IsData() && len(row.Fields) > txnUser &&
				strings.TrimSpace(row.Fields[txnID]) == id &&
				strings.TrimSpace(row.Fields[txnUser]) == userID {
				deleted = true
				continue
			}
			out = append(out, row)
		}
		if !deleted {
			return nil, common.NotFoundf("transaction %q", id)
		}
		return out, nil
	})
	if err != nil {
		return err
	}

	slog.Info("deleted transaction", "id", id)
	return nil
}

// editPointers returns the positions in rows of userID's transactions of one
// type, in table order.
func editPointers(rows []rowstore.Row, userID string, kind model.Kind) []int {
	var pointers []int
	for i, row := range rows {
		if !row.IsData() {
			continue
		}
		txn, _, ok := decodeTransaction(row.Fields)
		if !ok || txn.UserID != userID || txn.Type != kind {
			continue
		}
		pointers = append(pointers, i)
	}
	return pointers
}

func checkIndex(index, n int) error {
	if index < 1 || index > n {
		if n == 0 {
			return common.Invalidf("there are no transactions to address")
		}
		return common.Invalidf("index %d is out of range 1..%d", index, n)
	}
	return nil
}

// EnumerateForEdit returns userID's transactions of one type numbered from 1
// in table order. The numbers address rows for UpdateByIndex and
// DeleteByIndex and go stale after any other write.
func (t *Transactions) EnumerateForEdit(ctx context.Context, userID string, kind model.Kind) ([]EditEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	rows, err := t.rows.Snapshot(TransactionsTable)
	if err != nil {
		return nil, err
	}

	userID = strings.TrimSpace(userID)
	pointers := editPointers(rows, userID, kind)
	entries := make([]EditEntry, 0, len(pointers))
	for n, p := range pointers {
		txn, _, _ := decodeTransaction(rows[p].Fields)
		name, ok, err := t.categories.NameByID(ctx, userID, txn.CategoryID)
		if err != nil {
			return nil, err
		}
		if !ok {
			name = model.UncategorizedLabel
		}
		entries = append(entries, EditEntry{
			Index:        n + 1,
			Transaction:  txn,
			CategoryName: name,
		})
	}
	return entries, nil
}

// UpdateByIndex changes one field of the transaction at index in the
// indexed-edit view of userID and kind.
func (t *Transactions) UpdateByIndex(ctx context.Context, userID string, kind model.Kind, index int, edit FieldEdit) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKind(kind); err != nil {
		return err
	}
	if edit == nil {
		return common.Invalidf("no field to update")
	}
	userID = strings.TrimSpace(userID)

	var updatedID string
	err := t.rows.Update(TransactionsTable, func(rows []rowstore.Row) ([]rowstore.Row, error) {
		pointers := editPointers(rows, userID, kind)
		if err := checkIndex(index, len(pointers)); err != nil {
			return nil, err
		}
		row := &rows[pointers[index-1]]
		for len(row.Fields) < txnFields {
			row.Fields = append(row.Fields, "")
		}
		if err := edit.apply(ctx, t, userID, kind, row.Fields); err != nil {
			return nil, err
		}
		updatedID = strings.TrimSpace(row.Fields[txnID])
		return rows, nil
	})
	if err != nil {
		return err
	}

	slog.Info("updated transaction", "id", updatedID, "field", edit.Field())
	return nil
}

// DeleteByIndex removes the transaction at index in the indexed-edit view of
// userID and kind.
func (t *Transactions) DeleteByIndex(ctx context.Context, userID string, kind model.Kind, index int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKind(kind); err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)

	var deletedID string
	err := t.rows.Update(TransactionsTable, func(rows []rowstore.Row) ([]rowstore.Row, error) {
		pointers := editPointers(rows, userID, kind)
		if err := checkIndex(index, len(pointers)); err != nil {
			return nil, err
		}
		target := pointers[index-1]
		deletedID = strings.TrimSpace(rows[target].Fields[txnID])
		return append(rows[:target:target], rows[target+1:]...), nil
	})
	if err != nil {
		return err
	}

	slog.Info("deleted transaction", "id", deletedID, "index", index)
	return nil
}
