package cli

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/storage"
)

// table wraps a tabwriter and remembers the first write error so renderers
// can write rows without checking every call.
type table struct {
	w   *tabwriter.Writer
	err error
}

func newTable(out io.Writer) *table {
	return &table{w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
}

func (t *table) row(cells ...string) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

func (t *table) header(cells ...string) {
	styled := make([]string, len(cells))
	rule := make([]string, len(cells))
	for i, c := range cells {
		styled[i] = TableHeaderStyle.Render(c)
		rule[i] = strings.Repeat("-", max(len(c), 4))
	}
	t.row(styled...)
	t.row(rule...)
}

func (t *table) flush() error {
	if t.err != nil {
		return t.err
	}
	return t.w.Flush()
}

func writeLine(out io.Writer, s string) error {
	_, err := fmt.Fprintln(out, s)
	return err
}

// RenderTotals prints one income/expense/net summary in a box.
func RenderTotals(out io.Writer, title string, totals model.Totals) error {
	var body bytes.Buffer
	t := newTable(&body)
	t.row("Income", FormatAmount(totals.Income))
	t.row("Expense", FormatAmount(totals.Expense))
	t.row("Net", FormatNet(totals.Net))
	if err := t.flush(); err != nil {
		return err
	}
	return writeLine(out, RenderBox(title, strings.TrimRight(body.String(), "\n")))
}

// RenderMonths prints the twelve-month table, oldest first.
func RenderMonths(out io.Writer, rows []model.MonthTotals) error {
	if err := writeLine(out, FormatTitle("Last 12 months")); err != nil {
		return err
	}
	t := newTable(out)
	t.header("Month", "Income", "Expense", "Net")
	for _, r := range rows {
		t.row(r.Period, FormatAmount(r.Totals.Income), FormatAmount(r.Totals.Expense), FormatNet(r.Totals.Net))
	}
	return t.flush()
}

// RenderCategoryAmounts prints per-category totals in the given order.
func RenderCategoryAmounts(out io.Writer, kind model.Kind, buckets []model.CategoryAmount) error {
	if err := writeLine(out, FormatTitle(fmt.Sprintf("%s by category", titleCase(kind.String())))); err != nil {
		return err
	}
	if len(buckets) == 0 {
		return writeLine(out, FormatInfo("No transactions in this period."))
	}
	t := newTable(out)
	t.header("Category", "Total")
	for _, b := range buckets {
		t.row(b.Name, FormatAmount(b.Amount))
	}
	return t.flush()
}

// RenderMonthAmounts prints a year's per-month totals.
func RenderMonthAmounts(out io.Writer, year int, kind model.Kind, months []model.MonthAmount) error {
	label := "All transactions"
	if kind != "" {
		label = titleCase(kind.String())
	}
	if err := writeLine(out, FormatTitle(fmt.Sprintf("%s in %d", label, year))); err != nil {
		return err
	}
	t := newTable(out)
	t.header("Month", "Total")
	for _, m := range months {
		t.row(time.Month(m.Month).String(), FormatAmount(m.Amount))
	}
	return t.flush()
}

// RenderTransactions prints transactions with their category names. names
// maps category ids to display names.
func RenderTransactions(out io.Writer, txns []model.Transaction, names map[string]string) error {
	if len(txns) == 0 {
		return writeLine(out, FormatInfo("No transactions found. Use 'ledger tx add' to record one."))
	}
	t := newTable(out)
	t.header("ID", "Date", "Type", "Amount", "Category", "Description")
	for _, txn := range txns {
		t.row(txn.ID, txn.Date, txn.Type.String(), FormatAmount(txn.Amount),
			categoryLabel(txn.CategoryID, names), descriptionLabel(txn.Description))
	}
	return t.flush()
}

// RenderEditEntries prints the indexed view used to pick a transaction to
// edit or delete.
func RenderEditEntries(out io.Writer, entries []storage.EditEntry) error {
	if len(entries) == 0 {
		return writeLine(out, FormatInfo("Nothing to edit."))
	}
	t := newTable(out)
	t.header("#", "Date", "Amount", "Category", "Description")
	for _, e := range entries {
		t.row(fmt.Sprintf("%d", e.Index), e.Transaction.Date, FormatAmount(e.Transaction.Amount),
			e.CategoryName, descriptionLabel(e.Transaction.Description))
	}
	return t.flush()
}

// RenderCategories prints category names grouped by type.
func RenderCategories(out io.Writer, grouped map[model.Kind][]string) error {
	empty := true
	for _, kind := range model.Kinds {
		names := grouped[kind]
		if len(names) == 0 {
			continue
		}
		empty = false
		if err := writeLine(out, FormatTitle(titleCase(kind.String()))); err != nil {
			return err
		}
		for _, name := range names {
			if err := writeLine(out, "  • "+name); err != nil {
				return err
			}
		}
	}
	if empty {
		return writeLine(out, FormatInfo("No categories found. Use 'ledger categories add' to create one."))
	}
	return nil
}

// RenderWarnings prints diagnostics for rows that were read leniently.
func RenderWarnings(out io.Writer, warnings []storage.RowWarning) error {
	for _, w := range warnings {
		if err := writeLine(out, FormatWarning(w.String())); err != nil {
			return err
		}
	}
	return nil
}

func categoryLabel(id string, names map[string]string) string {
	if name, ok := names[id]; ok && id != "" {
		return name
	}
	return SubtleStyle.Render(model.UncategorizedLabel)
}

func descriptionLabel(description string) string {
	if description == "" {
		return SubtleStyle.Render("(no description)")
	}
	return description
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
