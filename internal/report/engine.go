// Package report aggregates a user's transactions into totals over time
// windows, calendar months and categories.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// MonthsInTable is the number of rows produced by Last12Months.
const MonthsInTable = 12

// Engine computes reports from the transaction and category repositories.
// It never touches storage directly.
type Engine struct {
	txns service.TransactionLister
	cats service.CategoryNamer
	now  func() time.Time
}

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithClock replaces the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a report engine.
func NewEngine(txns service.TransactionLister, cats service.CategoryNamer, opts ...Option) *Engine {
	e := &Engine{
		txns: txns,
		cats: cats,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Totals sums income and expense separately. Net is income minus expense.
// All three are rounded half-up to two decimals.
func Totals(txns []model.Transaction) model.Totals {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txns {
		switch t.Type {
		case model.KindIncome:
			income = income.Add(t.Amount)
		case model.KindExpense:
			expense = expense.Add(t.Amount)
		}
	}
	return model.Totals{
		Income:  round(income),
		Expense: round(expense),
		Net:     round(income.Sub(expense)),
	}
}

// Sum adds up the amounts of txns, rounded to two decimals.
func Sum(txns []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount)
	}
	return round(total)
}

// InRange keeps the transactions dated within [start, end], both days
// inclusive. Transactions with unparsable dates are never in range.
func InRange(txns []model.Transaction, start, end time.Time) []model.Transaction {
	start, end = day(start), day(end)
	var out []model.Transaction
	for _, t := range txns {
		d := t.ParsedDate()
		if d.IsZero() || d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// round applies half-up rounding to two decimals. Amounts are never
// negative except for net, where half away from zero is used.
func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// day truncates t to midnight UTC of its calendar day, matching how stored
// dates are parsed.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (e *Engine) today() time.Time {
	return day(e.now())
}

func (e *Engine) list(ctx context.Context, userID string, kind model.Kind) ([]model.Transaction, error) {
	txns, err := e.txns.List(ctx, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func (e *Engine) window(ctx context.Context, userID string, start, end time.Time) (model.Totals, error) {
	txns, err := e.list(ctx, userID, "")
	if err != nil {
		return model.Totals{}, err
	}
	totals := Totals(InRange(txns, start, end))

	slog.Debug("computed window totals",
		"user_id", userID,
		"start", model.FormatDate(start),
		"end", model.FormatDate(end),
		"net", totals.Net.StringFixed(2))
	return totals, nil
}

// TotalsAll summarizes every transaction of userID.
func (e *Engine) TotalsAll(ctx context.Context, userID string) (model.Totals, error) {
	txns, err := e.list(ctx, userID, "")
	if err != nil {
		return model.Totals{}, err
	}
	return Totals(txns), nil
}

// Weekly summarizes the last seven days, today included.
func (e *Engine) Weekly(ctx context.Context, userID string) (model.Totals, error) {
	return e.LastNDays(ctx, userID, 7)
}

// LastNDays summarizes the n days ending today.
func (e *Engine) LastNDays(ctx context.Context, userID string, n int) (model.Totals, error) {
	if n < 1 {
		return model.Totals{}, common.Invalidf("number of days must be at least 1, got %d", n)
	}
	today := e.today()
	return e.window(ctx, userID, today.AddDate(0, 0, -(n-1)), today)
}

// CurrentMonth summarizes the calendar month containing today.
func (e *Engine) CurrentMonth(ctx context.Context, userID string) (model.Totals, error) {
	first, last := monthBounds(e.today(), 0)
	return e.window(ctx, userID, first, last)
}

// CustomRange summarizes [start, end] given as DD-MM-YYYY dates.
func (e *Engine) CustomRange(ctx context.Context, userID, start, end string) (model.Totals, error) {
	from, to, err := parseRange(start, end, true)
	if err != nil {
		return model.Totals{}, err
	}
	return e.window(ctx, userID, from, to)
}

// Last12Months returns one row per calendar month, oldest first, ending
// with the current month.
func (e *Engine) Last12Months(ctx context.Context, userID string) ([]model.MonthTotals, error) {
	txns, err := e.list(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	today := e.today()
	rows := make([]model.MonthTotals, 0, MonthsInTable)
	for i := MonthsInTable - 1; i >= 0; i-- {
		first, last := monthBounds(today, -i)
		rows = append(rows, model.MonthTotals{
			Period: first.Format("2006-01"),
			Year:   first.Year(),
			Month:  int(first.Month()),
			Totals: Totals(InRange(txns, first, last)),
		})
	}
	return rows, nil
}

// ByCategory totals userID's transactions of one type per category name,
// largest first. start and end are optional DD-MM-YYYY bounds. Transactions
// without a resolvable category share the model.UncategorizedLabel bucket.
func (e *Engine) ByCategory(ctx context.Context, userID string, kind model.Kind, start, end string) ([]model.CategoryAmount, error) {
	if !kind.Valid() {
		return nil, common.Invalidf("type must be %q or %q, got %q", model.KindIncome, model.KindExpense, kind)
	}
	from, to, err := parseRange(start, end, false)
	if err != nil {
		return nil, err
	}

	txns, err := e.list(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	if start != "" || end != "" {
		txns = InRange(txns, from, to)
	}

	names := make(map[string]string)
	buckets := make(map[string]decimal.Decimal)
	for _, t := range txns {
		name, ok := names[t.CategoryID]
		if !ok {
			resolved, found, err := e.cats.NameByID(ctx, userID, t.CategoryID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve category: %w", err)
			}
			name = model.UncategorizedLabel
			if found {
				name = resolved
			}
			names[t.CategoryID] = name
		}
		buckets[name] = buckets[name].Add(t.Amount)
	}

	out := make([]model.CategoryAmount, 0, len(buckets))
	for name, total := range buckets {
		out = append(out, model.CategoryAmount{Name: name, Amount: round(total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// MonthlyBreakdown totals userID's transactions per month of year,
// optionally restricted to one type. All twelve months are returned.
func (e *Engine) MonthlyBreakdown(ctx context.Context, userID string, year int, kind model.Kind) ([]model.MonthAmount, error) {
	if kind != "" && !kind.Valid() {
		return nil, common.Invalidf("type must be %q or %q, got %q", model.KindIncome, model.KindExpense, kind)
	}
	txns, err := e.list(ctx, userID, kind)
	if err != nil {
		return nil, err
	}

	var totals [12]decimal.Decimal
	for _, t := range txns {
		d := t.ParsedDate()
		if d.IsZero() || d.Year() != year {
			continue
		}
		totals[d.Month()-1] = totals[d.Month()-1].Add(t.Amount)
	}

	out := make([]model.MonthAmount, 12)
	for i := range totals {
		out[i] = model.MonthAmount{Month: i + 1, Amount: round(totals[i])}
	}
	return out, nil
}

// TotalByKind sums every transaction of one type.
func (e *Engine) TotalByKind(ctx context.Context, userID string, kind model.Kind) (decimal.Decimal, error) {
	if !kind.Valid() {
		return decimal.Zero, common.Invalidf("type must be %q or %q, got %q", model.KindIncome, model.KindExpense, kind)
	}
	txns, err := e.list(ctx, userID, kind)
	if err != nil {
		return decimal.Zero, err
	}
	return Sum(txns), nil
}

// Balance is total income minus total expense.
func (e *Engine) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	totals, err := e.TotalsAll(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return totals.Net, nil
}

// monthBounds returns the first and last day of the month offset months
// away from the month containing t.
func monthBounds(t time.Time, offset int) (first, last time.Time) {
	first = time.Date(t.Year(), t.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// parseRange parses DD-MM-YYYY bounds. When required is false an empty bound
// is open. A bound that is present must parse, and start must not be after
// end.
func parseRange(start, end string, required bool) (from, to time.Time, err error) {
	from = time.Time{}
	to = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

	if start != "" || required {
		if from, err = model.ParseDate(start); err != nil {
			return time.Time{}, time.Time{}, common.Invalidf("start date %q must use the DD-MM-YYYY format", start)
		}
	}
	if end != "" || required {
		if to, err = model.ParseDate(end); err != nil {
			return time.Time{}, time.Time{}, common.Invalidf("end date %q must use the DD-MM-YYYY format", end)
		}
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, common.Invalidf("start date %s is after end date %s", start, end)
	}
	return from, to, nil
}
