package model

import "github.com/shopspring/decimal"

// Totals is an income/expense summary with net = income - expense.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// MonthTotals is one row of the twelve month table.
type MonthTotals struct {
	Period string // YYYY-MM
	Year   int
	Month  int // 1-12
	Totals
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// MonthAmount is the total for one month of a year.
type MonthAmount struct {
	Month  int // 1-12
	Amount decimal.Decimal
}
