package core

import "github.com/shopspring/decimal"

// LineTotal is the summed amount of one composite key.
type LineTotal struct {
	Key
	Amount decimal.Decimal
}

// ComparisonRow is one line of a planned vs. actual table.
type ComparisonRow struct {
	Key
	Planned      decimal.Decimal
	Actual       decimal.Decimal
	Variance     decimal.Decimal // Actual - Planned
	ExecutionPct decimal.Decimal // Actual / Planned * 100, zero when Planned is zero
}

// ComparisonTotals sums a comparison table.
type ComparisonTotals struct {
	Planned      decimal.Decimal
	Actual       decimal.Decimal
	Variance     decimal.Decimal
	ExecutionPct decimal.Decimal
}

// AccountSummary is the total of one account with the rows behind it.
type AccountSummary[R any] struct {
	Account string
	Total   decimal.Decimal
	Rows    []R
}

// MovementTotal is the total of one movement type.
type MovementTotal struct {
	Type  string
	Total decimal.Decimal
	Count int
}

// Line is a record that belongs to a composite key and carries an amount.
type Line interface {
	LineKey() Key
	LineAmount() decimal.Decimal
}

func (t Transaction) LineKey() Key                { return t.Key }
func (t Transaction) LineAmount() decimal.Decimal { return t.Amount }
func (b BudgetLine) LineKey() Key                 { return b.Key }
func (b BudgetLine) LineAmount() decimal.Decimal  { return b.Planned }
func (l LineTotal) LineKey() Key                  { return l.Key }
func (l LineTotal) LineAmount() decimal.Decimal   { return l.Amount }
