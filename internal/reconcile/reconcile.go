package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"

	"homefinance/internal/core"
)

var hundred = decimal.NewFromInt(100)

// AggregateByKey sums the amounts of rows sharing a composite key. The result
// has one entry per distinct key, in first-seen order.
func AggregateByKey[R core.Line](rows []R) []core.LineTotal {
	groups := GroupBy(rows, lineKey[R], lineAmount[R])
	out := make([]core.LineTotal, 0, len(groups))
	for _, g := range groups {
		out = append(out, core.LineTotal{Key: g.Key, Amount: g.Total})
	}
	return out
}

// Reconcile joins planned and actual amounts on the composite key. Every key
// present on either side appears exactly once; a missing side counts as zero.
// Rows sharing a key on the same side are summed first. The result is sorted
// by account, category and detail.
func Reconcile[P core.Line, A core.Line](planned []P, actual []A) []core.ComparisonRow {
	plan := AggregateByKey(planned)
	act := AggregateByKey(actual)

	rows := make([]core.ComparisonRow, 0, len(plan)+len(act))
	index := make(map[core.Key]int, len(plan)+len(act))
	for _, p := range plan {
		index[p.Key] = len(rows)
		rows = append(rows, core.ComparisonRow{Key: p.Key, Planned: p.Amount, Actual: decimal.Zero})
	}
	for _, a := range act {
		i, ok := index[a.Key]
		if !ok {
			i = len(rows)
			index[a.Key] = i
			rows = append(rows, core.ComparisonRow{Key: a.Key, Planned: decimal.Zero})
		}
		rows[i].Actual = a.Amount
	}
	for i := range rows {
		rows[i].Variance = rows[i].Actual.Sub(rows[i].Planned)
		rows[i].ExecutionPct = ExecutionPct(rows[i].Actual, rows[i].Planned)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Key.Less(rows[j].Key) })
	return rows
}

// ExecutionPct returns actual / planned * 100, or zero when planned is zero.
// The percentage is not capped at 100.
func ExecutionPct(actual, planned decimal.Decimal) decimal.Decimal {
	if planned.IsZero() {
		return decimal.Zero
	}
	return actual.Mul(hundred).Div(planned)
}

// SummarizeComparison totals a comparison table.
func SummarizeComparison(rows []core.ComparisonRow) core.ComparisonTotals {
	t := core.ComparisonTotals{Planned: decimal.Zero, Actual: decimal.Zero}
	for _, r := range rows {
		t.Planned = t.Planned.Add(r.Planned)
		t.Actual = t.Actual.Add(r.Actual)
	}
	t.Variance = t.Actual.Sub(t.Planned)
	t.ExecutionPct = ExecutionPct(t.Actual, t.Planned)
	return t
}

// SummarizeByAccount totals rows per account, largest total first. Accounts
// with equal totals keep their first-seen order. Each summary carries the
// account's rows in input order.
func SummarizeByAccount[R core.Line](rows []R) []core.AccountSummary[R] {
	groups := GroupBy(rows, func(r R) string { return r.LineKey().Account }, lineAmount[R])
	out := make([]core.AccountSummary[R], 0, len(groups))
	for _, g := range groups {
		out = append(out, core.AccountSummary[R]{Account: g.Key, Total: g.Total, Rows: g.Rows})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	return out
}

// SummarizeByMovementType totals transactions per movement type, in
// first-seen order. Unrecognised types are reported under their raw label.
func SummarizeByMovementType(txs []core.Transaction) []core.MovementTotal {
	groups := GroupBy(txs, core.Transaction.Label, core.Transaction.LineAmount)
	out := make([]core.MovementTotal, 0, len(groups))
	for _, g := range groups {
		out = append(out, core.MovementTotal{Type: g.Key, Total: g.Total, Count: len(g.Rows)})
	}
	return out
}

// Total sums the amounts of rows.
func Total[R core.Line](rows []R) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.LineAmount())
	}
	return sum
}

func lineKey[R core.Line](r R) core.Key           { return r.LineKey() }
func lineAmount[R core.Line](r R) decimal.Decimal { return r.LineAmount() }
