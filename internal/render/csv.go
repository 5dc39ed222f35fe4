package render

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"homefinance/internal/core"
	"homefinance/internal/services"
)

// CSV writes every section as its own block: a title record, a header
// record and the rows, separated by an empty record. Amounts are plain
// decimals so that the output can be loaded back.
func CSV(w io.Writer, r *services.Report) error {
	cw := csv.NewWriter(w)

	budget := func(title string, s services.BudgetSection) {
		cw.Write([]string{title, s.Status.String()})
		cw.Write([]string{core.FieldAccount, core.FieldCategory, core.FieldDetail, core.FieldPlanned})
		for _, l := range s.Lines {
			cw.Write([]string{l.Account, l.Category, l.Detail, l.Planned.String()})
		}
		cw.Write(nil)
	}
	comparison := func(title string, s services.ComparisonSection) {
		cw.Write([]string{title})
		cw.Write([]string{core.FieldAccount, core.FieldCategory, core.FieldDetail, core.FieldPlanned, "actual", "variance", "execution_pct"})
		for _, row := range s.Rows {
			cw.Write([]string{row.Account, row.Category, row.Detail,
				row.Planned.String(), row.Actual.String(), row.Variance.String(), pct(row.ExecutionPct)})
		}
		t := s.Totals
		cw.Write([]string{"total", "", "", t.Planned.String(), t.Actual.String(), t.Variance.String(), pct(t.ExecutionPct)})
		cw.Write(nil)
	}

	budget(titleIncomeBudget, r.IncomeBudget)
	budget(titleExpenseBudget, r.ExpenseBudget)

	cw.Write([]string{titleTransactions, r.Transactions.Status.String()})
	cw.Write([]string{"date", core.FieldMovementType, core.FieldAccount, core.FieldCategory, core.FieldDetail, core.FieldAmount})
	for _, tx := range r.Transactions.Transactions {
		cw.Write([]string{tx.Date().String(), tx.Label(), tx.Account, tx.Category, tx.Detail, tx.Amount.String()})
	}
	cw.Write(nil)

	cw.Write([]string{"Movements"})
	cw.Write([]string{core.FieldMovementType, "count", "total"})
	for _, m := range r.Transactions.ByMovement {
		cw.Write([]string{m.Type, strconv.Itoa(m.Count), m.Total.String()})
	}
	cw.Write(nil)

	comparison(titleIncomeComparison, r.IncomeComparison)
	comparison(titleExpenseComparison, r.ExpenseComparison)

	cw.Flush()
	return cw.Error()
}

func pct(d decimal.Decimal) string {
	return d.StringFixed(2)
}
