package render

import (
	"encoding/json"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"homefinance/internal/core"
	"homefinance/internal/services"
)

type (
	jsonReport struct {
		GeneratedAt       time.Time        `json:"generated_at"`
		IncomeBudget      jsonBudget       `json:"income_budget"`
		ExpenseBudget     jsonBudget       `json:"expense_budget"`
		Transactions      jsonTransactions `json:"transactions"`
		IncomeComparison  jsonComparison   `json:"income_comparison"`
		ExpenseComparison jsonComparison   `json:"expense_comparison"`
		AbsentTables      []core.TableName `json:"absent_tables"`
	}

	jsonLine struct {
		Account  string          `json:"account"`
		Category string          `json:"category"`
		Detail   string          `json:"detail"`
		Amount   decimal.Decimal `json:"amount"`
	}

	jsonAccount struct {
		Account string          `json:"account"`
		Total   decimal.Decimal `json:"total"`
	}

	jsonBudget struct {
		Status    string          `json:"status"`
		Lines     []jsonLine      `json:"lines"`
		ByAccount []jsonAccount   `json:"by_account"`
		Total     decimal.Decimal `json:"total"`
	}

	jsonTransaction struct {
		Date string `json:"date,omitempty"`
		Type string `json:"type"`
		jsonLine
	}

	jsonMovement struct {
		Type  string          `json:"type"`
		Count int             `json:"count"`
		Total decimal.Decimal `json:"total"`
	}

	jsonTransactions struct {
		Status     string            `json:"status"`
		Rows       []jsonTransaction `json:"rows"`
		ByMovement []jsonMovement    `json:"by_movement"`
		Total      decimal.Decimal   `json:"total"`
	}

	jsonComparisonRow struct {
		Account      string          `json:"account"`
		Category     string          `json:"category"`
		Detail       string          `json:"detail"`
		Planned      decimal.Decimal `json:"planned"`
		Actual       decimal.Decimal `json:"actual"`
		Variance     decimal.Decimal `json:"variance"`
		ExecutionPct decimal.Decimal `json:"execution_pct"`
	}

	jsonComparison struct {
		Type   string              `json:"type"`
		Rows   []jsonComparisonRow `json:"rows"`
		Totals jsonComparisonRow   `json:"totals"`
	}
)

// JSON writes the report as an indented JSON document. Amounts are strings.
func JSON(w io.Writer, r *services.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(r))
}

func toJSON(r *services.Report) jsonReport {
	out := jsonReport{
		GeneratedAt:       r.GeneratedAt,
		IncomeBudget:      budgetJSON(r.IncomeBudget),
		ExpenseBudget:     budgetJSON(r.ExpenseBudget),
		IncomeComparison:  comparisonJSON(r.IncomeComparison),
		ExpenseComparison: comparisonJSON(r.ExpenseComparison),
		AbsentTables:      append([]core.TableName{}, r.Absent...),
		Transactions: jsonTransactions{
			Status:     r.Transactions.Status.String(),
			Rows:       make([]jsonTransaction, 0, len(r.Transactions.Transactions)),
			ByMovement: make([]jsonMovement, 0, len(r.Transactions.ByMovement)),
			Total:      r.Transactions.Total,
		},
	}
	for _, tx := range r.Transactions.Transactions {
		out.Transactions.Rows = append(out.Transactions.Rows, jsonTransaction{
			Date:     tx.Date().String(),
			Type:     tx.Label(),
			jsonLine: jsonLine{tx.Account, tx.Category, tx.Detail, tx.Amount},
		})
	}
	for _, m := range r.Transactions.ByMovement {
		out.Transactions.ByMovement = append(out.Transactions.ByMovement, jsonMovement{m.Type, m.Count, m.Total})
	}
	return out
}

func budgetJSON(s services.BudgetSection) jsonBudget {
	b := jsonBudget{
		Status:    s.Status.String(),
		Lines:     make([]jsonLine, 0, len(s.Lines)),
		ByAccount: make([]jsonAccount, 0, len(s.ByAccount)),
		Total:     s.Total,
	}
	for _, l := range s.Lines {
		b.Lines = append(b.Lines, jsonLine{l.Account, l.Category, l.Detail, l.Planned})
	}
	for _, a := range s.ByAccount {
		b.ByAccount = append(b.ByAccount, jsonAccount{a.Account, a.Total})
	}
	return b
}

func comparisonJSON(s services.ComparisonSection) jsonComparison {
	c := jsonComparison{
		Type: string(s.Type),
		Rows: make([]jsonComparisonRow, 0, len(s.Rows)),
		Totals: jsonComparisonRow{
			Planned:      s.Totals.Planned,
			Actual:       s.Totals.Actual,
			Variance:     s.Totals.Variance,
			ExecutionPct: s.Totals.ExecutionPct.Round(2),
		},
	}
	for _, row := range s.Rows {
		c.Rows = append(c.Rows, jsonComparisonRow{
			Account:      row.Account,
			Category:     row.Category,
			Detail:       row.Detail,
			Planned:      row.Planned,
			Actual:       row.Actual,
			Variance:     row.Variance,
			ExecutionPct: row.ExecutionPct.Round(2),
		})
	}
	return c
}
