package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"homefinance/internal/core"
	"homefinance/internal/format"
	"homefinance/internal/services"
)

// Text writes the report as aligned plain-text tables.
func Text(w io.Writer, r *services.Report, opts format.Options) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	p := &textPrinter{w: tw, opts: opts}

	p.title(fmt.Sprintf("Report generated %s", r.GeneratedAt.Format("2006-01-02 15:04")))
	p.budget(titleIncomeBudget, r.IncomeBudget)
	p.budget(titleExpenseBudget, r.ExpenseBudget)
	p.transactions(r.Transactions)
	p.comparison(titleIncomeComparison, r.IncomeComparison, r.IncomeBudget, r.Transactions)
	p.comparison(titleExpenseComparison, r.ExpenseComparison, r.ExpenseBudget, r.Transactions)

	if p.err != nil {
		return p.err
	}
	return tw.Flush()
}

type textPrinter struct {
	w    *tabwriter.Writer
	opts format.Options
	err  error
}

func (p *textPrinter) line(s string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, s+"\n", args...)
}

func (p *textPrinter) title(s string) {
	p.line("")
	p.line("%s", s)
}

func (p *textPrinter) budget(title string, s services.BudgetSection) {
	p.title(title)
	if len(s.Lines) == 0 {
		p.line("%s", emptyNote(s.Status, s.Table))
		return
	}
	p.line("Account\tCategory\tDetail\tPlanned\t")
	for _, acc := range s.ByAccount {
		for _, l := range acc.Rows {
			p.line("%s\t%s\t%s\t%s\t", l.Account, l.Category, l.Detail, p.opts.Currency(l.Planned))
		}
		p.line("%s\t\t\t%s\t", acc.Account+" total", p.opts.Currency(acc.Total))
	}
	p.line("Total\t\t\t%s\t", p.opts.Currency(s.Total))
}

func (p *textPrinter) transactions(s services.TransactionSection) {
	p.title(titleTransactions)
	if len(s.Transactions) == 0 {
		p.line("%s", emptyNote(s.Status, core.TransactionsTable))
		return
	}
	p.line("Date\tType\tAccount\tCategory\tDetail\tAmount\t")
	for _, tx := range s.Transactions {
		p.line("%s\t%s\t%s\t%s\t%s\t%s\t", tx.Date(), tx.Label(), tx.Account, tx.Category, tx.Detail, p.opts.Currency(tx.Amount))
	}
	for _, m := range s.ByMovement {
		p.line("%s\t\t\t\t%d\t%s\t", m.Type, m.Count, p.opts.Currency(m.Total))
	}
	p.line("Total\t\t\t\t\t%s\t", p.opts.Currency(s.Total))
}

func (p *textPrinter) comparison(title string, s services.ComparisonSection, budget services.BudgetSection, txs services.TransactionSection) {
	p.title(title)
	if len(s.Rows) == 0 {
		switch {
		case budget.Status == core.TableAbsent:
			p.line("%s", emptyNote(budget.Status, budget.Table))
		case txs.Status == core.TableAbsent:
			p.line("%s", emptyNote(txs.Status, core.TransactionsTable))
		default:
			p.line("%s", emptyNote(core.TableEmpty, ""))
		}
		return
	}
	p.line("Account\tCategory\tDetail\tPlanned\tActual\tVariance\tExecution\t")
	for _, row := range s.Rows {
		p.line("%s\t%s\t%s\t%s\t%s\t%s\t%s\t",
			row.Account, row.Category, row.Detail,
			p.opts.Currency(row.Planned),
			p.opts.Currency(row.Actual),
			p.opts.Currency(row.Variance),
			p.opts.Percent(row.ExecutionPct))
	}
	t := s.Totals
	p.line("Total\t\t\t%s\t%s\t%s\t%s\t",
		p.opts.Currency(t.Planned),
		p.opts.Currency(t.Actual),
		p.opts.Currency(t.Variance),
		p.opts.Percent(t.ExecutionPct))
}
