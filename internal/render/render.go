// Package render writes a built report as text, CSV or JSON.
package render

import (
	"fmt"
	"io"
	"strings"

	"homefinance/internal/core"
	"homefinance/internal/format"
	"homefinance/internal/services"
)

// Format names accepted by Write.
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Formats lists the supported output formats.
var Formats = []string{FormatText, FormatCSV, FormatJSON}

// Write renders r in the named format.
func Write(w io.Writer, name string, r *services.Report, opts format.Options) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatText:
		return Text(w, r, opts)
	case FormatCSV:
		return CSV(w, r)
	case FormatJSON:
		return JSON(w, r)
	default:
		return fmt.Errorf("unknown output format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}

// section titles shared by the text and CSV renderers
const (
	titleIncomeBudget      = "Income budget"
	titleExpenseBudget     = "Expense budget"
	titleTransactions      = "Transactions"
	titleIncomeComparison  = "Income: planned vs actual"
	titleExpenseComparison = "Expense: planned vs actual"
)

// emptyNote explains why a section has no rows.
func emptyNote(status core.TableStatus, table core.TableName) string {
	if status == core.TableAbsent {
		return fmt.Sprintf("(no data: %s unavailable)", table)
	}
	return "(no data)"
}
