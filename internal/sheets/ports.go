package sheets

import (
	"context"

	"homefinance/internal/core"
)

// Ports for outbound adapters.
type (
	// SourceReader provides the three logical tables of a report. A table the
	// source fails to produce is returned as absent; the error is reserved for
	// a source that cannot be reached at all (core.ErrSourceUnavailable).
	SourceReader interface {
		ReadSource(ctx context.Context) (core.Source, error)
	}

	// SourceImporter replaces the contents of a writable source.
	SourceImporter interface {
		ImportSource(ctx context.Context, src core.Source) error
	}
)

// Names of the worksheets in the household budget spreadsheet.
const (
	DefaultTransactionsSheet  = "Respuestas de formulario 1"
	DefaultIncomeBudgetSheet  = "Ppto Entrada"
	DefaultExpenseBudgetSheet = "Ppto Salida"
)

// HeaderMap maps source column headers to canonical field names.
type HeaderMap map[string]string

// TransactionHeaders are the headers of the form response sheet.
func TransactionHeaders() HeaderMap {
	return HeaderMap{
		"Marca temporal":     core.FieldTimestamp,
		"Tipo de movimiento": core.FieldMovementType,
		"Cuenta":             core.FieldAccount,
		"Rubro":              core.FieldCategory,
		"Detalle":            core.FieldDetail,
		"Valor":              core.FieldAmount,
	}
}

// BudgetHeaders are the headers of both budget sheets.
func BudgetHeaders() HeaderMap {
	return HeaderMap{
		"Cuenta":  core.FieldAccount,
		"Rubro":   core.FieldCategory,
		"Detalle": core.FieldDetail,
		"Valor":   core.FieldPlanned,
	}
}

// Canonical returns the field name for a header. Headers are matched
// case-insensitively after trimming; canonical names map to themselves and
// unknown headers are kept as they are.
func (m HeaderMap) Canonical(header string) string {
	h := trim(header)
	if f, ok := m[h]; ok {
		return f
	}
	for k, f := range m {
		if equalFold(k, h) || equalFold(f, h) {
			return f
		}
	}
	return h
}

// Records turns a header row and data rows into a table, the way a form
// response sheet is read: data cells map to headers by position, missing
// trailing cells are empty strings and fully empty rows are skipped. Columns
// without a header are dropped.
func Records(header []string, rows [][]any, m HeaderMap) core.Table {
	cols := make([]string, len(header))
	var names []string
	for i, h := range header {
		if trim(h) == "" {
			continue
		}
		cols[i] = m.Canonical(h)
		names = append(names, cols[i])
	}
	t := core.Table{Columns: names, Rows: make([]core.Record, 0, len(rows))}
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		r := make(core.Record, len(names))
		for i, c := range cols {
			if c == "" {
				continue
			}
			if i < len(row) && row[i] != nil {
				r[c] = row[i]
			} else {
				r[c] = ""
			}
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}
