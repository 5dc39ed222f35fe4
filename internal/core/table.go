package core

import (
	"fmt"
	"strconv"
)

// Canonical field names. Backends map source headers onto these.
const (
	FieldTimestamp    = "timestamp"
	FieldMovementType = "movement_type"
	FieldAccount      = "account"
	FieldCategory     = "category"
	FieldDetail       = "detail"
	FieldAmount       = "amount"
	FieldPlanned      = "planned"
)

// Logical tables provided by a data source.
const (
	TransactionsTable  TableName = "transactions"
	IncomeBudgetTable  TableName = "income_budget"
	ExpenseBudgetTable TableName = "expense_budget"
)

const (
	TableOK TableStatus = iota
	TableEmpty
	TableAbsent
)

type (
	TableName   string
	TableStatus int

	// Record is one row of a raw table keyed by field name.
	Record map[string]any

	// Table is an ordered sequence of records with named columns.
	Table struct {
		Columns []string
		Rows    []Record
	}

	// TableResult is a table as produced by a data source. A table that could
	// not be produced is absent and carries the cause in Err; a table that was
	// produced without rows is empty.
	TableResult struct {
		Name  TableName
		Table Table
		Err   error
	}

	// Source holds the three logical tables of a report.
	Source struct {
		Transactions  TableResult
		IncomeBudget  TableResult
		ExpenseBudget TableResult
	}

	NormalizeStats struct {
		Rows    int
		Coerced int // values that were not numeric and became zero
	}
)

func (s TableStatus) String() string {
	switch s {
	case TableOK:
		return "ok"
	case TableEmpty:
		return "empty"
	case TableAbsent:
		return "absent"
	default:
		return fmt.Sprintf("TableStatus(%d)", int(s))
	}
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// HasColumn reports whether name is one of the table columns.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// String returns the field as text, or "" when it is missing.
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Normalize returns a copy of t whose amountColumn holds decimal values.
// Values that are not numeric, and missing values, become zero.
func Normalize(t Table, amountColumn string) Table {
	out, _ := NormalizeWithStats(t, amountColumn)
	return out
}

// NormalizeWithStats is Normalize, also counting the coerced values.
func NormalizeWithStats(t Table, amountColumn string) (Table, NormalizeStats) {
	cols := append([]string(nil), t.Columns...)
	if !t.HasColumn(amountColumn) {
		cols = append(cols, amountColumn)
	}
	out := Table{Columns: cols, Rows: make([]Record, 0, len(t.Rows))}
	stats := NormalizeStats{Rows: len(t.Rows)}
	for _, row := range t.Rows {
		r := row.clone()
		d, ok := ParseAmount(row[amountColumn])
		if !ok {
			stats.Coerced++
		}
		r[amountColumn] = d
		out.Rows = append(out.Rows, r)
	}
	return out, stats
}

// Present returns the result of a successfully fetched table.
func Present(name TableName, t Table) TableResult {
	return TableResult{Name: name, Table: t}
}

// Absent returns the result of a table the source failed to produce.
func Absent(name TableName, err error) TableResult {
	if err == nil {
		err = fmt.Errorf("%s: %w", name, ErrUnknownTable)
	}
	return TableResult{Name: name, Err: err}
}

func (r TableResult) Status() TableStatus {
	switch {
	case r.Err != nil:
		return TableAbsent
	case len(r.Table.Rows) == 0:
		return TableEmpty
	default:
		return TableOK
	}
}

// Tables returns the three results in a fixed order.
func (s Source) Tables() []TableResult {
	return []TableResult{s.Transactions, s.IncomeBudget, s.ExpenseBudget}
}

// Absent returns the names of the tables the source failed to produce.
func (s Source) Absent() []TableName {
	var out []TableName
	for _, t := range s.Tables() {
		if t.Status() == TableAbsent {
			out = append(out, t.Name)
		}
	}
	return out
}
