package sheets

import (
	"testing"

	"homefinance/internal/core"
)

func TestRecordsMapsHeadersByPosition(t *testing.T) {
	header := []string{"Marca temporal", "Tipo de movimiento", "Cuenta", "Rubro", "Detalle", "Valor", "", "Notas"}
	rows := [][]any{
		{"3/15/2024 10:22:33", "Salida", "Bank", "Food", "Groceries", 100.0, "ignored", "weekly"},
		{"3/16/2024 10:22:33", "Salida", "Bank", "Food"}, // short row
		{"", "", nil}, // blank row
		{},
	}

	tbl := Records(header, rows, TransactionHeaders())

	wantCols := []string{core.FieldTimestamp, core.FieldMovementType, core.FieldAccount, core.FieldCategory, core.FieldDetail, core.FieldAmount, "Notas"}
	if len(tbl.Columns) != len(wantCols) {
		t.Fatalf("expected columns %v, got %v", wantCols, tbl.Columns)
	}
	for i, c := range wantCols {
		if tbl.Columns[i] != c {
			t.Fatalf("column %d: expected %q, got %q", i, c, tbl.Columns[i])
		}
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
	}
	if got := tbl.Rows[0][core.FieldAmount]; got != 100.0 {
		t.Fatalf("expected amount 100, got %#v", got)
	}
	if got := tbl.Rows[1][core.FieldAmount]; got != "" {
		t.Fatalf("expected missing trailing cell to be empty, got %#v", got)
	}
	if got := tbl.Rows[0]["Notas"]; got != "weekly" {
		t.Fatalf("expected unknown header to be kept, got %#v", got)
	}
}

func TestHeaderMapCanonical(t *testing.T) {
	m := BudgetHeaders()
	cases := map[string]string{
		"Valor":     core.FieldPlanned,
		" cuenta ":  core.FieldAccount,
		"planned":   core.FieldPlanned,
		"DETAIL":    core.FieldDetail,
		"Something": "Something",
	}
	for in, want := range cases {
		if got := m.Canonical(in); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}

func TestToStrings(t *testing.T) {
	got := ToStrings([]any{" a ", 1.5, nil})
	if got[0] != "a" || got[1] != "1.5" || got[2] != "" {
		t.Fatalf("unexpected: %#v", got)
	}
}
