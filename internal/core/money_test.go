package core

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  any
		out string
		ok  bool
	}{
		{"100", "100", true},
		{"1.0", "1", true},
		{" 12.50 ", "12.5", true},
		{"-40", "-40", true},
		{"+7", "7", true},
		{"1e3", "1000", true},
		{150.0, "150", true},
		{int64(42), "42", true},
		{7, "7", true},
		{decimal.RequireFromString("3.25"), "3.25", true},
		{"abc", "0", false},
		{"1,234", "0", false},
		{"1.2.3", "0", false},
		{"", "0", false},
		{"   ", "0", false},
		{nil, "0", false},
		{true, "0", false},
		{math.NaN(), "0", false},
		{math.Inf(1), "0", false},
		{math.Inf(-1), "0", false},
		{"1e308", "1e308", true},
		{"1.7976931348623157e308", "1.7976931348623157e308", true},
		{"1e-300", "1e-300", true},
		{math.MaxFloat64, "1.7976931348623157e308", true},
		{math.SmallestNonzeroFloat64, "5e-324", true},
		{"1e309", "0", false},
		{"-1e400", "0", false},
		{"1e50000000", "0", false},
		{"1e2000000000", "0", false},
		{"0e50000000", "0", false},
		{"1e-50000000", "0", false},
		{" 1E+99999 ", "0", false},
		{decimal.New(1, 50000000), "0", false},
	}
	for _, tc := range cases {
		got, ok := ParseAmount(tc.in)
		if ok != tc.ok {
			t.Fatalf("%#v: expected ok=%v, got %v", tc.in, tc.ok, ok)
		}
		if !got.Equal(decimal.RequireFromString(tc.out)) {
			t.Fatalf("%#v: expected %s, got %s", tc.in, tc.out, got)
		}
	}
}

func TestAmountOrZero(t *testing.T) {
	if got := AmountOrZero("abc"); !got.IsZero() {
		t.Fatalf("expected zero for malformed value, got %s", got)
	}
	if got := AmountOrZero("50"); !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected 50, got %s", got)
	}
}

func TestOversizedAmountDoesNotInflateTotal(t *testing.T) {
	rows, stats := NormalizeWithStats(Table{Rows: []Record{
		{FieldMovementType: "Expense", FieldAccount: "Bank", FieldAmount: "1e50000000"},
		{FieldMovementType: "Expense", FieldAccount: "Bank", FieldAmount: "1"},
		{FieldMovementType: "Expense", FieldAccount: "Bank", FieldAmount: "1e-50000000"},
	}}, FieldAmount)
	if stats.Coerced != 2 {
		t.Fatalf("expected 2 coerced values, got %d", stats.Coerced)
	}

	total := decimal.Zero
	for _, tx := range DecodeTransactions(rows) {
		total = total.Add(tx.Amount)
	}
	if !total.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected total 1, got %s", total)
	}
}
