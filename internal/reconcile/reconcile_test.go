package reconcile

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homefinance/internal/core"
)

var groceries = core.Key{Account: "Bank", Category: "Food", Detail: "Groceries"}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func expense(k core.Key, amount any) core.Record {
	return core.Record{
		core.FieldMovementType: "Expense",
		core.FieldAccount:      k.Account,
		core.FieldCategory:     k.Category,
		core.FieldDetail:       k.Detail,
		core.FieldAmount:       amount,
	}
}

func transactions(rows ...core.Record) []core.Transaction {
	return core.DecodeTransactions(core.Normalize(core.Table{Rows: rows}, core.FieldAmount))
}

func TestAggregateByKeySumsDuplicates(t *testing.T) {
	txs := transactions(expense(groceries, "100"), expense(groceries, "50"))

	got := AggregateByKey(txs)

	require.Len(t, got, 1)
	assert.Equal(t, groceries, got[0].Key)
	assert.True(t, got[0].Amount.Equal(dec("150")), "got %s", got[0].Amount)
}

func TestAggregateByKeyFirstSeenOrder(t *testing.T) {
	rent := core.Key{Account: "Bank", Category: "Home", Detail: "Rent"}
	cash := core.Key{Account: "Cash", Category: "Food", Detail: "Snacks"}
	txs := transactions(expense(rent, 1), expense(groceries, 2), expense(rent, 3), expense(cash, 4))

	got := AggregateByKey(txs)

	require.Len(t, got, 3)
	assert.Equal(t, []core.Key{rent, groceries, cash}, []core.Key{got[0].Key, got[1].Key, got[2].Key})
	assert.True(t, got[0].Amount.Equal(dec("4")))
}

func TestReconcile(t *testing.T) {
	rent := core.Key{Account: "Bank", Category: "Rent", Detail: "Rent"}
	salary := core.Key{Account: "Bank", Category: "Salary", Detail: "Job"}

	tests := []struct {
		name    string
		planned []core.BudgetLine
		actual  []core.Transaction
		want    []core.ComparisonRow
	}{
		{
			name:    "partially executed line",
			planned: []core.BudgetLine{{Key: groceries, Planned: dec("200")}},
			actual:  transactions(expense(groceries, "100"), expense(groceries, "50")),
			want: []core.ComparisonRow{
				{Key: groceries, Planned: dec("200"), Actual: dec("150"), Variance: dec("-50"), ExecutionPct: dec("75")},
			},
		},
		{
			name:    "zero planned without actual",
			planned: []core.BudgetLine{{Key: rent, Planned: dec("0")}},
			want: []core.ComparisonRow{
				{Key: rent, Planned: dec("0"), Actual: dec("0"), Variance: dec("0"), ExecutionPct: dec("0")},
			},
		},
		{
			name:    "empty actual",
			planned: []core.BudgetLine{{Key: groceries, Planned: dec("200")}, {Key: rent, Planned: dec("900")}},
			want: []core.ComparisonRow{
				{Key: groceries, Planned: dec("200"), Actual: dec("0"), Variance: dec("-200"), ExecutionPct: dec("0")},
				{Key: rent, Planned: dec("900"), Actual: dec("0"), Variance: dec("-900"), ExecutionPct: dec("0")},
			},
		},
		{
			name:   "unplanned actual",
			actual: transactions(expense(salary, "300")),
			want: []core.ComparisonRow{
				{Key: salary, Planned: dec("0"), Actual: dec("300"), Variance: dec("300"), ExecutionPct: dec("0")},
			},
		},
		{
			name:    "over execution is not capped",
			planned: []core.BudgetLine{{Key: groceries, Planned: dec("100")}},
			actual:  transactions(expense(groceries, "250")),
			want: []core.ComparisonRow{
				{Key: groceries, Planned: dec("100"), Actual: dec("250"), Variance: dec("150"), ExecutionPct: dec("250")},
			},
		},
		{
			name:    "duplicate planned lines are summed",
			planned: []core.BudgetLine{{Key: groceries, Planned: dec("100")}, {Key: groceries, Planned: dec("100")}},
			actual:  transactions(expense(groceries, "50")),
			want: []core.ComparisonRow{
				{Key: groceries, Planned: dec("200"), Actual: dec("50"), Variance: dec("-150"), ExecutionPct: dec("25")},
			},
		},
		{
			name: "both empty",
			want: []core.ComparisonRow{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.planned, tt.actual)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assertRowEqual(t, tt.want[i], got[i])
			}
		})
	}
}

func assertRowEqual(t *testing.T, want, got core.ComparisonRow) {
	t.Helper()
	assert.Equal(t, want.Key, got.Key)
	assert.True(t, want.Planned.Equal(got.Planned), "planned: want %s got %s", want.Planned, got.Planned)
	assert.True(t, want.Actual.Equal(got.Actual), "actual: want %s got %s", want.Actual, got.Actual)
	assert.True(t, want.Variance.Equal(got.Variance), "variance: want %s got %s", want.Variance, got.Variance)
	assert.True(t, want.ExecutionPct.Equal(got.ExecutionPct), "pct: want %s got %s", want.ExecutionPct, got.ExecutionPct)
}

func TestReconcileSortedByKey(t *testing.T) {
	b := core.Key{Account: "B", Category: "x", Detail: "x"}
	a := core.Key{Account: "A", Category: "y", Detail: "y"}
	c := core.Key{Account: "A", Category: "y", Detail: "z"}
	got := Reconcile(
		[]core.BudgetLine{{Key: b, Planned: dec("1")}},
		[]core.LineTotal{{Key: c, Amount: dec("2")}, {Key: a, Amount: dec("3")}},
	)
	require.Len(t, got, 3)
	assert.Equal(t, []core.Key{a, c, b}, []core.Key{got[0].Key, got[1].Key, got[2].Key})
}

func TestExecutionPct(t *testing.T) {
	assert.True(t, ExecutionPct(dec("150"), dec("200")).Equal(dec("75")))
	assert.True(t, ExecutionPct(dec("5"), dec("0")).IsZero())
	assert.True(t, ExecutionPct(dec("-50"), dec("200")).Equal(dec("-25")))
	assert.True(t, ExecutionPct(dec("0.000001"), dec("0.000000")).IsZero())
}

func TestSummarizeComparison(t *testing.T) {
	rows := []core.ComparisonRow{
		{Planned: dec("200"), Actual: dec("150")},
		{Planned: dec("0"), Actual: dec("50")},
	}
	got := SummarizeComparison(rows)
	assert.True(t, got.Planned.Equal(dec("200")))
	assert.True(t, got.Actual.Equal(dec("200")))
	assert.True(t, got.Variance.IsZero())
	assert.True(t, got.ExecutionPct.Equal(dec("100")))

	empty := SummarizeComparison(nil)
	assert.True(t, empty.Planned.IsZero())
	assert.True(t, empty.ExecutionPct.IsZero())
}

func TestSummarizeByAccount(t *testing.T) {
	cash := core.Key{Account: "Cash", Category: "Food", Detail: "Snacks"}
	card := core.Key{Account: "Card", Category: "Fun", Detail: "Cinema"}
	bankRent := core.Key{Account: "Bank", Category: "Home", Detail: "Rent"}
	lines := []core.BudgetLine{
		{Key: cash, Planned: dec("30")},
		{Key: groceries, Planned: dec("200")},
		{Key: card, Planned: dec("30")},
		{Key: bankRent, Planned: dec("900")},
	}

	got := SummarizeByAccount(lines)

	require.Len(t, got, 3)
	assert.Equal(t, "Bank", got[0].Account)
	assert.True(t, got[0].Total.Equal(dec("1100")))
	assert.Equal(t, []core.BudgetLine{lines[1], lines[3]}, got[0].Rows)
	// Equal totals keep first-seen order.
	assert.Equal(t, "Cash", got[1].Account)
	assert.Equal(t, "Card", got[2].Account)
}

func TestSummarizeByMovementType(t *testing.T) {
	txs := transactions(
		expense(groceries, "100"),
		core.Record{core.FieldMovementType: "Entrada", core.FieldAccount: "Bank", core.FieldAmount: "1000"},
		expense(groceries, "abc"),
		core.Record{core.FieldMovementType: "Transferencia", core.FieldAccount: "Bank", core.FieldAmount: "10"},
		core.Record{core.FieldMovementType: "Income", core.FieldAccount: "Cash", core.FieldAmount: 5},
	)

	got := SummarizeByMovementType(txs)

	require.Len(t, got, 3)
	assert.Equal(t, "Expense", got[0].Type)
	assert.True(t, got[0].Total.Equal(dec("100")))
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, "Income", got[1].Type)
	assert.True(t, got[1].Total.Equal(dec("1005")))
	assert.Equal(t, "Transferencia", got[2].Type)
}

func TestEmptyInputs(t *testing.T) {
	assert.Empty(t, AggregateByKey([]core.Transaction(nil)))
	assert.Empty(t, SummarizeByAccount([]core.BudgetLine{}))
	assert.Empty(t, SummarizeByMovementType(nil))
	assert.True(t, Total([]core.Transaction(nil)).IsZero())
}

// randomTransactions builds a deterministic pseudo-random transaction log
// drawing keys from a small pool so that keys repeat.
func randomTransactions(r *rand.Rand, n int) []core.Transaction {
	accounts := []string{"Bank", "Cash", "Card"}
	categories := []string{"Food", "Home", "Fun"}
	rows := make([]core.Record, 0, n)
	for i := 0; i < n; i++ {
		k := core.Key{
			Account:  accounts[r.Intn(len(accounts))],
			Category: categories[r.Intn(len(categories))],
			Detail:   fmt.Sprintf("d%d", r.Intn(3)),
		}
		var amount any
		switch r.Intn(4) {
		case 0:
			amount = "not a number"
		case 1:
			amount = float64(r.Intn(100000)) / 100
		default:
			amount = fmt.Sprintf("%d.%02d", r.Intn(5000)-1000, r.Intn(100))
		}
		rows = append(rows, expense(k, amount))
	}
	return transactions(rows...)
}

func TestProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		actual := randomTransactions(r, r.Intn(40))
		var planned []core.BudgetLine
		for _, tx := range randomTransactions(r, r.Intn(20)) {
			planned = append(planned, core.BudgetLine{Key: tx.Key, Planned: tx.Amount})
		}

		agg := AggregateByKey(actual)
		seen := map[core.Key]bool{}
		for _, l := range agg {
			require.False(t, seen[l.Key], "duplicate key %v", l.Key)
			seen[l.Key] = true
		}
		require.True(t, Total(agg).Equal(Total(actual)), "aggregate must conserve the total")

		byAccount := SummarizeByAccount(actual)
		sum := decimal.Zero
		for _, a := range byAccount {
			sum = sum.Add(a.Total)
		}
		require.True(t, sum.Equal(Total(actual)), "account totals must add up")

		rows := Reconcile(planned, actual)
		union := map[core.Key]bool{}
		for _, p := range planned {
			union[p.Key] = true
		}
		for _, a := range actual {
			union[a.Key] = true
		}
		require.Len(t, rows, len(union))
		for _, row := range rows {
			require.True(t, union[row.Key], "invented key %v", row.Key)
			delete(union, row.Key)
			require.True(t, row.Variance.Equal(row.Actual.Sub(row.Planned)))
			if row.Planned.IsZero() {
				require.True(t, row.ExecutionPct.IsZero())
			}
		}
		require.Empty(t, union)
	}
}
