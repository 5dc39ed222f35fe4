package google

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/googleapi"

	"homefinance/internal/core"
	ports "homefinance/internal/sheets"
)

// fakeSheets serves value matrices keyed by A1 range.
type fakeSheets struct {
	mu     sync.Mutex
	values map[string][][]any
	errs   map[string]error
	calls  []string
}

func (f *fakeSheets) get(_ context.Context, rng string) ([][]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, rng)
	if err, ok := f.errs[rng]; ok {
		return nil, err
	}
	return f.values[rng], nil
}

func budgetValues(rows ...[]any) [][]any {
	return append([][]any{{"Cuenta", "Rubro", "Detalle", "Valor"}}, rows...)
}

func newFake() *fakeSheets {
	return &fakeSheets{
		values: map[string][][]any{
			"'Respuestas de formulario 1'": {
				{"Marca temporal", "Tipo de movimiento", "Cuenta", "Rubro", "Detalle", "Valor"},
				{"3/2/2024 18:40:11", "Salida", "Bank", "Food", "Groceries", 150.0},
			},
			"'Ppto Entrada'": budgetValues([]any{"Bank", "Salary", "Job", 1000.0}),
			"'Ppto Salida'":  budgetValues(),
		},
		errs: map[string]error{},
	}
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{})
	if err == nil {
		t.Fatal("expected error for missing spreadsheet ID")
	}
	if err.Error() != "missing spreadsheet ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_InvalidCredentials(t *testing.T) {
	_, err := New(context.Background(), Options{
		SpreadsheetID:   "test-id",
		CredentialsJSON: "invalid-json",
	})
	if err == nil {
		t.Fatal("expected error with invalid JSON")
	}
	if !errors.Is(err, core.ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got: %v", err)
	}
}

func TestNew_MissingCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Options{
		SpreadsheetID:   "test-id",
		CredentialsFile: t.TempDir() + "/missing.json",
	})
	if !errors.Is(err, core.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got: %v", err)
	}
	if !strings.Contains(err.Error(), "read service account file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_ReadSource(t *testing.T) {
	fake := newFake()
	c := newClient(Options{SpreadsheetID: "id"}, fake.get)

	src, err := c.ReadSource(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.calls) != 3 {
		t.Fatalf("expected 3 reads, got %v", fake.calls)
	}
	if src.Transactions.Status() != core.TableOK || src.Transactions.Name != core.TransactionsTable {
		t.Fatalf("unexpected transactions result: %+v", src.Transactions)
	}
	if src.IncomeBudget.Status() != core.TableOK {
		t.Fatalf("unexpected income result: %+v", src.IncomeBudget)
	}
	if src.ExpenseBudget.Status() != core.TableEmpty {
		t.Fatalf("expected empty expense budget, got %s", src.ExpenseBudget.Status())
	}
	if got := src.IncomeBudget.Table.Rows[0][core.FieldPlanned]; got != 1000.0 {
		t.Fatalf("expected planned 1000, got %#v", got)
	}
}

func TestClient_ReadSource_CustomSheetNames(t *testing.T) {
	fake := newFake()
	fake.values["'Gastos ''24'"] = budgetValues([]any{"Bank", "Food", "Groceries", 200.0})
	c := newClient(Options{SpreadsheetID: "id", ExpenseBudgetSheet: "Gastos '24"}, fake.get)

	src, err := c.ReadSource(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.ExpenseBudget.Table.Len() != 1 {
		t.Fatalf("expected renamed sheet to be read, got %+v", src.ExpenseBudget)
	}
}

func TestClient_ReadSource_MissingSheetIsAbsent(t *testing.T) {
	fake := newFake()
	fake.errs["'Ppto Entrada'"] = &googleapi.Error{Code: 400, Message: "Unable to parse range: 'Ppto Entrada'"}
	c := newClient(Options{SpreadsheetID: "id"}, fake.get)

	src, err := c.ReadSource(context.Background())
	if err != nil {
		t.Fatalf("a missing worksheet must not fail the source: %v", err)
	}
	if src.IncomeBudget.Status() != core.TableAbsent {
		t.Fatalf("expected absent income budget, got %s", src.IncomeBudget.Status())
	}
	if src.Transactions.Status() != core.TableOK {
		t.Fatalf("other tables must still be read, got %s", src.Transactions.Status())
	}
	absent := src.Absent()
	if len(absent) != 1 || absent[0] != core.IncomeBudgetTable {
		t.Fatalf("unexpected absent tables: %v", absent)
	}
}

func TestClient_ReadSource_Unavailable(t *testing.T) {
	cases := map[string]error{
		"forbidden":    &googleapi.Error{Code: 403, Message: "The caller does not have permission"},
		"unauthorized": &googleapi.Error{Code: 401},
		"server":       &googleapi.Error{Code: 503},
		"transport":    &url.Error{Op: "Get", URL: "https://sheets.googleapis.com", Err: errors.New("connection refused")},
		"deadline":     fmt.Errorf("do: %w", context.DeadlineExceeded),
	}
	for name, cause := range cases {
		t.Run(name, func(t *testing.T) {
			fake := newFake()
			fake.errs["'Respuestas de formulario 1'"] = cause
			c := newClient(Options{SpreadsheetID: "id"}, fake.get)

			_, err := c.ReadSource(context.Background())
			if !errors.Is(err, core.ErrSourceUnavailable) {
				t.Fatalf("expected ErrSourceUnavailable, got %v", err)
			}
		})
	}
}

func TestClient_ReadSource_NotInitialized(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	_, err := c.ReadSource(context.Background())
	if !errors.Is(err, core.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestSheetRange(t *testing.T) {
	if got := sheetRange(ports.DefaultIncomeBudgetSheet); got != "'Ppto Entrada'" {
		t.Fatalf("unexpected range %q", got)
	}
	if got := sheetRange("It's"); got != "'It''s'" {
		t.Fatalf("unexpected range %q", got)
	}
}
