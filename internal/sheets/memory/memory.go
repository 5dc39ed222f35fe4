package memory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"homefinance/internal/core"
	ports "homefinance/internal/sheets"
)

// Seed file names inside the data directory.
const (
	TransactionsFile  = "transactions.csv"
	IncomeBudgetFile  = "income_budget.csv"
	ExpenseBudgetFile = "expense_budget.csv"
)

// Store keeps the three report tables in memory.
type Store struct {
	mu  sync.Mutex
	src core.Source
}

var (
	_ ports.SourceReader   = (*Store)(nil)
	_ ports.SourceImporter = (*Store)(nil)
)

func New(src core.Source) *Store {
	return &Store{src: src}
}

// NewFromFiles loads the seed CSV files from base. A missing file leaves its
// table absent; when none of the files exist a small demo data set is used.
func NewFromFiles(base string) *Store {
	src, found := LoadDir(base)
	if found == 0 {
		return New(DemoSource())
	}
	return New(src)
}

// LoadDir reads the seed CSV files of a directory and returns how many of
// them were found.
func LoadDir(base string) (core.Source, int) {
	found := 0
	load := func(name core.TableName, file string, headers ports.HeaderMap) core.TableResult {
		t, err := ReadCSVFile(filepath.Join(base, file), headers)
		if err != nil {
			return core.Absent(name, err)
		}
		found++
		return core.Present(name, t)
	}
	src := core.Source{
		Transactions:  load(core.TransactionsTable, TransactionsFile, ports.TransactionHeaders()),
		IncomeBudget:  load(core.IncomeBudgetTable, IncomeBudgetFile, ports.BudgetHeaders()),
		ExpenseBudget: load(core.ExpenseBudgetTable, ExpenseBudgetFile, ports.BudgetHeaders()),
	}
	return src, found
}

// ReadCSVFile reads a CSV file whose first line holds the headers.
func ReadCSVFile(path string, headers ports.HeaderMap) (core.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Table{}, err
	}
	defer f.Close()
	t, err := ReadCSV(f, headers)
	if err != nil {
		return core.Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadCSV reads CSV records with a header line. Lines starting with '#' are
// comments.
func ReadCSV(r io.Reader, headers ports.HeaderMap) (core.Table, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return core.Table{}, nil
	}
	if err != nil {
		return core.Table{}, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]any
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return core.Table{}, fmt.Errorf("read record: %w", err)
		}
		row := make([]any, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		rows = append(rows, row)
	}
	return ports.Records(header, rows, headers), nil
}

// ReadSource returns the stored tables.
func (s *Store) ReadSource(_ context.Context) (core.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src, nil
}

// ImportSource replaces the stored tables.
func (s *Store) ImportSource(_ context.Context, src core.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src = src
	return nil
}

// DemoSource is the data set used when no seed files are present.
func DemoSource() core.Source {
	budget := func(rows ...[]any) core.Table {
		return ports.Records([]string{"Cuenta", "Rubro", "Detalle", "Valor"}, rows, ports.BudgetHeaders())
	}
	txs := ports.Records(
		[]string{"Marca temporal", "Tipo de movimiento", "Cuenta", "Rubro", "Detalle", "Valor"},
		[][]any{
			{"3/1/2024 09:00:00", "Entrada", "Banco", "Salario", "Nomina", "3000000"},
			{"3/2/2024 18:30:00", "Salida", "Banco", "Alimentacion", "Mercado", "420000"},
			{"3/9/2024 11:15:00", "Salida", "Efectivo", "Alimentacion", "Mercado", "95000"},
			{"3/5/2024 08:00:00", "Salida", "Banco", "Vivienda", "Arriendo", "1200000"},
			{"3/12/2024 20:45:00", "Salida", "Tarjeta", "Ocio", "Cine", "60000"},
		},
		ports.TransactionHeaders(),
	)
	return core.Source{
		Transactions: core.Present(core.TransactionsTable, txs),
		IncomeBudget: core.Present(core.IncomeBudgetTable, budget(
			[]any{"Banco", "Salario", "Nomina", "3000000"},
			[]any{"Banco", "Otros", "Intereses", "20000"},
		)),
		ExpenseBudget: core.Present(core.ExpenseBudgetTable, budget(
			[]any{"Banco", "Alimentacion", "Mercado", "500000"},
			[]any{"Efectivo", "Alimentacion", "Mercado", "100000"},
			[]any{"Banco", "Vivienda", "Arriendo", "1200000"},
			[]any{"Tarjeta", "Ocio", "Cine", "0"},
		)),
	}
}
