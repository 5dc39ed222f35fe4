package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"homefinance/internal/core"
	ports "homefinance/internal/sheets"

	_ "modernc.org/sqlite"
)

const (
	kindIncome  = "income"
	kindExpense = "expense"
)

type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ ports.SourceReader   = (*SQLiteRepository)(nil)
	_ ports.SourceImporter = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReadSource implements sheets.SourceReader. A table whose query fails is
// returned as absent; an unreachable database fails the whole source.
func (r *SQLiteRepository) ReadSource(ctx context.Context) (core.Source, error) {
	if r.db == nil {
		return core.Source{}, fmt.Errorf("%w: database not initialized", core.ErrSourceUnavailable)
	}
	if err := r.db.PingContext(ctx); err != nil {
		return core.Source{}, fmt.Errorf("%w: ping database: %w", core.ErrSourceUnavailable, err)
	}

	src := core.Source{
		Transactions:  r.readTable(ctx, core.TransactionsTable, transactionColumns, selectTransactions),
		IncomeBudget:  r.readTable(ctx, core.IncomeBudgetTable, budgetColumns, selectBudgetLines, kindIncome),
		ExpenseBudget: r.readTable(ctx, core.ExpenseBudgetTable, budgetColumns, selectBudgetLines, kindExpense),
	}
	return src, nil
}

var (
	transactionColumns = []string{core.FieldTimestamp, core.FieldMovementType, core.FieldAccount, core.FieldCategory, core.FieldDetail, core.FieldAmount}
	budgetColumns      = []string{core.FieldAccount, core.FieldCategory, core.FieldDetail, core.FieldPlanned}
)

const (
	selectTransactions = `SELECT recorded_at, movement_type, account, category, detail, amount
FROM transactions ORDER BY id`
	selectBudgetLines = `SELECT account, category, detail, planned
FROM budget_lines WHERE kind = ? ORDER BY id`
)

func (r *SQLiteRepository) readTable(ctx context.Context, name core.TableName, cols []string, query string, args ...any) core.TableResult {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.WarnContext(ctx, "Failed to query table", "table", name, "error", err)
		return core.Absent(name, fmt.Errorf("query %s: %w", name, err))
	}
	defer rows.Close()

	t := core.Table{Columns: cols}
	for rows.Next() {
		vals := make([]string, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return core.Absent(name, fmt.Errorf("scan %s: %w", name, err))
		}
		rec := make(core.Record, len(cols))
		for i, c := range cols {
			rec[c] = vals[i]
		}
		t.Rows = append(t.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return core.Absent(name, fmt.Errorf("iterate %s: %w", name, err))
	}
	return core.Present(name, t)
}

// ImportSource implements sheets.SourceImporter. The stored tables are
// replaced in a single transaction; absent tables are left untouched.
func (r *SQLiteRepository) ImportSource(ctx context.Context, src core.Source) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if src.Transactions.Status() != core.TableAbsent {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
			return fmt.Errorf("clear transactions: %w", err)
		}
		for _, rec := range src.Transactions.Table.Rows {
			if err := insertTransaction(ctx, tx, rec); err != nil {
				return err
			}
		}
	}
	budgets := []struct {
		kind string
		res  core.TableResult
	}{
		{kindIncome, src.IncomeBudget},
		{kindExpense, src.ExpenseBudget},
	}
	for _, b := range budgets {
		if b.res.Status() == core.TableAbsent {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM budget_lines WHERE kind = ?`, b.kind); err != nil {
			return fmt.Errorf("clear %s budget: %w", b.kind, err)
		}
		for _, rec := range b.res.Table.Rows {
			if err := insertBudgetLine(ctx, tx, b.kind, rec); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Source imported into SQLite",
		"transactions", src.Transactions.Table.Len(),
		"income_budget", src.IncomeBudget.Table.Len(),
		"expense_budget", src.ExpenseBudget.Table.Len())
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertTransaction(ctx context.Context, db execer, rec core.Record) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO transactions (recorded_at, movement_type, account, category, detail, amount) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.String(core.FieldTimestamp),
		rec.String(core.FieldMovementType),
		rec.String(core.FieldAccount),
		rec.String(core.FieldCategory),
		rec.String(core.FieldDetail),
		rec.String(core.FieldAmount),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func insertBudgetLine(ctx context.Context, db execer, kind string, rec core.Record) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO budget_lines (kind, account, category, detail, planned) VALUES (?, ?, ?, ?, ?)`,
		kind,
		rec.String(core.FieldAccount),
		rec.String(core.FieldCategory),
		rec.String(core.FieldDetail),
		rec.String(core.FieldPlanned),
	)
	if err != nil {
		return fmt.Errorf("insert %s budget line: %w", kind, err)
	}
	return nil
}

// InsertTransaction stores a single transaction record.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, rec core.Record) error {
	return insertTransaction(ctx, r.db, rec)
}

// InsertBudgetLine stores a single budget line of the given table.
func (r *SQLiteRepository) InsertBudgetLine(ctx context.Context, table core.TableName, rec core.Record) error {
	switch table {
	case core.IncomeBudgetTable:
		return insertBudgetLine(ctx, r.db, kindIncome, rec)
	case core.ExpenseBudgetTable:
		return insertBudgetLine(ctx, r.db, kindExpense, rec)
	default:
		return fmt.Errorf("%w: %s", core.ErrUnknownTable, table)
	}
}
