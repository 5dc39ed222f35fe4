package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homefinance/internal/config"
	"homefinance/internal/core"
)

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	require.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "mongo"})
	require.Error(t, err)

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:           "sheets",
		GoogleSpreadsheetID:   "abc",
		IncomeBudgetSheetName: "Ingresos",
		DataDir:               "/tmp/data",
	})
	require.NoError(t, err)
	assert.Equal(t, SheetsBackend, cfg.Type)
	assert.Equal(t, "abc", cfg.GoogleSpreadsheetID)
	assert.Equal(t, "Ingresos", cfg.IncomeBudgetSheetName)
	assert.Equal(t, "/tmp/data", cfg.DataDirectory)
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{Type: "nope"}.Validate())
	assert.Error(t, Config{Type: SQLiteBackend}.Validate())
	assert.Error(t, Config{Type: SheetsBackend}.Validate())
	assert.NoError(t, Config{Type: MemoryBackend}.Validate())
	assert.Equal(t, []string{"memory", "sheets", "sqlite"}, GetBackendTypeStrings())
}

func TestCreateMemoryBackendFallsBackToDemo(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Type:          MemoryBackend,
		DataDirectory: t.TempDir(),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Importer)
	assert.NoError(t, res.Close())

	src, err := res.Backend.ReadSource(context.Background())
	require.NoError(t, err)
	assert.Empty(t, src.Absent())
	assert.Equal(t, core.TableOK, src.Transactions.Status())
}

func TestCreateSQLiteBackend(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "report.db"),
	})
	require.NoError(t, err)
	defer res.Close()

	ctx := context.Background()
	require.NoError(t, res.Importer.ImportSource(ctx, core.Source{
		Transactions:  core.Present(core.TransactionsTable, core.Table{Rows: []core.Record{{core.FieldAccount: "Bank", core.FieldAmount: "10"}}}),
		IncomeBudget:  core.Absent(core.IncomeBudgetTable, errors.New("skip")),
		ExpenseBudget: core.Absent(core.ExpenseBudgetTable, errors.New("skip")),
	}))

	src, err := res.Backend.ReadSource(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, src.Transactions.Table.Len())
}

func TestCreateSheetsBackendRequiresID(t *testing.T) {
	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SheetsBackend})
	require.Error(t, err)
}

func TestBackendResultCloseNil(t *testing.T) {
	var res *BackendResult
	assert.NoError(t, res.Close())
}
