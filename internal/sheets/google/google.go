package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"homefinance/internal/core"
	ports "homefinance/internal/sheets"
)

// Options configures a Client.
type Options struct {
	SpreadsheetID string

	TransactionsSheet  string
	IncomeBudgetSheet  string
	ExpenseBudgetSheet string

	// Service account credentials: inline JSON wins over the file path.
	CredentialsJSON string
	CredentialsFile string
}

// valuesGetter reads the cell values of an A1 range.
type valuesGetter func(ctx context.Context, rng string) ([][]any, error)

type worksheet struct {
	table   core.TableName
	name    string
	headers ports.HeaderMap
}

type Client struct {
	spreadsheetID string
	sheets        []worksheet
	get           valuesGetter
}

// Ensure interface conformance
var _ ports.SourceReader = (*Client)(nil)

// New creates a Sheets client authenticated with a service account.
// Credential or service setup failures are reported as
// core.ErrSourceUnavailable.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: sheets service: %w", core.ErrSourceUnavailable, err)
	}
	c := newClient(opts, nil)
	c.get = func(ctx context.Context, rng string) ([][]any, error) {
		resp, err := svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
			ValueRenderOption("UNFORMATTED_VALUE").
			DateTimeRenderOption("FORMATTED_STRING").
			Context(ctx).Do()
		if err != nil {
			return nil, err
		}
		return resp.Values, nil
	}
	return c, nil
}

func newClient(opts Options, get valuesGetter) *Client {
	return &Client{
		spreadsheetID: strings.TrimSpace(opts.SpreadsheetID),
		sheets: []worksheet{
			{core.TransactionsTable, orDefault(opts.TransactionsSheet, ports.DefaultTransactionsSheet), ports.TransactionHeaders()},
			{core.IncomeBudgetTable, orDefault(opts.IncomeBudgetSheet, ports.DefaultIncomeBudgetSheet), ports.BudgetHeaders()},
			{core.ExpenseBudgetTable, orDefault(opts.ExpenseBudgetSheet, ports.DefaultExpenseBudgetSheet), ports.BudgetHeaders()},
		},
		get: get,
	}
}

// newSheetsService initializes a read-only Sheets Service using Service
// Account credentials. Falls back to GOOGLE_APPLICATION_CREDENTIALS when no
// credentials are configured.
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	credsJSON := strings.TrimSpace(opts.CredentialsJSON)
	credsFile := strings.TrimSpace(opts.CredentialsFile)
	if credsJSON == "" && credsFile == "" {
		credsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentials []byte
	switch {
	case credsJSON != "":
		slog.DebugContext(ctx, "Using inline service account credentials")
		credentials = []byte(credsJSON)
	case credsFile != "":
		b, err := os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.DebugContext(ctx, "Read service account file", "path", credsFile, "size", len(b))
		credentials = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ReadSource fetches the three worksheets concurrently. A worksheet that
// cannot be read is returned as an absent table unless the failure means the
// whole spreadsheet is unreachable, in which case ReadSource fails with
// core.ErrSourceUnavailable.
func (c *Client) ReadSource(ctx context.Context) (core.Source, error) {
	if c.get == nil {
		return core.Source{}, fmt.Errorf("%w: sheets service not initialized", core.ErrSourceUnavailable)
	}

	results := make([]core.TableResult, len(c.sheets))
	g, gctx := errgroup.WithContext(ctx)
	for i, ws := range c.sheets {
		i, ws := i, ws
		g.Go(func() error {
			tbl, err := c.readTable(gctx, ws)
			if err != nil {
				if unavailable(err) {
					return fmt.Errorf("%w: read %q: %w", core.ErrSourceUnavailable, ws.name, err)
				}
				slog.WarnContext(gctx, "Worksheet could not be read", "sheet", ws.name, "table", ws.table, "error", err)
				results[i] = core.Absent(ws.table, fmt.Errorf("read %q: %w", ws.name, err))
				return nil
			}
			results[i] = core.Present(ws.table, tbl)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return core.Source{}, err
	}
	return core.Source{
		Transactions:  results[0],
		IncomeBudget:  results[1],
		ExpenseBudget: results[2],
	}, nil
}

func (c *Client) readTable(ctx context.Context, ws worksheet) (core.Table, error) {
	values, err := c.get(ctx, sheetRange(ws.name))
	if err != nil {
		return core.Table{}, err
	}
	return parseValues(values, ws.headers), nil
}

// sheetRange returns an A1 range covering a whole worksheet.
func sheetRange(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// unavailable reports whether err means the spreadsheet as a whole cannot
// be reached: authentication failures, server errors, transport errors and
// an expired context.
func unavailable(err error) bool {
	if code, ok := apiErrorCode(err); ok {
		return code == 401 || code == 403 || code >= 500
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
