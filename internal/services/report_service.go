package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"homefinance/internal/amqp"
	"homefinance/internal/core"
	"homefinance/internal/log"
	"homefinance/internal/reconcile"
	"homefinance/internal/sheets"
)

// SnapshotPublisher delivers report snapshots to downstream consumers.
type SnapshotPublisher interface {
	PublishReportSnapshot(ctx context.Context, msg *amqp.ReportSnapshotMessage) error
}

type (
	// BudgetSection is a planned budget table with its account breakdown.
	BudgetSection struct {
		Table     core.TableName
		Status    core.TableStatus
		Lines     []core.BudgetLine
		ByAccount []core.AccountSummary[core.BudgetLine]
		Total     decimal.Decimal
	}

	// TransactionSection holds the recorded movements.
	TransactionSection struct {
		Status       core.TableStatus
		Transactions []core.Transaction
		ByMovement   []core.MovementTotal
		Total        decimal.Decimal
	}

	// ComparisonSection is the planned vs. actual table of one movement type.
	ComparisonSection struct {
		Type   core.MovementType
		Rows   []core.ComparisonRow
		Totals core.ComparisonTotals
	}

	Report struct {
		GeneratedAt       time.Time
		IncomeBudget      BudgetSection
		ExpenseBudget     BudgetSection
		Transactions      TransactionSection
		IncomeComparison  ComparisonSection
		ExpenseComparison ComparisonSection
		// Absent lists the tables the source failed to produce.
		Absent []core.TableName
	}
)

// ReportService builds reconciliation reports from a data source.
type ReportService struct {
	source       sheets.SourceReader
	publisher    SnapshotPublisher
	fetchTimeout time.Duration
	logger       *log.Logger
	now          func() time.Time
}

// NewReportService creates a report service. publisher may be nil; a
// non-positive fetchTimeout disables the fetch deadline.
func NewReportService(source sheets.SourceReader, publisher SnapshotPublisher, fetchTimeout time.Duration) *ReportService {
	return &ReportService{
		source:       source,
		publisher:    publisher,
		fetchTimeout: fetchTimeout,
		logger: log.New(log.Config{
			Handler:   slog.Default().Handler(),
			Component: log.ComponentReport,
		}),
		now: time.Now,
	}
}

// WithLogger replaces the service logger.
func (s *ReportService) WithLogger(l *log.Logger) *ReportService {
	s.logger = l.WithComponent(log.ComponentReport)
	return s
}

// Build reads the source and computes every report section. It fails only
// when the source as a whole is unavailable; absent and empty tables yield
// empty sections.
func (s *ReportService) Build(ctx context.Context) (*Report, error) {
	start := s.now()
	src, err := s.fetch(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read data source", log.NewFields().WithOperation(log.OpFetch).WithError(err).ToSlice()...)
		return nil, fmt.Errorf("read source: %w", err)
	}

	for _, t := range src.Tables() {
		if t.Status() == core.TableAbsent {
			s.logger.WarnContext(ctx, "Table unavailable, section left empty", log.NewFields().WithTable(t).ToSlice()...)
		}
	}

	report := &Report{
		GeneratedAt:   start,
		IncomeBudget:  s.budgetSection(ctx, src.IncomeBudget),
		ExpenseBudget: s.budgetSection(ctx, src.ExpenseBudget),
		Transactions:  s.transactionSection(ctx, src.Transactions),
		Absent:        src.Absent(),
	}

	txs := report.Transactions.Transactions
	report.IncomeComparison = comparisonSection(core.Income, report.IncomeBudget.Lines, core.FilterByType(txs, core.Income))
	report.ExpenseComparison = comparisonSection(core.Expense, report.ExpenseBudget.Lines, core.FilterByType(txs, core.Expense))

	s.logger.InfoContext(ctx, "Report built",
		log.FieldRows, len(txs),
		log.FieldAbsentTables, report.Absent,
		log.FieldDuration, time.Since(start).Milliseconds())

	s.publish(ctx, report)
	return report, nil
}

func (s *ReportService) fetch(ctx context.Context) (core.Source, error) {
	if s.source == nil {
		return core.Source{}, fmt.Errorf("%w: no data source configured", core.ErrSourceUnavailable)
	}
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}
	return s.source.ReadSource(ctx)
}

func (s *ReportService) normalize(ctx context.Context, t core.TableResult, amountColumn string) core.Table {
	tbl, stats := core.NormalizeWithStats(t.Table, amountColumn)
	s.logger.DebugContext(ctx, "Normalized amounts", log.NewFields().WithNormalize(t.Name, stats).ToSlice()...)
	return tbl
}

func (s *ReportService) budgetSection(ctx context.Context, t core.TableResult) BudgetSection {
	sec := BudgetSection{Table: t.Name, Status: t.Status()}
	if sec.Status == core.TableAbsent {
		return sec
	}
	sec.Lines = core.DecodeBudgetLines(s.normalize(ctx, t, core.FieldPlanned))
	sec.ByAccount = reconcile.SummarizeByAccount(sec.Lines)
	sec.Total = reconcile.Total(sec.Lines)
	return sec
}

func (s *ReportService) transactionSection(ctx context.Context, t core.TableResult) TransactionSection {
	sec := TransactionSection{Status: t.Status()}
	if sec.Status == core.TableAbsent {
		return sec
	}
	sec.Transactions = core.DecodeTransactions(s.normalize(ctx, t, core.FieldAmount))
	sec.ByMovement = reconcile.SummarizeByMovementType(sec.Transactions)
	sec.Total = reconcile.Total(sec.Transactions)
	return sec
}

func comparisonSection(typ core.MovementType, planned []core.BudgetLine, actual []core.Transaction) ComparisonSection {
	rows := reconcile.Reconcile(planned, actual)
	return ComparisonSection{
		Type:   typ,
		Rows:   rows,
		Totals: reconcile.SummarizeComparison(rows),
	}
}

func (s *ReportService) publish(ctx context.Context, r *Report) {
	if s.publisher == nil {
		return
	}
	msg := r.Snapshot()
	if err := s.publisher.PublishReportSnapshot(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish report snapshot",
			log.NewFields().WithOperation(log.OpPublish).WithError(err).ToSlice()...)
		return
	}
	s.logger.DebugContext(ctx, "Report snapshot published", log.FieldReportID, msg.ID)
}

// Snapshot returns the message published for the report.
func (r *Report) Snapshot() *amqp.ReportSnapshotMessage {
	return amqp.NewReportSnapshotMessage(
		r.GeneratedAt,
		r.IncomeComparison.Totals,
		r.ExpenseComparison.Totals,
		r.Transactions.ByMovement,
		len(r.Transactions.Transactions),
		r.Absent,
	)
}
