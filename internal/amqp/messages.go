package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"homefinance/internal/core"
)

// Totals is the planned vs. actual summary of one comparison section.
type Totals struct {
	Planned      decimal.Decimal `json:"planned"`
	Actual       decimal.Decimal `json:"actual"`
	Variance     decimal.Decimal `json:"variance"`
	ExecutionPct decimal.Decimal `json:"execution_pct"`
}

// MovementTotal is the total of one movement type.
type MovementTotal struct {
	Type  string          `json:"type"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// ReportSnapshotMessage carries the headline figures of a built report.
// Amounts are encoded as JSON strings to keep them exact.
type ReportSnapshotMessage struct {
	ID           string          `json:"id"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Income       Totals          `json:"income"`
	Expense      Totals          `json:"expense"`
	Transactions int             `json:"transactions"`
	Movements    []MovementTotal `json:"movements"`
	AbsentTables []string        `json:"absent_tables,omitempty"`
}

// NewReportSnapshotMessage creates a snapshot stamped with generatedAt.
func NewReportSnapshotMessage(generatedAt time.Time, income, expense core.ComparisonTotals, movements []core.MovementTotal, transactions int, absent []core.TableName) *ReportSnapshotMessage {
	msg := &ReportSnapshotMessage{
		ID:           uuid.NewString(),
		GeneratedAt:  generatedAt,
		Income:       totalsFrom(income),
		Expense:      totalsFrom(expense),
		Transactions: transactions,
		Movements:    make([]MovementTotal, 0, len(movements)),
	}
	for _, m := range movements {
		msg.Movements = append(msg.Movements, MovementTotal{Type: m.Type, Total: m.Total, Count: m.Count})
	}
	for _, name := range absent {
		msg.AbsentTables = append(msg.AbsentTables, string(name))
	}
	return msg
}

func totalsFrom(t core.ComparisonTotals) Totals {
	return Totals{
		Planned:      t.Planned,
		Actual:       t.Actual,
		Variance:     t.Variance,
		ExecutionPct: t.ExecutionPct,
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportSnapshotMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportSnapshotMessageFromJSON creates a message from JSON bytes
func ReportSnapshotMessageFromJSON(data []byte) (*ReportSnapshotMessage, error) {
	var msg ReportSnapshotMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
