package core

import (
	"math"
	"strings"
	"time"
)

// Layouts tried, in order, for timestamp cells. Month-first is tried before
// day-first; a day-first value only matches when the month-first reading is
// impossible (e.g. "15/03/2024").
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
}

// spreadsheetEpoch is day zero of spreadsheet serial dates.
var spreadsheetEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseTimestamp converts a timestamp cell to a time. Unparseable values
// return the zero time; the timestamp is informational only.
func ParseTimestamp(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x <= 0 {
			return time.Time{}
		}
		days := math.Floor(x)
		secs := math.Round((x - days) * 86400)
		return spreadsheetEpoch.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}
		}
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts
			}
		}
	}
	return time.Time{}
}

// DecodeTransactions converts a transaction table into typed records. The
// amount column is coerced like Normalize does, so raw and normalized tables
// decode to the same records.
func DecodeTransactions(t Table) []Transaction {
	out := make([]Transaction, 0, len(t.Rows))
	for _, r := range t.Rows {
		raw := strings.TrimSpace(r.String(FieldMovementType))
		out = append(out, Transaction{
			Timestamp: ParseTimestamp(r[FieldTimestamp]),
			Type:      ParseMovementType(raw),
			RawType:   raw,
			Key:       recordKey(r),
			Amount:    AmountOrZero(r[FieldAmount]),
		})
	}
	return out
}

// DecodeBudgetLines converts a budget table into typed records.
func DecodeBudgetLines(t Table) []BudgetLine {
	out := make([]BudgetLine, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, BudgetLine{
			Key:     recordKey(r),
			Planned: AmountOrZero(r[FieldPlanned]),
		})
	}
	return out
}

func recordKey(r Record) Key {
	return Key{
		Account:  strings.TrimSpace(r.String(FieldAccount)),
		Category: strings.TrimSpace(r.String(FieldCategory)),
		Detail:   strings.TrimSpace(r.String(FieldDetail)),
	}
}

// FilterByType returns the transactions of the given movement type in their
// original order.
func FilterByType(txs []Transaction, typ MovementType) []Transaction {
	var out []Transaction
	for _, t := range txs {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}
