package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income          MovementType = "Income"
	Expense         MovementType = "Expense"
	MovementUnknown MovementType = ""
)

type (
	MovementType string

	// Key identifies a budget line: account, category ("Rubro") and detail.
	Key struct {
		Account  string
		Category string
		Detail   string
	}

	Transaction struct {
		Timestamp time.Time
		// Type is empty when the source label is not recognised; RawType
		// keeps the label as read.
		Type    MovementType
		RawType string
		Key
		Amount decimal.Decimal
	}

	BudgetLine struct {
		Key
		Planned decimal.Decimal
	}
)

var (
	// ErrSourceUnavailable is returned when the data source cannot be reached
	// or authenticated. It is the only condition that halts a report.
	ErrSourceUnavailable = errors.New("data source unavailable")

	ErrUnknownTable = errors.New("unknown table")
)

// ParseMovementType maps the spellings used by the response form
// ("Entrada"/"Salida") and their English names to a MovementType.
func ParseMovementType(s string) MovementType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entrada", "ingreso", "income":
		return Income
	case "salida", "gasto", "expense":
		return Expense
	default:
		return MovementUnknown
	}
}

// Label returns the name a movement type is reported under.
func (t Transaction) Label() string {
	if t.Type != MovementUnknown {
		return string(t.Type)
	}
	return strings.TrimSpace(t.RawType)
}

// Date returns the calendar date of the transaction timestamp.
func (t Transaction) Date() Date {
	if t.Timestamp.IsZero() {
		return Date{}
	}
	y, m, d := t.Timestamp.Date()
	return NewDate(y, int(m), d)
}

func (k Key) String() string {
	return k.Account + " / " + k.Category + " / " + k.Detail
}

// Less orders keys by account, then category, then detail.
func (k Key) Less(o Key) bool {
	if k.Account != o.Account {
		return k.Account < o.Account
	}
	if k.Category != o.Category {
		return k.Category < o.Category
	}
	return k.Detail < o.Detail
}

type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty returns true if the date is zero
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// String formats the date as YYYY-MM-DD, or "" for an empty date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}
