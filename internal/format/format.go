// Package format renders amounts for a given locale. Every function takes
// the locale explicitly; nothing here reads or sets process-wide state.
package format

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const maxNumberDecimals = 2

// Options controls how report amounts are printed.
type Options struct {
	Locale           language.Tag
	Symbol           string
	CurrencyDecimals int
	PercentDecimals  int
}

// DefaultOptions prints whole currency units and two-decimal percentages.
func DefaultOptions(tag language.Tag) Options {
	return Options{
		Locale:           tag,
		Symbol:           "$",
		CurrencyDecimals: 0,
		PercentDecimals:  2,
	}
}

// Currency formats d in the locale of tag, e.g. "$1.234.567" for es-ES.
func Currency(tag language.Tag, d decimal.Decimal) string {
	return DefaultOptions(tag).Currency(d)
}

// Percent formats d as a percentage, e.g. "12,50%" for es-ES.
func Percent(tag language.Tag, d decimal.Decimal) string {
	return DefaultOptions(tag).Percent(d)
}

// Number formats d with grouping and at most two decimals.
func Number(tag language.Tag, d decimal.Decimal) string {
	return DefaultOptions(tag).Number(d)
}

func (o Options) printer() *message.Printer {
	return message.NewPrinter(o.Locale)
}

func (o Options) fixed(d decimal.Decimal, places int) string {
	if places < 0 {
		places = 0
	}
	f, _ := d.Round(int32(places)).Float64()
	return o.printer().Sprintf("%."+strconv.Itoa(places)+"f", f)
}

func (o Options) Currency(d decimal.Decimal) string {
	sign := ""
	if d.Round(int32(o.CurrencyDecimals)).IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + o.Symbol + o.fixed(d, o.CurrencyDecimals)
}

func (o Options) Percent(d decimal.Decimal) string {
	return o.fixed(d, o.PercentDecimals) + "%"
}

func (o Options) Number(d decimal.Decimal) string {
	return o.fixed(d, decimalPlaces(d.Round(maxNumberDecimals)))
}

func decimalPlaces(d decimal.Decimal) int {
	s := d.String()
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}
