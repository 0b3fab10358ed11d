package renderer

import (
	"fmt"
	"math"
	"strings"
	"text/template"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/etnz/analyzer"
)

var funcs = template.FuncMap{
	"pct":     pct,
	"percent": percent,
	"num":     num,
	"float":   float,
	"money":   Money,
	"join":    strings.Join,
}

// na is written for values that cannot be computed.
const na = "n/a"

// pct formats a fraction as a percentage.
func pct(n analyzer.Number) string {
	if !n.Valid() {
		return na
	}
	return fmt.Sprintf("%.2f%%", n.Float()*100)
}

// percent formats a value already in percent.
func percent(n analyzer.Number) string {
	if !n.Valid() {
		return na
	}
	return fmt.Sprintf("%.2f%%", n.Float())
}

func num(n analyzer.Number) string {
	if !n.Valid() {
		return na
	}
	return n.String()
}

// float formats a raw value with two decimals.
func float(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return na
	}
	return fmt.Sprintf("%.2f", v)
}

// Money formats an amount in a currency, with the currency symbol and grouping.
func Money(n analyzer.Number, currency string) string {
	if !n.Valid() {
		return na
	}
	// to get a never nil currency I need to call the Money constructor
	cur := money.New(0, currency).Currency()
	dec := decimal.NewFromFloat(n.Float()).Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}
