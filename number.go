package analyzer

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
)

// Number is a float64 that serializes rounded to a fixed number of decimals.
//
// Non finite values serialize as null.
type Number struct {
	v      float64
	places int32
}

// Round returns v to be serialized with places decimals.
func Round(v float64, places int32) Number { return Number{v: v, places: places} }

// Null returns a Number that serializes as null.
func Null() Number { return Number{v: math.NaN()} }

// Float returns the unrounded value.
func (n Number) Float() float64 { return n.v }

// Valid reports whether n is finite.
func (n Number) Valid() bool { return !math.IsNaN(n.v) && !math.IsInf(n.v, 0) }

// Rounded returns the value rounded half away from zero to its decimals, or NaN if n is not finite.
func (n Number) Rounded() float64 {
	if !n.Valid() {
		return math.NaN()
	}
	f, _ := n.decimal().Float64()
	return f
}

func (n Number) decimal() decimal.Decimal { return decimal.NewFromFloat(n.v).Round(n.places) }

func (n Number) String() string {
	if !n.Valid() {
		return "null"
	}
	return n.decimal().String()
}

// MarshalJSON writes the rounded value as a JSON number, or null.
func (n Number) MarshalJSON() ([]byte, error) { return []byte(n.String()), nil }

// UnmarshalJSON reads a JSON number, null reads as NaN.
func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		n.v = math.NaN()
		return nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	n.v, _ = d.Float64()
	n.places = max(-d.Exponent(), 0)
	return nil
}

var _ json.Marshaler = Number{}
var _ json.Unmarshaler = (*Number)(nil)
