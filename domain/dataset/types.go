package dataset

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kind is the semantic type of a column
type Kind string

const (
	KindCategorical Kind = "categorical"
	KindNumeric     Kind = "numeric"
)

// MissingLabel is how a null value is rendered and how a filter selects nulls.
const MissingLabel = "(missing)"

// Column describes one schema column.
// Levels fixes the category order; a column with Levels is always ordinal.
type Column struct {
	Name    string   `json:"name" yaml:"name"`
	Kind    Kind     `json:"kind" yaml:"kind"`
	Ordinal bool     `json:"ordinal,omitempty" yaml:"ordinal,omitempty"`
	Levels  []string `json:"levels,omitempty" yaml:"levels,omitempty"`
}

// IsNumeric reports whether the column holds numbers
func (c Column) IsNumeric() bool { return c.Kind == KindNumeric }

// IsOrdinal reports whether category order comes from the column rather than the data
func (c Column) IsOrdinal() bool { return c.Ordinal || len(c.Levels) > 0 }

// Value is one cell. Str is set for categorical columns, Num for numeric ones.
type Value struct {
	Str  string
	Num  float64
	Null bool
}

// NullValue returns the null value
func NullValue() Value { return Value{Null: true} }

// Text returns a categorical value. The empty string and MissingLabel are
// null, so a label never names both a null and a real category.
func Text(s string) Value {
	if s == "" || s == MissingLabel {
		return NullValue()
	}
	return Value{Str: s}
}

// Number returns a numeric value; NaN is null
func Number(f float64) Value {
	if math.IsNaN(f) {
		return NullValue()
	}
	return Value{Num: f}
}

// Label renders the value the way filters and count views key it
func (v Value) Label() string {
	if v.Null {
		return MissingLabel
	}
	if v.Str != "" {
		return v.Str
	}
	return FormatNumber(v.Num)
}

// MarshalJSON writes null, a string or a number
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case v.Null:
		return []byte("null"), nil
	case v.Str != "":
		return json.Marshal(v.Str)
	default:
		return json.Marshal(v.Num)
	}
}

// FormatNumber renders a float without exponent or trailing zeros (30, 2.5)
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
