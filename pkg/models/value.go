// Package models defines the in-memory Table the analysis pipeline operates on.
package models

import (
	"math"
	"strconv"
	"time"
)

// Kind is the scalar type shared by every cell of a column
type Kind uint8

const (
	// KindString holds free text and categorical values
	KindString Kind = iota
	// KindInt holds whole numbers
	KindInt
	// KindFloat holds floating-point numbers
	KindFloat
	// KindDate holds calendar dates
	KindDate
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind name in reports
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsNumeric reports whether values of this kind can be summed and averaged
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindFloat
}

// DateLayout is the canonical rendering of date values
const DateLayout = "2006-01-02"

// Value is a single typed cell. The zero value is a null string.
//
// Values are comparable and may be used as map keys; dates are normalized to
// midnight UTC so equal calendar days compare equal.
type Value struct {
	kind  Kind
	valid bool
	str   string
	num   int64
	flt   float64
	date  time.Time
}

// Null returns a missing value of the given kind
func Null(kind Kind) Value {
	return Value{kind: kind}
}

// String returns a string value
func String(s string) Value {
	return Value{kind: KindString, valid: true, str: s}
}

// Int returns an integer value
func Int(i int64) Value {
	return Value{kind: KindInt, valid: true, num: i}
}

// Float returns a float value. NaN is stored as null.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return Null(KindFloat)
	}
	return Value{kind: KindFloat, valid: true, flt: f}
}

// Date returns a date value truncated to the calendar day
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, valid: true, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Kind returns the value's kind
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is missing
func (v Value) IsNull() bool { return !v.valid }

// Str returns the string payload
func (v Value) Str() string { return v.str }

// Int64 returns the integer payload
func (v Value) Int64() int64 { return v.num }

// Time returns the date payload
func (v Value) Time() time.Time { return v.date }

// Float64 returns the value as a float for numeric kinds. ok is false for nulls
// and non-numeric kinds.
func (v Value) Float64() (f float64, ok bool) {
	if !v.valid {
		return 0, false
	}
	switch v.kind {
	case KindInt:
		return float64(v.num), true
	case KindFloat:
		return v.flt, true
	default:
		return 0, false
	}
}

// Equal reports whether two values are identical. Two nulls of the same kind are equal.
func (v Value) Equal(o Value) bool {
	return v == o
}

// String renders the value for display; nulls render as "NaN"
func (v Value) String() string {
	if !v.valid {
		return "NaN"
	}
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.flt, 'g', -1, 64)
	case KindDate:
		return v.date.Format(DateLayout)
	default:
		return v.str
	}
}

// Interface returns the payload as a plain Go value, nil for nulls
func (v Value) Interface() interface{} {
	if !v.valid {
		return nil
	}
	switch v.kind {
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindDate:
		return v.date.Format(DateLayout)
	default:
		return v.str
	}
}

// Less orders values of one kind; nulls sort last
func (v Value) Less(o Value) bool {
	if !v.valid || !o.valid {
		return v.valid && !o.valid
	}
	switch v.kind {
	case KindInt:
		if o.kind == KindFloat {
			return float64(v.num) < o.flt
		}
		return v.num < o.num
	case KindFloat:
		if o.kind == KindInt {
			return v.flt < float64(o.num)
		}
		return v.flt < o.flt
	case KindDate:
		return v.date.Before(o.date)
	default:
		return v.str < o.str
	}
}

// MarshalText renders the value for use as a JSON/YAML map key
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
