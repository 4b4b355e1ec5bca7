package worksheet

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrNonFinite is returned when a NaN or infinite number is stored in a
// worksheet.  SpreadsheetML has no representation for them.
var ErrNonFinite = errors.New("worksheet: number is not finite")

// ValueKind is the dynamic type held by a [Value].
type ValueKind uint8

const (
	// KindEmpty marks the absence of a value.
	KindEmpty ValueKind = iota
	// KindText is a string value.
	KindText
	// KindNumber is a numeric value.  Integers are stored as float64.
	KindNumber
	// KindBool is a boolean value.
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	}
	return "empty"
}

// Value is a cell value: empty, text, number or boolean.  The zero Value is
// empty.  Values are comparable with ==, which compares both kind and
// payload, so Text("1") != Number(1).
type Value struct {
	kind ValueKind
	s    string
	n    float64
	b    bool
}

// Text returns a text Value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Number returns a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Int returns a numeric Value holding n.
func Int(n int) Value { return Value{kind: KindNumber, n: float64(n)} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// ValueOf converts a Go value to a Value.  nil yields the empty Value.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return x, nil
	case string:
		return Text(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(x), nil
	case int8:
		return Number(float64(x)), nil
	case int16:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case uint:
		return Number(float64(x)), nil
	case uint8:
		return Number(float64(x)), nil
	case uint16:
		return Number(float64(x)), nil
	case uint32:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case float32:
		return Number(float64(x)), nil
	case float64:
		return Number(x), nil
	case fmt.Stringer:
		return Text(x.String()), nil
	}
	return Value{}, fmt.Errorf("worksheet: unsupported value type %T", v)
}

// Kind returns the dynamic type of v.
func (v Value) Kind() ValueKind { return v.kind }

// IsEmpty reports whether v is the empty Value.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Text returns the string payload and whether v is text.
func (v Value) Text() (string, bool) { return v.s, v.kind == KindText }

// Number returns the numeric payload and whether v is a number.
func (v Value) Number() (float64, bool) { return v.n, v.kind == KindNumber }

// Bool returns the boolean payload and whether v is a boolean.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Any returns v as a plain Go value: nil, string, float64 or bool.
func (v Value) Any() any {
	switch v.kind {
	case KindText:
		return v.s
	case KindNumber:
		return v.n
	case KindBool:
		return v.b
	}
	return nil
}

// String renders v for display.  Whole numbers print without a decimal
// point and booleans as TRUE/FALSE, as a spreadsheet shows them.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.s
	case KindNumber:
		return FormatNumber(v.n)
	case KindBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	}
	return ""
}

// Finite reports whether v is anything but a NaN or infinite number.
func (v Value) Finite() bool {
	return v.kind != KindNumber || !(math.IsNaN(v.n) || math.IsInf(v.n, 0))
}

// IsFormula reports whether v is text that Set would store as a formula.
func (v Value) IsFormula() bool {
	return v.kind == KindText && len(v.s) > 1 && v.s[0] == '='
}

// FormatNumber renders n in the shortest form that parses back to n.
func FormatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'G', -1, 64)
}
