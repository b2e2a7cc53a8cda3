package record

import (
	"encoding/json"
	"strconv"
)

// MissingMark is the sentinel written for an element without data
const MissingMark = "X"

// Kind tells how a sequence value is to be read
type Kind int

const (
	KindMissing Kind = iota
	KindNumber
	KindText
)

// Value is one entry of a student's sequence
type Value struct {
	Kind   Kind
	Number float64
	Text   string
}

// Number wraps a numeric value
func Number(v float64) Value {
	return Value{Kind: KindNumber, Number: v}
}

// Text wraps a label
func Text(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// Missing returns the no-data sentinel
func Missing() Value {
	return Value{Kind: KindMissing, Text: MissingMark}
}

// IsNumber reports whether the value is numeric
func (v Value) IsNumber() bool {
	return v.Kind == KindNumber
}

// String renders the value as it appears in a cell
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindMissing:
		return MissingMark
	default:
		return v.Text
	}
}

// MarshalJSON writes numbers as JSON numbers and everything else as strings
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind == KindNumber {
		return json.Marshal(v.Number)
	}
	return json.Marshal(v.String())
}

// UnmarshalJSON reads a number or a string; "X" is read back as missing
func (v *Value) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = Number(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == MissingMark {
		*v = Missing()
	} else {
		*v = Text(s)
	}
	return nil
}

// Sequence is the flat positional record of one student
type Sequence []Value
