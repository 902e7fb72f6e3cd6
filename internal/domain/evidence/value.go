package evidence

import (
	"encoding/json"
	"fmt"
)

// ValueKind discriminates the Value union.
type ValueKind string

// Value kinds.
const (
	KindNumeric     ValueKind = "numeric"
	KindCategorical ValueKind = "categorical"
	KindUnestimable ValueKind = "unestimable"
)

// Value is the tagged union carried by an Item: a numeric reading, a
// categorical label, or an explicit "unable to estimate" marker from an
// upstream extractor. Unestimable is treated as absent by the calculators
// but still shows up in the explanation trail.
type Value struct {
	kind     ValueKind
	number   float64
	category string
}

// Numeric builds a numeric value.
func Numeric(x float64) Value { return Value{kind: KindNumeric, number: x} }

// Categorical builds a categorical value.
func Categorical(s string) Value { return Value{kind: KindCategorical, category: s} }

// Unestimable builds the "unable to estimate" marker.
func Unestimable() Value { return Value{kind: KindUnestimable} }

// Kind returns the union tag. The zero Value reports KindUnestimable so an
// unset value can never be mistaken for a measurement.
func (v Value) Kind() ValueKind {
	if v.kind == "" {
		return KindUnestimable
	}
	return v.kind
}

// Number returns the numeric payload; ok is false for non-numeric values.
func (v Value) Number() (float64, bool) {
	return v.number, v.Kind() == KindNumeric
}

// Category returns the categorical payload; ok is false otherwise.
func (v Value) Category() (string, bool) {
	return v.category, v.Kind() == KindCategorical
}

// String renders the value for explanation trails.
func (v Value) String() string {
	switch v.Kind() {
	case KindNumeric:
		return fmt.Sprintf("%g", v.number)
	case KindCategorical:
		return v.category
	default:
		return "unestimable"
	}
}

type valueJSON struct {
	Kind     ValueKind `json:"kind"`
	Number   *float64  `json:"number,omitempty"`
	Category *string   `json:"category,omitempty"`
}

// MarshalJSON encodes the union explicitly, e.g.
// {"kind":"numeric","number":57}.
func (v Value) MarshalJSON() ([]byte, error) {
	out := valueJSON{Kind: v.Kind()}
	switch out.Kind {
	case KindNumeric:
		n := v.number
		out.Number = &n
	case KindCategorical:
		c := v.category
		out.Category = &c
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the explicit union encoding.
func (v *Value) UnmarshalJSON(data []byte) error {
	var in valueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Kind {
	case KindNumeric:
		if in.Number == nil {
			return fmt.Errorf("numeric value missing number payload")
		}
		*v = Numeric(*in.Number)
	case KindCategorical:
		if in.Category == nil {
			return fmt.Errorf("categorical value missing category payload")
		}
		*v = Categorical(*in.Category)
	case KindUnestimable:
		*v = Unestimable()
	default:
		return fmt.Errorf("unknown value kind %q", in.Kind)
	}
	return nil
}
