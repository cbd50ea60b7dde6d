package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
	KindList
)

// Value is a tagged union over the four variable value types. The zero Value
// is the empty string.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	list []string
}

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue wraps a number.
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// ListValue wraps a sequence of strings.
func ListValue(items ...string) Value { return Value{kind: KindList, list: items} }

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsEmpty reports whether the value counts as "not provided" for rendering and
// required-checks: only the empty string is empty; false and 0 are real values.
func (v Value) IsEmpty() bool {
	return v.kind == KindString && v.str == ""
}

// String renders the value for template substitution. Arrays join with ",".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		return strings.Join(v.list, ",")
	default:
		return v.str
	}
}

// CheckType returns a human-readable error string when the value cannot serve
// a variable of type t, or "" when it can. String variables accept anything.
func (v Value) CheckType(t VariableType) string {
	switch t {
	case TypeNumber:
		switch v.kind {
		case KindNumber:
			if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
				return "must be a finite number"
			}
		case KindString:
			n, err := strconv.ParseFloat(v.str, 64)
			if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
				return "must be a number"
			}
		default:
			return "must be a number"
		}
	case TypeBoolean:
		switch v.kind {
		case KindBool:
		case KindString:
			if v.str != "true" && v.str != "false" {
				return "must be a boolean"
			}
		default:
			return "must be a boolean"
		}
	case TypeArray:
		// A plain string is accepted as a pre-split placeholder.
		if v.kind != KindList && v.kind != KindString {
			return "must be an array or a string"
		}
	}
	return ""
}

// MarshalJSON writes the natural JSON form of the variant.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		if v.list == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.list)
	default:
		return json.Marshal(v.str)
	}
}

// UnmarshalJSON maps JSON string/number/bool/array onto the union. Array
// elements are stringified; null becomes the empty string.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = StringValue("")
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, r := range raw {
			var elem Value
			if err := elem.UnmarshalJSON(r); err != nil {
				return err
			}
			items = append(items, elem.String())
		}
		*v = ListValue(items...)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unsupported variable value %s", trimmed)
		}
		*v = NumberValue(n)
	}
	return nil
}
