package notebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind enumerates the scalar types supported in metadata values.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a metadata value. Only scalars are supported: no lists, no maps.
// The zero value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

func Null() Value           { return Value{kind: KindNull} }
func Bool(b bool) Value     { return Value{kind: KindBool, b: b} }
func Int(i int64) Value     { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }

// ValueOf converts a decoded YAML/JSON value into a Value.
func ValueOf(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return Int(int64(v)), nil
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		if v > math.MaxInt64 {
			return Null(), fmt.Errorf("integer %d overflows metadata value", v)
		}
		return Int(int64(v)), nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case string:
		return String(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil && !strings.ContainsAny(v.String(), ".eE") {
			return Int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return Null(), err
		}
		return Float(f), nil
	}
	return Null(), fmt.Errorf("unsupported metadata value of type %T (only scalars are allowed)", raw)
}

// MustValueOf is similar to ValueOf but panics on unsupported types.
func MustValueOf(raw any) Value {
	v, err := ValueOf(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the boolean value (false for other kinds).
func (v Value) AsBool() bool {
	return v.kind == KindBool && v.b
}

// AsInt returns the integer value (0 for other kinds).
func (v Value) AsInt() int64 {
	if v.kind == KindInt {
		return v.i
	}
	return 0
}

// AsFloat returns the numeric value as a float (0 for non-numeric kinds).
func (v Value) AsFloat() float64 {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindInt:
		return float64(v.i)
	}
	return 0
}

// AsString returns the string value ("" for other kinds).
func (v Value) AsString() string {
	if v.kind == KindString {
		return v.s
	}
	return ""
}

// Interface returns the value as a plain Go value (nil, bool, int64, float64, string).
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	}
	return nil
}

// Equal compares kind and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f || (math.IsNaN(v.f) && math.IsNaN(other.f))
	case KindString:
		return v.s == other.s
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return FormatFloat(v.f)
	case KindString:
		return strconv.Quote(v.s)
	}
	return "null"
}

// FormatFloat formats a float so that it is never confused with an integer when parsed back.
//
// Ex: 42 => "42.0", 0.5 => "0.5", 1e21 => "1e+21"
func FormatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "Inf"
	}
	if math.IsInf(f, -1) {
		return "-Inf"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		if math.IsInf(v.f, 0) || math.IsNaN(v.f) {
			return nil, errors.New("non-finite float cannot be represented in JSON")
		}
		return []byte(FormatFloat(v.f)), nil
	case KindString:
		return json.Marshal(v.s)
	}
	return []byte("null"), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return err
	}
	value, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = value
	return nil
}
