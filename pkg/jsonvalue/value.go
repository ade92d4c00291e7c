// Package jsonvalue models schema-less JSON documents as an immutable recursive
// value type. Content slots, collection records and block props are stored as
// Values so that arbitrary nested structures survive a load/save cycle intact.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a JSON value. The zero Value is null.
//
// Values are never mutated in place: every editing method returns a new Value
// and leaves the receiver untouched, so Values may be shared freely.
type Value struct {
	kind Kind
	b    bool
	s    string // string contents, or the literal of a number
	arr  []Value
	obj  map[string]Value
}

// NullValue returns the JSON null.
func NullValue() Value { return Value{} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// NumberValue wraps a float64.
func NumberValue(f float64) Value {
	return Value{kind: Number, s: strconv.FormatFloat(f, 'f', -1, 64)}
}

// IntValue wraps an integer.
func IntValue(i int64) Value {
	return Value{kind: Number, s: strconv.FormatInt(i, 10)}
}

// ArrayValue builds an array from the given items.
func ArrayValue(items ...Value) Value {
	arr := make([]Value, len(items))
	copy(arr, items)
	return Value{kind: Array, arr: arr}
}

// ObjectValue builds an object from the given fields.
func ObjectValue(fields map[string]Value) Value {
	obj := make(map[string]Value, len(fields))
	for k, v := range fields {
		obj[k] = v
	}
	return Value{kind: Object, obj: obj}
}

// EmptyObject returns {}.
func EmptyObject() Value { return Value{kind: Object, obj: map[string]Value{}} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == Null }

// IsObject reports whether v is an object.
func (v Value) IsObject() bool { return v.kind == Object }

// IsArray reports whether v is an array.
func (v Value) IsArray() bool { return v.kind == Array }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == Bool }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == String }

// AsNumber returns the number held by v as a float64.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != Number {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// NumberLiteral returns the number held by v exactly as it was written.
func (v Value) NumberLiteral() (string, bool) { return v.s, v.kind == Number }

// Len returns the number of items of an array or fields of an object.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr)
	case Object:
		return len(v.obj)
	default:
		return 0
	}
}

// Items returns a copy of the array items. Nil for non-arrays.
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}
	out := make([]Value, len(v.arr))
	copy(out, v.arr)
	return out
}

// Index returns the i-th array item.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != Array || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i], true
}

// Field returns the value stored under key in an object.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	f, ok := v.obj[key]
	return f, ok
}

// StringField returns obj[key] when it is a string, and "" otherwise.
func (v Value) StringField(key string) string {
	f, ok := v.Field(key)
	if !ok {
		return ""
	}
	s, _ := f.AsString()
	return s
}

// Keys returns the object's keys in ascending order.
func (v Value) Keys() []string {
	if v.kind != Object {
		return nil
	}
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// With returns a copy of the object with key set to val. A null receiver is
// treated as an empty object.
func (v Value) With(key string, val Value) Value {
	out := make(map[string]Value, len(v.obj)+1)
	if v.kind == Object {
		for k, f := range v.obj {
			out[k] = f
		}
	}
	out[key] = val
	return Value{kind: Object, obj: out}
}

// Parse decodes a single JSON document. Numbers keep their original literal.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("decode json: unexpected data after top-level value")
	}
	return From(raw)
}

// MustParse is like Parse but panics on error. Intended for literals in tests
// and bundled fixtures.
func MustParse(s string) Value {
	v, err := Parse([]byte(s))
	if err != nil {
		panic(err)
	}
	return v
}

// From converts a decoded Go value (as produced by encoding/json) into a Value.
func From(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return t, nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		if _, err := strconv.ParseFloat(string(t), 64); err != nil && !errors.Is(err, strconv.ErrRange) {
			return Value{}, fmt.Errorf("invalid number %q", string(t))
		}
		return Value{kind: Number, s: string(t)}, nil
	case float64:
		return NumberValue(t), nil
	case int:
		return IntValue(int64(t)), nil
	case int64:
		return IntValue(t), nil
	case []any:
		arr := make([]Value, len(t))
		for i, item := range t {
			iv, err := From(item)
			if err != nil {
				return Value{}, err
			}
			arr[i] = iv
		}
		return Value{kind: Array, arr: arr}, nil
	case []string:
		arr := make([]Value, len(t))
		for i, item := range t {
			arr[i] = StringValue(item)
		}
		return Value{kind: Array, arr: arr}, nil
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, item := range t {
			iv, err := From(item)
			if err != nil {
				return Value{}, err
			}
			obj[k] = iv
		}
		return Value{kind: Object, obj: obj}, nil
	default:
		return Value{}, fmt.Errorf("unsupported json type %T", raw)
	}
}

// MarshalJSON implements json.Marshaler. Object keys are written in ascending order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(v.b))
	case Number:
		buf.WriteString(v.s)
	case String:
		b, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(b)
	case Array:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := v.obj[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown json kind %d", v.kind)
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Equal reports structural equality. Numbers compare by value, so 1 and 1.0 are equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case String:
		return a.s == b.s
	case Number:
		if a.s == b.s {
			return true
		}
		af, aok := a.AsNumber()
		bf, bok := b.AsNumber()
		return aok && bok && af == bf
	case Array:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.obj) != len(b.obj) {
			return false
		}
		for k, av := range a.obj {
			bv, ok := b.obj[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// Merge deep-merges patch onto base. Objects merge key by key; any other
// combination of kinds is resolved in favour of patch.
func Merge(base, patch Value) Value {
	if base.kind != Object || patch.kind != Object {
		return patch
	}
	out := make(map[string]Value, len(base.obj)+len(patch.obj))
	for k, bv := range base.obj {
		out[k] = bv
	}
	for k, pv := range patch.obj {
		if bv, ok := out[k]; ok {
			out[k] = Merge(bv, pv)
			continue
		}
		out[k] = pv
	}
	return Value{kind: Object, obj: out}
}
