package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Kind is the JSON kind carried by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one JSON value of an audit snapshot. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	arr  []Value
	obj  Object
}

// Object is a JSON object snapshot. A nil Object means the snapshot is absent.
type Object map[string]Value

// Null returns the JSON null value.
func Null() Value { return Value{} }

// String returns a JSON string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a JSON number value. NaN and infinities serialize as null, like JSON.stringify.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a JSON boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Array returns a JSON array value.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// ObjectValue wraps o as a nested JSON object value.
func ObjectValue(o Object) Value {
	if o == nil {
		o = Object{}
	}
	return Value{kind: KindObject, obj: o}
}

func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload; empty for other kinds.
func (v Value) Str() string { return v.str }

// Num returns the number payload; zero for other kinds.
func (v Value) Num() float64 { return v.num }

// Truth returns the boolean payload; false for other kinds.
func (v Value) Truth() bool { return v.b }

// Items returns the array elements; nil for other kinds.
func (v Value) Items() []Value { return v.arr }

// Fields returns the nested object; nil for other kinds.
func (v Value) Fields() Object { return v.obj }

// FromAny converts a decoded Go value into a Value. Types JSON cannot represent fall back to
// their fmt string form, so conversion never fails.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case Object:
		return ObjectValue(t)
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}
		return Number(f)
	case []any:
		items := make([]Value, 0, len(t))
		for _, it := range t {
			items = append(items, FromAny(it))
		}
		return Array(items...)
	case map[string]any:
		o := make(Object, len(t))
		for k, it := range t {
			o[k] = FromAny(it)
		}
		return ObjectValue(o)
	}
	if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return Null()
	}
	raw, err := json.Marshal(x)
	if err != nil {
		return String(fmt.Sprint(x))
	}
	var v Value
	if err := json.Unmarshal(raw, &v); err != nil {
		return String(fmt.Sprint(x))
	}
	return v
}

// Canonical returns the compact serialization used for equality: object keys sorted,
// numbers in shortest round-trip form.
func (v Value) Canonical() string {
	var buf bytes.Buffer
	v.write(&buf)
	return buf.String()
}

// Equal reports whether v and w serialize identically.
func (v Value) Equal(w Value) bool { return v.Canonical() == w.Canonical() }

func (v Value) write(buf *bytes.Buffer) {
	switch v.kind {
	case KindString:
		writeString(buf, v.str)
	case KindNumber:
		buf.WriteString(FormatNumber(v.num))
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindArray:
		buf.WriteByte('[')
		for i, it := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			it.write(buf)
		}
		buf.WriteByte(']')
	case KindObject:
		v.obj.write(buf)
	default:
		buf.WriteString("null")
	}
}

func (o Object) write(buf *bytes.Buffer) {
	buf.WriteByte('{')
	for i, k := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(buf, k)
		buf.WriteByte(':')
		o[k].write(buf)
	}
	buf.WriteByte('}')
}

func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
}

// FormatNumber renders f the way a JavaScript engine prints numbers: plain decimals inside
// [1e-6, 1e21), exponent form outside, null for NaN and infinities.
func FormatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}

// Keys returns the object keys in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value under key and whether the key is present.
func (o Object) Get(key string) (Value, bool) {
	v, ok := o[key]
	return v, ok
}

func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(v.Canonical()), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}

func (o Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	o.write(&buf)
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object. JSON null leaves the Object nil (absent).
func (o *Object) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = nil
		return nil
	}
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	if v.kind != KindObject {
		return fmt.Errorf("audit snapshot: expected object, got %s", v.kind)
	}
	*o = v.obj
	return nil
}
