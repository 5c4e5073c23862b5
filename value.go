package docdb

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindAbsent is the zero Value: the key was not present in the document.
	KindAbsent Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindAbsent: "absent",
	KindNull:   "null",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Ordered reports whether values of this kind support Less.
func (k Kind) Ordered() bool {
	return k == KindInt || k == KindFloat || k == KindString
}

// Value is a dynamically-typed document value: null, bool, int, float, string,
// array of values, or nested document. The zero Value is absent.
//
// Values of different kinds are never equal and never ordered relative to each
// other; in particular Int(1) and Float(1) are not equal.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  Document
}

func Null() Value             { return Value{kind: KindNull} }
func Bool(b bool) Value       { return Value{kind: KindBool, b: b} }
func Int(i int64) Value       { return Value{kind: KindInt, i: i} }
func Float(f float64) Value   { return Value{kind: KindFloat, f: f} }
func String(s string) Value   { return Value{kind: KindString, s: s} }
func Array(vs ...Value) Value { return Value{kind: KindArray, arr: vs} }

func Object(doc Document) Value {
	if doc == nil {
		doc = Document{}
	}
	return Value{kind: KindObject, obj: doc}
}

// ValueOf converts a Go value into a Value. Supported: nil, Value, bool, all
// integer types (uint64 above MaxInt64 is not), float32/64, string,
// json.Number, slices and arrays of supported values, Document, and maps
// with string keys. Panics on anything else.
func ValueOf(v any) Value {
	val, err := valueOf(v)
	if err != nil {
		panic(err)
	}
	return val
}

func valueOf(v any) (Value, error) {
	switch v := v.(type) {
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
		return uintValue(uint64(v))
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		return uintValue(v)
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case string:
		return String(v), nil
	case json.Number:
		return numberValue(string(v))
	case []Value:
		return Array(v...), nil
	case []any:
		arr := make([]Value, len(v))
		for i, item := range v {
			iv, err := valueOf(item)
			if err != nil {
				return Value{}, err
			}
			arr[i] = iv
		}
		return Array(arr...), nil
	case Document:
		return Object(v), nil
	case map[string]any:
		doc, err := documentOf(v)
		if err != nil {
			return Value{}, err
		}
		return Object(doc), nil
	}
	return reflectValueOf(reflect.ValueOf(v))
}

func reflectValueOf(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null(), nil
		}
		arr := make([]Value, rv.Len())
		for i := range arr {
			iv, err := valueOf(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}
			arr[i] = iv
		}
		return Array(arr...), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return Null(), nil
		}
		doc := make(Document, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			iv, err := valueOf(iter.Value().Interface())
			if err != nil {
				return Value{}, err
			}
			doc[iter.Key().String()] = iv
		}
		return Object(doc), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintValue(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	}
	if !rv.IsValid() {
		return Null(), nil
	}
	return Value{}, fmt.Errorf("docdb: unsupported value type %v", rv.Type())
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("docdb: unsigned value %d overflows int64", u)
	}
	return Int(int64(u)), nil
}

// numberValue maps a numeric literal onto Int when it is an integer literal
// that fits into int64, and onto Float otherwise.
func numberValue(lit string) (Value, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return Value{}, fmt.Errorf("docdb: invalid number %q: %w", lit, err)
	}
	return Float(f), nil
}

func (v Value) Kind() Kind       { return v.kind }
func (v Value) IsAbsent() bool   { return v.kind == KindAbsent }
func (v Value) IsNull() bool     { return v.kind == KindNull }
func (v Value) Exists() bool     { return v.kind != KindAbsent }
func (v Value) Bool() bool       { return v.b }
func (v Value) Int() int64       { return v.i }
func (v Value) Float() float64   { return v.f }
func (v Value) Str() string      { return v.s }
func (v Value) Items() []Value   { return v.arr }
func (v Value) Object() Document { return v.obj }

// Equal reports whether both values are of the same kind and hold equal data.
// Arrays and objects compare element-wise. Absent values are never equal to
// anything, including other absent values.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.obj.Equal(o.obj)
	default:
		return false
	}
}

// Less reports whether v < o. It is false unless both are of the same
// ordered kind (int, float or string).
func (v Value) Less(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i < o.i
	case KindFloat:
		return v.f < o.f
	case KindString:
		return v.s < o.s
	default:
		return false
	}
}

// Interface converts the value back into plain Go data: nil, bool, int64,
// float64, string, []any or map[string]any. Absent values convert to nil.
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
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		return v.obj.Map()
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindAbsent:
		return "<absent>"
	case KindString:
		return strconv.Quote(v.s)
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return strconv.FormatFloat(v.f, 'g', -1, 64)
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		// non-finite floats nested in arrays or objects
		return fmt.Sprint(v.Interface())
	}
	return string(b)
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindAbsent, KindNull:
		return []byte("null"), nil
	case KindBool:
		return strconv.AppendBool(nil, v.b), nil
	case KindInt:
		return strconv.AppendInt(nil, v.i, 10), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, fmt.Errorf("docdb: %v cannot be represented in JSON", v.f)
		}
		b := strconv.AppendFloat(nil, v.f, 'g', -1, 64)
		if !strings.ContainsAny(string(b), ".eE") {
			// keep the float variant on the way back in
			b = append(b, ".0"...)
		}
		return b, nil
	case KindString:
		return json.Marshal(v.s)
	case KindArray:
		if v.arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.arr)
	case KindObject:
		return json.Marshal(v.obj)
	default:
		return nil, fmt.Errorf("docdb: invalid value kind %v", v.kind)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	raw, err := decodeJSONAny(data)
	if err != nil {
		return err
	}
	val, err := valueOf(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}
