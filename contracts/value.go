package contracts

import (
	"fmt"
	"sort"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindArray
	KindMap
)

// String returns the kind name for logging and error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Member is a single key/value pair of an ordered map value.
type Member struct {
	Key   string
	Value Value
}

// Value is one node of a structured record. The set of shapes is closed so
// the codec, schema validator and pipeline can match exhaustively on Kind.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	raw  []byte
	arr  []Value
	obj  []Member
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int returns an integer value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float returns a floating-point value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// String returns a text value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Bytes returns a byte-string value. The slice is not copied.
func Bytes(v []byte) Value { return Value{kind: KindBytes, raw: v} }

// Array returns an ordered sequence value.
func Array(items ...Value) Value { return Value{kind: KindArray, arr: items} }

// Map returns an ordered mapping value. Member order is preserved through
// encoding and decoding.
func Map(members ...Member) Value { return Value{kind: KindMap, obj: members} }

// Field is a convenience constructor for a map member.
func Field(key string, v Value) Member { return Member{Key: key, Value: v} }

// Kind returns the shape of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean scalar. Valid only for KindBool.
func (v Value) Bool() bool { return v.b }

// Int returns the integer scalar. Valid only for KindInt.
func (v Value) Int() int64 { return v.i }

// Float returns the floating-point scalar. Valid only for KindFloat.
func (v Value) Float() float64 { return v.f }

// Text returns the text scalar. Valid only for KindString.
func (v Value) Text() string { return v.s }

// Bin returns the byte-string scalar. Valid only for KindBytes.
func (v Value) Bin() []byte { return v.raw }

// Items returns the elements of an array value.
func (v Value) Items() []Value { return v.arr }

// Members returns the ordered members of a map value.
func (v Value) Members() []Member { return v.obj }

// Len returns the element count of an array or map value and zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindMap:
		return len(v.obj)
	default:
		return 0
	}
}

// Get looks up a key in a map value. The second result is false when the
// value is not a map or the key is absent.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	for _, m := range v.obj {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Equal reports deep equality, including member order for maps.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindBytes:
		if len(v.raw) != len(other.raw) {
			return false
		}
		for i := range v.raw {
			if v.raw[i] != other.raw[i] {
				return false
			}
		}
		return true
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for i := range v.obj {
			if v.obj[i].Key != other.obj[i].Key || !v.obj[i].Value.Equal(other.obj[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Interface converts the value to plain Go types: nil, bool, int64, float64,
// string, []byte, []any and map[string]any. Map member order is lost.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindBytes:
		return v.raw
	case KindArray:
		items := make([]any, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.Interface()
		}
		return items
	case KindMap:
		m := make(map[string]any, len(v.obj))
		for _, member := range v.obj {
			m[member.Key] = member.Value.Interface()
		}
		return m
	default:
		return nil
	}
}

// FromInterface builds a Value from plain Go types. Map keys are sorted so
// the result is deterministic; use ValueFromJSON or the constructors when
// member order matters.
func FromInterface(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint32:
		return Int(int64(x)), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case string:
		return String(x), nil
	case []byte:
		return Bytes(x), nil
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			converted, err := FromInterface(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = converted
		}
		return Array(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, 0, len(x))
		for _, k := range keys {
			converted, err := FromInterface(x[k])
			if err != nil {
				return Value{}, err
			}
			members = append(members, Field(k, converted))
		}
		return Map(members...), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported record type %T", ErrInvalidArgument, v)
	}
}
