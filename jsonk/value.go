package jsonk

import (
	"errors"
	"sync/atomic"
)

// Compile-time limits for direct API construction. Parsing applies the
// configurable equivalents from Limits instead.
const (
	// MaxDepth is the maximum nesting depth for values.
	MaxDepth = 32

	// MaxStringLength is the maximum length of a string value in bytes.
	MaxStringLength = 1 << 20

	// MaxArrayElements is the maximum number of elements in one array.
	MaxArrayElements = 10000

	// MaxObjectMembers is the maximum number of members in one object.
	MaxObjectMembers = 1000

	// MaxKeyLength is the maximum length of an object key in bytes.
	MaxKeyLength = 256

	// MaxTotalMemory is the memory budget for a single parse, in bytes.
	MaxTotalMemory = 64 << 20
)

// Container mutation errors.
var (
	ErrNotObject     = errors.New("jsonk: value is not an object")
	ErrNotArray      = errors.New("jsonk: value is not an array")
	ErrNilValue      = errors.New("jsonk: nil value")
	ErrMemberLimit   = errors.New("jsonk: too many object members")
	ErrElementLimit  = errors.New("jsonk: too many array elements")
	ErrKeyTooLong    = errors.New("jsonk: object key too long")
	ErrDepthExceeded = errors.New("jsonk: maximum nesting depth exceeded")
)

// Type identifies the variant stored in a Value.
type Type uint8

const (
	TypeNull Type = iota
	TypeBool
	TypeNumber
	TypeString
	TypeArray
	TypeObject
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Member is one key/value slot of an object. Slot order is insertion order
// and is preserved by the serializer.
type Member struct {
	Key   string
	Value *Value
}

// Value is a node in a JSON tree: one of null, bool, number, string, array
// or object, selected by typ.
//
// Values are reference counted. A value is referenced by at most one parent
// container slot plus any number of holders that called Acquire, and is torn
// down when the count reaches zero. The count itself is safe to touch from
// multiple goroutines; structural mutation of containers is not synchronized
// and needs external mutual exclusion (or effectively-immutable sharing).
//
// Trees are acyclic by construction: no API attaches a value that is already
// owned by a container without deep-copying it first.
type Value struct {
	refs atomic.Int32
	typ  Type

	boolVal bool
	numVal  Number
	strVal  string

	elems   []*Value // TypeArray
	members []Member // TypeObject
}

// ============================================================
// Constructors
// ============================================================

func newValue(t Type) *Value {
	v := &Value{typ: t}
	v.refs.Store(1)
	return v
}

// Null creates a null value with reference count 1.
func Null() *Value {
	return newValue(TypeNull)
}

// Bool creates a boolean value.
func Bool(b bool) *Value {
	v := newValue(TypeBool)
	v.boolVal = b
	return v
}

// Str creates a string value. The string is stored as given; escape
// sequences are only interpreted during parsing.
func Str(s string) *Value {
	v := newValue(TypeString)
	v.strVal = s
	return v
}

// Int creates an integer number value.
func Int(n int64) *Value {
	v := newValue(TypeNumber)
	v.numVal = numberFromInt(n)
	return v
}

// NumberFromText creates a number value from JSON number text, validating
// the full number grammar. The stored representation is reduced precision:
// at most nine fractional digits are kept and exponents are accepted but not
// folded into the magnitude.
func NumberFromText(text string) (*Value, error) {
	n, err := parseNumber(text)
	if err != nil {
		return nil, err
	}
	v := newValue(TypeNumber)
	v.numVal = n
	return v, nil
}

// Object creates an empty object value.
func Object() *Value {
	return newValue(TypeObject)
}

// Array creates an empty array value.
func Array() *Value {
	return newValue(TypeArray)
}

// ============================================================
// Lifecycle
// ============================================================

// Acquire increments the reference count and returns v.
func (v *Value) Acquire() *Value {
	if v != nil {
		v.refs.Add(1)
	}
	return v
}

// Release decrements the reference count. When the count reaches zero the
// value is torn down: objects release every member value, arrays release
// every element, and buffers are dropped. Children shared via Acquire
// survive their parent.
func (v *Value) Release() {
	if v == nil {
		return
	}
	if v.refs.Add(-1) != 0 {
		return
	}
	switch v.typ {
	case TypeString:
		v.strVal = ""
	case TypeObject:
		for i := range v.members {
			v.members[i].Value.Release()
		}
		v.members = nil
	case TypeArray:
		for _, e := range v.elems {
			e.Release()
		}
		v.elems = nil
	}
}

// ============================================================
// Inspection
// ============================================================

// Type returns the variant tag. A nil value reads as null.
func (v *Value) Type() Type {
	if v == nil {
		return TypeNull
	}
	return v.typ
}

// IsNull reports whether the value is null.
func (v *Value) IsNull() bool { return v == nil || v.typ == TypeNull }

// IsObject reports whether the value is an object.
func (v *Value) IsObject() bool { return v != nil && v.typ == TypeObject }

// IsArray reports whether the value is an array.
func (v *Value) IsArray() bool { return v != nil && v.typ == TypeArray }

// BoolValue returns the boolean payload, or false for other types.
func (v *Value) BoolValue() bool {
	if v == nil || v.typ != TypeBool {
		return false
	}
	return v.boolVal
}

// StringValue returns the string payload, or "" for other types.
func (v *Value) StringValue() string {
	if v == nil || v.typ != TypeString {
		return ""
	}
	return v.strVal
}

// NumberValue returns the number payload, or the zero Number for other types.
func (v *Value) NumberValue() Number {
	if v == nil || v.typ != TypeNumber {
		return Number{}
	}
	return v.numVal
}

// Len returns the element or member count for containers, 0 otherwise.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.typ {
	case TypeArray:
		return len(v.elems)
	case TypeObject:
		return len(v.members)
	default:
		return 0
	}
}

// Members returns the object's member slots in insertion order. The slice is
// the object's own storage; callers must not mutate it.
func (v *Value) Members() []Member {
	if v == nil || v.typ != TypeObject {
		return nil
	}
	return v.members
}

// Elements returns the array's elements in insertion order. The slice is the
// array's own storage; callers must not mutate it.
func (v *Value) Elements() []*Value {
	if v == nil || v.typ != TypeArray {
		return nil
	}
	return v.elems
}

// ElementAt returns the i-th array element, or nil when out of range.
func (v *Value) ElementAt(i int) *Value {
	if v == nil || v.typ != TypeArray || i < 0 || i >= len(v.elems) {
		return nil
	}
	return v.elems[i]
}

// ============================================================
// Object and array mutation
// ============================================================

// AddMember appends a member slot. Ownership of val transfers to the object
// on success; on error the caller keeps its reference. Duplicate keys are
// not rejected: the object is a multiset keyed by first-match lookup.
func (v *Value) AddMember(key string, val *Value) error {
	if v == nil || v.typ != TypeObject {
		return ErrNotObject
	}
	if val == nil {
		return ErrNilValue
	}
	if len(v.members) >= MaxObjectMembers {
		return ErrMemberLimit
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	v.members = append(v.members, Member{Key: key, Value: val})
	return nil
}

// FindMember returns the value of the first member with the given key, or
// nil when absent (or when v is not an object).
func (v *Value) FindMember(key string) *Value {
	if i := v.findMemberIndex(key); i >= 0 {
		return v.members[i].Value
	}
	return nil
}

func (v *Value) findMemberIndex(key string) int {
	if v == nil || v.typ != TypeObject {
		return -1
	}
	for i := range v.members {
		if v.members[i].Key == key {
			return i
		}
	}
	return -1
}

// RemoveMember removes the first member with the given key, releasing its
// value. It reports whether a member was removed.
func (v *Value) RemoveMember(key string) bool {
	i := v.findMemberIndex(key)
	if i < 0 {
		return false
	}
	v.members[i].Value.Release()
	v.members = append(v.members[:i], v.members[i+1:]...)
	return true
}

// replaceMemberValue swaps the value in member slot i, releasing the old one.
func (v *Value) replaceMemberValue(i int, val *Value) {
	old := v.members[i].Value
	v.members[i].Value = val
	old.Release()
}

// AddElement appends an element. Ownership of val transfers to the array on
// success; on error the caller keeps its reference.
func (v *Value) AddElement(val *Value) error {
	if v == nil || v.typ != TypeArray {
		return ErrNotArray
	}
	if val == nil {
		return ErrNilValue
	}
	if len(v.elems) >= MaxArrayElements {
		return ErrElementLimit
	}
	v.elems = append(v.elems, val)
	return nil
}

// ============================================================
// Deep copy and equality
// ============================================================

// Clone returns a fully independent deep copy of src: no shared nodes, no
// shared reference counts. depth is the nesting level the copy starts at;
// descending past MaxDepth fails with ErrDepthExceeded, and any descendant
// failure discards the partial copy and propagates the error.
func Clone(src *Value, depth int) (*Value, error) {
	if src == nil {
		return nil, ErrNilValue
	}
	if depth > MaxDepth {
		return nil, ErrDepthExceeded
	}

	switch src.typ {
	case TypeNull:
		return Null(), nil
	case TypeBool:
		return Bool(src.boolVal), nil
	case TypeString:
		return Str(src.strVal), nil
	case TypeNumber:
		v := newValue(TypeNumber)
		v.numVal = src.numVal
		return v, nil

	case TypeObject:
		dup := Object()
		for i := range src.members {
			child, err := Clone(src.members[i].Value, depth+1)
			if err != nil {
				dup.Release()
				return nil, err
			}
			if err := dup.AddMember(src.members[i].Key, child); err != nil {
				child.Release()
				dup.Release()
				return nil, err
			}
		}
		return dup, nil

	case TypeArray:
		dup := Array()
		for _, e := range src.elems {
			child, err := Clone(e, depth+1)
			if err != nil {
				dup.Release()
				return nil, err
			}
			if err := dup.AddElement(child); err != nil {
				child.Release()
				dup.Release()
				return nil, err
			}
		}
		return dup, nil
	}
	return nil, ErrNilValue
}

// Equal reports structural equality. Object comparison is order-sensitive,
// matching the significance of member order in serialized output.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a.IsNull() && b.IsNull()
	}
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case TypeNull:
		return true
	case TypeBool:
		return a.boolVal == b.boolVal
	case TypeNumber:
		return a.numVal == b.numVal
	case TypeString:
		return a.strVal == b.strVal
	case TypeArray:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i], b.elems[i]) {
				return false
			}
		}
		return true
	case TypeObject:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].Key != b.members[i].Key {
				return false
			}
			if !Equal(a.members[i].Value, b.members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
