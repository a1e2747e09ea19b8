package jsonk

import "testing"

// ============================================================
// Lifecycle
// ============================================================

func TestValue_AcquireRelease(t *testing.T) {
	obj := Object()
	child := Str("payload")
	if err := obj.AddMember("data", child); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	// An external holder keeps the child alive past its parent.
	child.Acquire()
	obj.Release()

	if got := child.refs.Load(); got != 1 {
		t.Fatalf("child refcount = %d after parent release, want 1", got)
	}
	if got := child.StringValue(); got != "payload" {
		t.Errorf("child payload = %q after parent release", got)
	}
	child.Release()
}

func TestValue_ReleaseCascades(t *testing.T) {
	root := Object()
	inner := Array()
	leaf := Str("x")
	if err := inner.AddElement(leaf); err != nil {
		t.Fatalf("AddElement failed: %v", err)
	}
	if err := root.AddMember("list", inner); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	root.Release()
	if got := leaf.refs.Load(); got != 0 {
		t.Errorf("leaf refcount = %d after cascade, want 0", got)
	}
}

func TestValue_NilSafe(t *testing.T) {
	var v *Value
	v.Release()
	if v.Acquire() != nil {
		t.Errorf("nil Acquire should return nil")
	}
	if !v.IsNull() || v.Type() != TypeNull {
		t.Errorf("nil value should read as null")
	}
	if v.Len() != 0 || v.FindMember("k") != nil {
		t.Errorf("nil container accessors should be empty")
	}
}

// ============================================================
// Object and array mutation
// ============================================================

func TestObject_AddFindRemove(t *testing.T) {
	obj := Object()
	defer obj.Release()

	if err := obj.AddMember("a", Int(1)); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if err := obj.AddMember("b", Int(2)); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	if got := obj.FindMember("b").NumberValue().Magnitude; got != 2 {
		t.Errorf("FindMember(b) = %d, want 2", got)
	}
	if obj.FindMember("missing") != nil {
		t.Errorf("FindMember(missing) should be nil")
	}

	if !obj.RemoveMember("a") {
		t.Fatalf("RemoveMember(a) should succeed")
	}
	if obj.RemoveMember("a") {
		t.Fatalf("second RemoveMember(a) should fail")
	}
	if obj.Len() != 1 {
		t.Errorf("Len = %d after removal, want 1", obj.Len())
	}
}

func TestObject_DuplicateKeysAppend(t *testing.T) {
	obj := Object()
	defer obj.Release()

	obj.AddMember("k", Int(1))
	if err := obj.AddMember("k", Int(2)); err != nil {
		t.Fatalf("duplicate AddMember should append, got %v", err)
	}
	if obj.Len() != 2 {
		t.Fatalf("Len = %d, want 2", obj.Len())
	}
	// First-match removal leaves the later duplicate in place.
	obj.RemoveMember("k")
	if got := obj.FindMember("k").NumberValue().Magnitude; got != 2 {
		t.Errorf("surviving duplicate = %d, want 2", got)
	}
}

func TestObject_CapacityErrors(t *testing.T) {
	obj := Object()
	defer obj.Release()

	longKey := make([]byte, MaxKeyLength+1)
	for i := range longKey {
		longKey[i] = 'k'
	}
	val := Int(1)
	if err := obj.AddMember(string(longKey), val); err != ErrKeyTooLong {
		t.Errorf("expected ErrKeyTooLong, got %v", err)
	}
	val.Release()

	if err := obj.AddMember("k", nil); err != ErrNilValue {
		t.Errorf("expected ErrNilValue, got %v", err)
	}

	arr := Array()
	defer arr.Release()
	if err := arr.AddMember("k", Int(1)); err != ErrNotObject {
		t.Errorf("expected ErrNotObject, got %v", err)
	}
	if err := obj.AddElement(Int(1)); err != ErrNotArray {
		t.Errorf("expected ErrNotArray, got %v", err)
	}
}

// ============================================================
// Deep copy
// ============================================================

func TestClone_Independent(t *testing.T) {
	src := mustParse(t, `{"a":{"b":[1,2]},"c":"text"}`)
	defer src.Release()

	dup, err := Clone(src, 0)
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	defer dup.Release()

	if !Equal(src, dup) {
		t.Fatalf("clone differs from source")
	}

	// Mutating the source must not show through the clone.
	src.FindMember("a").RemoveMember("b")
	src.RemoveMember("c")
	if dup.FindMember("a").FindMember("b").Len() != 2 {
		t.Errorf("clone lost a.b after source mutation")
	}
	if dup.FindMember("c").StringValue() != "text" {
		t.Errorf("clone lost c after source mutation")
	}
}

func TestClone_DepthLimit(t *testing.T) {
	// Chain deeper than MaxDepth, built directly (parsing would refuse it).
	root := Object()
	defer root.Release()
	curr := root
	for i := 0; i < MaxDepth+2; i++ {
		next := Object()
		if err := curr.AddMember("n", next); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		curr = next
	}

	if v, err := Clone(root, 0); err != ErrDepthExceeded {
		if err == nil {
			v.Release()
		}
		t.Fatalf("expected ErrDepthExceeded, got %v", err)
	}
}

// ============================================================
// Equality
// ============================================================

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical objects", `{"a":1}`, `{"a":1}`, true},
		{"different values", `{"a":1}`, `{"a":2}`, false},
		{"different keys", `{"a":1}`, `{"b":1}`, false},
		{"member order matters", `{"a":1,"b":2}`, `{"b":2,"a":1}`, false},
		{"arrays equal", `[1,"x",null]`, `[1,"x",null]`, true},
		{"array order matters", `[1,2]`, `[2,1]`, false},
		{"number precision", `1.50`, `1.5`, false},
		{"int vs fraction", `1`, `1.0`, false},
		{"type mismatch", `"1"`, `1`, false},
		{"nulls", `null`, `null`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustParse(t, tt.a)
			defer a.Release()
			b := mustParse(t, tt.b)
			defer b.Release()
			if got := Equal(a, b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
