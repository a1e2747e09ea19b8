package jsonk

import (
	"bytes"
	"testing"
)

// ============================================================
// Golden output
// ============================================================

func TestSerialize_Golden(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`null`, `null`},
		{`true`, `true`},
		{`false`, `false`},
		{`0`, `0`},
		{`-42`, `-42`},
		{`3.14`, `3.14`},
		{`""`, `""`},
		{`"plain"`, `"plain"`},
		{`{}`, `{}`},
		{`[]`, `[]`},
		// Whitespace is dropped, member order preserved.
		{"{ \"b\" : 2 ,\n\"a\" : 1 }", `{"b":2,"a":1}`},
		{"[ 1 ,\t2 , 3 ]", `[1,2,3]`},
		{`{"nested":{"list":[true,null]}}`, `{"nested":{"list":[true,null]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := mustParse(t, tt.input)
			defer v.Release()

			buf := make([]byte, 256)
			n, err := Serialize(v, buf)
			if err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			if got := string(buf[:n]); got != tt.expected {
				t.Errorf("serialized %q, want %q", got, tt.expected)
			}
			if got := EmitString(v); got != tt.expected {
				t.Errorf("EmitString %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSerialize_StringEscaping(t *testing.T) {
	v := Str("quote\" back\\ \b\f\n\r\t end")
	defer v.Release()

	want := `"quote\" back\\ \b\f\n\r\t end"`
	if got := EmitString(v); got != want {
		t.Errorf("escaped output %q, want %q", got, want)
	}
}

func TestSerialize_UnicodeEscapePreserved(t *testing.T) {
	// \uXXXX survives parsing verbatim; on output its backslash is
	// re-escaped, and the text still re-parses to the same stored string.
	v := mustParse(t, `"\u0041"`)
	defer v.Release()

	text := EmitString(v)
	if text != `"\\u0041"` {
		t.Fatalf("serialized %q", text)
	}
	v2 := mustParse(t, text)
	defer v2.Release()
	if !Equal(v, v2) {
		t.Errorf("unicode escape did not round-trip at tree level")
	}
}

// ============================================================
// Overflow
// ============================================================

func TestSerialize_OverflowBoundary(t *testing.T) {
	inputs := []string{
		`null`,
		`{"a":1,"b":[true,"xy"],"c":0.5}`,
		`["deep",{"n":{"m":[1,2,3]}}]`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			v := mustParse(t, input)
			defer v.Release()
			exact := len(EmitString(v))

			buf := make([]byte, exact)
			n, err := Serialize(v, buf)
			if err != nil {
				t.Fatalf("exact-size buffer should succeed: %v", err)
			}
			if n != exact {
				t.Errorf("wrote %d bytes, want %d", n, exact)
			}

			short := make([]byte, exact-1)
			if _, err := Serialize(v, short); err != ErrOverflow {
				t.Errorf("one-byte-short buffer: expected ErrOverflow, got %v", err)
			}
		})
	}
}

func TestSerialize_NilValue(t *testing.T) {
	if _, err := Serialize(nil, make([]byte, 16)); err != ErrNilValue {
		t.Errorf("expected ErrNilValue, got %v", err)
	}
}

func TestSerialize_DoesNotGrowCallerBuffer(t *testing.T) {
	v := mustParse(t, `{"k":"value"}`)
	defer v.Release()

	buf := make([]byte, 64)
	n, err := Serialize(v, buf)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !bytes.Equal(buf[:n], []byte(`{"k":"value"}`)) {
		t.Errorf("output not written into caller buffer: %q", buf[:n])
	}
}
