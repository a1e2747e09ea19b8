package jsonk

import "testing"

func scanAll(t *testing.T, input string) []Token {
	t.Helper()
	sc := NewScanner([]byte(input))
	var toks []Token
	for {
		tok, err := sc.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks
		}
	}
}

func TestScanner_BasicTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenType
	}{
		{"{}", []TokenType{TokenObjectStart, TokenObjectEnd, TokenEOF}},
		{"[]", []TokenType{TokenArrayStart, TokenArrayEnd, TokenEOF}},
		{":", []TokenType{TokenColon, TokenEOF}},
		{",", []TokenType{TokenComma, TokenEOF}},
		{"true", []TokenType{TokenTrue, TokenEOF}},
		{"false", []TokenType{TokenFalse, TokenEOF}},
		{"null", []TokenType{TokenNull, TokenEOF}},
		{"123", []TokenType{TokenNumber, TokenEOF}},
		{"-45.6", []TokenType{TokenNumber, TokenEOF}},
		{"1e10", []TokenType{TokenNumber, TokenEOF}},
		{"1.5E-3", []TokenType{TokenNumber, TokenEOF}},
		{`"hello"`, []TokenType{TokenString, TokenEOF}},
		{`""`, []TokenType{TokenString, TokenEOF}},
		{" \t\r\n{ } ", []TokenType{TokenObjectStart, TokenObjectEnd, TokenEOF}},
		{`{"a":1}`, []TokenType{
			TokenObjectStart, TokenString, TokenColon, TokenNumber, TokenObjectEnd, TokenEOF,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := scanAll(t, tt.input)
			if len(toks) != len(tt.expected) {
				t.Fatalf("expected %d tokens, got %d", len(tt.expected), len(toks))
			}
			for i, tok := range toks {
				if tok.Type != tt.expected[i] {
					t.Errorf("token %d: expected %s, got %s", i, tt.expected[i], tok.Type)
				}
			}
		})
	}
}

func TestScanner_StringContents(t *testing.T) {
	sc := NewScanner([]byte(`"a\nb"`))
	tok, err := sc.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	// Text spans the contents between the quotes, escapes still encoded.
	if string(tok.Text) != `a\nb` {
		t.Errorf("unexpected string token text: %q", tok.Text)
	}
}

func TestScanner_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated string", `"abc`},
		{"unterminated escape", `"abc\`},
		{"bad escape", `"a\x"`},
		{"bad unicode escape", `"\u12g4"`},
		{"short unicode escape", `"\u12`},
		{"control char in string", "\"a\x01b\""},
		{"leading zeros", "01"},
		{"bare minus", "-"},
		{"trailing dot", "1."},
		{"empty exponent", "1e"},
		{"empty signed exponent", "1e+"},
		{"truncated literal", "tru"},
		{"wrong literal", "nul"},
		{"garbage", "@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := NewScanner([]byte(tt.input))
			tok, err := sc.Next()
			if err == nil && tok.Type != TokenEOF {
				// A token may scan fine; the failure must come by the
				// next call (e.g. "1." scans "1" then fails on ".").
				_, err = sc.Next()
			}
			if err == nil {
				t.Fatalf("expected scan error for %q", tt.input)
			}
			if _, ok := err.(*ParseError); !ok {
				t.Errorf("expected *ParseError, got %T", err)
			}
		})
	}
}

func TestScanner_NumberGrammarBoundaries(t *testing.T) {
	// Valid numbers and the exact byte length the scanner must consume.
	tests := []struct {
		input string
		want  int
	}{
		{"0", 1},
		{"-0", 2},
		{"0.5", 3},
		{"10,", 2},
		{"1e2]", 3},
		{"-1.5e+10}", 8},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sc := NewScanner([]byte(tt.input))
			tok, err := sc.Next()
			if err != nil {
				t.Fatalf("Next failed: %v", err)
			}
			if tok.Type != TokenNumber {
				t.Fatalf("expected number token, got %s", tok.Type)
			}
			if len(tok.Text) != tt.want {
				t.Errorf("consumed %d bytes, want %d", len(tok.Text), tt.want)
			}
		})
	}
}
