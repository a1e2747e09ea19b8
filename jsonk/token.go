package jsonk

// TokenType identifies a lexical token in JSON text.
type TokenType uint8

const (
	TokenEOF TokenType = iota

	// Structural
	TokenObjectStart // {
	TokenObjectEnd   // }
	TokenArrayStart  // [
	TokenArrayEnd    // ]
	TokenColon       // :
	TokenComma       // ,

	// Values
	TokenString // "..." (Text holds the contents between the quotes)
	TokenNumber // 123, -4.5, 6e7
	TokenTrue   // true
	TokenFalse  // false
	TokenNull   // null
)

// String returns the token type name.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenObjectStart:
		return "{"
	case TokenObjectEnd:
		return "}"
	case TokenArrayStart:
		return "["
	case TokenArrayEnd:
		return "]"
	case TokenColon:
		return ":"
	case TokenComma:
		return ","
	case TokenString:
		return "STRING"
	case TokenNumber:
		return "NUMBER"
	case TokenTrue:
		return "TRUE"
	case TokenFalse:
		return "FALSE"
	case TokenNull:
		return "NULL"
	default:
		return "INVALID"
	}
}

// Token is one lexical token. Text aliases the scanner's input buffer; for
// string tokens it covers the contents between the quotes with escape
// sequences still encoded.
type Token struct {
	Type   TokenType
	Text   []byte
	Offset int
}

// Scanner produces tokens from a JSON byte buffer. It validates string
// escapes and the number grammar as it scans; any malformed sequence is a
// fatal *ParseError and the scanner must not be used for further tokens.
type Scanner struct {
	data []byte
	pos  int
}

// NewScanner returns a scanner over data. The buffer is aliased, not copied.
func NewScanner(data []byte) *Scanner {
	return &Scanner{data: data}
}

// Next returns the next token, skipping any leading whitespace. At clean end
// of input it returns a TokenEOF token.
func (s *Scanner) Next() (Token, error) {
	s.skipWhitespace()
	if s.pos >= len(s.data) {
		return Token{Type: TokenEOF, Offset: s.pos}, nil
	}

	start := s.pos
	switch c := s.data[s.pos]; c {
	case '{':
		s.pos++
		return Token{Type: TokenObjectStart, Text: s.data[start:s.pos], Offset: start}, nil
	case '}':
		s.pos++
		return Token{Type: TokenObjectEnd, Text: s.data[start:s.pos], Offset: start}, nil
	case '[':
		s.pos++
		return Token{Type: TokenArrayStart, Text: s.data[start:s.pos], Offset: start}, nil
	case ']':
		s.pos++
		return Token{Type: TokenArrayEnd, Text: s.data[start:s.pos], Offset: start}, nil
	case ':':
		s.pos++
		return Token{Type: TokenColon, Text: s.data[start:s.pos], Offset: start}, nil
	case ',':
		s.pos++
		return Token{Type: TokenComma, Text: s.data[start:s.pos], Offset: start}, nil
	case '"':
		return s.scanString()
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return s.scanNumber()
	case 't', 'f', 'n':
		return s.scanLiteral()
	default:
		return Token{}, &ParseError{Message: "unexpected character", Offset: start}
	}
}

func (s *Scanner) skipWhitespace() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

// scanString validates and spans a quoted string. Escape sequences are
// checked here but decoded later by the parser.
func (s *Scanner) scanString() (Token, error) {
	quote := s.pos
	s.pos++ // opening quote
	start := s.pos

	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case c == '"':
			tok := Token{Type: TokenString, Text: s.data[start:s.pos], Offset: quote}
			s.pos++ // closing quote
			return tok, nil

		case c == '\\':
			s.pos++
			if s.pos >= len(s.data) {
				return Token{}, &ParseError{Message: "unterminated escape sequence", Offset: quote}
			}
			switch s.data[s.pos] {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				s.pos++
			case 'u':
				s.pos++
				for i := 0; i < 4; i++ {
					if s.pos >= len(s.data) || !isHexDigit(s.data[s.pos]) {
						return Token{}, &ParseError{Message: "invalid unicode escape", Offset: quote}
					}
					s.pos++
				}
			default:
				return Token{}, &ParseError{Message: "invalid escape sequence", Offset: s.pos}
			}

		case c < 0x20:
			return Token{}, &ParseError{Message: "unescaped control character in string", Offset: s.pos}

		default:
			s.pos++
		}
	}
	return Token{}, &ParseError{Message: "unterminated string", Offset: quote}
}

func (s *Scanner) scanNumber() (Token, error) {
	start := s.pos
	n := numberLen(s.data[start:])
	if n < 0 {
		return Token{}, &ParseError{Message: "invalid number syntax", Offset: start}
	}
	s.pos += n
	return Token{Type: TokenNumber, Text: s.data[start : start+n], Offset: start}, nil
}

// numberLen returns the length of the valid JSON number at the start of b,
// or -1 when the grammar is violated before any complete number is formed.
func numberLen(b []byte) int {
	i := 0
	if i < len(b) && b[i] == '-' {
		i++
	}

	// Integer part: a lone zero or a nonzero digit followed by digits.
	switch {
	case i < len(b) && b[i] == '0':
		i++
		if i < len(b) && isDigit(b[i]) {
			return -1 // leading zeros not allowed
		}
	case i < len(b) && b[i] >= '1' && b[i] <= '9':
		i++
		for i < len(b) && isDigit(b[i]) {
			i++
		}
	default:
		return -1 // no digits
	}

	// Fraction: at least one digit after the point.
	if i < len(b) && b[i] == '.' {
		i++
		if i >= len(b) || !isDigit(b[i]) {
			return -1
		}
		for i < len(b) && isDigit(b[i]) {
			i++
		}
	}

	// Exponent: optional sign, at least one digit.
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		i++
		if i < len(b) && (b[i] == '+' || b[i] == '-') {
			i++
		}
		if i >= len(b) || !isDigit(b[i]) {
			return -1
		}
		for i < len(b) && isDigit(b[i]) {
			i++
		}
	}

	return i
}

// scanLiteral matches exactly one of true, false, null.
func (s *Scanner) scanLiteral() (Token, error) {
	literals := []struct {
		text []byte
		typ  TokenType
	}{
		{[]byte("true"), TokenTrue},
		{[]byte("false"), TokenFalse},
		{[]byte("null"), TokenNull},
	}

	start := s.pos
	for _, lit := range literals {
		end := start + len(lit.text)
		if end <= len(s.data) && string(s.data[start:end]) == string(lit.text) {
			s.pos = end
			return Token{Type: lit.typ, Text: s.data[start:end], Offset: start}, nil
		}
	}
	return Token{}, &ParseError{Message: "invalid literal", Offset: start}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
