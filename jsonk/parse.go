package jsonk

import "fmt"

// ParseError reports a syntax or resource-limit failure with the byte offset
// where it was detected. Both kinds abort the whole parse: no partial tree
// survives either.
type ParseError struct {
	Message string
	Offset  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("jsonk: %s at offset %d", e.Message, e.Offset)
}

// Limits are the resource caps enforced during a single parse. The zero
// value is unusable; start from DefaultLimits.
type Limits struct {
	MaxDepth         int // nesting depth of values
	MaxStringLength  int // raw string token length, bytes
	MaxArrayElements int // elements per array, and total strings per parse
	MaxObjectMembers int // members per object
	MaxKeyLength     int // decoded object key length, bytes
	MaxTotalMemory   int // cumulative allocation budget, bytes
}

// DefaultLimits returns the reference limits.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:         MaxDepth,
		MaxStringLength:  MaxStringLength,
		MaxArrayElements: MaxArrayElements,
		MaxObjectMembers: MaxObjectMembers,
		MaxKeyLength:     MaxKeyLength,
		MaxTotalMemory:   MaxTotalMemory,
	}
}

// Approximate heap cost charged against the memory budget.
const (
	valueCost = 96 // one Value node
	slotCost  = 24 // one member or element slot
)

// parser is the transient state of one parse call: cursor (inside the
// scanner), nesting depth, and resource counters.
type parser struct {
	sc  *Scanner
	lim Limits

	depth   int
	memory  int // bytes charged so far
	strings int
	arrays  int
	objects int
}

// Parse parses JSON text into a value tree under DefaultLimits. On any
// failure every partially constructed value is released and the error
// describes the first offending offset.
func Parse(data []byte) (*Value, error) {
	return ParseWithLimits(data, DefaultLimits())
}

// ParseWithLimits parses with caller-supplied resource caps.
func ParseWithLimits(data []byte, lim Limits) (*Value, error) {
	if len(data) == 0 {
		return nil, &ParseError{Message: "empty input"}
	}

	p := &parser{sc: NewScanner(data), lim: lim}

	tok, err := p.sc.Next()
	if err != nil {
		return nil, err
	}
	v, err := p.parseValue(tok)
	if err != nil {
		return nil, err
	}

	end, err := p.sc.Next()
	if err != nil {
		v.Release()
		return nil, err
	}
	if end.Type != TokenEOF {
		v.Release()
		return nil, &ParseError{Message: "unexpected data after top-level value", Offset: end.Offset}
	}
	return v, nil
}

// charge adds n bytes to the parse's allocation account.
func (p *parser) charge(n int, at int) error {
	p.memory += n
	if p.memory > p.lim.MaxTotalMemory {
		return &ParseError{Message: "memory budget exceeded", Offset: at}
	}
	return nil
}

// parseValue dispatches on the already-consumed token tok.
func (p *parser) parseValue(tok Token) (*Value, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.lim.MaxDepth {
		return nil, &ParseError{Message: "maximum nesting depth exceeded", Offset: tok.Offset}
	}

	switch tok.Type {
	case TokenObjectStart:
		return p.parseObject(tok)
	case TokenArrayStart:
		return p.parseArray(tok)
	case TokenString:
		return p.parseString(tok)
	case TokenNumber:
		if err := p.charge(valueCost, tok.Offset); err != nil {
			return nil, err
		}
		v, err := NumberFromText(string(tok.Text))
		if err != nil {
			return nil, &ParseError{Message: "invalid number", Offset: tok.Offset}
		}
		return v, nil
	case TokenTrue:
		return Bool(true), nil
	case TokenFalse:
		return Bool(false), nil
	case TokenNull:
		return Null(), nil
	case TokenEOF:
		return nil, &ParseError{Message: "unexpected end of input", Offset: tok.Offset}
	default:
		return nil, &ParseError{Message: "unexpected token " + tok.Type.String(), Offset: tok.Offset}
	}
}

func (p *parser) parseString(tok Token) (*Value, error) {
	if len(tok.Text) > p.lim.MaxStringLength {
		return nil, &ParseError{Message: "string too long", Offset: tok.Offset}
	}
	if p.strings >= p.lim.MaxArrayElements {
		return nil, &ParseError{Message: "too many strings", Offset: tok.Offset}
	}
	s := decodeString(tok.Text)
	if err := p.charge(valueCost+len(s), tok.Offset); err != nil {
		return nil, err
	}
	p.strings++
	return Str(s), nil
}

func (p *parser) parseObject(open Token) (*Value, error) {
	p.objects++
	if err := p.charge(valueCost, open.Offset); err != nil {
		return nil, err
	}
	obj := Object()

	tok, err := p.sc.Next()
	if err != nil {
		obj.Release()
		return nil, err
	}
	if tok.Type == TokenObjectEnd {
		return obj, nil
	}

	for {
		if tok.Type != TokenString {
			obj.Release()
			return nil, &ParseError{Message: "expected object key", Offset: tok.Offset}
		}
		key := decodeString(tok.Text)
		if len(key) > p.lim.MaxKeyLength {
			obj.Release()
			return nil, &ParseError{Message: "object key too long", Offset: tok.Offset}
		}

		colon, err := p.sc.Next()
		if err != nil {
			obj.Release()
			return nil, err
		}
		if colon.Type != TokenColon {
			obj.Release()
			return nil, &ParseError{Message: "expected ':' after object key", Offset: colon.Offset}
		}

		valTok, err := p.sc.Next()
		if err != nil {
			obj.Release()
			return nil, err
		}
		val, err := p.parseValue(valTok)
		if err != nil {
			obj.Release()
			return nil, err
		}

		if len(obj.members) >= p.lim.MaxObjectMembers {
			val.Release()
			obj.Release()
			return nil, &ParseError{Message: "too many object members", Offset: tok.Offset}
		}
		if err := p.charge(slotCost+len(key), tok.Offset); err != nil {
			val.Release()
			obj.Release()
			return nil, err
		}
		// Appended even when the key already exists: the grammar permits
		// duplicate keys and each one becomes its own member.
		obj.members = append(obj.members, Member{Key: key, Value: val})

		tok, err = p.sc.Next()
		if err != nil {
			obj.Release()
			return nil, err
		}
		if tok.Type == TokenObjectEnd {
			return obj, nil
		}
		if tok.Type != TokenComma {
			obj.Release()
			return nil, &ParseError{Message: "expected ',' or '}' in object", Offset: tok.Offset}
		}

		tok, err = p.sc.Next()
		if err != nil {
			obj.Release()
			return nil, err
		}
	}
}

func (p *parser) parseArray(open Token) (*Value, error) {
	p.arrays++
	if err := p.charge(valueCost, open.Offset); err != nil {
		return nil, err
	}
	arr := Array()

	tok, err := p.sc.Next()
	if err != nil {
		arr.Release()
		return nil, err
	}
	if tok.Type == TokenArrayEnd {
		return arr, nil
	}

	for {
		elem, err := p.parseValue(tok)
		if err != nil {
			arr.Release()
			return nil, err
		}

		if len(arr.elems) >= p.lim.MaxArrayElements {
			elem.Release()
			arr.Release()
			return nil, &ParseError{Message: "too many array elements", Offset: tok.Offset}
		}
		if err := p.charge(slotCost, tok.Offset); err != nil {
			elem.Release()
			arr.Release()
			return nil, err
		}
		arr.elems = append(arr.elems, elem)

		tok, err = p.sc.Next()
		if err != nil {
			arr.Release()
			return nil, err
		}
		if tok.Type == TokenArrayEnd {
			return arr, nil
		}
		if tok.Type != TokenComma {
			arr.Release()
			return nil, &ParseError{Message: "expected ',' or ']' in array", Offset: tok.Offset}
		}

		tok, err = p.sc.Next()
		if err != nil {
			arr.Release()
			return nil, err
		}
	}
}

// decodeString converts raw string token contents into the stored form.
// Escapes were already validated by the scanner. \uXXXX sequences are kept
// verbatim rather than decoded to a code point, the documented
// reduced-fidelity policy for strings.
func decodeString(raw []byte) string {
	plain := true
	for _, c := range raw {
		if c == '\\' {
			plain = false
			break
		}
	}
	if plain {
		return string(raw)
	}

	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		i++
		switch raw[i] {
		case '"':
			out = append(out, '"')
		case '\\':
			out = append(out, '\\')
		case '/':
			out = append(out, '/')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'u':
			out = append(out, '\\', 'u')
			// Four validated hex digits follow.
			out = append(out, raw[i+1:i+5]...)
			i += 4
		}
	}
	return string(out)
}
