package jsonk

import "errors"

// ErrOverflow reports that serialized output would exceed the destination
// buffer. Bytes already written are not meaningful output.
var ErrOverflow = errors.New("jsonk: output buffer overflow")

// Serialize writes the minimal JSON text of v into buf and returns the exact
// byte count written. The moment the buffer capacity would be exceeded it
// fails with ErrOverflow; partial output is never valid. Member and element
// order in the output matches insertion order.
func Serialize(v *Value, buf []byte) (int, error) {
	if v == nil {
		return 0, ErrNilValue
	}
	e := &emitter{buf: buf[:0], cap: len(buf)}
	if err := e.emit(v); err != nil {
		return 0, err
	}
	return len(e.buf), nil
}

// EmitString serializes v into a growing buffer and returns the text.
func EmitString(v *Value) string {
	if v == nil {
		return ""
	}
	e := &emitter{grow: true}
	e.emit(v)
	return string(e.buf)
}

type emitter struct {
	buf  []byte
	cap  int  // capacity bound; ignored in grow mode
	grow bool // unbounded append mode
}

func (e *emitter) writeByte(c byte) error {
	if !e.grow && len(e.buf)+1 > e.cap {
		return ErrOverflow
	}
	e.buf = append(e.buf, c)
	return nil
}

func (e *emitter) write(s []byte) error {
	if !e.grow && len(e.buf)+len(s) > e.cap {
		return ErrOverflow
	}
	e.buf = append(e.buf, s...)
	return nil
}

func (e *emitter) emit(v *Value) error {
	switch v.Type() {
	case TypeNull:
		return e.write([]byte("null"))

	case TypeBool:
		if v.boolVal {
			return e.write([]byte("true"))
		}
		return e.write([]byte("false"))

	case TypeNumber:
		var scratch [32]byte
		return e.write(appendNumber(scratch[:0], v.numVal))

	case TypeString:
		return e.emitString(v.strVal)

	case TypeObject:
		if err := e.writeByte('{'); err != nil {
			return err
		}
		for i := range v.members {
			if i > 0 {
				if err := e.writeByte(','); err != nil {
					return err
				}
			}
			if err := e.emitString(v.members[i].Key); err != nil {
				return err
			}
			if err := e.writeByte(':'); err != nil {
				return err
			}
			if err := e.emit(v.members[i].Value); err != nil {
				return err
			}
		}
		return e.writeByte('}')

	case TypeArray:
		if err := e.writeByte('['); err != nil {
			return err
		}
		for i, elem := range v.elems {
			if i > 0 {
				if err := e.writeByte(','); err != nil {
					return err
				}
			}
			if err := e.emit(elem); err != nil {
				return err
			}
		}
		return e.writeByte(']')
	}
	return ErrNilValue
}

// emitString writes a quoted, re-escaped string. Quote, backslash and the
// named control characters are escaped; all other bytes are copied verbatim,
// including \uXXXX sequences preserved from the source text (already
// escaped-form bytes round-trip through the backslash escape).
func (e *emitter) emitString(s string) error {
	if err := e.writeByte('"'); err != nil {
		return err
	}
	for i := 0; i < len(s); i++ {
		var esc byte
		switch c := s[i]; c {
		case '"':
			esc = '"'
		case '\\':
			esc = '\\'
		case '\b':
			esc = 'b'
		case '\f':
			esc = 'f'
		case '\n':
			esc = 'n'
		case '\r':
			esc = 'r'
		case '\t':
			esc = 't'
		default:
			if err := e.writeByte(c); err != nil {
				return err
			}
			continue
		}
		if err := e.writeByte('\\'); err != nil {
			return err
		}
		if err := e.writeByte(esc); err != nil {
			return err
		}
	}
	return e.writeByte('"')
}
