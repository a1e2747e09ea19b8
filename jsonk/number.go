package jsonk

import (
	"math"
	"strconv"
)

// maxFractionDigits bounds the stored fractional precision. Digits beyond
// this are truncated, which is the documented reduced-fidelity policy of
// the number model.
const maxFractionDigits = 9

// Number is the reduced-precision numeric payload of a Value: a sign flag,
// an absolute integer magnitude, and an optional decimal fraction of at most
// nine digits. Exponents are validated by the grammar but never folded into
// the magnitude; a number carrying one is simply marked non-integer.
type Number struct {
	Negative   bool
	Magnitude  int64  // absolute value of the integer part
	Fraction   uint32 // fractional digits as an integer, e.g. 0.05 -> 5
	FracDigits uint8  // digit count of Fraction, preserves leading zeros
	IsInt      bool   // true when the source had no fraction or exponent
}

func numberFromInt(n int64) Number {
	neg := n < 0
	if neg {
		n = -n
	}
	return Number{Negative: neg, Magnitude: n, IsInt: true}
}

// parseNumber converts validated JSON number text into the reduced
// representation. The magnitude saturates at the int64 maximum and fraction
// digits past the precision bound are dropped.
func parseNumber(text string) (Number, error) {
	if len(text) == 0 {
		return Number{}, &ParseError{Message: "empty number"}
	}

	// Validate the full grammar first so direct API construction is as
	// strict as the tokenizer.
	if n := numberLen([]byte(text)); n != len(text) {
		return Number{}, &ParseError{Message: "invalid number syntax", Offset: max(n, 0)}
	}

	var num Number
	num.IsInt = true
	i := 0
	if text[i] == '-' {
		num.Negative = true
		i++
	}

	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		digit := int64(text[i] - '0')
		if num.Magnitude > math.MaxInt64/10 ||
			(num.Magnitude == math.MaxInt64/10 && digit > math.MaxInt64%10) {
			num.Magnitude = math.MaxInt64
			// Saturate and skip the remaining integer digits.
			for i < len(text) && text[i] >= '0' && text[i] <= '9' {
				i++
			}
			break
		}
		num.Magnitude = num.Magnitude*10 + digit
		i++
	}

	if i < len(text) && text[i] == '.' {
		num.IsInt = false
		i++
		for i < len(text) && text[i] >= '0' && text[i] <= '9' {
			if num.FracDigits < maxFractionDigits {
				num.Fraction = num.Fraction*10 + uint32(text[i]-'0')
				num.FracDigits++
			}
			i++
		}
	}

	if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
		// Accepted syntactically, not folded into the value.
		num.IsInt = false
	}

	return num, nil
}

// appendNumber renders n in the serializer's format: [-]integer for pure
// integers, [-]integer.fraction otherwise. A fractional number with no
// stored digits (exponent-only input) renders as integer.0.
func appendNumber(dst []byte, n Number) []byte {
	if n.Negative {
		dst = append(dst, '-')
	}
	dst = strconv.AppendInt(dst, n.Magnitude, 10)
	if n.IsInt {
		return dst
	}
	dst = append(dst, '.')
	if n.FracDigits == 0 {
		return append(dst, '0')
	}
	frac := strconv.AppendUint(nil, uint64(n.Fraction), 10)
	for pad := int(n.FracDigits) - len(frac); pad > 0; pad-- {
		dst = append(dst, '0')
	}
	return append(dst, frac...)
}

// String returns the serialized form of the number.
func (n Number) String() string {
	return string(appendNumber(nil, n))
}
