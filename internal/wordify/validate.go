package wordify

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// floatPrec is wide enough to hold every integer below 10^36 exactly.
const floatPrec = 256

// Validate converts v into a canonical integer.
//
// Accepted inputs are the built-in integer kinds, *big.Int, float32 and
// float64 values with no fractional part, json.Number, and strings holding
// a base-10 integer literal. A literal may carry a sign, surrounding
// whitespace and single underscores between digits ("-1_000").
//
// Returns an error wrapping ErrType when v is not a whole number and
// ErrRange when its magnitude is 10^36 or more.
func Validate(v any) (*big.Int, error) {
	n, err := canonical(v)
	if err != nil {
		return nil, err
	}
	if n.CmpAbs(limit) >= 0 {
		return nil, fmt.Errorf("%w: magnitude must be below 10^%d", ErrRange, maxExponent)
	}
	return n, nil
}

func canonical(v any) (*big.Int, error) {
	switch x := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: got nil", ErrType)
	case *big.Int:
		if x == nil {
			return nil, fmt.Errorf("%w: got nil *big.Int", ErrType)
		}
		return new(big.Int).Set(x), nil
	case int:
		return big.NewInt(int64(x)), nil
	case int8:
		return big.NewInt(int64(x)), nil
	case int16:
		return big.NewInt(int64(x)), nil
	case int32:
		return big.NewInt(int64(x)), nil
	case int64:
		return big.NewInt(x), nil
	case uint:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	case json.Number:
		return fromJSONNumber(x)
	case string:
		return fromLiteral(x)
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrType, v)
	}
}

func fromFloat(f float64) (*big.Int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v is not finite", ErrType, f)
	}
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("%w: %v has a fractional part", ErrType, f)
	}
	n, _ := new(big.Float).SetFloat64(f).Int(nil)
	return n, nil
}

// fromJSONNumber accepts integer literals exactly and otherwise reads the
// number as an exact decimal ("1e3" and "10.0" are whole, "10.5" is not).
func fromJSONNumber(num json.Number) (*big.Int, error) {
	s := string(num)
	if n, ok := new(big.Int).SetString(s, 10); ok {
		return n, nil
	}
	f, _, err := big.ParseFloat(s, 10, floatPrec, big.ToNearestEven)
	if err != nil || f.IsInf() {
		return nil, fmt.Errorf("%w: %q is not a number", ErrType, s)
	}
	if !f.IsInt() {
		return nil, fmt.Errorf("%w: %q has a fractional part", ErrType, s)
	}
	// MantExp reports the binary exponent; anything past 2^128 is far out of range
	// and would be expensive to materialize.
	if f.MantExp(nil) > 128 {
		return nil, fmt.Errorf("%w: magnitude must be below 10^%d", ErrRange, maxExponent)
	}
	n, _ := f.Int(nil)
	return n, nil
}

func fromLiteral(s string) (*big.Int, error) {
	t := strings.TrimSpace(s)
	if !isIntegerLiteral(t) {
		return nil, fmt.Errorf("%w: %q is not an integer literal", ErrType, s)
	}
	n, ok := new(big.Int).SetString(strings.ReplaceAll(t, "_", ""), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an integer literal", ErrType, s)
	}
	return n, nil
}

// isIntegerLiteral reports whether s is an optionally signed run of ASCII digits
// where single underscores may separate digits.
func isIntegerLiteral(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			if i == 0 || i == len(s)-1 || s[i-1] == '_' {
				return false
			}
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
