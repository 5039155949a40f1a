// Package wordify converts whole numbers into English words using the short
// scale (billion = 10^9, trillion = 10^12, ...).
//
// Three entry points are provided:
//
//   - NumberToWords accepts any supported input and never fails. Invalid or
//     out-of-range input yields the text "number invalid".
//   - Words validates its input and reports ErrType or ErrRange.
//   - Convert renders an already canonical *big.Int.
//
// Output uses hyphens for compound tens ("twenty-one"), "and" before a final
// group below one hundred ("one hundred and one", "one thousand and one") and
// "minus" for negative values. WithSerialCommas adds commas after scale names.
//
// All functions are safe for concurrent use by multiple goroutines.
//
// Known limitations:
//
//   - Magnitude must be below 10^36 (the largest scale is "decillion").
//   - Fractions, ordinals and the long scale are not supported.
package wordify

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrType reports input that is not a whole number.
	ErrType = errors.New("wordify: input must be an integer")

	// ErrRange reports a whole number whose magnitude is 10^36 or more.
	ErrRange = errors.New("wordify: input is outside the valid range")

	// ErrScale reports a magnitude with no scale name. Validated input never hits it.
	ErrScale = errors.New("wordify: no scale name for magnitude")
)

// NumberToWords returns the English words for v, or Invalid when v is not a
// whole number below 10^36 in magnitude. See Validate for accepted inputs.
func NumberToWords(v any, opts ...Option) string {
	s, err := Words(v, opts...)
	if err != nil {
		return Invalid
	}
	return s
}

// Words validates v and returns its English words.
func Words(v any, opts ...Option) (string, error) {
	n, err := Validate(v)
	if err != nil {
		return "", err
	}
	return Convert(n, opts...)
}

// Convert returns the English words for n. Zero returns "zero" and negative
// values are prefixed with "minus".
func Convert(n *big.Int, opts ...Option) (string, error) {
	if n == nil {
		return "", fmt.Errorf("%w: got nil *big.Int", ErrType)
	}
	if n.CmpAbs(limit) >= 0 {
		return "", fmt.Errorf("%w: magnitude must be below 10^%d", ErrRange, maxExponent)
	}

	c := newConverter(opts)
	switch n.Sign() {
	case 0:
		return wordZero, nil
	case -1:
		s, err := c.words(new(big.Int).Neg(n))
		if err != nil {
			return "", err
		}
		return wordNegative + " " + s, nil
	default:
		return c.words(n)
	}
}
