// Unexported conversion functions for English number-to-text conversion.
package wordify

import (
	"fmt"
	"math/big"
	"strings"
)

// converter carries the per-call rendering options. The zero value renders
// without serial commas.
type converter struct {
	serialCommas bool
}

// words converts a positive, range-checked n into its phrase.
func (c converter) words(n *big.Int) (string, error) {
	tokens, err := c.tokens(n, false)
	if err != nil {
		return "", err
	}
	return strings.Join(tokens, " "), nil
}

// tokens dispatches n to the handler for its magnitude. withAnd requests the
// conjunction for a trailing sub-hundred group. Zero yields no tokens.
func (c converter) tokens(n *big.Int, withAnd bool) ([]string, error) {
	if n.Sign() == 0 {
		return nil, nil
	}

	if word, ok := shortcut(n); ok {
		if withAnd {
			return []string{wordAnd, word}, nil
		}
		return []string{word}, nil
	}

	if n.IsUint64() {
		switch v := n.Uint64(); {
		case v < 100:
			return belowHundred(v, withAnd), nil
		case v < 1000:
			return c.belowThousand(v)
		}
	}

	return c.decompose(n)
}

// shortcut returns the word for n when no decomposition is needed: 1–19,
// a multiple of ten below 100, or an exact power of ten with a scale name.
func shortcut(n *big.Int) (string, bool) {
	if n.IsUint64() {
		v := n.Uint64()
		if v < uint64(len(atomic)) && atomic[v] != "" {
			return atomic[v], true
		}
		if v > 0 && v < 100 && v%10 == 0 {
			return tens[v/10], true
		}
	}

	exp, exact := magnitudeExponent(n)
	if !exact {
		return "", false
	}
	if name, ok := scales[exp]; ok {
		return wordOne + " " + name, true
	}
	return "", false
}

// belowHundred renders v in [21, 99]. Callers must have ruled out shortcuts.
func belowHundred(v uint64, withAnd bool) []string {
	word := tens[v/10]
	if units := v % 10; units != 0 {
		word += "-" + atomic[units]
	}
	if withAnd {
		return []string{wordAnd, word}
	}
	return []string{word}
}

// belowThousand renders v in [100, 999] as "<digit> hundred" plus the remainder.
func (c converter) belowThousand(v uint64) ([]string, error) {
	head := atomic[v/100] + " " + scales[2]

	rest, err := c.tokens(new(big.Int).SetUint64(v%100), true)
	if err != nil {
		return nil, fmt.Errorf("hundreds remainder of %d: %w", v, err)
	}
	if len(rest) == 0 {
		return []string{head}, nil
	}
	return append([]string{head}, rest...), nil
}

// decompose splits n >= 1000 at its largest scale boundary and converts both halves.
func (c converter) decompose(n *big.Int) ([]string, error) {
	exp, _ := magnitudeExponent(n)
	boundary := exp - exp%3

	name, ok := scales[boundary]
	if !ok || boundary < 3 {
		return nil, fmt.Errorf("%w: exponent %d", ErrScale, boundary)
	}

	high, low := new(big.Int).QuoRem(n, powers[boundary], new(big.Int))

	head, err := c.tokens(high, false)
	if err != nil {
		return nil, err
	}
	tail, err := c.tokens(low, true)
	if err != nil {
		return nil, err
	}

	if c.serialCommas && len(tail) > 0 && tail[0] != wordAnd {
		name += ","
	}

	out := make([]string, 0, len(head)+1+len(tail))
	out = append(out, head...)
	out = append(out, name)
	return append(out, tail...), nil
}
