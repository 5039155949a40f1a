// Word tables for English number-to-text conversion (short scale).
package wordify

import "math/big"

const (
	// Invalid is returned by NumberToWords for input it cannot convert.
	Invalid = "number invalid"

	wordZero     = "zero"
	wordNegative = "minus"
	wordAnd      = "and"
	wordOne      = "one"

	// maxExponent bounds the supported magnitude: |n| < 10^maxExponent.
	maxExponent = 36
)

// atomic is indexed by value (1–19). Index 0 is unused and 10 lives in tens.
var atomic = [20]string{
	"",
	"one",
	"two",
	"three",
	"four",
	"five",
	"six",
	"seven",
	"eight",
	"nine",
	"",
	"eleven",
	"twelve",
	"thirteen",
	"fourteen",
	"fifteen",
	"sixteen",
	"seventeen",
	"eighteen",
	"nineteen",
}

// tens is indexed by tens digit (1–9); index 0 is unused.
var tens = [10]string{
	"",
	"ten",
	"twenty",
	"thirty",
	"forty",
	"fifty",
	"sixty",
	"seventy",
	"eighty",
	"ninety",
}

// scales maps a base-10 exponent to its short-scale name.
// Keys are 2 plus every multiple of three from 3 to 33.
var scales = map[int]string{
	2:  "hundred",
	3:  "thousand",
	6:  "million",
	9:  "billion",
	12: "trillion",
	15: "quadrillion",
	18: "quintillion",
	21: "sextillion",
	24: "septillion",
	27: "octillion",
	30: "nonillion",
	33: "decillion",
}

// powers holds 10^0 through 10^maxExponent. Entries are shared and must not be modified.
var powers = func() [maxExponent + 1]*big.Int {
	var p [maxExponent + 1]*big.Int
	p[0] = big.NewInt(1)
	ten := big.NewInt(10)
	for i := 1; i <= maxExponent; i++ {
		p[i] = new(big.Int).Mul(p[i-1], ten)
	}
	return p
}()

// limit is the exclusive upper bound on the magnitude of convertible values.
var limit = powers[maxExponent]
