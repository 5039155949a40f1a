package wordify

import "math/big"

// smallLimit is the value from which exponents are computed by repeated division.
// Below it every value fits a uint64 and is compared against smallPowers directly.
const smallLimit uint64 = 10_000_000_000

var smallPowers = [...]uint64{
	1,
	10,
	100,
	1_000,
	10_000,
	100_000,
	1_000_000,
	10_000_000,
	100_000_000,
	1_000_000_000,
}

var bigTen = big.NewInt(10)

// magnitudeExponent returns floor(log10(n)) for a positive n and reports whether
// n is an exact power of ten. Non-positive input yields (0, false).
func magnitudeExponent(n *big.Int) (exp int, exact bool) {
	if n.Sign() <= 0 {
		return 0, false
	}
	if n.IsUint64() && n.Uint64() < smallLimit {
		return smallExponent(n.Uint64())
	}

	q := new(big.Int).Set(n)
	r := new(big.Int)
	exact = true
	for q.Cmp(bigTen) >= 0 {
		q.QuoRem(q, bigTen, r)
		if r.Sign() != 0 {
			exact = false
		}
		exp++
	}
	// q is the leading digit now; a power of ten leads with 1.
	return exp, exact && q.IsInt64() && q.Int64() == 1
}

func smallExponent(v uint64) (int, bool) {
	exp := 0
	for exp+1 < len(smallPowers) && v >= smallPowers[exp+1] {
		exp++
	}
	return exp, v == smallPowers[exp]
}
