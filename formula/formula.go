/*
Package formula implements constant reserve ratio (CRR) bonding curve math
used by the converter contract.

All values are NeoVM integers. Fractional intermediates are kept in a fixed
point representation scaled by 10^30 (see One). Every function rounds in the
direction that favours the pool: amounts paid out to a user are lower bounds
of the exact result, amounts a user has to pay are upper bounds.

Ratios and fees are expressed in parts per million (see PPM).
*/
package formula

import "github.com/nspcc-dev/neo-go/pkg/interop/math"

const (
	// PPM is the denominator of ratio and fee values, 1_000_000 means 100%.
	PPM = 1_000_000

	scaleDigits = 30

	// maxTerms limits the number of series terms. Both series converge
	// well before that for arguments they are called with.
	maxTerms = 100

	// maxExponent limits the power of two exp may be scaled by.
	maxExponent = 96

	// ErrOverflow is thrown when intermediate value grows out of a
	// reasonable bound, e.g. exponent of a tiny reserve ratio.
	ErrOverflow = "formula overflow"
)

// One returns fixed point representation of 1.
func One() int {
	return math.Pow(10, scaleDigits)
}

// ln2 returns ln(2) in fixed point representation rounded down or up.
func ln2(up bool) int {
	// 0.693147180559945309417232121458|176568...
	v := 693147180559945*math.Pow(10, 15) + 309417232121458
	if up {
		v++
	}
	return v
}

// div divides non-negative a by positive b rounding down or up.
func div(a, b int, up bool) int {
	if up {
		return (a + b - 1) / b
	}
	return a / b
}

// ln returns natural logarithm of fixed point x >= One. The result is a lower
// bound of the exact value if up is false and an upper bound otherwise.
func ln(x int, up bool) int {
	s := One()
	if x < s {
		panic("logarithm argument is less than one")
	}

	k := 0
	for x >= 2*s {
		x = div(x, 2, up)
		k++
	}

	// ln(x) = 2 * atanh(z), z = (x-1)/(x+1) <= 1/3
	z := div((x-s)*s, x+s, up)
	z2 := div(z*z, s, up)

	sum := 0
	p := z
	for n := 1; p > 0 && n < 2*maxTerms; n += 2 {
		sum += div(p, n, up)
		if up && p <= 1 {
			// The rest of the series is less than one unit.
			sum++
			break
		}
		p = div(p*z2, s, up)
	}

	return k*ln2(up) + 2*sum
}

// exp returns e^y for fixed point y >= 0. The result is a lower bound of
// the exact value if up is false and an upper bound otherwise.
func exp(y int, up bool) int {
	if y < 0 {
		panic("exponent argument is negative")
	}

	s := One()

	// e^y = 2^k * e^r. Using ln(2) rounded in the opposite direction keeps
	// the bound: k*ln2Hi+r >= y for the lower one and k*ln2Lo+r <= y for
	// the upper one.
	l := ln2(!up)
	k := y / l
	if k > maxExponent {
		panic(ErrOverflow)
	}
	r := y - k*l

	sum := s
	term := s
	for n := 1; term > 0 && n <= maxTerms; n++ {
		term = div(term*r, s*n, up)
		sum += term
		if up && term <= 1 {
			sum++
			break
		}
	}

	return sum * math.Pow(2, k)
}

// expNeg returns e^-y for fixed point y >= 0 rounded down or up.
func expNeg(y int, up bool) int {
	s := One()
	if y/ln2(false) >= maxExponent {
		// e^-y <= 2^-maxExponent here.
		if up {
			return div(s, math.Pow(2, maxExponent), true)
		}
		return 0
	}

	return div(s*s, exp(y, !up), up)
}

// applyFee deducts fee part of the gross value. The fee is rounded up.
func applyFee(gross, fee int) (int, int) {
	f := div(gross*fee, PPM, true)
	return gross - f, f
}

// PurchaseReturn returns the amount of pool tokens issued for the deposit
// of amount into the reserve and the fee deducted from it:
//
//	supply * ((1 + amount / balance) ^ (ratio / 1e6) - 1)
func PurchaseReturn(supply, balance, ratio, amount, fee int) (int, int) {
	var gross int
	if ratio == PPM {
		gross = supply * amount / balance
	} else {
		s := One()
		y := ln((balance+amount)*s/balance, false) * ratio / PPM
		gross = supply * (exp(y, false) - s) / s
	}
	return applyFee(gross, fee)
}

// SaleReturn returns the amount of reserve tokens paid out for selling
// amount of pool tokens and the fee deducted from it:
//
//	balance * (1 - (1 - amount / supply) ^ (1e6 / ratio))
func SaleReturn(supply, balance, ratio, amount, fee int) (int, int) {
	var gross int
	switch {
	case amount == supply:
		gross = balance
	case ratio == PPM:
		gross = balance * amount / supply
	default:
		gross = drain(supply, balance, ratio, amount)
	}
	return applyFee(gross, fee)
}

// CrossReserveReturn returns the amount of target reserve tokens paid out for
// the deposit of amount into the source reserve and the fee deducted from it:
//
//	toBalance * (1 - (fromBalance / (fromBalance + amount)) ^ (fromRatio / toRatio))
//
// For equal ratios it is toBalance * amount / (fromBalance + amount).
func CrossReserveReturn(fromBalance, fromRatio, toBalance, toRatio, amount, fee int) (int, int) {
	var gross int
	if fromRatio == toRatio {
		gross = toBalance * amount / (fromBalance + amount)
	} else {
		s := One()
		y := ln((fromBalance+amount)*s/fromBalance, false) * fromRatio / toRatio
		gross = toBalance * (s - expNeg(y, true)) / s
	}
	return applyFee(gross, fee)
}

// FundCost returns the amount of reserve tokens one has to pay to get amount
// of new pool tokens. totalRatio is the sum of all reserve ratios.
//
//	balance * ((1 + amount / supply) ^ (1e6 / totalRatio) - 1)
func FundCost(supply, balance, totalRatio, amount int) int {
	if totalRatio == PPM {
		return div(balance*amount, supply, true)
	}

	s := One()
	y := div(ln(div((supply+amount)*s, supply, true), true)*PPM, totalRatio, true)
	return div(balance*(exp(y, true)-s), s, true)
}

// LiquidateReturn returns the amount of reserve tokens paid out for burning
// amount of pool tokens. totalRatio is the sum of all reserve ratios.
//
//	balance * (1 - (1 - amount / supply) ^ (1e6 / totalRatio))
func LiquidateReturn(supply, balance, totalRatio, amount int) int {
	switch {
	case amount == supply:
		return balance
	case totalRatio == PPM:
		return balance * amount / supply
	default:
		return drain(supply, balance, totalRatio, amount)
	}
}

// drain is a lower bound of balance * (1 - (1 - amount / supply) ^ (1e6 / ratio)).
func drain(supply, balance, ratio, amount int) int {
	s := One()
	// (1 - a/s) ^ w = e ^ -(ln(s / (s - a)) * w)
	y := ln(supply*s/(supply-amount), false) * PPM / ratio
	return balance * (s - expNeg(y, true)) / s
}
