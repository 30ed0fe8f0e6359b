// Package billing holds the pure decision logic of the order lifecycle:
// decimal money arithmetic, the discount authorization policy, and the
// bill-split calculator. Nothing in this package touches storage or HTTP.
package billing

import "github.com/shopspring/decimal"

// Epsilon is the one-cent tolerance used when comparing monetary sums.
// It absorbs rounding from equal-split division and rate application.
var Epsilon = decimal.New(1, -2) // 0.01

// Zero is the zero monetary amount.
var Zero = decimal.Zero

// Round normalizes an amount to two fractional digits (half up).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// EqualWithin reports whether |a - b| <= Epsilon.
func EqualWithin(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().Cmp(Epsilon) <= 0
}

// ApplyRate multiplies an amount by a percentage rate (e.g. 7 for 7% VAT)
// and rounds the result to two fractional digits.
func ApplyRate(amount decimal.Decimal, ratePercent decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(ratePercent).Div(decimal.NewFromInt(100)))
}

// EqualSplit divides total into n shares of whole cents.
//
// base = floor(total*100/n)/100 for every share; the remainder (always >= 0
// and < n cents) is added entirely to the last share, so the shares always
// sum to total exactly. Assigning the remainder to the last share rather
// than spreading fractional cents is a deliberate policy: the final diner
// settles the rounding.
func EqualSplit(total decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}

	cents := total.Mul(decimal.NewFromInt(100))
	base := cents.Div(decimal.NewFromInt(int64(n))).Floor().Div(decimal.NewFromInt(100))

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		shares[i] = base
	}

	remainder := total.Sub(base.Mul(decimal.NewFromInt(int64(n))))
	shares[n-1] = shares[n-1].Add(remainder)
	return shares
}

// Sum adds a sequence of amounts.
func Sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
