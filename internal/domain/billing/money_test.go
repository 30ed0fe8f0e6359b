package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestEqualWithin(t *testing.T) {
	assert.True(t, EqualWithin(dec("10.00"), dec("10.00")))
	assert.True(t, EqualWithin(dec("10.00"), dec("10.01")))
	assert.True(t, EqualWithin(dec("10.01"), dec("10.00")))
	assert.False(t, EqualWithin(dec("10.00"), dec("10.02")))
}

func TestApplyRate(t *testing.T) {
	assert.True(t, ApplyRate(dec("100.00"), dec("7")).Equal(dec("7.00")))
	assert.True(t, ApplyRate(dec("100.00"), dec("10")).Equal(dec("10.00")))
	assert.True(t, ApplyRate(dec("33.33"), dec("7")).Equal(dec("2.33")))
	assert.True(t, ApplyRate(dec("0"), dec("7")).Equal(decimal.Zero))
}

func TestEqualSplit_NoRemainder(t *testing.T) {
	shares := EqualSplit(dec("33.33"), 3)
	require.Len(t, shares, 3)
	for _, s := range shares {
		assert.True(t, s.Equal(dec("11.11")), "share %s", s)
	}
	assert.True(t, Sum(shares).Equal(dec("33.33")))
}

func TestEqualSplit_RemainderGoesToLastShare(t *testing.T) {
	shares := EqualSplit(dec("10.00"), 3)
	require.Len(t, shares, 3)

	assert.True(t, shares[0].Equal(dec("3.33")))
	assert.True(t, shares[1].Equal(dec("3.33")))
	// The last share, not the first, absorbs the remainder.
	assert.True(t, shares[2].Equal(dec("3.34")))
	assert.True(t, Sum(shares).Equal(dec("10.00")))
}

func TestEqualSplit_SumIsExact(t *testing.T) {
	totals := []string{"0.01", "0.05", "1.00", "99.99", "100.00", "117.00", "123.45"}
	for _, total := range totals {
		for n := 2; n <= 20; n++ {
			shares := EqualSplit(dec(total), n)
			require.Len(t, shares, n)
			assert.True(t, Sum(shares).Equal(dec(total)),
				"total %s across %d shares sums to %s", total, n, Sum(shares))

			// All shares but the last carry the common base amount.
			for i := 0; i < n-1; i++ {
				assert.True(t, shares[i].Equal(shares[0]),
					"total %s across %d: share %d differs from base", total, n, i)
			}
			assert.True(t, shares[n-1].Cmp(shares[0]) >= 0,
				"last share must not be below the base")
		}
	}
}

func TestEqualSplit_InvalidCount(t *testing.T) {
	assert.Nil(t, EqualSplit(dec("10.00"), 0))
	assert.Nil(t, EqualSplit(dec("10.00"), -1))
}
