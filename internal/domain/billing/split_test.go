package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
	"github.com/tablewise/tablewise-api/pkg/apperror"
)

func TestNewSplit_Equal(t *testing.T) {
	split, err := NewSplit(uuid.New(), enum.SplitMethodEqual, dec("10.00"), nil, 3)
	require.NoError(t, err)
	require.Len(t, split.Shares, 3)

	assert.True(t, split.Shares[0].Amount.Equal(dec("3.33")))
	assert.True(t, split.Shares[1].Amount.Equal(dec("3.33")))
	assert.True(t, split.Shares[2].Amount.Equal(dec("3.34")))
	assert.False(t, split.Complete())
}

func TestNewSplit_EqualDinerBounds(t *testing.T) {
	_, err := NewSplit(uuid.New(), enum.SplitMethodEqual, dec("10.00"), nil, 1)
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))

	_, err = NewSplit(uuid.New(), enum.SplitMethodEqual, dec("10.00"), nil, 21)
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))

	_, err = NewSplit(uuid.New(), enum.SplitMethodEqual, dec("10.00"), nil, 20)
	assert.NoError(t, err)
}

func TestNewSplit_CustomBalanced(t *testing.T) {
	amounts := []decimal.Decimal{dec("60.00"), dec("40.00")}
	split, err := NewSplit(uuid.New(), enum.SplitMethodCustom, dec("100.00"), amounts, 0)
	require.NoError(t, err)
	require.Len(t, split.Shares, 2)
}

func TestNewSplit_CustomUnderpaid(t *testing.T) {
	amounts := []decimal.Decimal{dec("40.00"), dec("40.00")}

	result := ValidateCustomSplit(amounts, dec("100.00"))
	assert.True(t, result.IsUnderpaid)
	assert.False(t, result.IsBalanced)
	assert.False(t, result.IsOverpaid)
	assert.True(t, result.Remaining.Equal(dec("20.00")))

	_, err := NewSplit(uuid.New(), enum.SplitMethodCustom, dec("100.00"), amounts, 0)
	assert.True(t, apperror.IsKind(err, apperror.KindUnbalancedSplit))
}

func TestValidateCustomSplit_Overpaid(t *testing.T) {
	result := ValidateCustomSplit([]decimal.Decimal{dec("60.00"), dec("50.00")}, dec("100.00"))
	assert.True(t, result.IsOverpaid)
	assert.False(t, result.IsBalanced)
	assert.True(t, result.Remaining.Equal(dec("-10.00")))
}

func TestValidateCustomSplit_WithinEpsilon(t *testing.T) {
	result := ValidateCustomSplit([]decimal.Decimal{dec("50.00"), dec("49.99")}, dec("100.00"))
	assert.True(t, result.IsBalanced)
	assert.False(t, result.IsOverpaid)
	assert.False(t, result.IsUnderpaid)
}

func TestNewSplit_ByItemRejected(t *testing.T) {
	_, err := NewSplit(uuid.New(), enum.SplitMethodByItem, dec("100.00"), nil, 2)
	assert.True(t, apperror.IsKind(err, apperror.KindUnsupportedSplitMethod))
}

func TestSplit_MarkPaidAndComplete(t *testing.T) {
	split, err := NewSplit(uuid.New(), enum.SplitMethodEqual, dec("30.00"), nil, 2)
	require.NoError(t, err)

	require.NoError(t, split.MarkPaid(split.Shares[0].ID, enum.PaymentMethodCash))
	assert.True(t, split.Shares[0].Paid)
	assert.False(t, split.Complete())

	// Paying the same share twice is rejected.
	err = split.MarkPaid(split.Shares[0].ID, enum.PaymentMethodCash)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	require.NoError(t, split.MarkPaid(split.Shares[1].ID, enum.PaymentMethodCreditCard))
	assert.True(t, split.Complete())
}

func TestSplit_MarkPaidUnknownShare(t *testing.T) {
	split, err := NewSplit(uuid.New(), enum.SplitMethodEqual, dec("30.00"), nil, 2)
	require.NoError(t, err)

	err = split.MarkPaid(uuid.New(), enum.PaymentMethodCash)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
