package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablewise/tablewise-api/internal/domain/entity"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
	"github.com/tablewise/tablewise-api/pkg/apperror"
)

func newSplitService(repo *memRepo) *SplitService {
	return NewSplitService(orderRepoView{repo}, newPaymentService(repo))
}

// readyOrder checks out a 100.00 order (grand total 117.00) and walks it to
// READY so paying it off can complete it.
func readyOrder(t *testing.T, repo *memRepo) *entity.Order {
	t.Helper()
	orders := newOrderService(repo)
	order := checkoutOrder(t, repo, orders, "100.00")
	_, err := orders.Accept(context.Background(), order.ID)
	require.NoError(t, err)
	ready, err := orders.MarkReady(context.Background(), order.ID)
	require.NoError(t, err)
	return ready
}

func TestEqualSplitSharesSumToGrandTotal(t *testing.T) {
	repo := newMemRepo()
	splits := newSplitService(repo)
	order := readyOrder(t, repo)

	split, err := splits.CreateSplit(context.Background(), order.ID, enum.SplitMethodEqual, nil, 3)
	require.NoError(t, err)
	require.Len(t, split.Shares, 3)

	sum := decimal.Zero
	for _, share := range split.Shares {
		sum = sum.Add(share.Amount)
	}
	assert.True(t, sum.Equal(dec("117.00")), "shares sum %s", sum)
	assert.True(t, split.Shares[0].Amount.Equal(dec("39.00")))
}

func TestEqualSplitDinerBounds(t *testing.T) {
	repo := newMemRepo()
	splits := newSplitService(repo)
	order := readyOrder(t, repo)

	for _, diners := range []int{0, 1, 21} {
		_, err := splits.CreateSplit(context.Background(), order.ID, enum.SplitMethodEqual, nil, diners)
		assert.True(t, apperror.IsKind(err, apperror.KindBadRequest), "diners %d", diners)
	}
}

func TestCustomSplitMustBalance(t *testing.T) {
	repo := newMemRepo()
	splits := newSplitService(repo)
	order := readyOrder(t, repo)

	_, err := splits.CreateSplit(context.Background(), order.ID, enum.SplitMethodCustom,
		[]decimal.Decimal{dec("40.00"), dec("40.00")}, 0)
	assert.True(t, apperror.IsKind(err, apperror.KindUnbalancedSplit))

	split, err := splits.CreateSplit(context.Background(), order.ID, enum.SplitMethodCustom,
		[]decimal.Decimal{dec("60.00"), dec("57.00")}, 0)
	require.NoError(t, err)
	assert.Len(t, split.Shares, 2)
}

func TestByItemSplitRejected(t *testing.T) {
	repo := newMemRepo()
	splits := newSplitService(repo)
	order := readyOrder(t, repo)

	_, err := splits.CreateSplit(context.Background(), order.ID, enum.SplitMethodByItem, nil, 0)
	assert.True(t, apperror.IsKind(err, apperror.KindUnsupportedSplitMethod))
}

func TestSplitOnCancelledOrderRejected(t *testing.T) {
	repo := newMemRepo()
	splits := newSplitService(repo)
	orders := newOrderService(repo)
	order := checkoutOrder(t, repo, orders, "100.00")
	_, err := orders.Cancel(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = splits.CreateSplit(context.Background(), order.ID, enum.SplitMethodEqual, nil, 2)
	assert.True(t, apperror.IsKind(err, apperror.KindOrderNotModifiable))
}

func TestValidateCustomSplitReportsRemaining(t *testing.T) {
	repo := newMemRepo()
	splits := newSplitService(repo)
	order := readyOrder(t, repo)

	result, err := splits.ValidateCustomSplit(context.Background(), order.ID,
		[]decimal.Decimal{dec("50.00"), dec("40.00")})
	require.NoError(t, err)
	assert.False(t, result.IsBalanced)
	assert.True(t, result.IsUnderpaid)
	assert.True(t, result.Remaining.Equal(dec("27.00")), "remaining %s", result.Remaining)
}

func TestPayingAllSharesCompletesOrder(t *testing.T) {
	repo := newMemRepo()
	splits := newSplitService(repo)
	order := readyOrder(t, repo)

	split, err := splits.CreateSplit(context.Background(), order.ID, enum.SplitMethodEqual, nil, 3)
	require.NoError(t, err)

	for _, share := range split.Shares {
		_, err := splits.PayShare(context.Background(), order.ID, share.ID, enum.PaymentMethodCreditCard, nil)
		require.NoError(t, err)
	}

	stored := repo.orders[order.ID]
	assert.Equal(t, enum.OrderStatusCompleted, stored.Status)
	assert.True(t, stored.TotalPaid.Equal(dec("117.00")))
	assert.Len(t, stored.Payments, 3)

	// The completed split is discarded.
	_, err = splits.GetSplit(context.Background(), order.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestPayShareTwiceRejected(t *testing.T) {
	repo := newMemRepo()
	splits := newSplitService(repo)
	order := readyOrder(t, repo)

	split, err := splits.CreateSplit(context.Background(), order.ID, enum.SplitMethodEqual, nil, 2)
	require.NoError(t, err)

	shareID := split.Shares[0].ID
	_, err = splits.PayShare(context.Background(), order.ID, shareID, enum.PaymentMethodCash, nil)
	require.NoError(t, err)

	_, err = splits.PayShare(context.Background(), order.ID, shareID, enum.PaymentMethodCash, nil)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestReplaceSplitWithPaidSharesRejected(t *testing.T) {
	repo := newMemRepo()
	splits := newSplitService(repo)
	order := readyOrder(t, repo)

	split, err := splits.CreateSplit(context.Background(), order.ID, enum.SplitMethodEqual, nil, 2)
	require.NoError(t, err)

	// Unpaid splits may be replaced freely.
	_, err = splits.CreateSplit(context.Background(), order.ID, enum.SplitMethodEqual, nil, 4)
	require.NoError(t, err)

	split, err = splits.GetSplit(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, split.Shares, 4)

	_, err = splits.PayShare(context.Background(), order.ID, split.Shares[0].ID, enum.PaymentMethodCash, nil)
	require.NoError(t, err)

	_, err = splits.CreateSplit(context.Background(), order.ID, enum.SplitMethodEqual, nil, 2)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestEqualSplitRemainderGoesToLastShare(t *testing.T) {
	repo := newMemRepo()
	splits := newSplitService(repo)
	orders := newOrderService(repo)

	// 85.50 subtotal -> 100.04 grand total, which does not divide evenly
	// by three.
	order := checkoutOrder(t, repo, orders, "85.50")
	require.True(t, order.GrandTotal.Equal(dec("100.04")), "grand total %s", order.GrandTotal)

	split, err := splits.CreateSplit(context.Background(), order.ID, enum.SplitMethodEqual, nil, 3)
	require.NoError(t, err)

	assert.True(t, split.Shares[0].Amount.Equal(dec("33.34")))
	assert.True(t, split.Shares[1].Amount.Equal(dec("33.34")))
	assert.True(t, split.Shares[2].Amount.Equal(dec("33.36")), "last share absorbs the remainder, got %s", split.Shares[2].Amount)
}
