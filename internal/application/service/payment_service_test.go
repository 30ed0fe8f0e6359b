package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablewise/tablewise-api/internal/domain/entity"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
	"github.com/tablewise/tablewise-api/internal/infrastructure/notify"
	"github.com/tablewise/tablewise-api/pkg/apperror"
	"github.com/tablewise/tablewise-api/pkg/printer"
	"go.uber.org/zap"
)

func newPaymentService(repo *memRepo) *PaymentService {
	receipts := NewReceiptService(printer.NewNullPrinter(), storeRepoView{repo}, zap.NewNop())
	return NewPaymentService(orderRepoView{repo}, repo, notify.NewNoopNotifier(), receipts)
}

// unpaidOrder checks out a 100.00 order (grand total 117.00 with default
// rates) and returns it.
func unpaidOrder(t *testing.T, repo *memRepo) *entity.Order {
	t.Helper()
	svc := newOrderService(repo)
	return checkoutOrder(t, repo, svc, "100.00")
}

func TestRecordPaymentAccumulates(t *testing.T) {
	repo := newMemRepo()
	payments := newPaymentService(repo)
	order := unpaidOrder(t, repo)

	updated, err := payments.RecordPayment(context.Background(), order.ID, PaymentInput{
		Amount: dec("50.00"),
		Method: enum.PaymentMethodCreditCard,
	})
	require.NoError(t, err)
	assert.True(t, updated.TotalPaid.Equal(dec("50.00")))
	assert.False(t, updated.FullyPaid())

	updated, err = payments.RecordPayment(context.Background(), order.ID, PaymentInput{
		Amount: dec("67.00"),
		Method: enum.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.True(t, updated.TotalPaid.Equal(dec("117.00")))
	assert.True(t, updated.FullyPaid())

	// Full payment alone does not complete a PENDING order; the kitchen
	// gate is independent.
	assert.Equal(t, enum.OrderStatusPending, updated.Status)
	assert.Len(t, repo.orders[order.ID].Payments, 2)
}

func TestRecordPaymentCashChange(t *testing.T) {
	repo := newMemRepo()
	payments := newPaymentService(repo)
	order := unpaidOrder(t, repo)

	tendered := dec("120.00")
	updated, err := payments.RecordPayment(context.Background(), order.ID, PaymentInput{
		Amount:         dec("117.00"),
		Method:         enum.PaymentMethodCash,
		AmountTendered: &tendered,
	})
	require.NoError(t, err)

	p := updated.Payments[0]
	assert.True(t, p.Change().Equal(dec("3.00")), "change %s", p.Change())
}

func TestRecordPaymentInsufficientTender(t *testing.T) {
	repo := newMemRepo()
	payments := newPaymentService(repo)
	order := unpaidOrder(t, repo)

	tendered := dec("100.00")
	_, err := payments.RecordPayment(context.Background(), order.ID, PaymentInput{
		Amount:         dec("117.00"),
		Method:         enum.PaymentMethodCash,
		AmountTendered: &tendered,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindInsufficientTender))
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	repo := newMemRepo()
	payments := newPaymentService(repo)
	order := unpaidOrder(t, repo)

	for _, amount := range []string{"0", "-5.00"} {
		_, err := payments.RecordPayment(context.Background(), order.ID, PaymentInput{
			Amount: dec(amount),
			Method: enum.PaymentMethodCash,
		})
		assert.True(t, apperror.IsKind(err, apperror.KindInvalidAmount), "amount %s", amount)
	}
}

func TestRecordPaymentOverpaymentRejectedNotClamped(t *testing.T) {
	repo := newMemRepo()
	payments := newPaymentService(repo)
	order := unpaidOrder(t, repo)

	_, err := payments.RecordPayment(context.Background(), order.ID, PaymentInput{
		Amount: dec("117.02"),
		Method: enum.PaymentMethodCreditCard,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindOverpayment))

	// Nothing was appended to the ledger.
	assert.Empty(t, repo.orders[order.ID].Payments)

	// One cent over is within tolerance.
	updated, err := payments.RecordPayment(context.Background(), order.ID, PaymentInput{
		Amount: dec("117.01"),
		Method: enum.PaymentMethodCreditCard,
	})
	require.NoError(t, err)
	assert.True(t, updated.FullyPaid())
}

func TestRecordPaymentOnCancelledOrder(t *testing.T) {
	repo := newMemRepo()
	payments := newPaymentService(repo)
	orders := newOrderService(repo)
	order := checkoutOrder(t, repo, orders, "50.00")

	_, err := orders.Cancel(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = payments.RecordPayment(context.Background(), order.ID, PaymentInput{
		Amount: dec("10.00"),
		Method: enum.PaymentMethodCash,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindOrderNotModifiable))
}

func TestRecordPaymentCompletesReadyOrder(t *testing.T) {
	repo := newMemRepo()
	payments := newPaymentService(repo)
	orders := newOrderService(repo)
	order := checkoutOrder(t, repo, orders, "100.00")

	_, err := orders.Accept(context.Background(), order.ID)
	require.NoError(t, err)
	_, err = orders.MarkReady(context.Background(), order.ID)
	require.NoError(t, err)

	updated, err := payments.RecordPayment(context.Background(), order.ID, PaymentInput{
		Amount: dec("117.00"),
		Method: enum.PaymentMethodMobilePayment,
	})
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCompleted, updated.Status)
}

func TestRecordPaymentUnknownOrder(t *testing.T) {
	repo := newMemRepo()
	payments := newPaymentService(repo)

	_, err := payments.RecordPayment(context.Background(), uuid.New(), PaymentInput{
		Amount: dec("10.00"),
		Method: enum.PaymentMethodCash,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestRecordRefundDecrementsTotalPaid(t *testing.T) {
	repo := newMemRepo()
	payments := newPaymentService(repo)
	order := unpaidOrder(t, repo)

	paid, err := payments.RecordPayment(context.Background(), order.ID, PaymentInput{
		Amount: dec("117.00"),
		Method: enum.PaymentMethodCreditCard,
	})
	require.NoError(t, err)
	paymentID := paid.Payments[0].ID

	reason := "dish sent back"
	refunded, err := payments.RecordRefund(context.Background(), order.ID, paymentID, dec("50.00"), &reason)
	require.NoError(t, err)
	assert.True(t, refunded.TotalPaid.Equal(dec("67.00")), "total paid %s", refunded.TotalPaid)
	assert.Len(t, refunded.Refunds, 1)

	// The original payment row is untouched.
	assert.True(t, repo.orders[order.ID].Payments[0].Amount.Equal(dec("117.00")))
}

func TestRecordRefundCappedAtRemainingRefundable(t *testing.T) {
	repo := newMemRepo()
	payments := newPaymentService(repo)
	order := unpaidOrder(t, repo)

	paid, err := payments.RecordPayment(context.Background(), order.ID, PaymentInput{
		Amount: dec("117.00"),
		Method: enum.PaymentMethodCreditCard,
	})
	require.NoError(t, err)
	paymentID := paid.Payments[0].ID

	_, err = payments.RecordRefund(context.Background(), order.ID, paymentID, dec("100.00"), nil)
	require.NoError(t, err)

	// Only 17.00 of the payment remains refundable.
	_, err = payments.RecordRefund(context.Background(), order.ID, paymentID, dec("20.00"), nil)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidAmount))

	updated, err := payments.RecordRefund(context.Background(), order.ID, paymentID, dec("17.00"), nil)
	require.NoError(t, err)
	assert.True(t, updated.TotalPaid.IsZero())
}

func TestRecordRefundUnknownPayment(t *testing.T) {
	repo := newMemRepo()
	payments := newPaymentService(repo)
	order := unpaidOrder(t, repo)

	_, err := payments.RecordRefund(context.Background(), order.ID, uuid.New(), dec("10.00"), nil)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestRecordRefundRejectsNonPositiveAmount(t *testing.T) {
	repo := newMemRepo()
	payments := newPaymentService(repo)
	order := unpaidOrder(t, repo)

	_, err := payments.RecordRefund(context.Background(), order.ID, uuid.New(), dec("0"), nil)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidAmount))
}

func TestRefundAfterCompletionKeepsStatus(t *testing.T) {
	repo := newMemRepo()
	payments := newPaymentService(repo)
	orders := newOrderService(repo)
	order := checkoutOrder(t, repo, orders, "100.00")

	_, err := orders.Accept(context.Background(), order.ID)
	require.NoError(t, err)
	_, err = orders.MarkReady(context.Background(), order.ID)
	require.NoError(t, err)

	paid, err := payments.RecordPayment(context.Background(), order.ID, PaymentInput{
		Amount: dec("117.00"),
		Method: enum.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.Equal(t, enum.OrderStatusCompleted, paid.Status)

	refunded, err := payments.RecordRefund(context.Background(), order.ID, paid.Payments[0].ID, dec("30.00"), nil)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCompleted, refunded.Status)
}
