package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tablewise/tablewise-api/internal/domain/billing"
	"github.com/tablewise/tablewise-api/internal/domain/entity"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
	"github.com/tablewise/tablewise-api/internal/domain/repository"
	"github.com/tablewise/tablewise-api/internal/infrastructure/notify"
	"github.com/tablewise/tablewise-api/pkg/apperror"
)

// PaymentService is the append-only payment ledger: it records payments and
// refunds against an order, maintains the running balance, and drives the
// payment-side completion gate.
type PaymentService struct {
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	notifier    notify.Notifier
	receipts    *ReceiptService
	locks       *keyedLocks
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	notifier notify.Notifier,
	receipts *ReceiptService,
) *PaymentService {
	return &PaymentService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		notifier:    notifier,
		receipts:    receipts,
		locks:       newKeyedLocks(),
	}
}

// PaymentInput carries one requested payment.
type PaymentInput struct {
	Amount         decimal.Decimal
	Method         enum.PaymentMethod
	AmountTendered *decimal.Decimal // cash only
	TransactionID  *string          // non-cash only
}

// RecordPayment appends a payment to the order's ledger and increments the
// running balance. Overpayment beyond the one-cent tolerance is rejected,
// never clamped. Full payment moves the order to COMPLETED only when the
// kitchen side is already READY; otherwise the order stays in its kitchen
// state and completes later when READY is reached.
func (s *PaymentService) RecordPayment(ctx context.Context, orderID uuid.UUID, input PaymentInput) (*entity.Order, error) {
	if input.Amount.Sign() <= 0 {
		return nil, apperror.NewInvalidAmountError(input.Amount.StringFixed(2))
	}
	if !input.Method.Valid() {
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}
	if input.Method == enum.PaymentMethodCash && input.AmountTendered != nil {
		if input.AmountTendered.Cmp(input.Amount) < 0 {
			return nil, apperror.NewInsufficientTenderError(
				input.AmountTendered.StringFixed(2), input.Amount.StringFixed(2))
		}
	}

	unlock := s.locks.Lock(orderID)
	defer unlock()

	var order *entity.Order
	var payment *entity.Payment
	for attempt := 0; ; attempt++ {
		var err error
		order, err = s.getOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if order.Status == enum.OrderStatusCancelled {
			return nil, apperror.NewOrderNotModifiableError(order.Status.String())
		}

		remaining := order.RemainingBalance()
		if input.Amount.Cmp(remaining.Add(billing.Epsilon)) > 0 {
			return nil, apperror.NewOverpaymentError(
				input.Amount.StringFixed(2), remaining.StringFixed(2))
		}

		payment = &entity.Payment{
			OrderID:        order.ID,
			Amount:         billing.Round(input.Amount),
			Method:         input.Method,
			RecordedAt:     time.Now(),
			AmountTendered: input.AmountTendered,
			TransactionID:  input.TransactionID,
		}
		if input.Method != enum.PaymentMethodCash {
			payment.AmountTendered = nil
		}

		order.TotalPaid = order.TotalPaid.Add(payment.Amount)
		if order.FullyPaid() && order.Status == enum.OrderStatusReady {
			order.Status = enum.OrderStatusCompleted
		}

		err = s.paymentRepo.RecordPayment(ctx, order, payment)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrVersionConflict) && attempt < versionConflictRetries {
			continue
		}
		return nil, err
	}

	order.Payments = append(order.Payments, *payment)

	s.notifier.OrderEvent(notify.EventPaymentRecorded, order)
	if order.Status == enum.OrderStatusCompleted {
		s.notifier.OrderEvent(notify.EventOrderCompleted, order)
		s.receipts.PrintOrderReceipt(ctx, order)
	}
	return order, nil
}

// RecordRefund appends a refund referencing an earlier payment and
// decrements the running balance. The refund may not exceed the payment's
// amount minus prior refunds against it. The original payment row is never
// mutated.
func (s *PaymentService) RecordRefund(ctx context.Context, orderID, paymentID uuid.UUID, amount decimal.Decimal, reason *string) (*entity.Order, error) {
	if amount.Sign() <= 0 {
		return nil, apperror.NewInvalidAmountError(amount.StringFixed(2))
	}

	unlock := s.locks.Lock(orderID)
	defer unlock()

	var order *entity.Order
	var refund *entity.Refund
	for attempt := 0; ; attempt++ {
		var err error
		order, err = s.getOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}

		payment := order.FindPayment(paymentID)
		if payment == nil {
			return nil, apperror.NewNotFoundError("Payment")
		}

		refundable := payment.Amount.Sub(order.RefundedAgainst(paymentID))
		if amount.Cmp(refundable) > 0 {
			return nil, apperror.NewInvalidAmountError(amount.StringFixed(2)).
				WithDetail("refundable", refundable.StringFixed(2))
		}

		refund = &entity.Refund{
			OrderID:    order.ID,
			PaymentID:  paymentID,
			Amount:     billing.Round(amount),
			Reason:     reason,
			RecordedAt: time.Now(),
		}

		order.TotalPaid = order.TotalPaid.Sub(refund.Amount)

		err = s.paymentRepo.RecordRefund(ctx, order, refund)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrVersionConflict) && attempt < versionConflictRetries {
			continue
		}
		return nil, err
	}

	order.Refunds = append(order.Refunds, *refund)

	s.notifier.OrderEvent(notify.EventRefundRecorded, order)
	return order, nil
}

func (s *PaymentService) getOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}
