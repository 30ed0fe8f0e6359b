// Package notify is the fire-and-forget notification sink invoked after
// successful state transitions to inform kitchen displays and customer
// apps. Delivery is best-effort: a failing sink never rolls back or fails
// the core operation that triggered it.
package notify

import (
	"github.com/tablewise/tablewise-api/internal/domain/entity"
	"go.uber.org/zap"
)

// Event names published to the sink.
const (
	EventOrderCreated     = "order.created"
	EventOrderUpdated     = "order.updated"
	EventOrderCancelled   = "order.cancelled"
	EventPaymentRecorded  = "payment.recorded"
	EventRefundRecorded   = "refund.recorded"
	EventOrderReady       = "order.ready"
	EventOrderCompleted   = "order.completed"
	EventCartItemsChanged = "cart.items_changed"
)

// Notifier publishes order lifecycle events to connected displays/apps.
// Implementations must not block the caller and must swallow their own
// failures.
type Notifier interface {
	OrderEvent(event string, order *entity.Order)
	CartEvent(event string, cart *entity.Cart)
}

// logNotifier publishes events asynchronously into the structured log. The
// WebSocket fan-out that delivers these to kitchen displays is a separate
// transport component consuming the same events.
type logNotifier struct {
	log *zap.Logger
}

// NewLogNotifier creates a notifier that records events in the log.
func NewLogNotifier(log *zap.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) OrderEvent(event string, order *entity.Order) {
	go func() {
		n.log.Info("order event",
			zap.String("event", event),
			zap.String("order_id", order.ID.String()),
			zap.String("store_id", order.StoreID.String()),
			zap.String("status", order.Status.String()),
			zap.String("grand_total", order.GrandTotal.StringFixed(2)),
			zap.String("total_paid", order.TotalPaid.StringFixed(2)),
		)
	}()
}

func (n *logNotifier) CartEvent(event string, cart *entity.Cart) {
	go func() {
		n.log.Info("cart event",
			zap.String("event", event),
			zap.String("cart_id", cart.ID.String()),
			zap.String("session_id", cart.SessionID.String()),
		)
	}()
}

// noopNotifier discards all events. Used in tests.
type noopNotifier struct{}

// NewNoopNotifier creates a notifier that discards all events.
func NewNoopNotifier() Notifier {
	return &noopNotifier{}
}

func (noopNotifier) OrderEvent(string, *entity.Order) {}
func (noopNotifier) CartEvent(string, *entity.Cart)   {}
