package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tablewise/tablewise-api/internal/config"
	"github.com/tablewise/tablewise-api/internal/domain/billing"
	"github.com/tablewise/tablewise-api/internal/domain/entity"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
	"github.com/tablewise/tablewise-api/internal/domain/repository"
	"github.com/tablewise/tablewise-api/internal/infrastructure/notify"
	"github.com/tablewise/tablewise-api/pkg/apperror"
	"github.com/tablewise/tablewise-api/pkg/pagination"
)

// versionConflictRetries is how many times a read-modify-write is retried
// after losing an optimistic update race. Conflicts are the only storage
// failure retried automatically, and only because the losing attempt had no
// observable side effect.
const versionConflictRetries = 1

// OrderService owns the order lifecycle: checkout, item addition, discount
// application, and kitchen status transitions.
type OrderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	menuRepo  repository.MenuItemRepository
	storeRepo repository.StoreRepository
	notifier  notify.Notifier
	billing   config.BillingConfig
	locks     *keyedLocks
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	menuRepo repository.MenuItemRepository,
	storeRepo repository.StoreRepository,
	notifier notify.Notifier,
	billingCfg config.BillingConfig,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		menuRepo:  menuRepo,
		storeRepo: storeRepo,
		notifier:  notifier,
		billing:   billingCfg,
		locks:     newKeyedLocks(),
	}
}

// OrderItemInput represents one requested item when adding to an order.
type OrderItemInput struct {
	MenuItemID uuid.UUID
	Quantity   int
	OptionIDs  []uuid.UUID
}

// rates returns the store's VAT and service charge percentages, falling
// back to the platform defaults for stores without settings.
func (s *OrderService) rates(ctx context.Context, storeID uuid.UUID) (decimal.Decimal, decimal.Decimal) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil || store == nil {
		return s.billing.DefaultVATRate, s.billing.DefaultServiceChargeRate
	}

	vat := store.Settings.VATRate
	service := store.Settings.ServiceChargeRate
	if vat.IsZero() && service.IsZero() {
		return s.billing.DefaultVATRate, s.billing.DefaultServiceChargeRate
	}
	return vat, service
}

// Checkout converts a cart into an immutable order snapshot. The operation
// is atomic: the cart's checkout latch and the order row are committed in
// one transaction, so two concurrent checkouts produce exactly one order
// and the loser observes CartAlreadyCheckedOut.
func (s *OrderService) Checkout(ctx context.Context, cartID uuid.UUID, orderType enum.OrderType) (*entity.Order, error) {
	if !orderType.Valid() {
		return nil, apperror.NewBadRequestError("Unknown order type")
	}

	cart, err := s.cartRepo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperror.NewNotFoundError("Cart")
	}
	if cart.Locked() {
		return nil, apperror.NewCartAlreadyCheckedOutError()
	}
	if len(cart.Items) == 0 {
		return nil, apperror.NewBadRequestError("Cannot check out an empty cart")
	}

	order := &entity.Order{
		ID:        uuid.New(),
		StoreID:   cart.StoreID,
		SessionID: cart.SessionID,
		OrderType: orderType,
		Status:    enum.OrderStatusPending,
	}

	order.LineItems = make([]entity.LineItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		order.LineItems = append(order.LineItems, entity.LineItem{
			OrderID:         order.ID,
			MenuItemID:      ci.MenuItemID,
			Name:            ci.Name,
			Quantity:        ci.Quantity,
			UnitPrice:       ci.UnitPrice,
			SelectedOptions: ci.SelectedOptions,
			LineSubtotal:    ci.LineSubtotal,
		})
	}

	vatRate, serviceRate := s.rates(ctx, cart.StoreID)
	order.RecalculateTotals(vatRate, serviceRate)

	if err := s.orderRepo.CheckoutCart(ctx, order, cart.ID); err != nil {
		if errors.Is(err, repository.ErrCartAlreadyCheckedOut) {
			return nil, apperror.NewCartAlreadyCheckedOutError()
		}
		return nil, err
	}

	s.notifier.OrderEvent(notify.EventOrderCreated, order)
	return order, nil
}

// AddItems appends items to an order still in the kitchen's hands (PENDING
// or PREPARING), recomputes all totals, and re-validates any applied
// discount against the new subtotal. An invalidated discount fails the
// whole operation; it is never silently adjusted.
func (s *OrderService) AddItems(ctx context.Context, orderID uuid.UUID, items []OrderItemInput) (*entity.Order, error) {
	if len(items) == 0 {
		return nil, apperror.NewBadRequestError("No items to add")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Quantity must be greater than zero")
		}
	}

	unlock := s.locks.Lock(orderID)
	defer unlock()

	var order *entity.Order
	for attempt := 0; ; attempt++ {
		var err error
		order, err = s.mustGetOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if !order.Status.Modifiable() {
			return nil, apperror.NewOrderNotModifiableError(order.Status.String())
		}

		newItems, err := s.buildLineItems(ctx, order.ID, items)
		if err != nil {
			return nil, err
		}

		order.LineItems = append(order.LineItems, newItems...)
		vatRate, serviceRate := s.rates(ctx, order.StoreID)
		order.RecalculateTotals(vatRate, serviceRate)

		if order.HasDiscount() {
			if err := order.Discount().Revalidate(order.Subtotal); err != nil {
				return nil, err
			}
		}

		err = s.orderRepo.UpdateWithVersion(ctx, order, newItems)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrVersionConflict) && attempt < versionConflictRetries {
			continue
		}
		return nil, err
	}

	s.notifier.OrderEvent(notify.EventOrderUpdated, order)
	return s.mustGetOrder(ctx, orderID)
}

// ApplyDiscount authorizes and applies a discount to the order on behalf of
// the acting role, then recomputes all totals.
func (s *OrderService) ApplyDiscount(ctx context.Context, orderID uuid.UUID, actor enum.Role, kind enum.DiscountKind, value decimal.Decimal) (*entity.Order, error) {
	unlock := s.locks.Lock(orderID)
	defer unlock()

	var order *entity.Order
	for attempt := 0; ; attempt++ {
		var err error
		order, err = s.mustGetOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if order.Status.Terminal() {
			return nil, apperror.NewOrderNotModifiableError(order.Status.String())
		}

		discount, err := billing.AuthorizeDiscount(actor, kind, value, order.Subtotal)
		if err != nil {
			return nil, err
		}

		order.SetDiscount(discount)
		vatRate, serviceRate := s.rates(ctx, order.StoreID)
		order.RecalculateTotals(vatRate, serviceRate)

		// A discount must not push the total below what has already been
		// collected.
		if order.GrandTotal.Cmp(order.TotalPaid) < 0 {
			return nil, apperror.NewInvalidDiscountError(
				"Discount would reduce the total below the amount already paid")
		}

		err = s.orderRepo.UpdateWithVersion(ctx, order, nil)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrVersionConflict) && attempt < versionConflictRetries {
			continue
		}
		return nil, err
	}

	s.notifier.OrderEvent(notify.EventOrderUpdated, order)
	return order, nil
}

// RemoveDiscount removes an applied discount. Removal requires ADMIN or
// above regardless of the tier at which the discount was applied.
func (s *OrderService) RemoveDiscount(ctx context.Context, orderID uuid.UUID, actor enum.Role) (*entity.Order, error) {
	if err := billing.AuthorizeDiscountRemoval(actor); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(orderID)
	defer unlock()

	var order *entity.Order
	for attempt := 0; ; attempt++ {
		var err error
		order, err = s.mustGetOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if order.Status.Terminal() {
			return nil, apperror.NewOrderNotModifiableError(order.Status.String())
		}
		if !order.HasDiscount() {
			return nil, apperror.NewBadRequestError("Order has no discount applied")
		}

		order.ClearDiscount()
		vatRate, serviceRate := s.rates(ctx, order.StoreID)
		order.RecalculateTotals(vatRate, serviceRate)

		err = s.orderRepo.UpdateWithVersion(ctx, order, nil)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrVersionConflict) && attempt < versionConflictRetries {
			continue
		}
		return nil, err
	}

	s.notifier.OrderEvent(notify.EventOrderUpdated, order)
	return order, nil
}

// Accept moves a PENDING order into PREPARING (kitchen accepted it).
func (s *OrderService) Accept(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	return s.transition(ctx, orderID, enum.OrderStatusPreparing, notify.EventOrderUpdated)
}

// MarkReady moves a PREPARING order into READY. When the order is already
// fully paid both completion gates now hold, so it advances straight to
// COMPLETED.
func (s *OrderService) MarkReady(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	unlock := s.locks.Lock(orderID)
	defer unlock()

	var order *entity.Order
	var event string
	for attempt := 0; ; attempt++ {
		var err error
		order, err = s.mustGetOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if !order.Status.CanTransitionTo(enum.OrderStatusReady) {
			return nil, apperror.NewConflictError(
				"Order cannot move to READY from " + order.Status.String())
		}

		order.Status = enum.OrderStatusReady
		event = notify.EventOrderReady
		if order.FullyPaid() {
			order.Status = enum.OrderStatusCompleted
			event = notify.EventOrderCompleted
		}

		err = s.orderRepo.UpdateWithVersion(ctx, order, nil)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrVersionConflict) && attempt < versionConflictRetries {
			continue
		}
		return nil, err
	}

	s.notifier.OrderEvent(event, order)
	return order, nil
}

// Complete moves a READY, fully paid order into COMPLETED. Payment
// completeness and kitchen readiness are independent gates that must both
// hold.
func (s *OrderService) Complete(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	unlock := s.locks.Lock(orderID)
	defer unlock()

	var order *entity.Order
	for attempt := 0; ; attempt++ {
		var err error
		order, err = s.mustGetOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if !order.Status.CanTransitionTo(enum.OrderStatusCompleted) {
			return nil, apperror.NewConflictError(
				"Order cannot be completed from " + order.Status.String())
		}
		if !order.FullyPaid() {
			return nil, apperror.NewConflictError("Order is not fully paid")
		}

		order.Status = enum.OrderStatusCompleted

		err = s.orderRepo.UpdateWithVersion(ctx, order, nil)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrVersionConflict) && attempt < versionConflictRetries {
			continue
		}
		return nil, err
	}

	s.notifier.OrderEvent(notify.EventOrderCompleted, order)
	return order, nil
}

// Cancel voids an order still in PENDING or PREPARING. CANCELLED is
// terminal.
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	return s.transition(ctx, orderID, enum.OrderStatusCancelled, notify.EventOrderCancelled)
}

func (s *OrderService) transition(ctx context.Context, orderID uuid.UUID, next enum.OrderStatus, event string) (*entity.Order, error) {
	unlock := s.locks.Lock(orderID)
	defer unlock()

	var order *entity.Order
	for attempt := 0; ; attempt++ {
		var err error
		order, err = s.mustGetOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if !order.Status.CanTransitionTo(next) {
			return nil, apperror.NewConflictError(
				"Order cannot move to " + next.String() + " from " + order.Status.String())
		}

		order.Status = next

		err = s.orderRepo.UpdateWithVersion(ctx, order, nil)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrVersionConflict) && attempt < versionConflictRetries {
			continue
		}
		return nil, err
	}

	s.notifier.OrderEvent(event, order)
	return order, nil
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	return s.mustGetOrder(ctx, orderID)
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

func (s *OrderService) mustGetOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

func (s *OrderService) buildLineItems(ctx context.Context, orderID uuid.UUID, items []OrderItemInput) ([]entity.LineItem, error) {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.MenuItemID
	}

	menuItems, err := s.menuRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	menuMap := make(map[uuid.UUID]*entity.MenuItem, len(menuItems))
	for i := range menuItems {
		menuMap[menuItems[i].ID] = &menuItems[i]
	}

	lines := make([]entity.LineItem, 0, len(items))
	for _, item := range items {
		menuItem, exists := menuMap[item.MenuItemID]
		if !exists {
			return nil, apperror.NewNotFoundError("Menu item")
		}

		options := make(entity.SelectedOptions, 0, len(item.OptionIDs))
		for _, optionID := range item.OptionIDs {
			opt := menuItem.FindOption(optionID)
			if opt == nil {
				return nil, apperror.NewNotFoundError("Menu item option")
			}
			options = append(options, entity.SelectedOption{
				OptionID:        opt.ID,
				Name:            opt.Name,
				AdditionalPrice: opt.AdditionalPrice,
			})
		}

		unitPrice := menuItem.BasePrice.Add(options.SurchargeTotal())
		lines = append(lines, entity.LineItem{
			OrderID:         orderID,
			MenuItemID:      menuItem.ID,
			Name:            menuItem.Name,
			Quantity:        item.Quantity,
			UnitPrice:       unitPrice,
			SelectedOptions: options,
			LineSubtotal:    unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2),
			CreatedAt:       time.Now(),
		})
	}
	return lines, nil
}
