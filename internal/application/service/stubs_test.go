package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tablewise/tablewise-api/internal/config"
	"github.com/tablewise/tablewise-api/internal/domain/entity"
	"github.com/tablewise/tablewise-api/internal/domain/repository"
	"github.com/tablewise/tablewise-api/pkg/pagination"
)

// memRepo is an in-memory implementation of all repository interfaces used
// by the services. Reads hand out deep copies so the stored state only
// changes through the write methods, mirroring how a database behaves.
// injectConflicts forces the next N versioned writes to fail, simulating a
// concurrent writer winning the race.
type memRepo struct {
	mu              sync.Mutex
	carts           map[uuid.UUID]*entity.Cart
	menuItems       map[uuid.UUID]*entity.MenuItem
	stores          map[uuid.UUID]*entity.Store
	orders          map[uuid.UUID]*entity.Order
	injectConflicts int
}

func newMemRepo() *memRepo {
	return &memRepo{
		carts:     make(map[uuid.UUID]*entity.Cart),
		menuItems: make(map[uuid.UUID]*entity.MenuItem),
		stores:    make(map[uuid.UUID]*entity.Store),
		orders:    make(map[uuid.UUID]*entity.Order),
	}
}

var _ repository.CartRepository = (*memRepo)(nil)
var _ repository.PaymentRepository = (*memRepo)(nil)
var _ repository.MenuItemRepository = menuRepoView{}
var _ repository.StoreRepository = storeRepoView{}
var _ repository.OrderRepository = orderRepoView{}

func copyCart(c *entity.Cart) *entity.Cart {
	out := *c
	out.Items = make([]entity.CartItem, len(c.Items))
	copy(out.Items, c.Items)
	return &out
}

func copyOrder(o *entity.Order) *entity.Order {
	out := *o
	out.LineItems = make([]entity.LineItem, len(o.LineItems))
	copy(out.LineItems, o.LineItems)
	out.Payments = make([]entity.Payment, len(o.Payments))
	copy(out.Payments, o.Payments)
	out.Refunds = make([]entity.Refund, len(o.Refunds))
	copy(out.Refunds, o.Refunds)
	return &out
}

// --- CartRepository ---

func (r *memRepo) Create(ctx context.Context, cart *entity.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	r.carts[cart.ID] = copyCart(cart)
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[id]
	if !ok {
		return nil, nil
	}
	return copyCart(cart), nil
}

func (r *memRepo) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*entity.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cart := range r.carts {
		if cart.SessionID == sessionID {
			return copyCart(cart), nil
		}
	}
	return nil, nil
}

func (r *memRepo) AddItem(ctx context.Context, item *entity.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[item.CartID]
	if !ok {
		return nil
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cart.Items = append(cart.Items, *item)
	return nil
}

func (r *memRepo) UpdateItem(ctx context.Context, item *entity.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[item.CartID]
	if !ok {
		return nil
	}
	for i := range cart.Items {
		if cart.Items[i].ID == item.ID {
			cart.Items[i] = *item
			return nil
		}
	}
	return nil
}

func (r *memRepo) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[cartID]
	if !ok {
		return nil
	}
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memRepo) getMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.MenuItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.menuItems[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

// --- OrderRepository ---

func (r *memRepo) CheckoutCart(ctx context.Context, order *entity.Order, cartID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[cartID]
	if !ok || cart.CheckedOutAt != nil {
		return repository.ErrCartAlreadyCheckedOut
	}
	now := time.Now()
	cart.CheckedOutAt = &now
	r.orders[order.ID] = copyOrder(order)
	return nil
}

func (r *memRepo) List(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if params.Status != nil && o.Status != *params.Status {
			continue
		}
		if params.SessionID != nil && o.SessionID != *params.SessionID {
			continue
		}
		out = append(out, *copyOrder(o))
	}
	return out, int64(len(out)), nil
}

func (r *memRepo) UpdateWithVersion(ctx context.Context, order *entity.Order, newItems []entity.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.injectConflicts > 0 {
		r.injectConflicts--
		return repository.ErrVersionConflict
	}
	stored, ok := r.orders[order.ID]
	if !ok || stored.Version != order.Version {
		return repository.ErrVersionConflict
	}
	updated := copyOrder(order)
	updated.Version = stored.Version + 1
	updated.Payments = stored.Payments
	updated.Refunds = stored.Refunds
	for i := range newItems {
		if newItems[i].ID == uuid.Nil {
			newItems[i].ID = uuid.New()
		}
	}
	r.orders[order.ID] = updated
	return nil
}

// --- PaymentRepository ---

func (r *memRepo) RecordPayment(ctx context.Context, order *entity.Order, payment *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.injectConflicts > 0 {
		r.injectConflicts--
		return repository.ErrVersionConflict
	}
	stored, ok := r.orders[order.ID]
	if !ok || stored.Version != order.Version {
		return repository.ErrVersionConflict
	}
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.OrderID = order.ID
	stored.TotalPaid = order.TotalPaid
	stored.Status = order.Status
	stored.Version++
	stored.Payments = append(stored.Payments, *payment)
	return nil
}

func (r *memRepo) RecordRefund(ctx context.Context, order *entity.Order, refund *entity.Refund) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.injectConflicts > 0 {
		r.injectConflicts--
		return repository.ErrVersionConflict
	}
	stored, ok := r.orders[order.ID]
	if !ok || stored.Version != order.Version {
		return repository.ErrVersionConflict
	}
	if refund.ID == uuid.Nil {
		refund.ID = uuid.New()
	}
	refund.OrderID = order.ID
	stored.TotalPaid = order.TotalPaid
	stored.Version++
	stored.Refunds = append(stored.Refunds, *refund)
	return nil
}

// The repository interfaces share GetByID method names with different
// signatures, so memRepo is exposed through per-interface views.
type menuRepoView struct{ r *memRepo }

func (v menuRepoView) GetByID(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error) {
	v.r.mu.Lock()
	defer v.r.mu.Unlock()
	item, ok := v.r.menuItems[id]
	if !ok {
		return nil, nil
	}
	out := *item
	return &out, nil
}

func (v menuRepoView) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.MenuItem, error) {
	return v.r.getMenuItemsByIDs(ctx, ids)
}

type storeRepoView struct{ r *memRepo }

func (v storeRepoView) GetByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	v.r.mu.Lock()
	defer v.r.mu.Unlock()
	store, ok := v.r.stores[id]
	if !ok {
		return nil, nil
	}
	out := *store
	return &out, nil
}

func (v storeRepoView) GetBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	v.r.mu.Lock()
	defer v.r.mu.Unlock()
	for _, store := range v.r.stores {
		if store.Slug == slug {
			out := *store
			return &out, nil
		}
	}
	return nil, nil
}

type orderRepoView struct{ r *memRepo }

func (v orderRepoView) CheckoutCart(ctx context.Context, order *entity.Order, cartID uuid.UUID) error {
	return v.r.CheckoutCart(ctx, order, cartID)
}

func (v orderRepoView) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	v.r.mu.Lock()
	defer v.r.mu.Unlock()
	order, ok := v.r.orders[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(order), nil
}

func (v orderRepoView) List(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	return v.r.List(ctx, params)
}

func (v orderRepoView) UpdateWithVersion(ctx context.Context, order *entity.Order, newItems []entity.LineItem) error {
	return v.r.UpdateWithVersion(ctx, order, newItems)
}

// --- shared fixtures ---

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testBillingConfig() config.BillingConfig {
	return config.BillingConfig{
		DefaultVATRate:           decimal.NewFromInt(7),
		DefaultServiceChargeRate: decimal.NewFromInt(10),
	}
}

func seedStore(r *memRepo) *entity.Store {
	store := &entity.Store{
		ID:       uuid.New(),
		Name:     "Riverside Bistro",
		Slug:     "riverside",
		Settings: entity.DefaultStoreSettings(),
	}
	r.stores[store.ID] = store
	return store
}

func seedMenuItem(r *memRepo, storeID uuid.UUID, name, price string, options ...entity.MenuItemOption) *entity.MenuItem {
	item := &entity.MenuItem{
		ID:        uuid.New(),
		StoreID:   storeID,
		Name:      name,
		BasePrice: dec(price),
		Available: true,
	}
	for i := range options {
		options[i].ID = uuid.New()
		options[i].MenuItemID = item.ID
	}
	item.Options = options
	r.menuItems[item.ID] = item
	return item
}

// seedCart creates a cart holding items totalling the given unit prices,
// one quantity each.
func seedCart(r *memRepo, storeID uuid.UUID, prices ...string) *entity.Cart {
	cart := &entity.Cart{
		ID:        uuid.New(),
		StoreID:   storeID,
		SessionID: uuid.New(),
	}
	for i, p := range prices {
		ci := entity.CartItem{
			ID:         uuid.New(),
			CartID:     cart.ID,
			MenuItemID: uuid.New(),
			Name:       "Dish " + string(rune('A'+i)),
			Quantity:   1,
			UnitPrice:  dec(p),
		}
		ci.Recalculate()
		cart.Items = append(cart.Items, ci)
	}
	r.carts[cart.ID] = cart
	return cart
}

func defaultFilter() *repository.OrderFilterParams {
	return &repository.OrderFilterParams{Pagination: pagination.DefaultPagination()}
}
