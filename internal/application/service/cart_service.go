package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tablewise/tablewise-api/internal/domain/entity"
	"github.com/tablewise/tablewise-api/internal/domain/repository"
	"github.com/tablewise/tablewise-api/internal/infrastructure/notify"
	infraRepo "github.com/tablewise/tablewise-api/internal/infrastructure/repository"
	"github.com/tablewise/tablewise-api/pkg/apperror"
)

// CartService handles the pre-checkout cart: adding and removing items and
// computing the running subtotal. A cart is owned by exactly one table
// session and locks permanently at checkout.
type CartService struct {
	cartRepo repository.CartRepository
	menuRepo repository.MenuItemRepository
	notifier notify.Notifier
}

// NewCartService creates a new cart service
func NewCartService(cartRepo repository.CartRepository, menuRepo repository.MenuItemRepository, notifier notify.Notifier) *CartService {
	return &CartService{cartRepo: cartRepo, menuRepo: menuRepo, notifier: notifier}
}

// GetOrCreate returns the session's cart, creating an empty one on first use.
func (s *CartService) GetOrCreate(ctx context.Context, sessionID uuid.UUID) (*entity.Cart, error) {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Store context required")
	}

	cart, err := s.cartRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	cart = &entity.Cart{StoreID: storeID, SessionID: sessionID}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem appends a line to the cart, merging with an existing line when the
// menu item and option selection are identical. The line subtotal is
// (base price + option surcharges) x quantity, snapshotted at add time.
func (s *CartService) AddItem(ctx context.Context, cartID, menuItemID uuid.UUID, quantity int, optionIDs []uuid.UUID) (*entity.Cart, error) {
	if quantity <= 0 {
		return nil, apperror.NewBadRequestError("Quantity must be greater than zero")
	}

	cart, err := s.cartRepo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperror.NewNotFoundError("Cart")
	}
	if cart.Locked() {
		return nil, apperror.NewCartLockedError()
	}

	menuItem, err := s.menuRepo.GetByID(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	if menuItem == nil {
		return nil, apperror.NewNotFoundError("Menu item")
	}
	if !menuItem.Available {
		return nil, apperror.NewBadRequestError("Menu item is not available")
	}

	options := make(entity.SelectedOptions, 0, len(optionIDs))
	for _, optionID := range optionIDs {
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

	if existing := cart.FindMergeableItem(menuItemID, options); existing != nil {
		existing.Quantity += quantity
		existing.Recalculate()
		if err := s.cartRepo.UpdateItem(ctx, existing); err != nil {
			return nil, err
		}
	} else {
		item := &entity.CartItem{
			CartID:          cart.ID,
			MenuItemID:      menuItem.ID,
			Name:            menuItem.Name,
			Quantity:        quantity,
			UnitPrice:       menuItem.BasePrice.Add(options.SurchargeTotal()),
			SelectedOptions: options,
		}
		item.Recalculate()
		if err := s.cartRepo.AddItem(ctx, item); err != nil {
			return nil, err
		}
	}

	cart, err = s.cartRepo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	s.notifier.CartEvent(notify.EventCartItemsChanged, cart)
	return cart, nil
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*entity.Cart, error) {
	cart, err := s.cartRepo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperror.NewNotFoundError("Cart")
	}
	if cart.Locked() {
		return nil, apperror.NewCartLockedError()
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			found = true
			break
		}
	}
	if !found {
		return nil, apperror.NewNotFoundError("Cart item")
	}

	if err := s.cartRepo.RemoveItem(ctx, cartID, itemID); err != nil {
		return nil, err
	}

	cart, err = s.cartRepo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	s.notifier.CartEvent(notify.EventCartItemsChanged, cart)
	return cart, nil
}

// GetCart returns the cart with its items.
func (s *CartService) GetCart(ctx context.Context, cartID uuid.UUID) (*entity.Cart, error) {
	cart, err := s.cartRepo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperror.NewNotFoundError("Cart")
	}
	return cart, nil
}
