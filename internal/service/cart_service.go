package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "flanes/internal/errors"
	"flanes/internal/metrics"
	"flanes/internal/model"
	"flanes/internal/repository"
)

// Cart is a user's cart lines and their total.
type Cart struct {
	Items []model.CartItem
	Total decimal.Decimal
}

// Count returns the number of units in the cart.
func (c *Cart) Count() uint {
	var n uint
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// CartTotal sums unit price times quantity over items.
func CartTotal(items []model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].LineTotal())
	}
	return total
}

// CartService handles cart operations for authenticated users.
type CartService interface {
	Add(ctx context.Context, userID, flanID uint) error
	Remove(ctx context.Context, userID, itemID uint) error
	View(ctx context.Context, userID uint) (*Cart, error)
}

type cartService struct {
	cartRepo repository.CartRepository
	flanRepo repository.FlanRepository
	metrics  *metrics.Metrics
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, flanRepo repository.FlanRepository, m *metrics.Metrics) CartService {
	return &cartService{
		cartRepo: cartRepo,
		flanRepo: flanRepo,
		metrics:  m,
	}
}

// Add puts one unit of a flan in the user's cart.
func (s *cartService) Add(ctx context.Context, userID, flanID uint) error {
	// Callers are authenticated, so private flans are allowed.
	if _, err := findVisibleFlan(ctx, s.flanRepo, flanID, true); err != nil {
		return err
	}

	if err := s.cartRepo.AddOne(ctx, userID, flanID); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperrors.ErrFlanNotFound
		}
		return fmt.Errorf("add to cart: %w", err)
	}
	s.metrics.CartItemAdded()
	return nil
}

// Remove deletes a cart line owned by the user. Lines that do not exist or
// belong to someone else are left alone and no error is returned.
func (s *cartService) Remove(ctx context.Context, userID, itemID uint) error {
	n, err := s.cartRepo.DeleteOwned(ctx, userID, itemID)
	if err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	if n > 0 {
		s.metrics.CartItemRemoved()
	}
	return nil
}

// View returns the user's cart and its total.
func (s *cartService) View(ctx context.Context, userID uint) (*Cart, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return &Cart{Items: items, Total: CartTotal(items)}, nil
}
