package service

import (
	"context"

	"shopfront/internal/domain"
	"shopfront/internal/repository"
)

// CartService mutates the cart embedded in an account. Each mutation returns
// the cart as stored afterwards.
type CartService interface {
	List(ctx context.Context, accountID string) ([]domain.CartLine, error)
	Add(ctx context.Context, accountID, productID string, quantity int) ([]domain.CartLine, error)
	Remove(ctx context.Context, accountID, productID string) ([]domain.CartLine, error)
	Increase(ctx context.Context, accountID, productID string) ([]domain.CartLine, error)
	Decrease(ctx context.Context, accountID, productID string) ([]domain.CartLine, error)
}

type cartService struct {
	accounts repository.AccountRepository
	products repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(accounts repository.AccountRepository, products repository.ProductRepository) CartService {
	return &cartService{accounts: accounts, products: products}
}

// List returns the cart lines of the account
func (s *cartService) List(ctx context.Context, accountID string) ([]domain.CartLine, error) {
	return s.cart(ctx, accountID)
}

// Add puts an available product in the cart. A zero quantity means one.
func (s *cartService) Add(ctx context.Context, accountID, productID string, quantity int) ([]domain.CartLine, error) {
	if quantity == 0 {
		quantity = domain.MinCartQuantity
	}
	if !domain.ValidCartQuantity(quantity) {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Availability {
		return nil, domain.ErrProductUnavailable
	}

	ok, err := s.accounts.AddCartLine(ctx, accountID, domain.CartLine{ProductID: product.ID, Quantity: quantity})
	if err != nil {
		return nil, err
	}
	if !ok {
		account, err := s.accounts.FindByID(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if _, exists := account.FindCartLine(product.ID); exists {
			return nil, domain.ErrCartLineExists
		}
		return nil, domain.ErrCartChanged
	}

	return s.cart(ctx, accountID)
}

// Remove deletes the cart line for productID
func (s *cartService) Remove(ctx context.Context, accountID, productID string) ([]domain.CartLine, error) {
	ok, err := s.accounts.RemoveCartLine(ctx, accountID, productID)
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
			return nil, err
		}
		return nil, domain.ErrCartLineNotFound
	}

	return s.cart(ctx, accountID)
}

// Increase adds one to the line's quantity, up to the ceiling
func (s *cartService) Increase(ctx context.Context, accountID, productID string) ([]domain.CartLine, error) {
	return s.change(ctx, accountID, productID, 1)
}

// Decrease removes one from the line's quantity, down to the floor. The line
// itself is never deleted this way.
func (s *cartService) Decrease(ctx context.Context, accountID, productID string) ([]domain.CartLine, error) {
	return s.change(ctx, accountID, productID, -1)
}

func (s *cartService) change(ctx context.Context, accountID, productID string, delta int) ([]domain.CartLine, error) {
	ok, err := s.accounts.ChangeCartQuantity(ctx, accountID, productID, delta)
	if err != nil {
		return nil, err
	}
	if ok {
		return s.cart(ctx, accountID)
	}

	// The guarded update matched nothing; find out which guard refused it
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	line, found := account.FindCartLine(productID)
	switch {
	case !found:
		return nil, domain.ErrCartLineNotFound
	case delta > 0 && line.Quantity+delta > domain.MaxCartQuantity:
		return nil, domain.ErrCartQuantityCeiling
	case delta < 0 && line.Quantity+delta < domain.MinCartQuantity:
		return nil, domain.ErrCartQuantityFloor
	default:
		return nil, domain.ErrCartChanged
	}
}

func (s *cartService) cart(ctx context.Context, accountID string) ([]domain.CartLine, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return account.Cart, nil
}
