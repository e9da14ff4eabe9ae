// Package memory holds in-process implementations of the repository
// interfaces. Every mutation runs under the store's lock and applies the
// same guards as the mongo updates, so the two drivers are interchangeable.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccountRepository is an in-memory implementation of repository.AccountRepository.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

var _ repository.AccountRepository = (*AccountRepository)(nil)

// NewAccountRepository creates an empty AccountRepository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]*domain.Account)}
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	c.Cart = slices.Clone(a.Cart)
	c.Addresses = slices.Clone(a.Addresses)
	if c.Cart == nil {
		c.Cart = []domain.CartLine{}
	}
	if c.Addresses == nil {
		c.Addresses = []domain.Address{}
	}
	return &c
}

// Create stores a new account, enforcing unique email and phone.
func (r *AccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return domain.ErrEmailTaken
		}
		if existing.Phone == account.Phone {
			return domain.ErrPhoneTaken
		}
	}

	account.ID = newID()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	account.Cart = []domain.CartLine{}
	account.Addresses = []domain.Address{}
	r.accounts[account.ID] = cloneAccount(account)
	return nil
}

// FindByID returns a copy of the account with the given id.
func (r *AccountRepository) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(account), nil
}

// FindByEmail returns a copy of the account registered with email.
func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	return r.findBy(func(a *domain.Account) bool { return a.Email == email })
}

// FindByPhone returns a copy of the account registered with phone.
func (r *AccountRepository) FindByPhone(_ context.Context, phone string) (*domain.Account, error) {
	return r.findBy(func(a *domain.Account) bool { return a.Phone == phone })
}

func (r *AccountRepository) findBy(match func(*domain.Account) bool) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if match(account) {
			return cloneAccount(account), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// AddCartLine appends line unless the cart already holds its product.
func (r *AccountRepository) AddCartLine(_ context.Context, accountID string, line domain.CartLine) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountID]
	if !ok {
		return false, nil
	}
	if _, exists := account.FindCartLine(line.ProductID); exists {
		return false, nil
	}
	account.Cart = append(account.Cart, line)
	return true, nil
}

// RemoveCartLine deletes the line for productID if present.
func (r *AccountRepository) RemoveCartLine(_ context.Context, accountID, productID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountID]
	if !ok {
		return false, nil
	}
	i := slices.IndexFunc(account.Cart, func(l domain.CartLine) bool { return l.ProductID == productID })
	if i < 0 {
		return false, nil
	}
	account.Cart = slices.Delete(account.Cart, i, i+1)
	return true, nil
}

// ChangeCartQuantity adds delta to the line's quantity only if the result
// stays within the cart quantity bounds.
func (r *AccountRepository) ChangeCartQuantity(_ context.Context, accountID, productID string, delta int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountID]
	if !ok {
		return false, nil
	}
	for i := range account.Cart {
		line := &account.Cart[i]
		if line.ProductID != productID {
			continue
		}
		if !domain.ValidCartQuantity(line.Quantity + delta) {
			return false, nil
		}
		line.Quantity += delta
		return true, nil
	}
	return false, nil
}

// AddAddress appends an unselected copy of address with a fresh id.
func (r *AccountRepository) AddAddress(_ context.Context, accountID string, address *domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountID]
	if !ok {
		return domain.ErrAccountNotFound
	}

	address.ID = newID()
	address.IsSelected = false
	account.Addresses = append(account.Addresses, *address)
	return nil
}

// SelectAddress marks addressID selected and every other address unselected.
func (r *AccountRepository) SelectAddress(_ context.Context, accountID, addressID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountID]
	if !ok {
		return false, nil
	}
	if _, found := account.FindAddress(addressID); !found {
		return false, nil
	}
	for i := range account.Addresses {
		account.Addresses[i].IsSelected = account.Addresses[i].ID == addressID
	}
	return true, nil
}
