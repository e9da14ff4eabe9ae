package service

import (
	"context"
	"strings"

	"shopfront/internal/domain"
	"shopfront/internal/repository"
)

// AddressService manages an account's delivery addresses and the single
// selected address used for placing orders
type AddressService interface {
	List(ctx context.Context, accountID string) ([]domain.Address, error)
	Add(ctx context.Context, accountID string, address domain.Address) (*domain.Address, error)
	Select(ctx context.Context, accountID, addressID string) (*domain.Address, error)
}

type addressService struct {
	accounts repository.AccountRepository
}

// NewAddressService creates a new instance of AddressService
func NewAddressService(accounts repository.AccountRepository) AddressService {
	return &addressService{accounts: accounts}
}

// List returns the account's addresses
func (s *addressService) List(ctx context.Context, accountID string) ([]domain.Address, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return account.Addresses, nil
}

// Add stores a new address. An address submitted as selected becomes the
// only selected one.
func (s *addressService) Add(ctx context.Context, accountID string, address domain.Address) (*domain.Address, error) {
	if !address.Complete() {
		return nil, domain.ErrAddressIncomplete
	}

	address.Pincode = strings.TrimSpace(address.Pincode)
	address.State = strings.TrimSpace(address.State)
	address.City = strings.TrimSpace(address.City)
	address.RoadName = strings.TrimSpace(address.RoadName)

	selected := address.IsSelected
	if err := s.accounts.AddAddress(ctx, accountID, &address); err != nil {
		return nil, err
	}

	if selected {
		return s.Select(ctx, accountID, address.ID)
	}
	return &address, nil
}

// Select marks addressID as the selected address and clears every other flag
func (s *addressService) Select(ctx context.Context, accountID, addressID string) (*domain.Address, error) {
	ok, err := s.accounts.SelectAddress(ctx, accountID, addressID)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	address, found := account.FindAddress(addressID)
	if !ok || !found {
		return nil, domain.ErrAddressNotFound
	}
	return &address, nil
}
