package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/repository"
)

// PasswordHasher hashes and checks account passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
}

// TokenIssuer signs credentials for authenticated accounts
type TokenIssuer interface {
	Issue(account *domain.Account) (string, error)
}

// SignupInput carries the fields of a new account
type SignupInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// UserService defines the interface for account business logic
type UserService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (token string, account *domain.Account, err error)
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
}

type userService struct {
	accounts    repository.AccountRepository
	hasher      PasswordHasher
	tokens      TokenIssuer
	adminEmails []string
	now         func() time.Time
}

// NewUserService creates a new instance of UserService. Signups whose email
// is listed in adminEmails get the admin role.
func NewUserService(
	accounts repository.AccountRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	adminEmails []string,
) UserService {
	return &userService{
		accounts:    accounts,
		hasher:      hasher,
		tokens:      tokens,
		adminEmails: adminEmails,
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new account with a hashed password
func (s *userService) Signup(ctx context.Context, input SignupInput) (*domain.Account, error) {
	email := normalizeEmail(input.Email)
	phone := strings.TrimSpace(input.Phone)

	emailTaken, err := s.exists(ctx, s.accounts.FindByEmail, email)
	if err != nil {
		return nil, err
	}
	phoneTaken, err := s.exists(ctx, s.accounts.FindByPhone, phone)
	if err != nil {
		return nil, err
	}

	switch {
	case emailTaken && phoneTaken:
		return nil, domain.ErrEmailAndPhoneTaken
	case emailTaken:
		return nil, domain.ErrEmailTaken
	case phoneTaken:
		return nil, domain.ErrPhoneTaken
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	role := domain.RoleCustomer
	if slices.Contains(s.adminEmails, email) {
		role = domain.RoleAdmin
	}

	account := &domain.Account{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}

	// The unique indexes still catch a signup racing this one
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

func (s *userService) exists(ctx context.Context, find func(context.Context, string) (*domain.Account, error), key string) (bool, error) {
	_, err := find(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrAccountNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check existing account: %w", err)
	}
}

// Login authenticates an account and returns a signed token
func (s *userService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	account, err := s.accounts.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", nil, err
	}

	ok, err := s.hasher.Verify(account.PasswordHash, password)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return "", nil, err
	}

	return token, account, nil
}

// GetAccount retrieves the caller's account. A verified token whose account
// no longer exists is treated as unauthenticated.
func (s *userService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrUnknownAccount
		}
		return nil, err
	}
	return account, nil
}
