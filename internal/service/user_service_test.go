package service

import (
	"context"
	"testing"
	"time"

	"shopfront/internal/auth"
	"shopfront/internal/config"
	"shopfront/internal/domain"
	"shopfront/internal/repository/memory"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(adminEmails ...string) (UserService, *memory.AccountRepository, *auth.Tokens) {
	accounts := memory.NewAccountRepository()
	tokens := auth.NewTokens(config.JWTConfig{Secret: "test-secret", Expiry: time.Hour})
	return NewUserService(accounts, auth.NewHasher(bcrypt.MinCost), tokens, adminEmails), accounts, tokens
}

// Passwords are never stored in plaintext
func TestProperty_SignupHashesPasswords(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("stored hash verifies the password and differs from it", prop.ForAll(
		func(password string) bool {
			svc, accounts, _ := newTestUserService()
			ctx := context.Background()

			account, err := svc.Signup(ctx, SignupInput{
				Name:     "Jane",
				Email:    "jane@example.com",
				Phone:    "9000000001",
				Password: password,
			})
			if err != nil {
				t.Logf("signup failed: %v", err)
				return false
			}

			stored, err := accounts.FindByID(ctx, account.ID)
			if err != nil {
				return false
			}
			if stored.PasswordHash == password {
				return false
			}
			return bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)) == nil
		},
		gen.AlphaString().Map(func(s string) string {
			if len(s) > 40 {
				s = s[:40]
			}
			return "pw-" + s
		}),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSignup_DuplicateMessages(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Name: "A", Email: "a@example.com", Phone: "111", Password: "secret1"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		email string
		phone string
		want  error
	}{
		{"email taken", "A@Example.com", "222", domain.ErrEmailTaken},
		{"phone taken", "b@example.com", "111", domain.ErrPhoneTaken},
		{"both taken", "a@example.com", "111", domain.ErrEmailAndPhoneTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, SignupInput{Name: "B", Email: tt.email, Phone: tt.phone, Password: "secret1"})
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, domain.KindConflict, domain.KindOf(err))
		})
	}
}

func TestSignup_AssignsRoles(t *testing.T) {
	svc, _, _ := newTestUserService("boss@shop.io")
	ctx := context.Background()

	admin, err := svc.Signup(ctx, SignupInput{Name: "Boss", Email: " Boss@Shop.io", Phone: "1", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, "boss@shop.io", admin.Email)

	customer, err := svc.Signup(ctx, SignupInput{Name: "C", Email: "c@shop.io", Phone: "2", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, customer.Role)
	assert.Empty(t, customer.Cart)
	assert.Empty(t, customer.Addresses)
}

func TestLogin(t *testing.T) {
	svc, _, tokens := newTestUserService()
	ctx := context.Background()

	account, err := svc.Signup(ctx, SignupInput{Name: "A", Email: "a@example.com", Phone: "111", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, _, err = svc.Login(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))

	token, loggedIn, err := svc.Login(ctx, "A@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, account.ID, loggedIn.ID)

	identity, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, identity.AccountID)
	assert.Equal(t, domain.RoleCustomer, identity.Role)
}

func TestGetAccount_MissingAccountIsUnauthenticated(t *testing.T) {
	svc, _, _ := newTestUserService()

	_, err := svc.GetAccount(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownAccount)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}
