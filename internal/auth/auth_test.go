package auth

import (
	"strings"
	"testing"
	"time"

	"shopfront/internal/config"
	"shopfront/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testTokens() *Tokens {
	return NewTokens(config.JWTConfig{Secret: "test-secret", Expiry: time.Hour})
}

// Every issued token verifies back to the identity it was issued for
func TestProperty_IssuedTokensRoundTrip(t *testing.T) {
	tokens := testTokens()
	properties := gopter.NewProperties(nil)

	properties.Property("verify(issue(account)) yields the account identity", prop.ForAll(
		func(id string, role domain.Role) bool {
			signed, err := tokens.Issue(&domain.Account{ID: id, Role: role})
			if err != nil {
				return false
			}
			identity, err := tokens.Verify(signed)
			if err != nil {
				return false
			}
			return identity.AccountID == id && identity.Role == role
		},
		gen.Identifier(),
		gen.OneConstOf(domain.RoleCustomer, domain.RoleSeller, domain.RoleAdmin),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestVerify_Rejections(t *testing.T) {
	tokens := testTokens()
	account := &domain.Account{ID: "abc", Role: domain.RoleCustomer}

	_, err := tokens.Verify("")
	assert.ErrorIs(t, err, domain.ErrMissingToken)

	_, err = tokens.Verify("not.a.token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	other := NewTokens(config.JWTConfig{Secret: "other-secret", Expiry: time.Hour})
	signed, err := other.Issue(account)
	require.NoError(t, err)
	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken, "tokens signed with another secret are rejected")

	expired := testTokens()
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	signed, err = expired.Issue(account)
	require.NoError(t, err)
	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestVerify_RejectsUnknownRole(t *testing.T) {
	tokens := testTokens()
	claims := &Claims{
		UserID: "abc",
		Role:   "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestHasher(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	ok, err := hasher.Verify(hash, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = hasher.Verify("not-a-hash", "s3cret")
	assert.Error(t, err)
}

func TestHasher_PasswordLengthLimit(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	_, err := hasher.Hash(strings.Repeat("a", domain.MaxPasswordBytes))
	require.NoError(t, err)

	_, err = hasher.Hash(strings.Repeat("a", domain.MaxPasswordBytes+1))
	assert.ErrorIs(t, err, domain.ErrPasswordTooLong)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))

	hash, err := hasher.Hash("short")
	require.NoError(t, err)
	ok, err := hasher.Verify(hash, strings.Repeat("a", domain.MaxPasswordBytes+1))
	require.NoError(t, err)
	assert.False(t, ok)
}
