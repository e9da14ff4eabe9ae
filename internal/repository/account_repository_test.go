package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"shopfront/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var accountSeq int

func createTestAccount(t *testing.T, repo AccountRepository) *domain.Account {
	t.Helper()
	accountSeq++
	account := &domain.Account{
		Name:         "Test User",
		Email:        fmt.Sprintf("user%d-%s@example.com", accountSeq, primitive.NewObjectID().Hex()),
		Phone:        primitive.NewObjectID().Hex(),
		PasswordHash: "$2a$10$hash",
		Role:         domain.RoleCustomer,
	}
	require.NoError(t, repo.Create(context.Background(), account))
	return account
}

func TestAccountRepository_CreateAndFind(t *testing.T) {
	requireContainers(t)
	repo := NewAccountRepository(testMongo)
	ctx := context.Background()

	account := createTestAccount(t, repo)
	require.NotEmpty(t, account.ID)

	byID, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Email, byID.Email)
	assert.Empty(t, byID.Cart)
	assert.Empty(t, byID.Addresses)

	byEmail, err := repo.FindByEmail(ctx, account.Email)
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)

	byPhone, err := repo.FindByPhone(ctx, account.Phone)
	require.NoError(t, err)
	assert.Equal(t, account.ID, byPhone.ID)

	_, err = repo.FindByID(ctx, "not-an-object-id")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = repo.FindByID(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountRepository_DuplicateEmailAndPhone(t *testing.T) {
	requireContainers(t)
	repo := NewAccountRepository(testMongo)
	ctx := context.Background()

	existing := createTestAccount(t, repo)

	dupEmail := &domain.Account{Email: existing.Email, Phone: primitive.NewObjectID().Hex(), Role: domain.RoleCustomer}
	assert.ErrorIs(t, repo.Create(ctx, dupEmail), domain.ErrEmailTaken)

	dupPhone := &domain.Account{Email: primitive.NewObjectID().Hex() + "@example.com", Phone: existing.Phone, Role: domain.RoleCustomer}
	assert.ErrorIs(t, repo.Create(ctx, dupPhone), domain.ErrPhoneTaken)
}

func TestAccountRepository_CartGuards(t *testing.T) {
	requireContainers(t)
	repo := NewAccountRepository(testMongo)
	ctx := context.Background()

	account := createTestAccount(t, repo)
	productID := primitive.NewObjectID().Hex()

	ok, err := repo.AddCartLine(ctx, account.ID, domain.CartLine{ProductID: productID, Quantity: 1})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.AddCartLine(ctx, account.ID, domain.CartLine{ProductID: productID, Quantity: 1})
	require.NoError(t, err)
	assert.False(t, ok, "a second line for the same product must not be pushed")

	ok, err = repo.ChangeCartQuantity(ctx, account.ID, productID, -1)
	require.NoError(t, err)
	assert.False(t, ok, "quantity must not drop below the floor")

	for i := 0; i < domain.MaxCartQuantity-1; i++ {
		ok, err = repo.ChangeCartQuantity(ctx, account.ID, productID, 1)
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err = repo.ChangeCartQuantity(ctx, account.ID, productID, 1)
	require.NoError(t, err)
	assert.False(t, ok, "quantity must not pass the ceiling")

	stored, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, stored.Cart, 1)
	assert.Equal(t, domain.MaxCartQuantity, stored.Cart[0].Quantity)

	ok, err = repo.RemoveCartLine(ctx, account.ID, productID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.RemoveCartLine(ctx, account.ID, productID)
	require.NoError(t, err)
	assert.False(t, ok)
}

// concurrently runs fn from n goroutines and counts the calls that matched
func concurrently(t *testing.T, n int, fn func(i int) (bool, error)) int {
	t.Helper()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		matched int
		errs    []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := fn(i)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
			}
			if ok {
				matched++
			}
		}(i)
	}
	wg.Wait()
	require.Empty(t, errs)
	return matched
}

func TestAccountRepository_ConcurrentCartGuards(t *testing.T) {
	requireContainers(t)
	repo := NewAccountRepository(testMongo)
	ctx := context.Background()

	account := createTestAccount(t, repo)
	productID := primitive.NewObjectID().Hex()

	pushed := concurrently(t, 8, func(int) (bool, error) {
		return repo.AddCartLine(ctx, account.ID, domain.CartLine{ProductID: productID, Quantity: domain.MaxCartQuantity - 1})
	})
	assert.Equal(t, 1, pushed)

	increased := concurrently(t, 8, func(int) (bool, error) {
		return repo.ChangeCartQuantity(ctx, account.ID, productID, 1)
	})
	assert.Equal(t, 1, increased)

	stored, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, stored.Cart, 1)
	assert.Equal(t, domain.MaxCartQuantity, stored.Cart[0].Quantity)

	removed := concurrently(t, 8, func(int) (bool, error) {
		return repo.RemoveCartLine(ctx, account.ID, productID)
	})
	assert.Equal(t, 1, removed)
}

func TestAccountRepository_ConcurrentSelect(t *testing.T) {
	requireContainers(t)
	repo := NewAccountRepository(testMongo)
	ctx := context.Background()

	account := createTestAccount(t, repo)
	var ids []string
	for i := 0; i < 6; i++ {
		addr := &domain.Address{Pincode: fmt.Sprint(560000 + i), State: "KA", City: "Bengaluru", RoadName: "MG Road"}
		require.NoError(t, repo.AddAddress(ctx, account.ID, addr))
		ids = append(ids, addr.ID)
	}

	selected := concurrently(t, len(ids), func(i int) (bool, error) {
		return repo.SelectAddress(ctx, account.ID, ids[i])
	})
	assert.Equal(t, len(ids), selected)

	stored, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	_, err = stored.SelectedAddress()
	assert.NoError(t, err, "exactly one address stays selected")
}

func TestAccountRepository_SelectAddress(t *testing.T) {
	requireContainers(t)
	repo := NewAccountRepository(testMongo)
	ctx := context.Background()

	account := createTestAccount(t, repo)

	a1 := &domain.Address{Pincode: "560001", State: "KA", City: "Bengaluru", RoadName: "MG Road"}
	a2 := &domain.Address{Pincode: "400001", State: "MH", City: "Mumbai", RoadName: "Marine Drive"}
	require.NoError(t, repo.AddAddress(ctx, account.ID, a1))
	require.NoError(t, repo.AddAddress(ctx, account.ID, a2))

	ok, err := repo.SelectAddress(ctx, account.ID, a2.ID)
	require.NoError(t, err)
	require.True(t, ok)

	stored, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	selected, err := stored.SelectedAddress()
	require.NoError(t, err)
	assert.Equal(t, a2.ID, selected.ID)

	ok, err = repo.SelectAddress(ctx, account.ID, a1.ID)
	require.NoError(t, err)
	require.True(t, ok)

	stored, err = repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	selected, err = stored.SelectedAddress()
	require.NoError(t, err)
	assert.Equal(t, a1.ID, selected.ID)

	ok, err = repo.SelectAddress(ctx, account.ID, primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.False(t, ok)
}

// Any interleaving of quantity changes keeps the stored quantity in bounds
func TestProperty_StoredCartQuantityStaysInBounds(t *testing.T) {
	requireContainers(t)
	repo := NewAccountRepository(testMongo)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("quantity stays within [1, 10]", prop.ForAll(
		func(deltas []int) bool {
			account := createTestAccount(t, repo)
			productID := primitive.NewObjectID().Hex()
			if ok, err := repo.AddCartLine(ctx, account.ID, domain.CartLine{ProductID: productID, Quantity: 1}); err != nil || !ok {
				return false
			}

			expected := 1
			for _, d := range deltas {
				ok, err := repo.ChangeCartQuantity(ctx, account.ID, productID, d)
				if err != nil {
					return false
				}
				if domain.ValidCartQuantity(expected + d) {
					if !ok {
						return false
					}
					expected += d
				} else if ok {
					return false
				}
			}

			stored, err := repo.FindByID(ctx, account.ID)
			if err != nil || len(stored.Cart) != 1 {
				return false
			}
			return stored.Cart[0].Quantity == expected
		},
		gen.SliceOf(gen.OneConstOf(1, -1)),
	))

	properties.TestingRun(t)
}
