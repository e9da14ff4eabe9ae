package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"shopfront/internal/domain"
	"shopfront/internal/events"
	"shopfront/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// failingRemoval fails every cart line removal
type failingRemoval struct {
	*memory.AccountRepository
}

func (f failingRemoval) RemoveCartLine(context.Context, string, string) (bool, error) {
	return false, errors.New("store unavailable")
}

type fixture struct {
	accounts   *memory.AccountRepository
	products   *memory.ProductRepository
	categories *memory.CategoryRepository
	orders     *memory.OrderRepository
	seq        int
}

func newFixture() *fixture {
	return &fixture{
		accounts:   memory.NewAccountRepository(),
		products:   memory.NewProductRepository(),
		categories: memory.NewCategoryRepository(),
		orders:     memory.NewOrderRepository(),
	}
}

func (f *fixture) account(t *testing.T) *domain.Account {
	t.Helper()
	f.seq++
	account := &domain.Account{
		Name:  "Test User",
		Email: fmt.Sprintf("user%d@example.com", f.seq),
		Phone: fmt.Sprintf("90000%05d", f.seq),
		Role:  domain.RoleCustomer,
	}
	require.NoError(t, f.accounts.Create(context.Background(), account))
	return account
}

func (f *fixture) product(t *testing.T, available bool) *domain.Product {
	t.Helper()
	ctx := context.Background()
	f.seq++
	category := &domain.Category{Name: fmt.Sprintf("category-%d", f.seq)}
	require.NoError(t, f.categories.Create(ctx, category))

	product := &domain.Product{
		Title:        "Product",
		Price:        10,
		Availability: available,
		CategoryID:   category.ID,
		Images:       []string{"img.png"},
	}
	require.NoError(t, f.products.Create(ctx, product))
	return product
}

func (f *fixture) selectedAddress(t *testing.T, accountID string) *domain.Address {
	t.Helper()
	addr, err := NewAddressService(f.accounts).Add(context.Background(), accountID, domain.Address{
		Pincode:    "560001",
		State:      "KA",
		City:       "Bengaluru",
		RoadName:   "MG Road",
		IsSelected: true,
	})
	require.NoError(t, err)
	return addr
}
