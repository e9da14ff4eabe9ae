package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrapped: %w", ErrProductNotFound)))
	assert.Equal(t, KindLimitExceeded, KindOf(ErrCartQuantityCeiling))
	assert.Equal(t, KindInternal, KindOf(errors.New("disk full")))
	assert.Equal(t, "not_found", KindNotFound.String())
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Seller ")
	require.NoError(t, err)
	assert.Equal(t, RoleSeller, role)
	assert.True(t, role.CanManageCatalog())
	assert.False(t, RoleCustomer.CanManageCatalog())

	_, err = ParseRole("root")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestSelectedAddress(t *testing.T) {
	account := &Account{Addresses: []Address{{ID: "a"}, {ID: "b"}}}
	_, err := account.SelectedAddress()
	assert.ErrorIs(t, err, ErrNoAddressSelected)

	account.Addresses[1].IsSelected = true
	selected, err := account.SelectedAddress()
	require.NoError(t, err)
	assert.Equal(t, "b", selected.ID)

	account.Addresses[0].IsSelected = true
	_, err = account.SelectedAddress()
	assert.ErrorIs(t, err, ErrNoAddressSelected, "two selected addresses are as bad as none")
}

func TestAddressComplete(t *testing.T) {
	assert.True(t, Address{Pincode: "1", State: "s", City: "c", RoadName: "r"}.Complete())
	assert.False(t, Address{Pincode: "1", State: "s", City: "  ", RoadName: "r"}.Complete())
}

func TestProductPatch(t *testing.T) {
	product := &Product{Title: "Lamp", Price: 10, CategoryID: "c1", Images: []string{"a.png"}}

	price := 12.5
	other := "c2"
	patch := ProductPatch{Price: &price, CategoryID: &other}
	assert.True(t, patch.ChangesCategory(product.CategoryID))

	patch.Apply(product)
	assert.Equal(t, 12.5, product.Price)
	assert.Equal(t, "c2", product.CategoryID)
	assert.Equal(t, "Lamp", product.Title)
	assert.Equal(t, []string{"a.png"}, product.Images)

	assert.False(t, ProductPatch{CategoryID: &other}.ChangesCategory("c2"))
	assert.Equal(t, "toys", NormalizeCategoryName("  ToYs "))
}

func TestNewOrder(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	account := &Account{ID: "acc", Role: RoleSeller}
	addr := Address{ID: "a1", Pincode: "1", State: "s", City: "c", RoadName: "r", IsSelected: true}

	order := NewOrder(account, CartLine{ProductID: "p1", Quantity: 4}, addr, now)
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, RoleSeller, order.Role)
	assert.Equal(t, 4, order.Quantity)
	assert.Equal(t, ShippingAddress{Pincode: "1", State: "s", City: "c", RoadName: "r"}, order.Address)
	assert.Equal(t, now, order.OrderDate)

	assert.True(t, order.VisibleTo("acc", RoleCustomer))
	assert.True(t, order.VisibleTo("someone", RoleAdmin))
	assert.False(t, order.VisibleTo("someone", RoleSeller))
}

// Cancel and return are mutually exclusive guards, and fulfilment never
// leaves a final status
func TestProperty_StatusGuards(t *testing.T) {
	properties := gopter.NewProperties(nil)

	statuses := make([]interface{}, len(orderStatuses))
	for i, s := range orderStatuses {
		statuses[i] = s
	}

	properties.Property("guards agree with the order lifecycle", prop.ForAll(
		func(from, to OrderStatus) bool {
			if from.CanCancel() && from.CanReturn() {
				return false
			}
			final := from == OrderStatusDelivered || from == OrderStatusCancelled || from == OrderStatusReturned
			if final && from.CanCancel() {
				return false
			}
			if (from == OrderStatusCancelled || from == OrderStatusReturned) && from.CanAdvanceTo(to) {
				return false
			}
			if from.CanAdvanceTo(to) && from == to {
				return false
			}
			return true
		},
		gen.OneConstOf(statuses...),
		gen.OneConstOf(statuses...),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("Shipped")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, status)

	_, err = ParseOrderStatus("lost")
	assert.ErrorIs(t, err, ErrUnknownOrderStatus)
	assert.Equal(t, KindBadRequest, KindOf(err))

	assert.True(t, OrderStatusShipped.CanAdvanceTo(OrderStatusDelivered))
	assert.False(t, OrderStatusPending.CanAdvanceTo(OrderStatusDelivered))
	assert.True(t, OrderStatusReturn.CanAdvanceTo(OrderStatusReturned))
}
