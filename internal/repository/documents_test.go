package repository

import (
	"errors"
	"testing"
	"time"

	"shopfront/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrderDocument_RejectsUnknownEnums(t *testing.T) {
	doc := orderDocument{
		ID:        primitive.NewObjectID(),
		UserID:    primitive.NewObjectID(),
		ProductID: primitive.NewObjectID(),
		Quantity:  2,
		Status:    "pending",
		Role:      "customer",
	}

	order, err := doc.toDomain()
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.RoleCustomer, order.Role)

	doc.Status = "lost-in-transit"
	_, err = doc.toDomain()
	assert.ErrorIs(t, err, ErrCorruptRecord)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))

	doc.Status = "shipped"
	doc.Role = "superuser"
	_, err = doc.toDomain()
	assert.ErrorIs(t, err, ErrCorruptRecord)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestAccountDocument_RejectsUnknownRole(t *testing.T) {
	doc := accountDocument{ID: primitive.NewObjectID(), Email: "a@example.com", Role: "seller"}

	account, err := doc.toDomain()
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, account.Role)
	assert.NotNil(t, account.Cart)

	doc.Role = ""
	_, err = doc.toDomain()
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

// fakeRow scans fixed column values into the destination pointers
type fakeRow struct {
	status, role string
}

func (r fakeRow) Scan(dest ...any) error {
	if len(dest) != 11 {
		return errors.New("unexpected column count")
	}
	*dest[0].(*uuid.UUID) = uuid.New()
	*dest[1].(*string) = "account"
	*dest[2].(*string) = "product"
	*dest[3].(*int) = 1
	for _, i := range []int{4, 5, 6, 7} {
		*dest[i].(*string) = "x"
	}
	*dest[8].(*string) = r.status
	*dest[9].(*string) = r.role
	*dest[10].(*time.Time) = time.Now()
	return nil
}

func TestScanOrder_RejectsUnknownEnums(t *testing.T) {
	order, err := scanOrder(fakeRow{status: "delivered", role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, order.Status)
	assert.Equal(t, domain.RoleAdmin, order.Role)

	_, err = scanOrder(fakeRow{status: "teleported", role: "admin"})
	assert.ErrorIs(t, err, ErrCorruptRecord)

	_, err = scanOrder(fakeRow{status: "pending", role: "guest"})
	assert.ErrorIs(t, err, ErrCorruptRecord)
}
