package domain

import (
	"slices"
	"strings"
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusReturn     OrderStatus = "return"
	OrderStatusReturned   OrderStatus = "returned"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusReturn,
	OrderStatusReturned,
}

// fulfilment moves, keyed by the status they leave
var fulfilment = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusProcessing,
	OrderStatusProcessing: OrderStatusShipped,
	OrderStatusShipped:    OrderStatusDelivered,
	OrderStatusReturn:     OrderStatusReturned,
}

// ParseOrderStatus converts s into an OrderStatus, rejecting unknown values
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", ErrUnknownOrderStatus
	}
	return status, nil
}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	return slices.Contains(orderStatuses, s)
}

// CancellableStatuses lists the statuses an order may be cancelled from.
// Everything except delivered, returned and cancelled itself.
func CancellableStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusReturn,
	}
}

// ReturnableStatuses lists the statuses a return may be requested from.
func ReturnableStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusDelivered}
}

// CanCancel reports whether an order in status s may be cancelled
func (s OrderStatus) CanCancel() bool {
	return slices.Contains(CancellableStatuses(), s)
}

// CanReturn reports whether a return may be requested for an order in status s
func (s OrderStatus) CanReturn() bool {
	return slices.Contains(ReturnableStatuses(), s)
}

// CanAdvanceTo reports whether fulfilment may move an order from s to next
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	to, ok := fulfilment[s]
	return ok && to == next
}

// ShippingAddress is the copy of an address taken when an order is placed.
type ShippingAddress struct {
	Pincode  string `json:"pincode"`
	State    string `json:"state"`
	City     string `json:"city"`
	RoadName string `json:"road_name"`
}

// SnapshotAddress copies the delivery fields of addr.
func SnapshotAddress(addr Address) ShippingAddress {
	return ShippingAddress{
		Pincode:  addr.Pincode,
		State:    addr.State,
		City:     addr.City,
		RoadName: addr.RoadName,
	}
}

// Order is a placed purchase of one cart line.
type Order struct {
	ID        string          `json:"id"`
	AccountID string          `json:"userID"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Address   ShippingAddress `json:"address"`
	Status    OrderStatus     `json:"status"`
	Role      Role            `json:"role"`
	OrderDate time.Time       `json:"orderDate"`
}

// NewOrder builds a pending order for line, shipped to addr.
func NewOrder(account *Account, line CartLine, addr Address, now time.Time) *Order {
	role := account.Role
	if !role.Valid() {
		role = RoleCustomer
	}
	return &Order{
		AccountID: account.ID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		Address:   SnapshotAddress(addr),
		Status:    OrderStatusPending,
		Role:      role,
		OrderDate: now,
	}
}

// VisibleTo reports whether the order may be read or changed by the given identity.
func (o *Order) VisibleTo(accountID string, role Role) bool {
	return role == RoleAdmin || o.AccountID == accountID
}
