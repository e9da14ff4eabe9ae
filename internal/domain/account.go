package domain

import (
	"strings"
	"time"
)

// Cart line quantity bounds, inclusive.
const (
	MinCartQuantity = 1
	MaxCartQuantity = 10
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Role is the kind of account placing requests.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

// ParseRole converts s into a Role, rejecting anything outside the known set
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// CanManageCatalog reports whether the role may create, change or delete catalog entries
func (r Role) CanManageCatalog() bool {
	return r == RoleSeller || r == RoleAdmin
}

// CartLine is one product/quantity pair in an account's cart.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// ValidCartQuantity reports whether q is within the cart line bounds
func ValidCartQuantity(q int) bool {
	return q >= MinCartQuantity && q <= MaxCartQuantity
}

// Address is a delivery address owned by an account.
type Address struct {
	ID         string `json:"id"`
	Pincode    string `json:"pincode"`
	State      string `json:"state"`
	City       string `json:"city"`
	RoadName   string `json:"road_name"`
	IsSelected bool   `json:"isSelected"`
}

// Complete reports whether every required address field is present
func (a Address) Complete() bool {
	return strings.TrimSpace(a.Pincode) != "" &&
		strings.TrimSpace(a.State) != "" &&
		strings.TrimSpace(a.City) != "" &&
		strings.TrimSpace(a.RoadName) != ""
}

// Account is a registered user together with its cart and addresses.
type Account struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Cart         []CartLine `json:"cart"`
	Addresses    []Address  `json:"address"`
	CreatedAt    time.Time  `json:"created_at"`
}

// FindCartLine returns the cart line for productID, if present.
func (a *Account) FindCartLine(productID string) (CartLine, bool) {
	for _, line := range a.Cart {
		if line.ProductID == productID {
			return line, true
		}
	}
	return CartLine{}, false
}

// FindAddress returns the address with the given id, if present.
func (a *Account) FindAddress(addressID string) (Address, bool) {
	for _, addr := range a.Addresses {
		if addr.ID == addressID {
			return addr, true
		}
	}
	return Address{}, false
}

// SelectedAddress returns the single selected address. It fails when none,
// or more than one, is selected.
func (a *Account) SelectedAddress() (Address, error) {
	var (
		selected Address
		count    int
	)
	for _, addr := range a.Addresses {
		if addr.IsSelected {
			selected = addr
			count++
		}
	}
	if count != 1 {
		return Address{}, ErrNoAddressSelected
	}
	return selected, nil
}
