package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shopfront/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names
const (
	usersCollection      = "users"
	productsCollection   = "products"
	categoriesCollection = "categories"
	ordersCollection     = "orders"
)

type accountDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Phone     string             `bson:"phone"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	Cart      []cartLineDocument `bson:"cart"`
	Address   []addressDocument  `bson:"address"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type cartLineDocument struct {
	ProductID primitive.ObjectID `bson:"productId"`
	Quantity  int                `bson:"quantity"`
}

type addressDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	Pincode    string             `bson:"pincode"`
	State      string             `bson:"state"`
	City       string             `bson:"city"`
	RoadName   string             `bson:"road_name"`
	IsSelected bool               `bson:"isSelected"`
}

type categoryDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Category string             `bson:"category"`
}

type productDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Price        float64            `bson:"price"`
	Description  string             `bson:"description"`
	Availability bool               `bson:"availability"`
	CategoryID   primitive.ObjectID `bson:"categoryId"`
	Images       []string           `bson:"images"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

type shippingAddressDocument struct {
	Pincode  string `bson:"pincode"`
	State    string `bson:"state"`
	City     string `bson:"city"`
	RoadName string `bson:"road_name"`
}

type orderDocument struct {
	ID        primitive.ObjectID      `bson:"_id,omitempty"`
	UserID    primitive.ObjectID      `bson:"userID"`
	ProductID primitive.ObjectID      `bson:"productId"`
	Quantity  int                     `bson:"quantity"`
	Address   shippingAddressDocument `bson:"address"`
	Status    string                  `bson:"status"`
	Role      string                  `bson:"role"`
	OrderDate time.Time               `bson:"orderDate"`
}

// objectID parses a hex id. Malformed ids cannot name a stored document,
// so they are reported as notFound.
func objectID(hex string, notFound error) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return id, nil
}

func duplicateKeyOn(err error, field string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), field)
}

// ErrCorruptRecord marks a stored record that no longer decodes into a valid
// domain value. It carries no domain kind, so the API reports it as internal.
var ErrCorruptRecord = errors.New("corrupt stored record")

func storedRole(id, raw string) (domain.Role, error) {
	role, err := domain.ParseRole(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s has unknown role %q", ErrCorruptRecord, id, raw)
	}
	return role, nil
}

func storedStatus(id, raw string) (domain.OrderStatus, error) {
	status, err := domain.ParseOrderStatus(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s has unknown status %q", ErrCorruptRecord, id, raw)
	}
	return status, nil
}

func (d *accountDocument) toDomain() (*domain.Account, error) {
	role, err := storedRole(d.ID.Hex(), d.Role)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Phone:        d.Phone,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         role,
		Cart:         make([]domain.CartLine, 0, len(d.Cart)),
		Addresses:    make([]domain.Address, 0, len(d.Address)),
		CreatedAt:    d.CreatedAt,
	}
	for _, line := range d.Cart {
		account.Cart = append(account.Cart, domain.CartLine{
			ProductID: line.ProductID.Hex(),
			Quantity:  line.Quantity,
		})
	}
	for _, addr := range d.Address {
		account.Addresses = append(account.Addresses, domain.Address{
			ID:         addr.ID.Hex(),
			Pincode:    addr.Pincode,
			State:      addr.State,
			City:       addr.City,
			RoadName:   addr.RoadName,
			IsSelected: addr.IsSelected,
		})
	}
	return account, nil
}

func (d *categoryDocument) toDomain() *domain.Category {
	return &domain.Category{ID: d.ID.Hex(), Name: d.Category}
}

func (d *productDocument) toDomain() *domain.Product {
	images := d.Images
	if images == nil {
		images = []string{}
	}
	return &domain.Product{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		Price:        d.Price,
		Description:  d.Description,
		Availability: d.Availability,
		CategoryID:   d.CategoryID.Hex(),
		Images:       images,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (d *orderDocument) toDomain() (*domain.Order, error) {
	status, err := storedStatus(d.ID.Hex(), d.Status)
	if err != nil {
		return nil, err
	}
	role, err := storedRole(d.ID.Hex(), d.Role)
	if err != nil {
		return nil, err
	}

	return &domain.Order{
		ID:        d.ID.Hex(),
		AccountID: d.UserID.Hex(),
		ProductID: d.ProductID.Hex(),
		Quantity:  d.Quantity,
		Address: domain.ShippingAddress{
			Pincode:  d.Address.Pincode,
			State:    d.Address.State,
			City:     d.Address.City,
			RoadName: d.Address.RoadName,
		},
		Status:    status,
		Role:      role,
		OrderDate: d.OrderDate,
	}, nil
}

func statusStrings(statuses []domain.OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
