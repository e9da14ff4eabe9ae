package repository

import (
	"context"
	"errors"
	"fmt"

	"shopfront/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Order, error)
	// UpdateStatus moves the order to status "to" only while its current
	// status is one of "from". It reports whether the move happened.
	UpdateStatus(ctx context.Context, id string, from []domain.OrderStatus, to domain.OrderStatus) (bool, error)
}

type orderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository creates a new mongo backed OrderRepository
func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderRepository{collection: db.Collection(ordersCollection)}
}

// Create inserts a new order
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	userID, err := objectID(order.AccountID, domain.ErrAccountNotFound)
	if err != nil {
		return err
	}
	productID, err := objectID(order.ProductID, domain.ErrProductNotFound)
	if err != nil {
		return err
	}

	doc := orderDocument{
		UserID:    userID,
		ProductID: productID,
		Quantity:  order.Quantity,
		Address: shippingAddressDocument{
			Pincode:  order.Address.Pincode,
			State:    order.Address.State,
			City:     order.Address.City,
			RoadName: order.Address.RoadName,
		},
		Status:    string(order.Status),
		Role:      string(order.Role),
		OrderDate: order.OrderDate,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	order.ID = result.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

// FindByID retrieves an order by ID
func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := objectID(id, domain.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}

	var doc orderDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	return doc.toDomain()
}

// ListByAccount retrieves the orders of an account, newest first
func (r *orderRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Order, error) {
	oid, err := objectID(accountID, domain.ErrAccountNotFound)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "orderDate", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userID": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []*domain.Order{}
	for cursor.Next(ctx) {
		var doc orderDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode order: %w", err)
		}
		order, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus performs a conditional status transition
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, from []domain.OrderStatus, to domain.OrderStatus) (bool, error) {
	oid, err := objectID(id, domain.ErrOrderNotFound)
	if err != nil {
		return false, err
	}

	filter := bson.M{
		"_id":    oid,
		"status": bson.M{"$in": statusStrings(from)},
	}
	update := bson.M{"$set": bson.M{"status": string(to)}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	return result.MatchedCount == 1, nil
}

// CreateIndexes creates the per account listing index
func (r *orderRepository) CreateIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userID", Value: 1}, {Key: "orderDate", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}
	return nil
}
