package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopfront/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AccountRepository defines the interface for account data access.
//
// The cart and address mutations are guarded single-document updates: each
// reports false when its guard did not match (account missing, line missing
// or already present, quantity at a bound) and leaves the document untouched.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Account, error)

	AddCartLine(ctx context.Context, accountID string, line domain.CartLine) (bool, error)
	RemoveCartLine(ctx context.Context, accountID, productID string) (bool, error)
	ChangeCartQuantity(ctx context.Context, accountID, productID string, delta int) (bool, error)

	AddAddress(ctx context.Context, accountID string, address *domain.Address) error
	SelectAddress(ctx context.Context, accountID, addressID string) (bool, error)
}

type accountRepository struct {
	collection *mongo.Collection
}

// NewAccountRepository creates a new instance of AccountRepository
func NewAccountRepository(db *mongo.Database) AccountRepository {
	return &accountRepository{collection: db.Collection(usersCollection)}
}

// Create inserts a new account with an empty cart and address list
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	doc := accountDocument{
		Name:      account.Name,
		Phone:     account.Phone,
		Email:     account.Email,
		Password:  account.PasswordHash,
		Role:      string(account.Role),
		Cart:      []cartLineDocument{},
		Address:   []addressDocument{},
		CreatedAt: account.CreatedAt,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		switch {
		case duplicateKeyOn(err, "email"):
			return domain.ErrEmailTaken
		case duplicateKeyOn(err, "phone"):
			return domain.ErrPhoneTaken
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	account.ID = result.InsertedID.(primitive.ObjectID).Hex()
	account.Cart = []domain.CartLine{}
	account.Addresses = []domain.Address{}
	return nil
}

// FindByID retrieves an account by ID
func (r *accountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := objectID(id, domain.ErrAccountNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByEmail retrieves an account by email
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByPhone retrieves an account by phone number
func (r *accountRepository) FindByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *accountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var doc accountDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return doc.toDomain()
}

// AddCartLine appends line unless the cart already holds its product
func (r *accountRepository) AddCartLine(ctx context.Context, accountID string, line domain.CartLine) (bool, error) {
	oid, err := objectID(accountID, domain.ErrAccountNotFound)
	if err != nil {
		return false, nil
	}
	pid, err := objectID(line.ProductID, domain.ErrProductNotFound)
	if err != nil {
		return false, err
	}

	filter := bson.M{
		"_id":            oid,
		"cart.productId": bson.M{"$ne": pid},
	}
	update := bson.M{
		"$push": bson.M{"cart": cartLineDocument{ProductID: pid, Quantity: line.Quantity}},
	}

	return r.guardedUpdate(ctx, filter, update, "add cart line")
}

// RemoveCartLine pulls the line for productID if present
func (r *accountRepository) RemoveCartLine(ctx context.Context, accountID, productID string) (bool, error) {
	oid, err := objectID(accountID, domain.ErrAccountNotFound)
	if err != nil {
		return false, nil
	}
	pid, err := objectID(productID, domain.ErrCartLineNotFound)
	if err != nil {
		return false, nil
	}

	filter := bson.M{"_id": oid, "cart.productId": pid}
	update := bson.M{"$pull": bson.M{"cart": bson.M{"productId": pid}}}

	return r.guardedUpdate(ctx, filter, update, "remove cart line")
}

// ChangeCartQuantity adds delta to the line's quantity only if the result
// stays within the cart quantity bounds
func (r *accountRepository) ChangeCartQuantity(ctx context.Context, accountID, productID string, delta int) (bool, error) {
	oid, err := objectID(accountID, domain.ErrAccountNotFound)
	if err != nil {
		return false, nil
	}
	pid, err := objectID(productID, domain.ErrCartLineNotFound)
	if err != nil {
		return false, nil
	}

	filter := bson.M{
		"_id": oid,
		"cart": bson.M{"$elemMatch": bson.M{
			"productId": pid,
			"quantity": bson.M{
				"$gte": domain.MinCartQuantity - delta,
				"$lte": domain.MaxCartQuantity - delta,
			},
		}},
	}
	update := bson.M{"$inc": bson.M{"cart.$.quantity": delta}}

	return r.guardedUpdate(ctx, filter, update, "change cart quantity")
}

// AddAddress appends address with a fresh id. The stored copy is never
// selected; callers select it afterwards to keep a single winner.
func (r *accountRepository) AddAddress(ctx context.Context, accountID string, address *domain.Address) error {
	oid, err := objectID(accountID, domain.ErrAccountNotFound)
	if err != nil {
		return err
	}

	doc := addressDocument{
		ID:       primitive.NewObjectID(),
		Pincode:  address.Pincode,
		State:    address.State,
		City:     address.City,
		RoadName: address.RoadName,
	}

	ok, err := r.guardedUpdate(ctx, bson.M{"_id": oid}, bson.M{"$push": bson.M{"address": doc}}, "add address")
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAccountNotFound
	}

	address.ID = doc.ID.Hex()
	address.IsSelected = false
	return nil
}

// SelectAddress marks addressID selected and every other address unselected
// in one update
func (r *accountRepository) SelectAddress(ctx context.Context, accountID, addressID string) (bool, error) {
	oid, err := objectID(accountID, domain.ErrAccountNotFound)
	if err != nil {
		return false, nil
	}
	aid, err := objectID(addressID, domain.ErrAddressNotFound)
	if err != nil {
		return false, nil
	}

	filter := bson.M{"_id": oid, "address._id": aid}
	update := bson.M{"$set": bson.M{
		"address.$[chosen].isSelected": true,
		"address.$[other].isSelected":  false,
	}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"chosen._id": aid},
			bson.M{"other._id": bson.M{"$ne": aid}},
		},
	})

	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return false, fmt.Errorf("failed to select address: %w", err)
	}
	return result.MatchedCount == 1, nil
}

func (r *accountRepository) guardedUpdate(ctx context.Context, filter, update bson.M, op string) (bool, error) {
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to %s: %w", op, err)
	}
	return result.MatchedCount == 1, nil
}

// CreateIndexes creates the unique email and phone indexes
func (r *accountRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create account indexes: %w", err)
	}
	return nil
}
