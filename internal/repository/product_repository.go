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

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*domain.Product, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
}

type productRepository struct {
	collection *mongo.Collection
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepository{collection: db.Collection(productsCollection)}
}

// Create inserts a new product
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	doc, err := newProductDocument(product)
	if err != nil {
		return err
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	product.ID = result.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

// Update replaces the stored fields of an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	oid, err := objectID(product.ID, domain.ErrProductNotFound)
	if err != nil {
		return err
	}
	doc, err := newProductDocument(product)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"title":        doc.Title,
		"price":        doc.Price,
		"description":  doc.Description,
		"availability": doc.Availability,
		"categoryId":   doc.CategoryID,
		"images":       doc.Images,
		"updatedAt":    doc.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// Delete removes a product
func (r *productRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrProductNotFound)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := objectID(id, domain.ErrProductNotFound)
	if err != nil {
		return nil, err
	}

	var doc productDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return doc.toDomain(), nil
}

// ListByCategory retrieves the products of a category, newest first
func (r *productRepository) ListByCategory(ctx context.Context, categoryID string) ([]*domain.Product, error) {
	oid, err := objectID(categoryID, domain.ErrCategoryNotFound)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"categoryId": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []*domain.Product{}
	for cursor.Next(ctx) {
		var doc productDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, doc.toDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// CountByCategory counts the products referencing a category
func (r *productRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	oid, err := objectID(categoryID, domain.ErrCategoryNotFound)
	if err != nil {
		return 0, err
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"categoryId": oid})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// CreateIndexes creates the category lookup index
func (r *productRepository) CreateIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "categoryId", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}

func newProductDocument(product *domain.Product) (productDocument, error) {
	categoryID, err := objectID(product.CategoryID, domain.ErrCategoryNotFound)
	if err != nil {
		return productDocument{}, err
	}

	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = now
	}
	if product.Images == nil {
		product.Images = []string{}
	}

	return productDocument{
		Title:        product.Title,
		Price:        product.Price,
		Description:  product.Description,
		Availability: product.Availability,
		CategoryID:   categoryID,
		Images:       product.Images,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}, nil
}
