package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

type indexer interface {
	CreateIndexes(ctx context.Context) error
}

// EnsureIndexes creates the indexes every mongo collection relies on.
// The unique email, phone and category indexes back the conflict checks.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexers := []indexer{
		&accountRepository{collection: db.Collection(usersCollection)},
		&categoryRepository{collection: db.Collection(categoriesCollection)},
		&productRepository{collection: db.Collection(productsCollection)},
		&orderRepository{collection: db.Collection(ordersCollection)},
	}
	for _, ix := range indexers {
		if err := ix.CreateIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}
