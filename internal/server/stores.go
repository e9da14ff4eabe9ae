package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopfront/internal/config"
	"shopfront/internal/database"
	"shopfront/internal/repository"
	"shopfront/internal/repository/memory"

	"go.uber.org/zap"
)

// Stores bundles the repositories selected by configuration together with
// the connections behind them
type Stores struct {
	Accounts   repository.AccountRepository
	Categories repository.CategoryRepository
	Products   repository.ProductRepository
	Orders     repository.OrderRepository

	driver   string
	mongo    *database.Mongo
	postgres *sql.DB
}

// MemoryStores returns empty in-process stores
func MemoryStores() *Stores {
	return &Stores{
		Accounts:   memory.NewAccountRepository(),
		Categories: memory.NewCategoryRepository(),
		Products:   memory.NewProductRepository(),
		Orders:     memory.NewOrderRepository(),
		driver:     config.StoreMemory,
	}
}

// OpenStores connects the configured backends. Mongo indexes and postgres
// migrations are applied before the stores are returned.
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	stores := MemoryStores()

	if cfg.Store.Driver == config.StoreMongo || cfg.OrderStore() == config.StoreMongo {
		m, err := database.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		stores.mongo = m

		if err := repository.EnsureIndexes(ctx, m.DB()); err != nil {
			stores.Close(ctx)
			return nil, fmt.Errorf("failed to create indexes: %w", err)
		}
		logger.Info("Connected to MongoDB", zap.String("database", cfg.Mongo.Database))
	}

	if cfg.Store.Driver == config.StoreMongo {
		db := stores.mongo.DB()
		stores.Accounts = repository.NewAccountRepository(db)
		stores.Categories = repository.NewCategoryRepository(db)
		stores.Products = repository.NewProductRepository(db)
		stores.driver = config.StoreMongo
	}

	switch cfg.OrderStore() {
	case config.StoreMongo:
		stores.Orders = repository.NewOrderRepository(stores.mongo.DB())
	case config.StorePostgres:
		db, err := database.OpenPostgres(ctx, cfg.Database.PostgresDSN())
		if err != nil {
			stores.Close(ctx)
			return nil, err
		}
		stores.postgres = db

		if err := database.RunMigrations(db, logger); err != nil {
			stores.Close(ctx)
			return nil, err
		}
		stores.Orders = repository.NewPostgresOrderRepository(db)
		logger.Info("Orders stored in postgres", zap.String("host", cfg.Database.Host))
	}

	return stores, nil
}

// Health reports every backing store
func (s *Stores) Health(ctx context.Context) (map[string]interface{}, bool) {
	report := map[string]interface{}{"driver": s.driver}
	healthy := true

	if s.mongo != nil {
		h := s.mongo.Health(ctx)
		report["mongo"] = h
		healthy = healthy && h["status"] == "up"
	}
	if s.postgres != nil {
		if err := s.postgres.PingContext(ctx); err != nil {
			report["postgres"] = map[string]string{"status": "down", "error": err.Error()}
			healthy = false
		} else {
			report["postgres"] = map[string]string{"status": "up"}
		}
	}

	return report, healthy
}

// Close releases the connections behind the stores
func (s *Stores) Close(ctx context.Context) error {
	var errs []error
	if s.mongo != nil {
		if err := s.mongo.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongo: %w", err))
		}
	}
	if s.postgres != nil {
		if err := s.postgres.Close(); err != nil {
			errs = append(errs, fmt.Errorf("postgres: %w", err))
		}
	}
	return errors.Join(errs...)
}
