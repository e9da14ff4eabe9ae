package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopfront/internal/domain"

	"github.com/google/uuid"
)

type postgresOrderRepository struct {
	db *sql.DB
}

// NewPostgresOrderRepository creates an OrderRepository over the orders table
func NewPostgresOrderRepository(db *sql.DB) OrderRepository {
	return &postgresOrderRepository{db: db}
}

// Create inserts a new order using parameterized queries
func (r *postgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	id := uuid.New()

	query := `
		INSERT INTO orders (id, user_id, product_id, quantity, pincode, state, city, road_name, status, role, order_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		id,
		order.AccountID,
		order.ProductID,
		order.Quantity,
		order.Address.Pincode,
		order.Address.State,
		order.Address.City,
		order.Address.RoadName,
		string(order.Status),
		string(order.Role),
		order.OrderDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	order.ID = id.String()
	return nil
}

// FindByID retrieves an order by ID
func (r *postgresOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	query := `
		SELECT id, user_id, product_id, quantity, pincode, state, city, road_name, status, role, order_date
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, oid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	return order, nil
}

// ListByAccount retrieves the orders of an account, newest first
func (r *postgresOrderRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Order, error) {
	query := `
		SELECT id, user_id, product_id, quantity, pincode, state, city, road_name, status, role, order_date
		FROM orders
		WHERE user_id = $1
		ORDER BY order_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus performs a conditional status transition
func (r *postgresOrderRepository) UpdateStatus(ctx context.Context, id string, from []domain.OrderStatus, to domain.OrderStatus) (bool, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return false, domain.ErrOrderNotFound
	}

	query := `UPDATE orders SET status = $2 WHERE id = $1 AND status = ANY($3::text[])`

	result, err := r.db.ExecContext(ctx, query, oid, string(to), statusStrings(from))
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		id     uuid.UUID
		status string
		role   string
		order  domain.Order
	)

	err := row.Scan(
		&id,
		&order.AccountID,
		&order.ProductID,
		&order.Quantity,
		&order.Address.Pincode,
		&order.Address.State,
		&order.Address.City,
		&order.Address.RoadName,
		&status,
		&role,
		&order.OrderDate,
	)
	if err != nil {
		return nil, err
	}

	order.ID = id.String()
	if order.Status, err = storedStatus(order.ID, status); err != nil {
		return nil, err
	}
	if order.Role, err = storedRole(order.ID, role); err != nil {
		return nil, err
	}
	return &order, nil
}
