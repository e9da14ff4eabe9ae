package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopfront/internal/auth"
	"shopfront/internal/domain"
	"shopfront/internal/events"
	"shopfront/internal/repository"

	"go.uber.org/zap"
)

// PlacementError reports an order that was created while its cart line
// could not be removed afterwards. The order stands; removal can be retried.
type PlacementError struct {
	OrderID string
	Err     error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("order %s placed but cart line not removed: %v", e.OrderID, e.Err)
}

func (e *PlacementError) Unwrap() []error {
	return []error{domain.ErrCartLineNotCleared, e.Err}
}

// DefaultPublishTimeout bounds how long a request waits on the event publisher
const DefaultPublishTimeout = 2 * time.Second

// OrderService governs order creation and status transitions
type OrderService interface {
	Place(ctx context.Context, accountID, productID string) (*domain.Order, error)
	List(ctx context.Context, accountID string) ([]*domain.Order, error)
	Get(ctx context.Context, caller auth.Identity, orderID string) (*domain.Order, error)
	RequestReturn(ctx context.Context, caller auth.Identity, orderID string) (*domain.Order, error)
	Cancel(ctx context.Context, caller auth.Identity, orderID string) (*domain.Order, error)
	Advance(ctx context.Context, orderID string, to domain.OrderStatus) (*domain.Order, error)
}

type orderService struct {
	accounts  repository.AccountRepository
	orders    repository.OrderRepository
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time

	publishTimeout time.Duration
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	accounts repository.AccountRepository,
	orders repository.OrderRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		accounts:  accounts,
		orders:    orders,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,

		publishTimeout: DefaultPublishTimeout,
	}
}

// Place turns the cart line for productID into a pending order shipped to
// the selected address, then removes the line from the cart
func (s *orderService) Place(ctx context.Context, accountID, productID string) (*domain.Order, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrUnknownAccount
		}
		return nil, err
	}

	line, found := account.FindCartLine(productID)
	if !found {
		return nil, domain.ErrCartLineNotFound
	}

	address, err := account.SelectedAddress()
	if err != nil {
		return nil, err
	}

	order := domain.NewOrder(account, line, address, s.now().UTC())
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	removed, err := s.accounts.RemoveCartLine(ctx, accountID, productID)
	if err != nil {
		s.logger.Error("Cart line not removed after order placement",
			zap.String("order_id", order.ID),
			zap.String("account_id", accountID),
			zap.String("product_id", productID),
			zap.Error(err),
		)
		s.publish(ctx, events.OrderPlaced, order)
		return order, &PlacementError{OrderID: order.ID, Err: err}
	}
	if !removed {
		// another placement consumed the line first
		s.void(ctx, order)
		return nil, domain.ErrCartLineNotFound
	}

	s.publish(ctx, events.OrderPlaced, order)
	return order, nil
}

// void cancels an order whose cart line was taken by a concurrent placement
func (s *orderService) void(ctx context.Context, order *domain.Order) {
	moved, err := s.orders.UpdateStatus(ctx, order.ID, domain.CancellableStatuses(), domain.OrderStatusCancelled)
	if err != nil || !moved {
		s.logger.Error("Failed to void order that lost its cart line",
			zap.String("order_id", order.ID),
			zap.Bool("moved", moved),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("Voided order that lost its cart line to a concurrent placement",
		zap.String("order_id", order.ID),
		zap.String("account_id", order.AccountID),
	)
}

// List returns the account's orders, newest first
func (s *orderService) List(ctx context.Context, accountID string) ([]*domain.Order, error) {
	return s.orders.ListByAccount(ctx, accountID)
}

// Get returns an order visible to the caller
func (s *orderService) Get(ctx context.Context, caller auth.Identity, orderID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.VisibleTo(caller.AccountID, caller.Role) {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// RequestReturn moves a delivered order to return
func (s *orderService) RequestReturn(ctx context.Context, caller auth.Identity, orderID string) (*domain.Order, error) {
	order, err := s.Get(ctx, caller, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanReturn() {
		return nil, domain.ErrOrderNotReturnable
	}

	if err := s.transition(ctx, order, domain.ReturnableStatuses(), domain.OrderStatusReturn, domain.ErrOrderNotReturnable); err != nil {
		return nil, err
	}

	s.publish(ctx, events.OrderReturnRequested, order)
	return order, nil
}

// Cancel moves an order to cancelled unless it was delivered, returned or
// already cancelled
func (s *orderService) Cancel(ctx context.Context, caller auth.Identity, orderID string) (*domain.Order, error) {
	order, err := s.Get(ctx, caller, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanCancel() {
		return nil, domain.ErrOrderNotCancellable
	}

	if err := s.transition(ctx, order, domain.CancellableStatuses(), domain.OrderStatusCancelled, domain.ErrOrderNotCancellable); err != nil {
		return nil, err
	}

	s.publish(ctx, events.OrderCancelled, order)
	return order, nil
}

// Advance moves an order one fulfilment step forward
func (s *orderService) Advance(ctx context.Context, orderID string, to domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanAdvanceTo(to) {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.transition(ctx, order, []domain.OrderStatus{order.Status}, to, domain.ErrInvalidTransition); err != nil {
		return nil, err
	}

	s.publish(ctx, events.OrderStatusChanged, order)
	return order, nil
}

// transition applies the conditional status update. Losing a race to another
// transition is reported as refused.
func (s *orderService) transition(ctx context.Context, order *domain.Order, from []domain.OrderStatus, to domain.OrderStatus, refused error) error {
	moved, err := s.orders.UpdateStatus(ctx, order.ID, from, to)
	if err != nil {
		return err
	}
	if !moved {
		return refused
	}
	order.Status = to
	return nil
}

func (s *orderService) publish(ctx context.Context, eventType string, order *domain.Order) {
	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	event := events.NewOrderEvent(eventType, order, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish order event",
			zap.String("type", eventType),
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}
}
