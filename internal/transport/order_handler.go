package transport

import (
	"context"
	"errors"
	"net/http"

	"shopfront/internal/auth"
	"shopfront/internal/domain"
	"shopfront/internal/middleware"
	"shopfront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StatusRequest represents an order status change
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderResponse wraps an order with a status message
type OrderResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

// OrderHandler handles order routes
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/order", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Get("/details/{id}", h.Get)
		r.Post("/place/{productId}", h.Place)
		r.Patch("/return/{orderId}", h.RequestReturn)
		r.Delete("/cancel/{orderId}", h.Cancel)

		r.With(middleware.RequireAdmin(h.logger)).Patch("/status/{orderId}", h.Advance)
	})
}

// Place turns a cart line into an order
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	accountID, ok := callerID(w, r, h.logger)
	if !ok {
		return
	}

	order, err := h.orderService.Place(r.Context(), accountID, chi.URLParam(r, "productId"))
	if err != nil {
		var placement *service.PlacementError
		if errors.As(err, &placement) {
			middleware.RespondWithDomainErrorDetails(w, h.logger, err, map[string]interface{}{
				"order_id": placement.OrderID,
			})
			return
		}
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", accountID),
		zap.String("product_id", order.ProductID),
	)
	middleware.RespondWithJSON(w, http.StatusOK, OrderResponse{Message: "Order placed successfully", Order: order})
}

// List returns the caller's orders, newest first
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID, ok := callerID(w, r, h.logger)
	if !ok {
		return
	}

	orders, err := h.orderService.List(r.Context(), accountID)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// Get returns one order visible to the caller
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withCaller(w, r, "id", "Order details", h.orderService.Get)
}

// RequestReturn moves a delivered order into return
func (h *OrderHandler) RequestReturn(w http.ResponseWriter, r *http.Request) {
	h.withCaller(w, r, "orderId", "Return requested", h.orderService.RequestReturn)
}

// Cancel cancels an order that has not been delivered
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.withCaller(w, r, "orderId", "Order cancelled", h.orderService.Cancel)
}

// Advance moves an order along fulfilment
func (h *OrderHandler) Advance(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !middleware.Bind(w, r, &req) {
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	order, err := h.orderService.Advance(r.Context(), chi.URLParam(r, "orderId"), status)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, OrderResponse{Message: "Order status updated", Order: order})
}

type callerOrderOp func(ctx context.Context, caller auth.Identity, orderID string) (*domain.Order, error)

func (h *OrderHandler) withCaller(w http.ResponseWriter, r *http.Request, param, message string, op callerOrderOp) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		middleware.RespondWithDomainError(w, h.logger, domain.ErrMissingToken)
		return
	}

	order, err := op(r.Context(), identity, chi.URLParam(r, param))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, OrderResponse{Message: message, Order: order})
}
