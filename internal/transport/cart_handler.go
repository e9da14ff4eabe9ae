package transport

import (
	"context"
	"net/http"

	"shopfront/internal/domain"
	"shopfront/internal/middleware"
	"shopfront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddToCartRequest represents the add-to-cart payload. A zero quantity means one.
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=10"`
}

// CartResponse is the cart after an operation
type CartResponse struct {
	Message string            `json:"message"`
	Cart    []domain.CartLine `json:"cart"`
}

// CartHandler handles cart routes
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/cart", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Post("/add", h.Add)
		r.Delete("/remove/{productId}", h.lineOp("Product removed from cart", h.cartService.Remove))
		r.Patch("/increase/{productId}", h.lineOp("Quantity increased", h.cartService.Increase))
		r.Patch("/decrease/{productId}", h.lineOp("Quantity decreased", h.cartService.Decrease))
	})
}

// List returns the caller's cart
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID, ok := callerID(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.cartService.List(r.Context(), accountID)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{Message: "Cart", Cart: nonNilCart(cart)})
}

// Add puts a product in the caller's cart
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	accountID, ok := callerID(w, r, h.logger)
	if !ok {
		return
	}

	var req AddToCartRequest
	if !middleware.Bind(w, r, &req) {
		return
	}

	cart, err := h.cartService.Add(r.Context(), accountID, req.ProductID, req.Quantity)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Debug("Product added to cart", zap.String("user_id", accountID), zap.String("product_id", req.ProductID))
	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{Message: "Product added to cart", Cart: nonNilCart(cart)})
}

type cartLineOp func(ctx context.Context, accountID, productID string) ([]domain.CartLine, error)

// lineOp adapts a per-line cart operation keyed by the productId path parameter
func (h *CartHandler) lineOp(message string, op cartLineOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := callerID(w, r, h.logger)
		if !ok {
			return
		}

		cart, err := op(r.Context(), accountID, chi.URLParam(r, "productId"))
		if err != nil {
			middleware.RespondWithDomainError(w, h.logger, err)
			return
		}
		middleware.RespondWithJSON(w, http.StatusOK, CartResponse{Message: message, Cart: nonNilCart(cart)})
	}
}

func nonNilCart(cart []domain.CartLine) []domain.CartLine {
	if cart == nil {
		return []domain.CartLine{}
	}
	return cart
}
