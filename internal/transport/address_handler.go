package transport

import (
	"net/http"

	"shopfront/internal/domain"
	"shopfront/internal/middleware"
	"shopfront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddressRequest represents a new delivery address
type AddressRequest struct {
	Pincode    string `json:"pincode" validate:"required"`
	State      string `json:"state" validate:"required"`
	City       string `json:"city" validate:"required"`
	RoadName   string `json:"road_name" validate:"required"`
	IsSelected bool   `json:"isSelected"`
}

// AddressResponse wraps an address with a status message
type AddressResponse struct {
	Message string          `json:"message"`
	Address *domain.Address `json:"address"`
}

// AddressHandler handles delivery address routes
type AddressHandler struct {
	addressService service.AddressService
	logger         *zap.Logger
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(addressService service.AddressService, logger *zap.Logger) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
		logger:         logger,
	}
}

// RegisterRoutes registers all address routes
func (h *AddressHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/user/address", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Post("/add", h.Add)
		r.Patch("/select/{id}", h.Select)
	})
}

// List returns the caller's addresses
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID, ok := callerID(w, r, h.logger)
	if !ok {
		return
	}

	addresses, err := h.addressService.List(r.Context(), accountID)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"address": addresses})
}

// Add appends an address to the caller's account
func (h *AddressHandler) Add(w http.ResponseWriter, r *http.Request) {
	accountID, ok := callerID(w, r, h.logger)
	if !ok {
		return
	}

	var req AddressRequest
	if !middleware.Bind(w, r, &req) {
		return
	}

	address, err := h.addressService.Add(r.Context(), accountID, domain.Address{
		Pincode:    req.Pincode,
		State:      req.State,
		City:       req.City,
		RoadName:   req.RoadName,
		IsSelected: req.IsSelected,
	})
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, AddressResponse{Message: "Address added", Address: address})
}

// Select marks one address as the delivery target
func (h *AddressHandler) Select(w http.ResponseWriter, r *http.Request) {
	accountID, ok := callerID(w, r, h.logger)
	if !ok {
		return
	}

	address, err := h.addressService.Select(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, AddressResponse{Message: "Address selected", Address: address})
}

// callerID reads the verified account id, answering 401 when it is absent
func callerID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	accountID, ok := middleware.GetUserID(r.Context())
	if !ok {
		logger.Error("User ID not found in context")
		middleware.RespondWithDomainError(w, logger, domain.ErrMissingToken)
		return "", false
	}
	return accountID, true
}
