package transport

import (
	"net/http"

	"shopfront/internal/domain"
	"shopfront/internal/middleware"
	"shopfront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateProductRequest represents a new catalog product. Availability
// defaults to true.
type CreateProductRequest struct {
	Title        string   `json:"title" validate:"required"`
	Price        float64  `json:"price" validate:"gt=0"`
	Description  string   `json:"description" validate:"required"`
	Availability *bool    `json:"availability"`
	CategoryID   string   `json:"categoryId" validate:"required"`
	Images       []string `json:"images" validate:"required,min=1,dive,required"`
}

// UpdateProductRequest is a partial product update; absent fields stay as they are
type UpdateProductRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=1"`
	Price        *float64 `json:"price" validate:"omitempty,gt=0"`
	Description  *string  `json:"description"`
	Availability *bool    `json:"availability"`
	CategoryID   *string  `json:"categoryId" validate:"omitempty,min=1"`
	Images       []string `json:"images" validate:"omitempty,min=1,dive,required"`
}

func (u UpdateProductRequest) patch() domain.ProductPatch {
	return domain.ProductPatch{
		Title:        u.Title,
		Price:        u.Price,
		Description:  u.Description,
		Availability: u.Availability,
		CategoryID:   u.CategoryID,
		Images:       u.Images,
	}
}

// ProductResponse wraps a product with a status message
type ProductResponse struct {
	Message string          `json:"message"`
	Product *domain.Product `json:"product"`
}

// ProductHandler handles product routes
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/product", func(r chi.Router) {
		r.Get("/{id}", h.Get)
		r.Get("/category/{categoryId}", h.ListByCategory)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireCatalogManager(h.logger))
			r.Post("/add", h.Create)
			r.Patch("/change/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// Get returns a single product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// ListByCategory returns the products of one category
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListByCategory(r.Context(), chi.URLParam(r, "categoryId"))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Create adds a product to an existing category
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !middleware.Bind(w, r, &req) {
		return
	}

	available := true
	if req.Availability != nil {
		available = *req.Availability
	}

	product, err := h.productService.Create(r.Context(), &domain.Product{
		Title:        req.Title,
		Price:        req.Price,
		Description:  req.Description,
		Availability: available,
		CategoryID:   req.CategoryID,
		Images:       req.Images,
	})
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID), zap.String("category_id", product.CategoryID))
	middleware.RespondWithJSON(w, http.StatusCreated, ProductResponse{Message: "Product added successfully", Product: product})
}

// Update applies a partial update
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if !middleware.Bind(w, r, &req) {
		return
	}

	product, err := h.productService.Update(r.Context(), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, ProductResponse{Message: "Product updated successfully", Product: product})
}

// Delete removes a product
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.productService.Delete(r.Context(), id); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}
