package transport

import (
	"net/http"

	"shopfront/internal/domain"
	"shopfront/internal/middleware"
	"shopfront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryRequest carries a category name
type CategoryRequest struct {
	Category string `json:"category" validate:"required"`
}

// CategoryResponse wraps a category with a status message
type CategoryResponse struct {
	Message  string           `json:"message"`
	Category *domain.Category `json:"category"`
}

// CategoryHandler handles category routes
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers the category routes. Listing is public; changes
// need a seller or admin.
func (h *CategoryHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/category", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireCatalogManager(h.logger))
			r.Post("/add", h.Create)
			r.Patch("/change/{id}", h.Rename)
			r.Delete("/remove/{id}", h.Delete)
		})
	})
}

// List returns every category
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// Create adds a category
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !middleware.Bind(w, r, &req) {
		return
	}

	category, err := h.categoryService.Create(r.Context(), req.Category)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID), zap.String("name", category.Name))
	middleware.RespondWithJSON(w, http.StatusCreated, CategoryResponse{Message: "Category added successfully", Category: category})
}

// Rename changes a category's name
func (h *CategoryHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !middleware.Bind(w, r, &req) {
		return
	}

	category, err := h.categoryService.Rename(r.Context(), chi.URLParam(r, "id"), req.Category)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, CategoryResponse{Message: "Category updated successfully", Category: category})
}

// Delete removes a category no product references
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Category deleted", zap.String("category_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}
