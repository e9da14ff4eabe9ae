package service

import (
	"context"
	"strings"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/repository"
)

// CategoryService defines the interface for category business logic
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, name string) (*domain.Category, error)
	Rename(ctx context.Context, id, name string) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categories repository.CategoryRepository, products repository.ProductRepository) CategoryService {
	return &categoryService{categories: categories, products: products}
}

// List retrieves all categories
func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

// Create adds a category under its lowercased name
func (s *categoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	name = domain.NormalizeCategoryName(name)
	if name == "" {
		return nil, domain.ErrCategoryNameEmpty
	}

	category := &domain.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Rename changes a category's name, keeping names unique
func (s *categoryService) Rename(ctx context.Context, id, name string) (*domain.Category, error) {
	name = domain.NormalizeCategoryName(name)
	if name == "" {
		return nil, domain.ErrCategoryNameEmpty
	}

	if err := s.categories.Rename(ctx, id, name); err != nil {
		return nil, err
	}
	return s.categories.FindByID(ctx, id)
}

// Delete removes a category no product references
func (s *categoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrCategoryInUse
	}

	return s.categories.Delete(ctx, id)
}

// ProductService defines the interface for product business logic
type ProductService interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	now        func() time.Time
}

// NewProductService creates a new instance of ProductService
func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository) ProductService {
	return &productService{products: products, categories: categories, now: time.Now}
}

// Get retrieves a product by ID
func (s *productService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// ListByCategory retrieves the products of an existing category
func (s *productService) ListByCategory(ctx context.Context, categoryID string) ([]*domain.Product, error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.products.ListByCategory(ctx, categoryID)
}

// Create adds a product to an existing category
func (s *productService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if _, err := s.categories.FindByID(ctx, product.CategoryID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	product.Title = strings.TrimSpace(product.Title)
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Images == nil {
		product.Images = []string{}
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies a partial update. A new category must exist.
func (s *productService) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.ChangesCategory(product.CategoryID) {
		if _, err := s.categories.FindByID(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}

	patch.Apply(product)
	product.UpdatedAt = s.now().UTC()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product
func (s *productService) Delete(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}
