package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/repository"
)

// CategoryRepository is an in-memory implementation of repository.CategoryRepository.
type CategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]domain.Category
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)

// NewCategoryRepository creates an empty CategoryRepository.
func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{categories: make(map[string]domain.Category)}
}

func (r *CategoryRepository) nameTaken(name, except string) bool {
	for id, c := range r.categories {
		if c.Name == name && id != except {
			return true
		}
	}
	return false
}

// Create stores a new category with a unique name.
func (r *CategoryRepository) Create(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(category.Name, "") {
		return domain.ErrCategoryExists
	}
	category.ID = newID()
	r.categories[category.ID] = *category
	return nil
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(_ context.Context) ([]*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]*domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		c := c
		categories = append(categories, &c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// FindByID returns the category with the given id.
func (r *CategoryRepository) FindByID(_ context.Context, id string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

// Rename changes the name of a category, keeping names unique.
func (r *CategoryRepository) Rename(_ context.Context, id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.categories[id]
	if !ok {
		return domain.ErrCategoryNotFound
	}
	if r.nameTaken(name, id) {
		return domain.ErrCategoryExists
	}
	c.Name = name
	r.categories[id] = c
	return nil
}

// Delete removes a category.
func (r *CategoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

// ProductRepository is an in-memory implementation of repository.ProductRepository.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository creates an empty ProductRepository.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]domain.Product)}
}

func cloneProduct(p domain.Product) *domain.Product {
	p.Images = slices.Clone(p.Images)
	if p.Images == nil {
		p.Images = []string{}
	}
	return &p
}

// Create stores a new product.
func (r *ProductRepository) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	product.ID = newID()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = now
	}
	r.products[product.ID] = *cloneProduct(*product)
	return nil
}

// Update replaces an existing product.
func (r *ProductRepository) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	updated := *cloneProduct(*product)
	updated.CreatedAt = existing.CreatedAt
	r.products[product.ID] = updated
	return nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// FindByID returns the product with the given id.
func (r *ProductRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

// ListByCategory returns the products of a category, newest first.
func (r *ProductRepository) ListByCategory(_ context.Context, categoryID string) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := []*domain.Product{}
	for _, p := range r.products {
		if p.CategoryID == categoryID {
			products = append(products, cloneProduct(p))
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].CreatedAt.After(products[j].CreatedAt) })
	return products, nil
}

// CountByCategory counts the products referencing a category.
func (r *ProductRepository) CountByCategory(_ context.Context, categoryID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, p := range r.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}
