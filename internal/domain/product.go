package domain

import (
	"strings"
	"time"
)

// Product represents a product in the catalog
type Product struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Price        float64   `json:"price"`
	Description  string    `json:"description"`
	Availability bool      `json:"availability"`
	CategoryID   string    `json:"categoryId"`
	Images       []string  `json:"images"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductPatch holds the fields of a partial product update. Nil fields are left unchanged.
type ProductPatch struct {
	Title        *string
	Price        *float64
	Description  *string
	Availability *bool
	CategoryID   *string
	Images       []string
}

// ChangesCategory reports whether the patch moves the product to another category
func (p ProductPatch) ChangesCategory(current string) bool {
	return p.CategoryID != nil && *p.CategoryID != current
}

// Apply copies the set fields of the patch onto product
func (p ProductPatch) Apply(product *Product) {
	if p.Title != nil {
		product.Title = *p.Title
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Availability != nil {
		product.Availability = *p.Availability
	}
	if p.CategoryID != nil {
		product.CategoryID = *p.CategoryID
	}
	if p.Images != nil {
		product.Images = append([]string(nil), p.Images...)
	}
}

// Category represents a product category
type Category struct {
	ID   string `json:"id"`
	Name string `json:"category"`
}

// NormalizeCategoryName trims and lowercases a category name.
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
