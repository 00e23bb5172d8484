package product

import "time"

// Product price is in integer minor units (rupiah), never floats.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Price        int64     `json:"price"`
	Stock        int       `json:"stock"`
	ImageURL     *string   `json:"image_url,omitempty"`
	IsActive     bool      `json:"is_active"`
	CategoryID   *string   `json:"category_id,omitempty"`
	CategoryName string    `json:"category_name,omitempty"`
	CategorySlug string    `json:"category_slug,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type NewProductInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       int64   `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    *string `json:"image_url"`
	CategoryID  *string `json:"category_id"`
}

type UpdateProductInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Stock       *int    `json:"stock"`
	ImageURL    *string `json:"image_url"`
	IsActive    *bool   `json:"is_active"`
	CategoryID  *string `json:"category_id"`
}

func (in UpdateProductInput) HasAnyField() bool {
	return in.Name != nil ||
		in.Description != nil ||
		in.Price != nil ||
		in.Stock != nil ||
		in.ImageURL != nil ||
		in.IsActive != nil ||
		in.CategoryID != nil
}
