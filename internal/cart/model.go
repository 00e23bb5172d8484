package cart

import "time"

// Item is a cart row joined with its product snapshot.
type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product ProductSnapshot `json:"product"`
}

// ProductSnapshot is the joined product data shown on a cart line. It is
// live data, not a frozen copy; orders freeze prices separately.
type ProductSnapshot struct {
	Name         string  `json:"name"`
	Price        int64   `json:"price"`
	ImageURL     *string `json:"image_url,omitempty"`
	IsActive     bool    `json:"is_active"`
	CategorySlug string  `json:"category_slug,omitempty"`
}

// FavoriteProduct is a favorited product row.
type FavoriteProduct struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     int64   `json:"price"`
	ImageURL  *string `json:"image_url,omitempty"`
	IsActive  bool    `json:"is_active"`
}
