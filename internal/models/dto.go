package models

import "time"

// ProductView is the transport representation of a Product. It is always
// fully populated; partial views are never returned.
type ProductView struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	IsActive    bool      `json:"isActive"`
}

// CreateProductRequest is the request body for creating a product.
// Price is a pointer so an explicit 0 can be told apart from a missing field.
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Price       *float64 `json:"price" validate:"required"`
	Stock       int      `json:"stock" validate:"gte=0"`
}

// UpdateProductRequest carries a partial update. Every field is a pointer:
// nil means "leave the stored value alone". Name and Description are also
// left alone when the provided value trims down to an empty string.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	IsActive    *bool    `json:"isActive"`
}
