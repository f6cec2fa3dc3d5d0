package repositories

import (
	"errors"

	"katalog/internal/models"
)

// ErrProductNotFound is returned when no matching product row exists.
// A soft-deleted row counts as not found for every lookup that filters on
// the active flag.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAllActive() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error) // ignores the active flag
	GetActiveByID(id uint) (*models.Product, error)
	ExistsActive(id uint) (bool, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
}
