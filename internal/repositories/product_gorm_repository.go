package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"katalog/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// active is the soft-delete filter. Every read path goes through this one
// scope so a deleted row can never leak back in through a forgotten WHERE.
func active(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// GetAllActive retrieves all active products in insertion order.
func (r *GORMProductRepository) GetAllActive() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Scopes(active).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a product by its ID regardless of the active flag.
// Callers that must not see soft-deleted rows use GetActiveByID instead.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

// GetActiveByID retrieves an active product by its ID.
func (r *GORMProductRepository) GetActiveByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Scopes(active).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

// ExistsActive reports whether an active product with the given ID exists.
func (r *GORMProductRepository) ExistsActive(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Scopes(active).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product %d: %w", id, err)
	}
	return count > 0, nil
}

// Create inserts a new product and fills in the generated ID.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update persists all fields of an existing product, zero values included,
// so a soft-delete flip of IsActive to false is written through.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
