package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"katalog/internal/events"
	"katalog/internal/models"
	"katalog/internal/repositories"
)

// ProductService handles the product lifecycle: CRUD against the repository
// plus a notification on every mutation. All read paths see active rows only.
type ProductService struct {
	repo     repositories.ProductRepository
	notifier *events.Notifier
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, notifier *events.Notifier) *ProductService {
	return &ProductService{
		repo:     repo,
		notifier: notifier,
	}
}

// GetAllProducts returns the views of all active products in insertion order.
func (s *ProductService) GetAllProducts() ([]models.ProductView, error) {
	products, err := s.repo.GetAllActive()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return nil, err
	}

	views := make([]models.ProductView, 0, len(products))
	for i := range products {
		views = append(views, products[i].View())
	}
	return views, nil
}

// GetProductByID returns the view of a single active product.
func (s *ProductService) GetProductByID(id uint) (*models.ProductView, error) {
	product, err := s.repo.GetActiveByID(id)
	if err != nil {
		if !errors.Is(err, repositories.ErrProductNotFound) {
			log.Printf("Error getting product %d: %v", id, err)
		}
		return nil, err
	}
	view := product.View()
	return &view, nil
}

// CreateProduct persists a new active product and emits a ProductCreated
// event. Field constraints are enforced at the transport boundary and are
// not re-checked here.
func (s *ProductService) CreateProduct(req models.CreateProductRequest) (*models.ProductView, error) {
	var price float64
	if req.Price != nil {
		price = *req.Price
	}

	now := time.Now().UTC()
	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
		IsActive:    true,
	}

	if err := s.repo.Create(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return nil, err
	}

	view := product.View()
	s.notifier.PublishProductEvent(events.ProductCreated, view)
	log.Printf("Product created successfully with id %d", product.ID)
	return &view, nil
}

// UpdateProduct merges the provided fields into an existing active product,
// stamps UpdatedAt and emits a ProductUpdated event. A soft-deleted product
// is treated the same as a missing one.
func (s *ProductService) UpdateProduct(id uint, req models.UpdateProductRequest) (*models.ProductView, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		if !errors.Is(err, repositories.ErrProductNotFound) {
			log.Printf("Error updating product %d: %v", id, err)
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, repositories.ErrProductNotFound
	}

	// Only provided fields overwrite stored values. Strings must also be
	// non-empty after trimming; a whitespace-only value counts as absent.
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		product.Name = *req.Name
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(product); err != nil {
		log.Printf("Error updating product %d: %v", id, err)
		return nil, err
	}

	view := product.View()
	s.notifier.PublishProductEvent(events.ProductUpdated, view)
	log.Printf("Product updated successfully with id %d", id)
	return &view, nil
}

// DeleteProduct soft-deletes an active product and emits a ProductDeleted
// event. Deleting an already-deleted or unknown product returns
// ErrProductNotFound, never a second success.
func (s *ProductService) DeleteProduct(id uint) error {
	product, err := s.repo.GetActiveByID(id)
	if err != nil {
		if !errors.Is(err, repositories.ErrProductNotFound) {
			log.Printf("Error deleting product %d: %v", id, err)
		}
		return err
	}

	product.IsActive = false
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(product); err != nil {
		log.Printf("Error deleting product %d: %v", id, err)
		return err
	}

	s.notifier.PublishProductEvent(events.ProductDeleted, map[string]interface{}{"id": product.ID})
	log.Printf("Product deleted successfully with id %d", id)
	return nil
}

// ProductExists reports whether an active product with the given ID exists.
// It has no side effects.
func (s *ProductService) ProductExists(id uint) (bool, error) {
	exists, err := s.repo.ExistsActive(id)
	if err != nil {
		log.Printf("Error checking product %d: %v", id, err)
		return false, err
	}
	return exists, nil
}
