package repositories

import (
	"errors"

	"productdesk/internal/models"
)

var (
	// ErrProductNotFound is returned when no product has the given ID.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateProduct is returned when creating a product whose ID is taken.
	ErrDuplicateProduct = errors.New("duplicate product id")
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Exists(id string) (bool, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
