package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"productdesk/internal/models"
	"productdesk/internal/repositories"
	"productdesk/internal/validation"
	"productdesk/pkg/rabbitmq"
)

// ValidationError carries the rule violations of a rejected product.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid product: %d field(s) failed validation", len(e.Violations))
}

// EventPublisher publishes product change events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	PublishProductEvent(eventType string, product models.Product) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	validator *validation.Validator
	publisher EventPublisher
	logger    *slog.Logger
}

// Option configures a ProductService.
type Option func(*ProductService)

// WithClock sets the clock used for date rules.
func WithClock(now func() time.Time) Option {
	return func(s *ProductService) { s.validator = validation.New(now) }
}

// WithPublisher publishes an event after every successful change.
func WithPublisher(p EventPublisher) Option {
	return func(s *ProductService) { s.publisher = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *ProductService) { s.logger = l }
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, opts ...Option) *ProductService {
	s := &ProductService{
		repo:      repo,
		validator: validation.New(nil),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// ProductExists reports whether the ID is taken.
func (s *ProductService) ProductExists(id string) (bool, error) {
	return s.repo.Exists(id)
}

// CreateProduct validates and stores a new product. A taken ID yields
// repositories.ErrDuplicateProduct.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if violations := s.validator.Validate(ctx, *product, validation.Options{CheckRevision: true}); violations != nil {
		return &ValidationError{Violations: violations}
	}

	exists, err := s.repo.Exists(product.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("product with ID %s: %w", product.ID, repositories.ErrDuplicateProduct)
	}

	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.publish(rabbitmq.EventProductCreated, *product)
	return nil
}

// UpdateProduct replaces every field but the ID of an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error) {
	if _, err := s.repo.GetByID(id); err != nil {
		return nil, err
	}

	product := update.WithID(id)
	if violations := s.validator.Validate(ctx, product, validation.Options{CheckRevision: true}); violations != nil {
		return nil, &ValidationError{Violations: violations}
	}

	if err := s.repo.Update(&product); err != nil {
		return nil, err
	}
	s.publish(rabbitmq.EventProductUpdated, product)
	return &product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.publish(rabbitmq.EventProductDeleted, models.Product{ID: id})
	return nil
}

// publish never fails the request; events are best effort.
func (s *ProductService) publish(eventType string, product models.Product) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishProductEvent(eventType, product); err != nil {
		s.logger.Error("publishing product event failed", "type", eventType, "id", product.ID, "error", err)
	}
}

// IsValidationError reports whether err is a *ValidationError and returns it.
func IsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
