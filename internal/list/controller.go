// Package list implements the product list: loading, client-side search and
// pagination, and confirmed deletion.
package list

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"productdesk/internal/client"
	"productdesk/internal/models"
	"productdesk/internal/notify"
)

// PageSizeOptions are the selectable page sizes.
var PageSizeOptions = []int{5, 10, 20}

// DefaultPageSize is the initial page size.
const DefaultPageSize = 5

var (
	// ErrInvalidPageSize is returned for a page size below 1.
	ErrInvalidPageSize = errors.New("invalid page size")
	// ErrPageOutOfRange is returned for a page outside [1, TotalPages].
	ErrPageOutOfRange = errors.New("page out of range")
	// ErrDeleteInFlight is returned while a delete is running.
	ErrDeleteInFlight = errors.New("a delete is already in progress")
)

// ProductAPI is the part of the products API the list needs.
type ProductAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	DeleteProduct(ctx context.Context, id string) (*models.MessageResponse, error)
}

// Controller holds the fetched catalog and the derived filtered and paged views.
type Controller struct {
	api      ProductAPI
	notifier notify.Notifier
	logger   *slog.Logger

	mu          sync.Mutex
	products    []models.Product
	filtered    []models.Product
	page        []models.Product
	searchTerm  string
	pageSize    int
	currentPage int

	deleteState  DeleteState
	deleteTarget *models.Product
}

// NewController creates an empty list. A nil logger discards logs.
func NewController(api ProductAPI, notifier notify.Notifier, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		api:         api,
		notifier:    notifier,
		logger:      logger,
		products:    []models.Product{},
		filtered:    []models.Product{},
		page:        []models.Product{},
		pageSize:    DefaultPageSize,
		currentPage: 1,
	}
}

// Load fetches the full catalog. The current search term is re-applied and
// the current page is kept when it still exists.
func (c *Controller) Load(ctx context.Context) error {
	products, err := c.api.ListProducts(ctx)
	if err != nil {
		c.logger.Error("loading products failed", "error", err)
		notify.Error(c.notifier, "Error", client.MessageOf(err, "Could not load the products"))
		return fmt.Errorf("load products: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = products
	c.filtered = filter(products, c.searchTerm)
	if total := c.totalPagesLocked(); c.currentPage > total {
		c.currentPage = max(total, 1)
	}
	c.paginateLocked()
	return nil
}

// Search filters by a case-insensitive substring of name or description. An
// empty term restores the full list. The view always goes back to page 1.
func (c *Controller) Search(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchTerm = term
	c.filtered = filter(c.products, term)
	c.currentPage = 1
	c.paginateLocked()
}

func filter(products []models.Product, term string) []models.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return append([]models.Product{}, products...)
	}
	out := []models.Product{}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			out = append(out, p)
		}
	}
	return out
}

// ValidPageSize reports whether size is one of PageSizeOptions.
func ValidPageSize(size int) bool {
	for _, opt := range PageSizeOptions {
		if opt == size {
			return true
		}
	}
	return false
}

// ChangePageSize sets the page size and goes back to page 1. Front ends offer
// PageSizeOptions; the controller itself accepts any positive size.
func (c *Controller) ChangePageSize(size int) error {
	if size < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pageSize = size
	c.currentPage = 1
	c.paginateLocked()
	return nil
}

// GoToPage shows the 1-based page n.
func (c *Controller) GoToPage(n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.totalPagesLocked()
	if n < 1 || (total > 0 && n > total) || (total == 0 && n != 1) {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, n, total)
	}
	c.currentPage = n
	c.paginateLocked()
	return nil
}

// TotalPages is ceil(filtered / pageSize).
func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPagesLocked()
}

func (c *Controller) totalPagesLocked() int {
	return (len(c.filtered) + c.pageSize - 1) / c.pageSize
}

func (c *Controller) paginateLocked() {
	start := (c.currentPage - 1) * c.pageSize
	end := min(start+c.pageSize, len(c.filtered))
	if start >= end {
		c.page = []models.Product{}
		return
	}
	c.page = append([]models.Product{}, c.filtered[start:end]...)
}

// Page returns the visible products.
func (c *Controller) Page() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Product{}, c.page...)
}

// Products returns the full fetched catalog.
func (c *Controller) Products() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Product{}, c.products...)
}

// Filtered returns the products matching the search term.
func (c *Controller) Filtered() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Product{}, c.filtered...)
}

// SearchTerm returns the active search term.
func (c *Controller) SearchTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchTerm
}

// PageSize returns the page size.
func (c *Controller) PageSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageSize
}

// CurrentPage returns the 1-based current page.
func (c *Controller) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage
}

// Close drops every held product.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = []models.Product{}
	c.filtered = []models.Product{}
	c.page = []models.Product{}
	c.deleteTarget = nil
	c.deleteState = DeleteIdle
}
