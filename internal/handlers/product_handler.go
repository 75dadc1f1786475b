package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"productdesk/internal/models"
	"productdesk/internal/repositories"
	"productdesk/internal/services"
)

// Response messages.
const (
	MessageProductAdded   = "Product added successfully"
	MessageProductUpdated = "Product updated successfully"
	MessageProductRemoved = "Product removed successfully"
	MessageNotFound       = "Not product found with that identifier"
	MessageInvalidBody    = "Invalid body, check 'errors' property for more info."
	MessageDuplicateID    = "Invalid body, duplicate identifier found in the database"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *slog.Logger) *ProductHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the product routes under router.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/verification/:id", h.HandleVerifyProduct)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts returns every product wrapped in {data}.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return h.internalError(c, "listing products failed", err)
	}
	return c.JSON(models.ProductsResponse{Data: products})
}

// HandleGetProductByID returns a bare product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id := c.Params("id")
	product, err := h.service.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return notFound(c)
		}
		return h.internalError(c, "getting product failed", err)
	}
	return c.JSON(product)
}

// HandleVerifyProduct answers a bare JSON boolean: whether the ID is taken.
func (h *ProductHandler) HandleVerifyProduct(c *fiber.Ctx) error {
	exists, err := h.service.ProductExists(c.Params("id"))
	if err != nil {
		return h.internalError(c, "verifying product id failed", err)
	}
	return c.JSON(exists)
}

// HandleCreateProduct validates and stores a product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, MessageInvalidBody, []string{err.Error()})
	}

	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		if verr, ok := services.IsValidationError(err); ok {
			return badRequest(c, MessageInvalidBody, verr.Violations.Messages())
		}
		if errors.Is(err, repositories.ErrDuplicateProduct) {
			return badRequest(c, MessageDuplicateID, nil)
		}
		return h.internalError(c, "creating product failed", err)
	}

	h.logger.Info("product created", "id", product.ID)
	return c.JSON(models.ProductResponse{Message: MessageProductAdded, Data: product})
}

// HandleUpdateProduct replaces a product's fields. Any id in the body is
// ignored.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	var update models.ProductUpdate
	if err := c.BodyParser(&update); err != nil {
		return badRequest(c, MessageInvalidBody, []string{err.Error()})
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, update)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return notFound(c)
		}
		if verr, ok := services.IsValidationError(err); ok {
			return badRequest(c, MessageInvalidBody, verr.Violations.Messages())
		}
		return h.internalError(c, "updating product failed", err)
	}

	h.logger.Info("product updated", "id", id)
	return c.JSON(models.ProductResponse{Message: MessageProductUpdated, Data: *product})
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(id); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return notFound(c)
		}
		return h.internalError(c, "deleting product failed", err)
	}

	h.logger.Info("product deleted", "id", id)
	return c.JSON(models.MessageResponse{Message: MessageProductRemoved})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Name:    "NotFoundError",
		Message: MessageNotFound,
	})
}

func badRequest(c *fiber.Ctx, message string, details []string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Name:    "BadRequestError",
		Message: message,
		Errors:  details,
	})
}

func (h *ProductHandler) internalError(c *fiber.Ctx, msg string, err error) error {
	h.logger.Error(msg, "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Name:    "InternalServerError",
		Message: "Could not process the request",
	})
}
