package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/zldymlg/ValMart/internal/models"
	"github.com/zldymlg/ValMart/internal/services"
)

// ItemHandler handles HTTP requests for listings and the catalog.
type ItemHandler struct {
	service  *services.ItemService
	validate *validator.Validate
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service *services.ItemService) *ItemHandler {
	return &ItemHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterPublicRoutes registers the catalog routes anyone may browse.
func (h *ItemHandler) RegisterPublicRoutes(router fiber.Router) {
	itemRoutes := router.Group("/items")
	itemRoutes.Get("/", h.HandleListItems)
	itemRoutes.Get("/search", h.HandleSearch)
	itemRoutes.Get("/:id", h.HandleGetItemByID)
}

// RegisterRoutes registers the sell-flow routes requiring authentication.
func (h *ItemHandler) RegisterRoutes(router fiber.Router) {
	itemRoutes := router.Group("/items")
	itemRoutes.Post("/", h.HandleCreateItem)
}

// HandleListItems returns the catalog, each listing annotated with its
// seller's name. An optional category query filters the result.
func (h *ItemHandler) HandleListItems(c *fiber.Ctx) error {
	category := c.Query("category")
	items, err := h.service.ListWithSellers(category)
	if err != nil {
		log.Printf("Error listing catalog: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve items",
			"error":   err.Error(),
		})
	}
	return c.JSON(items)
}

// HandleSearch returns listings matching the q query term.
func (h *ItemHandler) HandleSearch(c *fiber.Ctx) error {
	term := c.Query("q")
	items, err := h.service.Search(term)
	if err != nil {
		log.Printf("Error searching items for %q: %v", term, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not search items",
			"error":   err.Error(),
		})
	}
	return c.JSON(items)
}

// HandleGetItemByID retrieves a single listing by its ID.
func (h *ItemHandler) HandleGetItemByID(c *fiber.Ctx) error {
	itemID := c.Params("id")
	item, err := h.service.GetItemByID(itemID)
	if err != nil {
		log.Printf("Error getting item by ID %s: %v", itemID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Item with ID %s not found", itemID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve item",
			"error":   err.Error(),
		})
	}
	return c.JSON(item)
}

// HandleCreateItem lists a new item for sale. The authenticated user becomes
// the seller.
func (h *ItemHandler) HandleCreateItem(c *fiber.Ctx) error {
	var item models.Item
	if err := c.BodyParser(&item); err != nil {
		log.Printf("Error parsing item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	// The seller is always the caller, never a field the client picks.
	item.SellerID, _ = c.Locals("user_id").(string)

	if err := h.validate.Struct(item); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.service.CreateItem(&item); err != nil {
		log.Printf("Error creating item: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create item",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}
