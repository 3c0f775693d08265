package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/zldymlg/ValMart/internal/models"
	"github.com/zldymlg/ValMart/internal/services"
)

// OrderHandler handles HTTP requests for orders and the transaction view.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)

	router.Get("/transactions", h.HandleListTransactions)
}

// sideFromRole maps the role query parameter onto an order side, defaulting
// to the buyer view.
func sideFromRole(role string) (string, error) {
	switch role {
	case "", "buyer":
		return models.SideBuyer, nil
	case "seller":
		return models.SideSeller, nil
	default:
		return "", fmt.Errorf("unknown role: %s", role)
	}
}

// HandleListOrders lists the caller's orders for one role.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	side, err := sideFromRole(c.Query("role"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	orders, err := h.service.ListOrders(userID, side)
	if err != nil {
		log.Printf("Error listing orders for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleListTransactions returns the joined transaction history view for one
// role.
func (h *OrderHandler) HandleListTransactions(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	side, err := sideFromRole(c.Query("role"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	entries, err := h.service.ListTransactions(userID, side)
	if err != nil {
		log.Printf("Error listing transactions for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve transactions",
			"error":   err.Error(),
		})
	}
	return c.JSON(entries)
}

// HandleCreateOrder places an order with the caller as buyer.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "You need to log in to place an order",
		})
	}

	var req services.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
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

	order, err := h.service.CreateOrder(userID, req)
	if err != nil {
		log.Printf("Error creating order for user %s: %v", userID, err)
		if errors.Is(err, services.ErrInsufficientStock) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Order creation failed due to insufficient stock",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create order",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleUpdateOrderStatus applies a seller's status change to both copies of
// the order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	orderID := c.Params("id")

	var req services.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}

	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update",
		})
	}

	err := h.service.UpdateOrderStatus(userID, orderID, req)
	if err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		switch {
		case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrInvalidTransition):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": fmt.Sprintf("Order update rejected: %v", err),
			})
		case errors.Is(err, services.ErrNotSellerOrder):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Only the seller can update this order",
			})
		case errors.Is(err, services.ErrCounterpartNotFound), errors.Is(err, services.ErrCounterpartAmbiguous):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": fmt.Sprintf("Order update failed: %v", err),
			})
		case errors.Is(err, services.ErrInsufficientStock):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": fmt.Sprintf("Order update failed: %v", err),
			})
		case strings.Contains(err.Error(), "not found"):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order update failed: %v", err),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update order status",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, req.Status),
	})
}
