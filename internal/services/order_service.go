package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/zldymlg/ValMart/internal/models"
	"github.com/zldymlg/ValMart/internal/repositories"
)

// Sentinel errors handlers branch on with errors.Is.
var (
	ErrInsufficientStock    = errors.New("insufficient stock for requested quantity")
	ErrCounterpartNotFound  = errors.New("counterpart order not found")
	ErrCounterpartAmbiguous = errors.New("counterpart order lookup is ambiguous")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrNotSellerOrder       = errors.New("order does not belong to the seller's list")
)

// EventPublisher publishes order lifecycle events to the message broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// OrderService handles business logic related to orders: placing them as a
// buyer, and reconciling status changes made by a seller across both stored
// copies plus the listing's stock.
type OrderService struct {
	orderRepo repositories.OrderRepository
	itemRepo  repositories.ItemRepository
	userRepo  repositories.UserRepository
	publisher EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, itemRepo repositories.ItemRepository, userRepo repositories.UserRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// CreateOrderRequest carries the buyer-entered checkout fields.
type CreateOrderRequest struct {
	ItemID       string    `json:"item_id" validate:"required"`
	Quantity     int       `json:"quantity" validate:"required,gte=1"`
	MeetingPlace string    `json:"meeting_place" validate:"required"`
	ScheduledAt  time.Time `json:"scheduled_at" validate:"required"`
}

// CreateOrder places an order for the given buyer. The order is written
// twice: one copy into the buyer's list and one into the seller's, both
// starting Pending. Stock is not touched until the seller completes the
// order, but the requested quantity must not exceed what is listed.
func (s *OrderService) CreateOrder(buyerID string, req CreateOrderRequest) (*models.Order, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be a positive integer, got %d", req.Quantity)
	}

	item, err := s.itemRepo.GetByID(req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("item %s not found: %w", req.ItemID, err)
	}
	if item.Stock < req.Quantity {
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, req.Quantity, item.Stock)
	}

	finalPrice := item.Price * float64(req.Quantity)
	now := time.Now()

	buyerCopy := &models.Order{
		ID:           uuid.New().String(),
		OwnerID:      buyerID,
		Side:         models.SideBuyer,
		BuyerID:      buyerID,
		SellerID:     item.SellerID,
		Item:         item.ProductName,
		UnitPrice:    item.Price,
		Quantity:     req.Quantity,
		FinalPrice:   finalPrice,
		MeetingPlace: req.MeetingPlace,
		ScheduledAt:  req.ScheduledAt,
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	sellerCopy := *buyerCopy
	sellerCopy.ID = uuid.New().String()
	sellerCopy.OwnerID = item.SellerID
	sellerCopy.Side = models.SideSeller

	if err := s.orderRepo.Create(buyerCopy); err != nil {
		return nil, fmt.Errorf("failed to create buyer order: %w", err)
	}
	if err := s.orderRepo.Create(&sellerCopy); err != nil {
		return nil, fmt.Errorf("failed to create seller order: %w", err)
	}

	s.publishEvent("order.created", map[string]interface{}{
		"orderID":    buyerCopy.ID,
		"buyerID":    buyerCopy.BuyerID,
		"sellerID":   buyerCopy.SellerID,
		"item":       buyerCopy.Item,
		"quantity":   buyerCopy.Quantity,
		"finalPrice": buyerCopy.FinalPrice,
		"status":     buyerCopy.Status,
	})

	return buyerCopy, nil
}

// UpdateOrderStatusRequest carries a seller's status change together with the
// meeting fields the seller may edit in the same action. Zero values leave
// the stored field unchanged.
type UpdateOrderStatusRequest struct {
	Status       models.OrderStatus `json:"status" validate:"required"`
	GradeLevel   string             `json:"grade_level"`
	Section      string             `json:"section"`
	MeetingPlace string             `json:"meeting_place"`
	ScheduledAt  time.Time          `json:"scheduled_at"`
}

// UpdateOrderStatus applies a seller's status change to both stored copies of
// the order and, on completion, decrements the listing's stock by the ordered
// quantity. All lookups and validation run before the first write, so a
// failed reconciliation leaves every record untouched.
func (s *OrderService) UpdateOrderStatus(sellerID, orderID string, req UpdateOrderStatusRequest) error {
	if !models.ValidStatus(req.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	sellerCopy, err := s.orderRepo.GetByOwnerAndID(sellerID, orderID)
	if err != nil {
		return fmt.Errorf("order %s not found for seller %s: %w", orderID, sellerID, err)
	}
	if sellerCopy.Side != models.SideSeller || sellerCopy.SellerID != sellerID {
		return ErrNotSellerOrder
	}

	if !models.CanTransition(sellerCopy.Status, req.Status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, sellerCopy.Status, req.Status)
	}

	// The buyer's copy shares no key with the seller's, so it is located by
	// matching on the order's identifying tuple. Anything but exactly one
	// match fails closed before any record is touched.
	matches, err := s.orderRepo.FindCounterparts(
		sellerCopy.BuyerID, models.SideBuyer,
		sellerCopy.Item, sellerCopy.FinalPrice, sellerCopy.SellerID, sellerCopy.ScheduledAt,
	)
	if err != nil {
		return fmt.Errorf("counterpart lookup failed for order %s: %w", orderID, err)
	}
	switch {
	case len(matches) == 0:
		return fmt.Errorf("%w: order %s", ErrCounterpartNotFound, orderID)
	case len(matches) > 1:
		return fmt.Errorf("%w: order %s matched %d buyer records", ErrCounterpartAmbiguous, orderID, len(matches))
	}
	buyerCopy := matches[0]

	// Resolve the listing before writing anything so a missing item cannot
	// leave the two copies Completed with stock unadjusted.
	var item *models.Item
	if req.Status == models.StatusCompleted {
		item, err = s.itemRepo.GetBySellerAndName(sellerCopy.SellerID, sellerCopy.Item)
		if err != nil {
			return fmt.Errorf("listing for order %s not found: %w", orderID, err)
		}
		if item.Stock < sellerCopy.Quantity {
			return fmt.Errorf("%w: order quantity %d, stock %d", ErrInsufficientStock, sellerCopy.Quantity, item.Stock)
		}
	}

	applyOrderEdits(sellerCopy, req)
	applyOrderEdits(&buyerCopy, req)

	if err := s.orderRepo.UpdatePair(sellerCopy, &buyerCopy); err != nil {
		return fmt.Errorf("failed to update order copies for %s: %w", orderID, err)
	}

	// Stock is only ever taken at completion; cancellation therefore has
	// nothing to restore.
	if req.Status == models.StatusCompleted {
		item.Stock -= sellerCopy.Quantity
		if err := s.itemRepo.Update(item); err != nil {
			return fmt.Errorf("failed to adjust stock for item %s: %w", item.ID, err)
		}
	}

	routingKey := "order.canceled"
	if req.Status == models.StatusCompleted {
		routingKey = "order.completed"
	}
	s.publishEvent(routingKey, map[string]interface{}{
		"orderID":  sellerCopy.ID,
		"buyerID":  sellerCopy.BuyerID,
		"sellerID": sellerCopy.SellerID,
		"status":   sellerCopy.Status,
	})

	return nil
}

// applyOrderEdits writes the status and any edited meeting fields onto one
// order copy. Empty strings and zero times mean the field was not edited.
func applyOrderEdits(order *models.Order, req UpdateOrderStatusRequest) {
	order.Status = req.Status
	if req.GradeLevel != "" {
		order.GradeLevel = req.GradeLevel
	}
	if req.Section != "" {
		order.Section = req.Section
	}
	if req.MeetingPlace != "" {
		order.MeetingPlace = req.MeetingPlace
	}
	if !req.ScheduledAt.IsZero() {
		order.ScheduledAt = req.ScheduledAt
	}
	order.UpdatedAt = time.Now()
}

// ListOrders retrieves one side of a user's order list.
func (s *OrderService) ListOrders(ownerID, side string) ([]models.Order, error) {
	if side != models.SideBuyer && side != models.SideSeller {
		return nil, fmt.Errorf("unknown order side: %s", side)
	}
	return s.orderRepo.ListByOwner(ownerID, side)
}

// ListTransactions builds the read-only transaction history view for one
// side of a user's order list: each order joined with the counterpart's
// display name and the listing's image.
func (s *OrderService) ListTransactions(ownerID, side string) ([]models.TransactionEntry, error) {
	orders, err := s.ListOrders(ownerID, side)
	if err != nil {
		return nil, err
	}

	entries := make([]models.TransactionEntry, 0, len(orders))
	for _, order := range orders {
		counterpartID := order.SellerID
		if side == models.SideSeller {
			counterpartID = order.BuyerID
		}

		counterpartName := "Unknown"
		if user, err := s.userRepo.GetByID(counterpartID); err == nil {
			counterpartName = user.Username
		}

		imageURL := ""
		if item, err := s.itemRepo.GetBySellerAndName(order.SellerID, order.Item); err == nil {
			imageURL = item.ImageURL
		}

		entries = append(entries, models.TransactionEntry{
			Order:           order,
			Role:            side,
			ItemImageURL:    imageURL,
			CounterpartName: counterpartName,
		})
	}
	return entries, nil
}

// publishEvent marshals and publishes an order event. Publish failures are
// logged and swallowed; the order write already succeeded.
func (s *OrderService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.publisher.Publish(routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", routingKey, err)
	}
}
