package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zldymlg/ValMart/internal/models"
	"github.com/zldymlg/ValMart/internal/services"
)

// MockItemRepository is a mock implementation of repositories.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) GetAll() ([]models.Item, error) {
	args := m.Called()
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemRepository) GetByCategory(category string) ([]models.Item, error) {
	args := m.Called(category)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemRepository) GetByID(id string) (*models.Item, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) GetBySellerAndName(sellerID, productName string) (*models.Item, error) {
	args := m.Called(sellerID, productName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) Create(item *models.Item) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockItemRepository) Update(item *models.Item) error {
	args := m.Called(item)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByOwnerAndID(ownerID, id string) (*models.Order, error) {
	args := m.Called(ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByOwner(ownerID, side string) ([]models.Order, error) {
	args := m.Called(ownerID, side)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) FindCounterparts(ownerID, side, item string, finalPrice float64, sellerID string, scheduledAt time.Time) ([]models.Order, error) {
	args := m.Called(ownerID, side, item, finalPrice, sellerID, scheduledAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdatePair(first, second *models.Order) error {
	args := m.Called(first, second)
	return args.Error(0)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

var meetingTime = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

func penListing() *models.Item {
	return &models.Item{
		ID:          "item-1",
		SellerID:    "seller-1",
		ProductName: "Flexstick Ballpen",
		Price:       17.00,
		Category:    models.CategoryStationaries,
		Stock:       10,
	}
}

func sellerPenOrder() *models.Order {
	return &models.Order{
		ID:           "order-s",
		OwnerID:      "seller-1",
		Side:         models.SideSeller,
		BuyerID:      "buyer-1",
		SellerID:     "seller-1",
		Item:         "Flexstick Ballpen",
		UnitPrice:    17.00,
		Quantity:     3,
		FinalPrice:   51.00,
		MeetingPlace: "Room 204",
		ScheduledAt:  meetingTime,
		Status:       models.StatusPending,
	}
}

func buyerPenOrder() models.Order {
	order := *sellerPenOrder()
	order.ID = "order-b"
	order.OwnerID = "buyer-1"
	order.Side = models.SideBuyer
	return order
}

func TestOrderService_CreateOrder(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockItems := new(MockItemRepository)
	mockUsers := new(MockUserRepository)
	mockMQ := new(MockPublisher)
	service := services.NewOrderService(mockOrders, mockItems, mockUsers, mockMQ)

	mockItems.On("GetByID", "item-1").Return(penListing(), nil).Once()

	var created []*models.Order
	mockOrders.On("Create", mock.AnythingOfType("*models.Order")).Run(func(args mock.Arguments) {
		created = append(created, args.Get(0).(*models.Order))
	}).Return(nil).Twice()
	mockMQ.On("Publish", "order.created", mock.Anything).Return(nil).Once()

	order, err := service.CreateOrder("buyer-1", services.CreateOrderRequest{
		ItemID:       "item-1",
		Quantity:     3,
		MeetingPlace: "Room 204",
		ScheduledAt:  meetingTime,
	})
	assert.NoError(t, err)

	// Final price must be exactly unit price times quantity.
	assert.Equal(t, 51.00, order.FinalPrice)
	assert.Equal(t, 17.00, order.UnitPrice)
	assert.Equal(t, models.StatusPending, order.Status)

	// One copy lands in the buyer's list and one in the seller's, agreeing
	// on every order field but owned separately.
	assert.Len(t, created, 2)
	buyerCopy, sellerCopy := created[0], created[1]
	assert.Equal(t, models.SideBuyer, buyerCopy.Side)
	assert.Equal(t, "buyer-1", buyerCopy.OwnerID)
	assert.Equal(t, models.SideSeller, sellerCopy.Side)
	assert.Equal(t, "seller-1", sellerCopy.OwnerID)
	assert.NotEqual(t, buyerCopy.ID, sellerCopy.ID)
	assert.Equal(t, buyerCopy.FinalPrice, sellerCopy.FinalPrice)
	assert.Equal(t, buyerCopy.Item, sellerCopy.Item)
	assert.Equal(t, buyerCopy.ScheduledAt, sellerCopy.ScheduledAt)

	mockOrders.AssertExpectations(t)
	mockItems.AssertExpectations(t)
	mockMQ.AssertExpectations(t)
}

func TestOrderService_CreateOrder_InsufficientStock(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockItems := new(MockItemRepository)
	mockUsers := new(MockUserRepository)
	service := services.NewOrderService(mockOrders, mockItems, mockUsers, nil)

	listing := penListing()
	listing.Stock = 2
	mockItems.On("GetByID", "item-1").Return(listing, nil).Once()

	_, err := service.CreateOrder("buyer-1", services.CreateOrderRequest{
		ItemID:       "item-1",
		Quantity:     3,
		MeetingPlace: "Room 204",
		ScheduledAt:  meetingTime,
	})
	assert.ErrorIs(t, err, services.ErrInsufficientStock)
	mockOrders.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOrderService_CreateOrder_InvalidQuantity(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockItems := new(MockItemRepository)
	mockUsers := new(MockUserRepository)
	service := services.NewOrderService(mockOrders, mockItems, mockUsers, nil)

	_, err := service.CreateOrder("buyer-1", services.CreateOrderRequest{
		ItemID:       "item-1",
		Quantity:     0,
		MeetingPlace: "Room 204",
		ScheduledAt:  meetingTime,
	})
	assert.Error(t, err)
	mockItems.AssertNotCalled(t, "GetByID", mock.Anything)
	mockOrders.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOrderService_UpdateOrderStatus_Completed(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockItems := new(MockItemRepository)
	mockUsers := new(MockUserRepository)
	mockMQ := new(MockPublisher)
	service := services.NewOrderService(mockOrders, mockItems, mockUsers, mockMQ)

	sellerCopy := sellerPenOrder()
	mockOrders.On("GetByOwnerAndID", "seller-1", "order-s").Return(sellerCopy, nil).Once()
	mockOrders.On("FindCounterparts", "buyer-1", models.SideBuyer, "Flexstick Ballpen", 51.00, "seller-1", meetingTime).
		Return([]models.Order{buyerPenOrder()}, nil).Once()

	listing := penListing()
	mockItems.On("GetBySellerAndName", "seller-1", "Flexstick Ballpen").Return(listing, nil).Once()

	mockOrders.On("UpdatePair", mock.AnythingOfType("*models.Order"), mock.AnythingOfType("*models.Order")).
		Run(func(args mock.Arguments) {
			first := args.Get(0).(*models.Order)
			second := args.Get(1).(*models.Order)
			assert.Equal(t, models.StatusCompleted, first.Status)
			assert.Equal(t, models.StatusCompleted, second.Status)
		}).Return(nil).Once()

	mockItems.On("Update", mock.AnythingOfType("*models.Item")).Run(func(args mock.Arguments) {
		updated := args.Get(0).(*models.Item)
		assert.Equal(t, 7, updated.Stock) // 10 - quantity 3
	}).Return(nil).Once()

	mockMQ.On("Publish", "order.completed", mock.Anything).Return(nil).Once()

	err := service.UpdateOrderStatus("seller-1", "order-s", services.UpdateOrderStatusRequest{
		Status: models.StatusCompleted,
	})
	assert.NoError(t, err)
	mockOrders.AssertExpectations(t)
	mockItems.AssertExpectations(t)
	mockMQ.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatus_Canceled_NoStockChange(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockItems := new(MockItemRepository)
	mockUsers := new(MockUserRepository)
	service := services.NewOrderService(mockOrders, mockItems, mockUsers, nil)

	mockOrders.On("GetByOwnerAndID", "seller-1", "order-s").Return(sellerPenOrder(), nil).Once()
	mockOrders.On("FindCounterparts", "buyer-1", models.SideBuyer, "Flexstick Ballpen", 51.00, "seller-1", meetingTime).
		Return([]models.Order{buyerPenOrder()}, nil).Once()
	mockOrders.On("UpdatePair", mock.Anything, mock.Anything).Return(nil).Once()

	err := service.UpdateOrderStatus("seller-1", "order-s", services.UpdateOrderStatusRequest{
		Status: models.StatusCanceled,
	})
	assert.NoError(t, err)

	// Stock was never taken for a pending order, so nothing is restored.
	mockItems.AssertNotCalled(t, "GetBySellerAndName", mock.Anything, mock.Anything)
	mockItems.AssertNotCalled(t, "Update", mock.Anything)
	mockOrders.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatus_CounterpartMissing(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockItems := new(MockItemRepository)
	mockUsers := new(MockUserRepository)
	service := services.NewOrderService(mockOrders, mockItems, mockUsers, nil)

	mockOrders.On("GetByOwnerAndID", "seller-1", "order-s").Return(sellerPenOrder(), nil).Once()
	mockOrders.On("FindCounterparts", "buyer-1", models.SideBuyer, "Flexstick Ballpen", 51.00, "seller-1", meetingTime).
		Return([]models.Order{}, nil).Once()

	err := service.UpdateOrderStatus("seller-1", "order-s", services.UpdateOrderStatusRequest{
		Status: models.StatusCompleted,
	})
	assert.ErrorIs(t, err, services.ErrCounterpartNotFound)

	// A failed lookup must leave every record untouched.
	mockOrders.AssertNotCalled(t, "UpdatePair", mock.Anything, mock.Anything)
	mockItems.AssertNotCalled(t, "Update", mock.Anything)
}

func TestOrderService_UpdateOrderStatus_CounterpartCollision(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockItems := new(MockItemRepository)
	mockUsers := new(MockUserRepository)
	service := services.NewOrderService(mockOrders, mockItems, mockUsers, nil)

	// Two buyer records with the same item, final price, seller and time:
	// the lookup has no way to pick one, so it must not pick either.
	first := buyerPenOrder()
	second := buyerPenOrder()
	second.ID = "order-b2"

	mockOrders.On("GetByOwnerAndID", "seller-1", "order-s").Return(sellerPenOrder(), nil).Once()
	mockOrders.On("FindCounterparts", "buyer-1", models.SideBuyer, "Flexstick Ballpen", 51.00, "seller-1", meetingTime).
		Return([]models.Order{first, second}, nil).Once()

	err := service.UpdateOrderStatus("seller-1", "order-s", services.UpdateOrderStatusRequest{
		Status: models.StatusCompleted,
	})
	assert.ErrorIs(t, err, services.ErrCounterpartAmbiguous)
	mockOrders.AssertNotCalled(t, "UpdatePair", mock.Anything, mock.Anything)
	mockItems.AssertNotCalled(t, "Update", mock.Anything)
}

func TestOrderService_UpdateOrderStatus_RepeatedCompleteRejected(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockItems := new(MockItemRepository)
	mockUsers := new(MockUserRepository)
	service := services.NewOrderService(mockOrders, mockItems, mockUsers, nil)

	// Simulates a retried request: the order already reads Completed, so the
	// second transition is rejected and stock is not decremented twice.
	completed := sellerPenOrder()
	completed.Status = models.StatusCompleted
	mockOrders.On("GetByOwnerAndID", "seller-1", "order-s").Return(completed, nil).Once()

	err := service.UpdateOrderStatus("seller-1", "order-s", services.UpdateOrderStatusRequest{
		Status: models.StatusCompleted,
	})
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	mockOrders.AssertNotCalled(t, "UpdatePair", mock.Anything, mock.Anything)
	mockItems.AssertNotCalled(t, "Update", mock.Anything)
}

func TestOrderService_UpdateOrderStatus_CanceledIsTerminal(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockItems := new(MockItemRepository)
	mockUsers := new(MockUserRepository)
	service := services.NewOrderService(mockOrders, mockItems, mockUsers, nil)

	canceled := sellerPenOrder()
	canceled.Status = models.StatusCanceled
	mockOrders.On("GetByOwnerAndID", "seller-1", "order-s").Return(canceled, nil).Once()

	err := service.UpdateOrderStatus("seller-1", "order-s", services.UpdateOrderStatusRequest{
		Status: models.StatusPending,
	})
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestOrderService_UpdateOrderStatus_NotSellerOrder(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockItems := new(MockItemRepository)
	mockUsers := new(MockUserRepository)
	service := services.NewOrderService(mockOrders, mockItems, mockUsers, nil)

	// A buyer-side copy cannot be driven through the seller's update path.
	buyerCopy := buyerPenOrder()
	mockOrders.On("GetByOwnerAndID", "buyer-1", "order-b").Return(&buyerCopy, nil).Once()

	err := service.UpdateOrderStatus("buyer-1", "order-b", services.UpdateOrderStatusRequest{
		Status: models.StatusCompleted,
	})
	assert.ErrorIs(t, err, services.ErrNotSellerOrder)
}

func TestOrderService_UpdateOrderStatus_ListingMissing(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockItems := new(MockItemRepository)
	mockUsers := new(MockUserRepository)
	service := services.NewOrderService(mockOrders, mockItems, mockUsers, nil)

	mockOrders.On("GetByOwnerAndID", "seller-1", "order-s").Return(sellerPenOrder(), nil).Once()
	mockOrders.On("FindCounterparts", "buyer-1", models.SideBuyer, "Flexstick Ballpen", 51.00, "seller-1", meetingTime).
		Return([]models.Order{buyerPenOrder()}, nil).Once()
	mockItems.On("GetBySellerAndName", "seller-1", "Flexstick Ballpen").
		Return(nil, fmt.Errorf("item Flexstick Ballpen by seller seller-1 not found")).Once()

	err := service.UpdateOrderStatus("seller-1", "order-s", services.UpdateOrderStatusRequest{
		Status: models.StatusCompleted,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	// The missing listing is detected before any write happens.
	mockOrders.AssertNotCalled(t, "UpdatePair", mock.Anything, mock.Anything)
}

func TestOrderService_UpdateOrderStatus_AppliesEditedFields(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockItems := new(MockItemRepository)
	mockUsers := new(MockUserRepository)
	service := services.NewOrderService(mockOrders, mockItems, mockUsers, nil)

	newTime := meetingTime.Add(24 * time.Hour)
	mockOrders.On("GetByOwnerAndID", "seller-1", "order-s").Return(sellerPenOrder(), nil).Once()
	mockOrders.On("FindCounterparts", "buyer-1", models.SideBuyer, "Flexstick Ballpen", 51.00, "seller-1", meetingTime).
		Return([]models.Order{buyerPenOrder()}, nil).Once()
	mockOrders.On("UpdatePair", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		for _, raw := range []interface{}{args.Get(0), args.Get(1)} {
			orderCopy := raw.(*models.Order)
			assert.Equal(t, models.StatusCanceled, orderCopy.Status)
			assert.Equal(t, "Grade 11", orderCopy.GradeLevel)
			assert.Equal(t, "Library", orderCopy.MeetingPlace)
			assert.Equal(t, newTime, orderCopy.ScheduledAt)
		}
	}).Return(nil).Once()

	err := service.UpdateOrderStatus("seller-1", "order-s", services.UpdateOrderStatusRequest{
		Status:       models.StatusCanceled,
		GradeLevel:   "Grade 11",
		MeetingPlace: "Library",
		ScheduledAt:  newTime,
	})
	assert.NoError(t, err)
	mockOrders.AssertExpectations(t)
}

func TestOrderService_ListTransactions(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockItems := new(MockItemRepository)
	mockUsers := new(MockUserRepository)
	service := services.NewOrderService(mockOrders, mockItems, mockUsers, nil)

	sellerCopy := *sellerPenOrder()
	mockOrders.On("ListByOwner", "seller-1", models.SideSeller).Return([]models.Order{sellerCopy}, nil).Once()
	mockUsers.On("GetByID", "buyer-1").Return(&models.User{ID: "buyer-1", Username: "jamir"}, nil).Once()
	listing := penListing()
	listing.ImageURL = "/uploads/pen.png"
	mockItems.On("GetBySellerAndName", "seller-1", "Flexstick Ballpen").Return(listing, nil).Once()

	entries, err := service.ListTransactions("seller-1", models.SideSeller)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "jamir", entries[0].CounterpartName)
	assert.Equal(t, "/uploads/pen.png", entries[0].ItemImageURL)
	assert.Equal(t, models.SideSeller, entries[0].Role)
	mockUsers.AssertExpectations(t)
}
