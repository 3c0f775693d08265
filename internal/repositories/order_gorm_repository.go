package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zldymlg/ValMart/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create inserts one order copy.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByOwnerAndID retrieves one order copy from an owner's list.
func (r *GORMOrderRepository) GetByOwnerAndID(ownerID, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, "owner_id = ? AND id = ?", ownerID, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// ListByOwner retrieves all order copies in an owner's list for one side.
func (r *GORMOrderRepository) ListByOwner(ownerID, side string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("owner_id = ? AND side = ?", ownerID, side).
		Order("created_at desc").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for owner %s: %w", ownerID, err)
	}
	return orders, nil
}

// FindCounterparts runs the equality-predicate lookup used to locate the
// other copy of an order. There is no shared key between the two copies, so
// the match is on the (item, final price, seller, scheduled time) tuple.
func (r *GORMOrderRepository) FindCounterparts(ownerID, side, item string, finalPrice float64, sellerID string, scheduledAt time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where(
		"owner_id = ? AND side = ? AND item = ? AND final_price = ? AND seller_id = ? AND scheduled_at = ?",
		ownerID, side, item, finalPrice, sellerID, scheduledAt,
	).Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find counterpart orders: %w", err)
	}
	return orders, nil
}

// UpdatePair saves both copies of an order inside a single transaction so the
// two lists cannot be left disagreeing by a partial failure.
func (r *GORMOrderRepository) UpdatePair(first, second *models.Order) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(first).Error; err != nil {
			return err
		}
		return tx.Save(second).Error
	})
	if err != nil {
		return fmt.Errorf("failed to update order pair: %w", err)
	}
	return nil
}
