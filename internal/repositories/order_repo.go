package repositories

import (
	"time"

	"github.com/zldymlg/ValMart/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// stored denormalized: each logical order exists as two copies, one under the
// buyer's list and one under the seller's.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByOwnerAndID(ownerID, id string) (*models.Order, error)
	ListByOwner(ownerID, side string) ([]models.Order, error)
	// FindCounterparts returns every order copy in ownerID's list on the
	// given side whose (item, finalPrice, sellerID, scheduledAt) tuple
	// matches. Callers must treat anything but exactly one match as a
	// failed lookup.
	FindCounterparts(ownerID, side, item string, finalPrice float64, sellerID string, scheduledAt time.Time) ([]models.Order, error)
	// UpdatePair persists changes to both copies of an order atomically, or
	// not at all.
	UpdatePair(first, second *models.Order) error
}
