package repositories

import "github.com/zldymlg/ValMart/internal/models"

// ItemRepository defines the interface for listing data access.
type ItemRepository interface {
	GetAll() ([]models.Item, error)
	GetByCategory(category string) ([]models.Item, error)
	GetByID(id string) (*models.Item, error)
	GetBySellerAndName(sellerID, productName string) (*models.Item, error)
	Create(item *models.Item) error
	Update(item *models.Item) error
	// Delete(id string) error // Listings are never deleted by the app, so we'll omit it.
}
