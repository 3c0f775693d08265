package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zldymlg/ValMart/internal/models"
)

// GORMItemRepository is a GORM implementation of ItemRepository.
type GORMItemRepository struct {
	db *gorm.DB
}

// NewGORMItemRepository creates a new instance of GORMItemRepository.
func NewGORMItemRepository(db *gorm.DB) *GORMItemRepository {
	return &GORMItemRepository{
		db: db,
	}
}

// GetAll retrieves all listings from the database.
func (r *GORMItemRepository) GetAll() ([]models.Item, error) {
	var items []models.Item
	if err := r.db.Order("created_at desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get all items: %w", err)
	}
	return items, nil
}

// GetByCategory retrieves all listings in the given category.
func (r *GORMItemRepository) GetByCategory(category string) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.Where("category = ?", category).Order("created_at desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get items in category %s: %w", category, err)
	}
	return items, nil
}

// GetByID retrieves a single listing by its ID from the database.
func (r *GORMItemRepository) GetByID(id string) (*models.Item, error) {
	var item models.Item
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("item with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get item by ID %s: %w", id, err)
	}
	return &item, nil
}

// GetBySellerAndName retrieves a seller's listing by its denormalized product
// name. Orders carry the product name rather than the item ID, so this is the
// lookup the reconciler uses for stock adjustment.
func (r *GORMItemRepository) GetBySellerAndName(sellerID, productName string) (*models.Item, error) {
	var item models.Item
	err := r.db.First(&item, "seller_id = ? AND product_name = ?", sellerID, productName).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("item %s by seller %s not found", productName, sellerID)
		}
		return nil, fmt.Errorf("failed to get item %s by seller %s: %w", productName, sellerID, err)
	}
	return &item, nil
}

// Create creates a new listing in the database.
func (r *GORMItemRepository) Create(item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// Update updates an existing listing in the database.
func (r *GORMItemRepository) Update(item *models.Item) error {
	res := r.db.Save(item) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("item with ID %s not found for update", item.ID)
	}
	return nil
}
