package services

import (
	"fmt"
	"strings"

	"github.com/zldymlg/ValMart/internal/models"
	"github.com/zldymlg/ValMart/internal/repositories"
)

// UnknownSellerName is shown when a listing's seller record cannot be
// resolved.
const UnknownSellerName = "Unknown Seller"

// ItemService handles business logic related to listings: the sell flow and
// the catalog views.
type ItemService struct {
	itemRepo repositories.ItemRepository
	userRepo repositories.UserRepository
}

// NewItemService creates a new ItemService.
func NewItemService(itemRepo repositories.ItemRepository, userRepo repositories.UserRepository) *ItemService {
	return &ItemService{
		itemRepo: itemRepo,
		userRepo: userRepo,
	}
}

// CreateItem lists a new item for sale.
func (s *ItemService) CreateItem(item *models.Item) error {
	return s.itemRepo.Create(item)
}

// GetItemByID retrieves a single listing by its ID.
func (s *ItemService) GetItemByID(id string) (*models.Item, error) {
	return s.itemRepo.GetByID(id)
}

// ListWithSellers returns the catalog, each listing annotated with its
// seller's username. The seller record is fetched once per listing; a seller
// that no longer resolves falls back to UnknownSellerName. An empty category
// means no filter.
func (s *ItemService) ListWithSellers(category string) ([]models.ListedItem, error) {
	var (
		items []models.Item
		err   error
	)
	if category == "" {
		items, err = s.itemRepo.GetAll()
	} else {
		items, err = s.itemRepo.GetByCategory(category)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	listed := make([]models.ListedItem, 0, len(items))
	for _, item := range items {
		sellerName := UnknownSellerName
		if user, userErr := s.userRepo.GetByID(item.SellerID); userErr == nil && user.Username != "" {
			sellerName = user.Username
		}
		listed = append(listed, models.ListedItem{Item: item, SellerName: sellerName})
	}
	return listed, nil
}

// Search returns listings whose name, description or category contains the
// term, case-insensitively. An empty term matches nothing.
func (s *ItemService) Search(term string) ([]models.Item, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []models.Item{}, nil
	}

	items, err := s.itemRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}

	results := make([]models.Item, 0)
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.ProductName), term) ||
			strings.Contains(strings.ToLower(item.Description), term) ||
			strings.Contains(strings.ToLower(item.Category), term) {
			results = append(results, item)
		}
	}
	return results, nil
}
