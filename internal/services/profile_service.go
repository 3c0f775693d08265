package services

import (
	"fmt"

	"github.com/zldymlg/ValMart/internal/models"
	"github.com/zldymlg/ValMart/internal/repositories"
)

// ProfileService handles reading and editing a user's own profile, plus the
// completed-order counters shown on the profile page.
type ProfileService struct {
	userRepo  repositories.UserRepository
	orderRepo repositories.OrderRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo repositories.UserRepository, orderRepo repositories.OrderRepository) *ProfileService {
	return &ProfileService{
		userRepo:  userRepo,
		orderRepo: orderRepo,
	}
}

// GetProfile retrieves a user's profile.
func (s *ProfileService) GetProfile(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// ProfileUpdate carries the editable profile fields. Empty fields keep their
// stored value.
type ProfileUpdate struct {
	Username string `json:"username" validate:"omitempty,min=3,max=100"`
	Contact  string `json:"contact" validate:"omitempty,max=255"`
	Social   string `json:"social" validate:"omitempty,max=255"`
	Section  string `json:"section" validate:"omitempty,max=100"`
}

// UpdateProfile applies profile edits.
func (s *ProfileService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if update.Username != "" {
		user.Username = update.Username
	}
	if update.Contact != "" {
		user.Contact = update.Contact
	}
	if update.Social != "" {
		user.Social = update.Social
	}
	if update.Section != "" {
		user.Section = update.Section
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ProfileStats holds the completed-order counters for a profile page.
type ProfileStats struct {
	Purchases int `json:"purchases"`
	ItemsSold int `json:"items_sold"`
}

// GetStats counts a user's completed purchases (buyer-side orders) and
// completed sales (seller-side orders).
func (s *ProfileService) GetStats(userID string) (*ProfileStats, error) {
	bought, err := s.orderRepo.ListByOwner(userID, models.SideBuyer)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}
	sold, err := s.orderRepo.ListByOwner(userID, models.SideSeller)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	stats := &ProfileStats{}
	for _, order := range bought {
		if order.Status == models.StatusCompleted {
			stats.Purchases++
		}
	}
	for _, order := range sold {
		if order.Status == models.StatusCompleted {
			stats.ItemsSold++
		}
	}
	return stats, nil
}
