package models

import "time"

// Item categories available in the sell flow.
const (
	CategoryStationaries = "Stationaries"
	CategoryPapers       = "Papers"
	CategoryChemicals    = "Chemicals"
	CategoryEquipment    = "Equipment"
	CategoryOthers       = "Others"
)

// Item represents a product listing put up for sale by a student.
type Item struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	SellerID     string    `json:"seller_id" gorm:"index;type:varchar(36)" validate:"required"`
	ProductName  string    `json:"product_name" validate:"required,min=1,max=100"`
	Description  string    `json:"description" validate:"omitempty,max=500"`
	Price        float64   `json:"price" validate:"required,gt=0"`
	Category     string    `json:"category" validate:"required,oneof=Stationaries Papers Chemicals Equipment Others"`
	GradeSection string    `json:"grade_section" validate:"omitempty,max=100"`
	Contact      string    `json:"contact" validate:"omitempty,max=255"`
	Stock        int       `json:"stock" validate:"gte=0"`
	ImageURL     string    `json:"image_url" validate:"omitempty,max=500"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListedItem is an Item annotated with the seller's resolved display name
// for the catalog view. It is never persisted.
type ListedItem struct {
	Item
	SellerName string `json:"seller_name"`
}
