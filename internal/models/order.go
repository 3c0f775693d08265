package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusCompleted OrderStatus = "Completed"
	StatusCanceled  OrderStatus = "Canceled"
)

// validNext is the allowed status transition table. Completed and Canceled
// are terminal, so a Canceled order cannot be reopened.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:   {StatusCompleted: true, StatusCanceled: true},
	StatusCompleted: {},
	StatusCanceled:  {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s OrderStatus) bool {
	_, ok := validNext[s]
	return ok
}

// Sides an order copy can live under. Every logical order is stored twice:
// one copy owned by the buyer and one by the seller, and the two copies must
// always agree on status.
const (
	SideBuyer  = "buyer"
	SideSeller = "seller"
)

// Order is one copy of a placed order. OwnerID names whose order list this
// copy belongs to and Side tells which role that owner plays. Item is the
// denormalized product name, not a foreign key.
type Order struct {
	ID           string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID      string      `json:"owner_id" gorm:"index;type:varchar(36)"`
	Side         string      `json:"side" gorm:"type:varchar(10)"`
	BuyerID      string      `json:"buyer_id" gorm:"type:varchar(36)"`
	SellerID     string      `json:"seller_id" gorm:"type:varchar(36)"`
	Item         string      `json:"item"`
	UnitPrice    float64     `json:"unit_price"`
	Quantity     int         `json:"quantity"`
	FinalPrice   float64     `json:"final_price"`
	MeetingPlace string      `json:"meeting_place"`
	ScheduledAt  time.Time   `json:"scheduled_at"`
	GradeLevel   string      `json:"grade_level"`
	Section      string      `json:"section"`
	Status       OrderStatus `json:"status" gorm:"type:varchar(20)"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
