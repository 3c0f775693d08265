package models

// TransactionEntry is a read-only projection joining an order with its item
// image and the counterpart's display name, used for the transaction history
// view. It has no lifecycle of its own and is never persisted.
type TransactionEntry struct {
	Order
	Role            string `json:"role"` // buyer or seller
	ItemImageURL    string `json:"item_image_url"`
	CounterpartName string `json:"counterpart_name"`
}
