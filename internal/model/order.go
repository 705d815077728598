package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order records one completed purchase of one listing. Rows are created
// only by checkout finalization, with total_amount taken from the listing
// row, and are immutable afterwards.
type Order struct {
	ID          uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerUID    string      `gorm:"column:buyer_uid;size:128;index;not null" json:"buyerUid"`
	SellerUID   string      `gorm:"column:seller_uid;size:128;index;not null" json:"sellerUid"`
	ListingID   uint64      `gorm:"column:listing_id;index;not null" json:"listingId"`
	TotalAmount int64       `gorm:"column:total_amount;not null" json:"totalAmount"`
	Status      OrderStatus `gorm:"column:status;size:32;not null" json:"status"`
	PaymentID   string      `gorm:"column:payment_id;size:255" json:"paymentId"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}
