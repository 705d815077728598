package model

import "time"

type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "available"
	ListingStatusSold      ListingStatus = "sold"
	ListingStatusRemoved   ListingStatus = "removed"
)

// Listing is a seller's for-sale copy of a book. Status moves to sold
// exactly once, by checkout, and never back.
type Listing struct {
	ID        uint64        `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerUID string        `gorm:"column:seller_uid;size:128;index;not null" json:"sellerUid"`
	BookID    uint64        `gorm:"column:book_id;index;not null" json:"bookId"`
	Price     int64         `gorm:"not null" json:"price"`
	ImageURL  *string       `gorm:"column:image_url;size:512" json:"imageUrl,omitempty"`
	Status    ListingStatus `gorm:"column:status;size:32;not null;index" json:"status"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Listing) TableName() string {
	return "listings"
}
