package model

import "time"

type CartItem struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerUID  string    `gorm:"column:buyer_uid;size:128;not null;uniqueIndex:uk_cart_buyer_listing" json:"buyerUid"`
	ListingID uint64    `gorm:"column:listing_id;not null;uniqueIndex:uk_cart_buyer_listing" json:"listingId"`
	Quantity  uint      `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
