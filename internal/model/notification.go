package model

import "time"

type Notification struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserUID   string     `gorm:"column:user_uid;size:128;index;not null" json:"userUid"`
	Type      string     `gorm:"column:type;size:64;not null" json:"type"`
	Title     string     `gorm:"column:title;size:255" json:"title"`
	Body      string     `gorm:"column:body;type:text" json:"body"`
	ListingID *uint64    `gorm:"column:listing_id;index" json:"listingId,omitempty"`
	OrderID   *uint64    `gorm:"column:order_id;index" json:"orderId,omitempty"`
	ReadAt    *time.Time `gorm:"column:read_at" json:"readAt,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
