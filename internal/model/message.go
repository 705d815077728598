package model

import "time"

type Message struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderUID   string    `gorm:"column:sender_uid;size:128;index" json:"senderUid"`
	ReceiverUID string    `gorm:"column:receiver_uid;size:128;index" json:"receiverUid"`
	ListingID   *uint64   `gorm:"column:listing_id;index" json:"listingId,omitempty"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Read        bool      `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Message) TableName() string {
	return "messages"
}
