package model

import "time"

type Profile struct {
	UID         string    `gorm:"column:uid;primaryKey;size:128" json:"uid"`
	DisplayName string    `gorm:"column:display_name;size:120" json:"displayName"`
	AvatarURL   *string   `gorm:"column:avatar_url;size:512" json:"avatarUrl,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Profile) TableName() string {
	return "profiles"
}
