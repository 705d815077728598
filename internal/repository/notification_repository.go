package repository

import (
	"context"
	"time"

	"github.com/hondana/bookmarket-backend/internal/model"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, uid string, limit int) ([]model.Notification, error)
	MarkAllRead(ctx context.Context, uid string) (int64, error)
	SetDB(db *gorm.DB)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) ListByUser(ctx context.Context, uid string, limit int) ([]model.Notification, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Notification
	if err := r.db.WithContext(ctx).
		Where("user_uid = ?", uid).
		Order("id DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, uid string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_uid = ? AND read_at IS NULL", uid).
		Update("read_at", now)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
