package repository

import (
	"context"

	"github.com/hondana/bookmarket-backend/internal/model"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	ListByUser(ctx context.Context, uid string) ([]model.Message, error)
	ListThread(ctx context.Context, uid, otherUID string) ([]model.Message, error)
	MarkThreadRead(ctx context.Context, uid, otherUID string) (int64, error)
	SetDB(db *gorm.DB)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *messageRepository) Create(ctx context.Context, msg *model.Message) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListByUser returns every message the user sent or received, newest first.
func (r *messageRepository) ListByUser(ctx context.Context, uid string) ([]model.Message, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var msgs []model.Message
	if err := r.db.WithContext(ctx).
		Where("sender_uid = ? OR receiver_uid = ?", uid, uid).
		Order("created_at DESC, id DESC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListThread returns the two-party thread between uid and otherUID, oldest
// first.
func (r *messageRepository) ListThread(ctx context.Context, uid, otherUID string) ([]model.Message, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var msgs []model.Message
	if err := r.db.WithContext(ctx).
		Where("(sender_uid = ? AND receiver_uid = ?) OR (sender_uid = ? AND receiver_uid = ?)",
			uid, otherUID, otherUID, uid).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkThreadRead marks every unread message from otherUID to uid as read.
func (r *messageRepository) MarkThreadRead(ctx context.Context, uid, otherUID string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("sender_uid = ? AND receiver_uid = ? AND `read` = ?", otherUID, uid, false).
		Update("read", true)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
