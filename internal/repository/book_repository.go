package repository

import (
	"context"

	"github.com/hondana/bookmarket-backend/internal/model"
	"gorm.io/gorm"
)

type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	FindByID(ctx context.Context, id uint64) (*model.Book, error)
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]model.Book, error)
	SetDB(db *gorm.DB)
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *bookRepository) Create(ctx context.Context, book *model.Book) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepository) FindByID(ctx context.Context, id uint64) (*model.Book, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var book model.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]model.Book, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	result := make(map[uint64]model.Book, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var books []model.Book
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&books).Error; err != nil {
		return nil, err
	}
	for _, b := range books {
		result[b.ID] = b
	}
	return result, nil
}
