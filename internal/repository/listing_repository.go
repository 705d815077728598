package repository

import (
	"context"
	"errors"

	"github.com/hondana/bookmarket-backend/internal/model"
	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

type ListingWithBook struct {
	Listing model.Listing
	Book    *model.Book
}

type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	FindByID(ctx context.Context, id uint64) (*model.Listing, error)
	ListAvailable(ctx context.Context, limit, offset int) ([]model.Listing, int64, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.Listing, error)
	UpdateStatus(ctx context.Context, id uint64, from, to model.ListingStatus) (int64, error)
	SetDB(db *gorm.DB)
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *listingRepository) Create(ctx context.Context, listing *model.Listing) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepository) FindByID(ctx context.Context, id uint64) (*model.Listing, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var listing model.Listing
	if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) ListAvailable(ctx context.Context, limit, offset int) ([]model.Listing, int64, error) {
	if r.db == nil {
		return nil, 0, ErrDBNotReady
	}
	var (
		listings []model.Listing
		total    int64
	)
	q := r.db.WithContext(ctx).Model(&model.Listing{}).Where("status = ?", model.ListingStatusAvailable)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *listingRepository) ListBySeller(ctx context.Context, sellerUID string) ([]model.Listing, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var listings []model.Listing
	if err := r.db.WithContext(ctx).
		Where("seller_uid = ?", sellerUID).
		Order("id DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// UpdateStatus flips a listing from one status to another and reports how
// many rows matched. Zero rows means the listing was no longer in the
// expected status.
func (r *listingRepository) UpdateStatus(ctx context.Context, id uint64, from, to model.ListingStatus) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
