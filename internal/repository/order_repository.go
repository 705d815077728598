package repository

import (
	"context"
	"errors"

	"github.com/hondana/bookmarket-backend/internal/model"
	"gorm.io/gorm"
)

// ErrListingUnavailable aborts checkout finalization when a listing is no
// longer in the available status (sold or removed since validation).
var ErrListingUnavailable = errors.New("listing_unavailable")

type OrderRepository interface {
	CreateForCheckout(ctx context.Context, orders []model.Order, cartItemIDs []uint64) error
	ListByBuyer(ctx context.Context, buyerUID string) ([]model.Order, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.Order, error)
	SetDB(db *gorm.DB)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) SetDB(db *gorm.DB) {
	r.db = db
}

// CreateForCheckout applies the whole post-payment batch in one
// transaction: each listing is flipped to sold only if still available
// (zero affected rows aborts everything), one order row is inserted per
// listing, then the cart items are bulk-deleted.
func (r *orderRepository) CreateForCheckout(ctx context.Context, orders []model.Order, cartItemIDs []uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range orders {
			res := tx.Model(&model.Listing{}).
				Where("id = ? AND status = ?", orders[i].ListingID, model.ListingStatusAvailable).
				Update("status", model.ListingStatusSold)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrListingUnavailable
			}
			if err := tx.Create(&orders[i]).Error; err != nil {
				return err
			}
		}
		return tx.Where("id IN ?", cartItemIDs).Delete(&model.CartItem{}).Error
	})
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerUID string) ([]model.Order, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var orders []model.Order
	if err := r.db.WithContext(ctx).
		Where("buyer_uid = ?", buyerUID).
		Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListBySeller(ctx context.Context, sellerUID string) ([]model.Order, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var orders []model.Order
	if err := r.db.WithContext(ctx).
		Where("seller_uid = ?", sellerUID).
		Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
