package repository

import (
	"context"

	"github.com/hondana/bookmarket-backend/internal/model"
	"gorm.io/gorm"
)

// CartItemDetail is one cart row joined with its listing and book, so that
// checkout always prices from the listings table, never from client input.
type CartItemDetail struct {
	CartItemID uint64
	ListingID  uint64
	SellerUID  string
	Price      int64
	Quantity   uint
	Title      string
	Author     string
	ImageURL   *string
}

type CartRepository interface {
	FindOrCreate(ctx context.Context, buyerUID string, listingID uint64) (*model.CartItem, error)
	FindDetails(ctx context.Context, buyerUID string, ids []uint64) ([]CartItemDetail, error)
	ListDetailsByBuyer(ctx context.Context, buyerUID string) ([]CartItemDetail, error)
	DeleteOwned(ctx context.Context, buyerUID string, id uint64) (int64, error)
	SetDB(db *gorm.DB)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *cartRepository) FindOrCreate(ctx context.Context, buyerUID string, listingID uint64) (*model.CartItem, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	item := model.CartItem{BuyerUID: buyerUID, ListingID: listingID, Quantity: 1}
	if err := r.db.WithContext(ctx).
		Where("buyer_uid = ? AND listing_id = ?", buyerUID, listingID).
		FirstOrCreate(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) FindDetails(ctx context.Context, buyerUID string, ids []uint64) ([]CartItemDetail, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var rows []CartItemDetail
	if len(ids) == 0 {
		return rows, nil
	}
	if err := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Select("cart_items.id AS cart_item_id, cart_items.listing_id, cart_items.quantity, listings.seller_uid, listings.price, listings.image_url, books.title, books.author").
		Joins("JOIN listings ON listings.id = cart_items.listing_id").
		Joins("JOIN books ON books.id = listings.book_id").
		Where("cart_items.buyer_uid = ? AND cart_items.id IN ?", buyerUID, ids).
		Order("cart_items.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *cartRepository) ListDetailsByBuyer(ctx context.Context, buyerUID string) ([]CartItemDetail, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var rows []CartItemDetail
	if err := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Select("cart_items.id AS cart_item_id, cart_items.listing_id, cart_items.quantity, listings.seller_uid, listings.price, listings.image_url, books.title, books.author").
		Joins("JOIN listings ON listings.id = cart_items.listing_id").
		Joins("JOIN books ON books.id = listings.book_id").
		Where("cart_items.buyer_uid = ?", buyerUID).
		Order("cart_items.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *cartRepository) DeleteOwned(ctx context.Context, buyerUID string, id uint64) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Where("id = ? AND buyer_uid = ?", id, buyerUID).
		Delete(&model.CartItem{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
