package service

import (
	"context"
	"errors"

	"github.com/hondana/bookmarket-backend/internal/model"
	"github.com/hondana/bookmarket-backend/internal/repository"
	"gorm.io/gorm"
)

type CartService interface {
	AddItem(ctx context.Context, buyerUID string, listingID uint64) (*model.CartItem, error)
	ListCart(ctx context.Context, buyerUID string) ([]repository.CartItemDetail, error)
	RemoveItem(ctx context.Context, buyerUID string, cartItemID uint64) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	listingRepo repository.ListingRepository
}

func NewCartService(cartRepo repository.CartRepository, listingRepo repository.ListingRepository) CartService {
	return &cartService{cartRepo: cartRepo, listingRepo: listingRepo}
}

// AddItem puts a listing in the buyer's cart. Re-adding the same listing
// returns the existing row; one cart row per (buyer, listing).
func (s *cartService) AddItem(ctx context.Context, buyerUID string, listingID uint64) (*model.CartItem, error) {
	if buyerUID == "" {
		return nil, errors.New("buyer is required")
	}
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if listing.Status != model.ListingStatusAvailable {
		return nil, ErrListingUnavailable
	}
	if listing.SellerUID == buyerUID {
		return nil, errors.New("cannot buy your own listing")
	}
	return s.cartRepo.FindOrCreate(ctx, buyerUID, listingID)
}

func (s *cartService) ListCart(ctx context.Context, buyerUID string) ([]repository.CartItemDetail, error) {
	if buyerUID == "" {
		return nil, errors.New("buyer is required")
	}
	return s.cartRepo.ListDetailsByBuyer(ctx, buyerUID)
}

func (s *cartService) RemoveItem(ctx context.Context, buyerUID string, cartItemID uint64) error {
	if buyerUID == "" {
		return errors.New("buyer is required")
	}
	affected, err := s.cartRepo.DeleteOwned(ctx, buyerUID, cartItemID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
