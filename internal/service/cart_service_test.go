package service

import (
	"context"
	"testing"

	"github.com/hondana/bookmarket-backend/internal/model"
	"github.com/hondana/bookmarket-backend/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCartEnv(t *testing.T) (*gorm.DB, CartService) {
	t.Helper()
	db := newTestDB(t)
	svc := NewCartService(
		repository.NewCartRepository(db),
		repository.NewListingRepository(db),
	)
	return db, svc
}

func TestAddItemDeduplicates(t *testing.T) {
	db, svc := newCartEnv(t)
	ctx := context.Background()

	l := seedListing(t, db, "seller-1", "Concrete Mathematics", 38)

	first, err := svc.AddItem(ctx, "buyer-1", l.ID)
	require.NoError(t, err)
	second, err := svc.AddItem(ctx, "buyer-1", l.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.CartItem{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestAddItemRejectsOwnListing(t *testing.T) {
	db, svc := newCartEnv(t)

	l := seedListing(t, db, "seller-1", "SPQR", 14)
	_, err := svc.AddItem(context.Background(), "seller-1", l.ID)
	require.Error(t, err)
}

func TestAddItemRejectsSoldListing(t *testing.T) {
	db, svc := newCartEnv(t)

	l := seedListing(t, db, "seller-1", "Kindred", 12)
	require.NoError(t, db.Model(&model.Listing{}).
		Where("id = ?", l.ID).
		Update("status", model.ListingStatusSold).Error)

	_, err := svc.AddItem(context.Background(), "buyer-1", l.ID)
	require.ErrorIs(t, err, ErrListingUnavailable)
}

func TestAddItemMissingListing(t *testing.T) {
	_, svc := newCartEnv(t)

	_, err := svc.AddItem(context.Background(), "buyer-1", 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListCartReturnsDetails(t *testing.T) {
	db, svc := newCartEnv(t)
	ctx := context.Background()

	l := seedListing(t, db, "seller-1", "Invisible Cities", 10)
	seedCartItem(t, db, "buyer-1", l.ID)

	rows, err := svc.ListCart(ctx, "buyer-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Invisible Cities", rows[0].Title)
	require.Equal(t, int64(10), rows[0].Price)
	require.Equal(t, "seller-1", rows[0].SellerUID)
}

func TestRemoveItemScopedToOwner(t *testing.T) {
	db, svc := newCartEnv(t)
	ctx := context.Background()

	l := seedListing(t, db, "seller-1", "Pompeii", 14)
	item := seedCartItem(t, db, "buyer-1", l.ID)

	err := svc.RemoveItem(ctx, "buyer-2", item.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.RemoveItem(ctx, "buyer-1", item.ID))

	var count int64
	require.NoError(t, db.Model(&model.CartItem{}).Count(&count).Error)
	require.Zero(t, count)
}
