package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/hondana/bookmarket-backend/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.Profile{},
		&model.Book{},
		&model.Listing{},
		&model.CartItem{},
		&model.Order{},
		&model.Message{},
		&model.Notification{},
	))
	return db
}

func seedListing(t *testing.T, db *gorm.DB, sellerUID, title string, price int64) *model.Listing {
	t.Helper()
	book := model.Book{Title: title, Author: "Test Author"}
	require.NoError(t, db.Create(&book).Error)
	listing := model.Listing{
		SellerUID: sellerUID,
		BookID:    book.ID,
		Price:     price,
		Status:    model.ListingStatusAvailable,
	}
	require.NoError(t, db.Create(&listing).Error)
	return &listing
}

func seedCartItem(t *testing.T, db *gorm.DB, buyerUID string, listingID uint64) *model.CartItem {
	t.Helper()
	item := model.CartItem{BuyerUID: buyerUID, ListingID: listingID, Quantity: 1}
	require.NoError(t, db.Create(&item).Error)
	return &item
}
