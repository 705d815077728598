package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hondana/bookmarket-backend/internal/model"
	"github.com/hondana/bookmarket-backend/internal/payment"
	"github.com/hondana/bookmarket-backend/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeProvider struct {
	sessions  map[string]*payment.CheckoutSession
	lastItems []payment.LineItem
	createErr error
	seq       int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{sessions: map[string]*payment.CheckoutSession{}}
}

func (f *fakeProvider) CreateSession(_ context.Context, items []payment.LineItem, metadata map[string]string) (*payment.CheckoutSession, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	f.lastItems = items
	id := fmt.Sprintf("cs_test_%d", f.seq)
	s := &payment.CheckoutSession{
		ID:           id,
		ClientSecret: id + "_secret",
		Metadata:     metadata,
	}
	f.sessions[id] = s
	return s, nil
}

func (f *fakeProvider) RetrieveSession(_ context.Context, id string) (*payment.CheckoutSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, errors.New("no such session")
	}
	return s, nil
}

func (f *fakeProvider) markPaid(id, ref string) {
	f.sessions[id].Paid = true
	f.sessions[id].PaymentRef = ref
}

func newCheckoutEnv(t *testing.T) (*gorm.DB, *fakeProvider, CheckoutService) {
	t.Helper()
	db := newTestDB(t)
	provider := newFakeProvider()
	notify := NewNotificationService(repository.NewNotificationRepository(db))
	svc := NewCheckoutService(
		repository.NewCartRepository(db),
		repository.NewOrderRepository(db),
		provider,
		notify,
	)
	return db, provider, svc
}

func TestBeginCheckoutPricesFromStore(t *testing.T) {
	db, provider, svc := newCheckoutEnv(t)
	ctx := context.Background()

	l1 := seedListing(t, db, "seller-1", "The Dispossessed", 199)
	l2 := seedListing(t, db, "seller-2", "Invisible Cities", 350)
	c1 := seedCartItem(t, db, "buyer-1", l1.ID)
	c2 := seedCartItem(t, db, "buyer-1", l2.ID)

	sess, err := svc.BeginCheckout(ctx, "buyer-1", []uint64{c1.ID, c2.ID})
	require.NoError(t, err)
	require.NotEmpty(t, sess.ClientSecret)

	require.Len(t, provider.lastItems, 2)
	var total int64
	for _, it := range provider.lastItems {
		total += it.UnitAmount * it.Quantity
	}
	require.Equal(t, int64(54900), total)
	require.Equal(t, "buyer-1", sess.Metadata["buyer_uid"])
	require.Equal(t, fmt.Sprintf("%d,%d", c1.ID, c2.ID), sess.Metadata["cart_item_ids"])
}

func TestBeginCheckoutRejectsForeignCartItems(t *testing.T) {
	db, provider, svc := newCheckoutEnv(t)
	ctx := context.Background()

	l1 := seedListing(t, db, "seller-1", "Kindred", 120)
	c1 := seedCartItem(t, db, "buyer-2", l1.ID)

	_, err := svc.BeginCheckout(ctx, "buyer-1", []uint64{c1.ID})
	require.ErrorIs(t, err, ErrNotFound)
	require.Empty(t, provider.sessions)
}

func TestBeginCheckoutEmptyInput(t *testing.T) {
	_, provider, svc := newCheckoutEnv(t)

	_, err := svc.BeginCheckout(context.Background(), "buyer-1", nil)
	require.Error(t, err)
	require.Empty(t, provider.sessions)
}

func TestFinalizeCheckoutIdempotent(t *testing.T) {
	db, provider, svc := newCheckoutEnv(t)
	ctx := context.Background()

	l1 := seedListing(t, db, "seller-1", "The Dispossessed", 199)
	l2 := seedListing(t, db, "seller-2", "Invisible Cities", 350)
	c1 := seedCartItem(t, db, "buyer-1", l1.ID)
	c2 := seedCartItem(t, db, "buyer-1", l2.ID)

	sess, err := svc.BeginCheckout(ctx, "buyer-1", []uint64{c1.ID, c2.ID})
	require.NoError(t, err)
	provider.markPaid(sess.ID, "pay_1")

	created, err := svc.FinalizeCheckout(ctx, "buyer-1", sess.ID)
	require.NoError(t, err)
	require.Equal(t, 2, created)

	var orders []model.Order
	require.NoError(t, db.Order("listing_id").Find(&orders).Error)
	require.Len(t, orders, 2)
	require.Equal(t, int64(199), orders[0].TotalAmount)
	require.Equal(t, int64(350), orders[1].TotalAmount)
	for _, o := range orders {
		require.Equal(t, model.OrderStatusCompleted, o.Status)
		require.Equal(t, "pay_1", o.PaymentID)
		require.Equal(t, "buyer-1", o.BuyerUID)
	}
	require.Equal(t, "seller-1", orders[0].SellerUID)
	require.Equal(t, "seller-2", orders[1].SellerUID)

	var listings []model.Listing
	require.NoError(t, db.Find(&listings).Error)
	for _, l := range listings {
		require.Equal(t, model.ListingStatusSold, l.Status)
	}

	var cartCount int64
	require.NoError(t, db.Model(&model.CartItem{}).Count(&cartCount).Error)
	require.Zero(t, cartCount)

	var notifCount int64
	require.NoError(t, db.Model(&model.Notification{}).Where("type = ?", "order_placed").Count(&notifCount).Error)
	require.Equal(t, int64(2), notifCount)

	// retry with the same completed session: nothing left to finalize
	created, err = svc.FinalizeCheckout(ctx, "buyer-1", sess.ID)
	require.NoError(t, err)
	require.Zero(t, created)

	var orderCount int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orderCount).Error)
	require.Equal(t, int64(2), orderCount)
}

func TestFinalizeCheckoutUnpaid(t *testing.T) {
	db, _, svc := newCheckoutEnv(t)
	ctx := context.Background()

	l1 := seedListing(t, db, "seller-1", "SPQR", 140)
	c1 := seedCartItem(t, db, "buyer-1", l1.ID)

	sess, err := svc.BeginCheckout(ctx, "buyer-1", []uint64{c1.ID})
	require.NoError(t, err)

	_, err = svc.FinalizeCheckout(ctx, "buyer-1", sess.ID)
	require.ErrorIs(t, err, ErrPaymentNotCompleted)

	var orderCount int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orderCount).Error)
	require.Zero(t, orderCount)

	var cartCount int64
	require.NoError(t, db.Model(&model.CartItem{}).Count(&cartCount).Error)
	require.Equal(t, int64(1), cartCount)
}

func TestFinalizeCheckoutWrongBuyer(t *testing.T) {
	db, provider, svc := newCheckoutEnv(t)
	ctx := context.Background()

	l1 := seedListing(t, db, "seller-1", "Pompeii", 150)
	c1 := seedCartItem(t, db, "buyer-1", l1.ID)

	sess, err := svc.BeginCheckout(ctx, "buyer-1", []uint64{c1.ID})
	require.NoError(t, err)
	provider.markPaid(sess.ID, "pay_2")

	_, err = svc.FinalizeCheckout(ctx, "buyer-2", sess.ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestFinalizeCheckoutListingSoldMeanwhile(t *testing.T) {
	db, provider, svc := newCheckoutEnv(t)
	ctx := context.Background()

	l1 := seedListing(t, db, "seller-1", "Norwegian Wood", 90)
	l2 := seedListing(t, db, "seller-1", "Kafka on the Shore", 95)
	c1 := seedCartItem(t, db, "buyer-1", l1.ID)
	c2 := seedCartItem(t, db, "buyer-1", l2.ID)

	sess, err := svc.BeginCheckout(ctx, "buyer-1", []uint64{c1.ID, c2.ID})
	require.NoError(t, err)
	provider.markPaid(sess.ID, "pay_3")

	// another checkout won the race for l1
	require.NoError(t, db.Model(&model.Listing{}).
		Where("id = ?", l1.ID).
		Update("status", model.ListingStatusSold).Error)

	_, err = svc.FinalizeCheckout(ctx, "buyer-1", sess.ID)
	require.ErrorIs(t, err, ErrListingUnavailable)

	// the whole batch rolled back: no orders, cart untouched, l2 unsold
	var orderCount int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orderCount).Error)
	require.Zero(t, orderCount)

	var cartCount int64
	require.NoError(t, db.Model(&model.CartItem{}).Count(&cartCount).Error)
	require.Equal(t, int64(2), cartCount)

	var l2After model.Listing
	require.NoError(t, db.First(&l2After, l2.ID).Error)
	require.Equal(t, model.ListingStatusAvailable, l2After.Status)
}
