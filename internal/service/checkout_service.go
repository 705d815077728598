package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hondana/bookmarket-backend/internal/model"
	"github.com/hondana/bookmarket-backend/internal/payment"
	"github.com/hondana/bookmarket-backend/internal/repository"
)

var (
	ErrForbidden           = errors.New("forbidden")
	ErrPaymentNotCompleted = errors.New("payment_not_completed")
	ErrPaymentProvider     = errors.New("payment_provider_error")
	ErrStoreWrite          = errors.New("store_write_failed")
	ErrListingUnavailable  = errors.New("listing_unavailable")
)

const (
	metaBuyerUID    = "buyer_uid"
	metaCartItemIDs = "cart_item_ids"
)

type CheckoutService interface {
	BeginCheckout(ctx context.Context, buyerUID string, cartItemIDs []uint64) (*payment.CheckoutSession, error)
	FinalizeCheckout(ctx context.Context, buyerUID, sessionID string) (int, error)
	ListByBuyer(ctx context.Context, buyerUID string) ([]model.Order, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.Order, error)
}

type checkoutService struct {
	cartRepo  repository.CartRepository
	orderRepo repository.OrderRepository
	payments  payment.Provider
	notify    NotificationService
}

func NewCheckoutService(cartRepo repository.CartRepository, orderRepo repository.OrderRepository, payments payment.Provider, notify NotificationService) CheckoutService {
	return &checkoutService{cartRepo: cartRepo, orderRepo: orderRepo, payments: payments, notify: notify}
}

// BeginCheckout re-queries the referenced cart items scoped to the buyer,
// prices each line from the listings table, and opens a hosted checkout
// session. The buyer uid and the validated cart-item ids travel in the
// session metadata so finalization never trusts fresh client input.
func (s *checkoutService) BeginCheckout(ctx context.Context, buyerUID string, cartItemIDs []uint64) (*payment.CheckoutSession, error) {
	if buyerUID == "" {
		return nil, errors.New("buyer is required")
	}
	if len(cartItemIDs) == 0 {
		return nil, errors.New("cartItemIds is required")
	}
	details, err := s.cartRepo.FindDetails(ctx, buyerUID, cartItemIDs)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrNotFound
	}

	items := make([]payment.LineItem, 0, len(details))
	ids := make([]string, 0, len(details))
	for _, d := range details {
		qty := int64(d.Quantity)
		if qty < 1 {
			qty = 1
		}
		items = append(items, payment.LineItem{
			Name:       d.Title,
			UnitAmount: d.Price * 100,
			Quantity:   qty,
		})
		ids = append(ids, strconv.FormatUint(d.CartItemID, 10))
	}
	meta := map[string]string{
		metaBuyerUID:    buyerUID,
		metaCartItemIDs: strings.Join(ids, ","),
	}
	sess, err := s.payments.CreateSession(ctx, items, meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}
	return sess, nil
}

// FinalizeCheckout retrieves the session, verifies the funds are captured,
// and materializes one completed order per cart item recorded in the
// session metadata, flipping each listing to sold and clearing the cart in
// a single transaction. A session whose cart items are already gone
// finalizes to zero orders, which makes retries idempotent.
func (s *checkoutService) FinalizeCheckout(ctx context.Context, buyerUID, sessionID string) (int, error) {
	if buyerUID == "" {
		return 0, errors.New("buyer is required")
	}
	if sessionID == "" {
		return 0, errors.New("sessionId is required")
	}
	sess, err := s.payments.RetrieveSession(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}
	if !sess.Paid {
		return 0, ErrPaymentNotCompleted
	}
	if owner := sess.Metadata[metaBuyerUID]; owner != "" && owner != buyerUID {
		return 0, ErrForbidden
	}
	ids := parseIDList(sess.Metadata[metaCartItemIDs])
	if len(ids) == 0 {
		return 0, nil
	}
	details, err := s.cartRepo.FindDetails(ctx, buyerUID, ids)
	if err != nil {
		return 0, err
	}
	if len(details) == 0 {
		// already finalized (or the cart was cleared); nothing to do
		return 0, nil
	}

	orders := make([]model.Order, 0, len(details))
	cartItemIDs := make([]uint64, 0, len(details))
	for _, d := range details {
		orders = append(orders, model.Order{
			BuyerUID:    buyerUID,
			SellerUID:   d.SellerUID,
			ListingID:   d.ListingID,
			TotalAmount: d.Price,
			Status:      model.OrderStatusCompleted,
			PaymentID:   sess.PaymentRef,
		})
		cartItemIDs = append(cartItemIDs, d.CartItemID)
	}
	if err := s.orderRepo.CreateForCheckout(ctx, orders, cartItemIDs); err != nil {
		if errors.Is(err, repository.ErrListingUnavailable) {
			return 0, ErrListingUnavailable
		}
		return 0, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	if s.notify != nil {
		for i := range orders {
			_ = s.notify.NotifyOrderPlaced(ctx, &orders[i], details[i].Title)
		}
	}
	return len(orders), nil
}

func (s *checkoutService) ListByBuyer(ctx context.Context, buyerUID string) ([]model.Order, error) {
	if buyerUID == "" {
		return nil, errors.New("buyer is required")
	}
	return s.orderRepo.ListByBuyer(ctx, buyerUID)
}

func (s *checkoutService) ListBySeller(ctx context.Context, sellerUID string) ([]model.Order, error) {
	if sellerUID == "" {
		return nil, errors.New("seller is required")
	}
	return s.orderRepo.ListBySeller(ctx, sellerUID)
}

func parseIDList(raw string) []uint64 {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
