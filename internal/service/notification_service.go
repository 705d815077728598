package service

import (
	"context"
	"fmt"

	"github.com/hondana/bookmarket-backend/internal/model"
	"github.com/hondana/bookmarket-backend/internal/repository"
)

type NotificationService interface {
	NotifyOrderPlaced(ctx context.Context, order *model.Order, bookTitle string) error
	NotifyMessageReceived(ctx context.Context, msg *model.Message) error
	List(ctx context.Context, userUID string, limit int) ([]model.Notification, error)
	MarkAllRead(ctx context.Context, userUID string) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// NotifyOrderPlaced tells the seller one of their listings sold. Callers
// treat this as best-effort; a failed notification never fails a checkout.
func (s *notificationService) NotifyOrderPlaced(ctx context.Context, order *model.Order, bookTitle string) error {
	if order == nil || order.SellerUID == "" {
		return nil
	}
	listingID := order.ListingID
	orderID := order.ID
	n := &model.Notification{
		UserUID:   order.SellerUID,
		Type:      "order_placed",
		Title:     "Your book sold",
		Body:      fmt.Sprintf("%q was purchased. Order total: %d.", bookTitle, order.TotalAmount),
		ListingID: &listingID,
		OrderID:   &orderID,
	}
	return s.repo.Create(ctx, n)
}

func (s *notificationService) NotifyMessageReceived(ctx context.Context, msg *model.Message) error {
	if msg == nil || msg.ReceiverUID == "" {
		return nil
	}
	body := msg.Content
	if len(body) > 120 {
		body = body[:120]
	}
	n := &model.Notification{
		UserUID:   msg.ReceiverUID,
		Type:      "message_received",
		Title:     "New message",
		Body:      body,
		ListingID: msg.ListingID,
	}
	return s.repo.Create(ctx, n)
}

func (s *notificationService) List(ctx context.Context, userUID string, limit int) ([]model.Notification, error) {
	if userUID == "" {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUser(ctx, userUID, limit)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userUID string) error {
	if userUID == "" {
		return nil
	}
	_, err := s.repo.MarkAllRead(ctx, userUID)
	return err
}
