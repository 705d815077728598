package service

import (
	"context"
	"errors"
	"strings"

	"github.com/hondana/bookmarket-backend/internal/model"
	"github.com/hondana/bookmarket-backend/internal/repository"
)

// Conversation is a derived grouping of messages by counterpart. It is
// never persisted; the message table is the source of truth.
type Conversation struct {
	OtherUID    string
	Profile     *model.Profile
	LastMessage model.Message
	UnreadCount int
	Messages    []model.Message
}

type ConversationService interface {
	ListConversations(ctx context.Context, uid string) ([]Conversation, error)
	GetThread(ctx context.Context, uid, otherUID string) ([]model.Message, error)
	SendMessage(ctx context.Context, uid, receiverUID, content string, listingID *uint64) (*model.Message, error)
}

type conversationService struct {
	msgRepo     repository.MessageRepository
	profileRepo repository.ProfileRepository
	notify      NotificationService
}

func NewConversationService(msgRepo repository.MessageRepository, profileRepo repository.ProfileRepository, notify NotificationService) ConversationService {
	return &conversationService{msgRepo: msgRepo, profileRepo: profileRepo, notify: notify}
}

// ListConversations scans the user's messages newest-first and groups them
// by counterpart. First-seen order over a newest-first scan means the
// result is ordered by the recency of each conversation's last message.
// A counterpart without a profile row still yields a conversation, with a
// nil profile.
func (s *conversationService) ListConversations(ctx context.Context, uid string) ([]Conversation, error) {
	msgs, err := s.msgRepo.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	var order []string
	groups := make(map[string][]model.Message)
	for _, m := range msgs {
		other := m.SenderUID
		if other == uid {
			other = m.ReceiverUID
		}
		if _, seen := groups[other]; !seen {
			order = append(order, other)
		}
		groups[other] = append(groups[other], m)
	}

	profiles, err := s.profileRepo.FindByUIDs(ctx, order)
	if err != nil {
		return nil, err
	}

	convs := make([]Conversation, 0, len(order))
	for _, other := range order {
		group := groups[other]
		unread := 0
		for _, m := range group {
			if m.ReceiverUID == uid && !m.Read {
				unread++
			}
		}
		cv := Conversation{
			OtherUID:    other,
			LastMessage: group[0],
			UnreadCount: unread,
			Messages:    group,
		}
		if p, ok := profiles[other]; ok {
			profile := p
			cv.Profile = &profile
		}
		convs = append(convs, cv)
	}
	return convs, nil
}

// GetThread returns the two-party thread oldest-first and marks every
// message addressed to the caller as read, whether or not the caller
// scrolled to it.
func (s *conversationService) GetThread(ctx context.Context, uid, otherUID string) ([]model.Message, error) {
	if otherUID == "" {
		return nil, errors.New("other user is required")
	}
	if _, err := s.msgRepo.MarkThreadRead(ctx, uid, otherUID); err != nil {
		return nil, err
	}
	return s.msgRepo.ListThread(ctx, uid, otherUID)
}

func (s *conversationService) SendMessage(ctx context.Context, uid, receiverUID, content string, listingID *uint64) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if receiverUID == "" {
		return nil, errors.New("receiver is required")
	}
	if content == "" {
		return nil, errors.New("content is required")
	}
	if receiverUID == uid {
		return nil, errors.New("cannot message yourself")
	}
	msg := &model.Message{
		SenderUID:   uid,
		ReceiverUID: receiverUID,
		ListingID:   listingID,
		Content:     content,
		Read:        false,
	}
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	if s.notify != nil {
		_ = s.notify.NotifyMessageReceived(ctx, msg)
	}
	return msg, nil
}
