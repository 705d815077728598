package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/hondana/bookmarket-backend/internal/model"
	"github.com/hondana/bookmarket-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ConversationHandler struct {
	svc service.ConversationService
}

func NewConversationHandler(svc service.ConversationService) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

type ConversationProfile struct {
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

type ConversationResponse struct {
	OtherUID    string               `json:"otherUid"`
	Profile     *ConversationProfile `json:"profile,omitempty"`
	LastMessage MessageResponse      `json:"lastMessage"`
	UnreadCount int                  `json:"unreadCount"`
}

type MessageResponse struct {
	ID          uint64  `json:"id"`
	SenderUID   string  `json:"senderUid"`
	ReceiverUID string  `json:"receiverUid"`
	ListingID   *uint64 `json:"listingId,omitempty"`
	Content     string  `json:"content"`
	Read        bool    `json:"read"`
	CreatedAt   string  `json:"createdAt"`
}

type SendMessageRequest struct {
	ReceiverUID string  `json:"receiverUid"`
	Content     string  `json:"content"`
	ListingID   *uint64 `json:"listingId"`
}

func toMessageResponse(m model.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		SenderUID:   m.SenderUID,
		ReceiverUID: m.ReceiverUID,
		ListingID:   m.ListingID,
		Content:     m.Content,
		Read:        m.Read,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ConversationHandler) List(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	convs, err := h.svc.ListConversations(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch conversations"))
	}
	resp := make([]ConversationResponse, 0, len(convs))
	for _, cv := range convs {
		out := ConversationResponse{
			OtherUID:    cv.OtherUID,
			LastMessage: toMessageResponse(cv.LastMessage),
			UnreadCount: cv.UnreadCount,
		}
		if cv.Profile != nil {
			out.Profile = &ConversationProfile{
				DisplayName: cv.Profile.DisplayName,
				AvatarURL:   cv.Profile.AvatarURL,
			}
		}
		resp = append(resp, out)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ConversationHandler) GetThread(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	otherUID := c.Param("uid")
	if otherUID == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid user id"))
	}
	msgs, err := h.svc.GetThread(c.Request().Context(), uid, otherUID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch thread"))
	}
	resp := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, toMessageResponse(m))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ConversationHandler) SendMessage(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	msg, err := h.svc.SendMessage(c.Request().Context(), uid, req.ReceiverUID, req.Content, req.ListingID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "receiver not found"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toMessageResponse(*msg))
}
