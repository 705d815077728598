package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/hondana/bookmarket-backend/internal/model"
	"github.com/hondana/bookmarket-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	svc service.CheckoutService
}

func NewCheckoutHandler(svc service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

type BeginCheckoutRequest struct {
	CartItemIDs []uint64 `json:"cartItemIds"`
}

type BeginCheckoutResponse struct {
	SessionID    string `json:"sessionId"`
	ClientSecret string `json:"clientSecret"`
}

type FinalizeCheckoutRequest struct {
	SessionID string `json:"sessionId"`
}

type FinalizeCheckoutResponse struct {
	Success       bool `json:"success"`
	OrdersCreated int  `json:"ordersCreated"`
}

func (h *CheckoutHandler) Begin(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req BeginCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	sess, err := h.svc.BeginCheckout(c.Request().Context(), uid, req.CartItemIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "no matching cart items"))
		case errors.Is(err, service.ErrPaymentProvider):
			return c.JSON(http.StatusBadGateway, NewErrorResponse("payment_provider_error", "failed to create checkout session"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusOK, BeginCheckoutResponse{
		SessionID:    sess.ID,
		ClientSecret: sess.ClientSecret,
	})
}

func (h *CheckoutHandler) Finalize(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req FinalizeCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	created, err := h.svc.FinalizeCheckout(c.Request().Context(), uid, req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotCompleted):
			return c.JSON(http.StatusConflict, NewErrorResponse("payment_not_completed", "session is not paid"))
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "session belongs to another buyer"))
		case errors.Is(err, service.ErrListingUnavailable):
			return c.JSON(http.StatusConflict, NewErrorResponse("listing_unavailable", "a listing is no longer available"))
		case errors.Is(err, service.ErrPaymentProvider):
			return c.JSON(http.StatusBadGateway, NewErrorResponse("payment_provider_error", "failed to retrieve checkout session"))
		case errors.Is(err, service.ErrStoreWrite):
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to record orders"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusOK, FinalizeCheckoutResponse{
		Success:       true,
		OrdersCreated: created,
	})
}

type OrderResponse struct {
	ID          uint64 `json:"id"`
	BuyerUID    string `json:"buyerUid"`
	SellerUID   string `json:"sellerUid"`
	ListingID   uint64 `json:"listingId"`
	TotalAmount int64  `json:"totalAmount"`
	Status      string `json:"status"`
	PaymentID   string `json:"paymentId"`
	CreatedAt   string `json:"createdAt"`
}

func toOrderResponse(o model.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		BuyerUID:    o.BuyerUID,
		SellerUID:   o.SellerUID,
		ListingID:   o.ListingID,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		PaymentID:   o.PaymentID,
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
	}
}

func (h *CheckoutHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	orders, err := h.svc.ListByBuyer(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch orders"))
	}
	resp := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CheckoutHandler) ListSales(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	orders, err := h.svc.ListBySeller(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch sales"))
	}
	resp := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	return c.JSON(http.StatusOK, resp)
}
