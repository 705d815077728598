package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hondana/bookmarket-backend/internal/repository"
	"github.com/hondana/bookmarket-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	svc service.CartService
}

func NewCartHandler(svc service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

type AddCartItemRequest struct {
	ListingID uint64 `json:"listingId"`
}

type CartItemResponse struct {
	ID        uint64  `json:"id"`
	ListingID uint64  `json:"listingId"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Price     int64   `json:"price"`
	Quantity  uint    `json:"quantity"`
	ImageURL  *string `json:"imageUrl,omitempty"`
}

func toCartItemResponse(d repository.CartItemDetail) CartItemResponse {
	return CartItemResponse{
		ID:        d.CartItemID,
		ListingID: d.ListingID,
		Title:     d.Title,
		Author:    d.Author,
		Price:     d.Price,
		Quantity:  d.Quantity,
		ImageURL:  d.ImageURL,
	}
}

func (h *CartHandler) List(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	rows, err := h.svc.ListCart(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch cart"))
	}
	resp := make([]CartItemResponse, 0, len(rows))
	for _, d := range rows {
		resp = append(resp, toCartItemResponse(d))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) Add(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if req.ListingID == 0 {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "listingId is required"))
	}
	item, err := h.svc.AddItem(c.Request().Context(), uid, req.ListingID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		case errors.Is(err, service.ErrListingUnavailable):
			return c.JSON(http.StatusConflict, NewErrorResponse("listing_unavailable", "listing is not available"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHandler) Remove(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid cart item id"))
	}
	if err := h.svc.RemoveItem(c.Request().Context(), uid, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "cart item not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to remove cart item"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
