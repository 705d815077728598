package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/hondana/bookmarket-backend/internal/model"
	"github.com/hondana/bookmarket-backend/internal/repository"
	"github.com/hondana/bookmarket-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ListingHandler struct {
	svc service.ListingService
}

func NewListingHandler(svc service.ListingService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

type CreateListingRequest struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	Price       int64   `json:"price"`
	ImageURL    *string `json:"imageUrl"`
}

type ListingResponse struct {
	ID        uint64  `json:"id"`
	SellerUID string  `json:"sellerUid"`
	BookID    uint64  `json:"bookId"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Price     int64   `json:"price"`
	ImageURL  *string `json:"imageUrl,omitempty"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
}

type ListingListResponse struct {
	Listings []ListingResponse `json:"listings"`
	Total    int64             `json:"total"`
}

func toListingResponse(l *model.Listing, b *model.Book) ListingResponse {
	resp := ListingResponse{
		ID:        l.ID,
		SellerUID: l.SellerUID,
		BookID:    l.BookID,
		Price:     l.Price,
		ImageURL:  l.ImageURL,
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
	if b != nil {
		resp.Title = b.Title
		resp.Author = b.Author
	}
	return resp
}

func toListingResponses(rows []repository.ListingWithBook) []ListingResponse {
	resp := make([]ListingResponse, 0, len(rows))
	for _, row := range rows {
		listing := row.Listing
		resp = append(resp, toListingResponse(&listing, row.Book))
	}
	return resp
}

func (h *ListingHandler) Create(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	listing, book, err := h.svc.Create(c.Request().Context(), uid, service.CreateListingInput{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toListingResponse(listing, book))
}

func (h *ListingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid listing id"))
	}
	listing, book, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listing"))
	}
	return c.JSON(http.StatusOK, toListingResponse(listing, book))
}

func (h *ListingHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	rows, total, err := h.svc.List(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listings"))
	}
	return c.JSON(http.StatusOK, ListingListResponse{
		Listings: toListingResponses(rows),
		Total:    total,
	})
}

func (h *ListingHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	rows, err := h.svc.ListBySeller(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listings"))
	}
	return c.JSON(http.StatusOK, toListingResponses(rows))
}

func (h *ListingHandler) Remove(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid listing id"))
	}
	if err := h.svc.Remove(c.Request().Context(), id, uid); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not your listing"))
		case errors.Is(err, service.ErrListingUnavailable):
			return c.JSON(http.StatusConflict, NewErrorResponse("listing_unavailable", "listing is not available"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to remove listing"))
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
