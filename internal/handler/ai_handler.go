package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// PriceSuggester answers with a suggested asking price in major currency
// units.
type PriceSuggester interface {
	Suggest(ctx context.Context, title, author, description string) (int64, error)
}

type AIHandler struct {
	suggester PriceSuggester
	timeout   time.Duration
}

func NewAIHandler(suggester PriceSuggester) *AIHandler {
	return &AIHandler{suggester: suggester, timeout: 20 * time.Second}
}

type suggestPriceRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
}

func (h *AIHandler) SuggestPrice(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req suggestPriceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "title is required"))
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()
	price, err := h.suggester.Suggest(ctx, req.Title, req.Author, req.Description)
	if err != nil {
		return c.JSON(http.StatusBadGateway, NewErrorResponse("upstream_error", "failed to suggest price"))
	}
	return c.JSON(http.StatusOK, map[string]int64{"suggestedPrice": price})
}
