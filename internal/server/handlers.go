// Package server provides HTTP handlers and server setup for the market-data gateway.
package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"stockd/internal/core"
	"stockd/internal/marketdata"
)

// Handler holds the HTTP handlers
type Handler struct {
	svc *marketdata.Service
}

// NewHandler creates a new handler backed by the market-data service
func NewHandler(svc *marketdata.Service) *Handler {
	return &Handler{svc: svc}
}

// Price handles GET /api/price/:ticker
func (h *Handler) Price(c echo.Context) error {
	quote, err := h.svc.GetPrice(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, quote)
}

// Historical handles GET /api/historical/:ticker?days=365
func (h *Handler) Historical(c echo.Context) error {
	days, err := intQuery(c, "days")
	if err != nil {
		return handleError(c, err)
	}

	records, err := h.svc.GetHistorical(c.Request().Context(), c.Param("ticker"), days)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

// Dividends handles GET /api/dividends/:ticker?limit=10
func (h *Handler) Dividends(c echo.Context) error {
	limit, err := intQuery(c, "limit")
	if err != nil {
		return handleError(c, err)
	}

	dividends, err := h.svc.GetDividends(c.Request().Context(), c.Param("ticker"), limit)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, dividends)
}

// Health handles GET /health. Cache liveness is reported, never enforced:
// the service stays healthy with the cache down.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"provider": h.svc.Provider(),
		"cache":    h.svc.CacheAlive(c.Request().Context()),
	})
}

// Root handles GET /
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "stockd live",
		"provider": h.svc.Provider(),
		"health":   "/health",
	})
}

// intQuery parses an optional positive integer query parameter.
// Absent means 0, letting the service apply its default.
func intQuery(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, core.NewInvalidRequestError(name+" must be a non-negative integer", err)
	}
	return v, nil
}

// handleError converts gateway errors to appropriate HTTP responses
func handleError(c echo.Context, err error) error {
	var marketErr *core.MarketError
	if errors.As(err, &marketErr) {
		return c.JSON(marketErr.HTTPStatusCode(), marketErr.ToJSON())
	}

	// Fallback for unexpected errors
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": map[string]interface{}{
			"type":    "internal_error",
			"message": "an unexpected error occurred",
		},
	})
}
