package booking

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/availability", h.MergedAvailability)
}

// MergedAvailability answers
// GET /availability?payer_id=...&from=YYYY-MM-DD&to=YYYY-MM-DD.
// to defaults to from; duration and buffer fall back to clinic defaults.
func (h *Handler) MergedAvailability(c echo.Context) error {
	payerID, err := uuid.Parse(c.QueryParam("payer_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "payer_id is required")
	}
	from, err := time.Parse("2006-01-02", c.QueryParam("from"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
	}
	to := from
	if raw := c.QueryParam("to"); raw != "" {
		to, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
		}
	}

	req := AvailabilityRequest{PayerID: payerID, From: from, To: to, BufferMinutes: -1}
	if raw := c.QueryParam("provider_id"); raw != "" {
		providerID, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid provider_id")
		}
		req.ProviderID = &providerID
	}
	if raw := c.QueryParam("duration"); raw != "" {
		req.DurationMinutes, err = strconv.Atoi(raw)
		if err != nil || req.DurationMinutes <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid duration")
		}
	}
	if raw := c.QueryParam("buffer"); raw != "" {
		req.BufferMinutes, err = strconv.Atoi(raw)
		if err != nil || req.BufferMinutes < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid buffer")
		}
	}

	result, err := h.svc.MergedAvailability(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if result.Slots == nil {
		result.Slots = []AvailableSlot{}
	}
	if result.Providers == nil {
		result.Providers = []ProviderSummary{}
	}
	return c.JSON(http.StatusOK, result)
}
