package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

type scheduleReq struct {
	Weekday  int               `json:"weekday"`
	Service  model.ServiceType `json:"service"`
	OpensAt  string            `json:"opens_at"`
	ClosesAt string            `json:"closes_at"`
	Capacity int               `json:"capacity"`
	IsActive *bool             `json:"is_active"`
}

// UpsertSchedule handles PUT /v1/restaurants/:id/schedules. One row per
// weekday+service; posting the same pair again overwrites it, so the
// weekly grid is edited cell by cell without delete-then-create dances.
func (h *OwnerHandler) UpsertSchedule(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	var body scheduleReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Weekday < 0 || body.Weekday > 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "weekday must be 0..6"})
	}
	if !body.Service.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown service"})
	}
	for _, v := range []string{body.OpensAt, body.ClosesAt} {
		if _, err := time.Parse("15:04", v); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "opens_at/closes_at must be HH:MM"})
		}
	}
	s := &model.Schedule{
		RestaurantID: rest.ID,
		Weekday:      body.Weekday,
		Service:      body.Service,
		OpensAt:      body.OpensAt,
		ClosesAt:     body.ClosesAt,
		Capacity:     body.Capacity,
		IsActive:     true,
	}
	if body.IsActive != nil {
		s.IsActive = *body.IsActive
	}
	if err := h.Schedules.Upsert(c.Request().Context(), s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save schedule"})
	}
	return c.JSON(http.StatusOK, s)
}

// ListSchedules handles GET /v1/restaurants/:id/schedules.
func (h *OwnerHandler) ListSchedules(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	items, err := h.Schedules.ListByRestaurant(c.Request().Context(), rest.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteSchedule handles DELETE /v1/restaurants/:id/schedules/:scheduleID.
func (h *OwnerHandler) DeleteSchedule(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	scheduleID, err := strconv.ParseUint(c.Param("scheduleID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	if err := h.Schedules.Delete(c.Request().Context(), scheduleID, rest.ID); err != nil {
		if err == repository.ErrScheduleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type blockReq struct {
	Date    string             `json:"date"`    // YYYY-MM-DD in the restaurant's timezone
	Service *model.ServiceType `json:"service"` // null closes the whole day
	Reason  string             `json:"reason"`
}

// CreateBlock handles POST /v1/restaurants/:id/blocks: an exceptional
// closure for one date, optionally scoped to a single service.
func (h *OwnerHandler) CreateBlock(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	var body blockReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	day, err := parseLocalDate(body.Date, rest.Location())
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if body.Service != nil && !body.Service.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown service"})
	}
	b := &model.Block{
		RestaurantID: rest.ID,
		Date:         day,
		Service:      body.Service,
		Reason:       strings.TrimSpace(body.Reason),
	}
	if err := h.Blocks.Create(c.Request().Context(), b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create block"})
	}
	return c.JSON(http.StatusCreated, b)
}

// ListBlocks handles GET /v1/restaurants/:id/blocks?from=&to=.
func (h *OwnerHandler) ListBlocks(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	loc := rest.Location()
	var from, to time.Time
	if s := c.QueryParam("from"); s != "" {
		if from, err = parseLocalDate(s, loc); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be YYYY-MM-DD"})
		}
	}
	if s := c.QueryParam("to"); s != "" {
		if to, err = parseLocalDate(s, loc); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be YYYY-MM-DD"})
		}
	}
	items, err := h.Blocks.ListByRestaurant(c.Request().Context(), rest.ID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteBlock handles DELETE /v1/restaurants/:id/blocks/:blockID.
func (h *OwnerHandler) DeleteBlock(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	blockID, err := strconv.ParseUint(c.Param("blockID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid block id"})
	}
	if err := h.Blocks.Delete(c.Request().Context(), blockID, rest.ID); err != nil {
		if err == repository.ErrBlockNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "block not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
