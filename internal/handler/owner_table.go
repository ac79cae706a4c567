package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

type tableReq struct {
	Name     string     `json:"name"`
	Capacity int        `json:"capacity"`
	Zone     model.Zone `json:"zone"`
	IsActive *bool      `json:"is_active"`
}

// CreateTable handles POST /v1/restaurants/:id/tables.
func (h *OwnerHandler) CreateTable(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	var body tableReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.Capacity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be >= 1"})
	}
	if !body.Zone.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown zone"})
	}
	t := &model.Table{
		RestaurantID: rest.ID,
		Name:         name,
		Capacity:     body.Capacity,
		Zone:         body.Zone,
		IsActive:     true,
	}
	if body.IsActive != nil {
		t.IsActive = *body.IsActive
	}
	if err := h.Tables.Create(c.Request().Context(), t); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create table"})
	}
	return c.JSON(http.StatusCreated, t)
}

// ListTables handles GET /v1/restaurants/:id/tables. Inactive tables
// are included so staff can reactivate them.
func (h *OwnerHandler) ListTables(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	items, err := h.Tables.ListByRestaurant(c.Request().Context(), rest.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateTable handles PUT /v1/restaurants/:id/tables/:tableID. Lowering
// capacity below the largest party currently seated alone at the table
// is rejected with 409: the change would silently break that booking.
func (h *OwnerHandler) UpdateTable(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	tableID, err := strconv.ParseUint(c.Param("tableID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	cur, err := h.Tables.GetByID(c.Request().Context(), tableID)
	if err != nil {
		if err == repository.ErrTableNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if cur.RestaurantID != rest.ID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	}
	var body tableReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if name := strings.TrimSpace(body.Name); name != "" {
		cur.Name = name
	}
	if body.Zone != "" {
		if !body.Zone.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown zone"})
		}
		cur.Zone = body.Zone
	}
	if body.Capacity > 0 && body.Capacity != cur.Capacity {
		if body.Capacity < cur.Capacity {
			min, err := h.Tables.MinCapacityRequired(c.Request().Context(), cur.ID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
			}
			if body.Capacity < min {
				return c.JSON(http.StatusConflict, echo.Map{"error": "capacity below seated reservations", "min_capacity": min})
			}
		}
		cur.Capacity = body.Capacity
	}
	if body.IsActive != nil {
		cur.IsActive = *body.IsActive
	}
	if err := h.Tables.Update(c.Request().Context(), cur); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, cur)
}

// DeleteTable handles DELETE /v1/restaurants/:id/tables/:tableID. A
// table still referenced by live reservations cannot go away; staff
// should deactivate it instead.
func (h *OwnerHandler) DeleteTable(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	tableID, err := strconv.ParseUint(c.Param("tableID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	if err := h.Tables.Delete(c.Request().Context(), tableID, rest.ID); err != nil {
		switch err {
		case repository.ErrTableNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "table has reservations; deactivate it instead"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
