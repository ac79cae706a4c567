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

type restaurantReq struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Timezone   string `json:"timezone"`
	AutoAccept *bool  `json:"auto_accept"`
}

// CreateRestaurant handles POST /v1/restaurants.
func (h *OwnerHandler) CreateRestaurant(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body restaurantReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.Timezone != "" {
		if _, err := time.LoadLocation(body.Timezone); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown timezone"})
		}
	}
	rest := &model.Restaurant{
		OwnerID:  ownerID,
		Name:     name,
		Address:  strings.TrimSpace(body.Address),
		Phone:    strings.TrimSpace(body.Phone),
		Timezone: body.Timezone,
	}
	if body.AutoAccept != nil {
		rest.AutoAccept = *body.AutoAccept
	}
	if err := h.Restaurants.Create(c.Request().Context(), rest); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create restaurant"})
	}
	return c.JSON(http.StatusCreated, rest)
}

// ListRestaurants handles GET /v1/restaurants and returns the
// restaurants owned by the authenticated user (all of them for admins).
func (h *OwnerHandler) ListRestaurants(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var (
		items []model.Restaurant
	)
	if isAdmin(c) {
		items, err = h.Restaurants.List(c.Request().Context())
	} else {
		items, err = h.Restaurants.ListByOwner(c.Request().Context(), ownerID)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetRestaurant handles GET /v1/restaurants/:id.
func (h *OwnerHandler) GetRestaurant(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	return c.JSON(http.StatusOK, rest)
}

// UpdateRestaurant handles PUT /v1/restaurants/:id.
func (h *OwnerHandler) UpdateRestaurant(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	var body restaurantReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if name := strings.TrimSpace(body.Name); name != "" {
		rest.Name = name
	}
	if body.Address != "" {
		rest.Address = strings.TrimSpace(body.Address)
	}
	if body.Phone != "" {
		rest.Phone = strings.TrimSpace(body.Phone)
	}
	if body.Timezone != "" {
		if _, err := time.LoadLocation(body.Timezone); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown timezone"})
		}
		rest.Timezone = body.Timezone
	}
	if body.AutoAccept != nil {
		rest.AutoAccept = *body.AutoAccept
	}
	if err := h.Restaurants.Update(c.Request().Context(), rest, rest.OwnerID); err != nil {
		if err == repository.ErrForbidden {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Restaurants.GetByID(c.Request().Context(), rest.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// UpdateSubscription handles PUT /v1/restaurants/:id/subscription.
// Admin only: the billing system is external and its webhook processor
// mirrors status changes through this endpoint.
func (h *OwnerHandler) UpdateSubscription(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Status model.SubscriptionStatus `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	switch body.Status {
	case model.SubscriptionActive, model.SubscriptionTrialing, model.SubscriptionPastDue, model.SubscriptionCanceled:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown subscription status"})
	}
	if err := h.Restaurants.UpdateSubscription(c.Request().Context(), id, body.Status); err != nil {
		if err == repository.ErrRestaurantNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Restaurants.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}
