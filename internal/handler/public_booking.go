package handler

// public_booking.go is the guest-facing surface: no accounts, no JWT.
// Guests check availability, book, and manage their reservation through
// the booking reference plus the phone number used to book.

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/booking"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// PublicHandler bundles dependencies for the guest endpoints.
type PublicHandler struct {
	Restaurants  *repository.RestaurantRepo
	Tables       *repository.TableRepo
	Schedules    *repository.ScheduleRepo
	Blocks       *repository.BlockRepo
	Reservations *repository.ReservationRepo
	Policy       booking.Policy
}

// NewPublicHandler constructs a PublicHandler and panics if any dependency is nil.
func NewPublicHandler(restaurants *repository.RestaurantRepo, tables *repository.TableRepo, schedules *repository.ScheduleRepo, blocks *repository.BlockRepo, reservations *repository.ReservationRepo, policy booking.Policy) *PublicHandler {
	if restaurants == nil || tables == nil || schedules == nil || blocks == nil || reservations == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{
		Restaurants:  restaurants,
		Tables:       tables,
		Schedules:    schedules,
		Blocks:       blocks,
		Reservations: reservations,
		Policy:       policy,
	}
}

// publicRestaurant is the guest view of a restaurant: contact fields
// only, no owner or billing information.
type publicRestaurant struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Timezone string `json:"timezone"`
}

func toPublic(r model.Restaurant) publicRestaurant {
	return publicRestaurant{ID: r.ID, Name: r.Name, Address: r.Address, Phone: r.Phone, Timezone: r.Timezone}
}

// loadBookable resolves the :id param to a restaurant guests may book.
// A lapsed subscription takes the restaurant off the public surface.
func (h *PublicHandler) loadBookable(c echo.Context) (*model.Restaurant, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	rest, err := h.Restaurants.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrRestaurantNotFound {
			return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !rest.Subscription.Entitled() {
		return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
	}
	return rest, nil
}

// ListRestaurants handles GET /v1/public/restaurants.
func (h *PublicHandler) ListRestaurants(c echo.Context) error {
	items, err := h.Restaurants.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]publicRestaurant, 0, len(items))
	for _, r := range items {
		if !r.Subscription.Entitled() {
			continue
		}
		out = append(out, toPublic(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetRestaurant handles GET /v1/public/restaurants/:id.
func (h *PublicHandler) GetRestaurant(c echo.Context) error {
	rest, err := h.loadBookable(c)
	if rest == nil {
		return err
	}
	return c.JSON(http.StatusOK, toPublic(*rest))
}

// Availability handles GET /v1/public/restaurants/:id/availability
// with date, service and guests query params. The answer is computed
// from the live reservation set on every call.
func (h *PublicHandler) Availability(c echo.Context) error {
	rest, err := h.loadBookable(c)
	if rest == nil {
		return err
	}
	loc := rest.Location()
	day, err := parseLocalDate(c.QueryParam("date"), loc)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date query param must be YYYY-MM-DD"})
	}
	service := model.ServiceType(strings.ToUpper(c.QueryParam("service")))
	guests, err := strconv.Atoi(c.QueryParam("guests"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests query param required"})
	}

	ctx := c.Request().Context()
	from, to := dayRange(day, loc)
	existing, err := h.Reservations.ListByRestaurantBetween(ctx, rest.ID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	schedules, err := h.Schedules.ListByRestaurant(ctx, rest.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	blocks, err := h.Blocks.ListByRestaurant(ctx, rest.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	decision, err := booking.CheckAvailability(booking.AvailabilityRequest{
		RestaurantID: rest.ID,
		Date:         day,
		Service:      service,
		Guests:       guests,
	}, schedules, blocks, existing, h.Policy, time.Now())
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, decision)
}

type guestReservationReq struct {
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Phone       string            `json:"phone"`
	Email       *string           `json:"email"`
	GuestsCount int               `json:"guests_count"`
	Date        string            `json:"date"`
	Time        string            `json:"time"`
	Service     model.ServiceType `json:"service"`
	Comment     *string           `json:"comment"`
}

// CreateReservation handles POST /v1/public/restaurants/:id/reservations.
// A rejected availability decision returns 409 with the reason; the
// created reservation is pending unless the restaurant auto-accepts.
func (h *PublicHandler) CreateReservation(c echo.Context) error {
	rest, err := h.loadBookable(c)
	if rest == nil {
		return err
	}
	var body guestReservationReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.FirstName) == "" || strings.TrimSpace(body.LastName) == "" || strings.TrimSpace(body.Phone) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name, last_name and phone are required"})
	}
	day, err := parseLocalDate(body.Date, rest.Location())
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	stores := bookingStores{
		Tables:       h.Tables,
		Schedules:    h.Schedules,
		Blocks:       h.Blocks,
		Reservations: h.Reservations,
	}
	res, decision, err := placeReservation(c.Request().Context(), stores, rest, bookingRequest{
		FirstName:   body.FirstName,
		LastName:    body.LastName,
		Phone:       body.Phone,
		Email:       body.Email,
		GuestsCount: body.GuestsCount,
		Date:        day,
		Time:        body.Time,
		Service:     body.Service,
		Comment:     body.Comment,
	}, h.Policy, time.Now())
	if err != nil {
		if errors.Is(err, booking.ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create reservation"})
	}
	if res == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "not bookable", "reason": decision.Reason})
	}
	return c.JSON(http.StatusCreated, res)
}

// Lookup handles GET /v1/public/reservations/:reference?phone=. The
// phone number doubles as a weak shared secret; a wrong pair is a plain
// 404 so references cannot be probed.
func (h *PublicHandler) Lookup(c echo.Context) error {
	phone := strings.TrimSpace(c.QueryParam("phone"))
	if phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone query param required"})
	}
	res, err := h.Reservations.GetByReferenceAndPhone(c.Request().Context(), c.Param("reference"), phone)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, res)
}

// Cancel handles POST /v1/public/reservations/:reference/cancel with
// the phone in the body. Pending and confirmed reservations can be
// canceled by the guest; anything else is already settled.
func (h *PublicHandler) Cancel(c echo.Context) error {
	var body struct {
		Phone string `json:"phone"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Phone) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone is required"})
	}
	res, err := h.Reservations.GetByReferenceAndPhone(c.Request().Context(), c.Param("reference"), body.Phone)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	rest, err := h.Restaurants.GetByID(c.Request().Context(), res.RestaurantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	var ev booking.Event
	switch res.Status {
	case model.StatusPending:
		ev = booking.EventRefuse
	case model.StatusConfirmed:
		ev = booking.EventCancel
	default:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "reservation can no longer be canceled"})
	}
	if err := booking.Transition(res, ev, nil, rest.Location()); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}
	if err := h.Reservations.UpdateStatus(c.Request().Context(), res.ID, res.Status, true, res.Version); err != nil {
		if err == repository.ErrStaleWrite {
			return c.JSON(http.StatusConflict, echo.Map{"error": "stale_write"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	go publishReservationEvent(rest, res, queue.QueueReservationCanceled)

	updated, err := h.Reservations.GetByID(c.Request().Context(), res.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}
