package handler

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

func (h *OwnerHandler) stores() bookingStores {
	return bookingStores{
		Tables:       h.Tables,
		Schedules:    h.Schedules,
		Blocks:       h.Blocks,
		Reservations: h.Reservations,
	}
}

// loadReservation resolves the :resID param and checks it belongs to
// the restaurant already resolved on the route.
func (h *OwnerHandler) loadReservation(c echo.Context, rest *model.Restaurant) (*model.Reservation, error) {
	resID, err := strconv.ParseUint(c.Param("resID"), 10, 64)
	if err != nil {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), resID)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if res.RestaurantID != rest.ID {
		return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	return res, nil
}

type staffReservationReq struct {
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Phone       string            `json:"phone"`
	Email       *string           `json:"email"`
	GuestsCount int               `json:"guests_count"`
	Date        string            `json:"date"` // YYYY-MM-DD, restaurant-local
	Time        string            `json:"time"` // optional HH:MM
	Service     model.ServiceType `json:"service"`
	Comment     *string           `json:"comment"`
}

// CreateReservation handles POST /v1/restaurants/:id/reservations:
// walk-ins and phone bookings entered by staff. The flow is the same as
// the guest one, availability check and automatic assignment included.
func (h *OwnerHandler) CreateReservation(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	var body staffReservationReq
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
	res, decision, err := placeReservation(c.Request().Context(), h.stores(), rest, bookingRequest{
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

// ListReservations handles GET /v1/restaurants/:id/reservations with
// a required date filter and optional service and status filters.
func (h *OwnerHandler) ListReservations(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	loc := rest.Location()
	day, err := parseLocalDate(c.QueryParam("date"), loc)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date query param must be YYYY-MM-DD"})
	}
	from, to := dayRange(day, loc)
	items, err := h.Reservations.ListByRestaurantBetween(c.Request().Context(), rest.ID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	service := model.ServiceType(strings.ToUpper(c.QueryParam("service")))
	status := model.ReservationStatus(c.QueryParam("status"))
	if c.QueryParam("service") != "" && !service.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown service"})
	}
	if c.QueryParam("status") != "" && !status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	filtered := make([]model.Reservation, 0, len(items))
	for _, r := range items {
		if service != "" && r.Service != service {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		filtered = append(filtered, r)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": filtered})
}

// GetReservation handles GET /v1/restaurants/:id/reservations/:resID.
func (h *OwnerHandler) GetReservation(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	res, err := h.loadReservation(c, rest)
	if res == nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

type reservationPatchReq struct {
	FirstName   *string            `json:"first_name"`
	LastName    *string            `json:"last_name"`
	Phone       *string            `json:"phone"`
	Email       *string            `json:"email"`
	GuestsCount *int               `json:"guests_count"`
	Date        *string            `json:"date"`
	Time        *string            `json:"time"`
	Service     *model.ServiceType `json:"service"`
	Comment     *string            `json:"comment"`
	Version     uint64             `json:"version"`
}

// UpdateReservation handles PATCH /v1/restaurants/:id/reservations/:resID.
// The version field must match the last version the client read; a 409
// stale_write response means someone else edited in between and the
// client should reload before retrying.
func (h *OwnerHandler) UpdateReservation(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	res, err := h.loadReservation(c, rest)
	if res == nil {
		return err
	}
	var body reservationPatchReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Version == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "version is required"})
	}
	loc := rest.Location()
	if body.FirstName != nil {
		res.FirstName = strings.TrimSpace(*body.FirstName)
	}
	if body.LastName != nil {
		res.LastName = strings.TrimSpace(*body.LastName)
	}
	if body.Phone != nil {
		res.Phone = strings.TrimSpace(*body.Phone)
	}
	if body.Email != nil {
		res.Email = body.Email
	}
	if body.Comment != nil {
		res.Comment = body.Comment
	}
	if body.GuestsCount != nil {
		if *body.GuestsCount < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests_count must be >= 1"})
		}
		res.GuestsCount = *body.GuestsCount
	}
	if body.Service != nil {
		if !body.Service.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown service"})
		}
		res.Service = *body.Service
	}
	if body.Date != nil || body.Time != nil {
		day := res.Date(loc)
		if body.Date != nil {
			if day, err = parseLocalDate(*body.Date, loc); err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
			}
		}
		wallStr := res.DateTimeStart.In(loc).Format("15:04")
		if body.Time != nil {
			wallStr = *body.Time
		}
		wall, err := time.Parse("15:04", wallStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "time must be HH:MM"})
		}
		res.DateTimeStart = time.Date(day.Year(), day.Month(), day.Day(), wall.Hour(), wall.Minute(), 0, 0, loc)
	}

	// Moving date or service while holding tables can double-book:
	// re-run the conflict scan against the new slot before saving.
	if len(res.TableIDs) > 0 && res.Active() {
		from, to := dayRange(res.Date(loc), loc)
		existing, err := h.Reservations.ListByRestaurantBetween(c.Request().Context(), rest.ID, from, to)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if booking.HasConflict(*res, existing, loc) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "reason": booking.ReasonConflict})
		}
	}

	if err := h.Reservations.UpdateDetails(c.Request().Context(), res, body.Version); err != nil {
		switch err {
		case repository.ErrStaleWrite:
			return c.JSON(http.StatusConflict, echo.Map{"error": "stale_write"})
		case repository.ErrReservationNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Reservations.GetByID(c.Request().Context(), res.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

type transitionReq struct {
	Version uint64 `json:"version"`
}

// Transition handles the lifecycle POST routes:
// confirm, refuse, cancel, no-show, complete, restore.
func (h *OwnerHandler) Transition(ev booking.Event) echo.HandlerFunc {
	return func(c echo.Context) error {
		rest, err := h.resolveRestaurant(c)
		if rest == nil {
			return err
		}
		res, err := h.loadReservation(c, rest)
		if res == nil {
			return err
		}
		var body transitionReq
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
		}
		if body.Version == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "version is required"})
		}

		loc := rest.Location()
		from, to := dayRange(res.Date(loc), loc)
		existing, err := h.Reservations.ListByRestaurantBetween(c.Request().Context(), rest.ID, from, to)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}

		if err := booking.Transition(res, ev, existing, loc); err != nil {
			switch {
			case err == booking.ErrConflict:
				return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "reason": booking.ReasonConflict})
			default:
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
			}
		}

		clearTables := res.Status == model.StatusCanceled || res.Status == model.StatusNoShow
		if err := h.Reservations.UpdateStatus(c.Request().Context(), res.ID, res.Status, clearTables, body.Version); err != nil {
			switch err {
			case repository.ErrStaleWrite:
				return c.JSON(http.StatusConflict, echo.Map{"error": "stale_write"})
			case repository.ErrReservationNotFound:
				return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}

		switch res.Status {
		case model.StatusConfirmed:
			go publishReservationEvent(rest, res, queue.QueueReservationConfirmed)
		case model.StatusCanceled:
			go publishReservationEvent(rest, res, queue.QueueReservationCanceled)
		}

		updated, err := h.Reservations.GetByID(c.Request().Context(), res.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		return c.JSON(http.StatusOK, updated)
	}
}

type reassignReq struct {
	TableIDs []uint64 `json:"table_ids"`
	Version  uint64   `json:"version"`
}

// ReassignTables handles PUT /v1/restaurants/:id/reservations/:resID/tables.
// Staff override of the automatic assignment; undersized selections are
// allowed and flagged in the response.
func (h *OwnerHandler) ReassignTables(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	res, err := h.loadReservation(c, rest)
	if res == nil {
		return err
	}
	var body reassignReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Version == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "version is required"})
	}

	loc := rest.Location()
	tables, err := h.Tables.ListByRestaurant(c.Request().Context(), rest.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	from, to := dayRange(res.Date(loc), loc)
	existing, err := h.Reservations.ListByRestaurantBetween(c.Request().Context(), rest.ID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	result := booking.Reassign(*res, body.TableIDs, tables, existing, loc)
	if !result.OK {
		status := http.StatusUnprocessableEntity
		if result.Reason == booking.ReasonConflict {
			status = http.StatusConflict
		}
		return c.JSON(status, echo.Map{"error": string(result.Reason), "reason": result.Reason})
	}

	if err := h.Reservations.UpdateTables(c.Request().Context(), res.ID, body.TableIDs, body.Version); err != nil {
		switch err {
		case repository.ErrStaleWrite:
			return c.JSON(http.StatusConflict, echo.Map{"error": "stale_write"})
		case repository.ErrReservationNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Reservations.GetByID(c.Request().Context(), res.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reservation":      updated,
		"capacity_warning": result.CapacityWarning,
	})
}

// AutoAssign handles POST /v1/restaurants/:id/reservations/:resID/assign:
// re-runs the best-fit engine for an unassigned (or badly assigned)
// reservation.
func (h *OwnerHandler) AutoAssign(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	res, err := h.loadReservation(c, rest)
	if res == nil {
		return err
	}
	var body transitionReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Version == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "version is required"})
	}

	loc := rest.Location()
	tables, err := h.Tables.ListByRestaurant(c.Request().Context(), rest.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	from, to := dayRange(res.Date(loc), loc)
	existing, err := h.Reservations.ListByRestaurantBetween(c.Request().Context(), rest.ID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	result := booking.Assign(*res, tables, existing, h.Policy, loc)
	if !result.OK {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": string(result.Reason), "reason": result.Reason})
	}
	if err := h.Reservations.UpdateTables(c.Request().Context(), res.ID, result.TableIDs, body.Version); err != nil {
		switch err {
		case repository.ErrStaleWrite:
			return c.JSON(http.StatusConflict, echo.Map{"error": "stale_write"})
		case repository.ErrReservationNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Reservations.GetByID(c.Request().Context(), res.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteReservation handles DELETE /v1/restaurants/:id/reservations/:resID.
// Hard removal, allowed from any state; there is no undo.
func (h *OwnerHandler) DeleteReservation(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	res, err := h.loadReservation(c, rest)
	if res == nil {
		return err
	}
	if err := h.Reservations.Delete(c.Request().Context(), res.ID); err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
