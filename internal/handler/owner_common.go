package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/booking"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// OwnerHandler bundles repositories for the back-office surface.
// Every route it serves is scoped to one restaurant owned by the
// authenticated user (admins bypass the ownership check).
type OwnerHandler struct {
	Restaurants  *repository.RestaurantRepo
	Tables       *repository.TableRepo
	Schedules    *repository.ScheduleRepo
	Blocks       *repository.BlockRepo
	Reservations *repository.ReservationRepo
	Policy       booking.Policy
}

// NewOwnerHandler constructs a new OwnerHandler and panics if any dependency is nil.
func NewOwnerHandler(restaurants *repository.RestaurantRepo, tables *repository.TableRepo, schedules *repository.ScheduleRepo, blocks *repository.BlockRepo, reservations *repository.ReservationRepo, policy booking.Policy) *OwnerHandler {
	if restaurants == nil || tables == nil || schedules == nil || blocks == nil || reservations == nil {
		panic("nil repository passed to NewOwnerHandler")
	}
	return &OwnerHandler{
		Restaurants:  restaurants,
		Tables:       tables,
		Schedules:    schedules,
		Blocks:       blocks,
		Reservations: reservations,
		Policy:       policy,
	}
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// isAdmin reports whether the JWT role claim is ADMIN.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "ADMIN"
}

// resolveRestaurant loads the restaurant named by the :id route param
// and enforces ownership and subscription entitlement. On failure it
// writes the error response and returns a nil restaurant; handlers
// just return nil in that case.
func (h *OwnerHandler) resolveRestaurant(c echo.Context) (*model.Restaurant, error) {
	ownerID, err := getUserID(c)
	if err != nil {
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
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
	if rest.OwnerID != ownerID && !isAdmin(c) {
		return nil, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if !rest.Subscription.Entitled() && !isAdmin(c) {
		return nil, c.JSON(http.StatusPaymentRequired, echo.Map{"error": "subscription inactive"})
	}
	return rest, nil
}

// dayRange returns the [start, end) UTC instants covering one calendar
// date in the restaurant's location. Reservation queries work on
// instants; local-date semantics are applied here once.
func dayRange(day time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// monthRange is dayRange for a whole month.
func monthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 1, 0).UTC()
}

// parseLocalDate parses a YYYY-MM-DD string as midnight in loc.
func parseLocalDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(booking.DateKeyFormat, s, loc)
}
