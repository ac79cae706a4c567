package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/booking"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// MonthCalendar handles GET /v1/restaurants/:id/calendar?year=&month=.
// The response maps YYYY-MM-DD keys (restaurant-local dates) to
// per-service counts; days with no reservations are absent. Canceled
// reservations are counted by default and excluded with
// include_canceled=false.
func (h *OwnerHandler) MonthCalendar(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil || year < 2000 || year > 2200 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "year query param required"})
	}
	monthNum, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "month query param must be 1..12"})
	}
	month := time.Month(monthNum)

	includeCanceled := h.Policy.IncludeCanceledInCalendar
	if v := c.QueryParam("include_canceled"); v != "" {
		includeCanceled = v == "true" || v == "1"
	}

	loc := rest.Location()
	from, to := monthRange(year, month, loc)
	items, err := h.Reservations.ListByRestaurantBetween(c.Request().Context(), rest.ID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	days := booking.AggregateByDay(items, year, month, loc, includeCanceled)
	return c.JSON(http.StatusOK, echo.Map{
		"year":  year,
		"month": monthNum,
		"days":  days,
	})
}

// DayCalendar handles GET /v1/restaurants/:id/calendar/:date: the
// drill-down listing a single day's reservations grouped by service.
func (h *OwnerHandler) DayCalendar(c echo.Context) error {
	rest, err := h.resolveRestaurant(c)
	if rest == nil {
		return err
	}
	loc := rest.Location()
	day, err := parseLocalDate(c.Param("date"), loc)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	from, to := dayRange(day, loc)
	items, err := h.Reservations.ListByRestaurantBetween(c.Request().Context(), rest.ID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	midi, soir := booking.DayReservations(items, day, loc)
	if midi == nil {
		midi = []model.Reservation{}
	}
	if soir == nil {
		soir = []model.Reservation{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date": day.Format(booking.DateKeyFormat),
		"midi": midi,
		"soir": soir,
	})
}
