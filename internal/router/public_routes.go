package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
)

// RegisterPublic registers the guest booking endpoints. No JWT or role
// middleware applies: guests identify a reservation with its booking
// reference and the phone number used to book.
//
// cacheMW, when non-nil, wraps only the slow-changing reads. The
// availability endpoint is deliberately left uncached so every answer
// reflects the live reservation set.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheMW echo.MiddlewareFunc) {
	wrap := func(h echo.HandlerFunc) echo.HandlerFunc {
		if cacheMW == nil {
			return h
		}
		return cacheMW(h)
	}

	e.GET("/v1/public/restaurants", wrap(p.ListRestaurants))
	e.GET("/v1/public/restaurants/:id", wrap(p.GetRestaurant))
	e.GET("/v1/public/restaurants/:id/availability", p.Availability)
	e.POST("/v1/public/restaurants/:id/reservations", p.CreateReservation)
	e.GET("/v1/public/reservations/:reference", p.Lookup)
	e.POST("/v1/public/reservations/:reference/cancel", p.Cancel)
}
