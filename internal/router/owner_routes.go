package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/booking"
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
)

// RegisterOwner registers the back-office endpoints under /v1.
// All routes require a valid JWT with the OWNER or ADMIN role; per-
// restaurant ownership is enforced in the handlers so admins can reach
// any restaurant.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER", "ADMIN"),
	)

	// ---- Restaurants ----
	g.POST("/restaurants", o.CreateRestaurant)
	g.GET("/restaurants", o.ListRestaurants)
	g.GET("/restaurants/:id", o.GetRestaurant)
	g.PUT("/restaurants/:id", o.UpdateRestaurant)
	g.PATCH("/restaurants/:id", o.UpdateRestaurant)
	g.PUT("/restaurants/:id/subscription", o.UpdateSubscription) // admin only

	// ---- Tables ----
	g.POST("/restaurants/:id/tables", o.CreateTable)
	g.GET("/restaurants/:id/tables", o.ListTables)
	g.PUT("/restaurants/:id/tables/:tableID", o.UpdateTable)
	g.PATCH("/restaurants/:id/tables/:tableID", o.UpdateTable)
	g.DELETE("/restaurants/:id/tables/:tableID", o.DeleteTable)

	// ---- Weekly schedules and exceptional closures ----
	g.PUT("/restaurants/:id/schedules", o.UpsertSchedule)
	g.GET("/restaurants/:id/schedules", o.ListSchedules)
	g.DELETE("/restaurants/:id/schedules/:scheduleID", o.DeleteSchedule)
	g.POST("/restaurants/:id/blocks", o.CreateBlock)
	g.GET("/restaurants/:id/blocks", o.ListBlocks)
	g.DELETE("/restaurants/:id/blocks/:blockID", o.DeleteBlock)

	// ---- Reservations ----
	g.POST("/restaurants/:id/reservations", o.CreateReservation)
	g.GET("/restaurants/:id/reservations", o.ListReservations)
	g.GET("/restaurants/:id/reservations/:resID", o.GetReservation)
	g.PATCH("/restaurants/:id/reservations/:resID", o.UpdateReservation)
	g.DELETE("/restaurants/:id/reservations/:resID", o.DeleteReservation)
	g.PUT("/restaurants/:id/reservations/:resID/tables", o.ReassignTables)
	g.POST("/restaurants/:id/reservations/:resID/assign", o.AutoAssign)

	// Lifecycle transitions; each route maps to one state machine event.
	g.POST("/restaurants/:id/reservations/:resID/confirm", o.Transition(booking.EventConfirm))
	g.POST("/restaurants/:id/reservations/:resID/refuse", o.Transition(booking.EventRefuse))
	g.POST("/restaurants/:id/reservations/:resID/cancel", o.Transition(booking.EventCancel))
	g.POST("/restaurants/:id/reservations/:resID/no-show", o.Transition(booking.EventNoShow))
	g.POST("/restaurants/:id/reservations/:resID/complete", o.Transition(booking.EventComplete))
	g.POST("/restaurants/:id/reservations/:resID/restore", o.Transition(booking.EventRestore))

	// ---- Calendar ----
	g.GET("/restaurants/:id/calendar", o.MonthCalendar)
	g.GET("/restaurants/:id/calendar/:date", o.DayCalendar)
}
