package handler

// booking_flow.go holds the shared booking pipeline used by both the
// guest endpoint and the staff walk-in endpoint: availability check,
// automatic table assignment, reference generation and persistence.

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/restaurant-table-reservation/internal/booking"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/restaurant-table-reservation/internal/service"
	"github.com/iliyamo/restaurant-table-reservation/internal/utils"
)

// bookingStores is the slice of repositories the booking pipeline needs.
type bookingStores struct {
	Tables       *repository.TableRepo
	Schedules    *repository.ScheduleRepo
	Blocks       *repository.BlockRepo
	Reservations *repository.ReservationRepo
}

// bookingRequest is the normalized input of the pipeline. Date is local
// midnight in the restaurant's timezone; Time is optional "HH:MM".
type bookingRequest struct {
	FirstName   string
	LastName    string
	Phone       string
	Email       *string
	GuestsCount int
	Date        time.Time
	Time        string
	Service     model.ServiceType
	Comment     *string
}

// serviceStartTime returns the wall-clock start for a service when the
// guest did not pick one: the schedule's opening time, or the customary
// hour for the service as a fallback.
func serviceStartTime(schedules []model.Schedule, restaurantID uint64, day time.Time, service model.ServiceType) string {
	for _, s := range schedules {
		if s.RestaurantID == restaurantID && s.IsActive && s.Weekday == int(day.Weekday()) && s.Service == service {
			if s.OpensAt != "" {
				return s.OpensAt
			}
		}
	}
	if service == model.ServiceMidi {
		return "12:00"
	}
	return "19:30"
}

// placeReservation runs the pipeline. A rejected availability decision
// comes back with a nil reservation; assignment failure is soft (the
// reservation is stored unassigned). autoAccept short-circuits the
// pending state for restaurants that trust the engine.
func placeReservation(ctx context.Context, stores bookingStores, rest *model.Restaurant, req bookingRequest, policy booking.Policy, now time.Time) (*model.Reservation, booking.Decision, error) {
	loc := rest.Location()
	from, to := dayRange(req.Date, loc)
	existing, err := stores.Reservations.ListByRestaurantBetween(ctx, rest.ID, from, to)
	if err != nil {
		return nil, booking.Decision{}, err
	}
	schedules, err := stores.Schedules.ListByRestaurant(ctx, rest.ID)
	if err != nil {
		return nil, booking.Decision{}, err
	}
	blocks, err := stores.Blocks.ListByRestaurant(ctx, rest.ID, req.Date, req.Date.AddDate(0, 0, 1))
	if err != nil {
		return nil, booking.Decision{}, err
	}

	decision, err := booking.CheckAvailability(booking.AvailabilityRequest{
		RestaurantID: rest.ID,
		Date:         req.Date,
		Service:      req.Service,
		Guests:       req.GuestsCount,
	}, schedules, blocks, existing, policy, now)
	if err != nil || !decision.Accepted {
		return nil, decision, err
	}

	start := req.Time
	if start == "" {
		start = serviceStartTime(schedules, rest.ID, req.Date, req.Service)
	}
	wall, err := time.Parse("15:04", start)
	if err != nil {
		wall, _ = time.Parse("15:04", "19:30")
	}
	startAt := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), wall.Hour(), wall.Minute(), 0, 0, loc)

	reference, err := utils.NewBookingReference()
	if err != nil {
		return nil, decision, err
	}
	status := model.StatusPending
	if rest.AutoAccept {
		status = model.StatusConfirmed
	}
	res := &model.Reservation{
		RestaurantID:  rest.ID,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Phone:         strings.TrimSpace(req.Phone),
		Email:         req.Email,
		GuestsCount:   req.GuestsCount,
		DateTimeStart: startAt,
		Service:       req.Service,
		Status:        status,
		Comment:       req.Comment,
		Reference:     reference,
	}

	// Assignment failure never rejects the booking: staff can seat the
	// party manually later.
	candidates, err := stores.Tables.ListByRestaurant(ctx, rest.ID)
	if err != nil {
		return nil, decision, err
	}
	if assign := booking.Assign(*res, candidates, existing, policy, loc); assign.OK {
		res.TableIDs = assign.TableIDs
	}

	if err := stores.Reservations.Create(ctx, res); err != nil {
		return nil, decision, err
	}
	if res.Status == model.StatusConfirmed {
		go publishReservationEvent(rest, res, queue.QueueReservationConfirmed)
	}
	return res, decision, nil
}

// publishReservationEvent sends a confirmed/canceled event; failures
// are logged inside the publisher and deliberately dropped here.
func publishReservationEvent(rest *model.Restaurant, res *model.Reservation, queueName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ev := queue.ReservationEvent{
		EventID:        uuid.NewString(),
		ReservationID:  res.ID,
		Reference:      res.Reference,
		RestaurantID:   rest.ID,
		RestaurantName: rest.Name,
		GuestName:      strings.TrimSpace(res.FirstName + " " + res.LastName),
		GuestPhone:     res.Phone,
		GuestsCount:    res.GuestsCount,
		Date:           res.Date(rest.Location()).Format(booking.DateKeyFormat),
		Service:        string(res.Service),
		TableIDs:       res.TableIDs,
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if queueName == queue.QueueReservationCanceled {
		_ = queue_publisher.PublishReservationCanceled(ctx, ev)
		return
	}
	_ = queue_publisher.PublishReservationConfirmed(ctx, ev)
}
