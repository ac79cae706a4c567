package model

import (
	"testing"
	"time"
)

func TestBlockCovers(t *testing.T) {
	day := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)
	soir := ServiceSoir

	whole := Block{RestaurantID: 1, Date: day}
	if !whole.Covers(day, ServiceMidi) || !whole.Covers(day, ServiceSoir) {
		t.Fatalf("whole-day block should cover both services")
	}
	if whole.Covers(day.AddDate(0, 0, 1), ServiceMidi) {
		t.Fatalf("block should not cover another date")
	}

	evening := Block{RestaurantID: 1, Date: day, Service: &soir}
	if evening.Covers(day, ServiceMidi) {
		t.Fatalf("service-scoped block should not cover the other service")
	}
	if !evening.Covers(day, ServiceSoir) {
		t.Fatalf("service-scoped block should cover its own service")
	}
}

func TestRestaurantLocationFallback(t *testing.T) {
	if loc := (Restaurant{}).Location(); loc != time.UTC {
		t.Fatalf("empty timezone should fall back to UTC, got %v", loc)
	}
	if loc := (Restaurant{Timezone: "Mars/Olympus"}).Location(); loc != time.UTC {
		t.Fatalf("unknown timezone should fall back to UTC, got %v", loc)
	}
}

func TestSubscriptionEntitled(t *testing.T) {
	for _, s := range []SubscriptionStatus{SubscriptionActive, SubscriptionTrialing} {
		if !s.Entitled() {
			t.Fatalf("%s should be entitled", s)
		}
	}
	for _, s := range []SubscriptionStatus{SubscriptionPastDue, SubscriptionCanceled} {
		if s.Entitled() {
			t.Fatalf("%s should not be entitled", s)
		}
	}
}

func TestReservationDateUsesLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 23:30 UTC on the 14th is already the 15th in Paris.
	r := Reservation{DateTimeStart: time.Date(2026, 7, 14, 23, 30, 0, 0, time.UTC)}
	if got := r.Date(paris).Day(); got != 15 {
		t.Fatalf("local date day = %d, want 15", got)
	}
	if got := r.Date(time.UTC).Day(); got != 14 {
		t.Fatalf("utc date day = %d, want 14", got)
	}
}
