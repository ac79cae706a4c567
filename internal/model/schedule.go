package model

import "time"

// Schedule defines, for one weekday and one service, whether a
// restaurant is open and how many guests it accepts. Weekday follows
// time.Weekday numbering (0 = Sunday). OpensAt/ClosesAt use the "15:04"
// wall-clock format in the restaurant's local time. Capacity is the
// seat ceiling for the whole service; zero or negative means no ceiling
// beyond what the physical tables allow.
type Schedule struct {
	ID           uint64      `json:"id"`
	RestaurantID uint64      `json:"restaurant_id"`
	Weekday      int         `json:"weekday"`
	Service      ServiceType `json:"service"`
	OpensAt      string      `json:"opens_at"`
	ClosesAt     string      `json:"closes_at"`
	Capacity     int         `json:"capacity"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Block is an explicit closure overriding the weekly schedule for a
// specific date. Service is nil when the whole day is closed.
type Block struct {
	ID           uint64       `json:"id"`
	RestaurantID uint64       `json:"restaurant_id"`
	Date         time.Time    `json:"date"`
	Service      *ServiceType `json:"service,omitempty"`
	Reason       string       `json:"reason"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Covers reports whether the block closes the given local date and
// service. A block with no service closes both services of its day.
func (b Block) Covers(date time.Time, service ServiceType) bool {
	if b.Date.Year() != date.Year() || b.Date.Month() != date.Month() || b.Date.Day() != date.Day() {
		return false
	}
	return b.Service == nil || *b.Service == service
}
