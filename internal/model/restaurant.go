package model

import "time"

// SubscriptionStatus mirrors the billing system's view of a restaurant
// account. The back-office is usable while the subscription is active
// or trialing; billing itself lives outside this service and only the
// status flag is consumed here.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Entitled reports whether the status grants access to the back-office.
func (s SubscriptionStatus) Entitled() bool {
	return s == SubscriptionActive || s == SubscriptionTrialing
}

// Restaurant is the top-level tenant entity. Timezone holds an IANA
// zone name; calendar grouping and past-date checks are performed in
// the restaurant's local time. When AutoAccept is set, new reservations
// are created directly in the confirmed state instead of pending.
type Restaurant struct {
	ID           uint64             `json:"id"`
	OwnerID      uint64             `json:"owner_id"`
	Name         string             `json:"name"`
	Address      string             `json:"address"`
	Phone        string             `json:"phone"`
	Timezone     string             `json:"timezone"`
	AutoAccept   bool               `json:"auto_accept"`
	Subscription SubscriptionStatus `json:"subscription_status"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// Location resolves the restaurant's timezone, falling back to UTC when
// the stored name is empty or unknown.
func (r Restaurant) Location() *time.Location {
	if r.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
