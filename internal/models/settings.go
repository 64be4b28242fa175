package models

import "time"

// StoreSettingsID is the fixed id of the settings singleton document.
const StoreSettingsID = "store"

// ScheduleConfig lists the offered time slots per weekday, keyed by lowercase
// weekday name ("monday".."sunday"). A missing day offers no slots.
type ScheduleConfig struct {
	Pickup   map[string][]string `bson:"pickup" json:"pickup"`
	Delivery map[string][]string `bson:"delivery" json:"delivery"`
	// LeadTimeDays is the minimum number of days between ordering and the
	// scheduled date.
	LeadTimeDays int `bson:"leadTimeDays" json:"leadTimeDays"`
}

// DeliveryConfig holds the geographic gate for delivery orders.
type DeliveryConfig struct {
	OriginLat   float64 `bson:"originLat" json:"originLat"`
	OriginLng   float64 `bson:"originLng" json:"originLng"`
	RadiusMiles float64 `bson:"radiusMiles" json:"radiusMiles"`
}

// StoreSettings is the admin-owned singleton the checkout path reads. The
// core never mutates it; it is loaded fresh per request and injected into the
// session builder.
type StoreSettings struct {
	ID string `bson:"_id" json:"id"`
	// StripeAccountID is the connected account funds are routed to when the
	// account is capable of receiving transfers. Empty means default
	// settlement.
	StripeAccountID string         `bson:"stripeAccountId,omitempty" json:"stripeAccountId,omitempty"`
	Schedule        ScheduleConfig `bson:"schedule" json:"schedule"`
	Delivery        DeliveryConfig `bson:"delivery" json:"delivery"`
	UpdatedAt       time.Time      `bson:"updatedAt" json:"updatedAt"`
}
