// Package schedule answers whether a fulfillment slot is currently offered.
// The checkout core only consumes the pass/fail contract.
package schedule

import (
	"strings"
	"time"

	"bakeshop/internal/models"
)

// DateLayout is the wire format for scheduled dates.
const DateLayout = "2006-01-02"

// Checker reports whether a slot may be booked under the given config.
type Checker interface {
	IsSlotAvailable(cfg models.ScheduleConfig, mode, date, timeSlot string) bool
}

// ConfigChecker validates slots against the store's weekly schedule.
type ConfigChecker struct {
	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func NewConfigChecker() *ConfigChecker {
	return &ConfigChecker{Now: time.Now}
}

func (c *ConfigChecker) IsSlotAvailable(cfg models.ScheduleConfig, mode, date, timeSlot string) bool {
	day, err := time.ParseInLocation(DateLayout, date, time.Local)
	if err != nil {
		return false
	}

	now := c.Now()
	earliest := now.AddDate(0, 0, cfg.LeadTimeDays)
	if day.Before(time.Date(earliest.Year(), earliest.Month(), earliest.Day(), 0, 0, 0, 0, time.Local)) {
		return false
	}

	var slotsByDay map[string][]string
	switch mode {
	case models.FulfillmentPickup:
		slotsByDay = cfg.Pickup
	case models.FulfillmentDelivery:
		slotsByDay = cfg.Delivery
	default:
		return false
	}

	weekday := strings.ToLower(day.Weekday().String())
	for _, slot := range slotsByDay[weekday] {
		if slot == timeSlot {
			return true
		}
	}
	return false
}
