package schedule

import (
	"testing"
	"time"

	"bakeshop/internal/models"
)

func testConfig() models.ScheduleConfig {
	return models.ScheduleConfig{
		Pickup: map[string][]string{
			"saturday": {"09:00-11:00", "11:00-13:00"},
		},
		Delivery: map[string][]string{
			"saturday": {"13:00-15:00"},
		},
		LeadTimeDays: 1,
	}
}

func checkerAt(now string) *ConfigChecker {
	parsed, _ := time.ParseInLocation(DateLayout, now, time.Local)
	return &ConfigChecker{Now: func() time.Time { return parsed }}
}

func TestIsSlotAvailable(t *testing.T) {
	c := checkerAt("2026-09-07")
	cfg := testConfig()

	// 2026-09-12 is a Saturday.
	if !c.IsSlotAvailable(cfg, "pickup", "2026-09-12", "09:00-11:00") {
		t.Fatal("expected offered pickup slot to be available")
	}
	if c.IsSlotAvailable(cfg, "pickup", "2026-09-12", "15:00-17:00") {
		t.Fatal("expected unoffered slot to be rejected")
	}
	if c.IsSlotAvailable(cfg, "delivery", "2026-09-12", "09:00-11:00") {
		t.Fatal("pickup slots must not leak into delivery")
	}
	if c.IsSlotAvailable(cfg, "pickup", "2026-09-11", "09:00-11:00") {
		t.Fatal("friday has no pickup slots")
	}
}

func TestIsSlotAvailableRejectsBadInput(t *testing.T) {
	c := checkerAt("2026-09-07")
	cfg := testConfig()

	if c.IsSlotAvailable(cfg, "pickup", "not-a-date", "09:00-11:00") {
		t.Fatal("unparseable date must be rejected")
	}
	if c.IsSlotAvailable(cfg, "teleport", "2026-09-12", "09:00-11:00") {
		t.Fatal("unknown mode must be rejected")
	}
}

func TestIsSlotAvailableEnforcesLeadTime(t *testing.T) {
	cfg := testConfig()

	// Ordering on the same saturday: lead time of one day pushes the
	// earliest date to sunday.
	c := checkerAt("2026-09-12")
	if c.IsSlotAvailable(cfg, "pickup", "2026-09-12", "09:00-11:00") {
		t.Fatal("same-day order must be rejected with a 1 day lead time")
	}
	if !c.IsSlotAvailable(cfg, "pickup", "2026-09-19", "09:00-11:00") {
		t.Fatal("next saturday should be fine")
	}
}
