package checkout

import (
	"errors"
	"fmt"
)

// ErrEmptyCart rejects a checkout request that carries no cart lines.
var ErrEmptyCart = errors.New("checkout: cart is empty")

// InvalidQuantityError reports a cart line with a non-positive quantity.
type InvalidQuantityError struct {
	ItemID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity for %s must be at least 1", e.ItemID)
}

// UnavailableItemsError reports how many requested cart lines referenced
// items that are not currently purchasable, so callers can render a concrete
// "N items unavailable" message.
type UnavailableItemsError struct {
	Count int
}

func (e *UnavailableItemsError) Error() string {
	return fmt.Sprintf("%d item(s) are no longer available", e.Count)
}

// SlotUnavailableError reports a fulfillment slot the store does not offer.
type SlotUnavailableError struct {
	Mode     string
	Date     string
	TimeSlot string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("%s is not available for %s on %s", e.TimeSlot, e.Mode, e.Date)
}

// IneligibleAddressError reports a delivery address outside the configured
// radius, or one that could not be geocoded at all.
type IneligibleAddressError struct {
	DistanceMiles float64
	RadiusMiles   float64
	Unresolvable  bool
}

func (e *IneligibleAddressError) Error() string {
	if e.Unresolvable {
		return "delivery address could not be located"
	}
	return fmt.Sprintf("address is %.1f miles away, outside our %.1f mile delivery radius", e.DistanceMiles, e.RadiusMiles)
}

// AmountTooSmallError reports an amount below the processor's minimum
// chargeable unit.
type AmountTooSmallError struct {
	Amount float64
}

func (e *AmountTooSmallError) Error() string {
	return fmt.Sprintf("amount %.2f is below the minimum chargeable amount", e.Amount)
}

// Payment-link failures, all user-correctable.
var (
	ErrRequestNotFound   = errors.New("checkout: custom order request not found")
	ErrRequestDenied     = errors.New("checkout: custom order request was denied")
	ErrAlreadyPaid       = errors.New("checkout: custom order request is already paid")
	ErrRequestNotPayable = errors.New("checkout: custom order request is not accepting payment")
	ErrNoLockedAmount    = errors.New("checkout: custom order request has no locked payment amount")
)
