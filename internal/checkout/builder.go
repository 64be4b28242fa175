// Package checkout implements the payment and order reconciliation core: it
// turns carts and accepted custom orders into hosted Stripe sessions, routes
// settlement funds to the connected account when possible, and reconciles
// completion webhooks into order records exactly once.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"bakeshop/internal/delivery"
	"bakeshop/internal/models"
	"bakeshop/internal/payments"
	"bakeshop/internal/schedule"
)

// Builder orchestrates schedule validation, pricing, account resolution, and
// hosted session creation. Store settings are injected per call, never read
// from a process-wide global.
type Builder struct {
	Processor payments.Processor
	Catalog   CatalogResolver
	Schedule  schedule.Checker
	Delivery  delivery.Checker
	Audit     AuditSink
	ReturnURL string
}

// CheckoutRequest is a validated cart checkout.
type CheckoutRequest struct {
	Lines             []LineRequest
	Fulfillment       string
	ScheduledDate     string
	ScheduledTimeSlot string
	DeliveryAddress   string
	Notes             string
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
}

// PayRequest carries the buyer-chosen schedule for a custom-order payment.
type PayRequest struct {
	ScheduledDate     string
	ScheduledTimeSlot string
	DeliveryAddress   string
	CustomerEmail     string
}

// CreateCartSession builds a hosted payment session for a cart checkout. Any
// validation failure aborts with no session created.
func (b *Builder) CreateCartSession(ctx context.Context, settings models.StoreSettings, req CheckoutRequest) (payments.Session, error) {
	if err := b.validateFulfillment(ctx, settings, req.Fulfillment, req.ScheduledDate, req.ScheduledTimeSlot, req.DeliveryAddress); err != nil {
		return payments.Session{}, err
	}

	priced, err := PriceLines(ctx, b.Catalog, req.Lines)
	if err != nil {
		return payments.Session{}, err
	}

	lines := make([]payments.SessionLine, 0, len(priced))
	items := make([]models.OrderItem, 0, len(priced))
	for _, p := range priced {
		lines = append(lines, payments.SessionLine{
			Name:       p.Name,
			UnitAmount: p.UnitAmount,
			Quantity:   p.Quantity,
		})
		items = append(items, models.OrderItem{
			ItemID:   p.ItemID,
			Name:     p.Name,
			Price:    p.UnitPrice,
			Quantity: p.Quantity,
		})
	}

	meta := SessionMetadata{
		Fulfillment:       req.Fulfillment,
		ScheduledDate:     req.ScheduledDate,
		ScheduledTimeSlot: req.ScheduledTimeSlot,
		DeliveryAddress:   req.DeliveryAddress,
		Notes:             req.Notes,
		Items:             items,
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
	}

	return b.createSession(ctx, settings, lines, meta, req.CustomerEmail)
}

// CreateCustomOrderSession builds a hosted session for an accepted custom
// order with a locked amount. The request identifier rides in the session
// metadata so the reconciler can stamp the request paid.
func (b *Builder) CreateCustomOrderSession(ctx context.Context, settings models.StoreSettings, request *models.CustomOrderRequest, pay PayRequest) (payments.Session, error) {
	if request.PaymentAmount == nil {
		return payments.Session{}, ErrNoLockedAmount
	}
	amount := *request.PaymentAmount

	address := pay.DeliveryAddress
	if address == "" {
		address = request.DeliveryAddress
	}
	if err := b.validateFulfillment(ctx, settings, request.Fulfillment, pay.ScheduledDate, pay.ScheduledTimeSlot, address); err != nil {
		return payments.Session{}, err
	}

	cents := DollarsToCents(amount)
	if cents < MinChargeCents {
		return payments.Session{}, &AmountTooSmallError{Amount: amount}
	}

	name := fmt.Sprintf("Custom order for %s", request.CustomerName)
	requestID := request.ID.Hex()

	meta := SessionMetadata{
		Fulfillment:       request.Fulfillment,
		ScheduledDate:     pay.ScheduledDate,
		ScheduledTimeSlot: pay.ScheduledTimeSlot,
		DeliveryAddress:   address,
		Notes:             request.Description,
		Items: []models.OrderItem{{
			ItemID:   "custom:" + requestID,
			Name:     name,
			Price:    amount,
			Quantity: 1,
		}},
		CustomerName:         request.CustomerName,
		CustomerEmail:        request.Email,
		CustomerPhone:        request.Phone,
		CustomOrderRequestID: requestID,
	}

	lines := []payments.SessionLine{{Name: name, UnitAmount: cents, Quantity: 1}}

	email := pay.CustomerEmail
	if email == "" {
		email = request.Email
	}
	return b.createSession(ctx, settings, lines, meta, email)
}

func (b *Builder) validateFulfillment(ctx context.Context, settings models.StoreSettings, mode, date, timeSlot, address string) error {
	if mode != models.FulfillmentPickup && mode != models.FulfillmentDelivery {
		return &SlotUnavailableError{Mode: mode, Date: date, TimeSlot: timeSlot}
	}
	if !b.Schedule.IsSlotAvailable(settings.Schedule, mode, date, timeSlot) {
		return &SlotUnavailableError{Mode: mode, Date: date, TimeSlot: timeSlot}
	}

	if mode != models.FulfillmentDelivery {
		return nil
	}
	if address == "" {
		return &IneligibleAddressError{Unresolvable: true}
	}

	result, err := b.Delivery.CheckAddress(ctx, settings.Delivery, address)
	if errors.Is(err, delivery.ErrGeocodeFailed) {
		return &IneligibleAddressError{Unresolvable: true}
	}
	if err != nil {
		return err
	}
	if !result.Eligible {
		return &IneligibleAddressError{
			DistanceMiles: result.DistanceMiles,
			RadiusMiles:   settings.Delivery.RadiusMiles,
		}
	}
	return nil
}

// createSession resolves routing and creates the hosted session. If creation
// fails specifically because the connected account cannot receive routed
// transfers, it retries once without destination routing and records the
// fallback as a best-effort audit entry.
func (b *Builder) createSession(ctx context.Context, settings models.StoreSettings, lines []payments.SessionLine, meta SessionMetadata, customerEmail string) (payments.Session, error) {
	destination, err := ResolveConnectedAccount(ctx, b.Processor, settings.StripeAccountID)
	if err != nil {
		return payments.Session{}, err
	}
	if destination == "" && settings.StripeAccountID != "" {
		b.recordFallback(ctx, settings.StripeAccountID, "account missing or transfer capability inactive")
	}

	encoded, err := meta.Encode()
	if err != nil {
		return payments.Session{}, err
	}

	input := payments.SessionInput{
		Lines:              lines,
		Metadata:           encoded,
		DestinationAccount: destination,
		ReturnURL:          b.ReturnURL,
		CustomerEmail:      customerEmail,
	}

	sess, err := b.Processor.CreateCheckoutSession(ctx, input)
	if err == nil {
		return sess, nil
	}

	var routingErr *payments.RoutingUnavailableError
	if !errors.As(err, &routingErr) {
		return payments.Session{}, err
	}

	input.DestinationAccount = ""
	sess, err = b.Processor.CreateCheckoutSession(ctx, input)
	if err != nil {
		return payments.Session{}, err
	}
	b.recordFallback(ctx, routingErr.AccountID, "session creation hit capability error "+routingErr.Code)
	return sess, nil
}

func (b *Builder) recordFallback(ctx context.Context, accountID, reason string) {
	entry := models.AuditEntry{
		Kind:    models.AuditRoutingFallback,
		Message: "checkout fell back to default settlement",
		Fields: map[string]string{
			"accountId": accountID,
			"reason":    reason,
		},
	}
	if err := b.Audit.Record(ctx, entry); err != nil {
		log.Printf("[checkout] audit write failed (non-fatal): %v", err)
	}
}
