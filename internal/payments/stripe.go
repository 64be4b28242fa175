// Package payments wraps the Stripe SDK behind interfaces the checkout core
// can be tested against.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/account"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"
)

// EventTypeSessionCompleted is the only event type the reconciler acts on.
const EventTypeSessionCompleted = "checkout.session.completed"

// StripeProcessor implements Processor and EventVerifier with the real Stripe
// SDK.
type StripeProcessor struct {
	webhookSecret string
}

// NewStripeProcessor configures the global Stripe key and returns the
// processor. An empty webhookSecret disables event verification; VerifyEvent
// reports it as a configuration error.
func NewStripeProcessor(apiKey, webhookSecret string) *StripeProcessor {
	stripe.Key = apiKey
	return &StripeProcessor{webhookSecret: webhookSecret}
}

func (p *StripeProcessor) RetrieveAccount(ctx context.Context, accountID string) (Account, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx

	acct, err := account.GetByID(accountID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			if stripeErr.Code == stripe.ErrorCodeResourceMissing || stripeErr.HTTPStatusCode == 404 {
				return Account{}, ErrAccountNotFound
			}
		}
		return Account{}, &ProcessorError{Op: "retrieve account", Err: err}
	}

	transfersActive := acct.Capabilities != nil &&
		acct.Capabilities.Transfers == stripe.AccountCapabilityStatusActive

	return Account{ID: acct.ID, TransfersActive: transfersActive}, nil
}

func (p *StripeProcessor) CreateCheckoutSession(ctx context.Context, in SessionInput) (Session, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(in.Lines))
	for _, line := range in.Lines {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(line.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(line.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:      stripe.String(string(stripe.CheckoutSessionModePayment)),
		UIMode:    stripe.String(string(stripe.CheckoutSessionUIModeEmbedded)),
		ReturnURL: stripe.String(in.ReturnURL),
		LineItems: lineItems,
	}
	params.Context = ctx

	if in.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(in.CustomerEmail)
	}
	for key, value := range in.Metadata {
		params.AddMetadata(key, value)
	}
	if in.DestinationAccount != "" {
		params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(in.DestinationAccount),
			},
		}
	}

	sess, err := session.New(params)
	if err != nil {
		return Session{}, classifySessionError(in.DestinationAccount, err)
	}

	return Session{ID: sess.ID, ClientSecret: sess.ClientSecret}, nil
}

// classifySessionError converts capability-related Stripe error codes into
// the typed RoutingUnavailableError. This is the only place error codes are
// inspected; callers branch on the type.
func classifySessionError(destination string, err error) error {
	var stripeErr *stripe.Error
	if destination != "" && errors.As(err, &stripeErr) {
		switch string(stripeErr.Code) {
		case "insufficient_capabilities_for_transfer", "account_capabilities_unsupported":
			return &RoutingUnavailableError{AccountID: destination, Code: string(stripeErr.Code)}
		}
	}
	return &ProcessorError{Op: "create checkout session", Err: err}
}

// ErrWebhookNotConfigured is returned when no webhook secret is set.
var ErrWebhookNotConfigured = errors.New("payments: webhook secret not configured")

// ErrInvalidSignature covers a payload that fails signature verification.
var ErrInvalidSignature = errors.New("payments: invalid webhook signature")

// ErrMalformedEvent covers an authentic event whose payload cannot be
// decoded. Redelivery would carry the same payload, so callers should
// acknowledge the event rather than ask for it again.
var ErrMalformedEvent = errors.New("payments: undecodable event payload")

func (p *StripeProcessor) VerifyEvent(payload []byte, sigHeader string) (Event, error) {
	if p.webhookSecret == "" {
		return Event{}, ErrWebhookNotConfigured
	}

	stripeEvent, err := webhook.ConstructEvent(payload, sigHeader, p.webhookSecret)
	if err != nil {
		return Event{}, ErrInvalidSignature
	}

	event := Event{ID: stripeEvent.ID, Type: string(stripeEvent.Type)}
	if event.Type != EventTypeSessionCompleted {
		return event, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(stripeEvent.Data.Raw, &sess); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	event.SessionID = sess.ID
	event.AmountTotal = sess.AmountTotal
	event.Metadata = sess.Metadata
	if sess.CustomerDetails != nil {
		event.CustomerEmail = sess.CustomerDetails.Email
	}
	return event, nil
}
