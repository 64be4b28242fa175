package payments

import (
	"context"
	"errors"
	"fmt"
)

// ErrAccountNotFound is returned by RetrieveAccount when the connected
// account no longer exists on the processor side. Callers treat this as an
// expected degraded state, not a failure.
var ErrAccountNotFound = errors.New("payments: connected account not found")

// RoutingUnavailableError reports that a checkout session could not be
// created with destination routing because the connected account cannot
// currently receive transfers. The session builder retries once without
// routing on this error.
type RoutingUnavailableError struct {
	AccountID string
	Code      string
}

func (e *RoutingUnavailableError) Error() string {
	return fmt.Sprintf("payments: account %s cannot receive routed transfers (%s)", e.AccountID, e.Code)
}

// ProcessorError wraps any other processor-side failure so transport errors
// never surface raw to handlers.
type ProcessorError struct {
	Op  string
	Err error
}

func (e *ProcessorError) Error() string {
	return fmt.Sprintf("payments: %s: %v", e.Op, e.Err)
}

func (e *ProcessorError) Unwrap() error { return e.Err }

// Account is the slice of a connected account the checkout path cares about.
type Account struct {
	ID              string
	TransfersActive bool
}

// SessionLine is one authoritative line item sent to the processor. Amounts
// are minor units (cents).
type SessionLine struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

// SessionInput describes a hosted payment session to create.
type SessionInput struct {
	Lines []SessionLine
	// Metadata is the frozen order snapshot the webhook reconciler later
	// reads back. See checkout.SessionMetadata.
	Metadata map[string]string
	// DestinationAccount routes settlement funds to a connected account when
	// non-empty.
	DestinationAccount string
	ReturnURL          string
	CustomerEmail      string
}

// Session is the created hosted session. ClientSecret is handed to the buyer
// to complete payment client-side; no redirect URL is ever exposed.
type Session struct {
	ID           string
	ClientSecret string
}

// Event is a verified, decoded session-completion notification.
type Event struct {
	ID            string
	Type          string
	SessionID     string
	AmountTotal   int64
	CustomerEmail string
	Metadata      map[string]string
}

// Processor is the payment-processor surface consumed by the checkout core.
type Processor interface {
	RetrieveAccount(ctx context.Context, accountID string) (Account, error)
	CreateCheckoutSession(ctx context.Context, in SessionInput) (Session, error)
}

// EventVerifier authenticates and decodes raw webhook payloads.
type EventVerifier interface {
	VerifyEvent(payload []byte, sigHeader string) (Event, error)
}
