package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bakeshop/internal/models"
	"bakeshop/internal/payments"
)

// LinkManager issues and redeems single-use, token-addressed payment links
// for custom orders. Payment is reachable only through the token; request ids
// are never accepted as a substitute.
type LinkManager struct {
	Store   RequestStore
	Builder *Builder
	BaseURL string
}

// PaymentLinkResult is the admin-facing outcome of minting a link.
type PaymentLinkResult struct {
	PaymentURL string
	Request    models.CustomOrderRequest
}

// CreatePaymentLink locks the amount on the request and returns a shareable
// payment URL. A pending request is promoted to accepted as the explicit
// requestPayment transition. A fresh token is minted only when none exists or
// regenerate is set; regeneration permanently invalidates the old token by
// replacing it. The read-modify-write runs inside one transaction so two
// concurrent calls cannot both mint fresh tokens.
func (m *LinkManager) CreatePaymentLink(ctx context.Context, requestID string, amount float64, regenerate bool) (PaymentLinkResult, error) {
	oid, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return PaymentLinkResult{}, ErrRequestNotFound
	}
	if DollarsToCents(amount) < MinChargeCents {
		return PaymentLinkResult{}, &AmountTooSmallError{Amount: amount}
	}

	var updated models.CustomOrderRequest
	err = m.Store.InTransaction(ctx, func(txCtx context.Context) error {
		request, err := m.Store.FindRequestByID(txCtx, oid)
		if err != nil {
			return err
		}
		if request == nil {
			return ErrRequestNotFound
		}

		if request.IsPaid() {
			return ErrAlreadyPaid
		}
		if !request.CanRequestPayment() {
			return ErrRequestDenied
		}

		request.RequestPayment()

		now := time.Now()
		patch := LinkPatch{Status: request.Status, Amount: amount}
		if request.PaymentToken == "" || regenerate {
			request.PaymentToken = uuid.NewString()
			request.PaymentLinkCreatedAt = &now
			patch.Token = request.PaymentToken
			patch.LinkCreatedAt = &now
		}

		if err := m.Store.UpdateRequestLink(txCtx, oid, patch); err != nil {
			return err
		}

		request.PaymentAmount = &amount
		request.UpdatedAt = now
		updated = *request
		return nil
	})
	if err != nil {
		return PaymentLinkResult{}, err
	}

	return PaymentLinkResult{
		PaymentURL: fmt.Sprintf("%s/custom-orders/pay/%s", m.BaseURL, updated.PaymentToken),
		Request:    updated,
	}, nil
}

// PayByToken looks up a request by its payment token and delegates to the
// session builder. Unknown tokens, unaccepted or already-paid requests, and
// requests without a locked amount are rejected before any session is
// created.
func (m *LinkManager) PayByToken(ctx context.Context, settings models.StoreSettings, token string, pay PayRequest) (payments.Session, error) {
	if token == "" {
		return payments.Session{}, ErrRequestNotFound
	}

	request, err := m.Store.FindRequestByToken(ctx, token)
	if err != nil {
		return payments.Session{}, err
	}
	if request == nil {
		return payments.Session{}, ErrRequestNotFound
	}

	if request.IsPaid() {
		return payments.Session{}, ErrAlreadyPaid
	}
	if request.Status != models.CustomOrderAccepted {
		return payments.Session{}, ErrRequestNotPayable
	}
	if request.PaymentAmount == nil {
		return payments.Session{}, ErrNoLockedAmount
	}

	return m.Builder.CreateCustomOrderSession(ctx, settings, request, pay)
}
