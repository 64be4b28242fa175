package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bakeshop/internal/delivery"
	"bakeshop/internal/models"
	"bakeshop/internal/payments"
)

func testBuilder(processor *fakeProcessor, audit *fakeAudit) *Builder {
	return &Builder{
		Processor: processor,
		Catalog: &fakeCatalog{lines: map[string]ResolvedLine{
			"item1": {Name: "Sourdough Loaf", Price: 4.99},
		}},
		Schedule: &fakeSchedule{allowed: map[string]bool{
			"pickup|2026-09-12|09:00-11:00":   true,
			"delivery|2026-09-12|13:00-15:00": true,
		}},
		Delivery:  &fakeDelivery{result: delivery.Result{Eligible: true, DistanceMiles: 2.1}},
		Audit:     audit,
		ReturnURL: "https://bakeshop.test/checkout/return",
	}
}

func cartRequest() CheckoutRequest {
	return CheckoutRequest{
		Lines:             []LineRequest{{ItemID: "item1", Quantity: 2}},
		Fulfillment:       models.FulfillmentPickup,
		ScheduledDate:     "2026-09-12",
		ScheduledTimeSlot: "09:00-11:00",
		CustomerName:      "Jamie",
		CustomerEmail:     "jamie@example.com",
	}
}

func testSettings() models.StoreSettings {
	return models.StoreSettings{
		ID:              models.StoreSettingsID,
		StripeAccountID: "acct_1",
		Delivery:        models.DeliveryConfig{RadiusMiles: 5},
	}
}

func TestCartSessionUsesCatalogPrices(t *testing.T) {
	processor := &fakeProcessor{account: payments.Account{ID: "acct_1", TransfersActive: true}}
	builder := testBuilder(processor, &fakeAudit{})

	sess, err := builder.CreateCartSession(context.Background(), testSettings(), cartRequest())
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123_secret", sess.ClientSecret)

	require.Len(t, processor.created, 1)
	input := processor.created[0]
	require.Len(t, input.Lines, 1)
	assert.Equal(t, int64(499), input.Lines[0].UnitAmount)
	assert.Equal(t, int64(2), input.Lines[0].Quantity)
	assert.Equal(t, "acct_1", input.DestinationAccount)

	meta, err := DecodeSessionMetadata(input.Metadata)
	require.NoError(t, err)
	assert.Equal(t, 4.99, meta.Items[0].Price)
}

func TestCartSessionRoutingFallback(t *testing.T) {
	processor := &fakeProcessor{
		account:    payments.Account{ID: "acct_1", TransfersActive: true},
		routingErr: &payments.RoutingUnavailableError{AccountID: "acct_1", Code: "insufficient_capabilities_for_transfer"},
	}
	audit := &fakeAudit{}
	builder := testBuilder(processor, audit)

	sess, err := builder.CreateCartSession(context.Background(), testSettings(), cartRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ClientSecret)

	require.Len(t, processor.created, 2)
	assert.Equal(t, "acct_1", processor.created[0].DestinationAccount)
	assert.Equal(t, "", processor.created[1].DestinationAccount)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditRoutingFallback, audit.entries[0].Kind)
	assert.Equal(t, "acct_1", audit.entries[0].Fields["accountId"])
}

func TestCartSessionDegradedAccountFallsBackWithAudit(t *testing.T) {
	processor := &fakeProcessor{accountErr: payments.ErrAccountNotFound}
	audit := &fakeAudit{}
	builder := testBuilder(processor, audit)

	_, err := builder.CreateCartSession(context.Background(), testSettings(), cartRequest())
	require.NoError(t, err)

	require.Len(t, processor.created, 1)
	assert.Equal(t, "", processor.created[0].DestinationAccount)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditRoutingFallback, audit.entries[0].Kind)
}

func TestCartSessionOtherProcessorErrorIsFatal(t *testing.T) {
	processor := &fakeProcessor{
		account:    payments.Account{ID: "acct_1", TransfersActive: true},
		sessionErr: &payments.ProcessorError{Op: "create checkout session", Err: errBoom},
	}
	builder := testBuilder(processor, &fakeAudit{})

	_, err := builder.CreateCartSession(context.Background(), testSettings(), cartRequest())
	require.Error(t, err)

	var processorErr *payments.ProcessorError
	assert.ErrorAs(t, err, &processorErr)
	// No retry on non-routing failures.
	assert.Len(t, processor.created, 1)
}

func TestCartSessionRejectsUnofferedSlot(t *testing.T) {
	processor := &fakeProcessor{}
	builder := testBuilder(processor, &fakeAudit{})

	req := cartRequest()
	req.ScheduledTimeSlot = "23:00-23:30"

	_, err := builder.CreateCartSession(context.Background(), testSettings(), req)
	var slotErr *SlotUnavailableError
	require.ErrorAs(t, err, &slotErr)
	assert.Empty(t, processor.created)
}

func TestCartSessionRejectsAddressOutsideRadius(t *testing.T) {
	processor := &fakeProcessor{}
	builder := testBuilder(processor, &fakeAudit{})
	builder.Delivery = &fakeDelivery{result: delivery.Result{Eligible: false, DistanceMiles: 6.2}}

	req := cartRequest()
	req.Fulfillment = models.FulfillmentDelivery
	req.ScheduledTimeSlot = "13:00-15:00"
	req.DeliveryAddress = "12 Far Away Ln"

	_, err := builder.CreateCartSession(context.Background(), testSettings(), req)
	var addressErr *IneligibleAddressError
	require.ErrorAs(t, err, &addressErr)
	assert.Equal(t, 6.2, addressErr.DistanceMiles)
	assert.Equal(t, 5.0, addressErr.RadiusMiles)
	assert.Empty(t, processor.created)
}

func TestCartSessionRejectsUnlocatableAddress(t *testing.T) {
	processor := &fakeProcessor{}
	builder := testBuilder(processor, &fakeAudit{})
	builder.Delivery = &fakeDelivery{geocodeErr: true}

	req := cartRequest()
	req.Fulfillment = models.FulfillmentDelivery
	req.ScheduledTimeSlot = "13:00-15:00"
	req.DeliveryAddress = "???"

	_, err := builder.CreateCartSession(context.Background(), testSettings(), req)
	var addressErr *IneligibleAddressError
	require.ErrorAs(t, err, &addressErr)
	assert.True(t, addressErr.Unresolvable)
	assert.Empty(t, processor.created)
}

func TestCartSessionDeliveryCheckerOutageIsNotAddressError(t *testing.T) {
	// A failed geocoder lookup (network down, upstream 5xx) must surface as
	// an infrastructure error, not as "your address is bad".
	processor := &fakeProcessor{}
	builder := testBuilder(processor, &fakeAudit{})
	builder.Delivery = &fakeDelivery{err: errBoom}

	req := cartRequest()
	req.Fulfillment = models.FulfillmentDelivery
	req.ScheduledTimeSlot = "13:00-15:00"
	req.DeliveryAddress = "11 Main St"

	_, err := builder.CreateCartSession(context.Background(), testSettings(), req)
	require.Error(t, err)

	var addressErr *IneligibleAddressError
	assert.False(t, errors.As(err, &addressErr))
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, processor.created)
}

func TestCartSessionRejectsUnavailableItems(t *testing.T) {
	processor := &fakeProcessor{account: payments.Account{ID: "acct_1", TransfersActive: true}}
	builder := testBuilder(processor, &fakeAudit{})

	req := cartRequest()
	req.Lines = []LineRequest{{ItemID: "discontinued", Quantity: 1}}

	_, err := builder.CreateCartSession(context.Background(), testSettings(), req)
	var unavailable *UnavailableItemsError
	require.ErrorAs(t, err, &unavailable)
	assert.Empty(t, processor.created)
}

func TestAuditFailureDoesNotFailCheckout(t *testing.T) {
	processor := &fakeProcessor{
		account:    payments.Account{ID: "acct_1", TransfersActive: true},
		routingErr: &payments.RoutingUnavailableError{AccountID: "acct_1", Code: "insufficient_capabilities_for_transfer"},
	}
	builder := testBuilder(processor, &fakeAudit{failErr: errBoom})

	_, err := builder.CreateCartSession(context.Background(), testSettings(), cartRequest())
	require.NoError(t, err)
}

func acceptedCustomOrder(t *testing.T, amount float64) *models.CustomOrderRequest {
	t.Helper()
	id, err := primitive.ObjectIDFromHex("64f000000000000000000042")
	require.NoError(t, err)
	return &models.CustomOrderRequest{
		ID:            id,
		CustomerName:  "Robin",
		Email:         "robin@example.com",
		Status:        models.CustomOrderAccepted,
		Fulfillment:   models.FulfillmentPickup,
		PaymentAmount: &amount,
	}
}

func TestCustomOrderSessionCarriesRequestID(t *testing.T) {
	processor := &fakeProcessor{account: payments.Account{ID: "acct_1", TransfersActive: true}}
	builder := testBuilder(processor, &fakeAudit{})

	_, err := builder.CreateCustomOrderSession(context.Background(), testSettings(), acceptedCustomOrder(t, 150.00), PayRequest{
		ScheduledDate:     "2026-09-12",
		ScheduledTimeSlot: "09:00-11:00",
	})
	require.NoError(t, err)

	require.Len(t, processor.created, 1)
	input := processor.created[0]
	require.Len(t, input.Lines, 1)
	assert.Equal(t, int64(15000), input.Lines[0].UnitAmount)

	meta, err := DecodeSessionMetadata(input.Metadata)
	require.NoError(t, err)
	assert.Equal(t, "64f000000000000000000042", meta.CustomOrderRequestID)
}

func TestCustomOrderSessionRejectsTinyAmount(t *testing.T) {
	processor := &fakeProcessor{}
	builder := testBuilder(processor, &fakeAudit{})

	_, err := builder.CreateCustomOrderSession(context.Background(), testSettings(), acceptedCustomOrder(t, 0.25), PayRequest{
		ScheduledDate:     "2026-09-12",
		ScheduledTimeSlot: "09:00-11:00",
	})

	var amountErr *AmountTooSmallError
	require.ErrorAs(t, err, &amountErr)
	assert.Empty(t, processor.created)
}

func TestCustomOrderSessionRequiresLockedAmount(t *testing.T) {
	builder := testBuilder(&fakeProcessor{}, &fakeAudit{})

	request := acceptedCustomOrder(t, 0)
	request.PaymentAmount = nil

	_, err := builder.CreateCustomOrderSession(context.Background(), testSettings(), request, PayRequest{
		ScheduledDate:     "2026-09-12",
		ScheduledTimeSlot: "09:00-11:00",
	})
	assert.ErrorIs(t, err, ErrNoLockedAmount)
}
