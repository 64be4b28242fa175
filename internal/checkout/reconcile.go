package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bakeshop/internal/models"
	"bakeshop/internal/payments"
)

// Reconciler turns verified session-completion events into durable order
// records, exactly once per session. The unique index on
// orders.stripeSessionId closes the duplicate-delivery race at the storage
// layer.
type Reconciler struct {
	Store OrderStore
}

// ProcessEvent applies one completion event. Order upsert and custom-order
// stamping run in a single transaction; partial application is never
// observable. A MetadataError means the event is permanently unusable and
// should be acknowledged as rejected; any other error is transient and should
// make the caller signal the processor to redeliver.
func (r *Reconciler) ProcessEvent(ctx context.Context, event payments.Event) error {
	if event.Type != payments.EventTypeSessionCompleted {
		return nil
	}
	if event.SessionID == "" {
		return &MetadataError{Reason: "event without session id"}
	}

	meta, err := DecodeSessionMetadata(event.Metadata)
	if err != nil {
		return err
	}

	var customOrderID *primitive.ObjectID
	if meta.CustomOrderRequestID != "" {
		oid, err := primitive.ObjectIDFromHex(meta.CustomOrderRequestID)
		if err != nil {
			return &MetadataError{Reason: "invalid custom order request id"}
		}
		customOrderID = &oid
	}

	err = r.applyEvent(ctx, event, meta, customOrderID)
	if errors.Is(err, ErrDuplicateSession) {
		// Lost the insert race to a concurrent delivery; the order now
		// exists, so a second pass takes the update path.
		log.Printf("[reconcile] duplicate session %s, retrying as update", event.SessionID)
		err = r.applyEvent(ctx, event, meta, customOrderID)
	}
	return err
}

func (r *Reconciler) applyEvent(ctx context.Context, event payments.Event, meta SessionMetadata, customOrderID *primitive.ObjectID) error {
	return r.Store.InTransaction(ctx, func(txCtx context.Context) error {
		if err := r.upsertOrder(txCtx, event, meta); err != nil {
			return err
		}
		if customOrderID != nil {
			return r.Store.StampRequestPaid(txCtx, *customOrderID)
		}
		return nil
	})
}

// upsertOrder is a find-or-create keyed on the session id. A replayed event
// refreshes mutable fields but only advances status to paid from new or paid;
// later statuses are never regressed.
func (r *Reconciler) upsertOrder(ctx context.Context, event payments.Event, meta SessionMetadata) error {
	customer := models.OrderCustomer{
		Name:  meta.CustomerName,
		Email: meta.CustomerEmail,
		Phone: meta.CustomerPhone,
	}
	if customer.Email == "" {
		customer.Email = event.CustomerEmail
	}

	existing, err := r.Store.FindOrderBySession(ctx, event.SessionID)
	if err != nil {
		return err
	}

	if existing == nil {
		now := time.Now()
		return r.Store.InsertOrder(ctx, models.Order{
			Items:             meta.Items,
			TotalAmount:       CentsToDollars(event.AmountTotal),
			Fulfillment:       meta.Fulfillment,
			ScheduledDate:     meta.ScheduledDate,
			ScheduledTimeSlot: meta.ScheduledTimeSlot,
			DeliveryAddress:   meta.DeliveryAddress,
			StripeSessionID:   event.SessionID,
			Status:            models.OrderStatusPaid,
			Customer:          customer,
			Notes:             meta.Notes,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	return r.Store.UpdateOrder(ctx, existing.ID, OrderPatch{
		TotalAmount: CentsToDollars(event.AmountTotal),
		Customer:    customer,
		Notes:       meta.Notes,
		MarkPaid:    models.ShouldMarkPaid(existing.Status),
	})
}
