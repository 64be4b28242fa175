package checkout

import (
	"encoding/json"
	"fmt"

	"bakeshop/internal/models"
)

// metadataVersion guards the session-metadata wire format. The reconciler
// rejects events carrying an unknown version instead of guessing.
const metadataVersion = "1"

const (
	metaKeyVersion         = "v"
	metaKeyFulfillment     = "fulfillment"
	metaKeyScheduledDate   = "scheduled_date"
	metaKeyScheduledSlot   = "scheduled_time_slot"
	metaKeyDeliveryAddress = "delivery_address"
	metaKeyNotes           = "notes"
	metaKeyItems           = "items"
	metaKeyCustomerName    = "customer_name"
	metaKeyCustomerEmail   = "customer_email"
	metaKeyCustomerPhone   = "customer_phone"
	metaKeyCustomOrderID   = "custom_order_request_id"
)

// SessionMetadata is the frozen order snapshot carried through the processor
// from session creation to webhook receipt. The reconciler rebuilds the order
// from it without re-querying mutable catalog state.
type SessionMetadata struct {
	Fulfillment          string
	ScheduledDate        string
	ScheduledTimeSlot    string
	DeliveryAddress      string
	Notes                string
	Items                []models.OrderItem
	CustomerName         string
	CustomerEmail        string
	CustomerPhone        string
	CustomOrderRequestID string
}

// MetadataError reports a payload the reconciler refuses to act on. These
// events are acknowledged as rejected, not retried.
type MetadataError struct {
	Reason string
}

func (e *MetadataError) Error() string {
	return "checkout: bad session metadata: " + e.Reason
}

// Encode serializes the metadata into the processor's string map.
func (m SessionMetadata) Encode() (map[string]string, error) {
	itemsJSON, err := json.Marshal(m.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items snapshot: %w", err)
	}

	encoded := map[string]string{
		metaKeyVersion:       metadataVersion,
		metaKeyFulfillment:   m.Fulfillment,
		metaKeyScheduledDate: m.ScheduledDate,
		metaKeyScheduledSlot: m.ScheduledTimeSlot,
		metaKeyItems:         string(itemsJSON),
	}
	if m.DeliveryAddress != "" {
		encoded[metaKeyDeliveryAddress] = m.DeliveryAddress
	}
	if m.Notes != "" {
		encoded[metaKeyNotes] = m.Notes
	}
	if m.CustomerName != "" {
		encoded[metaKeyCustomerName] = m.CustomerName
	}
	if m.CustomerEmail != "" {
		encoded[metaKeyCustomerEmail] = m.CustomerEmail
	}
	if m.CustomerPhone != "" {
		encoded[metaKeyCustomerPhone] = m.CustomerPhone
	}
	if m.CustomOrderRequestID != "" {
		encoded[metaKeyCustomOrderID] = m.CustomOrderRequestID
	}
	return encoded, nil
}

// DecodeSessionMetadata parses and validates a raw metadata map. Missing or
// unparseable required fields are rejected explicitly, never defaulted.
func DecodeSessionMetadata(raw map[string]string) (SessionMetadata, error) {
	if raw == nil {
		return SessionMetadata{}, &MetadataError{Reason: "missing metadata"}
	}
	if raw[metaKeyVersion] != metadataVersion {
		return SessionMetadata{}, &MetadataError{Reason: "unknown metadata version " + raw[metaKeyVersion]}
	}

	meta := SessionMetadata{
		Fulfillment:          raw[metaKeyFulfillment],
		ScheduledDate:        raw[metaKeyScheduledDate],
		ScheduledTimeSlot:    raw[metaKeyScheduledSlot],
		DeliveryAddress:      raw[metaKeyDeliveryAddress],
		Notes:                raw[metaKeyNotes],
		CustomerName:         raw[metaKeyCustomerName],
		CustomerEmail:        raw[metaKeyCustomerEmail],
		CustomerPhone:        raw[metaKeyCustomerPhone],
		CustomOrderRequestID: raw[metaKeyCustomOrderID],
	}

	if meta.Fulfillment != models.FulfillmentPickup && meta.Fulfillment != models.FulfillmentDelivery {
		return SessionMetadata{}, &MetadataError{Reason: "invalid fulfillment " + meta.Fulfillment}
	}
	if meta.ScheduledDate == "" || meta.ScheduledTimeSlot == "" {
		return SessionMetadata{}, &MetadataError{Reason: "missing schedule fields"}
	}
	if meta.Fulfillment == models.FulfillmentDelivery && meta.DeliveryAddress == "" {
		return SessionMetadata{}, &MetadataError{Reason: "delivery order without address"}
	}

	itemsJSON, ok := raw[metaKeyItems]
	if !ok || itemsJSON == "" {
		return SessionMetadata{}, &MetadataError{Reason: "missing items snapshot"}
	}
	if err := json.Unmarshal([]byte(itemsJSON), &meta.Items); err != nil {
		return SessionMetadata{}, &MetadataError{Reason: "unparseable items snapshot"}
	}
	if len(meta.Items) == 0 {
		return SessionMetadata{}, &MetadataError{Reason: "empty items snapshot"}
	}

	return meta, nil
}
