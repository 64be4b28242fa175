package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakeshop/internal/models"
)

func sampleMetadata() SessionMetadata {
	return SessionMetadata{
		Fulfillment:       models.FulfillmentPickup,
		ScheduledDate:     "2026-09-12",
		ScheduledTimeSlot: "09:00-11:00",
		Notes:             "no nuts please",
		Items: []models.OrderItem{
			{ItemID: "item1", Name: "Sourdough Loaf", Price: 4.99, Quantity: 2},
		},
		CustomerName: "Jamie",
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	meta := sampleMetadata()
	meta.CustomOrderRequestID = "64f000000000000000000042"

	encoded, err := meta.Encode()
	require.NoError(t, err)

	decoded, err := DecodeSessionMetadata(encoded)
	require.NoError(t, err)

	assert.Equal(t, meta.Fulfillment, decoded.Fulfillment)
	assert.Equal(t, meta.ScheduledDate, decoded.ScheduledDate)
	assert.Equal(t, meta.Items, decoded.Items)
	assert.Equal(t, meta.CustomOrderRequestID, decoded.CustomOrderRequestID)
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	encoded, err := sampleMetadata().Encode()
	require.NoError(t, err)
	encoded["v"] = "2"

	_, err = DecodeSessionMetadata(encoded)
	var metaErr *MetadataError
	require.ErrorAs(t, err, &metaErr)
}

func TestDecodeRejectsMissingItems(t *testing.T) {
	encoded, err := sampleMetadata().Encode()
	require.NoError(t, err)
	delete(encoded, "items")

	_, err = DecodeSessionMetadata(encoded)
	var metaErr *MetadataError
	require.ErrorAs(t, err, &metaErr)
}

func TestDecodeRejectsUnparseableItems(t *testing.T) {
	encoded, err := sampleMetadata().Encode()
	require.NoError(t, err)
	encoded["items"] = "{not json"

	_, err = DecodeSessionMetadata(encoded)
	var metaErr *MetadataError
	require.ErrorAs(t, err, &metaErr)
}

func TestDecodeRejectsDeliveryWithoutAddress(t *testing.T) {
	meta := sampleMetadata()
	meta.Fulfillment = models.FulfillmentDelivery
	encoded, err := meta.Encode()
	require.NoError(t, err)

	_, err = DecodeSessionMetadata(encoded)
	var metaErr *MetadataError
	require.ErrorAs(t, err, &metaErr)
}

func TestDecodeRejectsNilMetadata(t *testing.T) {
	_, err := DecodeSessionMetadata(nil)
	var metaErr *MetadataError
	require.ErrorAs(t, err, &metaErr)
}
