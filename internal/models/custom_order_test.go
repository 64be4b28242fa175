package models

import (
	"testing"
	"time"
)

func TestRequestPaymentPromotesPending(t *testing.T) {
	r := CustomOrderRequest{Status: CustomOrderPending}
	r.RequestPayment()
	if r.Status != CustomOrderAccepted {
		t.Fatalf("expected accepted, got %s", r.Status)
	}

	// Idempotent for already-accepted requests.
	r.RequestPayment()
	if r.Status != CustomOrderAccepted {
		t.Fatalf("expected accepted to stay accepted, got %s", r.Status)
	}
}

func TestCanRequestPayment(t *testing.T) {
	paidAt := time.Now()

	cases := []struct {
		name    string
		request CustomOrderRequest
		want    bool
	}{
		{"pending unpaid", CustomOrderRequest{Status: CustomOrderPending}, true},
		{"accepted unpaid", CustomOrderRequest{Status: CustomOrderAccepted}, true},
		{"denied", CustomOrderRequest{Status: CustomOrderDenied}, false},
		{"already paid", CustomOrderRequest{Status: CustomOrderAccepted, PaymentPaidAt: &paidAt}, false},
	}

	for _, tc := range cases {
		if got := tc.request.CanRequestPayment(); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
