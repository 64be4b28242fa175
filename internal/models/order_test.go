package models

import "testing"

func TestCanTransitionOrderStatusForward(t *testing.T) {
	allowed := [][2]string{
		{OrderStatusNew, OrderStatusPaid},
		{OrderStatusPaid, OrderStatusBaking},
		{OrderStatusBaking, OrderStatusReady},
		{OrderStatusReady, OrderStatusCompleted},
	}
	for _, pair := range allowed {
		if !CanTransitionOrderStatus(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be allowed", pair[0], pair[1])
		}
	}
}

func TestCanTransitionOrderStatusNeverBackward(t *testing.T) {
	denied := [][2]string{
		{OrderStatusPaid, OrderStatusNew},
		{OrderStatusReady, OrderStatusPaid},
		{OrderStatusCompleted, OrderStatusReady},
		{OrderStatusPaid, OrderStatusReady}, // no skipping either
	}
	for _, pair := range denied {
		if CanTransitionOrderStatus(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be denied", pair[0], pair[1])
		}
	}
}

func TestCancelableFromAnyPreTerminalState(t *testing.T) {
	for _, from := range []string{OrderStatusNew, OrderStatusPaid, OrderStatusBaking, OrderStatusReady} {
		if !CanTransitionOrderStatus(from, OrderStatusCanceled) {
			t.Fatalf("expected %s -> canceled to be allowed", from)
		}
	}
	if CanTransitionOrderStatus(OrderStatusCompleted, OrderStatusCanceled) {
		t.Fatal("completed orders cannot be canceled")
	}
	if CanTransitionOrderStatus(OrderStatusCanceled, OrderStatusCanceled) {
		t.Fatal("canceled is terminal")
	}
}

func TestShouldMarkPaidOnlyFromNewOrPaid(t *testing.T) {
	if !ShouldMarkPaid(OrderStatusNew) || !ShouldMarkPaid(OrderStatusPaid) {
		t.Fatal("new and paid orders should accept the paid stamp")
	}
	for _, status := range []string{OrderStatusBaking, OrderStatusReady, OrderStatusCompleted, OrderStatusCanceled} {
		if ShouldMarkPaid(status) {
			t.Fatalf("replayed completion event must not regress %s to paid", status)
		}
	}
}
