package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order lifecycle statuses. Paid orders move forward through the bakery
// pipeline and never backward; canceled is reachable from any non-terminal
// status.
const (
	OrderStatusNew       = "new"
	OrderStatusPaid      = "paid"
	OrderStatusBaking    = "baking"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

// Fulfillment modes accepted at checkout.
const (
	FulfillmentPickup   = "pickup"
	FulfillmentDelivery = "delivery"
)

// OrderItem is the frozen snapshot of a purchased line. It is captured at
// session-creation time and never re-derived from the live catalog.
type OrderItem struct {
	ItemID   string  `bson:"itemId" json:"itemId"`
	Name     string  `bson:"name" json:"name"`
	Price    float64 `bson:"price" json:"price"`
	Quantity int64   `bson:"quantity" json:"quantity"`
}

// OrderCustomer captures contact details for an order.
type OrderCustomer struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Order defines the persisted order document. StripeSessionID carries a
// unique index; it is the idempotency key for webhook reconciliation.
type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Items             []OrderItem        `bson:"items" json:"items"`
	TotalAmount       float64            `bson:"totalAmount" json:"totalAmount"`
	Fulfillment       string             `bson:"fulfillment" json:"fulfillment"`
	ScheduledDate     string             `bson:"scheduledDate" json:"scheduledDate"`
	ScheduledTimeSlot string             `bson:"scheduledTimeSlot" json:"scheduledTimeSlot"`
	DeliveryAddress   string             `bson:"deliveryAddress,omitempty" json:"deliveryAddress,omitempty"`
	StripeSessionID   string             `bson:"stripeSessionId" json:"stripeSessionId"`
	Status            string             `bson:"status" json:"status"`
	Customer          OrderCustomer      `bson:"customer" json:"customer"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

var orderStatusRank = map[string]int{
	OrderStatusNew:       0,
	OrderStatusPaid:      1,
	OrderStatusBaking:    2,
	OrderStatusReady:     3,
	OrderStatusCompleted: 4,
}

// IsValidOrderStatus reports whether s is one of the known statuses.
func IsValidOrderStatus(s string) bool {
	if s == OrderStatusCanceled {
		return true
	}
	_, ok := orderStatusRank[s]
	return ok
}

// CanTransitionOrderStatus reports whether an admin move from one status to
// the next is allowed: one step forward along the pipeline, or canceling any
// order that is not completed or already canceled.
func CanTransitionOrderStatus(from, to string) bool {
	if from == to {
		return false
	}
	if to == OrderStatusCanceled {
		return from != OrderStatusCompleted && from != OrderStatusCanceled
	}
	fromRank, ok := orderStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := orderStatusRank[to]
	if !ok {
		return false
	}
	return toRank == fromRank+1
}

// ShouldMarkPaid reports whether a payment-completed event may set the order
// status to paid. Later statuses are never regressed by a replayed event.
func ShouldMarkPaid(current string) bool {
	return current == OrderStatusNew || current == OrderStatusPaid
}
