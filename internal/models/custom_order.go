package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomOrderRequest statuses.
const (
	CustomOrderPending  = "pending"
	CustomOrderAccepted = "accepted"
	CustomOrderDenied   = "denied"
)

// CustomOrderRequest is a bespoke order negotiated off-catalog. Payment is
// reached only through the opaque PaymentToken; once PaymentPaidAt is set the
// record is immutable with respect to payment.
type CustomOrderRequest struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerName         string             `bson:"customerName" json:"customerName"`
	Email                string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone                string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Description          string             `bson:"description" json:"description"`
	Status               string             `bson:"status" json:"status"`
	Fulfillment          string             `bson:"fulfillment" json:"fulfillment"`
	DeliveryAddress      string             `bson:"deliveryAddress,omitempty" json:"deliveryAddress,omitempty"`
	PaymentToken         string             `bson:"paymentToken,omitempty" json:"-"`
	PaymentAmount        *float64           `bson:"paymentAmount,omitempty" json:"paymentAmount,omitempty"`
	PaymentLinkCreatedAt *time.Time         `bson:"paymentLinkCreatedAt,omitempty" json:"paymentLinkCreatedAt,omitempty"`
	PaymentPaidAt        *time.Time         `bson:"paymentPaidAt,omitempty" json:"paymentPaidAt,omitempty"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsPaid reports whether payment has been reconciled for this request.
func (r *CustomOrderRequest) IsPaid() bool {
	return r.PaymentPaidAt != nil
}

// CanRequestPayment reports whether a payment link may be minted or refreshed.
// Denied and already-paid requests are off limits.
func (r *CustomOrderRequest) CanRequestPayment() bool {
	return !r.IsPaid() && r.Status != CustomOrderDenied
}

// RequestPayment is the named transition taken when an admin first asks for
// payment: a pending request becomes accepted, an accepted one stays accepted.
// Calling it in any other state is a bug guarded by CanRequestPayment.
func (r *CustomOrderRequest) RequestPayment() {
	if r.Status == CustomOrderPending {
		r.Status = CustomOrderAccepted
	}
}

// IsValidCustomOrderStatus reports whether s is a known request status.
func IsValidCustomOrderStatus(s string) bool {
	return s == CustomOrderPending || s == CustomOrderAccepted || s == CustomOrderDenied
}
