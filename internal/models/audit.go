package models

import "time"

// Audit entry kinds written by the checkout path.
const (
	AuditRoutingFallback = "routing_fallback"
)

// AuditEntry is a best-effort operational record. Writing one must never fail
// the operation that produced it.
type AuditEntry struct {
	ID        string            `bson:"_id" json:"id"`
	Kind      string            `bson:"kind" json:"kind"`
	Message   string            `bson:"message" json:"message"`
	Fields    map[string]string `bson:"fields,omitempty" json:"fields,omitempty"`
	CreatedAt time.Time         `bson:"createdAt" json:"createdAt"`
}
