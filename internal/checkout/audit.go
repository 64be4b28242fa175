package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"bakeshop/internal/models"
)

// AuditSink records best-effort operational entries. Failures are logged by
// the caller and never fail the operation that produced them.
type AuditSink interface {
	Record(ctx context.Context, entry models.AuditEntry) error
}

// MongoAuditLog writes entries to the audit_log collection.
type MongoAuditLog struct {
	DB *mongo.Database
}

func (l *MongoAuditLog) Record(ctx context.Context, entry models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := l.DB.Collection("audit_log").InsertOne(ctx, entry)
	return err
}
