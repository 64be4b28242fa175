package checkout

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bakeshop/internal/models"
)

// ErrDuplicateSession is returned by InsertOrder when another write for the
// same checkout session landed first.
var ErrDuplicateSession = errors.New("checkout: order already exists for session")

// OrderPatch is the replay update applied to an existing order. Status only
// ever moves to paid, and only when MarkPaid is set.
type OrderPatch struct {
	TotalAmount float64
	Customer    models.OrderCustomer
	Notes       string
	MarkPaid    bool
}

// LinkPatch carries the payment-link fields written when a link is minted or
// refreshed. An empty Token keeps the current token.
type LinkPatch struct {
	Status        string
	Amount        float64
	Token         string
	LinkCreatedAt *time.Time
}

// OrderStore is the storage surface the reconciler runs on.
type OrderStore interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	FindOrderBySession(ctx context.Context, sessionID string) (*models.Order, error)
	InsertOrder(ctx context.Context, order models.Order) error
	UpdateOrder(ctx context.Context, id primitive.ObjectID, patch OrderPatch) error
	StampRequestPaid(ctx context.Context, id primitive.ObjectID) error
}

// RequestStore is the storage surface the link manager runs on.
type RequestStore interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	FindRequestByID(ctx context.Context, id primitive.ObjectID) (*models.CustomOrderRequest, error)
	FindRequestByToken(ctx context.Context, token string) (*models.CustomOrderRequest, error)
	UpdateRequestLink(ctx context.Context, id primitive.ObjectID, patch LinkPatch) error
}

// MongoStore implements both store surfaces on the live database.
type MongoStore struct {
	DB *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{DB: db}
}

func (s *MongoStore) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := s.DB.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}

func (s *MongoStore) FindOrderBySession(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	err := s.DB.Collection("orders").
		FindOne(ctx, bson.M{"stripeSessionId": sessionID}).
		Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// InsertOrder maps the unique-index violation on stripeSessionId to
// ErrDuplicateSession so callers can branch without mongo knowledge.
func (s *MongoStore) InsertOrder(ctx context.Context, order models.Order) error {
	_, err := s.DB.Collection("orders").InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateSession
	}
	return err
}

func (s *MongoStore) UpdateOrder(ctx context.Context, id primitive.ObjectID, patch OrderPatch) error {
	set := bson.M{
		"totalAmount": patch.TotalAmount,
		"customer":    patch.Customer,
		"notes":       patch.Notes,
		"updatedAt":   time.Now(),
	}
	if patch.MarkPaid {
		set["status"] = models.OrderStatusPaid
	}

	_, err := s.DB.Collection("orders").UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// StampRequestPaid sets paymentPaidAt if it is not already set. The filter
// makes the first write authoritative; replays match zero documents.
func (s *MongoStore) StampRequestPaid(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	_, err := s.DB.Collection("custom_order_requests").UpdateOne(
		ctx,
		bson.M{
			"_id":           id,
			"paymentPaidAt": bson.M{"$exists": false},
		},
		bson.M{"$set": bson.M{
			"paymentPaidAt": now,
			"updatedAt":     now,
		}},
	)
	return err
}

func (s *MongoStore) FindRequestByID(ctx context.Context, id primitive.ObjectID) (*models.CustomOrderRequest, error) {
	return s.findRequest(ctx, bson.M{"_id": id})
}

func (s *MongoStore) FindRequestByToken(ctx context.Context, token string) (*models.CustomOrderRequest, error) {
	return s.findRequest(ctx, bson.M{"paymentToken": token})
}

func (s *MongoStore) findRequest(ctx context.Context, filter bson.M) (*models.CustomOrderRequest, error) {
	var request models.CustomOrderRequest
	err := s.DB.Collection("custom_order_requests").FindOne(ctx, filter).Decode(&request)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *MongoStore) UpdateRequestLink(ctx context.Context, id primitive.ObjectID, patch LinkPatch) error {
	set := bson.M{
		"status":        patch.Status,
		"paymentAmount": patch.Amount,
		"updatedAt":     time.Now(),
	}
	if patch.Token != "" {
		set["paymentToken"] = patch.Token
		set["paymentLinkCreatedAt"] = patch.LinkCreatedAt
	}

	_, err := s.DB.Collection("custom_order_requests").UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}
