package checkout

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bakeshop/internal/delivery"
	"bakeshop/internal/models"
	"bakeshop/internal/payments"
)

// fakeCatalog resolves lines from an in-memory map keyed by
// "itemId" or "itemId/variantId".
type fakeCatalog struct {
	lines map[string]ResolvedLine
}

func (f *fakeCatalog) ResolveLine(_ context.Context, itemID, variantID string) (ResolvedLine, error) {
	key := itemID
	if variantID != "" {
		key = itemID + "/" + variantID
	}
	line, ok := f.lines[key]
	if !ok {
		return ResolvedLine{}, ErrLineNotFound
	}
	return line, nil
}

// fakeProcessor scripts account retrieval and session creation.
type fakeProcessor struct {
	account    payments.Account
	accountErr error

	// routingErr, when set, fails the first routed creation attempt.
	routingErr error
	sessionErr error

	created []payments.SessionInput
	session payments.Session
}

func (f *fakeProcessor) RetrieveAccount(_ context.Context, accountID string) (payments.Account, error) {
	if f.accountErr != nil {
		return payments.Account{}, f.accountErr
	}
	return f.account, nil
}

func (f *fakeProcessor) CreateCheckoutSession(_ context.Context, in payments.SessionInput) (payments.Session, error) {
	f.created = append(f.created, in)
	if f.sessionErr != nil {
		return payments.Session{}, f.sessionErr
	}
	if f.routingErr != nil && in.DestinationAccount != "" {
		return payments.Session{}, f.routingErr
	}
	if f.session.ID == "" {
		return payments.Session{ID: "cs_test_123", ClientSecret: "cs_test_123_secret"}, nil
	}
	return f.session, nil
}

// fakeSchedule accepts a fixed set of "mode|date|slot" keys.
type fakeSchedule struct {
	allowed map[string]bool
}

func (f *fakeSchedule) IsSlotAvailable(_ models.ScheduleConfig, mode, date, timeSlot string) bool {
	return f.allowed[mode+"|"+date+"|"+timeSlot]
}

// fakeDelivery returns a fixed result, a geocode failure, or an arbitrary
// checker error.
type fakeDelivery struct {
	result     delivery.Result
	geocodeErr bool
	err        error
}

func (f *fakeDelivery) CheckAddress(_ context.Context, _ models.DeliveryConfig, _ string) (delivery.Result, error) {
	if f.geocodeErr {
		return delivery.Result{}, delivery.ErrGeocodeFailed
	}
	if f.err != nil {
		return delivery.Result{}, f.err
	}
	return f.result, nil
}

// fakeAudit collects entries; failErr simulates a broken sink.
type fakeAudit struct {
	entries []models.AuditEntry
	failErr error
}

func (f *fakeAudit) Record(_ context.Context, entry models.AuditEntry) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

// fakeStore keeps orders and custom order requests in memory, enforcing the
// one-order-per-session rule the unique index provides in production.
// beforeInsert runs once right before the next order insert, letting a test
// squeeze in a concurrent write.
type fakeStore struct {
	orders       map[string]models.Order
	requests     map[primitive.ObjectID]*models.CustomOrderRequest
	beforeInsert func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:   make(map[string]models.Order),
		requests: make(map[primitive.ObjectID]*models.CustomOrderRequest),
	}
}

func (s *fakeStore) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *fakeStore) FindOrderBySession(_ context.Context, sessionID string) (*models.Order, error) {
	order, ok := s.orders[sessionID]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func (s *fakeStore) InsertOrder(_ context.Context, order models.Order) error {
	if s.beforeInsert != nil {
		hook := s.beforeInsert
		s.beforeInsert = nil
		hook()
	}
	if _, exists := s.orders[order.StripeSessionID]; exists {
		return ErrDuplicateSession
	}
	order.ID = primitive.NewObjectID()
	s.orders[order.StripeSessionID] = order
	return nil
}

func (s *fakeStore) UpdateOrder(_ context.Context, id primitive.ObjectID, patch OrderPatch) error {
	for sessionID, order := range s.orders {
		if order.ID != id {
			continue
		}
		order.TotalAmount = patch.TotalAmount
		order.Customer = patch.Customer
		order.Notes = patch.Notes
		if patch.MarkPaid {
			order.Status = models.OrderStatusPaid
		}
		s.orders[sessionID] = order
		return nil
	}
	return nil
}

func (s *fakeStore) StampRequestPaid(_ context.Context, id primitive.ObjectID) error {
	request, ok := s.requests[id]
	if !ok || request.PaymentPaidAt != nil {
		return nil
	}
	now := time.Now()
	request.PaymentPaidAt = &now
	return nil
}

func (s *fakeStore) FindRequestByID(_ context.Context, id primitive.ObjectID) (*models.CustomOrderRequest, error) {
	request, ok := s.requests[id]
	if !ok {
		return nil, nil
	}
	copied := *request
	return &copied, nil
}

func (s *fakeStore) FindRequestByToken(_ context.Context, token string) (*models.CustomOrderRequest, error) {
	for _, request := range s.requests {
		if request.PaymentToken == token {
			copied := *request
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) UpdateRequestLink(_ context.Context, id primitive.ObjectID, patch LinkPatch) error {
	request, ok := s.requests[id]
	if !ok {
		return nil
	}
	request.Status = patch.Status
	request.PaymentAmount = &patch.Amount
	if patch.Token != "" {
		request.PaymentToken = patch.Token
		request.PaymentLinkCreatedAt = patch.LinkCreatedAt
	}
	request.UpdatedAt = time.Now()
	return nil
}

var errBoom = errors.New("boom")
