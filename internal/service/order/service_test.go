package order

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/orderflow/internal/config"
	"github.com/Additional-Code/orderflow/internal/entity"
	"github.com/Additional-Code/orderflow/internal/messaging"
	"github.com/Additional-Code/orderflow/internal/payment"
	"github.com/Additional-Code/orderflow/internal/validation"
	"github.com/Additional-Code/orderflow/pkg/errorbank"
)

// memStore is an in-memory Store double.
type memStore struct {
	orders  map[int64]*entity.Order
	nextID  int64
	updates int
}

func newMemStore(orders ...*entity.Order) *memStore {
	s := &memStore{orders: make(map[int64]*entity.Order), nextID: 1}
	for _, o := range orders {
		if o.ID == 0 {
			o.ID = s.nextID
		}
		if o.ID >= s.nextID {
			s.nextID = o.ID + 1
		}
		s.orders[o.ID] = o
	}
	return s
}

func (s *memStore) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, entity.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (s *memStore) List(context.Context) ([]*entity.Order, error) {
	out := make([]*entity.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *memStore) Create(_ context.Context, order *entity.Order) error {
	order.ID = s.nextID
	s.nextID++
	s.orders[order.ID] = order
	return nil
}

func (s *memStore) Update(_ context.Context, order *entity.Order) error {
	if _, ok := s.orders[order.ID]; !ok {
		return entity.ErrOrderNotFound
	}
	clone := *order
	s.orders[order.ID] = &clone
	s.updates++
	return nil
}

func (s *memStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.orders[id]; !ok {
		return entity.ErrOrderNotFound
	}
	delete(s.orders, id)
	return nil
}

// trackingStock counts reads so tests can assert inventory was not consulted.
type trackingStock struct {
	levels map[int64]int64
	reads  int
}

func (t *trackingStock) AvailableQuantity(_ context.Context, productID int64) (int64, error) {
	t.reads++
	return t.levels[productID], nil
}

// fakePublisher records published payloads.
type fakePublisher struct {
	published [][]byte
}

func (f *fakePublisher) Publish(_ context.Context, _ []byte, value []byte) error {
	f.published = append(f.published, value)
	return nil
}

func (f *fakePublisher) Consume(ctx context.Context, _ messaging.Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakePublisher) Topic() string { return "orders.events" }

// approvingGateway / decliningGateway are deterministic gateway doubles.
type fixedGateway struct {
	approve bool
	charges int
}

func (g *fixedGateway) Charge(context.Context, string, float64) (bool, error) {
	g.charges++
	return g.approve, nil
}

type fixture struct {
	svc       *Service
	store     *memStore
	stock     *trackingStock
	gateway   *fixedGateway
	publisher *fakePublisher
}

func newFixture(t *testing.T, approve bool, orders ...*entity.Order) *fixture {
	t.Helper()
	store := newMemStore(orders...)
	stock := &trackingStock{levels: map[int64]int64{1: 5, 2: 3}}
	gateway := &fixedGateway{approve: approve}
	publisher := &fakePublisher{}

	cfg := config.Config{}
	cfg.Cache.DefaultTTL = time.Minute
	cfg.Messaging.Enabled = true
	cfg.Messaging.Kafka.Topic = "orders.events"

	svc := NewService(Params{
		Store:      store,
		Chain:      validation.NewChain(stock),
		Strategies: payment.NewRegistry(gateway, nil),
		Cache:      nil,
		Config:     cfg,
		Logger:     nil,
		Publisher:  publisher,
	})
	return &fixture{svc: svc, store: store, stock: stock, gateway: gateway, publisher: publisher}
}

func validOrder(id int64) *entity.Order {
	return &entity.Order{
		ID:           id,
		Number:       "ORD-TEST",
		CustomerName: "Ada",
		Status:       entity.StatusPending,
		TotalAmount:  49.90,
		Items:        []*entity.OrderItem{{ProductID: 1, Quantity: 2}},
		PaymentDetails: &entity.PaymentDetails{
			Method:     payment.MethodCreditCard,
			CardNumber: "4111111111111111",
		},
	}
}

func TestPlaceOrderSuccess(t *testing.T) {
	f := newFixture(t, true, validOrder(10))

	placed, err := f.svc.PlaceOrder(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPlaced, placed.Status)

	stored, _ := f.store.GetByID(context.Background(), 10)
	assert.Equal(t, entity.StatusPlaced, stored.Status)
	assert.Equal(t, 1, f.gateway.charges)

	require.Len(t, f.publisher.published, 1)
	var event Event
	require.NoError(t, json.Unmarshal(f.publisher.published[0], &event))
	assert.Equal(t, EventOrderPlaced, event.Type)
	assert.Equal(t, "ORD-TEST", event.Number)
	assert.Equal(t, string(entity.StatusPlaced), event.Status)
}

func TestPlaceOrderInsufficientInventory(t *testing.T) {
	order := validOrder(11)
	order.Items = []*entity.OrderItem{{ProductID: 2, Quantity: 10}} // stock has 3
	f := newFixture(t, true, order)

	_, err := f.svc.PlaceOrder(context.Background(), 11)

	var short *validation.InsufficientInventoryError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, int64(2), short.ProductID)
	assert.Equal(t, errorbank.KindUnprocessableEntity, errorbank.From(err).Kind())

	stored, _ := f.store.GetByID(context.Background(), 11)
	assert.Equal(t, entity.StatusPending, stored.Status, "failed validation must leave the order untouched")
	assert.Zero(t, f.store.updates)
	assert.Zero(t, f.gateway.charges, "payment must not run after a chain failure")
	assert.Empty(t, f.publisher.published)
}

func TestPlaceOrderInvalidPayment(t *testing.T) {
	order := validOrder(12)
	order.PaymentDetails = nil
	f := newFixture(t, true, order)

	_, err := f.svc.PlaceOrder(context.Background(), 12)

	var invalid *validation.InvalidPaymentError
	require.ErrorAs(t, err, &invalid)
	assert.Positive(t, f.stock.reads, "inventory runs before payment validation")

	stored, _ := f.store.GetByID(context.Background(), 12)
	assert.Equal(t, entity.StatusPending, stored.Status)
	assert.Zero(t, f.gateway.charges)
}

func TestPlaceOrderNotFound(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.PlaceOrder(context.Background(), 404)

	assert.ErrorIs(t, err, entity.ErrOrderNotFound)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
	assert.Zero(t, f.stock.reads, "inventory must not be touched for a missing order")
	assert.Zero(t, f.gateway.charges)
}

func TestPlaceOrderGatewayDeclined(t *testing.T) {
	f := newFixture(t, false, validOrder(13))

	_, err := f.svc.PlaceOrder(context.Background(), 13)

	assert.ErrorIs(t, err, payment.ErrDeclined)
	assert.Equal(t, errorbank.KindUnprocessableEntity, errorbank.From(err).Kind())

	stored, _ := f.store.GetByID(context.Background(), 13)
	assert.Equal(t, entity.StatusPending, stored.Status)
	assert.Zero(t, f.store.updates)
	assert.Empty(t, f.publisher.published)
}

func TestPlaceOrderUnknownMethod(t *testing.T) {
	order := validOrder(14)
	order.PaymentDetails.Method = "WIRE"
	f := newFixture(t, true, order)

	_, err := f.svc.PlaceOrder(context.Background(), 14)

	var unknown *payment.UnknownMethodError
	require.ErrorAs(t, err, &unknown)
	assert.Zero(t, f.gateway.charges)
}

func TestPlaceOrderAlreadyPlaced(t *testing.T) {
	order := validOrder(15)
	order.Status = entity.StatusCancelled
	f := newFixture(t, true, order)

	_, err := f.svc.PlaceOrder(context.Background(), 15)

	var invalid *entity.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, errorbank.KindConflict, errorbank.From(err).Kind())
	assert.Zero(t, f.gateway.charges, "terminal orders must never be charged")
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t, true)

	order := validOrder(0)
	order.ID = 0
	order.Number = ""
	order.Status = ""
	require.NoError(t, f.svc.Create(context.Background(), order))

	assert.NotZero(t, order.ID)
	assert.Contains(t, order.Number, "ORD-")
	assert.Equal(t, entity.StatusPending, order.Status)
	assert.False(t, order.CreatedAt.IsZero())

	require.Len(t, f.publisher.published, 1)
	var event Event
	require.NoError(t, json.Unmarshal(f.publisher.published[0], &event))
	assert.Equal(t, EventOrderCreated, event.Type)
}

func TestCreateOrderRejectsBadShape(t *testing.T) {
	f := newFixture(t, true)

	cases := map[string]*entity.Order{
		"nil payload":       nil,
		"negative total":    {CustomerName: "Ada", TotalAmount: -1},
		"missing customer":  {TotalAmount: 1},
		"zero quantity":     {CustomerName: "Ada", Items: []*entity.OrderItem{{ProductID: 1}}},
		"negative quantity": {CustomerName: "Ada", Items: []*entity.OrderItem{{ProductID: 1, Quantity: -2}}},
	}

	for name, order := range cases {
		t.Run(name, func(t *testing.T) {
			err := f.svc.Create(context.Background(), order)
			require.Error(t, err)
			assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
		})
	}
}

func TestCreateOrderSetsUpdatedAt(t *testing.T) {
	f := newFixture(t, true)

	// An explicit creation time must not leave the update time unset.
	order := validOrder(0)
	order.ID = 0
	order.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, f.svc.Create(context.Background(), order))

	assert.False(t, order.UpdatedAt.IsZero())
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), order.CreatedAt)
}

func TestUpdateOrder(t *testing.T) {
	f := newFixture(t, true, validOrder(20))

	updated, err := f.svc.Update(context.Background(), 20, UpdateParams{
		CustomerName: "Grace",
		TotalAmount:  120,
		Status:       entity.StatusCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.CustomerName)
	assert.Equal(t, float64(120), updated.TotalAmount)
	assert.Equal(t, entity.StatusCancelled, updated.Status)

	// Terminal states only move again through an explicit reset to PENDING.
	_, err = f.svc.Update(context.Background(), 20, UpdateParams{CustomerName: "Grace", TotalAmount: 120, Status: entity.StatusPlaced})
	assert.Equal(t, errorbank.KindConflict, errorbank.From(err).Kind())

	updated, err = f.svc.Update(context.Background(), 20, UpdateParams{CustomerName: "Grace", TotalAmount: 120, Status: entity.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, updated.Status)
}

func TestUpdateOrderRejectsBadShape(t *testing.T) {
	f := newFixture(t, true, validOrder(21))

	cases := map[string]UpdateParams{
		"blank customer": {CustomerName: "   ", TotalAmount: 10},
		"negative total": {CustomerName: "Ada", TotalAmount: -1},
		"unknown status": {CustomerName: "Ada", TotalAmount: 10, Status: "SHIPPED"},
	}

	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Update(context.Background(), 21, params)
			require.Error(t, err)
			assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
		})
	}
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t, true, validOrder(30))

	require.NoError(t, f.svc.Delete(context.Background(), 30))
	err := f.svc.Delete(context.Background(), 30)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}

func TestGetOrder(t *testing.T) {
	f := newFixture(t, true, validOrder(40))

	order, err := f.svc.Get(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, int64(40), order.ID)

	_, err = f.svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, entity.ErrOrderNotFound)
}
