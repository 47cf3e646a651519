package service

import (
	"context"
	"errors"
	"testing"
	"time"

	cartmodel "laptopshop-backend/internal/domains/cart/model"
	catalogmodel "laptopshop-backend/internal/domains/catalog/model"
	"laptopshop-backend/internal/domains/order/model"
	"laptopshop-backend/internal/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =====================================================
// FAKES
// =====================================================

// fakeOrderRepo giữ stock và orders trong memory, mô phỏng transaction
// bằng snapshot: rollback khôi phục stock về lúc BeginTx.
type fakeOrderRepo struct {
	stock     map[uuid.UUID]int
	orders    map[uuid.UUID]*model.Order
	committed bool
	snapshot  map[uuid.UUID]int
	stale     []model.Order
	onBegin   func()
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		stock:  make(map[uuid.UUID]int),
		orders: make(map[uuid.UUID]*model.Order),
	}
}

func (r *fakeOrderRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	r.committed = false
	r.snapshot = make(map[uuid.UUID]int, len(r.stock))
	for k, v := range r.stock {
		r.snapshot[k] = v
	}
	if r.onBegin != nil {
		r.onBegin()
	}
	return nil, nil
}

func (r *fakeOrderRepo) CommitTx(ctx context.Context, tx pgx.Tx) error {
	r.committed = true
	return nil
}

func (r *fakeOrderRepo) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	if !r.committed && r.snapshot != nil {
		r.stock = r.snapshot
	}
	r.snapshot = nil
	return nil
}

func (r *fakeOrderRepo) CreateWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) DecrementStockWithTx(ctx context.Context, tx pgx.Tx, laptopID uuid.UUID, qty int) error {
	if r.stock[laptopID] < qty {
		return model.ErrInsufficientStock
	}
	r.stock[laptopID] -= qty
	return nil
}

func (r *fakeOrderRepo) RestoreStockWithTx(ctx context.Context, tx pgx.Tx, laptopID uuid.UUID, qty int) error {
	r.stock[laptopID] += qty
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if o, ok := r.orders[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, model.ErrOrderNotFound
}

func (r *fakeOrderRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			copied := *o
			return &copied, nil
		}
	}
	return nil, model.ErrOrderNotFound
}

func (r *fakeOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, len(out), nil
}

func (r *fakeOrderRepo) List(ctx context.Context, query model.ListOrdersQuery) ([]model.Order, int, error) {
	var out []model.Order
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (r *fakeOrderRepo) ListStalePending(ctx context.Context, paymentMethod string, olderThan time.Time) ([]model.Order, error) {
	return r.stale, nil
}

func (r *fakeOrderRepo) CancelWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	stored, ok := r.orders[order.ID]
	if !ok || (stored.Status != model.OrderStatusPending && stored.Status != model.OrderStatusConfirmed) {
		return model.ErrOrderCannotCancel
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.orders[id]; !ok {
		return model.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, deliveredAt *time.Time) error {
	o, ok := r.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	o.Status = status
	o.DeliveredAt = deliveredAt
	return nil
}

func (r *fakeOrderRepo) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	o, ok := r.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	o.PaymentStatus = model.PaymentStatusPaid
	o.PaidAt = &paidAt
	o.Status = model.OrderStatusConfirmed
	return nil
}

func (r *fakeOrderRepo) MarkPaymentFailed(ctx context.Context, id uuid.UUID) error {
	o, ok := r.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	o.PaymentStatus = model.PaymentStatusFailed
	return nil
}

func (r *fakeOrderRepo) MarkRefunded(ctx context.Context, id uuid.UUID) error {
	o, ok := r.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	o.PaymentStatus = model.PaymentStatusRefunded
	return nil
}

type fakeCartRepo struct {
	carts   map[uuid.UUID]*cartmodel.Cart
	deleted []uuid.UUID
}

func (r *fakeCartRepo) Get(ctx context.Context, userID uuid.UUID) (*cartmodel.Cart, error) {
	if c, ok := r.carts[userID]; ok {
		return c, nil
	}
	return &cartmodel.Cart{UserID: userID}, nil
}

func (r *fakeCartRepo) Save(ctx context.Context, cart *cartmodel.Cart) error {
	r.carts[cart.UserID] = cart
	return nil
}

func (r *fakeCartRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	delete(r.carts, userID)
	r.deleted = append(r.deleted, userID)
	return nil
}

type fakeLaptopRepo struct {
	laptops map[uuid.UUID]*catalogmodel.Laptop
}

func (r *fakeLaptopRepo) Create(ctx context.Context, l *catalogmodel.Laptop) error { panic("unused") }
func (r *fakeLaptopRepo) GetByID(ctx context.Context, id uuid.UUID) (*catalogmodel.Laptop, error) {
	if l, ok := r.laptops[id]; ok {
		return l, nil
	}
	return nil, catalogmodel.ErrLaptopNotFound
}
func (r *fakeLaptopRepo) GetBySlug(ctx context.Context, slug string) (*catalogmodel.Laptop, error) {
	panic("unused")
}
func (r *fakeLaptopRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]catalogmodel.Laptop, error) {
	var out []catalogmodel.Laptop
	for _, id := range ids {
		if l, ok := r.laptops[id]; ok {
			out = append(out, *l)
		}
	}
	return out, nil
}
func (r *fakeLaptopRepo) List(ctx context.Context, q catalogmodel.ListLaptopsQuery) ([]catalogmodel.Laptop, int, error) {
	panic("unused")
}
func (r *fakeLaptopRepo) Update(ctx context.Context, l *catalogmodel.Laptop) error { panic("unused") }
func (r *fakeLaptopRepo) SoftDelete(ctx context.Context, id uuid.UUID) error       { panic("unused") }
func (r *fakeLaptopRepo) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	panic("unused")
}

type fakeResolver struct {
	percent *int
}

func (f *fakeResolver) GetDiscountPercent(ctx context.Context, code string) (*int, error) {
	return f.percent, nil
}

type fakeEnqueuer struct {
	tasks []string
}

func (f *fakeEnqueuer) EnqueueTask(ctx context.Context, taskType string, payload interface{}) error {
	f.tasks = append(f.tasks, taskType)
	return nil
}

// =====================================================
// FIXTURE
// =====================================================

type orderFixture struct {
	svc      *OrderService
	orders   *fakeOrderRepo
	carts    *fakeCartRepo
	laptops  *fakeLaptopRepo
	resolver *fakeResolver
	enqueuer *fakeEnqueuer
	userID   uuid.UUID
	laptopID uuid.UUID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	f := &orderFixture{
		orders:   newFakeOrderRepo(),
		carts:    &fakeCartRepo{carts: make(map[uuid.UUID]*cartmodel.Cart)},
		laptops:  &fakeLaptopRepo{laptops: make(map[uuid.UUID]*catalogmodel.Laptop)},
		resolver: &fakeResolver{},
		enqueuer: &fakeEnqueuer{},
		userID:   uuid.New(),
		laptopID: uuid.New(),
	}
	f.svc = NewOrderService(f.orders, f.carts, f.laptops, f.resolver, f.enqueuer)
	f.svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	}

	f.laptops.laptops[f.laptopID] = &catalogmodel.Laptop{
		ID:       f.laptopID,
		Name:     "ThinkPad X1 Carbon",
		Slug:     "thinkpad-x1-carbon",
		Price:    decimal.NewFromInt(1300),
		Quantity: 10,
		IsActive: true,
	}
	f.orders.stock[f.laptopID] = 10
	f.carts.carts[f.userID] = &cartmodel.Cart{
		UserID: f.userID,
		Items:  []cartmodel.CartItem{{LaptopID: f.laptopID, Quantity: 1}},
	}
	return f
}

func validCheckout(method string) model.CheckoutRequest {
	return model.CheckoutRequest{
		ReceiverName:  "Nguyen Van A",
		ReceiverPhone: "0901234567",
		ShippingAddr:  "1 Lang Ha, Ha Noi",
		PaymentMethod: method,
	}
}

// =====================================================
// CHECKOUT
// =====================================================

func TestCheckoutCODHappyPath(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.Checkout(context.Background(), f.userID, validCheckout(model.PaymentMethodCOD))
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusConfirmed, order.Status)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(1300)))
	assert.Equal(t, 9, f.orders.stock[f.laptopID], "stock decremented")
	assert.Empty(t, f.carts.carts, "cart cleared")
	assert.Contains(t, f.enqueuer.tasks, shared.TypeSendOrderConfirmation)
}

func TestCheckoutVNPayStartsPending(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.Checkout(context.Background(), f.userID, validCheckout(model.PaymentMethodVNPay))
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, 9, f.orders.stock[f.laptopID], "pending orders still hold stock")
	assert.Empty(t, f.enqueuer.tasks, "confirmation email waits for the payment callback")
}

func TestCheckoutAppliesDiscount(t *testing.T) {
	f := newOrderFixture(t)
	ten := 10
	f.resolver.percent = &ten

	req := validCheckout(model.PaymentMethodCOD)
	req.DiscountCode = "sale10"

	order, err := f.svc.Checkout(context.Background(), f.userID, req)
	require.NoError(t, err)

	assert.True(t, order.DiscountAmount.Equal(decimal.NewFromInt(130)))
	assert.True(t, order.Total.Equal(decimal.NewFromInt(1170)))
	require.NotNil(t, order.DiscountCode)
	assert.Equal(t, "SALE10", *order.DiscountCode)
}

func TestCheckoutUnknownCodeMeansNoDiscount(t *testing.T) {
	f := newOrderFixture(t)

	req := validCheckout(model.PaymentMethodCOD)
	req.DiscountCode = "KHONGCO"

	order, err := f.svc.Checkout(context.Background(), f.userID, req)
	require.NoError(t, err, "unknown codes never block checkout")

	assert.True(t, order.DiscountAmount.IsZero())
	assert.Nil(t, order.DiscountCode)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newOrderFixture(t)
	delete(f.carts.carts, f.userID)

	_, err := f.svc.Checkout(context.Background(), f.userID, validCheckout(model.PaymentMethodCOD))
	assert.ErrorIs(t, err, model.ErrCartEmpty)
}

func TestCheckoutRejectsOverstockedLine(t *testing.T) {
	f := newOrderFixture(t)
	f.carts.carts[f.userID].Items[0].Quantity = 11

	_, err := f.svc.Checkout(context.Background(), f.userID, validCheckout(model.PaymentMethodCOD))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInsufficientStock)
	assert.Equal(t, 10, f.orders.stock[f.laptopID], "nothing was decremented")
}

func TestCheckoutConcurrentStockLossRollsBack(t *testing.T) {
	f := newOrderFixture(t)

	// The catalog read says one unit is left but a concurrent checkout
	// takes it before our decrement lands
	secondID := uuid.New()
	f.laptops.laptops[secondID] = &catalogmodel.Laptop{
		ID:       secondID,
		Name:     "MacBook Air",
		Slug:     "macbook-air",
		Price:    decimal.NewFromInt(1000),
		Quantity: 1,
		IsActive: true,
	}
	f.orders.stock[secondID] = 0
	f.carts.carts[f.userID].Items = append(f.carts.carts[f.userID].Items,
		cartmodel.CartItem{LaptopID: secondID, Quantity: 1})

	_, err := f.svc.Checkout(context.Background(), f.userID, validCheckout(model.PaymentMethodCOD))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	// The first line's decrement must be rolled back
	assert.Equal(t, 10, f.orders.stock[f.laptopID])
	assert.NotEmpty(t, f.carts.carts, "cart survives a failed checkout")
}

func TestCheckoutInactiveLaptopRejected(t *testing.T) {
	f := newOrderFixture(t)
	f.laptops.laptops[f.laptopID].IsActive = false

	_, err := f.svc.Checkout(context.Background(), f.userID, validCheckout(model.PaymentMethodCOD))
	assert.ErrorIs(t, err, model.ErrItemUnavailable)
}

// =====================================================
// CANCELLATION
// =====================================================

func placeOrder(t *testing.T, f *orderFixture, method string) *model.Order {
	t.Helper()
	order, err := f.svc.Checkout(context.Background(), f.userID, validCheckout(method))
	require.NoError(t, err)
	return order
}

func TestCancelRestocksItems(t *testing.T) {
	f := newOrderFixture(t)
	order := placeOrder(t, f, model.PaymentMethodCOD)
	require.Equal(t, 9, f.orders.stock[f.laptopID])

	canceled, err := f.svc.Cancel(context.Background(), order.ID, f.userID, false, "đổi ý")
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusCanceled, canceled.Status)
	assert.Equal(t, 10, f.orders.stock[f.laptopID])
	require.NotNil(t, canceled.CanceledBy)
	assert.Equal(t, model.CancelActorCustomer, *canceled.CanceledBy)
}

func TestCancelIsIdempotent(t *testing.T) {
	f := newOrderFixture(t)
	order := placeOrder(t, f, model.PaymentMethodCOD)

	_, err := f.svc.Cancel(context.Background(), order.ID, f.userID, false, "")
	require.NoError(t, err)

	again, err := f.svc.Cancel(context.Background(), order.ID, f.userID, false, "")
	require.NoError(t, err, "double cancel is a no-op")
	assert.Equal(t, model.OrderStatusCanceled, again.Status)
	assert.Equal(t, 10, f.orders.stock[f.laptopID], "restock happens once")
}

func TestCancelRejectsOtherUsers(t *testing.T) {
	f := newOrderFixture(t)
	order := placeOrder(t, f, model.PaymentMethodCOD)

	_, err := f.svc.Cancel(context.Background(), order.ID, uuid.New(), false, "")
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestCancelLosingRaceDoesNotRestockTwice(t *testing.T) {
	f := newOrderFixture(t)
	order := placeOrder(t, f, model.PaymentMethodCOD)
	require.Equal(t, 9, f.orders.stock[f.laptopID])

	// Another cancel lands between our status read and our update
	f.orders.onBegin = func() {
		f.orders.orders[order.ID].Status = model.OrderStatusCanceled
	}

	_, err := f.svc.Cancel(context.Background(), order.ID, f.userID, false, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrOrderCannotCancel)

	// Our restock rolled back with the transaction
	assert.Equal(t, 9, f.orders.stock[f.laptopID])
}

func TestCancelRejectsShippedOrders(t *testing.T) {
	f := newOrderFixture(t)
	order := placeOrder(t, f, model.PaymentMethodCOD)
	f.orders.orders[order.ID].Status = model.OrderStatusShipped

	_, err := f.svc.Cancel(context.Background(), order.ID, f.userID, true, "")
	assert.ErrorIs(t, err, model.ErrOrderCannotCancel)
}

// =====================================================
// STATUS MANAGEMENT
// =====================================================

func TestUpdateStatusSetsDeliveredAt(t *testing.T) {
	f := newOrderFixture(t)
	order := placeOrder(t, f, model.PaymentMethodCOD)
	f.orders.orders[order.ID].Status = model.OrderStatusShipped

	updated, err := f.svc.UpdateStatus(context.Background(), order.ID, uuid.New(),
		model.UpdateStatusRequest{Status: model.OrderStatusDelivered})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusDelivered, updated.Status)
	require.NotNil(t, updated.DeliveredAt)
	assert.Equal(t, f.svc.now(), *updated.DeliveredAt)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	f := newOrderFixture(t)
	order := placeOrder(t, f, model.PaymentMethodCOD)

	// confirmed -> delivered skips shipped
	_, err := f.svc.UpdateStatus(context.Background(), order.ID, uuid.New(),
		model.UpdateStatusRequest{Status: model.OrderStatusDelivered})
	require.Error(t, err)

	var oe *model.OrderError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, model.ErrCodeInvalidTransition, oe.Code)
}

func TestDeleteOnlyCanceledOrders(t *testing.T) {
	f := newOrderFixture(t)
	order := placeOrder(t, f, model.PaymentMethodCOD)

	err := f.svc.Delete(context.Background(), order.ID)
	require.Error(t, err, "confirmed orders still hold stock")

	var oe *model.OrderError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, model.ErrCodeOrderNotDeletable, oe.Code)

	_, err = f.svc.Cancel(context.Background(), order.ID, f.userID, false, "")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), order.ID))
	assert.NotContains(t, f.orders.orders, order.ID)
}

// =====================================================
// PAYMENT CALLBACKS
// =====================================================

func TestHandlePaymentSuccessMarksPaidOnce(t *testing.T) {
	f := newOrderFixture(t)
	order := placeOrder(t, f, model.PaymentMethodVNPay)

	require.NoError(t, f.svc.HandlePaymentSuccess(context.Background(), order.ID))
	assert.Equal(t, model.PaymentStatusPaid, f.orders.orders[order.ID].PaymentStatus)
	assert.Contains(t, f.enqueuer.tasks, shared.TypeSendOrderConfirmation)

	// Duplicate callback does not enqueue twice
	sent := len(f.enqueuer.tasks)
	require.NoError(t, f.svc.HandlePaymentSuccess(context.Background(), order.ID))
	assert.Equal(t, sent, len(f.enqueuer.tasks))
}

func TestHandlePaymentFailureKeepsStockHold(t *testing.T) {
	f := newOrderFixture(t)
	order := placeOrder(t, f, model.PaymentMethodVNPay)

	require.NoError(t, f.svc.HandlePaymentFailure(context.Background(), order.ID))
	assert.Equal(t, model.PaymentStatusFailed, f.orders.orders[order.ID].PaymentStatus)
	assert.Equal(t, 9, f.orders.stock[f.laptopID], "failed payments keep the hold until expiry")
}

// =====================================================
// PENDING ORDER EXPIRY
// =====================================================

func TestExpirePendingOrders(t *testing.T) {
	f := newOrderFixture(t)
	order := placeOrder(t, f, model.PaymentMethodVNPay)
	f.orders.stale = []model.Order{*f.orders.orders[order.ID]}

	expired, err := f.svc.ExpirePendingOrders(context.Background(), time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, expired)
	assert.Equal(t, 10, f.orders.stock[f.laptopID], "stock released")

	stored := f.orders.orders[order.ID]
	assert.Equal(t, model.OrderStatusCanceled, stored.Status)
	require.NotNil(t, stored.CanceledBy)
	assert.Equal(t, model.CancelActorSystem, *stored.CanceledBy)
}
