package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordermodel "laptopshop-backend/internal/domains/order/model"
	"laptopshop-backend/internal/domains/returns/model"
	"laptopshop-backend/internal/shared"
)

// =====================================================
// FAKES
// =====================================================

type fakeReturnRepo struct {
	requests map[uuid.UUID]*model.ReturnRequest
	restock  map[uuid.UUID]int
}

func newFakeReturnRepo() *fakeReturnRepo {
	return &fakeReturnRepo{
		requests: make(map[uuid.UUID]*model.ReturnRequest),
		restock:  make(map[uuid.UUID]int),
	}
}

func (r *fakeReturnRepo) BeginTx(ctx context.Context) (pgx.Tx, error)     { return nil, nil }
func (r *fakeReturnRepo) CommitTx(ctx context.Context, tx pgx.Tx) error   { return nil }
func (r *fakeReturnRepo) RollbackTx(ctx context.Context, tx pgx.Tx) error { return nil }

func (r *fakeReturnRepo) Create(ctx context.Context, req *model.ReturnRequest) error {
	r.requests[req.ID] = req
	return nil
}

func (r *fakeReturnRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.ReturnRequest, error) {
	if req, ok := r.requests[id]; ok {
		copied := *req
		return &copied, nil
	}
	return nil, model.ErrReturnNotFound
}

func (r *fakeReturnRepo) HasActiveByOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	for _, req := range r.requests {
		if req.OrderID == orderID && req.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReturnRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.ReturnRequest, int, error) {
	var out []model.ReturnRequest
	for _, req := range r.requests {
		if req.UserID == userID {
			out = append(out, *req)
		}
	}
	return out, len(out), nil
}

func (r *fakeReturnRepo) List(ctx context.Context, status string, page, limit int) ([]model.ReturnRequest, int, error) {
	var out []model.ReturnRequest
	for _, req := range r.requests {
		if status == "" || req.Status == status {
			out = append(out, *req)
		}
	}
	return out, len(out), nil
}

func (r *fakeReturnRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	req, ok := r.requests[id]
	if !ok {
		return model.ErrReturnNotFound
	}
	req.Status = status
	return nil
}

func (r *fakeReturnRepo) UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) error {
	return r.UpdateStatus(ctx, id, status)
}

func (r *fakeReturnRepo) RestoreStockWithTx(ctx context.Context, tx pgx.Tx, laptopID uuid.UUID, qty int) error {
	r.restock[laptopID] += qty
	return nil
}

func (r *fakeReturnRepo) SetAdminNote(ctx context.Context, id uuid.UUID, note string) error {
	req, ok := r.requests[id]
	if !ok {
		return model.ErrReturnNotFound
	}
	req.AdminNote = &note
	return nil
}

type fakeOrderStore struct {
	orders   map[uuid.UUID]*ordermodel.Order
	refunded []uuid.UUID
}

func (s *fakeOrderStore) GetByID(ctx context.Context, id uuid.UUID) (*ordermodel.Order, error) {
	if o, ok := s.orders[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, ordermodel.ErrOrderNotFound
}

func (s *fakeOrderStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string, deliveredAt *time.Time) error {
	o, ok := s.orders[id]
	if !ok {
		return ordermodel.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (s *fakeOrderStore) MarkRefunded(ctx context.Context, id uuid.UUID) error {
	s.refunded = append(s.refunded, id)
	return nil
}

type fakeTaskQueue struct {
	tasks    []string
	payloads []interface{}
}

func (f *fakeTaskQueue) EnqueueTask(ctx context.Context, taskType string, payload interface{}) error {
	f.tasks = append(f.tasks, taskType)
	f.payloads = append(f.payloads, payload)
	return nil
}

// =====================================================
// FIXTURE
// =====================================================

const returnWindowDays = 14

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

type returnFixture struct {
	svc      *ReturnService
	returns  *fakeReturnRepo
	orders   *fakeOrderStore
	queue    *fakeTaskQueue
	userID   uuid.UUID
	order    *ordermodel.Order
	itemID   uuid.UUID
	laptopID uuid.UUID
}

func newReturnFixture(t *testing.T) *returnFixture {
	t.Helper()

	f := &returnFixture{
		returns:  newFakeReturnRepo(),
		orders:   &fakeOrderStore{orders: make(map[uuid.UUID]*ordermodel.Order)},
		queue:    &fakeTaskQueue{},
		userID:   uuid.New(),
		itemID:   uuid.New(),
		laptopID: uuid.New(),
	}
	f.svc = NewReturnService(f.returns, f.orders, f.queue, returnWindowDays)
	f.svc.now = func() time.Time { return testNow }

	deliveredAt := testNow.AddDate(0, 0, -3)
	orderID := uuid.New()
	f.order = &ordermodel.Order{
		ID:          orderID,
		OrderNumber: "ORD-20260829-AB12CD34",
		UserID:      f.userID,
		Status:      ordermodel.OrderStatusDelivered,
		DeliveredAt: &deliveredAt,
		Items: []ordermodel.OrderItem{
			{
				ID:       f.itemID,
				OrderID:  orderID,
				LaptopID: f.laptopID,
				Quantity: 2,
				Price:    decimal.NewFromInt(1500),
			},
		},
	}
	f.orders.orders[orderID] = f.order
	return f
}

func (f *returnFixture) createRequest(quantity int) model.CreateReturnRequest {
	return model.CreateReturnRequest{
		OrderID: f.order.ID.String(),
		Reason:  "Máy bị lỗi màn hình",
		Items: []model.ReturnItemRequest{
			{OrderItemID: f.itemID.String(), Quantity: quantity},
		},
	}
}

// file a request and drive it to the given status via the admin flow
func (f *returnFixture) requestAt(t *testing.T, status string) *model.ReturnRequest {
	t.Helper()
	req, err := f.svc.Create(context.Background(), f.userID, f.createRequest(1))
	require.NoError(t, err)

	steps := map[string][]string{
		model.StatusRequested:    {},
		model.StatusApproved:     {model.StatusApproved},
		model.StatusItemReceived: {model.StatusApproved, model.StatusItemReceived},
	}[status]
	for _, s := range steps {
		require.NoError(t, f.returns.UpdateStatus(context.Background(), req.ID, s))
	}
	stored, err := f.returns.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	return stored
}

// =====================================================
// CREATE
// =====================================================

func TestCreateReturnRequest(t *testing.T) {
	f := newReturnFixture(t)

	req, err := f.svc.Create(context.Background(), f.userID, f.createRequest(2))
	require.NoError(t, err)

	assert.Equal(t, model.StatusRequested, req.Status)
	assert.True(t, req.RefundAmount.Equal(decimal.NewFromInt(3000)))
	require.Len(t, req.Items, 1)
	assert.Equal(t, f.laptopID, req.Items[0].LaptopID)
	assert.True(t, req.Items[0].UnitPrice.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, f.order.OrderNumber, req.OrderNumber)
}

func TestCreateRejectsOtherUsersOrder(t *testing.T) {
	f := newReturnFixture(t)

	_, err := f.svc.Create(context.Background(), uuid.New(), f.createRequest(1))
	assert.ErrorIs(t, err, model.ErrNotOwner)
}

func TestCreateRequiresDeliveredOrder(t *testing.T) {
	f := newReturnFixture(t)
	f.order.Status = ordermodel.OrderStatusShipped

	_, err := f.svc.Create(context.Background(), f.userID, f.createRequest(1))
	assert.ErrorIs(t, err, model.ErrOrderNotDelivered)
}

func TestCreateInsideWindowOnLastDay(t *testing.T) {
	f := newReturnFixture(t)
	deliveredAt := testNow.AddDate(0, 0, -returnWindowDays)
	f.order.DeliveredAt = &deliveredAt

	_, err := f.svc.Create(context.Background(), f.userID, f.createRequest(1))
	assert.NoError(t, err, "day %d is still inside the window", returnWindowDays)
}

func TestCreateRejectsExpiredWindow(t *testing.T) {
	f := newReturnFixture(t)
	deliveredAt := testNow.AddDate(0, 0, -(returnWindowDays + 1))
	f.order.DeliveredAt = &deliveredAt

	_, err := f.svc.Create(context.Background(), f.userID, f.createRequest(1))
	assert.ErrorIs(t, err, model.ErrReturnWindowExpired)
}

func TestCreateRejectsSecondActiveRequest(t *testing.T) {
	f := newReturnFixture(t)

	_, err := f.svc.Create(context.Background(), f.userID, f.createRequest(1))
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.userID, f.createRequest(1))
	assert.ErrorIs(t, err, model.ErrActiveReturnExists)
}

func TestCreateAllowsRetryAfterRejection(t *testing.T) {
	f := newReturnFixture(t)
	req := f.requestAt(t, model.StatusRequested)
	require.NoError(t, f.returns.UpdateStatus(context.Background(), req.ID, model.StatusRejected))

	_, err := f.svc.Create(context.Background(), f.userID, f.createRequest(1))
	assert.NoError(t, err, "rejected requests no longer block the order")
}

func TestCreateRejectsUnknownOrderItem(t *testing.T) {
	f := newReturnFixture(t)

	req := f.createRequest(1)
	req.Items[0].OrderItemID = uuid.New().String()

	_, err := f.svc.Create(context.Background(), f.userID, req)
	assert.ErrorIs(t, err, model.ErrInvalidReturnItems)
}

func TestCreateRejectsQuantityAboveOrdered(t *testing.T) {
	f := newReturnFixture(t)

	_, err := f.svc.Create(context.Background(), f.userID, f.createRequest(3))
	assert.ErrorIs(t, err, model.ErrInvalidReturnItems)
}

func TestCreateRejectsDuplicateLines(t *testing.T) {
	f := newReturnFixture(t)

	req := f.createRequest(1)
	req.Items = append(req.Items, model.ReturnItemRequest{
		OrderItemID: f.itemID.String(),
		Quantity:    1,
	})

	_, err := f.svc.Create(context.Background(), f.userID, req)
	assert.ErrorIs(t, err, model.ErrInvalidReturnItems)
}

// =====================================================
// LIFECYCLE
// =====================================================

func TestApproveCancelsParentOrder(t *testing.T) {
	f := newReturnFixture(t)
	req := f.requestAt(t, model.StatusRequested)

	approved, err := f.svc.Approve(context.Background(), req.ID, "")
	require.NoError(t, err)

	assert.Equal(t, model.StatusApproved, approved.Status)
	assert.Equal(t, ordermodel.OrderStatusCanceled, f.orders.orders[f.order.ID].Status)
}

func TestRejectRecordsAdminNote(t *testing.T) {
	f := newReturnFixture(t)
	req := f.requestAt(t, model.StatusRequested)

	rejected, err := f.svc.Reject(context.Background(), req.ID, "Máy trầy xước do người dùng")
	require.NoError(t, err)

	require.NotNil(t, rejected.AdminNote)
	assert.Equal(t, "Máy trầy xước do người dùng", *rejected.AdminNote)
	require.NotNil(t, rejected.ProcessedAt)
	assert.Equal(t, testNow, *rejected.ProcessedAt)
}

func TestCreateKeepsPhotos(t *testing.T) {
	f := newReturnFixture(t)

	create := f.createRequest(1)
	create.Photos = []string{"returns/abc/1.jpg", "returns/abc/2.jpg"}

	req, err := f.svc.Create(context.Background(), f.userID, create)
	require.NoError(t, err)
	assert.Equal(t, create.Photos, req.Photos)
}

func TestRejectIsTerminal(t *testing.T) {
	f := newReturnFixture(t)
	req := f.requestAt(t, model.StatusRequested)

	_, err := f.svc.Reject(context.Background(), req.ID, "")
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), req.ID, "")
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestMarkReceivedRestocks(t *testing.T) {
	f := newReturnFixture(t)
	req := f.requestAt(t, model.StatusApproved)

	received, err := f.svc.MarkReceived(context.Background(), req.ID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusItemReceived, received.Status)
	assert.Equal(t, 1, f.returns.restock[f.laptopID])
}

func TestMarkReceivedRequiresApproval(t *testing.T) {
	f := newReturnFixture(t)
	req := f.requestAt(t, model.StatusRequested)

	_, err := f.svc.MarkReceived(context.Background(), req.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestMarkRefundedNotifiesCustomer(t *testing.T) {
	f := newReturnFixture(t)
	req := f.requestAt(t, model.StatusItemReceived)

	refunded, err := f.svc.MarkRefunded(context.Background(), req.ID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusRefunded, refunded.Status)
	assert.Equal(t, []uuid.UUID{f.order.ID}, f.orders.refunded)

	require.Equal(t, []string{shared.TypeSendRefundNotice}, f.queue.tasks)
	payload, ok := f.queue.payloads[0].(shared.OrderEmailPayload)
	require.True(t, ok)
	assert.Equal(t, f.order.ID.String(), payload.OrderID)
	assert.Equal(t, "1500.00", payload.Amount)
}

func TestCustomerCancelBeforeReceipt(t *testing.T) {
	f := newReturnFixture(t)
	req := f.requestAt(t, model.StatusApproved)

	canceled, err := f.svc.CancelByCustomer(context.Background(), req.ID, f.userID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, canceled.Status)
}

func TestCustomerCannotCancelAfterReceipt(t *testing.T) {
	f := newReturnFixture(t)
	req := f.requestAt(t, model.StatusItemReceived)

	_, err := f.svc.CancelByCustomer(context.Background(), req.ID, f.userID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestCustomerCancelRejectsStrangers(t *testing.T) {
	f := newReturnFixture(t)
	req := f.requestAt(t, model.StatusRequested)

	_, err := f.svc.CancelByCustomer(context.Background(), req.ID, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotOwner)
}

func TestGetHidesOtherUsersRequests(t *testing.T) {
	f := newReturnFixture(t)
	req := f.requestAt(t, model.StatusRequested)

	_, err := f.svc.Get(context.Background(), req.ID, uuid.New(), false)
	assert.ErrorIs(t, err, model.ErrNotOwner)

	got, err := f.svc.Get(context.Background(), req.ID, uuid.New(), true)
	require.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)
}
