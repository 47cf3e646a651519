package service

import (
	"context"
	"testing"
	"time"

	"laptopshop-backend/internal/domains/discount/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDiscountRepo là in-memory repo cho unit test
type fakeDiscountRepo struct {
	byCode map[string]*model.DiscountCode
}

func newFakeDiscountRepo(codes ...*model.DiscountCode) *fakeDiscountRepo {
	r := &fakeDiscountRepo{byCode: make(map[string]*model.DiscountCode)}
	for _, c := range codes {
		r.byCode[c.Code] = c
	}
	return r
}

func (r *fakeDiscountRepo) Create(ctx context.Context, d *model.DiscountCode) error {
	r.byCode[d.Code] = d
	return nil
}

func (r *fakeDiscountRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.DiscountCode, error) {
	for _, d := range r.byCode {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, model.ErrDiscountNotFound
}

func (r *fakeDiscountRepo) GetByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
	if d, ok := r.byCode[code]; ok {
		return d, nil
	}
	return nil, model.ErrDiscountNotFound
}

func (r *fakeDiscountRepo) List(ctx context.Context) ([]model.DiscountCode, error) {
	var out []model.DiscountCode
	for _, d := range r.byCode {
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDiscountRepo) Update(ctx context.Context, d *model.DiscountCode) error {
	r.byCode[d.Code] = d
	return nil
}

func (r *fakeDiscountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for code, d := range r.byCode {
		if d.ID == id {
			delete(r.byCode, code)
			return nil
		}
	}
	return model.ErrDiscountNotFound
}

func (r *fakeDiscountRepo) DeactivateExpired(ctx context.Context) (int64, error) {
	var n int64
	now := time.Now()
	for _, d := range r.byCode {
		if d.Active && d.ExpiresAt != nil && d.ExpiresAt.Before(now) {
			d.Active = false
			n++
		}
	}
	return n, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
}

func activeCode(code string, percent int) *model.DiscountCode {
	return &model.DiscountCode{ID: uuid.New(), Code: code, Percent: percent, Active: true}
}

func newTestService(codes ...*model.DiscountCode) *DiscountService {
	s := NewDiscountService(newFakeDiscountRepo(codes...))
	s.now = fixedNow
	return s
}

func TestGetDiscountPercentValidCode(t *testing.T) {
	s := newTestService(activeCode("SALE10", 10))

	percent, err := s.GetDiscountPercent(context.Background(), "SALE10")
	require.NoError(t, err)
	require.NotNil(t, percent)
	assert.Equal(t, 10, *percent)
}

func TestGetDiscountPercentBlankCode(t *testing.T) {
	s := newTestService()

	for _, code := range []string{"", "   "} {
		percent, err := s.GetDiscountPercent(context.Background(), code)
		require.NoError(t, err)
		assert.Nil(t, percent)
	}
}

func TestGetDiscountPercentUnknownCode(t *testing.T) {
	s := newTestService()

	percent, err := s.GetDiscountPercent(context.Background(), "KHONGTONTAI")
	require.NoError(t, err, "unknown codes are not an error at checkout")
	assert.Nil(t, percent)
}

func TestGetDiscountPercentInactiveCode(t *testing.T) {
	code := activeCode("TAT", 15)
	code.Active = false
	s := newTestService(code)

	percent, err := s.GetDiscountPercent(context.Background(), "TAT")
	require.NoError(t, err)
	assert.Nil(t, percent)
}

func TestGetDiscountPercentOutsideWindow(t *testing.T) {
	future := fixedNow().Add(24 * time.Hour)
	past := fixedNow().Add(-24 * time.Hour)

	notYet := activeCode("CHUA", 20)
	notYet.StartsAt = &future

	expired := activeCode("HET", 20)
	expired.ExpiresAt = &past

	s := newTestService(notYet, expired)

	for _, code := range []string{"CHUA", "HET"} {
		percent, err := s.GetDiscountPercent(context.Background(), code)
		require.NoError(t, err)
		assert.Nil(t, percent, "code %s", code)
	}
}

func TestGetDiscountPercentInsideWindow(t *testing.T) {
	start := fixedNow().Add(-time.Hour)
	end := fixedNow().Add(time.Hour)

	code := activeCode("DANGCHAY", 25)
	code.StartsAt = &start
	code.ExpiresAt = &end
	s := newTestService(code)

	percent, err := s.GetDiscountPercent(context.Background(), "DANGCHAY")
	require.NoError(t, err)
	require.NotNil(t, percent)
	assert.Equal(t, 25, *percent)
}

func TestCheckReflectsValidity(t *testing.T) {
	s := newTestService(activeCode("SALE10", 10))

	resp, err := s.Check(context.Background(), " SALE10 ")
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Equal(t, "SALE10", resp.Code)

	resp, err = s.Check(context.Background(), "SAI")
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Nil(t, resp.Percent)
}

func TestCreateNormalizesCode(t *testing.T) {
	s := newTestService()

	created, err := s.Create(context.Background(), model.CreateDiscountRequest{
		Code:    " sale20 ",
		Percent: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, "SALE20", created.Code)
	assert.True(t, created.Active)
}
