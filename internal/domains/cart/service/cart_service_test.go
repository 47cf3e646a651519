package service

import (
	"context"
	"testing"

	cartmodel "laptopshop-backend/internal/domains/cart/model"
	catalogmodel "laptopshop-backend/internal/domains/catalog/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCartRepo struct {
	carts map[uuid.UUID]*cartmodel.Cart
}

func (r *memCartRepo) Get(ctx context.Context, userID uuid.UUID) (*cartmodel.Cart, error) {
	if c, ok := r.carts[userID]; ok {
		return c, nil
	}
	return &cartmodel.Cart{UserID: userID}, nil
}

func (r *memCartRepo) Save(ctx context.Context, cart *cartmodel.Cart) error {
	r.carts[cart.UserID] = cart
	return nil
}

func (r *memCartRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	delete(r.carts, userID)
	return nil
}

type memLaptopRepo struct {
	laptops map[uuid.UUID]*catalogmodel.Laptop
}

func (r *memLaptopRepo) Create(ctx context.Context, l *catalogmodel.Laptop) error { panic("unused") }
func (r *memLaptopRepo) GetByID(ctx context.Context, id uuid.UUID) (*catalogmodel.Laptop, error) {
	if l, ok := r.laptops[id]; ok {
		return l, nil
	}
	return nil, catalogmodel.ErrLaptopNotFound
}
func (r *memLaptopRepo) GetBySlug(ctx context.Context, slug string) (*catalogmodel.Laptop, error) {
	panic("unused")
}
func (r *memLaptopRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]catalogmodel.Laptop, error) {
	var out []catalogmodel.Laptop
	for _, id := range ids {
		if l, ok := r.laptops[id]; ok {
			out = append(out, *l)
		}
	}
	return out, nil
}
func (r *memLaptopRepo) List(ctx context.Context, q catalogmodel.ListLaptopsQuery) ([]catalogmodel.Laptop, int, error) {
	panic("unused")
}
func (r *memLaptopRepo) Update(ctx context.Context, l *catalogmodel.Laptop) error { panic("unused") }
func (r *memLaptopRepo) SoftDelete(ctx context.Context, id uuid.UUID) error       { panic("unused") }
func (r *memLaptopRepo) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	panic("unused")
}

type cartFixture struct {
	svc      *CartService
	carts    *memCartRepo
	laptops  *memLaptopRepo
	userID   uuid.UUID
	laptopID uuid.UUID
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	f := &cartFixture{
		carts:    &memCartRepo{carts: make(map[uuid.UUID]*cartmodel.Cart)},
		laptops:  &memLaptopRepo{laptops: make(map[uuid.UUID]*catalogmodel.Laptop)},
		userID:   uuid.New(),
		laptopID: uuid.New(),
	}
	f.svc = NewCartService(f.carts, f.laptops)
	f.laptops.laptops[f.laptopID] = &catalogmodel.Laptop{
		ID:       f.laptopID,
		Name:     "Dell XPS 13",
		Slug:     "dell-xps-13",
		Price:    decimal.NewFromInt(999),
		Quantity: 5,
		IsActive: true,
	}
	return f
}

func (f *cartFixture) addItem(t *testing.T, qty int) *cartmodel.CartView {
	t.Helper()
	view, err := f.svc.AddItem(context.Background(), f.userID, cartmodel.AddItemRequest{
		LaptopID: f.laptopID.String(),
		Quantity: qty,
	})
	require.NoError(t, err)
	return view
}

func TestAddItemCreatesLine(t *testing.T) {
	f := newCartFixture(t)

	view := f.addItem(t, 2)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.True(t, view.Items[0].LineTotal.Equal(decimal.NewFromInt(1998)))
	assert.True(t, view.Subtotal.Equal(decimal.NewFromInt(1998)))
	assert.True(t, view.Items[0].InStock)
}

func TestAddItemMergesQuantities(t *testing.T) {
	f := newCartFixture(t)

	f.addItem(t, 2)
	view := f.addItem(t, 3)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
}

func TestAddItemUnknownLaptop(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.AddItem(context.Background(), f.userID, cartmodel.AddItemRequest{
		LaptopID: uuid.New().String(),
		Quantity: 1,
	})
	assert.ErrorIs(t, err, catalogmodel.ErrLaptopNotFound)
}

func TestAddItemRejectsZeroQuantity(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.AddItem(context.Background(), f.userID, cartmodel.AddItemRequest{
		LaptopID: f.laptopID.String(),
		Quantity: 0,
	})
	assert.Error(t, err)
}

func TestViewFlagsOverstockedLines(t *testing.T) {
	f := newCartFixture(t)

	view := f.addItem(t, 8)

	require.Len(t, view.Items, 1)
	assert.False(t, view.Items[0].InStock, "8 requested, 5 available")
	assert.Equal(t, 5, view.Items[0].AvailableQty)
}

func TestViewDropsDeactivatedLaptops(t *testing.T) {
	f := newCartFixture(t)
	f.addItem(t, 1)
	f.laptops.laptops[f.laptopID].IsActive = false

	view, err := f.svc.GetCart(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Empty(t, view.Items)
	assert.True(t, view.Subtotal.IsZero())
}

func TestUpdateItemReplacesQuantity(t *testing.T) {
	f := newCartFixture(t)
	f.addItem(t, 1)

	view, err := f.svc.UpdateItem(context.Background(), f.userID, f.laptopID,
		cartmodel.UpdateItemRequest{Quantity: 4})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 4, view.Items[0].Quantity)
}

func TestUpdateItemNotInCart(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.UpdateItem(context.Background(), f.userID, f.laptopID,
		cartmodel.UpdateItemRequest{Quantity: 1})
	assert.ErrorIs(t, err, cartmodel.ErrItemNotInCart)
}

func TestRemoveLastItemDeletesCart(t *testing.T) {
	f := newCartFixture(t)
	f.addItem(t, 1)

	view, err := f.svc.RemoveItem(context.Background(), f.userID, f.laptopID)
	require.NoError(t, err)

	assert.Empty(t, view.Items)
	assert.NotContains(t, f.carts.carts, f.userID, "empty carts are removed from Redis")
}

func TestRemoveItemNotInCart(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.RemoveItem(context.Background(), f.userID, f.laptopID)
	assert.ErrorIs(t, err, cartmodel.ErrItemNotInCart)
}

func TestClearEmptiesCart(t *testing.T) {
	f := newCartFixture(t)
	f.addItem(t, 2)

	require.NoError(t, f.svc.Clear(context.Background(), f.userID))

	view, err := f.svc.GetCart(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}
