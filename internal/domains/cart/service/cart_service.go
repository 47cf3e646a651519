package service

import (
	"context"

	cartmodel "laptopshop-backend/internal/domains/cart/model"
	"laptopshop-backend/internal/domains/cart/repository"
	catalogmodel "laptopshop-backend/internal/domains/catalog/model"
	catalogrepo "laptopshop-backend/internal/domains/catalog/repository"
	"laptopshop-backend/internal/shared/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartService struct {
	carts   repository.CartRepository
	laptops catalogrepo.LaptopRepository
}

func NewCartService(carts repository.CartRepository, laptops catalogrepo.LaptopRepository) *CartService {
	return &CartService{carts: carts, laptops: laptops}
}

// GetCart resolves stored cart lines against the live catalog. Lines whose
// laptop has been removed are dropped silently.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*cartmodel.CartView, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &cartmodel.CartView{
		Items:    []cartmodel.CartItemView{},
		Subtotal: decimal.Zero,
	}
	if len(cart.Items) == 0 {
		return view, nil
	}

	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.LaptopID)
	}

	laptops, err := s.laptops.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalogmodel.Laptop, len(laptops))
	for i := range laptops {
		byID[laptops[i].ID] = &laptops[i]
	}

	for _, item := range cart.Items {
		laptop, ok := byID[item.LaptopID]
		if !ok || !laptop.IsActive {
			continue
		}

		lineTotal := laptop.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, cartmodel.CartItemView{
			LaptopID:     laptop.ID,
			Name:         laptop.Name,
			Slug:         laptop.Slug,
			Price:        laptop.Price,
			Quantity:     item.Quantity,
			LineTotal:    lineTotal,
			InStock:      laptop.InStock(item.Quantity),
			AvailableQty: laptop.Quantity,
		})
		view.Subtotal = view.Subtotal.Add(lineTotal)
	}
	view.Subtotal = view.Subtotal.Round(2)

	return view, nil
}

func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req cartmodel.AddItemRequest) (*cartmodel.CartView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	laptopID := utils.ParseStringToUUID(req.LaptopID)
	laptop, err := s.laptops.GetByID(ctx, laptopID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if idx := cart.FindItem(laptop.ID); idx >= 0 {
		cart.Items[idx].Quantity += req.Quantity
	} else {
		cart.Items = append(cart.Items, cartmodel.CartItem{
			LaptopID: laptop.ID,
			Quantity: req.Quantity,
		})
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, laptopID uuid.UUID, req cartmodel.UpdateItemRequest) (*cartmodel.CartView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(laptopID)
	if idx < 0 {
		return nil, cartmodel.ErrItemNotInCart
	}
	cart.Items[idx].Quantity = req.Quantity

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, laptopID uuid.UUID) (*cartmodel.CartView, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(laptopID)
	if idx < 0 {
		return nil, cartmodel.ErrItemNotInCart
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	if len(cart.Items) == 0 {
		if err := s.carts.Delete(ctx, userID); err != nil {
			return nil, err
		}
	} else if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.carts.Delete(ctx, userID)
}
