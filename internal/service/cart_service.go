package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/abdulrehan17773/am-backend/internal/apperror"
	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/port"
	"github.com/abdulrehan17773/am-backend/internal/repository"
)

// CartService keeps cart lines consistent with the live catalog: stale
// lines are pruned on read, stock is checked on every write.
type CartService struct {
	carts    port.CartRepository
	products port.ProductRepository
}

func NewCartService(carts port.CartRepository, products port.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// AddItem inserts a new line or accumulates quantity onto an existing
// line for the same product and variant, capped by variant stock.
func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, variant domain.Variant, qty int32) (domain.CartItem, error) {
	var c domain.CartItem

	if qty < 1 {
		return c, apperror.Validation("quantity must be at least 1")
	}
	if err := variant.Validate(); err != nil {
		return c, apperror.Validation("invalid variant: %v", err)
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c, apperror.NotFound("product not found")
		}
		return c, fmt.Errorf("products.GetProduct: %w", err)
	}
	if !product.Sellable() {
		return c, apperror.NotFound("product not found")
	}

	pv, ok := product.FindVariant(variant)
	if !ok {
		return c, apperror.Validation("product does not have variant %s/%s", variant.Size, variant.Color)
	}
	if pv.Stock < qty {
		return c, apperror.Validation("only %d item(s) available for this variant", pv.Stock)
	}

	existing, err := s.carts.FindItem(ctx, userID, productID, variant)
	switch {
	case err == nil:
		newQty := existing.Qty + qty
		if newQty > pv.Stock {
			return c, apperror.Validation("only %d item(s) available for this variant", pv.Stock)
		}
		if err := s.carts.UpdateQty(ctx, existing.ID, newQty); err != nil {
			return c, fmt.Errorf("carts.UpdateQty: %w", err)
		}
		existing.Qty = newQty
		return existing, nil

	case errors.Is(err, repository.ErrCartItemNotFound):
		item := domain.CartItem{
			UserID:    userID,
			ProductID: productID,
			Variant:   variant,
			Qty:       qty,
		}
		inserted, err := s.carts.InsertItem(ctx, item)
		if err != nil {
			return c, fmt.Errorf("carts.InsertItem: %w", err)
		}
		return inserted, nil

	default:
		return c, fmt.Errorf("carts.FindItem: %w", err)
	}
}

// GetCart returns the user's cart joined with live products. Lines
// whose product, variant or stock vanished are soft-deleted on the way
// out instead of being shown.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error) {
	items, err := s.carts.GetActiveItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("carts.GetActiveItems: %w", err)
	}
	if len(items) == 0 {
		return []domain.CartLine{}, nil
	}

	productIDs := lo.Uniq(lo.Map(items, func(i domain.CartItem, _ int) uuid.UUID { return i.ProductID }))
	products, err := s.products.GetProducts(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("products.GetProducts: %w", err)
	}

	lines := make([]domain.CartLine, 0, len(items))
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok || !product.Sellable() {
			if err := s.carts.SoftDeleteItem(ctx, item.ID); err != nil {
				return nil, fmt.Errorf("carts.SoftDeleteItem: %w", err)
			}
			continue
		}
		pv, ok := product.FindVariant(item.Variant)
		if !ok || pv.Stock <= 0 {
			if err := s.carts.SoftDeleteItem(ctx, item.ID); err != nil {
				return nil, fmt.Errorf("carts.SoftDeleteItem: %w", err)
			}
			continue
		}
		lines = append(lines, domain.CartLine{CartItem: item, Product: product})
	}

	return lines, nil
}

// UpdateQty sets an exact quantity on a line. Zero or negative removes
// the line. A line whose product side went away is pruned and reported.
func (s *CartService) UpdateQty(ctx context.Context, userID, itemID uuid.UUID, qty int32) (domain.CartItem, error) {
	var c domain.CartItem

	item, err := s.getOwnedItem(ctx, userID, itemID)
	if err != nil {
		return c, err
	}

	product, err := s.products.GetProduct(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c, s.pruneLine(ctx, item.ID, apperror.NotFound("product no longer available, item removed from cart"))
		}
		return c, fmt.Errorf("products.GetProduct: %w", err)
	}
	if !product.Sellable() {
		return c, s.pruneLine(ctx, item.ID, apperror.NotFound("product no longer available, item removed from cart"))
	}

	pv, ok := product.FindVariant(item.Variant)
	if !ok {
		return c, s.pruneLine(ctx, item.ID, apperror.NotFound("product variant no longer available, item removed from cart"))
	}
	if pv.Stock <= 0 {
		return c, s.pruneLine(ctx, item.ID, apperror.Validation("product out of stock, item removed from cart"))
	}

	if qty <= 0 {
		if err := s.carts.SoftDeleteItem(ctx, item.ID); err != nil {
			return c, fmt.Errorf("carts.SoftDeleteItem: %w", err)
		}
		item.Qty = 0
		return item, nil
	}

	if qty > pv.Stock {
		return c, apperror.Validation("only %d item(s) available for this variant", pv.Stock)
	}

	if err := s.carts.UpdateQty(ctx, item.ID, qty); err != nil {
		return c, fmt.Errorf("carts.UpdateQty: %w", err)
	}
	item.Qty = qty

	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.getOwnedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	if err := s.carts.SoftDeleteItem(ctx, item.ID); err != nil {
		return fmt.Errorf("carts.SoftDeleteItem: %w", err)
	}

	return nil
}

// ClearCart removes every active line and reports how many went away.
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) (int64, error) {
	cleared, err := s.carts.ClearCart(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("carts.ClearCart: %w", err)
	}
	return cleared, nil
}

func (s *CartService) getOwnedItem(ctx context.Context, userID, itemID uuid.UUID) (domain.CartItem, error) {
	item, err := s.carts.GetItem(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return item, apperror.NotFound("cart item not found")
		}
		return item, fmt.Errorf("carts.GetItem: %w", err)
	}
	return item, nil
}

func (s *CartService) pruneLine(ctx context.Context, itemID uuid.UUID, cause error) error {
	if err := s.carts.SoftDeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("carts.SoftDeleteItem: %w", err)
	}
	return cause
}
