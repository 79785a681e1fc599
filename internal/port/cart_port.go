package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/abdulrehan17773/am-backend/internal/domain"
)

type CartRepository interface {
	GetActiveItems(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error)
	GetItem(ctx context.Context, itemID, userID uuid.UUID) (domain.CartItem, error)
	FindItem(ctx context.Context, userID, productID uuid.UUID, variant domain.Variant) (domain.CartItem, error)

	InsertItem(ctx context.Context, item domain.CartItem) (domain.CartItem, error)
	UpdateQty(ctx context.Context, itemID uuid.UUID, qty int32) error

	SoftDeleteItem(ctx context.Context, itemID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) (int64, error)
}
