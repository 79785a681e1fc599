package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/abdulrehan17773/am-backend/internal/domain"
)

type OrderRepository interface {
	// PlaceOrder inserts the order and soft-deletes the owner's active
	// cart lines in a single transaction.
	PlaceOrder(ctx context.Context, order domain.Order) (domain.Order, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	GetOrderByPublicID(ctx context.Context, publicID string) (domain.Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (domain.Order, error)

	SearchOrders(ctx context.Context, filter domain.OrderFilter, page domain.Page) ([]domain.Order, int64, error)

	// UpdateOrderStatus is a conditional write: it succeeds only while the
	// current status is in allowedFrom, otherwise ErrStatusConflict.
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, target domain.OrderStatus, allowedFrom []domain.OrderStatus) error
	RejectOrder(ctx context.Context, orderID uuid.UUID, reason string, allowedFrom []domain.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, target domain.PaymentStatus) error

	SoftDeleteOrder(ctx context.Context, orderID uuid.UUID) error
}
