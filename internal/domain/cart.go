package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one (user, product, variant) row pending checkout.
type CartItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Variant   Variant
	Qty       int32

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
