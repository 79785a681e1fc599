package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const publicOrderIDPrefix = "ORD-"

// NewPublicOrderID generates the customer-facing order identifier,
// distinct from the storage primary key.
func NewPublicOrderID() string {
	return publicOrderIDPrefix + uuid.NewString()
}

type Order struct {
	ID      uuid.UUID
	OrderID string // public identifier, ORD-<uuid>
	UserID  uuid.UUID

	Items []OrderItem

	// Monetary fields are frozen at placement time.
	Subtotal    Money
	DeliveryFee Money
	Total       Money

	Status        OrderStatus
	PaymentStatus PaymentStatus
	PaymentMethod PaymentMethod
	RejectReason  string

	// Denormalized shipping snapshot, immune to later address edits.
	Address OrderAddress

	IdempotencyKey string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type OrderItem struct {
	ProductID uuid.UUID
	Variant   Variant
	Qty       int32
	// Price is the per-unit snapshot captured at placement time.
	Price Money

	CreatedAt time.Time
	DeletedAt *time.Time
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Amount.Mul(decimal.NewFromInt32(i.Qty))
}

// Recompute rebuilds subtotal and total from the line items and delivery
// fee. Every mutation path touching the parts must call it.
func (o *Order) Recompute() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	o.Subtotal = Money{Amount: subtotal, Currency: o.Subtotal.Currency}
	o.Total = Money{Amount: subtotal.Add(o.DeliveryFee.Amount), Currency: o.Subtotal.Currency}
}

// OrderAddress is the shipping snapshot copied onto the order.
type OrderAddress struct {
	FullName   string
	Phone      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

func (a OrderAddress) Validate() error {
	switch {
	case a.FullName == "":
		return errRequired("fullName")
	case a.Phone == "":
		return errRequired("phone")
	case a.Line1 == "":
		return errRequired("line1")
	case a.City == "":
		return errRequired("city")
	case a.State == "":
		return errRequired("state")
	case a.Country == "":
		return errRequired("country")
	}
	return nil
}
