package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uuid.UUID
	Name        string
	Description string

	Price Money
	// Discount is a percentage in [0, 100].
	Discount int32

	CategoryID uuid.UUID

	Images   []ProductImage
	Variants []ProductVariant
	// TotalStock is the denormalized sum of variant stocks, maintained
	// on every variant write.
	TotalStock int32

	IsActive   bool
	IsFeatured bool

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type ProductImage struct {
	ID  uuid.UUID
	URL string
	Alt string
}

// Variant identifies one size/color combination of a product.
type Variant struct {
	Size  string
	Color string
}

func (v Variant) Validate() error {
	if v.Size == "" {
		return errRequired("variant.size")
	}
	if v.Color == "" {
		return errRequired("variant.color")
	}
	return nil
}

type ProductVariant struct {
	Variant
	Stock int32
}

var oneHundred = decimal.NewFromInt(100)

// FinalPrice applies the percentage discount, rounded to 2 decimals.
func (p Product) FinalPrice() Money {
	if p.Discount == 0 {
		return p.Price.Round()
	}

	discount := p.Price.Amount.Mul(decimal.NewFromInt32(p.Discount)).Div(oneHundred)
	return Money{
		Amount:   p.Price.Amount.Sub(discount).Round(2),
		Currency: p.Price.Currency,
	}
}

// FindVariant looks up a size/color combination.
func (p Product) FindVariant(v Variant) (ProductVariant, bool) {
	for _, pv := range p.Variants {
		if pv.Size == v.Size && pv.Color == v.Color {
			return pv, true
		}
	}
	return ProductVariant{}, false
}

// ComputeTotalStock sums the variant stocks.
func (p Product) ComputeTotalStock() int32 {
	var total int32
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

// FirstImageURL returns the display image, empty when none exist.
func (p Product) FirstImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// Sellable products are visible to customers.
func (p Product) Sellable() bool {
	return p.IsActive && p.DeletedAt == nil
}

// ProductFilter has AND semantics across fields.
type ProductFilter struct {
	// Search matches a case-insensitive substring of the name.
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	CategoryID *uuid.UUID

	OnlyActive   bool
	OnlyFeatured bool
	OnlyInStock  bool
}
