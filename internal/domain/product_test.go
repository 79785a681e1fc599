package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProduct_FinalPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount int32
		want     string
	}{
		{name: "no discount", price: "100", discount: 0, want: "100.00"},
		{name: "ten percent", price: "100", discount: 10, want: "90.00"},
		{name: "full discount", price: "49.99", discount: 100, want: "0.00"},
		{name: "rounds to 2 decimals", price: "33.33", discount: 15, want: "28.33"},
		{name: "odd cents", price: "19.99", discount: 25, want: "14.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{
				Price:    Money{Amount: decimal.RequireFromString(tt.price)},
				Discount: tt.discount,
			}

			assert.Equal(t, tt.want, p.FinalPrice().Amount.StringFixed(2))
		})
	}
}

func TestProduct_FindVariant(t *testing.T) {
	p := Product{
		Variants: []ProductVariant{
			{Variant: Variant{Size: "M", Color: "black"}, Stock: 3},
			{Variant: Variant{Size: "L", Color: "black"}, Stock: 0},
		},
	}

	pv, ok := p.FindVariant(Variant{Size: "M", Color: "black"})
	assert.True(t, ok)
	assert.Equal(t, int32(3), pv.Stock)

	_, ok = p.FindVariant(Variant{Size: "M", Color: "white"})
	assert.False(t, ok)
}

func TestProduct_ComputeTotalStock(t *testing.T) {
	p := Product{
		Variants: []ProductVariant{
			{Variant: Variant{Size: "S", Color: "red"}, Stock: 2},
			{Variant: Variant{Size: "M", Color: "red"}, Stock: 5},
			{Variant: Variant{Size: "L", Color: "red"}, Stock: 0},
		},
	}

	assert.Equal(t, int32(7), p.ComputeTotalStock())
	assert.Equal(t, int32(0), Product{}.ComputeTotalStock())
}

func TestProduct_Sellable(t *testing.T) {
	now := time.Now()

	assert.True(t, Product{IsActive: true}.Sellable())
	assert.False(t, Product{IsActive: false}.Sellable())
	assert.False(t, Product{IsActive: true, DeletedAt: &now}.Sellable())
}

func TestVariant_Validate(t *testing.T) {
	assert.NoError(t, Variant{Size: "M", Color: "black"}.Validate())
	assert.Error(t, Variant{Color: "black"}.Validate())
	assert.Error(t, Variant{Size: "M"}.Validate())
}
