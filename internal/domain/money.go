package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

func (m Money) Add(other decimal.Decimal) Money {
	return Money{Amount: m.Amount.Add(other), Currency: m.Currency}
}

func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(factor), Currency: m.Currency}
}

// Round returns the amount rounded to 2 decimal places, keeping the unit.
func (m Money) Round() Money {
	return Money{Amount: m.Amount.Round(2), Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}
