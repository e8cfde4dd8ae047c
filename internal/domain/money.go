package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// symbols maps the currencies the storefront trades in to their display
// prefix. Unknown currencies fall back to the ISO code.
var symbols = map[string]string{
	"ZAR": "R",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Symbol returns the display prefix for the money's currency.
func (m Money) Symbol() string {
	code := m.Currency.String()
	if sym, ok := symbols[code]; ok {
		return sym
	}
	return code
}

// Display renders the amount at minor-unit precision with the currency
// symbol, e.g. "R245.00".
func (m Money) Display() string {
	return m.Symbol() + m.Amount.StringFixed(2)
}

// Add returns the sum of m and the given amount in the same currency.
func (m Money) Add(amount decimal.Decimal) Money {
	return Money{Amount: m.Amount.Add(amount), Currency: m.Currency}
}

// NewMoney builds a Money value from an amount and currency unit.
func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}
