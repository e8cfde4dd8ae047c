package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultImageRef is the placeholder shown for items whose image reference
// is missing or failed to resolve.
const DefaultImageRef = "./assets/images/product-default.jpg"

// Product carries the fields a storefront page supplies when adding to cart.
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	SalePrice decimal.Decimal
	Image     string
}

// LineItem is one cart entry. At most one LineItem exists per product ID;
// adding the same product again increments Quantity instead.
type LineItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	SalePrice decimal.Decimal `json:"salePrice"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
}

// EffectiveUnitPrice returns the sale price when it is a valid discount,
// i.e. 0 < salePrice < price, and the regular price otherwise. Every total
// in the system is derived through this single rule.
func (li LineItem) EffectiveUnitPrice() decimal.Decimal {
	if li.SalePrice.IsPositive() && li.SalePrice.LessThan(li.Price) {
		return li.SalePrice
	}
	return li.Price
}

// LineTotal is the effective unit price multiplied by the quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// ResolveImage returns the item's image reference or the default placeholder.
func (li LineItem) ResolveImage() string {
	if li.Image == "" {
		return DefaultImageRef
	}
	return li.Image
}

// Cart is the ordered collection of line items for one device's storage slot.
type Cart struct {
	Items    []LineItem
	Currency currency.Unit
}

// Find returns the index of the item with the given product ID, or -1.
func (c Cart) Find(productID string) int {
	for i, item := range c.Items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

// Subtotal sums effective unit price times quantity over all items.
func (c Cart) Subtotal() Money {
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(item.LineTotal())
	}
	return Money{Amount: sum, Currency: c.Currency}
}

// ItemCount sums quantities across items; it drives the cart badge.
func (c Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart holds no items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
