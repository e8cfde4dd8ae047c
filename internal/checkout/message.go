package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tasselgroup/storefront/internal/domain"
)

// buildOrderMessage renders the human-readable order summary sent over the
// messaging channel: store header, customer block, itemized lines, totals,
// fulfillment method and address block. Newlines are literal here; encoding
// happens when the deep link is built.
func buildOrderMessage(cfg Config, form domain.CheckoutForm, items []domain.LineItem, totals Totals) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*NEW ORDER FROM %s*\n\n", strings.ToUpper(cfg.StoreName))

	b.WriteString("*CUSTOMER DETAILS*\n")
	fmt.Fprintf(&b, "Name: %s\n", form.FullName)
	fmt.Fprintf(&b, "Email: %s\n", form.Email)
	fmt.Fprintf(&b, "Phone: %s\n\n", form.Phone)

	b.WriteString("*ORDER DETAILS*\n")
	for _, item := range items {
		lineTotal := domain.NewMoney(item.LineTotal(), totals.Subtotal.Currency)
		fmt.Fprintf(&b, "%s x%d - %s\n", item.Name, item.Quantity, lineTotal.Display())
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Subtotal: %s\n", totals.Subtotal.Display())
	fmt.Fprintf(&b, "Delivery: %s\n", deliveryLabel(totals.DeliveryFee))
	fmt.Fprintf(&b, "*TOTAL: %s*\n\n", totals.Total.Display())

	b.WriteString("*DELIVERY OPTION*\n")
	b.WriteString(form.Fulfillment.Label())
	b.WriteString("\n")

	if form.Fulfillment == domain.FulfillmentDelivery {
		b.WriteString("\n*DELIVERY ADDRESS*\n")
		b.WriteString(form.Delivery.Address)
		b.WriteString("\n")
		b.WriteString(form.Delivery.City)
		if form.Delivery.Postal != "" {
			b.WriteString("\n")
			b.WriteString(form.Delivery.Postal)
		}
	}

	fmt.Fprintf(&b, "\n\n_Powered by %s_", cfg.SiteURL)

	return b.String()
}

// encodeComponent percent-escapes text for a URL query, with spaces as %20
// and newlines as %0A, matching the channel's encoding convention.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// messageLink builds the wa.me deep link carrying the encoded order text.
func messageLink(number, text string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, encodeComponent(text))
}
