// Package checkout gates order submission on cart non-emptiness and form
// validity, then executes one of two fulfillment channels: a hosted PayFast
// session handoff or a WhatsApp deep-link handoff.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tasselgroup/storefront/internal/cart"
	"github.com/tasselgroup/storefront/internal/domain"
	"github.com/tasselgroup/storefront/internal/payfast"
	"github.com/tasselgroup/storefront/internal/port"
)

// State tracks where the checkout page is in its submission lifecycle.
// Rejected and Failed are observable outcomes; the next submission resets
// to Validating. HostedRedirect is terminal, the browser leaves the page.
type State string

const (
	StateIdle           State = "idle"
	StateValidating     State = "validating"
	StateRejected       State = "rejected"
	StateSubmitting     State = "submitting"
	StateHostedRedirect State = "hosted_redirect"
	StateMessageOpened  State = "message_channel_opened"
	StateFailed         State = "failed"
)

// Config carries the storefront identity and pricing the orchestrator needs.
type Config struct {
	StoreName      string
	SiteURL        string
	WhatsAppNumber string
	DeliveryFee    decimal.Decimal
}

type Orchestrator struct {
	store    *cart.Store
	gateway  port.PaymentGateway
	creds    port.CredentialSource
	notifier port.Notifier
	logger   *slog.Logger
	cfg      Config

	mu    sync.Mutex
	state State
}

type Option func(*Orchestrator)

func WithNotifier(n port.Notifier) Option {
	return func(o *Orchestrator) { o.notifier = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

func New(store *cart.Store, gateway port.PaymentGateway, creds port.CredentialSource, cfg Config, opts ...Option) (*Orchestrator, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if gateway == nil {
		return nil, fmt.Errorf("gateway is nil")
	}
	if cfg.WhatsAppNumber == "" {
		return nil, fmt.Errorf("whatsapp number is empty")
	}
	if cfg.DeliveryFee.IsNegative() {
		return nil, fmt.Errorf("delivery fee is negative")
	}

	o := &Orchestrator{
		store:   store,
		gateway: gateway,
		creds:   creds,
		logger:  slog.Default(),
		cfg:     cfg,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Totals is the checkout-page money breakdown, recomputed on every cart or
// fulfillment change rather than cached.
type Totals struct {
	Subtotal    domain.Money
	DeliveryFee domain.Money
	Total       domain.Money
}

// ComputeOrderTotals derives subtotal, delivery fee and grand total for the
// chosen fulfillment method. Pickup carries no fee.
func (o *Orchestrator) ComputeOrderTotals(method domain.FulfillmentMethod) Totals {
	subtotal := o.store.Subtotal()

	fee := decimal.Zero
	if method == domain.FulfillmentDelivery {
		fee = o.cfg.DeliveryFee
	}

	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: domain.NewMoney(fee, o.store.Currency()),
		Total:       subtotal.Add(fee),
	}
}

// SummaryLine is one row of the order summary projection.
type SummaryLine struct {
	Name      string
	Quantity  int
	LineTotal domain.Money
	Image     string
}

// OrderSummary is the read-only projection the checkout page renders. It is
// rebuilt whenever the fulfillment selector or the cart changes.
type OrderSummary struct {
	Lines         []SummaryLine
	Subtotal      domain.Money
	DeliveryLabel string
	Total         domain.Money
}

func (o *Orchestrator) RenderOrderSummary(method domain.FulfillmentMethod) OrderSummary {
	items := o.store.Items()
	totals := o.ComputeOrderTotals(method)

	lines := make([]SummaryLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, SummaryLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			LineTotal: domain.NewMoney(item.LineTotal(), o.store.Currency()),
			Image:     item.ResolveImage(),
		})
	}

	return OrderSummary{
		Lines:         lines,
		Subtotal:      totals.Subtotal,
		DeliveryLabel: deliveryLabel(totals.DeliveryFee),
		Total:         totals.Total,
	}
}

func deliveryLabel(fee domain.Money) string {
	if fee.Amount.IsPositive() {
		return fee.Display()
	}
	return "Free"
}

// PrefillForm seeds empty contact fields from the profile stored next to
// the login credential. Best-effort: a missing profile leaves the form
// untouched.
func (o *Orchestrator) PrefillForm(ctx context.Context, form *domain.CheckoutForm) {
	if o.creds == nil || form == nil {
		return
	}

	customer, err := o.creds.Customer(ctx)
	if err != nil {
		o.logger.Warn("checkout prefill skipped", "error", err)
		return
	}

	if form.FullName == "" {
		form.FullName = customer.Name
	}
	if form.Email == "" {
		form.Email = customer.Email
	}
	if form.Phone == "" {
		form.Phone = customer.Phone
	}
}

// HostedRedirect carries the gateway handoff: the URL being posted to and
// the auto-submitting form document that performs the post.
type HostedRedirect struct {
	GatewayURL string
	Document   string
}

// SubmitViaHostedPayment validates the form, asks the backend for a PayFast
// session and returns the redirect handoff. On failure the cart and form are
// left intact for an explicit retry; nothing is retried automatically.
//
// The cart is deliberately not cleared on success: the redirect only proves
// a session was created, and payment can still fail at the gateway. Callers
// clear explicitly once the gateway confirms.
func (o *Orchestrator) SubmitViaHostedPayment(ctx context.Context, form domain.CheckoutForm) (HostedRedirect, error) {
	o.setState(StateValidating)

	if err := o.ValidateForm(form); err != nil {
		o.setState(StateRejected)
		o.notify(port.LevelError, err.Error())
		return HostedRedirect{}, err
	}

	o.setState(StateSubmitting)
	o.notify(port.LevelInfo, "Processing payment...")

	token, err := o.bearerToken(ctx)
	if err != nil {
		o.setState(StateFailed)
		o.notify(port.LevelError, "Please log in to complete payment")
		return HostedRedirect{}, err
	}

	order := o.buildOrder(form)
	session, err := o.gateway.CreateSession(ctx, token, order)
	if err != nil {
		o.setState(StateFailed)
		o.notify(port.LevelError, err.Error())
		o.logger.Warn("payment session failed", "reference", order.ClientReference, "error", err)
		return HostedRedirect{}, fmt.Errorf("gateway.CreateSession: %w", err)
	}

	doc, err := payfast.RedirectForm(session)
	if err != nil {
		o.setState(StateFailed)
		o.notify(port.LevelError, "Payment failed. Please try again or use WhatsApp ordering.")
		return HostedRedirect{}, err
	}

	o.setState(StateHostedRedirect)
	return HostedRedirect{GatewayURL: session.GatewayURL, Document: doc}, nil
}

// MessageHandoff is the client-only checkout path: a formatted order summary
// behind a WhatsApp deep link opened in a new browsing context. It never
// touches the payment endpoint.
type MessageHandoff struct {
	Link string
	Text string
}

func (o *Orchestrator) SubmitViaMessagingChannel(form domain.CheckoutForm) (MessageHandoff, error) {
	o.setState(StateValidating)

	if err := o.ValidateForm(form); err != nil {
		o.setState(StateRejected)
		o.notify(port.LevelError, err.Error())
		return MessageHandoff{}, err
	}

	text := buildOrderMessage(o.cfg, form, o.store.Items(), o.ComputeOrderTotals(form.Fulfillment))
	link := messageLink(o.cfg.WhatsAppNumber, text)

	o.setState(StateMessageOpened)
	return MessageHandoff{Link: link, Text: text}, nil
}

func (o *Orchestrator) buildOrder(form domain.CheckoutForm) domain.OrderPayload {
	items := o.store.Items()
	totals := o.ComputeOrderTotals(form.Fulfillment)

	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, domain.OrderItem{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.EffectiveUnitPrice(),
		})
	}

	order := domain.OrderPayload{
		Items:           orderItems,
		Total:           totals.Total.Amount,
		Email:           form.Email,
		CustomerName:    form.FullName,
		Phone:           form.Phone,
		ClientReference: uuid.NewString(),
	}
	if form.Fulfillment == domain.FulfillmentDelivery {
		delivery := form.Delivery
		order.DeliveryDetails = &delivery
	}
	return order
}

func (o *Orchestrator) bearerToken(ctx context.Context) (string, error) {
	if o.creds == nil {
		return "", fmt.Errorf("no credential source configured")
	}
	token, err := o.creds.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("creds.Token: %w", err)
	}
	if token == "" {
		return "", fmt.Errorf("no stored credential")
	}
	return token, nil
}

func (o *Orchestrator) notify(level port.NotificationLevel, message string) {
	if o.notifier != nil {
		o.notifier.Notify(level, message)
	}
}
