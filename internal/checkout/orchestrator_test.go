package checkout_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tasselgroup/storefront/internal/cart"
	"github.com/tasselgroup/storefront/internal/checkout"
	"github.com/tasselgroup/storefront/internal/domain"
	"github.com/tasselgroup/storefront/internal/notify"
	"github.com/tasselgroup/storefront/internal/port"
	"github.com/tasselgroup/storefront/internal/repository"
	"golang.org/x/text/currency"
)

var zar = currency.MustParseISO("ZAR")

type stubGateway struct {
	calls   int
	session domain.PaymentSession
	err     error
}

func (g *stubGateway) CreateSession(_ context.Context, _ string, _ domain.OrderPayload) (domain.PaymentSession, error) {
	g.calls++
	if g.err != nil {
		return domain.PaymentSession{}, g.err
	}
	return g.session, nil
}

type stubCredentials struct {
	token    string
	customer domain.Customer
	err      error
}

func (c stubCredentials) Token(context.Context) (string, error) {
	return c.token, c.err
}

func (c stubCredentials) Customer(context.Context) (domain.Customer, error) {
	return c.customer, c.err
}

type orchestratorSuite struct {
	suite.Suite

	store    *cart.Store
	gateway  *stubGateway
	recorder *notify.Recorder
	orch     *checkout.Orchestrator
}

// entry point to run the tests in the suite
func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(orchestratorSuite))
}

// before each test: a cart holding one Argan Oil at R245 and a healthy gateway
func (suite *orchestratorSuite) SetupTest() {
	ctx := context.Background()

	store, err := cart.New(ctx, repository.NewMemorySnapshot(), zar)
	suite.Require().NoError(err)
	suite.Require().NoError(store.Add(ctx, arganOil()))
	suite.store = store

	suite.gateway = &stubGateway{
		session: domain.PaymentSession{
			GatewayURL: "https://sandbox.payfast.co.za/eng/process",
			Fields:     map[string]string{"merchant_id": "10000100", "amount": "445.00"},
		},
	}
	suite.recorder = &notify.Recorder{}

	orch, err := checkout.New(store, suite.gateway,
		stubCredentials{token: "tok-123"},
		testConfig(),
		checkout.WithNotifier(suite.recorder),
	)
	suite.Require().NoError(err)
	suite.orch = orch
}

func testConfig() checkout.Config {
	return checkout.Config{
		StoreName:      "Tassel Studio",
		SiteURL:        "tasselgroup.co.za",
		WhatsAppNumber: "27729605153",
		DeliveryFee:    decimal.NewFromInt(200),
	}
}

func arganOil() domain.Product {
	return domain.Product{
		ID:    "a",
		Name:  "Argan Oil",
		Price: decimal.NewFromInt(245),
	}
}

func validForm(method domain.FulfillmentMethod) domain.CheckoutForm {
	form := domain.CheckoutForm{
		FullName:      "Jane Doe",
		Email:         "jane@example.com",
		Phone:         "0821234567",
		TermsAccepted: true,
		Fulfillment:   method,
	}
	if method == domain.FulfillmentDelivery {
		form.Delivery = domain.DeliveryDetails{
			Address: "12 Main Rd",
			City:    "Cape Town",
			Postal:  "8001",
		}
	}
	return form
}

func (suite *orchestratorSuite) TestValidateForm() {
	t := suite.T()

	tests := []struct {
		name      string
		mutate    func(*domain.CheckoutForm)
		wantField string
		wantMsg   string
	}{
		{
			name:   "valid pickup form: ok",
			mutate: func(f *domain.CheckoutForm) {},
		},
		{
			name:      "missing name",
			mutate:    func(f *domain.CheckoutForm) { f.FullName = "   " },
			wantField: "fullname",
			wantMsg:   "Please enter your full name",
		},
		{
			name:      "missing email",
			mutate:    func(f *domain.CheckoutForm) { f.Email = "" },
			wantField: "email",
			wantMsg:   "Please enter your email address",
		},
		{
			name:      "malformed email",
			mutate:    func(f *domain.CheckoutForm) { f.Email = "jane@nodot" },
			wantField: "email",
			wantMsg:   "Please enter a valid email address",
		},
		{
			name:      "missing phone",
			mutate:    func(f *domain.CheckoutForm) { f.Phone = "" },
			wantField: "phone",
			wantMsg:   "Please enter your phone number",
		},
		{
			name:      "terms not accepted",
			mutate:    func(f *domain.CheckoutForm) { f.TermsAccepted = false },
			wantField: "terms",
			wantMsg:   "Please agree to the terms and conditions",
		},
		{
			name: "delivery without address",
			mutate: func(f *domain.CheckoutForm) {
				f.Fulfillment = domain.FulfillmentDelivery
				f.Delivery = domain.DeliveryDetails{City: "Cape Town"}
			},
			wantField: "address",
			wantMsg:   "Please enter your delivery address",
		},
		{
			name: "delivery without city",
			mutate: func(f *domain.CheckoutForm) {
				f.Fulfillment = domain.FulfillmentDelivery
				f.Delivery = domain.DeliveryDetails{Address: "12 Main Rd"}
			},
			wantField: "city",
			wantMsg:   "Please enter your city",
		},
		{
			name: "delivery without postal: ok",
			mutate: func(f *domain.CheckoutForm) {
				f.Fulfillment = domain.FulfillmentDelivery
				f.Delivery = domain.DeliveryDetails{Address: "12 Main Rd", City: "Cape Town"}
			},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			form := validForm(domain.FulfillmentPickup)
			tt.mutate(&form)

			err := suite.orch.ValidateForm(form)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			var verr *checkout.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Equal(t, tt.wantMsg, verr.Message)
		})
	}
}

func (suite *orchestratorSuite) TestEmptyCartGuardsBothChannels() {
	t := suite.T()
	ctx := t.Context()

	empty, err := cart.New(ctx, repository.NewMemorySnapshot(), zar)
	require.NoError(t, err)

	orch, err := checkout.New(empty, suite.gateway, stubCredentials{token: "tok-123"}, testConfig())
	require.NoError(t, err)

	// The empty-cart check runs before any field validation, so even a
	// fully valid form is rejected.
	_, err = orch.SubmitViaHostedPayment(ctx, validForm(domain.FulfillmentPickup))
	require.ErrorIs(t, err, checkout.ErrEmptyCart)

	_, err = orch.SubmitViaMessagingChannel(validForm(domain.FulfillmentPickup))
	require.ErrorIs(t, err, checkout.ErrEmptyCart)

	assert.Zero(t, suite.gateway.calls, "no network call may happen for an empty cart")
	assert.Equal(t, checkout.StateRejected, orch.State())
}

func (suite *orchestratorSuite) TestComputeOrderTotals() {
	t := suite.T()

	pickup := suite.orch.ComputeOrderTotals(domain.FulfillmentPickup)
	assert.Equal(t, "R245.00", pickup.Total.Display())
	assert.Equal(t, "R0.00", pickup.DeliveryFee.Display())

	// Switching fulfillment re-derives totals from the same in-memory cart.
	delivery := suite.orch.ComputeOrderTotals(domain.FulfillmentDelivery)
	assert.Equal(t, "R245.00", delivery.Subtotal.Display())
	assert.Equal(t, "R200.00", delivery.DeliveryFee.Display())
	assert.Equal(t, "R445.00", delivery.Total.Display())
}

func (suite *orchestratorSuite) TestRenderOrderSummary() {
	t := suite.T()

	summary := suite.orch.RenderOrderSummary(domain.FulfillmentPickup)
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, "Argan Oil", summary.Lines[0].Name)
	assert.Equal(t, 1, summary.Lines[0].Quantity)
	assert.Equal(t, "R245.00", summary.Lines[0].LineTotal.Display())
	assert.Equal(t, domain.DefaultImageRef, summary.Lines[0].Image)
	assert.Equal(t, "Free", summary.DeliveryLabel)
	assert.Equal(t, "R245.00", summary.Total.Display())

	// Cart changes must be reflected on the next render.
	ctx := t.Context()
	suite.store.UpdateQuantity(ctx, "a", 1)
	summary = suite.orch.RenderOrderSummary(domain.FulfillmentDelivery)
	assert.Equal(t, 2, summary.Lines[0].Quantity)
	assert.Equal(t, "R200.00", summary.DeliveryLabel)
	assert.Equal(t, "R690.00", summary.Total.Display())
}

func (suite *orchestratorSuite) TestSubmitViaHostedPayment() {
	t := suite.T()
	ctx := t.Context()

	redirect, err := suite.orch.SubmitViaHostedPayment(ctx, validForm(domain.FulfillmentDelivery))
	require.NoError(t, err)

	assert.Equal(t, 1, suite.gateway.calls)
	assert.Equal(t, "https://sandbox.payfast.co.za/eng/process", redirect.GatewayURL)
	assert.Contains(t, redirect.Document, `name="merchant_id" value="10000100"`)
	assert.Contains(t, redirect.Document, "submit();")
	assert.Equal(t, checkout.StateHostedRedirect, suite.orch.State())

	// The cart survives the handoff; it is cleared only once the gateway
	// confirms payment out-of-band.
	assert.False(t, suite.store.IsEmpty())
}

func (suite *orchestratorSuite) TestSubmitViaHostedPaymentGatewayFailure() {
	t := suite.T()
	ctx := t.Context()

	suite.gateway.err = errors.New("PayFast is unavailable")

	_, err := suite.orch.SubmitViaHostedPayment(ctx, validForm(domain.FulfillmentPickup))
	require.Error(t, err)
	assert.Equal(t, checkout.StateFailed, suite.orch.State())

	// Cart stays intact for an explicit retry.
	assert.Equal(t, 1, suite.store.ItemCount())

	last, ok := suite.recorder.Last()
	require.True(t, ok)
	assert.Equal(t, port.LevelError, last.Level)
	assert.Equal(t, "PayFast is unavailable", last.Message)
}

func (suite *orchestratorSuite) TestSubmitViaHostedPaymentMissingCredential() {
	t := suite.T()
	ctx := t.Context()

	orch, err := checkout.New(suite.store, suite.gateway, stubCredentials{}, testConfig())
	require.NoError(t, err)

	_, err = orch.SubmitViaHostedPayment(ctx, validForm(domain.FulfillmentPickup))
	require.Error(t, err)
	assert.Zero(t, suite.gateway.calls)
	assert.Equal(t, checkout.StateFailed, orch.State())
}

func (suite *orchestratorSuite) TestSubmitViaMessagingChannel() {
	t := suite.T()

	handoff, err := suite.orch.SubmitViaMessagingChannel(validForm(domain.FulfillmentDelivery))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(handoff.Link, "https://wa.me/27729605153?text="), handoff.Link)
	assert.Zero(t, suite.gateway.calls, "messaging handoff never touches the payment endpoint")
	assert.Equal(t, checkout.StateMessageOpened, suite.orch.State())
}

func (suite *orchestratorSuite) TestPrefillForm() {
	t := suite.T()
	ctx := t.Context()

	orch, err := checkout.New(suite.store, suite.gateway, stubCredentials{
		token:    "tok-123",
		customer: domain.Customer{Name: "Jane Doe", Email: "jane@example.com", Phone: "0821234567"},
	}, testConfig())
	require.NoError(t, err)

	form := domain.CheckoutForm{Phone: "0115550000"}
	orch.PrefillForm(ctx, &form)

	assert.Equal(t, "Jane Doe", form.FullName)
	assert.Equal(t, "jane@example.com", form.Email)
	assert.Equal(t, "0115550000", form.Phone, "filled fields are left alone")
}

func (suite *orchestratorSuite) TestRejectedSubmissionKeepsFormAndCart() {
	t := suite.T()
	ctx := t.Context()

	form := validForm(domain.FulfillmentPickup)
	form.Email = "not-an-email"

	_, err := suite.orch.SubmitViaHostedPayment(ctx, form)
	var verr *checkout.ValidationError
	require.ErrorAs(t, err, &verr)

	assert.Zero(t, suite.gateway.calls)
	assert.Equal(t, 1, suite.store.ItemCount())
	assert.Equal(t, checkout.StateRejected, suite.orch.State())
}
