package port

import (
	"context"

	"github.com/tasselgroup/storefront/internal/domain"
)

// PaymentGateway creates a hosted-payment session for an order. The returned
// session carries the gateway URL and the opaque field map to post to it.
type PaymentGateway interface {
	CreateSession(ctx context.Context, token string, order domain.OrderPayload) (domain.PaymentSession, error)
}
