// Package payfast talks to the storefront backend's payment endpoint and
// builds the hosted-gateway redirect handoff.
package payfast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tasselgroup/storefront/internal/domain"
	"github.com/tasselgroup/storefront/internal/port"
)

// DefaultTimeout bounds the create-session call; the backend never pushes a
// timeout of its own, so expiry is treated as a plain network failure.
const DefaultTimeout = 30 * time.Second

const createOrderPath = "/api/payments/create-payfast-order"

// Client creates PayFast payment sessions through the remote backend.
// There are no retries: a failed call is surfaced once and the user
// re-submits explicitly.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is empty")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

type sessionResponse struct {
	Fields     map[string]string `json:"fields"`
	PayfastURL string            `json:"payfastUrl"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CreateSession posts the order payload to the backend with the stored
// bearer credential and returns the gateway URL plus the opaque field map
// to post there.
func (c *Client) CreateSession(ctx context.Context, token string, order domain.OrderPayload) (domain.PaymentSession, error) {
	if token == "" {
		return domain.PaymentSession{}, fmt.Errorf("token is empty")
	}

	body, err := json.Marshal(order)
	if err != nil {
		return domain.PaymentSession{}, fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+createOrderPath, bytes.NewReader(body))
	if err != nil {
		return domain.PaymentSession{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return domain.PaymentSession{}, fmt.Errorf("httpc.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.PaymentSession{}, c.decodeError(resp)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return domain.PaymentSession{}, fmt.Errorf("decode session response: %w", err)
	}
	if session.PayfastURL == "" {
		return domain.PaymentSession{}, fmt.Errorf("session response has no gateway url")
	}

	c.logger.Info("payment session created",
		"reference", order.ClientReference, "gateway", session.PayfastURL)

	return domain.PaymentSession{
		GatewayURL: session.PayfastURL,
		Fields:     session.Fields,
	}, nil
}

// decodeError extracts the server-supplied message from a non-2xx response,
// falling back to a generic one when the body is unusable.
func (c *Client) decodeError(resp *http.Response) error {
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Message != "" {
			return fmt.Errorf("%s", body.Message)
		}
		if body.Error != "" {
			return fmt.Errorf("%s", body.Error)
		}
	}
	return fmt.Errorf("failed to create payment (status %d)", resp.StatusCode)
}

var _ port.PaymentGateway = (*Client)(nil)
