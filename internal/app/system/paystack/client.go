// Package paystack is a small client for the Paystack REST API covering the
// card-verification and subscription calls the billing flow makes.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is Paystack's API root.
const DefaultBaseURL = "https://api.paystack.co"

// ErrGateway wraps transport failures and non-2xx responses.
var ErrGateway = errors.New("paystack: gateway error")

// Client calls Paystack with a secret key bearer token.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient builds a Client.
func NewClient(baseURL, secretKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	hc := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: secretKey,
		TokenType:   "Bearer",
	}))
	hc.Timeout = timeout
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc, log: logger}
}

// envelope is the shape of every Paystack response.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrGateway, method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decErr := json.NewDecoder(resp.Body).Decode(&env)
	if resp.StatusCode >= 300 || decErr != nil || !env.Status {
		msg := env.Message
		if msg == "" {
			msg = resp.Status
		}
		c.log.Warn("paystack request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return fmt.Errorf("%w: %s %s: %d %s", ErrGateway, method, path, resp.StatusCode, msg)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrGateway, path, err)
	}
	return nil
}

// InitializeRequest starts a hosted-checkout transaction. Amount is in
// the currency's minor unit (kobo).
type InitializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Reference   string            `json:"reference,omitempty"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Checkout is where to send the payer.
type Checkout struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

func (c *Client) InitializeTransaction(ctx context.Context, in InitializeRequest) (Checkout, error) {
	var out Checkout
	err := c.do(ctx, http.MethodPost, "/transaction/initialize", in, &out)
	return out, err
}

// Authorization is a saved card.
type Authorization struct {
	AuthorizationCode string `json:"authorization_code"`
	Reusable          bool   `json:"reusable"`
	Last4             string `json:"last4"`
	Brand             string `json:"brand"`
}

type Customer struct {
	CustomerCode string `json:"customer_code"`
	Email        string `json:"email"`
}

// Transaction is the verified state of a payment.
type Transaction struct {
	Status        string        `json:"status"`
	Reference     string        `json:"reference"`
	Amount        int64         `json:"amount"`
	Authorization Authorization `json:"authorization"`
	Customer      Customer      `json:"customer"`
	// Metadata comes back as an object, or as "" when none was set.
	RawMetadata json.RawMessage `json:"metadata"`
}

// Metadata returns the string metadata sent at initialization.
func (t Transaction) Metadata() map[string]string {
	out := map[string]string{}
	var m map[string]any
	if len(t.RawMetadata) == 0 || json.Unmarshal(t.RawMetadata, &m) != nil {
		return out
	}
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func (c *Client) VerifyTransaction(ctx context.Context, reference string) (Transaction, error) {
	var out Transaction
	err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &out)
	return out, err
}

// SubscriptionRequest creates a recurring subscription on a saved card.
type SubscriptionRequest struct {
	Customer      string    `json:"customer"`
	Plan          string    `json:"plan"`
	Authorization string    `json:"authorization"`
	StartDate     time.Time `json:"start_date"`
}

type Subscription struct {
	SubscriptionCode string `json:"subscription_code"`
	Status           string `json:"status"`
	EmailToken       string `json:"email_token"`
}

func (c *Client) CreateSubscription(ctx context.Context, in SubscriptionRequest) (Subscription, error) {
	var out Subscription
	err := c.do(ctx, http.MethodPost, "/subscription", in, &out)
	return out, err
}
