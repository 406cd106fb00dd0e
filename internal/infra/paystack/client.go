package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.paystack.co"

// ErrNotConfigured means the gateway secret key is missing. It is a service
// configuration problem, not a failed payment.
var ErrNotConfigured = errors.New("payment gateway is not configured")

type GatewayInterface interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error)
	Verify(ctx context.Context, reference string) (*VerificationResult, error)
}

type InitializeRequest struct {
	Email       string `json:"email"`
	AmountMinor int64  `json:"amount"`
	Currency    string `json:"currency,omitempty"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code,omitempty"`
	Reference        string `json:"reference"`
}

// VerificationResult is the outcome of a verify call. OK is false for any
// transport failure or non-success payment.
type VerificationResult struct {
	OK          bool
	AmountMinor int64
	Currency    string
	Reference   string
	PaidAt      *time.Time
	Channel     string
}

type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Configured() bool { return c.secretKey != "" }

type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type verifyData struct {
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
	PaidAt    string `json:"paid_at"`
	Channel   string `json:"channel"`
}

func (c *Client) Initialize(ctx context.Context, in InitializeRequest) (*InitializeResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack initialize: %w", err)
	}
	defer resp.Body.Close()

	var env envelope[InitializeResult]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("paystack initialize: decode: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !env.Status {
		return nil, fmt.Errorf("paystack initialize: status %d: %s", resp.StatusCode, env.Message)
	}
	return &env.Data, nil
}

// Verify never returns an error for an unsuccessful payment; only a missing
// secret key is reported as an error.
func (c *Client) Verify(ctx context.Context, reference string) (*VerificationResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		slog.Warn("paystack verify: build request", "reference", reference, "err", err)
		return &VerificationResult{}, nil
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("paystack verify: transport", "reference", reference, "err", err)
		return &VerificationResult{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("paystack verify: non-200", "reference", reference, "status", resp.StatusCode)
		return &VerificationResult{}, nil
	}

	var env envelope[verifyData]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		slog.Warn("paystack verify: decode", "reference", reference, "err", err)
		return &VerificationResult{}, nil
	}
	if !env.Status {
		return &VerificationResult{}, nil
	}

	return &VerificationResult{
		OK:          env.Data.Status == "success",
		AmountMinor: env.Data.Amount,
		Currency:    env.Data.Currency,
		Reference:   env.Data.Reference,
		PaidAt:      parseTime(env.Data.PaidAt),
		Channel:     env.Data.Channel,
	}, nil
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
}

var _ GatewayInterface = (*Client)(nil)
