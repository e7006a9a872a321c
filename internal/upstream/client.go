// Package upstream is the client for the third-party email validation
// provider. It holds the provider credential and normalizes the provider's
// response shape into a verdict.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/theopenlane/httpsling"

	"github.com/KaruG1999/roster/internal/types"
)

const (
	// defaultBaseURL is the provider's validation endpoint
	defaultBaseURL = "https://emailvalidation.abstractapi.com/v1/"
	// defaultRequestTimeout bounds a single provider request
	defaultRequestTimeout = 15 * time.Second
	// maxResponseBytes caps how much of the provider body is read
	maxResponseBytes = 1 << 20
)

// Deliverability values reported by the provider
const (
	DeliverabilityDeliverable   = "DELIVERABLE"
	DeliverabilityUndeliverable = "UNDELIVERABLE"
	DeliverabilityUnknown       = "UNKNOWN"
)

// Reasons attached to normalized verdicts
const (
	ReasonInvalidFormat         = "invalid format"
	ReasonDeliverable           = "valid and deliverable"
	ReasonUndeliverable         = "undeliverable"
	ReasonDeliverabilityUnknown = "valid, deliverability unknown"
)

// FormatFlag decodes the provider's is_valid_format field, which is either a
// bare boolean or a {"value": bool, ...} object depending on plan tier.
type FormatFlag bool

// UnmarshalJSON accepts both provider encodings of the format flag
func (f *FormatFlag) UnmarshalJSON(data []byte) error {
	var plain bool
	if err := json.Unmarshal(data, &plain); err == nil {
		*f = FormatFlag(plain)
		return nil
	}

	var wrapped struct {
		Value bool `json:"value"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}

	*f = FormatFlag(wrapped.Value)

	return nil
}

// Payload is the subset of the provider response the service consumes
type Payload struct {
	// IsValidFormat reports whether the address is syntactically valid
	IsValidFormat FormatFlag `json:"is_valid_format"`
	// Deliverability is DELIVERABLE, UNDELIVERABLE, or UNKNOWN
	Deliverability string `json:"deliverability"`
	// Error is set when the provider rejects the request
	Error *ProviderError `json:"error,omitempty"`
}

// ProviderError is the provider's error payload shape
type ProviderError struct {
	Message string `json:"message"`
}

// CheckResult holds the parsed provider payload plus the raw body for callers
// that relay provider details to their own clients.
type CheckResult struct {
	Payload Payload
	Raw     json.RawMessage
}

// Client queries the email validation provider
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client for provider requests
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default provider endpoint
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithTimeout overrides the provider request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a provider client with the given credential
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// requestURL builds the provider URL with the credential and email attached
func (c *Client) requestURL(email string) string {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("email", email)

	return fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
}

// redactTransportErr drops the request URL from transport errors before they
// are wrapped: the URL carries the provider credential, and wrapped errors
// reach logs and client-visible responses.
func redactTransportErr(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}

	return err
}

// Check sends one validation request for the email and returns the parsed
// provider payload. Transport failures, non-200 statuses, malformed bodies,
// and provider-reported errors all surface as errors for the caller to map
// to an indeterminate verdict.
func (c *Client) Check(ctx context.Context, email string) (*CheckResult, error) {
	requester := httpsling.MustNew(
		httpsling.URL(c.requestURL(email)),
		httpsling.Method(http.MethodGet),
		httpsling.WithHTTPClient(c.httpClient),
	)

	resp, err := requester.SendWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, redactTransportErr(err))
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if payload.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderError, payload.Error.Message)
	}

	return &CheckResult{Payload: payload, Raw: body}, nil
}

// Normalize maps a provider payload to a verdict. Unknown deliverability is
// treated as acceptable rather than rejecting, to avoid over-rejecting
// legitimate addresses.
func Normalize(p Payload) types.Verdict {
	if !bool(p.IsValidFormat) {
		return types.Invalid(ReasonInvalidFormat)
	}

	switch p.Deliverability {
	case DeliverabilityDeliverable:
		return types.Valid(ReasonDeliverable)
	case DeliverabilityUndeliverable:
		return types.Invalid(ReasonUndeliverable)
	default:
		return types.Valid(ReasonDeliverabilityUnknown)
	}
}
