// Package verify runs email validations against the proxy endpoint, falling
// back to the local heuristic, and coordinates per-user validation runs.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/theopenlane/httpsling"

	"github.com/KaruG1999/roster/internal/heuristic"
	"github.com/KaruG1999/roster/internal/metrics"
	"github.com/KaruG1999/roster/internal/types"
)

// defaultTimeout bounds one verification round trip; a request that has not
// settled by then loses the race and the heuristic answers instead.
const defaultTimeout = 15 * time.Second

// fallbackSuffix marks verdicts answered by the heuristic
const fallbackSuffix = " (remote check unavailable)"

// validateRequest is the proxy endpoint request body
type validateRequest struct {
	Email string `json:"email"`
}

// wireVerdict is the proxy endpoint response body. EsValido is nil when the
// check could not be completed.
type wireVerdict struct {
	EsValido    *bool           `json:"esValido"`
	Informacion json.RawMessage `json:"informacion"`
	Razon       string          `json:"razon"`
}

// Verifier is the client side of the validation pipeline. Verify never
// returns an error: every failure path resolves to a verdict, because
// callers have no error affordance beyond the reason string.
type Verifier struct {
	endpoint   string
	httpClient *http.Client
}

// VerifierOption configures the Verifier
type VerifierOption func(*Verifier)

// WithHTTPClient sets a custom HTTP client for validation requests
func WithHTTPClient(client *http.Client) VerifierOption {
	return func(v *Verifier) {
		if client != nil {
			v.httpClient = client
		}
	}
}

// WithTimeout overrides the verification timeout
func WithTimeout(timeout time.Duration) VerifierOption {
	return func(v *Verifier) {
		if timeout > 0 {
			v.httpClient.Timeout = timeout
		}
	}
}

// NewVerifier creates a verifier targeting the given validate-email endpoint
func NewVerifier(endpoint string, opts ...VerifierOption) (*Verifier, error) {
	if endpoint == "" {
		return nil, ErrMissingEndpoint
	}

	v := &Verifier{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

// Verify returns a verdict for the email. It sends exactly one request to
// the validate-email endpoint; on timeout, transport error, non-200 status,
// or a malformed body it logs the condition and answers with the heuristic
// verdict for the same email, annotated as a fallback.
func (v *Verifier) Verify(ctx context.Context, email string) types.Verdict {
	verdict, err := v.remote(ctx, email)
	if err != nil {
		log.Warn().Err(err).Str("email", email).Msg("remote check unavailable, using heuristic fallback")
		metrics.ObserveFallback()

		fallback := heuristic.Check(email)
		fallback.Reason += fallbackSuffix

		return fallback
	}

	return verdict
}

// remote performs the single validate-email round trip
func (v *Verifier) remote(ctx context.Context, email string) (types.Verdict, error) {
	requester := httpsling.MustNew(
		httpsling.URL(v.endpoint),
		httpsling.Post(),
		httpsling.JSONBody(validateRequest{Email: email}),
		httpsling.WithHTTPClient(v.httpClient),
	)

	var wire wireVerdict

	resp, err := requester.ReceiveWithContext(ctx, &wire)
	if err != nil {
		return types.Verdict{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return types.Verdict{}, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return wire.verdict(), nil
}

// verdict maps the wire tri-state into the tagged verdict variant
func (w wireVerdict) verdict() types.Verdict {
	switch {
	case w.EsValido == nil:
		return types.Indeterminate(w.Razon)
	case *w.EsValido:
		return types.Verdict{Status: types.VerdictValid, Reason: w.Razon, Raw: w.Informacion}
	default:
		return types.Verdict{Status: types.VerdictInvalid, Reason: w.Razon, Raw: w.Informacion}
	}
}
