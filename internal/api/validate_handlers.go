package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/KaruG1999/roster/internal/registry"
	"github.com/KaruG1999/roster/internal/types"
	"github.com/KaruG1999/roster/internal/upstream"
	"github.com/KaruG1999/roster/internal/verify"
)

// ValidateEmailRequest is the proxy endpoint request body
type ValidateEmailRequest struct {
	Email string `json:"email"`
}

// ValidateEmailResponse is the proxy endpoint wire shape. The field names
// are the original wire contract and are kept verbatim for client
// compatibility: EsValido is the tri-state outcome (null when the check
// could not complete), Informacion the raw provider payload, Razon the
// human-readable reason.
type ValidateEmailResponse struct {
	EsValido    *bool           `json:"esValido"`
	Informacion json.RawMessage `json:"informacion"`
	Razon       string          `json:"razon"`
}

// handleValidateEmail relays one validation request to the upstream
// provider, keeping the credential server-side, and normalizes the
// provider's response shape.
func (h *Handler) handleValidateEmail(w http.ResponseWriter, r *http.Request) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var req ValidateEmailRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ValidateEmailResponse{Razon: ErrInvalidRequestBody.Error()})
		return
	}

	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, ValidateEmailResponse{Razon: ErrEmailRequired.Error()})
		return
	}

	// A missing credential is a deployment fault, surfaced per request
	// rather than crashing at startup.
	if h.upstream == nil {
		log.Error().Msg("validate-email request with no upstream credential configured")
		writeJSON(w, http.StatusInternalServerError, ValidateEmailResponse{Razon: ErrCredentialNotConfigured.Error()})

		return
	}

	result, err := h.upstream.Check(r.Context(), req.Email)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("upstream validation failed")
		writeJSON(w, http.StatusInternalServerError, ValidateEmailResponse{Razon: err.Error()})

		return
	}

	verdict := upstream.Normalize(result.Payload)
	valid := verdict.Status == types.VerdictValid

	writeJSON(w, http.StatusOK, ValidateEmailResponse{
		EsValido:    &valid,
		Informacion: result.Raw,
		Razon:       verdict.Reason,
	})
}

// ValidateUserResponse wraps a per-user validation result
type ValidateUserResponse struct {
	Success bool        `json:"success"`
	Data    *types.User `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// handleValidateUser triggers one validation for the user. A duplicate
// activation while one is in flight is rejected with a conflict; it is
// neither queued nor run.
func (h *Handler) handleValidateUser(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		respondValidateUserError(w, http.StatusBadRequest, errCodeInvalidRequest, err.Error())
		return
	}

	user, err := h.controller.Validate(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		code := errCodeInternal

		switch {
		case errors.Is(err, registry.ErrUserNotFound):
			status = http.StatusNotFound
			code = errCodeNotFound
		case errors.Is(err, verify.ErrValidationInFlight):
			status = http.StatusConflict
			code = errCodeConflict
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			status = http.StatusGatewayTimeout
			code = errCodeTimeout
		}

		respondValidateUserError(w, status, code, err.Error())

		return
	}

	writeJSON(w, http.StatusOK, ValidateUserResponse{
		Success: true,
		Data:    &user,
	})
}

// BulkValidateSummary aggregates a bulk validation run
type BulkValidateSummary struct {
	// Validated counts users that received a fresh verdict
	Validated int `json:"validated"`
	// Skipped counts users whose validation was already in flight
	Skipped int `json:"skipped"`
	// Outcomes lists the per-user results in processing order
	Outcomes []verify.Outcome `json:"outcomes"`
}

// BulkValidateResponse wraps a bulk validation run
type BulkValidateResponse struct {
	Success bool                 `json:"success"`
	Data    *BulkValidateSummary `json:"data,omitempty"`
	Error   *Error               `json:"error,omitempty"`
}

// handleValidateAll validates every not-yet-checked user sequentially with
// the configured inter-user delay.
func (h *Handler) handleValidateAll(w http.ResponseWriter, r *http.Request) {
	outcomes, err := h.controller.ValidateAll(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		code := errCodeInternal

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
			code = errCodeTimeout
		}

		writeJSON(w, status, BulkValidateResponse{
			Success: false,
			Error: &Error{
				Code:    code,
				Message: err.Error(),
			},
		})

		return
	}

	skipped := lo.CountBy(outcomes, func(o verify.Outcome) bool { return o.Skipped })

	writeJSON(w, http.StatusOK, BulkValidateResponse{
		Success: true,
		Data: &BulkValidateSummary{
			Validated: len(outcomes) - skipped,
			Skipped:   skipped,
			Outcomes:  outcomes,
		},
	})
}

func respondValidateUserError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ValidateUserResponse{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}
