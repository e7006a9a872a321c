package api

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// PreferenceResponse wraps the freeform favorite-color preference
type PreferenceResponse struct {
	Success bool        `json:"success"`
	Data    *Preference `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Preference is the stored user preference
type Preference struct {
	FavoriteColor string `json:"favoriteColor"`
}

// handleGetPreference returns the stored favorite color
func (h *Handler) handleGetPreference(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, PreferenceResponse{
		Success: true,
		Data:    &Preference{FavoriteColor: h.store.FavoriteColor()},
	})
}

// handleSetPreference stores the favorite color. The value is freeform.
func (h *Handler) handleSetPreference(w http.ResponseWriter, r *http.Request) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var pref Preference
	if err := decodeJSONBody(r, &pref); err != nil {
		writeJSON(w, http.StatusBadRequest, PreferenceResponse{
			Success: false,
			Error:   &Error{Code: errCodeInvalidRequest, Message: ErrInvalidRequestBody.Error()},
		})

		return
	}

	if err := h.store.SetFavoriteColor(pref.FavoriteColor); err != nil {
		log.Error().Err(err).Msg("failed to persist preference")
		writeJSON(w, http.StatusInternalServerError, PreferenceResponse{
			Success: false,
			Error:   &Error{Code: errCodeInternal, Message: err.Error()},
		})

		return
	}

	writeJSON(w, http.StatusOK, PreferenceResponse{
		Success: true,
		Data:    &pref,
	})
}
