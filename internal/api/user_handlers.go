package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/KaruG1999/roster/internal/registry"
	"github.com/KaruG1999/roster/internal/types"
)

// CreateUserRequest is the payload for registering a user
type CreateUserRequest struct {
	// Name is the user's display name
	Name string `json:"name" validate:"required"`
	// Age must be a positive integer
	Age int `json:"age" validate:"required,gt=0"`
	// Email must at least contain an @; full validation is a separate,
	// explicit operation
	Email string `json:"email" validate:"required,contains=@"`
}

// UserResponse wraps a single user record
type UserResponse struct {
	Success bool        `json:"success"`
	Data    *types.User `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// UserListResponse wraps the whole collection
type UserListResponse struct {
	Success bool         `json:"success"`
	Data    []types.User `json:"data"`
	Error   *Error       `json:"error,omitempty"`
}

// handleListUsers returns every user in insertion order
func (h *Handler) handleListUsers(w http.ResponseWriter, _ *http.Request) {
	users := h.store.List()
	if users == nil {
		users = []types.User{}
	}

	writeJSON(w, http.StatusOK, UserListResponse{
		Success: true,
		Data:    users,
	})
}

// handleGetUser returns one user by id
func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		respondUserError(w, http.StatusBadRequest, errCodeInvalidRequest, err.Error())
		return
	}

	user, ok := h.store.Get(id)
	if !ok {
		respondUserError(w, http.StatusNotFound, errCodeNotFound, registry.ErrUserNotFound.Error())
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{
		Success: true,
		Data:    &user,
	})
}

// handleCreateUser registers a new user. Invalid input aborts the operation
// before any state is mutated.
func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var req CreateUserRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondUserError(w, http.StatusBadRequest, errCodeInvalidRequest, ErrInvalidRequestBody.Error())
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := h.validate.Struct(req); err != nil {
		respondUserError(w, http.StatusBadRequest, errCodeValidation, validationMessage(err))
		return
	}

	user, err := h.store.Add(req.Name, req.Age, req.Email)
	if err != nil {
		log.Error().Err(err).Msg("failed to persist new user")
		respondUserError(w, http.StatusInternalServerError, errCodeInternal, err.Error())
		return
	}

	log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("user created")

	writeJSON(w, http.StatusCreated, UserResponse{
		Success: true,
		Data:    &user,
	})
}

// handleDeleteUser removes a user; surviving users keep their ids
func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		respondUserError(w, http.StatusBadRequest, errCodeInvalidRequest, err.Error())
		return
	}

	if err := h.store.Delete(id); err != nil {
		if errors.Is(err, registry.ErrUserNotFound) {
			respondUserError(w, http.StatusNotFound, errCodeNotFound, err.Error())
			return
		}

		log.Error().Err(err).Int64("user_id", id).Msg("failed to delete user")
		respondUserError(w, http.StatusInternalServerError, errCodeInternal, err.Error())

		return
	}

	log.Info().Int64("user_id", id).Msg("user deleted")

	writeJSON(w, http.StatusOK, UserResponse{Success: true})
}

// userID parses the {id} path parameter
func userID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, ErrInvalidUserID
	}

	return id, nil
}

// validationMessage flattens validator errors into the field-level messages
// the original form surfaced.
func validationMessage(err error) string {
	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return err.Error()
	}

	messages := make([]string, 0, len(validateErrs))

	for _, fieldErr := range validateErrs {
		switch fieldErr.Field() {
		case "Name":
			messages = append(messages, ErrNameRequired.Error())
		case "Email":
			messages = append(messages, ErrEmailMissingAt.Error())
		case "Age":
			messages = append(messages, ErrAgeNotPositive.Error())
		default:
			messages = append(messages, fieldErr.Error())
		}
	}

	return strings.Join(messages, "; ")
}

func respondUserError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, UserResponse{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}
