package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tienda-api/internal/auth"
	"tienda-api/internal/domain"
	"tienda-api/internal/store"
)

// RegisterInput defines the expected input for user registration.
// IsAdmin is a pointer so that an explicit false passes the required rule.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required"`
	IsAdmin  *bool  `json:"is_admin" validate:"required"`
}

func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	hash, salt, err := auth.HashPassword(input.Password)
	if err != nil {
		h.logger.Error().Err(err).Msg("password hashing failed")
		h.respondWithError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	user := domain.NewUser(input.Email, hash, salt, *input.IsAdmin)

	created, err := h.userStore.CreateUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, store.ErrUserEmailExists) {
			h.respondWithError(w, http.StatusConflict, "email is already registered")
			return
		}
		h.logger.Error().Err(err).Msg("CreateUser store operation failed")
		h.respondWithError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	h.respondWithJSON(w, http.StatusCreated, created)
}

// LoginInput defines the expected input for login.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	user, err := h.userStore.GetUserByEmail(r.Context(), strings.ToLower(input.Email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			h.respondWithError(w, http.StatusBadRequest, "user does not exist")
			return
		}
		h.logger.Error().Err(err).Msg("GetUserByEmail store operation failed")
		h.respondWithError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	if !auth.CheckPassword(input.Password, user.PasswordSalt, user.PasswordHash) {
		h.respondWithError(w, http.StatusBadRequest, "incorrect password")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		h.logger.Error().Err(err).Msg("token generation failed")
		h.respondWithError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	h.respondWithJSON(w, http.StatusOK, LoginResponse{
		Message: "login successful",
		Token:   token,
	})
}
