package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/kashvicrafts/storefront-api/internal/usecase"
)

type AuthHandler struct {
	auth   usecase.AuthUsecase
	users  usecase.UserUsecase
	logger *zerolog.Logger
}

func NewAuthHandler(auth usecase.AuthUsecase, users usecase.UserUsecase, logger *zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, logger: logger}
}

type signupRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8"`
	Mobile   string `json:"mobile"    validate:"required,len=10"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.SignupUser(r.Context(), usecase.SignupParams{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Mobile:   req.Mobile,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"message": "password reset email sent"})
}

type resetPasswordRequest struct {
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.auth.CompletePasswordReset(r.Context(), req.Token, req.NewPassword); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "password has been reset"})
}
