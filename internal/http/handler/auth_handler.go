package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/carefleet/carefleet-backend/internal/http/response"
	"github.com/carefleet/carefleet-backend/internal/observability"
	"github.com/carefleet/carefleet-backend/internal/service"
)

// AuthServiceInterface is what the handler needs from the auth core.
type AuthServiceInterface interface {
	Register(in service.RegisterInput) (string, error)
	Authenticate(email, password string) (*service.AuthResult, error)
	VerifyEmail(token, otp string) (*service.AuthResult, error)
	Refresh(refreshToken string) (*service.AuthResult, error)
}

type AuthHandler struct {
	authSvc AuthServiceInterface
}

func NewAuthHandler(authSvc AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

var authDomainErrors = []error{
	service.ErrInvalidInput,
	service.ErrDuplicateEmail,
	service.ErrInvalidCredentials,
	service.ErrEmailNotVerified,
	service.ErrInvalidToken,
	service.ErrInvalidOTP,
	service.ErrOTPExpired,
	service.ErrAccountNotFound,
	service.ErrAccountDisabled,
}

func isAuthDomainError(err error) bool {
	for _, known := range authDomainErrors {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "register", status, time.Since(start))
	}()

	var body struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		FirstName  string `json:"firstName"`
		LastName   string `json:"lastName"`
		Role       string `json:"role"`
		HospitalID string `json:"hospitalId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "REGISTRATION_FAILED", "invalid payload", nil)
		return
	}

	token, err := h.authSvc.Register(service.RegisterInput{
		Email:      body.Email,
		Password:   body.Password,
		FirstName:  body.FirstName,
		LastName:   body.LastName,
		Role:       body.Role,
		HospitalID: body.HospitalID,
	})
	if err != nil {
		status = "failure"
		observability.Audit(r, "auth.register.failed", "email", body.Email, "reason", err.Error())
		if isAuthDomainError(err) {
			response.Error(w, r, http.StatusBadRequest, "REGISTRATION_FAILED", err.Error(), nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "registration failed", nil)
		return
	}

	observability.Audit(r, "auth.register.success", "email", body.Email)
	response.JSON(w, r, http.StatusOK, map[string]string{
		"message":           "Registration successful. Please check your email to verify your account.",
		"verificationToken": token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "login", status, time.Since(start))
	}()

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "LOGIN_FAILED", "invalid payload", nil)
		return
	}

	result, err := h.authSvc.Authenticate(body.Email, body.Password)
	if err != nil {
		status = "failure"
		observability.Audit(r, "auth.login.failed", "email", body.Email)
		observability.RecordAuthLogin(r.Context(), "failure")
		if isAuthDomainError(err) {
			response.Error(w, r, http.StatusBadRequest, "LOGIN_FAILED", err.Error(), nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "login failed", nil)
		return
	}

	observability.Audit(r, "auth.login.success", "user_id", result.User.ID)
	observability.RecordAuthLogin(r.Context(), "success")
	response.JSON(w, r, http.StatusOK, result)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "verify_email", status, time.Since(start))
	}()

	var body struct {
		Token string `json:"token"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "EMAIL_VERIFICATION_FAILED", "invalid payload", nil)
		return
	}

	result, err := h.authSvc.VerifyEmail(body.Token, body.OTP)
	if err != nil {
		status = "failure"
		observability.Audit(r, "auth.verify_email.failed", "reason", err.Error())
		if isAuthDomainError(err) {
			response.Error(w, r, http.StatusBadRequest, "EMAIL_VERIFICATION_FAILED", err.Error(), nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "email verification failed", nil)
		return
	}

	observability.Audit(r, "auth.verify_email.success", "user_id", result.User.ID)
	response.JSON(w, r, http.StatusOK, result)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "refresh", status, time.Since(start))
	}()

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "TOKEN_REFRESH_FAILED", "invalid payload", nil)
		return
	}

	result, err := h.authSvc.Refresh(body.RefreshToken)
	if err != nil {
		status = "failure"
		observability.Audit(r, "auth.refresh.failed", "reason", err.Error())
		observability.RecordAuthRefresh(r.Context(), "failure")
		if isAuthDomainError(err) {
			response.Error(w, r, http.StatusBadRequest, "TOKEN_REFRESH_FAILED", err.Error(), nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "token refresh failed", nil)
		return
	}

	observability.Audit(r, "auth.refresh.success", "user_id", result.User.ID)
	observability.RecordAuthRefresh(r.Context(), "success")
	response.JSON(w, r, http.StatusOK, result)
}
