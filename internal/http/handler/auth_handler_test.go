package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/carefleet/carefleet-backend/internal/domain"
	"github.com/carefleet/carefleet-backend/internal/service"
)

type stubAuthService struct {
	registerFn     func(in service.RegisterInput) (string, error)
	authenticateFn func(email, password string) (*service.AuthResult, error)
	verifyEmailFn  func(token, otp string) (*service.AuthResult, error)
	refreshFn      func(refreshToken string) (*service.AuthResult, error)
}

func (s *stubAuthService) Register(in service.RegisterInput) (string, error) {
	return s.registerFn(in)
}

func (s *stubAuthService) Authenticate(email, password string) (*service.AuthResult, error) {
	return s.authenticateFn(email, password)
}

func (s *stubAuthService) VerifyEmail(token, otp string) (*service.AuthResult, error) {
	return s.verifyEmailFn(token, otp)
}

func (s *stubAuthService) Refresh(refreshToken string) (*service.AuthResult, error) {
	return s.refreshFn(refreshToken)
}

func sampleAuthResult() *service.AuthResult {
	return &service.AuthResult{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User: domain.UserSummary{
			ID:            7,
			Email:         "driver@carefleet.example",
			FirstName:     "Dan",
			LastName:      "Driver",
			Role:          domain.RoleAmbulanceDriver,
			EmailVerified: true,
		},
	}
}

func doJSON(t *testing.T, handlerFn http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handlerFn(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestAuthHandlerRegister(t *testing.T) {
	t.Run("success returns verification token", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{
			registerFn: func(in service.RegisterInput) (string, error) {
				if in.Email != "driver@carefleet.example" || in.Role != "AMBULANCE_DRIVER" {
					t.Fatalf("unexpected input %+v", in)
				}
				return "verify-token", nil
			},
		})

		rec := doJSON(t, h.Register, `{
			"email": "driver@carefleet.example",
			"password": "pw123",
			"firstName": "Dan",
			"lastName": "Driver",
			"role": "AMBULANCE_DRIVER"
		}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["verificationToken"] != "verify-token" {
			t.Fatalf("unexpected body %v", body)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{
			registerFn: func(service.RegisterInput) (string, error) {
				return "", service.ErrDuplicateEmail
			},
		})

		rec := doJSON(t, h.Register, `{"email":"dup@x.example","password":"pw","firstName":"A","lastName":"B","role":"DOCTOR"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["error"] != "REGISTRATION_FAILED" {
			t.Fatalf("error code = %v", body["error"])
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{})
		rec := doJSON(t, h.Register, `{not json`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Run("success returns token pair", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{
			authenticateFn: func(email, password string) (*service.AuthResult, error) {
				return sampleAuthResult(), nil
			},
		})

		rec := doJSON(t, h.Login, `{"email":"driver@carefleet.example","password":"pw123"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["accessToken"] != "access-token" || body["refreshToken"] != "refresh-token" {
			t.Fatalf("unexpected body %v", body)
		}
		user, ok := body["user"].(map[string]any)
		if !ok {
			t.Fatalf("missing user in %v", body)
		}
		if user["firstName"] != "Dan" || user["emailVerified"] != true {
			t.Fatalf("unexpected user payload %v", user)
		}
	})

	t.Run("unverified email", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{
			authenticateFn: func(string, string) (*service.AuthResult, error) {
				return nil, service.ErrEmailNotVerified
			},
		})

		rec := doJSON(t, h.Login, `{"email":"x@x.example","password":"pw"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["error"] != "LOGIN_FAILED" {
			t.Fatalf("error code = %v", body["error"])
		}
	})

	t.Run("infrastructure failure is masked", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{
			authenticateFn: func(string, string) (*service.AuthResult, error) {
				return nil, errors.New("connection refused")
			},
		})

		rec := doJSON(t, h.Login, `{"email":"x@x.example","password":"pw"}`)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["error"] != "INTERNAL" {
			t.Fatalf("error code = %v", body["error"])
		}
		if strings.Contains(rec.Body.String(), "connection refused") {
			t.Fatalf("internal error detail leaked: %s", rec.Body.String())
		}
	})
}

func TestAuthHandlerVerifyEmail(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{
			verifyEmailFn: func(token, otp string) (*service.AuthResult, error) {
				if token != "verify-token" || otp != "123456" {
					t.Fatalf("unexpected args %q %q", token, otp)
				}
				return sampleAuthResult(), nil
			},
		})

		rec := doJSON(t, h.VerifyEmail, `{"token":"verify-token","otp":"123456"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("wrong OTP", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{
			verifyEmailFn: func(string, string) (*service.AuthResult, error) {
				return nil, service.ErrInvalidOTP
			},
		})

		rec := doJSON(t, h.VerifyEmail, `{"token":"verify-token","otp":"000000"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["error"] != "EMAIL_VERIFICATION_FAILED" {
			t.Fatalf("error code = %v", body["error"])
		}
	})

	t.Run("expired OTP", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{
			verifyEmailFn: func(string, string) (*service.AuthResult, error) {
				return nil, service.ErrOTPExpired
			},
		})

		rec := doJSON(t, h.VerifyEmail, `{"token":"verify-token","otp":"123456"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestAuthHandlerRefresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{
			refreshFn: func(refreshToken string) (*service.AuthResult, error) {
				if refreshToken != "refresh-token" {
					t.Fatalf("unexpected token %q", refreshToken)
				}
				return sampleAuthResult(), nil
			},
		})

		rec := doJSON(t, h.Refresh, `{"refreshToken":"refresh-token"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["accessToken"] != "access-token" {
			t.Fatalf("unexpected body %v", body)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{
			refreshFn: func(string) (*service.AuthResult, error) {
				return nil, service.ErrInvalidToken
			},
		})

		rec := doJSON(t, h.Refresh, `{"refreshToken":"garbage"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["error"] != "TOKEN_REFRESH_FAILED" {
			t.Fatalf("error code = %v", body["error"])
		}
	})
}
