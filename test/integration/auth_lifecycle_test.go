package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/carefleet/carefleet-backend/internal/config"
	"github.com/carefleet/carefleet-backend/internal/database"
	"github.com/carefleet/carefleet-backend/internal/health"
	"github.com/carefleet/carefleet-backend/internal/http/handler"
	"github.com/carefleet/carefleet-backend/internal/http/middleware"
	"github.com/carefleet/carefleet-backend/internal/http/router"
	"github.com/carefleet/carefleet-backend/internal/repository"
	"github.com/carefleet/carefleet-backend/internal/security"
	"github.com/carefleet/carefleet-backend/internal/service"
)

// challengeCaptureMailer records the last verification challenge instead of
// delivering it, so tests can complete the OTP flow.
type challengeCaptureMailer struct {
	mu   sync.Mutex
	last service.VerificationEmail
	sent chan struct{}
}

func newChallengeCaptureMailer() *challengeCaptureMailer {
	return &challengeCaptureMailer{sent: make(chan struct{}, 16)}
}

func (m *challengeCaptureMailer) SendVerificationEmail(_ context.Context, msg service.VerificationEmail) error {
	m.mu.Lock()
	m.last = msg
	m.mu.Unlock()
	m.sent <- struct{}{}
	return nil
}

func (m *challengeCaptureMailer) waitForChallenge(t *testing.T) service.VerificationEmail {
	t.Helper()
	select {
	case <-m.sent:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for verification email")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func newAuthTestServer(t *testing.T) (string, *http.Client, *challengeCaptureMailer) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		Env:                "test",
		CORSAllowedOrigins: []string{"*"},
	}
	jwtMgr := security.NewJWTManager("carefleet-test", "carefleet-api",
		"test-access-secret-0123456789abcdef", "test-refresh-secret-0123456789abcdef")
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	userRepo := repository.NewUserRepository(db)
	mailer := newChallengeCaptureMailer()
	tokenSvc := service.NewTokenService(jwtMgr, time.Hour, 24*time.Hour)
	authSvc := service.NewAuthService(userRepo, tokenSvc, mailer, discard, 15*time.Minute)
	ambulanceSvc := service.NewAmbulanceService(repository.NewAmbulanceRepository(db))
	hospitalSvc := service.NewHospitalService(repository.NewHospitalRepository(db))

	h := router.New(router.Deps{
		Config:      cfg,
		Logger:      discard,
		JWTManager:  jwtMgr,
		Auth:        handler.NewAuthHandler(authSvc),
		Ambulances:  handler.NewAmbulanceHandler(ambulanceSvc),
		Hospitals:   handler.NewHospitalHandler(hospitalSvc),
		Probes:      health.NewProbeRunner(time.Second, health.NewDBChecker(db)),
		AuthLimiter: middleware.NewLocalLimiter(1000, time.Minute),
		APILimiter:  middleware.NewLocalLimiter(1000, time.Minute),
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv.URL, srv.Client(), mailer
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (int, map[string]any) {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

func TestAuthLifecycleRegisterVerifyLoginRefresh(t *testing.T) {
	baseURL, client, mailer := newAuthTestServer(t)

	registerBody := map[string]string{
		"email":     "driver@carefleet.example",
		"password":  "pw123",
		"firstName": "Dan",
		"lastName":  "Driver",
		"role":      "AMBULANCE_DRIVER",
	}
	status, body := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/register", registerBody)
	if status != http.StatusOK {
		t.Fatalf("register status = %d, body %v", status, body)
	}
	token, _ := body["verificationToken"].(string)
	if token == "" {
		t.Fatalf("missing verificationToken in %v", body)
	}

	challenge := mailer.waitForChallenge(t)
	if challenge.Token != token {
		t.Fatalf("email token %q does not match response token %q", challenge.Token, token)
	}

	// Login before verification is refused regardless of the password.
	status, body = doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", map[string]string{
		"email":    "driver@carefleet.example",
		"password": "pw123",
	})
	if status != http.StatusBadRequest || body["error"] != "LOGIN_FAILED" {
		t.Fatalf("unverified login: status=%d body=%v", status, body)
	}

	// A wrong OTP is rejected and counted.
	wrongOTP := "000000"
	if challenge.OTP == wrongOTP {
		wrongOTP = "000001"
	}
	status, body = doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/verify-email", map[string]string{
		"token": token,
		"otp":   wrongOTP,
	})
	if status != http.StatusBadRequest || body["error"] != "EMAIL_VERIFICATION_FAILED" {
		t.Fatalf("wrong OTP: status=%d body=%v", status, body)
	}

	// The correct OTP verifies the account and signs the caller in.
	status, body = doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/verify-email", map[string]string{
		"token": token,
		"otp":   challenge.OTP,
	})
	if status != http.StatusOK {
		t.Fatalf("verify-email status = %d, body %v", status, body)
	}
	accessToken, _ := body["accessToken"].(string)
	refreshToken, _ := body["refreshToken"].(string)
	if accessToken == "" || refreshToken == "" {
		t.Fatalf("missing tokens in %v", body)
	}

	// The verification token is spent.
	status, body = doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/verify-email", map[string]string{
		"token": token,
		"otp":   challenge.OTP,
	})
	if status != http.StatusBadRequest {
		t.Fatalf("token reuse: status=%d body=%v", status, body)
	}

	// Login now succeeds.
	status, body = doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", map[string]string{
		"email":    "driver@carefleet.example",
		"password": "pw123",
	})
	if status != http.StatusOK {
		t.Fatalf("verified login: status=%d body=%v", status, body)
	}

	// Refresh reissues a full pair.
	status, body = doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/refresh", map[string]string{
		"refreshToken": refreshToken,
	})
	if status != http.StatusOK {
		t.Fatalf("refresh: status=%d body=%v", status, body)
	}
	if s, _ := body["accessToken"].(string); s == "" {
		t.Fatalf("refresh did not return an access token: %v", body)
	}
	if s, _ := body["refreshToken"].(string); s == "" {
		t.Fatalf("refresh did not return a refresh token: %v", body)
	}

	// The access token opens the fleet surface for the driver role.
	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/ambulances", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("list ambulances: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ambulance list status = %d", resp.StatusCode)
	}
}

func TestAuthLifecycleDuplicateRegistration(t *testing.T) {
	baseURL, client, mailer := newAuthTestServer(t)

	body := map[string]string{
		"email":     "admin@carefleet.example",
		"password":  "pw123",
		"firstName": "Ada",
		"lastName":  "Admin",
		"role":      "HOSPITAL_ADMIN",
	}
	status, _ := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/register", body)
	if status != http.StatusOK {
		t.Fatalf("first register status = %d", status)
	}
	mailer.waitForChallenge(t)

	status, resp := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/register", body)
	if status != http.StatusBadRequest || resp["error"] != "REGISTRATION_FAILED" {
		t.Fatalf("duplicate register: status=%d body=%v", status, resp)
	}
}
