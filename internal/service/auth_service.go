package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/carefleet/carefleet-backend/internal/domain"
	"github.com/carefleet/carefleet-backend/internal/repository"
	"github.com/carefleet/carefleet-backend/internal/security"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("please verify your email before logging in")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidOTP         = errors.New("invalid OTP")
	ErrOTPExpired         = errors.New("OTP has expired")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountDisabled    = errors.New("account is disabled")
)

type RegisterInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Role       string
	HospitalID string
}

// AuthResult carries the issued token pair and the sanitized account view.
type AuthResult struct {
	AccessToken  string             `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
	User         domain.UserSummary `json:"user"`
}

type AuthService struct {
	userRepo repository.UserRepository
	tokenSvc *TokenService
	mailer   EmailSender
	logger   *slog.Logger
	otpTTL   time.Duration
}

func NewAuthService(userRepo repository.UserRepository, tokenSvc *TokenService, mailer EmailSender, logger *slog.Logger, otpTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokenSvc: tokenSvc,
		mailer:   mailer,
		logger:   logger,
		otpTTL:   otpTTL,
	}
}

// Register creates an unverified account with a fresh OTP challenge and
// returns the verification token. The verification email is dispatched
// asynchronously; a delivery failure is logged and never fails registration.
func (s *AuthService) Register(in RegisterInput) (string, error) {
	email := strings.TrimSpace(in.Email)
	if err := validateEmail(email); err != nil {
		return "", err
	}
	if in.Password == "" {
		return "", fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return "", fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return "", ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return "", err
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return "", err
	}
	otp, err := security.NewOTP()
	if err != nil {
		return "", err
	}
	token := security.NewVerificationToken()
	now := time.Now().UTC()
	expiry := now.Add(s.otpTTL)

	user := &domain.User{
		Email:                 email,
		PasswordHash:          hash,
		FirstName:             strings.TrimSpace(in.FirstName),
		LastName:              strings.TrimSpace(in.LastName),
		Role:                  role,
		HospitalID:            in.HospitalID,
		VerificationToken:     &token,
		OTP:                   &otp,
		OTPExpiry:             &expiry,
		LastOTPRequest:        &now,
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		// The uniqueness constraint decides races the pre-check missed.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", ErrDuplicateEmail
		}
		return "", err
	}

	go s.dispatchVerificationEmail(user.Email, user.FirstName, token, otp)

	return token, nil
}

// Authenticate checks the credentials and issues a token pair. The
// verification gate runs before the password comparison so an unverified
// account never learns whether the password was correct.
func (s *AuthService) Authenticate(email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	ok, err := security.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if !user.LoginEligible() {
		return nil, ErrAccountDisabled
	}
	return s.tokenSvc.Issue(user)
}

// VerifyEmail completes the OTP challenge. The OTP comparison runs before the
// expiry check: a wrong code counts as a failed attempt even after expiry.
func (s *AuthService) VerifyEmail(token, otp string) (*AuthResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.FindByVerificationToken(token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if user.OTP == nil || otp != *user.OTP {
		if err := s.userRepo.IncrementOTPAttempts(user.ID); err != nil {
			return nil, err
		}
		return nil, ErrInvalidOTP
	}
	if user.OTPExpiry == nil || user.OTPExpiry.Before(time.Now()) {
		return nil, ErrOTPExpired
	}

	if err := s.userRepo.MarkEmailVerified(user.ID); err != nil {
		return nil, err
	}
	verified, err := s.userRepo.FindByID(user.ID)
	if err != nil {
		return nil, err
	}
	return s.tokenSvc.Issue(verified)
}

// Refresh reissues both tokens for the account the refresh token resolves
// to. There is no rotation store: previously issued refresh tokens stay
// valid until they expire on their own.
func (s *AuthService) Refresh(refreshToken string) (*AuthResult, error) {
	claims, err := s.tokenSvc.ParseRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID, err := security.UserIDFromClaims(claims)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return s.tokenSvc.Issue(user)
}

func (s *AuthService) dispatchVerificationEmail(email, firstName, token, otp string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err := s.mailer.SendVerificationEmail(ctx, VerificationEmail{
		To:        email,
		FirstName: firstName,
		Token:     token,
		OTP:       otp,
		ExpiresIn: s.otpTTL,
	})
	if err != nil {
		s.logger.Error("failed to send verification email", "email", email, "error", err)
		return
	}
	s.logger.Info("verification email sent", "email", email)
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: malformed email address", ErrInvalidInput)
	}
	return nil
}
