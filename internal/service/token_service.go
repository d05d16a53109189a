package service

import (
	"time"

	"github.com/carefleet/carefleet-backend/internal/domain"
	"github.com/carefleet/carefleet-backend/internal/security"
)

type TokenService struct {
	jwtMgr     *security.JWTManager
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(jwtMgr *security.JWTManager, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{jwtMgr: jwtMgr, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Issue signs a fresh access/refresh pair bound to the account identity and
// role and returns it with the sanitized account summary.
func (s *TokenService) Issue(user *domain.User) (*AuthResult, error) {
	access, err := s.jwtMgr.SignAccessToken(user.ID, user.Email, user.Role, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtMgr.SignRefreshToken(user.ID, user.Email, user.Role, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: access, RefreshToken: refresh, User: user.Summary()}, nil
}

func (s *TokenService) ParseRefresh(raw string) (*security.Claims, error) {
	return s.jwtMgr.ParseRefreshToken(raw)
}
