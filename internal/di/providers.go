package di

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/carefleet/carefleet-backend/internal/app"
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

// AuthLimiter and APILimiter are distinct wire identities for the two
// rate-limit scopes.
type AuthLimiter middleware.Limiter

type APILimiter middleware.Limiter

func ProvideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
}

func ProvideTokenService(cfg *config.Config, jwtMgr *security.JWTManager) *service.TokenService {
	return service.NewTokenService(jwtMgr, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
}

func ProvideEmailSender(cfg *config.Config, logger *slog.Logger) service.EmailSender {
	if cfg.EmailDriver == "smtp" {
		return service.NewSMTPEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername,
			cfg.SMTPPassword, cfg.SMTPFromAddress, cfg.SMTPSenderName)
	}
	return service.NewDevEmailSender(logger)
}

func ProvideAuthService(cfg *config.Config, userRepo repository.UserRepository,
	tokenSvc *service.TokenService, mailer service.EmailSender, logger *slog.Logger) *service.AuthService {
	return service.NewAuthService(userRepo, tokenSvc, mailer, logger, cfg.OTPTTL)
}

func ProvideAuthHandler(authSvc *service.AuthService) *handler.AuthHandler {
	return handler.NewAuthHandler(authSvc)
}

// ProvideRedisClient returns nil when Redis-backed rate limiting is
// disabled; consumers must handle the nil.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.RateLimitRedisEnabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func ProvideAuthLimiter(cfg *config.Config, client *redis.Client) AuthLimiter {
	return AuthLimiter(newLimiter(cfg, client, "auth", cfg.AuthRateLimitPerMin))
}

func ProvideAPILimiter(cfg *config.Config, client *redis.Client) APILimiter {
	return APILimiter(newLimiter(cfg, client, "api", cfg.APIRateLimitPerMin))
}

func newLimiter(cfg *config.Config, client *redis.Client, scope string, perMin int) middleware.Limiter {
	if client != nil {
		return middleware.NewRedisLimiter(client, cfg.RateLimitRedisPrefix+":"+scope, perMin, time.Minute)
	}
	return middleware.NewLocalLimiter(perMin, time.Minute)
}

func ProvideProbeRunner(cfg *config.Config, db *gorm.DB, client *redis.Client) *health.ProbeRunner {
	checkers := []health.Checker{health.NewDBChecker(db)}
	if client != nil {
		checkers = append(checkers, health.NewRedisChecker(client))
	}
	return health.NewProbeRunner(cfg.ReadinessProbeTimeout, checkers...)
}

func ProvideRouter(cfg *config.Config, logger *slog.Logger, jwtMgr *security.JWTManager,
	authHandler *handler.AuthHandler, ambulanceHandler *handler.AmbulanceHandler,
	hospitalHandler *handler.HospitalHandler, probes *health.ProbeRunner,
	authLimiter AuthLimiter, apiLimiter APILimiter) http.Handler {
	return router.New(router.Deps{
		Config:      cfg,
		Logger:      logger,
		JWTManager:  jwtMgr,
		Auth:        authHandler,
		Ambulances:  ambulanceHandler,
		Hospitals:   hospitalHandler,
		Probes:      probes,
		AuthLimiter: authLimiter,
		APILimiter:  apiLimiter,
	})
}

var ProviderSet = wire.NewSet(
	database.NewPostgres,
	repository.NewUserRepository,
	repository.NewAmbulanceRepository,
	repository.NewHospitalRepository,
	service.NewAmbulanceService,
	service.NewHospitalService,
	handler.NewAmbulanceHandler,
	handler.NewHospitalHandler,
	ProvideJWTManager,
	ProvideTokenService,
	ProvideEmailSender,
	ProvideAuthService,
	ProvideAuthHandler,
	ProvideRedisClient,
	ProvideAuthLimiter,
	ProvideAPILimiter,
	ProvideProbeRunner,
	ProvideRouter,
	app.New,
)
