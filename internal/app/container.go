package app

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dedeku/tinicoach/domain"
	"github.com/dedeku/tinicoach/internal/config"
	"github.com/dedeku/tinicoach/internal/infrastructure/auth"
	"github.com/dedeku/tinicoach/internal/infrastructure/database"
	"github.com/dedeku/tinicoach/internal/infrastructure/notifications"
	"github.com/dedeku/tinicoach/internal/infrastructure/repositories"
	"github.com/dedeku/tinicoach/internal/ratelimit"
	"github.com/dedeku/tinicoach/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	DB          *gorm.DB
	RedisClient *redis.Client

	Limiter *ratelimit.Limiter

	AccountRepo domain.AccountRepository
	SessionRepo domain.SessionRepository
	TokenRepo   domain.TokenRepository

	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	SessionSvc      domain.SessionService
	NotificationSvc domain.NotificationService
	AccountSvc      domain.AccountService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	db, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	c.DB = db

	c.RedisClient = database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client

	c.Limiter = ratelimit.New(cfg.RateLimitSweep)

	c.AccountRepo = repositories.NewAccountRepository(db)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient, cfg.SessionTTL)
	c.TokenRepo = repositories.NewTokenRepository(db)

	c.PasswordSvc = auth.NewPasswordService(cfg.BcryptCost)
	c.TokenSvc = services.NewTokenService(c.TokenRepo, services.TokenConfig{
		VerificationTTL: cfg.VerificationTTL,
		ResetTTL:        cfg.ResetTTL,
	})
	c.SessionSvc = services.NewSessionService(c.SessionRepo, c.AccountRepo, cfg.SessionTTL)
	c.NotificationSvc = notifications.NewSendgridService(cfg.SendgridAPIKey, cfg.FromEmail, cfg.FromName, logger)
	c.AccountSvc = services.NewAccountService(
		c.AccountRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.SessionSvc,
		c.NotificationSvc,
		logger,
		cfg.BaseURL,
		cfg.ReactivationTTL,
	)

	return c, nil
}

// Close releases all connections and stops background work.
func (c *Container) Close() error {
	if c.Limiter != nil {
		c.Limiter.Stop()
	}
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
