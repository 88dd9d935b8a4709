package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dedeku/tinicoach/internal/config"
	httpx "github.com/dedeku/tinicoach/internal/http"
	"github.com/dedeku/tinicoach/internal/http/handlers"
)

func Run(cfg *config.Config, logger *zap.Logger) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.RedisClient.Ping(context.Background()).Err(); err != nil {
		return err
	}

	authH := handlers.NewAuthHandlers(
		c.AccountSvc,
		c.Limiter,
		handlers.CookieConfig{
			Name:   cfg.CookieName,
			Secure: cfg.CookieSecure,
			MaxAge: cfg.SessionTTL,
		},
		cfg.PasswordResetLimit,
		cfg.VerificationLimit,
		logger,
	)

	r := httpx.BuildRouter(httpx.RouterDeps{
		AuthHandlers:  authH,
		SessionSvc:    c.SessionSvc,
		Limiter:       c.Limiter,
		CookieName:    cfg.CookieName,
		LoginLimit:    cfg.LoginLimit,
		RegisterLimit: cfg.RegistrationLimit,
		Logger:        logger,
	})

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, r)
}
