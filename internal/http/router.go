package httpx

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dedeku/tinicoach/domain"
	"github.com/dedeku/tinicoach/internal/config"
	"github.com/dedeku/tinicoach/internal/http/handlers"
	"github.com/dedeku/tinicoach/internal/http/middleware"
	"github.com/dedeku/tinicoach/internal/ratelimit"
)

// RouterDeps carries everything BuildRouter wires together.
type RouterDeps struct {
	AuthHandlers  *handlers.AuthHandlers
	SessionSvc    domain.SessionService
	Limiter       *ratelimit.Limiter
	CookieName    string
	LoginLimit    config.Policy
	RegisterLimit config.Policy
	Logger        *zap.Logger
}

func BuildRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLog(deps.Logger))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	ah := deps.AuthHandlers
	requireSession := middleware.RequireSession(deps.SessionSvc, deps.CookieName)

	auth := r.Group("/auth")
	auth.POST("/register", middleware.RateLimitByIP(deps.Limiter, deps.RegisterLimit), ah.Register)
	auth.POST("/login", middleware.RateLimitByIP(deps.Limiter, deps.LoginLimit), ah.Login)
	auth.POST("/logout", ah.Logout)
	auth.POST("/logout-all", requireSession, ah.LogoutAll)
	auth.POST("/forgot-password", ah.ForgotPassword)
	auth.POST("/reset-password", ah.ResetPassword)
	auth.GET("/verify-email", ah.VerifyEmail)
	auth.POST("/resend-verification", ah.ResendVerification)
	auth.POST("/delete-account", requireSession, ah.DeleteAccount)
	auth.POST("/reactivate-account", ah.ReactivateAccount)

	return r
}
