package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dedeku/tinicoach/domain"
	"github.com/dedeku/tinicoach/internal/config"
	"github.com/dedeku/tinicoach/internal/http/middleware"
	"github.com/dedeku/tinicoach/internal/ratelimit"
)

const genericServerError = "An unexpected error occurred. Please try again later."

// CookieConfig controls how the session cookie is delivered.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// AuthHandlers handles the account lifecycle HTTP endpoints
type AuthHandlers struct {
	accountSvc domain.AccountService
	limiter    *ratelimit.Limiter
	cookie     CookieConfig
	resetLimit config.Policy
	verifLimit config.Policy
	logger     *zap.Logger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(
	accountSvc domain.AccountService,
	limiter *ratelimit.Limiter,
	cookie CookieConfig,
	resetLimit, verifLimit config.Policy,
	logger *zap.Logger,
) *AuthHandlers {
	return &AuthHandlers{
		accountSvc: accountSvc,
		limiter:    limiter,
		cookie:     cookie,
		resetLimit: resetLimit,
		verifLimit: verifLimit,
		logger:     logger,
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Email         string `json:"email" binding:"required,email,max=255"`
	Password      string `json:"password" binding:"required"`
	FullName      string `json:"fullName" binding:"required,max=100"`
	Nickname      string `json:"nickname" binding:"required,max=50"`
	Birthdate     string `json:"birthdate" binding:"required"`
	TermsAccepted bool   `json:"termsAccepted"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// EmailRequest carries the single email field used by the forgot-password
// and resend-verification endpoints.
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents password reset execution request
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// TokenRequest carries the single token field used by reactivation.
type TokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// Register handles POST /auth/register
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	if !req.TermsAccepted {
		writeValidationDetails(c, []domain.FieldError{{Field: "termsAccepted", Message: "you must accept the terms of use"}})
		return
	}

	birthdate, err := parseBirthdate(req.Birthdate)
	if err != nil {
		writeValidationDetails(c, []domain.FieldError{{Field: "birthdate", Message: err.Error()}})
		return
	}

	input := domain.RegisterInput{
		Email:     normalizeEmail(req.Email),
		Password:  req.Password,
		FullName:  strings.TrimSpace(req.FullName),
		Nickname:  strings.TrimSpace(req.Nickname),
		Birthdate: birthdate,
	}

	account, err := h.accountSvc.Register(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "This email address is already registered"})
			return
		}
		if ve, ok := domain.AsValidationError(err); ok {
			writeValidationDetails(c, ve.Details)
			return
		}
		h.serverError(c, "registration failed", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful! We sent you a confirmation email.",
		"account": account.Summary(),
	})
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	account, token, err := h.accountSvc.Login(c.Request.Context(), normalizeEmail(req.Email), req.Password, req.RememberMe)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		case errors.Is(err, domain.ErrAccountDeleted):
			c.JSON(http.StatusForbidden, gin.H{"error": "This account has been deleted. Use the reactivation link from the email."})
		case errors.Is(err, domain.ErrAccountSuspended):
			c.JSON(http.StatusForbidden, gin.H{"error": "This account is suspended. Please contact support."})
		default:
			h.serverError(c, "login failed", err)
		}
		return
	}

	h.setSessionCookie(c, token, req.RememberMe)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful!",
		"account": account.Summary(),
	})
}

// Logout handles POST /auth/logout. It succeeds even without a valid
// session: the cookie is cleared either way.
func (h *AuthHandlers) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie.Name); err == nil && token != "" {
		if err := h.accountSvc.Logout(c.Request.Context(), token); err != nil {
			h.logger.Warn("failed to delete session on logout", zap.Error(err))
		}
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}

// LogoutAll handles POST /auth/logout-all (requires authentication)
func (h *AuthHandlers) LogoutAll(c *gin.Context) {
	account, ok := middleware.AccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not logged in"})
		return
	}

	if err := h.accountSvc.LogoutAll(c.Request.Context(), account.ID); err != nil {
		h.serverError(c, "logout-all failed", err)
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out from all devices",
	})
}

// ForgotPassword handles POST /auth/forgot-password. The response never
// reveals whether the email is registered.
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	email := normalizeEmail(req.Email)

	// Keyed per target email, not per caller IP, so an attacker cannot flood
	// a single victim mailbox from many addresses.
	res := h.limiter.Check("password-reset:"+email, h.resetLimit.MaxAttempts, h.resetLimit.Window)
	middleware.SetRateLimitHeaders(c, h.resetLimit.MaxAttempts, res)
	if !res.Allowed {
		middleware.WriteRateLimited(c, res)
		return
	}

	if err := h.accountSvc.RequestPasswordReset(c.Request.Context(), email); err != nil {
		h.serverError(c, "forgot-password failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "If the email address exists, we sent a password reset link.",
	})
}

// ResetPassword handles POST /auth/reset-password
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	err := h.accountSvc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		case errors.Is(err, domain.ErrAccountNotActive):
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found or not active"})
		default:
			if ve, ok := domain.AsValidationError(err); ok {
				writeValidationDetails(c, ve.Details)
				return
			}
			h.serverError(c, "reset-password failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password changed successfully. You can now log in with the new password.",
	})
}

// VerifyEmail handles GET /auth/verify-email?token=
func (h *AuthHandlers) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is missing"})
		return
	}

	if err := h.accountSvc.VerifyEmail(c.Request.Context(), token); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
			return
		}
		h.serverError(c, "verify-email failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email address confirmed!",
	})
}

// ResendVerification handles POST /auth/resend-verification
func (h *AuthHandlers) ResendVerification(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	email := normalizeEmail(req.Email)

	res := h.limiter.Check("email-verification:"+email, h.verifLimit.MaxAttempts, h.verifLimit.Window)
	middleware.SetRateLimitHeaders(c, h.verifLimit.MaxAttempts, res)
	if !res.Allowed {
		middleware.WriteRateLimited(c, res)
		return
	}

	if err := h.accountSvc.ResendVerification(c.Request.Context(), email); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyVerified) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "This email address is already confirmed"})
			return
		}
		h.serverError(c, "resend-verification failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "If the email address exists and is not yet confirmed, we sent a new confirmation email.",
	})
}

// DeleteAccount handles POST /auth/delete-account (requires authentication)
func (h *AuthHandlers) DeleteAccount(c *gin.Context) {
	account, ok := middleware.AccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not logged in"})
		return
	}

	if err := h.accountSvc.DeleteAccount(c.Request.Context(), account.ID); err != nil {
		if errors.Is(err, domain.ErrAccountNotActive) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found or not active"})
			return
		}
		h.serverError(c, "delete-account failed", err)
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account deleted. You have 30 days to reactivate it using the link in the email.",
	})
}

// ReactivateAccount handles POST /auth/reactivate-account
func (h *AuthHandlers) ReactivateAccount(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	if err := h.accountSvc.ReactivateAccount(c.Request.Context(), req.Token); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token. The account cannot be restored."})
			return
		}
		h.serverError(c, "reactivate-account failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account reactivated! You can now log in again.",
	})
}

// setSessionCookie delivers the session token. Persistent logins get an
// explicit Max-Age; otherwise the cookie is browser-scoped while the
// server-side record still expires on its own.
func (h *AuthHandlers) setSessionCookie(c *gin.Context, token string, persistent bool) {
	maxAge := 0
	if persistent {
		maxAge = int(h.cookie.MaxAge.Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, maxAge, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandlers) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandlers) serverError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": genericServerError})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseBirthdate(value string) (time.Time, error) {
	var birthdate time.Time
	var err error
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		birthdate, err = time.Parse(layout, value)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("birthdate must be a valid date")
	}
	if !birthdate.Before(time.Now()) {
		return time.Time{}, fmt.Errorf("birthdate cannot be in the future")
	}
	return birthdate, nil
}

// writeBindingError translates gin binding failures into the structured
// validation response.
func writeBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]domain.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, domain.FieldError{
				Field:   lowerFirst(fe.Field()),
				Message: messageForTag(fe),
			})
		}
		writeValidationDetails(c, details)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}

func writeValidationDetails(c *gin.Context, details []domain.FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid input",
		"details": details,
	})
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	default:
		return "invalid value"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
