package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedeku/tinicoach/domain"
	"github.com/dedeku/tinicoach/internal/config"
	"github.com/dedeku/tinicoach/internal/http/middleware"
	"github.com/dedeku/tinicoach/internal/mocks"
	"github.com/dedeku/tinicoach/internal/ratelimit"
	"go.uber.org/zap"
)

const testCookieName = "tinicoach-session"

type handlerFixture struct {
	accountSvc *mocks.MockAccountService
	sessionSvc *mocks.MockSessionService
	limiter    *ratelimit.Limiter
	router     *gin.Engine
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &handlerFixture{
		accountSvc: mocks.NewMockAccountService(),
		sessionSvc: mocks.NewMockSessionService(),
		limiter:    ratelimit.New(time.Minute),
	}
	t.Cleanup(f.limiter.Stop)

	cookie := CookieConfig{
		Name:   testCookieName,
		Secure: false,
		MaxAge: 28 * 24 * time.Hour,
	}
	limit := config.Policy{MaxAttempts: 3, Window: time.Hour}
	h := NewAuthHandlers(f.accountSvc, f.limiter, cookie, limit, limit, zap.NewNop())

	r := gin.New()
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
		auth.GET("/verify-email", h.VerifyEmail)
		auth.POST("/resend-verification", h.ResendVerification)
		auth.POST("/reactivate-account", h.ReactivateAccount)

		protected := auth.Group("", middleware.RequireSession(f.sessionSvc, testCookieName))
		protected.POST("/logout-all", h.LogoutAll)
		protected.POST("/delete-account", h.DeleteAccount)
	}
	f.router = r
	return f
}

func (f *handlerFixture) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	return nil
}

const validRegisterBody = `{
	"email": "Anna@Example.com",
	"password": "Password1",
	"fullName": "Kiss Anna",
	"nickname": "anna",
	"birthdate": "2010-06-15",
	"termsAccepted": true
}`

func TestRegister(t *testing.T) {
	t.Run("success returns 201 with the account summary", func(t *testing.T) {
		f := newHandlerFixture(t)

		var gotInput domain.RegisterInput
		f.accountSvc.RegisterFunc = func(ctx context.Context, input domain.RegisterInput) (*domain.Account, error) {
			gotInput = input
			return &domain.Account{
				ID:       1,
				Email:    input.Email,
				FullName: input.FullName,
				Nickname: input.Nickname,
				Role:     "TEEN",
				Status:   domain.StatusActive,
			}, nil
		}

		w := f.do(http.MethodPost, "/auth/register", validRegisterBody, nil)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "anna@example.com", gotInput.Email, "email must be normalized")
		body := decodeBody(t, w)
		assert.Equal(t, true, body["success"])
		account := body["account"].(map[string]interface{})
		assert.Equal(t, "anna@example.com", account["email"])
		assert.NotContains(t, account, "passwordHash")
	})

	t.Run("taken email returns 409", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.accountSvc.RegisterFunc = func(ctx context.Context, input domain.RegisterInput) (*domain.Account, error) {
			return nil, domain.ErrEmailTaken
		}

		w := f.do(http.MethodPost, "/auth/register", validRegisterBody, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing fields return itemized details", func(t *testing.T) {
		f := newHandlerFixture(t)

		w := f.do(http.MethodPost, "/auth/register", `{"email": "not-an-email"}`, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		details := body["details"].([]interface{})
		fields := make([]string, 0, len(details))
		for _, d := range details {
			fields = append(fields, d.(map[string]interface{})["field"].(string))
		}
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "password")
		assert.Contains(t, fields, "fullName")
	})

	t.Run("unaccepted terms return 400", func(t *testing.T) {
		f := newHandlerFixture(t)

		body := strings.Replace(validRegisterBody, `"termsAccepted": true`, `"termsAccepted": false`, 1)
		w := f.do(http.MethodPost, "/auth/register", body, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "termsAccepted")
	})

	t.Run("future birthdate returns 400", func(t *testing.T) {
		f := newHandlerFixture(t)

		future := time.Now().AddDate(1, 0, 0).Format("2006-01-02")
		body := strings.Replace(validRegisterBody, "2010-06-15", future, 1)
		w := f.do(http.MethodPost, "/auth/register", body, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "birthdate")
	})

	t.Run("weak password surfaces the policy details", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.accountSvc.RegisterFunc = func(ctx context.Context, input domain.RegisterInput) (*domain.Account, error) {
			return nil, domain.NewValidationError("password", "must be at least 8 characters long")
		}

		w := f.do(http.MethodPost, "/auth/register", validRegisterBody, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "must be at least 8 characters long")
	})
}

func TestLogin(t *testing.T) {
	loginBody := func(rememberMe bool) string {
		return fmt.Sprintf(`{"email": "anna@example.com", "password": "Password1", "rememberMe": %v}`, rememberMe)
	}

	successfulLogin := func(f *handlerFixture) {
		f.accountSvc.LoginFunc = func(ctx context.Context, email, password string, rememberMe bool) (*domain.Account, string, error) {
			return &domain.Account{ID: 42, Email: email, Status: domain.StatusActive}, "sess-token", nil
		}
	}

	t.Run("persistent login sets a Max-Age cookie", func(t *testing.T) {
		f := newHandlerFixture(t)
		successfulLogin(f)

		w := f.do(http.MethodPost, "/auth/login", loginBody(true), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		cookie := sessionCookie(t, w)
		require.NotNil(t, cookie)
		assert.Equal(t, "sess-token", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, int((28 * 24 * time.Hour).Seconds()), cookie.MaxAge)
	})

	t.Run("browser-scoped login sets no Max-Age", func(t *testing.T) {
		f := newHandlerFixture(t)
		successfulLogin(f)

		w := f.do(http.MethodPost, "/auth/login", loginBody(false), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		cookie := sessionCookie(t, w)
		require.NotNil(t, cookie)
		assert.Equal(t, 0, cookie.MaxAge)
	})

	t.Run("error mapping", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
		}{
			{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
			{"deleted account", domain.ErrAccountDeleted, http.StatusForbidden},
			{"suspended account", domain.ErrAccountSuspended, http.StatusForbidden},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newHandlerFixture(t)
				f.accountSvc.LoginFunc = func(ctx context.Context, email, password string, rememberMe bool) (*domain.Account, string, error) {
					return nil, "", tt.err
				}

				w := f.do(http.MethodPost, "/auth/login", loginBody(false), nil)
				assert.Equal(t, tt.wantStatus, w.Code)
				assert.Nil(t, sessionCookie(t, w), "no cookie on a failed login")
			})
		}
	})

	t.Run("deleted and suspended responses differ", func(t *testing.T) {
		bodies := make(map[string]string)
		for name, err := range map[string]error{"deleted": domain.ErrAccountDeleted, "suspended": domain.ErrAccountSuspended} {
			f := newHandlerFixture(t)
			loginErr := err
			f.accountSvc.LoginFunc = func(ctx context.Context, email, password string, rememberMe bool) (*domain.Account, string, error) {
				return nil, "", loginErr
			}
			bodies[name] = f.do(http.MethodPost, "/auth/login", loginBody(false), nil).Body.String()
		}
		assert.NotEqual(t, bodies["deleted"], bodies["suspended"])
	})
}

func TestLogout(t *testing.T) {
	t.Run("invalidates the session and clears the cookie", func(t *testing.T) {
		f := newHandlerFixture(t)

		var invalidated string
		f.accountSvc.LogoutFunc = func(ctx context.Context, sessionToken string) error {
			invalidated = sessionToken
			return nil
		}

		w := f.do(http.MethodPost, "/auth/logout", "", &http.Cookie{Name: testCookieName, Value: "sess-token"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "sess-token", invalidated)
		cookie := sessionCookie(t, w)
		require.NotNil(t, cookie)
		assert.Less(t, cookie.MaxAge, 0, "cookie must be expired")
	})

	t.Run("succeeds without a cookie", func(t *testing.T) {
		f := newHandlerFixture(t)
		w := f.do(http.MethodPost, "/auth/logout", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLogoutAll(t *testing.T) {
	t.Run("requires a valid session", func(t *testing.T) {
		f := newHandlerFixture(t)
		w := f.do(http.MethodPost, "/auth/logout-all", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("drops every session of the account", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.sessionSvc.ValidateFunc = func(ctx context.Context, token string) (*domain.Account, error) {
			return &domain.Account{ID: 42, Status: domain.StatusActive}, nil
		}
		var loggedOut uint
		f.accountSvc.LogoutAllFunc = func(ctx context.Context, accountID uint) error {
			loggedOut = accountID
			return nil
		}

		w := f.do(http.MethodPost, "/auth/logout-all", "", &http.Cookie{Name: testCookieName, Value: "sess-token"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(42), loggedOut)
		cookie := sessionCookie(t, w)
		require.NotNil(t, cookie)
		assert.Less(t, cookie.MaxAge, 0)
	})
}

func TestForgotPassword(t *testing.T) {
	const body = `{"email": "anna@example.com"}`

	t.Run("response is identical for known and unknown emails", func(t *testing.T) {
		f := newHandlerFixture(t)

		known := f.do(http.MethodPost, "/auth/forgot-password", body, nil)
		unknown := f.do(http.MethodPost, "/auth/forgot-password", `{"email": "nobody@example.com"}`, nil)

		assert.Equal(t, http.StatusOK, known.Code)
		assert.Equal(t, http.StatusOK, unknown.Code)
		assert.Equal(t, known.Body.String(), unknown.Body.String())
	})

	t.Run("rate limited per target email", func(t *testing.T) {
		f := newHandlerFixture(t)

		for i := 0; i < 3; i++ {
			w := f.do(http.MethodPost, "/auth/forgot-password", body, nil)
			assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		}

		w := f.do(http.MethodPost, "/auth/forgot-password", body, nil)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "retryAfter")

		// A different target email is unaffected.
		other := f.do(http.MethodPost, "/auth/forgot-password", `{"email": "other@example.com"}`, nil)
		assert.Equal(t, http.StatusOK, other.Code)
	})
}

func TestResetPassword(t *testing.T) {
	const body = `{"token": "tok", "newPassword": "NewPassword1"}`

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"invalid token", domain.ErrTokenInvalid, http.StatusBadRequest},
		{"inactive account", domain.ErrAccountNotActive, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			f.accountSvc.ResetPasswordFunc = func(ctx context.Context, token, newPassword string) error {
				assert.Equal(t, "tok", token)
				return tt.err
			}

			w := f.do(http.MethodPost, "/auth/reset-password", body, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	t.Run("weak password surfaces details", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.accountSvc.ResetPasswordFunc = func(ctx context.Context, token, newPassword string) error {
			return domain.NewValidationError("password", "must contain at least one digit")
		}

		w := f.do(http.MethodPost, "/auth/reset-password", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "must contain at least one digit")
	})
}

func TestVerifyEmail(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		f := newHandlerFixture(t)
		w := f.do(http.MethodGet, "/auth/verify-email", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.accountSvc.VerifyEmailFunc = func(ctx context.Context, token string) error {
			return domain.ErrTokenInvalid
		}

		w := f.do(http.MethodGet, "/auth/verify-email?token=bad", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		f := newHandlerFixture(t)
		var verified string
		f.accountSvc.VerifyEmailFunc = func(ctx context.Context, token string) error {
			verified = token
			return nil
		}

		w := f.do(http.MethodGet, "/auth/verify-email?token=tok", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tok", verified)
	})
}

func TestResendVerification(t *testing.T) {
	const body = `{"email": "anna@example.com"}`

	t.Run("success", func(t *testing.T) {
		f := newHandlerFixture(t)
		w := f.do(http.MethodPost, "/auth/resend-verification", body, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("already verified returns 400", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.accountSvc.ResendVerificationFunc = func(ctx context.Context, email string) error {
			return domain.ErrEmailAlreadyVerified
		}

		w := f.do(http.MethodPost, "/auth/resend-verification", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rate limited per target email", func(t *testing.T) {
		f := newHandlerFixture(t)

		for i := 0; i < 3; i++ {
			f.do(http.MethodPost, "/auth/resend-verification", body, nil)
		}
		w := f.do(http.MethodPost, "/auth/resend-verification", body, nil)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("requires a valid session", func(t *testing.T) {
		f := newHandlerFixture(t)
		w := f.do(http.MethodPost, "/auth/delete-account", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deletes the account and clears the cookie", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.sessionSvc.ValidateFunc = func(ctx context.Context, token string) (*domain.Account, error) {
			return &domain.Account{ID: 42, Status: domain.StatusActive}, nil
		}
		var deleted uint
		f.accountSvc.DeleteAccountFunc = func(ctx context.Context, accountID uint) error {
			deleted = accountID
			return nil
		}

		w := f.do(http.MethodPost, "/auth/delete-account", "", &http.Cookie{Name: testCookieName, Value: "sess-token"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(42), deleted)
		cookie := sessionCookie(t, w)
		require.NotNil(t, cookie)
		assert.Less(t, cookie.MaxAge, 0)
	})

	t.Run("inactive account returns 404", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.sessionSvc.ValidateFunc = func(ctx context.Context, token string) (*domain.Account, error) {
			return &domain.Account{ID: 42, Status: domain.StatusActive}, nil
		}
		f.accountSvc.DeleteAccountFunc = func(ctx context.Context, accountID uint) error {
			return domain.ErrAccountNotActive
		}

		w := f.do(http.MethodPost, "/auth/delete-account", "", &http.Cookie{Name: testCookieName, Value: "sess-token"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestReactivateAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newHandlerFixture(t)
		var reactivated string
		f.accountSvc.ReactivateAccountFunc = func(ctx context.Context, token string) error {
			reactivated = token
			return nil
		}

		w := f.do(http.MethodPost, "/auth/reactivate-account", `{"token": "tok"}`, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tok", reactivated)
	})

	t.Run("invalid token returns 400", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.accountSvc.ReactivateAccountFunc = func(ctx context.Context, token string) error {
			return domain.ErrTokenInvalid
		}

		w := f.do(http.MethodPost, "/auth/reactivate-account", `{"token": "bad"}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing token returns 400", func(t *testing.T) {
		f := newHandlerFixture(t)
		w := f.do(http.MethodPost, "/auth/reactivate-account", `{}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
