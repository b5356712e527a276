package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coinpulse/internal/apperr"
	"coinpulse/internal/auth"
	"coinpulse/internal/logging"
	"coinpulse/internal/metrics"
	"coinpulse/internal/models"
)

type TokenVerifier interface {
	Verify(token string) (string, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// AuthRequired admits a request only if it carries a valid session token
// for an existing user. The token is read from the Authorization bearer
// header first and the session cookie second. The user is re-read on every
// request and attached to the request context.
func AuthRequired(tokens TokenVerifier, users UserFinder, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := credential(c, cookieName)
		if token == "" {
			reject(c, "missing")
			return
		}

		id, err := tokens.Verify(token)
		if err != nil {
			reject(c, reasonFor(err))
			return
		}

		user, err := users.FindByID(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, apperr.ErrUnauthorized) {
				logging.Ctx(c.Request.Context()).Error().Err(err).Msg("resolve principal")
			}
			reject(c, "unknown_principal")
			return
		}

		ctx := auth.WithPrincipal(c.Request.Context(), auth.PrincipalOf(user))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func credential(c *gin.Context, cookieName string) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			if token = strings.TrimSpace(token); token != "" {
				return token
			}
		}
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrTokenSignatureInvalid):
		return "bad_signature"
	default:
		return "malformed"
	}
}

func reject(c *gin.Context, reason string) {
	metrics.AuthFailures.WithLabelValues(reason).Inc()
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
}

// CurrentUser returns the principal set by AuthRequired.
func CurrentUser(c *gin.Context) (*auth.Principal, bool) {
	return auth.PrincipalFrom(c.Request.Context())
}
