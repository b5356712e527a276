package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coinpulse/internal/apperr"
	"coinpulse/internal/logging"
)

// respondError maps service errors to status codes. Anything unrecognized is
// logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
	case errors.Is(err, apperr.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists with this email."})
	case errors.Is(err, apperr.ErrUnknownEmail):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found. Please sign up first."})
	case errors.Is(err, apperr.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials."})
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
	}
}

func badBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name      string
	MaxAge    time.Duration
	Secure    bool
	CrossSite bool
}

func (cc CookieConfig) set(c *gin.Context, value string, maxAge int) {
	secure := cc.Secure
	if cc.CrossSite {
		// browsers drop SameSite=None cookies that are not Secure
		c.SetSameSite(http.SameSiteNoneMode)
		secure = true
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(cc.Name, value, maxAge, "/", "", secure, true)
}

func (cc CookieConfig) Issue(c *gin.Context, token string) {
	cc.set(c, token, int(cc.MaxAge/time.Second))
}

func (cc CookieConfig) Clear(c *gin.Context) {
	cc.set(c, "", -1)
}
