package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"coinpulse/internal/middleware"
	"coinpulse/internal/models"
)

type Accounts interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

type TokenIssuer interface {
	Issue(principalID string) (string, error)
}

type AuthHandler struct {
	accounts Accounts
	tokens   TokenIssuer
	prefs    PreferenceService
	cookies  CookieConfig
}

func NewAuthHandler(accounts Accounts, tokens TokenIssuer, prefs PreferenceService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens, prefs: prefs, cookies: cookies}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	user, err := h.accounts.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.startSession(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	user, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.startSession(c, http.StatusOK, user)
}

// startSession issues a token in both the cookie and the body; non-browser
// clients send it back as a bearer token.
func (h *AuthHandler) startSession(c *gin.Context, status int, user *models.User) {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.cookies.Issue(c, token)
	c.JSON(status, gin.H{"ok": true, "user": user.Summary(), "token": token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	prefs, err := h.prefs.Load(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          p.ID,
		"name":        p.Name,
		"email":       p.Email,
		"createdAt":   p.CreatedAt,
		"preferences": prefs,
	})
}
