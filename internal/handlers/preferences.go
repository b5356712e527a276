package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"coinpulse/internal/middleware"
	"coinpulse/internal/models"
	"coinpulse/internal/services"
)

type PreferenceService interface {
	Load(ctx context.Context, userID string) (*models.Preferences, error)
	Save(ctx context.Context, userID string, in services.PreferencesInput) (*models.Preferences, error)
}

type PreferencesHandler struct {
	prefs PreferenceService
}

func NewPreferencesHandler(prefs PreferenceService) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs}
}

func (h *PreferencesHandler) Get(c *gin.Context) {
	p, _ := middleware.CurrentUser(c)
	prefs, err := h.prefs.Load(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *PreferencesHandler) Put(c *gin.Context) {
	p, _ := middleware.CurrentUser(c)
	var in services.PreferencesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	prefs, err := h.prefs.Save(c.Request.Context(), p.ID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}
