package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coinpulse/internal/models"
)

// Catalog lists the values the onboarding screen offers.
func Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"assets":        models.Assets,
		"investorTypes": models.InvestorTypes,
		"contentTypes":  models.ContentTypes,
		"feedbackTypes": models.FeedbackTypes,
	})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "msg": "Server is up"})
}
