package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"coinpulse/internal/middleware"
	"coinpulse/internal/services"
)

type Composer interface {
	Compose(ctx context.Context, userID string) *services.Dashboard
}

type DashboardHandler struct {
	composer Composer
}

func NewDashboardHandler(composer Composer) *DashboardHandler {
	return &DashboardHandler{composer: composer}
}

// Get always answers 200; failed sections are marked inside the body.
func (h *DashboardHandler) Get(c *gin.Context) {
	p, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, h.composer.Compose(c.Request.Context(), p.ID))
}
