package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"coinpulse/internal/middleware"
	"coinpulse/internal/models"
	"coinpulse/internal/services"
)

type Ledger interface {
	Cast(ctx context.Context, userID string, in services.VoteInput) (*models.Vote, error)
	Tally(ctx context.Context, t models.FeedbackType, itemID string) (models.Tally, error)
	ListByUser(ctx context.Context, userID string) ([]models.Vote, error)
}

type VoteHandler struct {
	ledger Ledger
}

func NewVoteHandler(ledger Ledger) *VoteHandler {
	return &VoteHandler{ledger: ledger}
}

func (h *VoteHandler) Cast(c *gin.Context) {
	p, _ := middleware.CurrentUser(c)
	var in services.VoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	vote, err := h.ledger.Cast(c.Request.Context(), p.ID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "vote": vote})
}

func (h *VoteHandler) List(c *gin.Context) {
	p, _ := middleware.CurrentUser(c)
	votes, err := h.ledger.ListByUser(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"votes": votes})
}

func (h *VoteHandler) Tally(c *gin.Context) {
	t := models.FeedbackType(c.Query("type"))
	tally, err := h.ledger.Tally(c.Request.Context(), t, c.Query("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tally)
}
