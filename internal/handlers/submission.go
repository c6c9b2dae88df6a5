package handlers

import (
	"net/http"

	"prompt-contest-backend/internal/services"
	"prompt-contest-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	contest *services.ContestService
	hub     *ws.Hub
}

func NewSubmissionHandler(contest *services.ContestService, hub *ws.Hub) *SubmissionHandler {
	return &SubmissionHandler{contest: contest, hub: hub}
}

type SubmitRequest struct {
	Email  string `json:"email,omitempty" example:"ada@example.com"`
	Prompt string `json:"prompt" example:"a golden dragon flying over a sunset sky"`
}

// Submit godoc
// @Summary      Submit a prompt
// @Description  Score a prompt against the current target. Without an email the current session participant is used.
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        request body SubmitRequest true "Prompt"
// @Success      201 {object} Submission
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/submissions [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	sub, err := h.contest.Submit(c.Request.Context(), services.SubmitInput{Email: req.Email, Prompt: req.Prompt})
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.Broadcast(ws.WSMessage{Type: ws.EventSubmissionScored, Data: sub})
	c.JSON(http.StatusCreated, sub)
}

// History godoc
// @Summary      Submission history
// @Description  A participant's submissions, newest first
// @Tags         submissions
// @Produce      json
// @Param        email query string true "Participant email"
// @Success      200 {array} Submission
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/submissions [get]
func (h *SubmissionHandler) History(c *gin.Context) {
	subs, err := h.contest.History(c.Request.Context(), c.Query("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// Leaderboard godoc
// @Summary      Leaderboard
// @Description  Every submission ranked by score, with summary statistics (null when empty)
// @Tags         contest
// @Produce      json
// @Success      200 {object} services.Leaderboard
// @Router       /api/v1/leaderboard [get]
func (h *SubmissionHandler) Leaderboard(c *gin.Context) {
	lb, err := h.contest.Leaderboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lb)
}
