package handlers

import (
	"net/http"

	"prompt-contest-backend/internal/services"
	"prompt-contest-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type ParticipantHandler struct {
	contest *services.ContestService
	hub     *ws.Hub
}

func NewParticipantHandler(contest *services.ContestService, hub *ws.Hub) *ParticipantHandler {
	return &ParticipantHandler{contest: contest, hub: hub}
}

type RegisterRequest struct {
	Name  string `json:"name" example:"Ada Lovelace"`
	Email string `json:"email" example:"ada@example.com"`
}

// Register godoc
// @Summary      Register for the contest
// @Description  Register a participant, or re-enter with an email already on file
// @Tags         participants
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201 {object} Participant
// @Success      200 {object} Participant
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/participants [post]
func (h *ParticipantHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	participant, created, err := h.contest.Register(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, participant)
		return
	}

	h.hub.Broadcast(ws.WSMessage{Type: ws.EventParticipantRegistered, Data: participant})
	c.JSON(http.StatusCreated, participant)
}

// Current godoc
// @Summary      Current participant
// @Description  The participant most recently registered or re-entered
// @Tags         participants
// @Produce      json
// @Success      200 {object} Participant
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/participants/current [get]
func (h *ParticipantHandler) Current(c *gin.Context) {
	participant, err := h.contest.CurrentParticipant(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if participant == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no participant in session"})
		return
	}
	c.JSON(http.StatusOK, participant)
}

// Capacity godoc
// @Summary      Registration capacity
// @Tags         contest
// @Produce      json
// @Success      200 {object} services.Capacity
// @Router       /api/v1/contest/capacity [get]
func (h *ParticipantHandler) Capacity(c *gin.Context) {
	capacity, err := h.contest.Capacity(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, capacity)
}

// Target godoc
// @Summary      Current target image
// @Tags         contest
// @Produce      json
// @Success      200 {object} Target
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/contest/target [get]
func (h *ParticipantHandler) Target(c *gin.Context) {
	target, err := h.contest.CurrentTarget(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, target)
}
