package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"prompt-contest-backend/internal/services"
	"prompt-contest-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	contest *services.ContestService
	hub     *ws.Hub
	now     func() time.Time
}

func NewAdminHandler(contest *services.ContestService, hub *ws.Hub) *AdminHandler {
	return &AdminHandler{contest: contest, hub: hub, now: time.Now}
}

type UpdateTargetRequest struct {
	ImageRef    string `json:"image_ref" example:"https://picsum.photos/512/512?random=7"`
	Description string `json:"description" example:"A lighthouse on a rocky coast at dawn"`
}

// UpdateTarget godoc
// @Summary      Replace the target
// @Description  Set a new reference image and description. Existing submissions keep their snapshot.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateTargetRequest true "Target"
// @Success      200 {object} Target
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/admin/target [put]
func (h *AdminHandler) UpdateTarget(c *gin.Context) {
	var req UpdateTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	target, err := h.contest.UpdateTarget(c.Request.Context(), req.ImageRef, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.Broadcast(ws.WSMessage{Type: ws.EventTargetUpdated, Data: target})
	c.JSON(http.StatusOK, target)
}

// Reset godoc
// @Summary      Reset the contest
// @Description  Delete every submission. Participants stay registered.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} MessageResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/admin/reset [post]
func (h *AdminHandler) Reset(c *gin.Context) {
	if err := h.contest.Reset(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	h.hub.Broadcast(ws.WSMessage{Type: ws.EventContestReset, Data: nil})
	c.JSON(http.StatusOK, MessageResponse{Message: "contest reset"})
}

// Participants godoc
// @Summary      List participants
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Participant
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/admin/participants [get]
func (h *AdminHandler) Participants(c *gin.Context) {
	participants, err := h.contest.Participants(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

// Export godoc
// @Summary      Export results
// @Description  Download the ranked results as CSV or JSON
// @Tags         admin
// @Produce      json
// @Produce      text/csv
// @Security     BearerAuth
// @Param        format query string false "csv or json" default(csv)
// @Success      200 {array} services.ExportRow
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/admin/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "json" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "format must be csv or json"})
		return
	}

	rows, err := h.contest.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("contest-results-%s.%s", h.now().UTC().Format("2006-01-02"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))

	if format == "json" {
		c.JSON(http.StatusOK, rows)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := writeExportCSV(c.Writer, rows); err != nil {
		c.Error(err)
	}
}

func writeExportCSV(w io.Writer, rows []services.ExportRow) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"Rank", "Score", "Similarity", "Prompt", "Timestamp"})
	for _, r := range rows {
		cw.Write([]string{
			strconv.Itoa(r.Rank),
			strconv.Itoa(r.Score),
			strconv.Itoa(r.Similarity),
			r.Prompt,
			r.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	cw.Flush()
	return cw.Error()
}
