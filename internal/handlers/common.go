package handlers

import (
	"errors"
	"log"
	"net/http"

	"prompt-contest-backend/internal/models"
	"prompt-contest-backend/internal/repository"
	"prompt-contest-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Type aliases so swag can resolve models in annotations.
type Participant = models.Participant
type Submission = models.Submission
type Target = models.Target

// respondError maps service errors onto status codes.
func respondError(c *gin.Context, err error) {
	var (
		validation *services.ValidationError
		capacity   *services.CapacityExceededError
		auth       *services.AuthenticationError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.As(err, &capacity):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.As(err, &auth):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		log.Printf("handlers: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
