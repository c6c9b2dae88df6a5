package handlers

import (
	"prompt-contest-backend/internal/middleware"
	"prompt-contest-backend/internal/services"
	"prompt-contest-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the contest API and websocket on r.
func RegisterRoutes(r gin.IRouter, contest *services.ContestService, authService *services.AuthService, hub *ws.Hub) {
	authHandler := NewAuthHandler(authService)
	participantHandler := NewParticipantHandler(contest, hub)
	submissionHandler := NewSubmissionHandler(contest, hub)
	adminHandler := NewAdminHandler(contest, hub)
	wsHandler := NewWSHandler(hub)

	r.GET("/ws/contest", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		participants := api.Group("/participants")
		{
			participants.POST("", participantHandler.Register)
			participants.GET("/current", participantHandler.Current)
		}

		contestGroup := api.Group("/contest")
		{
			contestGroup.GET("/capacity", participantHandler.Capacity)
			contestGroup.GET("/target", participantHandler.Target)
		}

		submissions := api.Group("/submissions")
		{
			submissions.POST("", submissionHandler.Submit)
			submissions.GET("", submissionHandler.History)
		}

		api.GET("/leaderboard", submissionHandler.Leaderboard)

		api.POST("/admin/login", authHandler.Login)

		admin := api.Group("/admin")
		admin.Use(middleware.OperatorAuth(authService))
		{
			admin.PUT("/target", adminHandler.UpdateTarget)
			admin.POST("/reset", adminHandler.Reset)
			admin.GET("/export", adminHandler.Export)
			admin.GET("/participants", adminHandler.Participants)
			admin.GET("/chart", adminHandler.Chart)
		}
	}
}
