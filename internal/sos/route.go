package sos

import (
	"sos-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r gin.IRouter, handler *SOSHandler) {
	sosGroup := r.Group("api/v1/sos", middleware.Secured())
	{
		sosGroup.POST("/alerts", handler.CreateAlert)
		sosGroup.GET("/alerts/active", handler.GetActiveAlerts)
		sosGroup.GET("/alerts/mine", handler.GetMyAlerts)
		sosGroup.GET("/alerts/unread-count", handler.GetUnreadCount)
		sosGroup.PUT("/alerts/mark-read", handler.MarkRead)
		sosGroup.GET("/alerts/:id", handler.GetAlert)
		sosGroup.PUT("/alerts/:id/cancel", handler.CancelAlert)
		sosGroup.GET("/alerts/:id/responses", handler.GetAlertResponses)

		sosGroup.POST("/responses", handler.Respond)
		sosGroup.GET("/responses/mine", handler.GetMyResponses)
		sosGroup.PUT("/responses/:id/confirm", handler.ConfirmResponse)

		sosGroup.GET("/leaderboard", handler.GetLeaderboard)
		sosGroup.POST("/maintenance/sweep", handler.Sweep)
	}
}
