package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fire22/compliance-backend/internal/handlers"
	"github.com/fire22/compliance-backend/internal/middleware"
)

// RegisterRoutes wires the compliance API. Read endpoints require any
// authenticated caller; mutating endpoints require the compliance
// officer role.
func RegisterRoutes(router *gin.Engine, compliance *handlers.ComplianceHandler, rateLimiter *middleware.RateLimiter) {
	api := router.Group("/api/v1")
	api.Use(rateLimiter.Middleware())
	api.Use(middleware.AuthMiddleware())

	reports := api.Group("/reports")
	{
		reports.GET("", compliance.GetReports)
		reports.POST("", middleware.ComplianceOfficerMiddleware(), compliance.GenerateReport)
		reports.POST("/:id/approve", middleware.ComplianceOfficerMiddleware(), compliance.ApproveReport)
		reports.POST("/:id/submit", middleware.ComplianceOfficerMiddleware(), compliance.SubmitReport)
		reports.POST("/:id/resolve", middleware.ComplianceOfficerMiddleware(), compliance.ResolveReport)
	}

	filings := api.Group("/filings")
	{
		filings.GET("", compliance.GetFilings)
		filings.POST("", middleware.ComplianceOfficerMiddleware(), compliance.SubmitFiling)
		filings.POST("/:id/response", middleware.ComplianceOfficerMiddleware(), compliance.RecordRegulatorResponse)
		filings.POST("/:id/attachments", middleware.ComplianceOfficerMiddleware(), compliance.AddAttachment)
	}

	alerts := api.Group("/alerts")
	{
		alerts.GET("/active", compliance.GetActiveAlerts)
		alerts.POST("", middleware.ComplianceOfficerMiddleware(), compliance.CreateAlert)
		alerts.POST("/:id/assign", middleware.ComplianceOfficerMiddleware(), compliance.AssignAlert)
		alerts.POST("/:id/resolve", middleware.ComplianceOfficerMiddleware(), compliance.ResolveAlert)
	}

	schedules := api.Group("/schedules")
	{
		schedules.GET("", compliance.GetSchedules)
		schedules.POST("", middleware.ComplianceOfficerMiddleware(), compliance.CreateSchedule)
	}

	api.POST("/transactions/check", middleware.ComplianceOfficerMiddleware(), compliance.CheckTransaction)
	api.GET("/stats", compliance.GetStats)
}
