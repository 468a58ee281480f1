package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"smsportal/internal/handlers"
	"smsportal/internal/middleware"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Admin     *handlers.AdminHandler
	Dashboard *handlers.DashboardHandler
	SMS       *handlers.SMSHandler
	Reports   *handlers.ReportHandler
	Health    *handlers.HealthHandler
	Metrics   http.Handler // nil disables /metrics
}

// SetupRoutes expects SessionMiddleware to be installed on r already.
func SetupRoutes(r *gin.Engine, h Handlers) *gin.Engine {
	// ---- public
	r.GET("/", h.Dashboard.Index)
	r.GET("/signup", h.Auth.ShowSignup)
	r.POST("/signup", h.Auth.Signup)
	r.GET("/confirm/:token", h.Auth.Confirm)
	r.GET("/login", h.Auth.ShowLogin)
	r.POST("/login", h.Auth.Login)

	r.GET("/healthz", h.Health.Healthz)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ---- logged in
	user := r.Group("/", middleware.RequireLogin())
	{
		user.GET("/logout", h.Auth.Logout)
		user.GET("/dashboard", h.Dashboard.Dashboard)
		user.POST("/profile/phone", h.Dashboard.SetPhone)

		user.GET("/sms_campaign", h.SMS.ShowCampaign)
		user.POST("/sms_campaign", h.SMS.SendCampaign)
		user.POST("/call", h.SMS.MakeCall)
		user.GET("/lookup", h.SMS.ShowLookup)
		user.POST("/lookup", h.SMS.Lookup)

		user.GET("/sms_history", h.SMS.SMSHistory)
		user.GET("/sms_history/export.pdf", h.Reports.ExportSMSHistory)
		user.GET("/history/:kind", h.SMS.History)
		user.GET("/history/:kind/export.pdf", h.Reports.ExportHistory)
	}

	// ---- admin
	admin := r.Group("/admin", middleware.RequireLogin(), middleware.RequireAdmin())
	{
		admin.GET("/users", h.Admin.ListUsers)
		admin.GET("/approve/:id", h.Admin.Approve)
		admin.GET("/reject/:id", h.Admin.Reject)
	}

	r.NoRoute(handlers.NotFound)
	return r
}
