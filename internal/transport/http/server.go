package http

import (
	"github.com/gin-gonic/gin"

	"docutrack/internal/app"
	"docutrack/internal/model"
	"docutrack/internal/transport/http/handler"
	"docutrack/internal/transport/http/middleware"
)

type RouterDeps struct {
	JWTSecret     string
	Auth          *app.AuthService
	Documents     *app.DocumentService
	Notifications *app.NotificationService
	Reports       *app.ReportService
	Health        *handler.HealthHandler
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/healthz", deps.Health.Check)

	authHandler := handler.NewAuthHandler(deps.Auth)
	documentHandler := handler.NewDocumentHandler(deps.Documents)
	notificationHandler := handler.NewNotificationHandler(deps.Notifications)
	reportHandler := handler.NewReportHandler(deps.Reports)

	authJWT := middleware.AuthJWT(deps.JWTSecret)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", authJWT, authHandler.Me)
	}

	documents := v1.Group("/documents", authJWT)
	{
		documents.GET("", documentHandler.List)
		documents.POST("", documentHandler.Upload)
		documents.GET("/:id", documentHandler.Get)
		documents.PUT("/:id", documentHandler.Update)
		documents.DELETE("/:id", documentHandler.Delete)
		documents.POST("/:id/versions", documentHandler.CreateVersion)
		documents.GET("/:id/export", documentHandler.Export)
	}

	notifications := v1.Group("/notifications", authJWT)
	{
		notifications.GET("", notificationHandler.List)
		notifications.POST("/:id/read", notificationHandler.MarkRead)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
	}

	reports := v1.Group("/reports", authJWT, middleware.RequireRole(model.RoleStaff, model.RoleDirector))
	{
		reports.GET("", reportHandler.Get)
	}

	return router
}
