package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/studiodesk/internal/server/http/handlers"
	"github.com/polkiloo/studiodesk/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StudioFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	checkoutHandler := handlers.NewCheckoutHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)
	authHandler := handlers.NewAuthHandler(facade)
	adminOrderHandler := handlers.NewAdminOrderHandler(facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)
	api.GET("/catalog", checkoutHandler.Catalog)
	api.POST("/orders", checkoutHandler.CreateOrder)
	api.GET("/orders/by-intent/:intentID", checkoutHandler.OrderStatus)
	api.POST("/payments/webhook", webhookHandler.Receive)

	admin := api.Group("/admin")
	admin.POST("/login", authHandler.Login)

	adminAuth := admin.Group("")
	adminAuth.Use(middleware.AuthRequired(facade))
	adminAuth.GET("/orders", adminOrderHandler.List)
	adminAuth.GET("/orders/:id", adminOrderHandler.Get)
	adminAuth.PATCH("/orders/:id/progress", adminOrderHandler.UpdateProgress)

	return engine
}
