package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/giftbox-backend/config"
	"github.com/ikkim/giftbox-backend/internal/app/controller"
	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/ikkim/giftbox-backend/internal/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type Router struct {
	authController    *controller.AuthController
	giftBoxController *controller.GiftBoxController
	adminController   *controller.AdminController
	eventController   *controller.EventController
	pageController    *controller.PageController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	giftBoxController *controller.GiftBoxController,
	adminController *controller.AdminController,
	eventController *controller.EventController,
	pageController *controller.PageController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		giftBoxController: giftBoxController,
		adminController:   adminController,
		eventController:   eventController,
		pageController:    pageController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	if r.config.Tracing.Enabled {
		router.Use(otelgin.Middleware(r.config.Tracing.ServiceName))
	}
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORS(r.config.CORS.AllowedOrigins))

	router.SetHTMLTemplate(controller.Templates())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Gift box service is running",
		})
	})

	// Server-rendered pages. Sign-in and sign-out sit outside the gate.
	router.POST("/login", r.pageController.Login)
	router.POST("/logout", r.pageController.Logout)
	pages := router.Group("/", r.authMiddleware.Gate())
	{
		pages.GET("/", r.pageController.Home)
		pages.GET("/dashboard", r.pageController.Dashboard)
		pages.POST("/dashboard", r.pageController.SubmitDashboard)
		pages.GET("/admin", r.pageController.Admin)
		pages.POST("/admin/gift-boxes/:id/tracking", r.pageController.AdminSetTracking)
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
		}

		giftBox := v1.Group("/gift-box", r.authMiddleware.Authenticate())
		{
			giftBox.GET("", r.giftBoxController.GetMyGiftBox)
			giftBox.POST("", r.authMiddleware.RejectRole(model.RoleAdmin), r.giftBoxController.SubmitGiftBox)
		}

		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(model.RoleAdmin),
		)
		{
			admin.GET("/gift-boxes", r.adminController.ListGiftBoxes)
			admin.GET("/gift-boxes/summary", r.adminController.GetSummary)
			admin.GET("/gift-boxes/export", r.adminController.ExportGiftBoxes)
			admin.PUT("/gift-boxes/:id/tracking", r.adminController.SetTracking)
		}

		// Browsers cannot set headers on a WebSocket upgrade
		v1.GET("/admin/events",
			r.authMiddleware.AuthenticateStream(),
			r.authMiddleware.RequireRole(model.RoleAdmin),
			r.eventController.Subscribe,
		)
	}

	return router
}
