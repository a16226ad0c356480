package rest

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lokon/config"
	"lokon/internal/service"
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())

	router.Use(h.errorMiddleware())

	router.Use(h.corsMiddleware())

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.POST("/refresh", h.refreshTokens)
			auth.POST("/logout", h.logout)
		}

		users := api.Group("/users")
		users.Use(h.authMiddleware())
		{
			users.GET("/me", h.getCurrentUser)
			users.PUT("/me", h.updateCurrentUser)
			users.PUT("/me/password", h.updatePassword)
			users.POST("/me/photo", h.uploadUserPhoto)
			users.GET("/me/notifications", h.getMyNotifications)

			admin := users.Group("/")
			admin.Use(h.adminMiddleware())
			{
				admin.GET("/", h.getUsers)
				admin.GET("/:id", h.getUserByID)
				admin.DELETE("/:id", h.deleteUser)
			}
		}

		masters := api.Group("/masters")
		{
			masters.GET("/", h.getMasters)
			masters.GET("/me", h.authMiddleware(), h.getMyMasterProfile)
			masters.GET("/:id", h.getMasterByID)
			masters.GET("/:id/working-windows", h.getWorkingWindows)
			masters.GET("/:id/blackouts", h.getBlackouts)
			masters.GET("/:id/availability", h.getAvailability)
			masters.GET("/:id/slots", h.getSlots)

			auth := masters.Group("/", h.authMiddleware())
			{
				auth.POST("/", h.createMaster)
				auth.PUT("/:id", h.updateMaster)
				auth.POST("/:id/photo", h.uploadMasterPhoto)

				owner := auth.Group("/", h.masterMiddleware())
				{
					owner.POST("/:id/working-windows", h.createWorkingWindow)
					owner.POST("/:id/blackouts", h.createBlackout)
				}
			}
		}

		windows := api.Group("/working-windows", h.authMiddleware(), h.masterMiddleware())
		{
			windows.PUT("/:id", h.updateWorkingWindow)
			windows.DELETE("/:id", h.deleteWorkingWindow)
		}

		blackouts := api.Group("/blackouts", h.authMiddleware(), h.masterMiddleware())
		{
			blackouts.DELETE("/:id", h.deleteBlackout)
		}

		services := api.Group("/services")
		{
			services.GET("/", h.getServices)
			services.GET("/:id", h.getServiceByID)

			admin := services.Group("/", h.authMiddleware(), h.adminMiddleware())
			{
				admin.POST("/", h.createService)
				admin.PUT("/:id", h.updateService)
				admin.DELETE("/:id", h.deleteService)
				admin.POST("/:id/image", h.uploadServiceImage)
			}
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("/code/:code", h.getBookingByCode)

			auth := bookings.Group("/", h.authMiddleware())
			{
				auth.POST("/", h.createBooking)
				auth.GET("/", h.getBookings)
				auth.GET("/:id", h.getBookingByID)
				auth.POST("/:id/confirm", h.confirmBooking)
				auth.POST("/:id/complete", h.masterMiddleware(), h.completeBooking)
				auth.DELETE("/:id", h.cancelBooking)
			}
		}
	}
}
