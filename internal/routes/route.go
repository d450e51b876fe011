package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tripnest/server/internal/container"
	"github.com/tripnest/server/internal/handlers"
	"github.com/tripnest/server/internal/metrics"
	"github.com/tripnest/server/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.Register()

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "tripnest-api",
			})
		})

		// Chapa calls back here after checkout; no auth on purpose.
		v1.GET("/payment-verify", handlers.VerifyPayment(container.PaymentService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.Config.JWTSecret, container.Logger))

	listingRoutes := protected.Group("/listings")
	{
		listingRoutes.POST("", handlers.CreateListing(container.ListingService))
		listingRoutes.GET("", handlers.ListListings(container.ListingService))
		listingRoutes.DELETE("", handlers.DeleteAllListings(container.ListingService))
		listingRoutes.GET("/:id", handlers.GetListingByID(container.ListingService))
		listingRoutes.PUT("/:id", handlers.UpdateListing(container.ListingService))
		listingRoutes.DELETE("/:id", handlers.DeleteListing(container.ListingService))
	}

	bookingRoutes := protected.Group("/bookings")
	{
		bookingRoutes.POST("", handlers.CreateBooking(container.BookingService))
		bookingRoutes.GET("", handlers.ListBookings(container.BookingService))
		bookingRoutes.GET("/:id", handlers.GetBookingByID(container.BookingService))
		bookingRoutes.PUT("/:id", handlers.UpdateBooking(container.BookingService))
		bookingRoutes.DELETE("/:id", handlers.DeleteBooking(container.BookingService))
	}

	protected.POST("/payment-initiate", handlers.InitiatePayment(container.BookingService))

	return r
}
