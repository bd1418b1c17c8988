package routes

import (
	"net/http"
	"time"

	"divyajyotisha/handlers"
	"divyajyotisha/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle collects the handler sets wired in main.
type HandlerBundle struct {
	Booking *handlers.BookingHandler
	Payment *handlers.PaymentHandler
	Catalog *handlers.CatalogHandler
	Auth    *handlers.AuthHandler
}

// RegisterRoutes mounts every endpoint group on the router.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterWebsiteRoutes(r, hb)
	RegisterDashboardRoutes(r, hb)
	RegisterAuthRoutes(r, hb)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Divya Jyotisha"})
	})
}

// RegisterBookingRoutes sets up the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("", hb.Booking.CreateBooking)
		api.GET("", hb.Booking.ListBookings)
		api.GET("/upcoming", hb.Booking.UpcomingBookings)
		api.GET("/today", hb.Booking.TodayBookings)
		api.GET("/:id", hb.Booking.GetBooking)
		api.PUT("/:id", hb.Booking.UpdateBooking)
		api.PATCH("/:id/cancel", hb.Booking.CancelBooking)
		api.PATCH("/:id/reschedule", hb.Booking.RescheduleBooking)
		api.POST("/:id/reminder", hb.Booking.SendReminder)
	}
}

// RegisterPaymentRoutes sets up payment initiation and the gateway callback.
func RegisterPaymentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/payment")
	{
		api.POST("/initiate", hb.Payment.InitiatePayment)
		api.POST("/callback", hb.Payment.PaymentCallback)
		api.GET("/status/:orderId", hb.Payment.PaymentStatus)
	}
}

// RegisterWebsiteRoutes sets up the public catalog reads.
func RegisterWebsiteRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/website")
	{
		api.GET("/astrologers", hb.Catalog.WebsiteAstrologers)
		api.GET("/pujas", hb.Catalog.WebsitePujas)
		api.GET("/banners", hb.Catalog.WebsiteBanners)
	}
}

// RegisterDashboardRoutes sets up the catalog management endpoints.
// Mutations that destroy data require an authenticated dashboard session.
func RegisterDashboardRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/dashboard")
	{
		api.GET("/astrologers", hb.Catalog.ListAstrologers)
		api.POST("/astrologers", hb.Catalog.CreateAstrologer)
		api.PUT("/astrologers/:id", hb.Catalog.UpdateAstrologer)
		api.PATCH("/astrologers/:id/toggle", hb.Catalog.ToggleAstrologer)

		api.GET("/banners", hb.Catalog.ListBanners)
		api.POST("/banners", hb.Catalog.CreateBanner)
		api.PUT("/banners/:id", hb.Catalog.UpdateBanner)

		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		protected.DELETE("/astrologers/:id", hb.Catalog.DeleteAstrologer)
		protected.DELETE("/banners/:id", hb.Catalog.DeleteBanner)
	}

	puja := r.Group("/api/puja")
	{
		puja.GET("", hb.Catalog.ListPujas)
		puja.POST("", hb.Catalog.CreatePuja)
		puja.PUT("/:id", hb.Catalog.UpdatePuja)
		puja.PATCH("/:id/toggle", hb.Catalog.TogglePuja)

		protected := puja.Group("")
		protected.Use(middleware.AuthRequired())
		protected.DELETE("/:id", hb.Catalog.DeletePuja)
	}
}

// RegisterAuthRoutes sets up dashboard account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.Register)
		api.POST("/login", hb.Auth.Login)
	}
}
