// File: divyajyotisha/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"divyajyotisha/config"
	"divyajyotisha/cron"
	"divyajyotisha/database"
	adminRepo "divyajyotisha/database/repository/admin"
	bookingRepo "divyajyotisha/database/repository/booking"
	catalogRepo "divyajyotisha/database/repository/catalog"
	"divyajyotisha/handlers"
	"divyajyotisha/middleware"
	"divyajyotisha/routes"
	"divyajyotisha/services/booking"
	"divyajyotisha/services/meeting"
	"divyajyotisha/services/messaging"
	"divyajyotisha/services/payment"
	"divyajyotisha/services/tasks"
	"divyajyotisha/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	loc, err := time.LoadLocation(config.AppConfig.TimeZone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid time zone %q: %v", config.AppConfig.TimeZone, err)
	}

	// Repositories. STORAGE_BACKEND selects the store at process start; both
	// backends implement identical semantics.
	var (
		bookings    bookingRepo.Repository
		astrologers catalogRepo.AstrologerRepository
		pujas       catalogRepo.PujaRepository
		banners     catalogRepo.BannerRepository
		admins      adminRepo.Repository
	)
	switch config.AppConfig.StorageBackend {
	case "memory":
		logger.Sugar().Warn("main: using in-memory storage, data will not survive a restart")
		bookings = bookingRepo.NewMemoryBookingRepo()
		astrologers = catalogRepo.NewMemoryAstrologerRepo()
		pujas = catalogRepo.NewMemoryPujaRepo()
		banners = catalogRepo.NewMemoryBannerRepo()
		admins = adminRepo.NewMemoryAdminRepo()
	default:
		database.InitDB()
		bookings = bookingRepo.NewMongoBookingRepo()
		astrologers = catalogRepo.NewMongoAstrologerRepo()
		pujas = catalogRepo.NewMongoPujaRepo()
		banners = catalogRepo.NewMongoBannerRepo()
		admins = adminRepo.NewMongoAdminRepo()
	}

	utils.InitCache()

	// Payment provider.
	stripe.Key = config.AppConfig.StripeKey
	var provider payment.Provider
	switch config.AppConfig.PaymentProvider {
	case "stripe":
		provider = payment.NewStripeProvider(config.AppConfig.StripeWebhookSecret, logger)
	default:
		provider = payment.NewPaytmProvider(payment.PaytmConfig{
			MerchantID:   config.AppConfig.PaytmMerchantID,
			MerchantKey:  config.AppConfig.PaytmMerchantKey,
			Website:      config.AppConfig.PaytmWebsite,
			IndustryType: config.AppConfig.PaytmIndustryType,
			ChannelID:    config.AppConfig.PaytmChannelID,
			BaseURL:      config.AppConfig.PaytmBaseURL,
			CallbackURL:  config.AppConfig.PaymentCallback,
		}, logger)
	}

	// Meeting provisioning.
	meetings, err := meeting.NewGoogleMeetService(context.Background(), meeting.GoogleMeetConfig{
		ClientID:        config.AppConfig.GoogleClientID,
		ClientSecret:    config.AppConfig.GoogleClientSecret,
		RefreshToken:    config.AppConfig.GoogleRefreshToken,
		AstrologerEmail: config.AppConfig.AstrologerEmail,
		TimeZone:        config.AppConfig.TimeZone,
	}, loc, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize meeting service: %v", err)
	}

	// Notification channels. A channel with missing credentials is skipped
	// rather than failing startup.
	var channels []messaging.Channel
	if config.AppConfig.TelegramBotToken != "" {
		tg, err := messaging.NewTelegramChannel(config.AppConfig.TelegramBotToken, config.AppConfig.TelegramChatID)
		if err != nil {
			logger.Sugar().Warnf("main: telegram channel disabled: %v", err)
		} else {
			channels = append(channels, tg)
		}
	}
	if config.AppConfig.WhatsAppAPIKey != "" {
		channels = append(channels, messaging.NewWhatsAppChannel(config.AppConfig.WhatsAppAPIKey, config.AppConfig.WhatsAppPhoneID))
	}
	if config.AppConfig.GmailUser != "" {
		channels = append(channels, messaging.NewEmailChannel(config.AppConfig.GmailUser, config.AppConfig.GmailAppPassword))
	}
	notifier := messaging.NewMultiChannelDispatcher(channels, loc, config.AppConfig.SupportPhone, logger)

	// Reminder queue.
	scheduler := tasks.NewAsynqReminderScheduler(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	})
	defer scheduler.Close()

	// The lifecycle coordinator.
	bookingService := booking.NewBookingService(
		bookings,
		provider,
		meetings,
		notifier,
		scheduler,
		time.Duration(config.AppConfig.ReminderLeadMinutes)*time.Minute,
		loc,
		logger,
	)

	cron.InitReminderWorker(bookingService)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	handlerBundle := &routes.HandlerBundle{
		Booking: handlers.NewBookingHandler(bookingService, loc),
		Payment: handlers.NewPaymentHandler(bookingService, provider),
		Catalog: handlers.NewCatalogHandler(astrologers, pujas, banners, utils.GetCacheClient(), logger),
		Auth:    handlers.NewAuthHandler(admins),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
