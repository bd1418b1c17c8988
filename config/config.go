package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	TimeZone          string `mapstructure:"TIME_ZONE"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`

	// Storage configuration. STORAGE_BACKEND selects "mongo" or "memory"
	// at process start; both back the same repository interfaces.
	StorageBackend string `mapstructure:"STORAGE_BACKEND"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DatabaseName   string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB    int    `mapstructure:"REDIS_CACHE_DB"`
	RedisReminderDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Payment provider selection: "paytm" or "stripe".
	PaymentProvider string `mapstructure:"PAYMENT_PROVIDER"`

	PaytmMerchantID   string `mapstructure:"PAYTM_MERCHANT_ID"`
	PaytmMerchantKey  string `mapstructure:"PAYTM_MERCHANT_KEY"`
	PaytmWebsite      string `mapstructure:"PAYTM_WEBSITE"`
	PaytmIndustryType string `mapstructure:"PAYTM_INDUSTRY_TYPE"`
	PaytmChannelID    string `mapstructure:"PAYTM_CHANNEL_ID"`
	PaytmBaseURL      string `mapstructure:"PAYTM_BASE_URL"`
	PaymentCallback   string `mapstructure:"PAYMENT_CALLBACK_URL"`

	StripeKey           string `mapstructure:"STRIPE_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`

	// Google Calendar (Meet provisioning).
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRefreshToken string `mapstructure:"GOOGLE_REFRESH_TOKEN"`
	AstrologerEmail    string `mapstructure:"ASTROLOGER_EMAIL"`

	// Messaging channels.
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `mapstructure:"TELEGRAM_CHAT_ID"`
	WhatsAppAPIKey   string `mapstructure:"WHATSAPP_API_KEY"`
	WhatsAppPhoneID  string `mapstructure:"WHATSAPP_PHONE_ID"`
	GmailUser        string `mapstructure:"GMAIL_USER"`
	GmailAppPassword string `mapstructure:"GMAIL_APP_PASSWORD"`
	SupportPhone     string `mapstructure:"SUPPORT_PHONE"`

	// Minutes before the consultation at which the scheduled reminder fires.
	ReminderLeadMinutes int `mapstructure:"REMINDER_LEAD_MINUTES"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("TIME_ZONE", "Asia/Kolkata")
	viper.SetDefault("STORAGE_BACKEND", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "divyajyotisha")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 3)
	viper.SetDefault("PAYMENT_PROVIDER", "paytm")
	viper.SetDefault("PAYTM_WEBSITE", "WEBSTAGING")
	viper.SetDefault("PAYTM_INDUSTRY_TYPE", "Retail")
	viper.SetDefault("PAYTM_CHANNEL_ID", "WEB")
	viper.SetDefault("PAYTM_BASE_URL", "https://securegw-stage.paytm.in")
	viper.SetDefault("REMINDER_LEAD_MINUTES", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
