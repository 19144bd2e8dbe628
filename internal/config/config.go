/**
 * @description
 * This package handles the configuration management for the service. It uses the
 * Viper library to read configuration from environment variables, providing a
 * centralized and straightforward way to manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is only meant for local demo runs; a warning is logged
// whenever the service falls back to it.
const DefaultJWTSecret = "tikkie-iran-demo-secret"

// Config holds all the configuration variables for the backend.
// These values are loaded from environment variables.
type Config struct {
	ServerPort             string  `mapstructure:"SERVER_PORT"`
	DataFile               string  `mapstructure:"DATA_FILE"`
	JWTSecret              string  `mapstructure:"JWT_SECRET"`
	TokenTTLHours          int     `mapstructure:"TOKEN_TTL_HOURS"`
	RequestExpiryDays      int     `mapstructure:"REQUEST_EXPIRY_DAYS"`
	MockPaymentDelayMs     int     `mapstructure:"MOCK_PAYMENT_DELAY_MS"`
	MockPaymentSuccessRate float64 `mapstructure:"MOCK_PAYMENT_SUCCESS_RATE"`
	MockSMSDelayMs         int     `mapstructure:"MOCK_SMS_DELAY_MS"`
	RabbitMQURL            string  `mapstructure:"RABBITMQ_URL"`
	NotificationExchange   string  `mapstructure:"NOTIFICATION_EXCHANGE"`
	RedisURL               string  `mapstructure:"REDIS_URL"`
	RedisRateLimitPrefix   string  `mapstructure:"REDIS_RATE_LIMIT_PREFIX"`
	SendCodeRateLimit      int     `mapstructure:"SEND_CODE_RATE_LIMIT_PER_MINUTE"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("DATA_FILE", "data/demo-data.json")
	viper.SetDefault("JWT_SECRET", DefaultJWTSecret)
	viper.SetDefault("TOKEN_TTL_HOURS", 720)
	viper.SetDefault("REQUEST_EXPIRY_DAYS", 7)
	viper.SetDefault("MOCK_PAYMENT_DELAY_MS", 2500)
	viper.SetDefault("MOCK_PAYMENT_SUCCESS_RATE", 0.9)
	viper.SetDefault("MOCK_SMS_DELAY_MS", 500)
	viper.SetDefault("NOTIFICATION_EXCHANGE", "tikkie.events")
	viper.SetDefault("REDIS_RATE_LIMIT_PREFIX", "tikkie:rate_limit")
	viper.SetDefault("SEND_CODE_RATE_LIMIT_PER_MINUTE", 5)

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATA_FILE")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("TOKEN_TTL_HOURS")
	_ = viper.BindEnv("REQUEST_EXPIRY_DAYS")
	_ = viper.BindEnv("MOCK_PAYMENT_DELAY_MS")
	_ = viper.BindEnv("MOCK_PAYMENT_SUCCESS_RATE")
	_ = viper.BindEnv("MOCK_SMS_DELAY_MS")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("NOTIFICATION_EXCHANGE")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_RATE_LIMIT_PREFIX")
	_ = viper.BindEnv("SEND_CODE_RATE_LIMIT_PER_MINUTE")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		// If the config file is not found, we can ignore the error.
		// For other errors, we should return them.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	// PORT (set by most PaaS runtimes) beats SERVER_PORT.
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}

	config.JWTSecret = strings.TrimSpace(config.JWTSecret)
	if config.JWTSecret == "" {
		config.JWTSecret = DefaultJWTSecret
	}
	if config.JWTSecret == DefaultJWTSecret {
		log.Printf("level=warn component=config msg=\"JWT_SECRET not set; using the built-in demo secret\"")
	}

	if config.TokenTTLHours <= 0 {
		config.TokenTTLHours = 720
	}
	if config.RequestExpiryDays <= 0 {
		config.RequestExpiryDays = 7
	}
	if config.MockPaymentDelayMs < 0 {
		config.MockPaymentDelayMs = 0
	}
	if config.MockSMSDelayMs < 0 {
		config.MockSMSDelayMs = 0
	}
	if config.MockPaymentSuccessRate < 0 {
		log.Printf("level=warn component=config msg=\"negative success rate configured; coercing to zero\" rate=%f", config.MockPaymentSuccessRate)
		config.MockPaymentSuccessRate = 0
	}
	if config.MockPaymentSuccessRate > 1 {
		log.Printf("level=warn component=config msg=\"success rate above one; capping\" rate=%f", config.MockPaymentSuccessRate)
		config.MockPaymentSuccessRate = 1
	}

	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisRateLimitPrefix = strings.TrimSpace(config.RedisRateLimitPrefix)
	if config.RedisRateLimitPrefix == "" {
		config.RedisRateLimitPrefix = "tikkie:rate_limit"
	}
	if config.SendCodeRateLimit < 0 {
		config.SendCodeRateLimit = 0
	}

	return
}
