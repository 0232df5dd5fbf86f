package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI           string
	DBName             string
	JWTSecret          string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	ResetTokenTTL      time.Duration
	StripeSecretKey    string
	CheckoutSuccessURL string
	CheckoutCancelURL  string
	AllowedOrigin      string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:           getEnvOrDefault("MONGO_URI", ""),
		DBName:             getEnvOrDefault("DB_NAME", "marketplace"),
		JWTSecret:          getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:     getDurationEnv("ACCESS_TOKEN_TTL", 20, time.Minute),
		RefreshTokenTTL:    getDurationEnv("REFRESH_TOKEN_TTL", 7, 24*time.Hour),
		ResetTokenTTL:      getDurationEnv("RESET_TOKEN_TTL", 15, time.Minute),
		StripeSecretKey:    getEnvOrDefault("STRIPE_SECRET_KEY", ""),
		CheckoutSuccessURL: getEnvOrDefault("CHECKOUT_SUCCESS_URL", "http://localhost:3000/checkout/success"),
		CheckoutCancelURL:  getEnvOrDefault("CHECKOUT_CANCEL_URL", "http://localhost:3000/checkout/cancel"),
		AllowedOrigin:      getEnvOrDefault("ALLOWED_ORIGIN", "http://localhost:3000"),
	}

	if AppEnv.JWTSecret == "" {
		log.Println("⚠️ JWT_SECRET is empty, issued tokens will not be secure")
	}
	if AppEnv.StripeSecretKey == "" {
		log.Println("⚠️ STRIPE_SECRET_KEY is empty, card payments are disabled")
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
