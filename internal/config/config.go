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
	MongoURI        string
	DBName          string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Payment gateway
	GatewayProvider       string // "razorpay" or "mock"
	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string
	PaymentReturnURL      string
	PaymentCancelURL      string

	// Business policy
	MembershipPrice float64

	// Order event publishing; empty brokers disable publishing
	KafkaBrokers    []string
	OrderEventTopic string

	// Invoice mail; empty host disables mailing
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:        getEnvOrDefault("MONGO_URI", ""),
		DBName:          getEnvOrDefault("DB_NAME", "fooddel"),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:  getDurationEnv("ACCESS_TOKEN_TTL", 20, time.Minute),
		RefreshTokenTTL: getDurationEnv("REFRESH_TOKEN_TTL", 7, 24*time.Hour),

		GatewayProvider:       getEnvOrDefault("GATEWAY_PROVIDER", "razorpay"),
		RazorpayKeyID:         getEnvOrDefault("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret:     getEnvOrDefault("RAZORPAY_KEY_SECRET", ""),
		RazorpayWebhookSecret: getEnvOrDefault("RAZORPAY_WEBHOOK_SECRET", ""),
		PaymentReturnURL:      getEnvOrDefault("PAYMENT_RETURN_URL", ""),
		PaymentCancelURL:      getEnvOrDefault("PAYMENT_CANCEL_URL", ""),

		MembershipPrice: getFloatEnv("MEMBERSHIP_PRICE", 999),

		KafkaBrokers:    getListEnv("KAFKA_BROKERS"),
		OrderEventTopic: getEnvOrDefault("ORDER_EVENT_TOPIC", "order-events"),

		SMTPHost: getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort: getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser: getEnvOrDefault("SMTP_USER", ""),
		SMTPPass: getEnvOrDefault("SMTP_PASS", ""),
		MailFrom: getEnvOrDefault("MAIL_FROM", "orders@localhost"),
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

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
