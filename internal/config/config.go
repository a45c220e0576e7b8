package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port         string
	AllowOrigins string

	DBDSN string

	JWTSecret string

	GeminiKey   string
	GeminiModel string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripePriceSilver   string
	StripePriceGold     string
	CheckoutSuccessURL  string
	CheckoutCancelURL   string
	PortalReturnURL     string

	MaxUploadMB int64
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func Load() *Config {
	return &Config{
		Port:         getenv("PORT", "8080"),
		AllowOrigins: getenv("ALLOW_ORIGINS", "http://localhost:5173"),

		DBDSN: getenv("DB_DSN", ""),

		JWTSecret: getenv("JWT_SECRET", ""),

		GeminiKey:   getenv("GEMINI_API_KEY", ""),
		GeminiModel: getenv("GEMINI_MODEL", "gemini-1.5-flash"),

		StripeSecretKey:     getenv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getenv("STRIPE_WEBHOOK_SECRET", ""),
		StripePriceSilver:   getenv("STRIPE_PRICE_SILVER", ""),
		StripePriceGold:     getenv("STRIPE_PRICE_GOLD", ""),
		CheckoutSuccessURL:  getenv("CHECKOUT_SUCCESS_URL", "http://localhost:5173/billing/success"),
		CheckoutCancelURL:   getenv("CHECKOUT_CANCEL_URL", "http://localhost:5173/billing"),
		PortalReturnURL:     getenv("PORTAL_RETURN_URL", "http://localhost:5173/account"),

		MaxUploadMB: int64(atoi("MAX_UPLOAD_MB", 15)),
	}
}
