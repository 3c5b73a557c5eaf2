package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	Environment     string

	// Bearer token that authenticates the builtin support admin. The builtin
	// admin has no user record; see entity.Actor.
	AdminAPIToken string

	StripeSecretKey    string
	StripeSuccessURL   string
	StripeCancelURL    string
	MailProviderURL    string
	MailProviderKey    string
	MailFromAddress    string
	ReminderCronSpec   string
	PendingReminderHrs int64
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		FirebaseProject:    getEnv("FIREBASE_PROJECT_ID", ""),
		Environment:        getEnv("ENVIRONMENT", "development"),
		AdminAPIToken:      getEnv("ADMIN_API_TOKEN", ""),
		StripeSecretKey:    getEnv("STRIPE_SECRET_KEY", ""),
		StripeSuccessURL:   getEnv("STRIPE_SUCCESS_URL", "http://localhost:3000/checkout/success"),
		StripeCancelURL:    getEnv("STRIPE_CANCEL_URL", "http://localhost:3000/checkout/cancel"),
		MailProviderURL:    getEnv("MAIL_PROVIDER_URL", ""),
		MailProviderKey:    getEnv("MAIL_PROVIDER_KEY", ""),
		MailFromAddress:    getEnv("MAIL_FROM_ADDRESS", "no-reply@localhost"),
		ReminderCronSpec:   getEnv("REMINDER_CRON_SPEC", "@midnight"),
		PendingReminderHrs: getEnvAsInt64("PENDING_REMINDER_HOURS", 24),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
