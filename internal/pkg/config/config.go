package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting. It is built once at startup and passed
// by pointer to the services that need it.
type Config struct {
	Port string

	DatabaseURL string
	SQLitePath  string

	LocalTimezone *time.Location

	CacheAPIKey           string
	CacheDefaultTTL       time.Duration
	CacheStatsConcurrency int

	APIBaseURL      string
	QueueBaseURL    string
	QueueSessionID  string
	QueueToken      string
	QueueRatePerSec float64
	QueueTimeout    time.Duration

	ReminderBatchLimit int
	ReminderDueWindow  time.Duration
	ReminderCronSpec   string

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string

	OpenAIAPIKey string
	OpenAIModel  string

	LogLevel string

	// Warnings lists settings that were invalid and replaced by a fallback.
	// They are logged once the logger exists.
	Warnings []string
}

var defaults = map[string]any{
	"PORT":                    "8080",
	"SQLITE_PATH":             "remindbridge.db",
	"LOCAL_TIMEZONE":          "Local",
	"CACHE_DEFAULT_TTL":       "5m",
	"CACHE_STATS_CONCURRENCY": 8,
	"QUEUE_RATE_PER_SEC":      10.0,
	"QUEUE_TIMEOUT":           "10s",
	"REMINDER_BATCH_LIMIT":    20,
	"REMINDER_DUE_WINDOW":     "15m",
	"OPENAI_MODEL":            "gpt-4o-mini",
	"LOG_LEVEL":               "info",
}

// keys without a default still need to be bound so AutomaticEnv sees them on Get.
var optionalKeys = []string{
	"DATABASE_URL",
	"CACHE_API_KEY",
	"API_BASE_URL",
	"QUEUE_BASE_URL",
	"QUEUE_SESSION_ID",
	"QUEUE_TOKEN",
	"REMINDER_CRON_SPEC",
	"TWILIO_ACCOUNT_SID",
	"TWILIO_AUTH_TOKEN",
	"TWILIO_WHATSAPP_NUMBER",
	"OPENAI_API_KEY",
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range optionalKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	timezoneName := strings.TrimSpace(v.GetString("LOCAL_TIMEZONE"))
	var warnings []string
	location, err := time.LoadLocation(timezoneName)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("invalid LOCAL_TIMEZONE %q, defaulting to system local: %v", timezoneName, err))
		location = time.Local
	}

	cfg := &Config{
		Port:                  v.GetString("PORT"),
		DatabaseURL:           strings.TrimSpace(v.GetString("DATABASE_URL")),
		SQLitePath:            v.GetString("SQLITE_PATH"),
		LocalTimezone:         location,
		CacheAPIKey:           v.GetString("CACHE_API_KEY"),
		CacheDefaultTTL:       v.GetDuration("CACHE_DEFAULT_TTL"),
		CacheStatsConcurrency: v.GetInt("CACHE_STATS_CONCURRENCY"),
		APIBaseURL:            strings.TrimRight(strings.TrimSpace(v.GetString("API_BASE_URL")), "/"),
		QueueBaseURL:          strings.TrimRight(strings.TrimSpace(v.GetString("QUEUE_BASE_URL")), "/"),
		QueueSessionID:        strings.TrimSpace(v.GetString("QUEUE_SESSION_ID")),
		QueueToken:            v.GetString("QUEUE_TOKEN"),
		QueueRatePerSec:       v.GetFloat64("QUEUE_RATE_PER_SEC"),
		QueueTimeout:          v.GetDuration("QUEUE_TIMEOUT"),
		ReminderBatchLimit:    v.GetInt("REMINDER_BATCH_LIMIT"),
		ReminderDueWindow:     v.GetDuration("REMINDER_DUE_WINDOW"),
		ReminderCronSpec:      strings.TrimSpace(v.GetString("REMINDER_CRON_SPEC")),
		TwilioAccountSID:      v.GetString("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:       v.GetString("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppNumber:  v.GetString("TWILIO_WHATSAPP_NUMBER"),
		OpenAIAPIKey:          v.GetString("OPENAI_API_KEY"),
		OpenAIModel:           v.GetString("OPENAI_MODEL"),
		LogLevel:              v.GetString("LOG_LEVEL"),
		Warnings:              warnings,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ReminderBatchLimit <= 0 {
		return fmt.Errorf("REMINDER_BATCH_LIMIT must be positive, got %d", c.ReminderBatchLimit)
	}
	if c.ReminderDueWindow <= 0 {
		return fmt.Errorf("REMINDER_DUE_WINDOW must be positive, got %s", c.ReminderDueWindow)
	}
	if c.CacheStatsConcurrency <= 0 {
		return fmt.Errorf("CACHE_STATS_CONCURRENCY must be positive, got %d", c.CacheStatsConcurrency)
	}
	if c.QueueRatePerSec <= 0 {
		return fmt.Errorf("QUEUE_RATE_PER_SEC must be positive, got %v", c.QueueRatePerSec)
	}
	return nil
}

// Default returns the configuration produced by an empty environment.
// Tests start from it and override what they need.
func Default() *Config {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	cfg, err := FromViper(v)
	if err != nil {
		panic(err)
	}
	cfg.LocalTimezone = time.UTC
	return cfg
}
