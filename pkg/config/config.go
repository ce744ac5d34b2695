package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DBDriver        string // "postgres" or "sqlite"
	DatabaseDSN     string
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Notification fan-out (all optional)
	FirebaseCredentials string
	GoogleProjectID     string
	PubSubTopic         string
	GoogleCredentials   string
	OutboxInterval      time.Duration

	// Overdue archive sweep
	ArchiveGraceDays int
	ArchiveSweepTime string // HH:MM
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	accessExpiry := 15 * time.Minute
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	outboxInterval := 30 * time.Second
	if iv := os.Getenv("OUTBOX_INTERVAL"); iv != "" {
		if parsed, err := time.ParseDuration(iv); err == nil {
			outboxInterval = parsed
		}
	}

	graceDays := 1
	if g := os.Getenv("ARCHIVE_GRACE_DAYS"); g != "" {
		if parsed, err := strconv.Atoi(g); err == nil && parsed >= 0 {
			graceDays = parsed
		}
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		DBDriver:            getEnv("DB_DRIVER", "postgres"),
		DatabaseDSN:         getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=mutualtasks port=5432 sslmode=disable"),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:     accessExpiry,
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		GoogleProjectID:     getEnv("GOOGLE_PROJECT_ID", ""),
		PubSubTopic:         getEnv("PUBSUB_TOPIC", ""),
		GoogleCredentials:   getEnv("GOOGLE_CREDENTIALS", ""),
		OutboxInterval:      outboxInterval,
		ArchiveGraceDays:    graceDays,
		ArchiveSweepTime:    getEnv("ARCHIVE_SWEEP_TIME", "03:00"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
