package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	AppEnv string

	DBDriver   string // postgres, mysql, sqlite, mongo
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBDSN      string // overrides the host/user/... fields when set

	MongoURI          string
	MongoDB           string
	MongoTransactions bool

	JWTKey    string
	SaltRound int

	UploadDriver   string // local, minio
	UploadDir      string
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	SendGridAPIKey  string
	EmailSender     string
	EmailSenderName string

	EnrollmentWebhookURL string
	ReconcileCron        string
	CORSOrigins          string
}

const defaultJWTKey = "defaultSecret"

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := &Config{
		Port:   getEnv("PORT", "5000"),
		AppEnv: getEnv("APP_ENV", "development"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "learnhub"),
		DBDSN:      getEnv("DB_DSN", ""),

		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:           getEnv("MONGO_DB", "learnhub"),
		MongoTransactions: getEnvBool("MONGO_TRANSACTIONS", false),

		JWTKey:    getEnv("JWT_SECRET_KEY", defaultJWTKey),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		UploadDriver:   strings.ToLower(getEnv("UPLOAD_DRIVER", "local")),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "learnhub-uploads"),
		MinIOUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", ""),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "LearnHub"),

		EnrollmentWebhookURL: getEnv("ENROLLMENT_WEBHOOK_URL", ""),
		ReconcileCron:        os.Getenv("RECONCILE_CRON"),
		CORSOrigins:          getEnv("CORS_ORIGINS", "*"),
	}
	if _, set := os.LookupEnv("RECONCILE_CRON"); !set {
		cfg.ReconcileCron = "0 3 * * *"
	}

	// Validate critical configuration
	if cfg.JWTKey == defaultJWTKey {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}

	return cfg
}

// IsProduction reports whether APP_ENV selects production logging and settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return b
}
