package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int
	JWTSecret  string
	LogLevel   string

	// StoreBackend selects the record-store implementation:
	// "sheets", "postgres", or "memory".
	StoreBackend string

	Sheets   SheetsConfig
	Database DatabaseConfig

	// StorageBackend selects where generated reports are uploaded:
	// "gcs", "minio", or "" to disable reports.
	StorageBackend string

	GCS   GCSConfig
	Minio MinioConfig

	// MQBackend selects the event broker: "rabbitmq", "pubsub", or ""
	// to disable event publishing.
	MQBackend string

	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig

	Superadmin SuperadminConfig

	// LowStockThreshold is the quantity at or below which a low-stock
	// event is published after an adjustment.
	LowStockThreshold int
}

type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsFile string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

// SuperadminConfig describes the seeded privileged account. The seed
// command creates it in the Users table; login treats it like any
// other approved user.
type SuperadminConfig struct {
	Username string
	Password string
	FullName string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	return Config{
		ServerPort:   getEnvInt("SERVER_PORT", 8080),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		StoreBackend: getEnv("STORE_BACKEND", "sheets"),
		Sheets: SheetsConfig{
			SpreadsheetID:   getEnv("SPREADSHEET_ID", ""),
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "warungpos"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "warungpos_db"),
			UseSSL:   getEnvBool("DB_USE_SSL", false),
		},
		StorageBackend: getEnv("STORAGE_BACKEND", ""),
		GCS: GCSConfig{
			Bucket:          getEnv("GCS_BUCKET", ""),
			ProjectID:       getEnv("GCS_PROJECT_ID", ""),
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "warungpos-reports"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		MQBackend: getEnv("MQ_BACKEND", ""),
		RabbitMQ: RabbitMQConfig{
			URL:             getEnv("RABBITMQ_URL", ""),
			QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
			QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTODELETE", false),
			PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH", 0),
		},
		PubSub: PubSubConfig{
			ProjectID:          getEnv("PUBSUB_PROJECT_ID", ""),
			CredentialsFile:    getEnv("GOOGLE_CREDENTIALS_FILE", ""),
			SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
		},
		Superadmin: SuperadminConfig{
			Username: getEnv("SUPERADMIN_USERNAME", ""),
			Password: getEnv("SUPERADMIN_PASSWORD", ""),
			FullName: getEnv("SUPERADMIN_FULL_NAME", "Super Admin"),
		},
		LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		return valueStr == "1" || valueStr == "true" || valueStr == "yes"
	}
	return defaultValue
}
