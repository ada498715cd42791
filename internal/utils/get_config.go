package utils

import (
	"os"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	AppPort string `yaml:"APP_PORT"`
	LogDir  string `yaml:"LOG_DIR"`

	// Database configuration
	DBDriver   string `yaml:"DB_DRIVER"`
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBPath     string `yaml:"DB_PATH"`

	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// Image storage: "s3" or "minio"
	StorageDriver string `yaml:"STORAGE_DRIVER"`

	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	MinioEndpoint  string `yaml:"MINIO_ENDPOINT"`
	MinioAccessKey string `yaml:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `yaml:"MINIO_SECRET_KEY"`
	MinioBucket    string `yaml:"MINIO_BUCKET"`
	MinioUseSSL    bool   `yaml:"MINIO_USE_SSL"`
	MinioPublicURL string `yaml:"MINIO_PUBLIC_URL"`

	// Rate limiter storage, in-memory when empty
	RedisAddr     string `yaml:"REDIS_ADDR"`
	RedisPassword string `yaml:"REDIS_PASSWORD"`
	RateLimitMax  string `yaml:"RATE_LIMIT_MAX"`

	IngredientsFixture string `yaml:"INGREDIENTS_FIXTURE"`
}

var (
	config     Config
	configPath = "config.yaml"
	configOnce sync.Once
)

var defaults = map[string]string{
	"APP_PORT":            "8080",
	"LOG_DIR":             "./logs",
	"DB_DRIVER":           "postgres",
	"DB_PORT":             "5432",
	"DB_PATH":             "foodgram.db",
	"STORAGE_DRIVER":      "s3",
	"MINIO_BUCKET":        "recipes",
	"INGREDIENTS_FIXTURE": "data/ingredients.json",
	"RATE_LIMIT_MAX":      "20",
}

// SetConfigPath changes the YAML file read by LoadConfig. It must be called
// before the first GetConfig.
func SetConfigPath(path string) {
	configPath = path
}

func LoadConfig() {
	configOnce.Do(func() {
		file, err := os.ReadFile(configPath)
		if err != nil {
			log.Warnf("config file %s not read, using environment only: %v", configPath, err)
			return
		}

		if err := yaml.Unmarshal(file, &config); err != nil {
			log.Errorf("Error parsing YAML file: %s", err)
		}
	})
}

// GetConfig returns the environment variable named key when it is set,
// otherwise the value from config.yaml, otherwise the built-in default.
func GetConfig(key string) string {
	LoadConfig()

	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := fileValue(key); v != "" {
		return v
	}
	return defaults[key]
}

func fileValue(key string) string {
	switch key {
	case "APP_PORT":
		return config.AppPort
	case "LOG_DIR":
		return config.LogDir
	case "DB_DRIVER":
		return config.DBDriver
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "DB_PATH":
		return config.DBPath
	case "JWT_SECRET":
		return config.JWTSecret
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "STORAGE_DRIVER":
		return config.StorageDriver
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "MINIO_ENDPOINT":
		return config.MinioEndpoint
	case "MINIO_ACCESS_KEY":
		return config.MinioAccessKey
	case "MINIO_SECRET_KEY":
		return config.MinioSecretKey
	case "MINIO_BUCKET":
		return config.MinioBucket
	case "MINIO_USE_SSL":
		return getBoolString(config.MinioUseSSL)
	case "MINIO_PUBLIC_URL":
		return config.MinioPublicURL
	case "REDIS_ADDR":
		return config.RedisAddr
	case "REDIS_PASSWORD":
		return config.RedisPassword
	case "RATE_LIMIT_MAX":
		return config.RateLimitMax
	case "INGREDIENTS_FIXTURE":
		return config.IngredientsFixture
	default:
		return ""
	}
}

func getBoolString(b bool) string {
	if b {
		return "true"
	}
	return ""
}
