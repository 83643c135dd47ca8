package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort           string
	AppEnv            string
	AWSRegion         string
	AWSEndpointURL    string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID    string
	AWSSecretKey      string
	DynamoTables      DynamoTables
	S3BucketName      string
	ResumeURLTTL      time.Duration
	MaxUploadBytes    int64
	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
	SNSRegion         string
	SNSTopicARN       string // empty disables domain event publishing
	RedisURL          string // empty falls back to the in-memory apply limiter
	ApplyRateLimit    int
	ApplyRateWindow   time.Duration
	AdminEmail        string
	AdminPassword     string
	ReminderSchedule  string
	ReminderWindow    time.Duration
	AllowedOrigins    []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Students      string
	Recruiters    string
	Admins        string
	Internships   string
	Applications  string
	Notifications string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Students:      getEnv("DYNAMO_TABLE_STUDENTS", "students"),
			Recruiters:    getEnv("DYNAMO_TABLE_RECRUITERS", "recruiters"),
			Admins:        getEnv("DYNAMO_TABLE_ADMINS", "admins"),
			Internships:   getEnv("DYNAMO_TABLE_INTERNSHIPS", "internships"),
			Applications:  getEnv("DYNAMO_TABLE_APPLICATIONS", "applications"),
			Notifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
		},
		S3BucketName:      getEnv("S3_BUCKET_NAME", "internhub-files"),
		ResumeURLTTL:      time.Duration(getEnvInt("RESUME_URL_TTL_MINUTES", 15)) * time.Minute,
		MaxUploadBytes:    int64(getEnvInt("MAX_UPLOAD_MB", 5)) << 20,
		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,
		SNSRegion:         getEnv("SNS_REGION", "us-east-1"),
		SNSTopicARN:       getEnv("SNS_TOPIC_ARN", ""),
		RedisURL:          getEnv("REDIS_URL", ""),
		ApplyRateLimit:    getEnvInt("APPLY_RATE_LIMIT", 3),
		ApplyRateWindow:   time.Duration(getEnvInt("APPLY_RATE_WINDOW_SECONDS", 60)) * time.Second,
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		ReminderSchedule:  getEnv("REMINDER_SCHEDULE", "0 9 * * *"),
		ReminderWindow:    time.Duration(getEnvInt("REMINDER_WINDOW_HOURS", 48)) * time.Hour,
		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
