package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// InsecureDefaultJWTSecret is the development fallback signing key used when
// JWT_SECRET_KEY is unset. It is public by definition and MUST NOT be used in
// production: any party holding it can mint admin tokens.
const InsecureDefaultJWTSecret = "dev-insecure-jwt-secret-change-me"

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	// JWTSecret signs capability tokens (HMAC-SHA256). Falls back to
	// InsecureDefaultJWTSecret when JWT_SECRET_KEY is unset.
	JWTSecret           string
	AdminTokenTTL       time.Duration
	ContributorTokenTTL time.Duration

	// Static admin allow-lists, immutable after process start.
	AdminEmails    []string
	AdminPhones    []string
	DefaultCountry string

	RateLimits       map[string]RateLimit
	RateLimitBackend string // "memory" (default) or "dynamo"

	ModerationAPIKey  string // empty disables the AI stage (fail-open)
	ModerationAPIURL  string
	ModerationTimeout time.Duration

	OTPVerifyURL string
	OTPAPIKey    string

	ReviewQueueTopicARN string
	SNSRegion           string

	AllowedOrigins []string // CORS allowed origins
}

// RateLimit is one named sliding-window limiter configuration.
type RateLimit struct {
	Limit  int
	Window time.Duration
}

// Names of the protected-action limiters.
const (
	LimiterPostSubmission = "post-submission"
	LimiterOTPRequest     = "otp-request"
	LimiterDirectMessage  = "direct-message"
)

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users            string
	Vouches          string
	TrustedDevices   string
	DeviceChallenges string
	RateLimits       string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:            getEnv("DYNAMO_TABLE_USERS", "users"),
			Vouches:          getEnv("DYNAMO_TABLE_VOUCHES", "vouches"),
			TrustedDevices:   getEnv("DYNAMO_TABLE_TRUSTED_DEVICES", "trusted_devices"),
			DeviceChallenges: getEnv("DYNAMO_TABLE_DEVICE_CHALLENGES", "device_challenges"),
			RateLimits:       getEnv("DYNAMO_TABLE_RATE_LIMITS", "rate_limits"),
		},

		JWTSecret:           getEnv("JWT_SECRET_KEY", InsecureDefaultJWTSecret),
		AdminTokenTTL:       time.Duration(getEnvInt("ADMIN_TOKEN_TTL_HOURS", 24)) * time.Hour,
		ContributorTokenTTL: time.Duration(getEnvInt("CONTRIBUTOR_TOKEN_TTL_HOURS", 720)) * time.Hour,

		AdminEmails:    splitList(getEnv("ADMIN_EMAILS", "")),
		AdminPhones:    splitList(getEnv("ADMIN_PHONES", "")),
		DefaultCountry: getEnv("DEFAULT_COUNTRY", "NG"),

		RateLimits: map[string]RateLimit{
			LimiterPostSubmission: {
				Limit:  getEnvInt("RATE_LIMIT_POST_SUBMISSION", 5),
				Window: time.Duration(getEnvInt("RATE_LIMIT_POST_SUBMISSION_WINDOW_SEC", 3600)) * time.Second,
			},
			LimiterOTPRequest: {
				Limit:  getEnvInt("RATE_LIMIT_OTP_REQUEST", 3),
				Window: time.Duration(getEnvInt("RATE_LIMIT_OTP_REQUEST_WINDOW_SEC", 3600)) * time.Second,
			},
			LimiterDirectMessage: {
				Limit:  getEnvInt("RATE_LIMIT_DIRECT_MESSAGE", 50),
				Window: time.Duration(getEnvInt("RATE_LIMIT_DIRECT_MESSAGE_WINDOW_SEC", 60)) * time.Second,
			},
		},
		RateLimitBackend: getEnv("RATE_LIMIT_BACKEND", "memory"),

		ModerationAPIKey:  getEnv("MODERATION_API_KEY", ""),
		ModerationAPIURL:  getEnv("MODERATION_API_URL", "https://api.openai.com/v1/moderations"),
		ModerationTimeout: time.Duration(getEnvInt("MODERATION_TIMEOUT_MS", 5000)) * time.Millisecond,

		OTPVerifyURL: getEnv("OTP_VERIFY_URL", ""),
		OTPAPIKey:    getEnv("OTP_API_KEY", ""),

		ReviewQueueTopicARN: getEnv("REVIEW_QUEUE_TOPIC_ARN", ""),
		SNSRegion:           getEnv("SNS_REGION", "us-east-1"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
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

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
