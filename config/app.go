package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// App is the process configuration. It is built once in main and passed
// into constructors; nothing below main reads the environment.
type App struct {
	Port     string
	LogLevel string

	PostgresURI string
	RedisAddr   string
	MongoURI    string
	MongoDB     string
	// MongoForceTLS12 pins TLS 1.2 (some Atlas clusters need it).
	MongoForceTLS12  bool
	MongoInsecureTLS bool

	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration
	// SecureCookie marks the auth cookie Secure (set behind TLS).
	SecureCookie bool

	Storage Storage

	// AMQPURL enables parse requests for uploaded files; empty disables.
	AMQPURL    string
	ParseQueue string

	MaxUploadBytes int64
	CacheTTL       time.Duration
	StoreTimeout   time.Duration
}

type Storage struct {
	Driver        string // gcs|s3
	Bucket        string
	PublicBaseURL string

	GCSCredentialsFile string
	GCSSignerEmail     string
	GCSSignerKeyFile   string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Region    string
	S3UseSSL    bool
}

func Load() (*App, error) {
	cfg := &App{
		Port:     envOr("PORT", "8080"),
		LogLevel: os.Getenv("LOG_LEVEL"),

		PostgresURI: os.Getenv("POSTGRES_URI"),
		RedisAddr:   firstNonEmpty(os.Getenv("REDIS_ADDR"), os.Getenv("REDIS_URI"), os.Getenv("REDIS_URL")),
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     envOr("MONGO_DB", "talentmatch"),

		MongoForceTLS12:  envBool("MONGO_FORCE_TLS_CONFIG", false),
		MongoInsecureTLS: envBool("MONGO_INSECURE_TLS", false),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTIssuer:    envOr("JWT_ISSUER", "talentmatch"),
		SessionTTL:   envDuration("SESSION_TTL", 7*24*time.Hour),
		SecureCookie: envBool("COOKIE_SECURE", false),

		Storage: Storage{
			Driver:        strings.ToLower(envOr("STORAGE_DRIVER", "gcs")),
			Bucket:        os.Getenv("STORAGE_BUCKET"),
			PublicBaseURL: strings.TrimRight(os.Getenv("STORAGE_PUBLIC_BASE_URL"), "/"),

			GCSCredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
			GCSSignerEmail:     os.Getenv("GCS_SIGNER_EMAIL"),
			GCSSignerKeyFile:   os.Getenv("GCS_SIGNER_KEY_FILE"),

			S3Endpoint:  os.Getenv("S3_ENDPOINT"),
			S3AccessKey: os.Getenv("S3_ACCESS_KEY_ID"),
			S3SecretKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			S3Region:    envOr("S3_REGION", "auto"),
			S3UseSSL:    envBool("S3_USE_SSL", true),
		},

		AMQPURL:    os.Getenv("AMQP_URL"),
		ParseQueue: envOr("PARSE_QUEUE", "resume.parse"),

		MaxUploadBytes: int64(envInt("MAX_UPLOAD_MB", 20)) << 20,
		CacheTTL:       envDuration("CACHE_TTL", 5*time.Minute),
		StoreTimeout:   envDuration("STORE_TIMEOUT", 10*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *App) Validate() error {
	var errs []error
	if c.PostgresURI == "" {
		errs = append(errs, errors.New("POSTGRES_URI environment variable is not set"))
	}
	if c.RedisAddr == "" {
		errs = append(errs, errors.New("REDIS_ADDR (or REDIS_URI/REDIS_URL) environment variable is not set"))
	}
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI environment variable is not set"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable is not set"))
	}
	switch c.Storage.Driver {
	case "gcs", "s3":
	default:
		errs = append(errs, errors.New("STORAGE_DRIVER must be gcs or s3"))
	}
	if c.Storage.Driver == "s3" && c.Storage.S3Endpoint == "" {
		errs = append(errs, errors.New("S3_ENDPOINT is required when STORAGE_DRIVER=s3"))
	}
	if c.Storage.Bucket == "" {
		errs = append(errs, errors.New("STORAGE_BUCKET environment variable is not set"))
	}
	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func envInt(key string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil && n > 0 {
		return n
	}
	return def
}

func envBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key))); err == nil {
		return b
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key))); err == nil && d > 0 {
		return d
	}
	return def
}
