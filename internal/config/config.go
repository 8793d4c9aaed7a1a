package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"

	DiskLocal = "local"
	DiskS3    = "s3"
)

type Config struct {
	Env      string
	LogLevel string
	Port     string

	StoreDriver string
	MongoURI    string
	MongoDB     string

	// BaseURL prefixes every image_url; it always ends with "/".
	BaseURL        string
	UploadDir      string
	ImageDisk      string
	MaxUploadBytes int64
	S3             S3Config

	JWTSecret  string
	BcryptCost int

	CacheTTL             time.Duration
	CORSOrigins          []string
	ProtectCatalogWrites bool

	// EnvFile is the dotenv file that was loaded, empty when only the
	// process environment was used.
	EnvFile string
}

type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string
	Key      string
	Secret   string
}

// LoadConfig reads .env when it exists and then the process environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("config: load .env: %w", err)
		}
		cfg.EnvFile = ".env"
	}

	cfg.Env = getEnv("APP_ENV", "dev")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.Port = getEnv("PORT", "8080")

	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", DriverMongo))
	cfg.MongoURI = getEnv("MONGO_URI", "mongodb://127.0.0.1:27017")
	cfg.MongoDB = getEnv("MONGO_DB", "tshirt_clothing")

	cfg.BaseURL = getEnv("BASE_URL", "http://localhost:"+cfg.Port+"/")
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	cfg.UploadDir = getEnv("UPLOAD_DIR", "uploads")
	cfg.ImageDisk = strings.ToLower(getEnv("IMAGE_DISK", DiskLocal))
	cfg.S3 = S3Config{
		Bucket:   getEnv("S3_BUCKET", ""),
		Region:   getEnv("S3_REGION", "us-east-1"),
		Endpoint: getEnv("S3_ENDPOINT", ""),
		Key:      getEnv("S3_KEY", ""),
		Secret:   getEnv("S3_SECRET", ""),
	}

	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "*"))

	var err error
	if cfg.MaxUploadBytes, err = getInt64("MAX_UPLOAD_BYTES", 16<<20); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	cost, err := getInt64("BCRYPT_COST", int64(bcrypt.DefaultCost))
	if err != nil {
		return nil, err
	}
	cfg.BcryptCost = int(cost)
	if cfg.ProtectCatalogWrites, err = getBool("PROTECT_CATALOG_WRITES", false); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" && !cfg.IsProd() {
		cfg.JWTSecret = "dev-secret-change-me"
	}
	return cfg, cfg.Validate()
}

func (c *Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

// Validate reports the first setting that would keep the server from
// running correctly.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("config: MONGO_URI is required for the mongo driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.ImageDisk {
	case DiskLocal:
	case DiskS3:
		if c.S3.Bucket == "" {
			return errors.New("config: S3_BUCKET is required for the s3 image disk")
		}
	default:
		return fmt.Errorf("config: unknown IMAGE_DISK %q", c.ImageDisk)
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("config: BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("config: MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt64(key string, fallback int64) (int64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
