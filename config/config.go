package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	AllowedOrigin string
	FrontendURL   string

	// Orders database
	DBUrl             string
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration

	// Persisted state medium (cart/wishlist/theme mirror)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StateTTL      time.Duration

	// Session tokens
	JWTSecret         string
	AccessTokenExpiry time.Duration

	// Identity provider (Firebase)
	FirebaseCredentialsFile string
	FirebaseAPIKey          string
	FirebaseSignInURL       string // overridable so tests can point at a local server

	// Catalog API (external, read-only)
	CatalogBaseURL   string
	CatalogTimeout   time.Duration
	CacheProductTTL  time.Duration
	CacheCategoryTTL time.Duration

	// Payment gateway
	FlwSecretKey  string
	FlwPublicKey  string
	FlwBaseURL    string
	Currency      string
	VerifyTimeout time.Duration

	// Business Rules
	MaxCartQuantity int
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: Try loading .env (standard local dev)
		// In docker/prod envs .env might not exist and we rely on system env vars.
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:3000"),

		DBUrl:             getEnv("DB_DSN", ""),
		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 50),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 10),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		StateTTL:      getDurationEnv("STATE_TTL", 0), // 0 = keep forever

		JWTSecret:         getEnv("JWT_SECRET", "default_secret_CHANGE_ME"),
		AccessTokenExpiry: getDurationEnv("ACCESS_TOKEN_EXPIRY", time.Hour*24),

		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		FirebaseAPIKey:          getEnv("FIREBASE_API_KEY", ""),
		FirebaseSignInURL:       getEnv("FIREBASE_SIGNIN_URL", "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"),

		CatalogBaseURL:   getEnv("CATALOG_BASE_URL", ""),
		CatalogTimeout:   getDurationEnv("CATALOG_TIMEOUT", 10*time.Second),
		CacheProductTTL:  getDurationEnv("CACHE_PRODUCT_TTL", 10*time.Minute),
		CacheCategoryTTL: getDurationEnv("CACHE_CATEGORY_TTL", 30*time.Minute),

		FlwSecretKey:  getEnv("FLW_SECRET_KEY", ""),
		FlwPublicKey:  getEnv("FLW_PUBLIC_KEY", ""),
		FlwBaseURL:    getEnv("FLW_BASE_URL", "https://api.flutterwave.com"),
		Currency:      getEnv("CURRENCY", "USD"),
		VerifyTimeout: getDurationEnv("VERIFY_TIMEOUT", 15*time.Second),

		MaxCartQuantity: getIntEnv("MAX_CART_QUANTITY", 1000),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.DBUrl == "" {
		log.Fatal("CRITICAL: DB_DSN environment variable is required")
	}
	if c.CatalogBaseURL == "" {
		log.Fatal("CRITICAL: CATALOG_BASE_URL is required")
	}
	if c.JWTSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default JWT secret. Setting up for failure in production.")
	}
	if c.FirebaseCredentialsFile == "" {
		log.Println("WARNING: FIREBASE_CREDENTIALS_FILE not set, identity provider disabled")
	}
	if c.FlwSecretKey == "" {
		log.Println("WARNING: FLW_SECRET_KEY not set, payment verification will be unavailable")
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}

func getInt32Env(key string, fallback int32) int32 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
		log.Printf("Invalid int32 for %s, using fallback", key)
	}
	return fallback
}
