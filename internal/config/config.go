package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Checkup  CheckupConfig
}

type ServerConfig struct {
	Port             string
	AllowedOrigins   []string
	AllowCredentials bool
}

type AuthConfig struct {
	JWTSecret      string
	JWTAccessTTL   string
	JWTRefreshTTL  string
	AllowSignup    string
	CookieSecure   string
	CookieSameSite string
	CookieDomain   string
	CookiePath     string
	AdminUsername  string
	AdminPassword  string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CheckupConfig - 관리자 페이지 성능 점검 설정
type CheckupConfig struct {
	Profile          string
	ThresholdsFile   string
	VerboseQueries   bool
	DismissTTL       string
	NonceTTL         string
	AjaxPrefix       string
	TransientBackend string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Printf("[Config] Loaded .env")
	}

	return Config{
		Server: ServerConfig{
			Port:             getenv("PORT", "8080"),
			AllowedOrigins:   splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
			AllowCredentials: getenvBool("CORS_ALLOW_CREDENTIALS", true),
		},
		Auth: AuthConfig{
			JWTSecret:      os.Getenv("JWT_SECRET"),
			JWTAccessTTL:   getenv("JWT_ACCESS_TTL", "15m"),
			JWTRefreshTTL:  getenv("JWT_REFRESH_TTL", "168h"),
			AllowSignup:    os.Getenv("ALLOW_SIGNUP"),
			CookieSecure:   os.Getenv("AUTH_COOKIE_SECURE"),
			CookieSameSite: os.Getenv("AUTH_COOKIE_SAMESITE"),
			CookieDomain:   os.Getenv("AUTH_COOKIE_DOMAIN"),
			CookiePath:     os.Getenv("AUTH_COOKIE_PATH"),
			AdminUsername:  os.Getenv("ADMIN_USERNAME"),
			AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getenvInt("REDIS_DB", 0),
		},
		Checkup: CheckupConfig{
			Profile:          getenv("CHECKUP_PROFILE", ProfileDemo),
			ThresholdsFile:   os.Getenv("CHECKUP_THRESHOLDS_FILE"),
			VerboseQueries:   getenvBool("CHECKUP_VERBOSE_QUERIES", false),
			DismissTTL:       getenv("CHECKUP_DISMISS_TTL", "24h"),
			NonceTTL:         getenv("CHECKUP_NONCE_TTL", "24h"),
			AjaxPrefix:       getenv("CHECKUP_AJAX_PREFIX", "/admin/ajax"),
			TransientBackend: getenv("TRANSIENT_BACKEND", "memory"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
		log.Printf("[Config] Invalid %s=%q, using %d", key, val, fallback)
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
		log.Printf("[Config] Invalid %s=%q, using %t", key, val, fallback)
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
