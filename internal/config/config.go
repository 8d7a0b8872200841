package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Polling intervals. The original client used 1 minute for token refresh and
// both 10s and 30s for the appointment list across revisions.
const (
	DefaultTokenRefreshInterval  = time.Minute
	DefaultDashboardPollInterval = 30 * time.Second
	DefaultJobTimeout            = 10 * time.Second
)

// Config holds all configuration for our application
type Config struct {
	Port        string
	Origin      string
	Environment string
	TimeZone    string
	Session     SessionConfig
	Google      GoogleOAuthConfig
	API         APIConfig
	Schedule    ScheduleConfig
	Dashboard   DashboardConfig
}

// SessionConfig holds the signed-in session settings and where records live.
type SessionConfig struct {
	Secret        string
	CookieName    string
	TTL           time.Duration
	Store         string // memory | mysql | postgres | redis
	DSN           string
	RedisAddr     string
	RedisPassword string
}

// GoogleOAuthConfig holds Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	HostedDomain string
}

// APIConfig points at the identity and appointments backends.
type APIConfig struct {
	IdentityURL string
	PsiURL      string
	Timeout     time.Duration
}

// ScheduleConfig holds the intervals for background tasks.
type ScheduleConfig struct {
	TokenRefreshInterval  time.Duration
	DashboardPollInterval time.Duration
	JobTimeout            time.Duration
}

// DashboardConfig controls which appointments the dashboard lists.
type DashboardConfig struct {
	PendingOnly bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	sessionTTL, err := getEnvDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	apiTimeout, err := getEnvDuration("API_TIMEOUT", 8*time.Second)
	if err != nil {
		return nil, err
	}
	refreshInterval, err := getEnvDuration("TOKEN_REFRESH_INTERVAL", DefaultTokenRefreshInterval)
	if err != nil {
		return nil, err
	}
	pollInterval, err := getEnvDuration("DASHBOARD_POLL_INTERVAL", DefaultDashboardPollInterval)
	if err != nil {
		return nil, err
	}
	jobTimeout, err := getEnvDuration("JOB_TIMEOUT", DefaultJobTimeout)
	if err != nil {
		return nil, err
	}
	pendingOnly, err := strconv.ParseBool(getEnv("DASHBOARD_PENDING_ONLY", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DASHBOARD_PENDING_ONLY: %w", err)
	}

	sessionConfig := SessionConfig{
		Secret:        getEnv("SESSION_SECRET", "default_session_secret"),
		CookieName:    getEnv("SESSION_COOKIE", "psicocitas_session"),
		TTL:           sessionTTL,
		Store:         getEnv("SESSION_STORE", "memory"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}
	switch sessionConfig.Store {
	case "mysql":
		// Build DSN (Data Source Name) for MySQL connection
		sessionConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			getEnv("DB_USERNAME", "root"), getEnv("DB_PASSWORD", ""),
			getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "3306"), getEnv("DB_NAME", "psicocitas"))
	case "postgres":
		sessionConfig.DSN = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "5432"),
			getEnv("DB_USERNAME", "postgres"), getEnv("DB_PASSWORD", ""), getEnv("DB_NAME", "psicocitas"))
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("invalid SESSION_STORE %q", sessionConfig.Store)
	}

	return &Config{
		Port:        getEnv("PORT", "3001"),
		Origin:      getEnv("ORIGIN", "http://localhost:3000"),
		Environment: getEnv("APP_ENV", "development"),
		TimeZone:    getEnv("APP_TIMEZONE", "America/Lima"),
		Session:     sessionConfig,
		Google: GoogleOAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			CallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "http://localhost:3001/auth/callback"),
			HostedDomain: getEnv("GOOGLE_HOSTED_DOMAIN", "continental.edu.pe"),
		},
		API: APIConfig{
			IdentityURL: getEnv("IDENTITY_API_URL", "http://localhost:5000/api"),
			PsiURL:      getEnv("PSI_API_URL", "http://localhost:5001/api"),
			Timeout:     apiTimeout,
		},
		Schedule: ScheduleConfig{
			TokenRefreshInterval:  refreshInterval,
			DashboardPollInterval: pollInterval,
			JobTimeout:            jobTimeout,
		},
		Dashboard: DashboardConfig{PendingOnly: pendingOnly},
	}, nil
}

// Location resolves the configured time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s") or a plain number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed, nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return time.Duration(seconds) * time.Second, nil
}
