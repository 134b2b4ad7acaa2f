package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Discord      DiscordConfig
	Chain        ChainConfig
	Sources      SourcesConfig
	RateLimit    RateLimitConfig
	Verification VerificationConfig
	Scheduler    SchedulerConfig
	Security     SecurityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration. An empty URL disables Redis.
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// Enabled reports whether a Redis URL was configured
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

// JWTConfig holds JWT configuration for admin tokens
type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// DiscordConfig holds role platform credentials. Without a bot token role
// changes are only logged.
type DiscordConfig struct {
	BotToken string
}

// ChainConfig selects the single chain family a deployment verifies against
type ChainConfig struct {
	Type    string
	ChainID string
}

// SourcesConfig holds NFT indexer endpoints
type SourcesConfig struct {
	Priority        []string
	DASURL          string
	MagicEdenURL    string
	MagicEdenAPIKey string
	HTTPTimeout     time.Duration
	PageSize        int
	MaxPages        int
}

// RateLimitConfig holds per-source throttling settings
type RateLimitConfig struct {
	MaxRequestsPerSecond float64
	BatchSize            int
	CacheTTL             time.Duration
	RetryDelay           time.Duration
	MaxRetries           int
}

// VerificationConfig holds session settings
type VerificationConfig struct {
	SessionTTL    time.Duration
	CommunityName string
}

// SchedulerConfig holds periodic re-verification settings
type SchedulerConfig struct {
	Enabled             bool
	Interval            time.Duration
	MaxUsersPerCycle    int
	BatchSize           int
	UserDelay           time.Duration
	BatchDelay          time.Duration
	StaleAfter          time.Duration
	HighValueStaleAfter time.Duration
	HighValueAssetCount int
	NewAccountWindow    time.Duration
	Cooldown            time.Duration
	SessionRetention    time.Duration
	LockTTL             time.Duration
}

// SecurityConfig holds security keys
type SecurityConfig struct {
	TokenHashKey string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "nftgate"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		},
		Discord: DiscordConfig{
			BotToken: getEnv("DISCORD_BOT_TOKEN", ""),
		},
		Chain: ChainConfig{
			Type:    getEnv("CHAIN_TYPE", "SVM"),
			ChainID: getEnv("CHAIN_ID", "5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp"),
		},
		Sources: SourcesConfig{
			Priority:        getEnvAsList("SOURCES_PRIORITY", []string{"das", "magiceden"}),
			DASURL:          getEnv("SOURCES_DAS_URL", ""),
			MagicEdenURL:    getEnv("SOURCES_MAGICEDEN_URL", "https://api-mainnet.magiceden.dev"),
			MagicEdenAPIKey: getEnv("SOURCES_MAGICEDEN_API_KEY", ""),
			HTTPTimeout:     getEnvAsDuration("SOURCES_HTTP_TIMEOUT", 10*time.Second),
			PageSize:        getEnvAsInt("SOURCES_PAGE_SIZE", 100),
			MaxPages:        getEnvAsInt("SOURCES_MAX_PAGES", 10),
		},
		RateLimit: RateLimitConfig{
			MaxRequestsPerSecond: getEnvAsFloat("RATE_LIMIT_MAX_RPS", 2),
			BatchSize:            getEnvAsInt("RATE_LIMIT_BATCH_SIZE", 2),
			CacheTTL:             getEnvAsDuration("RATE_LIMIT_CACHE_TTL", 3*time.Minute),
			RetryDelay:           getEnvAsDuration("RATE_LIMIT_RETRY_DELAY", 2*time.Second),
			MaxRetries:           getEnvAsInt("RATE_LIMIT_MAX_RETRIES", 1),
		},
		Verification: VerificationConfig{
			SessionTTL:    getEnvAsDuration("VERIFICATION_SESSION_TTL", 10*time.Minute),
			CommunityName: getEnv("VERIFICATION_COMMUNITY_NAME", "NFT Gate"),
		},
		Scheduler: SchedulerConfig{
			Enabled:             getEnvAsBool("SCHEDULER_ENABLED", true),
			Interval:            getEnvAsDuration("SCHEDULER_INTERVAL", time.Hour),
			MaxUsersPerCycle:    getEnvAsInt("SCHEDULER_MAX_USERS_PER_CYCLE", 100),
			BatchSize:           getEnvAsInt("SCHEDULER_BATCH_SIZE", 10),
			UserDelay:           getEnvAsDuration("SCHEDULER_USER_DELAY", 500*time.Millisecond),
			BatchDelay:          getEnvAsDuration("SCHEDULER_BATCH_DELAY", 5*time.Second),
			StaleAfter:          getEnvAsDuration("SCHEDULER_STALE_AFTER", 24*time.Hour),
			HighValueStaleAfter: getEnvAsDuration("SCHEDULER_HIGH_VALUE_STALE_AFTER", 12*time.Hour),
			HighValueAssetCount: getEnvAsInt("SCHEDULER_HIGH_VALUE_ASSET_COUNT", 10),
			NewAccountWindow:    getEnvAsDuration("SCHEDULER_NEW_ACCOUNT_WINDOW", 7*24*time.Hour),
			Cooldown:            getEnvAsDuration("SCHEDULER_COOLDOWN", 12*time.Hour),
			SessionRetention:    getEnvAsDuration("SCHEDULER_SESSION_RETENTION", 7*24*time.Hour),
			LockTTL:             getEnvAsDuration("SCHEDULER_LOCK_TTL", 30*time.Minute),
		},
		Security: SecurityConfig{
			TokenHashKey: getEnv("SECURITY_TOKEN_HASH_KEY", "change-this-token-hash-key"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping empty entries
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
