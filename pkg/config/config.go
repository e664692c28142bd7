package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	Admin      AdminConfig
	Event      EventConfig
	Checkin    CheckinConfig
	Storage    StorageConfig
	Projection ProjectionConfig
	Exports    ExportsConfig
	Greeter    GreeterConfig
	Mirror     MirrorConfig
	Roster     RosterConfig
	CORS       CORSConfig
	Log        LogConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AdminConfig guards the admin surface: a single shared password exchanged
// for a short-lived JWT.
type AdminConfig struct {
	Password  string
	JWTSecret string
	JWTExpiry time.Duration
	Issuer    string
}

// EventConfig pins the event timezone and the public kiosk entry point.
// The offset is explicit so timestamps never inherit the host zone.
type EventConfig struct {
	UTCOffsetHours int
	KioskURL       string
}

// CheckinConfig tunes the attendance engine.
type CheckinConfig struct {
	VerificationSuffixLen int
	DefaultHighTraffic    bool
}

// StorageConfig locates the process-local files.
type StorageConfig struct {
	AttendanceLogPath string
	SessionsFilePath  string
	SettingsFilePath  string
	RosterFilePath    string
}

// ProjectionConfig tunes the live projection feed.
type ProjectionConfig struct {
	RefreshInterval time.Duration
	FeedSize        int
}

// ExportsConfig configures asynchronous log export generation.
type ExportsConfig struct {
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

// GreeterConfig points at the external welcome-message generator.
type GreeterConfig struct {
	Enabled  bool
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// MirrorConfig toggles the remote attendance mirror.
type MirrorConfig struct {
	Enabled bool
}

// RosterConfig governs roster caching.
type RosterConfig struct {
	CacheTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Admin = AdminConfig{
		Password:  v.GetString("ADMIN_PASSWORD"),
		JWTSecret: v.GetString("ADMIN_JWT_SECRET"),
		JWTExpiry: parseDuration(v.GetString("ADMIN_JWT_EXPIRY"), 12*time.Hour),
		Issuer:    v.GetString("ADMIN_JWT_ISSUER"),
	}

	cfg.Event = EventConfig{
		UTCOffsetHours: v.GetInt("EVENT_UTC_OFFSET_HOURS"),
		KioskURL:       v.GetString("KIOSK_URL"),
	}

	cfg.Checkin = CheckinConfig{
		VerificationSuffixLen: v.GetInt("CHECKIN_VERIFICATION_SUFFIX_LEN"),
		DefaultHighTraffic:    v.GetBool("CHECKIN_DEFAULT_HIGH_TRAFFIC"),
	}

	cfg.Storage = StorageConfig{
		AttendanceLogPath: v.GetString("ATTENDANCE_LOG_PATH"),
		SessionsFilePath:  v.GetString("SESSIONS_FILE_PATH"),
		SettingsFilePath:  v.GetString("SETTINGS_FILE_PATH"),
		RosterFilePath:    v.GetString("ROSTER_FILE_PATH"),
	}

	cfg.Projection = ProjectionConfig{
		RefreshInterval: parseDuration(v.GetString("PROJECTION_REFRESH_INTERVAL"), 5*time.Second),
		FeedSize:        v.GetInt("PROJECTION_FEED_SIZE"),
	}

	cfg.Exports = ExportsConfig{
		StorageDir:        v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		WorkerConcurrency: v.GetInt("EXPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("EXPORTS_WORKER_RETRIES"),
	}

	cfg.Greeter = GreeterConfig{
		Enabled:  v.GetBool("GREETER_ENABLED"),
		BaseURL:  v.GetString("GREETER_BASE_URL"),
		Timeout:  parseDuration(v.GetString("GREETER_TIMEOUT"), 8*time.Second),
		CacheTTL: parseDuration(v.GetString("GREETER_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Mirror = MirrorConfig{Enabled: v.GetBool("MIRROR_ENABLED")}

	cfg.Roster = RosterConfig{
		CacheTTL: parseDuration(v.GetString("ROSTER_CACHE_TTL"), 10*time.Minute),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "checkin_mirror")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ADMIN_PASSWORD", "admin")
	v.SetDefault("ADMIN_JWT_SECRET", "dev_admin_secret")
	v.SetDefault("ADMIN_JWT_EXPIRY", "12h")
	v.SetDefault("ADMIN_JWT_ISSUER", "checkin-api")

	v.SetDefault("EVENT_UTC_OFFSET_HOURS", 8)
	v.SetDefault("KIOSK_URL", "https://checkin.dfma.example.com")

	v.SetDefault("CHECKIN_VERIFICATION_SUFFIX_LEN", 4)
	v.SetDefault("CHECKIN_DEFAULT_HIGH_TRAFFIC", true)

	v.SetDefault("ATTENDANCE_LOG_PATH", "./data/attendance_log.csv")
	v.SetDefault("SESSIONS_FILE_PATH", "./data/sessions.json")
	v.SetDefault("SETTINGS_FILE_PATH", "./data/settings.json")
	v.SetDefault("ROSTER_FILE_PATH", "./data/roster.csv")

	v.SetDefault("PROJECTION_REFRESH_INTERVAL", "5s")
	v.SetDefault("PROJECTION_FEED_SIZE", 10)

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("EXPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("EXPORTS_WORKER_RETRIES", 3)

	v.SetDefault("GREETER_ENABLED", false)
	v.SetDefault("GREETER_BASE_URL", "http://localhost:9090")
	v.SetDefault("GREETER_TIMEOUT", "8s")
	v.SetDefault("GREETER_CACHE_TTL", "10m")

	v.SetDefault("MIRROR_ENABLED", true)
	v.SetDefault("ROSTER_CACHE_TTL", "10m")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
