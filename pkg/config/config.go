package config

import (
	"errors"
	"io/fs"
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
	Timezone  string

	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Log         LogConfig
	Attendance  AttendanceConfig
	Routine     RoutineConfig
	Suggestions SuggestionConfig
	Face        FaceConfig
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
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience []string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AttendanceConfig holds the threshold tiers used by the classifier.
type AttendanceConfig struct {
	TargetPercent   float64
	CriticalPercent float64
}

// RoutineConfig shapes the smart routine working window.
type RoutineConfig struct {
	WindowStart string
	WindowEnd   string
	SlotMinutes int
	AlertLead   time.Duration
}

// SuggestionConfig configures the external text generator. Enabled is derived once
// from the presence of an API key and handed to the suggestion adapter explicitly.
type SuggestionConfig struct {
	Enabled      bool
	APIKey       string
	Model        string
	BaseURL      string
	Timeout      time.Duration
	CacheEnabled bool
	CacheTTL     time.Duration
}

// FaceConfig points at the face recognition microservice.
type FaceConfig struct {
	BaseURL        string
	Timeout        time.Duration
	MaxUploadBytes int64
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
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.Timezone = v.GetString("TIMEZONE")

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
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:   v.GetString("JWT_SECRET"),
		Issuer:   v.GetString("JWT_ISSUER"),
		Audience: splitAndTrim(v.GetString("JWT_AUDIENCE")),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Attendance = AttendanceConfig{
		TargetPercent:   v.GetFloat64("ATTENDANCE_TARGET_PERCENT"),
		CriticalPercent: v.GetFloat64("ATTENDANCE_CRITICAL_PERCENT"),
	}

	slotMinutes := v.GetInt("ROUTINE_SLOT_MINUTES")
	if slotMinutes <= 0 {
		slotMinutes = 60
	}
	cfg.Routine = RoutineConfig{
		WindowStart: v.GetString("ROUTINE_WINDOW_START"),
		WindowEnd:   v.GetString("ROUTINE_WINDOW_END"),
		SlotMinutes: slotMinutes,
		AlertLead:   parseDuration(v.GetString("ROUTINE_ALERT_LEAD"), 15*time.Minute),
	}

	apiKey := strings.TrimSpace(v.GetString("GEMINI_API_KEY"))
	cfg.Suggestions = SuggestionConfig{
		Enabled:      apiKey != "",
		APIKey:       apiKey,
		Model:        v.GetString("GEMINI_MODEL"),
		BaseURL:      v.GetString("GEMINI_BASE_URL"),
		Timeout:      parseDuration(v.GetString("GEMINI_TIMEOUT"), 20*time.Second),
		CacheEnabled: v.GetBool("ENABLE_SUGGESTION_CACHE"),
		CacheTTL:     parseDuration(v.GetString("SUGGESTION_CACHE_TTL"), 30*time.Minute),
	}

	maxUpload := v.GetInt64("FACE_MAX_UPLOAD_BYTES")
	if maxUpload <= 0 {
		maxUpload = 8 * 1024 * 1024
	}
	cfg.Face = FaceConfig{
		BaseURL:        v.GetString("FACE_SERVICE_URL"),
		Timeout:        parseDuration(v.GetString("FACE_SERVICE_TIMEOUT"), 30*time.Second),
		MaxUploadBytes: maxUpload,
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("TIMEZONE", "Local")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "smart_campus")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("JWT_AUDIENCE", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ATTENDANCE_TARGET_PERCENT", 75.0)
	v.SetDefault("ATTENDANCE_CRITICAL_PERCENT", 65.0)

	v.SetDefault("ROUTINE_WINDOW_START", "09:00")
	v.SetDefault("ROUTINE_WINDOW_END", "18:00")
	v.SetDefault("ROUTINE_SLOT_MINUTES", 60)
	v.SetDefault("ROUTINE_ALERT_LEAD", "15m")

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash-latest")
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("GEMINI_TIMEOUT", "20s")
	v.SetDefault("ENABLE_SUGGESTION_CACHE", false)
	v.SetDefault("SUGGESTION_CACHE_TTL", "30m")

	v.SetDefault("FACE_SERVICE_URL", "http://localhost:8000")
	v.SetDefault("FACE_SERVICE_TIMEOUT", "30s")
	v.SetDefault("FACE_MAX_UPLOAD_BYTES", 8*1024*1024)
}

// Location resolves the configured timezone, falling back to the host zone.
func (c *Config) Location() *time.Location {
	if c == nil || c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
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
