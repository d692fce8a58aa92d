// config/settings.go
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Algorithm is the token signing algorithm. It is not configurable.
const Algorithm = "HS256"

// Settings is the process-wide configuration. Build it once with Load and
// share the pointer; nothing mutates it after that.
type Settings struct {
	APIV1Str                 string
	SecretKey                string
	Algorithm                string
	AccessTokenExpireMinutes int
	BackendCORSOrigins       []string

	PostgresServer   string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	DatabaseURI      string

	SendgridAPIKey string
	EmailFrom      string
	EmailFromName  string

	ModelPath                 string
	ModelCacheDir             string
	ModelStoreEndpoint        string
	ModelStoreRegion          string
	ModelStoreAccessKeyID     string
	ModelStoreSecretAccessKey string

	LogLevel                 string
	Port                     string
	ProfileReconcileInterval time.Duration
}

// Source resolves one configuration key. ok is false when the source has no
// value for the key.
type Source func(key string) (value string, ok bool)

// Explicit returns a Source backed by a fixed map. Use it to pin values ahead
// of the environment.
func Explicit(values map[string]string) Source {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

// Environ returns a Source reading the process environment. Empty variables
// count as unset.
func Environ() Source {
	return func(key string) (string, bool) {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	}
}

// Load reads .env when present, then resolves settings from the environment.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}
	return LoadFrom(Environ())
}

// LoadFrom resolves settings from sources in order, falling back to the
// documented defaults. The first coercion failure is returned as *ConfigError.
func LoadFrom(sources ...Source) (*Settings, error) {
	r := resolver{sources: sources}

	s := &Settings{
		APIV1Str:  r.str("API_V1_STR", "/api"),
		SecretKey: r.str("SECRET_KEY", "your-secret-key-here"),
		Algorithm: Algorithm,

		PostgresServer:   r.str("POSTGRES_SERVER", "localhost"),
		PostgresUser:     r.str("POSTGRES_USER", "postgres"),
		PostgresPassword: r.str("POSTGRES_PASSWORD", "password"),
		PostgresDB:       r.str("POSTGRES_DB", "snake_game_analytics"),

		SendgridAPIKey: r.str("SENDGRID_API_KEY", ""),
		EmailFrom:      r.str("EMAIL_FROM", ""),
		EmailFromName:  r.str("EMAIL_FROM_NAME", ""),

		ModelPath:                 r.str("MODEL_PATH", "app/ml/models"),
		ModelCacheDir:             r.str("MODEL_CACHE_DIR", "var/models"),
		ModelStoreEndpoint:        r.str("MODEL_STORE_ENDPOINT", ""),
		ModelStoreRegion:          r.str("MODEL_STORE_REGION", "auto"),
		ModelStoreAccessKeyID:     r.str("MODEL_STORE_ACCESS_KEY_ID", ""),
		ModelStoreSecretAccessKey: r.str("MODEL_STORE_SECRET_ACCESS_KEY", ""),

		Port: r.str("PORT", "8000"),
	}

	var err error
	if s.AccessTokenExpireMinutes, err = r.integer("ACCESS_TOKEN_EXPIRE_MINUTES", 30); err != nil {
		return nil, err
	}
	if s.ProfileReconcileInterval, err = r.duration("PROFILE_RECONCILE_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}

	rawOrigins := r.str("BACKEND_CORS_ORIGINS", "")
	if s.BackendCORSOrigins, err = ParseCORSOrigins(rawOrigins); err != nil {
		return nil, &ConfigError{Key: "BACKEND_CORS_ORIGINS", Value: rawOrigins, Reason: err.Error()}
	}

	rawLevel := r.str("LOG_LEVEL", "INFO")
	if s.LogLevel, err = normalizeLogLevel(rawLevel); err != nil {
		return nil, &ConfigError{Key: "LOG_LEVEL", Value: rawLevel, Reason: err.Error()}
	}

	override := r.str("DATABASE_URI", r.str("SQLALCHEMY_DATABASE_URI", ""))
	s.DatabaseURI = AssembleDatabaseURI(override, s.PostgresUser, s.PostgresPassword, s.PostgresServer, s.PostgresDB)
	if _, err := url.Parse(s.DatabaseURI); err != nil {
		return nil, &ConfigError{Key: "DATABASE_URI", Value: s.DatabaseURI, Reason: err.Error()}
	}

	return s, nil
}

// ParseCORSOrigins accepts either a JSON list literal ("[...]") or a
// comma-separated string and returns the trimmed origins in input order.
// Every origin must be an absolute http(s) URL.
func ParseCORSOrigins(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	var origins []string
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &origins); err != nil {
			return nil, fmt.Errorf("expected a list of strings: %w", err)
		}
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	} else {
		parts := strings.Split(trimmed, ",")
		origins = make([]string, 0, len(parts))
		for _, part := range parts {
			origins = append(origins, strings.TrimSpace(part))
		}
	}

	for _, origin := range origins {
		u, err := url.Parse(origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("invalid origin %q: expected an http(s) URL", origin)
		}
	}
	return origins, nil
}

// AssembleDatabaseURI returns override verbatim when set, otherwise a
// postgresql:// URI built from the discrete fields.
func AssembleDatabaseURI(override, user, password, host, db string) string {
	if override != "" {
		return override
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(user, password),
		Host:   host,
		Path:   "/" + db,
	}
	return u.String()
}

func normalizeLogLevel(raw string) (string, error) {
	level := strings.ToUpper(strings.TrimSpace(raw))
	switch level {
	case "DEBUG", "INFO", "ERROR", "CRITICAL":
		return level, nil
	case "WARNING", "WARN":
		return "WARNING", nil
	}
	return "", fmt.Errorf("expected one of DEBUG, INFO, WARNING, ERROR, CRITICAL")
}

type resolver struct {
	sources []Source
}

func (r resolver) lookup(key string) (string, bool) {
	for _, src := range r.sources {
		if v, ok := src(key); ok {
			return v, true
		}
	}
	return "", false
}

func (r resolver) str(key, fallback string) string {
	if v, ok := r.lookup(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func (r resolver) integer(key string, fallback int) (int, error) {
	v, ok := r.lookup(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &ConfigError{Key: key, Value: v, Reason: "expected an integer"}
	}
	return n, nil
}

func (r resolver) duration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := r.lookup(key)
	if !ok {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil || d <= 0 {
		return 0, &ConfigError{Key: key, Value: v, Reason: "expected a positive duration such as 10m"}
	}
	return d, nil
}
