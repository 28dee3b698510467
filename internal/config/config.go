package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Grades    GradesConfig    `yaml:"grades"`
	DBH       DBHConfig       `yaml:"dbh"`
	Advisor   AdvisorConfig   `yaml:"advisor"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
	Log       LogConfig       `yaml:"log"`
	Storage   StorageConfig   `yaml:"storage"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	Mode            string        `yaml:"mode"             env:"GIN_MODE"                env-default:"release"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_URL"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// GradesConfig selects and tunes the grade statistics resolver.
type GradesConfig struct {
	Source            string        `yaml:"source"              env:"GRADES_SOURCE"              env-default:"database"`
	Timeout           time.Duration `yaml:"timeout"             env:"GRADES_TIMEOUT"             env-default:"10s"`
	OnUpstreamFailure string        `yaml:"on_upstream_failure" env:"GRADES_ON_UPSTREAM_FAILURE"`
	SyntheticMin      int           `yaml:"synthetic_min"       env:"GRADES_SYNTHETIC_MIN"       env-default:"40"`
	SyntheticMax      int           `yaml:"synthetic_max"       env:"GRADES_SYNTHETIC_MAX"       env-default:"120"`
}

// DBHConfig points at the DBH statistics table export.
type DBHConfig struct {
	URL          string `yaml:"url"            env:"DBH_URL"            env-default:"https://dbh-data.dataporten-api.no/Tabeller/hentCSVTabellData"`
	TableID      int    `yaml:"table_id"       env:"DBH_TABLE_ID"       env-default:"308"`
	Institution  string `yaml:"institution"    env:"DBH_INSTITUTION"    env-default:"1173"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" env:"DBH_MAX_BODY_BYTES" env-default:"4194304"`
}

// AdvisorConfig holds the chat relay settings. An empty URL enables the
// built-in keyword responder.
type AdvisorConfig struct {
	URL     string        `yaml:"url"     env:"ADVISOR_URL"`
	Timeout time.Duration `yaml:"timeout" env:"ADVISOR_TIMEOUT" env-default:"45s"`
}

// CatalogConfig holds course catalog settings.
type CatalogConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl" env:"CATALOG_CACHE_TTL" env-default:"5m"`
}

// RateLimitConfig holds the per-client request budget.
type RateLimitConfig struct {
	Requests int           `yaml:"requests" env:"RATE_LIMIT_REQUESTS" env-default:"120"`
	Window   time.Duration `yaml:"window"   env:"RATE_LIMIT_WINDOW"   env-default:"1m"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedMethods string `yaml:"allowed_methods" env:"CORS_ALLOWED_METHODS" env-default:"GET,POST,OPTIONS"`
	AllowedHeaders string `yaml:"allowed_headers" env:"CORS_ALLOWED_HEADERS" env-default:"Content-Type,X-Request-ID"`
	MaxAge         int    `yaml:"max_age"         env:"CORS_MAX_AGE"         env-default:"86400"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// StorageConfig locates grade sheets and course pages in Firebase Storage
// for the importers.
type StorageConfig struct {
	Bucket          string `yaml:"bucket"           env:"FIREBASE_STORAGE_BUCKET"`
	CredentialsFile string `yaml:"credentials_file" env:"FIREBASE_CONFIG"`
	GradesFolder    string `yaml:"grades_folder"    env:"GRADES_FOLDER"    env-default:"grades/"`
	CoursesFolder   string `yaml:"courses_folder"   env:"COURSES_FOLDER"   env-default:"courses/"`
}

// Origins splits AllowedOrigins on commas.
func (c CORSConfig) Origins() []string {
	return splitList(c.AllowedOrigins)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
