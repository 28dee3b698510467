package config

import (
	"fmt"
	"strings"
)

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range (got %d)", c.Server.Port)
	}
	switch c.Server.Mode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test (got %q)", c.Server.Mode)
	}
	if err := c.Grades.validate(); err != nil {
		return fmt.Errorf("grades: %w", err)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Grades.Source == "dbh" && c.DBH.URL == "" {
		return fmt.Errorf("dbh.url is required when grades.source is \"dbh\"")
	}
	if c.DBH.MaxBodyBytes < 0 {
		return fmt.Errorf("dbh.max_body_bytes must not be negative (got %d)", c.DBH.MaxBodyBytes)
	}
	if c.Advisor.Timeout <= 0 {
		return fmt.Errorf("advisor.timeout must be > 0 (got %s)", c.Advisor.Timeout)
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit requires requests > 0 and window > 0 (got %d per %s)", c.RateLimit.Requests, c.RateLimit.Window)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}
	return nil
}

func (g *GradesConfig) validate() error {
	switch g.Source {
	case "database", "dbh":
	default:
		return fmt.Errorf("source must be database or dbh (got %q)", g.Source)
	}
	switch g.OnUpstreamFailure {
	case "", "empty", "synthetic":
	default:
		return fmt.Errorf("on_upstream_failure must be empty or synthetic (got %q)", g.OnUpstreamFailure)
	}
	if g.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", g.Timeout)
	}
	if g.SyntheticMin <= 0 || g.SyntheticMax < g.SyntheticMin {
		return fmt.Errorf("synthetic range must satisfy 0 < min <= max (got %d..%d)", g.SyntheticMin, g.SyntheticMax)
	}
	return nil
}
