package warehouse

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ndolage/macroquery/internal/querysql"
)

// Config describes how to reach the warehouse. Profiles load from YAML;
// individual fields may then be overridden from the environment (see
// ApplyEnv) or from CLI flags.
type Config struct {
	// Driver is "postgres" or "sqlite".
	Driver string `yaml:"driver"`

	// Postgres fields. Service is the database (service) name.
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Service  string `yaml:"service,omitempty"`
	SSLMode  string `yaml:"sslmode,omitempty"`

	// Path is the SQLite database file (":memory:" for a throwaway).
	Path string `yaml:"path,omitempty"`
}

// Dialect resolves the config's driver to a SQL dialect.
func (c Config) Dialect() (querysql.Dialect, error) {
	return querysql.ParseDialect(c.Driver)
}

// DSN assembles the driver connection string.
func (c Config) DSN() string {
	if c.Driver == "sqlite" || c.Driver == "sqlite3" {
		return c.Path
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Service,
	}
	if c.Username != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}
	q := url.Values{}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "require"
	}
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()
	return u.String()
}

// RedactedDSN is DSN with the password elided, for error messages.
func (c Config) RedactedDSN() string {
	if c.Driver == "sqlite" || c.Driver == "sqlite3" {
		return c.Path
	}
	return fmt.Sprintf("postgres://%s@%s:%d/%s", c.Username, c.Host, c.Port, c.Service)
}

// LoadProfile reads a connection profile from a YAML file. Unknown
// fields are rejected, which catches typos like "user:" for "username:".
func LoadProfile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read profile: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays WAREHOUSE_* environment variables on the config.
// The CLI loads a .env file first, so credentials can stay out of
// profile files.
func (c *Config) ApplyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Driver, "WAREHOUSE_DRIVER")
	set(&c.Username, "WAREHOUSE_USERNAME")
	set(&c.Password, "WAREHOUSE_PASSWORD")
	set(&c.Host, "WAREHOUSE_HOST")
	set(&c.Service, "WAREHOUSE_SERVICE")
	set(&c.SSLMode, "WAREHOUSE_SSLMODE")
	set(&c.Path, "WAREHOUSE_PATH")
	if v := os.Getenv("WAREHOUSE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
}
