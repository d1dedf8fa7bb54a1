package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all tool configuration.
type Config struct {
	Theme       string            `yaml:"theme"`
	Export      ExportConfig      `yaml:"export"`
	Connections []SavedConnection `yaml:"connections"`
}

// ExportConfig holds result export settings.
type ExportConfig struct {
	Format    string `yaml:"format"`     // "csv", "json" or "xlsx"
	SheetName string `yaml:"sheet_name"` // sheet name for xlsx output
}

// SavedConnection holds parameters for a saved database connection.
// Password may hold a sealed value (secrets armor); config itself only
// stores strings and never unseals.
type SavedConnection struct {
	Name     string `yaml:"name"`
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn,omitempty"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
	File     string `yaml:"file,omitempty"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Theme: "default",
		Export: ExportConfig{
			Format:    "csv",
			SheetName: "Results",
		},
	}
}

// ConfigDir returns the dbkit configuration directory path.
// It uses os.UserConfigDir to locate the base config directory and
// appends "dbkit" to it, typically resulting in ~/.config/dbkit/.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(base, "dbkit"), nil
}

// Load reads a Config from the YAML file at path. If the file does not exist,
// it returns DefaultConfig without error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadDefault loads configuration from the default path
// (ConfigDir()/config.yaml).
func LoadDefault() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(dir, "config.yaml"))
}

// Save writes the Config to the YAML file at path, creating any necessary
// parent directories.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SaveDefault writes the Config to the default path
// (ConfigDir()/config.yaml).
func (c *Config) SaveDefault() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return c.Save(filepath.Join(dir, "config.yaml"))
}

// Connection returns the saved connection with the given name.
func (c *Config) Connection(name string) (*SavedConnection, bool) {
	for i := range c.Connections {
		if c.Connections[i].Name == name {
			return &c.Connections[i], true
		}
	}
	return nil, false
}

// Upsert adds the connection or replaces the one with the same name.
func (c *Config) Upsert(sc SavedConnection) {
	for i := range c.Connections {
		if c.Connections[i].Name == sc.Name {
			c.Connections[i] = sc
			return
		}
	}
	c.Connections = append(c.Connections, sc)
}

// Remove deletes the named connection, reporting whether it existed.
func (c *Config) Remove(name string) bool {
	for i := range c.Connections {
		if c.Connections[i].Name == name {
			c.Connections = append(c.Connections[:i], c.Connections[i+1:]...)
			return true
		}
	}
	return false
}

// BuildDSN constructs a driver-ready connection string from the individual
// fields of a SavedConnection. If DSN is already set, it is returned as-is.
// sqlite gets the File field (":memory:" when nothing is set), mysql the
// go-sql-driver "user:pass@tcp(host:port)/db" form, everything else a URL
// with the driver name as scheme.
func (sc *SavedConnection) BuildDSN() string {
	if sc.DSN != "" {
		return sc.DSN
	}

	host := sc.Host
	if host == "" {
		host = "localhost"
	}

	switch strings.ToLower(sc.Driver) {
	case "sqlite":
		if sc.File != "" {
			return sc.File
		}
		if sc.Database != "" {
			return sc.Database
		}
		return ":memory:"

	case "mysql":
		var b strings.Builder
		if sc.User != "" {
			b.WriteString(sc.User)
			if sc.Password != "" {
				b.WriteByte(':')
				b.WriteString(sc.Password)
			}
			b.WriteByte('@')
		}
		port := sc.Port
		if port == 0 {
			port = 3306
		}
		fmt.Fprintf(&b, "tcp(%s:%d)/%s", host, port, sc.Database)
		return b.String()

	default:
		scheme := strings.ToLower(sc.Driver)
		if scheme == "" {
			scheme = "postgres"
		}
		u := &url.URL{Scheme: scheme, Host: host}
		if sc.User != "" {
			if sc.Password != "" {
				u.User = url.UserPassword(sc.User, sc.Password)
			} else {
				u.User = url.User(sc.User)
			}
		}
		if sc.Port > 0 {
			u.Host = fmt.Sprintf("%s:%d", host, sc.Port)
		}
		if sc.Database != "" {
			u.Path = "/" + sc.Database
		}
		return u.String()
	}
}

// DisplayString returns a human-readable representation of the connection,
// formatted as "driver://host:port/database" for network drivers or
// "driver://file" for file-based drivers.
func (sc *SavedConnection) DisplayString() string {
	driver := strings.ToLower(sc.Driver)
	if driver == "sqlite" {
		file := sc.File
		if file == "" {
			file = sc.DSN
		}
		return fmt.Sprintf("%s://%s", sc.Driver, file)
	}

	host := sc.Host
	if host == "" {
		host = "localhost"
	}

	var location string
	if sc.Port > 0 {
		location = fmt.Sprintf("%s:%d", host, sc.Port)
	} else {
		location = host
	}

	db := sc.Database
	if db != "" {
		return fmt.Sprintf("%s://%s/%s", sc.Driver, location, db)
	}
	return fmt.Sprintf("%s://%s", sc.Driver, location)
}
