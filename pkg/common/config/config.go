package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"geostore/pkg/common/logger"
)

// EnvPrefix prefixes every environment override, e.g. GEOSTORE_DATABASE_DSN.
const EnvPrefix = "GEOSTORE"

var schemaPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config represents the fixture configuration
type Config struct {
	Debug    bool           `json:"debug" mapstructure:"debug"`
	Log      logger.Config  `json:"log" mapstructure:"log"`
	Database DatabaseConfig `json:"database" mapstructure:"database"`
	Server   ServerConfig   `json:"server" mapstructure:"server"`
	Workers  int            `json:"workers" mapstructure:"workers"`
}

// DatabaseConfig describes how to reach the database under test.
type DatabaseConfig struct {
	Driver string `json:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	// DSN overrides the computed sqlite path; required for postgres.
	DSN string `json:"dsn" mapstructure:"dsn"`
	// Dir is the base directory holding the .runtime folder for sqlite.
	Dir    string `json:"dir" mapstructure:"dir"`
	Name   string `json:"name" mapstructure:"name"`
	Schema string `json:"schema" mapstructure:"schema"`
}

type ServerConfig struct {
	Addr string `json:"addr" mapstructure:"addr"`
}

var (
	appConfig *Config
	mu        sync.RWMutex
)

// Default returns the built-in configuration.
func Default() *Config {
	log := logger.DefaultConfig()
	return &Config{
		Log: *log,
		Database: DatabaseConfig{
			Driver: "sqlite",
			Dir:    ".",
			Name:   "geostore.db",
			Schema: "public",
		},
		Server:  ServerConfig{Addr: ":8080"},
		Workers: 4,
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.time_format", d.Log.TimeFormat)
	v.SetDefault("log.output", d.Log.Output)
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.dir", d.Database.Dir)
	v.SetDefault("database.name", d.Database.Name)
	v.SetDefault("database.schema", d.Database.Schema)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("workers", d.Workers)
}

// Load reads config.json from configPath (or . and ./config when empty),
// applies GEOSTORE_* environment overrides and falls back to defaults
// when no file exists.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	if configPath != "" {
		v.AddConfigPath(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mu.Lock()
	appConfig = &cfg
	mu.Unlock()
	return &cfg, nil
}

// Validate rejects configurations the fixture cannot open.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.DSN == "" && c.Database.Name == "" {
			return errors.New("config: database.name is required for sqlite")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return errors.New("config: database.dsn is required for postgres")
		}
		if !schemaPattern.MatchString(c.Database.Schema) {
			return fmt.Errorf("config: invalid database.schema %q", c.Database.Schema)
		}
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("config: workers must be positive, got %d", c.Workers)
	}
	return nil
}

// Get returns the last loaded configuration, or the defaults.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if appConfig == nil {
		return Default()
	}
	return appConfig
}
