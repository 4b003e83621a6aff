package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/dealflow/internal/db"
)

const (
	configPathEnv = "DEALFLOW_CONFIG"
	dbPathEnv     = "DEALFLOW_DB"
	dbDriverEnv   = "DEALFLOW_DB_DRIVER"
	logLevelEnv   = "DEALFLOW_LOG_LEVEL"
	httpAddrEnv   = "DEALFLOW_HTTP_ADDR"

	defaultLogLevel = "warn"
	defaultHTTPAddr = "127.0.0.1:8080"
)

// Config holds the settings shared by the CLI and the HTTP server. LLM
// provider settings are read separately by llm.LoadConfig.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	HTTP     HTTPConfig     `yaml:"http"`
}

// DatabaseConfig selects the deal store. DSN is a file path for sqlite
// and a connection URL for postgres.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Dialect resolves the configured driver name.
func (d DatabaseConfig) Dialect() (db.Dialect, error) {
	return db.ParseDialect(d.Driver)
}

// Load starts from defaults, merges the YAML file named by DEALFLOW_CONFIG
// when set, then applies environment overrides.
func Load() (Config, error) {
	cfg, err := defaultConfig()
	if err != nil {
		return Config{}, err
	}

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()

	if _, err := cfg.Database.Dialect(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(dbDriverEnv); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv(dbPathEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(httpAddrEnv); v != "" {
		c.HTTP.Addr = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.Driver != "" {
		base.Database.Driver = override.Database.Driver
	}
	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}
	if override.Log.Level != "" {
		base.Log.Level = override.Log.Level
	}
	if override.HTTP.Addr != "" {
		base.HTTP.Addr = override.HTTP.Addr
	}
	return base
}

func defaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	return Config{
		Database: DatabaseConfig{
			Driver: string(db.DialectSQLite),
			DSN:    filepath.Join(home, ".dealflow", "dealflow.db"),
		},
		Log:  LogConfig{Level: defaultLogLevel},
		HTTP: HTTPConfig{Addr: defaultHTTPAddr},
	}, nil
}
