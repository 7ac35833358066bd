package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Persistence struct {
		Driver     string
		File       string
		SQLitePath string
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
	Log struct {
		Level  string
		Format string
	}
	Gin struct {
		Mode string
	}
}

// MirrorEnabled reports whether snapshots are copied to object storage.
func (c Config) MirrorEnabled() bool {
	return strings.TrimSpace(c.Storage.Bucket) != ""
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// variables already present in the environment win over .env
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8000")
	v.SetDefault("persistence.driver", DriverJSON)
	v.SetDefault("persistence.file", "data.json")
	v.SetDefault("persistence.sqlitepath", "data/blog.db")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "blog")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("gin.mode", "release")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Persistence.Driver = strings.ToLower(strings.TrimSpace(cfg.Persistence.Driver))
	switch cfg.Persistence.Driver {
	case DriverJSON, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("unknown persistence driver %q", cfg.Persistence.Driver)
	}

	return cfg, nil
}
