/*
Package config loads the engine configuration.

PURPOSE:
  All tunables in one place: server settings, database path, the
  upstream correction API, policy constants, and monitor/SMTP settings.
  Values come from an optional YAML file with environment overrides
  (CHRONOS_ prefix); everything has a working default.

USAGE:
  cfg, err := config.Load("")          // defaults + env only
  cfg, err := config.Load("chronos.yaml")
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PolicyConfig struct {
	AnnualAllowanceDays int     `mapstructure:"annual_allowance_days"`
	TeamSize            int     `mapstructure:"team_size"`
	MinAvailability     float64 `mapstructure:"min_availability"`
}

type MonitorConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	CheckInterval  time.Duration `mapstructure:"check_interval"`
	BreakThreshold time.Duration `mapstructure:"break_threshold"`
}

type SMTPConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Policy   PolicyConfig   `mapstructure:"policy"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
}

// Load reads configuration from the given file (optional) layered over
// defaults, with CHRONOS_* environment variables taking precedence.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("database.path", "chronos.db")
	v.SetDefault("upstream.base_url", "http://localhost:9090/api")
	v.SetDefault("upstream.timeout", 30*time.Second)
	v.SetDefault("policy.annual_allowance_days", 22)
	v.SetDefault("policy.team_size", 10)
	v.SetDefault("policy.min_availability", 0.7)
	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.check_interval", time.Minute)
	v.SetDefault("monitor.break_threshold", 45*time.Minute)
	v.SetDefault("smtp.enabled", false)
	v.SetDefault("smtp.port", 587)

	v.SetEnvPrefix("CHRONOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
