package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"agenda/internal/timefmt"
)

type Config struct {
	API struct {
		BaseURL         string  `yaml:"base_url"`
		CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
		RateLimitRPS    float64 `yaml:"rate_limit_rps"`
		RateLimitBurst  int     `yaml:"rate_limit_burst"`
		TimeoutSeconds  int     `yaml:"timeout_seconds"`
	} `yaml:"api"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Session struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Token    string `yaml:"token"`
		UserID   string `yaml:"user_id"`
		UserName string `yaml:"user_name"`
	} `yaml:"session"`

	Telegram struct {
		BotToken   string `yaml:"bot_token"`
		ChatID     int64  `yaml:"chat_id"`
		ErrorsOnly bool   `yaml:"errors_only"`
	} `yaml:"telegram"`

	Dashboard struct {
		Locale                 string `yaml:"locale"`
		Timezone               string `yaml:"timezone"`
		RefreshIntervalSeconds int    `yaml:"refresh_interval_seconds"`
	} `yaml:"dashboard"`

	HTTP struct {
		Port int `yaml:"port"`
	} `yaml:"http"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:3333"
	}
	if cfg.Dashboard.Locale == "" {
		cfg.Dashboard.Locale = string(timefmt.DefaultLocale)
	}
	if cfg.Dashboard.Timezone == "" {
		cfg.Dashboard.Timezone = "America/Sao_Paulo"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	if cfg.Monitoring.PrometheusPort == 0 {
		cfg.Monitoring.PrometheusPort = 9090
	}

	return &cfg, nil
}

func (c *Config) Locale() timefmt.Locale {
	return timefmt.ParseLocale(c.Dashboard.Locale)
}

// Location resolves the dashboard timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Dashboard.Timezone)
}

func (c *Config) CacheTTL() time.Duration {
	if c.API.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.API.CacheTTLSeconds) * time.Second
}

func (c *Config) APITimeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func (c *Config) RefreshInterval() time.Duration {
	if c.Dashboard.RefreshIntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.Dashboard.RefreshIntervalSeconds) * time.Second
}

// HasCredentials reports whether main should sign in at startup.
func (c *Config) HasCredentials() bool {
	return c.Session.Email != "" && c.Session.Password != ""
}
