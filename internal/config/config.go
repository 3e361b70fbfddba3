package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	API       APIConfig       `yaml:"api" mapstructure:"api"`
	Auth      AuthConfig      `yaml:"auth" mapstructure:"auth"`
	Poll      PollConfig      `yaml:"poll" mapstructure:"poll"`
	Map       MapConfig       `yaml:"map" mapstructure:"map"`
	Effects   EffectsConfig   `yaml:"effects" mapstructure:"effects"`
	Holiday   HolidayConfig   `yaml:"holiday" mapstructure:"holiday"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Notion    NotionConfig    `yaml:"notion" mapstructure:"notion"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Geocode   GeocodeConfig   `yaml:"geocode" mapstructure:"geocode"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// APIConfig configures the WanderMage backend client.
type APIConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	Burst       int     `yaml:"burst" mapstructure:"burst"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
}

// AuthConfig holds session credentials. Token overrides the token file
// written by `wandermage login`.
type AuthConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	TokenPath string `yaml:"token_path" mapstructure:"token_path"`
}

// PollConfig configures the polling loops.
type PollConfig struct {
	DashboardSecs    int `yaml:"dashboard_secs" mapstructure:"dashboard_secs"`
	ScraperSecs      int `yaml:"scraper_secs" mapstructure:"scraper_secs"`
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	RecoverySecs     int `yaml:"recovery_secs" mapstructure:"recovery_secs"`
}

// MapConfig configures choropleth rendering and border data.
type MapConfig struct {
	Width      int     `yaml:"width" mapstructure:"width"`
	Year       int     `yaml:"year" mapstructure:"year"`
	Detail     string  `yaml:"detail" mapstructure:"detail"`
	CacheDir   string  `yaml:"cache_dir" mapstructure:"cache_dir"`
	SimplifyPx float64 `yaml:"simplify_px" mapstructure:"simplify_px"`
	Labels     bool    `yaml:"labels" mapstructure:"labels"`
}

// EffectsConfig configures seasonal effect rendering.
type EffectsConfig struct {
	Width     int `yaml:"width" mapstructure:"width"`
	Height    int `yaml:"height" mapstructure:"height"`
	Particles int `yaml:"particles" mapstructure:"particles"`
}

// HolidayConfig configures calendar rules.
type HolidayConfig struct {
	CustomPath string `yaml:"custom_path" mapstructure:"custom_path"`
}

// StoreConfig configures the offline mirror backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ExportConfig configures trip journal exports.
type ExportConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"`
}

// NotionConfig holds Notion API credentials and the trip journal database ID.
type NotionConfig struct {
	Token  string `yaml:"token" mapstructure:"token"`
	TripDB string `yaml:"trip_db" mapstructure:"trip_db"`
}

// AnthropicConfig holds Anthropic API settings for trip suggestions.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// GeocodeConfig holds Census geocoder settings.
type GeocodeConfig struct {
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Benchmark string `yaml:"benchmark" mapstructure:"benchmark"`
	CacheSize int    `yaml:"cache_size" mapstructure:"cache_size"`
}

// ServerConfig configures the local dashboard server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.wandermage")

	// Environment
	v.SetEnvPrefix("WANDERMAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("api.base_url", "http://localhost:8420")
	v.SetDefault("api.timeout_secs", 30)
	v.SetDefault("api.rate_limit", 10.0)
	v.SetDefault("api.burst", 5)
	v.SetDefault("api.max_retries", 3)
	v.SetDefault("poll.dashboard_secs", 30)
	v.SetDefault("poll.scraper_secs", 5)
	v.SetDefault("poll.failure_threshold", 3)
	v.SetDefault("poll.recovery_secs", 60)
	v.SetDefault("map.width", 960)
	v.SetDefault("map.year", 2023)
	v.SetDefault("map.detail", "20m")
	v.SetDefault("map.simplify_px", 1.5)
	v.SetDefault("map.labels", true)
	v.SetDefault("effects.width", 800)
	v.SetDefault("effects.height", 600)
	v.SetDefault("effects.particles", 24)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.format", "xlsx")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("geocode.base_url", "https://geocoding.geo.census.gov")
	v.SetDefault("geocode.benchmark", "Public_AR_Current")
	v.SetDefault("geocode.cache_size", 256)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that configuration is usable for the given mode. Modes:
// "client" (API-backed commands), "serve", "mirror", "suggest", "notion".
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.API.BaseURL == "" {
		problems = append(problems, "api.base_url is required")
	}
	if c.API.RateLimit <= 0 {
		problems = append(problems, "api.rate_limit must be > 0")
	}
	if c.Poll.DashboardSecs < 1 || c.Poll.DashboardSecs > 3600 {
		problems = append(problems, "poll.dashboard_secs must be between 1 and 3600")
	}
	if c.Poll.ScraperSecs < 1 || c.Poll.ScraperSecs > 3600 {
		problems = append(problems, "poll.scraper_secs must be between 1 and 3600")
	}

	switch mode {
	case "client":
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	case "mirror":
		switch c.Store.Driver {
		case "sqlite":
		case "postgres":
			if c.Store.DatabaseURL == "" {
				problems = append(problems, "store.database_url is required for the postgres driver")
			}
		default:
			problems = append(problems, "store.driver must be sqlite or postgres")
		}
	case "suggest":
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
	case "notion":
		if c.Notion.Token == "" {
			problems = append(problems, "notion.token is required")
		}
		if c.Notion.TripDB == "" {
			problems = append(problems, "notion.trip_db is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
