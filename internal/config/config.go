package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MahdiRahman4/CodeJam2025/internal/constants"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// ConfigFileEnv names an optional YAML file layered between defaults and env.
const ConfigFileEnv = "TRACKER_CONFIG"

var ErrMissingAPIKey = errors.New("RIOT_API_KEY is required")

type Config struct {
	RiotAPIKey          string        `koanf:"riot_api_key"`
	AccountBaseURL      string        `koanf:"riot_account_base_url"`
	RegionalBaseURLsRaw string        `koanf:"riot_regional_base_urls"`
	RequestBudget       int           `koanf:"riot_request_budget"`
	RateWindow          time.Duration `koanf:"riot_rate_window"`
	HTTPTimeout         time.Duration `koanf:"riot_http_timeout"`
	MinMatches          int           `koanf:"min_matches"`
	MatchCount          int           `koanf:"match_count"`
	DBPath              string        `koanf:"db_path"`
	ServerPort          string        `koanf:"server_port"`
	LogLevel            string        `koanf:"log_level"`

	// parsed from RegionalBaseURLsRaw, in failover order
	RegionalBaseURLs []string `koanf:"-"`
}

func Defaults() *Config {
	return &Config{
		AccountBaseURL:      constants.DefaultAccountBaseURL,
		RegionalBaseURLsRaw: strings.Join(constants.DefaultRegionalBaseURLs, ","),
		RequestBudget:       constants.DefaultRequestBudget,
		RateWindow:          constants.DefaultRateWindow,
		HTTPTimeout:         constants.ExternalAPITimeout,
		MinMatches:          constants.DefaultMinMatches,
		DBPath:              "tracker.db",
		ServerPort:          "8080",
		LogLevel:            "info",
	}
}

// Load layers defaults, an optional YAML file and the environment (low -> high).
// A .env file in the working directory is folded into the environment first.
// Load runs before the logger exists, so it reports nothing itself.
func Load() (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	k := koanf.New(".")

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// RIOT_API_KEY -> riot_api_key
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogLoaded records the effective configuration, minus the API key.
func LogLoaded(cfg *Config, logger zerolog.Logger) {
	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("account_base_url", cfg.AccountBaseURL).
		Strs("regional_base_urls", cfg.RegionalBaseURLs).
		Int("request_budget", cfg.RequestBudget).
		Dur("rate_window", cfg.RateWindow).
		Int("min_matches", cfg.MinMatches).
		Int("match_count", cfg.MatchCount).
		Msg("configuration loaded")
}

func (c *Config) normalize() error {
	if c.RiotAPIKey == "" {
		return ErrMissingAPIKey
	}
	if c.RequestBudget <= 0 {
		return fmt.Errorf("riot_request_budget must be positive, got %d", c.RequestBudget)
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("riot_rate_window must be positive, got %s", c.RateWindow)
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = constants.ExternalAPITimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	c.RegionalBaseURLs = splitList(c.RegionalBaseURLsRaw)
	if len(c.RegionalBaseURLs) == 0 {
		return errors.New("riot_regional_base_urls must list at least one base url")
	}

	if c.MinMatches < 1 {
		return fmt.Errorf("min_matches must be at least 1, got %d", c.MinMatches)
	}
	if c.MatchCount == 0 {
		c.MatchCount = c.MinMatches
	}
	if c.MatchCount < c.MinMatches {
		return fmt.Errorf("match_count (%d) must not be below min_matches (%d)", c.MatchCount, c.MinMatches)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimRight(strings.TrimSpace(part), "/")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

var Module = fx.Options(
	fx.Provide(Load),
	fx.Invoke(LogLoaded),
)
