package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "FILMBLEND_CONFIG"
	platformURLEnv    = "FILMBLEND_PLATFORM_URL"
	catalogCSVEnv     = "FILMBLEND_CATALOG_CSV"
	catalogDSNEnv     = "FILMBLEND_CATALOG_DSN"
	logLevelEnv       = "FILMBLEND_LOG_LEVEL"
	defaultPlatform   = "https://letterboxd.com"
	defaultCatalogCSV = "catalog.csv"
)

// Duration wraps time.Duration so YAML values like "250ms" decode.
type Duration time.Duration

// UnmarshalYAML parses the usual Go duration syntax.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts back to the standard library type.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Platform PlatformConfig `yaml:"platform"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Blend    BlendConfig    `yaml:"blend"`
}

// LoggingConfig selects handler level and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PlatformConfig describes how to reach and pace the external platform.
type PlatformConfig struct {
	BaseURL          string   `yaml:"baseUrl"`
	RequestTimeout   Duration `yaml:"requestTimeout"`
	RetryAttempts    int      `yaml:"retryAttempts"`
	RetryDelay       Duration `yaml:"retryDelay"`
	PageDelay        Duration `yaml:"pageDelay"`
	WatchlistWorkers int      `yaml:"watchlistWorkers"`
}

// CatalogConfig points at the reference dataset. When DSN is set the
// SQLite store is used, otherwise the CSV file at CSVPath.
type CatalogConfig struct {
	CSVPath string `yaml:"csvPath"`
	DSN     string `yaml:"dsn"`
}

// BlendConfig overrides the scoring policy weights; zero values fall
// back to the compiled defaults in the usecase package.
type BlendConfig struct {
	ProportionWeight  float64 `yaml:"proportionWeight"`
	CorrelationWeight float64 `yaml:"correlationWeight"`
	OverlapWeight     float64 `yaml:"overlapWeight"`
	TopCommonCount    int     `yaml:"topCommonCount"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(platformURLEnv); v != "" {
		c.Platform.BaseURL = v
	}

	if v := os.Getenv(catalogCSVEnv); v != "" {
		c.Catalog.CSVPath = v
	}

	if v := os.Getenv(catalogDSNEnv); v != "" {
		c.Catalog.DSN = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Platform.BaseURL != "" {
		base.Platform.BaseURL = override.Platform.BaseURL
	}
	if override.Platform.RequestTimeout > 0 {
		base.Platform.RequestTimeout = override.Platform.RequestTimeout
	}
	if override.Platform.RetryAttempts > 0 {
		base.Platform.RetryAttempts = override.Platform.RetryAttempts
	}
	if override.Platform.RetryDelay > 0 {
		base.Platform.RetryDelay = override.Platform.RetryDelay
	}
	if override.Platform.PageDelay > 0 {
		base.Platform.PageDelay = override.Platform.PageDelay
	}
	if override.Platform.WatchlistWorkers > 0 {
		base.Platform.WatchlistWorkers = override.Platform.WatchlistWorkers
	}

	if override.Catalog.CSVPath != "" {
		base.Catalog.CSVPath = override.Catalog.CSVPath
	}
	if override.Catalog.DSN != "" {
		base.Catalog.DSN = override.Catalog.DSN
	}

	if override.Blend.ProportionWeight > 0 {
		base.Blend.ProportionWeight = override.Blend.ProportionWeight
	}
	if override.Blend.CorrelationWeight > 0 {
		base.Blend.CorrelationWeight = override.Blend.CorrelationWeight
	}
	if override.Blend.OverlapWeight > 0 {
		base.Blend.OverlapWeight = override.Blend.OverlapWeight
	}
	if override.Blend.TopCommonCount > 0 {
		base.Blend.TopCommonCount = override.Blend.TopCommonCount
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Platform: PlatformConfig{
			BaseURL:          defaultPlatform,
			RequestTimeout:   Duration(20 * time.Second),
			RetryAttempts:    3,
			RetryDelay:       Duration(500 * time.Millisecond),
			PageDelay:        Duration(500 * time.Millisecond),
			WatchlistWorkers: 4,
		},
		Catalog: CatalogConfig{CSVPath: defaultCatalogCSV},
		Blend:   BlendConfig{TopCommonCount: 4},
	}
}
