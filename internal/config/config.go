// Package config loads API and CLI settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then a
// .env file (which never overrides variables already set), then environment
// variables. The result is validated before use.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingAddr          = errors.New("server.addr is required")
	ErrInvalidCacheTTL      = errors.New("server.cache_ttl must be positive")
	ErrInvalidBaseURL       = errors.New("scraper.base_url must be an absolute http(s) URL")
	ErrInvalidRetriever     = errors.New("scraper retrievers must be 'http' or 'browser'")
	ErrInvalidTimeout       = errors.New("scraper timeouts must be positive")
	ErrInvalidMaxRetries    = errors.New("scraper.max_retries must be non-negative")
	ErrInvalidRecordsSource = errors.New("records.source must be 'sheets' or 'csv'")
	ErrMissingSheetID       = errors.New("records.activity_sheet_id and records.certificate_sheet_id are required")
	ErrMissingDataDir       = errors.New("records.data_dir is required for the csv source")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat     = errors.New("logging.format must be 'json' or 'console'")
)

// Records sources.
const (
	SourceSheets = "sheets"
	SourceCSV    = "csv"
)

// Config is the complete application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Scraper ScraperConfig `yaml:"scraper"`
	Records RecordsConfig `yaml:"records"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr     string        `yaml:"addr"`
	CacheTTL Duration `yaml:"cache_ttl"`
	// AllowWrites enables POST /request-pdf.
	AllowWrites bool `yaml:"allow_writes"`
}

// ScraperConfig configures page retrieval.
type ScraperConfig struct {
	BaseURL          string        `yaml:"base_url"`
	ListingRetriever string        `yaml:"listing_retriever"`
	ArticleRetriever string        `yaml:"article_retriever"`
	HTTPTimeout      Duration      `yaml:"http_timeout"`
	MaxRetries       int           `yaml:"max_retries"`
	ChromePath       string        `yaml:"chrome_path"`
	PageLoadTimeout  Duration      `yaml:"page_load_timeout"`
	SettleDelay      Duration      `yaml:"settle_delay"`
}

// RecordsConfig configures where volunteer tables are read from.
type RecordsConfig struct {
	Source             string `yaml:"source"`
	CredentialsFile    string `yaml:"credentials_file"`
	SheetName          string `yaml:"sheet_name"`
	ActivitySheetID    string `yaml:"activity_sheet_id"`
	CertificateSheetID string `yaml:"certificate_sheet_id"`
	DataDir            string `yaml:"data_dir"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:     ":8000",
			CacheTTL: Duration(30 * time.Minute),
		},
		Scraper: ScraperConfig{
			BaseURL:          "https://govolunteerhcmc.vn",
			ListingRetriever: "browser",
			ArticleRetriever: "http",
			HTTPTimeout:      Duration(15 * time.Second),
			MaxRetries:       2,
			PageLoadTimeout:  Duration(45 * time.Second),
			SettleDelay:      Duration(5 * time.Second),
		},
		Records: RecordsConfig{
			Source:             SourceSheets,
			CredentialsFile:    "credentials.json",
			SheetName:          "Sheet1",
			ActivitySheetID:    "1BCJbZqR98jjjqCJq1B2I5p_GuyGi6xwmgxKsRhvxdh0",
			CertificateSheetID: "17wUDyxg3QyaEwcVyT2bRuhvaVk5IqS40HmZMpSFYY6s",
			DataDir:            "~/.local/share/govolunteer-api",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration. path may be empty to skip the YAML file;
// envFile defaults to ".env" and is ignored when it does not exist.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from environment variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if port, ok := lookup("PORT"); ok && port != "" {
		c.Server.Addr = ":" + port
	}
	str("GV_ADDR", &c.Server.Addr)
	str("GV_BASE_URL", &c.Scraper.BaseURL)
	str("GV_LISTING_RETRIEVER", &c.Scraper.ListingRetriever)
	str("GV_ARTICLE_RETRIEVER", &c.Scraper.ArticleRetriever)
	str("GV_CHROME_PATH", &c.Scraper.ChromePath)
	str("GV_RECORDS_SOURCE", &c.Records.Source)
	str("GOOGLE_APPLICATION_CREDENTIALS", &c.Records.CredentialsFile)
	str("GV_CREDENTIALS_FILE", &c.Records.CredentialsFile)
	str("GV_SHEET_NAME", &c.Records.SheetName)
	str("GV_ACTIVITY_SHEET_ID", &c.Records.ActivitySheetID)
	str("GV_CERTIFICATE_SHEET_ID", &c.Records.CertificateSheetID)
	str("GV_DATA_DIR", &c.Records.DataDir)
	str("GV_LOG_LEVEL", &c.Logging.Level)
	str("GV_LOG_FORMAT", &c.Logging.Format)

	if v, ok := lookup("GV_CACHE_TTL"); ok && v != "" {
		ttl, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("GV_CACHE_TTL: %w", err)
		}
		c.Server.CacheTTL = Duration(ttl)
	}

	if v, ok := lookup("GV_ALLOW_WRITES"); ok && v != "" {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GV_ALLOW_WRITES: %w", err)
		}
		c.Server.AllowWrites = allow
	}

	return nil
}

// Duration is a time.Duration that reads from YAML the way GV_CACHE_TTL
// reads from the environment: plain integers are seconds.
type Duration time.Duration

// Duration returns d as a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}
	v, err := parseDuration(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

// parseDuration accepts Go durations ("30m") or plain seconds ("1800").
func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return ErrMissingAddr
	}
	if c.Server.CacheTTL <= 0 {
		return ErrInvalidCacheTTL
	}

	u, err := url.Parse(c.Scraper.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.Scraper.BaseURL)
	}
	for _, r := range []string{c.Scraper.ListingRetriever, c.Scraper.ArticleRetriever} {
		if r != "http" && r != "browser" {
			return fmt.Errorf("%w: %q", ErrInvalidRetriever, r)
		}
	}
	if c.Scraper.HTTPTimeout <= 0 || c.Scraper.PageLoadTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Scraper.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}

	switch c.Records.Source {
	case SourceSheets:
		if c.Records.ActivitySheetID == "" || c.Records.CertificateSheetID == "" {
			return ErrMissingSheetID
		}
	case SourceCSV:
		if c.Records.DataDir == "" {
			return ErrMissingDataDir
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRecordsSource, c.Records.Source)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return ErrInvalidLogLevel
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return ErrInvalidLogFormat
	}

	return nil
}
