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
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Extract    ExtractConfig    `yaml:"extract" mapstructure:"extract"`
	Scoring    ScoringConfig    `yaml:"scoring" mapstructure:"scoring"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Import     ImportConfig     `yaml:"import" mapstructure:"import"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ExtractConfig configures the website extraction ladder.
type ExtractConfig struct {
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
	FallbackUserAgent string  `yaml:"fallback_user_agent" mapstructure:"fallback_user_agent"`
	MinBodyBytes      int     `yaml:"min_body_bytes" mapstructure:"min_body_bytes"`
	MaxBodyKB         int     `yaml:"max_body_kb" mapstructure:"max_body_kb"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// ScoringConfig configures the lead scoring rubric.
type ScoringConfig struct {
	RubricPath string `yaml:"rubric_path" mapstructure:"rubric_path"`
}

// PipelineConfig configures the enrichment pipeline.
type PipelineConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// ImportConfig configures lead ingestion sources.
type ImportConfig struct {
	FTPUser     string `yaml:"ftp_user" mapstructure:"ftp_user"`
	FTPPassword string `yaml:"ftp_password" mapstructure:"ftp_password"`
}

// NotionConfig holds Notion API credentials and the venue database ID.
type NotionConfig struct {
	Token   string `yaml:"token" mapstructure:"token"`
	VenueDB string `yaml:"venue_db" mapstructure:"venue_db"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks that the settings a command mode needs are present.
// Modes: "store" (anything that opens the datastore), "serve", "notion"
// (Notion import), "promote" (Salesforce push).
func (c *Config) Validate(mode string) error {
	var errs []string

	check := func(cond bool, msg string) {
		if cond {
			errs = append(errs, msg)
		}
	}

	switch mode {
	case "store":
		check(c.Store.Driver == "", "store.driver is required")
		if c.Store.Driver == "postgres" {
			check(c.Store.DatabaseURL == "", "store.database_url is required for postgres (VENUESCOUT_STORE_DATABASE_URL)")
		}
	case "serve":
		check(c.Server.Port <= 0, "server.port must be > 0")
		check(c.Pipeline.Concurrency < 1 || c.Pipeline.Concurrency > 50, "pipeline.concurrency must be between 1 and 50")
	case "notion":
		check(c.Notion.Token == "", "notion.token is required (VENUESCOUT_NOTION_TOKEN)")
		check(c.Notion.VenueDB == "", "notion.venue_db is required (VENUESCOUT_NOTION_VENUE_DB)")
	case "promote":
		check(c.Salesforce.ClientID == "", "salesforce.client_id is required (VENUESCOUT_SALESFORCE_CLIENT_ID)")
		check(c.Salesforce.Username == "", "salesforce.username is required (VENUESCOUT_SALESFORCE_USERNAME)")
		check(c.Salesforce.KeyPath == "", "salesforce.key_path is required (VENUESCOUT_SALESFORCE_KEY_PATH)")
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("VENUESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "venue-scout.db")
	v.SetDefault("extract.timeout_secs", 15)
	v.SetDefault("extract.min_body_bytes", 1000)
	v.SetDefault("extract.max_body_kb", 512)
	v.SetDefault("extract.requests_per_second", 4)
	v.SetDefault("pipeline.concurrency", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
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
