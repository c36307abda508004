package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Firecrawl  FirecrawlConfig  `yaml:"firecrawl" mapstructure:"firecrawl"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Apollo     ApolloConfig     `yaml:"apollo" mapstructure:"apollo"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Email      EmailConfig      `yaml:"email" mapstructure:"email"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// FirecrawlConfig holds Firecrawl API settings.
type FirecrawlConfig struct {
	Key             string `yaml:"key" mapstructure:"key"`
	BaseURL         string `yaml:"base_url" mapstructure:"base_url"`
	MaxDepth        int    `yaml:"max_depth" mapstructure:"max_depth"`
	MaxPages        int    `yaml:"max_pages" mapstructure:"max_pages"`
	PollTimeoutSecs int    `yaml:"poll_timeout_secs" mapstructure:"poll_timeout_secs"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ApolloConfig holds settings for the firmographic and person-search API.
type ApolloConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// SalesforceConfig holds Salesforce JWT auth settings for lead export.
type SalesforceConfig struct {
	ClientID   string `yaml:"client_id" mapstructure:"client_id"`
	Username   string `yaml:"username" mapstructure:"username"`
	KeyPath    string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL   string `yaml:"login_url" mapstructure:"login_url"`
	LeadSource string `yaml:"lead_source" mapstructure:"lead_source"`
}

// PipelineConfig configures the lead-generation run.
type PipelineConfig struct {
	SeedURLs      []string      `yaml:"seed_urls" mapstructure:"seed_urls"`
	CompanyLimit  int           `yaml:"company_limit" mapstructure:"company_limit"`
	SearchDelay   time.Duration `yaml:"search_delay" mapstructure:"search_delay"`
	PerPage       int           `yaml:"per_page" mapstructure:"per_page"`
	ReferencePath string        `yaml:"reference_path" mapstructure:"reference_path"`
	PersonasPath  string        `yaml:"personas_path" mapstructure:"personas_path"`
	OutputDir     string        `yaml:"output_dir" mapstructure:"output_dir"`
	PushLeads     bool          `yaml:"push_leads" mapstructure:"push_leads"`
}

// EmailConfig configures outreach email rendering.
type EmailConfig struct {
	Dir          string `yaml:"dir" mapstructure:"dir"`
	TemplatePath string `yaml:"template_path" mapstructure:"template_path"`
	SenderName   string `yaml:"sender_name" mapstructure:"sender_name"`
	SenderTeam   string `yaml:"sender_team" mapstructure:"sender_team"`
}

// StoreConfig configures the run ledger database.
type StoreConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
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

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Credentials default to empty so AutomaticEnv can bind them.
	for _, key := range []string{
		"firecrawl.key",
		"anthropic.key",
		"apollo.key",
		"salesforce.client_id",
		"salesforce.username",
		"salesforce.key_path",
		"email.template_path",
	} {
		v.SetDefault(key, "")
	}

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v1")
	v.SetDefault("firecrawl.max_depth", 1)
	v.SetDefault("firecrawl.max_pages", 50)
	v.SetDefault("firecrawl.poll_timeout_secs", 300)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("apollo.base_url", "https://api.apollo.io/v1")
	v.SetDefault("apollo.timeout_secs", 15)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("salesforce.lead_source", "Trade Show")
	v.SetDefault("pipeline.seed_urls", []string{})
	v.SetDefault("pipeline.company_limit", 3)
	v.SetDefault("pipeline.search_delay", 1500*time.Millisecond)
	v.SetDefault("pipeline.per_page", 3)
	v.SetDefault("pipeline.reference_path", "data.json")
	v.SetDefault("pipeline.personas_path", "personas.json")
	v.SetDefault("pipeline.output_dir", "out")
	v.SetDefault("pipeline.push_leads", false)
	v.SetDefault("email.dir", "emails")
	v.SetDefault("email.sender_name", "Prajwal Agrawal")
	v.SetDefault("email.sender_team", "DuPont Tedlar's Graphics and Signage Team")
	v.SetDefault("store.database_url", "leadgen.db")

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

// ValidateRun checks that every credential the full pipeline needs is set.
func (c *Config) ValidateRun() error {
	var missing []string
	if c.Firecrawl.Key == "" {
		missing = append(missing, "LEADGEN_FIRECRAWL_KEY")
	}
	if c.Anthropic.Key == "" {
		missing = append(missing, "LEADGEN_ANTHROPIC_KEY")
	}
	if c.Apollo.Key == "" {
		missing = append(missing, "LEADGEN_APOLLO_KEY")
	}
	if len(c.Pipeline.SeedURLs) == 0 {
		missing = append(missing, "pipeline.seed_urls")
	}
	if len(missing) > 0 {
		return eris.Errorf("config: missing required settings: %s", strings.Join(missing, ", "))
	}
	if c.Pipeline.CompanyLimit < 0 {
		return eris.Errorf("config: pipeline.company_limit must be >= 0, got %d", c.Pipeline.CompanyLimit)
	}
	return nil
}

// ValidateSalesforce checks the settings needed for lead export.
func (c *Config) ValidateSalesforce() error {
	if c.Salesforce.ClientID == "" {
		return eris.New("config: salesforce client ID is required (LEADGEN_SALESFORCE_CLIENT_ID)")
	}
	if c.Salesforce.Username == "" {
		return eris.New("config: salesforce username is required (LEADGEN_SALESFORCE_USERNAME)")
	}
	if c.Salesforce.KeyPath == "" {
		return eris.New("config: salesforce key path is required (LEADGEN_SALESFORCE_KEY_PATH)")
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
