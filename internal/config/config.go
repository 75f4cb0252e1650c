// Package config loads idealab settings from flags, environment and an
// optional YAML file through viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/naka-gawa/idealab/internal/domain"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. IDEALAB_GITHUB_OWNER.
const EnvPrefix = "IDEALAB"

// Config represents the full idealab configuration.
type Config struct {
	GitHub GitHubConfig `mapstructure:"github"`
	Board  BoardConfig  `mapstructure:"board"`
	Labs   LabsConfig   `mapstructure:"labs"`
	Intake IntakeConfig `mapstructure:"intake"`
	Server ServerConfig `mapstructure:"server"`
	HTTP   HTTPConfig   `mapstructure:"http"`
}

// GitHubConfig points at the repository that backs the idea board.
type GitHubConfig struct {
	Owner string `mapstructure:"owner"`
	Repo  string `mapstructure:"repo"`
	Token string `mapstructure:"token"`
	// API is "rest" or "graphql". GraphQL needs a token.
	API string `mapstructure:"api"`
}

// BoardConfig contains idea board settings.
type BoardConfig struct {
	Label    string `mapstructure:"label"`
	MaxItems int    `mapstructure:"max_items"`
}

// LabsConfig contains labs gallery settings.
type LabsConfig struct {
	// Catalog is a path or an http(s) URL to a JSON or YAML array.
	Catalog   string            `mapstructure:"catalog"`
	Molecules []domain.Molecule `mapstructure:"molecules"`
	MaxItems  int               `mapstructure:"max_items"`
	Watch     bool              `mapstructure:"watch"`
}

// IntakeConfig contains intake form settings.
type IntakeConfig struct {
	WebhookURL      string        `mapstructure:"webhook_url"`
	BoardURL        string        `mapstructure:"board_url"`
	Source          string        `mapstructure:"source"`
	MinDwell        time.Duration `mapstructure:"min_dwell"`
	SlackWebhookURL string        `mapstructure:"slack_webhook_url"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// HTTPConfig contains settings for outbound requests.
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

const (
	defaultOwner         = "elevaistrategies"
	defaultRepo          = "lab-intake"
	defaultAPI           = "rest"
	defaultLabel         = "idea"
	defaultBoardMaxItems = 60
	defaultCatalog       = "molecules.json"
	defaultBoardURL      = "/board"
	defaultSource        = "elevai-labs-submit"
	defaultMinDwell      = 1200 * time.Millisecond
	defaultAddr          = ":8080"
	defaultHTTPTimeout   = 30 * time.Second
)

// New returns a viper instance wired for idealab: env prefix, key replacer
// and the GITHUB_TOKEN fallback. If path is non-empty it is read as YAML.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("github.token", EnvPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind github token env: %w", err)
	}
	// Unmarshal only sees env values for keys viper already knows about.
	for _, key := range []string{
		"github.owner", "github.repo", "github.api",
		"board.label", "board.max_items",
		"labs.catalog", "labs.max_items", "labs.watch",
		"intake.webhook_url", "intake.board_url", "intake.source", "intake.min_dwell", "intake.slack_webhook_url",
		"server.addr", "http.timeout",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return v, nil
}

// Load unmarshals v into a Config and applies defaults.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.GitHub.Owner == "" {
		cfg.GitHub.Owner = defaultOwner
	}
	if cfg.GitHub.Repo == "" {
		cfg.GitHub.Repo = defaultRepo
	}
	if cfg.GitHub.API == "" {
		cfg.GitHub.API = defaultAPI
	}
	cfg.GitHub.API = strings.ToLower(cfg.GitHub.API)
	if cfg.Board.Label == "" {
		cfg.Board.Label = defaultLabel
	}
	if cfg.Board.MaxItems <= 0 {
		cfg.Board.MaxItems = defaultBoardMaxItems
	}
	if cfg.Labs.Catalog == "" && len(cfg.Labs.Molecules) == 0 {
		cfg.Labs.Catalog = defaultCatalog
	}
	if cfg.Intake.BoardURL == "" {
		cfg.Intake.BoardURL = defaultBoardURL
	}
	if cfg.Intake.Source == "" {
		cfg.Intake.Source = defaultSource
	}
	if cfg.Intake.MinDwell == 0 {
		cfg.Intake.MinDwell = defaultMinDwell
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	if cfg.HTTP.Timeout <= 0 {
		cfg.HTTP.Timeout = defaultHTTPTimeout
	}
}

// Validate checks settings that have no sensible default.
func (c *Config) Validate() error {
	switch c.GitHub.API {
	case "rest":
	case "graphql":
		if c.GitHub.Token == "" {
			return fmt.Errorf("github.api=graphql requires a token (GITHUB_TOKEN)")
		}
	default:
		return fmt.Errorf("unknown github.api %q: want rest or graphql", c.GitHub.API)
	}
	if c.Intake.MinDwell < 0 {
		return fmt.Errorf("intake.min_dwell must not be negative, got %s", c.Intake.MinDwell)
	}
	return nil
}
