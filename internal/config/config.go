// Package config reads the process configuration once at startup.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/ports"
	"github.com/spf13/viper"
)

const (
	KeyServerURL      = "server_url"
	KeyPassword       = "password"
	KeyPasswordRef    = "password_ref"
	KeyDataDir        = "data_dir"
	KeyPassDir        = "secrets.pass_dir"
	KeyBudgetID       = "budget_id"
	KeyLogLevel       = "log.level"
	KeyDebug          = "debug"
	KeyJournalEnabled = "journal.enabled"
	KeyJournalPath    = "journal.path"
	KeyOTelEndpoint   = "otel.endpoint"
	KeyOTelInsecure   = "otel.insecure"
	KeyManifestPath   = "manifest.path"
	KeyRequestTimeout = "request_timeout"

	appName               = "actual-mcp"
	configFileName        = "config.toml"
	defaultRequestTimeout = 30 * time.Second
)

var envBindings = map[string]string{
	KeyServerURL:      "ACTUAL_SERVER_URL",
	KeyPassword:       "ACTUAL_PASSWORD",
	KeyPasswordRef:    "ACTUAL_PASSWORD_REF",
	KeyDataDir:        "ACTUAL_DATA_DIR",
	KeyPassDir:        "ACTUAL_MCP_PASS_DIR",
	KeyBudgetID:       "ACTUAL_BUDGET_ID",
	KeyLogLevel:       "ACTUAL_MCP_LOG_LEVEL",
	KeyDebug:          "ACTUAL_MCP_DEBUG",
	KeyJournalEnabled: "ACTUAL_MCP_JOURNAL",
	KeyJournalPath:    "ACTUAL_MCP_JOURNAL_PATH",
	KeyOTelEndpoint:   "ACTUAL_MCP_OTEL_ENDPOINT",
	KeyOTelInsecure:   "ACTUAL_MCP_OTEL_INSECURE",
	KeyManifestPath:   "ACTUAL_MCP_MANIFEST",
	KeyRequestTimeout: "ACTUAL_MCP_REQUEST_TIMEOUT",
}

type Config struct {
	ServerURL   string
	Password    string
	PasswordRef string
	DataDir     string
	// PassDir overrides the pass store location; empty uses pass defaults.
	PassDir        string
	BudgetID       string
	LogLevel       string
	Debug          bool
	RequestTimeout time.Duration
	ManifestPath   string
	Journal        JournalConfig
	OTel           OTelConfig
	// File is the config file that was read, empty when none was found.
	File string
}

type JournalConfig struct {
	Enabled bool
	Path    string
}

type OTelConfig struct {
	Endpoint string
	Insecure bool
}

// NewViper returns a viper instance with defaults, environment bindings and
// the config file location applied. configFile overrides the default
// $XDG_CONFIG_HOME/actual-mcp/config.toml.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")

	if configFile = strings.TrimSpace(configFile); configFile != "" {
		v.SetConfigFile(configFile)
	} else if dir, err := os.UserConfigDir(); err == nil {
		v.SetConfigFile(filepath.Join(dir, appName, configFileName))
	}

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyJournalEnabled, false)
	v.SetDefault(KeyOTelInsecure, false)
	v.SetDefault(KeyRequestTimeout, defaultRequestTimeout)

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	return v
}

// Load reads the config file when present and resolves the password through
// the secret store when only a reference is configured. A missing server URL
// is not an error here; commands that talk to the server call Validate.
func Load(ctx context.Context, v *viper.Viper, secrets ports.SecretStore) (Config, error) {
	if v == nil {
		v = NewViper("")
	}

	var file string
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, domain.NewConfigurationError("read config file: %v", err)
		}
	} else {
		file = v.ConfigFileUsed()
	}

	cfg := Config{
		ServerURL:      strings.TrimRight(strings.TrimSpace(v.GetString(KeyServerURL)), "/"),
		Password:       v.GetString(KeyPassword),
		PasswordRef:    strings.TrimSpace(v.GetString(KeyPasswordRef)),
		DataDir:        strings.TrimSpace(v.GetString(KeyDataDir)),
		PassDir:        strings.TrimSpace(v.GetString(KeyPassDir)),
		BudgetID:       strings.TrimSpace(v.GetString(KeyBudgetID)),
		LogLevel:       strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		Debug:          v.GetBool(KeyDebug),
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
		ManifestPath:   strings.TrimSpace(v.GetString(KeyManifestPath)),
		Journal: JournalConfig{
			Enabled: v.GetBool(KeyJournalEnabled),
			Path:    strings.TrimSpace(v.GetString(KeyJournalPath)),
		},
		OTel: OTelConfig{
			Endpoint: strings.TrimSpace(v.GetString(KeyOTelEndpoint)),
			Insecure: v.GetBool(KeyOTelInsecure),
		},
		File: file,
	}

	if cfg.RequestTimeout <= 0 {
		return Config{}, domain.NewConfigurationError("request_timeout must be positive, got %s", v.GetString(KeyRequestTimeout))
	}

	if cfg.DataDir == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return Config{}, domain.NewConfigurationError("resolve default data directory: %v", err)
		}
		cfg.DataDir = filepath.Join(cacheDir, appName)
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = filepath.Join(cfg.DataDir, "journal.db")
	}

	if cfg.ServerURL != "" && cfg.PasswordRef == "" {
		cfg.PasswordRef = DefaultPasswordRef(cfg.ServerURL)
	}

	if cfg.Password == "" && cfg.PasswordRef != "" && secrets != nil {
		password, err := secrets.Get(ctx, cfg.PasswordRef)
		switch {
		case err == nil:
			cfg.Password = password
		case errors.Is(err, domain.ErrSecretNotFound):
		default:
			return Config{}, fmt.Errorf("read password %q: %w", cfg.PasswordRef, err)
		}
	}

	return cfg, nil
}

// Validate checks what is needed to reach the server.
func (c Config) Validate() error {
	if c.ServerURL == "" {
		return domain.NewConfigurationError("server_url is required")
	}

	parsed, err := url.Parse(c.ServerURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return domain.NewConfigurationError("server_url %q must be an absolute http(s) URL", c.ServerURL)
	}

	return nil
}

func (c Config) InitOptions() ports.InitOptions {
	return ports.InitOptions{
		ServerURL: c.ServerURL,
		Password:  c.Password,
		DataDir:   c.DataDir,
	}
}

// SecretsDir is the file fallback of the secret store chain.
func (c Config) SecretsDir() string {
	return filepath.Join(c.DataDir, "secrets")
}

// DefaultPasswordRef derives the secret key for a server from its host.
func DefaultPasswordRef(serverURL string) string {
	host := serverURL
	if parsed, err := url.Parse(serverURL); err == nil && parsed.Host != "" {
		host = parsed.Host
	}
	host = strings.NewReplacer(":", "_", "/", "_").Replace(host)
	return appName + "/" + host + "/password"
}
