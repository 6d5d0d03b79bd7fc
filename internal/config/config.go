// Package config handles evbook configuration using Viper.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/evbook/evbook/internal/apiclient"
	evberrors "github.com/evbook/evbook/internal/errors"
)

// DefaultAPIURL is the hosted reservation API.
const DefaultAPIURL = apiclient.DefaultBaseURL

// EnvPrefix is prepended to every environment override, e.g. EVBOOK_API_URL.
const EnvPrefix = "EVBOOK"

// Config holds the application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api" json:"api" yaml:"api"`
	Storage StorageConfig `mapstructure:"storage" json:"storage" yaml:"storage"`
	Log     LogConfig     `mapstructure:"log" json:"log" yaml:"log"`
	UI      UIConfig      `mapstructure:"ui" json:"ui" yaml:"ui"`
	Sandbox SandboxConfig `mapstructure:"sandbox" json:"sandbox" yaml:"sandbox"`
}

// APIConfig holds remote API settings. A zero Timeout means no client timeout.
type APIConfig struct {
	URL     string        `mapstructure:"url" json:"url" yaml:"url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout" validate:"gte=0"`
}

// StorageConfig selects where the session is persisted.
type StorageConfig struct {
	Driver string `mapstructure:"driver" json:"driver" yaml:"driver" validate:"oneof=file sqlite memory"`
	Path   string `mapstructure:"path" json:"path" yaml:"path" validate:"required_unless=Driver memory"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level" yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" json:"format" yaml:"format" validate:"oneof=json text console"`
}

// UIConfig holds timings of the interactive UI.
type UIConfig struct {
	NotificationTTL time.Duration `mapstructure:"notification_ttl" json:"notification_ttl" yaml:"notification_ttl" validate:"gt=0"`
	NavigateDelay   time.Duration `mapstructure:"navigate_delay" json:"navigate_delay" yaml:"navigate_delay" validate:"gte=0"`
}

// SandboxConfig configures the local stand-in API.
type SandboxConfig struct {
	Addr          string `mapstructure:"addr" json:"addr" yaml:"addr" validate:"required"`
	JWTSecret     string `mapstructure:"jwt_secret" json:"-" yaml:"-" validate:"required,min=16"`
	AdminEmail    string `mapstructure:"admin_email" json:"admin_email" yaml:"admin_email" validate:"required,email"`
	AdminPassword string `mapstructure:"admin_password" json:"-" yaml:"-" validate:"required,min=6"`
}

// Dir returns the per-user evbook directory (~/.evbook).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".evbook"
	}
	return filepath.Join(home, ".evbook")
}

// New returns a Viper instance with defaults and environment binding applied.
// Callers may bind flags on it before passing it to Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from file and environment into cfg.
// A missing config file is not an error.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if v == nil {
		v = New()
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(Dir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, evberrors.Wrap(evberrors.ErrCodeConfigLoad, "failed to read config file", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, evberrors.Wrap(evberrors.ErrCodeConfigLoad, "failed to decode config", err)
	}

	cfg.Storage.Path = expandHome(cfg.Storage.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration with struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return evberrors.NewConfigInvalidError(strings.ToLower(fe.Namespace()) + " failed " + fe.Tag())
		}
		return evberrors.NewConfigInvalidError(err.Error())
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	dir := Dir()

	v.SetDefault("api.url", DefaultAPIURL)
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.path", filepath.Join(dir, "session.json"))
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("ui.notification_ttl", 4*time.Second)
	v.SetDefault("ui.navigate_delay", 1500*time.Millisecond)
	v.SetDefault("sandbox.addr", "127.0.0.1:5050")
	v.SetDefault("sandbox.jwt_secret", "evbook-sandbox-secret-key")
	v.SetDefault("sandbox.admin_email", "admin@evbook.local")
	v.SetDefault("sandbox.admin_password", "Admin123")
}

func expandHome(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
