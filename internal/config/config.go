package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Veraticus/spice-ledger/internal/common"
)

// EnvPrefix prefixes every environment variable the ledger reads, so
// data.dir becomes LEDGER_DATA_DIR.
const EnvPrefix = "LEDGER"

// Viper keys.
const (
	KeyDataDir   = "data.dir"
	KeyLogLevel  = "logging.level"
	KeyLogFormat = "logging.format"
	KeyUser      = "user"
	KeyPassword  = "password"
)

// Defaults.
const (
	DefaultDataDir   = "~/.local/share/ledger"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// Config is the resolved runtime configuration.
type Config struct {
	DataDir   string
	LogLevel  string
	LogFormat string
	Username  string
	Password  string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDataDir, DefaultDataDir)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped and existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Init prepares v: defaults, environment binding and the config file. When
// cfgFile is empty, config.yaml is searched in searchPaths and a missing
// file is not an error.
func Init(v *viper.Viper, cfgFile string, searchPaths ...string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(ExpandPath(cfgFile))
	} else {
		for _, p := range searchPaths {
			v.AddConfigPath(ExpandPath(p))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// FromViper resolves the configuration from v.
func FromViper(v *viper.Viper) Config {
	return Config{
		DataDir:   ExpandPath(v.GetString(KeyDataDir)),
		LogLevel:  strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		LogFormat: strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
		Username:  strings.TrimSpace(v.GetString(KeyUser)),
		Password:  v.GetString(KeyPassword),
	}
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var errs []error

	if c.DataDir == "" {
		errs = append(errs, errors.New("data directory cannot be empty"))
	} else if !filepath.IsAbs(c.DataDir) && strings.HasPrefix(c.DataDir, "~") {
		errs = append(errs, fmt.Errorf("data directory %q could not be expanded", c.DataDir))
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level must be debug, info, warn or error, got %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be console or json, got %q", c.LogFormat))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", common.ErrInvalidConfig, errors.Join(errs...))
}
