// Package config loads notenav settings from a YAML file, the environment
// and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/montrey/notenav/search"
)

// ErrInvalid marks configuration values that fail validation.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes environment overrides, e.g. NOTENAV_EDITOR_CMD.
const EnvPrefix = "NOTENAV"

// VaultConfig is a vault declared in the config file.
type VaultConfig struct {
	Name string `mapstructure:"name"`
	Path string `mapstructure:"path"`
}

// LookupConfig tunes query matching.
type LookupConfig struct {
	Separator   string `mapstructure:"separator"`
	TitleMarker string `mapstructure:"title_marker"`
	MaxDistance int    `mapstructure:"max_distance"`
}

// Config is the application configuration.
type Config struct {
	Vaults    []VaultConfig `mapstructure:"vaults"`
	DBPath    string        `mapstructure:"db_path"`
	EditorCmd string        `mapstructure:"editor_cmd"`
	LogFile   string        `mapstructure:"log_file"`
	LogLevel  string        `mapstructure:"log_level"`
	Lookup    LookupConfig  `mapstructure:"lookup"`
}

// Dir returns the directory holding the config file.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "notenav")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "notenav")
}

func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "notenav")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "notenav")
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "nvim"
	}

	v.SetDefault("db_path", filepath.Join(dataDir(), "notenav.db"))
	v.SetDefault("editor_cmd", editor+` "{path}"`)
	v.SetDefault("log_file", filepath.Join(dataDir(), "notenav.log"))
	v.SetDefault("log_level", "info")
	v.SetDefault("lookup.separator", ".")
	v.SetDefault("lookup.title_marker", "?")
	v.SetDefault("lookup.max_distance", search.DefaultMaxDistance)
}

// Load reads file, or config.yaml from Dir when file is empty, into a
// validated Config. A missing default file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", file)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the lookup settings and vault declarations.
func (c *Config) Validate() error {
	if c.Lookup.MaxDistance < 0 {
		return errors.WithHint(
			errors.Wrapf(ErrInvalid, "lookup.max_distance %d", c.Lookup.MaxDistance),
			"use 0 or a positive edit distance",
		)
	}
	if utf8.RuneCountInString(c.Lookup.Separator) != 1 {
		return errors.WithHint(
			errors.Wrapf(ErrInvalid, "lookup.separator %q", c.Lookup.Separator),
			"the separator must be a single character such as '.'",
		)
	}
	if utf8.RuneCountInString(c.Lookup.TitleMarker) != 1 {
		return errors.WithHint(
			errors.Wrapf(ErrInvalid, "lookup.title_marker %q", c.Lookup.TitleMarker),
			"the title marker must be a single character such as '?'",
		)
	}
	if c.Lookup.Separator == `\` {
		return errors.WithHint(
			errors.Wrapf(ErrInvalid, "lookup.separator %q", c.Lookup.Separator),
			"use '/' to follow directories or a character such as '.'",
		)
	}
	if c.Lookup.TitleMarker == c.Lookup.Separator {
		return errors.Wrapf(ErrInvalid, "lookup.title_marker equals lookup.separator %q", c.Lookup.Separator)
	}

	seen := make(map[string]bool, len(c.Vaults))
	for i, vc := range c.Vaults {
		name := strings.TrimSpace(vc.Name)
		if name == "" || strings.TrimSpace(vc.Path) == "" {
			return errors.Wrapf(ErrInvalid, "vaults[%d] needs a name and a path", i)
		}
		if seen[name] {
			return errors.WithHint(
				errors.Wrapf(ErrInvalid, "duplicate vault %q", name),
				"vault names must be unique",
			)
		}
		seen[name] = true
	}
	return nil
}
