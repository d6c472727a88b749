// Package config loads the spt settings from defaults, an optional YAML file, a .env file
// and SPT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all the settings of the application.
type Config struct {
	OutputDir   string    `mapstructure:"output_dir"`
	Currency    string    `mapstructure:"currency"`
	PricesFile  string    `mapstructure:"prices_file"`
	PricesQuery string    `mapstructure:"prices_query"`
	Log         LogConfig `mapstructure:"log"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// EnvPrefix is the prefix of environment variables, e.g. SPT_OUTPUT_DIR.
const EnvPrefix = "SPT"

// Load reads the configuration.
//
// 'path' is an optional YAML configuration file; when empty only defaults and the
// environment are used. A .env file in the working directory, if any, is loaded in the
// environment first, without overriding variables that are already set.
func Load(path string) (Config, error) {
	// a missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("output_dir", "output")
	v.SetDefault("currency", "USD")
	v.SetDefault("prices_file", "")
	v.SetDefault("prices_query", "$.prices")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.encoding", "console")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("cannot read config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Currency = strings.ToUpper(cfg.Currency)
	return cfg, cfg.Validate()
}

// Validate checks that mandatory settings are set.
func (c Config) Validate() error {
	var errs error
	if c.OutputDir == "" {
		errs = errors.Join(errs, errors.New("output_dir cannot be empty"))
	}
	if len(c.Currency) != 3 {
		errs = errors.Join(errs, fmt.Errorf("currency %q is not a 3 letter code", c.Currency))
	}
	return errs
}
