// Package config builds the single immutable configuration value that every
// component receives explicitly at construction time.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config captures one run's settings. It is constructed once at startup and
// never mutated afterwards.
type Config struct {
	// Remote source
	BaseURL      string        `mapstructure:"base_url"`
	DateFrom     string        `mapstructure:"date_from"`
	DateTo       string        `mapstructure:"date_to"`
	PageSize     int           `mapstructure:"page_size"`
	SpeechType   string        `mapstructure:"speech_type"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	FetchWorkers int           `mapstructure:"fetch_workers"`
	DetailRate   float64       `mapstructure:"detail_rate"` // detail fetches per second, 0 = unlimited

	// Extraction filters
	MinWords      int      `mapstructure:"min_words"`
	ExcludedRoles []string `mapstructure:"excluded_roles"`

	// Store
	DatabaseDSN string `mapstructure:"database_dsn"`

	// Local corpus
	InputDir  string `mapstructure:"input_dir"`
	OutputDir string `mapstructure:"output_dir"`
	Pattern   string `mapstructure:"pattern"`
	Recursive bool   `mapstructure:"recursive"`
}

// configKeys lists every Config field key; kept in sync with the
// mapstructure tags above.
var configKeys = []string{
	"base_url", "date_from", "date_to", "page_size", "speech_type",
	"fetch_timeout", "fetch_workers", "detail_rate",
	"min_words", "excluded_roles",
	"database_dsn",
	"input_dir", "output_dir", "pattern", "recursive",
}

// Load reads the optional config file and SPEECHES_* environment variables
// on top of the defaults and returns the resulting value.
func Load(cfgFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	v.SetEnvPrefix("SPEECHES")
	v.AutomaticEnv()
	// AutomaticEnv only consults the environment for keys viper already
	// knows about; bind every key so SPEECHES_* overrides work for the
	// ones without defaults too, the DSN above all.
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	today := time.Now()
	v.SetDefault("base_url", "https://data.riksdagen.se")
	v.SetDefault("date_from", today.AddDate(-1, 0, 0).Format("2006-01-02"))
	v.SetDefault("date_to", today.Format("2006-01-02"))
	v.SetDefault("page_size", 1000)
	v.SetDefault("speech_type", "Anförande")
	v.SetDefault("fetch_timeout", time.Minute)
	v.SetDefault("fetch_workers", 4)
	v.SetDefault("detail_rate", 2.0)
	v.SetDefault("min_words", 5)
	v.SetDefault("pattern", "*.xml")
	v.SetDefault("recursive", false)
}
