package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SLOTTER_DB_PATH.
const EnvPrefix = "SLOTTER"

type Config struct {
	DB           DBConfig           `mapstructure:"db"`
	Log          LogConfig          `mapstructure:"log"`
	Period       string             `mapstructure:"period"`
	Registration RegistrationConfig `mapstructure:"registration"`
	Export       ExportConfig       `mapstructure:"export"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RegistrationConfig holds the flags of the registration window. They are
// checked by the command layer; planning never looks at them.
type RegistrationConfig struct {
	Open              bool `mapstructure:"open"`
	EnforcePermission bool `mapstructure:"enforce_permission"`
}

type ExportConfig struct {
	CSVBOM bool `mapstructure:"csv_bom"`
}

type MetricsConfig struct {
	// Textfile is where run metrics are written in Prometheus text format.
	// Empty disables the file.
	Textfile string `mapstructure:"textfile"`
}

// Load reads configuration from defaults, an optional YAML file and
// SLOTTER_* environment variables, in increasing priority. With an empty
// path, slotter.yaml is looked up in the working directory and in
// ~/.slotter; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db.path", defaultDBPath())
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("period", "live")
	v.SetDefault("registration.open", true)
	v.SetDefault("registration.enforce_permission", false)
	v.SetDefault("export.csv_bom", true)
	v.SetDefault("metrics.textfile", "")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("slotter")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".slotter"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DB.Path) == "" {
		return fmt.Errorf("config: db.path must not be empty")
	}
	if strings.TrimSpace(c.Period) == "" {
		return fmt.Errorf("config: period must not be empty")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".slotter", "slotter.db")
	}
	return filepath.Join(home, ".slotter", "slotter.db")
}
