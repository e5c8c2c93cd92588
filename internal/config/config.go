package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataPath    string `mapstructure:"data_path" yaml:"data_path" validate:"required"`
	ResultsDir  string `mapstructure:"results_dir" yaml:"results_dir" validate:"required"`
	FallbackDir string `mapstructure:"fallback_dir" yaml:"fallback_dir"`
	// Delimiter is one of "", ",", ";", "tab". Empty means detect by extension.
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter" validate:"omitempty,oneof=0x2C ; tab"`

	// Report limits
	TopChemicals    int `mapstructure:"top_chemicals" yaml:"top_chemicals" validate:"min=1"`
	TopGroups       int `mapstructure:"top_groups" yaml:"top_groups" validate:"min=1"`
	TopCompanies    int `mapstructure:"top_companies" yaml:"top_companies" validate:"min=1"`
	TrendChemicals  int `mapstructure:"trend_chemicals" yaml:"trend_chemicals" validate:"min=1,max=20"`
	TopDiscontinued int `mapstructure:"top_discontinued" yaml:"top_discontinued" validate:"min=1"`
	TopBrands       int `mapstructure:"top_brands" yaml:"top_brands" validate:"min=1"`

	// Charts, in inches
	ChartWidthIn  float64 `mapstructure:"chart_width_in" yaml:"chart_width_in" validate:"gt=0,lte=60"`
	ChartHeightIn float64 `mapstructure:"chart_height_in" yaml:"chart_height_in" validate:"gt=0,lte=60"`

	// Optional outputs
	ExportXLSX    bool   `mapstructure:"export_xlsx" yaml:"export_xlsx"`
	WriteManifest bool   `mapstructure:"write_manifest" yaml:"write_manifest"`
	HistoryDB     string `mapstructure:"history_db" yaml:"history_db"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
}

// Validate checks field constraints declared in struct tags.
func (c *Global) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.cosmochem/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".cosmochem")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("COSMOCHEM")
	v.AutomaticEnv()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".cosmochem"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Fallback output location: ~/Desktop/cosmetics_analysis
	if c.FallbackDir == "" {
		c.FallbackDir = DefaultFallbackDir()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_path", filepath.Join("data", "chemicals-in-cosmetics.csv"))
	v.SetDefault("results_dir", "analysis_results")
	v.SetDefault("fallback_dir", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("top_chemicals", 20)
	v.SetDefault("top_groups", 20)
	v.SetDefault("top_companies", 10)
	v.SetDefault("trend_chemicals", 5)
	v.SetDefault("top_discontinued", 10)
	v.SetDefault("top_brands", 10)
	v.SetDefault("chart_width_in", 12.0)
	v.SetDefault("chart_height_in", 6.0)
	v.SetDefault("export_xlsx", false)
	v.SetDefault("write_manifest", false)
	v.SetDefault("history_db", "")
	v.SetDefault("log_level", "warn")
}

// Defaults returns the built-in configuration, ignoring files and env.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	c.FallbackDir = DefaultFallbackDir()
	return &c
}

// DefaultFallbackDir returns <home>/Desktop/cosmetics_analysis, or a relative
// path of the same shape when the home directory cannot be resolved.
func DefaultFallbackDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("Desktop", "cosmetics_analysis")
	}
	return filepath.Join(home, "Desktop", "cosmetics_analysis")
}
