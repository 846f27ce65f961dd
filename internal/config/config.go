package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"coderef/internal/paths"
)

// CurrentVersion is the configuration schema version
const CurrentVersion = 1

// EnvPrefix prefixes environment overrides, e.g. CODEREF_EXPORT_FORMAT
const EnvPrefix = "CODEREF"

// Config represents the complete coderef configuration
type Config struct {
	Version int `json:"version" mapstructure:"version" toml:"version"`

	Parse   ParseConfig   `json:"parse" mapstructure:"parse" toml:"parse"`
	Scan    ScanConfig    `json:"scan" mapstructure:"scan" toml:"scan"`
	Catalog CatalogConfig `json:"catalog" mapstructure:"catalog" toml:"catalog"`
	Export  ExportConfig  `json:"export" mapstructure:"export" toml:"export"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging" toml:"logging"`
}

// ParseConfig controls how reference text is read
type ParseConfig struct {
	LegacyOperatorSyntax bool `json:"legacyOperatorSyntax" mapstructure:"legacyOperatorSyntax" toml:"legacyOperatorSyntax"`
	AllowUnspecified     bool `json:"allowUnspecified" mapstructure:"allowUnspecified" toml:"allowUnspecified"`
}

// ScanConfig controls doc-comment scanning
type ScanConfig struct {
	Extensions []string `json:"extensions" mapstructure:"extensions" toml:"extensions"`
	Ignore     []string `json:"ignore" mapstructure:"ignore" toml:"ignore"`
}

// CatalogConfig locates the reference catalog
type CatalogConfig struct {
	Path string `json:"path" mapstructure:"path" toml:"path"`
}

// ExportConfig contains export defaults
type ExportConfig struct {
	Format   string `json:"format" mapstructure:"format" toml:"format"`
	Compress bool   `json:"compress" mapstructure:"compress" toml:"compress"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format     string `json:"format" mapstructure:"format" toml:"format"`
	Level      string `json:"level" mapstructure:"level" toml:"level"`
	MaxSize    string `json:"maxSize" mapstructure:"maxSize" toml:"maxSize"`
	MaxBackups int    `json:"maxBackups" mapstructure:"maxBackups" toml:"maxBackups"`
}

// ExportFormats lists the accepted export.format values
var ExportFormats = []string{"jsonl", "yaml", "scip"}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Parse: ParseConfig{
			LegacyOperatorSyntax: true,
			AllowUnspecified:     true,
		},
		Scan: ScanConfig{
			Extensions: []string{".cs"},
			Ignore:     []string{"bin", "obj", ".git", "node_modules"},
		},
		Catalog: CatalogConfig{
			Path: paths.DefaultCatalogPath(""),
		},
		Export: ExportConfig{
			Format:   "jsonl",
			Compress: false,
		},
		Logging: LoggingConfig{
			Format:     "human",
			Level:      "warn",
			MaxSize:    "10MB",
			MaxBackups: 3,
		},
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("version", cfg.Version)
	v.SetDefault("parse.legacyOperatorSyntax", cfg.Parse.LegacyOperatorSyntax)
	v.SetDefault("parse.allowUnspecified", cfg.Parse.AllowUnspecified)
	v.SetDefault("scan.extensions", cfg.Scan.Extensions)
	v.SetDefault("scan.ignore", cfg.Scan.Ignore)
	v.SetDefault("catalog.path", cfg.Catalog.Path)
	v.SetDefault("export.format", cfg.Export.Format)
	v.SetDefault("export.compress", cfg.Export.Compress)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.maxSize", cfg.Logging.MaxSize)
	v.SetDefault("logging.maxBackups", cfg.Logging.MaxBackups)
}

// LoadResult is a loaded configuration with where its values came from
type LoadResult struct {
	Config       *Config
	ConfigPath   string
	UsedDefaults bool
	EnvOverrides []EnvOverride
}

// EnvOverride is an environment variable that replaced a configured value
type EnvOverride struct {
	EnvVar string `json:"envVar"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// LoadConfig loads configuration from .coderef/config.json (or config.toml),
// applying CODEREF_* environment overrides. A missing file yields defaults.
func LoadConfig(repoRoot string) (*Config, error) {
	result, err := LoadConfigWithDetails(repoRoot)
	if err != nil {
		return nil, err
	}
	return result.Config, nil
}

// LoadConfigWithDetails is LoadConfig that also reports the file used and the
// environment overrides applied.
func LoadConfigWithDetails(repoRoot string) (*LoadResult, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigName("config")
	v.AddConfigPath(paths.Dir(repoRoot))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	result := &LoadResult{}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		result.UsedDefaults = true
	} else {
		result.ConfigPath = v.ConfigFileUsed()
	}

	for _, ev := range EnvVars() {
		if value, ok := os.LookupEnv(ev.EnvVar); ok {
			result.EnvOverrides = append(result.EnvOverrides, EnvOverride{
				EnvVar: ev.EnvVar,
				Key:    ev.Key,
				Value:  value,
			})
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	result.Config = &cfg
	return result, nil
}

// EnvVar names the environment variable that overrides a configuration key
type EnvVar struct {
	Key    string
	EnvVar string
}

// EnvVars lists every supported environment override, sorted by key
func EnvVars() []EnvVar {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	keys := v.AllKeys()
	sort.Strings(keys)
	vars := make([]EnvVar, 0, len(keys))
	for _, k := range keys {
		vars = append(vars, EnvVar{
			Key:    k,
			EnvVar: EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(k, ".", "_")),
		})
	}
	return vars
}

// Save writes the configuration to .coderef/config.json
func (c *Config) Save(repoRoot string) error {
	if _, err := paths.EnsureDir(repoRoot); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(paths.ConfigPath(repoRoot), data, 0644)
}

// SaveTOML writes the configuration to .coderef/config.toml
func (c *Config) SaveTOML(repoRoot string) error {
	if _, err := paths.EnsureDir(repoRoot); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(paths.TOMLConfigPath(repoRoot), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: fmt.Sprintf("unsupported config version %d", c.Version)}
	}
	for _, ext := range c.Scan.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return &ConfigError{Field: "scan.extensions", Message: fmt.Sprintf("extension %q must start with '.'", ext)}
		}
	}
	if c.Catalog.Path == "" {
		return &ConfigError{Field: "catalog.path", Message: "must not be empty"}
	}
	if !validExportFormat(c.Export.Format) {
		return &ConfigError{Field: "export.format", Message: fmt.Sprintf("unknown format %q", c.Export.Format)}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Logging.Format)}
	}
	if c.Logging.MaxBackups < 0 {
		return &ConfigError{Field: "logging.maxBackups", Message: "must not be negative"}
	}
	return nil
}

func validExportFormat(format string) bool {
	for _, f := range ExportFormats {
		if f == format {
			return true
		}
	}
	return false
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
