package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/reactive"
)

const (
	// YAMLFileName is the preferred configuration file name.
	YAMLFileName = "vbind.yaml"

	// JSONFileName is the alternative configuration file name.
	JSONFileName = "vbind.json"

	// DefaultTemplate is the default template path.
	DefaultTemplate = "index.html"

	// DefaultEl is the default root selector.
	DefaultEl = "#app"

	// DefaultAddr is the default preview server address.
	DefaultAddr = "localhost:3000"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config represents the complete vbind.yaml configuration.
type Config struct {
	// Template is the path or s3:// URL of the HTML template.
	Template string `yaml:"template,omitempty" json:"template,omitempty"`

	// Data is the path or s3:// URL of the initial data (.json or .yaml).
	Data string `yaml:"data,omitempty" json:"data,omitempty"`

	// El is the root selector.
	El string `yaml:"el,omitempty" json:"el,omitempty"`

	// Mode is the notification mode: "broadcast" or "filtered".
	Mode string `yaml:"mode,omitempty" json:"mode,omitempty"`

	// Computed maps names to interpolation templates, e.g.
	// "Hello {{ user.name }}".
	Computed map[string]string `yaml:"computed,omitempty" json:"computed,omitempty"`

	// Server contains preview server configuration.
	Server ServerConfig `yaml:"server,omitempty" json:"server,omitempty"`

	// Render contains HTML output configuration.
	Render RenderConfig `yaml:"render,omitempty" json:"render,omitempty"`

	// S3 configures s3:// sources.
	S3 S3Config `yaml:"s3,omitempty" json:"s3,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains preview server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr,omitempty" json:"addr,omitempty"`

	// Metrics exposes /metrics when true.
	Metrics bool `yaml:"metrics,omitempty" json:"metrics,omitempty"`
}

// RenderConfig contains HTML output settings.
type RenderConfig struct {
	// StripDirectives omits v- and @ attributes from output.
	StripDirectives bool `yaml:"stripDirectives,omitempty" json:"stripDirectives,omitempty"`

	// Pretty indents output.
	Pretty bool `yaml:"pretty,omitempty" json:"pretty,omitempty"`
}

// S3Config configures the S3 client used for s3:// sources.
type S3Config struct {
	// Region is the bucket region.
	Region string `yaml:"region,omitempty" json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`

	// PathStyle forces path-style addressing.
	PathStyle bool `yaml:"pathStyle,omitempty" json:"pathStyle,omitempty"`
}

// New returns a configuration with defaults applied.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from dir. It looks for vbind.yaml, then
// vbind.json. A directory without either yields the defaults.
func Load(dir string) (*Config, error) {
	for _, name := range []string{YAMLFileName, JSONFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	cfg := New()
	cfg.configPath = filepath.Join(dir, YAMLFileName)
	return cfg, nil
}

// LoadFile reads configuration from path. Files ending in .json are JSON;
// anything else is YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.New("E030").
				WithTarget(path).
				WithSuggestion("Create " + YAMLFileName + " or pass an existing --config file")
		}
		return nil, errors.New("E020").WithTarget(path).Wrap(err)
	}

	cfg := &Config{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E020").
			WithTarget(path).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Template == "" {
		c.Template = DefaultTemplate
	}
	if c.El == "" {
		c.El = DefaultEl
	}
	if c.Mode == "" {
		c.Mode = reactive.ModeBroadcast.String()
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if _, ok := reactive.ParseMode(c.Mode); !ok {
		return errors.New("E020").
			WithTarget(c.configPath).
			WithDetail("Unknown mode " + `"` + c.Mode + `"`).
			WithSuggestion("Use mode: broadcast or mode: filtered")
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return errors.New("E020").
			WithTarget(c.configPath).
			WithDetail("Unknown logLevel " + `"` + c.LogLevel + `"`).
			WithSuggestion("Use debug, info, warn or error")
	}
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// ResolvePath joins a relative local path onto the config directory.
// Absolute paths and URLs are returned unchanged.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || strings.Contains(p, "://") {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// TemplatePath returns the resolved template location.
func (c *Config) TemplatePath() string {
	return c.ResolvePath(c.Template)
}

// DataPath returns the resolved data location, or "" when there is none.
func (c *Config) DataPath() string {
	return c.ResolvePath(c.Data)
}

// NotifyMode returns the parsed notification mode.
func (c *Config) NotifyMode() reactive.Mode {
	mode, _ := reactive.ParseMode(c.Mode)
	return mode
}

// Level returns the parsed log level, defaulting to info.
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{YAMLFileName, JSONFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
