package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/outliner/export"
	"github.com/tsawler/outliner/layout"
	"github.com/tsawler/outliner/reader"
)

// ErrInvalid is returned when a loaded configuration fails validation
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete outliner configuration.
type Config struct {
	InputDir       string        `mapstructure:"input_dir" yaml:"input_dir"`
	OutputDir      string        `mapstructure:"output_dir" yaml:"output_dir"`
	Renderer       string        `mapstructure:"renderer" yaml:"renderer"`       // "native" or "mutool"
	MutoolPath     string        `mapstructure:"mutool_path" yaml:"mutool_path"` // Used by the mutool renderer
	Workers        int           `mapstructure:"workers" yaml:"workers"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"` // Per document
	OutputFormat   string        `mapstructure:"output_format" yaml:"output_format"`
	ValidateOutput bool          `mapstructure:"validate_output" yaml:"validate_output"`

	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Heuristics HeuristicsConfig `mapstructure:"heuristics" yaml:"heuristics"`
}

// LogConfig configures the slog logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

// DatabaseConfig configures the optional Postgres record store.
type DatabaseConfig struct {
	// DSN is a Postgres connection string; empty disables the store
	DSN string `mapstructure:"dsn" yaml:"dsn"`

	// Cache reuses stored records for unchanged inputs
	Cache bool `mapstructure:"cache" yaml:"cache"`
}

// HeuristicsConfig mirrors layout.Config.
type HeuristicsConfig struct {
	TitlePages           int      `mapstructure:"title_pages" yaml:"title_pages"`
	TitleTopFraction     float64  `mapstructure:"title_top_fraction" yaml:"title_top_fraction"`
	TitleSizeTolerance   int      `mapstructure:"title_size_tolerance" yaml:"title_size_tolerance"`
	MinDistinctWordRatio float64  `mapstructure:"min_distinct_word_ratio" yaml:"min_distinct_word_ratio"`
	MinMeanWordLength    float64  `mapstructure:"min_mean_word_length" yaml:"min_mean_word_length"`
	DefaultBodySize      int      `mapstructure:"default_body_size" yaml:"default_body_size"`
	MetadataLabels       []string `mapstructure:"metadata_labels" yaml:"metadata_labels"`
	UnicodeNormalize     bool     `mapstructure:"unicode_normalize" yaml:"unicode_normalize"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	l := layout.DefaultConfig()
	return &Config{
		InputDir:       "/app/input",
		OutputDir:      "/app/output",
		Renderer:       reader.KindNative,
		MutoolPath:     "mutool",
		Workers:        runtime.NumCPU(),
		Timeout:        60 * time.Second,
		OutputFormat:   string(export.FormatJSON),
		ValidateOutput: true,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Database: DatabaseConfig{
			Cache: true,
		},
		Heuristics: HeuristicsConfig{
			TitlePages:           l.TitlePages,
			TitleTopFraction:     l.TitleTopFraction,
			TitleSizeTolerance:   l.TitleSizeTolerance,
			MinDistinctWordRatio: l.MinDistinctWordRatio,
			MinMeanWordLength:    l.MinMeanWordLength,
			DefaultBodySize:      l.DefaultBodySize,
			MetadataLabels:       l.MetadataLabels,
			UnicodeNormalize:     l.UnicodeNormalize,
		},
	}
}

// LayoutConfig converts the heuristics section to a layout.Config.
func (c *Config) LayoutConfig() layout.Config {
	h := c.Heuristics
	return layout.Config{
		TitlePages:           h.TitlePages,
		TitleTopFraction:     h.TitleTopFraction,
		TitleSizeTolerance:   h.TitleSizeTolerance,
		MinDistinctWordRatio: h.MinDistinctWordRatio,
		MinMeanWordLength:    h.MinMeanWordLength,
		DefaultBodySize:      h.DefaultBodySize,
		MetadataLabels:       append([]string(nil), h.MetadataLabels...),
		UnicodeNormalize:     h.UnicodeNormalize,
	}
}

// RendererOptions returns the options used to build the PDF renderer.
func (c *Config) RendererOptions() reader.Options {
	opts := reader.DefaultOptions()
	if c.MutoolPath != "" {
		opts.MutoolPath = c.MutoolPath
	}
	return opts
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("%w: input_dir is required", ErrInvalid)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir is required", ErrInvalid)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalid, c.Timeout)
	}
	if _, err := reader.New(c.Renderer, c.RendererOptions()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := export.ParseFormat(c.OutputFormat); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := c.level(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalid, c.Log.Format)
	}
	if err := c.LayoutConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return level, nil
}

// Logger builds the slog logger described by the log section.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := c.level()
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	v         *viper.Viper
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
// An empty cfgFile searches ./outliner.yaml then ~/.outliner/outliner.yaml.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults, environment, and config file.
func (cm *Manager) initViper(cfgFile string) error {
	v := cm.v
	d := DefaultConfig()

	v.SetDefault("input_dir", d.InputDir)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("renderer", d.Renderer)
	v.SetDefault("mutool_path", d.MutoolPath)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("validate_output", d.ValidateOutput)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.cache", d.Database.Cache)
	v.SetDefault("heuristics.title_pages", d.Heuristics.TitlePages)
	v.SetDefault("heuristics.title_top_fraction", d.Heuristics.TitleTopFraction)
	v.SetDefault("heuristics.title_size_tolerance", d.Heuristics.TitleSizeTolerance)
	v.SetDefault("heuristics.min_distinct_word_ratio", d.Heuristics.MinDistinctWordRatio)
	v.SetDefault("heuristics.min_mean_word_length", d.Heuristics.MinMeanWordLength)
	v.SetDefault("heuristics.default_body_size", d.Heuristics.DefaultBodySize)
	v.SetDefault("heuristics.metadata_labels", d.Heuristics.MetadataLabels)
	v.SetDefault("heuristics.unicode_normalize", d.Heuristics.UnicodeNormalize)

	// Environment variables with OUTLINER_ prefix; nested keys use "_"
	// (OUTLINER_DATABASE_DSN, OUTLINER_LOG_LEVEL)
	v.SetEnvPrefix("OUTLINER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("outliner")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.outliner")
	}

	// Try to read config file (not required)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a validated Config.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Viper exposes the underlying viper instance so commands can bind flags.
func (cm *Manager) Viper() *viper.Viper {
	return cm.v
}

// Reload re-reads viper state (for example after flags were bound).
func (cm *Manager) Reload() (*Config, error) {
	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.mu.Lock()
	cm.config = cfg
	cm.mu.Unlock()
	return cfg, nil
}

// ConfigFile returns the config file in use, or "" when running on defaults.
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration. Invalid edits are
// ignored and the previous configuration stays active.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# outliner configuration
# Every key can be overridden with an OUTLINER_ environment variable,
# e.g. OUTLINER_INPUT_DIR=/data/in or OUTLINER_DATABASE_DSN=postgres://...

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
