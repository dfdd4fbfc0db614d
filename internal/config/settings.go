package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/handiism/docgrab/internal/logger"
	"github.com/handiism/docgrab/internal/model"
)

// DefaultConfigPath is read when no explicit config file is given. A
// missing default file is not an error.
const DefaultConfigPath = "config.yml"

// Settings holds all configuration options.
type Settings struct {
	// Seed document
	Seed    string `mapstructure:"seed" yaml:"seed"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`

	// Link extraction
	RootSelector    string `mapstructure:"root_selector" yaml:"root_selector"`
	ElementSelector string `mapstructure:"element_selector" yaml:"element_selector"`

	// Download settings
	OutputDirectory   string `mapstructure:"output_directory" yaml:"output_directory"`
	ResourceExtension string `mapstructure:"resource_extension" yaml:"resource_extension"`
	Concurrency       int    `mapstructure:"concurrency" yaml:"concurrency"`
	MaxRetryAttempts  int    `mapstructure:"max_retry_attempts" yaml:"max_retry_attempts"`
	RetryBackoffMs    int    `mapstructure:"retry_backoff_ms" yaml:"retry_backoff_ms"`
	RequestTimeoutMs  int    `mapstructure:"request_timeout_ms" yaml:"request_timeout_ms"`
	ErrorLogPath      string `mapstructure:"error_log" yaml:"error_log"`

	// Proxy settings
	ProxyEndpoint string `mapstructure:"proxy_endpoint" yaml:"proxy_endpoint,omitempty"`

	Markdown MarkdownSettings `mapstructure:"markdown" yaml:"markdown"`
	Logging  LoggingSettings  `mapstructure:"logging" yaml:"logging"`
}

// MarkdownSettings configures conversion and merging.
type MarkdownSettings struct {
	// OutputDirectory defaults to "<output_directory>-markdown".
	OutputDirectory string        `mapstructure:"output_directory" yaml:"output_directory,omitempty"`
	Replacements    []Replacement `mapstructure:"replacements" yaml:"replacements"`
	MergeSeparator  string        `mapstructure:"merge_separator" yaml:"merge_separator"`
	TableOfContents bool          `mapstructure:"table_of_contents" yaml:"table_of_contents"`
}

// Replacement is a global regular expression substitution applied to
// converted Markdown.
type Replacement struct {
	Search  string `mapstructure:"search" yaml:"search"`
	Replace string `mapstructure:"replace" yaml:"replace"`
}

// LoggingSettings contains logging options.
type LoggingSettings struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// envBindings maps setting keys to the environment variables that
// override them.
var envBindings = map[string]string{
	"seed":               "DOWNLOADER_TASK_FILE_URL",
	"base_url":           "DOWNLOADER_TASK_BASE_URL",
	"root_selector":      "DOWNLOADER_TASK_FILE_DOM_ROOT_SELECTOR",
	"element_selector":   "DOWNLOADER_TASK_FILE_DOM_ELEMENT_SELECTOR",
	"output_directory":   "DOWNLOADER_TASK_FILE_OUTPUT_DIR_NAME",
	"concurrency":        "DOWNLOAD_TASK_THREAD_COUNT",
	"max_retry_attempts": "DOWNLOAD_TASK_RETRY_COUNT",
	"retry_backoff_ms":   "DOWNLOAD_TASK_RETRY_DELAY",
	"request_timeout_ms": "DOWNLOAD_TASK_TIMEOUT",
	"proxy_endpoint":     "DOWNLOAD_TASK_PROXY",
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Seed:              "cesium-api-full.html",
		RootSelector:      "body",
		ElementSelector:   "a",
		OutputDirectory:   "files",
		ResourceExtension: model.DefaultResourceExtension,
		Concurrency:       2,
		MaxRetryAttempts:  3,
		RetryBackoffMs:    3000,
		RequestTimeoutMs:  60000,
		ErrorLogPath:      "download_errors.log",
		Markdown: MarkdownSettings{
			MergeSeparator: "---",
		},
		Logging: LoggingSettings{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads settings from a YAML file and applies environment overrides.
//
// Precedence, highest first: environment, file, defaults. A missing file is
// tolerated only for DefaultConfigPath (or an empty path); any other
// missing file is an error.
//
// Load does not validate. Callers apply their own overrides and then call
// Validate.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v, DefaultSettings())

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path == "" {
		path = DefaultConfigPath
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if !missing || path != DefaultConfigPath {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return settings, nil
}

func setDefaults(v *viper.Viper, d *Settings) {
	v.SetDefault("seed", d.Seed)
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("root_selector", d.RootSelector)
	v.SetDefault("element_selector", d.ElementSelector)
	v.SetDefault("output_directory", d.OutputDirectory)
	v.SetDefault("resource_extension", d.ResourceExtension)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("max_retry_attempts", d.MaxRetryAttempts)
	v.SetDefault("retry_backoff_ms", d.RetryBackoffMs)
	v.SetDefault("request_timeout_ms", d.RequestTimeoutMs)
	v.SetDefault("error_log", d.ErrorLogPath)
	v.SetDefault("proxy_endpoint", d.ProxyEndpoint)
	v.SetDefault("markdown.output_directory", d.Markdown.OutputDirectory)
	v.SetDefault("markdown.merge_separator", d.Markdown.MergeSeparator)
	v.SetDefault("markdown.table_of_contents", d.Markdown.TableOfContents)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Validate checks that the settings can drive a run.
func (s *Settings) Validate() error {
	if s.OutputDirectory == "" {
		return errors.New("output_directory is required")
	}
	if s.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", s.Concurrency)
	}
	if s.MaxRetryAttempts < 1 {
		return fmt.Errorf("max_retry_attempts must be at least 1, got %d", s.MaxRetryAttempts)
	}
	if s.RetryBackoffMs < 0 {
		return fmt.Errorf("retry_backoff_ms must not be negative, got %d", s.RetryBackoffMs)
	}
	if s.RequestTimeoutMs < 0 {
		return fmt.Errorf("request_timeout_ms must not be negative, got %d", s.RequestTimeoutMs)
	}
	if _, err := s.Proxy(); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(s.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	for i, r := range s.Markdown.Replacements {
		if _, err := regexp.Compile(r.Search); err != nil {
			return fmt.Errorf("markdown.replacements[%d]: %w", i, err)
		}
	}
	return nil
}

// Save writes settings to a YAML file.
func (s *Settings) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// RetryBackoff returns the constant delay between retries.
func (s *Settings) RetryBackoff() time.Duration {
	return time.Duration(s.RetryBackoffMs) * time.Millisecond
}

// RequestTimeout returns the per-request timeout.
func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutMs) * time.Millisecond
}

// Proxy parses ProxyEndpoint. It returns nil when no proxy is configured.
func (s *Settings) Proxy() (*url.URL, error) {
	if s.ProxyEndpoint == "" {
		return nil, nil
	}
	u, err := url.Parse(s.ProxyEndpoint)
	if err != nil {
		return nil, fmt.Errorf("proxy_endpoint: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("proxy_endpoint must include a host, got %q", s.ProxyEndpoint)
	}
	return u, nil
}

// MarkdownDirectory returns where converted Markdown files are written.
func (s *Settings) MarkdownDirectory() string {
	if s.Markdown.OutputDirectory != "" {
		return s.Markdown.OutputDirectory
	}
	return filepath.Clean(s.OutputDirectory) + "-markdown"
}

// MergedPath returns the path of the single merged Markdown document.
func (s *Settings) MergedPath() string {
	return filepath.Clean(s.MarkdownDirectory()) + ".full.md"
}

// ToPathConfig converts settings to a model.PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		OutputDirectory:   s.OutputDirectory,
		ResourceExtension: s.ResourceExtension,
	}
}
