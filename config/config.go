// Package config loads the YAML settings of the quire command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/quire/dom"
	"github.com/ByLCY/quire/geom"
	"github.com/ByLCY/quire/logging"
)

// ErrInvalid is wrapped by every *ConfigError.
var ErrInvalid = errors.New("配置无效")

// ConfigError names the configuration field that failed validation.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("配置项 '%s' 错误: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("配置错误: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalid
}

func (e *ConfigError) Is(target error) bool { return target == ErrInvalid }

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// Config 是命令行工具的全部配置。
type Config struct {
	// MaxPasses bounds the field resolution loop. Zero means the formatter default.
	MaxPasses int `yaml:"max-passes"`
	// BaseDir resolves relative image and font paths. Empty means the input file's directory.
	BaseDir string `yaml:"base-dir"`
	// DebugJSON, when set, is where the layout result is dumped as JSON.
	DebugJSON string                `yaml:"debug-json"`
	Logging   LoggingConfig         `yaml:"logging"`
	Page      PageConfig            `yaml:"page"`
	Fonts     map[string]FontConfig `yaml:"fonts"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level"`
	// Format is the log format (text, json).
	Format string `yaml:"format"`
}

// PageConfig supplies the page defaults used by `page default`.
type PageConfig struct {
	Size   string `yaml:"size"`
	Margin string `yaml:"margin"`
}

// FontConfig maps a font name used by styles to its files.
type FontConfig struct {
	Regular    string `yaml:"regular"`
	Bold       string `yaml:"bold"`
	Italic     string `yaml:"italic"`
	BoldItalic string `yaml:"bold-italic"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills empty fields with their default values.
func (c *Config) SetDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Page.Size == "" {
		c.Page.Size = "A4"
	}
}

// Load reads, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML data. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ConfigError{Message: "解析配置失败", Err: err}
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every field and returns the first problem.
func (c *Config) Validate() error {
	if c.MaxPasses < 0 {
		return NewConfigError("max-passes", "不能为负数")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return NewConfigError("logging.level", fmt.Sprintf("未知的日志级别 %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return NewConfigError("logging.format", fmt.Sprintf("未知的日志格式 %q", c.Logging.Format))
	}
	if _, ok := dom.PageSizes[strings.ToUpper(c.Page.Size)]; !ok {
		return NewConfigError("page.size", fmt.Sprintf("不支持的纸张 %q，可选 %s", c.Page.Size, strings.Join(pageSizeNames(), ", ")))
	}
	if _, err := c.Page.MarginPoints(); err != nil {
		return &ConfigError{Field: "page.margin", Message: err.Error(), Err: err}
	}
	for name, f := range c.Fonts {
		if f.Regular == "" {
			return NewConfigError("fonts."+name+".regular", "缺少常规字形")
		}
	}
	return nil
}

// MarginPoints returns the configured margin, or 0 when unset.
func (p PageConfig) MarginPoints() (geom.Pt, error) {
	if p.Margin == "" {
		return 0, nil
	}
	l, err := geom.ParseLength(p.Margin)
	if err != nil {
		return 0, err
	}
	pt := l.Points()
	if pt < 0 {
		return 0, fmt.Errorf("页边距 %s 不能为负", p.Margin)
	}
	return pt, nil
}

// NewLogger builds the slog logger described by c, writing to w.
func (c LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: logging.ParseLevel(c.Level)}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func pageSizeNames() []string {
	names := make([]string, 0, len(dom.PageSizes))
	for n := range dom.PageSizes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
