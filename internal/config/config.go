// Package config loads the fertform settings: defaults, then an optional YAML
// file, then FERTFORM_* environment variables. Command line flags are applied
// last by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// Config is the full settings tree.
type Config struct {
	Endpoint           string        `yaml:"endpoint"`
	Timeout            time.Duration `yaml:"timeout"`
	BannerDelay        time.Duration `yaml:"banner_delay"`
	Listen             string        `yaml:"listen"`
	LogLevel           string        `yaml:"log_level"`
	ContractValidation bool          `yaml:"contract_validation"`
	Contract           string        `yaml:"contract"`
	Catalog            string        `yaml:"catalog"`
	Labels             Labels        `yaml:"labels"`
	Breaker            Breaker       `yaml:"breaker"`
	Theme              Theme         `yaml:"theme"`
}

// Catalog and Contract, when set, are file paths replacing the embedded
// catalog and OpenAPI contract.

// Labels are the submit control captions.
type Labels struct {
	Submit string `yaml:"submit"`
	Busy   string `yaml:"busy"`
}

// Breaker configures the optional circuit breaker around the prediction call.
type Breaker struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"max_failures"`
	OpenTimeout time.Duration `yaml:"open_timeout"`
	Interval    time.Duration `yaml:"interval"`
}

// Theme selects page styling.
type Theme struct {
	Name       string            `yaml:"name"`
	Variant    string            `yaml:"variant"`
	Tokens     map[string]string `yaml:"tokens"`
	CSSVars    map[string]string `yaml:"css_vars"`
	Stylesheet string            `yaml:"stylesheet"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Endpoint:           "http://127.0.0.1:5000/predict",
		Timeout:            10 * time.Second,
		BannerDelay:        3000 * time.Millisecond,
		Listen:             ":8080",
		LogLevel:           "info",
		ContractValidation: true,
		Labels: Labels{
			Submit: "Get Recommendation",
			Busy:   "Processing...",
		},
		Breaker: Breaker{
			MaxFailures: 5,
			OpenTimeout: 30 * time.Second,
		},
	}
}

// Load reads path over the defaults and applies the environment. An empty
// path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := cfg.merge(data); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a YAML document over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := cfg.merge(data); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) merge(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from FERTFORM_ENDPOINT, FERTFORM_LISTEN,
// FERTFORM_LOG_LEVEL and FERTFORM_TIMEOUT. Unparseable values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		return
	}
	if v, ok := lookup("FERTFORM_ENDPOINT"); ok && v != "" {
		c.Endpoint = v
	}
	if v, ok := lookup("FERTFORM_LISTEN"); ok && v != "" {
		c.Listen = v
	}
	if v, ok := lookup("FERTFORM_LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup("FERTFORM_TIMEOUT"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	endpoint := strings.TrimSpace(c.Endpoint)
	if endpoint == "" {
		return errors.New("config: endpoint is required")
	}
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: endpoint %q must be an absolute http(s) URL", c.Endpoint)
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	if c.BannerDelay <= 0 {
		return errors.New("config: banner_delay must be positive")
	}
	if c.Breaker.Enabled && c.Breaker.MaxFailures == 0 {
		return errors.New("config: breaker.max_failures must be positive when the breaker is enabled")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}

// RendererTheme converts the theme section for the page renderer. It returns
// nil when no theme is configured.
func (c Config) RendererTheme() *theme.RendererConfig {
	t := c.Theme
	if t.Name == "" && t.Variant == "" && len(t.Tokens) == 0 && len(t.CSSVars) == 0 && t.Stylesheet == "" {
		return nil
	}
	cfg := &theme.RendererConfig{
		Theme:   t.Name,
		Variant: t.Variant,
		Tokens:  copyMap(t.Tokens),
		CSSVars: copyMap(t.CSSVars),
	}
	if stylesheet := t.Stylesheet; stylesheet != "" {
		cfg.AssetURL = func(string) string { return stylesheet }
	}
	return cfg
}

func copyMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
