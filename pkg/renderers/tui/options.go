package tui

import (
	"io"

	"go.uber.org/zap"

	"github.com/goliatone/go-fertform/pkg/catalog"
	"github.com/goliatone/go-fertform/pkg/controller"
	"github.com/goliatone/go-fertform/pkg/model"
)

// OutputFormat controls how the results area is printed.
type OutputFormat string

const (
	// OutputFormatPretty prints styled panels.
	OutputFormatPretty OutputFormat = "pretty"
	// OutputFormatJSON prints the results area as a JSON object.
	OutputFormatJSON OutputFormat = "json"
)

// Theme captures optional formatting hints applied when printing messages.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
	// Styles overrides DefaultStyles when set.
	Styles *Styles
}

// Option configures the session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutput sets where results are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		if w != nil {
			s.out = w
		}
	}
}

// WithOutputFormat selects how results are printed.
func WithOutputFormat(format OutputFormat) Option {
	return func(s *Session) {
		if format != "" {
			s.outputFormat = format
		}
	}
}

// WithTheme applies message prefixes and panel styles.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithCatalog overrides the option and range catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Session) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithInitialValues seeds the form instead of the catalog defaults.
func WithInitialValues(values model.FormValues) Option {
	return func(s *Session) {
		if values != nil {
			s.initial = values.Clone()
		}
	}
}

// WithSubmitLabel sets the idle submit label announced before each submission.
func WithSubmitLabel(label string) Option {
	return func(s *Session) {
		s.submitLabel = label
	}
}

// WithControllerOptions forwards options to the form controller.
func WithControllerOptions(opts ...controller.Option) Option {
	return func(s *Session) {
		s.controllerOpts = append(s.controllerOpts, opts...)
	}
}

// WithRepeat asks for another recommendation after each one.
func WithRepeat(repeat bool) Option {
	return func(s *Session) {
		s.repeat = repeat
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}
