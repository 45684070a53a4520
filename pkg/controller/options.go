package controller

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-fertform/pkg/catalog"
)

// Option configures the controller.
type Option func(*Controller)

// WithCatalog overrides the description catalog. Defaults to catalog.Default().
func WithCatalog(c *catalog.Catalog) Option {
	return func(ctrl *Controller) {
		if c != nil {
			ctrl.catalog = c
		}
	}
}

// WithLogger traces failures. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(ctrl *Controller) {
		if logger != nil {
			ctrl.logger = logger
		}
	}
}

// WithScheduler overrides how banner removal is scheduled.
func WithScheduler(s Scheduler) Option {
	return func(ctrl *Controller) {
		if s != nil {
			ctrl.scheduler = s
		}
	}
}

// WithBannerDelay sets how long the save banner stays visible.
func WithBannerDelay(d time.Duration) Option {
	return func(ctrl *Controller) {
		if d > 0 {
			ctrl.bannerDelay = d
		}
	}
}

// WithBusyLabel sets the submit label shown while a prediction is in flight.
func WithBusyLabel(label string) Option {
	return func(ctrl *Controller) {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			ctrl.busyLabel = trimmed
		}
	}
}

// WithObserver reports submissions and banners to o.
func WithObserver(o Observer) Option {
	return func(ctrl *Controller) {
		if o != nil {
			ctrl.observer = o
		}
	}
}

// WithIDGenerator overrides how banner ids are generated.
func WithIDGenerator(fn func() string) Option {
	return func(ctrl *Controller) {
		if fn != nil {
			ctrl.newID = fn
		}
	}
}
