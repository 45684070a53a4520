package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-fertform/pkg/catalog"
	"github.com/goliatone/go-fertform/pkg/model"
	"github.com/goliatone/go-fertform/pkg/predict"
)

// User facing messages.
const (
	GenericServerMessage = "An unknown error occurred during prediction."
	ConnectivityMessage  = "Could not connect to the server or process the response. Please ensure the backend server is running."
	RemediationHint      = "Please check your input values and try again, or ensure the server is running correctly."
	SavedMessage         = "Recommendation saved to your history!"
	DefaultBusyLabel     = "Processing..."
)

// DefaultBannerDelay is how long the save banner stays visible.
const DefaultBannerDelay = 3000 * time.Millisecond

// Controller coordinates the form. It keeps no per-submission state, so a
// single instance can serve repeated submissions on the same view.
type Controller struct {
	view      View
	predictor predict.Predictor

	catalog     *catalog.Catalog
	logger      *zap.Logger
	scheduler   Scheduler
	bannerDelay time.Duration
	busyLabel   string
	observer    Observer
	newID       func() string

	setupOnce sync.Once
}

// New constructs a controller bound to view and predictor.
func New(view View, predictor predict.Predictor, options ...Option) (*Controller, error) {
	if view == nil {
		return nil, errors.New("controller: view is required")
	}
	if predictor == nil {
		return nil, errors.New("controller: predictor is required")
	}

	c := &Controller{
		view:        view,
		predictor:   predictor,
		catalog:     catalog.Default(),
		logger:      zap.NewNop(),
		scheduler:   TimerScheduler{},
		bannerDelay: DefaultBannerDelay,
		busyLabel:   DefaultBusyLabel,
		observer:    nopObserver{},
		newID:       uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Setup registers the view listeners and syncs every slider label once.
// Later calls do nothing.
func (c *Controller) Setup() {
	c.setupOnce.Do(func() {
		for _, id := range model.SliderFields {
			id := id
			c.view.OnSliderInput(id, func() { c.SyncSlider(id) })
		}
		c.view.OnSubmit(func(ctx context.Context) { c.Submit(ctx) })
		c.view.OnSaveHistory(func() { c.SaveToHistory() })

		for _, id := range model.SliderFields {
			c.SyncSlider(id)
		}
	})
}

// SyncSlider copies the slider's current value into its label.
func (c *Controller) SyncSlider(id model.FieldID) {
	c.view.SetSliderLabel(id, c.view.Value(id))
}

// Submit runs one prediction round trip and renders its outcome. The submit
// control is disabled for the duration and restored on every exit path.
func (c *Controller) Submit(ctx context.Context) (outcome Outcome) {
	original := c.view.SubmitLabel()
	c.view.SetSubmitDisabled(true)
	c.view.SetSubmitLabel(c.busyLabel)
	started := time.Now()

	defer func() {
		c.view.SetSubmitDisabled(false)
		c.view.SetSubmitLabel(original)
		c.observer.SubmitCompleted(outcome, time.Since(started))
	}()
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("submit panicked", zap.Any("panic", r), zap.Stack("stack"))
			outcome = OutcomeFailed
			c.ShowError(ConnectivityMessage)
		}
	}()

	req, err := model.NewPredictionRequest(c.formValues())
	if err != nil {
		c.logger.Warn("malformed prediction request", zap.Error(err))
		c.ShowError(ConnectivityMessage)
		return OutcomeFailed
	}

	resp, err := c.predictor.Predict(ctx, req)
	if err != nil {
		var rejected *predict.ServerRejectedError
		if errors.As(err, &rejected) {
			c.logger.Info("prediction rejected",
				zap.Int("status", rejected.StatusCode),
				zap.String("message", rejected.Message),
			)
			message := rejected.Message
			if message == "" {
				message = GenericServerMessage
			}
			c.ShowError(message)
			return OutcomeRejected
		}
		c.logger.Error("prediction failed", zap.Error(err))
		c.ShowError(ConnectivityMessage)
		return OutcomeFailed
	}

	c.ShowResults(resp)
	return OutcomeSuccess
}

// ShowResults fills the results area from resp. Echoes the server omits or
// sends as null fall back to the current form values. A missing category is
// derived from the fertilizer name, and an unknown fertilizer gets the generic
// description.
func (c *Controller) ShowResults(resp model.PredictionResponse) {
	category := resp.FertilizerType
	if category == "" {
		category = catalog.Categorize(resp.Fertilizer)
	}

	c.view.SetResultText(model.ResultFertilizerName, resp.Fertilizer)
	c.view.SetResultText(model.ResultFertilizerCategory, category)
	c.view.SetResultText(model.ResultCrop, c.echo(resp.Crop, model.FieldCrop))
	c.view.SetResultText(model.ResultRegion, c.echo(resp.Region, model.FieldRegion))
	c.view.SetResultText(model.ResultMonth, c.echo(resp.Month, model.FieldMonth))
	c.view.SetResultText(model.ResultInfo, c.catalog.Describe(resp.Fertilizer))

	c.view.RevealResults()
	c.view.ScrollResultsIntoView()
}

// ShowError replaces the results area with an error panel for message.
func (c *Controller) ShowError(message string) {
	c.view.RevealResults()
	c.view.ReplaceResults(model.ErrorPanel{Message: message, Hint: RemediationHint})
	c.view.ScrollResultsIntoView()
}

// SaveToHistory shows the saved banner and schedules its removal. Nothing is
// persisted. It returns the banner id.
func (c *Controller) SaveToHistory() string {
	banner := model.Banner{
		ID:      fmt.Sprintf("banner-%s", c.newID()),
		Kind:    model.BannerSuccess,
		Message: SavedMessage,
	}
	c.view.PrependBanner(banner)
	c.observer.BannerShown()

	c.scheduler.AfterFunc(c.bannerDelay, func() {
		c.view.RemoveBanner(banner.ID)
	})
	return banner.ID
}

// BannerDelay reports how long banners stay visible.
func (c *Controller) BannerDelay() time.Duration {
	return c.bannerDelay
}

func (c *Controller) echo(value string, fallback model.FieldID) string {
	if value != "" {
		return value
	}
	return c.view.Value(fallback)
}

func (c *Controller) formValues() model.FormValues {
	values := make(model.FormValues, len(model.AllFields()))
	for _, id := range model.AllFields() {
		values[id] = c.view.Value(id)
	}
	return values
}
