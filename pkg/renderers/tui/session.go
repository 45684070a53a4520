// Package tui hosts the fertilizer form in a terminal. Each field is prompted
// through a PromptDriver (survey by default), the answers drive a
// view.Document through the form controller, and the results area is printed
// as lipgloss panels or JSON.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-fertform/pkg/catalog"
	"github.com/goliatone/go-fertform/pkg/controller"
	"github.com/goliatone/go-fertform/pkg/model"
	"github.com/goliatone/go-fertform/pkg/predict"
	"github.com/goliatone/go-fertform/pkg/render"
	"github.com/goliatone/go-fertform/pkg/view"
)

const panelWidth = 72

// Session is one terminal form. It is not safe for concurrent use.
type Session struct {
	driver         PromptDriver
	out            io.Writer
	outputFormat   OutputFormat
	theme          Theme
	styles         Styles
	catalog        *catalog.Catalog
	initial        model.FormValues
	submitLabel    string
	controllerOpts []controller.Option
	repeat         bool
	logger         *zap.Logger

	predictor predict.Predictor
	doc       *view.Document
	ctrl      *controller.Controller
}

// New prepares a session posting to predictor. The form starts with the
// catalog defaults and slider labels already synced.
func New(predictor predict.Predictor, options ...Option) (*Session, error) {
	if predictor == nil {
		return nil, errors.New("tui: predictor is required")
	}

	s := &Session{
		out:          os.Stdout,
		outputFormat: OutputFormatPretty,
		catalog:      catalog.Default(),
		logger:       zap.NewNop(),
		predictor:    predictor,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(s.out)
	}
	s.styles = DefaultStyles()
	if s.theme.Styles != nil {
		s.styles = *s.theme.Styles
	}
	if s.initial == nil {
		s.initial = s.catalog.Defaults()
	}

	s.doc = view.NewDocument(s.initial, view.WithSubmitLabel(s.submitLabel))
	opts := append([]controller.Option{
		controller.WithCatalog(s.catalog),
		controller.WithLogger(s.logger),
	}, s.controllerOpts...)
	ctrl, err := controller.New(s.doc, predict.PredictorFunc(s.announceAndPredict), opts...)
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	s.ctrl = ctrl
	s.ctrl.Setup()
	return s, nil
}

// Document exposes the page state driven by the session.
func (s *Session) Document() *view.Document {
	return s.doc
}

// Run collects the form, submits it and prints the outcome, offering to save
// a recommendation. With WithRepeat it loops until the user declines.
func (s *Session) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	for {
		if err := s.Collect(ctx); err != nil {
			return err
		}
		if err := s.driver.Info(ctx, s.theme.PromptPrefix+s.doc.SubmitLabel()); err != nil {
			return err
		}
		s.doc.SubmitForm(ctx)
		if err := s.Print(); err != nil {
			return err
		}

		if s.doc.Snapshot().HasResult() {
			save, err := s.driver.Confirm(ctx, ConfirmConfig{
				Message: s.theme.PromptPrefix + "Save this recommendation?",
			})
			if err != nil {
				return err
			}
			if save {
				s.doc.ClickSaveHistory()
				if err := s.Print(); err != nil {
					return err
				}
			}
		}

		if !s.repeat {
			return nil
		}
		again, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: s.theme.PromptPrefix + "Get another recommendation?",
			Default: true,
		})
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

// Collect prompts every field in form order, feeding each answer into the
// document as a user input event.
func (s *Session) Collect(ctx context.Context) error {
	for _, id := range model.TextFields {
		if err := s.promptSelect(ctx, id); err != nil {
			return err
		}
	}
	for _, id := range model.NumericFields {
		if err := s.promptMeasurement(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) promptSelect(ctx context.Context, id model.FieldID) error {
	current := s.doc.Value(id)
	options := s.catalog.Options(id)
	if current != "" && indexOf(options, current) < 0 {
		options = append([]string{current}, options...)
	}
	if len(options) == 0 {
		return fmt.Errorf("tui: %s: %w", id, ErrNoSelection)
	}

	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      s.theme.PromptPrefix + fieldLabel(id),
		Options:      options,
		DefaultIndex: indexOf(options, current),
		PageSize:     12,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return fmt.Errorf("tui: %s: %w", id, ErrNoSelection)
	}
	s.doc.Input(id, options[idx])
	return nil
}

func (s *Session) promptMeasurement(ctx context.Context, id model.FieldID) error {
	param, ok := s.catalog.Parameter(id)
	if !ok {
		param = catalog.Parameter{Field: id, Label: string(id)}
	}

	message := param.Label
	if param.Unit != "" {
		message += " (" + param.Unit + ")"
	}
	raw, err := s.driver.Input(ctx, InputConfig{
		Message:   s.theme.PromptPrefix + message,
		Default:   s.doc.Value(id),
		Help:      fmt.Sprintf("A number between %s and %s.", catalog.FormatNumber(param.Min), catalog.FormatNumber(param.Max)),
		Validator: measurementValidator(param, ok),
	})
	if err != nil {
		return err
	}

	s.doc.Input(id, strings.TrimSpace(raw))
	if id.IsSlider() {
		label := s.doc.Snapshot().SliderLabels[id]
		if err := s.driver.Info(ctx, s.theme.InfoPrefix+param.Label+": "+label); err != nil {
			return err
		}
	}
	return nil
}

func measurementValidator(param catalog.Parameter, ranged bool) func(string) error {
	return func(raw string) error {
		v, err := model.ParseMeasurement(raw)
		if err != nil {
			return fmt.Errorf("%q is not a number", raw)
		}
		if ranged && !param.Contains(v) {
			return fmt.Errorf("must be between %s and %s",
				catalog.FormatNumber(param.Min), catalog.FormatNumber(param.Max))
		}
		return nil
	}
}

// announceAndPredict prints the busy submit label before delegating, the way a
// browser shows the disabled button.
func (s *Session) announceAndPredict(ctx context.Context, req model.PredictionRequest) (model.PredictionResponse, error) {
	if err := s.driver.Info(ctx, s.theme.InfoPrefix+s.doc.SubmitLabel()); err != nil {
		s.logger.Debug("busy notice failed", zap.Error(err))
	}
	return s.predictor.Predict(ctx, req)
}

// Print writes the visible results area in the configured format.
func (s *Session) Print() error {
	snap := s.doc.Snapshot()
	if !snap.ResultsVisible {
		return nil
	}

	if s.outputFormat == OutputFormatJSON {
		enc := json.NewEncoder(s.out)
		enc.SetIndent("", "  ")
		return enc.Encode(render.ResultsOf(snap))
	}
	_, err := fmt.Fprintln(s.out, s.styles.renderResults(snap, s.theme.ErrorPrefix, panelWidth))
	return err
}

func fieldLabel(id model.FieldID) string {
	switch id {
	case model.FieldCrop:
		return "Crop"
	case model.FieldRegion:
		return "Region"
	case model.FieldMonth:
		return "Month"
	default:
		return string(id)
	}
}
