// Package view holds Document, the in-memory page state the controller drives.
// Hosts feed user events into a Document and render its Snapshot.
package view

import (
	"context"
	"sync"

	"github.com/goliatone/go-fertform/pkg/controller"
	"github.com/goliatone/go-fertform/pkg/model"
)

// DefaultSubmitLabel is the idle label of the submit control.
const DefaultSubmitLabel = "Get Recommendation"

// Document implements controller.View. State is guarded by a mutex because
// banner removal arrives from a timer goroutine; listeners always run with the
// lock released so they may call back into the Document.
type Document struct {
	mu sync.Mutex

	values         model.FormValues
	sliderLabels   map[model.FieldID]string
	submitLabel    string
	submitDisabled bool

	resultsVisible  bool
	scrollRequested int
	results         map[model.ResultID]string
	errorPanel      *model.ErrorPanel
	banners         []model.Banner

	sliderListeners map[model.FieldID][]func()
	submitListeners []func(ctx context.Context)
	saveListeners   []func()
}

var _ controller.View = (*Document)(nil)

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithSubmitLabel sets the idle submit label.
func WithSubmitLabel(label string) DocumentOption {
	return func(d *Document) {
		if label != "" {
			d.submitLabel = label
		}
	}
}

// NewDocument returns a Document holding a copy of values.
func NewDocument(values model.FormValues, options ...DocumentOption) *Document {
	d := &Document{
		values:          values.Clone(),
		sliderLabels:    make(map[model.FieldID]string, len(model.SliderFields)),
		submitLabel:     DefaultSubmitLabel,
		results:         make(map[model.ResultID]string, len(model.ResultFields)),
		sliderListeners: make(map[model.FieldID][]func()),
	}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Input changes a field value the way a user would and fires the slider
// listeners registered for it.
func (d *Document) Input(id model.FieldID, value string) {
	d.mu.Lock()
	d.values[id] = value
	listeners := append([]func(){}, d.sliderListeners[id]...)
	d.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// SubmitForm delivers a submit event. It returns once every listener has
// finished.
func (d *Document) SubmitForm(ctx context.Context) {
	d.mu.Lock()
	listeners := append([]func(context.Context){}, d.submitListeners...)
	d.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx)
	}
}

// ClickSaveHistory delivers a click on the save-history button.
func (d *Document) ClickSaveHistory() {
	d.mu.Lock()
	listeners := append([]func(){}, d.saveListeners...)
	d.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Value implements controller.View.
func (d *Document) Value(id model.FieldID) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.values.Get(id)
}

// SetSliderLabel implements controller.View.
func (d *Document) SetSliderLabel(id model.FieldID, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sliderLabels[id] = text
}

// SubmitLabel implements controller.View.
func (d *Document) SubmitLabel() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submitLabel
}

// SetSubmitLabel implements controller.View.
func (d *Document) SetSubmitLabel(label string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.submitLabel = label
}

// SetSubmitDisabled implements controller.View.
func (d *Document) SetSubmitDisabled(disabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.submitDisabled = disabled
}

// SetResultText implements controller.View. Writing a result field after an
// error panel rebuilds the results area, so the panel is dropped.
func (d *Document) SetResultText(id model.ResultID, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errorPanel = nil
	d.results[id] = text
}

// RevealResults implements controller.View.
func (d *Document) RevealResults() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resultsVisible = true
}

// ScrollResultsIntoView implements controller.View. Requests are counted; a
// host consumes them with TakeScroll.
func (d *Document) ScrollResultsIntoView() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scrollRequested++
}

// ReplaceResults implements controller.View.
func (d *Document) ReplaceResults(panel model.ErrorPanel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results = make(map[model.ResultID]string, len(model.ResultFields))
	d.banners = nil
	d.errorPanel = &panel
}

// PrependBanner implements controller.View.
func (d *Document) PrependBanner(banner model.Banner) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.banners = append([]model.Banner{banner}, d.banners...)
}

// RemoveBanner implements controller.View.
func (d *Document) RemoveBanner(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, b := range d.banners {
		if b.ID == id {
			d.banners = append(d.banners[:i], d.banners[i+1:]...)
			return true
		}
	}
	return false
}

// OnSliderInput implements controller.View.
func (d *Document) OnSliderInput(id model.FieldID, fn func()) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sliderListeners[id] = append(d.sliderListeners[id], fn)
}

// OnSubmit implements controller.View.
func (d *Document) OnSubmit(fn func(ctx context.Context)) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.submitListeners = append(d.submitListeners, fn)
}

// OnSaveHistory implements controller.View.
func (d *Document) OnSaveHistory(fn func()) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.saveListeners = append(d.saveListeners, fn)
}

// TakeScroll reports whether a scroll into view was requested since the last
// call and clears the request.
func (d *Document) TakeScroll() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	requested := d.scrollRequested > 0
	d.scrollRequested = 0
	return requested
}
