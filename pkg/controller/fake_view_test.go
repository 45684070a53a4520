package controller

import (
	"context"
	"sync"

	"github.com/goliatone/go-fertform/pkg/model"
)

// recordingView is a minimal View double that keeps the latest state and the
// registered listeners.
type recordingView struct {
	mu sync.Mutex

	values         model.FormValues
	labels         map[model.FieldID]string
	submitLabel    string
	submitDisabled bool
	results        map[model.ResultID]string
	revealed       bool
	scrolls        int
	panel          *model.ErrorPanel
	banners        []model.Banner

	sliderFns map[model.FieldID][]func()
	submitFns []func(context.Context)
	saveFns   []func()
}

func newRecordingView(values model.FormValues) *recordingView {
	return &recordingView{
		values:      values.Clone(),
		labels:      map[model.FieldID]string{},
		submitLabel: "Get Recommendation",
		results:     map[model.ResultID]string{},
		sliderFns:   map[model.FieldID][]func(){},
	}
}

func (v *recordingView) Value(id model.FieldID) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.values[id]
}

func (v *recordingView) SetSliderLabel(id model.FieldID, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.labels[id] = text
}

func (v *recordingView) SubmitLabel() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.submitLabel
}

func (v *recordingView) SetSubmitLabel(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.submitLabel = label
}

func (v *recordingView) SetSubmitDisabled(disabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.submitDisabled = disabled
}

func (v *recordingView) SetResultText(id model.ResultID, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.results[id] = text
}

func (v *recordingView) RevealResults() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.revealed = true
}

func (v *recordingView) ScrollResultsIntoView() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrolls++
}

func (v *recordingView) ReplaceResults(panel model.ErrorPanel) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.results = map[model.ResultID]string{}
	v.banners = nil
	v.panel = &panel
}

func (v *recordingView) PrependBanner(b model.Banner) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.banners = append([]model.Banner{b}, v.banners...)
}

func (v *recordingView) RemoveBanner(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, b := range v.banners {
		if b.ID == id {
			v.banners = append(v.banners[:i], v.banners[i+1:]...)
			return true
		}
	}
	return false
}

func (v *recordingView) OnSliderInput(id model.FieldID, fn func()) {
	v.sliderFns[id] = append(v.sliderFns[id], fn)
}

func (v *recordingView) OnSubmit(fn func(context.Context)) {
	v.submitFns = append(v.submitFns, fn)
}

func (v *recordingView) OnSaveHistory(fn func()) {
	v.saveFns = append(v.saveFns, fn)
}

func (v *recordingView) input(id model.FieldID, value string) {
	v.mu.Lock()
	v.values[id] = value
	v.mu.Unlock()
	for _, fn := range v.sliderFns[id] {
		fn()
	}
}

func (v *recordingView) submit(ctx context.Context) {
	for _, fn := range v.submitFns {
		fn(ctx)
	}
}

func (v *recordingView) clickSave() {
	for _, fn := range v.saveFns {
		fn()
	}
}

func (v *recordingView) bannerCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.banners)
}
