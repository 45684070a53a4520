package view

import "github.com/goliatone/go-fertform/pkg/model"

// Snapshot is an immutable copy of the Document state, suitable for rendering.
type Snapshot struct {
	Values         model.FormValues
	SliderLabels   map[model.FieldID]string
	SubmitLabel    string
	SubmitDisabled bool

	ResultsVisible  bool
	ScrollRequested bool
	Results         map[model.ResultID]string
	Error           *model.ErrorPanel
	Banners         []model.Banner
}

// Snapshot copies the current state.
func (d *Document) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	labels := make(map[model.FieldID]string, len(d.sliderLabels))
	for k, v := range d.sliderLabels {
		labels[k] = v
	}
	results := make(map[model.ResultID]string, len(d.results))
	for k, v := range d.results {
		results[k] = v
	}

	snap := Snapshot{
		Values:          d.values.Clone(),
		SliderLabels:    labels,
		SubmitLabel:     d.submitLabel,
		SubmitDisabled:  d.submitDisabled,
		ResultsVisible:  d.resultsVisible,
		ScrollRequested: d.scrollRequested > 0,
		Results:         results,
		Banners:         append([]model.Banner(nil), d.banners...),
	}
	if d.errorPanel != nil {
		panel := *d.errorPanel
		snap.Error = &panel
	}
	return snap
}

// HasResult reports whether the results area shows a recommendation.
func (s Snapshot) HasResult() bool {
	return s.Error == nil && s.Results[model.ResultFertilizerName] != ""
}

// Result returns the text of a result field.
func (s Snapshot) Result(id model.ResultID) string {
	return s.Results[id]
}
