package controller

import (
	"context"

	"github.com/goliatone/go-fertform/pkg/model"
)

// View enumerates every element the controller reads or writes. Hosts
// implement it over their own widgets; view.Document is the in-memory
// implementation shared by the page and terminal hosts.
type View interface {
	// Value returns the raw widget value of a form field.
	Value(id model.FieldID) string
	SetSliderLabel(id model.FieldID, text string)

	SubmitLabel() string
	SetSubmitLabel(label string)
	SetSubmitDisabled(disabled bool)

	SetResultText(id model.ResultID, text string)
	RevealResults()
	ScrollResultsIntoView()
	// ReplaceResults discards the contents of the results area and shows panel
	// in their place.
	ReplaceResults(panel model.ErrorPanel)

	PrependBanner(banner model.Banner)
	// RemoveBanner removes the banner with the given id and reports whether it
	// was present.
	RemoveBanner(id string) bool

	OnSliderInput(id model.FieldID, fn func())
	OnSubmit(fn func(ctx context.Context))
	OnSaveHistory(fn func())
}
