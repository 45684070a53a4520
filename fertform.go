// Package fertform is the convenience entry point for embedding the fertilizer
// recommendation form. Most callers only need GenerateHTML or the asset and
// template file systems; the pkg/ packages expose the full API.
package fertform

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-fertform/pkg/controller"
	"github.com/goliatone/go-fertform/pkg/model"
	"github.com/goliatone/go-fertform/pkg/predict"
	"github.com/goliatone/go-fertform/pkg/renderers/page"
	"github.com/goliatone/go-fertform/pkg/view"
)

//go:embed assets/*.css
var embeddedAssets embed.FS

// StylesheetName is the default stylesheet inside AssetsFS.
const StylesheetName = "fertform.css"

// AssetsFS exposes the default page stylesheet so hosts can serve it without a
// build step.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(fertform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return page.TemplatesFS()
}

// GenerateHTML submits values once through predictor and returns the rendered
// page: the recommendation, or the error panel when the prediction fails.
func GenerateHTML(ctx context.Context, predictor predict.Predictor, values model.FormValues, options ...page.Option) ([]byte, error) {
	if predictor == nil {
		return nil, errors.New("fertform: predictor is required")
	}
	renderer, err := page.New(options...)
	if err != nil {
		return nil, fmt.Errorf("fertform: %w", err)
	}

	doc := view.NewDocument(values)
	ctrl, err := controller.New(doc, predictor)
	if err != nil {
		return nil, fmt.Errorf("fertform: %w", err)
	}
	ctrl.Setup()
	doc.SubmitForm(ctx)

	html, err := renderer.Render(doc.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("fertform: %w", err)
	}
	return []byte(html), nil
}
