package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fertform/pkg/model"
)

// SampleValues returns the form values used throughout the tests:
// Wheat / North / July with N=50, P=30, K=20, temperature 25.5, humidity 60,
// pH 6.5 and moisture 40.
func SampleValues() model.FormValues {
	return model.FormValues{
		model.FieldCrop:        "Wheat",
		model.FieldRegion:      "North",
		model.FieldMonth:       "July",
		model.FieldN:           "50",
		model.FieldP:           "30",
		model.FieldK:           "20",
		model.FieldTemperature: "25.5",
		model.FieldHumidity:    "60",
		model.FieldPH:          "6.5",
		model.FieldMoisture:    "40",
	}
}

// Diff returns a diff string if the values differ.
func Diff(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
