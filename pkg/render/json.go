package render

import (
	"context"
	"encoding/json"

	"github.com/goliatone/go-fertform/pkg/model"
	"github.com/goliatone/go-fertform/pkg/view"
)

// Results is the machine-readable form of the results area.
type Results struct {
	Visible    bool     `json:"visible"`
	Fertilizer string   `json:"fertilizer,omitempty"`
	Category   string   `json:"fertilizer_type,omitempty"`
	Crop       string   `json:"crop,omitempty"`
	Region     string   `json:"region,omitempty"`
	Month      string   `json:"month,omitempty"`
	Info       string   `json:"info,omitempty"`
	Error      string   `json:"error,omitempty"`
	Hint       string   `json:"hint,omitempty"`
	Banners    []string `json:"banners,omitempty"`
}

// ResultsOf extracts the results area of snap. An error panel hides the
// result fields, as it does on the page.
func ResultsOf(snap view.Snapshot) Results {
	out := Results{Visible: snap.ResultsVisible}
	for _, b := range snap.Banners {
		out.Banners = append(out.Banners, b.Message)
	}
	if snap.Error != nil {
		out.Error = snap.Error.Message
		out.Hint = snap.Error.Hint
		return out
	}
	out.Fertilizer = snap.Result(model.ResultFertilizerName)
	out.Category = snap.Result(model.ResultFertilizerCategory)
	out.Crop = snap.Result(model.ResultCrop)
	out.Region = snap.Result(model.ResultRegion)
	out.Month = snap.Result(model.ResultMonth)
	out.Info = snap.Result(model.ResultInfo)
	return out
}

// JSON renders ResultsOf as an indented JSON document.
type JSON struct{}

var _ Renderer = JSON{}

func (JSON) Name() string        { return "json" }
func (JSON) ContentType() string { return "application/json" }

func (JSON) Render(_ context.Context, snap view.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(ResultsOf(snap), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
