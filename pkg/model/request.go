package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedRequest is returned when form values cannot produce a valid request.
var ErrMalformedRequest = errors.New("model: malformed prediction request")

// FieldError describes the numeric field that failed to parse.
type FieldError struct {
	Field FieldID
	Raw   string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("model: field %s: invalid number %q: %v", e.Field, e.Raw, e.Err)
}

func (e *FieldError) Unwrap() []error {
	return []error{ErrMalformedRequest, e.Err}
}

var errNotFinite = errors.New("value is not finite")

// PredictionRequest is the JSON body posted to the prediction endpoint.
type PredictionRequest struct {
	Crop        string  `json:"crop"`
	Region      string  `json:"region"`
	Month       string  `json:"month"`
	N           float64 `json:"N"`
	P           float64 `json:"P"`
	K           float64 `json:"K"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	Moisture    float64 `json:"moisture"`
}

// NewPredictionRequest converts raw widget values into a request. Text fields are
// copied as-is; numeric fields must parse to finite numbers.
func NewPredictionRequest(values FormValues) (PredictionRequest, error) {
	req := PredictionRequest{
		Crop:   values.Get(FieldCrop),
		Region: values.Get(FieldRegion),
		Month:  values.Get(FieldMonth),
	}

	targets := map[FieldID]*float64{
		FieldN:           &req.N,
		FieldP:           &req.P,
		FieldK:           &req.K,
		FieldTemperature: &req.Temperature,
		FieldHumidity:    &req.Humidity,
		FieldPH:          &req.PH,
		FieldMoisture:    &req.Moisture,
	}
	for _, id := range NumericFields {
		parsed, err := ParseMeasurement(values.Get(id))
		if err != nil {
			return PredictionRequest{}, &FieldError{Field: id, Raw: values.Get(id), Err: err}
		}
		*targets[id] = parsed
	}
	return req, nil
}

// ParseMeasurement parses a widget value into a finite float64.
func ParseMeasurement(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

// Validate re-checks the finite-number invariant on an already built request.
func (r PredictionRequest) Validate() error {
	for id, v := range r.measurements() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &FieldError{Field: id, Raw: strconv.FormatFloat(v, 'g', -1, 64), Err: errNotFinite}
		}
	}
	return nil
}

func (r PredictionRequest) measurements() map[FieldID]float64 {
	return map[FieldID]float64{
		FieldN:           r.N,
		FieldP:           r.P,
		FieldK:           r.K,
		FieldTemperature: r.Temperature,
		FieldHumidity:    r.Humidity,
		FieldPH:          r.PH,
		FieldMoisture:    r.Moisture,
	}
}

// PredictionResponse is the success body returned by the prediction endpoint.
// Crop, Region and Month are optional echoes of the request.
type PredictionResponse struct {
	Fertilizer     string `json:"fertilizer"`
	FertilizerType string `json:"fertilizer_type"`
	Crop           string `json:"crop,omitempty"`
	Region         string `json:"region,omitempty"`
	Month          string `json:"month,omitempty"`
}
