package model

// FieldID identifies a form control. The value is the element id used by the
// page markup and the JSON key used by the prediction request.
type FieldID string

const (
	FieldCrop        FieldID = "crop"
	FieldRegion      FieldID = "region"
	FieldMonth       FieldID = "month"
	FieldN           FieldID = "N"
	FieldP           FieldID = "P"
	FieldK           FieldID = "K"
	FieldTemperature FieldID = "temperature"
	FieldHumidity    FieldID = "humidity"
	FieldPH          FieldID = "ph"
	FieldMoisture    FieldID = "moisture"
)

// TextFields lists the free-text/select fields in form order.
var TextFields = []FieldID{FieldCrop, FieldRegion, FieldMonth}

// SliderFields lists the range inputs that mirror their value into a label.
var SliderFields = []FieldID{FieldN, FieldP, FieldK}

// NumericFields lists every measurement sent as a number, sliders first.
var NumericFields = []FieldID{
	FieldN, FieldP, FieldK,
	FieldTemperature, FieldHumidity, FieldPH, FieldMoisture,
}

// AllFields returns every form field in display order.
func AllFields() []FieldID {
	out := make([]FieldID, 0, len(TextFields)+len(NumericFields))
	out = append(out, TextFields...)
	out = append(out, NumericFields...)
	return out
}

// IsSlider reports whether id names one of the slider inputs.
func (id FieldID) IsSlider() bool {
	for _, s := range SliderFields {
		if s == id {
			return true
		}
	}
	return false
}

// IsNumeric reports whether the field is sent as a number.
func (id FieldID) IsNumeric() bool {
	for _, n := range NumericFields {
		if n == id {
			return true
		}
	}
	return false
}

// LabelID returns the id of the read-only element mirroring a slider value.
func (id FieldID) LabelID() string {
	return string(id) + "-value"
}

// ResultID identifies a display target inside the results area.
type ResultID string

const (
	ResultFertilizerName     ResultID = "fertilizerName"
	ResultFertilizerCategory ResultID = "fertilizerCategory"
	ResultCrop               ResultID = "resultCrop"
	ResultRegion             ResultID = "resultRegion"
	ResultMonth              ResultID = "resultMonth"
	ResultInfo               ResultID = "fertilizerInfo"
)

// ResultFields lists the result targets in display order.
var ResultFields = []ResultID{
	ResultFertilizerName,
	ResultFertilizerCategory,
	ResultCrop,
	ResultRegion,
	ResultMonth,
	ResultInfo,
}

// Page level element ids that are not fields.
const (
	FormID          = "fertilizerForm"
	ResultSectionID = "resultSection"
	SaveHistoryID   = "saveRecommendation"
)

// FormValues holds the raw widget values keyed by field.
type FormValues map[FieldID]string

// Get returns the raw value for id, or "" when unset.
func (v FormValues) Get(id FieldID) string {
	if v == nil {
		return ""
	}
	return v[id]
}

// Clone returns an independent copy.
func (v FormValues) Clone() FormValues {
	out := make(FormValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// ErrorPanel replaces the contents of the results area when a prediction fails.
type ErrorPanel struct {
	Message string
	Hint    string
}

// BannerKind classifies transient banners.
type BannerKind string

const (
	BannerSuccess BannerKind = "success"
)

// Banner is a transient message shown at the top of the results area.
type Banner struct {
	ID      string
	Kind    BannerKind
	Message string
}
