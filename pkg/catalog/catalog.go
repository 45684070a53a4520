// Package catalog exposes the static reference data behind the fertilizer form:
// the fertilizer description table, crop/region/month options and the measurement
// ranges used to configure sliders and prompts. The data is embedded at build time
// and never mutated after load; accessors hand out copies.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-fertform/pkg/model"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Parameter describes the accepted range and default of a numeric field.
type Parameter struct {
	Field   model.FieldID `yaml:"field"`
	Label   string        `yaml:"label"`
	Unit    string        `yaml:"unit"`
	Min     float64       `yaml:"min"`
	Max     float64       `yaml:"max"`
	Step    float64       `yaml:"step"`
	Default float64       `yaml:"default"`
}

// DefaultString formats the default as a widget would report it.
func (p Parameter) DefaultString() string {
	return FormatNumber(p.Default)
}

// Contains reports whether v lies inside the inclusive range.
func (p Parameter) Contains(v float64) bool {
	return v >= p.Min && v <= p.Max
}

// CropGroup is a named set of crops (cereals, pulses, ...).
type CropGroup struct {
	Name  string   `yaml:"group"`
	Items []string `yaml:"items"`
}

type document struct {
	Fallback     string            `yaml:"fallback_description"`
	Descriptions map[string]string `yaml:"descriptions"`
	Parameters   []Parameter       `yaml:"parameters"`
	Crops        []CropGroup       `yaml:"crops"`
	Regions      []string          `yaml:"regions"`
	Months       []string          `yaml:"months"`
}

// Catalog is the immutable lookup data.
type Catalog struct {
	fallback     string
	descriptions map[string]string
	parameters   []Parameter
	crops        []CropGroup
	regions      []string
	months       []string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. The embedded document is validated by
// tests, so a parse failure here is a build defect and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embeddedCatalog)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded data: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}

	c := &Catalog{
		fallback:     strings.TrimSpace(doc.Fallback),
		descriptions: make(map[string]string, len(doc.Descriptions)),
		parameters:   append([]Parameter(nil), doc.Parameters...),
		regions:      append([]string(nil), doc.Regions...),
		months:       append([]string(nil), doc.Months...),
	}
	for name, text := range doc.Descriptions {
		c.descriptions[strings.TrimSpace(name)] = strings.TrimSpace(text)
	}
	for _, group := range doc.Crops {
		c.crops = append(c.crops, CropGroup{
			Name:  group.Name,
			Items: append([]string(nil), group.Items...),
		})
	}
	return c, nil
}

func (d document) validate() error {
	if strings.TrimSpace(d.Fallback) == "" {
		return errors.New("catalog: fallback_description is required")
	}
	if len(d.Descriptions) == 0 {
		return errors.New("catalog: descriptions are required")
	}
	seen := make(map[model.FieldID]struct{}, len(d.Parameters))
	for _, p := range d.Parameters {
		if !p.Field.IsNumeric() {
			return fmt.Errorf("catalog: parameter %q is not a numeric field", p.Field)
		}
		if _, dup := seen[p.Field]; dup {
			return fmt.Errorf("catalog: parameter %q declared twice", p.Field)
		}
		seen[p.Field] = struct{}{}
		if p.Min > p.Max {
			return fmt.Errorf("catalog: parameter %q has min > max", p.Field)
		}
		if !p.Contains(p.Default) {
			return fmt.Errorf("catalog: parameter %q default %v outside [%v, %v]", p.Field, p.Default, p.Min, p.Max)
		}
	}
	for _, id := range model.NumericFields {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("catalog: parameter %q missing", id)
		}
	}
	if len(d.Crops) == 0 || len(d.Regions) == 0 || len(d.Months) == 0 {
		return errors.New("catalog: crops, regions and months are required")
	}
	return nil
}

// Describe returns the description for a fertilizer, or the generic fallback
// when the name is unknown.
func (c *Catalog) Describe(name string) string {
	if text, ok := c.Lookup(name); ok {
		return text
	}
	return c.fallback
}

// Lookup returns the description for an exact fertilizer name.
func (c *Catalog) Lookup(name string) (string, bool) {
	text, ok := c.descriptions[name]
	return text, ok
}

// FallbackDescription is the text used for unknown fertilizers.
func (c *Catalog) FallbackDescription() string {
	return c.fallback
}

// Parameter returns the range for a numeric field.
func (c *Catalog) Parameter(id model.FieldID) (Parameter, bool) {
	for _, p := range c.parameters {
		if p.Field == id {
			return p, true
		}
	}
	return Parameter{}, false
}

// Parameters returns every numeric range in declaration order.
func (c *Catalog) Parameters() []Parameter {
	return append([]Parameter(nil), c.parameters...)
}

// CropGroups returns the crop options grouped as declared.
func (c *Catalog) CropGroups() []CropGroup {
	out := make([]CropGroup, len(c.crops))
	for i, g := range c.crops {
		out[i] = CropGroup{Name: g.Name, Items: append([]string(nil), g.Items...)}
	}
	return out
}

// Crops flattens every crop group in order.
func (c *Catalog) Crops() []string {
	var out []string
	for _, g := range c.crops {
		out = append(out, g.Items...)
	}
	return out
}

// Regions returns the region options.
func (c *Catalog) Regions() []string {
	return append([]string(nil), c.regions...)
}

// Months returns the month options.
func (c *Catalog) Months() []string {
	return append([]string(nil), c.months...)
}

// Options returns the select options for a text field, or nil.
func (c *Catalog) Options(id model.FieldID) []string {
	switch id {
	case model.FieldCrop:
		return c.Crops()
	case model.FieldRegion:
		return c.Regions()
	case model.FieldMonth:
		return c.Months()
	default:
		return nil
	}
}

// Defaults returns the initial widget values: the first option of each select
// and the declared default of each measurement.
func (c *Catalog) Defaults() model.FormValues {
	values := make(model.FormValues, len(model.AllFields()))
	for _, id := range model.TextFields {
		if opts := c.Options(id); len(opts) > 0 {
			values[id] = opts[0]
		}
	}
	for _, p := range c.parameters {
		values[p.Field] = p.DefaultString()
	}
	return values
}

// FormatNumber renders v the way a range input reports its value ("50", "6.5").
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
