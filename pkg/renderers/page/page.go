// Package page renders a view.Snapshot as the server-side HTML form page. The
// markup carries every element id the controller's view contract names, so a
// browser sees the same page the original script expected.
package page

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-fertform/pkg/catalog"
	"github.com/goliatone/go-fertform/pkg/controller"
	"github.com/goliatone/go-fertform/pkg/model"
	"github.com/goliatone/go-fertform/pkg/render"
	"github.com/goliatone/go-fertform/pkg/render/template"
	"github.com/goliatone/go-fertform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-fertform/pkg/view"
)

const (
	pageTemplate = "page"
	infoPrefix   = "About this fertilizer:"
	defaultTitle = "Fertilizer Recommendation"

	// StylesheetAsset is the theme asset key resolved for the page stylesheet.
	StylesheetAsset = "page.stylesheet"
)

// Carried result fields posted back by the save form.
const (
	CarryFertilizer     = "fertilizer"
	CarryFertilizerType = "fertilizer_type"
	CarryCrop           = "result_crop"
	CarryRegion         = "result_region"
	CarryMonth          = "result_month"
)

// Renderer turns snapshots into HTML.
type Renderer struct {
	templates   template.TemplateRenderer
	templatesFS fs.FS
	catalog     *catalog.Catalog
	policy      *bluemonday.Policy
	theme       *theme.RendererConfig
	title       string
	action      string
	bannerDelay time.Duration
	hidden      map[string]string
	stylesheet  string
}

// Option configures the renderer.
type Option func(*Renderer)

// WithTemplateRenderer swaps the template engine. The engine must provide a
// template named "page".
func WithTemplateRenderer(tr template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if tr != nil {
			r.templates = tr
		}
	}
}

// WithTemplatesFS loads templates from files instead of the embedded set.
func WithTemplatesFS(files fs.FS) Option {
	return func(r *Renderer) {
		if files != nil {
			r.templatesFS = files
		}
	}
}

// WithCatalog overrides the option and range catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(r *Renderer) {
		if c != nil {
			r.catalog = c
		}
	}
}

// WithTheme applies go-theme tokens, CSS variables and the stylesheet asset.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(r *Renderer) {
		r.theme = cfg
	}
}

// WithTitle sets the page heading.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			r.title = trimmed
		}
	}
}

// WithAction sets the form action URL. Defaults to "/".
func WithAction(action string) Option {
	return func(r *Renderer) {
		if trimmed := strings.TrimSpace(action); trimmed != "" {
			r.action = trimmed
		}
	}
}

// WithBannerDelay sets how long banners stay visible in the browser.
func WithBannerDelay(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.bannerDelay = d
		}
	}
}

// WithPolicy overrides the sanitizer applied to server supplied text.
func WithPolicy(p *bluemonday.Policy) Option {
	return func(r *Renderer) {
		if p != nil {
			r.policy = p
		}
	}
}

// WithStylesheet links a stylesheet when the theme does not resolve one.
func WithStylesheet(url string) Option {
	return func(r *Renderer) {
		r.stylesheet = strings.TrimSpace(url)
	}
}

// WithHiddenFields adds inputs posted with both forms, such as a CSRF token.
// Later calls win on name collisions.
func WithHiddenFields(fields map[string]string) Option {
	return func(r *Renderer) {
		extra := make([]render.HiddenField, 0, len(fields))
		for name, value := range fields {
			extra = append(extra, render.Hidden(name, value))
		}
		r.hidden = render.MergeHiddenFields(r.hidden, extra...)
	}
}

// New constructs a renderer using the embedded templates unless overridden.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		catalog:     catalog.Default(),
		policy:      bluemonday.UGCPolicy(),
		title:       defaultTitle,
		action:      "/",
		bannerDelay: controller.DefaultBannerDelay,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.templates == nil {
		files := r.templatesFS
		if files == nil {
			files = TemplatesFS()
		}
		engine, err := gotemplate.New(gotemplate.WithFS(files), gotemplate.WithSetName("page"))
		if err != nil {
			return nil, fmt.Errorf("page: configure templates: %w", err)
		}
		r.templates = engine
	}
	if err := r.templates.GlobalContext(map[string]any{
		"title":        r.title,
		"action":       r.action,
		"info_prefix":  infoPrefix,
		"banner_delay": strconv.FormatInt(r.bannerDelay.Milliseconds(), 10),
	}); err != nil {
		return nil, fmt.Errorf("page: seed template globals: %w", err)
	}
	return r, nil
}

// Render writes the page for snap to out (when given) and returns it.
func (r *Renderer) Render(snap view.Snapshot, out ...io.Writer) (string, error) {
	if r == nil || r.templates == nil {
		return "", errors.New("page: renderer is not configured")
	}
	html, err := r.templates.RenderTemplate(pageTemplate, r.context(snap), out...)
	if err != nil {
		return "", fmt.Errorf("page: render: %w", err)
	}
	return html, nil
}

func (r *Renderer) context(snap view.Snapshot) map[string]any {
	ctx := map[string]any{
		"ids": map[string]any{
			"form":     model.FormID,
			"section":  model.ResultSectionID,
			"save":     model.SaveHistoryID,
			"name":     string(model.ResultFertilizerName),
			"category": string(model.ResultFertilizerCategory),
			"crop":     string(model.ResultCrop),
			"region":   string(model.ResultRegion),
			"month":    string(model.ResultMonth),
			"info":     string(model.ResultInfo),
		},
		"selects": r.selects(snap.Values),
		"sliders": r.ranges(snap, model.SliderFields),
		"numbers": r.ranges(snap, nonSliderNumerics()),
		"submit": map[string]any{
			"label":    snap.SubmitLabel,
			"disabled": snap.SubmitDisabled,
		},
		"hidden":  hiddenContext(render.SortedHiddenFields(r.hidden)),
		"results": r.results(snap),
		"theme":   themeContext(r.theme),
	}
	ctx["stylesheet"] = r.stylesheet
	if href, ok := ctx["theme"].(map[string]any)["stylesheet"].(string); ok && href != "" {
		ctx["stylesheet"] = href
	}
	return ctx
}

func (r *Renderer) selects(values model.FormValues) []any {
	labels := map[model.FieldID]string{
		model.FieldCrop:   "Crop",
		model.FieldRegion: "Region",
		model.FieldMonth:  "Month",
	}
	out := make([]any, 0, len(model.TextFields))
	for _, id := range model.TextFields {
		current := values.Get(id)
		var groups []any
		// A posted value outside the catalog stays selectable so the form
		// round-trips what the user sent.
		if current != "" && !contains(r.catalog.Options(id), current) {
			groups = append(groups, optionGroup("", []string{current}, current))
		}
		if id == model.FieldCrop {
			for _, g := range r.catalog.CropGroups() {
				groups = append(groups, optionGroup(groupLabel(g.Name), g.Items, current))
			}
		} else {
			groups = append(groups, optionGroup("", r.catalog.Options(id), current))
		}
		out = append(out, map[string]any{
			"id":     string(id),
			"label":  labels[id],
			"groups": groups,
		})
	}
	return out
}

func contains(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}

// groupLabel turns a catalog group key such as "cash_crops" into "Cash crops".
func groupLabel(name string) string {
	label := strings.ReplaceAll(strings.TrimSpace(name), "_", " ")
	if label == "" {
		return ""
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func optionGroup(name string, items []string, current string) map[string]any {
	options := make([]any, 0, len(items))
	for _, item := range items {
		options = append(options, map[string]any{
			"value":    item,
			"selected": item == current,
		})
	}
	return map[string]any{"name": name, "options": options}
}

func (r *Renderer) ranges(snap view.Snapshot, ids []model.FieldID) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		param, ok := r.catalog.Parameter(id)
		if !ok {
			param = catalog.Parameter{Field: id, Label: string(id), Step: 1}
		}
		value := snap.Values.Get(id)
		if value == "" {
			value = param.DefaultString()
		}
		entry := map[string]any{
			"id":    string(id),
			"label": param.Label,
			"unit":  param.Unit,
			"min":   catalog.FormatNumber(param.Min),
			"max":   catalog.FormatNumber(param.Max),
			"step":  catalog.FormatNumber(param.Step),
			"value": value,
		}
		if id.IsSlider() {
			entry["label_id"] = id.LabelID()
			entry["display"] = snap.SliderLabels[id]
		}
		out = append(out, entry)
	}
	return out
}

func (r *Renderer) results(snap view.Snapshot) map[string]any {
	out := map[string]any{
		"visible": snap.ResultsVisible,
		"scroll":  snap.ScrollRequested,
	}

	banners := make([]any, 0, len(snap.Banners))
	for _, b := range snap.Banners {
		banners = append(banners, map[string]any{
			"id":      b.ID,
			"kind":    string(b.Kind),
			"message": b.Message,
		})
	}
	out["banners"] = banners

	if snap.Error != nil {
		out["error"] = map[string]any{
			"message": r.sanitize(snap.Error.Message),
			"hint":    snap.Error.Hint,
		}
		return out
	}

	out["name"] = snap.Result(model.ResultFertilizerName)
	out["category"] = snap.Result(model.ResultFertilizerCategory)
	out["crop"] = snap.Result(model.ResultCrop)
	out["region"] = snap.Result(model.ResultRegion)
	out["month"] = snap.Result(model.ResultMonth)
	out["info"] = r.sanitize(snap.Result(model.ResultInfo))
	out["carry"] = hiddenContext(carry(snap))
	return out
}

func (r *Renderer) sanitize(raw string) string {
	return strings.TrimSpace(r.policy.Sanitize(raw))
}

// carry lists the hidden inputs that let the save form re-render the current
// recommendation and form state.
func carry(snap view.Snapshot) []render.HiddenField {
	out := make([]render.HiddenField, 0, len(model.AllFields())+5)
	for _, id := range model.AllFields() {
		out = append(out, render.Hidden(string(id), snap.Values.Get(id)))
	}
	return append(out,
		render.Hidden(CarryFertilizer, snap.Result(model.ResultFertilizerName)),
		render.Hidden(CarryFertilizerType, snap.Result(model.ResultFertilizerCategory)),
		render.Hidden(CarryCrop, snap.Result(model.ResultCrop)),
		render.Hidden(CarryRegion, snap.Result(model.ResultRegion)),
		render.Hidden(CarryMonth, snap.Result(model.ResultMonth)),
	)
}

func hiddenContext(fields []render.HiddenField) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, map[string]any{"name": f.Name, "value": f.Value})
	}
	return out
}

func nonSliderNumerics() []model.FieldID {
	var out []model.FieldID
	for _, id := range model.NumericFields {
		if !id.IsSlider() {
			out = append(out, id)
		}
	}
	return out
}

func themeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	ctx := map[string]any{
		"name":           cfg.Theme,
		"variant":        cfg.Variant,
		"css_vars_style": cssVarsStyle(cssVars(cfg)),
	}
	if cfg.AssetURL != nil {
		ctx["stylesheet"] = cfg.AssetURL(StylesheetAsset)
	}
	return ctx
}

// cssVars prefers explicit CSS variables and derives "--<token>" entries from
// tokens that have none.
func cssVars(cfg *theme.RendererConfig) map[string]string {
	out := make(map[string]string, len(cfg.CSSVars)+len(cfg.Tokens))
	for key, value := range cfg.Tokens {
		out["--"+key] = value
	}
	for key, value := range cfg.CSSVars {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	policy := bluemonday.StrictPolicy()
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(policy.Sanitize(key))
		b.WriteString(": ")
		b.WriteString(policy.Sanitize(vars[key]))
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
