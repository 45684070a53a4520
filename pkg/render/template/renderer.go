package template

import (
	"io"
)

// TemplateRenderer renders named templates. When writers are given the output
// is also written to each of them. Values passed to GlobalContext are visible
// to every later render and are shadowed by per-render data.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
	GlobalContext(data map[string]any) error
}
