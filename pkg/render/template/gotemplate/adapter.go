// Package gotemplate implements template.TemplateRenderer on a pongo2 template
// set loaded from an fs.FS.
package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-fertform/pkg/render/template"
)

const extension = ".tpl"

// Option configures the engine before construction.
type Option func(*Engine)

// WithFS sets the template source. Required.
func WithFS(files fs.FS) Option {
	return func(e *Engine) {
		e.files = files
	}
}

// WithSetName names the pongo2 template set, which shows up in template errors.
func WithSetName(name string) Option {
	return func(e *Engine) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			e.setName = trimmed
		}
	}
}

// Engine renders ".tpl" templates from a pongo2 set. Parsed templates are
// cached by name.
type Engine struct {
	files   fs.FS
	setName string

	mu     sync.RWMutex
	set    *pongo2.TemplateSet
	parsed map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an engine over the configured fs.FS and registers the squash
// filter.
func New(options ...Option) (*Engine, error) {
	e := &Engine{setName: "fertform", parsed: map[string]*pongo2.Template{}}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.files == nil {
		return nil, errors.New("gotemplate: templates fs.FS required")
	}

	e.set = pongo2.NewSet(e.setName, pongo2.NewFSLoader(e.files))
	e.set.Globals = pongo2.Context{}
	if !pongo2.FilterExists("squash") {
		if err := pongo2.RegisterFilter("squash", filterSquash); err != nil {
			return nil, fmt.Errorf("gotemplate: register squash: %w", err)
		}
	}
	return e, nil
}

// RenderTemplate renders name, appending ".tpl" when missing.
func (e *Engine) RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	if !strings.HasSuffix(name, extension) {
		name += extension
	}

	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(pongo2.Context(data), &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute %q: %w", name, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// GlobalContext merges data into the set globals.
func (e *Engine) GlobalContext(data map[string]any) error {
	if e == nil || e.set == nil {
		return errors.New("gotemplate: engine is nil")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for key, value := range data {
		if key = strings.TrimSpace(key); key != "" {
			e.set.Globals[key] = value
		}
	}
	return nil
}

func (e *Engine) lookup(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.parsed[name]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.parsed[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load %q: %w", name, err)
	}
	e.parsed[name] = tmpl
	return tmpl, nil
}

// filterSquash collapses runs of whitespace so multi-line server messages fit
// on one line of markup.
func filterSquash(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.Join(strings.Fields(in.String()), " ")), nil
}
