// Package render defines how a view.Snapshot becomes a response body and keeps
// a registry of the available formats.
package render

import (
	"context"

	"github.com/goliatone/go-fertform/pkg/view"
)

// Renderer converts a snapshot into bytes (HTML, JSON, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, snap view.Snapshot) ([]byte, error)
}

// Func adapts a function to Renderer.
func Func(name, contentType string, fn func(ctx context.Context, snap view.Snapshot) ([]byte, error)) Renderer {
	return funcRenderer{name: name, contentType: contentType, fn: fn}
}

type funcRenderer struct {
	name        string
	contentType string
	fn          func(ctx context.Context, snap view.Snapshot) ([]byte, error)
}

func (f funcRenderer) Name() string        { return f.name }
func (f funcRenderer) ContentType() string { return f.contentType }

func (f funcRenderer) Render(ctx context.Context, snap view.Snapshot) ([]byte, error) {
	return f.fn(ctx, snap)
}
