// Package template defines the template rendering seam used by the page host.
// The gotemplate subpackage provides the pongo2-backed implementation.
package template
