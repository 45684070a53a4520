// Package controller implements the fertilizer form interaction logic against
// an injected View: slider label synchronization, submission with a busy
// bracket, result and error rendering, and the transient save-to-history
// banner. Hosts own the event loop and deliver events through the View.
package controller
