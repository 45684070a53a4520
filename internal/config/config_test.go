package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestParse_MergesOverDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
endpoint: https://predict.example.com/predict
timeout: 2s
labels:
  busy: "Working..."
breaker:
  enabled: true
  max_failures: 3
theme:
  name: acme
  tokens:
    brand: "#123456"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := Default()
	want.Endpoint = "https://predict.example.com/predict"
	want.Timeout = 2 * time.Second
	want.Labels.Busy = "Working..."
	want.Breaker.Enabled = true
	want.Breaker.MaxFailures = 3
	want.Theme = Theme{Name: "acme", Tokens: map[string]string{"brand": "#123456"}}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":       "endpont: http://x/predict",
		"relative endpoint": "endpoint: /predict",
		"zero timeout":      "timeout: 0s",
		"bad level":         "log_level: chatty",
		"breaker":           "breaker: {enabled: true, max_failures: 0}",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParse_EmptyDocumentKeepsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fertform.yaml")
	if err := os.WriteFile(path, []byte("listen: \":9000\"\nbanner_delay: 1500ms\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FERTFORM_ENDPOINT", "http://backend:5000/predict")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != ":9000" || cfg.BannerDelay != 1500*time.Millisecond {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Endpoint != "http://backend:5000/predict" {
		t.Fatalf("env endpoint not applied: %s", cfg.Endpoint)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "config: read") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestRendererTheme(t *testing.T) {
	if Default().RendererTheme() != nil {
		t.Fatalf("expected nil theme without configuration")
	}

	cfg := Default()
	cfg.Theme = Theme{Name: "acme", Variant: "dark", Stylesheet: "/static/acme.css"}
	rt := cfg.RendererTheme()
	if rt == nil || rt.Theme != "acme" || rt.Variant != "dark" {
		t.Fatalf("theme = %+v", rt)
	}
	if rt.AssetURL == nil || rt.AssetURL("page.stylesheet") != "/static/acme.css" {
		t.Fatalf("stylesheet resolver not set")
	}
}
