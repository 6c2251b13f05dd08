package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Cyr-Ch/filmmaker/domain"
)

func TestLoadStyles_Default(t *testing.T) {
	styles, err := LoadStyles("")
	if err != nil {
		t.Fatal("Failed to load the built-in styles:", err)
	}

	byName := map[string]domain.StyleDescriptor{}
	for _, style := range styles {
		byName[style.Name] = style
	}
	if byName["Internet Videos"].Kind != domain.StockSyntheticKind {
		t.Fatal("Internet Videos must be a stock style")
	}
	if zoom, ok := byName["Infinite Zoom"]; !ok || zoom.Kind != domain.GeneratedSyntheticKind || zoom.Model == "" {
		t.Fatalf("unexpected Infinite Zoom style %+v", zoom)
	}
}

func TestLoadStyles_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.yaml")
	data := []byte("styles:\n  - name: Custom\n    kind: stock\n    prompt: Describe footage.\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	styles, err := LoadStyles(path)
	if err != nil {
		t.Fatal("Failed to load styles:", err)
	}
	if len(styles) != 1 || styles[0].Name != "Custom" || styles[0].PromptTemplate != "Describe footage." {
		t.Fatalf("unexpected styles %+v", styles)
	}

	if _, err := LoadStyles(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Expected a missing file to fail")
	}
}

func TestParseStyles_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":        "styles: []\n",
		"no name":      "styles:\n  - kind: stock\n    prompt: p\n",
		"duplicate":    "styles:\n  - {name: A, kind: stock, prompt: p}\n  - {name: A, kind: stock, prompt: p}\n",
		"no model":     "styles:\n  - {name: A, kind: generated, prompt: p}\n",
		"unknown kind": "styles:\n  - {name: A, kind: painted, prompt: p}\n",
		"no template":  "styles:\n  - {name: A, kind: stock}\n",
		"invalid yaml": "styles: [",
	}
	for name, data := range cases {
		if _, err := ParseStyles([]byte(data)); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SCENE_WORKERS", "6")
	t.Setenv("CAPTIONS_ENABLED", "false")
	t.Setenv("REPLICATE_POLL_INTERVAL", "500ms")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("BUCKET_NAME", "")
	t.Setenv("STYLES_FILE", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatal("Failed to load config:", err)
	}
	if cfg.Server.Addr() != ":9090" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr())
	}
	if cfg.Pipeline.SceneWorkers != 6 || cfg.Pipeline.CaptionsEnabled {
		t.Fatalf("unexpected pipeline config %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.DefaultStyle != "Infinite Zoom" {
		t.Fatalf("unexpected default style %q", cfg.Pipeline.DefaultStyle)
	}
	if cfg.Replicate.PollInterval != 500*time.Millisecond {
		t.Fatalf("unexpected poll interval %v", cfg.Replicate.PollInterval)
	}
	if cfg.Gpt.Enabled() || cfg.S3.Enabled() {
		t.Fatal("Services without credentials must be disabled")
	}
	if len(cfg.Styles) == 0 {
		t.Fatal("Expected the built-in styles")
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"bad port":          {"PORT", "http"},
		"port out of range": {"PORT", "70000"},
		"no scene workers":  {"SCENE_WORKERS", "0"},
		"bad bool":          {"KEEP_WORK_DIR", "maybe"},
		"bad duration":      {"REPLICATE_TIMEOUT", "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env[0], env[1])
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected %s=%s to fail", env[0], env[1])
			}
		})
	}
}

func TestGetS3Config_RequiresRegion(t *testing.T) {
	t.Setenv("BUCKET_NAME", "films")
	t.Setenv("REGION", "")
	if _, err := GetS3Config(); err == nil {
		t.Fatal("Expected a bucket without region to fail")
	}
}
