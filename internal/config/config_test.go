package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pable/go-lol-positions/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"RIOT_API_KEY", "LOLPOS_REGION", "LOLPOS_MATCH_COUNT", "LOLPOS_QUEUE_TYPE", "LOLPOS_WORKERS", "LOLPOS_HTTP_TIMEOUT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Region != "americas" {
		t.Errorf("Region: want americas, got %q", cfg.Region)
	}
	if cfg.MatchCount != 10 || cfg.QueueType != "ranked" || cfg.Workers != 4 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout: want 30s, got %v", cfg.HTTPTimeout)
	}
	if !errors.Is(cfg.RequireAPIKey(), ErrMissingAPIKey) {
		t.Error("expected ErrMissingAPIKey with no key set")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("RIOT_API_KEY", " RGAPI-abc ")
	t.Setenv("LOLPOS_REGION", "EUROPE")
	t.Setenv("LOLPOS_MATCH_COUNT", "25")
	t.Setenv("LOLPOS_HTTP_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "RGAPI-abc" || cfg.Region != "europe" || cfg.MatchCount != 25 || cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("unexpected config %+v", cfg)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		t.Errorf("RequireAPIKey: %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"bad region":   {"LOLPOS_REGION", "mars"},
		"count zero":   {"LOLPOS_MATCH_COUNT", "0"},
		"count large":  {"LOLPOS_MATCH_COUNT", "101"},
		"not a number": {"LOLPOS_MATCH_COUNT", "ten"},
		"no workers":   {"LOLPOS_WORKERS", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadMapProfiles_Default(t *testing.T) {
	profiles, err := LoadMapProfiles("")
	if err != nil {
		t.Fatalf("LoadMapProfiles: %v", err)
	}
	p, err := profiles.Get(model.DefaultMapName)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p != model.DefaultMapProfile {
		t.Errorf("default profile mismatch: %+v", p)
	}
	if _, err := profiles.Get("howling-abyss"); err == nil {
		t.Error("expected error for unknown map")
	}
}

func TestLoadMapProfiles_MergesFile(t *testing.T) {
	path := writeFile(t, "maps.toml", `
[[map]]
name = "howling-abyss"
offset = -120
extent = 12980
canvas = 800
margin = 10

[[map]]
name = "summoners-rift"
offset = 0
extent = 15000
canvas = 1000
margin = 0
`)
	profiles, err := LoadMapProfiles(path)
	if err != nil {
		t.Fatalf("LoadMapProfiles: %v", err)
	}
	if names := profiles.Names(); strings.Join(names, ",") != "howling-abyss,summoners-rift" {
		t.Errorf("Names: got %v", names)
	}
	sr, _ := profiles.Get("summoners-rift")
	if sr.Extent != 15000 || sr.Canvas != 1000 {
		t.Errorf("file entry should override the built-in, got %+v", sr)
	}
	ha, _ := profiles.Get("howling-abyss")
	if ha.Offset != -120 {
		t.Errorf("howling-abyss offset: want -120, got %g", ha.Offset)
	}
}

func TestLoadMapProfiles_Errors(t *testing.T) {
	cases := map[string]string{
		"zero extent": "[[map]]\nname = \"x\"\nextent = 0\ncanvas = 800\n",
		"no name":     "[[map]]\nextent = 100\ncanvas = 800\n",
		"duplicate":   "[[map]]\nname = \"x\"\nextent = 1\ncanvas = 1\n[[map]]\nname = \"x\"\nextent = 1\ncanvas = 1\n",
		"bad toml":    "[[map]\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, "maps.toml", content)
			if _, err := LoadMapProfiles(path); err == nil {
				t.Error("expected error")
			}
		})
	}
	if _, err := LoadMapProfiles(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("LOLPOS_TEST_DOTENV=loaded\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("LOLPOS_TEST_DOTENV", "")
	os.Unsetenv("LOLPOS_TEST_DOTENV")

	if got := LoadDotEnv(); got != ".env" {
		t.Errorf("LoadDotEnv: want .env, got %q", got)
	}
	if v := os.Getenv("LOLPOS_TEST_DOTENV"); v != "loaded" {
		t.Errorf("expected variable from .env, got %q", v)
	}
}
