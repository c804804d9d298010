package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mbmerge.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 5050 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if !strings.HasSuffix(cfg.Database.Path, "mbmerge.db") {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if !cfg.Submit.Harmony || !cfg.Submit.OpenBrowser {
		t.Errorf("submit = %+v", cfg.Submit)
	}
	if cfg.Sources.Concurrency != 4 {
		t.Errorf("concurrency = %d", cfg.Sources.Concurrency)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "text" {
		t.Errorf("logging = %s", cfg.Logging)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 6060
database:
  path: /tmp/mbm/test.db
logging:
  level: debug
  format: json
  file_path: /tmp/mbm/mbmerge.log
submit:
  harmony: false
  dump_dir: /tmp/mbm/dumps
sources:
  discogs_token: abc
  concurrency: 2
banned_urls:
  - https://www.deezer.com/artist/1
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 6060 || cfg.Database.Path != "/tmp/mbm/test.db" {
		t.Errorf("server/database = %+v %+v", cfg.Server, cfg.Database)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.FilePath != "/tmp/mbm/mbmerge.log" {
		t.Errorf("logging = %s", cfg.Logging)
	}
	if cfg.Logging.FileMaxFiles != 3 {
		t.Errorf("unset rotation settings should keep defaults, got %d", cfg.Logging.FileMaxFiles)
	}
	if cfg.Submit.Harmony || !cfg.Submit.OpenBrowser || cfg.Submit.DumpDir != "/tmp/mbm/dumps" {
		t.Errorf("submit = %+v", cfg.Submit)
	}
	if cfg.Sources.DiscogsToken != "abc" || cfg.Sources.Concurrency != 2 {
		t.Errorf("sources = %+v", cfg.Sources)
	}
	if len(cfg.BannedURLs) != 1 {
		t.Errorf("banned urls = %v", cfg.BannedURLs)
	}
	if cfg.DataDir() != "/tmp/mbm" {
		t.Errorf("data dir = %q", cfg.DataDir())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 6060\n")
	t.Setenv("MBM_PORT", "7070")
	t.Setenv("MBM_LOG_LEVEL", "error")
	t.Setenv("MBM_HARMONY", "false")
	t.Setenv("MBM_BANNED_URLS", "https://a.example.com, https://b.example.com,")
	t.Setenv("DISCOGS_TOKEN", "from-plain-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want env to win", cfg.Server.Port)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	if cfg.Submit.Harmony {
		t.Error("harmony should be disabled by env")
	}
	if len(cfg.BannedURLs) != 2 || cfg.BannedURLs[1] != "https://b.example.com" {
		t.Errorf("banned urls = %v", cfg.BannedURLs)
	}
	if cfg.Sources.DiscogsToken != "from-plain-env" {
		t.Errorf("discogs token = %q", cfg.Sources.DiscogsToken)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"port":        "server:\n  port: 70000\n",
		"level":       "logging:\n  level: loud\n",
		"format":      "logging:\n  format: xml\n",
		"concurrency": "sources:\n  concurrency: 0\n",
		"db path":     "database:\n  path: \"\"\n",
		"yaml":        "server: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("MBM_PORT", "not-a-port")
	if _, err := Load(""); err == nil {
		t.Error("expected error for non-numeric port")
	}
}
