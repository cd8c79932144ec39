package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/purpleghosts/JetGhost-Suite/internal/config"
	"github.com/purpleghosts/JetGhost-Suite/internal/fetch"
	"github.com/purpleghosts/JetGhost-Suite/internal/model"
	"github.com/purpleghosts/JetGhost-Suite/internal/report"
)

// TestNewAuditCmd tests the audit command creation.
func TestNewAuditCmd(t *testing.T) {
	t.Parallel()

	cmd := NewAuditCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "audit <site|sitemap.xml>" {
			t.Errorf("expected use 'audit <site|sitemap.xml>', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has leaks flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("leaks")
		if flag == nil {
			t.Fatal("expected leaks flag")
		}
		if flag.Shorthand != "l" {
			t.Errorf("expected shorthand 'l', got %q", flag.Shorthand)
		}
	})

	t.Run("has timeout flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("timeout")
		if flag == nil {
			t.Fatal("expected timeout flag")
		}
		if flag.Shorthand != "t" {
			t.Errorf("expected shorthand 't', got %q", flag.Shorthand)
		}
	})

	t.Run("has delay flag with pacing default", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("delay")
		if flag == nil {
			t.Fatal("expected delay flag")
		}
		if flag.DefValue != "250ms" {
			t.Errorf("expected default '250ms', got %q", flag.DefValue)
		}
	})

	t.Run("has gate flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"jetpack-only", "assert-jetpack-leak", "detect-only"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("has report format flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"brief", "json", "markdown", "output"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})
}

// TestBuildAuditConfig tests configuration assembly from flags.
func TestBuildAuditConfig(t *testing.T) {
	t.Run("builds config with default values", func(t *testing.T) {
		cmd := NewAuditCmd()
		cfg, err := buildAuditConfig(cmd, []string{"https://blog.example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Targets) != 1 || cfg.Targets[0] != "https://blog.example.com" {
			t.Errorf("expected targets [https://blog.example.com], got %v", cfg.Targets)
		}
		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("expected default timeout, got %v", cfg.Timeout)
		}
		if cfg.MaxSitemapDepth != config.DefaultMaxSitemapDepth {
			t.Errorf("expected default depth, got %d", cfg.MaxSitemapDepth)
		}
		if cfg.JetpackOnly || cfg.DetectOnly {
			t.Error("expected gate flags to default to false")
		}
	})

	t.Run("default delay paces at four requests per second", func(t *testing.T) {
		cmd := NewAuditCmd()
		cfg, err := buildAuditConfig(cmd, []string{"https://blog.example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.RequestsPerSecond != 4 {
			t.Errorf("expected 4 rps from 250ms delay, got %v", cfg.RequestsPerSecond)
		}
	})

	t.Run("zero delay disables pacing", func(t *testing.T) {
		cmd := NewAuditCmd()
		_ = cmd.Flags().Set("delay", "0")
		cfg, err := buildAuditConfig(cmd, []string{"https://blog.example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.RequestsPerSecond != 0 {
			t.Errorf("expected 0 rps, got %v", cfg.RequestsPerSecond)
		}
	})

	t.Run("splits and trims leak kinds", func(t *testing.T) {
		cmd := NewAuditCmd()
		_ = cmd.Flags().Set("leaks", "image, video")
		cfg, err := buildAuditConfig(cmd, []string{"https://blog.example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.LeakKinds) != 2 || cfg.LeakKinds[0] != "image" || cfg.LeakKinds[1] != "video" {
			t.Errorf("expected [image video], got %v", cfg.LeakKinds)
		}
	})

	t.Run("builds config with output file", func(t *testing.T) {
		cmd := NewAuditCmd()
		_ = cmd.Flags().Set("output", "/tmp/report.json")
		cfg, err := buildAuditConfig(cmd, []string{"https://blog.example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.ReportFile != "/tmp/report.json" {
			t.Errorf("expected ReportFile '/tmp/report.json', got %q", cfg.ReportFile)
		}
	})

	t.Run("builds config with valid config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "jetghost.yaml")

		content := []byte(`
defaults:
  maxSitemapDepth: 5
sites:
  blog.example.com:
    headers:
      Authorization: Basic dXNlcjpwYXNz
`)
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewAuditCmd()
		_ = cmd.Flags().Set("config", configPath)
		cfg, err := buildAuditConfig(cmd, []string{"https://blog.example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.SiteConfigs == nil {
			t.Fatal("expected SiteConfigs to be loaded")
		}
		if cfg.SiteConfigs.Defaults.MaxSitemapDepth != 5 {
			t.Errorf("expected default depth 5, got %d", cfg.SiteConfigs.Defaults.MaxSitemapDepth)
		}
	})

	t.Run("returns error for missing explicit config file", func(t *testing.T) {
		cmd := NewAuditCmd()
		_ = cmd.Flags().Set("config", filepath.Join(t.TempDir(), "nope.yaml"))
		if _, err := buildAuditConfig(cmd, []string{"https://blog.example.com"}); err == nil {
			t.Fatal("expected error for missing config file")
		}
	})

	t.Run("returns error for invalid config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte(`{invalid yaml`), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewAuditCmd()
		_ = cmd.Flags().Set("config", configPath)
		if _, err := buildAuditConfig(cmd, []string{"https://blog.example.com"}); err == nil {
			t.Fatal("expected error for invalid config file")
		}
	})
}

// TestParseLeakKinds tests flag-string to media-kind conversion.
func TestParseLeakKinds(t *testing.T) {
	t.Parallel()

	t.Run("parses known kinds", func(t *testing.T) {
		t.Parallel()
		kinds := parseLeakKinds([]string{"image", "video", "attachment"})
		if len(kinds) != 3 {
			t.Fatalf("expected 3 kinds, got %d", len(kinds))
		}
		if kinds[0] != model.MediaKindImage || kinds[1] != model.MediaKindVideo || kinds[2] != model.MediaKindAttachment {
			t.Errorf("unexpected kinds: %v", kinds)
		}
	})

	t.Run("skips unknown kinds", func(t *testing.T) {
		t.Parallel()
		kinds := parseLeakKinds([]string{"image", "hologram"})
		if len(kinds) != 1 || kinds[0] != model.MediaKindImage {
			t.Errorf("expected [image], got %v", kinds)
		}
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		t.Parallel()
		if kinds := parseLeakKinds(nil); len(kinds) != 0 {
			t.Errorf("expected no kinds, got %v", kinds)
		}
	})
}

// TestSiteConfigFor tests per-host policy resolution.
func TestSiteConfigFor(t *testing.T) {
	t.Parallel()

	t.Run("returns empty config when none loaded", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		sc := siteConfigFor(cfg, "https://blog.example.com")
		if len(sc.Headers) != 0 {
			t.Errorf("expected empty site config, got %+v", sc)
		}
	})

	t.Run("matches by host", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.SiteConfigs = &config.File{
			Sites: map[string]config.SiteConfig{
				"blog.example.com": {Headers: map[string]string{"X-Auth": "token"}},
			},
		}
		sc := siteConfigFor(cfg, "https://blog.example.com/sitemap.xml")
		if sc.Headers["X-Auth"] != "token" {
			t.Errorf("expected host entry to match, got %+v", sc)
		}
	})
}

// TestVerifyLeaks tests HEAD-probe confirmation of leak records.
func TestVerifyLeaks(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/still-there.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			w.WriteHeader(http.StatusOK)
		case "/deleted.jpg":
			w.WriteHeader(http.StatusNotFound)
		case "/withdrawn.pdf":
			w.WriteHeader(http.StatusGone)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := fetch.NewClient(fetch.WithRequestsPerSecond(0))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	leaks := []model.LeakRecord{
		{MediaURL: server.URL + "/still-there.jpg", Kind: model.MediaKindImage, Mode: model.LeakModePost},
		{MediaURL: server.URL + "/deleted.jpg", Kind: model.MediaKindImage, Mode: model.LeakModePost},
		{MediaURL: server.URL + "/withdrawn.pdf", Kind: model.MediaKindAttachment, Mode: model.LeakModeOrphanAttachment},
		{MediaURL: server.URL + "/flaky.jpg", Kind: model.MediaKindImage, Mode: model.LeakModePost},
	}

	confirmed := verifyLeaks(context.Background(), client, leaks, logger)

	if len(confirmed) != 2 {
		t.Fatalf("expected 2 confirmed leaks, got %d", len(confirmed))
	}
	if confirmed[0].MediaURL != server.URL+"/still-there.jpg" {
		t.Errorf("expected the live URL to survive, got %q", confirmed[0].MediaURL)
	}
	// 500 is not proof of deletion, so the flaky record stays in.
	if confirmed[1].MediaURL != server.URL+"/flaky.jpg" {
		t.Errorf("expected the unverifiable URL to survive, got %q", confirmed[1].MediaURL)
	}
}

// TestSelectWriter tests report format selection.
func TestSelectWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(*config.Config)
		want  string
	}{
		{"brief", func(c *config.Config) { c.Brief = true }, "*report.BriefWriter"},
		{"json", func(c *config.Config) { c.JSONReport = true }, "*report.JSONWriter"},
		{"markdown", func(c *config.Config) { c.MarkdownReport = true }, "*report.MarkdownWriter"},
		{"default simple", func(*config.Config) {}, "*report.SimpleWriter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.NewConfig()
			tt.setup(cfg)

			var got string
			switch selectWriter(cfg, os.Stdout).(type) {
			case *report.BriefWriter:
				got = "*report.BriefWriter"
			case *report.JSONWriter:
				got = "*report.JSONWriter"
			case *report.MarkdownWriter:
				got = "*report.MarkdownWriter"
			case *report.SimpleWriter:
				got = "*report.SimpleWriter"
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

// TestOpenReportOutput tests report destination handling.
func TestOpenReportOutput(t *testing.T) {
	t.Parallel()

	t.Run("empty path means stdout", func(t *testing.T) {
		t.Parallel()
		f, closer, err := openReportOutput("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer closer()
		if f != os.Stdout {
			t.Error("expected stdout")
		}
	})

	t.Run("creates missing parent directories", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "reports", "nested", "audit.txt")
		f, closer, err := openReportOutput(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		closer()
		if f.Name() != path {
			t.Errorf("expected %q, got %q", path, f.Name())
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file to exist: %v", err)
		}
	})
}
