package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/purpleghosts/JetGhost-Suite/internal/config"
)

// TestNewFingerprintCmd tests the fingerprint command creation.
func TestNewFingerprintCmd(t *testing.T) {
	t.Parallel()

	cmd := NewFingerprintCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "fingerprint [sites...]" {
			t.Errorf("expected use 'fingerprint [sites...]', got %q", cmd.Use)
		}
	})

	t.Run("has input flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("input")
		if flag == nil {
			t.Fatal("expected input flag")
		}
		if flag.Shorthand != "i" {
			t.Errorf("expected shorthand 'i', got %q", flag.Shorthand)
		}
	})

	t.Run("has concurrency flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("concurrency")
		if flag == nil {
			t.Fatal("expected concurrency flag")
		}
		if flag.Shorthand != "b" {
			t.Errorf("expected shorthand 'b', got %q", flag.Shorthand)
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

	t.Run("max-kb default matches the snippet budget", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("max-kb")
		if flag == nil {
			t.Fatal("expected max-kb flag")
		}
		if flag.DefValue != strconv.FormatInt(config.DefaultSnippetBytes/1024, 10) {
			t.Errorf("expected default %d, got %q", config.DefaultSnippetBytes/1024, flag.DefValue)
		}
	})

	t.Run("help describes the sitemap probe", func(t *testing.T) {
		t.Parallel()
		if !strings.Contains(cmd.Long, "sitemap") {
			t.Error("expected long description to mention the sitemap probe")
		}
		if strings.Contains(cmd.Long, "front page") {
			t.Error("long description claims a fetch the sweep does not make")
		}
	})
}

// TestCollectTargets tests target list assembly.
func TestCollectTargets(t *testing.T) {
	t.Parallel()

	t.Run("positional arguments only", func(t *testing.T) {
		t.Parallel()
		targets, err := collectTargets([]string{"https://a.example.com", "https://b.example.com"}, "", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(targets) != 2 {
			t.Errorf("expected 2 targets, got %v", targets)
		}
	})

	t.Run("reads input file and skips blanks and comments", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "sites.txt")
		content := "https://a.example.com\n\n# staging, skip for now\n  https://b.example.com  \n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write input file: %v", err)
		}

		targets, err := collectTargets(nil, path, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(targets) != 2 {
			t.Fatalf("expected 2 targets, got %v", targets)
		}
		if targets[1] != "https://b.example.com" {
			t.Errorf("expected trimmed URL, got %q", targets[1])
		}
	})

	t.Run("merges arguments with file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "sites.txt")
		if err := os.WriteFile(path, []byte("https://b.example.com\n"), 0o600); err != nil {
			t.Fatalf("failed to write input file: %v", err)
		}

		targets, err := collectTargets([]string{"https://a.example.com"}, path, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(targets) != 2 || targets[0] != "https://a.example.com" {
			t.Errorf("expected arguments first, got %v", targets)
		}
	})

	t.Run("dash reads stdin", func(t *testing.T) {
		t.Parallel()
		stdin := strings.NewReader("https://a.example.com\nhttps://b.example.com\n")
		targets, err := collectTargets(nil, "-", stdin)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(targets) != 2 {
			t.Errorf("expected 2 targets, got %v", targets)
		}
	})

	t.Run("missing input file errors", func(t *testing.T) {
		t.Parallel()
		if _, err := collectTargets(nil, filepath.Join(t.TempDir(), "nope.txt"), nil); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}

// TestRunFingerprintCmdSweep tests a brief sweep over an unreachable target.
func TestRunFingerprintCmdSweep(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "sweep.tsv")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{
		"fingerprint",
		"--brief",
		"--timeout", "2s",
		"--output", outPath,
		"http://127.0.0.1:1", // nothing listens on port 1
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read sweep output: %v", err)
	}
	if !strings.Contains(string(data), "unreachable\thttp://127.0.0.1:1") {
		t.Errorf("expected unreachable verdict, got:\n%s", string(data))
	}
}
