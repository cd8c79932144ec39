package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/purpleghosts/JetGhost-Suite/internal/config"
	"github.com/purpleghosts/JetGhost-Suite/internal/fetch"
	"github.com/purpleghosts/JetGhost-Suite/internal/fingerprint"
	jglog "github.com/purpleghosts/JetGhost-Suite/internal/log"
)

// NewFingerprintCmd creates the fingerprint command.
func NewFingerprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint [sites...]",
		Short: "Classify many sites by WordPress media-stack fingerprint",
		Long: `Fingerprint sweeps a list of sites, reads a bounded snippet of each
target's sitemap, and classifies every target as jetpack_like,
self_hosted, likely_leaking, or unreachable. It never fetches post
pages, so a sweep over hundreds of sites stays cheap.

Targets come from positional arguments, from --input, or both.

Examples:
  # Sweep three sites
  jetghost fingerprint https://a.example.com https://b.example.com https://c.example.com

  # Read targets from a file, one URL per line
  jetghost fingerprint --input sites.txt

  # Pipe targets in, JSON out
  cat sites.txt | jetghost fingerprint --input - --json`,
		RunE: runFingerprintCmd,
	}

	cmd.Flags().StringP("input", "i", "",
		"File with one target URL per line ('-' reads stdin; blank lines and # comments skipped)")
	cmd.Flags().IntP("concurrency", "b", config.DefaultConcurrency,
		"Number of sites probed in parallel")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request timeout")
	cmd.Flags().Int64("max-kb", config.DefaultSnippetBytes/1024,
		"Maximum kilobytes of each page inspected for evidence")
	cmd.Flags().Bool("insecure", false,
		"Retry https fetches over plain http after a TLS failure")

	cmd.Flags().Bool("brief", false,
		"One TSV line per target (mutually exclusive with --json/--markdown)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --brief/--markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --brief/--json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runFingerprintCmd executes the fingerprint command.
func runFingerprintCmd(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()

	var err error
	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return err
	}
	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	maxKB, err := cmd.Flags().GetInt64("max-kb")
	if err != nil {
		return err
	}
	cfg.SnippetBytes = maxKB * 1024
	cfg.InsecureFallback, err = cmd.Flags().GetBool("insecure")
	if err != nil {
		return err
	}
	cfg.Brief, err = cmd.Flags().GetBool("brief")
	if err != nil {
		return err
	}
	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}
	cfg.Targets, err = collectTargets(args, input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := jglog.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	client := fetch.NewClient(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithMaxBodySize(cfg.SnippetBytes),
		fetch.WithRequestsPerSecond(0),
		fetch.WithInsecureFallback(cfg.InsecureFallback),
	)

	scanner := fingerprint.NewScanner(client,
		fingerprint.WithConcurrency(cfg.Concurrency),
		fingerprint.WithLogger(logger),
	)

	targets, err := scanner.Scan(ctx, cfg.Targets)
	if err != nil {
		return err
	}

	output, closer, err := openReportOutput(cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closer()

	_, err = selectWriter(cfg, output).WriteSweep(targets)
	return err
}

// collectTargets merges positional targets with the --input file.
// The name "-" reads stdin. Blank lines and #-comment lines are skipped.
func collectTargets(args []string, input string, stdin io.Reader) ([]string, error) {
	targets := make([]string, 0, len(args))
	targets = append(targets, args...)

	if input == "" {
		return targets, nil
	}

	var r io.Reader
	if input == "-" {
		r = stdin
	} else {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		r = f
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read target list: %w", err)
	}
	return targets, nil
}
