package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/purpleghosts/JetGhost-Suite/internal/audit"
	"github.com/purpleghosts/JetGhost-Suite/internal/config"
	"github.com/purpleghosts/JetGhost-Suite/internal/fetch"
	jglog "github.com/purpleghosts/JetGhost-Suite/internal/log"
	"github.com/purpleghosts/JetGhost-Suite/internal/model"
	"github.com/purpleghosts/JetGhost-Suite/internal/report"
	"github.com/purpleghosts/JetGhost-Suite/internal/urlnorm"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <site|sitemap.xml>",
		Short: "Audit a WordPress site for media timeleaks",
		Long: `Audit locates a site's sitemap tree, fetches every advertised post page,
and diffs the sitemap's media declarations against what the live pages
actually render. Media still advertised but no longer shown is reported
as a leak.

Exit codes:
  0  audit completed, no leaks
  1  audit completed, leaks found
  2  no sitemap could be located
  3  sitemap tree contains zero entries
  4  vendor gate rejected the target

Examples:
  # Audit a site, human-readable report
  jetghost audit https://blog.example.com

  # One leak per line, suitable for grep/awk
  jetghost audit --brief https://blog.example.com

  # Only image leaks, JSON output to a file
  jetghost audit --leaks image --json -o report.json https://blog.example.com

  # Skip anything that is not Jetpack/WordPress.com flavored
  jetghost audit --jetpack-only https://blog.example.com

  # Audit a specific sitemap directly
  jetghost audit https://blog.example.com/sitemap_index.xml`,
		Args: cobra.ExactArgs(1),
		RunE: runAuditCmd,
	}

	// Leak selection flags
	cmd.Flags().StringP("leaks", "l", "",
		"Comma-separated media kinds to report (image,video,attachment); empty means all")
	cmd.Flags().Bool("verify-head", false,
		"HEAD-probe leaked media and drop records whose URL no longer exists")

	// Gate flags
	cmd.Flags().Bool("jetpack-only", false,
		"Refuse to audit sites whose sitemap vendor is not Jetpack/WordPress.com")
	cmd.Flags().Bool("assert-jetpack-leak", false,
		"Exit with the vendor-gate status when the site is not Jetpack-flavored")
	cmd.Flags().Bool("detect-only", false,
		"Stop after sitemap discovery and vendor fingerprinting")

	// Traversal flags
	cmd.Flags().Int("limit", 0,
		"Maximum number of post pages to audit (0 = no limit)")
	cmd.Flags().Int("max-depth", config.DefaultMaxSitemapDepth,
		"Maximum sitemap index recursion depth")
	cmd.Flags().Int("max-sitemaps", config.DefaultMaxSitemapCount,
		"Maximum number of sitemap documents to fetch")

	// Network flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request timeout")
	cmd.Flags().DurationP("delay", "d", 250*time.Millisecond,
		"Minimum delay between requests (0 = no pacing)")
	cmd.Flags().Int64("max-bytes", config.DefaultMaxBodySize,
		"Maximum response body bytes to read")
	cmd.Flags().IntP("concurrency", "b", config.DefaultConcurrency,
		"Number of concurrent post fetches")
	cmd.Flags().Bool("insecure", false,
		"Retry https fetches over plain http after a TLS failure")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .jetghost in current dir or XDG config dir)")

	// Report flags
	cmd.Flags().Bool("brief", false,
		"One TSV line per leak (mutually exclusive with --json/--markdown)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --brief/--markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --brief/--json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildAuditConfig(cmd, args)
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

	verifyHead, err := cmd.Flags().GetBool("verify-head")
	if err != nil {
		return err
	}

	return runAudit(ctx, cfg, verifyHead, logger)
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// buildAuditConfig creates a Config from cobra command flags.
func buildAuditConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Targets = args

	var err error

	if leaks, ferr := cmd.Flags().GetString("leaks"); ferr != nil {
		return nil, ferr
	} else if leaks != "" {
		cfg.LeakKinds = strings.Split(leaks, ",")
		for i := range cfg.LeakKinds {
			cfg.LeakKinds[i] = strings.TrimSpace(cfg.LeakKinds[i])
		}
	}

	cfg.JetpackOnly, err = cmd.Flags().GetBool("jetpack-only")
	if err != nil {
		return nil, err
	}
	cfg.AssertJetpackLeak, err = cmd.Flags().GetBool("assert-jetpack-leak")
	if err != nil {
		return nil, err
	}
	cfg.DetectOnly, err = cmd.Flags().GetBool("detect-only")
	if err != nil {
		return nil, err
	}
	cfg.Limit, err = cmd.Flags().GetInt("limit")
	if err != nil {
		return nil, err
	}
	cfg.MaxSitemapDepth, err = cmd.Flags().GetInt("max-depth")
	if err != nil {
		return nil, err
	}
	cfg.MaxSitemapCount, err = cmd.Flags().GetInt("max-sitemaps")
	if err != nil {
		return nil, err
	}
	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}
	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-bytes")
	if err != nil {
		return nil, err
	}
	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}
	cfg.InsecureFallback, err = cmd.Flags().GetBool("insecure")
	if err != nil {
		return nil, err
	}

	delay, err := cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}
	if delay > 0 {
		cfg.RequestsPerSecond = 1 / delay.Seconds()
	} else {
		cfg.RequestsPerSecond = 0
	}

	cfg.Brief, err = cmd.Flags().GetBool("brief")
	if err != nil {
		return nil, err
	}
	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := loadSiteConfigs(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadSiteConfigs resolves and loads the per-site policy file.
// An explicitly named file must exist; the default search degrades to an
// empty policy when nothing is found.
func loadSiteConfigs(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)

	if path == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
		return nil
	}

	loaded, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	cfg.SiteConfigs = loaded
	return nil
}

// runAudit executes the audit for the configured target.
func runAudit(ctx context.Context, cfg *config.Config, verifyHead bool, logger *slog.Logger) error {
	target := cfg.Targets[0]
	siteCfg := siteConfigFor(cfg, target)

	policy := urlnorm.DefaultPolicy()
	policy.VolatileParams = append(policy.VolatileParams, siteCfg.VolatileParams...)

	client := fetch.NewClient(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithRequestsPerSecond(cfg.RequestsPerSecond),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithInsecureFallback(cfg.InsecureFallback),
		fetch.WithHeaders(siteCfg.Headers),
	)

	maxDepth := cfg.MaxSitemapDepth
	if siteCfg.MaxSitemapDepth > 0 {
		maxDepth = siteCfg.MaxSitemapDepth
	}

	leakKinds := cfg.LeakKinds
	if len(siteCfg.LeakKinds) > 0 {
		leakKinds = siteCfg.LeakKinds
	}

	auditor := audit.NewAuditor(client,
		audit.WithAuditorLogger(logger),
		audit.WithPolicy(policy),
		audit.WithSitemapBounds(maxDepth, cfg.MaxSitemapCount),
		audit.WithConcurrency(cfg.Concurrency),
		audit.WithPostLimit(cfg.Limit),
		audit.WithJetpackOnly(cfg.JetpackOnly || cfg.AssertJetpackLeak),
		audit.WithDetectOnly(cfg.DetectOnly),
		audit.WithLeakKinds(parseLeakKinds(leakKinds)...),
	)

	auditReport, err := auditor.Run(ctx, target)
	if err != nil {
		switch {
		case errors.Is(err, audit.ErrVendorGate):
			return &exitError{code: exitVendorGate, err: err}
		case errors.Is(err, audit.ErrNoEntries):
			return &exitError{code: exitNoEntries, err: err}
		}
		return err
	}

	if verifyHead && len(auditReport.Leaks) > 0 {
		auditReport.Leaks = verifyLeaks(ctx, client, auditReport.Leaks, logger)
	}

	if err := outputAuditReport(cfg, auditReport); err != nil {
		return err
	}

	if auditReport.HasLeaks() {
		return &exitError{code: exitLeaksFound}
	}
	return nil
}

// siteConfigFor resolves the per-host policy entry for a target URL.
func siteConfigFor(cfg *config.Config, target string) config.SiteConfig {
	if cfg.SiteConfigs == nil {
		return config.SiteConfig{}
	}

	host := target
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		host = u.Host
	}
	return cfg.SiteConfigs.GetSiteConfig(host)
}

// parseLeakKinds converts flag strings to media kinds.
func parseLeakKinds(kinds []string) []model.MediaKind {
	parsed := make([]model.MediaKind, 0, len(kinds))
	for _, k := range kinds {
		if mk := model.ParseMediaKind(k); mk.IsValid() {
			parsed = append(parsed, mk)
		}
	}
	return parsed
}

// verifyLeaks HEAD-probes each leaked media URL and drops records whose
// target no longer exists at all. A leak needs the media to still be
// served; a 404 means the file really was deleted, not just unlinked.
func verifyLeaks(ctx context.Context, client *fetch.Client, leaks []model.LeakRecord, logger *slog.Logger) []model.LeakRecord {
	confirmed := make([]model.LeakRecord, 0, len(leaks))
	for _, leak := range leaks {
		resp, err := client.Head(ctx, leak.MediaURL)
		if err != nil {
			// A transport failure is not proof of deletion
			confirmed = append(confirmed, leak)
			continue
		}
		if resp.StatusCode == 404 || resp.StatusCode == 410 {
			logger.Debug("leak target gone, dropping record",
				"url", leak.MediaURL,
				"status", resp.StatusCode,
			)
			continue
		}
		confirmed = append(confirmed, leak)
	}
	return confirmed
}

// outputAuditReport writes the report in the configured format.
func outputAuditReport(cfg *config.Config, auditReport *model.AuditReport) error {
	output, closer, err := openReportOutput(cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closer()

	writer := selectWriter(cfg, output)
	_, err = writer.Write(auditReport)
	return err
}

// openReportOutput opens the report destination: the named file with its
// parent directories created, or stdout when no path is configured.
func openReportOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// selectWriter picks the report writer matching the configured format.
func selectWriter(cfg *config.Config, output *os.File) report.Writer {
	switch {
	case cfg.Brief:
		return report.NewBriefWriter(output)
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output)
	}
}
