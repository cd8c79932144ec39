package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen based on typical WordPress hosting behavior and
// the politeness expectations of shared infrastructure.
const (
	// DefaultTimeout is set to 20 seconds because sitemap and post pages
	// are small documents; anything slower usually indicates a stalled
	// origin and should be reported as unreachable rather than waited on.
	DefaultTimeout = 20 * time.Second

	// DefaultMaxSitemapDepth bounds recursive sitemap index resolution.
	// Real WordPress installs nest at most two levels (index -> urlset);
	// depth 3 leaves headroom for SEO plugins that add another layer.
	DefaultMaxSitemapDepth = 3

	// DefaultMaxSitemapCount caps the total number of sitemap documents
	// fetched per site. This prevents runaway walks on misconfigured
	// sites whose indexes reference each other in loops.
	DefaultMaxSitemapCount = 200

	// DefaultConcurrency of 10 concurrent fetches balances sweep
	// throughput with resource usage on the scanned hosts. Higher values
	// may trigger rate limiting on shared WordPress hosting.
	DefaultConcurrency = 10

	// DefaultRequestsPerSecond paces requests against a single site.
	// 4 req/s is conservative enough for shared hosting while keeping
	// audits of mid-sized sites under a minute.
	DefaultRequestsPerSecond = 4.0

	// AppName is the application name used for XDG directory paths.
	AppName = "jetghost"

	// DefaultUserAgent identifies JetGhost in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows operators
	// to identify scanner traffic in their logs.
	DefaultUserAgent = "jetghost/1.0 (+https://github.com/purpleghosts/JetGhost-Suite)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 10MB covers even very large single sitemap files while preventing
	// memory exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultSnippetBytes is the per-target read budget for fingerprint
	// sweeps. Platform markers appear in the first few KB of a sitemap,
	// so 256KB is generous while keeping bulk sweeps cheap.
	DefaultSnippetBytes = 256 * 1024 // 256KB

	// DefaultVerifyConcurrency bounds concurrent HEAD probes during
	// pattern candidate verification.
	DefaultVerifyConcurrency = 8
)

// Valid leak kind filter values accepted by --leaks.
const (
	LeakKindImage      = "image"
	LeakKindVideo      = "video"
	LeakKindAttachment = "attachment"
)

// Config holds all configuration options for JetGhost.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., AuditConfig, SweepConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Targets is the list of site roots or sitemap URLs to process.
	// The audit command expects exactly one; the fingerprint command
	// accepts many.
	Targets []string

	// Timeout is the per-request timeout for each HTTP fetch.
	// This applies to individual requests, not the overall audit duration.
	Timeout time.Duration

	// MaxSitemapDepth is the maximum recursion depth when resolving
	// sitemap indexes. Depth 0 means only parse the initial document.
	MaxSitemapDepth int

	// MaxSitemapCount is the maximum number of sitemap documents fetched
	// per site. Exceeding it truncates the walk with a warning.
	MaxSitemapCount int

	// Concurrency is the number of concurrent fetches during fingerprint
	// sweeps and post-page auditing.
	Concurrency int

	// RequestsPerSecond paces outbound requests. Zero disables pacing.
	RequestsPerSecond float64

	// LeakKinds restricts reported leaks to the named media kinds
	// (image, video, attachment). Empty means report all kinds.
	LeakKinds []string

	// JetpackOnly skips sites whose sitemap vendor is not in the
	// Jetpack/WordPress.com family. Useful for focused sweeps.
	JetpackOnly bool

	// AssertJetpackLeak makes the audit exit with the vendor-gate status
	// when the site is not Jetpack-flavored, instead of auditing anyway.
	AssertJetpackLeak bool

	// DetectOnly stops the audit after vendor fingerprinting, without
	// fetching any post pages.
	DetectOnly bool

	// VerifyCandidates enables HEAD probing of generated pattern
	// candidates. Off by default because it issues extra requests.
	VerifyCandidates bool

	// Limit caps the number of post pages audited. Zero means no cap.
	Limit int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool

	// Brief enables the one-line-per-leak TSV output format.
	// Mutually exclusive with JSONReport and MarkdownReport.
	Brief bool

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with Brief and MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output with tables and a
	// summary section. Mutually exclusive with Brief and JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// UserAgent is the User-Agent header sent with HTTP requests.
	// A descriptive User-Agent helps site operators identify scanner
	// traffic in their access logs.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated, never buffered whole.
	MaxBodySize int64

	// SnippetBytes is the per-target read budget for fingerprint sweeps.
	SnippetBytes int64

	// InsecureFallback retries https targets over plain http after a TLS
	// failure. Off by default; bulk sweeps of old installs opt in.
	InsecureFallback bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .jetghost in the current directory
	// and then in the XDG config directory.
	ConfigFilePath string

	// SiteConfigs holds per-site policy overrides loaded from the config
	// file. Populated by LoadConfigFile and consulted during audits.
	SiteConfigs *File
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, depth).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:           DefaultTimeout,
		MaxSitemapDepth:   DefaultMaxSitemapDepth,
		MaxSitemapCount:   DefaultMaxSitemapCount,
		Concurrency:       DefaultConcurrency,
		RequestsPerSecond: DefaultRequestsPerSecond,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		SnippetBytes:      DefaultSnippetBytes,
	}
}

// XDGConfigDir returns the XDG config directory for JetGhost.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/jetghost
// On macOS: ~/Library/Application Support/jetghost
// On Windows: %APPDATA%\jetghost
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for JetGhost.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.cache/jetghost
// On macOS: ~/Library/Caches/jetghost
// On Windows: %LOCALAPPDATA%\jetghost\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any network activity.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one target to process
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// Concurrency must be positive; zero would mean no work at all
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	// Depth and count bounds must be non-negative
	if c.MaxSitemapDepth < 0 || c.MaxSitemapCount < 0 {
		return ErrInvalidSitemapBounds
	}

	// At most one report format can be selected
	if countTrue(c.Brief, c.JSONReport, c.MarkdownReport) > 1 {
		return ErrConflictingReportFormats
	}

	// Rate must be non-negative; zero disables pacing
	if c.RequestsPerSecond < 0 {
		return ErrInvalidRate
	}

	// Body and snippet budgets must be non-negative
	if c.MaxBodySize < 0 || c.SnippetBytes < 0 {
		return ErrInvalidMaxBodySize
	}

	// Leak kind filters must name known media kinds
	for _, kind := range c.LeakKinds {
		switch kind {
		case LeakKindImage, LeakKindVideo, LeakKindAttachment:
		default:
			return ErrInvalidLeakKind
		}
	}

	return nil
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
