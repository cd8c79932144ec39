// Package main provides the entry point for the JetGhost CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/purpleghosts/JetGhost-Suite/internal/audit"
	"github.com/purpleghosts/JetGhost-Suite/internal/sitemap"
)

// Exit codes. Shell pipelines branch on these, so they are part of the
// CLI contract and must stay stable.
const (
	// exitOK means the audit completed and found nothing.
	exitOK = 0
	// exitLeaksFound means the audit completed and found leaks.
	exitLeaksFound = 1
	// exitNoSitemap means no sitemap could be located for the target.
	exitNoSitemap = 2
	// exitNoEntries means the sitemap tree contained zero entries.
	exitNoEntries = 3
	// exitVendorGate means a --jetpack-only or --assert-jetpack-leak
	// gate rejected the target.
	exitVendorGate = 4
)

// exitError carries a specific process exit code through RunE.
type exitError struct {
	code int
	err  error
}

// Error implements the error interface.
func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

// Unwrap exposes the wrapped error for errors.Is checks.
func (e *exitError) Unwrap() error {
	return e.err
}

// NewRootCmd creates the root command for JetGhost.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jetghost",
		Short: "Media timeleak auditor for WordPress sitemaps",
		Long: `JetGhost audits WordPress sites for media timeleaks: images, videos,
and attachments that a site's sitemaps still advertise even though the
live pages no longer show them.

The audit command runs a full per-site diff. The fingerprint command
triages a target list by sitemap flavor. The patterns command predicts
sibling media URLs from naming conventions.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewFingerprintCmd())
	cmd.AddCommand(NewPatternsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and maps well-known outcomes to their
// exit codes.
func Execute() {
	err := NewRootCmd().Execute()
	if err == nil {
		os.Exit(exitOK)
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintln(os.Stderr, exit.err)
		}
		os.Exit(exit.code)
	}

	fmt.Fprintln(os.Stderr, err)
	switch {
	case errors.Is(err, sitemap.ErrNoSitemap):
		os.Exit(exitNoSitemap)
	case errors.Is(err, audit.ErrNoEntries):
		os.Exit(exitNoEntries)
	case errors.Is(err, audit.ErrVendorGate):
		os.Exit(exitVendorGate)
	default:
		os.Exit(exitLeaksFound)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
