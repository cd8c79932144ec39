package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/purpleghosts/JetGhost-Suite/internal/config"
	"github.com/purpleghosts/JetGhost-Suite/internal/fetch"
	jglog "github.com/purpleghosts/JetGhost-Suite/internal/log"
	"github.com/purpleghosts/JetGhost-Suite/internal/model"
	"github.com/purpleghosts/JetGhost-Suite/internal/pattern"
)

// NewPatternsCmd creates the patterns command.
func NewPatternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns <media-url|file>",
		Short: "Generate sibling-name candidates for media URLs",
		Long: `Patterns derives likely sibling filenames from observed media URLs:
incremented numeric suffixes, WordPress size-suffix variants, redaction
tokens, and numeric range sweeps. Candidates are printed in descending
confidence order.

The argument is a single media URL or a file with one URL per line
(blank lines and # comments skipped). With --suggest the observed URLs
are grouped into numbered series and only the gaps inside each series
are suggested. With --check each candidate is HEAD-probed and annotated
with whether it actually exists on the server.

Examples:
  # Print candidates for an uploaded image
  jetghost patterns https://blog.example.com/wp-content/uploads/2024/01/photo-3.jpg

  # Probe the top 10 candidates for existence
  jetghost patterns --check --top 10 https://blog.example.com/wp-content/uploads/2024/01/photo-3.jpg

  # Suggest the missing members of numbered series observed in a file
  jetghost patterns --suggest observed-urls.txt

  # Add custom redaction tokens
  jetghost patterns --modifiers censored,private https://blog.example.com/wp-content/uploads/img.png`,
		Args: cobra.ExactArgs(1),
		RunE: runPatternsCmd,
	}

	cmd.Flags().Bool("check", false,
		"HEAD-probe each candidate and report whether it exists")
	cmd.Flags().Bool("suggest", false,
		"Suggest only the missing indices of observed numbered series")
	cmd.Flags().String("modifiers", "",
		"Comma-separated extra redaction tokens appended to the defaults")
	cmd.Flags().Int("top", 0,
		"Print only the N highest-confidence candidates (0 = all)")
	cmd.Flags().Int("forward", 0,
		"Forward numeric window size (0 = default)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request timeout for --check probes")
	cmd.Flags().Bool("insecure", false,
		"Retry https probes over plain http after a TLS failure")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .jetghost in current dir or XDG config dir)")

	return cmd
}

// runPatternsCmd executes the patterns command.
func runPatternsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildPatternsConfig(cmd)
	if err != nil {
		return err
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return err
	}
	modifiers, err := cmd.Flags().GetString("modifiers")
	if err != nil {
		return err
	}
	top, err := cmd.Flags().GetInt("top")
	if err != nil {
		return err
	}
	forward, err := cmd.Flags().GetInt("forward")
	if err != nil {
		return err
	}

	logger := jglog.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	observed, err := observedURLs(args[0])
	if err != nil {
		return err
	}
	if len(observed) == 0 {
		return fmt.Errorf("no media URLs in %s", args[0])
	}
	siteCfg := siteConfigFor(cfg, observed[0])

	genOpts := generatorOptions(modifiers, siteCfg.Modifiers, forward)

	var candidates []model.PatternCandidate
	if suggest {
		candidates = pattern.SuggestGaps(observed)
	} else {
		gen := pattern.NewGenerator(genOpts...)
		for _, u := range observed {
			candidates = append(candidates, gen.Generate(u)...)
		}
	}
	if len(candidates) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no candidates for this input")
		return nil
	}
	if top > 0 && top < len(candidates) {
		candidates = candidates[:top]
	}

	if cfg.VerifyCandidates {
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout*time.Duration(len(candidates)))
		defer cancel()

		client := fetch.NewClient(
			fetch.WithTimeout(cfg.Timeout),
			fetch.WithInsecureFallback(cfg.InsecureFallback),
			fetch.WithHeaders(siteCfg.Headers),
		)
		if err := pattern.NewVerifier(client).Verify(ctx, candidates); err != nil {
			return fmt.Errorf("candidate verification failed: %w", err)
		}
	}

	return printCandidates(cmd, candidates, cfg.VerifyCandidates)
}

// buildPatternsConfig creates a Config from the patterns command flags.
func buildPatternsConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.VerifyCandidates, err = cmd.Flags().GetBool("check")
	if err != nil {
		return nil, err
	}
	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}
	cfg.InsecureFallback, err = cmd.Flags().GetBool("insecure")
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

// generatorOptions merges the --modifiers flag with the per-site policy
// tokens; both sets extend the default marker list.
func generatorOptions(flagModifiers string, siteModifiers []string, forward int) []pattern.GeneratorOption {
	var extra []string
	if flagModifiers != "" {
		for _, tok := range strings.Split(flagModifiers, ",") {
			extra = append(extra, strings.TrimSpace(tok))
		}
	}
	extra = append(extra, siteModifiers...)

	var opts []pattern.GeneratorOption
	if len(extra) > 0 {
		opts = append(opts, pattern.WithModifiers(append(pattern.DefaultModifiers(), extra...)))
	}
	if forward > 0 {
		opts = append(opts, pattern.WithForwardWindow(forward))
	}
	return opts
}

// observedURLs resolves the positional argument: a local file is read as
// one URL per line, anything else is taken as a single media URL.
func observedURLs(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil || info.IsDir() {
		return []string{arg}, nil
	}
	return collectTargets(nil, arg, nil)
}

// printCandidates writes one line per candidate: confidence, rule,
// URL, and the verification verdict when probing was requested.
func printCandidates(cmd *cobra.Command, candidates []model.PatternCandidate, checked bool) error {
	out := cmd.OutOrStdout()
	for _, c := range candidates {
		if checked {
			// An unprobed candidate is not a definitive miss.
			state := "unverified"
			if c.Verified != model.VerifyUnverified {
				state = c.Verified.String()
			}
			if _, err := fmt.Fprintf(out, "%.2f\t%s\t%s\t%s\n", c.Confidence, c.Rule, state, c.CandidateURL); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(out, "%.2f\t%s\t%s\n", c.Confidence, c.Rule, c.CandidateURL); err != nil {
			return err
		}
	}
	return nil
}
