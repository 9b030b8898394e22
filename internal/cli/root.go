// Package cli wires flags, configuration and the batch run into the single
// sublify command.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sublify/internal/config"
	"sublify/internal/models"
	"sublify/internal/orchestrator"
	"sublify/internal/session"
)

// runFlags carries the command-line values before they are merged over the
// file and environment configuration.
type runFlags struct {
	languages []string
	providers []string
	recursive bool
	hi        bool
	force     bool
	dryRun    bool
	minScore  float64
	delay     float64
	retries   int
	logLevel  string
}

// NewRootCommand builds the sublify command.
func NewRootCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:           "sublify [flags] PATH",
		Short:         "Fetch missing subtitles for a video file or directory",
		Long: `Sublify scans PATH for video files, checks which requested subtitle
languages are already present next to each file, and downloads the rest
from the configured subtitle providers.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			applyOverrides(cfg, &flags, cmd.Flags().Changed)
			cfg.Root = args[0]
			config.Init(cfg)

			return runBatch(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringSliceVarP(&flags.languages, "language", "l", nil, "subtitle language to fetch (repeatable, e.g. -l en -l pt-BR)")
	cmd.Flags().StringSliceVar(&flags.providers, "provider", nil, "provider to query (repeatable, default all)")
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "descend into subdirectories")
	cmd.Flags().BoolVar(&flags.hi, "hi", false, "prefer hearing-impaired subtitles")
	cmd.Flags().BoolVar(&flags.force, "force", false, "refetch and overwrite existing subtitles")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "report what would be fetched without downloading")
	cmd.Flags().Float64Var(&flags.minScore, "min-score", 0, "minimum candidate match score (0-10)")
	cmd.Flags().Float64Var(&flags.delay, "delay", 0, "seconds to pause between processed files")
	cmd.Flags().IntVar(&flags.retries, "retries", 1, "retries for transient provider failures")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	return cmd
}

// applyOverrides layers explicitly set flags over the loaded configuration.
// Unset flags leave the file/environment values alone.
func applyOverrides(cfg *config.Config, flags *runFlags, changed func(name string) bool) {
	if changed("language") {
		cfg.Languages = flags.languages
	}
	if changed("provider") {
		cfg.Providers = flags.providers
	}
	if changed("recursive") {
		cfg.Recursive = flags.recursive
	}
	if changed("hi") {
		cfg.HearingImpaired = flags.hi
	}
	if changed("force") {
		cfg.Force = flags.force
	}
	if changed("dry-run") {
		cfg.DryRun = flags.dryRun
	}
	if changed("min-score") {
		cfg.MinScore = flags.minScore
	}
	if changed("delay") {
		cfg.DelaySeconds = flags.delay
	}
	if changed("retries") {
		cfg.Retries = flags.retries
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
}

// noopFetcher stands in for the provider session on dry runs. The
// orchestrator stops before fetching, so this never answers with content.
type noopFetcher struct{}

func (noopFetcher) Fetch(_ context.Context, req models.FetchRequest) []models.FetchResult {
	out := make([]models.FetchResult, 0, req.Languages.Len())
	for _, tag := range req.Languages.Tags() {
		out = append(out, models.NotFound(tag))
	}
	return out
}

// runBatch opens the provider session and drives the batch to completion.
// A dry run never opens the session: no login, no cache connection, no
// network of any kind.
func runBatch(ctx context.Context, cfg *config.Config) error {
	logger := config.GetLogger()

	var fetcher orchestrator.Fetcher = noopFetcher{}
	if !cfg.DryRun {
		sess, err := session.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := sess.Close(); err != nil {
				logger.Warn().Err(err).Msg("Failed to close provider session")
			}
		}()
		fetcher = sess
	}

	summary, err := orchestrator.New(cfg, fetcher).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(summary.String())
	return nil
}
