// Package orchestrator drives one batch run: locate media files, probe for
// subtitles already on disk, fetch what is missing through the provider
// session and write the results. Per-file failures are recorded in the
// summary and never abort the batch.
package orchestrator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"sublify/internal/config"
	"sublify/internal/media"
	"sublify/internal/models"
	"sublify/internal/writer"
)

// Fetcher is the slice of the provider session the orchestrator needs.
type Fetcher interface {
	Fetch(ctx context.Context, req models.FetchRequest) []models.FetchResult
}

// Orchestrator runs the batch for one invocation.
type Orchestrator struct {
	cfg     *config.Config
	session Fetcher
	logger  zerolog.Logger

	// sleep is swapped out by tests.
	sleep func(time.Duration)
}

// New creates an orchestrator over the given session.
func New(cfg *config.Config, session Fetcher) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		session: session,
		logger:  config.GetLogger(),
		sleep:   time.Sleep,
	}
}

// Run processes every video under the configured root and returns the batch
// summary. Only a bad language list, a missing root or context cancellation
// abort the run; everything else is per-file bookkeeping.
func (o *Orchestrator) Run(ctx context.Context) (models.RunSummary, error) {
	var summary models.RunSummary

	langs, err := models.ParseLanguageSet(o.cfg.Languages)
	if err != nil {
		return summary, err
	}

	files, err := media.Locate(o.cfg.Root, o.cfg.Recursive)
	if err != nil {
		return summary, err
	}
	o.logger.Info().Int("files", len(files)).Str("root", o.cfg.Root).Msg("Scan complete")

	delay := o.cfg.Delay()
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		fetched := o.processFile(ctx, file, langs, &summary)

		// Provider courtesy pause; pointless after the last file or when
		// the file was satisfied from disk.
		if fetched && delay > 0 && i < len(files)-1 {
			o.sleep(delay)
		}
	}

	o.logger.Info().Stringer("summary", summary).Msg("Run finished")
	return summary, nil
}

// processFile handles one video and reports whether the session was used.
func (o *Orchestrator) processFile(ctx context.Context, file models.MediaFile, langs models.LanguageSet, summary *models.RunSummary) bool {
	summary.FilesProcessed++
	logger := o.logger.With().Str("file", file.Path).Logger()

	residual := langs
	if !o.cfg.Force {
		present := media.ProbeExisting(file, langs)
		residual = langs.Minus(present)
		summary.SubtitlesSkipped += present.Len()
	}

	if residual.IsEmpty() {
		logger.Debug().Msg("All requested subtitles already on disk")
		return false
	}

	if o.cfg.DryRun {
		for _, tag := range residual.Tags() {
			logger.Info().Str("language", tag.String()).Msg("Would fetch subtitle (dry run)")
		}
		return false
	}

	results := o.session.Fetch(ctx, models.FetchRequest{
		File:            file,
		Languages:       residual,
		HearingImpaired: o.cfg.HearingImpaired,
		MinScore:        o.cfg.MinScore,
	})

	for _, result := range results {
		switch result.Status {
		case models.StatusFound:
			outcome, err := writer.Write(file, result.Language, result.Content, o.cfg.Force)
			if err != nil {
				logger.Error().Err(err).Str("language", result.Language.String()).Msg("Failed to write subtitle")
				summary.Errors++
				continue
			}
			if outcome == writer.Written {
				summary.SubtitlesWritten++
			} else {
				summary.SubtitlesSkipped++
			}
		case models.StatusNotFound:
			logger.Info().Str("language", result.Language.String()).Msg("No subtitle found")
			summary.SubtitlesSkipped++
		case models.StatusFailed:
			logger.Error().Err(result.Err).Str("language", result.Language.String()).Msg("Subtitle fetch failed")
			summary.Errors++
		}
	}
	return true
}
