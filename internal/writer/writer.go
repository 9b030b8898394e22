// Package writer persists fetched subtitles next to their media files.
package writer

import (
	"errors"
	"io/fs"
	"os"

	"golang.org/x/text/language"

	"sublify/internal/apperrors"
	"sublify/internal/config"
	"sublify/internal/media"
	"sublify/internal/models"
)

// Outcome reports what Write did.
type Outcome int

const (
	// Written means the subtitle file was created or overwritten.
	Written Outcome = iota
	// SkippedExisting means a subtitle was already present and left alone.
	SkippedExisting
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case SkippedExisting:
		return "skipped"
	default:
		return "unknown"
	}
}

// Write stores subtitle content beside the media file under the standard
// naming scheme. Without force an existing subtitle wins and the download is
// discarded; with force it is overwritten. Failures come back as ErrWrite.
func Write(file models.MediaFile, lang language.Tag, content []byte, force bool) (Outcome, error) {
	logger := config.GetLogger()
	path := media.SubtitlePath(file, lang)

	if !force {
		if _, err := os.Stat(path); err == nil {
			logger.Debug().Str("path", path).Msg("Subtitle already present, keeping it")
			return SkippedExisting, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return SkippedExisting, apperrors.NewWriteError(path, err)
		}
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return SkippedExisting, apperrors.NewWriteError(path, err)
	}

	logger.Info().
		Str("path", path).
		Str("language", lang.String()).
		Int("size", len(content)).
		Msg("Subtitle written")
	return Written, nil
}
