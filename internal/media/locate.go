// Package media locates candidate video files, infers search metadata from
// their filenames, and probes for already-present subtitle files on disk.
package media

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"sublify/internal/apperrors"
	"sublify/internal/config"
	"sublify/internal/models"
)

// videoExtensions is the set of recognized video file extensions.
var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".avi":  {},
	".mov":  {},
	".wmv":  {},
	".flv":  {},
	".ts":   {},
	".m2ts": {},
}

// IsVideo reports whether the path carries a recognized video extension.
func IsVideo(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Locate resolves root into the list of media files to process.
//
// A root that is a single recognized video file yields exactly that file; a
// non-video file yields nothing. A directory yields every recognized video
// directly inside it, descending into subdirectories only when recursive is
// set. Ordering follows filesystem traversal order and is not guaranteed to
// be stable across platforms; callers must only rely on completeness.
//
// A missing root is fatal and returns apperrors.ErrNotFound.
func Locate(root string, recursive bool) ([]models.MediaFile, error) {
	logger := config.GetLogger()

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("root path", root)
		}
		return nil, err
	}

	if !info.IsDir() {
		if !IsVideo(abs) {
			logger.Debug().Str("path", abs).Msg("Root file has no recognized video extension")
			return nil, nil
		}
		return []models.MediaFile{Parse(abs)}, nil
	}

	var files []models.MediaFile
	if recursive {
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				// Unreadable subtree: log and keep walking the rest.
				logger.Warn().Err(walkErr).Str("path", path).Msg("Skipping unreadable path")
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !IsVideo(path) {
				return nil
			}
			files = append(files, Parse(path))
			return nil
		})
		if err != nil {
			return nil, err
		}
		return files, nil
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(abs, entry.Name())
		if !IsVideo(path) {
			continue
		}
		files = append(files, Parse(path))
	}
	return files, nil
}
