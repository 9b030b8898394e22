package media

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"

	"sublify/internal/models"
)

// SubtitleExtension is the container extension used for written subtitles.
const SubtitleExtension = ".srt"

// SubtitlePath returns the conventional co-located subtitle path for a media
// file and language: the media file's base name plus a language-tag suffix
// plus the subtitle extension (e.g. "Movie.en.srt"). The same convention is
// read by ProbeExisting and written by the result writer; the skip-if-existing
// policy depends on the two agreeing exactly.
func SubtitlePath(file models.MediaFile, lang language.Tag) string {
	stem := strings.TrimSuffix(file.Path, filepath.Ext(file.Path))
	return stem + "." + lang.String() + SubtitleExtension
}

// ProbeExisting returns the subset of langs already satisfied on disk for the
// given media file. Matching is exact on the conventional suffix form; no
// fuzzy matching of other naming variants is attempted. Pure filesystem read.
func ProbeExisting(file models.MediaFile, langs models.LanguageSet) models.LanguageSet {
	present := make([]language.Tag, 0, langs.Len())
	for _, tag := range langs.Tags() {
		if _, err := os.Stat(SubtitlePath(file, tag)); err == nil {
			present = append(present, tag)
		}
	}
	return models.NewLanguageSet(present...)
}
