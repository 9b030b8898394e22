package media

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"sublify/internal/models"
)

var (
	// Matches S03E01 / s3e1 and the 3x01 shorthand.
	episodeRegex = regexp.MustCompile(`(?i)\bs(\d{1,2})[\s._-]?e(\d{1,3})\b|\b(\d{1,2})x(\d{2,3})\b`)

	// A plausible release year. The 19xx/20xx restriction keeps resolution
	// tokens like 2160 from being mistaken for years.
	yearRegex = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

	// Trailing release group, e.g. "...x264-FLUX".
	releaseGroupRegex = regexp.MustCompile(`-([A-Za-z0-9]+)$`)

	separatorReplacer = strings.NewReplacer(".", " ", "_", " ")
)

// Parse infers media kind and search metadata from a video file's name.
// The inference is heuristic; providers treat every field as a hint, never
// as ground truth.
func Parse(path string) models.MediaFile {
	base := filepath.Base(path)
	stem := base
	// Only a recognized video extension is stripped; release names routinely
	// contain dots that filepath.Ext would misread as an extension.
	if ext := filepath.Ext(base); IsVideo(base) {
		stem = strings.TrimSuffix(base, ext)
	}

	file := models.MediaFile{
		Path:      path,
		Kind:      models.KindMovie,
		Qualities: models.ExtractQualities(stem),
	}

	titleEnd := len(stem)

	if m := episodeRegex.FindStringSubmatchIndex(stem); m != nil {
		file.Kind = models.KindEpisode
		file.Season, file.Episode = episodeNumbers(stem, m)
		titleEnd = m[0]
	}

	if m := yearRegex.FindStringIndex(stem); m != nil {
		year, _ := strconv.Atoi(stem[m[0]:m[1]])
		file.Year = year
		if m[0] < titleEnd {
			titleEnd = m[0]
		}
	}

	if m := releaseGroupRegex.FindStringSubmatch(stem); m != nil {
		group := m[1]
		// A bare quality token after the dash is not a release group.
		if models.ParseQuality(group) == models.QualityUnknown {
			file.ReleaseGroup = group
		}
	}

	file.Title = cleanTitle(stem[:titleEnd])
	return file
}

func episodeNumbers(stem string, m []int) (season, episode int) {
	// Groups 1,2 hold SxxEyy captures; groups 3,4 hold the NxNN form.
	if m[2] != -1 {
		season, _ = strconv.Atoi(stem[m[2]:m[3]])
		episode, _ = strconv.Atoi(stem[m[4]:m[5]])
		return season, episode
	}
	season, _ = strconv.Atoi(stem[m[6]:m[7]])
	episode, _ = strconv.Atoi(stem[m[8]:m[9]])
	return season, episode
}

func cleanTitle(raw string) string {
	title := separatorReplacer.Replace(raw)
	title = strings.Trim(title, " -([")
	return strings.Join(strings.Fields(title), " ")
}
