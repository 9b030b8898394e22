package provider

import (
	"strings"

	"sublify/internal/media"
	"sublify/internal/models"
)

// Match score weights. A perfect candidate scores 10; the configured
// min-score is compared against this scale.
const (
	weightTitle   = 5.0
	weightYear    = 2.0
	weightSeason  = 1.0
	weightEpisode = 1.0
	weightGroup   = 2.0
	weightQuality = 1.0
)

// Score rates how well a candidate matches a media file. Candidates carrying
// no explicit metadata have it inferred from their release name.
func Score(c Candidate, f models.MediaFile) float64 {
	meta := candidateMeta(c)

	var score float64
	if titlesMatch(meta.Title, f.Title) {
		score += weightTitle
	}

	switch f.Kind {
	case models.KindEpisode:
		if f.Season != 0 && meta.Season == f.Season {
			score += weightSeason
		}
		if f.Episode != 0 && meta.Episode == f.Episode {
			score += weightEpisode
		}
	case models.KindMovie:
		if f.Year != 0 && meta.Year == f.Year {
			score += weightYear
		}
	}

	if f.ReleaseGroup != "" && strings.EqualFold(meta.ReleaseGroup, f.ReleaseGroup) {
		score += weightGroup
	}

	for _, q := range meta.Qualities {
		if f.HasQuality(q) {
			score += weightQuality
			break
		}
	}

	return score
}

// candidateMeta fills in missing candidate metadata from the release name,
// reusing the same filename heuristics applied to local media.
func candidateMeta(c Candidate) models.MediaFile {
	var parsed models.MediaFile
	if c.Release != "" {
		parsed = media.Parse(c.Release)
	}
	if c.Title != "" {
		parsed.Title = c.Title
	}
	if c.Year != 0 {
		parsed.Year = c.Year
	}
	if c.Season != 0 {
		parsed.Season = c.Season
	}
	if c.Episode != 0 {
		parsed.Episode = c.Episode
	}
	return parsed
}

func titlesMatch(a, b string) bool {
	na, nb := normalizeTitle(a), normalizeTitle(b)
	return na != "" && na == nb
}

func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}
