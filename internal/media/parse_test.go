package media

import (
	"testing"

	"sublify/internal/models"
)

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		path    string
		kind    models.MediaKind
		title   string
		year    int
		season  int
		episode int
		group   string
	}{
		{
			name:  "movie with year and group",
			path:  "/media/Inception.2010.1080p.BluRay.x264-SPARKS.mkv",
			kind:  models.KindMovie,
			title: "Inception",
			year:  2010,
			group: "SPARKS",
		},
		{
			name:    "episode sxxeyy",
			path:    "/media/Some.Show.S03E07.720p.WEB-DL-FLUX.mkv",
			kind:    models.KindEpisode,
			title:   "Some Show",
			season:  3,
			episode: 7,
			group:   "FLUX",
		},
		{
			name:    "episode NxNN shorthand",
			path:    "/media/Show 3x01 pilot.avi",
			kind:    models.KindEpisode,
			title:   "Show",
			season:  3,
			episode: 1,
		},
		{
			name:  "movie with parenthesized year",
			path:  "/media/Inception (2010).mkv",
			kind:  models.KindMovie,
			title: "Inception",
			year:  2010,
		},
		{
			name:  "quality token not mistaken for group",
			path:  "/media/Movie.2012.x264-1080p.mkv",
			kind:  models.KindMovie,
			title: "Movie",
			year:  2012,
		},
		{
			name:  "no metadata at all",
			path:  "/media/holiday_footage.mp4",
			kind:  models.KindMovie,
			title: "holiday footage",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Parse(tt.path)
			if got.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.kind)
			}
			if got.Title != tt.title {
				t.Errorf("Title = %q, want %q", got.Title, tt.title)
			}
			if got.Year != tt.year {
				t.Errorf("Year = %d, want %d", got.Year, tt.year)
			}
			if got.Season != tt.season {
				t.Errorf("Season = %d, want %d", got.Season, tt.season)
			}
			if got.Episode != tt.episode {
				t.Errorf("Episode = %d, want %d", got.Episode, tt.episode)
			}
			if got.ReleaseGroup != tt.group {
				t.Errorf("ReleaseGroup = %q, want %q", got.ReleaseGroup, tt.group)
			}
		})
	}
}

func TestParse_Qualities(t *testing.T) {
	t.Parallel()
	got := Parse("/media/Movie.2010.2160p.WEB.mkv")
	if len(got.Qualities) != 1 || got.Qualities[0] != models.Quality2160p {
		t.Fatalf("Qualities = %v, want [2160p]", got.Qualities)
	}
}
