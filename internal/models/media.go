package models

// MediaKind distinguishes movies from series episodes. The kind is inferred
// from the filename and only used to shape provider search queries.
type MediaKind int

const (
	KindMovie MediaKind = iota
	KindEpisode
)

// String returns the string representation of the kind.
func (k MediaKind) String() string {
	if k == KindEpisode {
		return "episode"
	}
	return "movie"
}

// MediaFile is one candidate video file, owned transiently for the duration
// of a run and never persisted.
type MediaFile struct {
	Path string // absolute filesystem path

	Kind    MediaKind
	Title   string
	Year    int
	Season  int // 0 when not an episode
	Episode int // 0 when not an episode

	Qualities    []Quality // video qualities named in the filename, in order of appearance
	ReleaseGroup string
}

// HasQuality reports whether q appears in the file's quality list.
func (f MediaFile) HasQuality(q Quality) bool {
	for _, have := range f.Qualities {
		if have == q {
			return true
		}
	}
	return false
}
