package models

import (
	"regexp"
	"strings"
)

// Quality represents the video quality named in a release or filename.
type Quality int

const (
	QualityUnknown Quality = iota
	Quality360p
	Quality480p
	Quality720p
	Quality1080p
	Quality2160p // 4K
)

// String returns the string representation of the quality.
func (q Quality) String() string {
	switch q {
	case Quality360p:
		return "360p"
	case Quality480p:
		return "480p"
	case Quality720p:
		return "720p"
	case Quality1080p:
		return "1080p"
	case Quality2160p:
		return "2160p"
	default:
		return "unknown"
	}
}

// ParseQuality converts a quality token to the Quality enum.
func ParseQuality(token string) Quality {
	switch strings.ToLower(token) {
	case "2160p", "4k":
		return Quality2160p
	case "1080p":
		return Quality1080p
	case "720p":
		return Quality720p
	case "480p":
		return Quality480p
	case "360p":
		return Quality360p
	default:
		return QualityUnknown
	}
}

var qualityRegex = regexp.MustCompile(`(?i)(2160p|4k|1080p|720p|480p|360p)`)

// ExtractQualities extracts all quality values from a release name or
// filename, de-duplicated, in order of appearance.
func ExtractQualities(name string) []Quality {
	if name == "" {
		return nil
	}

	matches := qualityRegex.FindAllStringSubmatch(name, -1)
	if len(matches) == 0 {
		return nil
	}

	qualities := make([]Quality, 0, len(matches))
	seen := make(map[Quality]struct{})
	for _, match := range matches {
		quality := ParseQuality(match[1])
		if quality == QualityUnknown {
			continue
		}
		if _, exists := seen[quality]; exists {
			continue
		}
		qualities = append(qualities, quality)
		seen[quality] = struct{}{}
	}

	return qualities
}
