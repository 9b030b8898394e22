package session

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nwaples/rardecode/v2"

	"sublify/internal/config"
)

var zipMagic = []byte("PK\x03\x04")
var rarMagic = []byte("Rar!\x1a\x07")

var subtitleExtensions = map[string]bool{
	".srt": true,
	".sub": true,
	".ssa": true,
	".ass": true,
	".vtt": true,
}

// ExtractSubtitle turns a downloaded payload into subtitle text. Providers
// ship either the bare file or a ZIP/RAR archive around it; archives are
// detected by magic bytes, anything else passes through untouched. For
// season-pack archives the episode number selects the right entry.
func ExtractSubtitle(content []byte, episode int) ([]byte, error) {
	switch {
	case bytes.HasPrefix(content, zipMagic):
		return extractFromZip(content, episode)
	case bytes.HasPrefix(content, rarMagic):
		return extractFromRar(content, episode)
	default:
		return content, nil
	}
}

func extractFromZip(content []byte, episode int) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open ZIP archive: %w", err)
	}

	var names []string
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		names = append(names, file.Name)
	}

	chosen := pickSubtitleEntry(names, episode)
	if chosen == "" {
		return nil, fmt.Errorf("no subtitle file in ZIP archive (%d entries)", len(reader.File))
	}

	for _, file := range reader.File {
		if file.Name != chosen {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in ZIP: %w", file.Name, err)
		}
		defer rc.Close()

		extracted, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s from ZIP: %w", file.Name, err)
		}
		return extracted, nil
	}
	return nil, fmt.Errorf("no subtitle file in ZIP archive")
}

func extractFromRar(content []byte, episode int) ([]byte, error) {
	list, err := rardecode.NewReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open RAR archive: %w", err)
	}

	var names []string
	for {
		header, err := list.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read RAR header: %w", err)
		}
		if header.IsDir {
			continue
		}
		names = append(names, header.Name)
	}

	chosen := pickSubtitleEntry(names, episode)
	if chosen == "" {
		return nil, fmt.Errorf("no subtitle file in RAR archive (%d entries)", len(names))
	}

	// Second pass to read the chosen entry; the reader is forward-only.
	reader, err := rardecode.NewReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open RAR archive: %w", err)
	}
	for {
		header, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read RAR header: %w", err)
		}
		if header.Name != chosen {
			continue
		}
		extracted, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("read %s from RAR: %w", header.Name, err)
		}
		return extracted, nil
	}
	return nil, fmt.Errorf("no subtitle file in RAR archive")
}

// pickSubtitleEntry chooses the archive entry to extract: subtitle extensions
// only, episode-matching names first when an episode number is known.
func pickSubtitleEntry(names []string, episode int) string {
	logger := config.GetLogger()

	var subtitles []string
	for _, name := range names {
		ext := strings.ToLower(filepath.Ext(name))
		if subtitleExtensions[ext] {
			subtitles = append(subtitles, name)
		}
	}
	if len(subtitles) == 0 {
		return ""
	}

	if episode > 0 && len(subtitles) > 1 {
		// Word boundaries so E01 does not match E010.
		pattern := regexp.MustCompile(fmt.Sprintf(`(?i)(?:s\d+e%02d(?:\D|$)|e%02d(?:\D|$)|\d+x%02d(?:\D|$))`, episode, episode, episode))
		for _, name := range subtitles {
			if pattern.MatchString(filepath.Base(name)) {
				logger.Debug().Str("entry", name).Int("episode", episode).Msg("Matched episode entry in archive")
				return name
			}
		}
	}
	return subtitles[0]
}
