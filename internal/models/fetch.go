package models

import "golang.org/x/text/language"

// FetchRequest asks the provider session for subtitles covering the residual
// language set of one media file. Constructed per file, consumed once.
type FetchRequest struct {
	File            MediaFile
	Languages       LanguageSet // residual set still needing a subtitle
	HearingImpaired bool
	MinScore        float64
}

// ResultStatus tags the outcome of a per-language fetch.
type ResultStatus int

const (
	// StatusFound means a subtitle matched and its content was downloaded.
	StatusFound ResultStatus = iota
	// StatusNotFound means no candidate met the score threshold.
	StatusNotFound
	// StatusFailed means a provider error survived the retry policy.
	StatusFailed
)

// String returns the string representation of the status.
func (s ResultStatus) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not found"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchResult is the per-language outcome of a fetch. Exactly one is produced
// for every language in the request.
type FetchResult struct {
	Status   ResultStatus
	Language language.Tag

	// Set when Status is StatusFound.
	Provider string
	Score    float64
	Content  []byte

	// Set when Status is StatusFailed.
	Err error
}

// Found builds a successful FetchResult.
func Found(lang language.Tag, provider string, score float64, content []byte) FetchResult {
	return FetchResult{
		Status:   StatusFound,
		Language: lang,
		Provider: provider,
		Score:    score,
		Content:  content,
	}
}

// NotFound builds a no-match FetchResult.
func NotFound(lang language.Tag) FetchResult {
	return FetchResult{Status: StatusNotFound, Language: lang}
}

// Failed builds an error FetchResult.
func Failed(lang language.Tag, err error) FetchResult {
	return FetchResult{Status: StatusFailed, Language: lang, Err: err}
}
