// Package tvsubtitles implements the TVsubtitles.net backend by scraping the
// site's HTML. The site covers series only; movie searches yield no
// candidates. Downloads arrive as ZIP archives.
package tvsubtitles

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/language"

	"sublify/internal/apperrors"
	"sublify/internal/config"
	"sublify/internal/models"
	"sublify/internal/provider"
)

// DefaultBaseURL is the production site endpoint.
const DefaultBaseURL = "https://www.tvsubtitles.net"

const backendName = "tvsubtitles"

func init() {
	provider.Register(backendName, New)
}

var (
	showHrefRegex     = regexp.MustCompile(`tvshow-(\d+)-\d+\.html`)
	episodeHrefRegex  = regexp.MustCompile(`episode-(\d+)\.html`)
	subtitleHrefRegex = regexp.MustCompile(`subtitle-(\d+)\.html`)
	flagSrcRegex      = regexp.MustCompile(`flags/([a-z]{2}(?:_[a-z]{2})?)\.`)
)

// Client scrapes TVsubtitles.net.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// New creates the TVsubtitles backend. The backend is anonymous only.
func New(opts provider.Options) (provider.Provider, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  opts.UserAgent,
	}, nil
}

// Name returns the registry name of the backend.
func (c *Client) Name() string {
	return backendName
}

// Authenticate is a no-op; the site has no account surface worth driving.
func (c *Client) Authenticate(ctx context.Context) error {
	return nil
}

// Search walks the site the way a browser would: show search, season page,
// episode page. Each hop is one HTML fetch.
func (c *Client) Search(ctx context.Context, file models.MediaFile, langs models.LanguageSet) ([]provider.Candidate, error) {
	if file.Kind != models.KindEpisode {
		return nil, nil
	}

	logger := config.GetLogger()

	showID, err := c.findShow(ctx, file.Title)
	if err != nil {
		return nil, err
	}
	if showID == 0 {
		logger.Debug().Str("title", file.Title).Msg("No matching show on tvsubtitles")
		return nil, nil
	}

	episodeID, err := c.findEpisode(ctx, showID, file.Season, file.Episode)
	if err != nil {
		return nil, err
	}
	if episodeID == 0 {
		logger.Debug().
			Str("title", file.Title).
			Int("season", file.Season).
			Int("episode", file.Episode).
			Msg("Episode not listed on tvsubtitles")
		return nil, nil
	}

	return c.listSubtitles(ctx, episodeID, file, langs)
}

// findShow resolves a series title to the site's show ID via the search form.
func (c *Client) findShow(ctx context.Context, title string) (int, error) {
	form := url.Values{"qs": {title}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search.php", strings.NewReader(form.Encode()))
	if err != nil {
		return 0, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	doc, err := c.fetchDocument(req, "search")
	if err != nil {
		return 0, err
	}

	showID := 0
	doc.Find(`a[href*="tvshow-"]`).EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, exists := link.Attr("href")
		if !exists {
			return true
		}
		if m := showHrefRegex.FindStringSubmatch(href); m != nil {
			showID, _ = strconv.Atoi(m[1])
			return false
		}
		return true
	})
	return showID, nil
}

// findEpisode scans the season page for the SxE cell and returns the episode ID.
func (c *Client) findEpisode(ctx context.Context, showID, season, episode int) (int, error) {
	endpoint := fmt.Sprintf("%s/tvshow-%d-%d.html", c.baseURL, showID, season)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("create season request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	doc, err := c.fetchDocument(req, "search")
	if err != nil {
		return 0, err
	}

	marker := fmt.Sprintf("%dx%02d", season, episode)
	episodeID := 0
	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if !strings.Contains(row.Text(), marker) {
			return true
		}
		row.Find(`a[href*="episode-"]`).EachWithBreak(func(_ int, link *goquery.Selection) bool {
			href, exists := link.Attr("href")
			if !exists {
				return true
			}
			if m := episodeHrefRegex.FindStringSubmatch(href); m != nil {
				episodeID, _ = strconv.Atoi(m[1])
				return false
			}
			return true
		})
		return episodeID == 0
	})
	return episodeID, nil
}

// listSubtitles parses the episode page's subtitle entries into candidates.
func (c *Client) listSubtitles(ctx context.Context, episodeID int, file models.MediaFile, langs models.LanguageSet) ([]provider.Candidate, error) {
	endpoint := fmt.Sprintf("%s/episode-%d.html", c.baseURL, episodeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create episode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	doc, err := c.fetchDocument(req, "search")
	if err != nil {
		return nil, err
	}

	var candidates []provider.Candidate
	doc.Find(`a[href*="subtitle-"]`).Each(func(_ int, link *goquery.Selection) {
		href, exists := link.Attr("href")
		if !exists {
			return
		}
		m := subtitleHrefRegex.FindStringSubmatch(href)
		if m == nil {
			return
		}

		tag, ok := flagLanguage(link)
		if !ok || !langs.Contains(tag) {
			return
		}

		release := strings.TrimSpace(link.Find("h5").Text())
		if release == "" {
			release = strings.TrimSpace(link.Text())
		}

		candidates = append(candidates, provider.Candidate{
			Provider:    backendName,
			Language:    tag,
			Release:     release,
			DownloadRef: m[1],
			Title:       file.Title,
			Season:      file.Season,
			Episode:     file.Episode,
		})
	})
	return candidates, nil
}

// Download fetches the subtitle archive for a candidate.
func (c *Client) Download(ctx context.Context, cand provider.Candidate) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/download-%s.html", c.baseURL, cand.DownloadRef)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewProviderError(backendName, "download", true, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError("download", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewProviderError(backendName, "download", true, fmt.Errorf("read body: %w", err))
	}
	return content, nil
}

// fetchDocument executes the request and parses the body through the
// charset-normalizing reader; the site serves more than one encoding.
func (c *Client) fetchDocument(req *http.Request, op string) (*goquery.Document, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewProviderError(backendName, op, true, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(op, resp.StatusCode)
	}

	utf8Body, err := NewUTF8Reader(resp.Body)
	if err != nil {
		return nil, apperrors.NewProviderError(backendName, op, false, fmt.Errorf("charset detection: %w", err))
	}

	doc, err := goquery.NewDocumentFromReader(utf8Body)
	if err != nil {
		return nil, apperrors.NewProviderError(backendName, op, false, fmt.Errorf("parse HTML: %w", err))
	}
	return doc, nil
}

// flagLanguage derives a language tag from the flag image inside a subtitle
// link (e.g. flags/en.gif, flags/pt_br.gif).
func flagLanguage(link *goquery.Selection) (language.Tag, bool) {
	src, exists := link.Find("img").Attr("src")
	if !exists {
		return language.Tag{}, false
	}
	m := flagSrcRegex.FindStringSubmatch(src)
	if m == nil {
		return language.Tag{}, false
	}
	code := strings.Replace(m[1], "_", "-", 1)
	tag, err := language.Parse(code)
	if err != nil {
		return language.Tag{}, false
	}
	return tag, true
}

func (c *Client) statusError(op string, status int) error {
	transient := status == http.StatusTooManyRequests || status >= 500
	return apperrors.NewProviderError(backendName, op, transient, fmt.Errorf("unexpected status code: %d", status))
}
