// Package podnapisi implements the Podnapisi.NET search API backend.
// Search is a JSON endpoint; downloads arrive as ZIP archives.
package podnapisi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"sublify/internal/apperrors"
	"sublify/internal/models"
	"sublify/internal/provider"
)

// DefaultBaseURL is the production site endpoint.
const DefaultBaseURL = "https://www.podnapisi.net"

const backendName = "podnapisi"

func init() {
	provider.Register(backendName, New)
}

// Client talks to the Podnapisi search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// New creates the Podnapisi backend. The backend is anonymous only.
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

// Authenticate is a no-op; Podnapisi search and download are anonymous.
func (c *Client) Authenticate(ctx context.Context) error {
	return nil
}

type searchResponse struct {
	Status string `json:"status"`
	Data   []struct {
		ID       int      `json:"id"`
		Language string   `json:"language"`
		Releases []string `json:"custom_releases"`
		Download string   `json:"download"`
		Movie    struct {
			Title string `json:"title"`
			Year  int    `json:"year"`
		} `json:"movie"`
	} `json:"data"`
}

// Search queries the JSON search endpoint once per run; languages are passed
// as repeated query parameters.
func (c *Client) Search(ctx context.Context, file models.MediaFile, langs models.LanguageSet) ([]provider.Candidate, error) {
	query := url.Values{}
	query.Set("keywords", file.Title)
	for _, lang := range langs.Strings() {
		query.Add("language", strings.ToLower(lang))
	}
	if file.Kind == models.KindEpisode {
		query.Set("movie_type", "tv-series")
		if file.Season > 0 {
			query.Set("seasons", strconv.Itoa(file.Season))
		}
		if file.Episode > 0 {
			query.Set("episodes", strconv.Itoa(file.Episode))
		}
	} else {
		query.Set("movie_type", "movie")
		if file.Year > 0 {
			query.Set("year", strconv.Itoa(file.Year))
		}
	}

	endpoint := c.baseURL + "/subtitles/search/?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewProviderError(backendName, "search", true, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError("search", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.NewProviderError(backendName, "search", false, fmt.Errorf("decode response: %w", err))
	}

	candidates := make([]provider.Candidate, 0, len(result.Data))
	for _, item := range result.Data {
		tag, err := language.Parse(item.Language)
		if err != nil || item.Download == "" {
			continue
		}
		release := ""
		if len(item.Releases) > 0 {
			release = item.Releases[0]
		}
		candidates = append(candidates, provider.Candidate{
			Provider:    backendName,
			Language:    tag,
			Release:     release,
			DownloadRef: item.Download,
			Title:       item.Movie.Title,
			Year:        item.Movie.Year,
		})
	}
	return candidates, nil
}

// Download fetches the candidate's archive. The ref may be site-relative.
func (c *Client) Download(ctx context.Context, cand provider.Candidate) ([]byte, error) {
	link := cand.DownloadRef
	if strings.HasPrefix(link, "/") {
		link = c.baseURL + link
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
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

func (c *Client) statusError(op string, status int) error {
	transient := status == http.StatusTooManyRequests || status >= 500
	return apperrors.NewProviderError(backendName, op, transient, fmt.Errorf("unexpected status code: %d", status))
}
