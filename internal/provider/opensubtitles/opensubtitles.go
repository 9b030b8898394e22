// Package opensubtitles implements the OpenSubtitles REST API v1 backend:
// JWT login, subtitle search, and the two-step download-link flow.
package opensubtitles

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"sublify/internal/apperrors"
	"sublify/internal/models"
	"sublify/internal/provider"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.opensubtitles.com/api/v1"

const backendName = "opensubtitles"

func init() {
	provider.Register(backendName, New)
}

// Client talks to the OpenSubtitles REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	creds      provider.Credentials

	mu    sync.RWMutex // protects token
	token string
}

// New creates the OpenSubtitles backend.
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
		creds:      opts.Credentials,
	}, nil
}

// Name returns the registry name of the backend.
func (c *Client) Name() string {
	return backendName
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	Status int    `json:"status"`
}

type searchResponse struct {
	Data []struct {
		Attributes struct {
			Language        string `json:"language"`
			Release         string `json:"release"`
			HearingImpaired bool   `json:"hearing_impaired"`
			FeatureDetails  struct {
				Title         string `json:"title"`
				Year          int    `json:"year"`
				SeasonNumber  int    `json:"season_number"`
				EpisodeNumber int    `json:"episode_number"`
			} `json:"feature_details"`
			Files []struct {
				FileID   int    `json:"file_id"`
				FileName string `json:"file_name"`
			} `json:"files"`
		} `json:"attributes"`
	} `json:"data"`
}

type downloadRequest struct {
	FileID int `json:"file_id"`
}

type downloadResponse struct {
	Link     string `json:"link"`
	FileName string `json:"file_name"`
}

// Authenticate logs in when a username/password pair is present. Anonymous
// mode is a supported reduced-capability path, so zero credentials succeed
// immediately.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.creds.Username == "" || c.creds.Password == "" {
		return nil
	}

	body, err := json.Marshal(loginRequest{
		Username: c.creds.Username,
		Password: c.creds.Password,
	})
	if err != nil {
		return fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create login request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewProviderError(backendName, "login", true, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return apperrors.NewAuthenticationError(backendName, fmt.Sprintf("login returned status %d", resp.StatusCode))
	default:
		return c.statusError("login", resp.StatusCode)
	}

	var loginResp loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return apperrors.NewProviderError(backendName, "login", false, fmt.Errorf("decode response: %w", err))
	}
	if loginResp.Token == "" {
		return apperrors.NewAuthenticationError(backendName, "login response carried no token")
	}

	c.mu.Lock()
	c.token = loginResp.Token
	c.mu.Unlock()
	return nil
}

// Search lists subtitle candidates for the file across the requested languages.
func (c *Client) Search(ctx context.Context, file models.MediaFile, langs models.LanguageSet) ([]provider.Candidate, error) {
	query := url.Values{}
	query.Set("query", file.Title)
	query.Set("languages", strings.ToLower(strings.Join(langs.Strings(), ",")))
	if file.Kind == models.KindEpisode {
		query.Set("type", "episode")
		if file.Season > 0 {
			query.Set("season_number", strconv.Itoa(file.Season))
		}
		if file.Episode > 0 {
			query.Set("episode_number", strconv.Itoa(file.Episode))
		}
	} else {
		query.Set("type", "movie")
		if file.Year > 0 {
			query.Set("year", strconv.Itoa(file.Year))
		}
	}

	endpoint := c.baseURL + "/subtitles?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	c.setHeaders(req)

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
		attrs := item.Attributes
		tag, err := language.Parse(attrs.Language)
		if err != nil {
			continue
		}
		if len(attrs.Files) == 0 {
			continue
		}
		candidates = append(candidates, provider.Candidate{
			Provider:        backendName,
			Language:        tag,
			Release:         attrs.Release,
			HearingImpaired: attrs.HearingImpaired,
			DownloadRef:     strconv.Itoa(attrs.Files[0].FileID),
			Title:           attrs.FeatureDetails.Title,
			Year:            attrs.FeatureDetails.Year,
			Season:          attrs.FeatureDetails.SeasonNumber,
			Episode:         attrs.FeatureDetails.EpisodeNumber,
		})
	}
	return candidates, nil
}

// Download resolves a candidate's file ID to a temporary link and fetches it.
func (c *Client) Download(ctx context.Context, cand provider.Candidate) ([]byte, error) {
	fileID, err := strconv.Atoi(cand.DownloadRef)
	if err != nil {
		return nil, apperrors.NewProviderError(backendName, "download", false, fmt.Errorf("bad download ref %q: %w", cand.DownloadRef, err))
	}

	body, err := json.Marshal(downloadRequest{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("marshal download request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/download", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewProviderError(backendName, "download", true, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError("download", resp.StatusCode)
	}

	var dl downloadResponse
	if err := json.NewDecoder(resp.Body).Decode(&dl); err != nil {
		return nil, apperrors.NewProviderError(backendName, "download", false, fmt.Errorf("decode response: %w", err))
	}
	if dl.Link == "" {
		return nil, apperrors.NewProviderError(backendName, "download", false, fmt.Errorf("no download link in response"))
	}

	return c.fetchLink(ctx, dl.Link)
}

func (c *Client) fetchLink(ctx context.Context, link string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("create link request: %w", err)
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

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.creds.APIKey != "" {
		req.Header.Set("Api-Key", c.creds.APIKey)
	}
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// statusError classifies an unexpected HTTP status: rate limiting and server
// errors are transient, everything else is permanent.
func (c *Client) statusError(op string, status int) error {
	transient := status == http.StatusTooManyRequests || status >= 500
	return apperrors.NewProviderError(backendName, op, transient, fmt.Errorf("unexpected status code: %d", status))
}
