// Package session owns the provider side of a run: it authenticates the
// configured backends once, searches and scores candidates per media file,
// and downloads the winning subtitle with retries and a shared download
// cache. One Session lives for the whole invocation.
package session

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"sublify/internal/apperrors"
	"sublify/internal/cache"
	"sublify/internal/config"
	"sublify/internal/httpx"
	"sublify/internal/models"
	"sublify/internal/provider"

	// Provider backends register themselves at init time.
	_ "sublify/internal/provider/opensubtitles"
	_ "sublify/internal/provider/podnapisi"
	_ "sublify/internal/provider/tvsubtitles"
)

// Session is an authenticated connection to the configured provider backends.
type Session struct {
	logger    zerolog.Logger
	providers []provider.Provider
	byName    map[string]provider.Provider
	downloads cache.Cache
	retries   int
}

// cacheLogger adapts zerolog to the cache error reporting interface.
type cacheLogger struct {
	logger zerolog.Logger
}

func (l cacheLogger) Error(msg string, err error) {
	l.logger.Error().Err(err).Msg(msg)
}

// Open builds the provider set from the configured allow-list and
// authenticates each backend. A rejected credential pair is fatal; absent
// credentials only mean anonymous access.
func Open(ctx context.Context, cfg *config.Config) (*Session, error) {
	logger := config.GetLogger()
	httpClient := httpx.NewClient(cfg.Proxy, cfg.Timeout())

	creds := provider.Credentials{
		Username: cfg.OpenSubtitles.Username,
		Password: cfg.OpenSubtitles.Password,
		APIKey:   cfg.OpenSubtitles.APIKey,
	}

	providers := make([]provider.Provider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		p, err := provider.New(name, provider.Options{
			HTTPClient:  httpClient,
			UserAgent:   cfg.UserAgent,
			Credentials: creds,
		})
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}

	for _, p := range providers {
		policy := newRetryPolicy[any](retries)
		_, err := failsafe.With[any](policy).WithContext(ctx).Get(func() (any, error) {
			return nil, p.Authenticate(ctx)
		})
		if err != nil {
			return nil, fmt.Errorf("authenticate %s: %w", p.Name(), err)
		}
		logger.Debug().Str("provider", p.Name()).Msg("Provider ready")
	}

	downloads, err := cache.New(cfg.Cache.Backend, cache.BackendConfig{
		Size:          cfg.Cache.Size,
		TTL:           cfg.CacheTTL(),
		Logger:        cacheLogger{logger: logger},
		RedisAddress:  cfg.Cache.RedisAddress,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("open download cache: %w", err)
	}

	return newSession(logger, providers, downloads, retries), nil
}

func newSession(logger zerolog.Logger, providers []provider.Provider, downloads cache.Cache, retries int) *Session {
	byName := make(map[string]provider.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Session{
		logger:    logger,
		providers: providers,
		byName:    byName,
		downloads: downloads,
		retries:   retries,
	}
}

// Close releases the download cache.
func (s *Session) Close() error {
	if s.downloads == nil {
		return nil
	}
	return s.downloads.Close()
}

// Fetch resolves one request into exactly one result per requested language.
// Providers are searched once for the whole language set; download and
// selection happen per language.
func (s *Session) Fetch(ctx context.Context, req models.FetchRequest) []models.FetchResult {
	candidates, searchErr := s.search(ctx, req.File, req.Languages)

	results := make([]models.FetchResult, 0, req.Languages.Len())
	for _, lang := range req.Languages.Tags() {
		results = append(results, s.fetchLanguage(ctx, req, lang, candidates, searchErr))
	}
	return results
}

// search queries every provider, tolerating individual failures as long as
// at least the others can answer. The first error is kept so languages with
// no candidates can distinguish "nothing offered" from "provider down".
func (s *Session) search(ctx context.Context, file models.MediaFile, langs models.LanguageSet) ([]provider.Candidate, error) {
	var all []provider.Candidate
	var firstErr error

	for _, p := range s.providers {
		p := p
		policy := newRetryPolicy[[]provider.Candidate](s.retries)
		found, err := failsafe.With[[]provider.Candidate](policy).WithContext(ctx).Get(func() ([]provider.Candidate, error) {
			return p.Search(ctx, file, langs)
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("provider", p.Name()).Str("file", file.Path).Msg("Provider search failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		s.logger.Debug().Str("provider", p.Name()).Int("candidates", len(found)).Msg("Provider search done")
		all = append(all, found...)
	}
	return all, firstErr
}

// scored pairs a candidate with its match score.
type scored struct {
	candidate provider.Candidate
	score     float64
}

func (s *Session) fetchLanguage(ctx context.Context, req models.FetchRequest, lang language.Tag, candidates []provider.Candidate, searchErr error) models.FetchResult {
	ranked := rankCandidates(candidates, req, lang)
	if len(ranked) == 0 {
		if searchErr != nil {
			return models.Failed(lang, searchErr)
		}
		return models.NotFound(lang)
	}

	var lastErr error
	for _, entry := range ranked {
		content, err := s.download(ctx, entry.candidate, req.File.Episode)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("provider", entry.candidate.Provider).
				Str("release", entry.candidate.Release).
				Msg("Candidate download failed, trying next")
			lastErr = err
			continue
		}
		return models.Found(lang, entry.candidate.Provider, entry.score, content)
	}
	return models.Failed(lang, lastErr)
}

// rankCandidates filters candidates to the language and minimum score, then
// orders them best first. Candidates whose hearing-impaired flag matches the
// request are preferred over a higher raw score.
func rankCandidates(candidates []provider.Candidate, req models.FetchRequest, lang language.Tag) []scored {
	var ranked []scored
	for _, c := range candidates {
		if c.Language.String() != lang.String() {
			continue
		}
		score := provider.Score(c, req.File)
		if score < req.MinScore {
			continue
		}
		ranked = append(ranked, scored{candidate: c, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		iMatch := ranked[i].candidate.HearingImpaired == req.HearingImpaired
		jMatch := ranked[j].candidate.HearingImpaired == req.HearingImpaired
		if iMatch != jMatch {
			return iMatch
		}
		return ranked[i].score > ranked[j].score
	})
	return ranked
}

// download fetches a candidate's payload, reusing the cache across files so
// a season pack is pulled once, and unpacks any archive around the subtitle.
func (s *Session) download(ctx context.Context, c provider.Candidate, episode int) ([]byte, error) {
	key := c.Provider + ":" + c.DownloadRef

	payload, ok := s.downloads.Get(key)
	if ok {
		s.logger.Debug().Str("key", key).Msg("Download served from cache")
	} else {
		p, registered := s.byName[c.Provider]
		if !registered {
			return nil, fmt.Errorf("candidate from unknown provider %q", c.Provider)
		}

		policy := newRetryPolicy[[]byte](s.retries)
		var err error
		payload, err = failsafe.With[[]byte](policy).WithContext(ctx).Get(func() ([]byte, error) {
			return p.Download(ctx, c)
		})
		if err != nil {
			return nil, err
		}
		s.downloads.Set(key, payload)
	}

	return ExtractSubtitle(payload, episode)
}

// newRetryPolicy retries transient provider failures with a capped backoff.
// Non-transient errors (bad credentials, malformed responses) fail fast.
func newRetryPolicy[R any](maxRetries int) retrypolicy.RetryPolicy[R] {
	return retrypolicy.NewBuilder[R]().
		HandleIf(func(_ R, err error) bool {
			return apperrors.IsTransient(err)
		}).
		WithMaxRetries(maxRetries).
		WithBackoff(time.Second, 8*time.Second).
		Build()
}
