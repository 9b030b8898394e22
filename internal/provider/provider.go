// Package provider defines the closed set of subtitle provider backends and
// the registry they are selected from via the configured allow-list.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"golang.org/x/text/language"

	"sublify/internal/models"
)

// Credentials is the optional credential material for a provider backend.
// Absence is not an error; providers fall back to anonymous access with
// reduced rate limits.
type Credentials struct {
	Username string
	Password string
	APIKey   string
}

// IsZero reports whether no credential material was supplied.
func (c Credentials) IsZero() bool {
	return c.Username == "" && c.Password == "" && c.APIKey == ""
}

// Options configures a provider backend at construction time.
type Options struct {
	// HTTPClient is the shared client (proxy, timeout, decompression).
	HTTPClient *http.Client

	// UserAgent is sent with every request.
	UserAgent string

	// BaseURL overrides the backend's default endpoint. Used by tests.
	BaseURL string

	Credentials Credentials
}

// Candidate is one subtitle offered by a backend for a single language.
// DownloadRef is backend-specific and opaque to everything but the backend
// that produced it.
type Candidate struct {
	Provider        string
	Language        language.Tag
	Release         string
	HearingImpaired bool
	DownloadRef     string

	// Optional metadata; when absent it is inferred from Release for scoring.
	Title   string
	Year    int
	Season  int
	Episode int
}

// Provider is one subtitle backend. Implementations are a closed set of
// tagged variants registered at init time, not dynamically loaded plugins.
type Provider interface {
	// Name returns the registry name of the backend.
	Name() string

	// Authenticate establishes a provider session when credentials are
	// present. With zero credentials it is a no-op; an explicit rejection
	// returns apperrors.ErrAuthentication.
	Authenticate(ctx context.Context) error

	// Search lists candidates for the file covering the given languages.
	Search(ctx context.Context, file models.MediaFile, langs models.LanguageSet) ([]Candidate, error)

	// Download fetches the raw payload for a candidate. The payload may be
	// an archive; unpacking is the session's concern.
	Download(ctx context.Context, c Candidate) ([]byte, error)
}

// Factory is a constructor function that creates a Provider from options.
type Factory func(opts Options) (Provider, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register registers a provider backend under the given name.
// It panics if the name is already registered or the factory is nil.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if f == nil {
		panic("provider: Register factory is nil")
	}
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("provider: backend %q already registered", name))
	}
	factories[name] = f
}

// New creates a provider backend by registry name.
func New(name string, opts Options) (Provider, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("provider: unknown backend %q (registered: %v)", name, Registered())
	}

	return f(opts)
}

// Registered returns a sorted list of registered backend names.
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
