package versions

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tidwall/gjson"
	"resty.dev/v3"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

const (
	// DefaultTTL is how long a fetched release stays fresh.
	DefaultTTL = time.Hour

	// DefaultBaseURL is the GitHub REST API endpoint.
	DefaultBaseURL = "https://api.github.com"
)

// Lookup is the synchronous, I/O-free view of a resolver used by the
// manifest compilers.
type Lookup interface {
	Current(key string) string
}

// Static is a Lookup backed by a fixed map, falling back to the pinned
// defaults for unknown keys.
type Static map[string]string

// Current returns the pinned version for key.
func (s Static) Current(key string) string {
	if v, ok := s[key]; ok {
		return v
	}
	for _, src := range DefaultSources() {
		if src.Key == key {
			return src.Fallback
		}
	}
	return ""
}

type entry struct {
	value     string
	fetchedAt time.Time
}

// Resolver resolves versions through a cache, the release API, an
// environment override and a pinned fallback, in that order. It is safe for
// concurrent use; concurrent refreshes are last-write-wins.
type Resolver struct {
	client  *resty.Client
	order   []string
	sources map[string]Source
	entries map[string]*atomic.Pointer[entry]
	ttl     time.Duration
	now     func() time.Time
	getenv  func(string) string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBaseURL points the resolver at a different release API.
func WithBaseURL(url string) Option {
	return func(r *Resolver) { r.client.SetBaseURL(url) }
}

// WithToken authenticates release API calls.
func WithToken(token string) Option {
	return func(r *Resolver) {
		if token != "" {
			r.client.SetAuthToken(token)
		}
	}
}

// WithRetries sets how often a failed release call is retried.
func WithRetries(count int) Option {
	return func(r *Resolver) { r.client.SetRetryCount(count) }
}

// WithTTL overrides the cache lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(r *Resolver) { r.ttl = ttl }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithEnv overrides the environment lookup.
func WithEnv(getenv func(string) string) Option {
	return func(r *Resolver) { r.getenv = getenv }
}

// NewResolver creates a resolver for the given sources.
func NewResolver(sources []Source, opts ...Option) *Resolver {
	client := resty.New().
		SetBaseURL(DefaultBaseURL).
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("User-Agent", "kubefoundry")

	r := &Resolver{
		client:  client,
		sources: make(map[string]Source, len(sources)),
		entries: make(map[string]*atomic.Pointer[entry], len(sources)),
		ttl:     DefaultTTL,
		now:     time.Now,
		getenv:  os.Getenv,
	}
	for _, src := range sources {
		r.order = append(r.order, src.Key)
		r.sources[src.Key] = src
		r.entries[src.Key] = &atomic.Pointer[entry]{}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Close releases the underlying HTTP client.
func (r *Resolver) Close() error {
	return r.client.Close()
}

// Sources returns the configured sources in registration order.
func (r *Resolver) Sources() []Source {
	out := make([]Source, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.sources[key])
	}
	return out
}

// Resolve returns a fresh cached value, else the latest release (refreshing
// the cache), else the environment override, else the fallback. A failed
// fetch is logged and never returned as an error.
func (r *Resolver) Resolve(ctx context.Context, key string) string {
	src, ok := r.sources[key]
	if !ok {
		return ""
	}

	if e := r.entries[key].Load(); e != nil && r.now().Sub(e.fetchedAt) < r.ttl {
		cacheHitsTotal.WithLabelValues(key).Inc()
		return e.value
	}

	value, err := r.Refresh(ctx, key)
	if err == nil {
		return value
	}

	logger := log.FromContext(ctx).WithValues("source", key, "repository", src.Repository)
	logger.Error(err, "Failed to fetch latest release, using local version")

	if v := r.override(src); v != "" {
		return v
	}
	return src.Fallback
}

// Refresh fetches the latest release and stores it in the cache.
func (r *Resolver) Refresh(ctx context.Context, key string) (string, error) {
	src, ok := r.sources[key]
	if !ok {
		return "", fmt.Errorf("unknown version source %q", key)
	}

	value, err := r.fetch(ctx, src)
	if err != nil {
		fetchTotal.WithLabelValues(key, "error").Inc()
		return "", err
	}
	fetchTotal.WithLabelValues(key, "success").Inc()

	r.entries[key].Store(&entry{value: value, fetchedAt: r.now()})
	log.FromContext(ctx).V(1).Info("Refreshed release version", "source", key, "version", value)
	return value, nil
}

// Current returns the cached value regardless of age, else the environment
// override, else the fallback. It never performs I/O.
func (r *Resolver) Current(key string) string {
	src, ok := r.sources[key]
	if !ok {
		return ""
	}
	if e := r.entries[key].Load(); e != nil {
		return e.value
	}
	if v := r.override(src); v != "" {
		return v
	}
	return src.Fallback
}

// Invalidate drops the cached value for key.
func (r *Resolver) Invalidate(key string) {
	if p, ok := r.entries[key]; ok {
		p.Store(nil)
	}
}

// InvalidateAll drops every cached value.
func (r *Resolver) InvalidateAll() {
	for _, p := range r.entries {
		p.Store(nil)
	}
}

func (r *Resolver) fetch(ctx context.Context, src Source) (string, error) {
	if src.Repository == "" {
		return "", fmt.Errorf("no repository configured for %q", src.Key)
	}

	resp, err := r.client.R().
		SetContext(ctx).
		Get("/repos/" + src.Repository + "/releases/latest")
	if err != nil {
		return "", fmt.Errorf("failed to fetch latest release of %s: %w", src.Repository, err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("failed to fetch latest release of %s: status %d", src.Repository, resp.StatusCode())
	}

	tag := gjson.Get(resp.String(), "tag_name").String()
	version := strings.TrimPrefix(strings.TrimSpace(tag), "v")
	if version == "" {
		return "", fmt.Errorf("latest release of %s has no tag", src.Repository)
	}
	return version, nil
}

func (r *Resolver) override(src Source) string {
	if src.EnvVar == "" {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSpace(r.getenv(src.EnvVar)), "v")
}
