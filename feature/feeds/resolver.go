package feeds

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// ErrNoCanonical is returned when the host page carries no usable canonical link.
var ErrNoCanonical = errors.New("no canonical tag link")

type resolvedTag struct {
	tag   string
	built time.Time
}

// HTTPResolver asks the feed host for the canonical form of a tag by fetching
// the tag page and reading its canonical link. Results are cached for the
// configured TTL and concurrent lookups of one tag share a single request.
type HTTPResolver struct {
	site     *url.URL
	client   *http.Client
	limiter  *rate.Limiter
	ttl      time.Duration
	selector string
	logger   *zap.Logger

	mu    sync.RWMutex
	cache map[string]resolvedTag
	sf    singleflight.Group
}

// NewHTTPResolver creates a resolver for the site in cfg.
func NewHTTPResolver(cfg Config, client *http.Client, logger *zap.Logger) (*HTTPResolver, error) {
	if cfg.SiteURL == "" {
		return nil, fmt.Errorf("feed site url is required")
	}
	site, err := url.Parse(cfg.SiteURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed site url: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}
	limit := rate.Inf
	if cfg.ResolverRate > 0 {
		limit = rate.Limit(cfg.ResolverRate)
	}
	burst := cfg.ResolverBurst
	if burst <= 0 {
		burst = 1
	}
	selector := cfg.Selectors.Canonical
	if selector == "" {
		selector = "link[rel=canonical]"
	}
	return &HTTPResolver{
		site:     site,
		client:   client,
		limiter:  rate.NewLimiter(limit, burst),
		ttl:      cfg.TTL(),
		selector: selector,
		logger:   logger,
		cache:    make(map[string]resolvedTag),
	}, nil
}

// Resolve returns the canonical tag for raw.
func (r *HTTPResolver) Resolve(ctx context.Context, raw string) (string, error) {
	key := NormalizeTag(raw)

	if tag, ok := r.cached(key); ok {
		return tag, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		if tag, ok := r.cached(key); ok {
			return tag, nil
		}

		tag, err := r.fetch(ctx, raw)
		if err != nil {
			return nil, err
		}

		r.store(key, tag)
		return tag, nil
	})
	if err != nil {
		r.logger.Debug("Tag resolution failed", zap.String("tag", raw), zap.Error(err))
		return "", err
	}
	return result.(string), nil
}

// Invalidate drops every cached tag.
func (r *HTTPResolver) Invalidate() {
	r.mu.Lock()
	r.cache = make(map[string]resolvedTag)
	r.mu.Unlock()
}

func (r *HTTPResolver) cached(key string) (string, bool) {
	if r.ttl <= 0 {
		return "", false
	}
	r.mu.RLock()
	entry, ok := r.cache[key]
	r.mu.RUnlock()
	if !ok {
		return "", false
	}
	if time.Since(entry.built) > r.ttl {
		r.mu.Lock()
		if current, ok := r.cache[key]; ok && current.built.Equal(entry.built) {
			delete(r.cache, key)
		}
		r.mu.Unlock()
		return "", false
	}
	return entry.tag, true
}

// store caches tag under key and drops every expired entry.
func (r *HTTPResolver) store(key, tag string) {
	if r.ttl <= 0 {
		return
	}
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, entry := range r.cache {
		if now.Sub(entry.built) > r.ttl {
			delete(r.cache, k)
		}
	}
	r.cache[key] = resolvedTag{tag: tag, built: now}
}

func (r *HTTPResolver) fetch(ctx context.Context, raw string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	target := r.site.JoinPath("tagged", strings.TrimSpace(raw))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, target)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", target, err)
	}

	href, ok := doc.Find(r.selector).First().Attr("href")
	if !ok {
		return "", ErrNoCanonical
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCanonical, err)
	}
	tag, ok := tagFromPath(target.ResolveReference(ref).Path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoCanonical, href)
	}
	return tag, nil
}
