package feeds

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"feedmark/core/interval"
	"feedmark/core/page"
	"feedmark/core/reconcile"
	"feedmark/core/state"
)

// Tagged is a tag filtered feed. Pagination is by timestamp: a later page
// carries ?before=<unix seconds> and its items are older than that instant.
type Tagged struct {
	page   *page.Page
	tag    string
	before int64
}

func newTagged(ctx context.Context, p *page.Page, raw string, r Resolver) (*Tagged, error) {
	before, err := beforeParam(p.URL)
	if err != nil {
		return nil, err
	}
	tag := canonicalTag(ctx, p, raw, r)
	if tag == "" {
		return nil, fmt.Errorf("%w: empty tag", ErrUnsupported)
	}
	return &Tagged{page: p, tag: tag, before: before}, nil
}

func (t *Tagged) Kind() Kind                 { return KindTagged }
func (t *Tagged) Key() string                { return t.tag }
func (t *Tagged) Namespace() state.Namespace { return TaggedNamespace }
func (t *Tagged) IsFirstPage() bool          { return t.before == 0 }
func (t *Tagged) MayDefer() bool             { return t.page.EndlessScroll() }

// JumpURL is not available: timestamps cannot be derived from item ids.
func (t *Tagged) JumpURL(*reconcile.Cursor) (string, bool) {
	return "", false
}

// AugmentHints stretches the span up to the item recorded as sitting right
// above this page's before timestamp.
func (t *Tagged) AugmentHints(c *reconcile.Cursor, span interval.Interval) interval.Interval {
	if t.before == 0 {
		return span
	}
	if id, ok := c.Hints[t.before]; ok && id > span.High {
		span.High = id
	}
	return span
}

// UpdateHints records the next page boundary and drops hints whose item is
// no longer inside a witnessed range.
func (t *Tagged) UpdateHints(c *reconcile.Cursor, observed []int64) {
	if len(c.Witnessed) == 0 {
		c.Hints = nil
		return
	}

	if next, ok := t.page.NextURL(); ok && len(observed) > 0 {
		oldest := observed[len(observed)-1]
		if ts, err := beforeParam(next); err == nil && ts > 0 && c.Witnessed.Find(oldest) != interval.NotFound {
			if c.Hints == nil {
				c.Hints = make(map[int64]int64)
			}
			c.Hints[ts] = oldest
		}
	}

	for ts, id := range c.Hints {
		if c.Witnessed.Find(id) == interval.NotFound {
			delete(c.Hints, ts)
		}
	}
	if len(c.Hints) == 0 {
		c.Hints = nil
	}
}

func beforeParam(u *url.URL) (int64, error) {
	raw := u.Query().Get("before")
	if raw == "" {
		return 0, nil
	}
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ts <= 0 {
		return 0, fmt.Errorf("%w: before=%q", ErrUnsupported, raw)
	}
	return ts, nil
}

// canonicalTag prefers the page's own canonical link, then the resolver, then
// local normalization.
func canonicalTag(ctx context.Context, p *page.Page, raw string, r Resolver) string {
	if u, ok := p.CanonicalURL(); ok {
		if tag, ok := tagFromPath(u.Path); ok {
			return tag
		}
	}
	if r != nil {
		if tag, err := r.Resolve(ctx, raw); err == nil && tag != "" {
			return tag
		}
	}
	return NormalizeTag(raw)
}

func tagFromPath(path string) (string, bool) {
	segments := pathSegments(path)
	if len(segments) != 2 || Kind(segments[0]) != KindTagged {
		return "", false
	}
	return segments[1], true
}

// NormalizeTag is the local approximation of the host's canonical tag form.
func NormalizeTag(raw string) string {
	tag := strings.ToLower(strings.TrimSpace(raw))
	return strings.Join(strings.Fields(tag), "-")
}
