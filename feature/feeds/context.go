package feeds

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"feedmark/core/page"
	"feedmark/core/reconcile"
	"feedmark/core/state"
)

// Kind identifies a feed context variant.
type Kind string

const (
	KindDashboard Kind = "dashboard"
	KindTagged    Kind = "tagged"
)

var (
	// ErrUnsupported is returned for pages that are not a known feed.
	ErrUnsupported = errors.New("unsupported feed page")

	// DashboardNamespace stores primary feed cursors.
	DashboardNamespace = state.Namespace{Name: string(KindDashboard)}
	// TaggedNamespace stores tag feed cursors together with adjacency hints.
	TaggedNamespace = state.Namespace{Name: string(KindTagged), Hinted: true}
)

// Namespaces returns the cursor namespaces of every feed variant.
func Namespaces() []state.Namespace {
	return []state.Namespace{DashboardNamespace, TaggedNamespace}
}

// NamespaceFor returns the cursor namespace of kind.
func NamespaceFor(kind Kind) (state.Namespace, error) {
	switch kind {
	case KindDashboard:
		return DashboardNamespace, nil
	case KindTagged:
		return TaggedNamespace, nil
	default:
		return state.Namespace{}, fmt.Errorf("%w: unknown kind %q", ErrUnsupported, kind)
	}
}

// Context is a detected feed context for one rendered page.
type Context interface {
	reconcile.Hinter

	// Kind returns the feed variant.
	Kind() Kind
	// Key returns the canonical cursor key within the variant's namespace.
	Key() string
	// Namespace returns where the cursor is stored.
	Namespace() state.Namespace
	// IsFirstPage reports whether the page shows the most recent items.
	IsFirstPage() bool
	// MayDefer reports whether the surface appends items without a reload.
	MayDefer() bool
	// JumpURL returns a link to the page holding the goal post, if the
	// variant can build one.
	JumpURL(c *reconcile.Cursor) (string, bool)
}

// Resolver looks up the host's canonical form of a tag.
type Resolver interface {
	Resolve(ctx context.Context, tag string) (string, error)
}

// Detect inspects the page URL and returns the matching feed context.
func Detect(ctx context.Context, p *page.Page, r Resolver) (Context, error) {
	segments := pathSegments(p.URL.Path)
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, p.URL.Path)
	}

	switch Kind(segments[0]) {
	case KindDashboard:
		return newDashboard(p, segments[1:])
	case KindTagged:
		if len(segments) != 2 {
			return nil, fmt.Errorf("%w: %s", ErrUnsupported, p.URL.Path)
		}
		return newTagged(ctx, p, segments[1], r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, p.URL.Path)
	}
}

func pathSegments(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
