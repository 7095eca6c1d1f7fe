package feeds

import (
	"fmt"

	"feedmark/core/interval"
	"feedmark/core/page"
	"feedmark/core/reconcile"
	"feedmark/core/state"
	"feedmark/core/utils"
)

const dashboardKey = "dashboard"

// Dashboard is the primary feed. Later pages live at
// /dashboard/<page>/<offset>, where offset is the oldest item of the
// previous page.
type Dashboard struct {
	page   *page.Page
	number int
	offset int64
}

func newDashboard(p *page.Page, rest []string) (*Dashboard, error) {
	switch len(rest) {
	case 0:
		return &Dashboard{page: p, number: 1}, nil
	case 2:
		number := utils.ToInt(rest[0])
		if number < 2 {
			return nil, fmt.Errorf("%w: dashboard page %q", ErrUnsupported, rest[0])
		}
		offset := utils.ToInt64(rest[1])
		if offset <= 0 {
			return nil, fmt.Errorf("%w: dashboard offset %q", ErrUnsupported, rest[1])
		}
		return &Dashboard{page: p, number: number, offset: offset}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, p.URL.Path)
	}
}

func (d *Dashboard) Kind() Kind                 { return KindDashboard }
func (d *Dashboard) Key() string                { return dashboardKey }
func (d *Dashboard) Namespace() state.Namespace { return DashboardNamespace }
func (d *Dashboard) IsFirstPage() bool          { return d.offset == 0 }
func (d *Dashboard) MayDefer() bool             { return d.page.EndlessScroll() }

// PageNumber returns the 1-based page position.
func (d *Dashboard) PageNumber() int {
	return d.number
}

// AugmentHints stretches the span up to the previous page's oldest item.
func (d *Dashboard) AugmentHints(_ *reconcile.Cursor, span interval.Interval) interval.Interval {
	if d.offset > span.High {
		span.High = d.offset
	}
	return span
}

// UpdateHints is a no-op beyond clearing: the page URL carries the hint.
func (d *Dashboard) UpdateHints(c *reconcile.Cursor, _ []int64) {
	c.Hints = nil
}

// JumpURL links to the page that starts right at the goal post.
func (d *Dashboard) JumpURL(c *reconcile.Cursor) (string, bool) {
	if !c.Visited() {
		return "", false
	}
	return fmt.Sprintf("/dashboard/2/%d", c.GoalPost+1), true
}
