// Package feeds detects which feed a rendered page belongs to and supplies the
// per-variant behavior the reconciliation engine needs.
//
// # Variants
//
//   - Dashboard: the primary feed. /dashboard is the first page and
//     /dashboard/<page>/<offset> a later one. The offset in the URL is the
//     adjacency hint, so nothing extra is persisted.
//   - Tagged: a tag filtered feed at /tagged/<tag>. Later pages carry a
//     ?before=<timestamp> query, so the cursor keeps a timestamp to item id
//     map recording which witnessed item sits right above each page boundary.
//
// # Canonical tags
//
// Tag cursors are keyed by the host's canonical tag. Detect reads the page's
// canonical link first, then asks a Resolver (HTTPResolver fetches the tag page
// from the host, rate limited and cached), and finally falls back to
// NormalizeTag.
package feeds
