// Package page wraps a rendered feed page for inspection and annotation.
//
// A Page pairs the URL a document was rendered at with its goquery document.
// The CSS selectors that identify feed items, their id attribute, promotional
// items to skip, the next-page link and the canonical link come from
// configuration, so the same code serves any host that renders items as
// elements carrying a numeric id.
//
// ItemIDs enforces the ordering contract the reconciliation engine depends on:
// ids are positive and strictly decreasing in document order. A violation is
// reported as ErrBadID or ErrOrder, both of which wrap reconcile.ErrInvariant.
package page
