// Package marker renders the "new since last visit" separator into a page.
//
// Exactly one separator may exist on a page. Place fails with ErrMarkerExists
// when one is already present and with ErrItemNotFound when the target item
// is not rendered; both are final for the activation that asked.
package marker
