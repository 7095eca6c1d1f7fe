package marker

import (
	"errors"
	"fmt"
	"html"

	"feedmark/core/page"
)

const (
	// SeparatorID is the element id of the rendered separator.
	SeparatorID = "feedmark-separator"
	// SeparatorClass is the base class of the separator.
	SeparatorClass = "feedmark-separator"
	// HighlightClass is added when the highlighted style is enabled.
	HighlightClass = "feedmark-separator--highlight"
	// JumpID is the element id of the jump-to-marker control.
	JumpID = "feedmark-jump"
)

var (
	// ErrMarkerExists is returned when a separator is already on the page.
	ErrMarkerExists = errors.New("separator already placed")
	// ErrItemNotFound is returned when the target item is not rendered.
	ErrItemNotFound = errors.New("item not rendered")
	// ErrNoControls is returned when the page has no controls container.
	ErrNoControls = errors.New("controls container not found")
)

// Preferences control the visual style and control visibility.
type Preferences struct {
	// Highlight renders the separator with the highlighted style.
	Highlight bool `mapstructure:"highlight" default:"false"`
	// ShowControls adds the jump-to-marker control when available.
	ShowControls bool `mapstructure:"show_controls" default:"true"`
}

// Exists reports whether the page already carries a separator.
func Exists(p *page.Page) bool {
	return p.Doc.Find("#" + SeparatorID).Length() > 0
}

// Place inserts the separator immediately before the item with the given id.
func Place(p *page.Page, id int64, prefs Preferences) error {
	if Exists(p) {
		return ErrMarkerExists
	}
	item := p.Item(id)
	if item.Length() == 0 {
		return fmt.Errorf("%w: %d", ErrItemNotFound, id)
	}

	class := SeparatorClass
	if prefs.Highlight {
		class += " " + HighlightClass
	}
	item.BeforeHtml(fmt.Sprintf(`<div class="%s" id="%s" data-item-id="%d" role="separator"></div>`, class, SeparatorID, id))
	return nil
}

// Remove deletes the separator and the jump control. It reports whether a
// separator was present.
func Remove(p *page.Page) bool {
	sep := p.Doc.Find("#" + SeparatorID)
	found := sep.Length() > 0
	sep.Remove()
	p.Doc.Find("#" + JumpID).Remove()
	return found
}

// AddJumpControl appends a link to href into the page's controls container,
// replacing a previous one. Nothing is added when controls are hidden.
func AddJumpControl(p *page.Page, href string, prefs Preferences) error {
	if !prefs.ShowControls {
		return nil
	}
	controls := p.Controls()
	if controls.Length() == 0 {
		return ErrNoControls
	}
	p.Doc.Find("#" + JumpID).Remove()
	controls.AppendHtml(fmt.Sprintf(`<a id="%s" class="%s" href="%s">Jump to last read</a>`, JumpID, JumpID, html.EscapeString(href)))
	return nil
}
