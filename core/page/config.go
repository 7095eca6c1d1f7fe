package page

// Selectors describes how feed items and navigation are found in a rendered page.
type Selectors struct {
	// Item matches one rendered feed item.
	Item string `mapstructure:"item" default:"article[data-id]"`
	// IDAttr is the attribute on Item that carries the numeric item id.
	IDAttr string `mapstructure:"id_attr" default:"data-id"`
	// Exclude matches items that are not feed content (sponsored, promoted).
	Exclude string `mapstructure:"exclude" default:".sponsored, [data-promoted]"`
	// NextLink matches the link to the next (older) page.
	NextLink string `mapstructure:"next_link" default:"a[rel=next], link[rel=next]"`
	// Canonical matches the element whose href is the canonical page URL.
	Canonical string `mapstructure:"canonical" default:"link[rel=canonical]"`
	// EndlessScroll matches a marker element present when the surface appends
	// items without a reload.
	EndlessScroll string `mapstructure:"endless_scroll" default:"[data-endless-scroll]"`
	// Controls matches the container that receives the jump-to-marker control.
	Controls string `mapstructure:"controls" default:"#feedmark-controls"`
}

// DefaultSelectors returns the selectors used when no configuration is given.
func DefaultSelectors() Selectors {
	return Selectors{
		Item:          "article[data-id]",
		IDAttr:        "data-id",
		Exclude:       ".sponsored, [data-promoted]",
		NextLink:      "a[rel=next], link[rel=next]",
		Canonical:     "link[rel=canonical]",
		EndlessScroll: "[data-endless-scroll]",
		Controls:      "#feedmark-controls",
	}
}
