package pages

import "strings"

// Page identifies one of the navigable screens.
type Page int

const (
	PageHome Page = iota
	PageHistory
	PageStats
	PageSettings
)

// Pages lists every page in tab order.
var Pages = []Page{PageHome, PageHistory, PageStats, PageSettings}

func (p Page) String() string {
	switch p {
	case PageHome:
		return "Home"
	case PageHistory:
		return "History"
	case PageStats:
		return "Stats"
	case PageSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// ParsePage matches a page by name, ignoring case.
func ParsePage(s string) (Page, bool) {
	for _, p := range Pages {
		if strings.EqualFold(p.String(), strings.TrimSpace(s)) {
			return p, true
		}
	}
	return PageHome, false
}

// Navigator tracks the active page. Methods return a new value.
type Navigator struct {
	Active Page
}

func (n Navigator) Next() Navigator {
	return Navigator{Active: Page((int(n.Active) + 1) % len(Pages))}
}

func (n Navigator) Prev() Navigator {
	return Navigator{Active: Page((int(n.Active) + len(Pages) - 1) % len(Pages))}
}

// Go jumps to p. Unknown pages leave the navigator unchanged.
func (n Navigator) Go(p Page) Navigator {
	if p < PageHome || p > PageSettings {
		return n
	}
	return Navigator{Active: p}
}

func (n Navigator) String() string {
	return n.Active.String()
}
