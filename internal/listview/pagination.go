package listview

import (
	"fmt"

	"github.com/studiowebux/adminctl/internal/types"
)

// Window is how many pages are shown on each side of the current page
const Window = 2

// LinkKind is the role of one pagination element
type LinkKind int

const (
	LinkPrev LinkKind = iota
	LinkPage
	LinkCurrent
	LinkEllipsis
	LinkNext
)

// Link is one pagination element. Page is the jump target (0 for ellipsis).
type Link struct {
	Kind LinkKind
	Page int
}

// Label returns the text shown for the link
func (l Link) Label() string {
	switch l.Kind {
	case LinkPrev:
		return "«"
	case LinkNext:
		return "»"
	case LinkEllipsis:
		return "…"
	case LinkCurrent:
		return fmt.Sprintf("[%d]", l.Page)
	default:
		return fmt.Sprintf("%d", l.Page)
	}
}

// Interactive reports whether selecting the link jumps somewhere
func (l Link) Interactive() bool {
	return l.Kind != LinkEllipsis && l.Kind != LinkCurrent
}

// PageLinks builds the pagination controls for page of totalPages.
// Nothing is rendered for a single page. Around the current page a
// window of Window pages is shown; the first and last pages are always
// reachable, with an ellipsis where pages between them and the window
// are skipped.
func PageLinks(page, totalPages int) []Link {
	if totalPages <= 1 {
		return nil
	}
	page = min(max(page, 1), totalPages)

	var links []Link
	if page > 1 {
		links = append(links, Link{Kind: LinkPrev, Page: page - 1})
	}

	start := max(1, page-Window)
	end := min(totalPages, page+Window)

	if start > 1 {
		links = append(links, Link{Kind: LinkPage, Page: 1})
		if start > 2 {
			links = append(links, Link{Kind: LinkEllipsis})
		}
	}

	for p := start; p <= end; p++ {
		kind := LinkPage
		if p == page {
			kind = LinkCurrent
		}
		links = append(links, Link{Kind: kind, Page: p})
	}

	if end < totalPages {
		if end < totalPages-1 {
			links = append(links, Link{Kind: LinkEllipsis})
		}
		links = append(links, Link{Kind: LinkPage, Page: totalPages})
	}

	if page < totalPages {
		links = append(links, Link{Kind: LinkNext, Page: page + 1})
	}
	return links
}

// Summary renders "Page x/y - Total: n <noun>"
func Summary(p types.Pagination, noun string) string {
	return fmt.Sprintf("Page %d/%d - Total: %d %s", p.Page, p.TotalPages, p.Total, noun)
}
