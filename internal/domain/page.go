package domain

import "fmt"

// Link is a navigation link rendered into list responses.
type Link struct {
	Rel  string
	Href string
}

// Page is one bounded slice of a listing plus its navigation links. A page
// with no links is exactly one page.
type Page[T any] struct {
	Items []T
	Links []Link
}

// PageLinks renders prev/next links for the given markers. A nil marker
// means there is no page in that direction and produces no link. An empty
// marker is meaningful: it points at the start of the collection.
func PageLinks(url string, prev, next *string, limit int) []Link {
	var links []Link
	if prev != nil {
		links = append(links, Link{Rel: "prev", Href: fmt.Sprintf("%s?marker=%s&limit=%d", url, *prev, limit)})
	}
	if next != nil {
		links = append(links, Link{Rel: "next", Href: fmt.Sprintf("%s?marker=%s&limit=%d", url, *next, limit)})
	}
	return links
}
