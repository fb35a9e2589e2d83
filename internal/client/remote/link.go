package remote

import (
	"strings"
)

// RelNext is the only link relation the pull engine follows
const RelNext = "next"

// Link is a parsed Link header: <uri>; rel=relation
type Link struct {
	URI      string
	Relation string
}

// ParseLink parses the first link of a Link header value.
// Returns nil when the header is empty or malformed.
func ParseLink(header string) *Link {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil
	}

	// Берем только первую ссылку
	first, _, _ := strings.Cut(header, ",")
	parts := strings.Split(first, ";")

	uri := strings.TrimSpace(parts[0])
	if !strings.HasPrefix(uri, "<") || !strings.HasSuffix(uri, ">") {
		return nil
	}
	link := &Link{URI: strings.TrimSuffix(strings.TrimPrefix(uri, "<"), ">")}
	if link.URI == "" {
		return nil
	}

	for _, param := range parts[1:] {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "rel") {
			continue
		}
		link.Relation = strings.ToLower(strings.Trim(strings.TrimSpace(value), `"`))
	}

	return link
}

// IsNext reports whether the link points at the next page
func (l *Link) IsNext() bool {
	return l != nil && l.Relation == RelNext
}
