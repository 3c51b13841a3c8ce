package agent

import (
	"regexp"
	"strconv"
	"strings"

	"ai-docchat-be/pkg/store"
)

var selectionShape = regexp.MustCompile(`^[\d\s,.-]+$`)
var anyDigit = regexp.MustCompile(`\d`)

// LooksLikeSelection reports whether a message reads as a reply to a
// document selection prompt: a bare index, a comma list, the literals
// "all"/"latest", or a short digit-bearing string of selection characters.
func LooksLikeSelection(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "all" || q == "latest" {
		return true
	}
	if len(q) == 0 || len(q) > 20 {
		return false
	}
	return selectionShape.MatchString(q) && anyDigit.MatchString(q)
}

// ParseSelection resolves a selection reply against the cached documents.
// Indices are 1-based; out-of-range and non-numeric parts are dropped.
// "latest" prefers the lastKey pointer and falls back to the final entry.
// An empty result means the reply selected nothing valid.
func ParseSelection(selection string, docs []store.CachedDocument, lastKey string) []store.CachedDocument {
	sel := strings.ToLower(strings.TrimSpace(selection))
	if len(docs) == 0 {
		return nil
	}

	switch sel {
	case "all":
		return docs
	case "latest":
		if lastKey != "" {
			for _, d := range docs {
				if d.Key == lastKey {
					return []store.CachedDocument{d}
				}
			}
		}
		return []store.CachedDocument{docs[len(docs)-1]}
	}

	var selected []store.CachedDocument
	for _, part := range strings.Split(sel, ",") {
		part = strings.TrimSpace(part)
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		if n >= 1 && n <= len(docs) {
			selected = append(selected, docs[n-1])
		}
	}
	return selected
}
