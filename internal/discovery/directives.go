package discovery

import (
	"regexp"
	"strings"
)

// OrderBy is the remote ordering requested inline with orderBy=.
type OrderBy string

const (
	OrderUnset     OrderBy = ""
	OrderRelevance OrderBy = "relevance"
	OrderNewest    OrderBy = "newest"
)

// Directives is a submitted query split into free text and inline hints.
type Directives struct {
	Text     string
	Language string // two-letter code, "" when absent
	OrderBy  OrderBy
}

// Markers must stand alone as whitespace-delimited tokens.
var (
	languageMarker = regexp.MustCompile(`(?i)(?:^|\s)(?:language:|lang[:=])([a-z]{2})(?:\s|$)`)
	orderMarker    = regexp.MustCompile(`(?i)(?:^|\s)orderBy[=:](newest|relevance)(?:\s|$)`)
)

// ParseDirectives extracts the first language marker and the first order
// marker from raw. Each removed marker leaves a single space behind and the
// remaining text is trimmed.
func ParseDirectives(raw string) Directives {
	text := raw

	var lang string
	text, lang = extract(languageMarker, text)

	var order string
	text, order = extract(orderMarker, text)

	return Directives{
		Text:     strings.TrimSpace(text),
		Language: strings.ToLower(lang),
		OrderBy:  OrderBy(strings.ToLower(order)),
	}
}

func extract(re *regexp.Regexp, text string) (string, string) {
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, ""
	}
	value := text[loc[2]:loc[3]]
	return text[:loc[0]] + " " + text[loc[1]:], value
}

// WithDefaultLanguage fills Language when the query did not carry one.
func (d Directives) WithDefaultLanguage(lang string) Directives {
	if d.Language == "" {
		d.Language = strings.ToLower(lang)
	}
	return d
}

// Blank reports whether there is nothing left to search for.
func (d Directives) Blank() bool {
	return strings.TrimSpace(d.Text) == ""
}
