package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDirectives(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		text  string
		lang  string
		order OrderBy
	}{
		{
			name:  "language and order",
			raw:   "subject:fantasy lang=fr orderBy=newest",
			text:  "subject:fantasy",
			lang:  "fr",
			order: OrderNewest,
		},
		{
			name: "language prefix form",
			raw:  "subject:fantasy language:fr",
			text: "subject:fantasy",
			lang: "fr",
		},
		{
			name: "lang colon form, upper case",
			raw:  "LANG:EN dune",
			text: "dune",
			lang: "en",
		},
		{
			name:  "order colon form in the middle",
			raw:   "fiction orderBy:Relevance france",
			text:  "fiction france",
			order: OrderRelevance,
		},
		{
			name: "no markers",
			raw:  "  lecture immersive  ",
			text: "lecture immersive",
		},
		{
			name: "three letter code is not a marker",
			raw:  "lang=fra roman",
			text: "lang=fra roman",
		},
		{
			name: "marker glued to a word is ignored",
			raw:  "xlang=fr roman",
			text: "xlang=fr roman",
		},
		{
			name: "unknown order value",
			raw:  "roman orderBy=oldest",
			text: "roman orderBy=oldest",
		},
		{
			name: "only the first language marker is removed",
			raw:  "lang=fr roman lang=de",
			text: "roman lang=de",
			lang: "fr",
		},
		{
			name:  "markers only",
			raw:   "language:it orderBy=newest",
			text:  "",
			lang:  "it",
			order: OrderNewest,
		},
		{
			name: "empty",
			raw:  "",
			text: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ParseDirectives(tt.raw)
			assert.Equal(t, tt.text, d.Text)
			assert.Equal(t, tt.lang, d.Language)
			assert.Equal(t, tt.order, d.OrderBy)
		})
	}
}

func TestParseDirectivesIdempotent(t *testing.T) {
	queries := []string{
		"subject:fantasy lang=fr orderBy=newest",
		"orderBy:relevance subject:history language:DE",
		"roman lang:es",
		"  orderBy=newest   polar  ",
		"plain words only",
	}

	for _, q := range queries {
		first := ParseDirectives(q)
		again := ParseDirectives(first.Text)
		assert.Equal(t, first.Text, again.Text, "query %q", q)
		assert.Empty(t, again.Language, "query %q", q)
		assert.Empty(t, again.OrderBy, "query %q", q)
	}
}

func TestParseDirectivesStripsOnlyTheMarker(t *testing.T) {
	d := ParseDirectives("a b lang=pt c d")
	assert.Equal(t, "a b c d", d.Text)

	d = ParseDirectives("a b orderBy=newest c")
	assert.Equal(t, "a b c", d.Text)
}

func TestDirectivesDefaults(t *testing.T) {
	d := ParseDirectives("roman").WithDefaultLanguage("FR")
	assert.Equal(t, "fr", d.Language)

	d = ParseDirectives("roman lang=en").WithDefaultLanguage("fr")
	assert.Equal(t, "en", d.Language)

	assert.True(t, ParseDirectives("  lang=en  ").Blank())
	assert.False(t, ParseDirectives("x").Blank())
}
