package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPresets(t *testing.T) {
	r := DefaultPresets()
	require.Equal(t, 3, r.Len())

	all := r.All()
	assert.Equal(t, "best-sellers", all[0].ID)
	assert.Equal(t, "Best-sellers France", all[0].Label)
	assert.Equal(t, "subject:fiction france best sellers", all[0].Query)
	assert.Nil(t, all[0].Sort)

	query, mode, ok := r.Select("notable-releases")
	require.True(t, ok)
	assert.Equal(t, "subject:fiction france orderBy=newest", query)
	require.NotNil(t, mode)
	assert.Equal(t, SortDateDesc, *mode)

	query, mode, ok = r.Select("fantasy-fr")
	require.True(t, ok)
	assert.Equal(t, "subject:fantasy language:fr", query)
	assert.Nil(t, mode)

	_, _, ok = r.Select("missing")
	assert.False(t, ok)
}

func TestSelectReturnsCopies(t *testing.T) {
	r := DefaultPresets()
	_, mode, _ := r.Select("notable-releases")
	*mode = SortPagesAsc

	_, again, _ := r.Select("notable-releases")
	assert.Equal(t, SortDateDesc, *again)
}

func TestLoadPresets(t *testing.T) {
	doc := []byte(`
[[presets]]
label = "Polars nordiques"
query = "subject:crime sweden"
sort = "rating-desc"

[[presets]]
id = "bd"
label = "Bandes dessinées"
query = "subject:comics lang=fr"
`)
	r, err := LoadPresets(doc)
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())

	p, ok := r.Get("polars-nordiques")
	require.True(t, ok)
	require.NotNil(t, p.Sort)
	assert.Equal(t, SortRatingDesc, *p.Sort)

	_, ok = r.Get("bd")
	assert.True(t, ok)
}

func TestNewPresetRegistryRejectsBadSpecs(t *testing.T) {
	tests := []struct {
		name  string
		specs []PresetSpec
	}{
		{"missing query", []PresetSpec{{ID: "x"}}},
		{"missing id and label", []PresetSpec{{Query: "q"}}},
		{"duplicate id", []PresetSpec{{ID: "x", Query: "a"}, {ID: "x", Query: "b"}}},
		{"bad sort", []PresetSpec{{ID: "x", Query: "a", Sort: "sideways"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPresetRegistry(tt.specs)
			assert.Error(t, err)
		})
	}

	_, err := LoadPresets([]byte(`presets = "nope"`))
	assert.Error(t, err)
}
