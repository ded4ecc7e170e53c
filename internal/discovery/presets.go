package discovery

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed presets.toml
var defaultPresetsTOML []byte

var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a named query shortcut. Sort is nil when the preset leaves the
// current sort mode alone.
type Preset struct {
	ID    string
	Label string
	Query string
	Sort  *SortMode
}

// PresetSpec is the on-disk form of a preset, shared with the config file.
type PresetSpec struct {
	ID    string `toml:"id" mapstructure:"id"`
	Label string `toml:"label" mapstructure:"label"`
	Query string `toml:"query" mapstructure:"query"`
	Sort  string `toml:"sort" mapstructure:"sort"`
}

type presetFile struct {
	Presets []PresetSpec `toml:"presets"`
}

// PresetRegistry is an ordered, read-only set of presets.
type PresetRegistry struct {
	presets []Preset
	byID    map[string]int
}

// NewPresetRegistry validates specs. IDs default to the lower-cased label
// with spaces replaced by dashes and must be unique.
func NewPresetRegistry(specs []PresetSpec) (*PresetRegistry, error) {
	r := &PresetRegistry{byID: make(map[string]int, len(specs))}
	for i, s := range specs {
		id := strings.TrimSpace(s.ID)
		if id == "" {
			id = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s.Label)), " ", "-")
		}
		if id == "" {
			return nil, fmt.Errorf("preset %d: missing id and label", i)
		}
		if strings.TrimSpace(s.Query) == "" {
			return nil, fmt.Errorf("preset %q: empty query", id)
		}
		if _, dup := r.byID[id]; dup {
			return nil, fmt.Errorf("preset %q: duplicate id", id)
		}

		p := Preset{ID: id, Label: s.Label, Query: s.Query}
		if p.Label == "" {
			p.Label = id
		}
		if s.Sort != "" {
			mode, err := ParseSortMode(s.Sort)
			if err != nil {
				return nil, fmt.Errorf("preset %q: %w", id, err)
			}
			p.Sort = &mode
		}

		r.byID[id] = len(r.presets)
		r.presets = append(r.presets, p)
	}
	return r, nil
}

// LoadPresets decodes a TOML document with a [[presets]] array.
func LoadPresets(data []byte) (*PresetRegistry, error) {
	var f presetFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding presets: %w", err)
	}
	return NewPresetRegistry(f.Presets)
}

// DefaultPresets returns the built-in presets.
func DefaultPresets() *PresetRegistry {
	r, err := LoadPresets(defaultPresetsTOML)
	if err != nil {
		panic(fmt.Sprintf("embedded presets: %v", err))
	}
	return r
}

// All returns the presets in declaration order.
func (r *PresetRegistry) All() []Preset {
	out := make([]Preset, len(r.presets))
	copy(out, r.presets)
	return out
}

func (r *PresetRegistry) Len() int {
	return len(r.presets)
}

// Get returns the preset with id.
func (r *PresetRegistry) Get(id string) (Preset, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Preset{}, false
	}
	return r.presets[i], true
}

// Select returns the query text and optional sort bound to id.
func (r *PresetRegistry) Select(id string) (string, *SortMode, bool) {
	p, ok := r.Get(id)
	if !ok {
		return "", nil, false
	}
	var mode *SortMode
	if p.Sort != nil {
		m := *p.Sort
		mode = &m
	}
	return p.Query, mode, true
}
