package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pders01/folio/internal/catalog"
	"github.com/pders01/folio/internal/discovery"
)

type Config struct {
	Catalog  CatalogConfig          `mapstructure:"catalog"`
	Explorer ExplorerConfig         `mapstructure:"explorer"`
	Shelf    ShelfConfig            `mapstructure:"shelf"`
	Log      LogConfig              `mapstructure:"log"`
	UI       UIConfig               `mapstructure:"ui"`
	Media    MediaConfig            `mapstructure:"media"`
	Keys     KeyConfig              `mapstructure:"keys"`
	Presets  []discovery.PresetSpec `mapstructure:"presets"`
}

type CatalogConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
	DefaultLanguage   string        `mapstructure:"default_language"`
	MaxPerCall        int           `mapstructure:"max_per_call"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	AllowLocal        bool          `mapstructure:"allow_local"`
}

type ExplorerConfig struct {
	PageSize     int    `mapstructure:"page_size"`
	FetchCap     int    `mapstructure:"fetch_cap"`
	DefaultQuery string `mapstructure:"default_query"`
	DefaultSort  string `mapstructure:"default_sort"`
}

type ShelfConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

type UIConfig struct {
	Colors UIColors     `mapstructure:"colors"`
	Detail DetailConfig `mapstructure:"detail"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type DetailConfig struct {
	MaxDescriptionLength int `mapstructure:"max_description_length"`
	WordWrapMaxWidth     int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth     int `mapstructure:"word_wrap_min_width"`
}

type MediaConfig struct {
	DefaultOpener string `mapstructure:"default_opener"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

// KeyBindings are combined with Modifier, e.g. "ctrl" + "a". Quit, Back and
// Help are bare keys.
type KeyBindings struct {
	Quit       string `mapstructure:"quit"`
	Search     string `mapstructure:"search"`
	Presets    string `mapstructure:"presets"`
	Length     string `mapstructure:"length"`
	Period     string `mapstructure:"period"`
	Sort       string `mapstructure:"sort"`
	HideOwned  string `mapstructure:"hide_owned"`
	AddToShelf string `mapstructure:"add_to_shelf"`
	OpenLink   string `mapstructure:"open_link"`
	Back       string `mapstructure:"back"`
	Help       string `mapstructure:"help"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".folio")

	return &Config{
		Catalog: CatalogConfig{
			BaseURL:           catalog.DefaultBaseURL,
			HTTPTimeout:       30 * time.Second,
			UserAgent:         catalog.DefaultUserAgent,
			DefaultLanguage:   "fr",
			MaxPerCall:        catalog.MaxResultsPerCall,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Explorer: ExplorerConfig{
			PageSize:     5,
			FetchCap:     50,
			DefaultQuery: "lecture immersive",
			DefaultSort:  string(discovery.SortRelevance),
		},
		Shelf: ShelfConfig{
			Path:        filepath.Join(dataDir, "shelf.db"),
			Timeout:     1 * time.Second,
			SearchIndex: filepath.Join(dataDir, "shelf.bleve"),
		},
		Log: LogConfig{
			Level: "off",
			Path:  filepath.Join(dataDir, "folio.log"),
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#E07A5F",
				Secondary:  "#81B29A",
				Accent:     "#F2CC8F",
				Background: "#1D1E2C",
				Surface:    "#2A2B3D",
				Text:       "#F4F1DE",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			Detail: DetailConfig{
				MaxDescriptionLength: 1200,
				WordWrapMaxWidth:     100,
				WordWrapMinWidth:     40,
			},
		},
		Media: MediaConfig{
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:       "q",
				Search:     "s",
				Presets:    "p",
				Length:     "l",
				Period:     "y",
				Sort:       "t",
				HideOwned:  "x",
				AddToShelf: "a",
				OpenLink:   "o",
				Back:       "esc",
				Help:       "?",
			},
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// DefaultConfigPath is where Load looks when no path is given.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "folio", "config.toml")
}

func setDefaults(v *viper.Viper, cfg *Config) {
	for key, value := range flatten(cfg) {
		v.SetDefault(key, value)
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultConfigPath()))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects settings the explorer cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Explorer.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("explorer.page_size must be positive, got %d", c.Explorer.PageSize))
	}
	if c.Explorer.FetchCap <= 0 {
		errs = append(errs, fmt.Errorf("explorer.fetch_cap must be positive, got %d", c.Explorer.FetchCap))
	}
	if c.Catalog.MaxPerCall < 1 || c.Catalog.MaxPerCall > catalog.MaxResultsPerCall {
		errs = append(errs, fmt.Errorf("catalog.max_per_call must be between 1 and %d, got %d",
			catalog.MaxResultsPerCall, c.Catalog.MaxPerCall))
	}
	if _, err := discovery.ParseSortMode(c.Explorer.DefaultSort); err != nil {
		errs = append(errs, fmt.Errorf("explorer.default_sort: %w", err))
	}
	if lang := c.Catalog.DefaultLanguage; lang != "" && len(lang) != 2 {
		errs = append(errs, fmt.Errorf("catalog.default_language must be a two-letter code, got %q", lang))
	}
	return errors.Join(errs...)
}

// SessionConfig maps the explorer settings onto a discovery session.
func (c *Config) SessionConfig() discovery.SessionConfig {
	mode, err := discovery.ParseSortMode(c.Explorer.DefaultSort)
	if err != nil {
		mode = discovery.SortRelevance
	}
	return discovery.SessionConfig{
		PageSize:        c.Explorer.PageSize,
		FetchCap:        c.Explorer.FetchCap,
		DefaultLanguage: c.Catalog.DefaultLanguage,
		DefaultSort:     mode,
		InitialQuery:    c.Explorer.DefaultQuery,
	}
}

// CatalogOptions maps the catalog settings onto client options.
func (c *Config) CatalogOptions() catalog.Options {
	return catalog.Options{
		BaseURL:           c.Catalog.BaseURL,
		APIKey:            c.Catalog.APIKey,
		UserAgent:         c.Catalog.UserAgent,
		Timeout:           c.Catalog.HTTPTimeout,
		RequestsPerSecond: c.Catalog.RequestsPerSecond,
		Burst:             c.Catalog.Burst,
		AllowLocal:        c.Catalog.AllowLocal,
	}
}

// PresetRegistry returns the configured presets, or the built-in ones when
// the config declares none.
func (c *Config) PresetRegistry() (*discovery.PresetRegistry, error) {
	if len(c.Presets) == 0 {
		return discovery.DefaultPresets(), nil
	}
	return discovery.NewPresetRegistry(c.Presets)
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Shelf.Path = expandPath(cfg.Shelf.Path)
	cfg.Shelf.SearchIndex = expandPath(cfg.Shelf.SearchIndex)
	cfg.Log.Path = expandPath(cfg.Log.Path)
}

// flatten renders cfg as dotted viper keys. Durations are written as strings
// so the TOML stays readable.
func flatten(cfg *Config) map[string]any {
	c := cfg
	out := map[string]any{
		"catalog.base_url":            c.Catalog.BaseURL,
		"catalog.api_key":             c.Catalog.APIKey,
		"catalog.http_timeout":        c.Catalog.HTTPTimeout.String(),
		"catalog.user_agent":          c.Catalog.UserAgent,
		"catalog.default_language":    c.Catalog.DefaultLanguage,
		"catalog.max_per_call":        c.Catalog.MaxPerCall,
		"catalog.requests_per_second": c.Catalog.RequestsPerSecond,
		"catalog.burst":               c.Catalog.Burst,
		"catalog.allow_local":         c.Catalog.AllowLocal,

		"explorer.page_size":     c.Explorer.PageSize,
		"explorer.fetch_cap":     c.Explorer.FetchCap,
		"explorer.default_query": c.Explorer.DefaultQuery,
		"explorer.default_sort":  c.Explorer.DefaultSort,

		"shelf.path":         c.Shelf.Path,
		"shelf.timeout":      c.Shelf.Timeout.String(),
		"shelf.search_index": c.Shelf.SearchIndex,

		"log.level": c.Log.Level,
		"log.path":  c.Log.Path,

		"ui.colors.primary":    c.UI.Colors.Primary,
		"ui.colors.secondary":  c.UI.Colors.Secondary,
		"ui.colors.accent":     c.UI.Colors.Accent,
		"ui.colors.background": c.UI.Colors.Background,
		"ui.colors.surface":    c.UI.Colors.Surface,
		"ui.colors.text":       c.UI.Colors.Text,
		"ui.colors.muted":      c.UI.Colors.Muted,
		"ui.colors.error":      c.UI.Colors.Error,
		"ui.colors.success":    c.UI.Colors.Success,

		"ui.detail.max_description_length": c.UI.Detail.MaxDescriptionLength,
		"ui.detail.word_wrap_max_width":    c.UI.Detail.WordWrapMaxWidth,
		"ui.detail.word_wrap_min_width":    c.UI.Detail.WordWrapMinWidth,

		"media.default_opener": c.Media.DefaultOpener,

		"keys.modifier":              c.Keys.Modifier,
		"keys.bindings.quit":         c.Keys.Bindings.Quit,
		"keys.bindings.search":       c.Keys.Bindings.Search,
		"keys.bindings.presets":      c.Keys.Bindings.Presets,
		"keys.bindings.length":       c.Keys.Bindings.Length,
		"keys.bindings.period":       c.Keys.Bindings.Period,
		"keys.bindings.sort":         c.Keys.Bindings.Sort,
		"keys.bindings.hide_owned":   c.Keys.Bindings.HideOwned,
		"keys.bindings.add_to_shelf": c.Keys.Bindings.AddToShelf,
		"keys.bindings.open_link":    c.Keys.Bindings.OpenLink,
		"keys.bindings.back":         c.Keys.Bindings.Back,
		"keys.bindings.help":         c.Keys.Bindings.Help,
	}
	return out
}

func Save(config *Config, path string) error {
	v := viper.New()
	for key, value := range flatten(config) {
		v.Set(key, value)
	}

	if len(config.Presets) > 0 {
		presets := make([]map[string]any, 0, len(config.Presets))
		for _, p := range config.Presets {
			entry := map[string]any{"id": p.ID, "label": p.Label, "query": p.Query}
			if p.Sort != "" {
				entry["sort"] = p.Sort
			}
			presets = append(presets, entry)
		}
		v.Set("presets", presets)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

// GenerateDefaultConfig writes the defaults, including the built-in presets,
// so they can be edited in place.
func GenerateDefaultConfig(path string) error {
	cfg := defaultConfig()
	for _, p := range discovery.DefaultPresets().All() {
		spec := discovery.PresetSpec{ID: p.ID, Label: p.Label, Query: p.Query}
		if p.Sort != nil {
			spec.Sort = string(*p.Sort)
		}
		cfg.Presets = append(cfg.Presets, spec)
	}
	return Save(cfg, path)
}
