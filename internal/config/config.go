package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"

	"github.com/pders01/folio/internal/validation"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Browse   BrowseConfig   `mapstructure:"browse"`
	Search   SearchConfig   `mapstructure:"search"`
	UI       UIConfig       `mapstructure:"ui"`
	Launcher LauncherConfig `mapstructure:"launcher"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CatalogConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	OrderBy     string        `mapstructure:"order_by"`
	// RequestsPerSecond paces outgoing catalog calls; 0 disables pacing.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	SimilarCacheSize  int     `mapstructure:"similar_cache_size"`
}

type BrowseConfig struct {
	PageSize       int `mapstructure:"page_size"`
	DebounceMillis int `mapstructure:"debounce_millis"`
	PrefetchMargin int `mapstructure:"prefetch_margin"`
}

type SearchConfig struct {
	// Engine is "basic" or "bleve".
	Engine    string `mapstructure:"engine"`
	IndexPath string `mapstructure:"index_path"`
}

type UIConfig struct {
	Colors UIColors     `mapstructure:"colors"`
	Detail DetailConfig `mapstructure:"detail"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type DetailConfig struct {
	MaxDescriptionLength int `mapstructure:"max_description_length"`
	WordWrapMaxWidth     int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth     int `mapstructure:"word_wrap_min_width"`
}

type LauncherConfig struct {
	Storefront    string `mapstructure:"storefront"`
	DefaultOpener string `mapstructure:"default_opener"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit     string `mapstructure:"quit"`
	Search   string `mapstructure:"search"`
	Genres   string `mapstructure:"genres"`
	Wishlist string `mapstructure:"wishlist"`
	Toggle   string `mapstructure:"toggle"`
	Buy      string `mapstructure:"buy"`
	Similar  string `mapstructure:"similar"`
	Retry    string `mapstructure:"retry"`
	Back     string `mapstructure:"back"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".folio.db")
	searchIndexPath := filepath.Join(homeDir, ".folio", "wishlist.bleve")

	return &Config{
		Database: DatabaseConfig{
			Path:    dbPath,
			Timeout: 1 * time.Second,
		},
		Catalog: CatalogConfig{
			BaseURL:           "https://www.googleapis.com/books/v1/volumes",
			HTTPTimeout:       15 * time.Second,
			UserAgent:         "folio/1.0 (https://github.com/pders01/folio)",
			OrderBy:           "relevance",
			RequestsPerSecond: 4,
			SimilarCacheSize:  64,
		},
		Browse: BrowseConfig{
			PageSize:       12,
			DebounceMillis: 500,
			PrefetchMargin: 2,
		},
		Search: SearchConfig{
			Engine:    "basic",
			IndexPath: searchIndexPath,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#EC4899",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
				Success:   "#4ADE80",
			},
			Detail: DetailConfig{
				MaxDescriptionLength: 1200,
				WordWrapMaxWidth:     120,
				WordWrapMinWidth:     40,
			},
		},
		Launcher: LauncherConfig{
			Storefront:    "amazon",
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:     "q",
				Search:   "f",
				Genres:   "g",
				Wishlist: "w",
				Toggle:   "t",
				Buy:      "b",
				Similar:  "l",
				Retry:    "r",
				Back:     "esc",
			},
		},
		Log: LogConfig{
			Level: "off",
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

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("database", cfg.Database)
	v.SetDefault("catalog", cfg.Catalog)
	v.SetDefault("browse", cfg.Browse)
	v.SetDefault("search", cfg.Search)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("launcher", cfg.Launcher)
	v.SetDefault("keys", cfg.Keys)
	v.SetDefault("log", cfg.Log)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "folio")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FOLIO")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// Decode over the defaults so partially specified sections keep them
	config := *defaultConfig()
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects values the browser cannot work with.
func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base URL cannot be empty")
	}
	if _, err := validation.NewEndpointValidator().Validate(c.Catalog.BaseURL); err != nil {
		return fmt.Errorf("catalog base URL: %w", err)
	}
	if c.Browse.PageSize <= 0 {
		return fmt.Errorf("browse page size must be positive")
	}
	if c.Browse.DebounceMillis < 0 {
		return fmt.Errorf("browse debounce cannot be negative")
	}
	if c.Catalog.RequestsPerSecond < 0 {
		return fmt.Errorf("catalog requests per second cannot be negative")
	}
	switch c.Search.Engine {
	case "", "basic", "bleve":
	default:
		return fmt.Errorf("unknown search engine %q", c.Search.Engine)
	}
	return nil
}

// DebounceWindow returns the quiet period applied to search input.
func (c *Config) DebounceWindow() time.Duration {
	return time.Duration(c.Browse.DebounceMillis) * time.Millisecond
}

// ExpandPath expands ~ to the home directory and converts to an absolute path
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = ExpandPath(cfg.Database.Path)
	cfg.Search.IndexPath = ExpandPath(cfg.Search.IndexPath)
	cfg.Log.File = ExpandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings for TOML readability
	dbCfg := map[string]interface{}{
		"path":    config.Database.Path,
		"timeout": config.Database.Timeout.String(),
	}

	catalogCfg := map[string]interface{}{
		"base_url":            config.Catalog.BaseURL,
		"http_timeout":        config.Catalog.HTTPTimeout.String(),
		"user_agent":          config.Catalog.UserAgent,
		"order_by":            config.Catalog.OrderBy,
		"requests_per_second": config.Catalog.RequestsPerSecond,
		"similar_cache_size":  config.Catalog.SimilarCacheSize,
	}

	browseCfg := map[string]interface{}{
		"page_size":       config.Browse.PageSize,
		"debounce_millis": config.Browse.DebounceMillis,
		"prefetch_margin": config.Browse.PrefetchMargin,
	}

	searchCfg := map[string]interface{}{
		"engine":     config.Search.Engine,
		"index_path": config.Search.IndexPath,
	}

	launcherCfg := map[string]interface{}{
		"storefront":     config.Launcher.Storefront,
		"default_opener": config.Launcher.DefaultOpener,
	}

	v.Set("database", dbCfg)
	v.Set("catalog", catalogCfg)
	v.Set("browse", browseCfg)
	v.Set("search", searchCfg)
	v.Set("ui", config.UI)
	v.Set("launcher", launcherCfg)
	v.Set("keys", config.Keys)
	v.Set("log", map[string]interface{}{"level": config.Log.Level, "file": config.Log.File})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
