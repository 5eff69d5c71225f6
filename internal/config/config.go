// Package config handles configuration loading and defaults for taskline.
// Configuration is loaded from XDG-compliant paths (typically
// ~/.config/taskline/config.yaml); environment variables and command-line
// flags are layered on top by ApplyOverrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taskline/internal/fsutil"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (<install root>/db)
	DataDir string `yaml:"data_dir,omitempty"`

	// Storage selects the persistence backend
	Storage StorageConfig `yaml:"storage,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// UX customizes user experience settings
	UX UXConfig `yaml:"ux,omitempty"`

	// Scripts configures the helper scripts directory
	Scripts ScriptsConfig `yaml:"scripts,omitempty"`

	// Logging configures the runtime log
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// StorageConfig selects where tasks are persisted.
type StorageConfig struct {
	// Backend is "json" (default) or "sqlite"
	Backend string `yaml:"backend,omitempty"`
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`

	// Background color (hex)
	Background string `yaml:"background,omitempty"`

	// Text color (hex)
	Text string `yaml:"text,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "j,down", "space"
type KeysConfig struct {
	// Global keys
	Quit string `yaml:"quit,omitempty"` // default: "esc,q,ctrl+c"
	Help string `yaml:"help,omitempty"` // default: "?"

	// Navigation keys
	Up     string `yaml:"up,omitempty"`     // default: "k,up"
	Down   string `yaml:"down,omitempty"`   // default: "j,down"
	Top    string `yaml:"top,omitempty"`    // default: "g"
	Bottom string `yaml:"bottom,omitempty"` // default: "G"

	// Task keys
	AddTask     string `yaml:"add_task,omitempty"`     // default: "a"
	EditTask    string `yaml:"edit_task,omitempty"`    // default: "e,enter"
	ToggleTask  string `yaml:"toggle_task,omitempty"`  // default: "space"
	DeleteTask  string `yaml:"delete_task,omitempty"`  // default: "x"
	CopyTask    string `yaml:"copy_task,omitempty"`    // default: "y"
	PriorityLow string `yaml:"priority_low,omitempty"` // default: "1"
	PriorityMed string `yaml:"priority_medium,omitempty"`
	PriorityHi  string `yaml:"priority_high,omitempty"`

	// Mode keys
	PriorityMode string `yaml:"priority_mode,omitempty"` // default: "p"
	DateMode     string `yaml:"date_mode,omitempty"`     // default: "d"
	ScriptsMode  string `yaml:"scripts_mode,omitempty"`  // default: "s"
	SortMode     string `yaml:"sort_mode,omitempty"`     // default: "o"
	ReorderMode  string `yaml:"reorder_mode,omitempty"`  // default: "tab"

	// Input keys
	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ConfirmDeletions asks before deleting a task
	ConfirmDeletions bool `yaml:"confirm_deletions,omitempty"` // default: true

	// SeedTasks installs a starter list when nothing was saved yet
	SeedTasks bool `yaml:"seed_tasks,omitempty"` // default: true

	// StatusTTL is how long a status message stays visible
	StatusTTL time.Duration `yaml:"status_ttl,omitempty"` // default: 2s

	// ScriptStatusTTL is how long a script result message stays visible
	ScriptStatusTTL time.Duration `yaml:"script_status_ttl,omitempty"` // default: 3s

	// VisibleTasks is the number of rows in the task list window
	VisibleTasks int `yaml:"visible_tasks,omitempty"` // default: 9

	// Locale drives alphabetical sorting (BCP 47 tag)
	Locale string `yaml:"locale,omitempty"` // default: "en"
}

// ScriptsConfig defines helper script discovery and execution.
type ScriptsConfig struct {
	// Dir is scanned for scripts; relative paths resolve against the
	// working directory
	Dir string `yaml:"dir,omitempty"` // default: "scripts"

	// Interpreters maps a file extension to the command that runs it
	Interpreters map[string]string `yaml:"interpreters,omitempty"` // default: {".py": "python3"}

	// Timeout bounds a single run
	Timeout time.Duration `yaml:"timeout,omitempty"` // default: 2m
}

// LoggingConfig defines runtime logging.
type LoggingConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level,omitempty"` // default: "info"

	// File receives logs while the TUI runs (default <data_dir>/taskline.log)
	File string `yaml:"file,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Storage: StorageConfig{Backend: "json"},
		Theme: ThemeConfig{
			Primary:    "#7C3AED", // Violet
			Accent:     "#10B981", // Emerald
			Muted:      "#6B7280", // Gray
			Background: "",        // Terminal default
			Text:       "",        // Terminal default
		},
		UX: UXConfig{
			ConfirmDeletions: true,
			SeedTasks:        true,
			StatusTTL:        2 * time.Second,
			ScriptStatusTTL:  3 * time.Second,
			VisibleTasks:     9,
			Locale:           "en",
		},
		Scripts: ScriptsConfig{
			Dir:          "scripts",
			Interpreters: map[string]string{".py": "python3"},
			Timeout:      2 * time.Minute,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// installRoot returns the directory holding the running executable.
func installRoot() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	return filepath.Join(installRoot(), "db")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskline")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "taskline")
}

// Path returns the default config file location.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from the default path, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads configuration from path, merging with defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	// Merge user config with defaults (presence-aware for booleans and maps)
	cfg.mergeFromYAML(&userCfg, &doc)

	return cfg, nil
}

// mergeNonEmpty applies non-empty values from other to c.
// It intentionally does not touch booleans or maps (those require presence-aware merging).
func (c *Config) mergeNonEmpty(other *Config) {
	setString(&c.DataDir, other.DataDir)
	setString(&c.Storage.Backend, other.Storage.Backend)

	setString(&c.Theme.Primary, other.Theme.Primary)
	setString(&c.Theme.Accent, other.Theme.Accent)
	setString(&c.Theme.Muted, other.Theme.Muted)
	setString(&c.Theme.Background, other.Theme.Background)
	setString(&c.Theme.Text, other.Theme.Text)

	k, o := &c.Keys, &other.Keys
	for dst, src := range map[*string]string{
		&k.Quit: o.Quit, &k.Help: o.Help,
		&k.Up: o.Up, &k.Down: o.Down, &k.Top: o.Top, &k.Bottom: o.Bottom,
		&k.AddTask: o.AddTask, &k.EditTask: o.EditTask, &k.ToggleTask: o.ToggleTask,
		&k.DeleteTask: o.DeleteTask, &k.CopyTask: o.CopyTask,
		&k.PriorityLow: o.PriorityLow, &k.PriorityMed: o.PriorityMed, &k.PriorityHi: o.PriorityHi,
		&k.PriorityMode: o.PriorityMode, &k.DateMode: o.DateMode, &k.ScriptsMode: o.ScriptsMode,
		&k.SortMode: o.SortMode, &k.ReorderMode: o.ReorderMode,
		&k.Confirm: o.Confirm, &k.Cancel: o.Cancel,
	} {
		setString(dst, src)
	}

	if other.UX.StatusTTL > 0 {
		c.UX.StatusTTL = other.UX.StatusTTL
	}
	if other.UX.ScriptStatusTTL > 0 {
		c.UX.ScriptStatusTTL = other.UX.ScriptStatusTTL
	}
	if other.UX.VisibleTasks > 0 {
		c.UX.VisibleTasks = other.UX.VisibleTasks
	}
	setString(&c.UX.Locale, other.UX.Locale)

	setString(&c.Scripts.Dir, other.Scripts.Dir)
	if other.Scripts.Timeout > 0 {
		c.Scripts.Timeout = other.Scripts.Timeout
	}

	setString(&c.Logging.Level, other.Logging.Level)
	setString(&c.Logging.File, other.Logging.File)
}

func setString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Fall back to conservative behavior if we can't inspect presence.
	if doc == nil || len(doc.Content) == 0 {
		if len(other.Scripts.Interpreters) > 0 {
			c.Scripts.Interpreters = other.Scripts.Interpreters
		}
		return
	}

	// Re-apply booleans and maps only when present in YAML.
	if yamlHasPath(doc, "ux", "confirm_deletions") {
		c.UX.ConfirmDeletions = other.UX.ConfirmDeletions
	}
	if yamlHasPath(doc, "ux", "seed_tasks") {
		c.UX.SeedTasks = other.UX.SeedTasks
	}
	if yamlHasPath(doc, "scripts", "interpreters") {
		c.Scripts.Interpreters = normalizeInterpreters(other.Scripts.Interpreters)
	}
}

// normalizeInterpreters lower-cases extensions and adds the leading dot.
func normalizeInterpreters(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for ext, cmd := range in {
		ext = strings.ToLower(strings.TrimSpace(ext))
		cmd = strings.TrimSpace(cmd)
		if ext == "" || cmd == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[ext] = cmd
	}
	return out
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return expandHome(c.DataDir)
}

// GetScriptsDir returns the scripts directory, resolved against the
// working directory when relative.
func (c *Config) GetScriptsDir() string {
	dir := c.Scripts.Dir
	if dir == "" {
		dir = "scripts"
	}
	dir = expandHome(dir)
	if filepath.IsAbs(dir) {
		return dir
	}
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, dir)
	}
	return dir
}

// GetLogFile returns the log file used while the TUI runs.
func (c *Config) GetLogFile() string {
	if c.Logging.File != "" {
		return expandHome(c.Logging.File)
	}
	return filepath.Join(c.GetDataDir(), "taskline.log")
}

func expandHome(p string) string {
	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return p
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
