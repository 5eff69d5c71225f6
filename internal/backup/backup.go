// Package backup keeps timestamped copies of the task store next to the
// data directory and restores them on request.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"taskline/internal/fsutil"
	"taskline/internal/storage"
)

// Version constants for the backup format.
const (
	ManifestVersion = "1.0"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"

	nameLayout = "2006-01-02_150405"
	nameLength = len(nameLayout) + 4
)

// dataFiles lists what a backup may contain. Either backend may be absent.
var dataFiles = []string{storage.DocumentName, storage.DatabaseName}

// ErrNoBackups is returned by RestoreLatest when nothing has been saved.
var ErrNoBackups = errors.New("no backups available")

// Manager creates, lists, prunes and restores backups.
type Manager struct {
	dataDir    string
	backupDir  string
	appVersion string
	now        func() time.Time
}

// Manifest describes one backup directory.
type Manifest struct {
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	AppVersion string    `json:"app_version"`
	Files      []string  `json:"files"`
	Tasks      int       `json:"tasks"`
}

// Info summarizes a backup for listing.
type Info struct {
	Name      string // 2024-03-15_143022_123
	Path      string
	CreatedAt time.Time
	Files     []string
	Tasks     int
}

// NewManager returns a manager for dataDir. Backups live in dataDir/backups.
func NewManager(dataDir, appVersion string) *Manager {
	return &Manager{
		dataDir:    dataDir,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
		now:        time.Now,
	}
}

// SetNowFunc overrides the clock used to name backups.
func (m *Manager) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	m.now = now
}

// Dir returns the directory holding backups.
func (m *Manager) Dir() string {
	return m.backupDir
}

// Create copies every present data file into a new backup and returns its
// name.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name, createdAt, err := m.reserve()
	if err != nil {
		return "", err
	}
	backupPath := filepath.Join(m.backupDir, name)

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  createdAt,
		AppVersion: m.appVersion,
		Files:      []string{},
	}
	for _, filename := range dataFiles {
		src := filepath.Join(m.dataDir, filename)
		if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := copyFileAtomic(src, filepath.Join(backupPath, filename)); err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to copy %s: %w", filename, err)
		}
		manifest.Files = append(manifest.Files, filename)
		if filename == storage.DocumentName {
			if n, err := countTasks(src); err == nil {
				manifest.Tasks = n
			}
		}
	}

	if err := writeJSON(filepath.Join(backupPath, ManifestFile), manifest); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return name, nil
}

// reserve creates an empty backup directory with a unique name. Two
// backups in the same millisecond get consecutive names.
func (m *Manager) reserve() (string, time.Time, error) {
	at := m.now().Truncate(time.Millisecond)
	for range 1000 {
		name := formatName(at)
		err := os.Mkdir(filepath.Join(m.backupDir, name), 0700)
		if err == nil {
			return name, at, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", time.Time{}, fmt.Errorf("failed to create backup: %w", err)
		}
		at = at.Add(time.Millisecond)
	}
	return "", time.Time{}, fmt.Errorf("failed to create backup: too many backups at %s", at.Format(nameLayout))
}

// List returns all backups, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.info(entry.Name())
		if err != nil {
			continue
		}
		backups = append(backups, info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Get returns information about one backup.
func (m *Manager) Get(name string) (Info, error) {
	if err := validateName(name); err != nil {
		return Info{}, err
	}
	if _, err := os.Stat(filepath.Join(m.backupDir, name)); errors.Is(err, os.ErrNotExist) {
		return Info{}, fmt.Errorf("backup not found: %s", name)
	}
	return m.info(name)
}

// info reads a backup's manifest, falling back to the timestamp in its name.
func (m *Manager) info(name string) (Info, error) {
	path := filepath.Join(m.backupDir, name)

	var manifest Manifest
	if err := readJSON(filepath.Join(path, ManifestFile), &manifest); err != nil {
		createdAt, perr := parseName(name)
		if perr != nil {
			return Info{}, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = createdAt
	}
	return Info{
		Name:      name,
		Path:      path,
		CreatedAt: manifest.CreatedAt,
		Files:     manifest.Files,
		Tasks:     manifest.Tasks,
	}, nil
}

// Restore copies a backup over the data directory after taking a safety
// backup of the current state. It returns the safety backup's name.
func (m *Manager) Restore(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("backup not found: %s", name)
	}

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		manifest.Files = dataFiles
	}

	// Validate before touching the live files.
	for _, filename := range manifest.Files {
		if filename != storage.DocumentName {
			continue
		}
		if err := validateJSON(filepath.Join(backupPath, filename)); err != nil {
			return "", fmt.Errorf("backup %s has an invalid %s: %w", name, filename, err)
		}
	}

	safety, err := m.Create()
	if err != nil {
		return "", fmt.Errorf("failed to create safety backup: %w", err)
	}

	for _, filename := range manifest.Files {
		if !isDataFile(filename) {
			continue
		}
		src := filepath.Join(backupPath, filename)
		if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := copyFileAtomic(src, filepath.Join(m.dataDir, filename)); err != nil {
			return safety, fmt.Errorf("failed to restore %s (safety backup: %s): %w", filename, safety, err)
		}
	}
	return safety, nil
}

// RestoreLatest restores the newest backup.
func (m *Manager) RestoreLatest() (restored, safety string, err error) {
	backups, err := m.List()
	if err != nil {
		return "", "", err
	}
	if len(backups) == 0 {
		return "", "", ErrNoBackups
	}
	safety, err = m.Restore(backups[0].Name)
	return backups[0].Name, safety, err
}

// Delete removes one backup.
func (m *Manager) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	path := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("backup not found: %s", name)
	}
	return os.RemoveAll(path)
}

// Prune keeps the keep newest backups and deletes the rest.
func (m *Manager) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be non-negative")
	}
	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keep:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func isDataFile(name string) bool {
	for _, f := range dataFiles {
		if f == name {
			return true
		}
	}
	return false
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

func formatName(t time.Time) string {
	return fmt.Sprintf("%s_%03d", t.Format(nameLayout), t.Nanosecond()/int(time.Millisecond))
}

// parseName accepts 2006-01-02_150405 with or without a _mmm suffix.
func parseName(name string) (time.Time, error) {
	if len(name) != nameLength {
		return time.ParseInLocation(nameLayout, name, time.Local)
	}
	base, err := time.ParseInLocation(nameLayout, name[:len(nameLayout)], time.Local)
	if err != nil {
		return time.Time{}, err
	}
	if name[len(nameLayout)] != '_' {
		return time.Time{}, fmt.Errorf("invalid backup format")
	}
	ms, err := strconv.Atoi(name[len(nameLayout)+1:])
	if err != nil || ms < 0 || ms > 999 {
		return time.Time{}, fmt.Errorf("invalid milliseconds")
	}
	return base.Add(time.Duration(ms) * time.Millisecond), nil
}

func copyFileAtomic(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(dst, data, 0600)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func validateJSON(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var v any
	return json.Unmarshal(data, &v)
}

// countTasks understands both the current document and the older envelope
// that nested tasks under "state".
func countTasks(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var doc struct {
		Tasks []json.RawMessage `json:"tasks"`
		State struct {
			Tasks []json.RawMessage `json:"tasks"`
		} `json:"state"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, err
	}
	if doc.Tasks != nil {
		return len(doc.Tasks), nil
	}
	return len(doc.State.Tasks), nil
}
