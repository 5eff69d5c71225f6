package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")

	if err := WriteFileAtomic(path, []byte("one"), 0600); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	if err := WriteFileAtomic(path, []byte("two"), 0600); err != nil {
		t.Fatalf("WriteFileAtomic() overwrite error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "two" {
		t.Errorf("content = %q, want %q", got, "two")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("perm = %o, want 600", perm)
		}
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "doc.json")
	if err := WriteFileAtomic(path, []byte("x"), 0600); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestBestEffortBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")

	// Missing source is silently ignored.
	BestEffortBackup(path, 0600)
	if _, err := os.Stat(BackupPath(path)); !os.IsNotExist(err) {
		t.Fatalf("backup created for missing file: %v", err)
	}

	if err := os.WriteFile(path, []byte("v1"), 0600); err != nil {
		t.Fatal(err)
	}
	BestEffortBackup(path, 0600)

	got, err := os.ReadFile(BackupPath(path))
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(got) != "v1" {
		t.Errorf("backup = %q, want v1", got)
	}
}

func TestMoveAside(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(path, []byte("{garbage"), 0600); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2024, 3, 15, 9, 5, 7, 0, time.UTC)
	aside, err := MoveAside(path, now)
	if err != nil {
		t.Fatalf("MoveAside() error = %v", err)
	}
	if want := path + ".corrupt.20240315-090507"; aside != want {
		t.Errorf("aside = %q, want %q", aside, want)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("original still present")
	}

	aside, err = MoveAside(path, now)
	if err != nil || aside != "" {
		t.Errorf("MoveAside() on missing file = %q, %v", aside, err)
	}
}
