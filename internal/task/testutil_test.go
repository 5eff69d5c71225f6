package task

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// memRepo is an in-memory Repository that records saves.
type memRepo struct {
	saved   []Task
	hasData bool
	saves   int
	loadErr error
	saveErr error
}

func (r *memRepo) Load(ctx context.Context) ([]Task, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if !r.hasData {
		return nil, ErrNoSavedState
	}
	return cloneAll(r.saved), nil
}

func (r *memRepo) Save(ctx context.Context, tasks []Task) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.hasData = true
	r.saved = cloneAll(tasks)
	return nil
}

var errDisk = errors.New("disk full")

// fixedNow is 2024-03-15 14:30 local time.
func fixedNow() time.Time {
	return time.Date(2024, time.March, 15, 14, 30, 0, 0, time.Local)
}

// newTestStore returns an empty store on a fixed clock with sequential ids.
func newTestStore(t *testing.T) (*Store, *memRepo) {
	t.Helper()
	repo := &memRepo{}
	s := NewStore(repo, nil)
	now := fixedNow()
	s.SetNowFunc(func() time.Time { return now })
	n := 0
	s.SetIDFunc(func() string {
		n++
		return fmt.Sprintf("t%d", n)
	})
	if err := s.Open(context.Background(), false); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s, repo
}

func addAll(t *testing.T, s *Store, texts ...string) {
	t.Helper()
	for _, text := range texts {
		if _, ok := s.Add(text); !ok {
			t.Fatalf("Add(%q) rejected", text)
		}
	}
}

func texts(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Text
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
