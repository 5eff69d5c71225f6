package task

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/text/collate"
)

// ErrNoSavedState is returned by a Repository that has never been written.
var ErrNoSavedState = errors.New("no saved state")

// Repository persists the whole ordered collection.
type Repository interface {
	Load(ctx context.Context) ([]Task, error)
	Save(ctx context.Context, tasks []Task) error
}

// Store owns the ordered task collection and the selection. Mutating methods
// must be called from a single goroutine (the UI event loop); Fetch is the
// only method safe to call concurrently with them.
type Store struct {
	tasks    []Task
	selected int

	repo     Repository
	logger   *log.Logger
	now      func() time.Time
	newID    func() string
	collator *collate.Collator
	revision uint64
}

// NewStore creates an empty store backed by repo. Call Open to load.
func NewStore(repo Repository, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		repo:     repo,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
		collator: NewCollator("en"),
	}
}

// SetNowFunc overrides the clock (useful for tests).
func (s *Store) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// SetIDFunc overrides id generation (useful for tests).
func (s *Store) SetIDFunc(newID func() string) {
	if newID == nil {
		newID = uuid.NewString
	}
	s.newID = newID
}

// SetLocale selects the collation used by SortAlphabetically.
func (s *Store) SetLocale(locale string) {
	s.collator = NewCollator(locale)
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Open loads the saved collection. When nothing was ever saved and seed is
// true, the default tasks are installed and persisted. Any other load error
// leaves the store empty and is returned for the caller to report.
func (s *Store) Open(ctx context.Context, seed bool) error {
	tasks, err := s.repo.Load(ctx)
	switch {
	case err == nil:
		s.Restore(tasks)
		return nil
	case errors.Is(err, ErrNoSavedState):
		if seed {
			s.Restore(DefaultTasks(s.now(), s.newID))
			s.persist()
		}
		return nil
	default:
		s.Restore(nil)
		return fmt.Errorf("load tasks: %w", err)
	}
}

// Tasks returns a copy of the collection in display order.
func (s *Store) Tasks() []Task {
	return cloneAll(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Selected returns the selected index. ok is false when the store is empty.
func (s *Store) Selected() (int, bool) {
	if len(s.tasks) == 0 {
		return 0, false
	}
	return s.selected, true
}

// SelectedTask returns a copy of the selected task.
func (s *Store) SelectedTask() (Task, bool) {
	i, ok := s.Selected()
	if !ok {
		return Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// SelectID moves the selection to the task with id, if present.
func (s *Store) SelectID(id string) bool {
	for i, t := range s.tasks {
		if t.ID == id {
			s.selected = i
			return true
		}
	}
	return false
}

// Revision increases every time the collection is persisted.
func (s *Store) Revision() uint64 {
	return s.revision
}

func (s *Store) NavigateUp() {
	if s.selected > 0 {
		s.selected--
	}
}

func (s *Store) NavigateDown() {
	if s.selected < len(s.tasks)-1 {
		s.selected++
	}
}

func (s *Store) NavigateTop() {
	s.selected = 0
}

func (s *Store) NavigateBottom() {
	s.selected = max(len(s.tasks)-1, 0)
}

// Toggle flips completion of the selected task and returns the new value.
func (s *Store) Toggle() (completed bool, ok bool) {
	t := s.current()
	if t == nil {
		return false, false
	}
	t.Completed = !t.Completed
	t.UpdatedAt = s.now()
	s.persist()
	return t.Completed, true
}

// Add appends a task with medium priority due today. Blank text is rejected.
func (s *Store) Add(text string) (Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false
	}
	now := s.now()
	due := Midnight(now)
	t := Task{
		ID:        s.newID(),
		Text:      text,
		Priority:  PriorityMedium,
		DueDate:   &due,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.tasks = append(s.tasks, t)
	s.persist()
	return t.Clone(), true
}

// Edit replaces the text of the selected task. Blank text is rejected.
func (s *Store) Edit(text string) bool {
	text = strings.TrimSpace(text)
	t := s.current()
	if t == nil || text == "" {
		return false
	}
	t.Text = text
	t.UpdatedAt = s.now()
	s.persist()
	return true
}

// Delete removes the selected task and clamps the selection.
func (s *Store) Delete() (Task, bool) {
	i, ok := s.Selected()
	if !ok {
		return Task{}, false
	}
	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.clampSelection()
	s.persist()
	return removed, true
}

// SetPriority sets the priority of the selected task.
func (s *Store) SetPriority(p Priority) bool {
	t := s.current()
	if t == nil || !p.Valid() {
		return false
	}
	t.Priority = p
	t.UpdatedAt = s.now()
	s.persist()
	return true
}

// SetDueDate resolves term and stores it on the selected task. An
// unparseable term clears the due date. The returned pointer is nil when the
// date was cleared.
func (s *Store) SetDueDate(term string) (*time.Time, bool) {
	t := s.current()
	if t == nil {
		return nil, false
	}
	now := s.now()
	if due, ok := ParseDateTerm(term, now); ok {
		t.DueDate = &due
	} else {
		t.DueDate = nil
	}
	t.UpdatedAt = now
	s.persist()
	if t.DueDate == nil {
		return nil, true
	}
	due := *t.DueDate
	return &due, true
}

// Sort reorders the collection. The selected index is left where it was.
func (s *Store) Sort(by SortType) bool {
	if len(s.tasks) <= 1 {
		return false
	}
	now := s.now()
	for i := range s.tasks {
		if s.tasks[i].CreatedAt.IsZero() || s.tasks[i].UpdatedAt.IsZero() {
			fillTimestamps(&s.tasks[i], now)
		}
	}
	switch by {
	case SortPriority:
		SortByPriority(s.tasks)
	case SortAlphabetical:
		SortAlphabetically(s.tasks, s.collator)
	case SortDueDate:
		SortByDueDate(s.tasks)
	case SortCreatedAt:
		SortByCreatedAt(s.tasks)
	default:
		return false
	}
	s.persist()
	return true
}

func (s *Store) SortByPriority() bool     { return s.Sort(SortPriority) }
func (s *Store) SortAlphabetically() bool { return s.Sort(SortAlphabetical) }
func (s *Store) SortByDueDate() bool      { return s.Sort(SortDueDate) }
func (s *Store) SortByCreatedAt() bool    { return s.Sort(SortCreatedAt) }

// MoveUp swaps the selected task with the one above it. The change is not
// persisted until Commit.
func (s *Store) MoveUp() bool {
	i, ok := s.Selected()
	if !ok || i == 0 {
		return false
	}
	s.tasks[i-1], s.tasks[i] = s.tasks[i], s.tasks[i-1]
	s.selected = i - 1
	return true
}

// MoveDown swaps the selected task with the one below it. The change is not
// persisted until Commit.
func (s *Store) MoveDown() bool {
	i, ok := s.Selected()
	if !ok || i >= len(s.tasks)-1 {
		return false
	}
	s.tasks[i+1], s.tasks[i] = s.tasks[i], s.tasks[i+1]
	s.selected = i + 1
	return true
}

// Commit persists the current order.
func (s *Store) Commit() {
	s.persist()
}

// Append adds already-built tasks (for example from an import) and persists
// once. It returns the number of tasks kept after normalization.
func (s *Store) Append(tasks ...Task) int {
	if len(tasks) == 0 {
		return 0
	}
	existing := make(map[string]bool, len(s.tasks))
	for _, t := range s.tasks {
		existing[t.ID] = true
	}
	for i := range tasks {
		if existing[tasks[i].ID] {
			tasks[i].ID = ""
		}
	}
	added := Normalize(tasks, s.now(), s.newID)
	s.tasks = append(s.tasks, added...)
	s.persist()
	return len(added)
}

// Fetch reads the last persisted collection without touching the store.
func (s *Store) Fetch(ctx context.Context) ([]Task, error) {
	tasks, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Normalize(tasks, s.now(), s.newID), nil
}

// Restore replaces the in-memory collection without persisting it.
func (s *Store) Restore(tasks []Task) {
	s.tasks = cloneAll(tasks)
	s.clampSelection()
}

// Rehydrate reloads the collection from the repository, discarding any
// unpersisted changes.
func (s *Store) Rehydrate(ctx context.Context) error {
	tasks, err := s.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("rehydrate: %w", err)
	}
	s.Restore(tasks)
	return nil
}

func (s *Store) current() *Task {
	if s.selected < 0 || s.selected >= len(s.tasks) {
		return nil
	}
	return &s.tasks[s.selected]
}

func (s *Store) clampSelection() {
	if len(s.tasks) == 0 {
		s.selected = 0
		return
	}
	s.selected = min(max(s.selected, 0), len(s.tasks)-1)
}

// persist writes the collection through. Failures are logged; the in-memory
// state stays authoritative.
func (s *Store) persist() {
	s.revision++
	if err := s.repo.Save(context.Background(), cloneAll(s.tasks)); err != nil {
		s.logger.Error("save tasks", "err", err, "count", len(s.tasks))
	}
}
