package task

import (
	"testing"
	"time"
)

func at(day int) *time.Time {
	d := time.Date(2024, time.March, day, 0, 0, 0, 0, time.Local)
	return &d
}

func TestSortByPriority_Stable(t *testing.T) {
	tasks := []Task{
		{Text: "a", Priority: PriorityLow},
		{Text: "b", Priority: PriorityHigh},
		{Text: "c"},
		{Text: "d", Priority: PriorityMedium},
		{Text: "e", Priority: PriorityHigh},
		{Text: "f", Priority: PriorityLow},
	}
	SortByPriority(tasks)

	want := []string{"b", "e", "d", "a", "f", "c"}
	if got := texts(tasks); !equalStrings(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSortAlphabetically(t *testing.T) {
	tasks := []Task{{Text: "banana"}, {Text: "Apple"}, {Text: "cherry"}, {Text: "apple"}}
	SortAlphabetically(tasks, NewCollator("en"))

	got := texts(tasks)
	if got[2] != "banana" || got[3] != "cherry" {
		t.Fatalf("order = %v", got)
	}
	for _, s := range got[:2] {
		if s != "Apple" && s != "apple" {
			t.Errorf("order = %v, want apples first", got)
		}
	}
}

func TestSortAlphabetically_NilCollator(t *testing.T) {
	tasks := []Task{{Text: "b"}, {Text: "A"}, {Text: "c"}}
	SortAlphabetically(tasks, nil)
	if got := texts(tasks); !equalStrings(got, []string{"A", "b", "c"}) {
		t.Errorf("order = %v", got)
	}
}

func TestSortByDueDate_NullsLast(t *testing.T) {
	tasks := []Task{
		{Text: "none-1"},
		{Text: "late", DueDate: at(20)},
		{Text: "none-2"},
		{Text: "early", DueDate: at(2)},
		{Text: "mid", DueDate: at(10)},
	}
	SortByDueDate(tasks)

	want := []string{"early", "mid", "late", "none-1", "none-2"}
	if got := texts(tasks); !equalStrings(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSortByCreatedAt_NewestFirst(t *testing.T) {
	base := fixedNow()
	tasks := []Task{
		{Text: "old", CreatedAt: base.Add(-2 * time.Hour)},
		{Text: "new", CreatedAt: base},
		{Text: "mid", CreatedAt: base.Add(-time.Hour)},
	}
	SortByCreatedAt(tasks)

	want := []string{"new", "mid", "old"}
	if got := texts(tasks); !equalStrings(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestStoreSort_DoesNotTouchUpdatedAt(t *testing.T) {
	s, repo := newTestStore(t)
	addAll(t, s, "b", "a")
	before := s.Tasks()

	later := fixedNow().Add(time.Hour)
	s.SetNowFunc(func() time.Time { return later })
	if !s.SortAlphabetically() {
		t.Fatal("SortAlphabetically() returned false")
	}

	after := s.Tasks()
	if after[0].Text != "a" {
		t.Fatalf("order = %v", texts(after))
	}
	for _, a := range after {
		for _, b := range before {
			if a.ID == b.ID && !a.UpdatedAt.Equal(b.UpdatedAt) {
				t.Errorf("task %s UpdatedAt changed by sort", a.ID)
			}
		}
	}
	if repo.saves != 3 {
		t.Errorf("saves = %d, want 3", repo.saves)
	}
}

func TestStoreSort_SingleTaskNoop(t *testing.T) {
	s, repo := newTestStore(t)
	addAll(t, s, "only")
	if s.SortByPriority() {
		t.Error("sorting one task should be a no-op")
	}
	if repo.saves != 1 {
		t.Errorf("saves = %d, want 1", repo.saves)
	}
}

func TestStoreSort_FillsMissingTimestamps(t *testing.T) {
	s, _ := newTestStore(t)
	s.Restore([]Task{{ID: "x", Text: "x"}, {ID: "y", Text: "y"}})
	s.SortByCreatedAt()
	for _, task := range s.Tasks() {
		if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
			t.Errorf("task %s still has zero timestamps", task.ID)
		}
	}
}
