package task

import "time"

// DefaultTasks is the starter list installed on first run.
func DefaultTasks(now time.Time, newID func() string) []Task {
	today := Midnight(now)
	day := func(offset int) *time.Time {
		d := today.AddDate(0, 0, offset)
		return &d
	}
	return []Task{
		{ID: newID(), Text: "Press space to complete a task", Priority: PriorityHigh, DueDate: day(0), CreatedAt: now, UpdatedAt: now},
		{ID: newID(), Text: "Add your first task with a", Completed: true, Priority: PriorityMedium, DueDate: day(-1), CreatedAt: now, UpdatedAt: now},
		{ID: newID(), Text: "Reorder tasks with tab", Priority: PriorityLow, DueDate: day(1), CreatedAt: now, UpdatedAt: now},
		{ID: newID(), Text: "Sort the list with o", Priority: PriorityMedium, DueDate: day(7), CreatedAt: now, UpdatedAt: now},
		{ID: newID(), Text: "Drop helper scripts into ./scripts", Priority: PriorityHigh, CreatedAt: now, UpdatedAt: now},
	}
}
