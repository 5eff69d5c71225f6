package task

import "time"

// DailyProgress summarizes the tasks that still matter today.
type DailyProgress struct {
	Completed int
	Active    int
}

// Percent returns the completed share of active tasks in [0, 100].
func (p DailyProgress) Percent() int {
	if p.Active == 0 {
		return 0
	}
	return p.Completed * 100 / p.Active
}

// Progress counts tasks due today or later as active. An active task counts
// as completed only when it was finished (last updated) today.
func Progress(tasks []Task, now time.Time) DailyProgress {
	today := Midnight(now)
	var p DailyProgress
	for _, t := range tasks {
		if t.DueDate == nil || Midnight(*t.DueDate).Before(today) {
			continue
		}
		p.Active++
		if t.Completed && sameDay(t.UpdatedAt, now) {
			p.Completed++
		}
	}
	return p
}
