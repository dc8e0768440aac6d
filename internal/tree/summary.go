package tree

// Summary holds the counters shown above the board. DueToday, Upcoming and
// Overdue only count pending tasks.
type Summary struct {
	Total     int `json:"total"`
	Main      int `json:"main"`
	Subtasks  int `json:"subtasks"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	DueToday  int `json:"due_today"`
	Upcoming  int `json:"upcoming"`
	Overdue   int `json:"overdue"`
}

// Summary counts the snapshot relative to today, a YYYY-MM-DD date.
func (s Snapshot) Summary(today string) Summary {
	sum := Summary{Total: len(s.tasks)}

	for i, t := range s.tasks {
		if s.placement[i] == placementChild {
			sum.Subtasks++
		} else {
			sum.Main++
		}

		if t.IsCompleted {
			sum.Completed++
			continue
		}
		sum.Pending++

		if t.DueDate == nil {
			continue
		}
		switch due := *t.DueDate; {
		case due == today:
			sum.DueToday++
		case due > today:
			sum.Upcoming++
		default:
			sum.Overdue++
		}
	}

	return sum
}
