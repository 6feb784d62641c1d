package domain

import "slices"

// DefaultColumnOrder is the lane priority used when none is configured.
var DefaultColumnOrder = []string{
	"Backlog",
	"Blocked",
	"In Analysis",
	"To Do",
	"Ready for Engineering",
	"Ready to Start",
	"In Progress",
	"In Validation",
}

// SequenceColumns returns the distinct task states ordered for the board.
// States found in priority come first, in priority order; the rest follow in
// the order they first appear.
func SequenceColumns(tasks []*Task, priority []string) []string {
	seen := make(map[string]struct{}, len(tasks))
	states := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.State]; ok {
			continue
		}
		seen[t.State] = struct{}{}
		states = append(states, t.State)
	}

	slices.SortStableFunc(states, func(a, b string) int {
		ia, ib := slices.Index(priority, a), slices.Index(priority, b)
		switch {
		case ia == -1 && ib == -1:
			return 0
		case ia == -1:
			return 1
		case ib == -1:
			return -1
		}
		return ia - ib
	})
	return states
}

// Lane is one board column with its cards in task order.
type Lane struct {
	State string
	Cards []NoteRef
}

// GroupLanes distributes notes into one lane per column.
// Notes whose state has no column are dropped.
func GroupLanes(refs []NoteRef, columns []string) []Lane {
	lanes := make([]Lane, len(columns))
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		lanes[i].State = c
		index[c] = i
	}
	for _, ref := range refs {
		if i, ok := index[ref.Task.State]; ok {
			lanes[i].Cards = append(lanes[i].Cards, ref)
		}
	}
	return lanes
}
