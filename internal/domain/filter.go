package domain

import (
	"slices"
	"strings"
)

// FilterPolicy decides which mapped tasks stay on the board.
//
// A task is dropped when its state is one of ExcludedStates, whoever it is
// assigned to, or when its assignee contains AssigneeSubstring and its state
// equals GatedState. Only GatedState is gated by the assignee. An empty
// AssigneeSubstring disables the gated rule.
type FilterPolicy struct {
	AssigneeSubstring string
	GatedState        string
	ExcludedStates    []string
}

// Excludes reports whether the policy drops the task.
func (p FilterPolicy) Excludes(t *Task) bool {
	gated := p.AssigneeSubstring != "" &&
		strings.Contains(t.AssignedTo, p.AssigneeSubstring) &&
		t.State == p.GatedState
	return gated || slices.Contains(p.ExcludedStates, t.State)
}

// FilterActive returns the tasks the policy keeps, in input order.
func FilterActive(tasks []*Task, p FilterPolicy) []*Task {
	active := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if !p.Excludes(t) {
			active = append(active, t)
		}
	}
	return active
}
