// Package domain contains core business entities and interfaces.
package domain

import "strings"

// Sentinel values for optional remote fields.
const (
	UnassignedName = "Unassigned"
	NoSprintName   = "No Name"
)

// Task is the canonical form of one remote issue.
// It is rebuilt on every sync run; the note file is the only durable copy.
// Fields are ordered to minimize memory padding.
type Task struct {
	ID         string // Remote issue key, join key for the local note
	State      string // Workflow status name
	Title      string // Issue summary
	Type       string // Issue category
	AssignedTo string // Assignee display name or UnassignedName
	Link       string // Browse URL of the remote issue
	Desc       string // Flattened plain-text description
	SprintName string // First sprint name or NoSprintName
}

// ToTask maps a remote issue onto a Task. It never fails: missing optional
// fields resolve to their sentinels.
func ToTask(issue Issue, baseURL string) *Task {
	f := issue.Fields

	assignee := UnassignedName
	if f.Assignee != nil {
		assignee = f.Assignee.DisplayName
	}

	var description []Node
	if f.Description != nil {
		description = f.Description.Content
	}

	sprint := NoSprintName
	if len(f.Sprints) > 0 {
		sprint = f.Sprints[0].Name
	}

	return &Task{
		ID:         issue.Key,
		State:      f.Status.nameOrEmpty(),
		Title:      f.Summary,
		Type:       f.IssueType.nameOrEmpty(),
		AssignedTo: assignee,
		Link:       IssueLink(baseURL, issue.Key),
		Desc:       ExtractText(description),
		SprintName: sprint,
	}
}

// IssueLink returns the browse URL for an issue key.
// A base URL without a scheme is served over https.
func IssueLink(baseURL, key string) string {
	return SiteURL(baseURL) + "/browse/" + key
}

// SiteURL normalizes a configured base URL into scheme://host[/path].
func SiteURL(baseURL string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if strings.Contains(base, "://") {
		return base
	}
	return "https://" + base
}
