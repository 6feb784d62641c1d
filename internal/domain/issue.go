package domain

import "fmt"

// Issue is one record returned by the remote tracker search.
type Issue struct {
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

// IssueFields holds the issue fields the sync consumes.
// Sprints is decoded from a configurable custom field by the tracker client.
// Fields are ordered to minimize memory padding.
type IssueFields struct {
	Status      *NamedValue `json:"status"`
	IssueType   *NamedValue `json:"issuetype"`
	Assignee    *User       `json:"assignee"`
	Description *Document   `json:"description"`
	Summary     string      `json:"summary"`
	Sprints     []Sprint    `json:"-"`
}

// NamedValue is a remote object identified by its name (status, issue type).
type NamedValue struct {
	Name string `json:"name"`
}

func (v *NamedValue) nameOrEmpty() string {
	if v == nil {
		return ""
	}
	return v.Name
}

// User is a remote account.
type User struct {
	DisplayName string `json:"displayName"`
}

// Document is a rich-text document body.
type Document struct {
	Content []Node `json:"content"`
}

// Sprint is a named iteration the issue belongs to.
type Sprint struct {
	Name string `json:"name"`
}

// Validate reports ErrMalformedPayload when a record lacks the fields every
// issue is expected to carry.
func (i Issue) Validate() error {
	switch {
	case i.Key == "":
		return fmt.Errorf("issue without key: %w", ErrMalformedPayload)
	case i.Fields.Status == nil:
		return fmt.Errorf("issue %s has no status: %w", i.Key, ErrMalformedPayload)
	case i.Fields.IssueType == nil:
		return fmt.Errorf("issue %s has no issue type: %w", i.Key, ErrMalformedPayload)
	}
	return nil
}
