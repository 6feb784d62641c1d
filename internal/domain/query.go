package domain

import "strings"

// DefaultTerminalStatuses are the workflow states never fetched from the tracker.
var DefaultTerminalStatuses = []string{"Closed", "Rejected", "Done", "Deployed", "Live"}

// DefaultMaxResults bounds the number of issues fetched per run.
const DefaultMaxResults = 1000

// ParseUsernames splits the configured assignee list.
// Entries are separated by ",\n"; each is trimmed and loses one leading and
// one trailing character (the surrounding quotes). Entries that end up empty
// are dropped, so a blank setting yields an empty list.
func ParseUsernames(raw string) []string {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if raw == "" {
		return nil
	}

	var names []string
	for _, entry := range strings.Split(raw, ",\n") {
		r := []rune(strings.TrimSpace(entry))
		if len(r) < 2 {
			continue
		}
		if name := string(r[1 : len(r)-1]); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// BuildJQL builds the search query for issues assigned to any of usernames
// and not in a terminal status, newest first.
func BuildJQL(usernames, terminalStatuses []string) string {
	clauses := make([]string, len(usernames))
	for i, u := range usernames {
		clauses[i] = "assignee=" + u
	}
	return "(" + strings.Join(clauses, " OR ") + ") AND status NOT IN (" +
		strings.Join(terminalStatuses, ", ") + ") ORDER BY created DESC"
}
