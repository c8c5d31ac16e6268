package vps

import "strings"

// ParseApplications splits the comma separated form input, trimming every entry
// and dropping the empty ones left by doubled or trailing commas.
func ParseApplications(s string) []string {
	apps := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if app := strings.TrimSpace(part); app != "" {
			apps = append(apps, app)
		}
	}
	return apps
}

// JoinApplications renders a list back into the form's input format.
func JoinApplications(apps []string) string {
	return strings.Join(apps, ", ")
}
