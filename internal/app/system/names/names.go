// internal/app/system/names/names.go

// Package names builds canonical display names from name parts. Students,
// instructors, and non-teaching staff all use the same rule, so dependent
// collections always cache the same string for the same person.
package names

import "strings"

// Display joins the given name parts with single spaces, skipping empty or
// whitespace-only parts, and trims the result.
func Display(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
